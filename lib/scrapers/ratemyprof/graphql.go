package ratemyprof

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/ratemyprof")

type graphqlQueryObject struct {
	Name      string `json:"operationName"`
	Variables any    `json:"variables"`
	Query     string `json:"query"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResult[Data any] struct {
	Data   Data           `json:"data"`
	Errors []graphqlError `json:"errors"`

	raw []byte
}

// truncation limit for response bodies quoted in diagnostics
const maxBodyDump = 500

func truncateBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) <= maxBodyDump {
		return s
	}
	// back up to a rune boundary so the dump stays valid utf-8
	cut := maxBodyDump
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func formatGraphqlErrors(errs []graphqlError) string {
	serialized, err := json.MarshalIndent(errs, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", errs)
	}
	return string(serialized)
}

func graphqlQuery[Input, Output any](
	ctx context.Context,
	client *resty.Client,
	name,
	query string,
	variables Input,
) (graphqlResult[Output], error) {
	ctx, span := tracer.Start(ctx, fmt.Sprintf("graphql:%s", name))
	defer span.End()

	obj := graphqlQueryObject{
		Name:      name,
		Query:     query,
		Variables: variables,
	}

	span.SetAttributes(attribute.KeyValue{
		Key:   "custom.name",
		Value: attribute.StringValue(name),
	})
	serialized, err := json.Marshal(variables)
	if err == nil {
		span.SetAttributes(attribute.KeyValue{
			Key:   "custom.variables",
			Value: attribute.StringValue(string(serialized)),
		})
	}

	var result graphqlResult[Output]

	body, err := json.Marshal(obj)
	if err != nil {
		span.SetStatus(codes.Error, "failed to serialize json query")
		return result, err
	}

	res, err := client.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json").
		SetBody(body).
		Post("/graphql")
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch")
		return result, err
	}
	if res.StatusCode() != http.StatusOK {
		err = fmt.Errorf(
			"request failed with status code %d: %s",
			res.StatusCode(), truncateBody(res.Body()),
		)
		span.SetStatus(codes.Error, "unexpected status code")
		return result, err
	}

	err = json.Unmarshal(res.Body(), &result)
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse json response")
		return result, fmt.Errorf(
			"failed to parse json response: %w: %s",
			err, truncateBody(res.Body()),
		)
	}
	result.raw = res.Body()

	return result, nil
}
