package ratemyprof

import (
	"net/http/cookiejar"
	"time"

	"rmpscrape/lib/restyutil"
	"rmpscrape/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

const DefaultBaseUrl = "https://www.ratemyprofessors.com"

// the upstream caps a search page at 100 edges, requesting more
// would require pagination
const DefaultMaxProfessors = 100

const DefaultCourtesyDelay = time.Second

type ClientOptions struct {
	// defaults to DefaultBaseUrl
	BaseUrl string
	// pause applied once per search attempt whether it succeeds or
	// fails. zero means DefaultCourtesyDelay, negative disables it.
	CourtesyDelay time.Duration
}

type Client struct {
	http  *resty.Client
	delay time.Duration
}

func NewClient(opts ClientOptions) (*Client, error) {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	client.SetHeader("accept", "*/*")
	client.SetHeader("origin", baseUrl)
	client.SetHeader("referer", baseUrl+"/")

	telemetry.InstrumentResty(client, "scrapers/ratemyprof/http")

	delay := opts.CourtesyDelay
	if delay == 0 {
		delay = DefaultCourtesyDelay
	}
	if delay < 0 {
		delay = 0
	}

	return &Client{http: client, delay: delay}, nil
}

func (c *Client) SetInstrumentOutput(output restyutil.InstrumentOutput) {
	restyutil.InstrumentClient(c.http, output)
}

func (c *Client) courtesyPause() {
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
}
