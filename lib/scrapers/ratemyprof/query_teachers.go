package ratemyprof

import (
	"context"
	"fmt"
)

const teacherSearchQuery = `query TeacherSearchResultsPageQuery(
  $query: TeacherSearchQuery!
) {
  search: newSearch {
    teachers(query: $query, first: 100) {
      edges {
        cursor
        node {
          id
          firstName
          lastName
          school {
            name
            id
          }
          avgRating
          numRatings
          department
          wouldTakeAgainPercent
          avgDifficulty
        }
      }
      pageInfo {
        hasNextPage
        endCursor
      }
    }
  }
}`

type teacherSearchInput struct {
	Query teacherSearchFilter `json:"query"`
}

type teacherSearchFilter struct {
	Text         string  `json:"text"`
	SchoolID     string  `json:"schoolID"`
	Fallback     bool    `json:"fallback"`
	DepartmentID *string `json:"departmentID"`
}

type teacherSchool struct {
	Name *string `json:"name"`
	Id   *string `json:"id"`
}

// every field is optional, upstream data is frequently incomplete
type teacherNode struct {
	Id                    *string        `json:"id"`
	FirstName             *string        `json:"firstName"`
	LastName              *string        `json:"lastName"`
	School                *teacherSchool `json:"school"`
	AvgRating             *float64       `json:"avgRating"`
	NumRatings            *int64         `json:"numRatings"`
	Department            *string        `json:"department"`
	WouldTakeAgainPercent *float64       `json:"wouldTakeAgainPercent"`
	AvgDifficulty         *float64       `json:"avgDifficulty"`
}

type teacherEdge struct {
	Cursor string       `json:"cursor"`
	Node   *teacherNode `json:"node"`
}

type teacherSearchData struct {
	Search *struct {
		Teachers *struct {
			Edges []teacherEdge `json:"edges"`
		} `json:"teachers"`
	} `json:"search"`
}

// Professor is the flat record shape written to the output file. Every
// field is independently nullable. WouldTakeAgainPercent may carry a
// negative sentinel from upstream meaning "no data", it is stored
// verbatim.
type Professor struct {
	Id                    *string  `json:"id"`
	FirstName             *string  `json:"first_name"`
	LastName              *string  `json:"last_name"`
	School                *string  `json:"school"`
	SchoolId              *string  `json:"school_id"`
	AvgRating             *float64 `json:"avg_rating"`
	NumRatings            *int64   `json:"num_ratings"`
	Department            *string  `json:"department"`
	WouldTakeAgainPercent *float64 `json:"would_take_again_percent"`
	AvgDifficulty         *float64 `json:"avg_difficulty"`
}

type SearchTeachersRequest struct {
	// opaque upstream-assigned school identifier
	SchoolID string
	// caps the number of records returned, defaults to
	// DefaultMaxProfessors when <= 0
	Max int
}

// SearchTeachers issues one teacher search against the graphql endpoint
// and projects the result edges, in the order they were returned, into
// flat Professor records. At most req.Max records are returned even if
// the page carries more edges; subsequent pages are never requested.
func (c *Client) SearchTeachers(ctx context.Context, req SearchTeachersRequest) ([]Professor, error) {
	defer c.courtesyPause()

	max := req.Max
	if max <= 0 {
		max = DefaultMaxProfessors
	}

	result, err := graphqlQuery[teacherSearchInput, teacherSearchData](
		ctx, c.http,
		"TeacherSearchResultsPageQuery", teacherSearchQuery,
		teacherSearchInput{
			Query: teacherSearchFilter{
				Text:         "",
				SchoolID:     req.SchoolID,
				Fallback:     true,
				DepartmentID: nil,
			},
		},
	)
	if err != nil {
		return nil, err
	}

	if result.Data.Search == nil || result.Data.Search.Teachers == nil {
		if len(result.Errors) > 0 {
			return nil, fmt.Errorf(
				"no search results found in response, api errors: %s",
				formatGraphqlErrors(result.Errors),
			)
		}
		return nil, fmt.Errorf(
			"unexpected response structure: %s",
			truncateBody(result.raw),
		)
	}

	edges := result.Data.Search.Teachers.Edges
	records := make([]Professor, 0, min(len(edges), max))
	for _, edge := range edges {
		if len(records) >= max {
			break
		}
		if edge.Node == nil {
			continue
		}
		records = append(records, projectNode(edge.Node))
	}

	return records, nil
}

func projectNode(node *teacherNode) Professor {
	record := Professor{
		Id:                    node.Id,
		FirstName:             node.FirstName,
		LastName:              node.LastName,
		AvgRating:             node.AvgRating,
		NumRatings:            node.NumRatings,
		Department:            node.Department,
		WouldTakeAgainPercent: node.WouldTakeAgainPercent,
		AvgDifficulty:         node.AvgDifficulty,
	}
	if node.School != nil {
		record.School = node.School.Name
		record.SchoolId = node.School.Id
	}
	return record
}
