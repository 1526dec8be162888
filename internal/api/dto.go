package api

import (
	"github.com/voidwyrm/revw/internal/docservice"
	"github.com/voidwyrm/revw/internal/index"
)

// DocumentDetail is the full document response type (aliased from the
// domain layer).
type DocumentDetail = docservice.DocumentDetail

// ListItem is a lightweight item in a list response (aliased from the
// domain layer).
type ListItem = docservice.ListItem

// ListResponse wraps document listings.
type ListResponse struct {
	Documents []ListItem `json:"documents"`
	Total     int        `json:"total"`
}

// SearchResult is a single search hit in the API response (aliased from
// the index layer).
type SearchResult = index.SearchResult

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}
