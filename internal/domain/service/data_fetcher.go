package service

import (
	"context"
	"encoding/json"
)

// Document is a parsed JSON object returned by the rate API
type Document map[string]json.RawMessage

// DataFetcher defines the interface for fetching rate API resources
type DataFetcher interface {
	// Fetch retrieves resource (e.g. "currencies/usd") for date ("latest" or YYYY-MM-DD)
	Fetch(ctx context.Context, date, resource string) (Document, error)
}
