// Package api implements the client side of the public currency rate API
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/damon-houk/currency-converter/internal/domain/apperrors"
	"github.com/damon-houk/currency-converter/internal/domain/service"
	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
)

const (
	defaultPrimaryURL  = "https://cdn.jsdelivr.net/npm/@fawazahmed0/currency-api@{date}"
	defaultFallbackURL = "https://{date}.currency-api.pages.dev"
	defaultAPIVersion  = "v1"

	// maxBodyBytes caps how much of a response body is read
	maxBodyBytes = 8 << 20
	// maxErrorBody caps how much of an error body is kept for diagnostics
	maxErrorBody = 256
)

// FetcherConfig describes the two mirrors of the rate API
type FetcherConfig struct {
	PrimaryURL  string
	FallbackURL string
	Version     string
	Minified    bool
}

// DefaultFetcherConfig returns the public mirrors with minified documents
func DefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		PrimaryURL:  defaultPrimaryURL,
		FallbackURL: defaultFallbackURL,
		Version:     defaultAPIVersion,
		Minified:    true,
	}
}

// ResilientFetcher fetches rate API resources from a primary host and retries once on a fallback host
type ResilientFetcher struct {
	primaryURL  string
	fallbackURL string
	version     string
	suffix      string
	httpClient  *http.Client
	logger      logger.Logger
}

var _ service.DataFetcher = (*ResilientFetcher)(nil)

// NewResilientFetcher creates a new fetcher
func NewResilientFetcher(cfg FetcherConfig, httpClient *http.Client, log logger.Logger) *ResilientFetcher {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 10 * time.Second,
		}
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	if cfg.Version == "" {
		cfg.Version = defaultAPIVersion
	}

	suffix := ".json"
	if cfg.Minified {
		suffix = ".min.json"
	}

	return &ResilientFetcher{
		primaryURL:  strings.TrimRight(cfg.PrimaryURL, "/"),
		fallbackURL: strings.TrimRight(cfg.FallbackURL, "/"),
		version:     cfg.Version,
		suffix:      suffix,
		httpClient:  httpClient,
		logger:      log,
	}
}

// resourceURL builds {host}/{version}/{resource}{suffix} with {date} substituted into the host
func (f *ResilientFetcher) resourceURL(hostTemplate, date, resource string) string {
	host := strings.ReplaceAll(hostTemplate, "{date}", date)
	return fmt.Sprintf("%s/%s/%s%s", host, f.version, strings.Trim(resource, "/"), f.suffix)
}

// Fetch tries the primary endpoint, then the fallback endpoint exactly once.
// When both fail it returns a *apperrors.DataUnavailableError carrying both causes.
func (f *ResilientFetcher) Fetch(ctx context.Context, date, resource string) (service.Document, error) {
	primaryURL := f.resourceURL(f.primaryURL, date, resource)
	doc, primaryErr := f.fetchData(ctx, endpointPrimary, primaryURL)
	if primaryErr == nil {
		return doc, nil
	}
	f.logFailure(endpointPrimary, date, resource, primaryErr)

	fallbackURL := f.resourceURL(f.fallbackURL, date, resource)
	doc, fallbackErr := f.fetchData(ctx, endpointFallback, fallbackURL)
	if fallbackErr == nil {
		f.logger.Debug("Fallback endpoint served request", map[string]interface{}{
			"date":     date,
			"resource": resource,
			"url":      fallbackURL,
		})
		return doc, nil
	}
	f.logFailure(endpointFallback, date, resource, fallbackErr)

	return nil, &apperrors.DataUnavailableError{
		Resource: resource,
		Date:     date,
		Primary:  primaryErr,
		Fallback: fallbackErr,
	}
}

// fetchData performs a single GET and parses the body as a JSON object
func (f *ResilientFetcher) fetchData(ctx context.Context, endpoint, url string) (doc service.Document, err error) {
	start := time.Now()
	defer func() {
		observeFetch(endpoint, time.Since(start), err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &apperrors.TransportError{URL: url, Message: "failed to create request", Err: err}
	}

	// Add Accept header to ensure JSON response
	req.Header.Add("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &apperrors.TransportError{URL: url, Message: err.Error(), Err: err}
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			f.logger.Debug("Error closing response body", map[string]interface{}{
				"url":   url,
				"error": closeErr.Error(),
			})
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &apperrors.TransportError{URL: url, StatusCode: resp.StatusCode, Message: "failed to read response body", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apperrors.TransportError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP error! status: %d, body: %s", resp.StatusCode, truncate(string(body), maxErrorBody)),
		}
	}

	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &apperrors.TransportError{URL: url, StatusCode: resp.StatusCode, Message: "invalid JSON response", Err: err}
	}
	if doc == nil {
		return nil, &apperrors.TransportError{URL: url, StatusCode: resp.StatusCode, Message: "empty JSON document"}
	}

	return doc, nil
}

// logFailure logs 404s at info level, the expected "no data for this date" case, and everything else at warn
func (f *ResilientFetcher) logFailure(endpoint, date, resource string, err error) {
	fields := map[string]interface{}{
		"endpoint": endpoint,
		"date":     date,
		"resource": resource,
		"error":    err.Error(),
	}

	var transportErr *apperrors.TransportError
	if errors.As(err, &transportErr) {
		fields["url"] = transportErr.URL
		if transportErr.NotFound() {
			f.logger.Info("Rate data not found", fields)
			return
		}
		fields["status"] = transportErr.Status()
	}

	f.logger.Warn("Rate API call failed", fields)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
