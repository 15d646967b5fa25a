package lcsd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Default locations of the LCSD open data feeds.
const (
	EventsURL = "https://www.lcsd.gov.hk/datagovhk/event/events.xml"
	VenuesURL = "https://www.lcsd.gov.hk/datagovhk/event/venues.xml"
)

const filePrefix = "file://"

// Common errors for feed sources.
var (
	ErrUnexpectedStatus = errors.New("feed returned unexpected status")
	ErrEmptyFeed        = errors.New("feed returned empty body")
)

// Source fetches the raw bytes of a feed.
type Source interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// HTTPSource downloads feeds over HTTP with retries.
type HTTPSource struct {
	client *resty.Client
	log    *slog.Logger
}

// NewHTTPSource creates an HTTPSource retrying failed downloads retries times.
func NewHTTPSource(timeout time.Duration, retries int, log *slog.Logger) *HTTPSource {
	const (
		retryWait    = 2 * time.Second
		retryMaxWait = 10 * time.Second
	)

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(retryWait).
		SetRetryMaxWaitTime(retryMaxWait).
		AddRetryCondition(func(resp *resty.Response, _ error) bool {
			if resp == nil {
				return false
			}
			code := resp.StatusCode()
			return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
		})

	return NewHTTPSourceWithClient(client, log)
}

// NewHTTPSourceWithClient allows injecting a preconfigured resty client.
func NewHTTPSourceWithClient(client *resty.Client, log *slog.Logger) *HTTPSource {
	return &HTTPSource{client: client, log: log}
}

// Fetch downloads location and returns the response body.
func (hs *HTTPSource) Fetch(ctx context.Context, location string) ([]byte, error) {
	hs.log.DebugContext(ctx, "Downloading feed", "url", location)

	resp, err := hs.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/xml, text/xml").
		Get(location)
	if err != nil {
		return nil, fmt.Errorf("failed to download feed %s: %w", location, err)
	}

	if !resp.IsSuccess() {
		hs.log.ErrorContext(ctx, "Feed download failed", "url", location, "status", resp.StatusCode())
		return nil, fmt.Errorf("%w: %d from %s", ErrUnexpectedStatus, resp.StatusCode(), location)
	}

	body := resp.Body()
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFeed, location)
	}

	hs.log.DebugContext(ctx, "Feed downloaded", "url", location, "bytes", len(body), "attempts", resp.Request.Attempt)

	return body, nil
}

// FileSource reads feeds saved on disk, e.g. for offline imports.
type FileSource struct{}

// Fetch reads location, a plain path or a file:// URL.
func (FileSource) Fetch(ctx context.Context, location string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := os.ReadFile(strings.TrimPrefix(location, filePrefix))
	if err != nil {
		return nil, fmt.Errorf("failed to read feed file: %w", err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFeed, location)
	}

	return body, nil
}

// AutoSource sends http(s) locations to Remote and everything else to Local.
type AutoSource struct {
	Remote Source
	Local  Source
}

// Fetch implements Source.
func (as AutoSource) Fetch(ctx context.Context, location string) ([]byte, error) {
	if IsRemote(location) {
		return as.Remote.Fetch(ctx, location)
	}

	return as.Local.Fetch(ctx, location)
}

// IsRemote reports whether location is an http or https URL.
func IsRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
