package engine

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/use-agent/pricecheck/models"
)

// Engine is the interface that all fetch engines must implement.
type Engine interface {
	// Name returns the engine identifier (e.g. "http", "rod").
	Name() string

	// Fetch retrieves the page content for the given request.
	Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error)
}

// FetchRequest contains everything an engine needs to fetch a page.
type FetchRequest struct {
	URL     string
	Headers map[string]string
	Cookies []http.Cookie

	// Timeout bounds the whole fetch. Zero means no engine-imposed deadline.
	Timeout time.Duration
}

// FetchResult is the output of a successful engine fetch.
type FetchResult struct {
	HTML       string
	Title      string
	StatusCode int
	FinalURL   string
	EngineName string
	Duration   time.Duration
}

// classify wraps a raw fetch error into a ScrapeError so callers can tell a
// timeout from any other network failure.
func classify(err error, msg string) *models.ScrapeError {
	var se *models.ScrapeError
	if errors.As(err, &se) {
		return se
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeTimeout, "timeout", err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewScrapeError(models.ErrCodeFetch, msg, err)
	}
}
