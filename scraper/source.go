package scraper

import "github.com/use-agent/pricecheck/models"

// Source is one upstream shopping search engine.
type Source interface {
	// Name is the platform identifier used by the platform selector.
	Name() string

	// SearchURL builds the results page URL for query.
	SearchURL(query string) string

	// Extract parses a results page. An empty page yields an empty slice.
	Extract(markup string) ([]models.Listing, error)
}
