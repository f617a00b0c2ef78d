package scraper

import (
	"fmt"
	"net/url"

	"github.com/use-agent/pricecheck/models"
)

// DefaultBingURL is the Bing Shopping results endpoint.
const DefaultBingURL = "https://www.bing.com/shop"

// bingSelectors cover the card layouts Bing Shopping has served. Each slot
// is tried in order and the first selector that matches wins.
var bingSelectors = MustCompileSelectors(SelectorSpec{
	Card:      []string{"li.br-item", "div.br-gOffCard", "div.br-offCard"},
	Title:     []string{".br-offTtl", ".br-pdItemName", ".br-title", "h3"},
	Price:     []string{".br-price", ".pd-price", ".br-offPrc"},
	Link:      []string{"a.br-offLink", "a[href]"},
	Thumbnail: []string{"img"},
})

// BingSource scrapes Bing Shopping result pages.
type BingSource struct {
	base   *url.URL
	market string
}

// NewBingSource creates a Bing source for endpoint (DefaultBingURL when
// empty). market, when set, is sent as the mkt parameter.
func NewBingSource(endpoint, market string) (*BingSource, error) {
	if endpoint == "" {
		endpoint = DefaultBingURL
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("bing: parse endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("bing: endpoint %q must be http or https", endpoint)
	}
	return &BingSource{base: u, market: market}, nil
}

func (b *BingSource) Name() string { return models.PlatformBing }

func (b *BingSource) SearchURL(query string) string {
	u := *b.base
	q := u.Query()
	q.Set("q", query)
	if b.market != "" {
		q.Set("mkt", b.market)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (b *BingSource) Extract(markup string) ([]models.Listing, error) {
	return ExtractListings(markup, bingSelectors, b.base, b.Name())
}
