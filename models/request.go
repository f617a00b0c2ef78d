package models

// Platform selectors accepted by /api/search.
const (
	PlatformBing = "bing"
	PlatformAll  = "all"
)

// Description formats accepted by /api/product.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// SearchRequest is the query string of GET /api/search.
type SearchRequest struct {
	// Query is the search keyword. Required; checked by the handler so the
	// missing-keyword case gets its own message.
	Query string `form:"q"`

	// Platform selects the upstream source. Default: "bing".
	// "all" queries every registered source.
	Platform string `form:"platform" binding:"omitempty,oneof=bing all"`

	// Dedupe collapses near-identical listings. Default: false.
	Dedupe bool `form:"dedupe"`
}

// Defaults applies default values to unset fields.
func (r *SearchRequest) Defaults(defaultPlatform string) {
	if r.Platform == "" {
		r.Platform = defaultPlatform
	}
	if r.Platform == "" {
		r.Platform = PlatformBing
	}
}

// ProductRequest is the query string of GET /api/product.
type ProductRequest struct {
	// URL is the product page to fetch. Required.
	URL string `form:"url" binding:"omitempty,url"`

	// Format controls the description rendering.
	// Allowed: "text" (default), "markdown".
	Format string `form:"format" binding:"omitempty,oneof=text markdown"`
}

// Defaults applies default values to unset fields.
func (r *ProductRequest) Defaults() {
	if r.Format == "" {
		r.Format = FormatText
	}
}
