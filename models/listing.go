package models

// Listing is one product search result from an upstream source.
type Listing struct {
	// Title is the product name as shown by the upstream source.
	Title string `json:"title"`

	// Price is the human-readable, currency-prefixed price text.
	// It is kept verbatim for display; ordering uses NormalizePrice.
	Price string `json:"price"`

	// SourceURL is the outbound link to the offer.
	SourceURL string `json:"sourceUrl"`

	// ThumbnailURL is the product image, when the listing carries one.
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`

	// Platform names the upstream source that produced the listing.
	Platform string `json:"platform"`
}

// ProductDetail is the single record extracted from a product page.
type ProductDetail struct {
	Title       string   `json:"title"`
	Price       string   `json:"price"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	SourceURL   string   `json:"sourceUrl"`
}
