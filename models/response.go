package models

// SearchResponse is the response for GET /api/search.
type SearchResponse struct {
	Success bool `json:"success"`

	// Query echoes the search keyword.
	Query string `json:"query"`

	// Count always equals len(Results).
	Count int `json:"count"`

	// Timestamp is the ISO-8601 response time (UTC, millisecond precision).
	Timestamp string `json:"timestamp"`

	// Results is sorted ascending by normalized price. Never null.
	Results []Listing `json:"results"`
}

// ProductResponse is the response for GET /api/product.
type ProductResponse struct {
	Success bool           `json:"success"`
	Data    *ProductDetail `json:"data"`
}

// ErrorResponse is the error envelope shared by every endpoint.
type ErrorResponse struct {
	// Error is the short, user-facing message.
	Error string `json:"error"`

	// Message carries the underlying error text for diagnostics.
	Message string `json:"message,omitempty"`

	// Code is the machine-readable error code.
	Code string `json:"code,omitempty"`
}

// HealthResponse is the response for GET /api/health.
type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Uptime    string `json:"uptime,omitempty"`
	Engine    string `json:"engine,omitempty"`
	Version   string `json:"version,omitempty"`
}
