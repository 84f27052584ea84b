package model

// SearchRequest represents a search query request
type SearchRequest struct {
	Query     string         `json:"query" binding:"required"`
	SessionID string         `json:"session_id,omitempty"`
	Options   *SearchOptions `json:"options,omitempty"`
}

// SearchOptions represents search options
type SearchOptions struct {
	TopK int `json:"top_k"`
}

// SearchResponse represents a search result response
type SearchResponse struct {
	Results   []ListingSearchResult `json:"results"`
	Total     int                   `json:"total"`
	Intent    *Intent               `json:"intent,omitempty"`
	Relaxed   []string              `json:"relaxed,omitempty"`
	Valuation *ValuationResult      `json:"valuation,omitempty"`
	Took      int64                 `json:"took_ms"`
}

// PriceEstimate is a sell-side price band in 만원 units.
type PriceEstimate struct {
	Low  int `json:"low"`
	Mid  int `json:"mid"`
	High int `json:"high"`
}

// ValuationResult carries the estimate for a sell query. When the query lacks
// the information needed for an estimate, Missing names the absent fields and
// the estimate is omitted.
type ValuationResult struct {
	Estimate    *PriceEstimate `json:"estimate,omitempty"`
	Comparables []Listing      `json:"comparables,omitempty"`
	Missing     []string       `json:"missing,omitempty"`
}
