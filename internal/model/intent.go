package model

// Intent kinds produced by the top-level classifier.
const (
	KindBuy      = "buy"
	KindSell     = "sell"
	KindChitchat = "chitchat"
)

// Intent represents the structured conditions extracted from a query.
// Pointer fields are nil when the corresponding fragment was absent or
// unparseable; after normalization every min/max pair satisfies min <= max
// and all numeric values are non-negative.
type Intent struct {
	Kind string `json:"kind,omitempty"`

	BudgetMin  *int `json:"budget_min,omitempty"`
	BudgetMax  *int `json:"budget_max,omitempty"`
	MonthlyMin *int `json:"monthly_min,omitempty"`
	MonthlyMax *int `json:"monthly_max,omitempty"`

	MileageMin    *int `json:"mileage_min,omitempty"`
	MileageMax    *int `json:"mileage_max,omitempty"`
	MileageApprox *int `json:"mileage_approx,omitempty"`

	YearMin   *int `json:"year_min,omitempty"`
	YearMax   *int `json:"year_max,omitempty"`
	YearExact *int `json:"year_exact,omitempty"`

	FuelType     *string `json:"fuel_type,omitempty"`
	BodyType     *string `json:"body_type,omitempty"`
	Segment      *string `json:"segment,omitempty"`
	Transmission *string `json:"transmission,omitempty"`
	Make         *string `json:"make,omitempty"`
	Model        *string `json:"model,omitempty"`

	Colors  []string `json:"colors,omitempty"`
	Options []string `json:"options,omitempty"`

	NoAccident *bool `json:"no_accident,omitempty"`

	// Confidence is the count of filled fields, attached for observability.
	Confidence int `json:"confidence"`
}

// CatalogHints carries the known brand/model strings used for fuzzy
// make/model resolution. BrandByModel, when supplied, is trusted over any
// brand text match.
type CatalogHints struct {
	Makes        []string
	Models       []string
	BrandByModel map[string]string
}

// RelaxResult is the outcome of filtering with progressive relaxation.
// Relaxed lists every relaxation step attempted, in order, up to and
// including the one that produced a non-empty result.
type RelaxResult struct {
	Candidates []Listing `json:"candidates"`
	UsedIntent Intent    `json:"used_intent"`
	Relaxed    []string  `json:"relaxed"`
}

// WeightBundle is an externally trained scoring bundle: named scalar weights
// plus an optional fixed vocabulary with one IDF value per term. Loaded once
// at startup and treated as read-only.
type WeightBundle struct {
	Weights map[string]float64 `json:"weights,omitempty"`
	Vocab   []string           `json:"vocab,omitempty"`
	IDF     []float64          `json:"idf,omitempty"`
}
