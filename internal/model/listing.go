package model

import (
	"database/sql/driver"
	"encoding/json"
	"strconv"
	"strings"
)

// Listing represents one vehicle in the catalog snapshot.
// Numeric fields use pointers: nil means the value is unknown, never zero.
// Price fields are in 만원 (ten-thousand won) units.
type Listing struct {
	CarNo        string    `json:"car_no" db:"car_no"`
	CarName      string    `json:"car_name" db:"car_name"`
	Make         string    `json:"make,omitempty" db:"make"`
	Model        string    `json:"model,omitempty" db:"model"`
	BodyType     string    `json:"body_type,omitempty" db:"body_type"`
	FuelType     string    `json:"fuel_type,omitempty" db:"fuel_type"`
	Segment      string    `json:"segment,omitempty" db:"segment"`
	Transmission string    `json:"transmission,omitempty" db:"transmission"`
	Color        string    `json:"color,omitempty" db:"color"`
	Year         *int      `json:"year,omitempty" db:"year"`
	Km           *int      `json:"km,omitempty" db:"km"`
	Price        *int      `json:"price,omitempty" db:"price"`
	MonthlyPrice *int      `json:"monthly_price,omitempty" db:"monthly_price"`
	NoAccident   *bool     `json:"no_accident,omitempty" db:"no_accident"`
	Options      JSONArray `json:"options,omitempty" db:"options"`
	Tags         JSONArray `json:"tags,omitempty" db:"tags"`

	// DocVector holds a precomputed TF-IDF vector for the assembled document
	// under the externally supplied vocabulary. Optional; the ranker falls
	// back to vectorizing Document() when it is empty or mismatched.
	DocVector []float32 `json:"-" db:"-"`
}

// Document assembles the free-text document used for text similarity.
func (l Listing) Document() string {
	parts := []string{l.CarName, l.Make, l.Model, l.BodyType, l.FuelType, l.Segment}
	if l.Year != nil {
		parts = append(parts, strconv.Itoa(*l.Year))
	}
	parts = append(parts, l.Tags...)
	parts = append(parts, l.Options...)

	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			fields = append(fields, p)
		}
	}
	return strings.Join(fields, " ")
}

// ListingSearchResult represents a ranked listing with scoring metadata.
type ListingSearchResult struct {
	Listing
	Score          float64  `json:"score"`
	MatchedReasons []string `json:"matched_reasons"`
}

// JSONArray represents a JSON array field
type JSONArray []string

// Value implements driver.Valuer interface
func (j JSONArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONArray) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return json.Unmarshal([]byte(value.(string)), j)
	}
	return json.Unmarshal(bytes, j)
}
