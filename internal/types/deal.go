package types

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Deal is one game-pricing listing returned by the remote source.
// Deals are read-only: they are replaced wholesale on reload or appended
// on "load more", never edited in place.
//
// Title/External and Thumb/Thumbnail are alternates; the render pipeline
// resolves them in a fixed order. No field is guaranteed to be unique.
type Deal struct {
	DealID             string  `json:"dealID,omitempty"`
	StoreID            string  `json:"storeID,omitempty"`
	GameID             string  `json:"gameID,omitempty"`
	Title              string  `json:"title,omitempty"`
	External           string  `json:"external,omitempty"`
	Thumb              string  `json:"thumb,omitempty"`
	Thumbnail          string  `json:"thumbnail,omitempty"`
	NormalPrice        Decimal `json:"normalPrice"`
	SalePrice          Decimal `json:"salePrice"`
	Cheapest           Decimal `json:"cheapest"`
	Savings            Decimal `json:"savings"`
	DealRating         Decimal `json:"dealRating"`
	MetacriticScore    Decimal `json:"metacriticScore"`
	SteamRatingText    string  `json:"steamRatingText,omitempty"`
	SteamRatingPercent Decimal `json:"steamRatingPercent"`
	ReleaseDate        int64   `json:"releaseDate,omitempty"`
}

// Decimal is an optional numeric field that the pricing API sends either
// as a quoted decimal ("14.99") or as a bare number. Raw keeps the text
// exactly as received so prices are displayed without float formatting.
type Decimal struct {
	Raw   string
	Value float64
	Valid bool
}

// NewDecimal parses s into a Decimal. An empty or unparsable string yields
// an absent value.
func NewDecimal(s string) Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return Decimal{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Decimal{}
	}
	return Decimal{Raw: s, Value: v, Valid: true}
}

// Or returns d when present, otherwise fallback. Absent values count as 0
// for sorting.
func (d Decimal) Or(fallback float64) float64 {
	if !d.Valid {
		return fallback
	}
	return d.Value
}

// Truthy reports whether the value is present and non-zero.
func (d Decimal) Truthy() bool {
	return d.Valid && d.Value != 0
}

func (d *Decimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*d = Decimal{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = NewDecimal(s)
		return nil
	}
	*d = NewDecimal(string(data))
	return nil
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.Raw)
}
