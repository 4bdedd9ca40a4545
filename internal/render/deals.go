// Package render turns records into display models. Everything here is a
// pure function of its input: no I/O, no shared state. Templates and JSON
// handlers bind the returned structs; nothing in this package knows about
// HTML or HTTP.
package render

import (
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/aanand-mishra/deals-registry/internal/types"
)

const (
	// TitlePlaceholder is shown when a deal carries no title at all.
	TitlePlaceholder = "Game"

	// NotAvailable stands in for a missing price or rating. It is never
	// confused with a real "0.00".
	NotAvailable = "N/A"

	DefaultSearchURL = "https://www.google.com/search?q=%s"
	redirectURL      = "https://www.cheapshark.com/redirect?dealID="
)

// Fallback chains. The first accessor returning a non-empty value wins.
var (
	titleChain = []func(types.Deal) string{
		func(d types.Deal) string { return d.Title },
		func(d types.Deal) string { return d.External },
	}
	thumbChain = []func(types.Deal) string{
		func(d types.Deal) string { return d.Thumb },
		func(d types.Deal) string { return d.Thumbnail },
	}
	normalPriceChain = []func(types.Deal) types.Decimal{
		func(d types.Deal) types.Decimal { return d.NormalPrice },
	}
	salePriceChain = []func(types.Deal) types.Decimal{
		func(d types.Deal) types.Decimal { return d.SalePrice },
		func(d types.Deal) types.Decimal { return d.Cheapest },
	}
)

func firstString(d types.Deal, chain []func(types.Deal) string, fallback string) string {
	for _, get := range chain {
		if v := strings.TrimSpace(get(d)); v != "" {
			return v
		}
	}
	return fallback
}

func firstDecimal(d types.Deal, chain []func(types.Deal) types.Decimal) string {
	for _, get := range chain {
		if v := get(d); v.Valid {
			return v.Raw
		}
	}
	return NotAvailable
}

// Title resolves the display title: title, then external, then the
// placeholder.
func Title(d types.Deal) string { return firstString(d, titleChain, TitlePlaceholder) }

// Thumb resolves the image URL: thumb, then thumbnail, then "".
func Thumb(d types.Deal) string { return firstString(d, thumbChain, "") }

// DealCard is one entry of the deals grid.
type DealCard struct {
	Index       int    `json:"index"`
	Title       string `json:"title"`
	Thumb       string `json:"thumb"`
	NormalPrice string `json:"normalPrice"`
	SalePrice   string `json:"salePrice"`
	// Savings is the rounded discount percentage, meaningful only when
	// HasSavings is set.
	Savings    int    `json:"savings,omitempty"`
	HasSavings bool   `json:"hasSavings"`
	Rating     string `json:"rating"`
}

// Deals maps records to cards, one per record, in order. Index is the
// record's position in records and addresses the detail view.
func Deals(records []types.Deal) []DealCard {
	cards := make([]DealCard, 0, len(records))
	for i, d := range records {
		cards = append(cards, Card(d, i))
	}
	return cards
}

func Card(d types.Deal, index int) DealCard {
	card := DealCard{
		Index:       index,
		Title:       Title(d),
		Thumb:       Thumb(d),
		NormalPrice: firstDecimal(d, normalPriceChain),
		SalePrice:   firstDecimal(d, salePriceChain),
		Rating:      NotAvailable,
	}

	if d.Savings.Truthy() {
		card.Savings = roundHalfUp(d.Savings.Value)
		card.HasSavings = card.Savings != 0
	}
	if d.DealRating.Truthy() {
		card.Rating = d.DealRating.Raw
	}
	return card
}

// DealDetail is the expanded single-record view shown in the overlay.
type DealDetail struct {
	DealCard
	Metacritic  string `json:"metacritic"`
	SteamRating string `json:"steamRating"`
	ReleaseDate string `json:"releaseDate"`
	DealURL     string `json:"dealURL,omitempty"`
	SearchURL   string `json:"searchURL"`
}

// Detail expands d for the overlay. searchTemplate contains one %s that is
// replaced by the percent-encoded resolved title; "" selects
// DefaultSearchURL.
func Detail(d types.Deal, index int, searchTemplate string) DealDetail {
	if searchTemplate == "" {
		searchTemplate = DefaultSearchURL
	}

	card := Card(d, index)
	detail := DealDetail{
		DealCard:    card,
		Metacritic:  NotAvailable,
		SteamRating: NotAvailable,
		ReleaseDate: NotAvailable,
		SearchURL:   strings.Replace(searchTemplate, "%s", EncodeURIComponent(card.Title), 1),
	}

	if d.MetacriticScore.Truthy() {
		detail.Metacritic = d.MetacriticScore.Raw
	}
	if d.SteamRatingPercent.Truthy() {
		detail.SteamRating = d.SteamRatingPercent.Raw + "%"
		if d.SteamRatingText != "" {
			detail.SteamRating = d.SteamRatingText + " (" + detail.SteamRating + ")"
		}
	}
	if d.ReleaseDate > 0 {
		detail.ReleaseDate = time.Unix(d.ReleaseDate, 0).UTC().Format(time.DateOnly)
	}
	if d.DealID != "" {
		detail.DealURL = redirectURL + url.QueryEscape(d.DealID)
	}
	return detail
}

// uriComponent maps url.QueryEscape output onto encodeURIComponent's: space
// is %20 and the marks !*'() stay literal. A literal '+' in the input was
// already escaped to %2B, so every remaining '+' was a space.
var uriComponent = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%2A", "*",
	"%27", "'",
	"%28", "(",
	"%29", ")",
)

// EncodeURIComponent percent-encodes s for use inside a query value.
func EncodeURIComponent(s string) string {
	return uriComponent.Replace(url.QueryEscape(s))
}

// roundHalfUp rounds .5 towards positive infinity.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
