package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/aanand-mishra/deals-registry/internal/types"
)

func TestCard_Fallbacks(t *testing.T) {
	tests := []struct {
		name string
		deal types.Deal
		want DealCard
	}{
		{
			name: "primary fields",
			deal: types.Deal{
				Title:       "Portal 2",
				External:    "portal-2",
				Thumb:       "https://img/p2.jpg",
				Thumbnail:   "https://img/other.jpg",
				NormalPrice: types.NewDecimal("19.99"),
				SalePrice:   types.NewDecimal("1.99"),
				Cheapest:    types.NewDecimal("0.99"),
				Savings:     types.NewDecimal("90.045023"),
				DealRating:  types.NewDecimal("9.8"),
			},
			want: DealCard{
				Title: "Portal 2", Thumb: "https://img/p2.jpg",
				NormalPrice: "19.99", SalePrice: "1.99",
				Savings: 90, HasSavings: true, Rating: "9.8",
			},
		},
		{
			name: "alternate fields",
			deal: types.Deal{
				External:  "Stardew Valley",
				Thumbnail: "https://img/sv.jpg",
				Cheapest:  types.NewDecimal("7.49"),
			},
			want: DealCard{
				Title: "Stardew Valley", Thumb: "https://img/sv.jpg",
				NormalPrice: NotAvailable, SalePrice: "7.49", Rating: NotAvailable,
			},
		},
		{
			name: "nothing present",
			deal: types.Deal{},
			want: DealCard{
				Title: TitlePlaceholder, NormalPrice: NotAvailable,
				SalePrice: NotAvailable, Rating: NotAvailable,
			},
		},
		{
			name: "zero price is not missing",
			deal: types.Deal{Title: "Free", NormalPrice: types.NewDecimal("0.00"), SalePrice: types.NewDecimal("0.00"), Savings: types.NewDecimal("0")},
			want: DealCard{Title: "Free", NormalPrice: "0.00", SalePrice: "0.00", Rating: NotAvailable},
		},
		{
			name: "savings rounds half up",
			deal: types.Deal{Title: "Half", Savings: types.NewDecimal("49.5")},
			want: DealCard{Title: "Half", NormalPrice: NotAvailable, SalePrice: NotAvailable, Savings: 50, HasSavings: true, Rating: NotAvailable},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Card(tt.deal, 0)); diff != "" {
				t.Errorf("Card() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDeals_PreservesOrderAndLength(t *testing.T) {
	in := []types.Deal{{Title: "B"}, {Title: "A"}, {Title: "C"}}
	cards := Deals(in)

	assert.Len(t, cards, 3)
	for i, c := range cards {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, in[i].Title, c.Title)
	}
	assert.NotNil(t, Deals(nil))
}

func TestDetail(t *testing.T) {
	d := types.Deal{
		Title:              "Tom Clancy's Rainbow Six & Co (Gold)!",
		DealID:             "abc/123=",
		MetacriticScore:    types.NewDecimal("86"),
		SteamRatingPercent: types.NewDecimal("88"),
		SteamRatingText:    "Very Positive",
		ReleaseDate:        1100563200,
	}

	got := Detail(d, 4, "")
	assert.Equal(t, 4, got.Index)
	assert.Equal(t, "https://www.google.com/search?q=Tom%20Clancy's%20Rainbow%20Six%20%26%20Co%20(Gold)!", got.SearchURL)
	assert.Equal(t, "https://www.cheapshark.com/redirect?dealID=abc%2F123%3D", got.DealURL)
	assert.Equal(t, "86", got.Metacritic)
	assert.Equal(t, "Very Positive (88%)", got.SteamRating)
	assert.Equal(t, "2004-11-16", got.ReleaseDate)

	bare := Detail(types.Deal{}, 0, "https://example.com/find?title=%s&store=1")
	assert.Equal(t, "https://example.com/find?title=Game&store=1", bare.SearchURL)
	assert.Equal(t, NotAvailable, bare.ReleaseDate)
	assert.Empty(t, bare.DealURL)
}

func TestEncodeURIComponent(t *testing.T) {
	tests := map[string]string{
		"a b":       "a%20b",
		"1+1=2":     "1%2B1%3D2",
		"ñ":         "%C3%B1",
		"it's (ok)": "it's%20(ok)",
		"50%*":      "50%25*",
	}
	for in, want := range tests {
		assert.Equal(t, want, EncodeURIComponent(in), in)
	}
}
