package registry

import (
	"time"

	"golang.org/x/text/language"
)

// dateLayouts maps a language (and optionally a region) to the short
// numeric date format that locale shows to users.
var dateLayouts = map[string]string{
	"es":    "2/1/2006",
	"en-US": "1/2/2006",
	"en":    "02/01/2006",
	"fr":    "02/01/2006",
	"pt":    "02/01/2006",
	"it":    "2/1/2006",
	"de":    "2.1.2006",
}

// DateLayout returns the time layout for locale. Unknown or malformed tags
// fall back to ISO 8601.
func DateLayout(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return time.DateOnly
	}
	base, _ := tag.Base()
	region, _ := tag.Region()

	if layout, ok := dateLayouts[base.String()+"-"+region.String()]; ok {
		return layout
	}
	if layout, ok := dateLayouts[base.String()]; ok {
		return layout
	}
	return time.DateOnly
}

// FormatDate renders the calendar date of t for locale.
func FormatDate(t time.Time, locale string) string {
	return t.Format(DateLayout(locale))
}
