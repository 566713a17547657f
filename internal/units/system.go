package units

import (
	"strings"

	"golang.org/x/text/language"
)

// UnitSystem is the set of display units picked for a currency.
//
// The currency doubles as the measurement regime: USD selects US customary
// units, every other supported currency selects metric. This is a fixed
// mapping for cost tracking across regions, not a general locale system.
type UnitSystem struct {
	Currency string `json:"currency"`
	Distance string `json:"distance"`
	Weight   string `json:"weight"`
	Volume   string `json:"volume"`
	Area     string `json:"area"`
}

// Unit returns the display unit the system uses for kind.
func (s UnitSystem) Unit(kind Kind) string {
	switch kind {
	case KindCurrency:
		return s.Currency
	case KindDistance:
		return s.Distance
	case KindWeight:
		return s.Weight
	case KindVolume:
		return s.Volume
	case KindArea:
		return s.Area
	}
	return ""
}

func metric(currency string) UnitSystem {
	return UnitSystem{Currency: currency, Distance: "m", Weight: "kg", Volume: "m3", Area: "m2"}
}

var systems = map[string]UnitSystem{
	"INR": metric("INR"),
	"USD": {Currency: "USD", Distance: "ft", Weight: "lb", Volume: "ft3", Area: "ft2"},
	"EUR": metric("EUR"),
	"GBP": metric("GBP"),
	"JPY": metric("JPY"),
	"CAD": metric("CAD"),
	"AUD": metric("AUD"),
}

var locales = map[string]language.Tag{
	"INR": language.MustParse("en-IN"),
	"USD": language.AmericanEnglish,
	"EUR": language.German,
	"GBP": language.BritishEnglish,
	"JPY": language.Japanese,
	"CAD": language.MustParse("en-CA"),
	"AUD": language.MustParse("en-AU"),
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// UnitSystemForCurrency returns the unit bundle for a currency code. Unknown
// codes get the INR bundle.
func UnitSystemForCurrency(code string) UnitSystem {
	if s, ok := systems[normalizeCode(code)]; ok {
		return s
	}
	return systems[BaseCurrency]
}

// SupportedCurrency reports whether code has its own bundle.
func SupportedCurrency(code string) bool {
	_, ok := systems[normalizeCode(code)]
	return ok
}

// LocaleForCurrency returns the formatting locale paired with a currency,
// falling back to the INR locale.
func LocaleForCurrency(code string) language.Tag {
	if tag, ok := locales[normalizeCode(code)]; ok {
		return tag
	}
	return locales[BaseCurrency]
}
