package units

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders quantities as localized numeric strings.
type Formatter struct {
	tag language.Tag
}

// NewFormatter returns a Formatter for the given locale.
func NewFormatter(tag language.Tag) *Formatter {
	return &Formatter{tag: tag}
}

var defaultFormatter = NewFormatter(language.English)

// Format renders value using the default English locale.
func Format(value float64, kind Kind) string {
	return defaultFormatter.Format(value, kind)
}

// Format renders value with exactly two fraction digits for currency and
// zero to two fraction digits for every other kind.
func (f *Formatter) Format(value float64, kind Kind) string {
	minDigits := 0
	if kind == KindCurrency {
		minDigits = 2
	}
	p := message.NewPrinter(f.tag)
	return p.Sprint(number.Decimal(value,
		number.MinFractionDigits(minDigits),
		number.MaxFractionDigits(2),
	))
}
