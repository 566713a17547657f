// Package units converts stored base-unit quantities to display units and back.
//
// Every quantity kind has one base unit in which values are persisted: INR for
// currency, meters for distance, kilograms for weight, cubic meters for volume
// and square meters for area. A rate is "how many of this unit make one base
// unit", so conversion is value / rate[from] * rate[to].
//
// The package is a display-layer utility and never fails: an unknown kind or
// unit leaves the value unchanged.
package units

import (
	"sort"
)

// Kind identifies a family of interconvertible units.
type Kind string

const (
	KindCurrency Kind = "currency"
	KindDistance Kind = "distance"
	KindWeight   Kind = "weight"
	KindVolume   Kind = "volume"
	KindArea     Kind = "area"
)

// Kinds lists every supported quantity kind.
var Kinds = []Kind{KindCurrency, KindDistance, KindWeight, KindVolume, KindArea}

// Base units per kind.
const (
	BaseCurrency = "INR"
	BaseDistance = "m"
	BaseWeight   = "kg"
	BaseVolume   = "m3"
	BaseArea     = "m2"
)

var rates = map[Kind]map[string]float64{
	KindCurrency: {
		"INR": 1,
		"USD": 0.012,
		"EUR": 0.011,
		"GBP": 0.0095,
		"JPY": 1.8,
		"CAD": 0.016,
		"AUD": 0.018,
	},
	KindDistance: {
		"m":  1,
		"km": 0.001,
		"ft": 3.28084,
		"yd": 1.09361,
		"mi": 0.000621371,
	},
	KindWeight: {
		"kg":  1,
		"g":   1000,
		"ton": 0.001, // metric tonne
		"lb":  2.20462,
	},
	KindVolume: {
		"m3":  1,
		"l":   1000,
		"ft3": 35.3147,
		"yd3": 1.30795,
		"gal": 264.172, // US liquid gallon
	},
	KindArea: {
		"m2":   1,
		"ft2":  10.7639,
		"yd2":  1.19599,
		"acre": 0.000247105,
		"ha":   0.0001,
	},
}

// Rate returns how many of unit make one base unit of kind.
func Rate(kind Kind, unit string) (float64, bool) {
	table, ok := rates[kind]
	if !ok {
		return 0, false
	}
	r, ok := table[unit]
	return r, ok
}

// Units returns the units known for kind, sorted.
func Units(kind Kind) []string {
	table := rates[kind]
	out := make([]string, 0, len(table))
	for u := range table {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// BaseUnit returns the storage unit of kind, or "" for an unknown kind.
func BaseUnit(kind Kind) string {
	switch kind {
	case KindCurrency:
		return BaseCurrency
	case KindDistance:
		return BaseDistance
	case KindWeight:
		return BaseWeight
	case KindVolume:
		return BaseVolume
	case KindArea:
		return BaseArea
	}
	return ""
}

// Convert converts value from one unit to another within kind. Equal units
// return value untouched. If either unit is missing from the kind's table the
// input is returned unchanged.
func Convert(value float64, from, to string, kind Kind) float64 {
	if from == to {
		return value
	}
	fromRate, ok := Rate(kind, from)
	if !ok || fromRate == 0 {
		return value
	}
	toRate, ok := Rate(kind, to)
	if !ok {
		return value
	}
	return value / fromRate * toRate
}

// FromBase converts a stored base-unit value into unit.
func FromBase(value float64, unit string, kind Kind) float64 {
	return Convert(value, BaseUnit(kind), unit, kind)
}

// ToBase converts a value entered in unit into the stored base unit.
func ToBase(value float64, unit string, kind Kind) float64 {
	return Convert(value, unit, BaseUnit(kind), kind)
}
