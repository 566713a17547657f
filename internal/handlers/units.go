package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ukydev/sitefleet/internal/metrics"
	"github.com/ukydev/sitefleet/internal/units"
)

// UnitsHandler exposes the unit conversion tables.
type UnitsHandler struct {
	metrics         *metrics.Metrics
	defaultCurrency string
}

func NewUnitsHandler(m *metrics.Metrics, defaultCurrency string) *UnitsHandler {
	if defaultCurrency == "" {
		defaultCurrency = units.BaseCurrency
	}
	return &UnitsHandler{metrics: m, defaultCurrency: defaultCurrency}
}

// ConversionResponse is the body of GET /api/units/convert.
type ConversionResponse struct {
	Value     float64    `json:"value"`
	From      string     `json:"from"`
	To        string     `json:"to"`
	Kind      units.Kind `json:"kind"`
	Result    float64    `json:"result"`
	Formatted string     `json:"formatted"`
}

// SystemResponse is the body of GET /api/units/system.
type SystemResponse struct {
	Currency  string           `json:"currency"`
	Supported bool             `json:"supported"`
	Locale    string           `json:"locale"`
	Units     units.UnitSystem `json:"units"`
}

func parseKind(s string) (units.Kind, bool) {
	k := units.Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range units.Kinds {
		if k == known {
			return k, true
		}
	}
	return "", false
}

// Convert converts value between two units of one kind. Unknown units fall
// back to the unchanged value, so only the kind and value are checked.
func (h *UnitsHandler) Convert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind, ok := parseKind(q.Get("kind"))
	if !ok {
		http.Error(w, "Unknown unit kind", http.StatusBadRequest)
		return
	}
	value, err := strconv.ParseFloat(q.Get("value"), 64)
	if err != nil {
		http.Error(w, "Invalid value", http.StatusBadRequest)
		return
	}

	from := q.Get("from")
	if from == "" {
		from = units.BaseUnit(kind)
	}
	to := q.Get("to")
	if to == "" {
		to = units.BaseUnit(kind)
	}

	result := units.Convert(value, from, to, kind)
	formatter := units.NewFormatter(units.LocaleForCurrency(h.defaultCurrency))
	if kind == units.KindCurrency {
		formatter = units.NewFormatter(units.LocaleForCurrency(to))
	}
	if h.metrics != nil {
		h.metrics.ConversionServed(string(kind))
	}

	writeJSON(w, http.StatusOK, ConversionResponse{
		Value:     value,
		From:      from,
		To:        to,
		Kind:      kind,
		Result:    result,
		Formatted: formatter.Format(result, kind),
	})
}

// System returns the unit bundle paired with a currency.
func (h *UnitsHandler) System(w http.ResponseWriter, r *http.Request) {
	currency := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("currency")))
	if currency == "" {
		currency = strings.ToUpper(h.defaultCurrency)
	}
	writeJSON(w, http.StatusOK, SystemResponse{
		Currency:  currency,
		Supported: units.SupportedCurrency(currency),
		Locale:    units.LocaleForCurrency(currency).String(),
		Units:     units.UnitSystemForCurrency(currency),
	})
}

// Units lists the known units of every kind with their base unit.
func (h *UnitsHandler) Units(w http.ResponseWriter, r *http.Request) {
	type kindUnits struct {
		Kind  units.Kind `json:"kind"`
		Base  string     `json:"base"`
		Units []string   `json:"units"`
	}
	out := make([]kindUnits, 0, len(units.Kinds))
	for _, k := range units.Kinds {
		out = append(out, kindUnits{Kind: k, Base: units.BaseUnit(k), Units: units.Units(k)})
	}
	writeJSON(w, http.StatusOK, out)
}
