package food

import (
	"encoding/json"
	"errors"
	"math"
	"strings"

	"github.com/irsalhamdi/nutrition-cart/core/nutrient"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidServingData = errors.New("invalid serving data")
	ErrUnknownServingUnit = errors.New("unknown serving unit")

	// ErrNotFound is returned by a Provider that has no matching food.
	ErrNotFound = errors.New("food not found")
)

var (
	one  = decimal.NewFromInt(1)
	zero = decimal.Zero
)

// RawRecord is a food as returned by the nutrition provider. Values keep
// whatever type the provider sent.
type RawRecord map[string]any

type AltMeasure struct {
	ServingWeight decimal.Decimal `json:"servingWeight"`
	Qty           decimal.Decimal `json:"qty"`
	Measure       string          `json:"measure"`
}

// Record is a sanitized RawRecord.
type Record struct {
	Name               string          `json:"name"`
	BrandName          string          `json:"brandName,omitempty"`
	NixItemID          string          `json:"nixItemId,omitempty"`
	ImageURL           string          `json:"imageUrl"`
	ServingWeightGrams decimal.Decimal `json:"servingWeightGrams"`
	ServingQty         decimal.Decimal `json:"servingQty"`
	ServingUnit        string          `json:"servingUnit"`
	AltMeasures        []AltMeasure    `json:"altMeasures,omitempty"`
	nutrient.Nutrients

	// Extra holds the provider fields this package does not interpret.
	Extra map[string]any `json:"-"`

	// Malformed lists the numeric fields that fell back to their default.
	Malformed []string `json:"-"`
}

// Parsed is the outcome of a decimal conversion: a value, or nothing.
type Parsed struct {
	Value decimal.Decimal
	OK    bool
}

// Or returns the parsed value, or def when the conversion failed.
func (p Parsed) Or(def decimal.Decimal) decimal.Decimal {
	if !p.OK {
		return def
	}
	return p.Value
}

// ParseDecimal converts the numeric shapes a JSON decoder or a caller may
// hand over. Anything else is reported as not OK.
func ParseDecimal(v any) Parsed {
	switch n := v.(type) {
	case decimal.Decimal:
		return Parsed{n, true}
	case json.Number:
		return parseString(n.String())
	case string:
		return parseString(n)
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return Parsed{}
		}
		return Parsed{decimal.NewFromFloat(n), true}
	case int:
		return Parsed{decimal.NewFromInt(int64(n)), true}
	case int32:
		return Parsed{decimal.NewFromInt32(n), true}
	case int64:
		return Parsed{decimal.NewFromInt(n), true}
	}
	return Parsed{}
}

func parseString(s string) Parsed {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Parsed{}
	}
	return Parsed{d, true}
}

const (
	keyName         = "food_name"
	keyBrand        = "brand_name"
	keyNixItemID    = "nix_item_id"
	keyPhoto        = "photo"
	keyWeight       = "serving_weight_grams"
	keyQty          = "serving_qty"
	keyUnit         = "serving_unit"
	keyAltMeasures  = "alt_measures"
	keyAltWeight    = "serving_weight"
	keyAltQty       = "qty"
	keyAltMeasure   = "measure"
	defaultUnitName = "serving"
)

// Sanitize turns raw into a Record. Serving sizes that do not convert
// become 1 and nutrients that do not convert become 0. It never fails.
func Sanitize(raw RawRecord) Record {
	rec := Record{
		Name:        stringField(raw, keyName),
		BrandName:   stringField(raw, keyBrand),
		NixItemID:   stringField(raw, keyNixItemID),
		ServingUnit: stringField(raw, keyUnit),
		Extra:       make(map[string]any),
	}
	if rec.ServingUnit == "" {
		rec.ServingUnit = defaultUnitName
	}

	if photo, ok := raw[keyPhoto].(map[string]any); ok {
		rec.ImageURL, _ = photo["thumb"].(string)
	}

	// Quantities are never negative; a negative value is as good as garbage.
	num := func(key string, v any, def decimal.Decimal) decimal.Decimal {
		p := ParseDecimal(v)
		if !p.OK || p.Value.IsNegative() {
			rec.Malformed = append(rec.Malformed, key)
			return def
		}
		return p.Value
	}

	rec.ServingWeightGrams = num(keyWeight, raw[keyWeight], one)
	rec.ServingQty = num(keyQty, raw[keyQty], one)

	if alts, ok := raw[keyAltMeasures].([]any); ok {
		rec.AltMeasures = make([]AltMeasure, 0, len(alts))
		for _, a := range alts {
			m, _ := a.(map[string]any)
			alt := AltMeasure{
				ServingWeight: num(keyAltMeasures+"."+keyAltWeight, m[keyAltWeight], one),
				Qty:           num(keyAltMeasures+"."+keyAltQty, m[keyAltQty], one),
				Measure:       stringField(m, keyAltMeasure),
			}
			rec.AltMeasures = append(rec.AltMeasures, alt)
		}
	}

	for _, c := range nutrient.Categories {
		c.Set(&rec.Nutrients, num(c.ProviderKey, raw[c.ProviderKey], zero))
	}

	known := map[string]bool{
		keyName: true, keyBrand: true, keyNixItemID: true, keyPhoto: true,
		keyWeight: true, keyQty: true, keyUnit: true, keyAltMeasures: true,
	}
	for _, c := range nutrient.Categories {
		known[c.ProviderKey] = true
	}
	for k, v := range raw {
		if !known[k] {
			rec.Extra[k] = v
		}
	}

	return rec
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// ScaleMultiplier returns newWeight / originalWeight * qty. When any input
// is missing or not numeric, or originalWeight is zero, it returns 1 so the
// food is shown at its default serving.
func ScaleMultiplier(originalWeight, newWeight, qty any) decimal.Decimal {
	orig := ParseDecimal(originalWeight)
	nw := ParseDecimal(newWeight)
	q := ParseDecimal(qty)
	if !orig.OK || !nw.OK || !q.OK || orig.Value.IsZero() {
		return one
	}
	return nw.Value.Div(orig.Value).Mul(q.Value)
}

// ApplyScale multiplies the record's nutrients by m in place.
func ApplyScale(rec *Record, m decimal.Decimal) *Record {
	rec.Nutrients = rec.Nutrients.Scale(m)
	return rec
}

// RoundForDisplay rounds the record's nutrients to two places in place.
func RoundForDisplay(rec *Record) *Record {
	rec.Nutrients = rec.Nutrients.Round()
	return rec
}
