package food

import (
	"encoding/json"
	"fmt"

	"github.com/irsalhamdi/nutrition-cart/core/nutrient"
	"github.com/shopspring/decimal"
)

// Measure is one selectable serving: the weight of a single unit and the
// unit's name.
type Measure struct {
	Weight decimal.Decimal
	Name   string
}

// Key is the canonical form of the weight, used to match a requested serving.
func (m Measure) Key() string {
	return m.Weight.StringFixed(nutrient.Places)
}

func (m Measure) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Value string `json:"value"`
		Name  string `json:"name"`
	}{m.Key(), m.Name})
}

func newMeasure(weight, qty decimal.Decimal, name string) (Measure, error) {
	if qty.IsZero() {
		return Measure{}, fmt.Errorf("measure %q has zero quantity: %w", name, ErrInvalidServingData)
	}
	return Measure{Weight: weight.Div(qty).RoundBank(nutrient.Places), Name: name}, nil
}

// Measures lists the servings a record can be shown at. Without alternate
// measures, absent or empty, there is a single one derived from the
// record's own serving.
func Measures(rec Record) ([]Measure, error) {
	if len(rec.AltMeasures) == 0 {
		m, err := newMeasure(rec.ServingWeightGrams, rec.ServingQty, rec.ServingUnit)
		if err != nil {
			return nil, err
		}
		return []Measure{m}, nil
	}

	ms := make([]Measure, 0, len(rec.AltMeasures))
	for _, alt := range rec.AltMeasures {
		m, err := newMeasure(alt.ServingWeight, alt.Qty, alt.Measure)
		if err != nil {
			return nil, err
		}
		ms = append(ms, m)
	}
	return ms, nil
}

// FindMeasure returns the measure whose key is key.
func FindMeasure(ms []Measure, key string) (Measure, bool) {
	for _, m := range ms {
		if m.Key() == key {
			return m, true
		}
	}
	return Measure{}, false
}
