package food

import (
	"encoding/json"
	"fmt"

	"github.com/irsalhamdi/nutrition-cart/core/cart"
	"github.com/irsalhamdi/nutrition-cart/core/nutrient"
	"github.com/shopspring/decimal"
)

// View is a food shown at a chosen serving.
type View struct {
	Food     Record
	Measures []Measure
	Selected Measure
	Qty      decimal.Decimal
}

func (v View) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Food     Record          `json:"food"`
		Measures []Measure       `json:"measures"`
		Selected Measure         `json:"selected"`
		Qty      string          `json:"qty"`
		Facts    []nutrient.Fact `json:"facts"`
	}{
		Food:     v.Food,
		Measures: v.Measures,
		Selected: v.Selected,
		Qty:      v.Qty.StringFixed(nutrient.Places),
		Facts:    v.Food.Nutrients.Facts(),
	})
}

// ItemNew builds the cart item for the viewed serving.
func (v View) ItemNew() cart.ItemNew {
	return cart.ItemNew{
		Name:        v.Food.Name,
		ImageURL:    v.Food.ImageURL,
		Nutrients:   v.Food.Nutrients,
		ServingQty:  v.Qty,
		ServingUnit: v.Selected.Name,
	}
}

func parseServing(s string) (decimal.Decimal, error) {
	p := ParseDecimal(s)
	if !p.OK {
		return decimal.Decimal{}, fmt.Errorf("serving value %q: %w", s, ErrInvalidServingData)
	}

	v := p.Value.RoundBank(nutrient.Places)
	if !v.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("serving value %q: %w", s, ErrInvalidServingData)
	}
	return v, nil
}

// NewView shows raw at the serving identified by weight (a measure key such
// as "50.00") times qty. Empty weight and qty select the record's own
// serving. That serving is always listed, so its key can be requested back.
func NewView(raw RawRecord, weight, qty string) (View, error) {
	rec := Sanitize(raw)

	ms, err := Measures(rec)
	if err != nil {
		return View{}, err
	}

	base, err := newMeasure(rec.ServingWeightGrams, rec.ServingQty, rec.ServingUnit)
	if err != nil {
		return View{}, err
	}
	if _, ok := FindMeasure(ms, base.Key()); !ok {
		ms = append([]Measure{base}, ms...)
	}

	v := View{Measures: ms, Qty: rec.ServingQty.RoundBank(nutrient.Places)}

	key := base.Key()
	if weight != "" {
		w, err := parseServing(weight)
		if err != nil {
			return View{}, err
		}
		key = w.StringFixed(nutrient.Places)
	}

	sel, ok := FindMeasure(ms, key)
	if !ok {
		return View{}, fmt.Errorf("serving weight %s: %w", key, ErrUnknownServingUnit)
	}
	v.Selected = sel

	if qty != "" {
		q, err := parseServing(qty)
		if err != nil {
			return View{}, err
		}
		v.Qty = q
	}

	if weight != "" || qty != "" {
		m := ScaleMultiplier(rec.ServingWeightGrams, v.Selected.Weight, v.Qty)
		ApplyScale(&rec, m)
	}
	RoundForDisplay(&rec)

	v.Food = rec
	return v, nil
}
