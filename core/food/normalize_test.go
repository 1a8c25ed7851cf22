package food

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/irsalhamdi/nutrition-cart/core/nutrient"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func zeroNutrients() RawRecord {
	raw := RawRecord{}
	for _, c := range nutrient.Categories {
		raw[c.ProviderKey] = 0
	}
	return raw
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Parsed
	}{
		{"int", 10, Parsed{dec("10"), true}},
		{"int64", int64(-3), Parsed{dec("-3"), true}},
		{"float", 4.5, Parsed{dec("4.5"), true}},
		{"json number", json.Number("28.3495"), Parsed{dec("28.3495"), true}},
		{"string", " 50.00 ", Parsed{dec("50"), true}},
		{"decimal", dec("1.1"), Parsed{dec("1.1"), true}},
		{"text", "not a float", Parsed{}},
		{"nil", nil, Parsed{}},
		{"bool", true, Parsed{}},
		{"nan", math.NaN(), Parsed{}},
		{"inf", math.Inf(1), Parsed{}},
		{"map", map[string]any{"a": 1}, Parsed{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDecimal(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("unexpected result (-want +got):\n%s", diff)
			}
		})
	}

	if got := ParseDecimal("junk").Or(dec("7")); !got.Equal(dec("7")) {
		t.Fatalf("expected default 7, got %s", got)
	}
}

func TestSanitizeServing(t *testing.T) {
	tests := []struct {
		name string
		raw  RawRecord
	}{
		{"nil and text", RawRecord{"serving_weight_grams": nil, "serving_qty": "not a float"}},
		{"text and nil", RawRecord{"serving_weight_grams": "not a dec", "serving_qty": nil}},
		{"missing", RawRecord{}},
		{"negative", RawRecord{"serving_weight_grams": -5, "serving_qty": -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Sanitize(tt.raw)
			if !rec.ServingWeightGrams.Equal(dec("1")) {
				t.Fatalf("expected serving weight 1, got %s", rec.ServingWeightGrams)
			}
			if !rec.ServingQty.Equal(dec("1")) {
				t.Fatalf("expected serving qty 1, got %s", rec.ServingQty)
			}
			if rec.ServingUnit != "serving" {
				t.Fatalf("expected default unit, got %q", rec.ServingUnit)
			}
		})
	}
}

func TestSanitizeNutrients(t *testing.T) {
	raw := zeroNutrients()
	raw["nf_calories"] = 2000
	raw["nf_sugars"] = "hello"
	raw["nf_cholesterol"] = nil
	raw["nf_not_a_category"] = "should_not_change"
	raw["serving_weight_grams"] = 1
	raw["serving_qty"] = 1

	rec := Sanitize(raw)

	if !rec.Calories.Equal(dec("2000")) {
		t.Fatalf("expected 2000 calories, got %s", rec.Calories)
	}
	if !rec.Sugars.IsZero() {
		t.Fatalf("expected sugars to default to 0, got %s", rec.Sugars)
	}
	if !rec.Cholesterol.IsZero() {
		t.Fatalf("expected cholesterol to default to 0, got %s", rec.Cholesterol)
	}
	if got := rec.Extra["nf_not_a_category"]; got != "should_not_change" {
		t.Fatalf("expected unknown field to pass through, got %v", got)
	}

	want := []string{"nf_cholesterol", "nf_sugars"}
	if diff := cmp.Diff(want, rec.Malformed); diff != "" {
		t.Fatalf("unexpected malformed fields (-want +got):\n%s", diff)
	}
}

func TestSanitizeAltMeasures(t *testing.T) {
	raw := RawRecord{
		"alt_measures": []any{
			map[string]any{"serving_weight": 10, "qty": 10, "measure": "a"},
			map[string]any{"serving_weight": "notdecimal", "qty": "alsonotdecimal", "measure": "b"},
			map[string]any{"serving_weight": nil, "qty": nil, "measure": "c"},
			"not a map",
		},
	}

	rec := Sanitize(raw)

	want := []AltMeasure{
		{ServingWeight: dec("10"), Qty: dec("10"), Measure: "a"},
		{ServingWeight: dec("1"), Qty: dec("1"), Measure: "b"},
		{ServingWeight: dec("1"), Qty: dec("1"), Measure: "c"},
		{ServingWeight: dec("1"), Qty: dec("1")},
	}
	if diff := cmp.Diff(want, rec.AltMeasures); diff != "" {
		t.Fatalf("unexpected alternate measures (-want +got):\n%s", diff)
	}

	if Sanitize(RawRecord{"alt_measures": nil}).AltMeasures != nil {
		t.Fatal("expected null alternate measures to stay absent")
	}
}

func TestSanitizePhoto(t *testing.T) {
	rec := Sanitize(RawRecord{
		"food_name": "apple",
		"photo":     map[string]any{"thumb": "https://example.com/apple.jpg"},
	})
	if rec.ImageURL != "https://example.com/apple.jpg" {
		t.Fatalf("unexpected image url %q", rec.ImageURL)
	}

	rec = Sanitize(RawRecord{"photo": map[string]any{"thumb": nil}})
	if rec.ImageURL != "" {
		t.Fatalf("expected no image url, got %q", rec.ImageURL)
	}
}

func TestScaleMultiplier(t *testing.T) {
	tests := []struct {
		name          string
		orig, nw, qty any
		want          string
	}{
		{"double", 10, 20, 2, "4"},
		{"fraction", 4, 1, 3, "0.75"},
		{"strings", "50", "38.00", "1.00", "0.76"},
		{"text", "hello", 0, 10, "1"},
		{"nil", nil, nil, nil, "1"},
		{"zero original", 0, 10, 1, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScaleMultiplier(tt.orig, tt.nw, tt.qty)
			if !got.Equal(dec(tt.want)) {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestScaleMultiplierLinear(t *testing.T) {
	one := ScaleMultiplier(50, 38, 1)
	for _, k := range []int64{2, 3, 7} {
		got := ScaleMultiplier(50, 38, k)
		want := one.Mul(decimal.NewFromInt(k))
		if !got.Equal(want) {
			t.Fatalf("qty %d: expected %s, got %s", k, want, got)
		}
	}
}

func TestApplyScale(t *testing.T) {
	raw := zeroNutrients()
	raw["nf_calories"] = 800
	raw["nf_sugars"] = 21
	raw["nf_cholesterol"] = 10
	raw["not_in_categories"] = 2000
	raw["not_a_number"] = "Hello World"

	rec := Sanitize(raw)
	ApplyScale(&rec, dec("2"))

	if !rec.Calories.Equal(dec("1600")) {
		t.Fatalf("expected 1600 calories, got %s", rec.Calories)
	}
	if !rec.Sugars.Equal(dec("42")) {
		t.Fatalf("expected 42 sugars, got %s", rec.Sugars)
	}
	if !rec.Cholesterol.Equal(dec("20")) {
		t.Fatalf("expected 20 cholesterol, got %s", rec.Cholesterol)
	}
	if rec.Extra["not_in_categories"] != 2000 || rec.Extra["not_a_number"] != "Hello World" {
		t.Fatalf("expected unknown fields untouched, got %v", rec.Extra)
	}
}

func TestRoundForDisplay(t *testing.T) {
	rec := Record{}
	rec.Calories = dec("20.20202020")
	rec.Cholesterol = dec("20")
	rec.Sugars = dec("88.88")
	rec.Protein = dec("0.125")

	RoundForDisplay(&rec)

	want := map[string]string{
		"calories":    "20.20",
		"cholesterol": "20.00",
		"sugars":      "88.88",
		"protein":     "0.12",
		"sodium":      "0.00",
	}
	for name, s := range want {
		c, _ := nutrient.Lookup(name)
		if got := c.Get(rec.Nutrients).StringFixed(nutrient.Places); got != s {
			t.Fatalf("%s: expected %s, got %s", name, s, got)
		}
	}
}
