package nutrient

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func sequence(start int64) Nutrients {
	var n Nutrients
	for i, c := range Categories {
		c.Set(&n, decimal.NewFromInt(start+int64(i)))
	}
	return n
}

func TestCategories(t *testing.T) {
	want := []string{
		"calories", "total_fat", "saturated_fat", "cholesterol", "sodium",
		"total_carbohydrate", "dietary_fiber", "sugars", "protein",
	}

	var got []string
	for _, c := range Categories {
		got = append(got, c.Name)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected categories (-want +got):\n%s", diff)
	}

	if _, ok := Lookup("sugars"); !ok {
		t.Fatal("expected sugars to be a category")
	}
	if _, ok := Lookup("nf_sugars"); ok {
		t.Fatal("provider keys must not resolve as category names")
	}
}

func TestSum(t *testing.T) {
	if got := Sum(); !got.Equal(Nutrients{}) {
		t.Fatalf("expected empty sum to be zero, got %+v", got)
	}

	got := Sum(sequence(1), sequence(11))
	want := Nutrients{
		Calories:          decimal.NewFromInt(12),
		TotalFat:          decimal.NewFromInt(14),
		SaturatedFat:      decimal.NewFromInt(16),
		Cholesterol:       decimal.NewFromInt(18),
		Sodium:            decimal.NewFromInt(20),
		TotalCarbohydrate: decimal.NewFromInt(22),
		DietaryFiber:      decimal.NewFromInt(24),
		Sugars:            decimal.NewFromInt(26),
		Protein:           decimal.NewFromInt(28),
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected sum (-want +got):\n%s", diff)
	}
}

func TestScaleAndRound(t *testing.T) {
	n := Nutrients{
		Calories:    decimal.RequireFromString("20.20202020"),
		Cholesterol: decimal.NewFromInt(20),
		Sugars:      decimal.RequireFromString("88.88"),
	}

	r := n.Round()
	if !r.Calories.Equal(decimal.RequireFromString("20.20")) {
		t.Fatalf("expected 20.20 calories, got %s", r.Calories)
	}
	if !r.Cholesterol.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected 20 cholesterol, got %s", r.Cholesterol)
	}

	if again := r.Scale(decimal.NewFromInt(1)).Round(); !again.Equal(r) {
		t.Fatalf("expected rounding at multiplier 1 to be stable, got %+v", again)
	}

	doubled := n.Scale(decimal.NewFromInt(2))
	if !doubled.Sugars.Equal(decimal.RequireFromString("177.76")) {
		t.Fatalf("expected 177.76 sugars, got %s", doubled.Sugars)
	}
	if !doubled.Calories.Equal(decimal.RequireFromString("40.4040404")) {
		t.Fatalf("scaling must not round, got %s", doubled.Calories)
	}
}

func TestFacts(t *testing.T) {
	facts := Nutrients{Calories: decimal.RequireFromString("71.5")}.Facts()
	if len(facts) != len(Categories) {
		t.Fatalf("expected %d facts, got %d", len(Categories), len(facts))
	}

	want := Fact{Name: "calories", Label: "Calories", Amount: "71.50", Unit: "kcal"}
	if diff := cmp.Diff(want, facts[0]); diff != "" {
		t.Fatalf("unexpected fact (-want +got):\n%s", diff)
	}
	if facts[8].Amount != "0.00" {
		t.Fatalf("expected zero protein rendered as 0.00, got %s", facts[8].Amount)
	}
}
