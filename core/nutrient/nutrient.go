// Package nutrient holds the fixed set of nutrient quantities tracked for
// foods and carts, and the bulk arithmetic over them.
package nutrient

import (
	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits kept for display and storage.
const Places = 2

type Nutrients struct {
	Calories          decimal.Decimal `json:"calories" db:"calories"`
	TotalFat          decimal.Decimal `json:"totalFat" db:"total_fat"`
	SaturatedFat      decimal.Decimal `json:"saturatedFat" db:"saturated_fat"`
	Cholesterol       decimal.Decimal `json:"cholesterol" db:"cholesterol"`
	Sodium            decimal.Decimal `json:"sodium" db:"sodium"`
	TotalCarbohydrate decimal.Decimal `json:"totalCarbohydrate" db:"total_carbohydrate"`
	DietaryFiber      decimal.Decimal `json:"dietaryFiber" db:"dietary_fiber"`
	Sugars            decimal.Decimal `json:"sugars" db:"sugars"`
	Protein           decimal.Decimal `json:"protein" db:"protein"`
}

// Category describes one tracked nutrient. Name doubles as the column name.
type Category struct {
	Name        string
	Label       string
	Unit        string
	ProviderKey string
	field       func(*Nutrients) *decimal.Decimal
}

// Get returns the category's value in n.
func (c Category) Get(n Nutrients) decimal.Decimal {
	return *c.field(&n)
}

// Set stores v as the category's value in n.
func (c Category) Set(n *Nutrients, v decimal.Decimal) {
	*c.field(n) = v
}

var Categories = []Category{
	{"calories", "Calories", "kcal", "nf_calories", func(n *Nutrients) *decimal.Decimal { return &n.Calories }},
	{"total_fat", "Total Fat", "g", "nf_total_fat", func(n *Nutrients) *decimal.Decimal { return &n.TotalFat }},
	{"saturated_fat", "Saturated Fat", "g", "nf_saturated_fat", func(n *Nutrients) *decimal.Decimal { return &n.SaturatedFat }},
	{"cholesterol", "Cholesterol", "mg", "nf_cholesterol", func(n *Nutrients) *decimal.Decimal { return &n.Cholesterol }},
	{"sodium", "Sodium", "mg", "nf_sodium", func(n *Nutrients) *decimal.Decimal { return &n.Sodium }},
	{"total_carbohydrate", "Total Carbohydrate", "g", "nf_total_carbohydrate", func(n *Nutrients) *decimal.Decimal { return &n.TotalCarbohydrate }},
	{"dietary_fiber", "Dietary Fiber", "g", "nf_dietary_fiber", func(n *Nutrients) *decimal.Decimal { return &n.DietaryFiber }},
	{"sugars", "Sugars", "g", "nf_sugars", func(n *Nutrients) *decimal.Decimal { return &n.Sugars }},
	{"protein", "Protein", "g", "nf_protein", func(n *Nutrients) *decimal.Decimal { return &n.Protein }},
}

// Lookup finds a category by name.
func Lookup(name string) (Category, bool) {
	for _, c := range Categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// Map applies fn to every category value and returns the result.
func (n Nutrients) Map(fn func(decimal.Decimal) decimal.Decimal) Nutrients {
	var out Nutrients
	for _, c := range Categories {
		c.Set(&out, fn(c.Get(n)))
	}
	return out
}

// Scale multiplies every value by m without rounding.
func (n Nutrients) Scale(m decimal.Decimal) Nutrients {
	return n.Map(func(v decimal.Decimal) decimal.Decimal { return v.Mul(m) })
}

// Round rounds every value to Places digits, half to even.
func (n Nutrients) Round() Nutrients {
	return n.Map(func(v decimal.Decimal) decimal.Decimal { return v.RoundBank(Places) })
}

func (n Nutrients) Add(o Nutrients) Nutrients {
	var out Nutrients
	for _, c := range Categories {
		c.Set(&out, c.Get(n).Add(c.Get(o)))
	}
	return out
}

// Sum adds up ns. The sum of nothing is all zeros.
func Sum(ns ...Nutrients) Nutrients {
	var total Nutrients
	for _, n := range ns {
		total = total.Add(n)
	}
	return total
}

func (n Nutrients) Equal(o Nutrients) bool {
	for _, c := range Categories {
		if !c.Get(n).Equal(c.Get(o)) {
			return false
		}
	}
	return true
}

// Fact is a display row for one nutrient.
type Fact struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

// Facts renders n in category order with fixed two digit amounts.
func (n Nutrients) Facts() []Fact {
	facts := make([]Fact, 0, len(Categories))
	for _, c := range Categories {
		facts = append(facts, Fact{
			Name:   c.Name,
			Label:  c.Label,
			Amount: c.Get(n).StringFixed(Places),
			Unit:   c.Unit,
		})
	}
	return facts
}
