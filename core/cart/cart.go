package cart

import (
	"errors"
	"time"

	"github.com/irsalhamdi/nutrition-cart/core/nutrient"
	"github.com/shopspring/decimal"
)

// ErrForbidden is returned when a user mutates a cart or item they do not own.
var ErrForbidden = errors.New("cart belongs to another user")

type Cart struct {
	ID       string `json:"id" db:"cart_id"`
	UserID   string `json:"userId" db:"user_id"`
	Username string `json:"username,omitempty" db:"username"`
	Number   int    `json:"number" db:"number"`
	nutrient.Nutrients
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
	Items     []Item    `json:"items,omitempty" db:"-"`
}

type Item struct {
	ID       string `json:"id" db:"item_id"`
	CartID   string `json:"cartId" db:"cart_id"`
	Name     string `json:"name" db:"name"`
	ImageURL string `json:"imageUrl" db:"image_url"`
	nutrient.Nutrients
	ServingQty  decimal.Decimal `json:"servingQty" db:"serving_qty"`
	ServingUnit string          `json:"servingUnit" db:"serving_unit"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

// ItemNew is a food item about to be put in a cart.
type ItemNew struct {
	Name        string
	ImageURL    string
	Nutrients   nutrient.Nutrients
	ServingQty  decimal.Decimal
	ServingUnit string
}

type Page struct {
	Carts   []Cart `json:"carts"`
	Page    int    `json:"page"`
	PerPage int    `json:"perPage"`
	HasNext bool   `json:"hasNext"`
}
