package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/irsalhamdi/nutrition-cart/core/nutrient"
	"github.com/irsalhamdi/nutrition-cart/database"
	"github.com/irsalhamdi/nutrition-cart/validate"
	"github.com/jmoiron/sqlx"
)

// The functions in this file are the only writers of cart membership and
// cart totals. Each runs in one transaction with the cart row locked, and
// ends with recompute, so stored totals always equal the sum of the items.

// Totals sums the nutrients of items.
func Totals(items []Item) nutrient.Nutrients {
	ns := make([]nutrient.Nutrients, 0, len(items))
	for _, it := range items {
		ns = append(ns, it.Nutrients)
	}
	return nutrient.Sum(ns...)
}

func recompute(ctx context.Context, tx sqlx.ExtContext, cartID string, now time.Time) (nutrient.Nutrients, error) {
	items, err := FetchItems(ctx, tx, cartID)
	if err != nil {
		return nutrient.Nutrients{}, fmt.Errorf("fetching items: %w", err)
	}

	totals := Totals(items)
	if err := updateTotals(ctx, tx, cartID, totals, now); err != nil {
		return nutrient.Nutrients{}, fmt.Errorf("updating totals: %w", err)
	}
	return totals, nil
}

// owned locks the cart for writing and checks that userID owns it.
func owned(ctx context.Context, tx sqlx.ExtContext, userID, cartID string) (Cart, error) {
	c, err := lock(ctx, tx, cartID, "UPDATE")
	if err != nil {
		return Cart{}, err
	}
	if c.UserID != userID {
		return Cart{}, ErrForbidden
	}
	return c, nil
}

// Create makes an empty cart for userID.
func Create(ctx context.Context, db *sqlx.DB, userID string) (Cart, error) {
	var c Cart
	err := database.Transaction(ctx, db, func(tx sqlx.ExtContext) error {
		n, err := nextNumber(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("numbering cart: %w", err)
		}

		now := time.Now().UTC()
		c = Cart{
			ID:        validate.GenerateID(),
			UserID:    userID,
			Number:    n,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := insert(ctx, tx, c); err != nil {
			return fmt.Errorf("inserting cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return Cart{}, fmt.Errorf("creating cart for user[%s]: %w", userID, err)
	}
	return c, nil
}

// AddItem puts nw in the cart and returns the stored item.
func AddItem(ctx context.Context, db *sqlx.DB, userID, cartID string, nw ItemNew) (Item, error) {
	var it Item
	err := database.Transaction(ctx, db, func(tx sqlx.ExtContext) error {
		if _, err := owned(ctx, tx, userID, cartID); err != nil {
			return err
		}

		now := time.Now().UTC()
		it = Item{
			ID:          validate.GenerateID(),
			CartID:      cartID,
			Name:        nw.Name,
			ImageURL:    nw.ImageURL,
			Nutrients:   nw.Nutrients.Round(),
			ServingQty:  nw.ServingQty.RoundBank(nutrient.Places),
			ServingUnit: nw.ServingUnit,
			CreatedAt:   now,
		}
		if err := insertItem(ctx, tx, it); err != nil {
			return fmt.Errorf("inserting item: %w", err)
		}

		if _, err := recompute(ctx, tx, cartID, now); err != nil {
			return fmt.Errorf("recomputing: %w", err)
		}
		return nil
	})
	if err != nil {
		return Item{}, fmt.Errorf("adding item to cart[%s]: %w", cartID, err)
	}
	return it, nil
}

// RemoveItem deletes an item from its cart.
func RemoveItem(ctx context.Context, db *sqlx.DB, userID, itemID string) error {
	err := database.Transaction(ctx, db, func(tx sqlx.ExtContext) error {
		it, err := fetchItem(ctx, tx, itemID)
		if err != nil {
			return err
		}

		if _, err := owned(ctx, tx, userID, it.CartID); err != nil {
			return err
		}

		if err := removeItem(ctx, tx, itemID); err != nil {
			return fmt.Errorf("deleting item: %w", err)
		}

		if _, err := recompute(ctx, tx, it.CartID, time.Now().UTC()); err != nil {
			return fmt.Errorf("recomputing: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("removing item[%s]: %w", itemID, err)
	}
	return nil
}

// Clone copies every item of cart srcID into a new cart owned by userID.
// The copy shares nothing with the source.
func Clone(ctx context.Context, db *sqlx.DB, userID, srcID string) (Cart, error) {
	var c Cart
	err := database.Transaction(ctx, db, func(tx sqlx.ExtContext) error {
		if _, err := lock(ctx, tx, srcID, "SHARE"); err != nil {
			return err
		}

		items, err := FetchItems(ctx, tx, srcID)
		if err != nil {
			return fmt.Errorf("fetching source items: %w", err)
		}

		n, err := nextNumber(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("numbering cart: %w", err)
		}

		now := time.Now().UTC()
		c = Cart{
			ID:        validate.GenerateID(),
			UserID:    userID,
			Number:    n,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := insert(ctx, tx, c); err != nil {
			return fmt.Errorf("inserting cart: %w", err)
		}

		c.Items = make([]Item, 0, len(items))
		for _, src := range items {
			it := src
			it.ID = validate.GenerateID()
			it.CartID = c.ID
			it.CreatedAt = now
			if err := insertItem(ctx, tx, it); err != nil {
				return fmt.Errorf("copying item[%s]: %w", src.ID, err)
			}
			c.Items = append(c.Items, it)
		}

		totals, err := recompute(ctx, tx, c.ID, now)
		if err != nil {
			return fmt.Errorf("recomputing: %w", err)
		}
		c.Nutrients = totals
		return nil
	})
	if err != nil {
		return Cart{}, fmt.Errorf("cloning cart[%s]: %w", srcID, err)
	}
	return c, nil
}

// Delete removes the cart and its items.
func Delete(ctx context.Context, db *sqlx.DB, userID, cartID string) error {
	err := database.Transaction(ctx, db, func(tx sqlx.ExtContext) error {
		if _, err := owned(ctx, tx, userID, cartID); err != nil {
			return err
		}
		return remove(ctx, tx, cartID)
	})
	if err != nil {
		return fmt.Errorf("deleting cart[%s]: %w", cartID, err)
	}
	return nil
}
