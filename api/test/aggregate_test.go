package test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/irsalhamdi/nutrition-cart/core/cart"
	"github.com/irsalhamdi/nutrition-cart/core/nutrient"
	"github.com/irsalhamdi/nutrition-cart/database"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// storedTotals reads the cart row and its items straight from the database.
func storedTotals(t *testing.T, cartID string) (nutrient.Nutrients, []cart.Item) {
	t.Helper()

	ctx := context.Background()
	c, err := cart.Fetch(ctx, testDB, cartID)
	if err != nil {
		t.Fatalf("fetching cart: %v", err)
	}
	items, err := cart.FetchItems(ctx, testDB, cartID)
	if err != nil {
		t.Fatalf("fetching items: %v", err)
	}
	return c.Nutrients, items
}

func TestCartConcurrentWrites(t *testing.T) {
	env := NewTestEnv(t, "cart_concurrent")
	ct := &cartTest{env}

	alice := env.Signup(t)
	c := ct.createCartOK(t, alice)

	const n = 20
	ctx := context.Background()

	items := make([]cart.Item, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			nw := cart.ItemNew{
				Name:        fmt.Sprintf("food %d", i),
				Nutrients:   nutrient.Nutrients{Calories: decimal.NewFromInt(int64(i + 1)), Protein: decimal.RequireFromString("0.25")},
				ServingQty:  decimal.NewFromInt(1),
				ServingUnit: "g",
			}
			items[i], errs[i] = cart.AddItem(ctx, testDB, alice.ID, c.ID, nw)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}

	totals, stored := storedTotals(t, c.ID)
	if len(stored) != n {
		t.Fatalf("expected %d items, got %d", n, len(stored))
	}
	if diff := cmp.Diff(cart.Totals(stored), totals); diff != "" {
		t.Fatalf("totals lost an update (-items +stored):\n%s", diff)
	}
	if want := decimal.NewFromInt(n * (n + 1) / 2); !totals.Calories.Equal(want) {
		t.Fatalf("expected %s calories, got %s", want, totals.Calories)
	}
	if want := decimal.RequireFromString("5.00"); !totals.Protein.Equal(want) {
		t.Fatalf("expected %s protein, got %s", want, totals.Protein)
	}

	// Remove every other item while adding as many again.
	errs = make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			if i%2 == 0 {
				errs[i] = cart.RemoveItem(ctx, testDB, alice.ID, items[i].ID)
				return
			}
			nw := cart.ItemNew{
				Name:        fmt.Sprintf("extra %d", i),
				Nutrients:   nutrient.Nutrients{Calories: decimal.RequireFromString("0.50")},
				ServingQty:  decimal.NewFromInt(1),
				ServingUnit: "g",
			}
			_, errs[i] = cart.AddItem(ctx, testDB, alice.ID, c.ID, nw)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}

	totals, stored = storedTotals(t, c.ID)
	if len(stored) != n {
		t.Fatalf("expected %d items, got %d", n, len(stored))
	}
	if diff := cmp.Diff(cart.Totals(stored), totals); diff != "" {
		t.Fatalf("totals lost an update (-items +stored):\n%s", diff)
	}

	// Odd positions keep calories 2, 4, ..., 20 and ten extras add 0.50 each.
	if want := decimal.RequireFromString("115.00"); !totals.Calories.Equal(want) {
		t.Fatalf("expected %s calories, got %s", want, totals.Calories)
	}
}

func TestTransactionCanceled(t *testing.T) {
	env := NewTestEnv(t, "tx_canceled")
	ct := &cartTest{env}

	alice := env.Signup(t)
	c := ct.createCartOK(t, alice)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := database.Transaction(ctx, testDB, func(sqlx.ExtContext) error {
		called = true
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if called {
		t.Fatal("expected the transaction body not to run")
	}

	nw := cart.ItemNew{Name: "eggs", ServingQty: decimal.NewFromInt(1), ServingUnit: "large"}
	if _, err := cart.AddItem(ctx, testDB, alice.ID, c.ID, nw); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	if _, stored := storedTotals(t, c.ID); len(stored) != 0 {
		t.Fatalf("expected no items, got %d", len(stored))
	}
}
