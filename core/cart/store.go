package cart

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/irsalhamdi/nutrition-cart/core/nutrient"
	"github.com/irsalhamdi/nutrition-cart/database"
	"github.com/jmoiron/sqlx"
)

func nutrientColumns(alias string) string {
	cols := make([]string, 0, len(nutrient.Categories))
	for _, c := range nutrient.Categories {
		if alias != "" {
			cols = append(cols, alias+"."+c.Name)
			continue
		}
		cols = append(cols, c.Name)
	}
	return strings.Join(cols, ", ")
}

func nutrientParams() string {
	params := make([]string, 0, len(nutrient.Categories))
	for _, c := range nutrient.Categories {
		params = append(params, ":"+c.Name)
	}
	return strings.Join(params, ", ")
}

func nutrientAssignments() string {
	set := make([]string, 0, len(nutrient.Categories))
	for _, c := range nutrient.Categories {
		set = append(set, c.Name+" = :"+c.Name)
	}
	return strings.Join(set, ", ")
}

var (
	cartColumns = "c.cart_id, c.user_id, c.number, " + nutrientColumns("c") + ", c.created_at, c.updated_at"
	itemColumns = "i.item_id, i.cart_id, i.name, i.image_url, " + nutrientColumns("i") + ", i.serving_qty, i.serving_unit, i.created_at"
)

type cartKey struct {
	CartID string `db:"cart_id"`
}

type userKey struct {
	UserID string `db:"user_id"`
}

type pageKey struct {
	UserID string `db:"user_id"`
	Limit  int    `db:"limit"`
	Offset int    `db:"offset"`
}

func Fetch(ctx context.Context, db sqlx.ExtContext, cartID string) (Cart, error) {
	q := `
	SELECT ` + cartColumns + `, u.username
	FROM carts c
	JOIN users u ON u.user_id = c.user_id
	WHERE c.cart_id = :cart_id`

	var c Cart
	if err := database.NamedQueryStruct(ctx, db, q, cartKey{cartID}, &c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

// lock fetches the cart row and holds mode ("UPDATE" or "SHARE") on it until
// the transaction ends.
func lock(ctx context.Context, tx sqlx.ExtContext, cartID string, mode string) (Cart, error) {
	q := `
	SELECT ` + cartColumns + `
	FROM carts c
	WHERE c.cart_id = :cart_id
	FOR ` + mode

	var c Cart
	if err := database.NamedQueryStruct(ctx, tx, q, cartKey{cartID}, &c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

func FetchItems(ctx context.Context, db sqlx.ExtContext, cartID string) ([]Item, error) {
	q := `
	SELECT ` + itemColumns + `
	FROM food_items i
	WHERE i.cart_id = :cart_id
	ORDER BY i.seq`

	var items []Item
	if err := database.NamedQuerySlice(ctx, db, q, cartKey{cartID}, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func fetchItem(ctx context.Context, db sqlx.ExtContext, itemID string) (Item, error) {
	q := `
	SELECT ` + itemColumns + `
	FROM food_items i
	WHERE i.item_id = :item_id`

	in := struct {
		ItemID string `db:"item_id"`
	}{itemID}

	var it Item
	if err := database.NamedQueryStruct(ctx, db, q, in, &it); err != nil {
		return Item{}, err
	}
	return it, nil
}

// paginate fetches one row past the page to learn whether another follows.
func paginate(ctx context.Context, db sqlx.ExtContext, q string, userID string, n int, perPage int) (Page, error) {
	var carts []Cart
	if err := database.NamedQuerySlice(ctx, db, q, pageKey{userID, perPage + 1, (n - 1) * perPage}, &carts); err != nil {
		return Page{}, err
	}

	p := Page{Carts: carts, Page: n, PerPage: perPage}
	if len(carts) > perPage {
		p.Carts = carts[:perPage]
		p.HasNext = true
	}
	return p, nil
}

// QueryByUser pages through a user's carts, newest first, or by the total of
// sortBy (a nutrient category name) when it is not empty.
func QueryByUser(ctx context.Context, db sqlx.ExtContext, userID string, sortBy string, page int, perPage int) (Page, error) {
	order := "c.created_at DESC, c.number DESC"
	if sortBy != "" {
		cat, ok := nutrient.Lookup(sortBy)
		if !ok {
			return Page{}, fmt.Errorf("unknown nutrient %q", sortBy)
		}
		order = "c." + cat.Name + " DESC, " + order
	}

	q := `
	SELECT ` + cartColumns + `, u.username
	FROM carts c
	JOIN users u ON u.user_id = c.user_id
	WHERE c.user_id = :user_id
	ORDER BY ` + order + `
	LIMIT :limit OFFSET :offset`

	return paginate(ctx, db, q, userID, page, perPage)
}

// QueryFollowed pages through the carts of the users userID follows, newest
// first.
func QueryFollowed(ctx context.Context, db sqlx.ExtContext, userID string, page int, perPage int) (Page, error) {
	q := `
	SELECT ` + cartColumns + `, u.username
	FROM carts c
	JOIN users u ON u.user_id = c.user_id
	JOIN follows f ON f.followed_id = c.user_id
	WHERE f.follower_id = :user_id
	ORDER BY c.created_at DESC, c.cart_id
	LIMIT :limit OFFSET :offset`

	return paginate(ctx, db, q, userID, page, perPage)
}

// ownerID resolves a username to its user id.
func ownerID(ctx context.Context, db sqlx.ExtContext, username string) (string, error) {
	in := struct {
		Username string `db:"username"`
	}{username}

	q := `SELECT user_id FROM users WHERE username = :username`

	var u userKey
	if err := database.NamedQueryStruct(ctx, db, q, in, &u); err != nil {
		return "", err
	}
	return u.UserID, nil
}

func nextNumber(ctx context.Context, tx sqlx.ExtContext, userID string) (int, error) {
	// Serialises cart creation per user so numbers stay distinct.
	lq := `SELECT user_id FROM users WHERE user_id = :user_id FOR UPDATE`
	var u userKey
	if err := database.NamedQueryStruct(ctx, tx, lq, userKey{userID}, &u); err != nil {
		return 0, err
	}

	q := `SELECT COALESCE(MAX(number), 0) + 1 AS number FROM carts WHERE user_id = :user_id`
	var out struct {
		Number int `db:"number"`
	}
	if err := database.NamedQueryStruct(ctx, tx, q, userKey{userID}, &out); err != nil {
		return 0, err
	}
	return out.Number, nil
}

func insert(ctx context.Context, tx sqlx.ExtContext, c Cart) error {
	q := `
	INSERT INTO carts (cart_id, user_id, number, ` + nutrientColumns("") + `, created_at, updated_at)
	VALUES (:cart_id, :user_id, :number, ` + nutrientParams() + `, :created_at, :updated_at)`

	return database.NamedExecContext(ctx, tx, q, c)
}

func insertItem(ctx context.Context, tx sqlx.ExtContext, it Item) error {
	q := `
	INSERT INTO food_items (item_id, cart_id, name, image_url, ` + nutrientColumns("") + `, serving_qty, serving_unit, created_at)
	VALUES (:item_id, :cart_id, :name, :image_url, ` + nutrientParams() + `, :serving_qty, :serving_unit, :created_at)`

	return database.NamedExecContext(ctx, tx, q, it)
}

func updateTotals(ctx context.Context, tx sqlx.ExtContext, cartID string, totals nutrient.Nutrients, now time.Time) error {
	q := `
	UPDATE carts SET ` + nutrientAssignments() + `, updated_at = :updated_at
	WHERE cart_id = :cart_id`

	in := struct {
		CartID string `db:"cart_id"`
		nutrient.Nutrients
		UpdatedAt time.Time `db:"updated_at"`
	}{cartID, totals, now}

	return database.NamedExecAffected(ctx, tx, q, in)
}

func remove(ctx context.Context, tx sqlx.ExtContext, cartID string) error {
	q := `DELETE FROM carts WHERE cart_id = :cart_id`
	return database.NamedExecAffected(ctx, tx, q, cartKey{cartID})
}

func removeItem(ctx context.Context, tx sqlx.ExtContext, itemID string) error {
	q := `DELETE FROM food_items WHERE item_id = :item_id`
	in := struct {
		ItemID string `db:"item_id"`
	}{itemID}
	return database.NamedExecAffected(ctx, tx, q, in)
}
