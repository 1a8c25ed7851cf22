package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/nutrition-cart/api/web"
	"github.com/irsalhamdi/nutrition-cart/api/weberr"
	"github.com/irsalhamdi/nutrition-cart/core/claims"
	"github.com/irsalhamdi/nutrition-cart/core/nutrient"
	"github.com/irsalhamdi/nutrition-cart/database"
	"github.com/irsalhamdi/nutrition-cart/validate"
	"github.com/jmoiron/sqlx"
)

// webErr maps the errors of this package to responses.
func webErr(err error, id string) error {
	switch {
	case errors.Is(err, database.ErrDBNotFound):
		return weberr.NotFound(err, weberr.WithField("id", id))
	case errors.Is(err, ErrForbidden):
		return weberr.Forbidden(err, weberr.WithField("id", id))
	}
	return err
}

func HandleCreate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		c, err := Create(ctx, db, clm.UserID)
		if err != nil {
			return err
		}
		c.Username = clm.Username

		return web.Respond(ctx, w, c, http.StatusCreated)
	}
}

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.NotFound(err)
		}

		c, err := Fetch(ctx, db, id)
		if err != nil {
			return webErr(fmt.Errorf("fetching cart[%s]: %w", id, err), id)
		}

		if c.Items, err = FetchItems(ctx, db, id); err != nil {
			return fmt.Errorf("fetching items of cart[%s]: %w", id, err)
		}

		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

func HandleDelete(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.NotFound(err)
		}

		if err := Delete(ctx, db, clm.UserID, id); err != nil {
			return webErr(err, id)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func HandleClone(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.NotFound(err)
		}

		c, err := Clone(ctx, db, clm.UserID, id)
		if err != nil {
			return webErr(err, id)
		}
		c.Username = clm.Username

		return web.Respond(ctx, w, c, http.StatusCreated)
	}
}

func HandleDeleteItem(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.NotFound(err)
		}

		if err := RemoveItem(ctx, db, clm.UserID, id); err != nil {
			return webErr(err, id)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

// HandleListByUser lists the carts of the user named in the path, optionally
// sorted by the total of one nutrient.
func HandleListByUser(db *sqlx.DB, perPage int) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		n, err := web.Page(r)
		if err != nil {
			return weberr.BadRequest(err)
		}

		sortBy := r.URL.Query().Get("nutrient")
		if sortBy != "" {
			if _, ok := nutrient.Lookup(sortBy); !ok {
				return weberr.BadRequest(fmt.Errorf("unknown nutrient %q", sortBy))
			}
		}

		username := web.Param(r, "username")
		owner, err := ownerID(ctx, db, username)
		if err != nil {
			return webErr(fmt.Errorf("fetching user[%s]: %w", username, err), username)
		}

		p, err := QueryByUser(ctx, db, owner, sortBy, n, perPage)
		if err != nil {
			return fmt.Errorf("listing carts of user[%s]: %w", username, err)
		}

		return web.Respond(ctx, w, p, http.StatusOK)
	}
}

func HandleListFollowed(db *sqlx.DB, perPage int) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		n, err := web.Page(r)
		if err != nil {
			return weberr.BadRequest(err)
		}

		p, err := QueryFollowed(ctx, db, clm.UserID, n, perPage)
		if err != nil {
			return fmt.Errorf("listing carts followed by user[%s]: %w", clm.UserID, err)
		}

		return web.Respond(ctx, w, p, http.StatusOK)
	}
}
