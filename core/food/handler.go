package food

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/nutrition-cart/api/middleware"
	"github.com/irsalhamdi/nutrition-cart/api/web"
	"github.com/irsalhamdi/nutrition-cart/api/weberr"
	"github.com/irsalhamdi/nutrition-cart/core/cart"
	"github.com/irsalhamdi/nutrition-cart/core/claims"
	"github.com/irsalhamdi/nutrition-cart/database"
	"github.com/irsalhamdi/nutrition-cart/validate"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

const (
	KindCommon  = "common"
	KindBranded = "branded"
)

// ItemAdd is the request to put a food, at a serving, in a cart.
type ItemAdd struct {
	Kind          string `json:"kind" validate:"required,oneof=common branded"`
	Food          string `json:"food" validate:"required"`
	ServingWeight string `json:"servingWeight"`
	ServingQty    string `json:"servingQty"`
}

func fetch(ctx context.Context, p Provider, kind, key string) (RawRecord, error) {
	switch kind {
	case KindCommon:
		return p.Common(ctx, key)
	case KindBranded:
		return p.Branded(ctx, key)
	}
	return nil, fmt.Errorf("kind %q: %w", kind, ErrNotFound)
}

// view fetches a food and shows it at the requested serving.
func view(ctx context.Context, log logrus.FieldLogger, p Provider, kind, key, weight, qty string) (View, error) {
	raw, err := fetch(ctx, p, kind, key)
	if err != nil {
		return View{}, fmt.Errorf("fetching %s food %q: %w", kind, key, err)
	}

	v, err := NewView(raw, weight, qty)
	if err != nil {
		return View{}, fmt.Errorf("viewing %s food %q: %w", kind, key, err)
	}

	if len(v.Food.Malformed) > 0 {
		log.WithFields(logrus.Fields{
			"req_id":    middleware.ContextRequestID(ctx),
			"food":      key,
			"malformed": v.Food.Malformed,
		}).Debug("defaulted provider fields")
	}
	return v, nil
}

func webErr(err error) error {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrInvalidServingData),
		errors.Is(err, ErrUnknownServingUnit),
		errors.Is(err, database.ErrDBNotFound):
		return weberr.NotFound(err)
	case errors.Is(err, cart.ErrForbidden):
		return weberr.Forbidden(err)
	}
	return err
}

func HandleSearch(p Provider) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		query := web.Param(r, "query")
		filter := web.Param(r, "filter")

		if filter != KindCommon && filter != KindBranded {
			return weberr.NotFound(fmt.Errorf("unknown filter %q", filter))
		}

		res, err := p.Search(ctx, query)
		if err != nil {
			return webErr(fmt.Errorf("searching %q: %w", query, err))
		}

		hits := res.Common
		if filter == KindBranded {
			hits = res.Branded
		}

		return web.Respond(ctx, w, hits, http.StatusOK)
	}
}

// HandleShow serves a food of the given kind, keyed by the {key} path
// parameter, at the optional {weight} and {qty} serving.
func HandleShow(log logrus.FieldLogger, p Provider, kind string) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		v, err := view(ctx, log, p, kind, web.Param(r, "key"), web.Param(r, "weight"), web.Param(r, "qty"))
		if err != nil {
			return webErr(err)
		}

		return web.Respond(ctx, w, v, http.StatusOK)
	}
}

// HandleAddItem builds the item from the provider's record, never from
// client supplied nutrients, and adds it to the cart.
func HandleAddItem(log logrus.FieldLogger, db *sqlx.DB, p Provider) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		cartID := web.Param(r, "id")
		if err := validate.CheckID(cartID); err != nil {
			return weberr.NotFound(err)
		}

		var in ItemAdd
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.Invalid(err)
		}

		v, err := view(ctx, log, p, in.Kind, in.Food, in.ServingWeight, in.ServingQty)
		if err != nil {
			return webErr(err)
		}

		it, err := cart.AddItem(ctx, db, clm.UserID, cartID, v.ItemNew())
		if err != nil {
			return webErr(err)
		}

		return web.Respond(ctx, w, it, http.StatusCreated)
	}
}
