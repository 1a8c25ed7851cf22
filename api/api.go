package api

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/mux"
	"github.com/irsalhamdi/nutrition-cart/api/middleware"
	"github.com/irsalhamdi/nutrition-cart/api/web"
	"github.com/irsalhamdi/nutrition-cart/core/auth"
	"github.com/irsalhamdi/nutrition-cart/core/cart"
	"github.com/irsalhamdi/nutrition-cart/core/food"
	"github.com/irsalhamdi/nutrition-cart/core/user"
	"github.com/irsalhamdi/nutrition-cart/rate"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type APIConfig struct {
	CorsOrigin   string
	Log          logrus.FieldLogger
	DB           *sqlx.DB
	Session      *scs.SessionManager
	Foods        food.Provider
	LoginLimiter *rate.Limiter
	CartsPerPage int
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, auth.LoadAndSave(cfg.Session))
	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	authen := auth.Authenticate(cfg.Session)

	a.Handle(http.MethodPost, "/auth/signup", auth.HandleSignup(cfg.DB, cfg.Session))
	a.Handle(http.MethodPost, "/auth/login", auth.HandleLogin(cfg.DB, cfg.Session, cfg.LoginLimiter))
	a.Handle(http.MethodPost, "/auth/logout", auth.HandleLogout(cfg.Session))

	a.Handle(http.MethodGet, "/users/current", user.HandleShowCurrent(cfg.DB), authen)
	a.Handle(http.MethodGet, "/users", user.HandleSearch(cfg.DB), authen)
	a.Handle(http.MethodGet, "/users/{username}", user.HandleShow(cfg.DB), authen)
	a.Handle(http.MethodPost, "/users/{username}/follow", user.HandleFollow(cfg.DB), authen)
	a.Handle(http.MethodDelete, "/users/{username}/follow", user.HandleUnfollow(cfg.DB), authen)
	a.Handle(http.MethodGet, "/users/{username}/carts", cart.HandleListByUser(cfg.DB, cfg.CartsPerPage), authen)

	a.Handle(http.MethodGet, "/foods/search/{query}/{filter}", food.HandleSearch(cfg.Foods), authen)
	for _, kind := range []string{food.KindCommon, food.KindBranded} {
		show := food.HandleShow(cfg.Log, cfg.Foods, kind)
		a.Handle(http.MethodGet, "/foods/"+kind+"/{key}", show, authen)
		a.Handle(http.MethodGet, "/foods/"+kind+"/{key}/{weight}/{qty}", show, authen)
	}

	a.Handle(http.MethodGet, "/carts/followed", cart.HandleListFollowed(cfg.DB, cfg.CartsPerPage), authen)
	a.Handle(http.MethodPost, "/carts", cart.HandleCreate(cfg.DB), authen)
	a.Handle(http.MethodGet, "/carts/{id}", cart.HandleShow(cfg.DB), authen)
	a.Handle(http.MethodDelete, "/carts/{id}", cart.HandleDelete(cfg.DB), authen)
	a.Handle(http.MethodPost, "/carts/{id}/clone", cart.HandleClone(cfg.DB), authen)
	a.Handle(http.MethodPost, "/carts/{id}/items", food.HandleAddItem(cfg.Log, cfg.DB, cfg.Foods), authen)
	a.Handle(http.MethodDelete, "/items/{id}", cart.HandleDeleteItem(cfg.DB), authen)

	return a.Router
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
