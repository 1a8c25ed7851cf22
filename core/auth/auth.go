package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/nutrition-cart/api/web"
	"github.com/irsalhamdi/nutrition-cart/api/weberr"
	"github.com/irsalhamdi/nutrition-cart/core/claims"
)

const (
	userIDKey   = "userID"
	usernameKey = "username"
)

// LoadAndSave loads the session of the request and commits it once the
// handler is done.
func LoadAndSave(sm *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			var err error
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				err = handler(r.Context(), w, r)
			})

			sm.LoadAndSave(next).ServeHTTP(w, r.WithContext(ctx))
			return err
		}
		return h
	}
	return m
}

// Authenticate rejects requests without a logged in user and puts the
// user's claims in the context otherwise.
func Authenticate(sm *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			userID := sm.GetString(ctx, userIDKey)
			if userID == "" {
				return weberr.NotAuthorized(errors.New("user not authenticated"))
			}

			ctx = claims.Set(ctx, claims.Claims{
				UserID:   userID,
				Username: sm.GetString(ctx, usernameKey),
			})

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

func login(ctx context.Context, sm *scs.SessionManager, userID, username string) error {
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}
	sm.Put(ctx, userIDKey, userID)
	sm.Put(ctx, usernameKey, username)
	return nil
}
