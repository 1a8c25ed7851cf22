package user

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/irsalhamdi/nutrition-cart/api/web"
	"github.com/irsalhamdi/nutrition-cart/api/weberr"
	"github.com/irsalhamdi/nutrition-cart/core/claims"
	"github.com/irsalhamdi/nutrition-cart/database"
	"github.com/jmoiron/sqlx"
)

const searchLimit = 20

func HandleShowCurrent(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		usr, err := Fetch(ctx, db, clm.UserID)
		if err != nil {
			if errors.Is(err, database.ErrDBNotFound) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching user[%s]: %w", clm.UserID, err)
		}

		return web.Respond(ctx, w, usr, http.StatusOK)
	}
}

// target resolves the {username} path parameter.
func target(ctx context.Context, db *sqlx.DB, r *http.Request) (User, error) {
	username := web.Param(r, "username")

	usr, err := FetchByUsername(ctx, db, username)
	if err != nil {
		if errors.Is(err, database.ErrDBNotFound) {
			return User{}, weberr.NotFound(err, weberr.WithField("username", username))
		}
		return User{}, fmt.Errorf("fetching user[%s]: %w", username, err)
	}
	return usr, nil
}

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		usr, err := target(ctx, db, r)
		if err != nil {
			return err
		}

		following, err := IsFollowing(ctx, db, clm.UserID, usr.ID)
		if err != nil {
			return fmt.Errorf("checking follow of user[%s]: %w", usr.ID, err)
		}

		p := Profile{
			Username:  usr.Username,
			Following: following,
			CreatedAt: usr.CreatedAt,
		}
		return web.Respond(ctx, w, p, http.StatusOK)
	}
}

// HandleSearch lists users whose name starts with the "q" query parameter.
func HandleSearch(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		if q == "" {
			return weberr.BadRequest(errors.New("empty search"))
		}

		users, err := Search(ctx, db, q, searchLimit)
		if err != nil {
			return fmt.Errorf("searching users: %w", err)
		}

		out := make([]Profile, 0, len(users))
		for _, u := range users {
			out = append(out, Profile{Username: u.Username, CreatedAt: u.CreatedAt})
		}
		return web.Respond(ctx, w, out, http.StatusOK)
	}
}

func HandleFollow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		usr, err := target(ctx, db, r)
		if err != nil {
			return err
		}

		if clm.UserID == usr.ID {
			return weberr.BadRequest(errors.New("users cannot follow themselves"))
		}

		if err := Follow(ctx, db, clm.UserID, usr.ID); err != nil {
			if errors.Is(err, database.ErrDBDuplicatedEntry) {
				return weberr.Conflict(err, "already following "+usr.Username)
			}
			return fmt.Errorf("following user[%s]: %w", usr.ID, err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func HandleUnfollow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		usr, err := target(ctx, db, r)
		if err != nil {
			return err
		}

		if clm.UserID == usr.ID {
			return weberr.BadRequest(errors.New("users cannot unfollow themselves"))
		}

		if err := Unfollow(ctx, db, clm.UserID, usr.ID); err != nil {
			if errors.Is(err, database.ErrDBNotFound) {
				return weberr.Conflict(err, "not following "+usr.Username)
			}
			return fmt.Errorf("unfollowing user[%s]: %w", usr.ID, err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
