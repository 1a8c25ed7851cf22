// Package claims carries the signed-in user through a request context.
package claims

import (
	"context"
	"errors"
)

// ErrMissing is returned by Get for a request that has no signed-in user.
var ErrMissing = errors.New("claims missing from context")

// Claims identify the user behind a request.
type Claims struct {
	UserID   string
	Username string
}

type ctxKey struct{}

func Set(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

func Get(ctx context.Context) (Claims, error) {
	c, ok := ctx.Value(ctxKey{}).(Claims)
	if !ok || c.UserID == "" {
		return Claims{}, ErrMissing
	}
	return c, nil
}
