package user

import (
	"context"
	"time"

	"github.com/irsalhamdi/nutrition-cart/database"
	"github.com/jmoiron/sqlx"
)

const userColumns = "user_id, username, email, password_hash, created_at, updated_at"

func Create(ctx context.Context, db sqlx.ExtContext, usr User) error {
	q := `
	INSERT INTO users (` + userColumns + `)
	VALUES (:user_id, :username, :email, :password_hash, :created_at, :updated_at)`

	return database.NamedExecContext(ctx, db, q, usr)
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (User, error) {
	in := struct {
		ID string `db:"user_id"`
	}{id}

	q := `SELECT ` + userColumns + ` FROM users WHERE user_id = :user_id`

	var u User
	if err := database.NamedQueryStruct(ctx, db, q, in, &u); err != nil {
		return User{}, err
	}
	return u, nil
}

func FetchByEmail(ctx context.Context, db sqlx.ExtContext, email string) (User, error) {
	in := struct {
		Email string `db:"email"`
	}{email}

	q := `SELECT ` + userColumns + ` FROM users WHERE email = :email`

	var u User
	if err := database.NamedQueryStruct(ctx, db, q, in, &u); err != nil {
		return User{}, err
	}
	return u, nil
}

func FetchByUsername(ctx context.Context, db sqlx.ExtContext, username string) (User, error) {
	in := struct {
		Username string `db:"username"`
	}{username}

	q := `SELECT ` + userColumns + ` FROM users WHERE username = :username`

	var u User
	if err := database.NamedQueryStruct(ctx, db, q, in, &u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Search lists users whose name starts with prefix.
func Search(ctx context.Context, db sqlx.ExtContext, prefix string, limit int) ([]User, error) {
	in := struct {
		Pattern string `db:"pattern"`
		Limit   int    `db:"limit"`
	}{escapeLike(prefix) + "%", limit}

	q := `
	SELECT ` + userColumns + `
	FROM users
	WHERE username ILIKE :pattern
	ORDER BY username
	LIMIT :limit`

	var users []User
	if err := database.NamedQuerySlice(ctx, db, q, in, &users); err != nil {
		return nil, err
	}
	return users, nil
}

type follow struct {
	FollowerID string    `db:"follower_id"`
	FollowedID string    `db:"followed_id"`
	CreatedAt  time.Time `db:"created_at"`
}

func Follow(ctx context.Context, db sqlx.ExtContext, followerID, followedID string) error {
	q := `
	INSERT INTO follows (follower_id, followed_id, created_at)
	VALUES (:follower_id, :followed_id, :created_at)`

	return database.NamedExecContext(ctx, db, q, follow{followerID, followedID, time.Now().UTC()})
}

func Unfollow(ctx context.Context, db sqlx.ExtContext, followerID, followedID string) error {
	q := `
	DELETE FROM follows
	WHERE follower_id = :follower_id AND followed_id = :followed_id`

	return database.NamedExecAffected(ctx, db, q, follow{FollowerID: followerID, FollowedID: followedID})
}

func IsFollowing(ctx context.Context, db sqlx.ExtContext, followerID, followedID string) (bool, error) {
	q := `
	SELECT follower_id, followed_id, created_at
	FROM follows
	WHERE follower_id = :follower_id AND followed_id = :followed_id`

	var f follow
	err := database.NamedQueryStruct(ctx, db, q, follow{FollowerID: followerID, FollowedID: followedID}, &f)
	switch {
	case err == nil:
		return true, nil
	case err == database.ErrDBNotFound:
		return false, nil
	}
	return false, err
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
