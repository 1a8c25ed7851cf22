package test

import (
	"net/http"
	"testing"

	"github.com/irsalhamdi/nutrition-cart/core/cart"
)

type profile struct {
	Username  string `json:"username"`
	Following bool   `json:"following"`
}

func TestAuth(t *testing.T) {
	env := NewTestEnv(t, "auth")

	alice := env.Signup(t)

	var me struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	alice.Do(t, http.MethodGet, "/users/current", nil, http.StatusOK, &me)
	if me.ID != alice.ID || me.Username != alice.Username || me.Email != alice.Email {
		t.Fatalf("unexpected current user %+v", me)
	}

	alice.Logout(t)
	alice.Do(t, http.MethodGet, "/users/current", nil, http.StatusUnauthorized, nil)
	alice.Do(t, http.MethodPost, "/carts", nil, http.StatusUnauthorized, nil)

	alice.Login(t)
	alice.Do(t, http.MethodGet, "/users/current", nil, http.StatusOK, nil)

	dup := env.NewClient(t)
	in := map[string]string{
		"username":        alice.Username,
		"email":           dup.Email,
		"password":        dup.Password,
		"passwordConfirm": dup.Password,
	}
	dup.Do(t, http.MethodPost, "/auth/signup", in, http.StatusConflict, nil)

	in["username"] = dup.Username
	in["passwordConfirm"] = "something else"
	dup.Do(t, http.MethodPost, "/auth/signup", in, http.StatusUnprocessableEntity, nil)
}

func TestLoginThrottle(t *testing.T) {
	env := NewTestEnv(t, "login_throttle")

	alice := env.Signup(t)
	alice.Logout(t)

	wrong := map[string]string{"email": alice.Email, "password": "not-the-password"}
	for i := 0; i < loginBurst; i++ {
		alice.Do(t, http.MethodPost, "/auth/login", wrong, http.StatusUnauthorized, nil)
	}

	right := map[string]string{"email": alice.Email, "password": alice.Password}
	alice.Do(t, http.MethodPost, "/auth/login", right, http.StatusTooManyRequests, nil)

	bob := env.Signup(t)
	bob.Logout(t)
	bob.Login(t)
}

func TestFollow(t *testing.T) {
	env := NewTestEnv(t, "follow")
	ct := &cartTest{env}

	alice := env.Signup(t)
	bob := env.Signup(t)
	carol := env.Signup(t)

	var p profile
	alice.Do(t, http.MethodGet, "/users/"+bob.Username, nil, http.StatusOK, &p)
	if p.Following {
		t.Fatal("expected alice not to follow bob yet")
	}

	alice.Do(t, http.MethodPost, "/users/"+bob.Username+"/follow", nil, http.StatusNoContent, nil)
	alice.Do(t, http.MethodPost, "/users/"+bob.Username+"/follow", nil, http.StatusConflict, nil)
	alice.Do(t, http.MethodPost, "/users/"+alice.Username+"/follow", nil, http.StatusBadRequest, nil)
	alice.Do(t, http.MethodPost, "/users/nobody"+bob.Username+"/follow", nil, http.StatusNotFound, nil)

	alice.Do(t, http.MethodGet, "/users/"+bob.Username, nil, http.StatusOK, &p)
	if !p.Following {
		t.Fatal("expected alice to follow bob")
	}

	b1 := ct.createCartOK(t, bob)
	_ = ct.createCartOK(t, carol)
	b2 := ct.createCartOK(t, bob)

	var page cart.Page
	alice.Do(t, http.MethodGet, "/carts/followed", nil, http.StatusOK, &page)
	if len(page.Carts) != 2 {
		t.Fatalf("expected bob's 2 carts, got %d", len(page.Carts))
	}
	if page.Carts[0].ID != b2.ID || page.Carts[1].ID != b1.ID {
		t.Fatal("expected followed carts newest first")
	}

	alice.Do(t, http.MethodDelete, "/users/"+bob.Username+"/follow", nil, http.StatusNoContent, nil)
	alice.Do(t, http.MethodDelete, "/users/"+bob.Username+"/follow", nil, http.StatusConflict, nil)

	alice.Do(t, http.MethodGet, "/carts/followed", nil, http.StatusOK, &page)
	if len(page.Carts) != 0 {
		t.Fatalf("expected no followed carts, got %d", len(page.Carts))
	}
}

func TestUserSearch(t *testing.T) {
	env := NewTestEnv(t, "user_search")

	alice := env.Signup(t)

	var found []profile
	alice.Do(t, http.MethodGet, "/users?q="+alice.Username[:len(alice.Username)-2], nil, http.StatusOK, &found)
	if len(found) != 1 || found[0].Username != alice.Username {
		t.Fatalf("expected to find alice, got %+v", found)
	}

	alice.Do(t, http.MethodGet, "/users?q=", nil, http.StatusBadRequest, nil)
}
