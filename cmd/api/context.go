// cmd/api/context.go
package main

import (
	"context"
	"net/http"

	"github.com/mfdez/bookshelf/internal/data"
)

// contextKey is a private type so our context keys never collide with keys
// set by other packages.
type contextKey string

// userContextKey is the key under which the authenticated (or anonymous)
// user is stored in the request context.
const userContextKey = contextKey("user")

// contextSetUser returns a copy of the request with user stored in its context.
func (app *applicationDependencies) contextSetUser(r *http.Request, user *data.User) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}

// contextGetUser retrieves the user from the request context. The
// authenticate middleware always stores one, so a missing value is a
// programming error worth panicking over.
func (app *applicationDependencies) contextGetUser(r *http.Request) *data.User {
	user, ok := r.Context().Value(userContextKey).(*data.User)
	if !ok {
		panic("missing user value in request context")
	}
	return user
}
