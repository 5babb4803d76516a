// cmd/api/users.go
// This file contains the account handlers: register, login, and logout.
package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/mfdez/bookshelf/internal/auth"
	"github.com/mfdez/bookshelf/internal/data"
)

// registerUserHandler handles POST /register.
// New accounts start without any permissions: they can create books and
// view details, but editing and deleting must be granted separately.
func (app *applicationDependencies) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	err := app.parseForm(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := &data.User{
		Username: strings.TrimSpace(r.PostForm.Get("username")),
	}
	err = user.Password.Set(r.PostForm.Get("password"))
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.models.Users.Insert(user)
	if err != nil {
		var validationErr *data.ValidationError
		switch {
		case errors.As(err, &validationErr):
			app.failedValidationResponse(w, r, validationErr.Errors)
		case errors.Is(err, data.ErrDuplicateUsername):
			app.failedValidationResponse(w, r, map[string][]string{
				"username": {"a user with this username already exists"},
			})
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"user": user}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// loginUserHandler handles POST /login.
// On success it sets the session cookie carrying a signed token with the
// user's id, username, and granted permissions.
func (app *applicationDependencies) loginUserHandler(w http.ResponseWriter, r *http.Request) {
	err := app.parseForm(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	username := strings.TrimSpace(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")

	user, err := app.models.Users.GetByUsername(username)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.invalidCredentialsResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	match, err := user.Password.Matches(password)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	if !match {
		app.invalidCredentialsResponse(w, r)
		return
	}

	permissions, err := app.models.Permissions.GetAllForUser(user.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	user.Permissions = permissions

	token, err := auth.NewSessionToken(
		[]byte(app.config.session.secret),
		user.ID,
		user.Username,
		permissions,
		app.config.session.ttl,
	)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(app.config.session.ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	err = app.writeJSON(w, http.StatusOK, envelope{"user": user}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// logoutUserHandler handles POST /logout by expiring the session cookie.
func (app *applicationDependencies) logoutUserHandler(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	err := app.writeJSON(w, http.StatusOK, envelope{"message": "you have been logged out"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
