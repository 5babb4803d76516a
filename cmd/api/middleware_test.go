package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfdez/bookshelf/internal/auth"
	"github.com/mfdez/bookshelf/internal/data"
)

func newTestApp() *applicationDependencies {
	app := &applicationDependencies{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	app.config.session.secret = "test-secret"
	return app
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// sessionRequest builds a request carrying a valid session cookie for the
// given user.
func sessionRequest(t *testing.T, app *applicationDependencies, target string, permissions []string) *http.Request {
	t.Helper()

	token, err := auth.NewSessionToken([]byte(app.config.session.secret), 1, "eva", permissions, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	return req
}

func TestRequireAuthenticated_AnonymousRedirectsToLogin(t *testing.T) {
	app := newTestApp()
	handler := app.authenticate(app.requireAuthenticated(okHandler))

	req := httptest.NewRequest(http.MethodGet, "/form", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
}

func TestRequireAuthenticated_TamperedCookieRedirectsToLogin(t *testing.T) {
	app := newTestApp()
	handler := app.authenticate(app.requireAuthenticated(okHandler))

	req := httptest.NewRequest(http.MethodGet, "/form", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "not.a.token"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
}

func TestRequireAuthenticated_LoggedInUserPasses(t *testing.T) {
	// Creating a book is only login-gated: no permission needed.
	app := newTestApp()
	handler := app.authenticate(app.requireAuthenticated(okHandler))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, sessionRequest(t, app, "/form", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequirePermission_AnonymousRedirectsToLogin(t *testing.T) {
	app := newTestApp()
	handler := app.authenticate(app.requirePermission(data.PermissionChangeBook, okHandler))

	req := httptest.NewRequest(http.MethodGet, "/books/1/edit", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
}

func TestRequirePermission_UnpermissionedUserForbidden(t *testing.T) {
	app := newTestApp()
	handler := app.authenticate(app.requirePermission(data.PermissionChangeBook, okHandler))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, sessionRequest(t, app, "/books/1/edit", nil))

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRequirePermission_PermissionedUserPasses(t *testing.T) {
	app := newTestApp()
	handler := app.authenticate(app.requirePermission(data.PermissionDeleteBook, okHandler))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, sessionRequest(t, app, "/books/1/delete", []string{data.PermissionDeleteBook}))

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAuthenticate_StoresUserInContext(t *testing.T) {
	app := newTestApp()

	var got *data.User
	handler := app.authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = app.contextGetUser(r)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, sessionRequest(t, app, "/list", []string{data.PermissionChangeBook}))

	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "eva", got.Username)
	assert.True(t, got.Permissions.Include(data.PermissionChangeBook))
}

func TestAuthenticate_NoCookieIsAnonymous(t *testing.T) {
	app := newTestApp()

	var got *data.User
	handler := app.authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = app.contextGetUser(r)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/list", nil))

	require.NotNil(t, got)
	assert.True(t, got.IsAnonymous())
}
