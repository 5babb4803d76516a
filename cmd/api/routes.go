// cmd/api/routes.go
package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/mfdez/bookshelf/internal/data"
)

// routes registers all HTTP endpoints and returns the configured router
// wrapped in the application middleware.
//
// Middleware chain (outermost → innermost):
//
//	recoverPanic → rateLimit → authenticate → router
//
// The list and stats pages are public. Creating a book only requires being
// logged in, while editing and deleting are gated behind explicit
// permissions; that asymmetry is intentional.
func (app *applicationDependencies) routes() http.Handler {
	router := httprouter.New()

	// Override the default httprouter error handlers to return JSON responses.
	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	// Public read-only pages.
	router.HandlerFunc(http.MethodGet, "/list", app.listBooksHandler)
	router.HandlerFunc(http.MethodGet, "/stats", app.statsHandler)

	// Book create / detail / edit / delete.
	router.HandlerFunc(http.MethodGet, "/form", app.requireAuthenticated(app.newBookFormHandler))
	router.HandlerFunc(http.MethodPost, "/form", app.requireAuthenticated(app.createBookHandler))
	router.HandlerFunc(http.MethodGet, "/books/:id/detail", app.requireAuthenticated(app.showBookHandler))
	router.HandlerFunc(http.MethodGet, "/books/:id/edit", app.requirePermission(data.PermissionChangeBook, app.editBookFormHandler))
	router.HandlerFunc(http.MethodPost, "/books/:id/edit", app.requirePermission(data.PermissionChangeBook, app.updateBookHandler))
	router.HandlerFunc(http.MethodGet, "/books/:id/delete", app.requirePermission(data.PermissionDeleteBook, app.confirmDeleteBookHandler))
	router.HandlerFunc(http.MethodPost, "/books/:id/delete", app.requirePermission(data.PermissionDeleteBook, app.deleteBookHandler))

	// Authors feeding the form's multi-select.
	router.HandlerFunc(http.MethodGet, "/authors", app.requireAuthenticated(app.listAuthorsHandler))
	router.HandlerFunc(http.MethodPost, "/authors", app.requireAuthenticated(app.createAuthorHandler))

	// Account flows.
	router.HandlerFunc(http.MethodPost, "/register", app.registerUserHandler)
	router.HandlerFunc(http.MethodPost, "/login", app.loginUserHandler)
	router.HandlerFunc(http.MethodPost, "/logout", app.logoutUserHandler)

	// Uploaded cover images.
	router.ServeFiles("/covers/*filepath", http.Dir(app.config.coversDir))

	return app.recoverPanic(app.rateLimit(app.authenticate(router)))
}
