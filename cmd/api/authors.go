// cmd/api/authors.go
package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/mfdez/bookshelf/internal/data"
)

// listAuthorsHandler handles GET /authors.
// The book form uses this list to populate its authors multi-select.
func (app *applicationDependencies) listAuthorsHandler(w http.ResponseWriter, r *http.Request) {
	authors, err := app.models.Authors.GetAll()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"authors": authors}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// createAuthorHandler handles POST /authors.
func (app *applicationDependencies) createAuthorHandler(w http.ResponseWriter, r *http.Request) {
	err := app.parseForm(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	author := &data.Author{
		Name:     strings.TrimSpace(r.PostForm.Get("name")),
		LastName: strings.TrimSpace(r.PostForm.Get("last_name")),
	}

	err = app.models.Authors.Insert(author)
	if err != nil {
		var validationErr *data.ValidationError
		switch {
		case errors.As(err, &validationErr):
			app.failedValidationResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"author": author}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
