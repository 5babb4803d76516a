// cmd/api/books.go
// This file contains the HTTP request handlers for the books resource.
// Each handler is a method on *applicationDependencies so it has access
// to the logger and database models.
package main

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/mfdez/bookshelf/internal/data"
	"github.com/mfdez/bookshelf/internal/forms"
)

// newBookFormHandler handles GET /form.
// It returns everything a client needs to render the create form: the
// author list for the multi-select and the accepted status codes.
func (app *applicationDependencies) newBookFormHandler(w http.ResponseWriter, r *http.Request) {
	authors, err := app.models.Authors.GetAll()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"authors": authors, "statuses": data.StatusValues}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// createBookHandler handles POST /form.
// It decodes the submitted form values (urlencoded or multipart with a
// cover upload), validates them, stores the cover file, inserts the record
// with its author associations, and responds with the created book.
func (app *applicationDependencies) createBookHandler(w http.ResponseWriter, r *http.Request) {
	err := app.parseForm(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	form := forms.ParseBook(r.PostForm)
	if !form.Valid() {
		app.failedValidationResponse(w, r, form.Errors())
		return
	}

	// Only write the cover file once the submission is known to be valid,
	// so rejected submissions never leave files behind.
	coverPath, err := app.saveCoverImage(r)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	form.Record.CoverImage = coverPath

	err = app.models.Books.Insert(&form.Record, form.AuthorIDs)
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

	err = app.writeJSON(w, http.StatusCreated, envelope{"book": form.Record}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showBookHandler handles GET /books/:id/detail.
// Responds 404 if no book with that ID exists.
func (app *applicationDependencies) showBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	book, err := app.models.Books.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"book": book}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listBooksHandler handles GET /list.
// Query parameters: title (case-insensitive substring filter), order_by
// (one of the whitelisted sort keys, anything else falls back to ascending
// title), and page. Page size is fixed at five records.
func (app *applicationDependencies) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	titleFilter := app.readString(qs, "title", "")
	orderBy := app.readString(qs, "order_by", "title")
	page := app.readInt(qs, "page", 1)

	filters := data.NewFilters(page, orderBy)

	books, metadata, err := app.models.Books.GetAll(titleFilter, filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	// Attach the author associations with a single batched query.
	bookIDs := make([]int64, len(books))
	for i, book := range books {
		bookIDs[i] = book.ID
	}
	authorsByBook, err := app.models.Authors.GetForBooks(bookIDs)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	for _, book := range books {
		book.Authors = authorsByBook[book.ID]
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"books": books, "metadata": metadata}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// editBookFormHandler handles GET /books/:id/edit.
// It returns the current record plus the author list and status codes, the
// data needed to render a pre-filled edit form.
func (app *applicationDependencies) editBookFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	book, err := app.models.Books.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	authors, err := app.models.Authors.GetAll()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"book": book, "authors": authors, "statuses": data.StatusValues}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateBookHandler handles POST /books/:id/edit.
// The submitted form replaces every field of the record; an existing cover
// is kept unless a new one is uploaded.
func (app *applicationDependencies) updateBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	book, err := app.models.Books.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.parseForm(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	form := forms.ParseBook(r.PostForm)
	if !form.Valid() {
		app.failedValidationResponse(w, r, form.Errors())
		return
	}

	coverPath, err := app.saveCoverImage(r)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	if coverPath == "" {
		coverPath = book.CoverImage
	}

	form.Record.ID = book.ID
	form.Record.CreatedAt = book.CreatedAt
	form.Record.Version = book.Version
	form.Record.CoverImage = coverPath

	err = app.models.Books.Update(&form.Record, form.AuthorIDs)
	if err != nil {
		var validationErr *data.ValidationError
		switch {
		case errors.As(err, &validationErr):
			app.failedValidationResponse(w, r, validationErr.Errors)
		case errors.Is(err, data.ErrEditConflict):
			app.editConflictResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"book": form.Record}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// confirmDeleteBookHandler handles GET /books/:id/delete.
// It returns the record about to be removed so the client can render a
// confirmation step before the actual POST.
func (app *applicationDependencies) confirmDeleteBookHandler(w http.ResponseWriter, r *http.Request) {
	app.showBookHandler(w, r)
}

// deleteBookHandler handles POST /books/:id/delete.
// Deleting a book removes its author associations via the join table
// cascade and nothing else. Responds 404 if no book with that ID exists.
func (app *applicationDependencies) deleteBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.models.Books.Delete(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "book successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// saveCoverImage stores an uploaded cover file under the covers directory
// with a random filename and returns the relative path recorded on the
// record. Returns "" when the submission carries no cover.
func (app *applicationDependencies) saveCoverImage(r *http.Request) (string, error) {
	if r.MultipartForm == nil {
		return "", nil
	}

	file, header, err := r.FormFile("cover_image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", err
	}
	defer file.Close()

	name := uuid.New().String() + filepath.Ext(header.Filename)

	dst, err := os.Create(filepath.Join(app.config.coversDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	_, err = io.Copy(dst, file)
	if err != nil {
		return "", err
	}

	return path.Join("covers", name), nil
}
