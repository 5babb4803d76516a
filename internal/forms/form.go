// Package forms decodes raw user-submitted form values into typed book
// records and runs the shared validation rules over them, so invalid data
// is rejected with field-level feedback before a save is ever attempted.
package forms

import (
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mfdez/bookshelf/internal/data"
	"github.com/mfdez/bookshelf/internal/validator"
)

// dateLayout is the expected wire format for date inputs.
const dateLayout = "2006-01-02"

// Custom user-facing messages for the title field. Every other field keeps
// the generic rule messages.
const (
	msgTitleRequired = "The title is mandatory"
	msgTitleTooLong  = "The title must be less than 50 characters long"
)

// Book holds the outcome of decoding a submitted book form: the typed
// record ready for persistence, the selected author ids, and the validator
// carrying any field errors for re-display.
type Book struct {
	Record    data.Book
	AuthorIDs []int64
	Validator *validator.Validator
}

// Valid reports whether the submission passed coercion and validation.
func (f *Book) Valid() bool {
	return f.Validator.Valid()
}

// Errors returns the field → messages map for re-display.
func (f *Book) Errors() map[string][]string {
	return f.Validator.Errors
}

// ParseBook coerces the raw key/value form data into a typed book record
// and validates it. Coercion failures (non-numeric pages, malformed dates)
// become field errors alongside the rule failures. The cross-field
// read date check runs here as well, not only at persistence time, so the
// user sees it as form feedback instead of a failed save.
func ParseBook(values url.Values) *Book {
	f := &Book{Validator: validator.New()}
	v := f.Validator

	// Fields that fail coercion keep only the coercion message; the rules
	// in ValidateBook would otherwise pile a zero-value failure on top.
	coerceFailed := make(map[string]bool)

	f.Record.Title = strings.TrimSpace(values.Get("title"))
	f.Record.Status = strings.TrimSpace(values.Get("status"))

	if raw := strings.TrimSpace(values.Get("pages")); raw != "" {
		pages, err := strconv.Atoi(raw)
		if err != nil {
			v.AddError("pages", "must be an integer")
			coerceFailed["pages"] = true
		} else {
			f.Record.Pages = pages
		}
	}

	if raw := strings.TrimSpace(values.Get("rating")); raw != "" {
		rating, err := strconv.Atoi(raw)
		if err != nil {
			v.AddError("rating", "must be an integer")
			coerceFailed["rating"] = true
		} else {
			f.Record.Rating = &rating
		}
	}

	if raw := strings.TrimSpace(values.Get("published_date")); raw != "" {
		published, err := time.Parse(dateLayout, raw)
		if err != nil {
			v.AddError("published_date", "must be a valid date in YYYY-MM-DD format")
			coerceFailed["published_date"] = true
		} else {
			f.Record.PublishedDate = published
		}
	}

	if raw := strings.TrimSpace(values.Get("read_date")); raw != "" {
		read, err := time.Parse(dateLayout, raw)
		if err != nil {
			v.AddError("read_date", "must be a valid date in YYYY-MM-DD format")
			coerceFailed["read_date"] = true
		} else {
			f.Record.ReadDate = &read
		}
	}

	for _, raw := range values["authors"] {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 1 {
			if !coerceFailed["authors"] {
				v.AddError("authors", "must be a list of author ids")
				coerceFailed["authors"] = true
			}
			continue
		}
		f.AuthorIDs = append(f.AuthorIDs, id)
	}

	// Same rules the persistence layer applies, including the cross-field
	// read date check.
	data.ValidateBook(v, &f.Record)

	for key := range coerceFailed {
		v.Errors[key] = v.Errors[key][:1]
	}

	// Override the generic title messages with the user-facing copy.
	if _, failed := v.Errors["title"]; failed {
		switch {
		case f.Record.Title == "":
			v.SetError("title", msgTitleRequired)
		case utf8.RuneCountInString(f.Record.Title) > 50:
			v.SetError("title", msgTitleTooLong)
		}
	}

	return f
}
