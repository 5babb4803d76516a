package data

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfdez/bookshelf/internal/validator"
)

func validBook() *Book {
	return &Book{
		Title:         "Test Book",
		Pages:         200,
		Status:        StatusFinished,
		PublishedDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func intPtr(i int) *int { return &i }

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func TestValidateBook_ValidRecord(t *testing.T) {
	v := validator.New()
	ValidateBook(v, validBook())
	assert.True(t, v.Valid())
}

func TestValidateBook_Pages(t *testing.T) {
	tests := []struct {
		name  string
		pages int
		valid bool
	}{
		{"zero pages", 0, false},
		{"negative pages", -5, false},
		{"one page", 1, true},
		{"many pages", 1200, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book := validBook()
			book.Pages = tt.pages

			v := validator.New()
			ValidateBook(v, book)

			if tt.valid {
				assert.True(t, v.Valid())
			} else {
				assert.Contains(t, v.Errors, "pages")
			}
		})
	}
}

func TestValidateBook_Rating(t *testing.T) {
	tests := []struct {
		name   string
		rating *int
		valid  bool
	}{
		{"absent rating", nil, true},
		{"rating below range", intPtr(0), false},
		{"rating above range", intPtr(6), false},
		{"lowest rating", intPtr(1), true},
		{"highest rating", intPtr(5), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book := validBook()
			book.Rating = tt.rating

			v := validator.New()
			ValidateBook(v, book)

			if tt.valid {
				assert.True(t, v.Valid())
			} else {
				assert.Contains(t, v.Errors, "rating")
			}
		})
	}
}

func TestValidateBook_ReadDateBeforePublishedDate(t *testing.T) {
	book := validBook()
	book.ReadDate = datePtr(2019, 1, 1)

	v := validator.New()
	ValidateBook(v, book)

	require.Contains(t, v.Errors, "read_date")
	assert.Contains(t, v.Errors["read_date"], "The read date must be after the published date")
}

func TestValidateBook_ReadDateEqualsPublishedDate(t *testing.T) {
	// Same-day reads are allowed, the comparison is not strict.
	book := validBook()
	book.ReadDate = datePtr(2020, 1, 1)

	v := validator.New()
	ValidateBook(v, book)

	assert.True(t, v.Valid())
}

func TestValidateBook_ReadDateAfterPublishedDate(t *testing.T) {
	book := validBook()
	book.ReadDate = datePtr(2021, 6, 15)

	v := validator.New()
	ValidateBook(v, book)

	assert.True(t, v.Valid())
}

func TestValidateBook_TitleLength(t *testing.T) {
	t.Run("exactly 50 characters is valid", func(t *testing.T) {
		book := validBook()
		book.Title = strings.Repeat("a", 50)

		v := validator.New()
		ValidateBook(v, book)

		assert.True(t, v.Valid())
	})

	t.Run("51 characters is invalid", func(t *testing.T) {
		book := validBook()
		book.Title = strings.Repeat("a", 51)

		v := validator.New()
		ValidateBook(v, book)

		assert.Contains(t, v.Errors, "title")
	})

	t.Run("empty title is invalid", func(t *testing.T) {
		book := validBook()
		book.Title = ""

		v := validator.New()
		ValidateBook(v, book)

		assert.Contains(t, v.Errors, "title")
	})
}

func TestValidateBook_Status(t *testing.T) {
	for _, status := range StatusValues {
		book := validBook()
		book.Status = status

		v := validator.New()
		ValidateBook(v, book)

		assert.True(t, v.Valid(), "status %q should be accepted", status)
	}

	book := validBook()
	book.Status = "XX"

	v := validator.New()
	ValidateBook(v, book)

	assert.Contains(t, v.Errors, "status")
}

func TestValidateBook_MissingPublishedDate(t *testing.T) {
	book := validBook()
	book.PublishedDate = time.Time{}

	v := validator.New()
	ValidateBook(v, book)

	assert.Contains(t, v.Errors, "published_date")
}

func TestValidateBook_ReportsEveryFailingField(t *testing.T) {
	// An invalid record must come back with all of its failures at once,
	// not just the first one.
	book := &Book{
		Title:         "",
		Pages:         0,
		Rating:        intPtr(9),
		Status:        "??",
		PublishedDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		ReadDate:      datePtr(2019, 1, 1),
	}

	v := validator.New()
	ValidateBook(v, book)

	for _, key := range []string{"title", "pages", "rating", "status", "read_date"} {
		assert.Contains(t, v.Errors, key)
	}
}

func TestBookModelValidate_ReturnsValidationError(t *testing.T) {
	book := validBook()
	book.Pages = 0

	err := BookModel{}.validate(book)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Errors, "pages")
}
