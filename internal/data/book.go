// Package data provides the data models and database interaction logic
// for the book catalog.
package data

import (
	"database/sql"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // Register the postgres dialect with goqu.

	"github.com/mfdez/bookshelf/internal/validator"
)

// pgDialect builds all dynamically-composed queries. Static CRUD statements
// stay as plain SQL strings.
var pgDialect = goqu.Dialect("postgres")

// Reading status codes. The set is closed: validation rejects anything else.
const (
	StatusPlanned    = "PE" // planned to read
	StatusInProgress = "IP" // in progress
	StatusFinished   = "FI" // finished
)

// StatusValues lists every accepted status code.
var StatusValues = []string{StatusPlanned, StatusInProgress, StatusFinished}

// Book represents a single book record stored in the database.
// It maps directly to a row in the "books" table. Rating and ReadDate are
// pointers so that "not set" is distinguishable from a zero value.
type Book struct {
	ID            int64      `json:"id"`                    // Unique identifier assigned by the database
	Title         string     `json:"title"`                 // Title of the book, at most 50 characters
	Pages         int        `json:"pages"`                 // Page count, at least 1
	Rating        *int       `json:"rating,omitempty"`      // Optional rating between 1 and 5
	Status        string     `json:"status"`                // Reading status code (PE, IP, FI)
	PublishedDate time.Time  `json:"published_date"`        // Date the book was published
	ReadDate      *time.Time `json:"read_date,omitempty"`   // Optional date the book was read
	CoverImage    string     `json:"cover_image,omitempty"` // Relative path of the uploaded cover, e.g. covers/<name>
	Authors       []Author   `json:"authors,omitempty"`     // Authors linked through the join table
	CreatedAt     time.Time  `json:"created_at"`            // Timestamp when the record was created
	Version       int32      `json:"-"`                     // Bumped on every update to detect edit conflicts
}

// ValidationError carries the accumulated field failures of an invalid
// record. Every failing field is reported, not just the first one.
type ValidationError struct {
	Errors map[string][]string
}

func (e *ValidationError) Error() string {
	return "record failed validation"
}

// ValidateBook runs every field-level and cross-field rule against book.
// It is the single validation entry point: the form layer calls it before
// showing errors to the user, and Insert/Update call it again before
// touching the database, so no caller path can bypass it.
func ValidateBook(v *validator.Validator, book *Book) {
	v.Check(book.Title != "", "title", "must be provided")
	v.Check(utf8.RuneCountInString(book.Title) <= 50, "title", "must not be more than 50 characters long")

	v.Check(book.Pages >= 1, "pages", "must be at least 1")

	if book.Rating != nil {
		v.Check(*book.Rating >= 1 && *book.Rating <= 5, "rating", "must be between 1 and 5")
	}

	v.Check(validator.In(book.Status, StatusValues...), "status", "must be a valid status code")

	v.Check(!book.PublishedDate.IsZero(), "published_date", "must be provided")

	// Cross-field rule: a book cannot be read before it was published.
	// Reading it on the publication day is allowed.
	if book.ReadDate != nil && !book.PublishedDate.IsZero() {
		v.Check(!book.ReadDate.Before(book.PublishedDate), "read_date", "The read date must be after the published date")
	}
}

// validate runs ValidateBook on a fresh Validator and converts failures
// into a *ValidationError.
func (m BookModel) validate(book *Book) error {
	v := validator.New()
	ValidateBook(v, book)
	if !v.Valid() {
		return &ValidationError{Errors: v.Errors}
	}
	return nil
}

// BookModel wraps a *sql.DB connection and provides methods for
// creating, reading, updating, and deleting book records.
type BookModel struct {
	DB *sql.DB // Shared database connection pool
}

// Insert adds a new book record and its author associations to the database.
// The record is validated first; an invalid record never reaches the INSERT.
// After a successful insert, the database-assigned id, created_at, and
// version values are written back into the book struct.
func (m BookModel) Insert(book *Book, authorIDs []int64) error {
	if err := m.validate(book); err != nil {
		return err
	}

	tx, err := m.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO books (title, pages, rating, status, published_date, read_date, cover_image)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, version`

	err = tx.QueryRow(
		query,
		book.Title,
		book.Pages,
		book.Rating,
		book.Status,
		book.PublishedDate,
		book.ReadDate,
		nullString(book.CoverImage),
	).Scan(&book.ID, &book.CreatedAt, &book.Version)
	if err != nil {
		return err
	}

	err = replaceBookAuthors(tx, book.ID, authorIDs)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Get retrieves a single book by its primary key, including its authors.
// Returns ErrRecordNotFound if no book with the given id exists.
func (m BookModel) Get(id int64) (*Book, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	query := `
		SELECT id, title, pages, rating, status, published_date, read_date, cover_image, created_at, version
		FROM books
		WHERE id = $1`

	var book Book
	var cover sql.NullString

	err := m.DB.QueryRow(query, id).Scan(
		&book.ID,
		&book.Title,
		&book.Pages,
		&book.Rating,
		&book.Status,
		&book.PublishedDate,
		&book.ReadDate,
		&cover,
		&book.CreatedAt,
		&book.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	book.CoverImage = cover.String

	authors, err := AuthorModel{DB: m.DB}.GetForBook(book.ID)
	if err != nil {
		return nil, err
	}
	book.Authors = authors

	return &book, nil
}

// listQuery builds the SELECT used by GetAll. The ORDER BY column always
// comes from the sort safelist, never from raw request input, and the
// title filter is a case-insensitive substring match bound as a parameter.
func (m BookModel) listQuery(titleFilter string, filters Filters) (string, []any, error) {
	ds := pgDialect.From("books").Select(
		goqu.L("count(*) OVER()"),
		"id", "title", "pages", "rating", "status",
		"published_date", "read_date", "cover_image",
		"created_at", "version",
	)

	if titleFilter != "" {
		ds = ds.Where(goqu.C("title").ILike("%" + escapeLikePattern(titleFilter) + "%"))
	}

	column := goqu.I(filters.sortColumn())
	order := column.Asc()
	if !filters.sortAscending() {
		order = column.Desc()
	}

	ds = ds.
		Order(order, goqu.I("id").Asc()).
		Limit(uint(filters.limit())).
		Offset(uint(filters.offset()))

	return ds.Prepared(true).ToSQL()
}

// GetAll retrieves one page of books matching the optional title filter,
// ordered by the validated sort key. It uses a COUNT(*) OVER() window
// function so only one round-trip is needed. Author associations are not
// loaded here; use AuthorModel.GetForBooks to attach them.
func (m BookModel) GetAll(titleFilter string, filters Filters) ([]*Book, Metadata, error) {
	query, args, err := m.listQuery(titleFilter, filters)
	if err != nil {
		return nil, Metadata{}, err
	}

	rows, err := m.DB.Query(query, args...)
	if err != nil {
		return nil, Metadata{}, err
	}
	defer rows.Close()

	totalRecords := 0
	books := []*Book{}

	for rows.Next() {
		var book Book
		var cover sql.NullString
		err := rows.Scan(
			&totalRecords, // COUNT(*) OVER() – same value on every row
			&book.ID,
			&book.Title,
			&book.Pages,
			&book.Rating,
			&book.Status,
			&book.PublishedDate,
			&book.ReadDate,
			&cover,
			&book.CreatedAt,
			&book.Version,
		)
		if err != nil {
			return nil, Metadata{}, err
		}
		book.CoverImage = cover.String
		books = append(books, &book)
	}

	if err = rows.Err(); err != nil {
		return nil, Metadata{}, err
	}

	metadata := calculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return books, metadata, nil
}

// Update saves the modified fields of book back to the database and
// replaces its author associations. The record is re-validated first.
// Returns ErrEditConflict when the row changed since it was read.
func (m BookModel) Update(book *Book, authorIDs []int64) error {
	if err := m.validate(book); err != nil {
		return err
	}

	tx, err := m.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE books
		SET title = $1, pages = $2, rating = $3, status = $4,
		    published_date = $5, read_date = $6, cover_image = $7,
		    version = version + 1
		WHERE id = $8 AND version = $9
		RETURNING version`

	args := []any{
		book.Title,
		book.Pages,
		book.Rating,
		book.Status,
		book.PublishedDate,
		book.ReadDate,
		nullString(book.CoverImage),
		book.ID,
		book.Version,
	}

	err = tx.QueryRow(query, args...).Scan(&book.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return err
		}
	}

	err = replaceBookAuthors(tx, book.ID, authorIDs)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes the book with the given id. The join table rows go with
// it via ON DELETE CASCADE; nothing else is touched.
// Returns ErrRecordNotFound if no matching record exists.
func (m BookModel) Delete(id int64) error {
	if id < 1 {
		return ErrRecordNotFound
	}

	query := `DELETE FROM books WHERE id = $1`

	result, err := m.DB.Exec(query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// nullString maps an empty string to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// likeEscaper backslash-escapes the LIKE metacharacters.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLikePattern escapes a filter value so a title containing "%" or
// "_" matches literally instead of acting as a wildcard.
func escapeLikePattern(s string) string {
	return likeEscaper.Replace(s)
}
