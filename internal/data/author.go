package data

import (
	"database/sql"
	"unicode/utf8"

	"github.com/lib/pq"

	"github.com/mfdez/bookshelf/internal/validator"
)

// Author represents a row in the "authors" table. Books reference authors
// through the books_authors join table; an author can appear on any number
// of books and vice versa.
type Author struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	LastName string `json:"last_name"`
}

// ValidateAuthor runs the field-level rules for an author record.
func ValidateAuthor(v *validator.Validator, author *Author) {
	v.Check(author.Name != "", "name", "must be provided")
	v.Check(utf8.RuneCountInString(author.Name) <= 100, "name", "must not be more than 100 characters long")
	v.Check(author.LastName != "", "last_name", "must be provided")
	v.Check(utf8.RuneCountInString(author.LastName) <= 100, "last_name", "must not be more than 100 characters long")
}

// AuthorModel wraps a *sql.DB connection and provides methods for reading
// and creating author records.
type AuthorModel struct {
	DB *sql.DB // Shared database connection pool
}

// Insert adds a new author record to the database and writes the assigned
// id back into the struct.
func (m AuthorModel) Insert(author *Author) error {
	v := validator.New()
	ValidateAuthor(v, author)
	if !v.Valid() {
		return &ValidationError{Errors: v.Errors}
	}

	query := `
		INSERT INTO authors (name, last_name)
		VALUES ($1, $2)
		RETURNING id`

	return m.DB.QueryRow(query, author.Name, author.LastName).Scan(&author.ID)
}

// GetAll returns every author ordered by last name then first name. The
// form handlers use this to populate the authors multi-select.
func (m AuthorModel) GetAll() ([]Author, error) {
	query := `
		SELECT id, name, last_name
		FROM authors
		ORDER BY last_name, name, id`

	rows, err := m.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAuthors(rows)
}

// GetForBook returns the authors linked to a single book.
func (m AuthorModel) GetForBook(bookID int64) ([]Author, error) {
	query := `
		SELECT a.id, a.name, a.last_name
		FROM authors a
		INNER JOIN books_authors ba ON ba.author_id = a.id
		WHERE ba.book_id = $1
		ORDER BY a.last_name, a.name, a.id`

	rows, err := m.DB.Query(query, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAuthors(rows)
}

// GetForBooks returns the authors for a batch of book ids in a single
// query, keyed by book id. The list handler uses this to avoid one
// authors query per row.
func (m AuthorModel) GetForBooks(bookIDs []int64) (map[int64][]Author, error) {
	authors := make(map[int64][]Author)
	if len(bookIDs) == 0 {
		return authors, nil
	}

	query := `
		SELECT ba.book_id, a.id, a.name, a.last_name
		FROM authors a
		INNER JOIN books_authors ba ON ba.author_id = a.id
		WHERE ba.book_id = ANY($1)
		ORDER BY a.last_name, a.name, a.id`

	rows, err := m.DB.Query(query, pq.Array(bookIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var bookID int64
		var author Author
		err := rows.Scan(&bookID, &author.ID, &author.Name, &author.LastName)
		if err != nil {
			return nil, err
		}
		authors[bookID] = append(authors[bookID], author)
	}

	return authors, rows.Err()
}

// replaceBookAuthors rewrites the join rows for a book inside the caller's
// transaction, so the book write and its associations commit atomically.
func replaceBookAuthors(tx *sql.Tx, bookID int64, authorIDs []int64) error {
	_, err := tx.Exec(`DELETE FROM books_authors WHERE book_id = $1`, bookID)
	if err != nil {
		return err
	}

	if len(authorIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO books_authors (book_id, author_id)
		SELECT $1, unnest($2::bigint[])`

	_, err = tx.Exec(query, bookID, pq.Array(authorIDs))
	return err
}

// scanAuthors drains a result set of (id, name, last_name) rows.
func scanAuthors(rows *sql.Rows) ([]Author, error) {
	authors := []Author{}
	for rows.Next() {
		var author Author
		err := rows.Scan(&author.ID, &author.Name, &author.LastName)
		if err != nil {
			return nil, err
		}
		authors = append(authors, author)
	}
	return authors, rows.Err()
}
