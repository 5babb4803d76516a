// internal/data/models.go
package data

import (
	"database/sql"
	"errors"
	"math"
	"strings"
)

// Models is a top-level container that groups all database model types together.
// It is passed around the application via applicationDependencies so every handler
// has access to the database without importing sql directly.
type Models struct {
	Books       BookModel       // Database operations for the books table
	Authors     AuthorModel     // Database operations for the authors table
	Users       UserModel       // Database operations for the users table
	Permissions PermissionModel // Permission lookups for users
	Stats       StatsModel      // Read-only aggregate queries over books
}

// NewModels constructs a Models value wired up to the given database connection pool.
// Call this once during application startup and store the result in applicationDependencies.
func NewModels(db *sql.DB) Models {
	return Models{
		Books:       BookModel{DB: db},
		Authors:     AuthorModel{DB: db},
		Users:       UserModel{DB: db},
		Permissions: PermissionModel{DB: db},
		Stats:       StatsModel{DB: db},
	}
}

// ErrRecordNotFound is returned when a query finds no matching row.
var ErrRecordNotFound = errors.New("record not found")

// ErrEditConflict is returned when an update loses a race against a
// concurrent update of the same record.
var ErrEditConflict = errors.New("edit conflict")

// ErrDuplicateUsername is returned when an insert violates the unique
// constraint on users.username.
var ErrDuplicateUsername = errors.New("duplicate username")

// ListPageSize is the fixed number of books shown per list page.
const ListPageSize = 5

// SortSafeList enumerates every ordering the list endpoint accepts. A "-"
// prefix requests descending order. Anything else falls back to ascending
// title so untrusted input never reaches an ORDER BY clause directly.
var SortSafeList = []string{
	"title", "pages", "rating", "status", "published_date",
	"-title", "-pages", "-rating", "-status", "-published_date",
}

// Filters holds pagination and sorting parameters extracted from URL query strings.
type Filters struct {
	Page         int      // Current page number (1-indexed)
	PageSize     int      // Number of records per page
	Sort         string   // Column name to sort by (prefix with "-" for DESC)
	SortSafeList []string // Allowed sort columns to prevent SQL injection
}

// NewFilters builds the Filters for a list request with the fixed page size
// and the standard sort whitelist.
func NewFilters(page int, sort string) Filters {
	if page < 1 {
		page = 1
	}
	return Filters{
		Page:         page,
		PageSize:     ListPageSize,
		Sort:         sort,
		SortSafeList: SortSafeList,
	}
}

// sortColumn returns the validated column name for ORDER BY, defaulting to title.
func (f Filters) sortColumn() string {
	for _, safe := range f.SortSafeList {
		if f.Sort == safe {
			return strings.TrimPrefix(f.Sort, "-")
		}
	}
	return "title" // safe fallback
}

// sortAscending reports whether the ordering is ascending. A sort value
// outside the safelist falls back to ascending title, so the "-" prefix
// only counts when the value is actually whitelisted.
func (f Filters) sortAscending() bool {
	for _, safe := range f.SortSafeList {
		if f.Sort == safe {
			return !strings.HasPrefix(f.Sort, "-")
		}
	}
	return true
}

// limit returns the SQL LIMIT value derived from PageSize.
func (f Filters) limit() int { return f.PageSize }

// offset returns the SQL OFFSET value derived from Page and PageSize.
func (f Filters) offset() int { return (f.Page - 1) * f.PageSize }

// Metadata contains pagination information returned alongside list responses.
type Metadata struct {
	CurrentPage  int `json:"current_page,omitempty"`
	PageSize     int `json:"page_size,omitempty"`
	FirstPage    int `json:"first_page,omitempty"`
	LastPage     int `json:"last_page,omitempty"`
	TotalRecords int `json:"total_records,omitempty"`
}

// calculateMetadata computes page metadata from total record count and filter values.
func calculateMetadata(totalRecords, page, pageSize int) Metadata {
	if totalRecords == 0 {
		return Metadata{}
	}
	return Metadata{
		CurrentPage:  page,
		PageSize:     pageSize,
		FirstPage:    1,
		LastPage:     int(math.Ceil(float64(totalRecords) / float64(pageSize))),
		TotalRecords: totalRecords,
	}
}
