package data

import (
	"database/sql"
	"errors"
	"math"

	"github.com/doug-martin/goqu/v9"
)

// StatusCount is one slice of the per-status distribution chart.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// RatingCount is one bar of the per-rating distribution chart.
type RatingCount struct {
	Rating int `json:"rating"`
	Count  int `json:"count"`
}

// Stats holds the aggregate figures shown on the dashboard. The
// distribution slices are chart-ready label/count sequences.
type Stats struct {
	TotalBooks         int           `json:"total_books"`
	MaxPagesBook       *Book         `json:"max_pages_book,omitempty"` // nil when there are no books
	MinPagesBook       *Book         `json:"min_pages_book,omitempty"` // nil when there are no books
	AvgPages           float64       `json:"avg_pages"`                // 0 when there are no books
	AvgRating          float64       `json:"avg_rating"`               // 0 when no book has a rating
	StatusDistribution []StatusCount `json:"status_distribution"`
	RatingDistribution []RatingCount `json:"rating_distribution"`
}

// StatsModel wraps a *sql.DB connection and provides read-only aggregate
// queries over the books table.
type StatsModel struct {
	DB *sql.DB // Shared database connection pool
}

// Summary computes every dashboard figure. With an empty table both
// averages are 0, the extreme records are nil, and the distributions are
// empty slices.
func (m StatsModel) Summary() (*Stats, error) {
	stats := &Stats{
		StatusDistribution: []StatusCount{},
		RatingDistribution: []RatingCount{},
	}

	query, err := summaryQuery()
	if err != nil {
		return nil, err
	}

	var avgPages, avgRating float64
	err = m.DB.QueryRow(query).Scan(&stats.TotalBooks, &avgPages, &avgRating)
	if err != nil {
		return nil, err
	}
	stats.AvgPages = roundTwo(avgPages)
	stats.AvgRating = roundTwo(avgRating)

	stats.MaxPagesBook, err = m.extremePagesBook(false)
	if err != nil {
		return nil, err
	}
	stats.MinPagesBook, err = m.extremePagesBook(true)
	if err != nil {
		return nil, err
	}

	err = m.statusDistribution(stats)
	if err != nil {
		return nil, err
	}

	return stats, m.ratingDistribution(stats)
}

// summaryQuery builds the single-row aggregate SELECT. Both averages are
// wrapped in COALESCE so an empty table yields 0 rather than NULL.
func summaryQuery() (string, error) {
	query, _, err := pgDialect.From("books").Select(
		goqu.COUNT(goqu.Star()),
		goqu.COALESCE(goqu.AVG("pages"), 0),
		goqu.COALESCE(goqu.AVG("rating"), 0),
	).ToSQL()
	return query, err
}

// extremePagesQuery builds the SELECT for the book with the fewest
// (ascending=true) or most pages. Ties break on lowest id.
func extremePagesQuery(ascending bool) (string, error) {
	order := goqu.I("pages").Desc()
	if ascending {
		order = goqu.I("pages").Asc()
	}

	query, _, err := pgDialect.From("books").
		Select("id", "title", "pages", "rating", "status", "published_date", "read_date", "cover_image", "created_at", "version").
		Order(order, goqu.I("id").Asc()).
		Limit(1).
		ToSQL()
	return query, err
}

// extremePagesBook returns the book with the fewest (ascending=true) or
// most pages, or nil when the table is empty.
func (m StatsModel) extremePagesBook(ascending bool) (*Book, error) {
	query, err := extremePagesQuery(ascending)
	if err != nil {
		return nil, err
	}

	var book Book
	var cover sql.NullString
	err = m.DB.QueryRow(query).Scan(
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
			return nil, nil
		default:
			return nil, err
		}
	}
	book.CoverImage = cover.String

	return &book, nil
}

// statusDistribution fills the per-status counts, ordered by status code.
func (m StatsModel) statusDistribution(stats *Stats) error {
	query, _, err := pgDialect.From("books").
		Select("status", goqu.COUNT(goqu.Star())).
		GroupBy("status").
		Order(goqu.I("status").Asc()).
		ToSQL()
	if err != nil {
		return err
	}

	rows, err := m.DB.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var sc StatusCount
		err := rows.Scan(&sc.Status, &sc.Count)
		if err != nil {
			return err
		}
		stats.StatusDistribution = append(stats.StatusDistribution, sc)
	}
	return rows.Err()
}

// ratingDistribution fills the per-rating counts over rated books only,
// ordered by rating value ascending.
func (m StatsModel) ratingDistribution(stats *Stats) error {
	query, _, err := pgDialect.From("books").
		Select("rating", goqu.COUNT(goqu.Star())).
		Where(goqu.C("rating").IsNotNull()).
		GroupBy("rating").
		Order(goqu.I("rating").Asc()).
		ToSQL()
	if err != nil {
		return err
	}

	rows, err := m.DB.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var rc RatingCount
		err := rows.Scan(&rc.Rating, &rc.Count)
		if err != nil {
			return err
		}
		stats.RatingDistribution = append(stats.RatingDistribution, rc)
	}
	return rows.Err()
}

// roundTwo rounds to two decimal places, matching what the dashboard shows.
func roundTwo(f float64) float64 {
	return math.Round(f*100) / 100
}
