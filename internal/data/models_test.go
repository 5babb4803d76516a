package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFiltersSortColumn(t *testing.T) {
	tests := []struct {
		name      string
		sort      string
		column    string
		ascending bool
	}{
		{"ascending title", "title", "title", true},
		{"descending title", "-title", "title", false},
		{"ascending pages", "pages", "pages", true},
		{"descending published date", "-published_date", "published_date", false},
		{"bogus value falls back to ascending title", "bogus_value", "title", true},
		{"empty value falls back to ascending title", "", "title", true},
		{"injection attempt falls back", "title; DROP TABLE books", "title", true},
		{"bare dash falls back", "-", "title", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFilters(1, tt.sort)
			assert.Equal(t, tt.column, f.sortColumn())
			assert.Equal(t, tt.ascending, f.sortAscending())
		})
	}
}

func TestNewFilters(t *testing.T) {
	f := NewFilters(3, "pages")
	assert.Equal(t, 3, f.Page)
	assert.Equal(t, ListPageSize, f.PageSize)

	// Page numbers below 1 are clamped.
	f = NewFilters(0, "pages")
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 0, f.offset())
}

func TestFiltersLimitOffset(t *testing.T) {
	f := NewFilters(4, "title")
	assert.Equal(t, 5, f.limit())
	assert.Equal(t, 15, f.offset())
}

func TestCalculateMetadata(t *testing.T) {
	m := calculateMetadata(12, 2, 5)
	assert.Equal(t, 2, m.CurrentPage)
	assert.Equal(t, 5, m.PageSize)
	assert.Equal(t, 1, m.FirstPage)
	assert.Equal(t, 3, m.LastPage)
	assert.Equal(t, 12, m.TotalRecords)
}

func TestCalculateMetadata_Empty(t *testing.T) {
	assert.Equal(t, Metadata{}, calculateMetadata(0, 1, 5))
}
