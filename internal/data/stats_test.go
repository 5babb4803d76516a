package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryQuery_CoalescesAveragesToZero(t *testing.T) {
	// With zero records AVG returns NULL; the COALESCE wrappers turn that
	// into 0 so the dashboard never sees a NULL average.
	query, err := summaryQuery()
	require.NoError(t, err)

	assert.Contains(t, query, `COALESCE(AVG("pages"), 0)`)
	assert.Contains(t, query, `COALESCE(AVG("rating"), 0)`)
	assert.Contains(t, query, "COUNT(*)")
}

func TestExtremePagesQuery(t *testing.T) {
	query, err := extremePagesQuery(false)
	require.NoError(t, err)
	assert.Contains(t, query, `"pages" DESC`)
	assert.Contains(t, query, "LIMIT 1")

	query, err = extremePagesQuery(true)
	require.NoError(t, err)
	assert.Contains(t, query, `"pages" ASC`)
}

func TestRoundTwo(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		out  float64
	}{
		{"no records gives zero", 0, 0},
		{"already two decimals", 3.25, 3.25},
		{"rounds up", 216.666666, 216.67},
		{"rounds down", 3.333333, 3.33},
		{"whole number", 200, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.out, roundTwo(tt.in), 0.0001)
		})
	}
}
