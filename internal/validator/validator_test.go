package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator(t *testing.T) {
	v := New()
	assert.True(t, v.Valid())

	v.Check(false, "pages", "must be at least 1")
	v.Check(true, "title", "must be provided")

	assert.False(t, v.Valid())
	assert.Equal(t, []string{"must be at least 1"}, v.Errors["pages"])
	assert.NotContains(t, v.Errors, "title")
}

func TestAddErrorAccumulates(t *testing.T) {
	v := New()
	v.AddError("title", "must be provided")
	v.AddError("title", "must not be more than 50 characters long")

	assert.Len(t, v.Errors["title"], 2)
}

func TestSetErrorReplaces(t *testing.T) {
	v := New()
	v.AddError("title", "must be provided")
	v.SetError("title", "The title is mandatory")

	assert.Equal(t, []string{"The title is mandatory"}, v.Errors["title"])
}

func TestIn(t *testing.T) {
	assert.True(t, In("FI", "PE", "IP", "FI"))
	assert.False(t, In("XX", "PE", "IP", "FI"))
}

func TestUnique(t *testing.T) {
	assert.True(t, Unique([]string{"a", "b", "c"}))
	assert.False(t, Unique([]string{"a", "b", "a"}))
}
