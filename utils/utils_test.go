package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"whole", "organic"}, SplitTags("Whole, organic"))
	assert.Equal(t, []string{"spice"}, SplitTags("spice, SPICE , spice"))
	assert.Equal(t, []string{"a", "b"}, SplitTags(",a,,b,"))
	assert.Empty(t, SplitTags(""))
	assert.Empty(t, SplitTags(" , , "))
}

func TestContains(t *testing.T) {
	roles := []string{"user", "admin"}
	assert.True(t, Contains(roles, "admin"))
	assert.False(t, Contains(roles, "moderator"))
	assert.False(t, Contains(nil, "admin"))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "kashmiri-chilli-powder", Slugify("Kashmiri Chilli Powder"))
	assert.Equal(t, "black-pepper-whole", Slugify("  Black Pepper (Whole)  "))
	assert.Equal(t, "a2-ghee", Slugify("A2 Ghee!"))
}

func TestParsePagination(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/products?page=3&limit=10", nil)
	skip, limit := ParsePagination(r, 20, 100)
	assert.Equal(t, int64(20), skip)
	assert.Equal(t, int64(10), limit)

	r = httptest.NewRequest("GET", "/api/products", nil)
	skip, limit = ParsePagination(r, 20, 100)
	assert.Equal(t, int64(0), skip)
	assert.Equal(t, int64(20), limit)

	r = httptest.NewRequest("GET", "/api/products?limit=500", nil)
	_, limit = ParsePagination(r, 20, 100)
	assert.Equal(t, int64(100), limit)
}
