package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildListQueryDefaults(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	query, args := buildListQuery(ListQuery{Filter: FilterAll, Sort: "created_at", Order: "desc"})
	assert.Equal("SELECT "+todoColumns+" FROM todos ORDER BY created_at DESC", query)
	assert.Empty(args)
}

func TestBuildListQueryFilters(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	query, _ := buildListQuery(ListQuery{Filter: FilterActive, Sort: "created_at", Order: "desc"})
	assert.Contains(query, "WHERE completed = FALSE")

	query, _ = buildListQuery(ListQuery{Filter: FilterCompleted, Sort: "created_at", Order: "desc"})
	assert.Contains(query, "WHERE completed = TRUE")

	query, _ = buildListQuery(ListQuery{Filter: FilterAll, Sort: "created_at", Order: "desc"})
	assert.NotContains(query, "WHERE")
}

func TestBuildListQuerySearch(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	query, args := buildListQuery(ListQuery{Filter: FilterAll, Search: "milk", Sort: "created_at", Order: "desc"})
	assert.Contains(query, "(title ILIKE $1 OR description ILIKE $1)")
	assert.Equal([]any{"%milk%"}, args)

	// Search composes with a completed filter.
	query, args = buildListQuery(ListQuery{Filter: FilterActive, Search: "milk", Sort: "created_at", Order: "desc"})
	assert.Contains(query, "completed = FALSE AND (title ILIKE $1 OR description ILIKE $1)")
	assert.Equal([]any{"%milk%"}, args)

	// Whitespace-only search is ignored.
	query, args = buildListQuery(ListQuery{Filter: FilterAll, Search: "   ", Sort: "created_at", Order: "desc"})
	assert.NotContains(query, "ILIKE")
	assert.Empty(args)
}

func TestBuildListQuerySort(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	query, _ := buildListQuery(ListQuery{Filter: FilterAll, Sort: "title", Order: "asc"})
	assert.Contains(query, "ORDER BY title ASC")

	query, _ = buildListQuery(ListQuery{Filter: FilterAll, Sort: "due_date", Order: "desc"})
	assert.Contains(query, "ORDER BY due_date DESC")

	// Unknown sort columns never reach the SQL.
	query, _ = buildListQuery(ListQuery{Filter: FilterAll, Sort: "id; DROP TABLE todos", Order: "desc"})
	assert.Contains(query, "ORDER BY created_at DESC")
}

func TestBuildListQueryLimitOffset(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	query, args := buildListQuery(ListQuery{Filter: FilterAll, Search: "x", Sort: "created_at", Order: "desc", Limit: 10, Offset: 20})
	assert.Contains(query, "LIMIT $2")
	assert.Contains(query, "OFFSET $3")
	assert.Equal([]any{"%x%", 10, 20}, args)

	query, args = buildListQuery(ListQuery{Filter: FilterAll, Sort: "created_at", Order: "desc"})
	assert.NotContains(query, "LIMIT")
	assert.NotContains(query, "OFFSET")
	assert.Empty(args)
}
