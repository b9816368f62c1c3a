package reporting

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog(t *testing.T) {
	catalog, err := LoadCatalog()
	require.NoError(t, err)
	require.Len(t, catalog.Queries, 7)

	for _, q := range catalog.Queries {
		assert.NotEmpty(t, q.Name)
		assert.NotEmpty(t, q.Description)
		assert.NotEmpty(t, q.SQL)

		// Every declared parameter must be referenced in the SQL, and the
		// SQL must not reference positions beyond the declared count.
		for i := range q.Params {
			placeholder := "$" + string(rune('1'+i))
			assert.Contains(t, q.SQL, placeholder, "query %s param %d", q.Name, i+1)
		}
		overflow := "$" + string(rune('1'+len(q.Params)))
		assert.NotContains(t, q.SQL, overflow, "query %s", q.Name)
	}
}

func TestCatalogGet(t *testing.T) {
	catalog, err := LoadCatalog()
	require.NoError(t, err)

	q, ok := catalog.Get("query3")
	require.True(t, ok)
	assert.Equal(t, []string{"n", "country", "city", "category"}, q.Params)
	assert.True(t, strings.Contains(q.SQL, "LIMIT $1"))

	_, ok = catalog.Get("query99")
	assert.False(t, ok)
}
