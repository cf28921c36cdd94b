package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, Query{Page: 1, Limit: 20}, Clamp(Query{Page: 0, Limit: 0}, 150))
	assert.Equal(t, Query{Page: 1, Limit: 20}, Clamp(Query{Page: -3, Limit: -1}, 150))
	assert.Equal(t, Query{Page: 2, Limit: 150}, Clamp(Query{Page: 2, Limit: 500}, 150))
	assert.Equal(t, Query{Page: 5, Limit: 100}, Clamp(Query{Page: 5, Limit: 101}, 100))
	assert.Equal(t, Query{Page: 3, Limit: 50}, Clamp(Query{Page: 3, Limit: 50}, 150))
}
