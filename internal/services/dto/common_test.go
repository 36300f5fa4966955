package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageQueryNormalize(t *testing.T) {
	q := PageQuery{}
	q.Normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 20, q.PerPage)
	assert.Equal(t, 0, q.Offset())

	q = PageQuery{Page: 3, PerPage: 500}
	q.Normalize()
	assert.Equal(t, 100, q.PerPage)
	assert.Equal(t, 200, q.Offset())

	q = PageQuery{Page: -1, PerPage: -5}
	q.Normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 20, q.PerPage)
}
