package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPairKey(t *testing.T) {
	a := "0a0a0a0a-0000-0000-0000-000000000001"
	b := "ffffffff-0000-0000-0000-000000000002"

	low, high := PairKey(a, b)
	assert.Equal(t, a, low)
	assert.Equal(t, b, high)

	// order of arguments must not matter
	low2, high2 := PairKey(b, a)
	assert.Equal(t, low, low2)
	assert.Equal(t, high, high2)
}

func TestPairKeySameUser(t *testing.T) {
	id := "0a0a0a0a-0000-0000-0000-000000000001"
	low, high := PairKey(id, id)
	assert.Equal(t, id, low)
	assert.Equal(t, id, high)
}
