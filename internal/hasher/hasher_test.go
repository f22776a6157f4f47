package hasher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	b := New(10)

	hashed, err := b.Hash("password123")
	require.NoError(t, err)
	require.NotEqual(t, "password123", hashed)

	assert.NoError(t, b.Verify(hashed, "password123"))
	assert.Error(t, b.Verify(hashed, "wrong-password"))
}

func TestHashIsSalted(t *testing.T) {
	b := New(10)

	first, err := b.Hash("password123")
	require.NoError(t, err)
	second, err := b.Hash("password123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCostFloor(t *testing.T) {
	b := New(1)

	hashed, err := b.Hash("password123")
	require.NoError(t, err)
	assert.NoError(t, b.Verify(hashed, "password123"))
}
