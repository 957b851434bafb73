package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsV7(t *testing.T) {
	generated := New()

	assert.Equal(t, 7, int(generated.Version()))
	assert.False(t, IsNil(generated))
}

func TestNewIsOrdered(t *testing.T) {
	first := New()
	second := New()

	// V7 embeds a millisecond timestamp, so later IDs never sort before
	// earlier ones.
	assert.LessOrEqual(t, first.String(), second.String())
}

func TestParseRoundTrip(t *testing.T) {
	original := New()

	parsed, err := Parse(original.String())
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse("not-a-uuid")
	assert.Error(t, err)
}

func TestIsNil(t *testing.T) {
	assert.True(t, IsNil(Nil()))
	assert.False(t, IsNil(New()))
}
