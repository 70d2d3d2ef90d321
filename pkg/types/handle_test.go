package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandle_Valid(t *testing.T) {
	assert.False(t, InvalidHandle.Valid())
	assert.True(t, Handle(0).Valid())
	assert.True(t, Handle(42).Valid())
}

func TestHandle_String(t *testing.T) {
	assert.Equal(t, "7", Handle(7).String())
	assert.Equal(t, "-1", InvalidHandle.String())
}

func TestParseHandle(t *testing.T) {
	h, err := ParseHandle("12")
	require.NoError(t, err)
	assert.Equal(t, Handle(12), h)

	_, err = ParseHandle("-1")
	assert.Error(t, err)

	_, err = ParseHandle("abc")
	assert.Error(t, err)
}

func TestGroupDelimiter(t *testing.T) {
	assert.Equal(t, []byte{0x01}, []byte(GroupDelimiter))
}
