package server

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRoomCode_Format(t *testing.T) {
	assert := assert.New(t)

	for i := 0; i < 100; i++ {
		code := GenerateRoomCode(map[string]bool{})
		assert.Len(code, roomCodeLength)
		assert.NoError(ValidateRoomCode(code))
	}
}

func TestGenerateRoomCode_AvoidsUsedCodes(t *testing.T) {
	assert := assert.New(t)

	used := map[string]bool{}
	for i := 0; i < 50; i++ {
		code := GenerateRoomCode(used)
		assert.False(used[code], "generated a code already in use: %s", code)
		used[code] = true
	}
}

func TestValidateRoomCode(t *testing.T) {
	assert := assert.New(t)

	assert.NoError(ValidateRoomCode("ABC123"))
	assert.NoError(ValidateRoomCode("ZZZZZZ"))

	assert.Error(ValidateRoomCode(""))
	assert.Error(ValidateRoomCode("ABC12"))
	assert.Error(ValidateRoomCode("ABC1234"))
	assert.Error(ValidateRoomCode("abc123"))
	assert.Error(ValidateRoomCode("ABC-12"))
}

func TestNormalizeRoomCode(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("ABC123", NormalizeRoomCode("abc123"))
	assert.Equal("ABC123", NormalizeRoomCode("  AbC123 "))
}

func TestValidatePlayerName(t *testing.T) {
	assert := assert.New(t)

	assert.NoError(validatePlayerName("Alice"))
	assert.NoError(validatePlayerName(strings.Repeat("a", maxPlayerNameLength)))

	assert.Error(validatePlayerName(""))
	assert.Error(validatePlayerName("   "))
	assert.Error(validatePlayerName(strings.Repeat("a", maxPlayerNameLength+1)))
}
