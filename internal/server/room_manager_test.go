package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoom_Success(t *testing.T) {
	assert := assert.New(t)
	m := newTestManager()

	room, token, err := m.CreateRoom("Alice", "blue", 0)
	require.NoError(t, err)

	assert.NoError(ValidateRoomCode(room.Code))
	assert.NotEmpty(token)
	assert.Equal(StatusWaiting, room.status)
	assert.Equal("blue", room.DeckColor)
	assert.Equal(31, room.Rules.TargetScore)

	assert.Equal("Alice", room.seats[0].Name)
	assert.Equal(token, room.seats[0].Token)
	assert.True(room.seats[0].Connected)
	assert.Equal(0, room.hostSeat())
	for i := 1; i < 4; i++ {
		assert.False(room.seats[i].occupied())
	}

	assert.Equal(1, m.RoomCount())
}

func TestCreateRoom_Defaults(t *testing.T) {
	assert := assert.New(t)
	m := newTestManager()

	room, _, err := m.CreateRoom("Alice", "", 0)
	require.NoError(t, err)
	assert.Equal("red", room.DeckColor)

	custom, _, err := m.CreateRoom("Bob", "blue", 52)
	require.NoError(t, err)
	assert.Equal(52, custom.Rules.TargetScore)
}

func TestCreateRoom_InvalidName(t *testing.T) {
	assert := assert.New(t)
	m := newTestManager()

	_, _, err := m.CreateRoom("", "red", 0)
	assert.Error(err)

	_, _, err = m.CreateRoom("this name is way over the twenty limit", "red", 0)
	assert.Error(err)

	assert.Equal(0, m.RoomCount())
}

func TestCreateRoom_UniqueCodes(t *testing.T) {
	assert := assert.New(t)
	m := newTestManager()

	codes := map[string]bool{}
	for i := 0; i < 20; i++ {
		room, _, err := m.CreateRoom("Alice", "red", 0)
		require.NoError(t, err)
		assert.False(codes[room.Code], "duplicate room code %s", room.Code)
		codes[room.Code] = true
	}
}

func TestGet_NormalizesCode(t *testing.T) {
	assert := assert.New(t)
	m := newTestManager()

	room, _, err := m.CreateRoom("Alice", "red", 0)
	require.NoError(t, err)

	found, err := m.Get("  " + room.Code + " ")
	assert.NoError(err)
	assert.Same(room, found)
}

func TestGet_UnknownRoom(t *testing.T) {
	assert := assert.New(t)
	m := newTestManager()

	_, err := m.Get("AAAAAA")
	assert.ErrorIs(err, ErrRoomNotFound)

	_, err = m.Get("bad")
	assert.Error(err)
}

func TestFindByToken_Unknown(t *testing.T) {
	assert := assert.New(t)
	m := newTestManager()

	_, err := m.FindByToken("no-such-token")
	assert.ErrorIs(err, ErrInvalidToken)
}

func TestDestroy_RemovesRoomAndTokens(t *testing.T) {
	assert := assert.New(t)
	m := newTestManager()

	room, token, err := m.CreateRoom("Alice", "red", 0)
	require.NoError(t, err)

	m.Destroy(room.Code)

	assert.Equal(0, m.RoomCount())
	_, err = m.Get(room.Code)
	assert.ErrorIs(err, ErrRoomNotFound)
	_, err = m.FindByToken(token)
	assert.ErrorIs(err, ErrInvalidToken)
}
