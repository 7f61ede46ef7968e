package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBindToken_FirstBind(t *testing.T) {
	assert := assert.New(t)
	cm := NewConnectionManager()

	old := cm.BindToken("conn-1", "token-a")

	assert.Empty(old)
	assert.Equal("token-a", cm.TokenFor("conn-1"))
	assert.Equal("conn-1", cm.ConnectionIDFor("token-a"))
}

func TestBindToken_ReturnsEvictedConnection(t *testing.T) {
	assert := assert.New(t)
	cm := NewConnectionManager()

	cm.BindToken("conn-1", "token-a")
	old := cm.BindToken("conn-2", "token-a")

	assert.Equal("conn-1", old)
	assert.Equal("conn-2", cm.ConnectionIDFor("token-a"))
}

func TestBindToken_RebindSameConnection(t *testing.T) {
	assert := assert.New(t)
	cm := NewConnectionManager()

	cm.BindToken("conn-1", "token-a")
	old := cm.BindToken("conn-1", "token-a")

	assert.Empty(old, "rebinding the same connection should not evict it")
}

func TestRemoveConnection_CleansTokenMaps(t *testing.T) {
	assert := assert.New(t)
	cm := NewConnectionManager()

	cm.AddConnection("conn-1", nil)
	cm.BindToken("conn-1", "token-a")
	cm.RemoveConnection("conn-1")

	assert.Empty(cm.TokenFor("conn-1"))
	assert.Empty(cm.ConnectionIDFor("token-a"))
}

func TestRemoveConnection_DoesNotStealNewerBinding(t *testing.T) {
	assert := assert.New(t)
	cm := NewConnectionManager()

	// token moved to conn-2 before conn-1 was cleaned up
	cm.BindToken("conn-1", "token-a")
	cm.BindToken("conn-2", "token-a")
	cm.RemoveConnection("conn-1")

	assert.Equal("conn-2", cm.ConnectionIDFor("token-a"))
}

func TestUnbindToken(t *testing.T) {
	assert := assert.New(t)
	cm := NewConnectionManager()

	cm.BindToken("conn-1", "token-a")
	cm.UnbindToken("token-a")

	assert.Empty(cm.ConnectionIDFor("token-a"))
	assert.Empty(cm.TokenFor("conn-1"))
}

func TestConnectionByToken_UnknownToken(t *testing.T) {
	assert := assert.New(t)
	cm := NewConnectionManager()

	assert.Nil(cm.ConnectionByToken("nope"))
}
