package server

import (
	"sync"

	"github.com/coder/websocket"
)

// ConnectionManager tracks live sockets and which reconnection token each is
// bound to. It holds no game state; rooms address connections by token.
type ConnectionManager struct {
	connections map[string]*websocket.Conn // connectionID → socket
	tokens      map[string]string          // connectionID → token
	byToken     map[string]string          // token → connectionID
	mu          sync.RWMutex
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]*websocket.Conn),
		tokens:      make(map[string]string),
		byToken:     make(map[string]string),
	}
}

func (cm *ConnectionManager) AddConnection(id string, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.connections[id] = conn
}

func (cm *ConnectionManager) RemoveConnection(id string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if token, ok := cm.tokens[id]; ok {
		if cm.byToken[token] == id {
			delete(cm.byToken, token)
		}
	}
	delete(cm.tokens, id)
	delete(cm.connections, id)
}

// BindToken points a token at a connection and returns the ID of any other
// connection the token was previously bound to, so the caller can evict it.
func (cm *ConnectionManager) BindToken(connectionID, token string) (oldConnectionID string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	old := cm.byToken[token]
	if old == connectionID {
		old = ""
	}
	cm.byToken[token] = connectionID
	cm.tokens[connectionID] = token
	return old
}

func (cm *ConnectionManager) UnbindToken(token string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if connID, ok := cm.byToken[token]; ok {
		delete(cm.tokens, connID)
		delete(cm.byToken, token)
	}
}

func (cm *ConnectionManager) TokenFor(connectionID string) string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.tokens[connectionID]
}

func (cm *ConnectionManager) ConnectionIDFor(token string) string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.byToken[token]
}

func (cm *ConnectionManager) Connection(connectionID string) *websocket.Conn {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.connections[connectionID]
}

// ConnectionByToken resolves a token straight to its live socket, if any.
func (cm *ConnectionManager) ConnectionByToken(token string) *websocket.Conn {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	connID, ok := cm.byToken[token]
	if !ok {
		return nil
	}
	return cm.connections[connID]
}
