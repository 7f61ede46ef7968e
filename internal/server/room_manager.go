package server

import (
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/PGD3311/Catch-5/internal/catch5"
	"github.com/PGD3311/Catch-5/internal/stats"
)

// RoomManager is the registry of live rooms. It owns only the indexes
// (code to room, token to room code); all room state belongs to the rooms'
// own loops. Registry locks are never held across a room operation.
type RoomManager struct {
	rooms  map[string]*Room
	tokens map[string]string // player token → room code
	mu     sync.RWMutex

	conns *ConnectionManager
	stats stats.Store
	cfg   Config
	log   *logrus.Logger

	stopReaper chan struct{}
	reaperOnce sync.Once
}

func NewRoomManager(conns *ConnectionManager, statsStore stats.Store, cfg Config, log *logrus.Logger) *RoomManager {
	return &RoomManager{
		rooms:      make(map[string]*Room),
		tokens:     make(map[string]string),
		conns:      conns,
		stats:      statsStore,
		cfg:        cfg,
		log:        log,
		stopReaper: make(chan struct{}),
	}
}

// CreateRoom allocates a room, seats the creator at seat 0 as host, and
// starts the room's loop.
func (m *RoomManager) CreateRoom(hostName, deckColor string, targetScore int) (*Room, string, error) {
	hostName = strings.TrimSpace(hostName)
	if err := validatePlayerName(hostName); err != nil {
		return nil, "", err
	}

	rules := catch5.DefaultRules()
	if targetScore > 0 {
		rules.TargetScore = targetScore
	}
	if deckColor == "" {
		deckColor = "red"
	}

	m.mu.Lock()
	used := make(map[string]bool, len(m.rooms))
	for code := range m.rooms {
		used[code] = true
	}
	code := GenerateRoomCode(used)

	room := &Room{
		Code:      code,
		DeckColor: deckColor,
		Rules:     rules,
		CreatedAt: time.Now(),
		status:    StatusWaiting,
		ops:       make(chan func(), 64),
		done:      make(chan struct{}),
		mgr:       m,
		conns:     m.conns,
		stats:     m.stats,
		cfg:       m.cfg,
		log:       m.log.WithField("room", code),
	}
	token := room.seatHost(hostName)

	m.rooms[code] = room
	m.tokens[token] = code
	m.mu.Unlock()

	go room.run()

	m.log.WithFields(logrus.Fields{"room": code, "host": hostName}).Info("room created")
	return room, token, nil
}

func (m *RoomManager) Get(code string) (*Room, error) {
	code = NormalizeRoomCode(code)
	if err := ValidateRoomCode(code); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// FindByToken resolves a reconnection token to its room.
func (m *RoomManager) FindByToken(token string) (*Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	code, ok := m.tokens[token]
	if !ok {
		return nil, ErrInvalidToken
	}
	room, ok := m.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

func (m *RoomManager) RegisterToken(token, code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token] = code
}

func (m *RoomManager) ReleaseToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, token)
}

func (m *RoomManager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// Destroy removes a room from the registry and stops its loop. Safe to call
// from the room's own loop.
func (m *RoomManager) Destroy(code string) {
	m.mu.Lock()
	room, ok := m.rooms[code]
	if ok {
		delete(m.rooms, code)
		for token, roomCode := range m.tokens {
			if roomCode == code {
				delete(m.tokens, token)
				m.conns.UnbindToken(token)
			}
		}
	}
	m.mu.Unlock()

	if ok {
		close(room.done)
		m.log.WithField("room", code).Info("room destroyed")
	}
}

// StartReaper periodically asks every room to check whether it should be
// reclaimed. The check itself runs on each room's own loop.
func (m *RoomManager) StartReaper(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				now := time.Now()
				m.mu.RLock()
				rooms := make([]*Room, 0, len(m.rooms))
				for _, room := range m.rooms {
					rooms = append(rooms, room)
				}
				m.mu.RUnlock()
				for _, room := range rooms {
					r := room
					r.post(func() { r.reapCheck(now) })
				}
			case <-m.stopReaper:
				return
			}
		}
	}()
}

func (m *RoomManager) StopReaper() {
	m.reaperOnce.Do(func() { close(m.stopReaper) })
}
