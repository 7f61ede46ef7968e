package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

func (s *Server) RegisterRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/websocket", s.websocketHandler)
	mux.HandleFunc("GET /api/stats/{playerId}", s.playerStatsHandler)
	mux.HandleFunc("GET /api/leaderboard", s.leaderboardHandler)

	return s.corsMiddleware(mux)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		s.log.WithError(err).Error("failed to write response")
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if err := s.db.PingContext(r.Context()); err != nil {
		status = "degraded"
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": status,
		"rooms":  s.rooms.RoomCount(),
	})
}

func (s *Server) playerStatsHandler(w http.ResponseWriter, r *http.Request) {
	playerStats, err := s.stats.Get(r.Context(), r.PathValue("playerId"))
	if err != nil {
		s.log.WithError(err).Error("failed to load player stats")
		http.Error(w, "Failed to load stats", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, playerStats)
}

func (s *Server) leaderboardHandler(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	rows, err := s.stats.Leaderboard(r.Context(), limit)
	if err != nil {
		s.log.WithError(err).Error("failed to load leaderboard")
		http.Error(w, "Failed to load leaderboard", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, rows)
}

func (s *Server) websocketHandler(w http.ResponseWriter, r *http.Request) {
	socket, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		http.Error(w, "Failed to open websocket", http.StatusInternalServerError)
		return
	}
	defer socket.Close(websocket.StatusGoingAway, "Server closing")

	ctx := r.Context()
	connectionID := uuid.New().String()
	log := s.log.WithField("conn", connectionID)

	log.Debug("connection opened")
	s.conns.AddConnection(connectionID, socket)
	defer s.closeConnection(connectionID)

	for {
		msgType, data, err := socket.Read(ctx)
		if err != nil {
			log.WithError(err).Debug("connection closed")
			return
		}
		if msgType != websocket.MessageText {
			continue
		}

		if !s.limiter.Allow(connectionID) {
			s.sendSocketError(socket, "RATE_LIMITED: Too many messages")
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.sendSocketError(socket, "BAD_MESSAGE: Invalid JSON")
			continue
		}

		s.dispatch(socket, connectionID, msg)
	}
}

// closeConnection runs when a socket drops for any reason. The seat is not
// freed: its room is told about the disconnect and decides what happens.
func (s *Server) closeConnection(connectionID string) {
	token := s.conns.TokenFor(connectionID)
	s.conns.RemoveConnection(connectionID)
	s.limiter.Forget(connectionID)

	if token == "" {
		return
	}
	room, err := s.rooms.FindByToken(token)
	if err != nil {
		return
	}
	room.post(func() { room.handleDisconnect(connectionID, token) })
}

// dispatch routes one client message. Room-addressed messages become
// operations on the room's loop; replies and errors go back on the sender's
// socket from inside that loop.
func (s *Server) dispatch(socket *websocket.Conn, connectionID string, msg ClientMessage) {
	switch msg.Type {
	case "ping":
		s.sendSocket(socket, map[string]string{"type": "pong"})

	case "create_room":
		s.handleCreateRoom(socket, connectionID, msg)

	case "join_room":
		// join_room carrying a token is a rejoin; the token alone
		// identifies the room and seat.
		if msg.PlayerToken != "" {
			s.handleReconnect(socket, connectionID, msg.PlayerToken)
			return
		}
		room, err := s.rooms.Get(msg.RoomCode)
		if err != nil {
			s.sendSocketError(socket, err.Error())
			return
		}
		room.post(func() { room.handleJoin(socket, connectionID, msg.PlayerName) })

	case "reconnect":
		s.handleReconnect(socket, connectionID, msg.PlayerToken)

	case "start_game":
		s.withRoom(socket, connectionID, msg, func(room *Room, token string) {
			room.handleStartGame(socket, token)
		})

	case "add_cpu":
		seat := msg.SeatIndex
		s.withRoom(socket, connectionID, msg, func(room *Room, token string) {
			room.handleAddCPU(socket, token, seat)
		})

	case "remove_cpu":
		seat := msg.SeatIndex
		s.withRoom(socket, connectionID, msg, func(room *Room, token string) {
			room.handleRemoveCPU(socket, token, seat)
		})

	case "player_action":
		var data ActionData
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				s.sendSocketError(socket, "BAD_MESSAGE: Invalid action data")
				return
			}
		}
		action := msg.Action
		s.withRoom(socket, connectionID, msg, func(room *Room, token string) {
			room.handlePlayerAction(socket, token, action, data)
		})

	case "leave_room":
		s.withRoom(socket, connectionID, msg, func(room *Room, token string) {
			room.handleLeave(socket, token)
		})

	case "chat":
		text := msg.Message
		s.withRoom(socket, connectionID, msg, func(room *Room, token string) {
			room.handleChat(token, text)
		})

	default:
		s.sendSocketError(socket, "BAD_MESSAGE: Unknown message type: "+msg.Type)
	}
}

func (s *Server) handleReconnect(socket *websocket.Conn, connectionID, token string) {
	room, err := s.rooms.FindByToken(token)
	if err != nil {
		s.sendSocketError(socket, err.Error())
		return
	}
	room.post(func() { room.handleRejoin(socket, connectionID, token) })
}

func (s *Server) handleCreateRoom(socket *websocket.Conn, connectionID string, msg ClientMessage) {
	room, token, err := s.rooms.CreateRoom(msg.PlayerName, msg.DeckColor, msg.TargetScore)
	if err != nil {
		s.sendSocketError(socket, err.Error())
		return
	}
	s.conns.BindToken(connectionID, token)
	room.post(func() { room.send(socket, room.joinedMessage("room_created", 0)) })
}

// withRoom resolves the sender's token to its room and posts op to the
// room's loop. The token in the message wins; the one bound to the
// connection is the fallback.
func (s *Server) withRoom(socket *websocket.Conn, connectionID string, msg ClientMessage, op func(room *Room, token string)) {
	token := msg.PlayerToken
	if token == "" {
		token = s.conns.TokenFor(connectionID)
	}
	if token == "" {
		s.sendSocketError(socket, ErrNotInRoom.Error())
		return
	}
	room, err := s.rooms.FindByToken(token)
	if err != nil {
		s.sendSocketError(socket, err.Error())
		return
	}
	room.post(func() { op(room, token) })
}

func (s *Server) sendSocket(socket *websocket.Conn, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.log.WithError(err).Error("failed to marshal message")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := socket.Write(ctx, websocket.MessageText, data); err != nil {
		s.log.WithError(err).Debug("write failed")
	}
}

func (s *Server) sendSocketError(socket *websocket.Conn, message string) {
	s.sendSocket(socket, ErrorMessage{Type: "error", Message: message})
}
