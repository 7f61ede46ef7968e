package server

import (
	"encoding/json"

	"github.com/PGD3311/Catch-5/internal/catch5"
)

// The wire protocol is flat JSON records over one websocket per client: a
// "type" field plus top-level payload fields.

type ClientMessage struct {
	Type        string          `json:"type"`
	PlayerName  string          `json:"playerName,omitempty"`
	RoomCode    string          `json:"roomCode,omitempty"`
	PlayerToken string          `json:"playerToken,omitempty"`
	DeckColor   string          `json:"deckColor,omitempty"`
	TargetScore int             `json:"targetScore,omitempty"`
	Action      string          `json:"action,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
	SeatIndex   int             `json:"seatIndex,omitempty"`
	Message     string          `json:"message,omitempty"`
}

// ActionData carries the payload of a player_action message. Which fields
// matter depends on the action: bid uses Amount, select_trump uses Suit,
// play_card uses Card.
type ActionData struct {
	Amount int          `json:"amount,omitempty"`
	Suit   string       `json:"suit,omitempty"`
	Card   *catch5.Card `json:"card,omitempty"`
}

type RoomPlayerInfo struct {
	SeatIndex  int    `json:"seatIndex"`
	PlayerName string `json:"playerName"`
	IsHuman    bool   `json:"isHuman"`
	Connected  bool   `json:"connected"`
	IsHost     bool   `json:"isHost"`
}

// JoinedMessage doubles as room_created, joined and rejoined; rejoined also
// carries the current redacted game state.
type JoinedMessage struct {
	Type        string              `json:"type"`
	RoomCode    string              `json:"roomCode"`
	PlayerToken string              `json:"playerToken"`
	SeatIndex   int                 `json:"seatIndex"`
	Players     []RoomPlayerInfo    `json:"players"`
	DeckColor   string              `json:"deckColor"`
	TargetScore int                 `json:"targetScore"`
	GameState   *catch5.ClientState `json:"gameState,omitempty"`
}

// PresenceMessage covers player_joined, player_reconnected,
// player_disconnected and player_left notices.
type PresenceMessage struct {
	Type      string           `json:"type"`
	SeatIndex int              `json:"seatIndex"`
	Players   []RoomPlayerInfo `json:"players"`
}

type GameStateMessage struct {
	Type      string             `json:"type"`
	GameState catch5.ClientState `json:"gameState"`
	DeckColor string             `json:"deckColor"`
}

type ChatMessage struct {
	Type       string `json:"type"`
	SeatIndex  int    `json:"seatIndex"`
	PlayerName string `json:"playerName"`
	Message    string `json:"message"`
}

type LeftMessage struct {
	Type string `json:"type"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
