package server

import (
	"errors"
	"math/rand"
	"strings"
)

const roomCodeLength = 6

const roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateRoomCode produces a code not present in usedCodes. The caller is
// responsible for locking around the check-and-reserve.
func GenerateRoomCode(usedCodes map[string]bool) string {
	for {
		code := make([]byte, roomCodeLength)
		for i := range code {
			code[i] = roomCodeAlphabet[rand.Intn(len(roomCodeAlphabet))]
		}
		roomCode := string(code)

		if !usedCodes[roomCode] {
			return roomCode
		}
	}
}

func ValidateRoomCode(code string) error {
	if len(code) != roomCodeLength {
		return errors.New("ROOM_NOT_FOUND: Room code must be exactly 6 characters")
	}

	for _, ch := range code {
		if (ch < 'A' || ch > 'Z') && (ch < '0' || ch > '9') {
			return errors.New("ROOM_NOT_FOUND: Room code must contain only A-Z and 0-9")
		}
	}

	return nil
}

func NormalizeRoomCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

const maxPlayerNameLength = 20

func validatePlayerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("INVALID_NAME: Player name is required")
	}
	if len(name) > maxPlayerNameLength {
		return errors.New("INVALID_NAME: Player name must be 20 characters or fewer")
	}
	return nil
}
