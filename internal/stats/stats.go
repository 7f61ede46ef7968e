// Package stats keeps per-player lifetime statistics. The game server treats
// it as a fire-and-forget collaborator: increments are applied at game over
// and a failure never touches game state.
package stats

import "context"

type Increments struct {
	GamesPlayed       int `json:"gamesPlayed"`
	GamesWon          int `json:"gamesWon"`
	BidsMade          int `json:"bidsMade"`
	BidsSucceeded     int `json:"bidsSucceeded"`
	TimesSet          int `json:"timesSet"`
	TotalPointsScored int `json:"totalPointsScored"`
	HighestBid        int `json:"highestBid"`     // max-merged, not summed
	HighestBidMade    int `json:"highestBidMade"` // max-merged, not summed
}

type UserStats struct {
	PlayerID          string `json:"playerId"`
	PlayerName        string `json:"playerName"`
	GamesPlayed       int    `json:"gamesPlayed"`
	GamesWon          int    `json:"gamesWon"`
	BidsMade          int    `json:"bidsMade"`
	BidsSucceeded     int    `json:"bidsSucceeded"`
	TimesSet          int    `json:"timesSet"`
	TotalPointsScored int    `json:"totalPointsScored"`
	HighestBid        int    `json:"highestBid"`
	HighestBidMade    int    `json:"highestBidMade"`
}

type Store interface {
	// Increment applies the deltas to the player's row, creating it on first
	// use. The Highest* fields keep the maximum of old and new.
	Increment(ctx context.Context, playerID, playerName string, inc Increments) error

	// Get returns the player's stats; a player with no recorded games gets a
	// zeroed row rather than an error.
	Get(ctx context.Context, playerID string) (UserStats, error)

	// Leaderboard returns up to limit players ordered by games won.
	Leaderboard(ctx context.Context, limit int) ([]UserStats, error)
}
