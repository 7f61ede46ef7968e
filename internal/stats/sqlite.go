package stats

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore backs the Store interface with a user_stats table. Schema is
// managed by the goose migrations under db/migrations.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stats database: %w", err)
	}
	return db, nil
}

func (s *SQLiteStore) Increment(ctx context.Context, playerID, playerName string, inc Increments) error {
	query := `
		INSERT INTO user_stats (
			player_id, player_name, games_played, games_won, bids_made,
			bids_succeeded, times_set, total_points_scored, highest_bid,
			highest_bid_made, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(player_id) DO UPDATE SET
			player_name         = excluded.player_name,
			games_played        = games_played + excluded.games_played,
			games_won           = games_won + excluded.games_won,
			bids_made           = bids_made + excluded.bids_made,
			bids_succeeded      = bids_succeeded + excluded.bids_succeeded,
			times_set           = times_set + excluded.times_set,
			total_points_scored = total_points_scored + excluded.total_points_scored,
			highest_bid         = MAX(highest_bid, excluded.highest_bid),
			highest_bid_made    = MAX(highest_bid_made, excluded.highest_bid_made),
			updated_at          = CURRENT_TIMESTAMP
	`

	_, err := s.db.ExecContext(ctx, query,
		playerID, playerName,
		inc.GamesPlayed, inc.GamesWon, inc.BidsMade, inc.BidsSucceeded,
		inc.TimesSet, inc.TotalPointsScored, inc.HighestBid, inc.HighestBidMade,
	)
	if err != nil {
		return fmt.Errorf("failed to increment stats for %s: %w", playerID, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, playerID string) (UserStats, error) {
	query := `
		SELECT player_id, player_name, games_played, games_won, bids_made,
		       bids_succeeded, times_set, total_points_scored, highest_bid,
		       highest_bid_made
		FROM user_stats
		WHERE player_id = ?
	`

	var us UserStats
	err := s.db.QueryRowContext(ctx, query, playerID).Scan(
		&us.PlayerID, &us.PlayerName, &us.GamesPlayed, &us.GamesWon,
		&us.BidsMade, &us.BidsSucceeded, &us.TimesSet, &us.TotalPointsScored,
		&us.HighestBid, &us.HighestBidMade,
	)
	if err == sql.ErrNoRows {
		return UserStats{PlayerID: playerID}, nil
	}
	if err != nil {
		return UserStats{}, fmt.Errorf("failed to load stats for %s: %w", playerID, err)
	}
	return us, nil
}

func (s *SQLiteStore) Leaderboard(ctx context.Context, limit int) ([]UserStats, error) {
	query := `
		SELECT player_id, player_name, games_played, games_won, bids_made,
		       bids_succeeded, times_set, total_points_scored, highest_bid,
		       highest_bid_made
		FROM user_stats
		ORDER BY games_won DESC, total_points_scored DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	defer rows.Close()

	leaders := make([]UserStats, 0, limit)
	for rows.Next() {
		var us UserStats
		if err := rows.Scan(
			&us.PlayerID, &us.PlayerName, &us.GamesPlayed, &us.GamesWon,
			&us.BidsMade, &us.BidsSucceeded, &us.TimesSet, &us.TotalPointsScored,
			&us.HighestBid, &us.HighestBidMade,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		leaders = append(leaders, us)
	}
	return leaders, rows.Err()
}
