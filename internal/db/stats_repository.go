package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/onecho-dev/onecho/internal/model"
)

// StatsRepository manages per-mode user statistics rows.
type StatsRepository struct {
	db *pgxpool.Pool
}

// NewStatsRepository creates a StatsRepository.
func NewStatsRepository(db *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{db: db}
}

// ByUser loads the stats rows for every mode. Modes without a row come
// back zeroed.
func (r *StatsRepository) ByUser(ctx context.Context, userID int32) ([len(model.Modes)]model.ModeStats, error) {
	var out [len(model.Modes)]model.ModeStats

	rows, err := r.db.Query(ctx,
		`SELECT mode, ranked_score, total_score, pp, accuracy,
		        playcount, playtime, max_combo, total_hits, level
		 FROM user_stats WHERE user_id = $1`, userID)
	if err != nil {
		return out, fmt.Errorf("querying stats for user %d: %w", userID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var mode int16
		var s model.ModeStats
		if err := rows.Scan(
			&mode, &s.RankedScore, &s.TotalScore, &s.PP, &s.Accuracy,
			&s.Playcount, &s.Playtime, &s.MaxCombo, &s.TotalHits, &s.Level,
		); err != nil {
			return out, fmt.Errorf("scanning stats row for user %d: %w", userID, err)
		}
		if model.Mode(mode).Valid() {
			out[mode] = s
		}
	}
	if err := rows.Err(); err != nil {
		return out, fmt.Errorf("iterating stats rows for user %d: %w", userID, err)
	}
	return out, nil
}

// Init inserts zeroed stats rows for every mode of a fresh account.
func (r *StatsRepository) Init(ctx context.Context, userID int32) error {
	for _, mode := range model.Modes {
		_, err := r.db.Exec(ctx,
			`INSERT INTO user_stats (user_id, mode) VALUES ($1, $2)
			 ON CONFLICT (user_id, mode) DO NOTHING`, userID, int16(mode))
		if err != nil {
			return fmt.Errorf("initialising stats for user %d mode %d: %w", userID, mode, err)
		}
	}
	return nil
}

// RankedScores streams every (user_id, ranked_score) pair of one mode,
// used to seed the in-memory leaderboard at startup. Rows arrive in
// descending score order so insertion order matches rank order.
func (r *StatsRepository) RankedScores(ctx context.Context, mode model.Mode, fn func(userID int32, score int64)) error {
	rows, err := r.db.Query(ctx,
		`SELECT user_id, ranked_score FROM user_stats
		 WHERE mode = $1 AND user_id <> $2
		 ORDER BY ranked_score DESC, user_id ASC`, int16(mode), model.BotID)
	if err != nil {
		return fmt.Errorf("querying ranked scores for mode %d: %w", mode, err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID int32
		var score int64
		if err := rows.Scan(&userID, &score); err != nil {
			return fmt.Errorf("scanning ranked score row: %w", err)
		}
		fn(userID, score)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating ranked score rows: %w", err)
	}
	return nil
}
