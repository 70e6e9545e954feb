package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/onecho-dev/onecho/internal/model"
)

// ChannelRow is one persistent chat channel definition. Temporary
// channels (watch-party rooms) are never persisted.
type ChannelRow struct {
	Name       string
	Topic      string
	ReadPrivs  model.Privileges
	WritePrivs model.Privileges
	AutoJoin   bool
}

// ChannelRepository reads the static channel table.
type ChannelRepository struct {
	db *pgxpool.Pool
}

// NewChannelRepository creates a ChannelRepository.
func NewChannelRepository(db *pgxpool.Pool) *ChannelRepository {
	return &ChannelRepository{db: db}
}

// All loads every channel definition.
func (r *ChannelRepository) All(ctx context.Context) ([]ChannelRow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT name, topic, read_privs, write_privs, auto_join FROM channels`)
	if err != nil {
		return nil, fmt.Errorf("querying channels: %w", err)
	}
	defer rows.Close()

	var out []ChannelRow
	for rows.Next() {
		var c ChannelRow
		if err := rows.Scan(&c.Name, &c.Topic, &c.ReadPrivs, &c.WritePrivs, &c.AutoJoin); err != nil {
			return nil, fmt.Errorf("scanning channel row: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating channel rows: %w", err)
	}
	return out, nil
}
