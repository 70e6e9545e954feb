package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/onecho-dev/onecho/internal/model"
)

// RelationshipRepository manages friend and block rows.
type RelationshipRepository struct {
	db *pgxpool.Pool
}

// NewRelationshipRepository creates a RelationshipRepository.
func NewRelationshipRepository(db *pgxpool.Pool) *RelationshipRepository {
	return &RelationshipRepository{db: db}
}

// ByUser loads every relationship a user holds.
func (r *RelationshipRepository) ByUser(ctx context.Context, userID int32) ([]model.Relationship, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id, target_id, relation, since
		 FROM relationships WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying relationships for user %d: %w", userID, err)
	}
	defer rows.Close()

	var out []model.Relationship
	for rows.Next() {
		var rel model.Relationship
		if err := rows.Scan(&rel.UserID, &rel.TargetID, &rel.Relation, &rel.Since); err != nil {
			return nil, fmt.Errorf("scanning relationship row for user %d: %w", userID, err)
		}
		out = append(out, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating relationship rows for user %d: %w", userID, err)
	}
	return out, nil
}

// Upsert inserts a relationship, keeping the original timestamp when
// the row already exists.
func (r *RelationshipRepository) Upsert(ctx context.Context, rel model.Relationship) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO relationships (user_id, target_id, relation, since)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, target_id, relation) DO NOTHING`,
		rel.UserID, rel.TargetID, rel.Relation, rel.Since)
	if err != nil {
		return fmt.Errorf("upserting relationship %d->%d: %w", rel.UserID, rel.TargetID, err)
	}
	return nil
}

// Delete removes a relationship row.
func (r *RelationshipRepository) Delete(ctx context.Context, userID, targetID int32, rel model.RelationType) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM relationships
		 WHERE user_id = $1 AND target_id = $2 AND relation = $3`,
		userID, targetID, rel)
	if err != nil {
		return fmt.Errorf("deleting relationship %d->%d: %w", userID, targetID, err)
	}
	return nil
}
