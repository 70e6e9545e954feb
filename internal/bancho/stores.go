package bancho

import (
	"context"
	"time"

	"github.com/onecho-dev/onecho/internal/model"
)

// UserStore is the persistence surface the core needs for accounts.
// Implemented by db.UserRepository; tests use in-memory fakes.
type UserStore interface {
	// ByUsernameSafe returns (nil, nil) when no such user exists.
	ByUsernameSafe(ctx context.Context, safe string) (*model.User, error)
	ByID(ctx context.Context, id int32) (*model.User, error)
	// Create inserts the user and fills in the assigned id.
	Create(ctx context.Context, u *model.User) error
	UpdateLatestActive(ctx context.Context, id int32, t time.Time) error
}

// StatsStore loads and initialises per-mode statistics.
type StatsStore interface {
	// ByUser returns stats for every mode, zero-valued where absent.
	ByUser(ctx context.Context, id int32) ([len(model.Modes)]model.ModeStats, error)
	// Init inserts zeroed rows for every mode.
	Init(ctx context.Context, id int32) error
}

// RelationStore persists directed friend/block relations.
type RelationStore interface {
	ByUser(ctx context.Context, id int32) ([]model.Relationship, error)
	Upsert(ctx context.Context, rel model.Relationship) error
	Delete(ctx context.Context, userID, targetID int32, rel model.RelationType) error
}

// GeoResolver locates a client IP. Implementations fall back to a
// default location rather than failing.
type GeoResolver interface {
	Resolve(ctx context.Context, ip string) model.Geolocation
}
