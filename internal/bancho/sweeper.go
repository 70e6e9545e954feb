package bancho

import (
	"context"
	"log/slog"
	"time"
)

// SweepIdle logs out every session whose last inbound packet is older
// than timeout. The bot never times out. Returns how many sessions
// were swept.
func (st *State) SweepIdle(ctx context.Context, timeout time.Duration) int {
	cutoff := time.Now().Add(-timeout)

	var stale []*Session
	st.Registry.ForEach(func(s *Session) bool {
		if !s.IsBot && s.LatestActivity().Before(cutoff) {
			stale = append(stale, s)
		}
		return true
	})

	for _, s := range stale {
		slog.Info("sweeping idle session",
			"user", s.ID(),
			"username", s.Username(),
			"idle", time.Since(s.LatestActivity()).Round(time.Second))
		st.Logout(ctx, s)
	}
	return len(stale)
}

// RunIdleSweeper periodically sweeps idle sessions until ctx is done.
func (st *State) RunIdleSweeper(ctx context.Context, interval, timeout time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			st.SweepIdle(ctx, timeout)
		}
	}
}
