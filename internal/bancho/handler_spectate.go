package bancho

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/onecho-dev/onecho/internal/bancho/clientpackets"
	"github.com/onecho-dev/onecho/internal/packet"
)

// handleStartSpectating attaches the session to the target's watch
// party.
func (h *Handler) handleStartSpectating(_ context.Context, r *packet.Reader, s *Session) error {
	hostID, err := clientpackets.ParseUserID(r)
	if err != nil {
		return err
	}
	if hostID == s.ID() {
		return fmt.Errorf("user tried to spectate themselves")
	}
	host := h.st.Registry.ByUserID(hostID)
	if host == nil {
		return fmt.Errorf("spectate target %d is offline", hostID)
	}
	h.st.StartSpectating(s, host)
	return nil
}

// handleStopSpectating detaches the session from its watch party.
func (h *Handler) handleStopSpectating(_ context.Context, _ *packet.Reader, s *Session) error {
	h.st.StopSpectating(s)
	return nil
}

// handleSpectateFrames fans the host's replay frames out to every
// watcher. The whole remaining payload is the opaque frame blob.
func (h *Handler) handleSpectateFrames(_ context.Context, r *packet.Reader, s *Session) error {
	frames := r.ReadRemaining()
	if s.Spectating() != 0 {
		// Watchers don't produce frames.
		slog.Error("spectate frames from a watcher", "user", s.ID())
		return nil
	}
	h.st.FanOutSpectateFrames(s, frames)
	return nil
}

// handleCantSpectate tells the watch party the sender lacks the
// beatmap.
func (h *Handler) handleCantSpectate(_ context.Context, _ *packet.Reader, s *Session) error {
	h.st.FanOutCantSpectate(s)
	return nil
}
