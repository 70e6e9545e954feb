package bancho

import (
	"context"

	"github.com/onecho-dev/onecho/internal/bancho/clientpackets"
	"github.com/onecho-dev/onecho/internal/packet"
)

// handleChangeAction updates the session's status and pushes the new
// stats: always to the session itself, and to everyone else when the
// user is visible.
func (h *Handler) handleChangeAction(_ context.Context, r *packet.Reader, s *Session) error {
	status, err := clientpackets.ParseChangeAction(r)
	if err != nil {
		return err
	}
	s.SetStatus(status)

	frame := h.st.StatsFrame(s)
	s.Enqueue(frame)
	if !s.Restricted() {
		h.st.Registry.Broadcast(frame, map[int32]struct{}{s.ID(): {}})
	}
	return nil
}

// handleRequestStatusUpdate sends the session its own fresh
// presence and stats.
func (h *Handler) handleRequestStatusUpdate(_ context.Context, _ *packet.Reader, s *Session) error {
	s.Enqueue(h.st.PresenceFrame(s))
	s.Enqueue(h.st.StatsFrame(s))
	return nil
}

// handleUserStatsRequest returns presence+stats for each requested
// online, visible user.
func (h *Handler) handleUserStatsRequest(_ context.Context, r *packet.Reader, s *Session) error {
	ids, err := clientpackets.ParseUserIDList(r)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id == s.ID() {
			continue
		}
		other := h.st.Registry.ByUserID(id)
		if other == nil || other.Restricted() {
			continue
		}
		s.Enqueue(h.st.PresenceFrame(other))
		s.Enqueue(h.st.StatsFrame(other))
	}
	return nil
}

// handleUserPresenceRequest returns presence for each requested
// online, visible user.
func (h *Handler) handleUserPresenceRequest(_ context.Context, r *packet.Reader, s *Session) error {
	ids, err := clientpackets.ParseUserIDList(r)
	if err != nil {
		return err
	}
	for _, id := range ids {
		other := h.st.Registry.ByUserID(id)
		if other == nil || other.Restricted() {
			continue
		}
		s.Enqueue(h.st.PresenceFrame(other))
	}
	return nil
}

// handleUserPresenceRequestAll returns presence for every visible
// online user.
func (h *Handler) handleUserPresenceRequestAll(_ context.Context, _ *packet.Reader, s *Session) error {
	h.st.Registry.ForEach(func(other *Session) bool {
		if !other.Restricted() {
			s.Enqueue(h.st.PresenceFrame(other))
		}
		return true
	})
	return nil
}

// handleReceiveUpdates accepts the presence filter.
func (h *Handler) handleReceiveUpdates(_ context.Context, r *packet.Reader, _ *Session) error {
	_, err := clientpackets.ParseReceiveUpdates(r)
	return err
}

// handleSetAwayMessage stores the away message.
func (h *Handler) handleSetAwayMessage(_ context.Context, r *packet.Reader, s *Session) error {
	text, err := clientpackets.ParseSetAwayMessage(r)
	if err != nil {
		return err
	}
	s.SetAwayMessage(text)
	return nil
}

// handleToggleBlockNonFriendDms flips the friends-only DM flag.
func (h *Handler) handleToggleBlockNonFriendDms(_ context.Context, r *packet.Reader, s *Session) error {
	v, err := clientpackets.ParseToggleBlockNonFriendDms(r)
	if err != nil {
		return err
	}
	s.SetPMPrivate(v)
	return nil
}

// handleJoinLobby marks the client as browsing the multiplayer lobby.
func (h *Handler) handleJoinLobby(_ context.Context, _ *packet.Reader, s *Session) error {
	s.SetInLobby(true)
	return nil
}

// handlePartLobby clears the lobby flag.
func (h *Handler) handlePartLobby(_ context.Context, _ *packet.Reader, s *Session) error {
	s.SetInLobby(false)
	return nil
}
