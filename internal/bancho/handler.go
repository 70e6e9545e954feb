package bancho

import (
	"context"
	"log/slog"
	"time"

	"github.com/onecho-dev/onecho/internal/bancho/serverpackets"
	"github.com/onecho-dev/onecho/internal/packet"
)

// HandlerFunc processes one inbound packet payload for a session.
// Errors are per-packet: logged, never fatal to the request.
type HandlerFunc func(ctx context.Context, r *packet.Reader, s *Session) error

type tableEntry struct {
	name string
	fn   HandlerFunc
	// restrictedOK marks packets a restricted user may still execute;
	// everything else is silently dropped for them.
	restrictedOK bool
}

// Handler dispatches inbound Bancho frames to per-id handlers.
type Handler struct {
	st    *State
	table map[packet.ClientID]tableEntry
}

// NewHandler builds the dispatch table over the shared state.
func NewHandler(st *State) *Handler {
	h := &Handler{st: st}
	h.table = map[packet.ClientID]tableEntry{
		packet.OsuChangeAction:            {"ChangeAction", h.handleChangeAction, true},
		packet.OsuSendPublicMessage:       {"SendPublicMessage", h.handlePublicMessage, false},
		packet.OsuLogout:                  {"Logout", h.handleLogout, true},
		packet.OsuRequestStatusUpdate:     {"RequestStatusUpdate", h.handleRequestStatusUpdate, true},
		packet.OsuHeartbeat:               {"Heartbeat", h.handleHeartbeat, true},
		packet.OsuStartSpectating:         {"StartSpectating", h.handleStartSpectating, false},
		packet.OsuStopSpectating:          {"StopSpectating", h.handleStopSpectating, false},
		packet.OsuSpectateFrames:          {"SpectateFrames", h.handleSpectateFrames, false},
		packet.OsuErrorReport:             {"ErrorReport", h.handleErrorReport, false},
		packet.OsuCantSpectate:            {"CantSpectate", h.handleCantSpectate, false},
		packet.OsuSendPrivateMessage:      {"SendPrivateMessage", h.handlePrivateMessage, false},
		packet.OsuPartLobby:               {"PartLobby", h.handlePartLobby, false},
		packet.OsuJoinLobby:               {"JoinLobby", h.handleJoinLobby, false},
		packet.OsuChannelJoin:             {"ChannelJoin", h.handleChannelJoin, true},
		packet.OsuFriendAdd:               {"FriendAdd", h.handleFriendAdd, false},
		packet.OsuFriendRemove:            {"FriendRemove", h.handleFriendRemove, false},
		packet.OsuChannelPart:             {"ChannelPart", h.handleChannelPart, true},
		packet.OsuReceiveUpdates:          {"ReceiveUpdates", h.handleReceiveUpdates, true},
		packet.OsuSetAwayMessage:          {"SetAwayMessage", h.handleSetAwayMessage, false},
		packet.OsuUserStatsRequest:        {"UserStatsRequest", h.handleUserStatsRequest, true},
		packet.OsuUserPresenceRequest:     {"UserPresenceRequest", h.handleUserPresenceRequest, false},
		packet.OsuUserPresenceRequestAll:  {"UserPresenceRequestAll", h.handleUserPresenceRequestAll, false},
		packet.OsuToggleBlockNonFriendDms: {"ToggleBlockNonFriendDms", h.handleToggleBlockNonFriendDms, false},
	}
	return h
}

// State returns the shared state the handler operates on.
func (h *Handler) State() *State {
	return h.st
}

// Process dispatches every frame of one POST body in wire order, then
// drains the session's outbound queue into the response body.
//
// Malformed frames and unknown ids never abort the stream: the frame
// is skipped using its length header and processing continues.
func (h *Handler) Process(ctx context.Context, s *Session, body []byte) []byte {
	s.Touch()

	r := packet.NewReader(body)
	for !r.Empty() {
		id, length, err := r.ReadHeader()
		if err != nil {
			slog.Warn("truncated packet header", "user", s.ID(), "err", err)
			break
		}
		payload, err := r.ReadBytes(int(length))
		if err != nil {
			slog.Warn("truncated packet payload",
				"user", s.ID(), "packet", id, "declared", length, "err", err)
			break
		}

		entry, ok := h.table[id]
		if !ok {
			if packet.IsMatchPacket(id) {
				slog.Debug("multiplayer packet ignored", "user", s.ID(), "packet", id)
			} else {
				slog.Warn("unknown packet id", "user", s.ID(), "packet", id)
			}
			continue
		}

		if s.Restricted() && !entry.restrictedOK {
			slog.Debug("packet dropped for restricted user",
				"user", s.ID(), "packet", entry.name)
			continue
		}

		if err := entry.fn(ctx, packet.NewReader(payload), s); err != nil {
			slog.Error("packet handler failed",
				"user", s.ID(), "packet", entry.name, "err", err)
		}
	}

	return s.Drain()
}

// handleHeartbeat keeps the session alive.
func (h *Handler) handleHeartbeat(_ context.Context, _ *packet.Reader, s *Session) error {
	s.Enqueue(serverpackets.Pong())
	return nil
}

// handleErrorReport logs the client-side error string.
func (h *Handler) handleErrorReport(_ context.Context, r *packet.Reader, s *Session) error {
	report, err := r.ReadString()
	if err != nil {
		return err
	}
	slog.Warn("client error report", "user", s.ID(), "report", report)
	return nil
}

// handleLogout tears the session down. The client fires a spurious
// logout right after login; within one second of login it is ignored.
func (h *Handler) handleLogout(ctx context.Context, _ *packet.Reader, s *Session) error {
	if time.Since(s.LoginTime) < time.Second {
		return nil
	}
	h.st.Logout(ctx, s)
	return nil
}
