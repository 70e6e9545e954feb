package bancho

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/onecho-dev/onecho/internal/bancho/clientpackets"
	"github.com/onecho-dev/onecho/internal/bancho/serverpackets"
	"github.com/onecho-dev/onecho/internal/model"
	"github.com/onecho-dev/onecho/internal/packet"
)

// maxMessageLen is the longest chat message delivered; anything longer
// is truncated with an ellipsis.
const maxMessageLen = 2000

func truncateMessage(text string) string {
	if len(text) <= maxMessageLen {
		return text
	}
	return text[:maxMessageLen] + "..."
}

// resolveChannelName maps the generic wire names the client uses back
// to the session's actual room.
func (h *Handler) resolveChannelName(s *Session, name string) string {
	switch name {
	case "#spectator":
		if host := s.Spectating(); host != 0 {
			return specChannelName(host)
		}
		return specChannelName(s.ID()) // the host's own room
	case "#multiplayer":
		// No match engine; nothing to resolve to.
		return name
	}
	return name
}

// handleChannelJoin joins the named channel after the ACL check.
func (h *Handler) handleChannelJoin(_ context.Context, r *packet.Reader, s *Session) error {
	name, err := clientpackets.ParseChannelJoin(r)
	if err != nil {
		return err
	}
	name = h.resolveChannelName(s, name)

	c := h.st.Channels.Get(name)
	if c == nil {
		slog.Warn("join of unknown channel", "user", s.ID(), "channel", name)
		return nil
	}
	if !h.st.JoinChannel(s, c) {
		slog.Warn("channel join refused", "user", s.ID(), "channel", name)
	}
	return nil
}

// handleChannelPart leaves the named channel. Client-side pseudo
// channels are ignored.
func (h *Handler) handleChannelPart(_ context.Context, r *packet.Reader, s *Session) error {
	name, err := clientpackets.ParseChannelJoin(r)
	if err != nil {
		return err
	}
	if IsIgnoredChannel(name) {
		return nil
	}
	name = h.resolveChannelName(s, name)

	c := h.st.Channels.Get(name)
	if c == nil {
		return nil
	}
	h.st.PartChannel(s, c, false)
	return nil
}

// handlePublicMessage fans a channel message out to every other
// member, evaluating bot commands first.
func (h *Handler) handlePublicMessage(_ context.Context, r *packet.Reader, s *Session) error {
	msg, err := clientpackets.ParseMessage(r)
	if err != nil {
		return err
	}
	if s.Silenced() {
		slog.Debug("message from silenced user dropped", "user", s.ID())
		return nil
	}

	name := h.resolveChannelName(s, msg.Target)
	c := h.st.Channels.Get(name)
	if c == nil {
		slog.Warn("message to unknown channel", "user", s.ID(), "channel", msg.Target)
		return nil
	}
	if !c.HasUser(s.ID()) {
		slog.Warn("message to channel without membership", "user", s.ID(), "channel", c.Name)
		return nil
	}
	if !c.CanWrite(s.Privileges()) {
		slog.Warn("message without write privilege", "user", s.ID(), "channel", c.Name)
		return nil
	}

	text := truncateMessage(msg.Text)
	h.deliverToChannel(c, serverpackets.SendMessage(s.Username(), text, c.WireName(), s.ID()), s.ID())

	if IsCommand(text) {
		res := RunCommand(h.st, s, text)
		if res.text == "" {
			return nil
		}
		reply := serverpackets.SendMessage(BotName, res.text, c.WireName(), model.BotID)
		if res.hidden {
			s.Enqueue(reply)
		} else {
			h.deliverToChannel(c, reply, 0)
		}
	}
	return nil
}

// deliverToChannel enqueues a frame on every channel member except
// excludeID (0 excludes nobody).
func (h *Handler) deliverToChannel(c *Channel, frame []byte, excludeID int32) {
	for _, id := range c.Users() {
		if id == excludeID {
			continue
		}
		if member := h.st.Registry.ByUserID(id); member != nil {
			member.Enqueue(frame)
		}
	}
}

// handlePrivateMessage routes a DM, honouring blocks, the
// friends-only flag and silences.
func (h *Handler) handlePrivateMessage(_ context.Context, r *packet.Reader, s *Session) error {
	msg, err := clientpackets.ParseMessage(r)
	if err != nil {
		return err
	}
	if s.Silenced() {
		slog.Debug("dm from silenced user dropped", "user", s.ID())
		return nil
	}

	target := h.st.Registry.ByName(msg.Target)
	if target == nil {
		return fmt.Errorf("dm to offline or unknown user %q", msg.Target)
	}

	text := truncateMessage(msg.Text)

	if target.IsBot {
		res := RunCommand(h.st, s, text)
		reply := res.text
		if !IsCommand(text) {
			reply = "Command not found."
		}
		s.Enqueue(serverpackets.SendMessage(BotName, reply, s.Username(), model.BotID))
		return nil
	}

	if target.HasBlocked(s.ID()) {
		s.Enqueue(serverpackets.UserDmBlocked(target.Username()))
		return nil
	}
	if target.PMPrivate() && !target.IsFriend(s.ID()) {
		s.Enqueue(serverpackets.UserDmBlocked(target.Username()))
		return nil
	}
	if target.Silenced() {
		s.Enqueue(serverpackets.TargetIsSilenced(target.Username()))
		return nil
	}

	target.Enqueue(serverpackets.SendMessage(s.Username(), text, target.Username(), s.ID()))
	return nil
}
