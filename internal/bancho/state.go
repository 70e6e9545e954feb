package bancho

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/onecho-dev/onecho/internal/bancho/serverpackets"
)

// State is the process-wide mutable state of the Bancho server:
// session registry, channel table, leaderboards, watch parties and
// the storage collaborators. Every handler receives it explicitly.
type State struct {
	Registry     *Registry
	Channels     *ChannelList
	Leaderboards *Leaderboards

	Users     UserStore
	Stats     StatsStore
	Relations RelationStore
	Geo       GeoResolver

	Bot *Session

	partyMu sync.Mutex
	parties map[int32]*WatchParty // key: host user id
}

// NewState wires the shared state and registers the bot session.
func NewState(users UserStore, stats StatsStore, relations RelationStore, geo GeoResolver) *State {
	st := &State{
		Registry:     NewRegistry(),
		Channels:     NewChannelList(),
		Leaderboards: NewLeaderboards(),
		Users:        users,
		Stats:        stats,
		Relations:    relations,
		Geo:          geo,
		parties:      make(map[int32]*WatchParty, 32),
	}

	st.Bot = NewBot()
	if err := st.Registry.Register(st.Bot); err != nil {
		// Empty registry cannot collide.
		panic(err)
	}
	return st
}

// PresenceFrame builds the SRV_USER_PRESENCE frame for a session,
// ranked in the mode of its current status.
func (st *State) PresenceFrame(s *Session) []byte {
	rank, _ := st.Leaderboards.For(s.CurrentMode()).Rank(s.ID())
	geo := s.Geo()
	return serverpackets.UserPresence(
		s.ID(),
		s.Username(),
		s.UTCOffset(),
		geo.CountryCode,
		int32(s.Privileges()),
		geo.Longitude,
		geo.Latitude,
		rank,
	)
}

// StatsFrame builds the SRV_USER_STATS frame for a session.
func (st *State) StatsFrame(s *Session) []byte {
	rank, _ := st.Leaderboards.For(s.CurrentMode()).Rank(s.ID())
	return serverpackets.UserStats(s.ID(), s.Status(), s.CurrentStats(), rank)
}

// ChannelInfoFrame builds the SRV_CHANNEL_INFO frame for a channel.
func (st *State) ChannelInfoFrame(c *Channel) []byte {
	return serverpackets.ChannelInfo(c.WireName(), c.Topic, int16(c.Len()))
}

// BroadcastChannelInfo pushes a channel's updated info to everyone who
// can see it: members for temporary rooms, every reader otherwise.
func (st *State) BroadcastChannelInfo(c *Channel) {
	frame := st.ChannelInfoFrame(c)
	if c.Temporary {
		for _, id := range c.Users() {
			if s := st.Registry.ByUserID(id); s != nil {
				s.Enqueue(frame)
			}
		}
		return
	}
	st.Registry.ForEach(func(s *Session) bool {
		if c.CanRead(s.Privileges()) {
			s.Enqueue(frame)
		}
		return true
	})
}

// JoinChannel adds a session to a channel after the ACL check.
// Reports whether the join happened. On success the joining session
// receives SRV_CHANNEL_JOIN_SUCCESS and everyone eligible gets the
// refreshed channel info.
func (st *State) JoinChannel(s *Session, c *Channel) bool {
	if !c.CanRead(s.Privileges()) {
		return false
	}
	if c.Name == "#lobby" && !s.InLobby() {
		return false
	}
	c.AddUser(s.ID())
	s.addChannel(c.Name)
	s.Enqueue(serverpackets.ChannelJoinSuccess(c.WireName()))
	st.BroadcastChannelInfo(c)
	return true
}

// PartChannel removes a session from a channel. When kick is set the
// client is told to close its tab with SRV_CHANNEL_KICK. Empty
// temporary channels are deleted.
func (st *State) PartChannel(s *Session, c *Channel, kick bool) {
	if !c.RemoveUser(s.ID()) {
		return
	}
	s.removeChannel(c.Name)
	if kick {
		s.Enqueue(serverpackets.ChannelKick(c.WireName()))
	}
	if c.Temporary && c.Len() == 0 {
		st.Channels.Remove(c.Name)
		return
	}
	st.BroadcastChannelInfo(c)
}

// Logout tears a session down: leaves all channels and any watch
// party, unregisters, and (for visible users) broadcasts
// SRV_USER_LOGOUT.
func (st *State) Logout(ctx context.Context, s *Session) {
	for _, name := range s.Channels() {
		if c := st.Channels.Get(name); c != nil {
			st.PartChannel(s, c, false)
		}
	}

	if s.Spectating() != 0 {
		st.StopSpectating(s)
	}
	st.disbandPartyOf(s)

	st.Registry.Unregister(s)

	if !s.Restricted() {
		st.Registry.Broadcast(serverpackets.UserLogout(s.ID()), map[int32]struct{}{s.ID(): {}})
	}

	if err := st.Users.UpdateLatestActive(ctx, s.ID(), time.Now()); err != nil {
		slog.Error("persisting latest activity on logout", "user", s.ID(), "err", err)
	}

	slog.Info("user logged out", "user", s.ID(), "username", s.Username())
}
