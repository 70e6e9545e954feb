package bancho

import (
	"fmt"
	"log/slog"

	"github.com/onecho-dev/onecho/internal/bancho/serverpackets"
	"github.com/onecho-dev/onecho/internal/model"
)

// WatchParty is one host being spectated by one or more watchers,
// bound to a temporary chat room #spec_{host_id}. A user hosts at
// most one party and watches at most one party at a time.
type WatchParty struct {
	HostID      int32
	ChannelName string
	watchers    []int32 // join order
}

// Watchers returns a copy of the watcher ids in join order.
func (p *WatchParty) Watchers() []int32 {
	out := make([]int32, len(p.watchers))
	copy(out, p.watchers)
	return out
}

func specChannelName(hostID int32) string {
	return fmt.Sprintf("%s%d", spectatorPrefix, hostID)
}

// Party returns the watch party hosted by hostID, or nil.
func (st *State) Party(hostID int32) *WatchParty {
	st.partyMu.Lock()
	defer st.partyMu.Unlock()
	return st.parties[hostID]
}

// StartSpectating attaches watcher to host's watch party, creating the
// party and its temporary channel on first watch.
//
// The host receives both SRV_FELLOW_SPECTATOR_JOINED and
// SRV_SPECTATOR_JOINED, matching the wire behaviour clients expect;
// existing watchers receive only the FELLOW frame.
func (st *State) StartSpectating(watcher, host *Session) {
	if host.IsBot {
		watcher.Enqueue(serverpackets.Notification("You cannot spectate the bot."))
		watcher.Enqueue(serverpackets.FellowSpectatorLeft(watcher.ID()))
		return
	}

	// Watching at most one party at a time.
	if prev := watcher.Spectating(); prev != 0 && prev != host.ID() {
		st.StopSpectating(watcher)
	}

	st.partyMu.Lock()
	party := st.parties[host.ID()]
	created := party == nil
	if created {
		party = &WatchParty{
			HostID:      host.ID(),
			ChannelName: specChannelName(host.ID()),
		}
		st.parties[host.ID()] = party
	}
	for _, w := range party.watchers {
		if w == watcher.ID() {
			st.partyMu.Unlock()
			return
		}
	}
	party.watchers = append(party.watchers, watcher.ID())
	watcherIDs := party.Watchers()
	st.partyMu.Unlock()

	channel := st.Channels.Get(party.ChannelName)
	if channel == nil {
		channel = NewChannel(
			party.ChannelName,
			fmt.Sprintf("Watching %s", host.Username()),
			model.PrivPlayer, model.PrivPlayer,
			false, true,
		)
		st.Channels.Add(channel)
	}
	if created {
		st.JoinChannel(host, channel)
	}
	st.JoinChannel(watcher, channel)

	watcher.SetSpectating(host.ID())

	host.Enqueue(serverpackets.FellowSpectatorJoined(watcher.ID()))
	host.Enqueue(serverpackets.SpectatorJoined(watcher.ID()))
	for _, id := range watcherIDs {
		if id == watcher.ID() {
			continue
		}
		if w := st.Registry.ByUserID(id); w != nil {
			w.Enqueue(serverpackets.FellowSpectatorJoined(watcher.ID()))
		}
	}

	slog.Info("spectating started",
		"watcher", watcher.ID(),
		"host", host.ID(),
		"channel", party.ChannelName)
}

// StopSpectating detaches the session from the party it is watching.
// The host (and remaining watchers) learn about the departure; when
// the last watcher leaves, the party is dissolved and the host leaves
// the temporary channel.
func (st *State) StopSpectating(watcher *Session) {
	hostID := watcher.Spectating()
	if hostID == 0 {
		slog.Error("stop spectating without a watch party", "user", watcher.ID())
		return
	}
	watcher.SetSpectating(0)

	st.partyMu.Lock()
	party := st.parties[hostID]
	if party == nil {
		st.partyMu.Unlock()
		return
	}
	for i, id := range party.watchers {
		if id == watcher.ID() {
			party.watchers = append(party.watchers[:i], party.watchers[i+1:]...)
			break
		}
	}
	empty := len(party.watchers) == 0
	if empty {
		delete(st.parties, hostID)
	}
	remaining := party.Watchers()
	st.partyMu.Unlock()

	if c := st.Channels.Get(party.ChannelName); c != nil {
		st.PartChannel(watcher, c, false)
		if empty {
			if host := st.Registry.ByUserID(hostID); host != nil {
				st.PartChannel(host, c, false)
			}
		}
	}

	if host := st.Registry.ByUserID(hostID); host != nil {
		host.Enqueue(serverpackets.FellowSpectatorLeft(watcher.ID()))
		host.Enqueue(serverpackets.SpectatorLeft(watcher.ID()))
	}
	for _, id := range remaining {
		if w := st.Registry.ByUserID(id); w != nil {
			w.Enqueue(serverpackets.FellowSpectatorLeft(watcher.ID()))
		}
	}
}

// FanOutSpectateFrames wraps the host's replay blob and delivers it to
// every watcher. Only the party host may submit frames.
func (st *State) FanOutSpectateFrames(host *Session, frames []byte) {
	party := st.Party(host.ID())
	if party == nil {
		slog.Error("spectate frames from a non-host", "user", host.ID())
		return
	}
	frame := serverpackets.SpectateFrames(frames)
	for _, id := range party.Watchers() {
		if w := st.Registry.ByUserID(id); w != nil {
			w.Enqueue(frame)
		}
	}
}

// FanOutCantSpectate tells every watcher of the party the sender
// belongs to that the sender is missing the beatmap.
func (st *State) FanOutCantSpectate(s *Session) {
	hostID := s.Spectating()
	if hostID == 0 {
		hostID = s.ID() // the host itself may report it
	}
	party := st.Party(hostID)
	if party == nil {
		slog.Error("cant-spectate without a watch party", "user", s.ID())
		return
	}
	frame := serverpackets.SpectatorCantSpectate(s.ID())
	for _, id := range party.Watchers() {
		if id == s.ID() {
			continue
		}
		if w := st.Registry.ByUserID(id); w != nil {
			w.Enqueue(frame)
		}
	}
}

// disbandPartyOf dissolves the watch party hosted by s, if any,
// detaching every watcher. Used on host logout.
func (st *State) disbandPartyOf(s *Session) {
	party := st.Party(s.ID())
	if party == nil {
		return
	}
	for _, id := range party.Watchers() {
		if w := st.Registry.ByUserID(id); w != nil {
			st.StopSpectating(w)
		}
	}
}
