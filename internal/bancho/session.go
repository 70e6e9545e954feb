package bancho

import (
	"bytes"
	"slices"
	"sync"
	"time"

	"github.com/onecho-dev/onecho/internal/model"
)

// Session is one live connection to the Bancho endpoint: a logged-in
// user plus everything the server tracks about them between polls.
//
// The outbound queue collects server→client frames enqueued by this or
// other sessions' handlers; it is drained once per HTTP POST. All
// fields are guarded by mu because broadcasts append from other
// request goroutines.
type Session struct {
	// Immutable after creation.
	Token      string
	OsuVersion string
	IsBot      bool
	LoginTime  time.Time

	mu sync.Mutex

	user      model.User
	utcOffset int
	pmPrivate bool
	geo       model.Geolocation
	away      string

	status model.Status
	stats  [len(model.Modes)]model.ModeStats

	friends map[int32]struct{}
	blocks  map[int32]struct{}

	channels   map[string]struct{}
	spectating int32 // host user id we are watching; 0 = none
	inLobby    bool

	latestActivity time.Time

	outbound bytes.Buffer
}

// NewSession creates a session for an authenticated user.
func NewSession(user model.User, token string, osuVersion string, utcOffset int, pmPrivate bool, geo model.Geolocation) *Session {
	now := time.Now()
	return &Session{
		Token:          token,
		OsuVersion:     osuVersion,
		LoginTime:      now,
		user:           user,
		utcOffset:      utcOffset,
		pmPrivate:      pmPrivate,
		geo:            geo,
		friends:        map[int32]struct{}{model.BotID: {}},
		blocks:         make(map[int32]struct{}),
		channels:       make(map[string]struct{}),
		latestActivity: now,
	}
}

// ID returns the user id.
func (s *Session) ID() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.ID
}

// Username returns the display username.
func (s *Session) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.Username
}

// UsernameSafe returns the canonical lookup username.
func (s *Session) UsernameSafe() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.UsernameSafe
}

// Privileges returns the privilege bitflags.
func (s *Session) Privileges() model.Privileges {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.Privileges
}

// Restricted reports whether the session's user is restricted.
func (s *Session) Restricted() bool {
	return s.Privileges().Restricted()
}

// SilenceEnd returns the silence expiry as epoch seconds.
func (s *Session) SilenceEnd() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.SilenceEnd
}

// Silenced reports whether the user is currently silenced.
func (s *Session) Silenced() bool {
	return time.Now().Unix() < s.SilenceEnd()
}

// Geo returns the login geolocation.
func (s *Session) Geo() model.Geolocation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.geo
}

// UTCOffset returns the client's UTC offset in hours.
func (s *Session) UTCOffset() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.utcOffset
}

// PMPrivate reports whether only friends may DM this user.
func (s *Session) PMPrivate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pmPrivate
}

// SetPMPrivate toggles the friends-only DM flag.
func (s *Session) SetPMPrivate(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pmPrivate = v
}

// AwayMessage returns the away message, empty when unset.
func (s *Session) AwayMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.away
}

// SetAwayMessage stores the away message.
func (s *Session) SetAwayMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.away = msg
}

// Status returns the current status.
func (s *Session) Status() model.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// SetStatus replaces the current status.
func (s *Session) SetStatus(st model.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = st
}

// Stats returns the stats for one mode.
func (s *Session) Stats(mode model.Mode) model.ModeStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats[mode]
}

// SetStats replaces the stats for one mode.
func (s *Session) SetStats(mode model.Mode, st model.ModeStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[mode] = st
}

// CurrentStats returns the stats for the mode of the current status.
func (s *Session) CurrentStats() model.ModeStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats[s.status.Mode]
}

// CurrentMode returns the mode of the current status.
func (s *Session) CurrentMode() model.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status.Mode
}

// Friends returns a sorted copy of the friend id set.
func (s *Session) Friends() []int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int32, 0, len(s.friends))
	for id := range s.friends {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// SetFriends replaces the friend set (DB load). The bot stays an
// implicit friend of everyone.
func (s *Session) SetFriends(ids []int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.friends = make(map[int32]struct{}, len(ids)+1)
	s.friends[model.BotID] = struct{}{}
	for _, id := range ids {
		s.friends[id] = struct{}{}
	}
}

// AddFriend inserts id into the friend set.
func (s *Session) AddFriend(id int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.friends[id] = struct{}{}
}

// RemoveFriend deletes id from the friend set.
func (s *Session) RemoveFriend(id int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.friends, id)
}

// IsFriend reports whether id is in the friend set.
func (s *Session) IsFriend(id int32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.friends[id]
	return ok
}

// SetBlocks replaces the block set (DB load).
func (s *Session) SetBlocks(ids []int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks = make(map[int32]struct{}, len(ids))
	for _, id := range ids {
		s.blocks[id] = struct{}{}
	}
}

// AddBlock inserts id into the block set.
func (s *Session) AddBlock(id int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks[id] = struct{}{}
}

// RemoveBlock deletes id from the block set.
func (s *Session) RemoveBlock(id int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blocks, id)
}

// HasBlocked reports whether id is in the block set.
func (s *Session) HasBlocked(id int32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.blocks[id]
	return ok
}

// Channels returns a copy of the joined channel names.
func (s *Session) Channels() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.channels))
	for name := range s.channels {
		out = append(out, name)
	}
	return out
}

// InChannel reports whether the session has joined name.
func (s *Session) InChannel(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.channels[name]
	return ok
}

func (s *Session) addChannel(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels[name] = struct{}{}
}

func (s *Session) removeChannel(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.channels, name)
}

// Spectating returns the host user id this session is watching,
// 0 when not watching anyone.
func (s *Session) Spectating() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spectating
}

// SetSpectating records the host user id this session is watching.
func (s *Session) SetSpectating(hostID int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spectating = hostID
}

// InLobby reports whether the client has joined the multiplayer lobby.
func (s *Session) InLobby() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inLobby
}

// SetInLobby toggles lobby membership.
func (s *Session) SetInLobby(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inLobby = v
}

// Touch records activity now.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latestActivity = time.Now()
}

// LatestActivity returns the time of the last inbound packet.
func (s *Session) LatestActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latestActivity
}

// Enqueue appends a frame (or a concatenation of frames) to the
// outbound queue. Safe to call from any goroutine. The bot never
// drains, so its queue is a no-op.
func (s *Session) Enqueue(data []byte) {
	if s.IsBot || len(data) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbound.Write(data)
}

// Drain returns all pending outbound bytes and clears the queue.
func (s *Session) Drain() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outbound.Len() == 0 {
		return nil
	}
	out := make([]byte, s.outbound.Len())
	copy(out, s.outbound.Bytes())
	s.outbound.Reset()
	return out
}

// Pending returns the number of queued outbound bytes.
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outbound.Len()
}
