package bancho

import (
	"sort"
	"sync"

	"github.com/onecho-dev/onecho/internal/model"
)

// lbEntry is one scored user on a leaderboard. seq is the insertion
// sequence number: ties are broken in favour of earlier insertions.
type lbEntry struct {
	userID int32
	score  int64
	seq    uint64
}

// Leaderboard is the in-memory rank index for one mode: entries kept
// sorted by (score desc, insertion order asc) plus a user→position
// map for O(1) rank reads. All operations are serialised by a mutex.
//
// Resorting on every upsert is O(N log N); fine for the intended
// scale of a few thousand live users.
type Leaderboard struct {
	mu      sync.Mutex
	entries []lbEntry
	pos     map[int32]int // user id → 0-based position
	nextSeq uint64
}

// NewLeaderboard creates an empty leaderboard.
func NewLeaderboard() *Leaderboard {
	return &Leaderboard{pos: make(map[int32]int, 256)}
}

// Upsert sets the score for a user, inserting them if absent, and
// recomputes positions.
func (l *Leaderboard) Upsert(userID int32, score int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if p, ok := l.pos[userID]; ok {
		l.entries[p].score = score
	} else {
		l.entries = append(l.entries, lbEntry{userID: userID, score: score, seq: l.nextSeq})
		l.nextSeq++
	}
	l.resort()
}

// Rank returns the 1-based rank of a user; ok is false when the user
// is unranked.
func (l *Leaderboard) Rank(userID int32) (rank int32, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.pos[userID]
	if !ok {
		return 0, false
	}
	return int32(p + 1), true
}

// Score returns the stored score of a user.
func (l *Leaderboard) Score(userID int32) (int64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.pos[userID]
	if !ok {
		return 0, false
	}
	return l.entries[p].score, true
}

// Remove deletes a user from the leaderboard.
func (l *Leaderboard) Remove(userID int32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.pos[userID]
	if !ok {
		return
	}
	l.entries = append(l.entries[:p], l.entries[p+1:]...)
	l.resort()
}

// Count returns the number of ranked users.
func (l *Leaderboard) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// resort re-sorts entries and rebuilds the position map.
// Caller holds l.mu.
func (l *Leaderboard) resort() {
	sort.Slice(l.entries, func(i, j int) bool {
		if l.entries[i].score != l.entries[j].score {
			return l.entries[i].score > l.entries[j].score
		}
		return l.entries[i].seq < l.entries[j].seq
	})
	l.pos = make(map[int32]int, len(l.entries))
	for i, e := range l.entries {
		l.pos[e.userID] = i
	}
}

// Leaderboards bundles one leaderboard per mode.
type Leaderboards struct {
	boards [len(model.Modes)]*Leaderboard
}

// NewLeaderboards creates empty leaderboards for every mode.
func NewLeaderboards() *Leaderboards {
	lbs := &Leaderboards{}
	for i := range lbs.boards {
		lbs.boards[i] = NewLeaderboard()
	}
	return lbs
}

// For returns the leaderboard of a mode.
func (lbs *Leaderboards) For(mode model.Mode) *Leaderboard {
	return lbs.boards[mode]
}
