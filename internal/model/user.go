package model

import (
	"strings"
	"time"
)

// BotID is the reserved user id of the chat bot. Real accounts start
// at 3; 2 is kept free for future system use.
const BotID int32 = 1

// Privileges is the bitflag set attached to every account.
type Privileges int32

const (
	PrivPlayer Privileges = 1 << iota
	PrivModerator
	PrivSupporter
	PrivOwner
	PrivDeveloper
	PrivTournament
)

// DefaultPrivileges are granted on registration.
const DefaultPrivileges = PrivPlayer | PrivSupporter

// Has reports whether all bits are set.
func (p Privileges) Has(bits Privileges) bool {
	return p&bits == bits
}

// HasAny reports whether any of bits is set.
func (p Privileges) HasAny(bits Privileges) bool {
	return p&bits != 0
}

// Restricted reports whether the account is restricted: the PLAYER bit
// is unset. Restricted users see their own events but are invisible to
// everyone else.
func (p Privileges) Restricted() bool {
	return p&PrivPlayer == 0
}

// Mode is a gameplay mode. Stats and leaderboards are kept per mode.
type Mode uint8

const (
	ModeOsu Mode = iota
	ModeTaiko
	ModeCatch
	ModeMania
)

// Modes lists every mode, in wire order.
var Modes = [...]Mode{ModeOsu, ModeTaiko, ModeCatch, ModeMania}

func (m Mode) String() string {
	switch m {
	case ModeOsu:
		return "osu!"
	case ModeTaiko:
		return "taiko"
	case ModeCatch:
		return "catch"
	case ModeMania:
		return "mania"
	}
	return "unknown"
}

// Valid reports whether the mode is one the client can send.
func (m Mode) Valid() bool {
	return m <= ModeMania
}

// Action is the client's current activity, shown in its status.
type Action uint8

const (
	ActionIdle Action = iota
	ActionAfk
	ActionPlaying
	ActionEditing
	ActionModding
	ActionMultiplayer
	ActionWatching
	ActionUnknown
	ActionTesting
	ActionSubmitting
	ActionPaused
	ActionLobby
	ActionMultiplaying
	ActionOsuDirect
)

// Mods is the gameplay modifier bitflag. Opaque to the server: it is
// carried in statuses and echoed back to clients unchanged.
type Mods int32

const NoMod Mods = 0

// Status is what a user is currently doing, as reported by the client
// in OSU_CHANGE_ACTION and echoed in SRV_USER_STATS.
type Status struct {
	Action     Action
	Text       string
	BeatmapMD5 string
	Mods       Mods
	Mode       Mode
	BeatmapID  int32
}

// ModeStats holds one user's statistics for one mode.
// Accuracy is stored as a 0–100 percentage; the wire carries it
// divided by 100.
type ModeStats struct {
	RankedScore int64
	TotalScore  int64
	PP          int32
	Accuracy    float64
	Playcount   int32
	Playtime    int32
	MaxCombo    int32
	TotalHits   int32
	Level       int32
}

// User is a persistent account row.
type User struct {
	ID           int32
	Username     string
	UsernameSafe string
	PasswordHash string // bcrypt of the client's password md5
	Email        string
	Privileges   Privileges
	Country      string // two-letter acronym, lowercase
	SilenceEnd   int64  // epoch seconds; silenced iff now < SilenceEnd
	CreatedAt    time.Time
	LatestActive time.Time
}

// Silenced reports whether the user is currently silenced.
func (u *User) Silenced() bool {
	return time.Now().Unix() < u.SilenceEnd
}

// MakeSafe converts a display username into its canonical lookup form:
// lowercased with whitespace collapsed to underscores.
func MakeSafe(username string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(username), " ", "_"))
}
