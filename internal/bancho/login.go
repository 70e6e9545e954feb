package bancho

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/onecho-dev/onecho/internal/bancho/clientpackets"
	"github.com/onecho-dev/onecho/internal/bancho/serverpackets"
	"github.com/onecho-dev/onecho/internal/model"
)

// ProtocolVersion is the Bancho protocol revision announced at login.
const ProtocolVersion = 19

// Sentinel cho-token values for failed logins.
const (
	TokenInvalidPassword = "invalid-password"
	TokenInvalidRequest  = "invalid-request"
)

// newToken issues a fresh 32-char session token.
func newToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Login runs the full login pipeline for a token-less POST body and
// returns the token for the cho-token header plus the response bytes.
// Auth failures are not errors: they produce a sentinel token and a
// terse two-packet response.
func (st *State) Login(ctx context.Context, body []byte, ip string) (string, []byte, error) {
	req, err := clientpackets.ParseLoginRequest(body)
	if err != nil {
		slog.Warn("malformed login request", "ip", ip, "err", err)
		resp := append(
			serverpackets.LoginReply(serverpackets.LoginError),
			serverpackets.Notification("onecho!: Malformed login request.")...,
		)
		return TokenInvalidRequest, resp, nil
	}

	safe := model.MakeSafe(req.Username)
	user, err := st.Users.ByUsernameSafe(ctx, safe)
	if err != nil {
		return "", nil, fmt.Errorf("looking up user %q: %w", safe, err)
	}

	geo := st.Geo.Resolve(ctx, ip)

	newUser := user == nil
	if newUser {
		user, err = st.registerUser(ctx, req, safe, geo)
		if err != nil {
			return "", nil, fmt.Errorf("registering user %q: %w", safe, err)
		}
	} else {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.PasswordMD5)); err != nil {
			if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
				slog.Warn("bcrypt comparison failed", "user", user.ID, "err", err)
			}
			resp := append(
				serverpackets.LoginReply(serverpackets.LoginFailed),
				serverpackets.Notification("onecho!: Invalid password.")...,
			)
			return TokenInvalidPassword, resp, nil
		}
	}

	s := NewSession(*user, newToken(), req.OsuVersion, req.UTCOffset, req.PMPrivate, geo)

	// Stats + leaderboard entries for every mode; ranks refresh on
	// upsert.
	stats, err := st.Stats.ByUser(ctx, user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("loading stats for user %d: %w", user.ID, err)
	}
	for _, mode := range model.Modes {
		s.SetStats(mode, stats[mode])
		st.Leaderboards.For(mode).Upsert(user.ID, stats[mode].RankedScore)
	}

	// Friends and blocks; the bot is everyone's implicit friend.
	rels, err := st.Relations.ByUser(ctx, user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("loading relations for user %d: %w", user.ID, err)
	}
	var friends, blocks []int32
	for _, rel := range rels {
		switch rel.Relation {
		case model.RelationFriend:
			friends = append(friends, rel.TargetID)
		case model.RelationBlock:
			blocks = append(blocks, rel.TargetID)
		}
	}
	s.SetFriends(friends)
	s.SetBlocks(blocks)

	// A user has at most one live session; evict the prior one.
	if prev := st.Registry.ByUserID(user.ID); prev != nil {
		prev.Enqueue(serverpackets.Notification("You have logged in from another location."))
		st.Logout(ctx, prev)
	}
	if err := st.Registry.Register(s); err != nil {
		return "", nil, fmt.Errorf("registering session for user %d: %w", user.ID, err)
	}

	st.enqueueLoginBurst(s)

	// Announce the arrival to everyone else.
	if !s.Restricted() {
		exclude := map[int32]struct{}{s.ID(): {}}
		st.Registry.Broadcast(st.PresenceFrame(s), exclude)
		st.Registry.Broadcast(st.StatsFrame(s), exclude)
	}

	if err := st.Users.UpdateLatestActive(ctx, user.ID, time.Now()); err != nil {
		slog.Error("persisting latest activity on login", "user", user.ID, "err", err)
	}

	slog.Info("user logged in",
		"user", user.ID,
		"username", user.Username,
		"version", req.OsuVersion,
		"new", newUser,
		"country", geo.Country)

	return s.Token, s.Drain(), nil
}

// registerUser creates a fresh account with default privileges and
// zeroed stats for every mode.
func (st *State) registerUser(ctx context.Context, req *clientpackets.LoginRequest, safe string, geo model.Geolocation) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.PasswordMD5), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		Username:     req.Username,
		UsernameSafe: safe,
		PasswordHash: string(hash),
		Privileges:   model.DefaultPrivileges,
		Country:      geo.Country,
		CreatedAt:    now,
		LatestActive: now,
	}
	if err := st.Users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("inserting user row: %w", err)
	}
	if err := st.Stats.Init(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("initialising stats: %w", err)
	}
	for _, mode := range model.Modes {
		st.Leaderboards.For(mode).Upsert(user.ID, 0)
	}

	slog.Info("registered new user", "user", user.ID, "username", user.Username)
	return user, nil
}

// enqueueLoginBurst queues the fixed packet sequence a fresh session
// receives, in the order the client expects.
func (st *State) enqueueLoginBurst(s *Session) {
	s.Enqueue(serverpackets.LoginReply(s.ID()))
	s.Enqueue(serverpackets.ProtocolVersion(ProtocolVersion))

	// Auto-join channels the user can read; joining broadcasts the
	// refreshed channel info to everyone eligible, including us.
	for _, c := range st.Channels.All() {
		if c.AutoJoin && !c.Temporary {
			st.JoinChannel(s, c)
		}
	}
	s.Enqueue(serverpackets.ChannelInfoEnd())

	var silenceLeft int32
	if left := s.SilenceEnd() - time.Now().Unix(); left > 0 {
		silenceLeft = int32(left)
	}
	s.Enqueue(serverpackets.SilenceEnd(silenceLeft))
	s.Enqueue(serverpackets.Privileges(int32(s.Privileges())))

	// Everyone visible who is already here, then ourselves.
	st.Registry.ForEach(func(other *Session) bool {
		if other.ID() == s.ID() || other.Restricted() {
			return true
		}
		s.Enqueue(st.PresenceFrame(other))
		s.Enqueue(st.StatsFrame(other))
		return true
	})
	s.Enqueue(st.PresenceFrame(s))
	s.Enqueue(st.StatsFrame(s))

	s.Enqueue(serverpackets.FriendsList(s.Friends()))
	s.Enqueue(serverpackets.Notification(RandomQuote()))
}
