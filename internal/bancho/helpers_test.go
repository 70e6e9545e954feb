package bancho

import (
	"context"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/onecho-dev/onecho/internal/model"
	"github.com/onecho-dev/onecho/internal/packet"
)

// In-memory store fakes so handler tests run without Postgres.

type memUserStore struct {
	mu     sync.Mutex
	byID   map[int32]*model.User
	nextID int32
}

func newMemUserStore() *memUserStore {
	return &memUserStore{byID: make(map[int32]*model.User), nextID: 3}
}

func (m *memUserStore) ByUsernameSafe(_ context.Context, safe string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.UsernameSafe == safe {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUserStore) ByID(_ context.Context, id int32) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memUserStore) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = m.nextID
	m.nextID++
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUserStore) UpdateLatestActive(_ context.Context, id int32, t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		u.LatestActive = t
	}
	return nil
}

type memStatsStore struct {
	mu    sync.Mutex
	stats map[int32][len(model.Modes)]model.ModeStats
}

func newMemStatsStore() *memStatsStore {
	return &memStatsStore{stats: make(map[int32][len(model.Modes)]model.ModeStats)}
}

func (m *memStatsStore) ByUser(_ context.Context, id int32) ([len(model.Modes)]model.ModeStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats[id], nil
}

func (m *memStatsStore) Init(_ context.Context, id int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats[id] = [len(model.Modes)]model.ModeStats{}
	return nil
}

type relKey struct {
	userID, targetID int32
	rel              model.RelationType
}

type memRelationStore struct {
	mu   sync.Mutex
	rels map[relKey]model.Relationship
}

func newMemRelationStore() *memRelationStore {
	return &memRelationStore{rels: make(map[relKey]model.Relationship)}
}

func (m *memRelationStore) ByUser(_ context.Context, id int32) ([]model.Relationship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Relationship
	for k, r := range m.rels {
		if k.userID == id {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRelationStore) Upsert(_ context.Context, rel model.Relationship) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rels[relKey{rel.UserID, rel.TargetID, rel.Relation}] = rel
	return nil
}

func (m *memRelationStore) Delete(_ context.Context, userID, targetID int32, rel model.RelationType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rels, relKey{userID, targetID, rel})
	return nil
}

// staticGeo always resolves to the same place.
type staticGeo struct{}

func (staticGeo) Resolve(_ context.Context, _ string) model.Geolocation {
	return model.Geolocation{
		Country:     "in",
		CountryCode: model.CountryCode("in"),
		Latitude:    19.0760,
		Longitude:   72.8777,
	}
}

// newTestState wires a State over the in-memory fakes with the
// default public channels.
func newTestState(t *testing.T) *State {
	t.Helper()
	st := NewState(newMemUserStore(), newMemStatsStore(), newMemRelationStore(), staticGeo{})
	st.Channels.Add(NewChannel("#osu", "main channel", model.PrivPlayer, model.PrivPlayer, true, false))
	st.Channels.Add(NewChannel("#announce", "announcements", model.PrivPlayer, model.PrivModerator|model.PrivOwner, true, false))
	st.Channels.Add(NewChannel("#lobby", "multiplayer lobby", model.PrivPlayer, model.PrivPlayer, false, false))
	return st
}

const testPasswordMD5 = "5f4dcc3b5aa765d61d8327deb882cf99"

// loginBody builds the three-record login body.
func loginBody(username, passwordMD5 string) []byte {
	return []byte(username + "\n" + passwordMD5 + "\nb20230326|2|0|hashes|0\n")
}

// mustLogin logs a user in and returns their session.
func mustLogin(t *testing.T, st *State, username string) *Session {
	t.Helper()
	token, _, err := st.Login(context.Background(), loginBody(username, testPasswordMD5), "1.2.3.4")
	if err != nil {
		t.Fatalf("login %s: %v", username, err)
	}
	s := st.Registry.ByToken(token)
	if s == nil {
		t.Fatalf("login %s: no session for token", username)
	}
	return s
}

// seedUser inserts a user row directly, hashing testPasswordMD5.
func seedUser(t *testing.T, st *State, username string, privs model.Privileges) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPasswordMD5), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	u := &model.User{
		Username:     username,
		UsernameSafe: model.MakeSafe(username),
		PasswordHash: string(hash),
		Privileges:   privs,
		Country:      "in",
	}
	if err := st.Users.Create(context.Background(), u); err != nil {
		t.Fatal(err)
	}
	if err := st.Stats.Init(context.Background(), u.ID); err != nil {
		t.Fatal(err)
	}
	return u
}

// wireFrame is one decoded server→client frame.
type wireFrame struct {
	id      uint16
	payload []byte
}

// decodeFrames splits a response body into frames.
func decodeFrames(t *testing.T, body []byte) []wireFrame {
	t.Helper()
	r := packet.NewReader(body)
	var out []wireFrame
	for !r.Empty() {
		id, length, err := r.ReadHeader()
		if err != nil {
			t.Fatalf("decoding frame header: %v", err)
		}
		payload, err := r.ReadBytes(int(length))
		if err != nil {
			t.Fatalf("decoding frame payload: %v", err)
		}
		out = append(out, wireFrame{id: id, payload: payload})
	}
	return out
}

// frameIDs projects the id sequence of a frame list.
func frameIDs(frames []wireFrame) []uint16 {
	ids := make([]uint16, len(frames))
	for i, f := range frames {
		ids[i] = f.id
	}
	return ids
}

// findFrame returns the first frame with the given id, or nil.
func findFrame(frames []wireFrame, id uint16) *wireFrame {
	for i := range frames {
		if frames[i].id == id {
			return &frames[i]
		}
	}
	return nil
}

// clientFrame builds one client→server frame for Process.
func clientFrame(id packet.ClientID, fill func(w *packet.Writer)) []byte {
	w := packet.NewWriter(64)
	if fill != nil {
		fill(w)
	}
	return w.Finish(id)
}
