package web

import (
	"bytes"
	"context"
	"encoding/binary"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onecho-dev/onecho/internal/bancho"
	"github.com/onecho-dev/onecho/internal/config"
	"github.com/onecho-dev/onecho/internal/model"
	"github.com/onecho-dev/onecho/internal/packet"
)

// Minimal in-memory stores; the handler logic itself is covered in the
// bancho package, here we only exercise the HTTP plumbing.

type fakeUsers struct {
	mu     sync.Mutex
	byID   map[int32]*model.User
	nextID int32
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: make(map[int32]*model.User), nextID: 3}
}

func (f *fakeUsers) ByUsernameSafe(_ context.Context, safe string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.UsernameSafe == safe {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) ByID(_ context.Context, id int32) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.ID = f.nextID
	f.nextID++
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) UpdateLatestActive(_ context.Context, id int32, t time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		u.LatestActive = t
	}
	return nil
}

type fakeStats struct{}

func (fakeStats) ByUser(context.Context, int32) ([len(model.Modes)]model.ModeStats, error) {
	return [len(model.Modes)]model.ModeStats{}, nil
}
func (fakeStats) Init(context.Context, int32) error { return nil }

type fakeRelations struct{}

func (fakeRelations) ByUser(context.Context, int32) ([]model.Relationship, error) { return nil, nil }
func (fakeRelations) Upsert(context.Context, model.Relationship) error            { return nil }
func (fakeRelations) Delete(context.Context, int32, int32, model.RelationType) error {
	return nil
}

type fakeGeo struct{}

func (fakeGeo) Resolve(context.Context, string) model.Geolocation {
	return model.Geolocation{Country: "in", CountryCode: model.CountryCode("in")}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st := bancho.NewState(newFakeUsers(), fakeStats{}, fakeRelations{}, fakeGeo{})
	st.Channels.Add(bancho.NewChannel("#osu", "main", model.PrivPlayer, model.PrivPlayer, true, false))
	cfg := config.Default()
	cfg.AvatarDir = t.TempDir()
	return New(bancho.NewHandler(st), cfg)
}

func doLogin(t *testing.T, s *Server, username string) (token string, body []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/",
		bytes.NewBufferString(username+"\n5f4dcc3b5aa765d61d8327deb882cf99\nb20230326|2|0|h|0\n"))
	req.Header.Set("User-Agent", "osu!")
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	token = rec.Header().Get("cho-token")
	require.NotEmpty(t, token)
	return token, rec.Body.Bytes()
}

// firstFrameID decodes the id of the first frame in a response body.
func firstFrameID(t *testing.T, body []byte) uint16 {
	t.Helper()
	require.GreaterOrEqual(t, len(body), packet.HeaderSize)
	return binary.LittleEndian.Uint16(body)
}

func TestBancho_BrowserPostGetsLandingPage(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0")
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>onecho</h1>")
	assert.Empty(t, rec.Header().Get("cho-token"))
}

func TestBancho_LoginIssuesToken(t *testing.T) {
	s := newTestServer(t)

	token, body := doLogin(t, s, "alice")
	assert.Len(t, token, 32)
	assert.Equal(t, packet.SrvLoginReply, firstFrameID(t, body))
	assert.NotNil(t, s.handler.State().Registry.ByToken(token))
}

func TestBancho_UnknownTokenGetsRestart(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("User-Agent", "osu!")
	req.Header.Set("osu-token", "deadbeefdeadbeefdeadbeefdeadbeef")
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, packet.SrvNotification, firstFrameID(t, rec.Body.Bytes()))
	assert.Contains(t, rec.Body.String(), "Server has restarted!")
}

func TestBancho_PollDispatchesPackets(t *testing.T) {
	s := newTestServer(t)
	token, _ := doLogin(t, s, "alice")

	w := packet.NewWriter(8)
	heartbeat := w.Finish(packet.OsuHeartbeat)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBuffer(heartbeat))
	req.Header.Set("User-Agent", "osu!")
	req.Header.Set("osu-token", token)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, packet.SrvPong, firstFrameID(t, rec.Body.Bytes()))
}

func TestIndex_ShowsOnlineCount(t *testing.T) {
	s := newTestServer(t)
	doLogin(t, s, "alice")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "1 user(s) online")
}

func TestAvatar_ServedOnAvatarHost(t *testing.T) {
	s := newTestServer(t)
	png := []byte("\x89PNG fake")
	require.NoError(t, os.WriteFile(filepath.Join(s.cfg.AvatarDir, "5.png"), png, 0o644))

	req := httptest.NewRequest(http.MethodGet, "/5", nil)
	req.Host = "a.onecho.local"
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, png, rec.Body.Bytes())
}

func TestAvatar_FallsBackToDefault(t *testing.T) {
	s := newTestServer(t)
	png := []byte("default")
	require.NoError(t, os.WriteFile(filepath.Join(s.cfg.AvatarDir, "default.png"), png, 0o644))

	req := httptest.NewRequest(http.MethodGet, "/12345", nil)
	req.Host = "a.onecho.local"
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, png, rec.Body.Bytes())
}

func TestAvatar_WrongHostIs404(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/5", nil)
	req.Host = "onecho.local"
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
