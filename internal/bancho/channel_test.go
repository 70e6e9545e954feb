package bancho

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onecho-dev/onecho/internal/model"
	"github.com/onecho-dev/onecho/internal/packet"
)

func TestChannel_WireName(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"#osu", "#osu"},
		{"#spec_42", "#spectator"},
		{"#multi_7", "#multiplayer"},
		{"#announce", "#announce"},
	}
	for _, tc := range cases {
		c := NewChannel(tc.name, "", model.PrivPlayer, model.PrivPlayer, false, false)
		assert.Equal(t, tc.want, c.WireName(), tc.name)
	}
}

func TestChannel_Membership(t *testing.T) {
	c := NewChannel("#osu", "", model.PrivPlayer, model.PrivPlayer, false, false)

	c.AddUser(10)
	c.AddUser(11)
	c.AddUser(10) // duplicate is a no-op
	require.Equal(t, []int32{10, 11}, c.Users())
	assert.True(t, c.HasUser(10))
	assert.Equal(t, 2, c.Len())

	assert.True(t, c.RemoveUser(10))
	assert.False(t, c.RemoveUser(10))
	assert.False(t, c.HasUser(10))
	assert.Equal(t, []int32{11}, c.Users())
}

func TestChannel_ACL(t *testing.T) {
	c := NewChannel("#announce", "", model.PrivPlayer, model.PrivModerator|model.PrivOwner, true, false)

	player := model.DefaultPrivileges
	mod := model.PrivPlayer | model.PrivModerator

	assert.True(t, c.CanRead(player))
	assert.False(t, c.CanWrite(player))
	assert.True(t, c.CanWrite(mod))
}

func TestState_JoinPartChannel(t *testing.T) {
	st := newTestState(t)
	alice := mustLogin(t, st, "alice")
	alice.Drain()

	c := st.Channels.Get("#lobby")
	require.NotNil(t, c)

	// #lobby requires the lobby flag.
	assert.False(t, st.JoinChannel(alice, c))

	alice.SetInLobby(true)
	require.True(t, st.JoinChannel(alice, c))
	assert.True(t, c.HasUser(alice.ID()))

	frames := decodeFrames(t, alice.Drain())
	join := findFrame(frames, packet.SrvChannelJoinSuccess)
	require.NotNil(t, join)
	r := packet.NewReader(join.payload)
	name, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "#lobby", name)

	st.PartChannel(alice, c, false)
	assert.False(t, c.HasUser(alice.ID()))
	assert.NotContains(t, alice.Channels(), "#lobby")
}

func TestState_PartChannelKick(t *testing.T) {
	st := newTestState(t)
	alice := mustLogin(t, st, "alice")
	alice.Drain()

	c := st.Channels.Get("#osu")
	require.True(t, c.HasUser(alice.ID()), "auto-join channel should hold the user")

	st.PartChannel(alice, c, true)

	frames := decodeFrames(t, alice.Drain())
	kick := findFrame(frames, packet.SrvChannelKick)
	require.NotNil(t, kick)
	r := packet.NewReader(kick.payload)
	name, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "#osu", name)
}

func TestState_EmptyTemporaryChannelIsDeleted(t *testing.T) {
	st := newTestState(t)
	alice := mustLogin(t, st, "alice")

	c := NewChannel("#spec_99", "Watching nobody", model.PrivPlayer, model.PrivPlayer, false, true)
	st.Channels.Add(c)
	require.True(t, st.JoinChannel(alice, c))

	st.PartChannel(alice, c, false)
	assert.Nil(t, st.Channels.Get("#spec_99"), "empty temporary channel must be removed")
}

func TestState_ChannelInfoMemberCount(t *testing.T) {
	st := newTestState(t)
	alice := mustLogin(t, st, "alice")
	alice.Drain()
	bob := mustLogin(t, st, "bob")
	bob.Drain()

	c := st.Channels.Get("#osu")
	frame := st.ChannelInfoFrame(c)

	frames := decodeFrames(t, frame)
	require.Len(t, frames, 1)
	require.Equal(t, packet.SrvChannelInfo, frames[0].id)

	r := packet.NewReader(frames[0].payload)
	name, err := r.ReadString()
	require.NoError(t, err)
	topic, err := r.ReadString()
	require.NoError(t, err)
	count, err := r.ReadInt16()
	require.NoError(t, err)
	assert.Equal(t, "#osu", name)
	assert.Equal(t, "main channel", topic)
	assert.Equal(t, int16(2), count)
}

func TestIsIgnoredChannel(t *testing.T) {
	assert.True(t, IsIgnoredChannel("#userlog"))
	assert.True(t, IsIgnoredChannel("#highlight"))
	assert.False(t, IsIgnoredChannel("#osu"))
}

func TestLogout_LeavesChannelsAndAnnounces(t *testing.T) {
	st := newTestState(t)
	alice := mustLogin(t, st, "alice")
	bob := mustLogin(t, st, "bob")
	alice.Drain()
	bob.Drain()

	osu := st.Channels.Get("#osu")
	require.True(t, osu.HasUser(bob.ID()))

	st.Logout(context.Background(), bob)

	assert.False(t, osu.HasUser(bob.ID()))
	assert.Nil(t, st.Registry.ByUserID(bob.ID()))

	frames := decodeFrames(t, alice.Drain())
	logout := findFrame(frames, packet.SrvUserLogout)
	require.NotNil(t, logout)
	r := packet.NewReader(logout.payload)
	id, err := r.ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, bob.ID(), id)
}
