package serverpackets

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/onecho-dev/onecho/internal/model"
	"github.com/onecho-dev/onecho/internal/packet"
)

// readFrame decodes one frame and asserts the declared length is
// consistent with the payload.
func readFrame(t *testing.T, frame []byte) (uint16, *packet.Reader) {
	t.Helper()
	r := packet.NewReader(frame)
	id, length, err := r.ReadHeader()
	require.NoError(t, err)
	require.Equal(t, int(length), r.Remaining())
	return id, r
}

func TestLoginReply(t *testing.T) {
	id, r := readFrame(t, LoginReply(LoginFailed))
	require.Equal(t, packet.SrvLoginReply, id)
	v, err := r.ReadInt32()
	require.NoError(t, err)
	require.Equal(t, int32(-1), v)
}

func TestNotification(t *testing.T) {
	id, r := readFrame(t, Notification("Server has restarted!"))
	require.Equal(t, packet.SrvNotification, id)
	s, err := r.ReadString()
	require.NoError(t, err)
	require.Equal(t, "Server has restarted!", s)
}

func TestUserLogout(t *testing.T) {
	id, r := readFrame(t, UserLogout(42))
	require.Equal(t, packet.SrvUserLogout, id)
	uid, err := r.ReadInt32()
	require.NoError(t, err)
	require.Equal(t, int32(42), uid)
	state, err := r.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0), state)
}

func TestSendMessage(t *testing.T) {
	id, r := readFrame(t, SendMessage("alice", "hi", "#osu", 7))
	require.Equal(t, packet.SrvSendMessage, id)

	sender, _ := r.ReadString()
	text, _ := r.ReadString()
	recipient, _ := r.ReadString()
	senderID, err := r.ReadInt32()
	require.NoError(t, err)
	require.Equal(t, "alice", sender)
	require.Equal(t, "hi", text)
	require.Equal(t, "#osu", recipient)
	require.Equal(t, int32(7), senderID)
}

func TestUserDmBlocked(t *testing.T) {
	id, r := readFrame(t, UserDmBlocked("bob"))
	require.Equal(t, packet.SrvUserDmBlocked, id)

	sender, _ := r.ReadString()
	text, _ := r.ReadString()
	target, _ := r.ReadString()
	senderID, err := r.ReadInt32()
	require.NoError(t, err)
	require.Empty(t, sender)
	require.Empty(t, text)
	require.Equal(t, "bob", target)
	require.Zero(t, senderID)
}

func TestChannelInfo(t *testing.T) {
	id, r := readFrame(t, ChannelInfo("#osu", "main channel", 3))
	require.Equal(t, packet.SrvChannelInfo, id)

	name, _ := r.ReadString()
	topic, _ := r.ReadString()
	users, err := r.ReadInt16()
	require.NoError(t, err)
	require.Equal(t, "#osu", name)
	require.Equal(t, "main channel", topic)
	require.Equal(t, int16(3), users)
}

func TestChannelInfoEnd(t *testing.T) {
	id, r := readFrame(t, ChannelInfoEnd())
	require.Equal(t, packet.SrvChannelInfoEnd, id)
	v, err := r.ReadInt32()
	require.NoError(t, err)
	require.Zero(t, v)
}

func TestUserPresence(t *testing.T) {
	frame := UserPresence(1001, "alice", 2, model.CountryCode("in"), 5, 72.87, 19.07, 12)
	id, r := readFrame(t, frame)
	require.Equal(t, packet.SrvUserPresence, id)

	uid, _ := r.ReadInt32()
	name, _ := r.ReadString()
	utc, _ := r.ReadByte()
	country, _ := r.ReadByte()
	privs, _ := r.ReadByte()
	lon, _ := r.ReadFloat32()
	lat, _ := r.ReadFloat32()
	rank, err := r.ReadInt32()
	require.NoError(t, err)

	require.Equal(t, int32(1001), uid)
	require.Equal(t, "alice", name)
	require.Equal(t, byte(26), utc) // offset+24
	require.Equal(t, model.CountryCode("in"), country)
	require.Equal(t, byte(5), privs)
	require.InDelta(t, 72.87, lon, 0.001)
	require.InDelta(t, 19.07, lat, 0.001)
	require.Equal(t, int32(12), rank)
	require.True(t, r.Empty())
}

func TestUserStats_AccuracyScaling(t *testing.T) {
	status := model.Status{
		Action:     model.ActionPlaying,
		Text:       "song",
		BeatmapMD5: "md5",
		Mods:       model.NoMod,
		Mode:       model.ModeOsu,
		BeatmapID:  42,
	}
	stats := model.ModeStats{
		RankedScore: 123456,
		TotalScore:  234567,
		PP:          321,
		Accuracy:    98.76,
		Playcount:   10,
	}

	id, r := readFrame(t, UserStats(1001, status, stats, 3))
	require.Equal(t, packet.SrvUserStats, id)

	uid, _ := r.ReadInt32()
	action, _ := r.ReadByte()
	text, _ := r.ReadString()
	md5, _ := r.ReadString()
	mods, _ := r.ReadInt32()
	mode, _ := r.ReadByte()
	mapID, _ := r.ReadInt32()
	rankedScore, _ := r.ReadInt64()
	acc, _ := r.ReadFloat32()
	playcount, _ := r.ReadInt32()
	totalScore, _ := r.ReadInt64()
	rank, _ := r.ReadInt32()
	pp, err := r.ReadInt16()
	require.NoError(t, err)

	require.Equal(t, int32(1001), uid)
	require.Equal(t, byte(model.ActionPlaying), action)
	require.Equal(t, "song", text)
	require.Equal(t, "md5", md5)
	require.Zero(t, mods)
	require.Equal(t, byte(model.ModeOsu), mode)
	require.Equal(t, int32(42), mapID)
	require.Equal(t, int64(123456), rankedScore)
	require.InDelta(t, 0.9876, acc, 0.0001) // stored percent / 100
	require.Equal(t, int32(10), playcount)
	require.Equal(t, int64(234567), totalScore)
	require.Equal(t, int32(3), rank)
	require.Equal(t, int16(321), pp)
	require.True(t, r.Empty())
}

func TestFriendsList(t *testing.T) {
	id, r := readFrame(t, FriendsList([]int32{1, 7}))
	require.Equal(t, packet.SrvFriendsList, id)
	ids, err := r.ReadIntList()
	require.NoError(t, err)
	require.Equal(t, []int32{1, 7}, ids)
}

func TestSpectateFrames_Opaque(t *testing.T) {
	blob := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	id, r := readFrame(t, SpectateFrames(blob))
	require.Equal(t, packet.SrvSpectateFrames, id)
	require.Equal(t, blob, r.ReadRemaining())
}
