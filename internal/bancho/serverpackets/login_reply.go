package serverpackets

import "github.com/onecho-dev/onecho/internal/packet"

// Login reply codes carried in SRV_LOGIN_REPLY when login fails.
// Positive values are the authenticated user id.
const (
	LoginFailed        = -1
	LoginOldClient     = -2
	LoginBanned        = -3
	LoginError         = -5
	LoginNeedSupporter = -6
	LoginPasswordReset = -7
)

// LoginReply builds SRV_LOGIN_REPLY (id 5).
//
// Packet structure (S2C 5):
//   - userID int32  authenticated user id, or a negative failure code
func LoginReply(userID int32) []byte {
	return packet.Frame(packet.SrvLoginReply, func(w *packet.Writer) {
		w.WriteInt32(userID)
	})
}

// ProtocolVersion builds SRV_PROTOCOL_VERSION (id 75).
func ProtocolVersion(version int32) []byte {
	return packet.Frame(packet.SrvProtocolVersion, func(w *packet.Writer) {
		w.WriteInt32(version)
	})
}

// Privileges builds SRV_PRIVILEGES (id 71).
func Privileges(privs int32) []byte {
	return packet.Frame(packet.SrvPrivileges, func(w *packet.Writer) {
		w.WriteInt32(privs)
	})
}

// SilenceEnd builds SRV_SILENCE_END (id 92). The payload is the number
// of seconds the silence has left, 0 when not silenced.
func SilenceEnd(seconds int32) []byte {
	return packet.Frame(packet.SrvSilenceEnd, func(w *packet.Writer) {
		w.WriteInt32(seconds)
	})
}

// FriendsList builds SRV_FRIENDS_LIST (id 72): a u16-counted list of
// friend user ids.
func FriendsList(ids []int32) []byte {
	return packet.Frame(packet.SrvFriendsList, func(w *packet.Writer) {
		w.WriteIntList(ids)
	})
}

// Restart builds SRV_RESTART (id 86); ms is the delay the client
// should wait before reconnecting.
func Restart(ms int32) []byte {
	return packet.Frame(packet.SrvRestart, func(w *packet.Writer) {
		w.WriteInt32(ms)
	})
}
