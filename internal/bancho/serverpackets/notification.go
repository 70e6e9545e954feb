package serverpackets

import "github.com/onecho-dev/onecho/internal/packet"

// Notification builds SRV_NOTIFICATION (id 24): a toast shown by the
// client. Messages should stay terse.
func Notification(msg string) []byte {
	return packet.Frame(packet.SrvNotification, func(w *packet.Writer) {
		w.WriteString(msg)
	})
}

// UserLogout builds SRV_USER_LOGOUT (id 12).
//
// Packet structure (S2C 12):
//   - userID int32
//   - state  u8     always 0
func UserLogout(userID int32) []byte {
	return packet.Frame(packet.SrvUserLogout, func(w *packet.Writer) {
		w.WriteInt32(userID)
		w.WriteByte(0)
	})
}

// Pong builds SRV_PONG (id 8), the empty heartbeat reply.
func Pong() []byte {
	return packet.EmptyFrame(packet.SrvPong)
}
