package serverpackets

import "github.com/onecho-dev/onecho/internal/packet"

// UserPresence builds SRV_USER_PRESENCE (id 83).
//
// Packet structure (S2C 83):
//   - userID      int32
//   - username    string
//   - utcOffset   u8      hours + 24
//   - countryCode u8      client country enum
//   - privileges  u8      privilege bitflags
//   - longitude   f32
//   - latitude    f32
//   - rank        int32   global rank in the user's current mode
func UserPresence(userID int32, username string, utcOffset int, countryCode uint8, privileges int32, longitude, latitude float32, rank int32) []byte {
	return packet.Frame(packet.SrvUserPresence, func(w *packet.Writer) {
		w.WriteInt32(userID)
		w.WriteString(username)
		w.WriteByte(byte(utcOffset + 24))
		w.WriteByte(countryCode)
		w.WriteByte(byte(privileges))
		w.WriteFloat32(longitude)
		w.WriteFloat32(latitude)
		w.WriteInt32(rank)
	})
}
