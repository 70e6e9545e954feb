package serverpackets

import "github.com/onecho-dev/onecho/internal/packet"

// ChannelInfo builds SRV_CHANNEL_INFO (id 65).
//
// Packet structure (S2C 65):
//   - name  string  wire name (spectator/multiplayer rooms rewritten)
//   - topic string
//   - users int16   current member count
func ChannelInfo(name, topic string, users int16) []byte {
	return packet.Frame(packet.SrvChannelInfo, func(w *packet.Writer) {
		w.WriteString(name)
		w.WriteString(topic)
		w.WriteInt16(users)
	})
}

// ChannelInfoEnd builds SRV_CHANNEL_INFO_END (id 89), closing the
// channel listing sent during login.
func ChannelInfoEnd() []byte {
	return packet.Frame(packet.SrvChannelInfoEnd, func(w *packet.Writer) {
		w.WriteInt32(0)
	})
}

// ChannelJoinSuccess builds SRV_CHANNEL_JOIN_SUCCESS (id 64).
func ChannelJoinSuccess(name string) []byte {
	return packet.Frame(packet.SrvChannelJoinSuccess, func(w *packet.Writer) {
		w.WriteString(name)
	})
}

// ChannelKick builds SRV_CHANNEL_KICK (id 66): the client is forcibly
// removed from the named channel.
func ChannelKick(name string) []byte {
	return packet.Frame(packet.SrvChannelKick, func(w *packet.Writer) {
		w.WriteString(name)
	})
}
