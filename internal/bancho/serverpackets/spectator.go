package serverpackets

import "github.com/onecho-dev/onecho/internal/packet"

// SpectatorJoined builds SRV_SPECTATOR_JOINED (id 13), sent to the
// host when a watcher attaches.
func SpectatorJoined(userID int32) []byte {
	return packet.Frame(packet.SrvSpectatorJoined, func(w *packet.Writer) {
		w.WriteInt32(userID)
	})
}

// SpectatorLeft builds SRV_SPECTATOR_LEFT (id 14), sent to the host
// when a watcher detaches.
func SpectatorLeft(userID int32) []byte {
	return packet.Frame(packet.SrvSpectatorLeft, func(w *packet.Writer) {
		w.WriteInt32(userID)
	})
}

// FellowSpectatorJoined builds SRV_FELLOW_SPECTATOR_JOINED (id 42),
// sent to the other watchers of the same host.
func FellowSpectatorJoined(userID int32) []byte {
	return packet.Frame(packet.SrvFellowSpectatorJoined, func(w *packet.Writer) {
		w.WriteInt32(userID)
	})
}

// FellowSpectatorLeft builds SRV_FELLOW_SPECTATOR_LEFT (id 43).
func FellowSpectatorLeft(userID int32) []byte {
	return packet.Frame(packet.SrvFellowSpectatorLeft, func(w *packet.Writer) {
		w.WriteInt32(userID)
	})
}

// SpectateFrames builds SRV_SPECTATE_FRAMES (id 15), wrapping the
// host's opaque replay frame blob for fan-out to watchers.
func SpectateFrames(frames []byte) []byte {
	return packet.Frame(packet.SrvSpectateFrames, func(w *packet.Writer) {
		w.WriteBytes(frames)
	})
}

// SpectatorCantSpectate builds SRV_SPECTATOR_CANT_SPECTATE (id 22):
// the named watcher is missing the beatmap.
func SpectatorCantSpectate(userID int32) []byte {
	return packet.Frame(packet.SrvSpectatorCantSpectate, func(w *packet.Writer) {
		w.WriteInt32(userID)
	})
}
