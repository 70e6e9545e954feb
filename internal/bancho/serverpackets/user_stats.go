package serverpackets

import (
	"github.com/onecho-dev/onecho/internal/model"
	"github.com/onecho-dev/onecho/internal/packet"
)

// UserStats builds SRV_USER_STATS (id 11).
//
// Packet structure (S2C 11):
//   - userID      int32
//   - action      u8
//   - actionText  string
//   - beatmapMD5  string
//   - mods        int32
//   - mode        u8
//   - beatmapID   int32
//   - rankedScore int64
//   - accuracy    f32    stored percent / 100
//   - playcount   int32
//   - totalScore  int64
//   - rank        int32
//   - pp          int16
func UserStats(userID int32, status model.Status, stats model.ModeStats, rank int32) []byte {
	return packet.Frame(packet.SrvUserStats, func(w *packet.Writer) {
		w.WriteInt32(userID)
		w.WriteByte(byte(status.Action))
		w.WriteString(status.Text)
		w.WriteString(status.BeatmapMD5)
		w.WriteInt32(int32(status.Mods))
		w.WriteByte(byte(status.Mode))
		w.WriteInt32(status.BeatmapID)
		w.WriteInt64(stats.RankedScore)
		w.WriteFloat32(float32(stats.Accuracy / 100.0))
		w.WriteInt32(stats.Playcount)
		w.WriteInt64(stats.TotalScore)
		w.WriteInt32(rank)
		w.WriteInt16(int16(stats.PP))
	})
}
