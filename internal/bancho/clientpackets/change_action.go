package clientpackets

import (
	"fmt"

	"github.com/onecho-dev/onecho/internal/model"
	"github.com/onecho-dev/onecho/internal/packet"
)

// ParseChangeAction parses OSU_CHANGE_ACTION (id 0).
//
// Packet structure (C2S 0):
//   - action     u8
//   - actionText string
//   - beatmapMD5 string
//   - mods       int32
//   - mode       u8
//   - beatmapID  int32
func ParseChangeAction(r *packet.Reader) (model.Status, error) {
	var st model.Status

	action, err := r.ReadByte()
	if err != nil {
		return st, fmt.Errorf("reading action: %w", err)
	}
	text, err := r.ReadString()
	if err != nil {
		return st, fmt.Errorf("reading action text: %w", err)
	}
	md5, err := r.ReadString()
	if err != nil {
		return st, fmt.Errorf("reading beatmap md5: %w", err)
	}
	mods, err := r.ReadInt32()
	if err != nil {
		return st, fmt.Errorf("reading mods: %w", err)
	}
	mode, err := r.ReadByte()
	if err != nil {
		return st, fmt.Errorf("reading mode: %w", err)
	}
	if !model.Mode(mode).Valid() {
		return st, fmt.Errorf("invalid mode %d", mode)
	}
	mapID, err := r.ReadInt32()
	if err != nil {
		return st, fmt.Errorf("reading beatmap id: %w", err)
	}

	st = model.Status{
		Action:     model.Action(action),
		Text:       text,
		BeatmapMD5: md5,
		Mods:       model.Mods(mods),
		Mode:       model.Mode(mode),
		BeatmapID:  mapID,
	}
	return st, nil
}
