package clientpackets

import (
	"fmt"

	"github.com/onecho-dev/onecho/internal/packet"
)

// ParseChannelJoin parses OSU_CHANNEL_JOIN (id 63): a single channel
// name. OSU_CHANNEL_PART (id 78) has the same payload.
func ParseChannelJoin(r *packet.Reader) (string, error) {
	name, err := r.ReadString()
	if err != nil {
		return "", fmt.Errorf("reading channel name: %w", err)
	}
	return name, nil
}

// ParseUserID parses the single-int32 payload shared by
// OSU_START_SPECTATING (16), OSU_FRIEND_ADD (73) and
// OSU_FRIEND_REMOVE (74).
func ParseUserID(r *packet.Reader) (int32, error) {
	id, err := r.ReadInt32()
	if err != nil {
		return 0, fmt.Errorf("reading user id: %w", err)
	}
	return id, nil
}

// ParseUserIDList parses the u16-counted int32 list shared by
// OSU_USER_STATS_REQUEST (85) and OSU_USER_PRESENCE_REQUEST (97).
func ParseUserIDList(r *packet.Reader) ([]int32, error) {
	ids, err := r.ReadIntList()
	if err != nil {
		return nil, fmt.Errorf("reading user id list: %w", err)
	}
	return ids, nil
}

// ParseReceiveUpdates parses OSU_RECEIVE_UPDATES (id 79): the presence
// filter (0 none, 1 all, 2 friends). Accepted and currently unused.
func ParseReceiveUpdates(r *packet.Reader) (int32, error) {
	v, err := r.ReadInt32()
	if err != nil {
		return 0, fmt.Errorf("reading presence filter: %w", err)
	}
	return v, nil
}

// ParseToggleBlockNonFriendDms parses OSU_TOGGLE_BLOCK_NON_FRIEND_DMS
// (id 99): nonzero means only friends may DM.
func ParseToggleBlockNonFriendDms(r *packet.Reader) (bool, error) {
	v, err := r.ReadInt32()
	if err != nil {
		return false, fmt.Errorf("reading dm block flag: %w", err)
	}
	return v != 0, nil
}

// ParseSetAwayMessage parses OSU_SET_AWAY_MESSAGE (id 82), which is
// message-shaped; only the text matters.
func ParseSetAwayMessage(r *packet.Reader) (string, error) {
	msg, err := ParseMessage(r)
	if err != nil {
		return "", err
	}
	return msg.Text, nil
}
