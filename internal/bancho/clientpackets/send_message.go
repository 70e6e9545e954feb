package clientpackets

import (
	"fmt"

	"github.com/onecho-dev/onecho/internal/packet"
)

// Message is the shared chat message body carried by both
// OSU_SEND_PUBLIC_MESSAGE (id 1) and OSU_SEND_PRIVATE_MESSAGE (id 25).
//
// Packet structure:
//   - sender   string  ignored, the server knows who is talking
//   - text     string
//   - target   string  channel name (public) or username (private)
//   - senderID int32   ignored
type Message struct {
	Sender   string
	Text     string
	Target   string
	SenderID int32
}

// ParseMessage parses a chat message packet.
func ParseMessage(r *packet.Reader) (*Message, error) {
	sender, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading sender: %w", err)
	}
	text, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading text: %w", err)
	}
	target, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading target: %w", err)
	}
	senderID, err := r.ReadInt32()
	if err != nil {
		return nil, fmt.Errorf("reading sender id: %w", err)
	}
	return &Message{
		Sender:   sender,
		Text:     text,
		Target:   target,
		SenderID: senderID,
	}, nil
}
