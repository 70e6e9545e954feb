package serverpackets

import "github.com/onecho-dev/onecho/internal/packet"

// writeMessage appends the shared chat message body:
//   - sender    string  display name of the sender
//   - text      string
//   - recipient string  channel name or target username
//   - senderID  int32
func writeMessage(w *packet.Writer, sender, text, recipient string, senderID int32) {
	w.WriteString(sender)
	w.WriteString(text)
	w.WriteString(recipient)
	w.WriteInt32(senderID)
}

// SendMessage builds SRV_SEND_MESSAGE (id 7).
func SendMessage(sender, text, recipient string, senderID int32) []byte {
	return packet.Frame(packet.SrvSendMessage, func(w *packet.Writer) {
		writeMessage(w, sender, text, recipient, senderID)
	})
}

// UserDmBlocked builds SRV_USER_DM_BLOCKED (id 100): the target's
// privacy settings rejected the DM. Message-shaped with only the
// recipient filled in.
func UserDmBlocked(target string) []byte {
	return packet.Frame(packet.SrvUserDmBlocked, func(w *packet.Writer) {
		writeMessage(w, "", "", target, 0)
	})
}

// TargetIsSilenced builds SRV_TARGET_IS_SILENCED (id 101).
func TargetIsSilenced(target string) []byte {
	return packet.Frame(packet.SrvTargetIsSilenced, func(w *packet.Writer) {
		writeMessage(w, "", "", target, 0)
	})
}
