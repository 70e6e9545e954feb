package packet

import (
	"bytes"
	"testing"
)

func TestFinish_HeaderLayout(t *testing.T) {
	w := NewWriter(8)
	w.WriteInt32(5)
	frame := w.Finish(SrvLoginReply)

	want := []byte{
		5, 0, // id 5, LE
		0,          // pad
		4, 0, 0, 0, // length 4, LE
		5, 0, 0, 0, // payload: int32(5)
	}
	if !bytes.Equal(frame, want) {
		t.Errorf("frame = %v, want %v", frame, want)
	}
}

func TestEmptyFrame(t *testing.T) {
	frame := EmptyFrame(SrvChannelInfoEnd)
	if len(frame) != HeaderSize {
		t.Fatalf("len = %d, want %d", len(frame), HeaderSize)
	}
	r := NewReader(frame)
	id, length, err := r.ReadHeader()
	if err != nil {
		t.Fatal(err)
	}
	if id != SrvChannelInfoEnd || length != 0 {
		t.Errorf("header = (%d, %d), want (%d, 0)", id, length, SrvChannelInfoEnd)
	}
}

func TestFrame_Callback(t *testing.T) {
	frame := Frame(SrvNotification, func(w *Writer) {
		w.WriteString("restarting")
	})

	r := NewReader(frame)
	id, length, err := r.ReadHeader()
	if err != nil {
		t.Fatal(err)
	}
	if id != SrvNotification {
		t.Errorf("id = %d, want %d", id, SrvNotification)
	}
	if int(length) != r.Remaining() {
		t.Errorf("declared length %d, remaining %d", length, r.Remaining())
	}
	s, err := r.ReadString()
	if err != nil || s != "restarting" {
		t.Errorf("payload = %q, %v", s, err)
	}
}

func TestWriterPool_Reuse(t *testing.T) {
	w := Get()
	w.WriteInt32(42)
	w.Put()

	w2 := Get()
	defer w2.Put()
	if w2.Len() != 0 {
		t.Errorf("pooled writer not reset, len = %d", w2.Len())
	}
}
