package redact

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriter_RedactsTextPayloads(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	payload := "starting sync\nAPI_KEY=sk_live_123\ndone\n"
	n, err := w.Write([]byte(payload))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != len(payload) {
		t.Errorf("Write returned %d, want original length %d", n, len(payload))
	}

	want := "starting sync\nAPI_KEY=[REDACTED]\ndone\n"
	if buf.String() != want {
		t.Errorf("wrote %q, want %q", buf.String(), want)
	}
}

func TestWriter_BinaryPassthrough(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	// Invalid UTF-8: must pass through byte for byte.
	payload := []byte{0xff, 0xfe, 0x00, 0x41, 0x80}
	if _, err := w.Write(payload); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), payload) {
		t.Errorf("binary payload was modified: %v", buf.Bytes())
	}
}

func TestWriter_PartialLine(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	if _, err := w.Write([]byte("PASSWORD=hunter2hunter2")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if strings.Contains(buf.String(), "hunter2") {
		t.Errorf("partial line leaked secret: %q", buf.String())
	}
}

func TestWriter_EmptyWrite(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	n, err := w.Write(nil)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != 0 || buf.Len() != 0 {
		t.Errorf("empty write produced n=%d, output %q", n, buf.String())
	}
}
