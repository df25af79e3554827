package redact

import (
	"bytes"
	"io"
	"sync"
	"unicode/utf8"
)

// Writer wraps an output sink and redacts every text payload before it
// leaves the process. Payloads that are not valid UTF-8 pass through
// unmodified: rewriting them would corrupt legitimate binary output, and
// only data that survives a lossless text round-trip is matchable anyway.
type Writer struct {
	mu  sync.Mutex
	dst io.Writer
}

// NewWriter returns a redacting writer in front of dst.
func NewWriter(dst io.Writer) *Writer {
	return &Writer{dst: dst}
}

// Write implements io.Writer. It reports the original payload length on
// success so callers never see a short write when redaction changes the
// size.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !utf8.Valid(p) {
		return w.dst.Write(p)
	}

	if _, err := w.dst.Write(redactLines(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// redactLines scrubs a text payload line by line, preserving the original
// line structure. Line-wise matching keeps the cache effective: CLI output
// repeats whole lines far more often than whole buffers.
func redactLines(p []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(p))
	for {
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			if len(p) > 0 {
				out.WriteString(Text(string(p)))
			}
			return out.Bytes()
		}
		out.WriteString(Text(string(p[:i])))
		out.WriteByte('\n')
		p = p[i+1:]
	}
}
