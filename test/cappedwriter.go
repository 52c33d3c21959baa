package test

import (
	"bytes"

	"github.com/pkg/errors"
)

// CappedWriter keeps the first bytes written to it, up to a limit. Anything
// past the limit is counted in Dropped and otherwise ignored. Writes never
// fail.
type CappedWriter struct {
	buf   bytes.Buffer
	limit int

	// number of bytes that didn't fit
	Dropped int
}

// NewCappedWriter returns a writer keeping at most limit bytes.
func NewCappedWriter(limit int) (*CappedWriter, error) {
	if limit <= 0 {
		return nil, errors.Errorf("test: capped writer limit must be positive, not %d", limit)
	}
	w := &CappedWriter{limit: limit}
	w.buf.Grow(limit)
	return w, nil
}

// Write implements io.Writer. The count returned is the number of bytes kept.
func (w *CappedWriter) Write(p []byte) (int, error) {
	if room := w.limit - w.buf.Len(); len(p) > room {
		w.Dropped += len(p) - room
		p = p[:room]
	}
	return w.buf.Write(p)
}

func (w *CappedWriter) String() string {
	return w.buf.String()
}

// Bytes kept so far. Valid until the next Write or Reset.
func (w *CappedWriter) Bytes() []byte {
	return w.buf.Bytes()
}

// Reset discards the kept bytes and the dropped count.
func (w *CappedWriter) Reset() {
	w.buf.Reset()
	w.Dropped = 0
}
