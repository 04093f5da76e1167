// Package iobuf provides small bounded-capacity buffers shared by the
// WASM and native runners for capturing stdout/stderr.
package iobuf

import "bytes"

// BoundedBuffer caps captured output at Limit bytes, recording
// Truncated instead of growing without bound, the same shape as the
// teacher's hostfuncs.BoundedBuffer.
type BoundedBuffer struct {
	Limit     int
	buffer    bytes.Buffer
	Truncated bool
}

// NewBoundedBuffer returns a buffer capped at limit bytes.
func NewBoundedBuffer(limit int) *BoundedBuffer {
	return &BoundedBuffer{Limit: limit}
}

func (b *BoundedBuffer) Write(p []byte) (int, error) {
	if b.buffer.Len() >= b.Limit {
		b.Truncated = true
		return len(p), nil
	}
	remaining := b.Limit - b.buffer.Len()
	if len(p) > remaining {
		b.Truncated = true
		if _, err := b.buffer.Write(p[:remaining]); err != nil {
			return 0, err
		}
		return len(p), nil
	}
	return b.buffer.Write(p)
}

func (b *BoundedBuffer) String() string {
	return b.buffer.String()
}
