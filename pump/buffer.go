// File: pump/buffer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Compacting receive buffer: a single fixed-capacity byte region with a
// mutable read offset, owned exclusively by the read pump.

package pump

// Buffer is a fixed-capacity compacting byte window. Unread data lives at
// [off, off+length); the invariant 0 <= off, 0 <= length, off+length <= cap
// holds at all times, and an empty buffer is canonical at off = 0.
//
// Buffer is not safe for concurrent use. The pump guarantees that Fill and
// Consume are only ever called from the read pump's goroutine.
type Buffer struct {
	data   []byte
	off    int
	length int
}

// NewBuffer allocates a buffer with the given fixed capacity.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{data: make([]byte, capacity)}
}

// Cap returns the buffer's fixed capacity.
func (b *Buffer) Cap() int { return len(b.data) }

// Len returns the number of unread bytes.
func (b *Buffer) Len() int { return b.length }

// Consume invokes f with the unread region. f returns the number of bytes it
// consumed, which is clamped to [0, Len]. Consumed bytes are discarded; when
// everything is consumed the offset resets to zero. Returns the clamped count.
func (b *Buffer) Consume(f func(p []byte) int) int {
	n := f(b.data[b.off : b.off+b.length])
	if n < 0 {
		n = 0
	}
	if n > b.length {
		n = b.length
	}
	b.off += n
	b.length -= n
	if b.length == 0 {
		b.off = 0
	}
	return n
}

// Fill compacts the buffer, then invokes f with the writable tail. f performs
// one read and returns the byte count, or a non-nil error meaning the stream
// has ended; it must not return both. On success the count is accounted into
// the unread window. The (n, err) outcome is returned to the caller as is.
//
// Compaction moves the unread bytes to the front of the region, keeping the
// writable window maximal without growing the buffer. The copy cost is
// proportional to the unread byte count, which stays small as long as the
// engine consumes eagerly.
func (b *Buffer) Fill(f func(p []byte) (int, error)) (int, error) {
	if b.length == 0 {
		b.off = 0
	} else if b.off > 0 {
		copy(b.data, b.data[b.off:b.off+b.length])
		b.off = 0
	}
	n, err := f(b.data[b.length:])
	if err != nil {
		return 0, err
	}
	if n < 0 {
		n = 0
	}
	if max := len(b.data) - b.length; n > max {
		n = max
	}
	b.length += n
	return n, nil
}
