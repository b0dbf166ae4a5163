// Copyright 2016 Aleksandr Demakin. All rights reserved.

package memchan

import (
	"io"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidRange is returned, when the given offset and length
	// do not fit into the given buffer.
	ErrInvalidRange = errors.New("offset and length are out of the buffer bounds")
	// ErrWriterClosed is returned on an attempt to write into a closed writer.
	ErrWriterClosed = errors.New("the writer is closed")
)

// signaler is the channel's view of a rendezvous signal.
// sig.Signal is the production implementation; tests substitute fakes.
type signaler interface {
	Raise()
	Wait()
}

var (
	_ io.WriteCloser = (*Writer)(nil)
)

// Writer is a write-only sequential stream over the channel's payload buffer.
// Bytes written into it stream through the shared region as a sequence of
// chunks, each published to the receiver with a ChunkReady/ChunkConsumed
// handshake. The writer is not seekable and not safe for concurrent use.
type Writer struct {
	region        *channelRegion
	chunkReady    signaler
	chunkConsumed signaler
	off           int
	closed        bool
}

func newWriter(region *channelRegion, chunkReady, chunkConsumed signaler) *Writer {
	return &Writer{region: region, chunkReady: chunkReady, chunkConsumed: chunkConsumed}
}

// Write appends the given bytes to the current message.
// Whenever the payload buffer fills up, the chunk is published and Write
// blocks until the receiver consumes it, so a message of unbounded size
// passes through the fixed-size region. Returns len(p) on success.
func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrWriterClosed
	}
	written := 0
	capacity := w.region.capacity()
	for len(p) > capacity-w.off {
		n := capacity - w.off
		copy(w.region.payload[w.off:], p[:n])
		w.region.setChunkLen(capacity)
		w.chunkReady.Raise()
		w.chunkConsumed.Wait()
		w.off = 0
		p = p[n:]
		written += n
	}
	copy(w.region.payload[w.off:], p)
	w.off += len(p)
	return written + len(p), nil
}

// WriteBuffer writes length bytes of buf starting at the given offset.
// The offset and the length are validated before any shared state is
// touched: on a bad range WriteBuffer fails with ErrInvalidRange and no
// signal is raised.
func (w *Writer) WriteBuffer(buf []byte, offset, length int) error {
	if offset < 0 || length < 0 || offset+length > len(buf) {
		return ErrInvalidRange
	}
	_, err := w.Write(buf[offset : offset+length])
	return err
}

// Close completes the message. It publishes the bytes buffered in the
// current chunk together with the message-complete flag, runs the final
// chunk handshake (even for a zero-length message, so the receiver observes
// completion), and then returns the region to the rest state.
// Close runs at most once; subsequent calls are no-ops.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.region.setComplete(true)
	w.region.setChunkLen(w.off)
	w.chunkReady.Raise()
	w.chunkConsumed.Wait()
	w.region.reset()
	w.off = 0
	return nil
}
