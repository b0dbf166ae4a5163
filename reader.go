// Copyright 2016 Aleksandr Demakin. All rights reserved.

package memchan

import "io"

var (
	_ io.Reader = (*reader)(nil)
)

// reader is the receive-side counterpart of Writer: a sequential stream over
// the incoming chunks of one message. It waits for ChunkReady per chunk,
// serves exactly the declared number of bytes, acks the chunk with
// ChunkConsumed once it is fully consumed, and reports io.EOF after the
// chunk that carried the message-complete flag.
// Its chunk cursor mirrors the sender's exactly; each chunk starts at
// payload offset 0.
type reader struct {
	region        *channelRegion
	chunkReady    signaler
	chunkConsumed signaler
	pos           int
	chunkLen      int
	pending       bool
	complete      bool
	done          bool
}

func newReader(region *channelRegion, chunkReady, chunkConsumed signaler) *reader {
	return &reader{region: region, chunkReady: chunkReady, chunkConsumed: chunkConsumed}
}

func (r *reader) Read(p []byte) (int, error) {
	for {
		if !r.pending {
			if r.done {
				return 0, io.EOF
			}
			r.nextChunk()
		}
		if r.pos == r.chunkLen {
			r.ackChunk()
			if r.done {
				return 0, io.EOF
			}
			continue
		}
		if len(p) == 0 {
			return 0, nil
		}
		n := copy(p, r.region.payload[r.pos:r.chunkLen])
		r.pos += n
		return n, nil
	}
}

// nextChunk blocks until the sender publishes a chunk and captures its
// bounds. The complete flag must be captured before the ack: the sender
// resets the header right after the final ChunkConsumed.
func (r *reader) nextChunk() {
	r.chunkReady.Wait()
	r.chunkLen = r.region.chunkLen()
	r.complete = r.region.complete()
	r.pos = 0
	r.pending = true
}

func (r *reader) ackChunk() {
	r.pending = false
	if r.complete {
		r.done = true
	}
	r.chunkConsumed.Raise()
}

// drain consumes and discards the rest of the message, so the handshake
// always completes even if the caller stopped reading early.
func (r *reader) drain() {
	for !r.done {
		if !r.pending {
			r.nextChunk()
		}
		r.pos = r.chunkLen
		r.ackChunk()
	}
}
