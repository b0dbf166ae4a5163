// Copyright 2016 Aleksandr Demakin. All rights reserved.

package memchan

import (
	"os"

	"github.com/nxgtw/memchan/internal/allocator"

	"github.com/pkg/errors"
)

// The channel region occupies exactly one host page and has a fixed layout,
// which is the wire contract between the sender and the receiver:
//	offset 0: bytesInChunk, uint32, host-native encoding.
//	offset 4: messageComplete, 1-byte bool.
//	offset 5: one reserved byte, unused by the protocol.
//	offset 6..pageSize: payload.
const (
	layoutBytesInChunk    = 0
	layoutMessageComplete = 4
	layoutReserved        = 5
	layoutPayload         = 6
)

// RegionSize returns the size of the channel's shared memory region.
func RegionSize() int {
	return os.Getpagesize()
}

// PayloadCapacity returns the maximum number of payload bytes in one chunk.
func PayloadCapacity() int {
	return RegionSize() - layoutPayload
}

// channelRegion provides typed access to the fields of a mapped channel region.
// Both header fields are written by the sender only; the handshake signals
// order those writes against the receiver's reads, so no extra
// synchronization is used here.
type channelRegion struct {
	bytesInChunk    *uint32
	messageComplete *byte
	payload         []byte
}

func newChannelRegion(data []byte) (*channelRegion, error) {
	if len(data) <= layoutPayload {
		return nil, errors.Errorf("channel region is too small (%d bytes)", len(data))
	}
	base := allocator.ByteSliceData(data)
	return &channelRegion{
		bytesInChunk:    (*uint32)(allocator.AdvancePointer(base, layoutBytesInChunk)),
		messageComplete: (*byte)(allocator.AdvancePointer(base, layoutMessageComplete)),
		payload:         data[layoutPayload:],
	}, nil
}

func (r *channelRegion) capacity() int {
	return len(r.payload)
}

func (r *channelRegion) chunkLen() int {
	return int(*r.bytesInChunk)
}

func (r *channelRegion) setChunkLen(n int) {
	*r.bytesInChunk = uint32(n)
}

func (r *channelRegion) complete() bool {
	return *r.messageComplete != 0
}

func (r *channelRegion) setComplete(value bool) {
	if value {
		*r.messageComplete = 1
	} else {
		*r.messageComplete = 0
	}
}

// reset returns the header to the rest state.
func (r *channelRegion) reset() {
	r.setChunkLen(0)
	r.setComplete(false)
}

// atRest reports whether the header is in the rest state.
func (r *channelRegion) atRest() bool {
	return r.chunkLen() == 0 && !r.complete()
}
