// Copyright 2016 Aleksandr Demakin. All rights reserved.

package memchan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const testPageSize = 4096

// raiseFunc adapts a func to the raising side of the signaler interface.
type raiseFunc func()

func (f raiseFunc) Raise() { f() }
func (f raiseFunc) Wait()  { panic("unexpected wait") }

// waitFunc adapts a func to the waiting side of the signaler interface.
type waitFunc func()

func (f waitFunc) Raise() { panic("unexpected raise") }
func (f waitFunc) Wait()  { f() }

// chunkRecorder plays the receiver's part of the chunk handshake
// synchronously, recording every published chunk.
type chunkRecorder struct {
	t         *testing.T
	region    *channelRegion
	chunks    []int
	completes []bool
	ready     int
	consumed  int
}

func (r *chunkRecorder) onChunkReady() {
	r.ready++
	if r.ready-r.consumed > 1 {
		r.t.Errorf("handshake alternation violated: %d raises, %d acks", r.ready, r.consumed)
	}
	n := r.region.chunkLen()
	if n > r.region.capacity() {
		r.t.Errorf("chunk of %d bytes exceeds the capacity of %d", n, r.region.capacity())
	}
	r.chunks = append(r.chunks, n)
	r.completes = append(r.completes, r.region.complete())
}

func (r *chunkRecorder) onChunkConsumed() {
	r.consumed++
}

func newTestWriter(t *testing.T) (*Writer, *chunkRecorder) {
	region, err := newChannelRegion(make([]byte, testPageSize))
	if err != nil {
		t.Fatal(err)
	}
	recorder := &chunkRecorder{t: t, region: region}
	w := newWriter(region, raiseFunc(recorder.onChunkReady), waitFunc(recorder.onChunkConsumed))
	return w, recorder
}

func payloadBytes(length int) []byte {
	result := make([]byte, length)
	for i := range result {
		result[i] = byte(i % 251)
	}
	return result
}

func TestWriterSingleChunk(t *testing.T) {
	a := assert.New(t)
	w, rec := newTestWriter(t)
	n, err := w.Write(payloadBytes(100))
	a.NoError(err)
	a.Equal(100, n)
	// nothing is published until the buffer fills up or the message ends.
	a.Equal(0, rec.ready)
	a.NoError(w.Close())
	a.Equal([]int{100}, rec.chunks)
	a.Equal([]bool{true}, rec.completes)
}

func TestWriterChunkSplit(t *testing.T) {
	a := assert.New(t)
	w, rec := newTestWriter(t)
	capacity := testPageSize - layoutPayload
	a.Equal(4090, capacity)
	n, err := w.Write(payloadBytes(10000))
	a.NoError(err)
	a.Equal(10000, n)
	a.NoError(w.Close())
	a.Equal([]int{4090, 4090, 1820}, rec.chunks)
	a.Equal([]bool{false, false, true}, rec.completes)
}

func TestWriterExactCapacity(t *testing.T) {
	a := assert.New(t)
	w, rec := newTestWriter(t)
	capacity := testPageSize - layoutPayload
	n, err := w.Write(payloadBytes(capacity))
	a.NoError(err)
	a.Equal(capacity, n)
	// a buffer-filling write is published by the close sequence,
	// not by the write itself.
	a.Equal(0, rec.ready)
	a.NoError(w.Close())
	a.Equal([]int{capacity}, rec.chunks)
	a.Equal([]bool{true}, rec.completes)
}

func TestWriterSplitAcrossWrites(t *testing.T) {
	a := assert.New(t)
	w, rec := newTestWriter(t)
	capacity := testPageSize - layoutPayload
	for _, part := range []int{1000, 3000, 1000} {
		n, err := w.Write(payloadBytes(part))
		a.NoError(err)
		a.Equal(part, n)
	}
	a.NoError(w.Close())
	a.Equal([]int{capacity, 5000 - capacity}, rec.chunks)
	a.Equal([]bool{false, true}, rec.completes)
}

func TestWriterEmptyMessage(t *testing.T) {
	a := assert.New(t)
	w, rec := newTestWriter(t)
	a.NoError(w.Close())
	// the final handshake runs even for a zero-length message,
	// so the receiver observes completion.
	a.Equal([]int{0}, rec.chunks)
	a.Equal([]bool{true}, rec.completes)
	a.Equal(1, rec.consumed)
}

func TestWriterRestState(t *testing.T) {
	a := assert.New(t)
	w, rec := newTestWriter(t)
	_, err := w.Write(payloadBytes(5000))
	a.NoError(err)
	a.False(rec.region.atRest())
	a.NoError(w.Close())
	a.True(rec.region.atRest())
}

func TestWriterCloseIdempotent(t *testing.T) {
	a := assert.New(t)
	w, rec := newTestWriter(t)
	a.NoError(w.Close())
	a.NoError(w.Close())
	a.Equal(1, rec.ready)
}

func TestWriterWriteAfterClose(t *testing.T) {
	a := assert.New(t)
	w, rec := newTestWriter(t)
	a.NoError(w.Close())
	_, err := w.Write(payloadBytes(1))
	a.Equal(ErrWriterClosed, err)
	a.Equal(ErrWriterClosed, w.WriteBuffer(payloadBytes(1), 0, 1))
	a.Equal(1, rec.ready)
}

func TestWriterBufferValidation(t *testing.T) {
	a := assert.New(t)
	w, rec := newTestWriter(t)
	buf := payloadBytes(10)
	a.Equal(ErrInvalidRange, w.WriteBuffer(buf, 0, 11))
	a.Equal(ErrInvalidRange, w.WriteBuffer(buf, 5, 6))
	a.Equal(ErrInvalidRange, w.WriteBuffer(buf, -1, 5))
	a.Equal(ErrInvalidRange, w.WriteBuffer(buf, 0, -1))
	// invalid arguments must not touch shared state or raise signals.
	a.Equal(0, rec.ready)
	a.True(rec.region.atRest())
	a.NoError(w.WriteBuffer(buf, 2, 5))
	a.NoError(w.Close())
	a.Equal([]int{5}, rec.chunks)
}

func TestWriterLargeMessage(t *testing.T) {
	a := assert.New(t)
	w, rec := newTestWriter(t)
	capacity := testPageSize - layoutPayload
	const total = 100000
	n, err := w.Write(payloadBytes(total))
	a.NoError(err)
	a.Equal(total, n)
	a.NoError(w.Close())
	sum := 0
	for i, chunk := range rec.chunks {
		sum += chunk
		if i != len(rec.chunks)-1 {
			a.Equal(capacity, chunk)
			a.False(rec.completes[i])
		} else {
			a.True(rec.completes[i])
		}
	}
	a.Equal(total, sum)
}
