// Copyright 2016 Aleksandr Demakin. All rights reserved.

package memchan

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// chunkFeeder plays the sender's part of the chunk handshake synchronously,
// publishing a prepared sequence of chunks.
type chunkFeeder struct {
	t      *testing.T
	region *channelRegion
	chunks [][]byte
	next   int
	acks   int
}

func (f *chunkFeeder) onChunkReady() {
	if f.next >= len(f.chunks) {
		f.t.Fatal("the reader requested more chunks than prepared")
	}
	chunk := f.chunks[f.next]
	copy(f.region.payload, chunk)
	f.region.setChunkLen(len(chunk))
	f.region.setComplete(f.next == len(f.chunks)-1)
	f.next++
}

func (f *chunkFeeder) onChunkConsumed() {
	f.acks++
	if f.next == len(f.chunks) && f.acks == len(f.chunks) {
		// the sender's close sequence restores the rest state
		// after the final ack.
		f.region.reset()
	}
}

func newTestReader(t *testing.T, chunks [][]byte) (*reader, *chunkFeeder) {
	region, err := newChannelRegion(make([]byte, testPageSize))
	if err != nil {
		t.Fatal(err)
	}
	feeder := &chunkFeeder{t: t, region: region, chunks: chunks}
	r := newReader(region, waitFunc(feeder.onChunkReady), raiseFunc(feeder.onChunkConsumed))
	return r, feeder
}

func TestReaderSingleChunk(t *testing.T) {
	a := assert.New(t)
	r, feeder := newTestReader(t, [][]byte{[]byte("hello")})
	data, err := io.ReadAll(r)
	a.NoError(err)
	a.Equal([]byte("hello"), data)
	a.Equal(1, feeder.acks)
	_, err = r.Read(make([]byte, 1))
	a.Equal(io.EOF, err)
}

func TestReaderMultiChunk(t *testing.T) {
	a := assert.New(t)
	capacity := testPageSize - layoutPayload
	message := payloadBytes(10000)
	chunks := [][]byte{message[:capacity], message[capacity : 2*capacity], message[2*capacity:]}
	r, feeder := newTestReader(t, chunks)
	data, err := io.ReadAll(r)
	a.NoError(err)
	a.Equal(message, data)
	a.Equal(3, feeder.acks)
}

func TestReaderEmptyMessage(t *testing.T) {
	a := assert.New(t)
	r, feeder := newTestReader(t, [][]byte{{}})
	data, err := io.ReadAll(r)
	a.NoError(err)
	a.Empty(data)
	a.Equal(1, feeder.acks)
}

func TestReaderSmallReads(t *testing.T) {
	a := assert.New(t)
	capacity := testPageSize - layoutPayload
	message := payloadBytes(2*capacity + 100)
	chunks := [][]byte{message[:capacity], message[capacity : 2*capacity], message[2*capacity:]}
	r, _ := newTestReader(t, chunks)
	var result bytes.Buffer
	buf := make([]byte, 7)
	for {
		n, err := r.Read(buf)
		result.Write(buf[:n])
		if err == io.EOF {
			break
		}
		if !a.NoError(err) {
			return
		}
	}
	a.Equal(message, result.Bytes())
}

func TestReaderDrain(t *testing.T) {
	a := assert.New(t)
	capacity := testPageSize - layoutPayload
	message := payloadBytes(3 * capacity)
	chunks := [][]byte{message[:capacity], message[capacity : 2*capacity], message[2*capacity:]}
	r, feeder := newTestReader(t, chunks)
	buf := make([]byte, 10)
	_, err := r.Read(buf)
	a.NoError(err)
	// an early stop must still complete the handshake for every chunk.
	r.drain()
	a.Equal(3, feeder.acks)
	a.True(feeder.region.atRest())
}

func TestReaderDrainUntouched(t *testing.T) {
	a := assert.New(t)
	r, feeder := newTestReader(t, [][]byte{payloadBytes(100)})
	r.drain()
	a.Equal(1, feeder.acks)
}

// chanSignal is an in-process rendezvous signal for protocol tests.
// Capacity 1 suffices: the handshake never raises a signal twice
// without a wait in between.
type chanSignal chan struct{}

func (c chanSignal) Raise() { c <- struct{}{} }
func (c chanSignal) Wait()  { <-c }

func TestWriterReaderRoundTrip(t *testing.T) {
	a := assert.New(t)
	region, err := newChannelRegion(make([]byte, testPageSize))
	if !a.NoError(err) {
		return
	}
	chunkReady := make(chanSignal, 1)
	chunkConsumed := make(chanSignal, 1)
	capacity := region.capacity()
	for _, size := range []int{0, 1, 100, capacity - 1, capacity, capacity + 1, 3*capacity + 17, 100000} {
		message := payloadBytes(size)
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := newWriter(region, chunkReady, chunkConsumed)
			_, werr := w.Write(message)
			a.NoError(werr)
			a.NoError(w.Close())
		}()
		r := newReader(region, chunkReady, chunkConsumed)
		data, rerr := io.ReadAll(r)
		a.NoError(rerr)
		a.Equal(message, data)
		wg.Wait()
		a.True(region.atRest())
	}
}
