// Copyright 2016 Aleksandr Demakin. All rights reserved.

package memchan

import (
	"io"
	"os"

	"github.com/nxgtw/memchan/internal/helper"
	"github.com/nxgtw/memchan/mmf"
	"github.com/nxgtw/memchan/shm"
	"github.com/nxgtw/memchan/sig"

	"github.com/pkg/errors"
	"github.com/valyala/bytebufferpool"
)

// Signal name suffixes are a part of the wire contract and must match
// on both sides of the channel.
const (
	suffixSendingStarted  = "_MessageSending"
	suffixMessageConsumed = "_MessageRead"
	suffixChunkReady      = "_BytesWritten"
	suffixChunkConsumed   = "_BytesRead"
)

// channel holds the resources shared by both channel sides: the mapped
// region and the four rendezvous signals. All resources are created-or-opened
// by name, so either side may start first.
type channel struct {
	name            string
	region          *mmf.MemoryRegion
	layout          *channelRegion
	sendingStarted  *sig.Signal
	messageConsumed *sig.Signal
	chunkReady      *sig.Signal
	chunkConsumed   *sig.Signal
	closed          bool
}

func openChannel(name string) (*channel, error) {
	if len(name) == 0 {
		return nil, errors.New("channel name must not be empty")
	}
	result := &channel{name: name}
	var resultErr error
	created := false
	defer func() {
		if resultErr == nil {
			return
		}
		result.Close()
		if created {
			DestroyChannel(name)
		}
	}()
	// a freshly created region is zeroed by the OS,
	// which is exactly the rest state of the header.
	if result.region, created, resultErr = helper.CreateWritableRegion(name, os.O_CREATE, 0666, RegionSize()); resultErr != nil {
		return nil, errors.Wrap(resultErr, "failed to create channel region")
	}
	if result.layout, resultErr = newChannelRegion(result.region.Data()); resultErr != nil {
		return nil, resultErr
	}
	signals := []struct {
		target **sig.Signal
		suffix string
	}{
		{&result.sendingStarted, suffixSendingStarted},
		{&result.messageConsumed, suffixMessageConsumed},
		{&result.chunkReady, suffixChunkReady},
		{&result.chunkConsumed, suffixChunkConsumed},
	}
	for _, s := range signals {
		if *s.target, resultErr = sig.NewSignal(name+s.suffix, os.O_CREATE, 0666); resultErr != nil {
			return nil, errors.Wrapf(resultErr, "failed to create signal %q", s.suffix)
		}
	}
	return result, nil
}

// Close releases the process-local channel resources. It is idempotent.
func (c *channel) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	var result error
	if c.region != nil {
		if err := c.region.Close(); err != nil && result == nil {
			result = errors.Wrap(err, "failed to close channel region")
		}
		c.region = nil
		c.layout = nil
	}
	for _, s := range []**sig.Signal{&c.sendingStarted, &c.messageConsumed, &c.chunkReady, &c.chunkConsumed} {
		if *s == nil {
			continue
		}
		if err := (*s).Close(); err != nil && result == nil {
			result = errors.Wrap(err, "failed to close signal")
		}
		*s = nil
	}
	return result
}

// Destroy closes the channel and removes its named OS resources.
func (c *channel) Destroy() error {
	name := c.name
	if err := c.Close(); err != nil {
		return err
	}
	return DestroyChannel(name)
}

// DestroyChannel removes the named resources of the channel: the shared
// memory region and the four signals. It is not an error if some of them
// do not exist. After a protocol hang this is the only way to recover:
// the region cannot be safely reset while a counterpart may be mid-chunk.
func DestroyChannel(name string) error {
	var result error
	if err := shm.DestroyMemoryObject(name); err != nil && result == nil {
		result = errors.Wrap(err, "failed to destroy channel region")
	}
	for _, suffix := range []string{suffixSendingStarted, suffixMessageConsumed, suffixChunkReady, suffixChunkConsumed} {
		if err := sig.DestroySignal(name + suffix); err != nil && result == nil {
			result = errors.Wrapf(err, "failed to destroy signal %q", suffix)
		}
	}
	return result
}

// Sender is the sending side of a channel. One message is in flight at
// a time; concurrent SendMessage calls on one Sender must be serialized
// by the caller.
type Sender struct {
	ch *channel
}

// OpenSender creates or attaches the sending side of the named channel.
func OpenSender(name string) (*Sender, error) {
	ch, err := openChannel(name)
	if err != nil {
		return nil, err
	}
	return &Sender{ch: ch}, nil
}

// SendMessage sends one message, whose content is produced by the write
// callback. The callback receives a Writer scoped to this message; the
// writer's close sequence runs on every exit path, including a callback
// failure, so the receiver always observes a finished message. SendMessage
// then blocks until the receiver confirms full consumption and returns the
// callback error, if any.
func (s *Sender) SendMessage(write func(w *Writer) error) error {
	c := s.ch
	c.sendingStarted.Raise()
	w := newWriter(c.layout, c.chunkReady, c.chunkConsumed)
	err := func() (err error) {
		defer func() {
			if closeErr := w.Close(); err == nil {
				err = closeErr
			}
		}()
		return write(w)
	}()
	c.messageConsumed.Wait()
	return err
}

// Send is a convenience shortcut sending the given bytes as one message.
func (s *Sender) Send(p []byte) error {
	return s.SendMessage(func(w *Writer) error {
		_, err := w.Write(p)
		return err
	})
}

// Close releases the sender's resources. It is idempotent.
func (s *Sender) Close() error {
	return s.ch.Close()
}

// Destroy closes the sender and removes the channel's named OS resources.
func (s *Sender) Destroy() error {
	return s.ch.Destroy()
}

// Receiver is the receiving side of a channel.
type Receiver struct {
	ch *channel
}

// OpenReceiver creates or attaches the receiving side of the named channel.
func OpenReceiver(name string) (*Receiver, error) {
	ch, err := openChannel(name)
	if err != nil {
		return nil, err
	}
	return &Receiver{ch: ch}, nil
}

// ReceiveMessage receives one message, exposing its content to the read
// callback as a sequential io.Reader. After the callback returns, any
// unread remainder of the message is drained, so the sender is never left
// waiting mid-chunk, and the whole-message confirmation is raised.
// Returns the callback error, if any.
func (r *Receiver) ReceiveMessage(read func(r io.Reader) error) error {
	c := r.ch
	c.sendingStarted.Wait()
	rd := newReader(c.layout, c.chunkReady, c.chunkConsumed)
	err := func() (err error) {
		defer rd.drain()
		return read(rd)
	}()
	c.messageConsumed.Raise()
	return err
}

// ReadMessage receives one whole message and returns its content.
func (r *Receiver) ReadMessage() ([]byte, error) {
	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)
	err := r.ReceiveMessage(func(rd io.Reader) error {
		_, err := io.Copy(bb, rd)
		return err
	})
	if err != nil {
		return nil, err
	}
	msg := make([]byte, len(bb.B))
	copy(msg, bb.B)
	return msg, nil
}

// Close releases the receiver's resources. It is idempotent.
func (r *Receiver) Close() error {
	return r.ch.Close()
}

// Destroy closes the receiver and removes the channel's named OS resources.
func (r *Receiver) Destroy() error {
	return r.ch.Destroy()
}
