// Copyright 2016 Aleksandr Demakin. All rights reserved.

/*
Package memchan implements a one-way message channel between exactly one
sender and one receiver process on the same machine. The channel is built
directly on a page-sized shared memory region and four named rendezvous
signals, avoiding the network stack entirely.

Messages of any size stream through the fixed-size region as a sequence of
chunks. Each chunk is published with a ChunkReady/ChunkConsumed handshake,
so the sender never runs ahead of the receiver, and the receiver drives the
backpressure. A second, per-message handshake (MessageSending/MessageRead)
frames whole messages, guaranteeing exactly-once in-order delivery.

The sender side:

	c, err := memchan.OpenSender("mychan")
	if err != nil {
		// handle the error
	}
	defer c.Close()
	err = c.SendMessage(func(w *memchan.Writer) error {
		_, err := w.Write(payload)
		return err
	})

The receiver side:

	c, err := memchan.OpenReceiver("mychan")
	if err != nil {
		// handle the error
	}
	defer c.Close()
	msg, err := c.ReadMessage()

All waits are unbounded. The protocol assumes two cooperating processes;
if one of them hangs, its counterpart blocks forever, and the channel
resources must be destroyed and recreated. Deadlines, if needed, must be
layered above this package.
*/
package memchan
