// Copyright 2015 Aleksandr Demakin. All rights reserved.

// This is a helper application for cross-process channel tests.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"github.com/nxgtw/memchan"
	testutil "github.com/nxgtw/memchan/internal/test"
)

var (
	objName = flag.String("object", "", "channel name")
)

const usage = `  test program for the shared memory channel.
available commands:
  send {message byte array}
    sends one message over the channel.
  recv {expected byte array}
    receives one message and compares it with the expected data.
  destroy
    removes the channel's named resources.
byte array should be passed as a continuous string of 2-symbol hex byte values like '01020A'
`

func send() error {
	if flag.NArg() != 2 {
		return fmt.Errorf("send: must provide exactly two arguments")
	}
	message, err := testutil.StringToBytes(flag.Arg(1))
	if err != nil {
		return err
	}
	c, err := memchan.OpenSender(*objName)
	if err != nil {
		return err
	}
	defer c.Close()
	return c.Send(message)
}

func recv() error {
	if flag.NArg() != 2 {
		return fmt.Errorf("recv: must provide exactly two arguments")
	}
	expected, err := testutil.StringToBytes(flag.Arg(1))
	if err != nil {
		return err
	}
	c, err := memchan.OpenReceiver(*objName)
	if err != nil {
		return err
	}
	defer c.Close()
	message, err := c.ReadMessage()
	if err != nil {
		return err
	}
	if !bytes.Equal(expected, message) {
		return fmt.Errorf("received message does not match the expected data")
	}
	return nil
}

func destroy() error {
	return memchan.DestroyChannel(*objName)
}

func runCommand() error {
	switch flag.Arg(0) {
	case "send":
		return send()
	case "recv":
		return recv()
	case "destroy":
		return destroy()
	default:
		return fmt.Errorf("unknown command")
	}
}

func main() {
	flag.Parse()
	if len(*objName) == 0 || flag.NArg() == 0 {
		fmt.Print(usage)
		flag.Usage()
		os.Exit(1)
	}
	if err := runCommand(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
