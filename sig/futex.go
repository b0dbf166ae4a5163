// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build freebsd || linux
// +build freebsd linux

package sig

import (
	"time"
	"unsafe"

	"github.com/nxgtw/memchan/internal/common"

	"golang.org/x/sys/unix"
)

// futex implements waitWaker semantics over a uint32 memory cell,
// using the OS futex-like primitive for the actual sleeping.
type futex struct {
	ptr unsafe.Pointer
}

func (w *futex) wait(value uint32, timeout time.Duration) error {
	err := FutexWait(w.ptr, value, timeout, 0)
	if err != nil && common.SyscallErrHasCode(err, unix.EWOULDBLOCK) {
		// the cell no longer holds the expected value,
		// which is as good as a wakeup.
		return nil
	}
	return err
}

func (w *futex) wake(count uint32) (int, error) {
	return FutexWake(w.ptr, count, 0)
}
