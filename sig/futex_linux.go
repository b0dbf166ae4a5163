// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux
// +build linux

package sig

import (
	"os"
	"syscall"
	"time"
	"unsafe"

	"github.com/nxgtw/memchan/internal/allocator"
	"github.com/nxgtw/memchan/internal/common"

	"golang.org/x/sys/unix"
)

const (
	cFUTEX_WAIT = 0
	cFUTEX_WAKE = 1
)

// FutexWait checks if the value equals futex's value.
// If it doesn't, FutexWait returns EWOULDBLOCK.
// Otherwise, it waits for the FutexWake call on the futex for not longer, than timeout.
func FutexWait(addr unsafe.Pointer, value uint32, timeout time.Duration, flags int32) error {
	fun := func() error {
		ts := common.TimeoutToTimeSpec(timeout)
		_, err := futexSyscall(addr, cFUTEX_WAIT|flags, value, unsafe.Pointer(ts), nil, 0)
		return err
	}
	return common.UninterruptedSyscall(fun)
}

// FutexWake wakes count threads waiting on the futex.
// It returns the number of woken threads.
func FutexWake(addr unsafe.Pointer, count uint32, flags int32) (int, error) {
	var woken int32
	fun := func() error {
		var err error
		woken, err = futexSyscall(addr, cFUTEX_WAKE|flags, count, nil, nil, 0)
		return err
	}
	err := common.UninterruptedSyscall(fun)
	if err != nil {
		return 0, err
	}
	return int(woken), nil
}

// syscalls

func futexSyscall(addr unsafe.Pointer, op int32, val uint32, ts, addr2 unsafe.Pointer, val3 uint32) (int32, error) {
	r1, _, err := unix.Syscall6(unix.SYS_FUTEX,
		uintptr(addr),
		uintptr(op),
		uintptr(val),
		uintptr(ts),
		uintptr(addr2),
		uintptr(val3))
	allocator.Use(addr)
	allocator.Use(ts)
	if err != syscall.Errno(0) {
		return 0, os.NewSyscallError("FUTEX", err)
	}
	return int32(r1), nil
}
