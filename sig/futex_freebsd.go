// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build freebsd
// +build freebsd

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
	cUMTX_OP_WAIT_UINT = 0xb
	cUMTX_OP_WAKE      = 0x3
)

// FutexWait checks if the value equals futex's value.
// If it doesn't, FutexWait returns immediately.
// Otherwise, it waits for the FutexWake call on the futex for not longer, than timeout.
func FutexWait(addr unsafe.Pointer, value uint32, timeout time.Duration, flags int32) error {
	fun := func() error {
		ts := common.TimeoutToTimeSpec(timeout)
		_, err := sysUmtxOp(addr, int32(cUMTX_OP_WAIT_UINT)|flags, value, nil, unsafe.Pointer(ts))
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
		woken, err = sysUmtxOp(addr, int32(cUMTX_OP_WAKE)|flags, count, nil, nil)
		return err
	}
	err := common.UninterruptedSyscall(fun)
	if err != nil {
		return 0, err
	}
	return int(woken), nil
}

// syscalls

func sysUmtxOp(addr unsafe.Pointer, mode int32, val uint32, uaddr, ts unsafe.Pointer) (int32, error) {
	r1, _, err := unix.Syscall6(unix.SYS__UMTX_OP,
		uintptr(addr),
		uintptr(mode),
		uintptr(val),
		uintptr(uaddr),
		uintptr(ts),
		uintptr(0))
	allocator.Use(addr)
	allocator.Use(ts)
	if err != syscall.Errno(0) {
		return 0, os.NewSyscallError("UMTX_OP", err)
	}
	return int32(r1), nil
}
