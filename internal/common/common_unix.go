// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build freebsd || linux
// +build freebsd linux

package common

import (
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// TimeoutToTimeSpec converts a relative timeout into a unix.Timespec,
// returning nil for a negative (infinite) timeout.
func TimeoutToTimeSpec(timeout time.Duration) *unix.Timespec {
	if timeout >= 0 {
		ts := unix.NsecToTimespec(timeout.Nanoseconds())
		return &ts
	}
	return nil
}

// IsTimeoutErr returns true, if the given error is a timeout syscall error.
func IsTimeoutErr(err error) bool {
	return SyscallErrHasCode(err, unix.EAGAIN) || SyscallErrHasCode(err, unix.ETIMEDOUT)
}

// IsInterruptedSyscallErr returns true, if the given error is an interrupted syscall error.
func IsInterruptedSyscallErr(err error) bool {
	return SyscallErrHasCode(err, unix.EINTR)
}

// SyscallErrHasCode returns true, if the given error is an os.SyscallError
// with the given errno.
func SyscallErrHasCode(err error, code syscall.Errno) bool {
	if sysErr, ok := err.(*os.SyscallError); ok {
		if errno, ok := sysErr.Err.(syscall.Errno); ok {
			return errno == code
		}
	}
	return false
}

// UninterruptedSyscall runs a syscall, restarting it on EINTR.
func UninterruptedSyscall(f func() error) error {
	for {
		err := f()
		if !IsInterruptedSyscallErr(err) {
			return err
		}
	}
}
