// Copyright 2015 Aleksandr Demakin. All rights reserved.

//go:build freebsd
// +build freebsd

package shm

import (
	"os"
	"strings"
	"syscall"
	"unsafe"

	"github.com/nxgtw/memchan/internal/allocator"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const maxNameLen = 30

func doDestroyMemoryObject(path string) error {
	err := shmUnlink(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func shmName(name string) (string, error) {
	name = strings.TrimLeft(name, "/")
	if len(name) == 0 || len(name) >= maxNameLen || strings.Contains(name, "/") {
		return "", errors.New("invalid shm name")
	}
	return "/" + name, nil
}

func shmOpen(path string, flag int, perm os.FileMode) (*os.File, error) {
	fd, err := shmOpenSyscall(path, flag|unix.O_CLOEXEC, int(perm))
	if err != nil {
		return nil, err
	}
	return os.NewFile(fd, path), nil
}

// syscalls

func shmOpenSyscall(name string, flags, mode int) (uintptr, error) {
	nameBytes, err := unix.BytePtrFromString(name)
	if err != nil {
		return 0, err
	}
	bytes := unsafe.Pointer(nameBytes)
	fd, _, errno := unix.Syscall(unix.SYS_SHM_OPEN, uintptr(bytes), uintptr(flags), uintptr(mode))
	allocator.Use(bytes)
	if errno != syscall.Errno(0) {
		if errno == unix.ENOENT || errno == unix.EEXIST {
			return 0, &os.PathError{Path: name, Op: "shm_open", Err: errno}
		}
		return 0, errno
	}
	return fd, nil
}

func shmUnlink(name string) error {
	nameBytes, err := unix.BytePtrFromString(name)
	if err != nil {
		return err
	}
	bytes := unsafe.Pointer(nameBytes)
	_, _, errno := unix.Syscall(unix.SYS_SHM_UNLINK, uintptr(bytes), uintptr(0), uintptr(0))
	allocator.Use(bytes)
	if errno != syscall.Errno(0) {
		if errno == unix.ENOENT {
			return &os.PathError{Path: name, Op: "shm_unlink", Err: errno}
		}
		return errno
	}
	return nil
}
