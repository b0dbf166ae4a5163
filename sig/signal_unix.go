// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build freebsd || linux
// +build freebsd linux

package sig

import (
	"os"
	"time"

	"github.com/nxgtw/memchan/internal/allocator"
	"github.com/nxgtw/memchan/internal/common"
	"github.com/nxgtw/memchan/internal/helper"
	"github.com/nxgtw/memchan/mmf"
	"github.com/nxgtw/memchan/shm"

	"github.com/pkg/errors"
)

// signal is a lightweight signal over a futex cell in a shared memory region.
type signal struct {
	name   string
	region *mmf.MemoryRegion
	lws    *lwSignal
}

func newSignal(name string, flag int, perm os.FileMode) (*signal, error) {
	if err := common.EnsureOpenFlags(flag); err != nil {
		return nil, err
	}

	region, created, err := helper.CreateWritableRegion(signalName(name), flag, perm, lwSignalStateSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create shared state")
	}
	state := allocator.ByteSliceData(region.Data())
	result := &signal{
		lws:    newLightweightSignal(state, &futex{ptr: state}),
		name:   name,
		region: region,
	}
	if created {
		result.lws.init(false)
	}
	return result, nil
}

func (s *signal) raise() {
	s.lws.raise()
}

func (s *signal) wait() {
	s.waitTimeout(-1)
}

func (s *signal) waitTimeout(timeout time.Duration) bool {
	return s.lws.waitTimeout(timeout)
}

func (s *signal) close() error {
	return s.region.Close()
}

func (s *signal) destroy() error {
	if err := s.close(); err != nil {
		return errors.Wrap(err, "failed to close shm region")
	}
	return destroySignal(s.name)
}

func destroySignal(name string) error {
	err := shm.DestroyMemoryObject(signalName(name))
	if err != nil {
		return errors.Wrap(err, "failed to destroy memory object")
	}
	return nil
}
