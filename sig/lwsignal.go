// Copyright 2016 Aleksandr Demakin. All rights reserved.

package sig

import (
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/nxgtw/memchan/internal/common"
)

const (
	lwSignalStateSize = int(unsafe.Sizeof(uint32(0)))

	lwSignalLowered = 0
	lwSignalRaised  = 1
)

// waitWaker is an object, which implements wake/wait semantics
// over a uint32 memory cell.
type waitWaker interface {
	wake(count uint32) (int, error)
	wait(value uint32, timeout time.Duration) error
}

// lwSignal is a lightweight signal implementation operating on a uint32
// memory cell. It tries to minimize the amount of syscalls.
// Actual wait/wake must be implemented by a waitWaker object.
type lwSignal struct {
	state *uint32
	ww    waitWaker
}

func newLightweightSignal(state unsafe.Pointer, ww waitWaker) *lwSignal {
	return &lwSignal{state: (*uint32)(state), ww: ww}
}

func (s *lwSignal) init(raised bool) {
	value := uint32(lwSignalLowered)
	if raised {
		value = lwSignalRaised
	}
	atomic.StoreUint32(s.state, value)
}

func (s *lwSignal) raise() {
	if atomic.SwapUint32(s.state, lwSignalRaised) == lwSignalLowered {
		if _, err := s.ww.wake(1); err != nil {
			panic(err)
		}
	}
}

func (s *lwSignal) waitTimeout(timeout time.Duration) bool {
	for {
		if atomic.CompareAndSwapUint32(s.state, lwSignalRaised, lwSignalLowered) {
			return true
		}
		if err := s.ww.wait(lwSignalLowered, timeout); err != nil {
			if common.IsTimeoutErr(err) {
				return false
			}
			panic(err)
		}
	}
}
