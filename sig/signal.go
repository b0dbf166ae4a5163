// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package sig implements a named binary rendezvous signal, which can be
// shared between processes. A signal is either raised or not. Raise moves
// it into the raised state, Wait blocks until the signal is raised and
// auto-resets it, so exactly one waiter wakes per raise.
package sig

import (
	"os"
	"time"
)

// Signal is an interprocess notification primitive.
type Signal signal

// NewSignal creates a new interprocess signal.
// It uses the default implementation on the current platform.
//	name - object name.
//	flag - a combination of os.O_CREATE and os.O_EXCL flags from 'os' package.
//	perm - object's permission bits.
func NewSignal(name string, flag int, perm os.FileMode) (*Signal, error) {
	s, err := newSignal(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return (*Signal)(s), nil
}

// Raise moves the signal into the raised state, waking one waiter, if any.
func (s *Signal) Raise() {
	(*signal)(s).raise()
}

// Wait blocks until the signal is raised, then resets it.
func (s *Signal) Wait() {
	(*signal)(s).wait()
}

// WaitTimeout blocks until the signal is raised, but not longer, than timeout.
// It returns true, if the signal was raised and consumed by this call.
// A negative timeout means no timeout.
func (s *Signal) WaitTimeout(timeout time.Duration) bool {
	return (*signal)(s).waitTimeout(timeout)
}

// Close closes the signal releasing its process-local resources.
func (s *Signal) Close() error {
	return (*signal)(s).close()
}

// Destroy permanently destroys the signal.
func (s *Signal) Destroy() error {
	return (*signal)(s).destroy()
}

// DestroySignal permanently destroys a signal with the given name.
// It is not an error if the signal does not exist.
func DestroySignal(name string) error {
	return destroySignal(name)
}

func signalName(baseName string) string {
	return baseName + ".sig"
}
