// Copyright 2015 Aleksandr Demakin. All rights reserved.

package shm

import (
	"os"
	"runtime"

	"github.com/nxgtw/memchan/internal/common"

	"github.com/pkg/errors"
)

// MemoryObject represents a named object, which can be used to
// map shared memory regions into the process' address space.
type MemoryObject struct {
	*memoryObject
}

// NewMemoryObject creates a new shared memory object.
//	name - a name of the object. should not contain '/' and exceed 255 symbols.
//	flag - a combination of open flags from 'os' package along with os.O_CREATE and os.O_EXCL.
//	perm - object's permission bits.
func NewMemoryObject(name string, flag int, perm os.FileMode) (*MemoryObject, error) {
	impl, err := newMemoryObject(name, flag, perm)
	if err != nil {
		return nil, err
	}
	result := &MemoryObject{impl}
	runtime.SetFinalizer(impl, func(obj *memoryObject) {
		obj.Close()
	})
	return result, nil
}

// NewMemoryObjectSize opens or creates a shared memory object with the given name.
// If the object was created, it is truncated to 'size'.
// Otherwise, checks, that the existing object is at least 'size' bytes long.
// Returns an object, a flag indicating whether it was created, and an error.
func NewMemoryObjectSize(name string, flag int, perm os.FileMode, size int64) (*MemoryObject, bool, error) {
	var obj *MemoryObject
	creator := func(create bool) error {
		creatorFlag := os.O_RDWR
		if create {
			creatorFlag |= os.O_CREATE | os.O_EXCL
		}
		var err error
		obj, err = NewMemoryObject(name, creatorFlag, perm)
		return err
	}
	created, resultErr := common.OpenOrCreate(creator, flag)
	if resultErr != nil {
		return nil, false, errors.Wrap(resultErr, "failed to open/create shm object")
	}
	if created {
		if resultErr = obj.Truncate(size); resultErr != nil {
			obj.Destroy()
			return nil, false, errors.Wrap(resultErr, "failed to truncate shm object")
		}
	} else if obj.Size() < size {
		obj.Close()
		return nil, false, errors.Errorf("existing object is too small (%d, needed %d)", obj.Size(), size)
	}
	return obj, created, nil
}

// DestroyMemoryObject removes the object with the given name.
func DestroyMemoryObject(name string) error {
	return destroyMemoryObject(name)
}
