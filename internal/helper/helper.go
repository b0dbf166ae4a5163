// Copyright 2016 Aleksandr Demakin. All rights reserved.

package helper

import (
	"os"

	"github.com/nxgtw/memchan/mmf"
	"github.com/nxgtw/memchan/shm"

	"github.com/pkg/errors"
)

// CreateWritableRegion is a helper, which:
//	- creates or opens a shared memory object with the given parameters.
//	- creates a read-write mapping for the entire object.
//	- closes the memory object and returns the mapping along with a flag,
//	  telling whether the object was created.
// The mapping of a created object is zeroed by the OS.
func CreateWritableRegion(name string, flag int, perm os.FileMode, size int) (*mmf.MemoryRegion, bool, error) {
	obj, created, resultErr := shm.NewMemoryObjectSize(name, flag, perm, int64(size))
	if resultErr != nil {
		return nil, false, errors.Wrap(resultErr, "failed to create shm object")
	}
	var region *mmf.MemoryRegion
	defer func() {
		obj.Close()
		if resultErr == nil {
			return
		}
		if region != nil {
			region.Close()
		}
		if created {
			obj.Destroy()
		}
	}()
	if region, resultErr = mmf.NewMemoryRegion(obj, mmf.MEM_READWRITE, 0, size); resultErr != nil {
		return nil, false, errors.Wrap(resultErr, "failed to create shm region")
	}
	return region, created, nil
}
