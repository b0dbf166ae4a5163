// Copyright 2016 Aleksandr Demakin. All rights reserved.

package common

import (
	"os"

	"github.com/pkg/errors"
)

// OpenOrCreate performs open/create actions according to the given
// combination of os.O_CREATE and os.O_EXCL flags.
// creator is expected to try to create an object if its argument is true,
// and to try to open an existing object otherwise.
// It returns true, if the object was created by this call.
func OpenOrCreate(creator func(create bool) error, flag int) (bool, error) {
	switch flag & (os.O_CREATE | os.O_EXCL) {
	case 0:
		return false, creator(false)
	case os.O_CREATE | os.O_EXCL:
		if err := creator(true); err != nil {
			return false, err
		}
		return true, nil
	case os.O_CREATE:
		// open-or-create must survive a concurrent create/destroy race
		// on the other side, so both steps are retried a few times.
		const attempts = 16
		var err error
		for attempt := 0; attempt < attempts; attempt++ {
			if err = creator(true); !os.IsExist(err) {
				return true, err
			}
			if err = creator(false); !os.IsNotExist(err) {
				return false, err
			}
		}
		return false, err
	default:
		return false, errors.New("O_EXCL without O_CREATE is not a valid open mode")
	}
}

// EnsureOpenFlags checks, that no flags other than os.O_CREATE and os.O_EXCL
// are set. Objects are always opened for reading and writing.
func EnsureOpenFlags(flag int) error {
	if flag & ^(os.O_CREATE|os.O_EXCL) != 0 {
		return errors.New("only os.O_CREATE and os.O_EXCL flags are allowed")
	}
	return nil
}
