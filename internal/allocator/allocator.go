// Copyright 2015 Aleksandr Demakin. All rights reserved.

package allocator

import (
	"runtime"
	"unsafe"
)

// ByteSliceData returns a pointer to the data of the given byte slice.
func ByteSliceData(slice []byte) unsafe.Pointer {
	return unsafe.Pointer(unsafe.SliceData(slice))
}

// AdvancePointer adds shift value to 'p' pointer.
func AdvancePointer(p unsafe.Pointer, shift uintptr) unsafe.Pointer {
	return unsafe.Pointer(uintptr(p) + shift)
}

// Use ensures, that the object pointed by 'p' is alive at the moment of the call.
// It is typically called right after passing a pointer into a raw syscall.
func Use(p unsafe.Pointer) {
	runtime.KeepAlive(p)
}
