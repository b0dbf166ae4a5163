// Copyright 2015 Aleksandr Demakin. All rights reserved.

package testutil

import (
	"encoding/hex"
	"strings"
)

// StringToBytes takes an input string in a 2-hex-symbol per byte format
// and returns the corresponding byte array.
func StringToBytes(input string) ([]byte, error) {
	return hex.DecodeString(strings.ToLower(input))
}

// BytesToString converts a byte slice into its hex string representation,
// 2 upper-case symbols per byte.
func BytesToString(data []byte) string {
	return strings.ToUpper(hex.EncodeToString(data))
}
