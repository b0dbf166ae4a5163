// Copyright 2016 Aleksandr Demakin. All rights reserved.

package memchan

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayoutSizes(t *testing.T) {
	a := assert.New(t)
	a.Equal(os.Getpagesize(), RegionSize())
	a.Equal(RegionSize()-6, PayloadCapacity())
}

func TestLayoutTooSmall(t *testing.T) {
	a := assert.New(t)
	_, err := newChannelRegion(make([]byte, layoutPayload))
	a.Error(err)
}

func TestLayoutFieldOffsets(t *testing.T) {
	a := assert.New(t)
	data := make([]byte, testPageSize)
	region, err := newChannelRegion(data)
	if !a.NoError(err) {
		return
	}
	a.Equal(testPageSize-layoutPayload, region.capacity())

	region.setComplete(true)
	a.Equal(byte(1), data[layoutMessageComplete])
	a.True(region.complete())
	region.setComplete(false)
	a.Equal(byte(0), data[layoutMessageComplete])

	region.setChunkLen(0x0a0b0c0d)
	a.Equal(0x0a0b0c0d, region.chunkLen())
	// the counter occupies exactly the first four bytes.
	a.Equal(byte(0), data[layoutReserved])
	a.NotEqual(make([]byte, 4), data[:4])

	region.payload[0] = 0xff
	a.Equal(byte(0xff), data[layoutPayload])

	region.reset()
	a.True(region.atRest())
	a.Equal(make([]byte, layoutPayload), data[:layoutPayload])
}
