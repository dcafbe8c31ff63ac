// Copyright (c) Ilia Kravets, 2015. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

package capture

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

type BlockKind uint8

const (
	BlockUnknown BlockKind = iota
	BlockHeader
	BlockLegacy
	BlockNG
)

func (k BlockKind) String() string {
	switch k {
	case BlockHeader:
		return "header"
	case BlockLegacy:
		return "legacy"
	case BlockNG:
		return "ng"
	default:
		return "unknown"
	}
}

// Resolution is the number of timestamp fraction units per second.
type Resolution uint32

const (
	MicroResolution Resolution = 1000000
	NanoResolution  Resolution = 1000000000
)

const (
	fileHeaderLength   = 24
	recordHeaderLength = 16
)

var (
	ErrBadHeader     = errors.New("bad capture file header")
	ErrTruncated     = errors.New("capture file truncated")
	ErrCaptureLength = errors.New("record capture length out of bounds")
	ErrUnsupportedNG = errors.New("pcapng capture files are not supported")
)

type FileHeader struct {
	Link       layers.LinkType
	SnapLen    uint32
	Resolution Resolution
}

func (h FileHeader) LinkType() layers.LinkType {
	return h.Link
}

func (h FileHeader) String() string {
	return fmt.Sprintf("pcap snaplen %d link %v resolution %d/s", h.SnapLen, h.Link, h.Resolution)
}

// Record is one captured frame. Timestamps of nanosecond files keep their precision.
type Record struct {
	gopacket.CaptureInfo
	Data []byte
}

// Micros returns the sub-second part of the timestamp in whole microseconds.
func (r *Record) Micros() uint32 {
	return uint32(r.Timestamp.Nanosecond() / int(time.Microsecond))
}

// Block is one unit of the capture file. Header is set for BlockHeader, Record for
// BlockLegacy.
type Block struct {
	Kind   BlockKind
	Index  int
	Offset int64
	Header FileHeader
	Record Record
}

// BlockError reports a fatal structural problem at a given block.
type BlockError struct {
	Index  int
	Offset int64
	Err    error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("capture block %d at offset %d: %v", e.Index, e.Offset, e.Err)
}
func (e *BlockError) Unwrap() error {
	return e.Err
}
