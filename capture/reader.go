// Copyright (c) Ilia Kravets, 2015. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

package capture

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

const (
	DefaultCapacity = 65536
	// pcapgo keeps a smaller bufio.Reader wrapped in its own buffer, which would hide
	// how far it has read.
	minCapacity = 4096
	// same limit bufio applies to its own refills
	maxEmptyReads = 100
)

var (
	magicNG   = []byte{0x0a, 0x0d, 0x0d, 0x0a}
	magicGzip = []byte{0x1f, 0x8b}
)

// countingReader counts the bytes and reads taken from the source. A source that
// keeps returning no data and no error fails with io.ErrNoProgress.
type countingReader struct {
	r     io.Reader
	n     int64
	reads int
	empty int
	err   error
}

func (c *countingReader) Read(p []byte) (n int, err error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err = c.r.Read(p)
	c.n += int64(n)
	c.reads++
	if n == 0 && err == nil && len(p) > 0 {
		if c.empty++; c.empty >= maxEmptyReads {
			err = io.ErrNoProgress
		}
	} else {
		c.empty = 0
	}
	if err != nil && err != io.EOF {
		c.err = err
	}
	return
}

type readerState uint8

const (
	stateHeader readerState = iota
	stateRecords
	stateNG
)

// Reader splits a libpcap stream into blocks on top of pcapgo. The source is read in
// chunks of the reader's capacity; block offsets are positions in the (decompressed)
// capture file.
type Reader struct {
	src      io.Reader
	capacity int
	counter  *countingReader
	buf      *bufio.Reader
	pr       *pcapgo.Reader
	offset   int64
	state    readerState
	header   FileHeader
	index    int
	err      error
}

var (
	_ gopacket.PacketDataSource         = &Reader{}
	_ gopacket.ZeroCopyPacketDataSource = &Reader{}
)

func NewReader(src io.Reader, capacity int) *Reader {
	if capacity <= 0 {
		capacity = DefaultCapacity
	} else if capacity < minCapacity {
		capacity = minCapacity
	}
	return &Reader{
		src:      src,
		capacity: capacity,
	}
}

// Next returns the next block or io.EOF. Any other error is a *BlockError and is
// returned again by every later call.
func (r *Reader) Next() (blk Block, err error) {
	if r.err != nil {
		return Block{}, r.err
	}
	var n int64
	switch r.state {
	case stateHeader:
		n, blk, err = r.readHeader()
	case stateRecords:
		n, blk, err = r.readRecord()
	default:
		err = ErrUnsupportedNG
	}
	if err != nil {
		if err != io.EOF {
			err = &BlockError{Index: r.index, Offset: r.offset, Err: err}
		}
		r.err = err
		return Block{}, err
	}
	blk.Index = r.index
	blk.Offset = r.offset
	r.index++
	r.offset += n
	return blk, nil
}

func (r *Reader) attach(src io.Reader) {
	r.counter = &countingReader{r: src}
	r.buf = bufio.NewReaderSize(r.counter, r.capacity)
}

// consumed is the number of bytes pcapgo has taken from the buffered stream.
func (r *Reader) consumed() int64 {
	return r.counter.n - int64(r.buf.Buffered())
}

func (r *Reader) readHeader() (n int64, blk Block, err error) {
	r.attach(r.src)
	magic, err := r.buf.Peek(len(magicNG))
	if err != nil && err != io.EOF {
		return 0, blk, err
	}
	if bytes.HasPrefix(magic, magicGzip) {
		zr, err := gzip.NewReader(r.buf)
		if err != nil {
			return 0, blk, fmt.Errorf("%w: %v", ErrBadHeader, err)
		}
		r.attach(zr)
		if magic, err = r.buf.Peek(len(magicNG)); err != nil && err != io.EOF {
			return 0, blk, err
		}
	}
	if bytes.Equal(magic, magicNG) {
		r.state = stateNG
		return 0, Block{Kind: BlockNG}, nil
	}
	if len(magic) < len(magicNG) {
		return 0, blk, fmt.Errorf("%w: %d bytes", ErrTruncated, len(magic))
	}
	if r.pr, err = pcapgo.NewReader(r.buf); err != nil {
		return 0, blk, r.classify(err, "header")
	}
	h := FileHeader{
		Link:       r.pr.LinkType(),
		SnapLen:    r.pr.Snaplen(),
		Resolution: MicroResolution,
	}
	if r.pr.Resolution().ToDuration() == time.Nanosecond {
		h.Resolution = NanoResolution
	}
	r.header = h
	r.state = stateRecords
	return fileHeaderLength, Block{Kind: BlockHeader, Header: h}, nil
}

func (r *Reader) readRecord() (n int64, blk Block, err error) {
	data, ci, err := r.pr.ReadPacketData()
	n = recordHeaderLength + int64(ci.CaptureLength)
	switch {
	case err == io.EOF && r.consumed() == r.offset:
		return 0, blk, io.EOF
	case err == io.EOF:
		return 0, blk, fmt.Errorf("%w: record of %d bytes", ErrTruncated, n)
	case err != nil && ci.CaptureLength != 0 && (ci.CaptureLength > int(r.header.SnapLen) || ci.CaptureLength > ci.Length):
		return 0, blk, fmt.Errorf("%w: %v", ErrCaptureLength, err)
	case err != nil:
		return 0, blk, r.classify(err, "record")
	case ci.CaptureLength > ci.Length:
		return 0, blk, fmt.Errorf("%w: %d > original %d", ErrCaptureLength, ci.CaptureLength, ci.Length)
	}
	return n, Block{Kind: BlockLegacy, Record: Record{CaptureInfo: ci, Data: data}}, nil
}

// classify maps pcapgo failures onto the block error kinds. pcapgo reports format
// problems as plain strings, so anything that is neither a short read nor a source
// failure is a format problem.
func (r *Reader) classify(err error, what string) error {
	switch {
	case err == io.EOF || err == io.ErrUnexpectedEOF:
		return fmt.Errorf("%w: short %s", ErrTruncated, what)
	case r.counter.err != nil || errors.Is(err, io.ErrNoProgress):
		return err
	case what == "header":
		return fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	return err
}

// Header returns the file header; it is zero until the header block has been read.
func (r *Reader) Header() FileHeader {
	return r.header
}

// ReadHeader advances past the file header if it has not been read yet.
func (r *Reader) ReadHeader() (FileHeader, error) {
	if r.state != stateHeader {
		return r.header, nil
	}
	blk, err := r.Next()
	if err != nil {
		return FileHeader{}, err
	}
	if blk.Kind == BlockNG {
		return FileHeader{}, &BlockError{Index: blk.Index, Offset: blk.Offset, Err: ErrUnsupportedNG}
	}
	return blk.Header, nil
}

// Refills reports how many reads were issued to the source.
func (r *Reader) Refills() int {
	if r.counter == nil {
		return 0
	}
	return r.counter.reads
}

func (r *Reader) LinkType() layers.LinkType {
	return r.header.LinkType()
}

// ZeroCopyReadPacketData skips the header block; pcapgo hands out a fresh slice per
// record, so the data is never overwritten.
func (r *Reader) ZeroCopyReadPacketData() (data []byte, ci gopacket.CaptureInfo, err error) {
	for {
		var blk Block
		if blk, err = r.Next(); err != nil {
			return
		}
		if blk.Kind == BlockLegacy {
			return blk.Record.Data, blk.Record.CaptureInfo, nil
		}
	}
}

func (r *Reader) ReadPacketData() (data []byte, ci gopacket.CaptureInfo, err error) {
	return r.ZeroCopyReadPacketData()
}
