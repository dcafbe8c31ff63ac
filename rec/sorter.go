// Copyright (c) Ilia Kravets, 2015. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

package rec

import (
	"bufio"
	"io"

	"github.com/cznic/b"

	"my/mdf/errs"
	"my/mdf/packet"
)

const (
	DefaultCapacity  = 1 << 20
	outputBufferSize = 128 << 10
)

type SorterStats struct {
	Pushed  int
	Emitted int
	Windows int
}

// QuoteSorter buffers up to capacity quotes and writes them out, one line each,
// ordered by their ordering key within every buffered window. Quotes with equal
// keys keep their arrival order.
type QuoteSorter struct {
	w        *bufio.Writer
	capacity int
	window   *b.Tree
	seq      uint64
	line     []byte
	stats    SorterStats
}

type sortKey struct {
	time packet.TimeOfDay
	seq  uint64
}

func compareSortKeys(lhs, rhs interface{}) int {
	l, r := lhs.(sortKey), rhs.(sortKey)
	switch {
	case l.time < r.time:
		return -1
	case l.time > r.time:
		return 1
	case l.seq < r.seq:
		return -1
	case l.seq > r.seq:
		return 1
	}
	return 0
}

var _ packet.Handler = &QuoteSorter{}

func NewQuoteSorter(w io.Writer, capacity int) *QuoteSorter {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &QuoteSorter{
		w:        bufio.NewWriterSize(w, outputBufferSize),
		capacity: capacity,
		window:   b.TreeNew(compareSortKeys),
		line:     make([]byte, 0, 256),
	}
}

func (s *QuoteSorter) HandleQuote(q packet.Quote) (err error) {
	defer errs.PassE(&err)
	if s.window.Len() >= s.capacity {
		errs.CheckE(s.drain())
	}
	s.window.Set(sortKey{time: q.Key(), seq: s.seq}, q)
	s.seq++
	s.stats.Pushed++
	return
}

// Flush writes out everything still buffered and flushes the underlying writer.
func (s *QuoteSorter) Flush() (err error) {
	defer errs.PassE(&err)
	errs.CheckE(s.drain())
	errs.CheckE(s.w.Flush())
	return
}

func (s *QuoteSorter) Len() int {
	return s.window.Len()
}

func (s *QuoteSorter) Stats() SorterStats {
	return s.stats
}

func (s *QuoteSorter) drain() error {
	if s.window.Len() == 0 {
		return nil
	}
	if err := s.emitWindow(); err != nil {
		return err
	}
	s.window.Clear()
	s.stats.Windows++
	return nil
}

func (s *QuoteSorter) emitWindow() error {
	it, err := s.window.SeekFirst()
	if err != nil {
		return err
	}
	defer it.Close()
	for {
		_, v, err := it.Next()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		q := v.(packet.Quote)
		s.line = append(q.AppendText(s.line[:0]), '\n')
		if _, err := s.w.Write(s.line); err != nil {
			return err
		}
		s.stats.Emitted++
	}
}
