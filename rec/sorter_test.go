// Copyright (c) Ilia Kravets, 2015. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

package rec

import (
	"bytes"
	"errors"
	"math/rand"
	"sort"
	"strings"
	"testing"

	"my/mdf/packet"
)

func quoteAt(issue string, capture, accept packet.TimeOfDay, o packet.Ordering) packet.Quote {
	return packet.Quote{
		CaptureTime: capture,
		AcceptTime:  accept,
		IssueCode:   issue,
		Ordering:    o,
	}
}

func issues(out string) []string {
	var res []string
	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		if line == "" {
			continue
		}
		res = append(res, strings.Fields(line)[2])
	}
	return res
}

func push(t *testing.T, s *QuoteSorter, quotes ...packet.Quote) {
	t.Helper()
	for _, q := range quotes {
		if err := s.HandleQuote(q); err != nil {
			t.Fatal(err)
		}
	}
}

func TestSorterWindow(t *testing.T) {
	var buf bytes.Buffer
	s := NewQuoteSorter(&buf, 2)
	t1 := quoteAt("T1", 2*packet.Second, 0, packet.OrderByCaptureTime)
	t2 := quoteAt("T2", 1*packet.Second, 0, packet.OrderByCaptureTime)
	t3 := quoteAt("T3", 3*packet.Second, 0, packet.OrderByCaptureTime)
	push(t, s, t1, t2)
	if buf.Len() != 0 || s.Len() != 2 {
		t.Fatalf("emitted before the window filled")
	}
	push(t, s, t3)
	if s.Len() != 1 {
		t.Fatalf("window holds %d", s.Len())
	}
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(issues(buf.String()), " "); got != "T2 T1 T3" {
		t.Errorf("got %s", got)
	}
	if st := s.Stats(); st != (SorterStats{Pushed: 3, Emitted: 3, Windows: 2}) {
		t.Errorf("stats %+v", st)
	}
}

func TestSorterWindowBoundary(t *testing.T) {
	var buf bytes.Buffer
	s := NewQuoteSorter(&buf, 2)
	// a late quote is not reordered across an already drained window
	push(t, s,
		quoteAt("A", 5*packet.Second, 0, packet.OrderByCaptureTime),
		quoteAt("B", 6*packet.Second, 0, packet.OrderByCaptureTime),
		quoteAt("C", 1*packet.Second, 0, packet.OrderByCaptureTime),
	)
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(issues(buf.String()), " "); got != "A B C" {
		t.Errorf("got %s", got)
	}
}

func TestSorterAcceptOrdering(t *testing.T) {
	var buf bytes.Buffer
	s := NewQuoteSorter(&buf, 0)
	push(t, s,
		quoteAt("X", 1*packet.Second, 30*packet.Millisecond, packet.OrderByAcceptTime),
		quoteAt("Y", 2*packet.Second, 10*packet.Millisecond, packet.OrderByAcceptTime),
		quoteAt("Z", 3*packet.Second, 20*packet.Millisecond, packet.OrderByAcceptTime),
	)
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(issues(buf.String()), " "); got != "Y Z X" {
		t.Errorf("got %s", got)
	}
}

func TestSorterStableTies(t *testing.T) {
	var buf bytes.Buffer
	s := NewQuoteSorter(&buf, 10)
	names := []string{"E0", "E1", "E2", "E3", "E4", "E5"}
	for i, n := range names {
		key := packet.Second
		if i%2 == 1 {
			key = 0
		}
		push(t, s, quoteAt(n, key, 0, packet.OrderByCaptureTime))
	}
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(issues(buf.String()), " "); got != "E1 E3 E5 E0 E2 E4" {
		t.Errorf("got %s", got)
	}
}

func TestSorterNoLoss(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for _, capacity := range []int{1, 3, 16, 1000} {
		var buf bytes.Buffer
		s := NewQuoteSorter(&buf, capacity)
		var keys []int
		for i := 0; i < 500; i++ {
			k := rnd.Intn(100)
			keys = append(keys, k)
			push(t, s, quoteAt("KR", packet.TimeOfDay(k)*packet.Millisecond, 0, packet.OrderByCaptureTime))
		}
		if err := s.Flush(); err != nil {
			t.Fatal(err)
		}
		lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
		if len(lines) != len(keys) {
			t.Fatalf("capacity %d: %d lines for %d quotes", capacity, len(lines), len(keys))
		}
		// every window comes out sorted
		for start := 0; start < len(lines); start += capacity {
			end := start + capacity
			if end > len(lines) {
				end = len(lines)
			}
			if !sort.StringsAreSorted(lines[start:end]) {
				t.Errorf("capacity %d: window at %d not sorted", capacity, start)
			}
		}
		if st := s.Stats(); st.Pushed != 500 || st.Emitted != 500 || st.Windows != (500+capacity-1)/capacity {
			t.Errorf("capacity %d: stats %+v", capacity, st)
		}
	}
}

type failingWriter struct{}

var errSink = errors.New("sink closed")

func (failingWriter) Write(p []byte) (int, error) { return 0, errSink }

func TestSorterSinkError(t *testing.T) {
	s := NewQuoteSorter(failingWriter{}, 1)
	push(t, s, quoteAt("A", 0, 0, packet.OrderByCaptureTime))
	if err := s.Flush(); !errors.Is(err, errSink) {
		t.Errorf("got %v", err)
	}
}
