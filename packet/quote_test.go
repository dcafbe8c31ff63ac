// Copyright (c) Ilia Kravets, 2015. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

package packet

import (
	"errors"
	"testing"
)

func TestCompare(t *testing.T) {
	a := Quote{CaptureTime: 10 * Second, AcceptTime: 9 * Second, IssueCode: "A"}
	b := Quote{CaptureTime: 11 * Second, AcceptTime: 8 * Second, IssueCode: "B"}
	if Compare(&a, &b) != -1 || Compare(&b, &a) != 1 {
		t.Errorf("capture ordering")
	}
	a.Ordering, b.Ordering = OrderByAcceptTime, OrderByAcceptTime
	if Compare(&a, &b) != 1 || Compare(&b, &a) != -1 {
		t.Errorf("accept ordering")
	}
	b.AcceptTime = a.AcceptTime
	if Compare(&a, &b) != 0 {
		t.Errorf("equal keys must compare equal")
	}
}

func TestParseOrdering(t *testing.T) {
	for in, want := range map[string]Ordering{
		"capture": OrderByCaptureTime,
		"packet":  OrderByCaptureTime,
		"Accept":  OrderByAcceptTime,
		" accept": OrderByAcceptTime,
	} {
		got, err := ParseOrdering(in)
		if err != nil || got != want {
			t.Errorf("%q: got %v %v", in, got, err)
		}
	}
	if _, err := ParseOrdering("arrival"); !errors.Is(err, ErrUnknownOrdering) {
		t.Errorf("got %v", err)
	}
	var o Ordering
	if err := o.UnmarshalText([]byte("accept")); err != nil || o != OrderByAcceptTime {
		t.Errorf("UnmarshalText: %v %v", o, err)
	}
	if b, _ := o.MarshalText(); string(b) != "accept" {
		t.Errorf("MarshalText: %s", b)
	}
}

func TestQuoteText(t *testing.T) {
	q := Quote{
		CaptureTime: 9*Hour + 500*Millisecond + 999,
		AcceptTime:  9*Hour + 490*Millisecond,
		IssueCode:   "KR4101F30009",
	}
	for i := 0; i < Depth; i++ {
		q.Bids[i] = Level{Price: string(rune('1' + i)), Quantity: "b"}
		q.Asks[i] = Level{Price: string(rune('1' + i)), Quantity: "a"}
	}
	want := "09:00:00.500 09:00:00.490 KR4101F30009 b@5 b@4 b@3 b@2 b@1 a@1 a@2 a@3 a@4 a@5"
	if got := q.String(); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
	if got := q.Side(MarketSideAsk); len(got) != Depth || got[0].Price != "1" {
		t.Errorf("ask side %v", got)
	}
	if q.Side(MarketSideUnknown) != nil {
		t.Error("unknown side")
	}
}
