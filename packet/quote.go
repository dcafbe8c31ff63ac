// Copyright (c) Ilia Kravets, 2015. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

package packet

// Quote is one decoded best-5 quote. Bids[0] and Asks[0] are the best levels.
// Quotes are passed by value and never modified once decoded.
type Quote struct {
	CaptureTime TimeOfDay
	AcceptTime  TimeOfDay
	IssueCode   string
	Bids        [Depth]Level
	Asks        [Depth]Level
	Ordering    Ordering
}

func (q *Quote) Key() TimeOfDay {
	return q.Ordering.Key(q)
}

// Compare orders quotes by the controlling time field of a only; quotes with equal
// keys compare equal whatever their other fields are.
func Compare(a, b *Quote) int {
	ka, kb := a.Key(), b.Key()
	switch {
	case ka < kb:
		return -1
	case ka > kb:
		return 1
	}
	return 0
}

func (q *Quote) Side(side MarketSide) []Level {
	switch side {
	case MarketSideBid:
		return q.Bids[:]
	case MarketSideAsk:
		return q.Asks[:]
	}
	return nil
}

// AppendText appends the output line without the trailing newline:
//
//	<capture> <accept> <issue> <bqty5>@<bprice5> ... <bqty1>@<bprice1> <aqty1>@<aprice1> ... <aqty5>@<aprice5>
func (q *Quote) AppendText(dst []byte) []byte {
	dst = q.CaptureTime.AppendMillis(dst)
	dst = append(dst, ' ')
	dst = q.AcceptTime.AppendText(dst)
	dst = append(dst, ' ')
	dst = append(dst, q.IssueCode...)
	bids := q.Side(MarketSideBid)
	for i := len(bids) - 1; i >= 0; i-- {
		dst = appendLevel(dst, bids[i])
	}
	for _, l := range q.Side(MarketSideAsk) {
		dst = appendLevel(dst, l)
	}
	return dst
}

func appendLevel(dst []byte, l Level) []byte {
	dst = append(dst, ' ')
	dst = append(dst, l.Quantity...)
	dst = append(dst, '@')
	return append(dst, l.Price...)
}

func (q Quote) String() string {
	return string(q.AppendText(make([]byte, 0, 192)))
}
