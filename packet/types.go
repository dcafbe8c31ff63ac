// Copyright (c) Ilia Kravets, 2014-2016. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

package packet

import (
	"errors"
	"fmt"
	"strings"
)

type MarketSide byte

const (
	MarketSideUnknown MarketSide = 0
	MarketSideBid     MarketSide = 'B'
	MarketSideAsk     MarketSide = 'A'
)

func (ms MarketSide) String() string {
	switch ms {
	case MarketSideBid:
		return "B"
	case MarketSideAsk:
		return "A"
	default:
		return "?"
	}
}

// Depth is the number of price levels disseminated per side.
const Depth = 5

// Level is one price level. Prices and quantities are kept as the exchange's
// zero-padded ASCII digits.
type Level struct {
	Price    string
	Quantity string
}

func (l Level) String() string {
	return l.Quantity + "@" + l.Price
}

// Ordering selects the time field quotes are ordered by.
type Ordering uint8

const (
	OrderByCaptureTime Ordering = iota
	OrderByAcceptTime
)

var ErrUnknownOrdering = errors.New("unknown ordering")

func (o Ordering) String() string {
	switch o {
	case OrderByCaptureTime:
		return "capture"
	case OrderByAcceptTime:
		return "accept"
	default:
		return fmt.Sprintf("Ordering(%d)", uint8(o))
	}
}

func ParseOrdering(s string) (Ordering, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "capture", "default", "packet":
		return OrderByCaptureTime, nil
	case "accept", "quote-accept", "quote_accept_time":
		return OrderByAcceptTime, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOrdering, s)
}

func (o *Ordering) UnmarshalText(text []byte) (err error) {
	*o, err = ParseOrdering(string(text))
	return
}

func (o Ordering) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Key returns the field of q that o orders by.
func (o Ordering) Key(q *Quote) TimeOfDay {
	if o == OrderByAcceptTime {
		return q.AcceptTime
	}
	return q.CaptureTime
}
