// Copyright (c) Ilia Kravets, 2015. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

package kospi

import (
	"fmt"

	"my/mdf/packet"
)

const (
	// HeaderLength is the Ethernet, IPv4 and UDP header prefix of every feed frame.
	HeaderLength = 14 + 20 + 8

	Marker       = "B6034"
	DataType     = "B6"
	InfoType     = "03"
	MarketType   = '4'
	MarkerLength = len(Marker)

	IssueCodeLength  = 12
	PriceLength      = 5
	QuantityLength   = 7
	VolumeLength     = 7
	ValidCountLength = 5
	QuoteCountLength = 4
	AcceptTimeLength = 8

	EndOfMessage = 0xff
)

// FieldSet selects which fields of the quote message are materialized. Both sets
// consume the same layout.
type FieldSet uint8

const (
	FieldsReduced FieldSet = iota
	FieldsFull
)

func (fs FieldSet) String() string {
	if fs == FieldsFull {
		return "full"
	}
	return "reduced"
}

func ParseFieldSet(s string) (FieldSet, error) {
	switch s {
	case "", "reduced":
		return FieldsReduced, nil
	case "full":
		return FieldsFull, nil
	}
	return 0, fmt.Errorf("unknown field set %q", s)
}

func (fs *FieldSet) UnmarshalText(text []byte) (err error) {
	*fs, err = ParseFieldSet(string(text))
	return
}

func (fs FieldSet) MarshalText() ([]byte, error) {
	return []byte(fs.String()), nil
}

type fieldSpec struct {
	name   string
	offset int
	width  int
	full   bool // materialized by FieldsFull only
	set    func(q *QuoteLayer, v string)
}

var (
	layout           []fieldSpec
	acceptTimeOffset int
	MessageLength    int
)

func init() {
	offset := MarkerLength
	add := func(name string, width int, full bool, set func(*QuoteLayer, string)) {
		layout = append(layout, fieldSpec{name: name, offset: offset, width: width, full: full, set: set})
		offset += width
	}
	add("IssueCode", IssueCodeLength, false, func(q *QuoteLayer, v string) { q.IssueCode = v })
	add("IssueSeqNo", 3, true, func(q *QuoteLayer, v string) { q.IssueSeqNo = v })
	add("MarketStatus", 2, true, func(q *QuoteLayer, v string) { q.MarketStatus = v })
	add("TotalBidVolume", VolumeLength, true, func(q *QuoteLayer, v string) { q.TotalBidVolume = v })
	for i := 0; i < packet.Depth; i++ {
		i := i
		add(fmt.Sprintf("BidPrice%d", i+1), PriceLength, false, func(q *QuoteLayer, v string) { q.Bids[i].Price = v })
		add(fmt.Sprintf("BidQuantity%d", i+1), QuantityLength, false, func(q *QuoteLayer, v string) { q.Bids[i].Quantity = v })
	}
	add("TotalAskVolume", VolumeLength, true, func(q *QuoteLayer, v string) { q.TotalAskVolume = v })
	for i := 0; i < packet.Depth; i++ {
		i := i
		add(fmt.Sprintf("AskPrice%d", i+1), PriceLength, false, func(q *QuoteLayer, v string) { q.Asks[i].Price = v })
		add(fmt.Sprintf("AskQuantity%d", i+1), QuantityLength, false, func(q *QuoteLayer, v string) { q.Asks[i].Quantity = v })
	}
	add("BidValidCount", ValidCountLength, true, func(q *QuoteLayer, v string) { q.BidValidCount = v })
	for i := 0; i < packet.Depth; i++ {
		i := i
		add(fmt.Sprintf("BidQuoteCount%d", i+1), QuoteCountLength, true, func(q *QuoteLayer, v string) { q.BidQuoteCounts[i] = v })
	}
	add("AskValidCount", ValidCountLength, true, func(q *QuoteLayer, v string) { q.AskValidCount = v })
	for i := 0; i < packet.Depth; i++ {
		i := i
		add(fmt.Sprintf("AskQuoteCount%d", i+1), QuoteCountLength, true, func(q *QuoteLayer, v string) { q.AskQuoteCounts[i] = v })
	}
	acceptTimeOffset = offset
	MessageLength = offset + AcceptTimeLength
}

// FieldOffset returns the offset of a named field from the start of the message, or -1.
func FieldOffset(name string) int {
	if name == "AcceptTime" {
		return acceptTimeOffset
	}
	for _, f := range layout {
		if f.name == name {
			return f.offset
		}
	}
	return -1
}
