// Copyright (c) Ilia Kravets, 2015. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

package kospi

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"my/mdf/capture"
	"my/mdf/packet"
)

var LayerTypeQuote = gopacket.RegisterLayerType(13000, gopacket.LayerTypeMetadata{Name: "KospiQuote", Decoder: gopacket.DecodeFunc(decodeQuote)})

// FeedPort is the UDP destination port of the best-5 quote feed.
const FeedPort layers.UDPPort = 15515

func init() {
	layers.RegisterUDPPortLayerType(FeedPort, LayerTypeQuote)
}

var (
	ErrNotEthernet   = errors.New("link type is not ethernet")
	ErrTruncated     = errors.New("quote message truncated")
	ErrNotQuote      = errors.New("not a quote message")
	ErrBadEncoding   = errors.New("invalid utf-8 in quote field")
	ErrBadAcceptTime = packet.ErrBadAcceptTime
)

// QuoteLayer is the KOSPI200 best-5 quote message (B6034) carried in the UDP payload.
type QuoteLayer struct {
	layers.BaseLayer
	Fields FieldSet

	IssueCode  string
	Bids       [packet.Depth]packet.Level
	Asks       [packet.Depth]packet.Level
	AcceptTime packet.TimeOfDay

	// FieldsFull only
	IssueSeqNo     string
	MarketStatus   string
	TotalBidVolume string
	TotalAskVolume string
	BidValidCount  string
	AskValidCount  string
	BidQuoteCounts [packet.Depth]string
	AskQuoteCounts [packet.Depth]string
}

var (
	_ gopacket.Layer         = &QuoteLayer{}
	_ gopacket.DecodingLayer = &QuoteLayer{}
)

func (q *QuoteLayer) LayerType() gopacket.LayerType {
	return LayerTypeQuote
}
func (q *QuoteLayer) CanDecode() gopacket.LayerClass {
	return LayerTypeQuote
}
func (q *QuoteLayer) NextLayerType() gopacket.LayerType {
	return gopacket.LayerTypeZero
}

func (q *QuoteLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < MarkerLength {
		df.SetTruncated()
		return ErrTruncated
	}
	if string(data[:MarkerLength]) != Marker {
		return fmt.Errorf("%w: %q", ErrNotQuote, data[:MarkerLength])
	}
	if len(data) < MessageLength {
		df.SetTruncated()
		return fmt.Errorf("%w: %d of %d bytes", ErrTruncated, len(data), MessageLength)
	}
	*q = QuoteLayer{
		Fields:    q.Fields,
		BaseLayer: layers.BaseLayer{Contents: data[:MessageLength], Payload: data[MessageLength:]},
	}
	for _, f := range layout {
		if f.full && q.Fields != FieldsFull {
			continue
		}
		v := data[f.offset : f.offset+f.width]
		if !utf8.Valid(v) {
			return fmt.Errorf("%w: %s %q", ErrBadEncoding, f.name, v)
		}
		f.set(q, string(v))
	}
	var err error
	q.AcceptTime, err = packet.ParseAcceptTime(data[acceptTimeOffset : acceptTimeOffset+AcceptTimeLength])
	return err
}

// Quote builds the record for a decoded message.
func (q *QuoteLayer) Quote(captured packet.TimeOfDay, ordering packet.Ordering) packet.Quote {
	return packet.Quote{
		CaptureTime: captured,
		AcceptTime:  q.AcceptTime,
		IssueCode:   q.IssueCode,
		Bids:        q.Bids,
		Asks:        q.Asks,
		Ordering:    ordering,
	}
}

func decodeQuote(data []byte, p gopacket.PacketBuilder) error {
	q := &QuoteLayer{Fields: FieldsFull}
	if err := q.DecodeFromBytes(data, p); err != nil {
		return err
	}
	p.AddLayer(q)
	p.SetApplicationLayer(q)
	return nil
}

// Payload makes QuoteLayer an application layer; it is the raw message.
func (q *QuoteLayer) Payload() []byte {
	return q.Contents
}

/************************************************************************/

// Decoder extracts quotes from captured Ethernet frames. Frames that are not quote
// messages are rejected with one of the sentinel errors above; none of them is fatal.
type Decoder struct {
	linkType layers.LinkType
	ordering packet.Ordering
	layer    QuoteLayer
}

var _ packet.Decoder = &Decoder{}

func NewDecoder(ordering packet.Ordering, fields FieldSet) *Decoder {
	return &Decoder{
		linkType: layers.LinkTypeEthernet,
		ordering: ordering,
		layer:    QuoteLayer{Fields: fields},
	}
}

func (d *Decoder) SetFileHeader(h capture.FileHeader) {
	d.linkType = h.LinkType()
}

func (d *Decoder) Decode(frame []byte, captured packet.TimeOfDay) (q packet.Quote, err error) {
	if d.linkType != layers.LinkTypeEthernet {
		return q, fmt.Errorf("%w: %v", ErrNotEthernet, d.linkType)
	}
	if len(frame) < HeaderLength {
		return q, fmt.Errorf("%w: frame of %d bytes", ErrTruncated, len(frame))
	}
	if err = d.layer.DecodeFromBytes(frame[HeaderLength:], gopacket.NilDecodeFeedback); err != nil {
		return
	}
	return d.layer.Quote(captured, d.ordering), nil
}

// Layer returns the last decoded message, including FieldsFull fields when enabled.
func (d *Decoder) Layer() *QuoteLayer {
	return &d.layer
}
