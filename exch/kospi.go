// Copyright (c) Ilia Kravets, 2015. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

package exch

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/lunixbochs/struc"

	"my/mdf/errs"
	"my/mdf/packet"
	"my/mdf/packet/kospi"
)

// QuoteMessage holds the field values of one B6034 message. Empty strings are sent
// as zero digits of the field's width.
type QuoteMessage struct {
	DataType       string
	InfoType       string
	MarketType     byte
	IssueCode      string
	IssueSeqNo     string
	MarketStatus   string
	TotalBidVolume string
	Bids           [packet.Depth]packet.Level
	TotalAskVolume string
	Asks           [packet.Depth]packet.Level
	BidValidCount  string
	BidQuoteCounts [packet.Depth]string
	AskValidCount  string
	AskQuoteCounts [packet.Depth]string
	AcceptTime     string
}

func NewQuoteMessage(issueCode string, acceptTime string) QuoteMessage {
	return QuoteMessage{
		DataType:   kospi.DataType,
		InfoType:   kospi.InfoType,
		MarketType: kospi.MarketType,
		IssueCode:  issueCode,
		AcceptTime: acceptTime,
	}
}

// AcceptTimeDigits renders t as the HHMMSSuu field, truncating to hundredths.
func AcceptTimeDigits(t packet.TimeOfDay) string {
	h, m, s, us := t.Clock()
	return fmt.Sprintf("%02d%02d%02d%02d", h, m, s, us/10000)
}

type quoteHead struct {
	DataType       string `struc:"[2]byte"`
	InfoType       string `struc:"[2]byte"`
	MarketType     byte
	IssueCode      string `struc:"[12]byte"`
	IssueSeqNo     string `struc:"[3]byte"`
	MarketStatus   string `struc:"[2]byte"`
	TotalBidVolume string `struc:"[7]byte"`
}
type quoteLevel struct {
	Price    string `struc:"[5]byte"`
	Quantity string `struc:"[7]byte"`
}
type quoteVolume struct {
	Total string `struc:"[7]byte"`
}
type quoteCounts struct {
	Valid  string `struc:"[5]byte"`
	Count1 string `struc:"[4]byte"`
	Count2 string `struc:"[4]byte"`
	Count3 string `struc:"[4]byte"`
	Count4 string `struc:"[4]byte"`
	Count5 string `struc:"[4]byte"`
}
type quoteTail struct {
	AcceptTime   string `struc:"[8]byte"`
	EndOfMessage uint8
}

// fixed returns v, or width zero digits for an empty v. Packing a longer or shorter
// string would shift every following field.
func fixed(v string, width int) string {
	if v == "" {
		return strings.Repeat("0", width)
	}
	errs.Check(len(v) == width, "field width", v, width)
	return v
}

// Bytes packs the message as the exchange sends it, including the end-of-message byte.
func (m *QuoteMessage) Bytes() (bs []byte, err error) {
	defer errs.PassE(&err)
	var bb bytes.Buffer
	head := quoteHead{
		DataType:       fixed(m.DataType, 2),
		InfoType:       fixed(m.InfoType, 2),
		MarketType:     m.MarketType,
		IssueCode:      fixed(m.IssueCode, kospi.IssueCodeLength),
		IssueSeqNo:     fixed(m.IssueSeqNo, 3),
		MarketStatus:   fixed(m.MarketStatus, 2),
		TotalBidVolume: fixed(m.TotalBidVolume, kospi.VolumeLength),
	}
	errs.CheckE(struc.Pack(&bb, &head))
	packLevels := func(levels *[packet.Depth]packet.Level) {
		for _, l := range levels {
			ql := quoteLevel{
				Price:    fixed(l.Price, kospi.PriceLength),
				Quantity: fixed(l.Quantity, kospi.QuantityLength),
			}
			errs.CheckE(struc.Pack(&bb, &ql))
		}
	}
	packCounts := func(valid string, counts *[packet.Depth]string) {
		qc := quoteCounts{
			Valid:  fixed(valid, kospi.ValidCountLength),
			Count1: fixed(counts[0], kospi.QuoteCountLength),
			Count2: fixed(counts[1], kospi.QuoteCountLength),
			Count3: fixed(counts[2], kospi.QuoteCountLength),
			Count4: fixed(counts[3], kospi.QuoteCountLength),
			Count5: fixed(counts[4], kospi.QuoteCountLength),
		}
		errs.CheckE(struc.Pack(&bb, &qc))
	}
	packLevels(&m.Bids)
	errs.CheckE(struc.Pack(&bb, &quoteVolume{Total: fixed(m.TotalAskVolume, kospi.VolumeLength)}))
	packLevels(&m.Asks)
	packCounts(m.BidValidCount, &m.BidQuoteCounts)
	packCounts(m.AskValidCount, &m.AskQuoteCounts)
	errs.CheckE(struc.Pack(&bb, &quoteTail{AcceptTime: fixed(m.AcceptTime, kospi.AcceptTimeLength), EndOfMessage: kospi.EndOfMessage}))
	errs.Check(bb.Len() == kospi.MessageLength+1, bb.Len())
	return bb.Bytes(), nil
}

var (
	feedSrcMAC = net.HardwareAddr{0x00, 0x1b, 0x21, 0x3a, 0x4f, 0x01}
	feedDstMAC = net.HardwareAddr{0x01, 0x00, 0x5e, 0x25, 0x2b, 0x01}
	feedSrcIP  = net.IPv4(192, 168, 10, 21)
	feedDstIP  = net.IPv4(233, 37, 54, 71)
)

const (
	FeedSrcPort layers.UDPPort = 21001
	FeedDstPort                = kospi.FeedPort
)

// Frame wraps payload in Ethernet, IPv4 and UDP headers (42 bytes, no IP options).
func Frame(payload []byte) (frame []byte, err error) {
	defer errs.PassE(&err)
	eth := layers.Ethernet{
		SrcMAC:       feedSrcMAC,
		DstMAC:       feedDstMAC,
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := layers.IPv4{
		Version:  4,
		TTL:      64,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    feedSrcIP,
		DstIP:    feedDstIP,
	}
	udp := layers.UDP{
		SrcPort: FeedSrcPort,
		DstPort: FeedDstPort,
	}
	errs.CheckE(udp.SetNetworkLayerForChecksum(&ip))
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	errs.CheckE(gopacket.SerializeLayers(buf, opts, &eth, &ip, &udp, gopacket.Payload(payload)))
	frame = buf.Bytes()
	errs.Check(len(frame) >= kospi.HeaderLength+len(payload), len(frame))
	return
}

// Packet is one captured frame.
type Packet struct {
	Timestamp time.Time
	Data      []byte
}

// WriteCapture writes packets as a microsecond libpcap file with Ethernet link type.
func WriteCapture(w io.Writer, packets []Packet) (err error) {
	defer errs.PassE(&err)
	pw := pcapgo.NewWriter(w)
	errs.CheckE(pw.WriteFileHeader(65536, layers.LinkTypeEthernet))
	for _, p := range packets {
		ci := gopacket.CaptureInfo{
			Timestamp:     p.Timestamp,
			CaptureLength: len(p.Data),
			Length:        len(p.Data),
		}
		errs.CheckE(pw.WritePacket(ci, p.Data))
	}
	return
}

// QuotePacket frames m and stamps it with ts.
func QuotePacket(ts time.Time, m QuoteMessage) (p Packet, err error) {
	defer errs.PassE(&err)
	body, err := m.Bytes()
	errs.CheckE(err)
	data, err := Frame(body)
	errs.CheckE(err)
	return Packet{Timestamp: ts, Data: data}, nil
}
