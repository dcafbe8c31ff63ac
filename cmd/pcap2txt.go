// Copyright (c) Ilia Kravets, 2015. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/gopacket"
	"github.com/jessevdk/go-flags"
	"github.com/kr/pretty"

	"my/mdf/capture"
	"my/mdf/errs"
	"my/mdf/packet"
	"my/mdf/packet/kospi"
)

type cmdPcap2txt struct {
	InputFileName  string `long:"input" short:"i" required:"y" value-name:"PCAP_FILE" description:"input pcap file to read"`
	OutputFileName string `long:"output" short:"o" value-name:"FILE" default:"/dev/stdout" default-mask:"stdout" description:"output file"`
	Zone           string `long:"zone" value-name:"TZ" default:"Asia/Seoul" description:"time zone of capture timestamps' time of day"`
	Pretty         bool   `long:"pretty" description:"dump every decoded quote field"`
	Count          int    `long:"count" short:"c" value-name:"NUM" description:"stop after NUM packets"`
	shouldExecute  bool
}

func (c *cmdPcap2txt) Execute(args []string) error {
	c.shouldExecute = true
	return nil
}

func (c *cmdPcap2txt) ConfigParser(parser *flags.Parser) {
	parser.AddCommand("pcap2txt", "convert pcap file to human-readable text", "", c)
}

func (c *cmdPcap2txt) ParsingFinished() (err error) {
	if !c.shouldExecute {
		return
	}
	defer errs.PassE(&err)
	loc, err := packet.LoadZone(c.Zone)
	errs.CheckE(err)
	inFile, err := os.Open(c.InputFileName)
	errs.CheckE(err)
	defer inFile.Close()
	outFile, err := createOutput(c.OutputFileName)
	errs.CheckE(err)
	defer func() { errs.CheckE(closeOutput(outFile)) }()

	w := bufio.NewWriter(outFile)
	p := &packetPrinter{
		w:          w,
		normalizer: packet.NewNormalizer(loc),
		pretty:     c.Pretty,
		limit:      c.Count,
	}
	errs.CheckE(p.printAll(capture.NewReader(inFile, 0)))
	errs.CheckE(w.Flush())
	return
}

func init() {
	var c cmdPcap2txt
	Registry.Register(&c)
}

var errNoQuoteLayer = errors.New("no quote layer")

// packetPrinter relies on kospi registering the quote layer on the feed's UDP port.
type packetPrinter struct {
	w            io.Writer
	normalizer   *packet.Normalizer
	pretty       bool
	limit        int
	packetNumber int
}

func (p *packetPrinter) printAll(r *capture.Reader) (err error) {
	defer errs.PassE(&err)
	header, err := r.ReadHeader()
	errs.CheckE(err)
	_, err = fmt.Fprintf(p.w, "%s\n", header)
	errs.CheckE(err)

	source := gopacket.NewPacketSource(r, r.LinkType())
	source.DecodeOptions = gopacket.NoCopy
	for p.limit <= 0 || p.packetNumber < p.limit {
		pkt, err := source.NextPacket()
		if err == io.EOF {
			break
		}
		errs.CheckE(err)
		errs.CheckE(p.printPacket(pkt))
	}
	return
}

func (p *packetPrinter) printPacket(pkt gopacket.Packet) (err error) {
	defer errs.PassE(&err)
	p.packetNumber++
	md := pkt.Metadata()
	_, err = fmt.Fprintf(p.w, "%d %s %d bytes\n", p.packetNumber, md.Timestamp.Format("2006-01-02 15:04:05.000000"), md.CaptureLength)
	errs.CheckE(err)
	for _, l := range pkt.Layers() {
		_, err = fmt.Fprintf(p.w, "  %s\n", gopacket.LayerString(l))
		errs.CheckE(err)
	}
	ts := md.Timestamp
	captured, err := p.normalizer.Normalize(ts.Unix(), uint32(ts.Nanosecond()/1000))
	errs.CheckE(err)
	ql, ok := pkt.ApplicationLayer().(*kospi.QuoteLayer)
	switch {
	case !ok && pkt.ErrorLayer() != nil:
		_, err = fmt.Fprintf(p.w, "  not a quote: %v\n", pkt.ErrorLayer().Error())
	case !ok:
		_, err = fmt.Fprintf(p.w, "  not a quote: %v\n", errNoQuoteLayer)
	case p.pretty:
		_, err = fmt.Fprintf(p.w, "  %# v\n", pretty.Formatter(ql))
	default:
		_, err = fmt.Fprintf(p.w, "  %s\n", ql.Quote(captured, packet.OrderByCaptureTime))
	}
	errs.CheckE(err)
	return
}
