// Copyright (c) Ilia Kravets, 2015. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

package cmd

import (
	"log"
	"os"

	"github.com/jessevdk/go-flags"

	"my/mdf/capture"
	"my/mdf/conf"
	"my/mdf/errs"
	"my/mdf/packet"
	"my/mdf/packet/kospi"
	"my/mdf/packet/processor"
	"my/mdf/rec"
)

type cmdQuotes struct {
	InputFileName  string `long:"input" short:"i" required:"y" value-name:"PCAP_FILE" description:"input pcap file to read"`
	OutputFileName string `long:"output" short:"o" value-name:"FILE" default:"/dev/stdout" default-mask:"stdout" description:"output file"`
	ConfigFileName string `long:"config" value-name:"YAML_FILE" description:"pipeline settings; flags take precedence"`
	AcceptOrder    bool   `long:"accept-order" short:"r" description:"order by quote accept time (same as --order=accept)"`
	Order          string `long:"order" choice:"capture" choice:"accept" description:"time field to order quotes by (default: capture)"`
	Capacity       int    `long:"capacity" short:"C" value-name:"NUM" description:"reorder window size in quotes"`
	Zone           string `long:"zone" value-name:"TZ" description:"time zone of capture timestamps' time of day (default: Asia/Seoul)"`
	Fields         string `long:"fields" choice:"reduced" choice:"full" description:"quote fields to decode"`
	ReadBuffer     int    `long:"read-buffer" value-name:"BYTES" description:"initial capture read buffer size"`
	Count          int    `long:"count" short:"c" value-name:"NUM" description:"stop after NUM packets"`
	shouldExecute  bool
}

func (c *cmdQuotes) Execute(args []string) error {
	c.shouldExecute = true
	return nil
}

func (c *cmdQuotes) ConfigParser(parser *flags.Parser) {
	parser.AddCommand("quotes", "print KOSPI200 quotes from a pcap file", "", c)
}

// config merges the optional config file with the flags given.
func (c *cmdQuotes) config() (cfg conf.Config, err error) {
	defer errs.PassE(&err)
	cfg = conf.Default()
	if c.ConfigFileName != "" {
		cfg, err = conf.Load(c.ConfigFileName)
		errs.CheckE(err)
	}
	if c.Order != "" {
		cfg.Ordering, err = packet.ParseOrdering(c.Order)
		errs.CheckE(err)
	}
	if c.AcceptOrder {
		cfg.Ordering = packet.OrderByAcceptTime
	}
	if c.Capacity != 0 {
		cfg.Capacity = c.Capacity
	}
	if c.Zone != "" {
		cfg.Zone = c.Zone
	}
	if c.Fields != "" {
		cfg.Fields, err = kospi.ParseFieldSet(c.Fields)
		errs.CheckE(err)
	}
	if c.ReadBuffer != 0 {
		cfg.ReadBuffer = c.ReadBuffer
	}
	if c.Count != 0 {
		cfg.Count = c.Count
	}
	errs.CheckE(cfg.Validate())
	return
}

func (c *cmdQuotes) ParsingFinished() (err error) {
	if !c.shouldExecute {
		return
	}
	defer errs.PassE(&err)
	cfg, err := c.config()
	errs.CheckE(err)
	loc, err := packet.LoadZone(cfg.Zone)
	errs.CheckE(err)

	inFile, err := os.Open(c.InputFileName)
	errs.CheckE(err)
	defer inFile.Close()
	outFile, err := createOutput(c.OutputFileName)
	errs.CheckE(err)
	defer func() { errs.CheckE(closeOutput(outFile)) }()

	reader := capture.NewReader(inFile, cfg.ReadBuffer)
	sorter := rec.NewQuoteSorter(outFile, cfg.Capacity)
	pp := processor.NewProcessor()
	pp.SetObtainer(reader)
	pp.SetNormalizer(packet.NewNormalizer(loc))
	pp.SetDecoder(kospi.NewDecoder(cfg.Ordering, cfg.Fields))
	pp.SetHandler(sorter)
	pp.LimitPacketNumber(cfg.Count)
	errs.CheckE(pp.ProcessAll())
	st := sorter.Stats()
	log.Printf("ordered by %s time: %d quotes in %d windows of up to %d, %d read buffer refills\n",
		cfg.Ordering, st.Emitted, st.Windows, cfg.Capacity, reader.Refills())
	return
}

func init() {
	var c cmdQuotes
	Registry.Register(&c)
}
