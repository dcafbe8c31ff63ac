// Copyright (c) Ilia Kravets, 2015. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

package cmd

import (
	"bufio"
	"log"

	"github.com/jessevdk/go-flags"

	"my/mdf/errs"
	"my/mdf/exch"
)

type cmdSynth struct {
	OutputFileName string `long:"output" short:"o" required:"y" value-name:"PCAP_FILE" description:"capture file to write"`
	Quotes         int    `long:"count" short:"c" value-name:"NUM" default:"1000" description:"number of quote messages"`
	NoiseEvery     int    `long:"noise-every" value-name:"NUM" default:"7" description:"make every NUM-th packet a non-quote (0: none)"`
	Seed           int64  `long:"seed" value-name:"NUM" default:"1" description:"random seed"`
	shouldExecute  bool
}

func (c *cmdSynth) Execute(args []string) error {
	c.shouldExecute = true
	return nil
}

func (c *cmdSynth) ConfigParser(parser *flags.Parser) {
	parser.AddCommand("synth", "write a synthetic KOSPI200 quote capture", "", c)
}

func (c *cmdSynth) ParsingFinished() (err error) {
	if !c.shouldExecute {
		return
	}
	defer errs.PassE(&err)
	cfg := exch.DefaultSynthConfig()
	cfg.Quotes = c.Quotes
	cfg.NoiseEvery = c.NoiseEvery
	cfg.Seed = c.Seed
	packets, err := exch.Synthesize(cfg)
	errs.CheckE(err)
	outFile, err := createOutput(c.OutputFileName)
	errs.CheckE(err)
	defer func() { errs.CheckE(closeOutput(outFile)) }()
	w := bufio.NewWriter(outFile)
	errs.CheckE(exch.WriteCapture(w, packets))
	errs.CheckE(w.Flush())
	log.Printf("wrote %d packets (%d quotes) to %s\n", len(packets), cfg.Quotes, c.OutputFileName)
	return
}

func init() {
	var c cmdSynth
	Registry.Register(&c)
}
