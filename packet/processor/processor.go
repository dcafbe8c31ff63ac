// Copyright (c) Ilia Kravets, 2015. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

package processor

import (
	"errors"
	"fmt"
	"io"
	"log"

	"my/mdf/capture"
	"my/mdf/errs"
	"my/mdf/packet"
)

var ErrUnsupportedBlock = errors.New("unsupported capture block")

const progressEvery = 1 << 20

type processor struct {
	obtainer       packet.Obtainer
	normalizer     *packet.Normalizer
	decoder        packet.Decoder
	handler        packet.Handler
	packetNumLimit int
	stats          packet.ProcessorStats
}

func NewProcessor() packet.Processor {
	return &processor{
		handler: &packet.NopHandler{},
		stats:   packet.ProcessorStats{Skipped: make(map[string]int)},
	}
}

func (p *processor) SetObtainer(o packet.Obtainer) {
	p.obtainer = o
}

func (p *processor) SetNormalizer(n *packet.Normalizer) {
	p.normalizer = n
}

func (p *processor) SetDecoder(d packet.Decoder) {
	p.decoder = d
}

func (p *processor) SetHandler(handler packet.Handler) {
	p.handler = handler
}

func (p *processor) LimitPacketNumber(limit int) {
	p.packetNumLimit = limit
}

func (p *processor) Stats() packet.ProcessorStats {
	return p.stats
}

// ProcessAll drives blocks from the obtainer through the decoder into the handler
// until the end of the capture. Quote rejections are counted and skipped; structural
// capture errors and handler errors abort processing. The handler is flushed once the
// capture (or the packet limit) is exhausted.
func (p *processor) ProcessAll() (err error) {
	defer errs.PassE(&err)
	errs.Check(p.obtainer != nil, "no obtainer")
	errs.Check(p.decoder != nil, "no decoder")
	if p.normalizer == nil {
		p.normalizer = packet.NewNormalizer(nil)
	}
	for p.packetNumLimit <= 0 || p.stats.Packets < p.packetNumLimit {
		blk, err := p.obtainer.Next()
		if err == io.EOF {
			break
		}
		errs.CheckE(err)
		p.stats.Blocks++
		switch blk.Kind {
		case capture.BlockHeader:
			p.decoder.SetFileHeader(blk.Header)
		case capture.BlockLegacy:
			errs.CheckE(p.processRecord(&blk))
		default:
			errs.CheckE(&capture.BlockError{
				Index:  blk.Index,
				Offset: blk.Offset,
				Err:    fmt.Errorf("%w: %v: %w", ErrUnsupportedBlock, blk.Kind, capture.ErrUnsupportedNG),
			})
		}
	}
	errs.CheckE(p.handler.Flush())
	log.Printf("processed %d blocks, %d packets, %d quotes, %d skipped %v\n",
		p.stats.Blocks, p.stats.Packets, p.stats.Quotes, p.stats.SkippedTotal(), p.stats.Skipped)
	return
}

func (p *processor) processRecord(blk *capture.Block) error {
	p.stats.Packets++
	if p.stats.Packets%progressEvery == 0 {
		log.Printf("packet %d: %d quotes\n", p.stats.Packets, p.stats.Quotes)
	}
	rec := &blk.Record
	captured, err := p.normalizer.Normalize(rec.Timestamp.Unix(), rec.Micros())
	if err != nil {
		return &capture.BlockError{Index: blk.Index, Offset: blk.Offset, Err: err}
	}
	q, err := p.decoder.Decode(rec.Data, captured)
	if err != nil {
		p.stats.Skipped[reason(err)]++
		return nil
	}
	p.stats.Quotes++
	return p.handler.HandleQuote(q)
}

// reason strips the details wrapped around a sentinel error.
func reason(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
