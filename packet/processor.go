// Copyright (c) Ilia Kravets, 2015. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

package packet

import (
	"my/mdf/capture"
)

// Obtainer yields capture blocks; io.EOF ends the stream.
type Obtainer interface {
	Next() (capture.Block, error)
}

type Decoder interface {
	SetFileHeader(capture.FileHeader)
	Decode(frame []byte, captured TimeOfDay) (Quote, error)
}

// Handler consumes decoded quotes. Flush is called once after the last quote.
type Handler interface {
	HandleQuote(Quote) error
	Flush() error
}

type Processor interface {
	SetObtainer(Obtainer)
	SetNormalizer(*Normalizer)
	SetDecoder(Decoder)
	SetHandler(Handler)
	LimitPacketNumber(int)
	ProcessAll() error
	Stats() ProcessorStats
}

type ProcessorStats struct {
	Blocks  int
	Packets int
	Quotes  int
	Skipped map[string]int // by rejection reason
}

func (s ProcessorStats) SkippedTotal() (n int) {
	for _, c := range s.Skipped {
		n += c
	}
	return
}

type NopHandler struct{}

var _ Handler = &NopHandler{}

func (_ *NopHandler) HandleQuote(_ Quote) error { return nil }
func (_ *NopHandler) Flush() error              { return nil }
