// Copyright (c) Ilia Kravets, 2015. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

package exch

import (
	"fmt"
	"math/rand"
	"time"

	"my/mdf/errs"
	"my/mdf/packet"
)

type SynthConfig struct {
	Quotes     int
	NoiseEvery int // every NoiseEvery-th packet is not a quote; 0 disables
	Start      time.Time
	Location   *time.Location
	Seed       int64
	Issues     []string
	MaxGap     time.Duration // between consecutive captures
	MaxLatency time.Duration // capture time minus accept time
}

var DefaultIssues = []string{"KR4101F30009", "KR4101F60006", "KR4201F32523", "KR4301F62551"}

func DefaultSynthConfig() SynthConfig {
	return SynthConfig{
		Quotes:     1000,
		NoiseEvery: 7,
		Start:      time.Date(2011, 2, 16, 0, 0, 0, 0, time.UTC),
		Location:   time.FixedZone("KST", 9*60*60),
		Seed:       1,
		Issues:     DefaultIssues,
		MaxGap:     5 * time.Millisecond,
		MaxLatency: 30 * time.Millisecond,
	}
}

// Synthesize generates a feed of quote messages interleaved with non-quote noise.
// Capture timestamps strictly increase; accept times lag them by a random latency,
// so the two orderings differ.
func Synthesize(cfg SynthConfig) (packets []Packet, err error) {
	defer errs.PassE(&err)
	errs.Check(cfg.Quotes >= 0 && len(cfg.Issues) > 0, "bad synth config")
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	rnd := rand.New(rand.NewSource(cfg.Seed))
	randDuration := func(max time.Duration) time.Duration {
		if max <= 0 {
			return 0
		}
		return time.Duration(rnd.Int63n(int64(max)))
	}
	ts := cfg.Start
	for n, i := 0, 0; n < cfg.Quotes; i++ {
		ts = ts.Add(time.Microsecond + randDuration(cfg.MaxGap))
		if cfg.NoiseEvery > 0 && i%cfg.NoiseEvery == cfg.NoiseEvery-1 {
			p, err := noisePacket(ts, i)
			errs.CheckE(err)
			packets = append(packets, p)
			continue
		}
		accepted := ts.Add(-randDuration(cfg.MaxLatency)).In(cfg.Location)
		acceptTime, err := packet.NewTimeOfDay(accepted.Hour(), accepted.Minute(), accepted.Second(), accepted.Nanosecond()/1000)
		errs.CheckE(err)
		m := NewQuoteMessage(cfg.Issues[rnd.Intn(len(cfg.Issues))], AcceptTimeDigits(acceptTime))
		m.IssueSeqNo = fmt.Sprintf("%03d", n%1000)
		m.MarketStatus = "20"
		fillBook(&m, rnd)
		p, err := QuotePacket(ts, m)
		errs.CheckE(err)
		packets = append(packets, p)
		n++
	}
	return
}

func fillBook(m *QuoteMessage, rnd *rand.Rand) {
	mid := 20000 + rnd.Intn(10000)
	var bidTotal, askTotal int
	for i := 0; i < packet.Depth; i++ {
		bq, aq := 1+rnd.Intn(500), 1+rnd.Intn(500)
		bidTotal += bq
		askTotal += aq
		m.Bids[i] = packet.Level{Price: fmt.Sprintf("%05d", mid-5*(i+1)), Quantity: fmt.Sprintf("%07d", bq)}
		m.Asks[i] = packet.Level{Price: fmt.Sprintf("%05d", mid+5*(i+1)), Quantity: fmt.Sprintf("%07d", aq)}
		m.BidQuoteCounts[i] = fmt.Sprintf("%04d", 1+bq%37)
		m.AskQuoteCounts[i] = fmt.Sprintf("%04d", 1+aq%37)
	}
	m.TotalBidVolume = fmt.Sprintf("%07d", bidTotal)
	m.TotalAskVolume = fmt.Sprintf("%07d", askTotal)
	m.BidValidCount = fmt.Sprintf("%05d", packet.Depth)
	m.AskValidCount = fmt.Sprintf("%05d", packet.Depth)
}

// noisePacket alternates between a trade message (B6 with another information type)
// and a runt heartbeat frame.
func noisePacket(ts time.Time, i int) (p Packet, err error) {
	defer errs.PassE(&err)
	if i%2 == 0 {
		m := NewQuoteMessage("KR4101F30009", "09000000")
		m.InfoType = "01"
		return QuotePacket(ts, m)
	}
	data, err := Frame([]byte("HB"))
	errs.CheckE(err)
	return Packet{Timestamp: ts, Data: data}, nil
}
