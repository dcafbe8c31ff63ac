// Copyright (c) Ilia Kravets, 2015. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

package packet

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata" // Asia/Seoul must resolve on hosts without zoneinfo
)

const DefaultZoneName = "Asia/Seoul"

var ErrTimestampRange = errors.New("capture timestamp out of range")

// Normalizer converts capture timestamps (UTC seconds and microseconds) into the local
// time of day of a fixed zone. The date is dropped.
type Normalizer struct {
	loc *time.Location
}

// NewNormalizer returns a normalizer for loc; a nil loc means DefaultZoneName.
func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		var err error
		loc, err = LoadZone(DefaultZoneName)
		if err != nil {
			// the zone database is embedded
			panic(err)
		}
	}
	return &Normalizer{loc: loc}
}

func LoadZone(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultZoneName
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("cannot load zone %q: %w", name, err)
	}
	return loc, nil
}

func (n *Normalizer) Location() *time.Location {
	return n.loc
}

func (n *Normalizer) Normalize(seconds int64, micros uint32) (TimeOfDay, error) {
	if micros > 999999 {
		return 0, fmt.Errorf("%w: %d.%d", ErrTimestampRange, seconds, micros)
	}
	ts := time.Unix(seconds, int64(micros)*int64(time.Microsecond)).In(n.loc)
	if y := ts.Year(); y < 1 || y > 9999 {
		return 0, fmt.Errorf("%w: %d.%06d", ErrTimestampRange, seconds, micros)
	}
	h, m, s := ts.Clock()
	return NewTimeOfDay(h, m, s, ts.Nanosecond()/1000)
}
