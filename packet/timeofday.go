// Copyright (c) Ilia Kravets, 2015. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

package packet

import (
	"errors"
	"fmt"
	"strconv"
)

// TimeOfDay is a local wall clock reading in microseconds since midnight.
type TimeOfDay int64

const (
	Microsecond TimeOfDay = 1
	Millisecond           = 1000 * Microsecond
	Second                = 1000 * Millisecond
	Minute                = 60 * Second
	Hour                  = 60 * Minute
	Day                   = 24 * Hour
)

var (
	ErrTimeOfDayRange = errors.New("time of day out of range")
	ErrBadAcceptTime  = errors.New("malformed quote accept time")
)

func NewTimeOfDay(hour, min, sec, usec int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || min < 0 || min > 59 || sec < 0 || sec > 59 || usec < 0 || usec > 999999 {
		return 0, fmt.Errorf("%w: %02d:%02d:%02d.%06d", ErrTimeOfDayRange, hour, min, sec, usec)
	}
	return TimeOfDay(hour)*Hour + TimeOfDay(min)*Minute + TimeOfDay(sec)*Second + TimeOfDay(usec), nil
}

// ParseAcceptTime parses the exchange HHMMSSuu field (uu in hundredths of a second).
func ParseAcceptTime(b []byte) (t TimeOfDay, err error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("%w: %q", ErrBadAcceptTime, b)
	}
	var v [4]int
	for i := range v {
		d0, d1 := b[i*2]-'0', b[i*2+1]-'0'
		if d0 > 9 || d1 > 9 {
			return 0, fmt.Errorf("%w: %q", ErrBadAcceptTime, b)
		}
		v[i] = int(d0)*10 + int(d1)
	}
	if t, err = NewTimeOfDay(v[0], v[1], v[2], v[3]*10000); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadAcceptTime, b)
	}
	return
}

func (t TimeOfDay) Clock() (hour, min, sec, usec int) {
	hour = int(t / Hour)
	min = int(t % Hour / Minute)
	sec = int(t % Minute / Second)
	usec = int(t % Second)
	return
}

func appendClock(dst []byte, hour, min, sec int) []byte {
	dst = appendPadded(dst, hour, 2)
	dst = append(dst, ':')
	dst = appendPadded(dst, min, 2)
	dst = append(dst, ':')
	return appendPadded(dst, sec, 2)
}

func appendPadded(dst []byte, v int, width int) []byte {
	var buf [20]byte
	s := strconv.AppendInt(buf[:0], int64(v), 10)
	for i := len(s); i < width; i++ {
		dst = append(dst, '0')
	}
	return append(dst, s...)
}

// AppendMillis appends HH:MM:SS.mmm, truncating sub-millisecond digits.
func (t TimeOfDay) AppendMillis(dst []byte) []byte {
	h, m, s, us := t.Clock()
	dst = appendClock(dst, h, m, s)
	dst = append(dst, '.')
	return appendPadded(dst, us/1000, 3)
}

// AppendText appends the shortest exact form: no fraction, milliseconds or microseconds.
func (t TimeOfDay) AppendText(dst []byte) []byte {
	h, m, s, us := t.Clock()
	dst = appendClock(dst, h, m, s)
	switch {
	case us == 0:
	case us%1000 == 0:
		dst = append(dst, '.')
		dst = appendPadded(dst, us/1000, 3)
	default:
		dst = append(dst, '.')
		dst = appendPadded(dst, us, 6)
	}
	return dst
}

func (t TimeOfDay) String() string {
	return string(t.AppendText(make([]byte, 0, 15)))
}
