// Copyright (c) Ilia Kravets, 2015. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

package errs

import (
	"errors"
	"strings"
	"testing"
)

var errSample = errors.New("sample")

func passing() (err error) {
	defer PassE(&err)
	CheckE(nil)
	Check(true)
	return
}

func failingE() (err error) {
	defer PassE(&err)
	CheckE(errSample, "ctx")
	return
}

func failingCond() (err error) {
	defer PassE(&err)
	Check(1 > 2, "impossible", 42)
	return
}

func TestPassE(t *testing.T) {
	if err := passing(); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if err := failingE(); err != errSample {
		t.Fatalf("got %v want %v", err, errSample)
	}
	err := failingCond()
	ce, ok := err.(CheckerError)
	if !ok {
		t.Fatalf("got %T want CheckerError", err)
	}
	if file, line := ce.Location(); !strings.HasSuffix(file, "errs_test.go") || line == 0 {
		t.Errorf("bad location %s:%d", file, line)
	}
	if len(ce.Args()) != 2 {
		t.Errorf("args %v", ce.Args())
	}
	if ce.OrigError() != nil {
		t.Errorf("orig error %v", ce.OrigError())
	}
}

func TestPassEForeignPanic(t *testing.T) {
	defer func() {
		if r := recover(); r != "boom" {
			t.Fatalf("recovered %v", r)
		}
	}()
	func() (err error) {
		defer PassE(&err)
		panic("boom")
	}()
}
