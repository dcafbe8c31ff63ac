// Copyright (c) Ilia Kravets, 2015. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

// Package cmd holds the subcommands. Each registers itself with Registry from init;
// after parsing, only the selected command does any work in ParsingFinished.
package cmd

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Extender interface {
	ConfigParser(*flags.Parser)
	ParsingFinished() error
}

type ExtenderRegistry interface {
	Extender
	Register(Extender)
	Extenders() []Extender
}

type extenderRegistry struct {
	extenders []Extender
}

func (r *extenderRegistry) Register(e Extender) {
	r.extenders = append(r.extenders, e)
}

func (r *extenderRegistry) Extenders() []Extender {
	return r.extenders
}

func (r *extenderRegistry) ConfigParser(parser *flags.Parser) {
	for _, e := range r.extenders {
		e.ConfigParser(parser)
	}
}

func (r *extenderRegistry) ParsingFinished() (err error) {
	for _, e := range r.extenders {
		if err = e.ParsingFinished(); err != nil {
			break
		}
	}
	return
}

var Registry ExtenderRegistry = &extenderRegistry{}

func createOutput(fileName string) (*os.File, error) {
	if fileName == "" || fileName == "-" || fileName == "/dev/stdout" {
		return os.Stdout, nil
	}
	return os.OpenFile(fileName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
}

func closeOutput(f *os.File) error {
	if f == os.Stdout {
		return nil
	}
	return f.Close()
}
