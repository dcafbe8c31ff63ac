// Copyright (c) Ilia Kravets, 2015. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

package conf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"my/mdf/capture"
	"my/mdf/errs"
	"my/mdf/packet"
	"my/mdf/packet/kospi"
	"my/mdf/rec"
)

// Config holds the quote pipeline settings. A YAML file provides them; command-line
// flags take precedence.
type Config struct {
	Ordering   packet.Ordering `yaml:"ordering"`
	Capacity   int             `yaml:"capacity"`
	Zone       string          `yaml:"zone"`
	Fields     kospi.FieldSet  `yaml:"fields"`
	ReadBuffer int             `yaml:"readBuffer"`
	Count      int             `yaml:"count,omitempty"`
}

func Default() Config {
	return Config{
		Ordering:   packet.OrderByCaptureTime,
		Capacity:   rec.DefaultCapacity,
		Zone:       packet.DefaultZoneName,
		Fields:     kospi.FieldsReduced,
		ReadBuffer: capture.DefaultCapacity,
	}
}

// Load reads fileName over the defaults. Unknown keys are errors.
func Load(fileName string) (c Config, err error) {
	defer errs.PassE(&err)
	c = Default()
	data, err := os.ReadFile(fileName)
	errs.CheckE(err)
	errs.CheckE(c.Parse(data))
	return
}

func (c *Config) Parse(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("bad config: %w", err)
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("invalid capacity %d", c.Capacity)
	}
	if c.ReadBuffer < 0 {
		return fmt.Errorf("invalid read buffer size %d", c.ReadBuffer)
	}
	if c.Count < 0 {
		return fmt.Errorf("invalid packet count %d", c.Count)
	}
	if _, err := packet.LoadZone(c.Zone); err != nil {
		return err
	}
	return nil
}

func (c *Config) Dump() (doc string, err error) {
	defer errs.PassE(&err)
	buf, err := yaml.Marshal(c)
	errs.CheckE(err)
	doc = string(buf)
	return
}
