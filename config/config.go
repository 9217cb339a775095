// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package config holds the options recognised by the theories and
// the core, loadable from yaml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/irifrance/ginit/reach"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid options")

// Options holds the recognised configuration knobs.
type Options struct {
	// AMOEagerProp makes at-most-one theories force the other members
	// false as soon as one is true.
	AMOEagerProp bool `yaml:"amo_eager_prop"`

	// ClausifyAMO is the size at or below which at-most-one theories
	// are replaced by pairwise clauses at decision level 0.
	ClausifyAMO int `yaml:"clausify_amo"`

	// ReachPolarity is one of both, unreachable, reachable, none.
	ReachPolarity string `yaml:"reach_polarity"`

	// LogLevel is a zap level name: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the default options.
func Default() *Options {
	return &Options{
		AMOEagerProp:  false,
		ClausifyAMO:   0,
		ReachPolarity: reach.ReportBoth.String(),
		LogLevel:      "warn"}
}

// Load reads yaml options from r.  Fields absent from the input
// keep their default values.
func Load(r io.Reader) (*Options, error) {
	o := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(o); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding options: %w", err)
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// LoadFile reads yaml options from the file at path.
func LoadFile(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading options: %w", err)
	}
	o, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return o, nil
}

// Validate checks o.
func (o *Options) Validate() error {
	if o.ClausifyAMO < 0 {
		return fmt.Errorf("%w: clausify_amo %d < 0", ErrInvalid, o.ClausifyAMO)
	}
	if _, err := reach.ParsePolarity(o.ReachPolarity); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := zapcore.ParseLevel(o.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %v", ErrInvalid, err)
	}
	return nil
}

// Polarity returns the reachability report polarity.  o must be valid.
func (o *Options) Polarity() reach.Polarity {
	p, err := reach.ParsePolarity(o.ReachPolarity)
	if err != nil {
		panic(err)
	}
	return p
}

// Logger builds a production zap logger at the configured level.
func (o *Options) Logger() (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(o.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: log_level: %v", ErrInvalid, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// String returns the yaml form of o.
func (o *Options) String() string {
	data, err := yaml.Marshal(o)
	if err != nil {
		return fmt.Sprintf("%+v", *o)
	}
	return string(data)
}
