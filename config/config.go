// SPDX-License-Identifier: MIT

// Package config loads the description of a sketching run: the random seed,
// the process grid and the transform parameters.
//
// Files are YAML (.yaml, .yml) or TOML (.toml); the format follows the
// extension. A loaded Config is validated before it is returned.
//
//	seed: 42
//	grid: {rows: 2, cols: 2}
//	transform:
//	  type: GaussianRFT
//	  n: 128
//	  s: 512
//	  sigma: 3.5
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/lvsketch/sketch"
)

var (
	// ErrUnknownFormat indicates a file extension other than .yaml, .yml or .toml.
	ErrUnknownFormat = errors.New("config: unknown file format")

	// ErrInvalid indicates a configuration value out of range.
	ErrInvalid = errors.New("config: invalid value")
)

// Format is a configuration file syntax.
type Format string

// Supported formats.
const (
	YAML Format = "yaml"
	TOML Format = "toml"
)

// Config describes one sketching run.
type Config struct {
	Seed      uint64    `yaml:"seed" toml:"seed"`
	Grid      Grid      `yaml:"grid" toml:"grid"`
	Transform Transform `yaml:"transform" toml:"transform"`
}

// Grid is the shape of the process grid; zero means 1.
type Grid struct {
	Rows int `yaml:"rows" toml:"rows"`
	Cols int `yaml:"cols" toml:"cols"`
}

// Transform selects and parameterizes the transform.
type Transform struct {
	Type  string  `yaml:"type" toml:"type"`
	N     int     `yaml:"n" toml:"n"`
	S     int     `yaml:"s" toml:"s"`
	Sigma float64 `yaml:"sigma,omitempty" toml:"sigma,omitempty"`
	Beta  float64 `yaml:"beta,omitempty" toml:"beta,omitempty"`
	C     float64 `yaml:"c,omitempty" toml:"c,omitempty"`
	FUT   string  `yaml:"fut,omitempty" toml:"fut,omitempty"`
	ID    *uint64 `yaml:"id,omitempty" toml:"id,omitempty"` // names the transform; nil uses the context counter
}

// Default returns a 1×1 grid running a CWT with no dimensions set.
func Default() Config {
	return Config{
		Grid:      Grid{Rows: 1, Cols: 1},
		Transform: Transform{Type: sketch.CWT.String(), FUT: sketch.DCTKind.String()},
	}
}

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	default:
		return "", fmt.Errorf("%q: %w", path, ErrUnknownFormat)
	}
}

// Load reads, decodes and validates the file at path.
func Load(path string) (*Config, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	return Parse(data, f)
}

// Parse decodes data in format f on top of Default and validates the result.
// Unknown keys are rejected.
func Parse(data []byte, f Format) (*Config, error) {
	c := Default()
	switch f {
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil {
			return nil, fmt.Errorf("config: decode yaml: %w", err)
		}
	case TOML:
		md, err := toml.Decode(string(data), &c)
		if err != nil {
			return nil, fmt.Errorf("config: decode toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("config: unknown key %q: %w", undecoded[0].String(), ErrInvalid)
		}
	default:
		return nil, fmt.Errorf("format %q: %w", f, ErrUnknownFormat)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Validate normalizes zero grid dimensions to 1 and checks every field that
// can be checked without constructing the transform.
func (c *Config) Validate() error {
	if c.Grid.Rows == 0 {
		c.Grid.Rows = 1
	}
	if c.Grid.Cols == 0 {
		c.Grid.Cols = 1
	}
	if c.Grid.Rows < 0 || c.Grid.Cols < 0 {
		return fmt.Errorf("grid %dx%d: %w", c.Grid.Rows, c.Grid.Cols, ErrInvalid)
	}
	if _, err := sketch.ParseType(c.Transform.Type); err != nil {
		return fmt.Errorf("transform type %q: %w", c.Transform.Type, ErrInvalid)
	}
	if c.Transform.N <= 0 || c.Transform.S <= 0 {
		return fmt.Errorf("transform N=%d S=%d: %w", c.Transform.N, c.Transform.S, ErrInvalid)
	}
	if c.Transform.FUT != "" {
		if _, err := sketch.ParseFUTKind(c.Transform.FUT); err != nil {
			return fmt.Errorf("transform fut %q: %w", c.Transform.FUT, ErrInvalid)
		}
	}

	return nil
}

// Params converts the transform section into sketch.Params.
func (c *Config) Params() (sketch.Params, error) {
	typ, err := sketch.ParseType(c.Transform.Type)
	if err != nil {
		return sketch.Params{}, err
	}

	return sketch.Params{
		Type:  typ,
		N:     c.Transform.N,
		S:     c.Transform.S,
		Sigma: c.Transform.Sigma,
		Beta:  c.Transform.Beta,
		C:     c.Transform.C,
	}, nil
}

// Options returns the construction options implied by the transform section.
func (c *Config) Options() ([]sketch.Option, error) {
	var opts []sketch.Option
	if c.Transform.FUT != "" {
		k, err := sketch.ParseFUTKind(c.Transform.FUT)
		if err != nil {
			return nil, err
		}
		opts = append(opts, sketch.WithFUT(k))
	}
	if c.Transform.ID != nil {
		opts = append(opts, sketch.WithIdentity(*c.Transform.ID))
	}

	return opts, nil
}

// Context returns a fresh random context for the configured seed.
func (c *Config) Context() *sketch.Context { return sketch.NewContext(c.Seed) }
