// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the variable [Load] reads the config path
// from.
const EnvironmentVariable = "FRUGALCONV_CONFIG"

// ColorMode controls syntax highlighting of JSON written to a terminal.
type ColorMode string

const (
	// ColorAuto highlights only when standard output is a terminal.
	ColorAuto ColorMode = "auto"
	// ColorAlways highlights even when output is piped.
	ColorAlways ColorMode = "always"
	// ColorNever disables highlighting.
	ColorNever ColorMode = "never"
)

// Config holds the defaults for conversions.
type Config struct {
	// Protocol is the Thrift protocol used when encoding a document
	// that does not name one: "binary" or "compact".
	// Default: binary
	Protocol string `yaml:"protocol"`

	// Indent is the number of spaces per level in decoded JSON. Zero
	// produces single-line JSON.
	// Default: 4
	Indent int `yaml:"indent"`

	// Color controls highlighting of JSON printed to a terminal.
	// Files never receive colour.
	// Default: auto
	Color ColorMode `yaml:"color"`

	// Strict rejects binary input with unexpected bytes before or after
	// the Thrift message instead of skipping them with a warning.
	// Default: false
	Strict bool `yaml:"strict"`
}

// Default returns the built-in configuration. File values are merged
// over it.
func Default() *Config {
	return &Config{
		Protocol: "binary",
		Indent:   4,
		Color:    ColorAuto,
		Strict:   false,
	}
}

// Load loads configuration from the file named by FRUGALCONV_CONFIG,
// or returns [Default] when the variable is unset.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return Default(), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path and validates
// it. Unknown keys are errors, so a misspelled setting is not silently
// ignored.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// loadFile merges a YAML file into c.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	protocols := []string{"binary", "compact"}
	if !contains(protocols, c.Protocol) {
		errs = append(errs, fmt.Errorf("protocol must be one of: %v", protocols))
	}

	if c.Indent < 0 || c.Indent > 16 {
		errs = append(errs, fmt.Errorf("indent must be between 0 and 16, got %d", c.Indent))
	}

	colorModes := []string{string(ColorAuto), string(ColorAlways), string(ColorNever)}
	if !contains(colorModes, string(c.Color)) {
		errs = append(errs, fmt.Errorf("color must be one of: %v", colorModes))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
