// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package convert

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/frugalconv/cmd/frugalconv/cli"
	"github.com/bureau-foundation/frugalconv/lib/codec"
	"github.com/bureau-foundation/frugalconv/lib/config"
)

// commonParams are accepted by every conversion command.
type commonParams struct {
	Config  string `json:"config"  flag:"config"  desc:"YAML defaults file (default: $FRUGALCONV_CONFIG)"`
	Verbose bool   `json:"verbose" flag:"verbose" desc:"log debug detail to stderr"`
}

// binaryInputParams control how base64 input is read and parsed.
type binaryInputParams struct {
	Hex    bool `json:"hex"    flag:"hex,x"  desc:"treat input as hex text instead of base64"`
	Strict bool `json:"strict" flag:"strict" desc:"reject bytes before or after the thrift message"`
}

// jsonOutputParams control how decoded documents are rendered.
type jsonOutputParams struct {
	Indent int    `json:"indent" flag:"indent" default:"4"    desc:"spaces per JSON nesting level (0 for one line)"`
	Color  string `json:"color"  flag:"color"  default:"auto" desc:"highlight JSON on a terminal: auto, always, never"`
}

// encodeOptionParams control how documents are serialized.
type encodeOptionParams struct {
	Compact bool `json:"compact" flag:"compact,c" desc:"encode with the compact protocol regardless of the document"`
}

// settings is the merged result of the config file and flags.
type settings struct {
	codec codec.Options
	hex   bool
	color config.ColorMode
}

// resolveSettings loads the config file named by --config (or the
// environment) and applies every flag the user set explicitly. Flags
// missing from flagSet keep their configured value.
func resolveSettings(flagSet *pflag.FlagSet, configPath string, logger *slog.Logger) (*settings, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, cli.NotFound("%w", err)
		}
		return nil, cli.Validation("%w", err)
	}

	forceProtocol := false
	if changed(flagSet, "indent") {
		cfg.Indent, _ = flagSet.GetInt("indent")
	}
	if changed(flagSet, "color") {
		color, _ := flagSet.GetString("color")
		cfg.Color = config.ColorMode(color)
	}
	if changed(flagSet, "strict") {
		cfg.Strict, _ = flagSet.GetBool("strict")
	}
	if boolFlag(flagSet, "compact") {
		cfg.Protocol = string(codec.ProtocolCompact)
		forceProtocol = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.Usage("%w", err)
	}

	hex := boolFlag(flagSet, "hex")
	logger.Debug("resolved settings",
		"protocol", cfg.Protocol,
		"indent", cfg.Indent,
		"color", cfg.Color,
		"strict", cfg.Strict,
		"hex", hex,
	)

	return &settings{
		codec: codec.Options{
			Protocol:      codec.Protocol(cfg.Protocol),
			ForceProtocol: forceProtocol,
			Strict:        cfg.Strict,
			Indent:        cfg.Indent,
			Logger:        logger,
		},
		hex:   hex,
		color: cfg.Color,
	}, nil
}

func changed(flagSet *pflag.FlagSet, name string) bool {
	return flagSet != nil && flagSet.Changed(name)
}

// boolFlag returns the value of a bool flag, or false when the command
// does not define it.
func boolFlag(flagSet *pflag.FlagSet, name string) bool {
	if flagSet == nil {
		return false
	}
	value, err := flagSet.GetBool(name)
	return err == nil && value
}
