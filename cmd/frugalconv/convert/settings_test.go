// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package convert

import (
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/frugalconv/cmd/frugalconv/cli"
	"github.com/bureau-foundation/frugalconv/lib/codec"
	"github.com/bureau-foundation/frugalconv/lib/config"
)

func parseDecodeFlags(t *testing.T, args ...string) (*pflag.FlagSet, *decodeParams) {
	t.Helper()
	var params decodeParams
	flagSet := cli.FlagsFromParams("decode", &params)
	if err := flagSet.Parse(args); err != nil {
		t.Fatalf("Parse(%v): %v", args, err)
	}
	return flagSet, &params
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
}

func TestResolveSettings_Defaults(t *testing.T) {
	t.Setenv(config.EnvironmentVariable, "")
	flagSet, params := parseDecodeFlags(t)

	resolved, err := resolveSettings(flagSet, params.Config, discardLogger())
	if err != nil {
		t.Fatalf("resolveSettings: %v", err)
	}
	if resolved.codec.Indent != 4 || resolved.codec.Strict || resolved.hex {
		t.Errorf("codec options = %+v, hex %v; want indent 4, lenient, base64", resolved.codec, resolved.hex)
	}
	if resolved.codec.Protocol != codec.ProtocolBinary || resolved.codec.ForceProtocol {
		t.Errorf("protocol = %q (forced %v), want unforced binary", resolved.codec.Protocol, resolved.codec.ForceProtocol)
	}
	if resolved.color != config.ColorAuto {
		t.Errorf("color = %q, want auto", resolved.color)
	}
}

func TestResolveSettings_ConfigThenFlags(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "frugalconv.yaml", "indent: 2\nstrict: true\ncolor: never\nprotocol: compact\n")
	t.Setenv(config.EnvironmentVariable, configPath)

	// Unset flags keep the configured values even though their own
	// defaults differ.
	flagSet, params := parseDecodeFlags(t)
	resolved, err := resolveSettings(flagSet, params.Config, discardLogger())
	if err != nil {
		t.Fatalf("resolveSettings: %v", err)
	}
	if resolved.codec.Indent != 2 || !resolved.codec.Strict || resolved.color != config.ColorNever {
		t.Errorf("settings = %+v, color %q; want the config file's values", resolved.codec, resolved.color)
	}
	if resolved.codec.Protocol != codec.ProtocolCompact || resolved.codec.ForceProtocol {
		t.Errorf("protocol = %q (forced %v), want unforced compact", resolved.codec.Protocol, resolved.codec.ForceProtocol)
	}

	flagSet, params = parseDecodeFlags(t, "--indent", "0", "--strict=false", "--color", "always")
	resolved, err = resolveSettings(flagSet, params.Config, discardLogger())
	if err != nil {
		t.Fatalf("resolveSettings: %v", err)
	}
	if resolved.codec.Indent != 0 || resolved.codec.Strict || resolved.color != config.ColorAlways {
		t.Errorf("settings = %+v, color %q; want the flag values", resolved.codec, resolved.color)
	}
}

func TestResolveSettings_ConfigFlag(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvironmentVariable, writeFile(t, dir, "env.yaml", "indent: 8\n"))
	explicit := writeFile(t, dir, "explicit.yaml", "indent: 1\n")

	flagSet, params := parseDecodeFlags(t, "--config", explicit)
	resolved, err := resolveSettings(flagSet, params.Config, discardLogger())
	if err != nil {
		t.Fatalf("resolveSettings: %v", err)
	}
	if resolved.codec.Indent != 1 {
		t.Errorf("indent = %d, want 1 from --config", resolved.codec.Indent)
	}
}

func TestResolveSettings_Compact(t *testing.T) {
	t.Setenv(config.EnvironmentVariable, "")
	var params encodeParams
	flagSet := cli.FlagsFromParams("encode", &params)
	if err := flagSet.Parse([]string{"-c"}); err != nil {
		t.Fatal(err)
	}

	resolved, err := resolveSettings(flagSet, params.Config, discardLogger())
	if err != nil {
		t.Fatalf("resolveSettings: %v", err)
	}
	if resolved.codec.Protocol != codec.ProtocolCompact || !resolved.codec.ForceProtocol {
		t.Errorf("protocol = %q (forced %v), want forced compact", resolved.codec.Protocol, resolved.codec.ForceProtocol)
	}
}

func TestResolveSettings_ConfigErrors(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvironmentVariable, "")

	tests := []struct {
		name string
		path string
		want cli.ErrorCategory
	}{
		{name: "missing file", path: filepath.Join(dir, "absent.yaml"), want: cli.CategoryNotFound},
		{name: "unknown key", path: writeFile(t, dir, "typo.yaml", "indnet: 2\n"), want: cli.CategoryValidation},
		{name: "invalid value", path: writeFile(t, dir, "bad.yaml", "protocol: json\n"), want: cli.CategoryValidation},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			flagSet, params := parseDecodeFlags(t, "--config", test.path)
			_, err := resolveSettings(flagSet, params.Config, discardLogger())
			assertCategory(t, err, test.want)
		})
	}
}
