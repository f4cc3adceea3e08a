// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package convert

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/frugalconv/cmd/frugalconv/cli"
	"github.com/bureau-foundation/frugalconv/lib/codec"
)

// validateParams holds the parameters for "frugalconv validate".
type validateParams struct {
	commonParams
	binaryInputParams
}

func validateCommand(stdout io.Writer) *cli.Command {
	var (
		params  validateParams
		flagSet *pflag.FlagSet
	)

	return &cli.Command{
		Name:    "validate",
		Summary: "Check that a base64 message survives a decode/encode round trip",
		Description: `Read a base64 message from FILE, decode it, encode the resulting
document again, and compare the bytes. Prints "valid" and exits 0 when
they match. Otherwise prints the first differing byte offset and exits 1.

Validation uses --strict, so skipped or trailing bytes are reported as
errors rather than silently dropped from the comparison.`,
		Usage: "frugalconv validate FILE [flags]",
		Examples: []cli.Example{
			{
				Description: "Validate a captured message",
				Command:     "frugalconv validate msg.b64",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet = cli.FlagsFromParams("validate", &params)
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			input, err := singleInput("validate", args)
			if err != nil {
				return err
			}
			resolved, err := resolveSettings(flagSet, params.Config, logger)
			if err != nil {
				return err
			}
			resolved.codec.Strict = true
			return validateFile(ctx, input, resolved, stdout)
		},
	}
}

// validateFile decodes and re-encodes the message in input and reports
// whether the bytes are unchanged.
func validateFile(ctx context.Context, input string, resolved *settings, stdout io.Writer) error {
	data, err := readBinaryInput(input, resolved.hex)
	if err != nil {
		return err
	}

	converter := codec.New(resolved.codec)
	message, err := converter.Decode(ctx, data)
	if err != nil {
		return conversionError("decode "+input, err)
	}
	reencoded, err := converter.Encode(ctx, message)
	if err != nil {
		return conversionError("re-encode "+input, err)
	}

	if bytes.Equal(data, reencoded) {
		fmt.Fprintln(stdout, "valid")
		return nil
	}

	fmt.Fprintln(stdout, describeMismatch(data, reencoded))
	return &cli.ExitError{Code: cli.ExitFailure}
}

func describeMismatch(original, reencoded []byte) string {
	offset := 0
	for offset < min(len(original), len(reencoded)) && original[offset] == reencoded[offset] {
		offset++
	}
	return fmt.Sprintf("mismatch: first difference at byte %d (original %d bytes, re-encoded %d bytes)",
		offset, len(original), len(reencoded))
}
