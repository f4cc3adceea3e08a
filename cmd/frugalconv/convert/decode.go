// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package convert

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/frugalconv/cmd/frugalconv/cli"
	"github.com/bureau-foundation/frugalconv/lib/codec"
)

// decodeParams holds the parameters for "frugalconv decode".
type decodeParams struct {
	commonParams
	binaryInputParams
	jsonOutputParams

	Output string `json:"output" flag:"output,o" desc:"write JSON to this file instead of stdout"`
}

func decodeCommand(stdout io.Writer) *cli.Command {
	var (
		params  decodeParams
		flagSet *pflag.FlagSet
	)

	return &cli.Command{
		Name:    "decode",
		Summary: "Convert a base64 message to JSON",
		Description: `Read a base64 (or, with --hex, hex) message from FILE and write the
equivalent JSON document to --output, or to stdout.

Whitespace and line breaks in the input are ignored, and base64 padding
is optional. Bytes before the Thrift message marker or after the end of
the message are skipped with a warning; --strict makes them an error.`,
		Usage: "frugalconv decode FILE [-o OUTPUT] [flags]",
		Examples: []cli.Example{
			{
				Description: "Decode to a file",
				Command:     "frugalconv decode msg.b64 -o msg.json",
			},
			{
				Description: "Decode single-line JSON from stdin",
				Command:     "echo AAAAHQAAAAAA... | frugalconv decode --indent 0 -",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet = cli.FlagsFromParams("decode", &params)
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			input, err := singleInput("decode", args)
			if err != nil {
				return err
			}
			resolved, err := resolveSettings(flagSet, params.Config, logger)
			if err != nil {
				return err
			}
			return decodeFile(ctx, input, params.Output, resolved, stdout)
		},
	}
}

// decodeFile converts the base64 message in input to JSON and writes it
// to output, or to stdout when output is empty.
func decodeFile(ctx context.Context, input, output string, resolved *settings, stdout io.Writer) error {
	data, err := readBinaryInput(input, resolved.hex)
	if err != nil {
		return err
	}

	document, err := codec.New(resolved.codec).DecodeToJSON(ctx, data)
	if err != nil {
		return conversionError("decode "+input, err)
	}
	return writeDocument(document, output, resolved.color, stdout)
}

// conversionError classifies a codec failure: bad input data is a
// validation error, anything else is internal.
func conversionError(operation string, err error) error {
	if errors.Is(err, codec.ErrFormat) || errors.Is(err, codec.ErrSchema) {
		return cli.Validation("%s: %w", operation, err)
	}
	return cli.Internal("%s: %w", operation, err)
}
