// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package convert

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/frugalconv/cmd/frugalconv/cli"
	"github.com/bureau-foundation/frugalconv/lib/codec"
)

// encodeParams holds the parameters for "frugalconv encode".
type encodeParams struct {
	commonParams
	encodeOptionParams
}

func encodeCommand(stdout io.Writer) *cli.Command {
	var (
		params  encodeParams
		flagSet *pflag.FlagSet
	)

	return &cli.Command{
		Name:    "encode",
		Summary: "Convert a JSON document to a base64 message",
		Description: `Read a JSON document from FILE and print the base64 wire form to
stdout.

The document may contain // line comments, /* block comments */, and
trailing commas. The Thrift protocol is taken from "thrift.protocol"
(default: the configured protocol, binary unless set); -c forces the
compact protocol.`,
		Usage: "frugalconv encode FILE [flags]",
		Examples: []cli.Example{
			{
				Description: "Encode a document",
				Command:     "frugalconv encode msg.json",
			},
			{
				Description: "Encode with the compact protocol and decode again",
				Command:     "frugalconv encode -c msg.json | frugalconv decode -",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet = cli.FlagsFromParams("encode", &params)
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			input, err := singleInput("encode", args)
			if err != nil {
				return err
			}
			resolved, err := resolveSettings(flagSet, params.Config, logger)
			if err != nil {
				return err
			}
			return encodeFile(ctx, input, resolved, stdout)
		},
	}
}

// encodeFile converts the JSON document in input to a frame and prints
// it as base64 followed by a newline.
func encodeFile(ctx context.Context, input string, resolved *settings, stdout io.Writer) error {
	data, err := readInput(input)
	if err != nil {
		return err
	}

	// Comments and trailing commas become whitespace, so JSON syntax
	// error offsets still point into the original file.
	frame, err := codec.New(resolved.codec).EncodeFromJSON(ctx, jsonc.ToJSON(data))
	if err != nil {
		return conversionError("encode "+input, err)
	}

	if _, err := fmt.Fprintln(stdout, base64.StdEncoding.EncodeToString(frame)); err != nil {
		return cli.Internal("write output: %w", err)
	}
	return nil
}
