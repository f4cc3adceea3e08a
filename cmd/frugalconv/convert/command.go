// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package convert

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/frugalconv/cmd/frugalconv/cli"
)

// convertParams holds the parameters for the flat "frugalconv -f FILE
// -d|-e" form. It accepts the union of the subcommands' flags.
type convertParams struct {
	commonParams
	binaryInputParams
	jsonOutputParams
	encodeOptionParams

	File   string `json:"filename" flag:"filename,f" desc:"input file (- for stdin)"`
	Decode bool   `json:"decode"   flag:"decode,d"   desc:"decode base64 to JSON"`
	Encode bool   `json:"encode"   flag:"encode,e"   desc:"encode JSON to base64"`
	Output string `json:"output"   flag:"output,o"   desc:"write decoded JSON to this file instead of stdout"`
}

// Command returns the root frugalconv command, writing results to
// standard output.
func Command() *cli.Command {
	return newCommand(os.Stdout)
}

func newCommand(stdout io.Writer) *cli.Command {
	var (
		params  convertParams
		flagSet *pflag.FlagSet
	)

	return &cli.Command{
		Name:    "frugalconv",
		Summary: "Convert Frugal messages between base64 and JSON",
		Description: `Convert a Frugal-framed Thrift message between its base64 wire form
and a JSON document, for manual testing and debugging.

Decoding reads a file of base64 text and writes the JSON document to
--output, or to stdout when --output is omitted. Encoding reads a JSON
document and prints the base64 wire form to stdout. The JSON may contain
// and /* */ comments and trailing commas.

The input may be a Frugal frame (frame size, version, headers, then the
Thrift message) or a bare Thrift message in the binary or compact
protocol. Documents without "metadata" and "headers" encode as a bare
message.

Defaults for protocol, indentation, colour, and strictness can be set in
a YAML file named by --config or $FRUGALCONV_CONFIG.`,
		Usage: "frugalconv -f FILE (-d [-o OUTPUT] | -e) [flags]\n  frugalconv <command> FILE [flags]",
		Examples: []cli.Example{
			{
				Description: "Decode a message to a JSON file",
				Command:     "frugalconv -d -f msg.b64 -o msg.json",
			},
			{
				Description: "Decode a message to the terminal",
				Command:     "frugalconv -d -f msg.b64",
			},
			{
				Description: "Encode a JSON document to base64",
				Command:     "frugalconv -e -f msg.json",
			},
			{
				Description: "Decode a hex dump read from stdin",
				Command:     "xxd -p capture.bin | frugalconv -d -x -f -",
			},
			{
				Description: "Check that a message survives a round trip",
				Command:     "frugalconv validate msg.b64",
			},
		},
		Subcommands: []*cli.Command{
			decodeCommand(stdout),
			encodeCommand(stdout),
			validateCommand(stdout),
		},
		Flags: func() *pflag.FlagSet {
			flagSet = cli.FlagsFromParams("frugalconv", &params)
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := checkFlatMode(&params, args); err != nil {
				return err
			}
			resolved, err := resolveSettings(flagSet, params.Config, logger)
			if err != nil {
				return err
			}
			if params.Decode {
				return decodeFile(ctx, params.File, params.Output, resolved, stdout)
			}
			return encodeFile(ctx, params.File, resolved, stdout)
		},
	}
}

// checkFlatMode validates the flag combination of the flat form.
func checkFlatMode(params *convertParams, args []string) error {
	const hint = "Run 'frugalconv --help' for usage."
	if len(args) > 0 {
		return cli.Usage("unexpected argument %q", args[0]).WithHint(hint)
	}
	if params.File == "" {
		return cli.Usage("an input file is required (-f/--filename FILE, or -f - for stdin)").WithHint(hint)
	}
	switch {
	case params.Decode && params.Encode:
		return cli.Usage("-d and -e are mutually exclusive").WithHint(hint)
	case !params.Decode && !params.Encode:
		return cli.Usage("one of -d (decode) or -e (encode) is required").WithHint(hint)
	case params.Encode && params.Output != "":
		return cli.Usage("--output applies to decode only; encode prints base64 to stdout").WithHint(hint)
	case params.Encode && params.Hex:
		return cli.Usage("--hex applies to decode only; encode reads a JSON document").WithHint(hint)
	case params.Encode && params.Strict:
		return cli.Usage("--strict applies to decode only").WithHint(hint)
	}
	return nil
}

// singleInput returns the one positional FILE argument of a subcommand.
func singleInput(command string, args []string) (string, error) {
	hint := "Run 'frugalconv " + command + " --help' for usage."
	switch len(args) {
	case 0:
		return "", cli.Usage("%s requires an input file (- for stdin)", command).WithHint(hint)
	case 1:
		return args[0], nil
	default:
		return "", cli.Usage("%s takes one input file, got %d arguments", command, len(args)).WithHint(hint)
	}
}
