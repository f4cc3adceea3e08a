// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package convert

import (
	"bytes"
	"io"
	"os"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/bureau-foundation/frugalconv/cmd/frugalconv/cli"
	"github.com/bureau-foundation/frugalconv/lib/config"
)

// highlightStyle is the chroma style used for terminal output.
const highlightStyle = "monokai"

// writeDocument writes a rendered JSON document to the file at output,
// or to stdout when output is empty. Only stdout is highlighted.
func writeDocument(document []byte, output string, color config.ColorMode, stdout io.Writer) error {
	if output != "" {
		if err := os.WriteFile(output, document, 0o644); err != nil {
			return cli.Internal("write %s: %w", output, err)
		}
		return nil
	}

	if formatter := highlightFormatter(color, stdout); formatter != "" {
		var highlighted bytes.Buffer
		if err := quick.Highlight(&highlighted, string(document), "json", formatter, highlightStyle); err == nil {
			document = highlighted.Bytes()
		}
	}
	if _, err := stdout.Write(document); err != nil {
		return cli.Internal("write output: %w", err)
	}
	return nil
}

// highlightFormatter picks the chroma terminal formatter for w, or ""
// when w should receive plain text. In auto mode only terminals are
// highlighted and NO_COLOR is honoured through termenv.
func highlightFormatter(color config.ColorMode, w io.Writer) string {
	switch color {
	case config.ColorNever:
		return ""
	case config.ColorAlways:
		profile := termenv.NewOutput(w, termenv.WithTTY(true)).EnvColorProfile()
		if formatter := formatterForProfile(profile); formatter != "" {
			return formatter
		}
		return "terminal"
	default:
		if !isTerminal(w) {
			return ""
		}
		return formatterForProfile(termenv.NewOutput(w).EnvColorProfile())
	}
}

func formatterForProfile(profile termenv.Profile) string {
	switch profile {
	case termenv.TrueColor:
		return "terminal16m"
	case termenv.ANSI256:
		return "terminal256"
	case termenv.ANSI:
		return "terminal"
	default:
		return ""
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
