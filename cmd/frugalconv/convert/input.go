// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package convert

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"unicode"

	"github.com/bureau-foundation/frugalconv/cmd/frugalconv/cli"
)

// stdinPath is the input path that reads standard input.
const stdinPath = "-"

// readInput returns the contents of path, or of standard input when
// path is "-".
func readInput(path string) ([]byte, error) {
	if path == stdinPath {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, cli.Internal("read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, cli.NotFound("input file %s does not exist", path).
				WithHint("Pass the message file with -f, or - to read stdin.")
		}
		return nil, cli.Internal("read %s: %w", path, err)
	}
	return data, nil
}

// readBinaryInput reads path and decodes its text to wire bytes: base64
// by default, hex when hexMode is set.
func readBinaryInput(path string, hexMode bool) ([]byte, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	if hexMode {
		decoded, err := decodeHexInput(data)
		if err != nil {
			return nil, cli.Validation("%s: %w", path, err)
		}
		return decoded, nil
	}
	decoded, err := decodeBase64Input(data)
	if err != nil {
		return nil, cli.Validation("%s: %w", path, err)
	}
	return decoded, nil
}

// decodeBase64Input strips whitespace from base64 text and decodes it.
// Padding is optional, so wrapped and unpadded blobs copied from logs
// both decode.
func decodeBase64Input(data []byte) ([]byte, error) {
	cleaned := stripSpace(data)
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("input is empty: expected base64 text")
	}

	decoded, err := base64.StdEncoding.DecodeString(string(cleaned))
	if err == nil {
		return decoded, nil
	}
	if raw, rawErr := base64.RawStdEncoding.DecodeString(string(cleaned)); rawErr == nil {
		return raw, nil
	}
	return nil, fmt.Errorf("invalid base64: %w", err)
}

// decodeHexInput strips whitespace from hex-encoded input and decodes
// it to binary bytes. Whitespace between hex digit pairs is allowed
// (e.g., "00 00 00 1d 00" or "0000001d00").
func decodeHexInput(data []byte) ([]byte, error) {
	cleaned := stripSpace(data)
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("input is empty: expected hex text")
	}

	decoded := make([]byte, hex.DecodedLen(len(cleaned)))
	count, err := hex.Decode(decoded, cleaned)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return decoded[:count], nil
}

func stripSpace(data []byte) []byte {
	return bytes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, data)
}
