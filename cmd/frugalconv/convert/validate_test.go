// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package convert

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/bureau-foundation/frugalconv/cmd/frugalconv/cli"
)

// nonCanonicalBool is a bare binary-protocol call "m" whose bool field
// carries 0x02. Readers treat any byte other than 1 as false, so the
// re-encoded message has 0x00 at offset 16.
var nonCanonicalBool = []byte{
	0x80, 0x01, 0x00, 0x01, // strict version, call
	0x00, 0x00, 0x00, 0x01, 'm', // method name
	0x00, 0x00, 0x00, 0x01, // seqid
	0x02, 0x00, 0x01, 0x02, // bool field 1 = 0x02
	0x00, // stop
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		data       []byte
		wantOutput string
		wantCode   int
	}{
		{
			name:       "framed",
			data:       encodeDocument(t, userDocument),
			wantOutput: "valid\n",
		},
		{
			name:       "bare",
			data:       encodeDocument(t, bareDocument),
			wantOutput: "valid\n",
		},
		{
			name:       "non-canonical bool",
			data:       nonCanonicalBool,
			wantOutput: "mismatch: first difference at byte 16 (original 18 bytes, re-encoded 18 bytes)\n",
			wantCode:   cli.ExitFailure,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			input := writeFile(t, t.TempDir(), "msg.b64", base64.StdEncoding.EncodeToString(test.data))

			stdout, err := execute(t, "validate", input)
			if stdout != test.wantOutput {
				t.Errorf("stdout = %q, want %q", stdout, test.wantOutput)
			}
			if code := cli.ExitCode(err); code != test.wantCode {
				t.Errorf("exit code = %d, want %d (error: %v)", code, test.wantCode, err)
			}
			if test.wantCode != 0 {
				var exitError *cli.ExitError
				if !errors.As(err, &exitError) {
					t.Errorf("error %v is not an ExitError", err)
				}
			}
		})
	}
}

func TestValidate_RejectsTrailingBytes(t *testing.T) {
	data := append(encodeDocument(t, bareDocument), 0xff, 0xff)
	input := writeFile(t, t.TempDir(), "msg.b64", base64.StdEncoding.EncodeToString(data))

	stdout, err := execute(t, "validate", input)
	assertCategory(t, err, cli.CategoryValidation)
	if !strings.Contains(err.Error(), "trailing bytes") {
		t.Errorf("error %q does not mention trailing bytes", err)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want nothing", stdout)
	}
}
