// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"usage", Usage("unknown flag"), ExitUsage},
		{"wrapped usage", fmt.Errorf("root: %w", Usage("unknown flag")), ExitUsage},
		{"validation", Validation("invalid base64"), ExitFailure},
		{"not found", NotFound("no such file"), ExitFailure},
		{"internal", Internal("write failed"), ExitFailure},
		{"plain error", errors.New("boom"), ExitFailure},
		{"explicit code", &ExitError{Code: 3}, 3},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := ExitCode(test.err); got != test.want {
				t.Errorf("ExitCode(%v) = %d, want %d", test.err, got, test.want)
			}
		})
	}
}
