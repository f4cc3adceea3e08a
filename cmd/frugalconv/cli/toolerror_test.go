// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestToolError_ErrorWithoutHint(t *testing.T) {
	err := Usage("--filename is required")
	if err.Error() != "--filename is required" {
		t.Errorf("Error() = %q, want %q", err.Error(), "--filename is required")
	}
}

func TestToolError_ErrorWithHint(t *testing.T) {
	err := Usage("exactly one of --decode or --encode is required").
		WithHint("Pass -d to decode base64 or -e to encode JSON.")

	want := "exactly one of --decode or --encode is required\n\nPass -d to decode base64 or -e to encode JSON."
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestToolError_WithHintReturnsReceiver(t *testing.T) {
	original := Validation("bad input")
	chained := original.WithHint("fix it")
	if original != chained {
		t.Error("WithHint should return the same pointer")
	}
}

func TestToolError_HintSurvivesErrorsAs(t *testing.T) {
	inner := Validation("invalid base64").WithHint("use --hex for hex dumps")
	wrapped := fmt.Errorf("decode failed: %w", inner)

	var toolErr *ToolError
	if !errors.As(wrapped, &toolErr) {
		t.Fatal("errors.As should find ToolError in wrapped chain")
	}
	if toolErr.Hint != "use --hex for hex dumps" {
		t.Errorf("Hint = %q after unwrap, want %q", toolErr.Hint, "use --hex for hex dumps")
	}
}

func TestToolError_UnwrapReachesCause(t *testing.T) {
	err := NotFound("read msg.txt: %w", fs.ErrNotExist)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is should reach the wrapped cause")
	}
}

func TestToolError_EmptyHintNotAppended(t *testing.T) {
	err := Internal("unexpected failure")
	if strings.Contains(err.Error(), "\n\n") {
		t.Error("empty hint should not add blank line to error message")
	}
}

func TestToolError_AllCategories(t *testing.T) {
	tests := []struct {
		name     string
		err      *ToolError
		category ErrorCategory
	}{
		{"Usage", Usage("bad flag"), CategoryUsage},
		{"Validation", Validation("bad"), CategoryValidation},
		{"NotFound", NotFound("missing"), CategoryNotFound},
		{"Internal", Internal("bug"), CategoryInternal},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if test.err.Category != test.category {
				t.Errorf("Category = %q, want %q", test.err.Category, test.category)
			}
			hinted := test.err.WithHint("try again")
			if hinted.Hint != "try again" {
				t.Errorf("Hint = %q after WithHint, want %q", hinted.Hint, "try again")
			}
		})
	}
}
