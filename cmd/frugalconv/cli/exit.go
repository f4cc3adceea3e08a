// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
)

const (
	// ExitFailure is the exit code for any failed conversion: unreadable
	// input, invalid data, unwritable output.
	ExitFailure = 1

	// ExitUsage is the exit code for command-line errors.
	ExitUsage = 2
)

// ExitError signals a non-zero exit code without printing an extra
// error message. When a command handler returns an ExitError, the CLI
// framework exits with the specified code without printing the error
// string. The command is expected to have already written its own
// output.
//
// "frugalconv validate" uses this to exit 1 after printing where a
// round trip diverged.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code. The main function checks for this
// interface on returned errors to distinguish "handled non-zero exit"
// from "unexpected error to display".
func (e *ExitError) ExitCode() int {
	return e.Code
}

// ExitCode maps a command's result to a process exit code: 0 for nil,
// the explicit code for an [ExitError], [ExitUsage] for usage errors,
// and [ExitFailure] for everything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitError interface{ ExitCode() int }
	if errors.As(err, &exitError) {
		return exitError.ExitCode()
	}
	var toolError *ToolError
	if errors.As(err, &toolError) && toolError.Category == CategoryUsage {
		return ExitUsage
	}
	return ExitFailure
}
