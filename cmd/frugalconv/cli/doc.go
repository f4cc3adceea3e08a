// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for frugalconv.
//
// The central type is [Command], which represents a named command with
// optional nested [Command.Subcommands], a [pflag.FlagSet] factory, and
// a Run function. Commands are assembled into a tree in
// cmd/frugalconv/main.go and dispatched via [Command.Execute], which
// handles flag parsing, subcommand routing, logger construction, and
// structured help output with examples.
//
// Flags are usually declared as tagged struct fields and bound with
// [FlagsFromParams].
//
// When a user types an unknown subcommand or flag, the framework
// computes Levenshtein edit distance against all known names and
// suggests the closest match (threshold: distance <= 3). This is
// implemented in suggest.go.
//
// Commands report failures as [ToolError] values. The category decides
// the process exit code through [ExitCode]: usage errors exit 2, every
// other failure exits 1.
package cli
