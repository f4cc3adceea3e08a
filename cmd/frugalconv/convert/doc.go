// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package convert implements the frugalconv commands: the flat
// "-f FILE -d|-e" form and the decode, encode, and validate
// subcommands.
//
// Decoding reads base64 (or hex with --hex) text, parses the Frugal
// frame and Thrift message with [codec.Codec], and writes the JSON
// document to the --output file or standard output. Encoding reads a
// JSON document (comments and trailing commas allowed), builds the
// frame, and prints it as base64.
//
// Every conversion is computed in full before anything is written, so
// a failed run leaves no output file and prints nothing to standard
// output. Settings come from the optional YAML config (see
// lib/config), overridden by flags the user set explicitly.
package convert
