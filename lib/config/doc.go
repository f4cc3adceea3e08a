// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for frugalconv.
//
// Configuration is optional. It is loaded from a single file named by
// either the FRUGALCONV_CONFIG environment variable (via [Load]) or a
// --config flag (via [LoadFile]). There is no ~/.config discovery and
// no automatic file search. When neither is given, [Default] applies.
//
// Values in the file are literal. Command-line flags override them;
// environment variables never do.
//
// Key exports:
//
//   - [Config] -- default protocol, indentation, colour, and strictness
//   - [Default] -- the built-in settings
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on no other frugalconv packages.
package config
