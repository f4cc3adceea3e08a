// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Frugalconv converts Frugal-framed Thrift messages between their
// base64 wire form and a JSON document, for testing and debugging
// services by hand. See package convert for the commands.
package main
