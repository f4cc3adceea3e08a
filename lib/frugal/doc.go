// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package frugal parses and builds Frugal frames: the envelope that
// carries request headers in front of a serialized Thrift message.
//
// Wire layout (all integers big-endian):
//
//	u32  frame size (bytes following this field)
//	u8   header version (0)
//	u32  header block length
//	     header block: repeated {u32 key length, key, u32 value length, value}
//	     Thrift message (the payload)
//
// Header keys and values are UTF-8 strings. [Headers] keeps them in wire
// order so that a parsed frame re-encodes to identical bytes, and its
// JSON form is an object whose member order matches the wire.
package frugal
