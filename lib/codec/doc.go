// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec converts between the binary wire form of a message and
// its JSON document form.
//
// The wire form is a Frugal frame (see lib/frugal) wrapping a Thrift
// message serialized with the binary or compact protocol. A bare Thrift
// message without the Frugal envelope is also accepted. The document
// form is a [Message]:
//
//	{
//	    "metadata": {"message_length": 57, "version": 0, "header_length": 18},
//	    "headers": {"_opid": "0", "_cid": "abc"},
//	    "thrift": {
//	        "protocol": "binary",
//	        "method": "getPerson",
//	        "type": "call",
//	        "seqid": 1,
//	        "length": 30,
//	        "args": {"fields": [...]}
//	    }
//	}
//
// The Thrift body uses the lib/thriftjson value tree, so a decoded
// document encodes back to the same bytes.
//
// For one-off conversions with default settings:
//
//	document, err := codec.DecodeToJSON(frame)
//	frame, err := codec.EncodeFromJSON(document)
//
// For configured conversions (strictness, protocol, indentation,
// logging), construct a [Codec] with [New].
//
// Errors wrap [ErrFormat] when the input bytes or JSON text are
// malformed and [ErrSchema] when well-formed input does not describe a
// message.
package codec
