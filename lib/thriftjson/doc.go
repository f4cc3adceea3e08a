// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package thriftjson reads Thrift messages of unknown schema into a
// typed value tree and writes such trees back, over any
// thrift.TProtocol (binary or compact).
//
// Without an IDL, field names are unavailable on the wire, so the tree
// records what the wire does carry: field ids, wire types, and values.
// The tree has a JSON form designed for hand editing:
//
//	{"fields": [
//	  {"field_id": 1, "field_type": "i32", "value": 7},
//	  {"field_id": 2, "field_type": "list", "element_type": "string", "value": ["a"]},
//	  {"field_id": 3, "field_type": "map", "key_type": "string", "value_type": "i64",
//	   "value": [{"key": "k", "value": 1}]}
//	]}
//
// Container elements that are themselves containers carry their own
// type information ({"element_type": ..., "value": [...]}), so every
// tree round-trips through JSON without loss. Thrift strings whose
// bytes are not valid UTF-8 use the pseudo-type "binary" and are
// written as base64.
//
// Parsing JSON is lenient in the ways hand-written documents need:
// missing element types are inferred, maps may be written as JSON
// objects, and null scalars become zero values. Documents that parse
// as JSON but cannot describe a Thrift value produce errors wrapping
// [ErrInvalid].
package thriftjson
