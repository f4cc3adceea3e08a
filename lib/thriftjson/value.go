// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package thriftjson

import (
	"github.com/apache/thrift/lib/go/thrift"
)

// Message is a Thrift message: the envelope plus its argument or
// result struct.
type Message struct {
	Name  string
	Type  thrift.TMessageType
	SeqID int32
	Body  *Struct
}

// Struct is a Thrift struct as a list of fields in wire order.
type Struct struct {
	Fields []Field
}

// Field returns the value of the first field with the given id.
func (s *Struct) Field(id int16) (Value, bool) {
	if s == nil {
		return Value{}, false
	}
	for _, field := range s.Fields {
		if field.ID == id {
			return field.Value, true
		}
	}
	return Value{}, false
}

// Field is one struct field.
type Field struct {
	ID    int16
	Value Value
}

// Value is a Thrift value tagged with its type. Only the members
// relevant to Type are meaningful:
//
//   - bool: Bool
//   - i8, i16, i32, i64: Int
//   - double: Double
//   - string: String
//   - binary: Binary
//   - uuid: UUID
//   - struct: Struct
//   - list, set: ElementType and Elements
//   - map: KeyType, ValueType, and Entries
type Value struct {
	Type Type

	Bool   bool
	Int    int64
	Double float64
	String string
	Binary []byte
	UUID   thrift.Tuuid
	Struct *Struct

	ElementType Type
	Elements    []Value

	KeyType   Type
	ValueType Type
	Entries   []Entry
}

// Entry is one map entry.
type Entry struct {
	Key   Value
	Value Value
}
