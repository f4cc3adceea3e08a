// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package thriftjson

import (
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"
)

// Type names a Thrift wire type in the JSON form.
type Type string

const (
	TypeBool   Type = "bool"
	TypeI8     Type = "i8"
	TypeI16    Type = "i16"
	TypeI32    Type = "i32"
	TypeI64    Type = "i64"
	TypeDouble Type = "double"
	TypeString Type = "string"
	// TypeBinary is a Thrift STRING whose bytes are not valid UTF-8.
	TypeBinary Type = "binary"
	TypeUUID   Type = "uuid"
	TypeStruct Type = "struct"
	TypeMap    Type = "map"
	TypeSet    Type = "set"
	TypeList   Type = "list"
)

var wireTypes = map[Type]thrift.TType{
	TypeBool:   thrift.BOOL,
	TypeI8:     thrift.I08,
	TypeI16:    thrift.I16,
	TypeI32:    thrift.I32,
	TypeI64:    thrift.I64,
	TypeDouble: thrift.DOUBLE,
	TypeString: thrift.STRING,
	TypeBinary: thrift.STRING,
	TypeUUID:   thrift.UUID,
	TypeStruct: thrift.STRUCT,
	TypeMap:    thrift.MAP,
	TypeSet:    thrift.SET,
	TypeList:   thrift.LIST,
}

// ParseType parses a JSON type name. "byte" is accepted as the IDL
// spelling of i8.
func ParseType(name string) (Type, error) {
	if name == "byte" {
		return TypeI8, nil
	}
	if name == "" {
		return "", invalid("type name is empty")
	}
	if _, ok := wireTypes[Type(name)]; !ok {
		return "", invalid("unknown type %q", name)
	}
	return Type(name), nil
}

// WireType returns the Thrift wire type for t. An empty Type maps to
// STRING, matching the default for unspecified container types.
func (t Type) WireType() (thrift.TType, error) {
	if t == "" {
		return thrift.STRING, nil
	}
	wire, ok := wireTypes[t]
	if !ok {
		return thrift.STOP, invalid("unknown type %q", t)
	}
	return wire, nil
}

// IsContainer reports whether t is a list, set, or map.
func (t Type) IsContainer() bool {
	return t == TypeList || t == TypeSet || t == TypeMap
}

// integerBits returns the bit width of an integer type, or 0.
func (t Type) integerBits() int {
	switch t {
	case TypeI8:
		return 8
	case TypeI16:
		return 16
	case TypeI32:
		return 32
	case TypeI64:
		return 64
	default:
		return 0
	}
}

// typeForWire maps a wire type read from a protocol to its JSON name.
// STRING maps to TypeString; the reader promotes to TypeBinary by
// content.
func typeForWire(wire thrift.TType) (Type, error) {
	switch wire {
	case thrift.BOOL:
		return TypeBool, nil
	case thrift.I08:
		return TypeI8, nil
	case thrift.I16:
		return TypeI16, nil
	case thrift.I32:
		return TypeI32, nil
	case thrift.I64:
		return TypeI64, nil
	case thrift.DOUBLE:
		return TypeDouble, nil
	case thrift.STRING:
		return TypeString, nil
	case thrift.UUID:
		return TypeUUID, nil
	case thrift.STRUCT:
		return TypeStruct, nil
	case thrift.MAP:
		return TypeMap, nil
	case thrift.SET:
		return TypeSet, nil
	case thrift.LIST:
		return TypeList, nil
	default:
		return "", fmt.Errorf("unsupported wire type %d", wire)
	}
}

var messageTypeNames = map[thrift.TMessageType]string{
	thrift.CALL:      "call",
	thrift.REPLY:     "reply",
	thrift.EXCEPTION: "exception",
	thrift.ONEWAY:    "oneway",
}

// MessageTypeName returns the JSON name of a message type.
func MessageTypeName(messageType thrift.TMessageType) string {
	if name, ok := messageTypeNames[messageType]; ok {
		return name
	}
	return fmt.Sprintf("unknown-%d", messageType)
}

// ParseMessageType parses call, reply, exception, or oneway.
func ParseMessageType(name string) (thrift.TMessageType, error) {
	for messageType, candidate := range messageTypeNames {
		if candidate == name {
			return messageType, nil
		}
	}
	return thrift.INVALID_TMESSAGE_TYPE, invalid("unknown message type %q (want call, reply, exception, or oneway)", name)
}
