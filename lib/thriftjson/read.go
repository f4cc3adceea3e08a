// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package thriftjson

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/apache/thrift/lib/go/thrift"
)

// maxDepth bounds struct and container nesting, matching the Thrift
// libraries' default recursion limit.
const maxDepth = thrift.DEFAULT_RECURSION_DEPTH

// ReadMessage reads one message from protocol without a schema.
func ReadMessage(ctx context.Context, protocol thrift.TProtocol) (*Message, error) {
	name, messageType, seqID, err := protocol.ReadMessageBegin(ctx)
	if err != nil {
		return nil, fmt.Errorf("read message header: %w", err)
	}
	if _, ok := messageTypeNames[messageType]; !ok {
		return nil, fmt.Errorf("message %q: unknown message type %d", name, messageType)
	}

	body, err := readStruct(ctx, protocol, 1)
	if err != nil {
		return nil, fmt.Errorf("message %q: %w", name, err)
	}
	if err := protocol.ReadMessageEnd(ctx); err != nil {
		return nil, fmt.Errorf("message %q: read message end: %w", name, err)
	}

	return &Message{
		Name:  name,
		Type:  messageType,
		SeqID: seqID,
		Body:  body,
	}, nil
}

func readStruct(ctx context.Context, protocol thrift.TProtocol, depth int) (*Struct, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("nesting exceeds %d levels", maxDepth)
	}
	if _, err := protocol.ReadStructBegin(ctx); err != nil {
		return nil, fmt.Errorf("read struct begin: %w", err)
	}

	result := &Struct{Fields: []Field{}}
	for {
		_, wire, id, err := protocol.ReadFieldBegin(ctx)
		if err != nil {
			return nil, fmt.Errorf("read field header after %d fields: %w", len(result.Fields), err)
		}
		if wire == thrift.STOP {
			break
		}

		value, err := readValue(ctx, protocol, wire, depth)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", id, err)
		}
		result.Fields = append(result.Fields, Field{ID: id, Value: value})

		if err := protocol.ReadFieldEnd(ctx); err != nil {
			return nil, fmt.Errorf("field %d: read field end: %w", id, err)
		}
	}

	if err := protocol.ReadStructEnd(ctx); err != nil {
		return nil, fmt.Errorf("read struct end: %w", err)
	}
	return result, nil
}

func readValue(ctx context.Context, protocol thrift.TProtocol, wire thrift.TType, depth int) (Value, error) {
	switch wire {
	case thrift.BOOL:
		value, err := protocol.ReadBool(ctx)
		return Value{Type: TypeBool, Bool: value}, err

	case thrift.I08:
		value, err := protocol.ReadByte(ctx)
		return Value{Type: TypeI8, Int: int64(value)}, err

	case thrift.I16:
		value, err := protocol.ReadI16(ctx)
		return Value{Type: TypeI16, Int: int64(value)}, err

	case thrift.I32:
		value, err := protocol.ReadI32(ctx)
		return Value{Type: TypeI32, Int: int64(value)}, err

	case thrift.I64:
		value, err := protocol.ReadI64(ctx)
		return Value{Type: TypeI64, Int: value}, err

	case thrift.DOUBLE:
		value, err := protocol.ReadDouble(ctx)
		return Value{Type: TypeDouble, Double: value}, err

	case thrift.STRING:
		raw, err := protocol.ReadBinary(ctx)
		if err != nil {
			return Value{}, err
		}
		return stringValue(raw), nil

	case thrift.UUID:
		value, err := protocol.ReadUUID(ctx)
		return Value{Type: TypeUUID, UUID: value}, err

	case thrift.STRUCT:
		value, err := readStruct(ctx, protocol, depth+1)
		return Value{Type: TypeStruct, Struct: value}, err

	case thrift.LIST:
		elementWire, size, err := protocol.ReadListBegin(ctx)
		if err != nil {
			return Value{}, fmt.Errorf("read list header: %w", err)
		}
		elementType, elements, err := readElements(ctx, protocol, elementWire, size, depth)
		if err != nil {
			return Value{}, err
		}
		if err := protocol.ReadListEnd(ctx); err != nil {
			return Value{}, fmt.Errorf("read list end: %w", err)
		}
		return Value{Type: TypeList, ElementType: elementType, Elements: elements}, nil

	case thrift.SET:
		elementWire, size, err := protocol.ReadSetBegin(ctx)
		if err != nil {
			return Value{}, fmt.Errorf("read set header: %w", err)
		}
		elementType, elements, err := readElements(ctx, protocol, elementWire, size, depth)
		if err != nil {
			return Value{}, err
		}
		if err := protocol.ReadSetEnd(ctx); err != nil {
			return Value{}, fmt.Errorf("read set end: %w", err)
		}
		return Value{Type: TypeSet, ElementType: elementType, Elements: elements}, nil

	case thrift.MAP:
		return readMap(ctx, protocol, depth)

	default:
		return Value{}, fmt.Errorf("unsupported wire type %d", wire)
	}
}

func readElements(ctx context.Context, protocol thrift.TProtocol, wire thrift.TType, size int, depth int) (Type, []Value, error) {
	if depth+1 > maxDepth {
		return "", nil, fmt.Errorf("nesting exceeds %d levels", maxDepth)
	}
	elementType, err := typeForWire(wire)
	if err != nil {
		return "", nil, err
	}

	elements := []Value{}
	for index := 0; index < size; index++ {
		element, err := readValue(ctx, protocol, wire, depth+1)
		if err != nil {
			return "", nil, fmt.Errorf("element %d: %w", index, err)
		}
		elements = append(elements, element)
	}

	elementType = promoteBinary(elementType, elements)
	return elementType, elements, nil
}

func readMap(ctx context.Context, protocol thrift.TProtocol, depth int) (Value, error) {
	if depth+1 > maxDepth {
		return Value{}, fmt.Errorf("nesting exceeds %d levels", maxDepth)
	}
	keyWire, valueWire, size, err := protocol.ReadMapBegin(ctx)
	if err != nil {
		return Value{}, fmt.Errorf("read map header: %w", err)
	}

	result := Value{Type: TypeMap, Entries: []Entry{}}

	// The compact protocol omits key and value types for empty maps.
	if size == 0 && keyWire == thrift.STOP && valueWire == thrift.STOP {
		if err := protocol.ReadMapEnd(ctx); err != nil {
			return Value{}, fmt.Errorf("read map end: %w", err)
		}
		return result, nil
	}

	if result.KeyType, err = typeForWire(keyWire); err != nil {
		return Value{}, fmt.Errorf("map key: %w", err)
	}
	if result.ValueType, err = typeForWire(valueWire); err != nil {
		return Value{}, fmt.Errorf("map value: %w", err)
	}

	keys := make([]Value, 0)
	values := make([]Value, 0)
	for index := 0; index < size; index++ {
		key, err := readValue(ctx, protocol, keyWire, depth+1)
		if err != nil {
			return Value{}, fmt.Errorf("entry %d key: %w", index, err)
		}
		value, err := readValue(ctx, protocol, valueWire, depth+1)
		if err != nil {
			return Value{}, fmt.Errorf("entry %d value: %w", index, err)
		}
		keys = append(keys, key)
		values = append(values, value)
	}
	if err := protocol.ReadMapEnd(ctx); err != nil {
		return Value{}, fmt.Errorf("read map end: %w", err)
	}

	result.KeyType = promoteBinary(result.KeyType, keys)
	result.ValueType = promoteBinary(result.ValueType, values)
	for index := range keys {
		result.Entries = append(result.Entries, Entry{Key: keys[index], Value: values[index]})
	}
	return result, nil
}

// stringValue types a Thrift STRING by content: valid UTF-8 is a
// string, anything else is binary.
func stringValue(raw []byte) Value {
	if utf8.Valid(raw) {
		return Value{Type: TypeString, String: string(raw)}
	}
	return Value{Type: TypeBinary, Binary: raw}
}

// promoteBinary makes a string collection uniform: if any element had
// to be typed binary, every element becomes binary and so does the
// collection's element type.
func promoteBinary(elementType Type, elements []Value) Type {
	if elementType != TypeString {
		return elementType
	}
	promote := false
	for _, element := range elements {
		if element.Type == TypeBinary {
			promote = true
			break
		}
	}
	if !promote {
		return elementType
	}
	for index := range elements {
		if elements[index].Type == TypeString {
			elements[index] = Value{Type: TypeBinary, Binary: []byte(elements[index].String)}
		}
	}
	return TypeBinary
}
