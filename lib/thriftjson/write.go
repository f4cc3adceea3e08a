// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package thriftjson

import (
	"context"
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"
)

// WriteMessage writes message to protocol and flushes it. A nil body
// is written as an empty struct.
func WriteMessage(ctx context.Context, protocol thrift.TProtocol, message *Message) error {
	if err := protocol.WriteMessageBegin(ctx, message.Name, message.Type, message.SeqID); err != nil {
		return fmt.Errorf("write message header: %w", err)
	}
	body := message.Body
	if body == nil {
		body = &Struct{}
	}
	if err := writeStruct(ctx, protocol, body, 1); err != nil {
		return fmt.Errorf("message %q: %w", message.Name, err)
	}
	if err := protocol.WriteMessageEnd(ctx); err != nil {
		return fmt.Errorf("write message end: %w", err)
	}
	return protocol.Flush(ctx)
}

func writeStruct(ctx context.Context, protocol thrift.TProtocol, value *Struct, depth int) error {
	if depth > maxDepth {
		return invalid("nesting exceeds %d levels", maxDepth)
	}
	// Struct and field names are not part of the binary or compact
	// encodings.
	if err := protocol.WriteStructBegin(ctx, "struct"); err != nil {
		return err
	}
	for _, field := range value.Fields {
		wire, err := field.Value.Type.WireType()
		if err != nil {
			return fmt.Errorf("field %d: %w", field.ID, err)
		}
		if err := protocol.WriteFieldBegin(ctx, "field", wire, field.ID); err != nil {
			return fmt.Errorf("field %d: %w", field.ID, err)
		}
		if err := writeValue(ctx, protocol, field.Value, depth); err != nil {
			return fmt.Errorf("field %d: %w", field.ID, err)
		}
		if err := protocol.WriteFieldEnd(ctx); err != nil {
			return fmt.Errorf("field %d: %w", field.ID, err)
		}
	}
	if err := protocol.WriteFieldStop(ctx); err != nil {
		return err
	}
	return protocol.WriteStructEnd(ctx)
}

func writeValue(ctx context.Context, protocol thrift.TProtocol, value Value, depth int) error {
	switch value.Type {
	case TypeBool:
		return protocol.WriteBool(ctx, value.Bool)
	case TypeI8:
		return protocol.WriteByte(ctx, int8(value.Int))
	case TypeI16:
		return protocol.WriteI16(ctx, int16(value.Int))
	case TypeI32:
		return protocol.WriteI32(ctx, int32(value.Int))
	case TypeI64:
		return protocol.WriteI64(ctx, value.Int)
	case TypeDouble:
		return protocol.WriteDouble(ctx, value.Double)
	case TypeString:
		return protocol.WriteString(ctx, value.String)
	case TypeBinary:
		return protocol.WriteBinary(ctx, value.Binary)
	case TypeUUID:
		return protocol.WriteUUID(ctx, value.UUID)

	case TypeStruct:
		body := value.Struct
		if body == nil {
			body = &Struct{}
		}
		return writeStruct(ctx, protocol, body, depth+1)

	case TypeList, TypeSet:
		elementWire, err := value.ElementType.WireType()
		if err != nil {
			return err
		}
		if value.Type == TypeList {
			err = protocol.WriteListBegin(ctx, elementWire, len(value.Elements))
		} else {
			err = protocol.WriteSetBegin(ctx, elementWire, len(value.Elements))
		}
		if err != nil {
			return err
		}
		for index, element := range value.Elements {
			if err := checkElement(value.ElementType, element); err != nil {
				return fmt.Errorf("element %d: %w", index, err)
			}
			if err := writeValue(ctx, protocol, element, depth+1); err != nil {
				return fmt.Errorf("element %d: %w", index, err)
			}
		}
		if value.Type == TypeList {
			return protocol.WriteListEnd(ctx)
		}
		return protocol.WriteSetEnd(ctx)

	case TypeMap:
		keyWire, err := value.KeyType.WireType()
		if err != nil {
			return fmt.Errorf("map key: %w", err)
		}
		valueWire, err := value.ValueType.WireType()
		if err != nil {
			return fmt.Errorf("map value: %w", err)
		}
		if err := protocol.WriteMapBegin(ctx, keyWire, valueWire, len(value.Entries)); err != nil {
			return err
		}
		for index, entry := range value.Entries {
			if err := checkElement(value.KeyType, entry.Key); err != nil {
				return fmt.Errorf("entry %d key: %w", index, err)
			}
			if err := writeValue(ctx, protocol, entry.Key, depth+1); err != nil {
				return fmt.Errorf("entry %d key: %w", index, err)
			}
			if err := checkElement(value.ValueType, entry.Value); err != nil {
				return fmt.Errorf("entry %d value: %w", index, err)
			}
			if err := writeValue(ctx, protocol, entry.Value, depth+1); err != nil {
				return fmt.Errorf("entry %d value: %w", index, err)
			}
		}
		return protocol.WriteMapEnd(ctx)

	default:
		return invalid("unknown type %q", value.Type)
	}
}

// checkElement verifies that a container element has the container's
// declared wire type. string and binary share a wire type.
func checkElement(declared Type, element Value) error {
	declaredWire, err := declared.WireType()
	if err != nil {
		return err
	}
	elementWire, err := element.Type.WireType()
	if err != nil {
		return err
	}
	if declaredWire != elementWire {
		return invalid("%s element in a collection of %s", element.Type, displayType(declared))
	}
	return nil
}

func displayType(t Type) Type {
	if t == "" {
		return TypeString
	}
	return t
}
