// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package thriftjson

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/apache/thrift/lib/go/thrift"
)

// ErrInvalid is wrapped by errors for JSON that is syntactically valid
// but does not describe a Thrift value.
var ErrInvalid = errors.New("invalid thrift value")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

type structJSON struct {
	Fields []Field `json:"fields"`
}

type fieldJSON struct {
	ID          int16           `json:"field_id"`
	Type        Type            `json:"field_type"`
	ElementType Type            `json:"element_type,omitempty"`
	KeyType     Type            `json:"key_type,omitempty"`
	ValueType   Type            `json:"value_type,omitempty"`
	Value       json.RawMessage `json:"value"`
}

// containerJSON is the self-describing form of a container nested
// inside another container.
type containerJSON struct {
	ElementType Type            `json:"element_type,omitempty"`
	KeyType     Type            `json:"key_type,omitempty"`
	ValueType   Type            `json:"value_type,omitempty"`
	Value       json.RawMessage `json:"value"`
}

type entryJSON struct {
	Key   json.RawMessage `json:"key"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON encodes the struct as {"fields": [...]}.
func (s Struct) MarshalJSON() ([]byte, error) {
	fields := s.Fields
	if fields == nil {
		fields = []Field{}
	}
	return marshal(structJSON{Fields: fields})
}

// UnmarshalJSON decodes {"fields": [...]}. null and {} decode to an
// empty struct.
func (s *Struct) UnmarshalJSON(data []byte) error {
	parsed, err := parseStruct(data)
	if err != nil {
		return err
	}
	*s = *parsed
	return nil
}

// MarshalJSON encodes the field with its type information.
func (f Field) MarshalJSON() ([]byte, error) {
	payload, err := marshalPayload(f.Value)
	if err != nil {
		return nil, fmt.Errorf("field %d: %w", f.ID, err)
	}
	return marshal(fieldJSON{
		ID:          f.ID,
		Type:        f.Value.Type,
		ElementType: f.Value.ElementType,
		KeyType:     f.Value.KeyType,
		ValueType:   f.Value.ValueType,
		Value:       payload,
	})
}

// UnmarshalJSON decodes a single field object.
func (f *Field) UnmarshalJSON(data []byte) error {
	parsed, err := parseField(data)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// marshalPayload encodes the bare value without type information.
func marshalPayload(value Value) (json.RawMessage, error) {
	switch value.Type {
	case TypeBool:
		return marshal(value.Bool)
	case TypeI8, TypeI16, TypeI32, TypeI64:
		return strconv.AppendInt(nil, value.Int, 10), nil
	case TypeDouble:
		return marshalDouble(value.Double)
	case TypeString:
		return marshal(value.String)
	case TypeBinary:
		return marshal(base64.StdEncoding.EncodeToString(value.Binary))
	case TypeUUID:
		return marshal(value.UUID.String())

	case TypeStruct:
		body := value.Struct
		if body == nil {
			body = &Struct{}
		}
		return marshal(body)

	case TypeList, TypeSet:
		elements := make([]json.RawMessage, 0, len(value.Elements))
		for index, element := range value.Elements {
			raw, err := marshalElement(element)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", index, err)
			}
			elements = append(elements, raw)
		}
		return marshal(elements)

	case TypeMap:
		entries := make([]entryJSON, 0, len(value.Entries))
		for index, entry := range value.Entries {
			key, err := marshalElement(entry.Key)
			if err != nil {
				return nil, fmt.Errorf("entry %d key: %w", index, err)
			}
			element, err := marshalElement(entry.Value)
			if err != nil {
				return nil, fmt.Errorf("entry %d value: %w", index, err)
			}
			entries = append(entries, entryJSON{Key: key, Value: element})
		}
		return marshal(entries)

	default:
		return nil, invalid("unknown type %q", value.Type)
	}
}

// marshalElement encodes a container element. Nested containers carry
// their own type information.
func marshalElement(value Value) (json.RawMessage, error) {
	payload, err := marshalPayload(value)
	if err != nil || !value.Type.IsContainer() {
		return payload, err
	}
	return marshal(containerJSON{
		ElementType: value.ElementType,
		KeyType:     value.KeyType,
		ValueType:   value.ValueType,
		Value:       payload,
	})
}

// marshalDouble writes non-finite doubles as the strings "NaN",
// "Infinity", and "-Infinity", which JSON numbers cannot express.
func marshalDouble(value float64) (json.RawMessage, error) {
	switch {
	case math.IsNaN(value):
		return marshal("NaN")
	case math.IsInf(value, 1):
		return marshal("Infinity")
	case math.IsInf(value, -1):
		return marshal("-Infinity")
	default:
		return marshal(value)
	}
}

// marshal encodes v without HTML escaping.
func marshal(v any) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buffer.Bytes(), []byte("\n")), nil
}

// shape is the type information that governs how a JSON value parses.
type shape struct {
	Type        Type
	ElementType Type
	KeyType     Type
	ValueType   Type
}

func parseShape(kind Type, elementType, keyType, valueType string) (shape, error) {
	result := shape{Type: kind}
	var err error
	if elementType != "" {
		if result.ElementType, err = ParseType(elementType); err != nil {
			return shape{}, fmt.Errorf("element_type: %w", err)
		}
	}
	if keyType != "" {
		if result.KeyType, err = ParseType(keyType); err != nil {
			return shape{}, fmt.Errorf("key_type: %w", err)
		}
	}
	if valueType != "" {
		if result.ValueType, err = ParseType(valueType); err != nil {
			return shape{}, fmt.Errorf("value_type: %w", err)
		}
	}
	return result, nil
}

func parseStruct(raw json.RawMessage) (*Struct, error) {
	result := &Struct{Fields: []Field{}}
	if kindOf(raw) == kindNull {
		return result, nil
	}

	var object struct {
		Fields []json.RawMessage `json:"fields"`
	}
	if err := json.Unmarshal(raw, &object); err != nil {
		return nil, invalid("struct must be an object with a fields array: %v", err)
	}
	for index, rawField := range object.Fields {
		field, err := parseField(rawField)
		if err != nil {
			return nil, fmt.Errorf("fields[%d]: %w", index, err)
		}
		result.Fields = append(result.Fields, field)
	}
	return result, nil
}

func parseField(raw json.RawMessage) (Field, error) {
	var header struct {
		ID          *int64          `json:"field_id"`
		Type        string          `json:"field_type"`
		ElementType string          `json:"element_type"`
		KeyType     string          `json:"key_type"`
		ValueType   string          `json:"value_type"`
		Value       json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(raw, &header); err != nil {
		return Field{}, invalid("field must be an object: %v", err)
	}
	if header.ID == nil {
		return Field{}, invalid("field_id is required")
	}
	id := *header.ID
	if id < math.MinInt16 || id > math.MaxInt16 {
		return Field{}, invalid("field_id %d is outside the i16 range", id)
	}
	if header.Type == "" {
		return Field{}, invalid("field %d: field_type is required", id)
	}
	fieldType, err := ParseType(header.Type)
	if err != nil {
		return Field{}, fmt.Errorf("field %d: %w", id, err)
	}
	fieldShape, err := parseShape(fieldType, header.ElementType, header.KeyType, header.ValueType)
	if err != nil {
		return Field{}, fmt.Errorf("field %d: %w", id, err)
	}
	value, err := parseValue(fieldShape, header.Value)
	if err != nil {
		return Field{}, fmt.Errorf("field %d: %w", id, err)
	}
	return Field{ID: int16(id), Value: value}, nil
}

// parseValue parses raw according to s. A missing or null value yields
// the type's zero value.
func parseValue(s shape, raw json.RawMessage) (Value, error) {
	if kindOf(raw) == kindNull {
		return zeroValue(s), nil
	}

	switch s.Type {
	case TypeBool:
		var value bool
		if err := json.Unmarshal(raw, &value); err != nil {
			return Value{}, invalid("expected a boolean, got %s", abbreviate(raw))
		}
		return Value{Type: TypeBool, Bool: value}, nil

	case TypeI8, TypeI16, TypeI32, TypeI64:
		var number json.Number
		if err := json.Unmarshal(raw, &number); err != nil {
			return Value{}, invalid("expected an integer, got %s", abbreviate(raw))
		}
		return parseInteger(s.Type, number.String())

	case TypeDouble:
		var text string
		if err := json.Unmarshal(raw, &text); err == nil {
			return parseDouble(text)
		}
		var number json.Number
		if err := json.Unmarshal(raw, &number); err != nil {
			return Value{}, invalid("expected a number, got %s", abbreviate(raw))
		}
		return parseDouble(number.String())

	case TypeString:
		value, err := stringText(raw)
		if err != nil {
			return Value{}, err
		}
		return Value{Type: TypeString, String: value}, nil

	case TypeBinary:
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return Value{}, invalid("expected a base64 string, got %s", abbreviate(raw))
		}
		return parseBinary(text)

	case TypeUUID:
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return Value{}, invalid("expected a UUID string, got %s", abbreviate(raw))
		}
		return parseUUID(text)

	case TypeStruct:
		body, err := parseStruct(raw)
		if err != nil {
			return Value{}, err
		}
		return Value{Type: TypeStruct, Struct: body}, nil

	case TypeList, TypeSet:
		return parseSequence(s, raw)

	case TypeMap:
		return parseMap(s, raw)

	default:
		return Value{}, invalid("unknown type %q", s.Type)
	}
}

func zeroValue(s shape) Value {
	value := Value{Type: s.Type}
	switch s.Type {
	case TypeStruct:
		value.Struct = &Struct{Fields: []Field{}}
	case TypeBinary:
		value.Binary = []byte{}
	case TypeList, TypeSet:
		value.ElementType = defaultType(s.ElementType)
		value.Elements = []Value{}
	case TypeMap:
		value.KeyType = defaultType(s.KeyType)
		value.ValueType = defaultType(s.ValueType)
		value.Entries = []Entry{}
	}
	return value
}

func defaultType(t Type) Type {
	if t == "" {
		return TypeString
	}
	return t
}

func parseInteger(t Type, text string) (Value, error) {
	value, err := strconv.ParseInt(text, 10, t.integerBits())
	if err != nil {
		var numError *strconv.NumError
		if errors.As(err, &numError) && errors.Is(numError.Err, strconv.ErrRange) {
			return Value{}, invalid("%s is out of range for %s", text, t)
		}
		return Value{}, invalid("%q is not an integer", text)
	}
	return Value{Type: t, Int: value}, nil
}

// parseDouble accepts decimal numbers and the spellings NaN, Infinity,
// and -Infinity.
func parseDouble(text string) (Value, error) {
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Value{}, invalid("%q is not a number", text)
	}
	return Value{Type: TypeDouble, Double: value}, nil
}

func parseBinary(text string) (Value, error) {
	value, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return Value{}, invalid("binary value is not valid base64: %v", err)
	}
	return Value{Type: TypeBinary, Binary: value}, nil
}

func parseUUID(text string) (Value, error) {
	value, err := thrift.ParseTuuid(text)
	if err != nil {
		return Value{}, invalid("%q is not a UUID: %v", text, err)
	}
	return Value{Type: TypeUUID, UUID: value}, nil
}

func parseSequence(s shape, raw json.RawMessage) (Value, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return Value{}, invalid("%s value must be an array, got %s", s.Type, abbreviate(raw))
	}

	elementType := s.ElementType
	switch {
	case elementType != "":
	case s.Type == TypeSet:
		elementType = inferSetElementType(items)
	default:
		elementType = inferElementType(items)
	}

	elements := make([]Value, 0, len(items))
	for index, item := range items {
		element, err := parseElement(elementType, item)
		if err != nil {
			return Value{}, fmt.Errorf("element %d: %w", index, err)
		}
		elements = append(elements, element)
	}
	return Value{Type: s.Type, ElementType: elementType, Elements: elements}, nil
}

func parseMap(s shape, raw json.RawMessage) (Value, error) {
	result := Value{
		Type:      TypeMap,
		KeyType:   defaultType(s.KeyType),
		ValueType: defaultType(s.ValueType),
		Entries:   []Entry{},
	}

	switch kindOf(raw) {
	case kindArray:
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return Value{}, invalid("map value: %v", err)
		}
		for index, item := range items {
			var entry entryJSON
			if kindOf(item) != kindObject {
				return Value{}, invalid("entry %d must be an object with key and value", index)
			}
			if err := json.Unmarshal(item, &entry); err != nil {
				return Value{}, invalid("entry %d: %v", index, err)
			}
			if entry.Key == nil {
				return Value{}, invalid("entry %d: key is required", index)
			}
			key, err := parseElement(result.KeyType, entry.Key)
			if err != nil {
				return Value{}, fmt.Errorf("entry %d key: %w", index, err)
			}
			value, err := parseElement(result.ValueType, entry.Value)
			if err != nil {
				return Value{}, fmt.Errorf("entry %d value: %w", index, err)
			}
			result.Entries = append(result.Entries, Entry{Key: key, Value: value})
		}

	case kindObject:
		members, err := objectMembers(raw)
		if err != nil {
			return Value{}, invalid("map value: %v", err)
		}
		for _, member := range members {
			key, err := parseKey(result.KeyType, member.name)
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", member.name, err)
			}
			value, err := parseElement(result.ValueType, member.value)
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", member.name, err)
			}
			result.Entries = append(result.Entries, Entry{Key: key, Value: value})
		}

	default:
		return Value{}, invalid("map value must be an array of {key, value} entries or an object, got %s", abbreviate(raw))
	}
	return result, nil
}

// parseElement parses a container element. Nested containers may be
// given in self-describing form or bare (types inferred or defaulted).
func parseElement(t Type, raw json.RawMessage) (Value, error) {
	if t.IsContainer() && kindOf(raw) == kindObject && isContainerWrapper(t, raw) {
		var nested struct {
			ElementType string          `json:"element_type"`
			KeyType     string          `json:"key_type"`
			ValueType   string          `json:"value_type"`
			Value       json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(raw, &nested); err != nil {
			return Value{}, invalid("nested %s: %v", t, err)
		}
		nestedShape, err := parseShape(t, nested.ElementType, nested.KeyType, nested.ValueType)
		if err != nil {
			return Value{}, err
		}
		return parseValue(nestedShape, nested.Value)
	}
	return parseValue(shape{Type: t}, raw)
}

// isContainerWrapper distinguishes {"element_type": ..., "value": ...}
// from a map written directly as a JSON object. Lists and sets are
// always wrapped when given as objects.
func isContainerWrapper(t Type, raw json.RawMessage) bool {
	if t != TypeMap {
		return true
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil {
		return false
	}
	if _, ok := members["value"]; !ok {
		return false
	}
	for name := range members {
		switch name {
		case "value", "key_type", "value_type", "element_type":
		default:
			return false
		}
	}
	return true
}

// parseKey parses a JSON object member name as a map key of type t.
func parseKey(t Type, name string) (Value, error) {
	switch t {
	case TypeString:
		return Value{Type: TypeString, String: name}, nil
	case TypeBinary:
		return parseBinary(name)
	case TypeBool:
		value, err := strconv.ParseBool(name)
		if err != nil {
			return Value{}, invalid("%q is not a boolean", name)
		}
		return Value{Type: TypeBool, Bool: value}, nil
	case TypeI8, TypeI16, TypeI32, TypeI64:
		return parseInteger(t, name)
	case TypeDouble:
		return parseDouble(name)
	case TypeUUID:
		return parseUUID(name)
	default:
		return Value{}, invalid("%s keys cannot be written as JSON object members; use the [{\"key\": ..., \"value\": ...}] form", t)
	}
}

// inferSetElementType picks an element type for a set written without
// element_type. Sets of scalars are string sets (numbers and booleans
// are converted by stringText); anything else is a set of structs.
func inferSetElementType(items []json.RawMessage) Type {
	for _, item := range items {
		switch kindOf(item) {
		case kindString, kindInteger, kindFloat, kindBool:
		default:
			return TypeStruct
		}
	}
	return TypeString
}

// stringText returns the text of a string field. Numbers and booleans
// are accepted and rendered as text: booleans as True or False,
// integers as written, and other numbers in shortest form with a
// trailing ".0" when integral.
func stringText(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	switch kindOf(raw) {
	case kindString:
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return "", invalid("expected a string, got %s", abbreviate(raw))
		}
		return value, nil
	case kindBool:
		switch string(trimmed) {
		case "true":
			return "True", nil
		case "false":
			return "False", nil
		}
	case kindInteger:
		if _, ok := new(big.Int).SetString(string(trimmed), 10); ok {
			return string(trimmed), nil
		}
	case kindFloat:
		value, err := strconv.ParseFloat(string(trimmed), 64)
		if err == nil {
			return floatText(value), nil
		}
	}
	return "", invalid("expected a string, got %s", abbreviate(raw))
}

func floatText(value float64) string {
	magnitude := math.Abs(value)
	if magnitude != 0 && (magnitude < 1e-4 || magnitude >= 1e16) {
		return strconv.FormatFloat(value, 'e', -1, 64)
	}
	text := strconv.FormatFloat(value, 'f', -1, 64)
	if !strings.Contains(text, ".") {
		text += ".0"
	}
	return text
}

// inferElementType picks an element type for a list written without
// element_type: all booleans are bool, all integers are i32
// (i64 if any exceeds the i32 range), other numbers are double, all
// strings are string, arrays are lists, and objects are structs.
func inferElementType(items []json.RawMessage) Type {
	allBool, allInteger, allNumber, allString := true, true, true, true
	wide := false
	sawAny := false
	first := kindNull

	for _, item := range items {
		kind := kindOf(item)
		if kind == kindNull {
			continue
		}
		if !sawAny {
			first = kind
			sawAny = true
		}
		switch kind {
		case kindBool:
			allInteger, allNumber, allString = false, false, false
		case kindInteger:
			allBool, allString = false, false
			if _, err := strconv.ParseInt(string(bytes.TrimSpace(item)), 10, 32); err != nil {
				wide = true
			}
		case kindFloat:
			allBool, allInteger, allString = false, false, false
		case kindString:
			allBool, allInteger, allNumber = false, false, false
		default:
			allBool, allInteger, allNumber, allString = false, false, false, false
		}
	}

	switch {
	case !sawAny:
		return TypeString
	case allBool:
		return TypeBool
	case allInteger && wide:
		return TypeI64
	case allInteger:
		return TypeI32
	case allNumber:
		return TypeDouble
	case allString:
		return TypeString
	case first == kindArray:
		return TypeList
	default:
		return TypeStruct
	}
}

type jsonKind int

const (
	kindNull jsonKind = iota
	kindBool
	kindInteger
	kindFloat
	kindString
	kindArray
	kindObject
)

// kindOf classifies syntactically valid JSON by its first byte.
func kindOf(raw json.RawMessage) jsonKind {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return kindNull
	}
	switch trimmed[0] {
	case 'n':
		return kindNull
	case 't', 'f':
		return kindBool
	case '"':
		return kindString
	case '[':
		return kindArray
	case '{':
		return kindObject
	}
	if bytes.ContainsAny(trimmed, ".eE") {
		return kindFloat
	}
	return kindInteger
}

type member struct {
	name  string
	value json.RawMessage
}

// objectMembers returns the members of a JSON object in document order.
func objectMembers(raw json.RawMessage) ([]member, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	if _, err := decoder.Token(); err != nil {
		return nil, err
	}
	var members []member
	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		var value json.RawMessage
		if err := decoder.Decode(&value); err != nil {
			return nil, err
		}
		members = append(members, member{name: token.(string), value: value})
	}
	return members, nil
}

// abbreviate shortens raw JSON for error messages.
func abbreviate(raw json.RawMessage) string {
	const limit = 40
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) <= limit {
		return string(trimmed)
	}
	return string(trimmed[:limit]) + "..."
}
