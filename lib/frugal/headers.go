// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package frugal

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Header is one Frugal request header.
type Header struct {
	Name  string
	Value string
}

// Headers is an ordered header list. Duplicate names are preserved as
// they appear on the wire.
type Headers []Header

// Get returns the value of the first header with the given name.
func (h Headers) Get(name string) (string, bool) {
	for _, header := range h {
		if header.Name == name {
			return header.Value, true
		}
	}
	return "", false
}

// MarshalJSON encodes the headers as a JSON object with members in
// list order.
func (h Headers) MarshalJSON() ([]byte, error) {
	var buffer bytes.Buffer
	buffer.WriteByte('{')
	for index, header := range h {
		if index > 0 {
			buffer.WriteByte(',')
		}
		if err := writeJSONString(&buffer, header.Name); err != nil {
			return nil, err
		}
		buffer.WriteByte(':')
		if err := writeJSONString(&buffer, header.Value); err != nil {
			return nil, err
		}
	}
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of string values, keeping member
// order. A JSON null leaves the headers nil.
func (h *Headers) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	token, err := decoder.Token()
	if err != nil {
		return err
	}
	if token == nil {
		*h = nil
		return nil
	}
	if delimiter, ok := token.(json.Delim); !ok || delimiter != '{' {
		return fmt.Errorf("headers must be a JSON object of strings, got %v", token)
	}

	headers := Headers{}
	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return err
		}
		key := keyToken.(string)

		var value any
		if err := decoder.Decode(&value); err != nil {
			return err
		}
		text, ok := value.(string)
		if !ok {
			return fmt.Errorf("header %q: value must be a string, got %T", key, value)
		}
		headers = append(headers, Header{Name: key, Value: text})
	}
	*h = headers
	return nil
}

// writeJSONString writes s as a JSON string literal without HTML
// escaping, so header values containing <, >, or & stay readable.
func writeJSONString(buffer *bytes.Buffer, s string) error {
	encoder := json.NewEncoder(buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(s); err != nil {
		return err
	}
	// Encode appends a newline.
	buffer.Truncate(buffer.Len() - 1)
	return nil
}
