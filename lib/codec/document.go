// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bureau-foundation/frugalconv/lib/frugal"
	"github.com/bureau-foundation/frugalconv/lib/thriftjson"
)

// Message is the JSON document form of a message.
type Message struct {
	// Metadata describes the Frugal envelope. It is informational when
	// decoding; on encode only Version is used and the lengths are
	// recomputed. Nil for a bare Thrift message.
	Metadata *Metadata `json:"metadata,omitempty"`

	// Headers are the Frugal request headers in wire order. A document
	// with neither Metadata nor Headers encodes as a bare Thrift
	// message.
	Headers frugal.Headers `json:"headers,omitempty"`

	Thrift *ThriftSection `json:"thrift"`
}

// Framed reports whether the message carries a Frugal envelope.
func (m *Message) Framed() bool {
	return m.Metadata != nil || m.Headers != nil
}

// MarshalJSON writes headers as an object whenever the message is
// framed, so a frame without headers shows "headers": {} and a bare
// message has no headers member.
func (m Message) MarshalJSON() ([]byte, error) {
	document := struct {
		Metadata *Metadata       `json:"metadata,omitempty"`
		Headers  *frugal.Headers `json:"headers,omitempty"`
		Thrift   *ThriftSection  `json:"thrift"`
	}{Metadata: m.Metadata, Thrift: m.Thrift}
	if m.Framed() {
		headers := m.Headers
		if headers == nil {
			headers = frugal.Headers{}
		}
		document.Headers = &headers
	}

	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(document); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buffer.Bytes(), []byte("\n")), nil
}

// Metadata mirrors the Frugal frame prefix.
type Metadata struct {
	MessageLength uint32 `json:"message_length"`
	Version       uint8  `json:"version"`
	HeaderLength  uint32 `json:"header_length"`
}

// ThriftSection is the Thrift message carried by the frame.
type ThriftSection struct {
	// Protocol is "binary" or "compact". Empty means the codec's
	// default.
	Protocol Protocol `json:"protocol,omitempty"`
	Method   string   `json:"method"`
	// Type is call, reply, exception, or oneway. Empty means call.
	Type  string `json:"type"`
	SeqID int32  `json:"seqid"`
	// Length is the serialized size of the Thrift message. Ignored on
	// encode.
	Length int `json:"length"`

	Args *thriftjson.Struct `json:"args"`
	// Reply is accepted on encode in place of Args. Decode always
	// fills Args.
	Reply *thriftjson.Struct `json:"reply,omitempty"`
}

// Body returns Args, or Reply when Args is absent.
func (s *ThriftSection) Body() *thriftjson.Struct {
	if s.Args != nil {
		return s.Args
	}
	return s.Reply
}

// ParseDocument parses a JSON document into a Message. Syntax errors
// wrap ErrFormat; documents of the wrong shape wrap ErrSchema.
func ParseDocument(data []byte) (*Message, error) {
	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		var syntaxError *json.SyntaxError
		if errors.As(err, &syntaxError) {
			return nil, fmt.Errorf("%w: invalid JSON at offset %d: %v", ErrFormat, syntaxError.Offset, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrSchema, err)
	}
	if message.Thrift == nil {
		return nil, fmt.Errorf("%w: document has no \"thrift\" section", ErrSchema)
	}
	return &message, nil
}
