// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/apache/thrift/lib/go/thrift"

	"github.com/bureau-foundation/frugalconv/lib/frugal"
	"github.com/bureau-foundation/frugalconv/lib/thriftjson"
)

// DefaultIndent is the JSON indentation used by [DecodeToJSON].
const DefaultIndent = 4

var (
	// ErrFormat is wrapped by errors for input that cannot be parsed
	// at all: malformed frames, truncated Thrift messages, and JSON
	// syntax errors.
	ErrFormat = errors.New("malformed input")

	// ErrSchema is wrapped by errors for well-formed input that does
	// not describe a message: missing sections, unknown types, values
	// out of range.
	ErrSchema = errors.New("input does not describe a message")
)

// Options configures a Codec.
type Options struct {
	// Protocol is used on encode when the document does not name one.
	// Empty means binary.
	Protocol Protocol

	// ForceProtocol makes Protocol override the document's protocol.
	ForceProtocol bool

	// Strict rejects input with bytes before or after the Thrift
	// message. Without it those bytes are skipped with a warning.
	Strict bool

	// Indent is the number of spaces per JSON nesting level. Zero
	// produces compact single-line JSON.
	Indent int

	// Logger receives warnings about skipped input. Nil discards them.
	Logger *slog.Logger
}

// Codec converts between wire bytes and JSON documents.
type Codec struct {
	options Options
	logger  *slog.Logger
}

// New returns a Codec with the given options.
func New(options Options) *Codec {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	return &Codec{options: options, logger: logger}
}

// DecodeToJSON decodes a frame to an indented JSON document using
// default options.
func DecodeToJSON(frame []byte) ([]byte, error) {
	return New(Options{Indent: DefaultIndent}).DecodeToJSON(context.Background(), frame)
}

// EncodeFromJSON encodes a JSON document to a frame using default
// options.
func EncodeFromJSON(document []byte) ([]byte, error) {
	return New(Options{}).EncodeFromJSON(context.Background(), document)
}

// DecodeToJSON decodes data and renders the document as JSON followed
// by a newline.
func (c *Codec) DecodeToJSON(ctx context.Context, data []byte) ([]byte, error) {
	message, err := c.Decode(ctx, data)
	if err != nil {
		return nil, err
	}
	return c.MarshalDocument(message)
}

// EncodeFromJSON parses a JSON document and encodes it.
func (c *Codec) EncodeFromJSON(ctx context.Context, document []byte) ([]byte, error) {
	message, err := ParseDocument(document)
	if err != nil {
		return nil, err
	}
	return c.Encode(ctx, message)
}

// MarshalDocument renders message as JSON with the codec's indentation
// and without HTML escaping.
func (c *Codec) MarshalDocument(message *Message) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if c.options.Indent > 0 {
		encoder.SetIndent("", strings.Repeat(" ", c.options.Indent))
	}
	if err := encoder.Encode(message); err != nil {
		return nil, fmt.Errorf("render JSON: %w", err)
	}
	return buffer.Bytes(), nil
}

// Decode parses data as a Frugal frame or a bare Thrift message.
func (c *Codec) Decode(ctx context.Context, data []byte) (*Message, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: input is empty", ErrFormat)
	}

	message := &Message{}
	payload := data
	if frugal.LooksFramed(data) {
		frame, err := frugal.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFormat, err)
		}
		if len(frame.Trailing) > 0 {
			if err := c.extraBytes("trailing bytes after the frugal frame", len(frame.Trailing)); err != nil {
				return nil, err
			}
		}
		message.Metadata = &Metadata{
			MessageLength: uint32(frame.FrameSize()),
			Version:       frame.Version,
			HeaderLength:  uint32(frame.HeaderLength()),
		}
		message.Headers = frame.Headers
		payload = frame.Payload
		c.logger.Debug("parsed frugal frame",
			"frame_size", frame.FrameSize(),
			"headers", len(frame.Headers),
			"payload_bytes", len(frame.Payload),
		)
	}

	protocol, offset, err := c.locateMessage(payload)
	if err != nil {
		return nil, err
	}
	payload = payload[offset:]

	buffer := thrift.NewTMemoryBufferLen(len(payload))
	buffer.Write(payload)
	decoded, err := thriftjson.ReadMessage(ctx, newProtocol(protocol, buffer))
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s thrift message: %w", ErrFormat, protocol, err)
	}
	if remaining := buffer.Len(); remaining > 0 {
		if err := c.extraBytes("trailing bytes after the thrift message", remaining); err != nil {
			return nil, err
		}
	}

	message.Thrift = &ThriftSection{
		Protocol: protocol,
		Method:   decoded.Name,
		Type:     thriftjson.MessageTypeName(decoded.Type),
		SeqID:    decoded.SeqID,
		Length:   len(payload) - buffer.Len(),
		Args:     decoded.Body,
	}
	return message, nil
}

// locateMessage finds the Thrift message in payload. A message at
// offset zero is the normal case; anything else is a damaged or
// unrecognized prefix.
func (c *Codec) locateMessage(payload []byte) (Protocol, int, error) {
	if protocol, ok := DetectProtocol(payload); ok {
		return protocol, 0, nil
	}
	offset, protocol, ok := findMessage(payload)
	if !ok {
		return "", 0, fmt.Errorf("%w: no thrift message found in %d bytes", ErrFormat, len(payload))
	}
	if err := c.extraBytes("bytes before the thrift message", offset); err != nil {
		return "", 0, err
	}
	return protocol, offset, nil
}

// extraBytes rejects count unexpected bytes in strict mode and logs
// them otherwise.
func (c *Codec) extraBytes(what string, count int) error {
	if c.options.Strict {
		return fmt.Errorf("%w: %d %s", ErrFormat, count, what)
	}
	c.logger.Warn("ignoring "+what, "bytes", count)
	return nil
}

// Encode serializes message. The Thrift message is written with the
// document's protocol (or the codec's, see [Options]) and wrapped in a
// Frugal frame when the document has metadata or headers.
func (c *Codec) Encode(ctx context.Context, message *Message) ([]byte, error) {
	if message == nil || message.Thrift == nil {
		return nil, fmt.Errorf("%w: document has no \"thrift\" section", ErrSchema)
	}
	section := message.Thrift

	protocol, err := c.encodeProtocol(section)
	if err != nil {
		return nil, err
	}

	messageType := thrift.CALL
	if section.Type != "" {
		if messageType, err = thriftjson.ParseMessageType(section.Type); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSchema, err)
		}
	}

	buffer := thrift.NewTMemoryBuffer()
	err = thriftjson.WriteMessage(ctx, newProtocol(protocol, buffer), &thriftjson.Message{
		Name:  section.Method,
		Type:  messageType,
		SeqID: section.SeqID,
		Body:  section.Body(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode %s thrift message: %w", ErrSchema, protocol, err)
	}
	payload := buffer.Bytes()

	if !message.Framed() {
		return payload, nil
	}

	version := frugal.Version0
	if message.Metadata != nil {
		version = message.Metadata.Version
	}
	if version > frugal.MaxVersion {
		return nil, fmt.Errorf("%w: unsupported frugal version %d", ErrSchema, version)
	}
	frame := &frugal.Frame{
		Version: version,
		Headers: message.Headers,
		Payload: payload,
	}
	return frame.Bytes(), nil
}

func (c *Codec) encodeProtocol(section *ThriftSection) (Protocol, error) {
	name := string(c.options.Protocol)
	if !c.options.ForceProtocol && section.Protocol != "" {
		name = string(section.Protocol)
	}
	protocol, err := ParseProtocol(name)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSchema, err)
	}
	return protocol, nil
}
