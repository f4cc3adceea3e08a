// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package frugal

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf8"
)

const (
	// Version0 is the only header version Frugal has defined.
	Version0 byte = 0

	// MaxVersion is the highest version byte accepted when parsing or
	// building a frame.
	MaxVersion byte = 1

	// prefixLength covers the frame size, version, and header length
	// fields that precede the header block.
	prefixLength = 4 + 1 + 4
)

// ErrMalformed is returned (wrapped) for frames whose length fields or
// header block are inconsistent with the data.
var ErrMalformed = errors.New("malformed frugal frame")

// Frame is a decoded Frugal envelope.
type Frame struct {
	// Version is the header version byte.
	Version byte

	// Headers are the request headers in wire order.
	Headers Headers

	// Payload is the serialized Thrift message following the header
	// block.
	Payload []byte

	// Trailing holds bytes present after the end of the frame as
	// declared by its frame size. Empty for well-formed input.
	Trailing []byte
}

// LooksFramed reports whether data plausibly starts with a Frugal
// envelope: the frame size fits within data, the version is known,
// and the header block fits within the frame.
func LooksFramed(data []byte) bool {
	if len(data) <= prefixLength {
		return false
	}
	frameSize := binary.BigEndian.Uint32(data[0:4])
	version := data[4]
	headerLength := binary.BigEndian.Uint32(data[5:9])
	return frameSize > 0 &&
		uint64(frameSize) < uint64(len(data)) &&
		version <= MaxVersion &&
		headerLength < frameSize
}

// Parse decodes a Frugal frame. The payload is not interpreted.
func Parse(data []byte) (*Frame, error) {
	if len(data) < prefixLength {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the %d-byte frame prefix",
			ErrMalformed, len(data), prefixLength)
	}

	frameSize := uint64(binary.BigEndian.Uint32(data[0:4]))
	if frameSize > uint64(len(data)-4) {
		return nil, fmt.Errorf("%w: frame size %d exceeds the %d bytes available",
			ErrMalformed, frameSize, len(data)-4)
	}
	frameEnd := 4 + int(frameSize)

	version := data[4]
	if version > MaxVersion {
		return nil, fmt.Errorf("%w: unsupported header version %d", ErrMalformed, version)
	}

	headerLength := uint64(binary.BigEndian.Uint32(data[5:9]))
	if prefixLength+headerLength > uint64(frameEnd) {
		return nil, fmt.Errorf("%w: header length %d exceeds frame size %d",
			ErrMalformed, headerLength, frameSize)
	}
	headerEnd := prefixLength + int(headerLength)

	headers, err := parseHeaders(data[prefixLength:headerEnd])
	if err != nil {
		return nil, err
	}

	return &Frame{
		Version:  version,
		Headers:  headers,
		Payload:  data[headerEnd:frameEnd],
		Trailing: data[frameEnd:],
	}, nil
}

// parseHeaders decodes a header block into an ordered header list.
func parseHeaders(block []byte) (Headers, error) {
	headers := Headers{}
	offset := 0
	for offset < len(block) {
		key, next, err := readLengthPrefixed(block, offset)
		if err != nil {
			return nil, fmt.Errorf("header %d key: %w", len(headers), err)
		}
		value, next, err := readLengthPrefixed(block, next)
		if err != nil {
			return nil, fmt.Errorf("header %q value: %w", key, err)
		}
		headers = append(headers, Header{Name: key, Value: value})
		offset = next
	}
	return headers, nil
}

// readLengthPrefixed reads a u32-length-prefixed UTF-8 string starting
// at offset and returns it with the offset of the following byte.
func readLengthPrefixed(block []byte, offset int) (string, int, error) {
	if len(block)-offset < 4 {
		return "", 0, fmt.Errorf("%w: truncated length at offset %d", ErrMalformed, prefixLength+offset)
	}
	length := uint64(binary.BigEndian.Uint32(block[offset : offset+4]))
	offset += 4
	if length > uint64(len(block)-offset) {
		return "", 0, fmt.Errorf("%w: length %d at offset %d overruns the header block",
			ErrMalformed, length, prefixLength+offset-4)
	}
	raw := block[offset : offset+int(length)]
	if !utf8.Valid(raw) {
		return "", 0, fmt.Errorf("%w: invalid UTF-8 at offset %d", ErrMalformed, prefixLength+offset)
	}
	return string(raw), offset + int(length), nil
}

// HeaderLength returns the encoded size of the header block.
func (f *Frame) HeaderLength() int {
	length := 0
	for _, header := range f.Headers {
		length += 4 + len(header.Name) + 4 + len(header.Value)
	}
	return length
}

// FrameSize returns the value of the frame size field: the number of
// bytes after it (version, header length, header block, payload).
func (f *Frame) FrameSize() int {
	return 1 + 4 + f.HeaderLength() + len(f.Payload)
}

// Bytes encodes the frame. Trailing bytes are not emitted.
func (f *Frame) Bytes() []byte {
	headerLength := f.HeaderLength()
	output := make([]byte, 0, prefixLength+headerLength+len(f.Payload))
	output = binary.BigEndian.AppendUint32(output, uint32(f.FrameSize()))
	output = append(output, f.Version)
	output = binary.BigEndian.AppendUint32(output, uint32(headerLength))
	for _, header := range f.Headers {
		output = binary.BigEndian.AppendUint32(output, uint32(len(header.Name)))
		output = append(output, header.Name...)
		output = binary.BigEndian.AppendUint32(output, uint32(len(header.Value)))
		output = append(output, header.Value...)
	}
	return append(output, f.Payload...)
}
