// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"
)

// Protocol names a Thrift serialization protocol.
type Protocol string

const (
	// ProtocolBinary is TBinaryProtocol with strict (versioned)
	// message headers.
	ProtocolBinary Protocol = "binary"

	// ProtocolCompact is TCompactProtocol.
	ProtocolCompact Protocol = "compact"
)

const (
	binaryMarker  byte = 0x80
	binaryVersion byte = 0x01

	compactMarker  byte = 0x82
	compactVersion byte = 0x01
	// compactVersionMask selects the version bits of the compact
	// protocol's second byte. The upper three bits carry the message
	// type.
	compactVersionMask byte = 0x1f
)

// ParseProtocol parses "binary" or "compact". The empty string is
// binary.
func ParseProtocol(name string) (Protocol, error) {
	switch Protocol(name) {
	case "", ProtocolBinary:
		return ProtocolBinary, nil
	case ProtocolCompact:
		return ProtocolCompact, nil
	default:
		return "", fmt.Errorf("unknown protocol %q (want binary or compact)", name)
	}
}

// DetectProtocol reports which protocol a serialized Thrift message
// starting at data[0] uses.
func DetectProtocol(data []byte) (Protocol, bool) {
	if len(data) < 2 {
		return "", false
	}
	switch {
	case data[0] == binaryMarker && data[1] == binaryVersion:
		return ProtocolBinary, true
	case data[0] == compactMarker && data[1]&compactVersionMask == compactVersion:
		return ProtocolCompact, true
	default:
		return "", false
	}
}

// findMessage scans data for the start of a Thrift message and returns
// its offset and protocol. Candidates must carry a known message type
// in addition to the protocol marker, which keeps stray 0x80 and 0x82
// bytes in a corrupted prefix from matching.
func findMessage(data []byte) (int, Protocol, bool) {
	for offset := 0; offset+4 <= len(data); offset++ {
		switch {
		case data[offset] == binaryMarker && data[offset+1] == binaryVersion && data[offset+2] == 0:
			if knownMessageType(data[offset+3]) {
				return offset, ProtocolBinary, true
			}
		case data[offset] == compactMarker && data[offset+1]&compactVersionMask == compactVersion:
			if knownMessageType(data[offset+1] >> 5) {
				return offset, ProtocolCompact, true
			}
		}
	}
	return 0, "", false
}

func knownMessageType(value byte) bool {
	messageType := thrift.TMessageType(value)
	return messageType >= thrift.CALL && messageType <= thrift.ONEWAY
}

// newProtocol returns a protocol of the given kind over transport.
func newProtocol(protocol Protocol, transport thrift.TTransport) thrift.TProtocol {
	configuration := &thrift.TConfiguration{}
	if protocol == ProtocolCompact {
		return thrift.NewTCompactProtocolConf(transport, configuration)
	}
	return thrift.NewTBinaryProtocolConf(transport, configuration)
}
