// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package frugal

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

// buildFrame assembles a frame by hand so the tests do not depend on
// Frame.Bytes for their fixtures.
func buildFrame(version byte, headers [][2]string, payload []byte) []byte {
	var block []byte
	for _, header := range headers {
		block = appendU32(block, uint32(len(header[0])))
		block = append(block, header[0]...)
		block = appendU32(block, uint32(len(header[1])))
		block = append(block, header[1]...)
	}
	var data []byte
	data = appendU32(data, uint32(1+4+len(block)+len(payload)))
	data = append(data, version)
	data = appendU32(data, uint32(len(block)))
	data = append(data, block...)
	return append(data, payload...)
}

func appendU32(data []byte, value uint32) []byte {
	return append(data, byte(value>>24), byte(value>>16), byte(value>>8), byte(value))
}

func TestParse(t *testing.T) {
	payload := []byte{0x80, 0x01, 0x00, 0x01, 0xde, 0xad}
	data := buildFrame(0, [][2]string{{"_opid", "0"}, {"_cid", "corr-1"}}, payload)

	frame, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if frame.Version != Version0 {
		t.Errorf("Version = %d, want 0", frame.Version)
	}
	if len(frame.Headers) != 2 {
		t.Fatalf("got %d headers, want 2", len(frame.Headers))
	}
	if frame.Headers[0] != (Header{Name: "_opid", Value: "0"}) {
		t.Errorf("header 0 = %+v", frame.Headers[0])
	}
	if frame.Headers[1] != (Header{Name: "_cid", Value: "corr-1"}) {
		t.Errorf("header 1 = %+v", frame.Headers[1])
	}
	if !bytes.Equal(frame.Payload, payload) {
		t.Errorf("Payload = %x, want %x", frame.Payload, payload)
	}
	if len(frame.Trailing) != 0 {
		t.Errorf("Trailing = %x, want empty", frame.Trailing)
	}
}

func TestParse_NoHeaders(t *testing.T) {
	data := buildFrame(0, nil, []byte{0x80, 0x01})
	frame, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if frame.Headers == nil || len(frame.Headers) != 0 {
		t.Errorf("Headers = %#v, want empty non-nil", frame.Headers)
	}
}

func TestParse_Trailing(t *testing.T) {
	data := buildFrame(0, [][2]string{{"k", "v"}}, []byte{0x01})
	data = append(data, 0xff, 0xfe)

	frame, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !bytes.Equal(frame.Trailing, []byte{0xff, 0xfe}) {
		t.Errorf("Trailing = %x, want fffe", frame.Trailing)
	}
	if !bytes.Equal(frame.Payload, []byte{0x01}) {
		t.Errorf("Payload = %x, want 01", frame.Payload)
	}
}

func TestParse_Malformed(t *testing.T) {
	valid := buildFrame(0, [][2]string{{"key", "value"}}, []byte{0x80, 0x01})

	tests := []struct {
		name string
		data []byte
	}{
		{"too short", []byte{0x00, 0x00, 0x00}},
		{"frame size overruns data", append(appendU32(nil, 100), valid[4:]...)},
		{"unsupported version", append(append(append([]byte{}, valid[:4]...), 7), valid[5:]...)},
		{"header length overruns frame", append(append(append([]byte{}, valid[:5]...), appendU32(nil, 1000)...), valid[9:]...)},
		{"truncated key length", buildFrameWithBlock([]byte{0x00, 0x00})},
		{"key length overruns block", buildFrameWithBlock(appendU32(nil, 50))},
		{"invalid utf-8 key", buildFrameWithBlock(append(appendU32(nil, 1), 0xff))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("error %v does not wrap ErrMalformed", err)
			}
		})
	}
}

func buildFrameWithBlock(block []byte) []byte {
	var data []byte
	data = appendU32(data, uint32(1+4+len(block)))
	data = append(data, 0)
	data = appendU32(data, uint32(len(block)))
	return append(data, block...)
}

func TestFrame_Bytes_RoundTrip(t *testing.T) {
	data := buildFrame(0, [][2]string{{"b", "2"}, {"a", "1"}, {"b", "3"}}, []byte{0x82, 0x21, 0x01, 0x00})

	frame, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := frame.Bytes(); !bytes.Equal(got, data) {
		t.Errorf("Bytes() = %x\nwant      %x", got, data)
	}
	if frame.FrameSize() != len(data)-4 {
		t.Errorf("FrameSize() = %d, want %d", frame.FrameSize(), len(data)-4)
	}
}

func TestLooksFramed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"frugal frame", buildFrame(0, [][2]string{{"k", "v"}}, []byte{0x80, 0x01, 0x00, 0x01}), true},
		{"bare binary thrift", []byte{0x80, 0x01, 0x00, 0x01, 0x00, 0x00, 0x00, 0x03, 'f', 'o', 'o'}, false},
		{"bare compact thrift", []byte{0x82, 0x21, 0x01, 0x03, 'f', 'o', 'o', 0x00, 0x00, 0x00}, false},
		{"too short", []byte{0x00, 0x00, 0x00, 0x01, 0x00}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LooksFramed(tt.data); got != tt.want {
				t.Errorf("LooksFramed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHeaders_JSONOrder(t *testing.T) {
	headers := Headers{{Name: "zeta", Value: "1"}, {Name: "alpha", Value: "<2>"}}

	data, err := headers.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	want := `{"zeta":"1","alpha":"<2>"}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var decoded Headers
	if err := json.Unmarshal([]byte(`{"zeta":"1","alpha":"<2>"}`), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(decoded) != 2 || decoded[0].Name != "zeta" || decoded[1].Name != "alpha" {
		t.Errorf("decoded = %+v, want zeta then alpha", decoded)
	}
}

func TestHeaders_UnmarshalRejectsNonString(t *testing.T) {
	var headers Headers
	if err := json.Unmarshal([]byte(`{"count":1}`), &headers); err == nil {
		t.Fatal("expected error for numeric header value")
	}
	if err := json.Unmarshal([]byte(`["a"]`), &headers); err == nil {
		t.Fatal("expected error for array headers")
	}
}

func TestHeaders_Get(t *testing.T) {
	headers := Headers{{Name: "_opid", Value: "7"}, {Name: "_cid", Value: "x"}, {Name: "_opid", Value: "8"}}

	if value, ok := headers.Get("_opid"); !ok || value != "7" {
		t.Errorf("Get(_opid) = %q, %v; want 7, true", value, ok)
	}
	if _, ok := headers.Get("missing"); ok {
		t.Error("Get(missing) reported present")
	}
}
