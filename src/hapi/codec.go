// Package hapi contains the messages exchanged with ledger nodes and the
// codec that serializes them.
//
// Signatures cover serialized body bytes, so the encoding must be
// deterministic: the same body always produces the same bytes. The msgpack
// handle is configured with canonical map ordering for that reason, and all
// messages avoid interface-typed fields.
package hapi

import (
	"io"

	"github.com/ugorji/go/codec"
)

var handle = newHandle()

func newHandle() *codec.MsgpackHandle {
	h := new(codec.MsgpackHandle)
	h.Canonical = true
	h.WriteExt = true
	return h
}

// Handle returns the codec handle shared by every encoder in the SDK.
func Handle() codec.Handle {
	return handle
}

// Marshal encodes v.
func Marshal(v interface{}) ([]byte, error) {
	var b []byte
	if err := codec.NewEncoderBytes(&b, handle).Encode(v); err != nil {
		return nil, err
	}
	return b, nil
}

// Unmarshal decodes data into v.
func Unmarshal(data []byte, v interface{}) error {
	return codec.NewDecoderBytes(data, handle).Decode(v)
}

// NewEncoder returns a streaming encoder writing to w.
func NewEncoder(w io.Writer) *codec.Encoder {
	return codec.NewEncoder(w, handle)
}

// NewDecoder returns a streaming decoder reading from r.
func NewDecoder(r io.Reader) *codec.Decoder {
	return codec.NewDecoder(r, handle)
}
