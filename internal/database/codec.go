package database

import (
	"bytes"

	"github.com/asdine/storm/v3/codec"
	"github.com/asdine/storm/v3/codec/msgpack"
	"github.com/pkg/errors"
	ugorji "github.com/ugorji/go/codec"
)

// DefaultCodec is the format used to store data when none is configured.
const DefaultCodec = "msgpack"

// Codec returns the storm codec for the given name (msgpack, cbor or binc).
func Codec(name string) (codec.MarshalUnmarshaler, error) {
	switch name {
	case "", DefaultCodec:
		return msgpack.Codec, nil
	case "cbor":
		return &ugorjiCodec{name: name, handle: &ugorji.CborHandle{}}, nil
	case "binc":
		return &ugorjiCodec{name: name, handle: &ugorji.BincHandle{}}, nil
	}
	return nil, errors.Errorf("unsupported database codec: %s", name)
}

// ugorjiCodec encodes to and decodes from CBOR or Binc.
// http://cbor.io/
// https://github.com/ugorji/binc
type ugorjiCodec struct {
	name   string
	handle ugorji.Handle
}

func (c *ugorjiCodec) Marshal(v any) ([]byte, error) {
	var b bytes.Buffer
	enc := ugorji.NewEncoder(&b, c.handle)
	err := enc.Encode(v)
	if err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (c *ugorjiCodec) Unmarshal(b []byte, v any) error {
	r := bytes.NewReader(b)
	dec := ugorji.NewDecoder(r, c.handle)
	return dec.Decode(v)
}

func (c *ugorjiCodec) Name() string {
	return c.name
}
