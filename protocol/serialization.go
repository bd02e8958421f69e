package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Serialization is how a Record travels on one connection. Both ends of a
// connection must agree on it; the client picks it when dialing.
type Serialization interface {
	Name() string
	// Binary reports whether frames should go out as binary websocket
	// messages rather than text.
	Binary() bool
	Marshal(Record) ([]byte, error)
	Unmarshal([]byte) (Record, error)
}

var (
	JSON    Serialization = jsonSerialization{}
	Binary  Serialization = protoSerialization{}
	Msgpack Serialization = msgpackSerialization{}
)

func SerializationByName(name string) (Serialization, error) {
	switch name {
	case "", JSON.Name():
		return JSON, nil
	case Binary.Name():
		return Binary, nil
	case Msgpack.Name():
		return Msgpack, nil
	}
	return nil, fmt.Errorf("unknown serialization %q", name)
}

type jsonSerialization struct{}

func (jsonSerialization) Name() string { return "json" }
func (jsonSerialization) Binary() bool { return false }

func (jsonSerialization) Marshal(r Record) ([]byte, error) {
	return json.Marshal(r)
}

func (jsonSerialization) Unmarshal(b []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("payload is not an object")
	}
	return r, nil
}

// protoSerialization carries the record as a google.protobuf.Struct, which
// keeps the key structure without needing generated message types.
type protoSerialization struct{}

func (protoSerialization) Name() string { return "binary" }
func (protoSerialization) Binary() bool { return true }

func (protoSerialization) Marshal(r Record) ([]byte, error) {
	s, err := structpb.NewStruct(r)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(s)
}

func (protoSerialization) Unmarshal(b []byte) (Record, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return Record(s.AsMap()), nil
}

type msgpackSerialization struct{}

func (msgpackSerialization) Name() string { return "msgpack" }
func (msgpackSerialization) Binary() bool { return true }

func (msgpackSerialization) Marshal(r Record) ([]byte, error) {
	return msgpack.Marshal(map[string]any(r))
}

func (msgpackSerialization) Unmarshal(b []byte) (Record, error) {
	var m map[string]any
	if err := msgpack.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("payload is not a map")
	}
	return Record(m), nil
}
