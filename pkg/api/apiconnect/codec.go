// Package apiconnect wires the messages of package api to Connect handlers
// and clients. It is laid out like protoc-gen-connect-go output, with a JSON
// codec in place of protobuf serialization.
package apiconnect

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// codecName matches the "application/json" content type of the Connect protocol.
const codecName = "json"

// Codec marshals api messages with encoding/json.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string { return codecName }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
}
