package vaultv1

import (
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
)

// Codec marshals this package's messages with their own wire methods and
// anything else (health checks, reflection) with the regular proto runtime.
// It reports the name "proto" so peers see ordinary application/grpc+proto.
type Codec struct{}

func (Codec) Name() string { return "proto" }

func (Codec) Marshal(v any) ([]byte, error) {
	switch m := v.(type) {
	case Message:
		return m.MarshalWire(), nil
	case proto.Message:
		return proto.Marshal(m)
	default:
		return nil, fmt.Errorf("vaultv1: cannot marshal %T", v)
	}
}

func (Codec) Unmarshal(data []byte, v any) error {
	switch m := v.(type) {
	case Message:
		return m.UnmarshalWire(data)
	case proto.Message:
		return proto.Unmarshal(data, m)
	default:
		return fmt.Errorf("vaultv1: cannot unmarshal into %T", v)
	}
}

// ServerCodec installs Codec on a grpc.Server.
func ServerCodec() grpc.ServerOption { return grpc.ForceServerCodec(Codec{}) }

// ClientCodec makes every call on a connection use Codec.
func ClientCodec() grpc.DialOption {
	return grpc.WithDefaultCallOptions(grpc.ForceCodec(Codec{}))
}
