package vaultv1

import (
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestVault_WireRoundTrip(t *testing.T) {
	in := &Vault{
		Owner:      []byte{1, 2, 3},
		MasterHash: []byte{9, 9},
		Entries: []*Entry{
			{Title: []byte("Mail"), Username: []byte("a@x.com"), Secret: []byte("p1")},
			{Title: []byte("Bank")},
		},
		Layout: "v3",
	}
	var out Vault
	require.NoError(t, out.UnmarshalWire(in.MarshalWire()))
	require.Equal(t, in, &out)
}

func TestUpdateEntryRequest_FieldNumbers(t *testing.T) {
	b := (&UpdateEntryRequest{Index: 7}).MarshalWire()
	num, typ, n := protowire.ConsumeTag(b)
	require.Positive(t, n)
	require.Equal(t, protowire.Number(2), num)
	require.Equal(t, protowire.VarintType, typ)
	v, _ := protowire.ConsumeVarint(b[n:])
	require.Equal(t, uint64(7), v)
}

func TestUnmarshal_SkipsUnknownFields(t *testing.T) {
	b := protowire.AppendTag(nil, 42, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte("future"))
	b = protowire.AppendTag(b, 99, protowire.VarintType)
	b = protowire.AppendVarint(b, 5)
	b = append(b, (&Credentials{Username: "alice", Password: "pw"}).MarshalWire()...)

	var c Credentials
	require.NoError(t, c.UnmarshalWire(b))
	require.Equal(t, "alice", c.Username)
	require.Equal(t, "pw", c.Password)
}

func TestUnmarshal_Errors(t *testing.T) {
	var c Credentials
	require.Error(t, c.UnmarshalWire([]byte{0x0a, 0x05, 'a'}), "truncated bytes")

	b := protowire.AppendTag(nil, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, 1)
	require.Error(t, c.UnmarshalWire(b), "wrong wire type")
}

func TestUnmarshal_ResetsMessage(t *testing.T) {
	d := &DeleteEntryRequest{Owner: []byte{1}, Index: 3}
	require.NoError(t, d.UnmarshalWire(nil))
	require.Equal(t, &DeleteEntryRequest{}, d)
}

func TestCodec(t *testing.T) {
	c := Codec{}
	require.Equal(t, "proto", c.Name())

	b, err := c.Marshal(&Layout{Name: "v3", MaxEntries: 15, WithMasterHash: true, MaxSize: 2176})
	require.NoError(t, err)
	var l Layout
	require.NoError(t, c.Unmarshal(b, &l))
	require.Equal(t, Layout{Name: "v3", MaxEntries: 15, WithMasterHash: true, MaxSize: 2176}, l)

	// generated proto messages go through the proto runtime
	hb, err := c.Marshal(&grpc_health_v1.HealthCheckResponse{Status: grpc_health_v1.HealthCheckResponse_SERVING})
	require.NoError(t, err)
	var hr grpc_health_v1.HealthCheckResponse
	require.NoError(t, c.Unmarshal(hb, &hr))
	require.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, hr.GetStatus())

	_, err = c.Marshal(struct{}{})
	require.Error(t, err)
	require.Error(t, c.Unmarshal(nil, &struct{}{}))
}
