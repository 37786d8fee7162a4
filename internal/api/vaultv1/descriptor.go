package vaultv1

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

// File describes vault.proto. It is registered in protoregistry.GlobalFiles
// so server reflection can describe VaultKeeper.
var File protoreflect.FileDescriptor

type fieldType = descriptorpb.FieldDescriptorProto_Type

const (
	tBytes   = descriptorpb.FieldDescriptorProto_TYPE_BYTES
	tString  = descriptorpb.FieldDescriptorProto_TYPE_STRING
	tUint32  = descriptorpb.FieldDescriptorProto_TYPE_UINT32
	tInt64   = descriptorpb.FieldDescriptorProto_TYPE_INT64
	tBool    = descriptorpb.FieldDescriptorProto_TYPE_BOOL
	tMessage = descriptorpb.FieldDescriptorProto_TYPE_MESSAGE
)

type fieldSpec struct {
	name     string
	num      int32
	typ      fieldType
	msg      string // message type for tMessage
	repeated bool
}

func message(name string, fields ...fieldSpec) *descriptorpb.DescriptorProto {
	m := &descriptorpb.DescriptorProto{Name: proto.String(name)}
	for _, f := range fields {
		label := descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL
		if f.repeated {
			label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED
		}
		fd := &descriptorpb.FieldDescriptorProto{
			Name:     proto.String(f.name),
			JsonName: proto.String(jsonName(f.name)),
			Number:   proto.Int32(f.num),
			Label:    label.Enum(),
			Type:     f.typ.Enum(),
		}
		if f.typ == tMessage {
			fd.TypeName = proto.String("." + protoPackage + "." + f.msg)
		}
		m.Field = append(m.Field, fd)
	}
	return m
}

func jsonName(s string) string {
	out := make([]byte, 0, len(s))
	upper := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' {
			upper = true
			continue
		}
		if upper && c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		upper = false
		out = append(out, c)
	}
	return string(out)
}

const protoPackage = "vaultkeeper.v1"

func method(name, in, out string) *descriptorpb.MethodDescriptorProto {
	return &descriptorpb.MethodDescriptorProto{
		Name:       proto.String(name),
		InputType:  proto.String("." + protoPackage + "." + in),
		OutputType: proto.String("." + protoPackage + "." + out),
	}
}

func fileProto() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String(VaultKeeper_ServiceDesc.Metadata.(string)),
		Package: proto.String(protoPackage),
		Syntax:  proto.String("proto3"),
		Options: &descriptorpb.FileOptions{
			GoPackage: proto.String("github.com/and161185/vault-keeper/internal/api/vaultv1;vaultv1"),
		},
		MessageType: []*descriptorpb.DescriptorProto{
			message("Entry",
				fieldSpec{name: "title", num: 1, typ: tBytes},
				fieldSpec{name: "username", num: 2, typ: tBytes},
				fieldSpec{name: "secret", num: 3, typ: tBytes}),
			message("Vault",
				fieldSpec{name: "owner", num: 1, typ: tBytes},
				fieldSpec{name: "master_hash", num: 2, typ: tBytes},
				fieldSpec{name: "entries", num: 3, typ: tMessage, msg: "Entry", repeated: true},
				fieldSpec{name: "layout", num: 4, typ: tString},
				fieldSpec{name: "address", num: 5, typ: tBytes}),
			message("VaultResponse",
				fieldSpec{name: "vault", num: 1, typ: tMessage, msg: "Vault"}),
			message("InitializeVaultRequest",
				fieldSpec{name: "master_secret", num: 1, typ: tBytes}),
			message("AddEntryRequest",
				fieldSpec{name: "owner", num: 1, typ: tBytes},
				fieldSpec{name: "entry", num: 2, typ: tMessage, msg: "Entry"}),
			message("UpdateEntryRequest",
				fieldSpec{name: "owner", num: 1, typ: tBytes},
				fieldSpec{name: "index", num: 2, typ: tUint32},
				fieldSpec{name: "entry", num: 3, typ: tMessage, msg: "Entry"}),
			message("DeleteEntryRequest",
				fieldSpec{name: "owner", num: 1, typ: tBytes},
				fieldSpec{name: "index", num: 2, typ: tUint32}),
			message("OwnerRequest",
				fieldSpec{name: "owner", num: 1, typ: tBytes}),
			message("VaultExistsResponse",
				fieldSpec{name: "exists", num: 1, typ: tBool},
				fieldSpec{name: "address", num: 2, typ: tBytes}),
			message("Empty"),
			message("Layout",
				fieldSpec{name: "name", num: 1, typ: tString},
				fieldSpec{name: "max_entries", num: 2, typ: tUint32},
				fieldSpec{name: "max_title", num: 3, typ: tUint32},
				fieldSpec{name: "max_username", num: 4, typ: tUint32},
				fieldSpec{name: "max_secret", num: 5, typ: tUint32},
				fieldSpec{name: "with_master_hash", num: 6, typ: tBool},
				fieldSpec{name: "max_size", num: 7, typ: tUint32}),
			message("Credentials",
				fieldSpec{name: "username", num: 1, typ: tString},
				fieldSpec{name: "password", num: 2, typ: tString}),
			message("RegisterResponse",
				fieldSpec{name: "user_id", num: 1, typ: tString},
				fieldSpec{name: "owner", num: 2, typ: tBytes}),
			message("LoginResponse",
				fieldSpec{name: "access_token", num: 1, typ: tString},
				fieldSpec{name: "expires_at", num: 2, typ: tInt64},
				fieldSpec{name: "owner", num: 3, typ: tBytes}),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("VaultKeeper"),
			Method: []*descriptorpb.MethodDescriptorProto{
				method("InitializeVault", "InitializeVaultRequest", "VaultResponse"),
				method("AddEntry", "AddEntryRequest", "VaultResponse"),
				method("UpdateEntry", "UpdateEntryRequest", "VaultResponse"),
				method("DeleteEntry", "DeleteEntryRequest", "VaultResponse"),
				method("GetVault", "OwnerRequest", "VaultResponse"),
				method("VaultExists", "OwnerRequest", "VaultExistsResponse"),
				method("GetLayout", "Empty", "Layout"),
				method("Register", "Credentials", "RegisterResponse"),
				method("Login", "Credentials", "LoginResponse"),
			},
		}},
	}
}

func init() {
	fd, err := protodesc.NewFile(fileProto(), protoregistry.GlobalFiles)
	if err != nil {
		panic("vaultv1: build descriptor: " + err.Error())
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic("vaultv1: register descriptor: " + err.Error())
	}
	File = fd
}
