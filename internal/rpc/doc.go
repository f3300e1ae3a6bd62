// Package rpc defines the gophauth.AuthService gRPC contract without
// generated code: plain Go message structs, a JSON codec, and a
// hand-written service descriptor plus client stub.
//
// Both sides must use the codec. Servers pass ServerCodec() to
// grpc.NewServer; clients pass DialCodec() to grpc.NewClient.
package rpc
