// Package notif implements the gRPC push API of the notification panel.
//
// Messages travel as google.protobuf.Struct values; the converters in this
// package map them to domain types. The server calls into a provided
// business-service interface.
package notif
