// Package server runs the notification panel process: the panel loop, the
// gRPC push API and the metrics endpoint.
package server
