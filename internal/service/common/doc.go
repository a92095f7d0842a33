// Package common holds helpers shared by the panel server and the push CLI.
//
// It provides a lightweight gRPC client for the notification panel with call
// timeouts and a helper to detect the current system actor (hostname/username)
// for acknowledge-all requests.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
