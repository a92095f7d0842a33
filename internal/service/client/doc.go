// Package client implements the notif-push operations.
//
// Each operation connects to the panel server, performs one push API call and
// prints the resulting panel status.
package client
