// Package config defines the settings shared by the notification panel binaries
// and provides helpers to load, validate and save them in YAML format.
//
// Config holds the push API address, the metrics endpoint, panel presentation
// options with its phrases, the sound cues and the session storage backend.
package config
