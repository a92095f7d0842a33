// Package logger wraps zap for the notification panel binaries:
//   - a global sugared logger writing console-encoded lines to stderr,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing and runtime level changes,
//   - leveled convenience functions (Infof, WarnKV, ErrorKV, etc.).
//
// Components receive a context and pull the logger out of it, so every log line
// carries the name and fields of the operation that produced it.
package logger
