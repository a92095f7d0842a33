// Package session implements session-scoped key/value storage.
//
// Values live for one user session: they survive panel re-renders and process
// restarts within the session, and are discarded when the session is closed.
// MemoryStorage keeps them in process, FileStorage in a protojson file and
// RedisStorage under a per-session key prefix with a TTL.
package session
