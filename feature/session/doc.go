// Package session is the run-to-completion façade over the camera core.
//
// The host (or the HTTP layer standing in for it) drives the session through
// discrete events: mount and unmount of a vehicle, a per-frame tick, and the
// UI-facing operations (enable toggle, reload, debug level, editor actions).
// Every call runs to completion before control returns; duplicate mount
// events are absorbed by an already-mounted flag rather than a lock, since
// nothing in the core runs concurrently.
package session
