// Package storage persists the session token on the client.
//
// Three backends implement Store:
//
//   - memory: a mutex-guarded map, used by tests and ephemeral sessions
//   - file: a YAML document whose values are sealed with an AEAD cipher
//   - badger: an embedded Badger v3 database
//
// Get of a missing key returns domain.ErrTokenNotFound. Every other failure
// is reported as domain.ErrStorage wrapping the cause.
package storage
