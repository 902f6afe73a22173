// Package tokenstore persists small string values, chiefly the bearer token
// saved under the "authToken" key after login.
//
// Three backends share the Store interface: Memory (process lifetime), File
// (a JSON object, default ~/.storeadmin/storage.json) and SQLite (default
// ~/.storeadmin/storage.db). Get reports a missing key with ErrNotFound.
package tokenstore
