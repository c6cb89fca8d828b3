// Package store persists the finished catalog.
//
// Three sinks are provided:
//
//   - [WriteJSON]: indented JSON snapshots with literal slashes
//   - [SQLite]: the flattened catalog in a "packages" table, replaced as a
//     whole on every write
//   - [Mongo]: an optional mirror of the structured records
//
// [Scaffold] seeds an override tree with one info.json per GitHub-hosted
// registry record.
//
// All write failures are reported as PERSIST_ERROR.
package store
