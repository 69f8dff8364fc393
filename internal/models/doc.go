// Package models defines the domain types shared by the sbx client.
//
// The package contains two categories of types:
//
// 1. Wire and view types: snapshots returned by the soundboard backend and the client-side state built on them
//   - [SoundEntry] : one playable sound, identified by its full path
//   - [Catalog] : folder name to ordered sounds, rebuilt on every fetch
//   - [Mode] : normal or organize, decides what activating a sound does
//   - [PendingMove] : a relocation that has been started but not confirmed
//   - [PlaybackPreference] : remote/local playback flags, never both off
//   - [RemoveResult] : per-category outcome of a bulk category removal
//
// 2. Persistent entities: database-backed records with lifecycle timestamps
//   - [PlayRecord] : one dispatched play, kept for the history command
//
// Persistent entities implement the [Model] interface and are stored through a [Repository].
package models
