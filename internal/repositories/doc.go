// Package repositories implements SQLite persistence for the client's local records.
//
// [PlayHistoryRepository] implements [models.Repository] for [models.PlayRecord]: every play dispatched
// from the TUI or the play command is stored with the targets it was sent to.
//
// Sequence numbers provide stable ordering independent of UUIDs and timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
// Deletes are soft: deleted_at is set and deleted records are excluded from every query.
package repositories
