package models

import (
	"fmt"
	"time"
)

var _ Model = (*PlayRecord)(nil)

// PlayRecord is one dispatched play, persisted for the history command.
type PlayRecord struct {
	id          string
	sequence    int
	fullPath    string
	displayName string
	remote      bool
	local       bool
	createdAt   time.Time
	updatedAt   time.Time
	deletedAt   *time.Time
}

// NewPlayRecord creates a record for a play of entry using the given preference.
func NewPlayRecord(sequence int, entry SoundEntry, pref PlaybackPreference) *PlayRecord {
	now := time.Now()
	return &PlayRecord{
		sequence:    sequence,
		fullPath:    entry.FullPath,
		displayName: entry.DisplayName,
		remote:      pref.Remote,
		local:       pref.Local,
		createdAt:   now,
		updatedAt:   now,
	}
}

func (r *PlayRecord) ID() string                { return r.id }
func (r *PlayRecord) Sequence() int             { return r.sequence }
func (r *PlayRecord) FullPath() string          { return r.fullPath }
func (r *PlayRecord) DisplayName() string       { return r.displayName }
func (r *PlayRecord) Remote() bool              { return r.remote }
func (r *PlayRecord) Local() bool               { return r.local }
func (r *PlayRecord) CreatedAt() time.Time      { return r.createdAt }
func (r *PlayRecord) UpdatedAt() time.Time      { return r.updatedAt }
func (r *PlayRecord) DeletedAt() *time.Time     { return r.deletedAt }
func (r *PlayRecord) SetID(id string)           { r.id = id }
func (r *PlayRecord) SetSequence(seq int)       { r.sequence = seq }
func (r *PlayRecord) SetCreatedAt(t time.Time)  { r.createdAt = t }
func (r *PlayRecord) SetUpdatedAt(t time.Time)  { r.updatedAt = t }
func (r *PlayRecord) SetDeletedAt(t *time.Time) { r.deletedAt = t }

// SetDisplayName replaces the display name, e.g. after the sound was renamed on the backend.
func (r *PlayRecord) SetDisplayName(name string) { r.displayName = name }

// Entry returns the sound this record refers to.
func (r *PlayRecord) Entry() SoundEntry {
	return SoundEntry{DisplayName: r.displayName, FullPath: r.fullPath}
}

// Preference returns the targets the play was sent to.
func (r *PlayRecord) Preference() PlaybackPreference {
	return PlaybackPreference{Remote: r.remote, Local: r.local}
}

// Validate checks that the record identifies a sound and at least one playback target.
func (r *PlayRecord) Validate() error {
	if r.fullPath == "" {
		return fmt.Errorf("full path is required")
	}
	if !r.remote && !r.local {
		return fmt.Errorf("at least one playback target is required")
	}
	return nil
}
