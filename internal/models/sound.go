package models

import (
	"path"
	"slices"
	"strings"
)

// MainFolder is the folder the backend uses for sounds stored at the root of its sound directory.
const MainFolder = "Main"

// audioExtensions mirrors the backend's upload filter.
var audioExtensions = []string{".wav", ".mp3", ".ogg", ".flac", ".aac", ".m4a"}

// SoundEntry is one playable sound as returned by GET /sounds.
//
// FullPath is the durable identifier used for playback and moves; DisplayName is presentation only.
type SoundEntry struct {
	DisplayName string `json:"display_name"`
	FullPath    string `json:"full_path"`
}

// Folder returns the folder segment of the entry's path, or [MainFolder] for root-level sounds.
func (e SoundEntry) Folder() string {
	dir := path.Dir(strings.ReplaceAll(e.FullPath, "\\", "/"))
	if dir == "." || dir == "/" || dir == "" {
		return MainFolder
	}
	return path.Base(dir)
}

// Catalog maps a folder name to its sounds in backend order.
type Catalog map[string][]SoundEntry

// Folders returns the catalog's folder names in render order.
func (c Catalog) Folders() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return SortFolders(keys)
}

// Len returns the total number of sounds across all folders.
func (c Catalog) Len() int {
	n := 0
	for _, entries := range c {
		n += len(entries)
	}
	return n
}

// Entries returns every sound in render order: folders per [SortFolders], backend order within a folder.
func (c Catalog) Entries() []SoundEntry {
	out := make([]SoundEntry, 0, c.Len())
	for _, folder := range c.Folders() {
		out = append(out, c[folder]...)
	}
	return out
}

// SortFolders sorts folder names in place and returns them.
//
// [MainFolder] always comes first when present; the rest are in ascending byte order.
func SortFolders(folders []string) []string {
	slices.SortFunc(folders, func(a, b string) int {
		switch {
		case a == b:
			return 0
		case a == MainFolder:
			return -1
		case b == MainFolder:
			return 1
		default:
			return strings.Compare(a, b)
		}
	})
	return folders
}

// DisplayNameFromPath derives a display name the way the backend does:
// trailing path segment, extension stripped, dashes and underscores replaced by spaces.
func DisplayNameFromPath(p string) string {
	base := path.Base(strings.ReplaceAll(p, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	return strings.NewReplacer("-", " ", "_", " ").Replace(base)
}

// IsAudioFile reports whether the file name carries one of the extensions the backend accepts.
func IsAudioFile(name string) bool {
	return slices.Contains(audioExtensions, strings.ToLower(path.Ext(strings.ReplaceAll(name, "\\", "/"))))
}

// Mode decides what activating a sound does.
type Mode int

const (
	ModeNormal   Mode = iota // activation plays the sound
	ModeOrganize             // activation opens a move prompt
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeOrganize:
		return "organize"
	default:
		return ""
	}
}

// PendingMove is the relocation started from organize mode and not yet confirmed or cancelled.
type PendingMove struct {
	DisplayName  string
	FullPath     string
	TargetFolder string
}

// PlaybackPreference holds where a play request is sent.
//
// At least one of Remote or Local is always true once the value has gone through
// [NewPlaybackPreference] or one of the toggles.
type PlaybackPreference struct {
	Remote bool
	Local  bool
}

// NewPlaybackPreference returns a preference with the given flags, forcing remote on when both are off.
func NewPlaybackPreference(remote, local bool) PlaybackPreference {
	if !remote && !local {
		remote = true
	}
	return PlaybackPreference{Remote: remote, Local: local}
}

// ToggleRemote flips Remote. Turning it off while Local is off leaves it on.
func (p PlaybackPreference) ToggleRemote() PlaybackPreference {
	p.Remote = !p.Remote
	if !p.Remote && !p.Local {
		p.Remote = true
	}
	return p
}

// ToggleLocal flips Local. Turning it off while Remote is off leaves it on.
func (p PlaybackPreference) ToggleLocal() PlaybackPreference {
	p.Local = !p.Local
	if !p.Remote && !p.Local {
		p.Local = true
	}
	return p
}

func (p PlaybackPreference) String() string {
	switch {
	case p.Remote && p.Local:
		return "remote+local"
	case p.Local:
		return "local"
	default:
		return "remote"
	}
}

// RemoveOutcome classifies a category removal response.
type RemoveOutcome int

const (
	OutcomeRemoved RemoveOutcome = iota // everything requested was removed
	OutcomePartial                      // some removed, some failed
	OutcomeFailed                       // nothing removed
)

// RemoveResult is the body of a successful or multi-status POST /remove-categories.
type RemoveResult struct {
	Removed []string `json:"removed"`
	Failed  []string `json:"failed"`
}

// Outcome reports whether the removal fully succeeded, partially succeeded or failed.
func (r RemoveResult) Outcome() RemoveOutcome {
	switch {
	case len(r.Removed) == 0:
		return OutcomeFailed
	case len(r.Failed) > 0:
		return OutcomePartial
	default:
		return OutcomeRemoved
	}
}

// Summary renders both subsets, one line each, omitting empty ones.
func (r RemoveResult) Summary() string {
	var lines []string
	if len(r.Removed) > 0 {
		lines = append(lines, "Successfully removed: "+strings.Join(r.Removed, ", "))
	}
	if len(r.Failed) > 0 {
		lines = append(lines, "Failed to remove: "+strings.Join(r.Failed, ", "))
	}
	return strings.Join(lines, "\n")
}
