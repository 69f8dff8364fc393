package ui

import (
	"slices"

	"github.com/desertthunder/sbx/internal/models"
)

// CatalogState is what the sound list area currently shows.
type CatalogState int

const (
	CatalogLoading CatalogState = iota
	CatalogReady
	CatalogEmpty
	CatalogError
)

func (s CatalogState) String() string {
	switch s {
	case CatalogLoading:
		return "loading"
	case CatalogReady:
		return "ready"
	case CatalogEmpty:
		return "empty"
	case CatalogError:
		return "error"
	default:
		return ""
	}
}

// Prompt is the dialog currently layered over the sound list.
type Prompt int

const (
	PromptNone Prompt = iota
	PromptUpload
	PromptMove
	PromptCreateCategory
	PromptRemoveCategories
	PromptHelp
)

// CategoriesState is the state of the empty category list inside [PromptRemoveCategories].
type CategoriesState int

const (
	CategoriesLoading CategoriesState = iota
	CategoriesReady
	CategoriesNone  // loaded, nothing to remove
	CategoriesError // could not be loaded
)

// NoticeKind picks the style of the transient message line.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeSuccess
	NoticeWarning
	NoticeError
)

// Notice is the single transient message shown under the sound list.
type Notice struct {
	Text string
	Kind NoticeKind
	seq  int
}

// Activation is what activating a sound resolved to.
type Activation int

const (
	ActivatePlay Activation = iota
	ActivateMove
)

// Board is the view-model of the soundboard: catalog, mode, pending move, playback preference,
// folders, prompts and the transient notice/acknowledgment state.
//
// It performs no I/O. Every mutation goes through a named transition, and timers and refreshes
// carry sequence numbers so that a stale completion can be recognized and dropped.
type Board struct {
	state   CatalogState
	catalog models.Catalog
	entries []models.SoundEntry
	loadErr error
	cursor  int

	issued  int // last refresh sequence handed out
	applied int // last refresh sequence applied

	mode    models.Mode
	pending *models.PendingMove
	pref    models.PlaybackPreference
	folders []string
	prompt  Prompt

	categoriesState CategoriesState
	categories      []string
	selected        map[string]bool

	notice    *Notice
	noticeSeq int
	acks      map[string]int
	ackSeq    int
}

// NewBoard creates a board in the loading state with the given playback preference.
func NewBoard(pref models.PlaybackPreference) *Board {
	return &Board{
		state:    CatalogLoading,
		catalog:  models.Catalog{},
		pref:     models.NewPlaybackPreference(pref.Remote, pref.Local),
		selected: make(map[string]bool),
		acks:     make(map[string]int),
	}
}

func (b *Board) State() CatalogState                   { return b.state }
func (b *Board) Catalog() models.Catalog               { return b.catalog }
func (b *Board) Entries() []models.SoundEntry          { return b.entries }
func (b *Board) Err() error                            { return b.loadErr }
func (b *Board) Mode() models.Mode                     { return b.mode }
func (b *Board) Preference() models.PlaybackPreference { return b.pref }
func (b *Board) Folders() []string                     { return b.folders }
func (b *Board) Prompt() Prompt                        { return b.prompt }
func (b *Board) CategoriesState() CategoriesState      { return b.categoriesState }
func (b *Board) Categories() []string                  { return b.categories }
func (b *Board) IsCategorySelected(name string) bool   { return b.selected[name] }
func (b *Board) Cursor() int                           { return b.cursor }

// SetPreference replaces the playback preference, forcing remote on when both flags are off.
func (b *Board) SetPreference(p models.PlaybackPreference) {
	b.pref = models.NewPlaybackPreference(p.Remote, p.Local)
}

// BeginRefresh hands out the sequence number for a new catalog request.
func (b *Board) BeginRefresh() int {
	b.issued++
	return b.issued
}

// ApplyCatalog applies the response of the refresh numbered seq and reports whether it was applied.
//
// Responses older than the last applied one are dropped. An error moves the board into
// [CatalogError] without touching the mode; the next successful refresh clears it.
func (b *Board) ApplyCatalog(seq int, catalog models.Catalog, err error) bool {
	if seq <= b.applied {
		return false
	}
	b.applied = seq

	if err != nil {
		b.state = CatalogError
		b.loadErr = err
		b.catalog = models.Catalog{}
		b.entries = nil
		b.cursor = 0
		return true
	}

	var current string
	if e, ok := b.Selected(); ok {
		current = e.FullPath
	}

	b.loadErr = nil
	b.catalog = catalog
	if b.catalog == nil {
		b.catalog = models.Catalog{}
	}
	b.entries = b.catalog.Entries()
	if len(b.entries) == 0 {
		b.state = CatalogEmpty
	} else {
		b.state = CatalogReady
	}

	b.cursor = 0
	if i := slices.IndexFunc(b.entries, func(e models.SoundEntry) bool { return e.FullPath == current }); i >= 0 {
		b.cursor = i
	}
	return true
}

// Selected returns the entry under the cursor.
func (b *Board) Selected() (models.SoundEntry, bool) {
	if b.cursor < 0 || b.cursor >= len(b.entries) {
		return models.SoundEntry{}, false
	}
	return b.entries[b.cursor], true
}

// MoveCursor moves the cursor by delta, clamped to the entry list.
func (b *Board) MoveCursor(delta int) {
	if len(b.entries) == 0 {
		b.cursor = 0
		return
	}
	b.cursor = min(max(b.cursor+delta, 0), len(b.entries)-1)
}

// SetMode switches between normal and organize mode. Leaving organize drops any pending move.
func (b *Board) SetMode(mode models.Mode) {
	b.mode = mode
	if mode == models.ModeNormal {
		b.pending = nil
		if b.prompt == PromptMove {
			b.prompt = PromptNone
		}
	}
}

// ToggleMode flips between normal and organize mode.
func (b *Board) ToggleMode() {
	if b.mode == models.ModeOrganize {
		b.SetMode(models.ModeNormal)
		return
	}
	b.SetMode(models.ModeOrganize)
}

// Activate resolves activating entry against the current mode.
//
// In organize mode it opens a [models.PendingMove] targeting the first known folder and the move prompt.
func (b *Board) Activate(entry models.SoundEntry) Activation {
	if b.mode != models.ModeOrganize {
		return ActivatePlay
	}

	var target string
	if len(b.folders) > 0 {
		target = b.folders[0]
	}
	b.pending = &models.PendingMove{
		DisplayName:  entry.DisplayName,
		FullPath:     entry.FullPath,
		TargetFolder: target,
	}
	b.prompt = PromptMove
	return ActivateMove
}

// Pending returns a copy of the pending move, if any.
func (b *Board) Pending() (models.PendingMove, bool) {
	if b.pending == nil {
		return models.PendingMove{}, false
	}
	return *b.pending, true
}

// SetMoveTarget sets the destination of the pending move.
func (b *Board) SetMoveTarget(folder string) {
	if b.pending != nil {
		b.pending.TargetFolder = folder
	}
}

// CancelMove dismisses the move prompt, which also leaves organize mode.
func (b *Board) CancelMove() {
	b.SetMode(models.ModeNormal)
}

// CompleteMove clears the pending move after the backend accepted it and leaves organize mode.
func (b *Board) CompleteMove() {
	b.SetMode(models.ModeNormal)
}

// TogglePreference flips the remote or local flag, never leaving both off.
func (b *Board) TogglePreference(remote bool) {
	if remote {
		b.pref = b.pref.ToggleRemote()
	} else {
		b.pref = b.pref.ToggleLocal()
	}
}

// SetFolders replaces the destination folders used by the upload and move prompts.
func (b *Board) SetFolders(folders []string) {
	b.folders = slices.Clone(folders)
	if b.pending != nil && b.pending.TargetFolder == "" && len(b.folders) > 0 {
		b.pending.TargetFolder = b.folders[0]
	}
}

// OpenPrompt shows p. The move prompt only opens through [Board.Activate].
func (b *Board) OpenPrompt(p Prompt) {
	if p == PromptMove && b.pending == nil {
		return
	}
	b.prompt = p
}

// ClosePrompt hides the current prompt. Closing the move prompt cancels the move.
func (b *Board) ClosePrompt() {
	if b.prompt == PromptMove {
		b.CancelMove()
		return
	}
	b.prompt = PromptNone
}

// BeginEmptyCategories opens the removal prompt in its loading state and clears any selection.
func (b *Board) BeginEmptyCategories() {
	b.prompt = PromptRemoveCategories
	b.categoriesState = CategoriesLoading
	b.categories = nil
	clear(b.selected)
}

// ApplyEmptyCategories fills the removal prompt with the backend's empty categories.
func (b *Board) ApplyEmptyCategories(names []string, err error) {
	clear(b.selected)
	switch {
	case err != nil:
		b.categoriesState = CategoriesError
		b.categories = nil
	case len(names) == 0:
		b.categoriesState = CategoriesNone
		b.categories = nil
	default:
		b.categoriesState = CategoriesReady
		b.categories = slices.Clone(names)
	}
}

// ToggleCategory flips the selection of a listed category.
func (b *Board) ToggleCategory(name string) {
	if !slices.Contains(b.categories, name) {
		return
	}
	if b.selected[name] {
		delete(b.selected, name)
		return
	}
	b.selected[name] = true
}

// SelectedCategories returns the checked categories in list order.
func (b *Board) SelectedCategories() []string {
	out := make([]string, 0, len(b.selected))
	for _, name := range b.categories {
		if b.selected[name] {
			out = append(out, name)
		}
	}
	return out
}

// Notice returns the transient message, if one is showing.
func (b *Board) Notice() (Notice, bool) {
	if b.notice == nil {
		return Notice{}, false
	}
	return *b.notice, true
}

// Notify replaces the transient message and returns the sequence its clear timer must carry.
func (b *Board) Notify(text string, kind NoticeKind) int {
	b.noticeSeq++
	b.notice = &Notice{Text: text, Kind: kind, seq: b.noticeSeq}
	return b.noticeSeq
}

// ClearNotice clears the message only if it is still the one numbered seq.
func (b *Board) ClearNotice(seq int) bool {
	if b.notice == nil || b.notice.seq != seq {
		return false
	}
	b.notice = nil
	return true
}

// Acknowledge marks path as just played and returns the sequence its expiry timer must carry.
func (b *Board) Acknowledge(path string) int {
	b.ackSeq++
	b.acks[path] = b.ackSeq
	return b.ackSeq
}

// ExpireAck removes the acknowledgment on path only if it is still the one numbered seq.
func (b *Board) ExpireAck(path string, seq int) bool {
	if b.acks[path] != seq {
		return false
	}
	delete(b.acks, path)
	return true
}

// IsAcknowledged reports whether path is inside its acknowledgment window.
func (b *Board) IsAcknowledged(path string) bool {
	_, ok := b.acks[path]
	return ok
}
