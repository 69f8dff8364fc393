// Package ui implements the interactive soundboard using bubbletea's Elm architecture.
//
// State lives in a [Board], a view-model with named transitions and no I/O: the catalog and its
// load state, organize mode, the pending move, the playback preference, the destination folders,
// the open prompt and the transient notice and play acknowledgments.
//
// A [Dispatcher] turns gestures into backend calls. Each gesture validates its input, applies any
// optimistic state and returns a [tea.Cmd]; the command's result comes back as a [Msg] that
// [Dispatcher.Reconcile] applies. Catalog refreshes, notice clears and acknowledgment expiries all
// carry sequence numbers, so a late response or an orphaned timer never overwrites newer state.
//
// The (view) [Model] implements the standard Init/Update/View pattern on top of both, with prompts
// for upload, move, category creation and empty category removal. Keyboard navigation uses
// vim-style bindings with contextual help displayed via charmbracelet/bubbles/help.
package ui
