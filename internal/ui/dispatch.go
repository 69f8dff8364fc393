package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/sbx/internal/audio"
	"github.com/desertthunder/sbx/internal/models"
	"github.com/desertthunder/sbx/internal/services"
	"github.com/desertthunder/sbx/internal/shared"
)

const (
	defaultAckDuration     = 2 * time.Second
	defaultMessageDuration = 5 * time.Second
)

// PlayRecorder persists dispatched plays. Satisfied by the play history repository.
type PlayRecorder interface {
	Create(rec *models.PlayRecord) error
}

// DispatcherOpts configures a [Dispatcher]. Zero values select the defaults.
type DispatcherOpts struct {
	Player          audio.Player       // Local playback; nil disables it
	History         PlayRecorder       // Optional play history
	Logger          *log.Logger        // Defaults to a discarding logger
	AckDuration     time.Duration      // How long a played sound stays highlighted (default: 2s)
	MessageDuration time.Duration      // How long a notice stays visible (default: 5s)
	Clipboard       func(string) error // Defaults to the system clipboard
}

// Dispatcher turns user gestures into backend calls and reconciles the [Board] once they complete.
//
// Gesture methods validate, apply any optimistic state, and return the [tea.Cmd] that performs the call.
// [Dispatcher.Reconcile] applies the resulting [Msg]. Both run on the bubbletea update loop; only the
// commands run elsewhere.
type Dispatcher struct {
	ctx  context.Context // program lifetime; tea.Cmd funcs take no context of their own
	svc  services.Soundboard
	opts DispatcherOpts
}

// NewDispatcher creates a dispatcher issuing calls through svc.
func NewDispatcher(ctx context.Context, svc services.Soundboard, opts DispatcherOpts) *Dispatcher {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}
	if opts.AckDuration <= 0 {
		opts.AckDuration = defaultAckDuration
	}
	if opts.MessageDuration <= 0 {
		opts.MessageDuration = defaultMessageDuration
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	return &Dispatcher{ctx: ctx, svc: svc, opts: opts}
}

// Refresh re-fetches the catalog under a new sequence number.
func (d *Dispatcher) Refresh(b *Board) tea.Cmd {
	seq := b.BeginRefresh()
	return func() tea.Msg {
		catalog, err := d.svc.ListSounds(d.ctx)
		return catalogFetchedMsg(seq, catalog, err)
	}
}

// RefreshFolders re-fetches the destination folders.
func (d *Dispatcher) RefreshFolders() tea.Cmd {
	return func() tea.Msg {
		folders, err := d.svc.ListFolders(d.ctx)
		return foldersFetchedMsg(folders, err)
	}
}

// Activate plays entry or opens its move prompt depending on the board's mode.
func (d *Dispatcher) Activate(b *Board, entry models.SoundEntry) tea.Cmd {
	if b.Activate(entry) == ActivateMove {
		return nil
	}
	return d.Play(b, entry)
}

// Play sends entry to every enabled playback target.
//
// The acknowledgment is applied immediately and expires on its own timer regardless of the outcome.
// Local playback and history failures are logged only.
func (d *Dispatcher) Play(b *Board, entry models.SoundEntry) tea.Cmd {
	pref := b.Preference()
	seq := b.Acknowledge(entry.FullPath)

	cmds := []tea.Cmd{d.expireAck(entry.FullPath, seq)}
	if pref.Remote {
		cmds = append(cmds, func() tea.Msg {
			status, err := d.svc.Play(d.ctx, entry.FullPath)
			return playedMsg(entry, status, err)
		})
	}
	if pref.Local {
		cmds = append(cmds, d.playLocal(entry))
	}
	if d.opts.History != nil {
		cmds = append(cmds, d.record(entry, pref))
	}
	return tea.Batch(cmds...)
}

// Stop halts the most recent remote playback.
func (d *Dispatcher) Stop() tea.Cmd {
	return func() tea.Msg {
		status, err := d.svc.Stop(d.ctx)
		return stoppedMsg(false, status, err)
	}
}

// StopAll halts every remote playback.
func (d *Dispatcher) StopAll() tea.Cmd {
	return func() tea.Msg {
		status, err := d.svc.StopAll(d.ctx)
		return stoppedMsg(true, status, err)
	}
}

// Upload sends the local file at path into folder. An empty path is rejected without a request.
func (d *Dispatcher) Upload(b *Board, path, folder string) tea.Cmd {
	path = strings.TrimSpace(path)
	if path == "" {
		return d.notify(b, "Please select a file to upload.", NoticeError)
	}

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return uploadedMsg("", err)
		}
		defer f.Close()

		filename, err := d.svc.Upload(d.ctx, filepath.Base(path), f, folder)
		return uploadedMsg(filename, err)
	}
}

// Move confirms the board's pending move.
func (d *Dispatcher) Move(b *Board) tea.Cmd {
	pending, ok := b.Pending()
	if !ok {
		return d.notify(b, "No sound selected to move.", NoticeError)
	}
	if pending.TargetFolder == "" {
		return d.notify(b, "Please select a target folder.", NoticeError)
	}

	return func() tea.Msg {
		err := d.svc.Move(d.ctx, pending.FullPath, pending.TargetFolder)
		return movedMsg(pending, err)
	}
}

// CreateCategory creates the folder name. Blank names are rejected without a request.
func (d *Dispatcher) CreateCategory(b *Board, name string) tea.Cmd {
	name = strings.TrimSpace(name)
	if name == "" {
		return d.notify(b, "Please enter a category name", NoticeError)
	}

	return func() tea.Msg {
		status, err := d.svc.CreateCategory(d.ctx, name)
		return categoryCreatedMsg(name, status, err)
	}
}

// LoadEmptyCategories opens the removal prompt and fetches its choices.
func (d *Dispatcher) LoadEmptyCategories(b *Board) tea.Cmd {
	b.BeginEmptyCategories()
	return func() tea.Msg {
		names, err := d.svc.ListEmptyCategories(d.ctx)
		return emptyCategoriesFetchedMsg(names, err)
	}
}

// RemoveCategories removes the checked categories. An empty selection is rejected without a request.
func (d *Dispatcher) RemoveCategories(b *Board) tea.Cmd {
	selected := b.SelectedCategories()
	if len(selected) == 0 {
		return d.notify(b, "Please select at least one category to remove.", NoticeError)
	}

	return func() tea.Msg {
		result, err := d.svc.RemoveCategories(d.ctx, selected)
		return categoriesRemovedMsg(result, err)
	}
}

// Copy puts entry's path on the clipboard.
func (d *Dispatcher) Copy(b *Board, entry models.SoundEntry) tea.Cmd {
	if err := d.opts.Clipboard(entry.FullPath); err != nil {
		d.opts.Logger.Warn("clipboard write failed", "error", err)
		return d.notify(b, fmt.Sprintf("Copy failed: %v", err), NoticeError)
	}
	return d.notify(b, "Copied "+entry.FullPath, NoticeInfo)
}

// Reconcile applies a completed call to the board and returns any follow-up command.
func (d *Dispatcher) Reconcile(b *Board, msg Msg) tea.Cmd {
	switch msg.kind {
	case MsgCatalogFetched:
		data := msg.data.(catalogFetched)
		if !b.ApplyCatalog(data.seq, data.catalog, data.err) {
			d.opts.Logger.Debug("stale catalog response dropped", "seq", data.seq)
			return nil
		}
		if data.err != nil {
			d.opts.Logger.Error("failed to load sounds", "error", data.err)
		}
		return nil

	case MsgFoldersFetched:
		data := msg.data.(foldersFetched)
		if data.err != nil {
			d.opts.Logger.Error("failed to load folders", "error", data.err)
			return nil
		}
		b.SetFolders(data.folders)
		return nil

	case MsgPlayed:
		data := msg.data.(played)
		if data.err != nil {
			d.opts.Logger.Warn("remote playback failed", "path", data.entry.FullPath, "error", data.err)
			return d.notify(b, "Play failed: "+errorText(data.err), NoticeError)
		}
		d.opts.Logger.Debug("remote playback", "path", data.entry.FullPath, "status", data.status)
		return nil

	case MsgStopped:
		data := msg.data.(stopped)
		if data.err != nil {
			return d.notify(b, "Stop failed: "+errorText(data.err), NoticeError)
		}
		d.opts.Logger.Debug("playback stopped", "all", data.all, "status", data.status)
		return nil

	case MsgUploaded:
		data := msg.data.(uploaded)
		if data.err != nil {
			return d.notify(b, "Upload failed: "+errorText(data.err), NoticeError)
		}
		if b.Prompt() == PromptUpload {
			b.ClosePrompt()
		}
		return tea.Batch(
			d.notify(b, "File uploaded successfully: "+data.filename, NoticeSuccess),
			d.Refresh(b),
		)

	case MsgMoved:
		data := msg.data.(moved)
		if data.err != nil {
			return d.notify(b, "Move failed: "+errorText(data.err), NoticeError)
		}
		b.CompleteMove()
		return tea.Batch(
			d.notify(b, "File moved successfully to "+data.move.TargetFolder, NoticeSuccess),
			d.Refresh(b),
		)

	case MsgCategoryCreated:
		data := msg.data.(categoryCreated)
		if data.err != nil {
			return d.notify(b, "Failed to create category: "+errorText(data.err), NoticeError)
		}
		if b.Prompt() == PromptCreateCategory {
			b.ClosePrompt()
		}
		status := data.status
		if status == "" {
			status = fmt.Sprintf("Category '%s' created", data.name)
		}
		return tea.Batch(d.notify(b, status, NoticeSuccess), d.RefreshFolders())

	case MsgEmptyCategoriesFetched:
		data := msg.data.(emptyCategoriesFetched)
		if data.err != nil {
			d.opts.Logger.Error("failed to load empty categories", "error", data.err)
		}
		b.ApplyEmptyCategories(data.names, data.err)
		return nil

	case MsgCategoriesRemoved:
		return d.reconcileRemoval(b, msg.data.(categoriesRemoved))

	case MsgNoticeExpired:
		b.ClearNotice(msg.data.(int))
		return nil

	case MsgAckExpired:
		data := msg.data.(ackExpired)
		b.ExpireAck(data.path, data.seq)
		return nil
	}
	return nil
}

// reconcileRemoval treats any removed category as success. Only then are the folders refreshed
// and the removal prompt closed, if it is still the one open.
func (d *Dispatcher) reconcileRemoval(b *Board, data categoriesRemoved) tea.Cmd {
	if data.err != nil {
		return d.notify(b, "Failed to remove categories: "+errorText(data.err), NoticeError)
	}

	result := data.result
	if result == nil {
		result = &models.RemoveResult{}
	}

	kind := NoticeSuccess
	switch result.Outcome() {
	case models.OutcomeFailed:
		text := result.Summary()
		if text == "" {
			text = "No categories were removed"
		}
		return d.notify(b, text, NoticeError)
	case models.OutcomePartial:
		kind = NoticeWarning
	}

	if b.Prompt() == PromptRemoveCategories {
		b.ClosePrompt()
	}
	return tea.Batch(d.notify(b, result.Summary(), kind), d.RefreshFolders())
}

// notify shows text and schedules its clear. A newer notice invalidates the timer.
func (d *Dispatcher) notify(b *Board, text string, kind NoticeKind) tea.Cmd {
	seq := b.Notify(text, kind)
	return tea.Tick(d.opts.MessageDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg(seq)
	})
}

func (d *Dispatcher) expireAck(path string, seq int) tea.Cmd {
	return tea.Tick(d.opts.AckDuration, func(time.Time) tea.Msg {
		return ackExpiredMsg(path, seq)
	})
}

func (d *Dispatcher) playLocal(entry models.SoundEntry) tea.Cmd {
	return func() tea.Msg {
		if d.opts.Player == nil {
			d.opts.Logger.Warn("local playback requested but no player is configured", "path", entry.FullPath)
			return nil
		}
		if err := d.opts.Player.Play(d.ctx, entry.FullPath); err != nil {
			d.opts.Logger.Warn("local playback failed", "path", entry.FullPath, "error", err)
		}
		return nil
	}
}

func (d *Dispatcher) record(entry models.SoundEntry, pref models.PlaybackPreference) tea.Cmd {
	return func() tea.Msg {
		if err := d.opts.History.Create(models.NewPlayRecord(0, entry, pref)); err != nil {
			d.opts.Logger.Warn("failed to record play", "path", entry.FullPath, "error", err)
		}
		return nil
	}
}

// errorText is the user-facing text for a failed call: the backend's error field for rejections,
// the error description otherwise.
func errorText(err error) string {
	var rejected *services.RejectionError
	if errors.As(err, &rejected) {
		return rejected.Message
	}
	return err.Error()
}
