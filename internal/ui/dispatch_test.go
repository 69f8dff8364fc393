package ui

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/sbx/internal/models"
	"github.com/desertthunder/sbx/internal/services"
	tu "github.com/desertthunder/sbx/internal/testing"
	"github.com/goccy/go-json"
)

type stubPlayer struct {
	mu    sync.Mutex
	paths []string
	err   error
}

func (p *stubPlayer) Play(_ context.Context, path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paths = append(p.paths, path)
	return p.err
}

func (p *stubPlayer) played() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.paths)
}

type stubRecorder struct {
	mu      sync.Mutex
	records []*models.PlayRecord
}

func (r *stubRecorder) Create(rec *models.PlayRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

type fixture struct {
	backend  *tu.FakeBackend
	board    *Board
	dispatch *Dispatcher
	player   *stubPlayer
	history  *stubRecorder
	copied   []string
}

// newFixture wires a dispatcher to a fake backend seeded with the Main/Boo.wav and SFX/Pop.wav scenario.
func newFixture(t *testing.T, pref models.PlaybackPreference) *fixture {
	t.Helper()

	backend := tu.NewFakeBackend(t)
	backend.SetSounds(seedCatalog())

	f := &fixture{
		backend: backend,
		board:   NewBoard(pref),
		player:  &stubPlayer{},
		history: &stubRecorder{},
	}
	svc := services.NewSoundboardService(backend.URL(), backend.Client())
	f.dispatch = NewDispatcher(context.Background(), svc, DispatcherOpts{
		Player:          f.player,
		History:         f.history,
		AckDuration:     time.Millisecond,
		MessageDuration: time.Millisecond,
		Clipboard: func(s string) error {
			f.copied = append(f.copied, s)
			return nil
		},
	})
	return f
}

// load performs the initial catalog and folder fetch.
func (f *fixture) load(t *testing.T) {
	t.Helper()
	drain(t, f.dispatch, f.board, tea.Batch(f.dispatch.Refresh(f.board), f.dispatch.RefreshFolders()))
}

// drain runs cmd and every follow-up command, feeding results back through Reconcile.
// Timer messages are returned instead of applied so notices stay visible to assertions.
func drain(t *testing.T, d *Dispatcher, b *Board, cmd tea.Cmd) []Msg {
	t.Helper()

	var timers []Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case Msg:
			if msg.Kind() == MsgNoticeExpired || msg.Kind() == MsgAckExpired {
				timers = append(timers, msg)
				continue
			}
			queue = append(queue, d.Reconcile(b, msg))
		}
	}
	return timers
}

func noticeText(t *testing.T, b *Board) string {
	t.Helper()
	n, ok := b.Notice()
	if !ok {
		t.Fatal("expected a notice")
	}
	return n.Text
}

func TestDispatcherPlay(t *testing.T) {
	boo := models.SoundEntry{DisplayName: "Boo.wav", FullPath: "Main/Boo.wav"}

	t.Run("remote", func(t *testing.T) {
		f := newFixture(t, models.PlaybackPreference{Remote: true})
		f.load(t)

		cmd := f.dispatch.Activate(f.board, boo)
		if !f.board.IsAcknowledged(boo.FullPath) {
			t.Error("acknowledgment should apply before the call completes")
		}
		timers := drain(t, f.dispatch, f.board, cmd)

		calls := f.backend.Calls(http.MethodPost, "/play")
		if len(calls) != 1 {
			t.Fatalf("expected 1 play request, got %d", len(calls))
		}
		var body map[string]string
		if err := json.Unmarshal(calls[0].Body, &body); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		if body["filename"] != "Main/Boo.wav" {
			t.Errorf("filename = %q", body["filename"])
		}
		if len(f.player.played()) != 0 {
			t.Error("local playback should be off")
		}
		if _, ok := f.board.Notice(); ok {
			t.Error("successful play should not show a notice")
		}

		if len(timers) != 1 || timers[0].Kind() != MsgAckExpired {
			t.Fatalf("expected one ack timer, got %v", timers)
		}
		f.dispatch.Reconcile(f.board, timers[0])
		if f.board.IsAcknowledged(boo.FullPath) {
			t.Error("acknowledgment should expire")
		}
	})

	t.Run("local", func(t *testing.T) {
		f := newFixture(t, models.PlaybackPreference{Local: true})
		drain(t, f.dispatch, f.board, f.dispatch.Play(f.board, boo))

		if got := f.player.played(); !slices.Equal(got, []string{"Main/Boo.wav"}) {
			t.Errorf("local plays = %v", got)
		}
		if len(f.backend.Calls(http.MethodPost, "/play")) != 0 {
			t.Error("remote playback should be off")
		}
	})

	t.Run("both targets and history", func(t *testing.T) {
		f := newFixture(t, models.PlaybackPreference{Remote: true, Local: true})
		drain(t, f.dispatch, f.board, f.dispatch.Play(f.board, boo))

		if len(f.player.played()) != 1 || len(f.backend.Calls(http.MethodPost, "/play")) != 1 {
			t.Error("expected both local and remote playback")
		}
		if len(f.history.records) != 1 {
			t.Fatalf("expected 1 history record, got %d", len(f.history.records))
		}
		rec := f.history.records[0]
		if rec.FullPath() != boo.FullPath || !rec.Remote() || !rec.Local() {
			t.Errorf("unexpected record %+v", rec.Entry())
		}
	})

	t.Run("local failure is silent", func(t *testing.T) {
		f := newFixture(t, models.PlaybackPreference{Local: true})
		f.player.err = errors.New("no player")
		drain(t, f.dispatch, f.board, f.dispatch.Play(f.board, boo))

		if _, ok := f.board.Notice(); ok {
			t.Error("local playback errors are logged only")
		}
	})

	t.Run("remote rejection", func(t *testing.T) {
		f := newFixture(t, models.PlaybackPreference{Remote: true})
		f.backend.On(http.MethodPost, "/play", func(w http.ResponseWriter, _ *http.Request) {
			tu.WriteError(w, http.StatusNotFound, "File not found")
		})
		drain(t, f.dispatch, f.board, f.dispatch.Play(f.board, boo))

		if got := noticeText(t, f.board); got != "Play failed: File not found" {
			t.Errorf("notice = %q", got)
		}
	})
}

func TestDispatcherStop(t *testing.T) {
	f := newFixture(t, models.PlaybackPreference{Remote: true})
	drain(t, f.dispatch, f.board, f.dispatch.Stop())
	drain(t, f.dispatch, f.board, f.dispatch.StopAll())

	if len(f.backend.Calls(http.MethodPost, "/stop")) != 1 || len(f.backend.Calls(http.MethodPost, "/stopall")) != 1 {
		t.Error("expected one stop and one stopall request")
	}
	if _, ok := f.board.Notice(); ok {
		t.Error("stop should not change visible state")
	}

	t.Run("transport failure", func(t *testing.T) {
		client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
		d := NewDispatcher(context.Background(), services.NewSoundboardService("http://soundboard.invalid", client), DispatcherOpts{
			MessageDuration: time.Millisecond,
		})
		b := NewBoard(models.PlaybackPreference{Remote: true})
		drain(t, d, b, d.Stop())

		got := noticeText(t, b)
		if !strings.HasPrefix(got, "Stop failed: ") || !strings.Contains(got, "connection refused") {
			t.Errorf("notice = %q", got)
		}
	})
}

func TestDispatcherUpload(t *testing.T) {
	t.Run("no file selected", func(t *testing.T) {
		f := newFixture(t, models.PlaybackPreference{Remote: true})
		f.board.OpenPrompt(PromptUpload)
		drain(t, f.dispatch, f.board, f.dispatch.Upload(f.board, "  ", "SFX"))

		if len(f.backend.Requests()) != 0 {
			t.Errorf("expected no requests, got %d", len(f.backend.Requests()))
		}
		n, _ := f.board.Notice()
		if n.Text != "Please select a file to upload." || n.Kind != NoticeError {
			t.Errorf("unexpected notice %+v", n)
		}
	})

	t.Run("success refreshes catalog", func(t *testing.T) {
		f := newFixture(t, models.PlaybackPreference{Remote: true})
		f.load(t)
		file := tu.WriteAudioFile(t, t.TempDir(), "air-horn.wav")

		f.board.OpenPrompt(PromptUpload)
		drain(t, f.dispatch, f.board, f.dispatch.Upload(f.board, file, "SFX"))

		if got := noticeText(t, f.board); got != "File uploaded successfully: air-horn.wav" {
			t.Errorf("notice = %q", got)
		}
		if f.board.Prompt() != PromptNone {
			t.Error("upload prompt should close")
		}
		uploads := f.backend.Uploads()
		if len(uploads) != 1 || uploads[0].Folder != "SFX" || string(uploads[0].Content) != "RIFFair-horn.wav" {
			t.Errorf("unexpected uploads %+v", uploads)
		}
		if len(f.backend.Calls(http.MethodGet, "/sounds")) != 2 {
			t.Error("expected a catalog refresh after upload")
		}
		if !slices.ContainsFunc(f.board.Entries(), func(e models.SoundEntry) bool { return e.FullPath == "SFX/air-horn.wav" }) {
			t.Errorf("uploaded sound missing from %+v", f.board.Entries())
		}
	})

	t.Run("rejection verbatim", func(t *testing.T) {
		f := newFixture(t, models.PlaybackPreference{Remote: true})
		file := tu.WriteAudioFile(t, t.TempDir(), "notes.txt")

		f.board.OpenPrompt(PromptUpload)
		drain(t, f.dispatch, f.board, f.dispatch.Upload(f.board, file, "Main"))

		if got := noticeText(t, f.board); got != "Upload failed: Invalid file type. Only audio files are allowed." {
			t.Errorf("notice = %q", got)
		}
		if f.board.Prompt() != PromptUpload {
			t.Error("prompt should stay open on failure")
		}
		if len(f.backend.Calls(http.MethodGet, "/sounds")) != 0 {
			t.Error("failed upload should not refresh")
		}
	})

	t.Run("missing local file", func(t *testing.T) {
		f := newFixture(t, models.PlaybackPreference{Remote: true})
		drain(t, f.dispatch, f.board, f.dispatch.Upload(f.board, "/does/not/exist.wav", "Main"))

		if !strings.HasPrefix(noticeText(t, f.board), "Upload failed: ") {
			t.Errorf("notice = %q", noticeText(t, f.board))
		}
		if len(f.backend.Uploads()) != 0 {
			t.Error("nothing should be uploaded")
		}
	})
}

func TestDispatcherMove(t *testing.T) {
	boo := models.SoundEntry{DisplayName: "Boo.wav", FullPath: "Main/Boo.wav"}

	t.Run("organize then move", func(t *testing.T) {
		f := newFixture(t, models.PlaybackPreference{Remote: true})
		f.load(t)
		f.board.SetMode(models.ModeOrganize)

		if cmd := f.dispatch.Activate(f.board, boo); cmd != nil {
			drain(t, f.dispatch, f.board, cmd)
		}
		if n := len(f.backend.Calls(http.MethodPost, "/play")) + len(f.backend.Calls(http.MethodPost, "/stop")); n != 0 {
			t.Fatalf("organize activation issued %d playback requests", n)
		}
		if f.board.Prompt() != PromptMove {
			t.Fatalf("expected move prompt, got %v", f.board.Prompt())
		}

		f.board.SetMoveTarget("SFX")
		drain(t, f.dispatch, f.board, f.dispatch.Move(f.board))

		calls := f.backend.Calls(http.MethodPost, "/move")
		if len(calls) != 1 {
			t.Fatalf("expected 1 move request, got %d", len(calls))
		}
		var body map[string]string
		if err := json.Unmarshal(calls[0].Body, &body); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		if body["source_path"] != "Main/Boo.wav" || body["target_folder"] != "SFX" {
			t.Errorf("unexpected body %v", body)
		}

		if f.board.Mode() != models.ModeNormal {
			t.Error("successful move should exit organize mode")
		}
		if _, ok := f.board.Pending(); ok || f.board.Prompt() != PromptNone {
			t.Error("pending move and prompt should be cleared")
		}
		if got := noticeText(t, f.board); got != "File moved successfully to SFX" {
			t.Errorf("notice = %q", got)
		}
		if len(f.backend.Calls(http.MethodGet, "/sounds")) != 2 {
			t.Error("expected a catalog refresh after move")
		}
		if folders := f.board.Catalog().Folders(); !slices.Equal(folders, []string{"SFX"}) {
			t.Errorf("folders after move = %v", folders)
		}
	})

	t.Run("failure keeps prompt", func(t *testing.T) {
		f := newFixture(t, models.PlaybackPreference{Remote: true})
		f.backend.On(http.MethodPost, "/move", func(w http.ResponseWriter, _ *http.Request) {
			tu.WriteError(w, http.StatusBadRequest, "Source file does not exist")
		})
		f.board.SetFolders([]string{"Main", "SFX"})
		f.board.SetMode(models.ModeOrganize)
		f.board.Activate(boo)

		drain(t, f.dispatch, f.board, f.dispatch.Move(f.board))

		if got := noticeText(t, f.board); got != "Move failed: Source file does not exist" {
			t.Errorf("notice = %q", got)
		}
		if f.board.Prompt() != PromptMove || f.board.Mode() != models.ModeOrganize {
			t.Error("prompt and mode should survive a failed move")
		}
		if _, ok := f.board.Pending(); !ok {
			t.Error("pending move should survive for retry")
		}
	})

	t.Run("no pending move", func(t *testing.T) {
		f := newFixture(t, models.PlaybackPreference{Remote: true})
		drain(t, f.dispatch, f.board, f.dispatch.Move(f.board))
		if len(f.backend.Requests()) != 0 {
			t.Error("expected no requests")
		}
	})
}

func TestDispatcherCategories(t *testing.T) {
	t.Run("blank name never calls backend", func(t *testing.T) {
		f := newFixture(t, models.PlaybackPreference{Remote: true})
		for _, name := range []string{"", "   ", "\t\n"} {
			drain(t, f.dispatch, f.board, f.dispatch.CreateCategory(f.board, name))
		}
		if len(f.backend.Calls(http.MethodPost, "/create-category")) != 0 {
			t.Error("create-category should not be called")
		}
		if got := noticeText(t, f.board); got != "Please enter a category name" {
			t.Errorf("notice = %q", got)
		}
	})

	t.Run("create refreshes folders", func(t *testing.T) {
		f := newFixture(t, models.PlaybackPreference{Remote: true})
		f.board.OpenPrompt(PromptCreateCategory)
		drain(t, f.dispatch, f.board, f.dispatch.CreateCategory(f.board, "  Voices "))

		calls := f.backend.Calls(http.MethodPost, "/create-category")
		if len(calls) != 1 || !strings.Contains(string(calls[0].Body), `"Voices"`) {
			t.Fatalf("unexpected create requests %+v", calls)
		}
		if got := noticeText(t, f.board); got != "Category 'Voices' created successfully" {
			t.Errorf("notice = %q", got)
		}
		if !slices.Contains(f.board.Folders(), "Voices") {
			t.Errorf("folders = %v", f.board.Folders())
		}
		if f.board.Prompt() != PromptNone {
			t.Error("prompt should close")
		}
	})

	t.Run("create rejection", func(t *testing.T) {
		f := newFixture(t, models.PlaybackPreference{Remote: true})
		f.board.OpenPrompt(PromptCreateCategory)
		drain(t, f.dispatch, f.board, f.dispatch.CreateCategory(f.board, "SFX"))

		if got := noticeText(t, f.board); got != "Failed to create category: Category already exists" {
			t.Errorf("notice = %q", got)
		}
		if f.board.Prompt() != PromptCreateCategory {
			t.Error("prompt should stay open")
		}
	})

	t.Run("empty list states", func(t *testing.T) {
		f := newFixture(t, models.PlaybackPreference{Remote: true})
		drain(t, f.dispatch, f.board, f.dispatch.LoadEmptyCategories(f.board))
		if f.board.CategoriesState() != CategoriesNone {
			t.Errorf("expected none, got %v", f.board.CategoriesState())
		}

		f.backend.On(http.MethodGet, "/empty-categories", func(w http.ResponseWriter, _ *http.Request) {
			tu.WriteError(w, http.StatusInternalServerError, "boom")
		})
		drain(t, f.dispatch, f.board, f.dispatch.LoadEmptyCategories(f.board))
		if f.board.CategoriesState() != CategoriesError {
			t.Errorf("expected error, got %v", f.board.CategoriesState())
		}
	})

	removal := func(t *testing.T, status int, result models.RemoveResult) *fixture {
		t.Helper()
		f := newFixture(t, models.PlaybackPreference{Remote: true})
		f.backend.SetEmptyCategories("A", "B")
		f.backend.On(http.MethodPost, "/remove-categories", func(w http.ResponseWriter, _ *http.Request) {
			tu.WriteJSON(w, status, result)
		})

		drain(t, f.dispatch, f.board, f.dispatch.LoadEmptyCategories(f.board))
		f.board.ToggleCategory("A")
		f.board.ToggleCategory("B")
		drain(t, f.dispatch, f.board, f.dispatch.RemoveCategories(f.board))
		return f
	}

	t.Run("partial success", func(t *testing.T) {
		f := removal(t, http.StatusMultiStatus, models.RemoveResult{Removed: []string{"A"}, Failed: []string{"B"}})

		n, _ := f.board.Notice()
		if n.Text != "Successfully removed: A\nFailed to remove: B" || n.Kind != NoticeWarning {
			t.Errorf("unexpected notice %+v", n)
		}
		if f.board.Prompt() != PromptNone {
			t.Error("prompt should close after partial success")
		}
		if len(f.backend.Calls(http.MethodGet, "/folders")) != 1 {
			t.Error("expected folder refresh")
		}
	})

	t.Run("total failure", func(t *testing.T) {
		f := removal(t, http.StatusMultiStatus, models.RemoveResult{Removed: []string{}, Failed: []string{"B"}})

		n, _ := f.board.Notice()
		if n.Kind != NoticeError || n.Text != "Failed to remove: B" {
			t.Errorf("unexpected notice %+v", n)
		}
		if f.board.Prompt() != PromptRemoveCategories {
			t.Error("prompt should stay open after total failure")
		}
		if len(f.backend.Calls(http.MethodGet, "/folders")) != 0 {
			t.Error("total failure should not refresh folders")
		}
	})

	t.Run("full success", func(t *testing.T) {
		f := removal(t, http.StatusOK, models.RemoveResult{Removed: []string{"A", "B"}, Failed: []string{}})

		n, _ := f.board.Notice()
		if n.Text != "Successfully removed: A, B" || n.Kind != NoticeSuccess {
			t.Errorf("unexpected notice %+v", n)
		}
		calls := f.backend.Calls(http.MethodPost, "/remove-categories")
		if len(calls) != 1 || !strings.Contains(string(calls[0].Body), `"categories":["A","B"]`) {
			t.Errorf("unexpected remove requests %+v", calls)
		}
	})

	t.Run("late response leaves move prompt open", func(t *testing.T) {
		f := newFixture(t, models.PlaybackPreference{Remote: true})
		f.load(t)
		f.backend.SetEmptyCategories("A")
		drain(t, f.dispatch, f.board, f.dispatch.LoadEmptyCategories(f.board))
		f.board.ToggleCategory("A")

		inFlight := f.dispatch.RemoveCategories(f.board)
		f.board.ClosePrompt()
		f.board.ToggleMode()
		boo := models.SoundEntry{DisplayName: "Boo.wav", FullPath: "Main/Boo.wav"}
		drain(t, f.dispatch, f.board, f.dispatch.Activate(f.board, boo))
		drain(t, f.dispatch, f.board, inFlight)

		if f.board.Prompt() != PromptMove {
			t.Errorf("expected move prompt, got %v", f.board.Prompt())
		}
		if f.board.Mode() != models.ModeOrganize {
			t.Errorf("expected organize mode, got %v", f.board.Mode())
		}
		if pending, ok := f.board.Pending(); !ok || pending.FullPath != "Main/Boo.wav" {
			t.Errorf("pending move lost: %+v %v", pending, ok)
		}
		if got := noticeText(t, f.board); got != "Successfully removed: A" {
			t.Errorf("notice = %q", got)
		}
	})

	t.Run("empty selection", func(t *testing.T) {
		f := newFixture(t, models.PlaybackPreference{Remote: true})
		f.backend.SetEmptyCategories("A")
		drain(t, f.dispatch, f.board, f.dispatch.LoadEmptyCategories(f.board))
		drain(t, f.dispatch, f.board, f.dispatch.RemoveCategories(f.board))

		if len(f.backend.Calls(http.MethodPost, "/remove-categories")) != 0 {
			t.Error("remove-categories should not be called")
		}
		if f.board.Prompt() != PromptRemoveCategories {
			t.Error("prompt should stay open")
		}
	})
}

func TestDispatcherRefreshRace(t *testing.T) {
	f := newFixture(t, models.PlaybackPreference{Remote: true})

	first := f.dispatch.Refresh(f.board)
	second := f.dispatch.Refresh(f.board)

	stale := first()
	f.backend.SetSounds(models.Catalog{"Main": {{DisplayName: "Fresh", FullPath: "Fresh.wav"}}})
	fresh := second()

	f.dispatch.Reconcile(f.board, fresh.(Msg))
	f.dispatch.Reconcile(f.board, stale.(Msg))

	entries := f.board.Entries()
	if len(entries) != 1 || entries[0].FullPath != "Fresh.wav" {
		t.Errorf("stale refresh won: %+v", entries)
	}
}

func TestDispatcherNoticeTimers(t *testing.T) {
	f := newFixture(t, models.PlaybackPreference{Remote: true})

	firstTimers := drain(t, f.dispatch, f.board, f.dispatch.CreateCategory(f.board, ""))
	secondTimers := drain(t, f.dispatch, f.board, f.dispatch.Upload(f.board, "", "Main"))
	if len(firstTimers) != 1 || len(secondTimers) != 1 {
		t.Fatalf("expected one timer per notice, got %d and %d", len(firstTimers), len(secondTimers))
	}

	f.dispatch.Reconcile(f.board, firstTimers[0])
	if got := noticeText(t, f.board); got != "Please select a file to upload." {
		t.Errorf("orphaned timer cleared the newer notice, got %q", got)
	}

	f.dispatch.Reconcile(f.board, secondTimers[0])
	if _, ok := f.board.Notice(); ok {
		t.Error("current timer should clear the notice")
	}
}

func TestDispatcherCopy(t *testing.T) {
	f := newFixture(t, models.PlaybackPreference{Remote: true})
	drain(t, f.dispatch, f.board, f.dispatch.Copy(f.board, models.SoundEntry{FullPath: "SFX/Pop.wav"}))

	if !slices.Equal(f.copied, []string{"SFX/Pop.wav"}) {
		t.Errorf("copied = %v", f.copied)
	}
	if got := noticeText(t, f.board); got != "Copied SFX/Pop.wav" {
		t.Errorf("notice = %q", got)
	}
}

func TestErrorText(t *testing.T) {
	if got := errorText(&services.RejectionError{Status: 400, Message: "Category already exists"}); got != "Category already exists" {
		t.Errorf("errorText(rejection) = %q", got)
	}
	if got := errorText(errors.New("dial tcp: refused")); got != "dial tcp: refused" {
		t.Errorf("errorText(transport) = %q", got)
	}
}
