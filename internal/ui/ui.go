package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/sbx/internal/models"
)

// Model represents the TUI application state.
type Model struct {
	board        *Board
	dispatch     *Dispatcher
	width        int
	height       int
	input        textinput.Model
	uploadFolder int
	folderList   list.Model
	categoryList list.Model
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model over board, issuing calls through dispatch.
func NewModel(board *Board, dispatch *Dispatcher) *Model {
	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 512

	return &Model{
		board:        board,
		dispatch:     dispatch,
		input:        input,
		folderList:   newPicker("Move to folder", true),
		categoryList: newPicker("Empty categories", false),
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

func newPicker(title string, descriptions bool) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = descriptions
	if !descriptions {
		delegate.SetSpacing(0)
	}

	l := list.New(nil, delegate, 40, 12)
	l.Title = title
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}

// Board exposes the view-model, mostly for tests.
func (m *Model) Board() *Board { return m.board }

// Init loads the catalog and the destination folders.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.dispatch.Refresh(m.board), m.dispatch.RefreshFolders())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.folderList.SetSize(max(msg.Width-4, 20), max(msg.Height-10, 5))
		m.categoryList.SetSize(max(msg.Width-4, 20), max(msg.Height-10, 5))
		m.input.Width = max(msg.Width-8, 20)
		return m, nil

	case Msg:
		cmd := m.dispatch.Reconcile(m.board, msg)
		m.syncLists()
		return m, cmd

	case tea.KeyMsg:
		switch m.board.Prompt() {
		case PromptUpload:
			return m.handleUploadKeys(msg)
		case PromptMove:
			return m.handleMoveKeys(msg)
		case PromptCreateCategory:
			return m.handleCreateKeys(msg)
		case PromptRemoveCategories:
			return m.handleRemoveKeys(msg)
		case PromptHelp:
			m.board.ClosePrompt()
			return m, nil
		default:
			return m.handleBoardKeys(msg)
		}
	}
	return m, nil
}

func (m *Model) handleBoardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := m.board
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.up):
		b.MoveCursor(-1)
	case key.Matches(msg, m.keys.down):
		b.MoveCursor(1)
	case key.Matches(msg, m.keys.enter):
		if entry, ok := b.Selected(); ok {
			cmd := m.dispatch.Activate(b, entry)
			m.syncLists()
			return m, cmd
		}
	case key.Matches(msg, m.keys.organize):
		b.ToggleMode()
	case key.Matches(msg, m.keys.back):
		b.SetMode(models.ModeNormal)
	case key.Matches(msg, m.keys.stop):
		return m, m.dispatch.Stop()
	case key.Matches(msg, m.keys.stopAll):
		return m, m.dispatch.StopAll()
	case key.Matches(msg, m.keys.remote):
		b.TogglePreference(true)
	case key.Matches(msg, m.keys.local):
		b.TogglePreference(false)
	case key.Matches(msg, m.keys.refresh):
		return m, tea.Batch(m.dispatch.Refresh(b), m.dispatch.RefreshFolders())
	case key.Matches(msg, m.keys.copyPath):
		if entry, ok := b.Selected(); ok {
			return m, m.dispatch.Copy(b, entry)
		}
	case key.Matches(msg, m.keys.upload):
		b.OpenPrompt(PromptUpload)
		m.uploadFolder = 0
		return m, m.resetInput("path/to/sound.wav")
	case key.Matches(msg, m.keys.create):
		b.OpenPrompt(PromptCreateCategory)
		return m, m.resetInput("Category name")
	case key.Matches(msg, m.keys.remove):
		cmd := m.dispatch.LoadEmptyCategories(b)
		m.syncLists()
		return m, cmd
	case key.Matches(msg, m.keys.help):
		b.OpenPrompt(PromptHelp)
	}
	return m, nil
}

func (m *Model) handleUploadKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	folders := m.board.Folders()
	switch {
	case key.Matches(msg, m.keys.back):
		m.board.ClosePrompt()
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.nextField):
		if len(folders) > 0 {
			m.uploadFolder = (m.uploadFolder + 1) % len(folders)
		}
		return m, nil
	case key.Matches(msg, m.keys.prevField):
		if len(folders) > 0 {
			m.uploadFolder = (m.uploadFolder - 1 + len(folders)) % len(folders)
		}
		return m, nil
	case msg.Type == tea.KeyEnter:
		return m, m.dispatch.Upload(m.board, m.input.Value(), m.selectedUploadFolder())
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleMoveKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.board.CancelMove()
		return m, nil
	case msg.Type == tea.KeyEnter:
		if item, ok := m.folderList.SelectedItem().(folderItem); ok {
			m.board.SetMoveTarget(item.name)
		}
		return m, m.dispatch.Move(m.board)
	}

	var cmd tea.Cmd
	m.folderList, cmd = m.folderList.Update(msg)
	return m, cmd
}

func (m *Model) handleCreateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.board.ClosePrompt()
		m.input.Blur()
		return m, nil
	case msg.Type == tea.KeyEnter:
		return m, m.dispatch.CreateCategory(m.board, m.input.Value())
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleRemoveKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.quit):
		m.board.ClosePrompt()
		return m, nil
	case key.Matches(msg, m.keys.toggle):
		if item, ok := m.categoryList.SelectedItem().(categoryItem); ok {
			m.board.ToggleCategory(item.name)
			m.syncLists()
		}
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if m.board.CategoriesState() != CategoriesReady {
			return m, nil
		}
		return m, m.dispatch.RemoveCategories(m.board)
	}

	var cmd tea.Cmd
	m.categoryList, cmd = m.categoryList.Update(msg)
	return m, cmd
}

func (m *Model) resetInput(placeholder string) tea.Cmd {
	m.input.Reset()
	m.input.Placeholder = placeholder
	return m.input.Focus()
}

func (m *Model) selectedUploadFolder() string {
	folders := m.board.Folders()
	if len(folders) == 0 {
		return models.MainFolder
	}
	return folders[m.uploadFolder%len(folders)]
}

// syncLists rebuilds the picker items from the board, keeping each list's cursor in range.
func (m *Model) syncLists() {
	catalog := m.board.Catalog()
	folders := m.board.Folders()
	folderItems := make([]list.Item, len(folders))
	for i, name := range folders {
		folderItems[i] = folderItem{name: name, count: len(catalog[name])}
	}
	idx := m.folderList.Index()
	m.folderList.SetItems(folderItems)
	if pending, ok := m.board.Pending(); ok {
		for i, name := range folders {
			if name == pending.TargetFolder {
				idx = i
			}
		}
	}
	m.folderList.Select(min(idx, max(len(folderItems)-1, 0)))

	categories := m.board.Categories()
	categoryItems := make([]list.Item, len(categories))
	for i, name := range categories {
		categoryItems[i] = categoryItem{name: name, selected: m.board.IsCategorySelected(name)}
	}
	idx = m.categoryList.Index()
	m.categoryList.SetItems(categoryItems)
	m.categoryList.Select(min(idx, max(len(categoryItems)-1, 0)))

	if n := len(folders); n > 0 {
		m.uploadFolder %= n
	}
}

// View renders the UI based on the current prompt.
func (m *Model) View() string {
	var body string
	switch m.board.Prompt() {
	case PromptUpload:
		body = m.renderUpload()
	case PromptMove:
		body = m.renderMove()
	case PromptCreateCategory:
		body = m.renderCreate()
	case PromptRemoveCategories:
		body = m.renderRemove()
	case PromptHelp:
		body = m.help.FullHelpView(m.keys.FullHelp())
	default:
		body = m.renderCatalog()
	}

	sections := []string{m.renderHeader(), body, m.renderNotice()}
	if m.board.Prompt() == PromptNone {
		sections = append(sections, m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return strings.Join(sections, "\n\n")
}

func (m *Model) renderHeader() string {
	title := styles.title.Render("Soundboard")
	if m.board.Mode() == models.ModeOrganize {
		title += " " + styles.badge.Render("ORGANIZE")
	}

	pref := m.board.Preference()
	return fmt.Sprintf("%s\nRemote %s  Local %s", title, check(pref.Remote), check(pref.Local))
}

func check(on bool) string {
	if on {
		return styles.ok.Render("[x]")
	}
	return styles.help.Render("[ ]")
}

func (m *Model) renderCatalog() string {
	b := m.board
	switch b.State() {
	case CatalogLoading:
		return styles.help.Render("Loading sounds...")
	case CatalogEmpty:
		return styles.help.Render("No sounds yet\nUpload some audio files to get started.")
	case CatalogError:
		return styles.err.Render("Error loading sounds") + "\n" +
			styles.help.Render("Failed to load sound files. Press R to retry.")
	}

	var lines []string
	cursorLine, i := 0, 0
	catalog := b.Catalog()
	for _, folder := range catalog.Folders() {
		lines = append(lines, styles.folder.Render(folder))
		for _, entry := range catalog[folder] {
			label := entry.DisplayName
			if b.IsAcknowledged(entry.FullPath) {
				label = styles.ack.Render(label)
			}
			if i == b.Cursor() {
				cursorLine = len(lines)
				label = styles.cursor.Render("> ") + label
			} else {
				label = "  " + label
			}
			lines = append(lines, label)
			i++
		}
	}
	return strings.Join(window(lines, cursorLine, m.height-10), "\n")
}

// window returns at most size lines around focus. A non-positive size returns every line.
func window(lines []string, focus, size int) []string {
	if size <= 0 || len(lines) <= size {
		return lines
	}
	start := min(max(focus-size/2, 0), len(lines)-size)
	return lines[start : start+size]
}

func (m *Model) renderUpload() string {
	folder := m.selectedUploadFolder()
	return fmt.Sprintf(
		"%s\nFile:\n%s\n\nFolder: < %s >\n\n%s",
		styles.title.Render("Upload a sound"),
		m.input.View(),
		styles.ok.Render(folder),
		m.help.ShortHelpView([]key.Binding{m.keys.nextField, submitKey("upload"), m.keys.back}),
	)
}

func (m *Model) renderMove() string {
	pending, _ := m.board.Pending()
	return fmt.Sprintf(
		"%s\n\n%s\n\n%s",
		styles.title.Render(fmt.Sprintf("Move \"%s\" to a different folder:", pending.DisplayName)),
		m.folderList.View(),
		m.help.ShortHelpView([]key.Binding{m.keys.up, m.keys.down, submitKey("move"), m.keys.back}),
	)
}

func (m *Model) renderCreate() string {
	return fmt.Sprintf(
		"%s\n%s\n\n%s",
		styles.title.Render("Create category"),
		m.input.View(),
		m.help.ShortHelpView([]key.Binding{submitKey("create"), m.keys.back}),
	)
}

func (m *Model) renderRemove() string {
	title := styles.title.Render("Remove empty categories")
	switch m.board.CategoriesState() {
	case CategoriesLoading:
		return title + "\n" + styles.help.Render("Loading...")
	case CategoriesNone:
		return title + "\n" + styles.help.Render("No empty categories found") + "\n\n" +
			m.help.ShortHelpView([]key.Binding{m.keys.back})
	case CategoriesError:
		return title + "\n" + styles.err.Render("Error loading empty categories") + "\n\n" +
			m.help.ShortHelpView([]key.Binding{m.keys.back})
	}

	n := len(m.board.SelectedCategories())
	return fmt.Sprintf(
		"%s\n%s\n\n%s",
		title,
		m.categoryList.View(),
		m.help.ShortHelpView([]key.Binding{m.keys.toggle, submitKey(fmt.Sprintf("Remove Selected (%d)", n)), m.keys.back}),
	)
}

func (m *Model) renderNotice() string {
	notice, ok := m.board.Notice()
	if !ok {
		return ""
	}
	return styles.notice(notice.Kind).Render(notice.Text)
}

func submitKey(label string) key.Binding {
	return key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", label))
}
