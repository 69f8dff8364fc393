package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/sbx/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgCatalogFetched MsgKind = iota
	MsgFoldersFetched
	MsgPlayed
	MsgStopped
	MsgUploaded
	MsgMoved
	MsgCategoryCreated
	MsgEmptyCategoriesFetched
	MsgCategoriesRemoved
	MsgNoticeExpired
	MsgAckExpired
)

// Kind reports which constructor built the message.
func (m Msg) Kind() MsgKind { return m.kind }

type catalogFetched struct {
	seq     int
	catalog models.Catalog
	err     error
}

type foldersFetched struct {
	folders []string
	err     error
}

type played struct {
	entry  models.SoundEntry
	status string
	err    error
}

type stopped struct {
	all    bool
	status string
	err    error
}

type uploaded struct {
	filename string
	err      error
}

type moved struct {
	move models.PendingMove
	err  error
}

type categoryCreated struct {
	name   string
	status string
	err    error
}

type emptyCategoriesFetched struct {
	names []string
	err   error
}

type categoriesRemoved struct {
	result *models.RemoveResult
	err    error
}

type ackExpired struct {
	path string
	seq  int
}

// catalogFetchedMsg is the constructor for [MsgCatalogFetched]
func catalogFetchedMsg(seq int, catalog models.Catalog, err error) Msg {
	return Msg{kind: MsgCatalogFetched, data: catalogFetched{seq, catalog, err}}
}

// foldersFetchedMsg is the constructor for [MsgFoldersFetched]
func foldersFetchedMsg(folders []string, err error) Msg {
	return Msg{kind: MsgFoldersFetched, data: foldersFetched{folders, err}}
}

// playedMsg is the constructor for [MsgPlayed]
func playedMsg(entry models.SoundEntry, status string, err error) Msg {
	return Msg{kind: MsgPlayed, data: played{entry, status, err}}
}

// stoppedMsg is the constructor for [MsgStopped]
func stoppedMsg(all bool, status string, err error) Msg {
	return Msg{kind: MsgStopped, data: stopped{all, status, err}}
}

// uploadedMsg is the constructor for [MsgUploaded]
func uploadedMsg(filename string, err error) Msg {
	return Msg{kind: MsgUploaded, data: uploaded{filename, err}}
}

// movedMsg is the constructor for [MsgMoved]
func movedMsg(move models.PendingMove, err error) Msg {
	return Msg{kind: MsgMoved, data: moved{move, err}}
}

// categoryCreatedMsg is the constructor for [MsgCategoryCreated]
func categoryCreatedMsg(name, status string, err error) Msg {
	return Msg{kind: MsgCategoryCreated, data: categoryCreated{name, status, err}}
}

// emptyCategoriesFetchedMsg is the constructor for [MsgEmptyCategoriesFetched]
func emptyCategoriesFetchedMsg(names []string, err error) Msg {
	return Msg{kind: MsgEmptyCategoriesFetched, data: emptyCategoriesFetched{names, err}}
}

// categoriesRemovedMsg is the constructor for [MsgCategoriesRemoved]
func categoriesRemovedMsg(result *models.RemoveResult, err error) Msg {
	return Msg{kind: MsgCategoriesRemoved, data: categoriesRemoved{result, err}}
}

// noticeExpiredMsg is the constructor for [MsgNoticeExpired]
func noticeExpiredMsg(seq int) Msg {
	return Msg{kind: MsgNoticeExpired, data: seq}
}

// ackExpiredMsg is the constructor for [MsgAckExpired]
func ackExpiredMsg(path string, seq int) Msg {
	return Msg{kind: MsgAckExpired, data: ackExpired{path, seq}}
}
