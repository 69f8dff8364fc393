package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
)

var (
	_ list.Item = folderItem{}
	_ list.Item = categoryItem{}
)

// folderItem is a destination folder in the move prompt.
type folderItem struct {
	name  string
	count int
}

func (i folderItem) FilterValue() string { return i.name }
func (i folderItem) Title() string       { return i.name }
func (i folderItem) Description() string {
	if i.count == 1 {
		return "1 sound"
	}
	return fmt.Sprintf("%d sounds", i.count)
}

// categoryItem is an empty category in the removal prompt.
type categoryItem struct {
	name     string
	selected bool
}

func (i categoryItem) FilterValue() string { return i.name }
func (i categoryItem) Title() string {
	if i.selected {
		return "[x] " + i.name
	}
	return "[ ] " + i.name
}
func (i categoryItem) Description() string { return "empty" }
