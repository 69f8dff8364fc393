package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF4757", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title  lipgloss.Style
	folder lipgloss.Style
	cursor lipgloss.Style
	ack    lipgloss.Style
	badge  lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	help   lipgloss.Style
}

// NewPalette builds the stylesheet from the primary, success, error, warning and muted colors.
func NewPalette(p, s, e, w, m string) *Palette {
	return &Palette{
		title:  NewBold(p).MarginBottom(1),
		folder: NewBold(p).Underline(true),
		cursor: NewBold(w),
		ack:    NewBold("#1A1A2E").Background(lipgloss.Color(s)).Padding(0, 1),
		badge:  NewBold("#FFFFFF").Background(lipgloss.Color(e)).Padding(0, 1),
		ok:     NewBold(s),
		err:    NewBold(e),
		warn:   NewStyle(w),
		help:   NewEm(m),
	}
}

// notice picks the style for a [NoticeKind].
func (p *Palette) notice(kind NoticeKind) lipgloss.Style {
	switch kind {
	case NoticeSuccess:
		return p.ok
	case NoticeWarning:
		return p.warn
	case NoticeError:
		return p.err
	default:
		return p.help
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
