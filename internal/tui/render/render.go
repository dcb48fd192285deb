// Package render draws the rows and chrome shared by the panel and
// settings views.
package render

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/cristianoliveira/tmux-quicktask/internal/domain"
	"github.com/cristianoliveira/tmux-quicktask/internal/errors"
)

const (
	checkOpen     = "[ ]"
	checkDone     = "[x]"
	cursorMark    = "›"
	ellipsis      = "…"
	ageWidth      = 14
	minTitleWidth = 8
	defaultWidth  = 60
)

var (
	accent = lipgloss.Color("4")
	muted  = lipgloss.Color("241")

	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	countStyle    = lipgloss.NewStyle().Foreground(muted)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	doneStyle     = lipgloss.NewStyle().Foreground(muted).Strikethrough(true)
	ageStyle      = lipgloss.NewStyle().Foreground(muted)
	emptyStyle    = lipgloss.NewStyle().Foreground(muted).Italic(true)

	messageStyles = map[errors.MessageType]lipgloss.Style{
		errors.MessageTypeError:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		errors.MessageTypeWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		errors.MessageTypeInfo:    lipgloss.NewStyle().Foreground(accent),
		errors.MessageTypeSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	}
)

// RowState defines the inputs needed to render a task row.
type RowState struct {
	Task     domain.Task
	Width    int
	Selected bool
	Now      time.Time
}

// Header renders the title line with the open count right aligned.
func Header(title string, open, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	count := fmt.Sprintf("%d open", open)
	gap := width - utf8.RuneCountInString(title) - len(count)
	if gap < 1 {
		gap = 1
	}
	return headerStyle.Render(title) + strings.Repeat(" ", gap) + countStyle.Render(count)
}

// Row renders one task: cursor, checkbox, title and age.
func Row(s RowState) string {
	width := s.Width
	if width <= 0 {
		width = defaultWidth
	}
	cursor := " "
	if s.Selected {
		cursor = cursorMark
	}
	check := checkOpen
	if s.Task.Completed {
		check = checkDone
	}
	age := Age(s.Task.CreatedAt, s.Now)

	titleWidth := width - utf8.RuneCountInString(cursor) - len(check) - ageWidth - 3
	if titleWidth < minTitleWidth {
		titleWidth = minTitleWidth
	}
	title := Truncate(s.Task.Title, titleWidth)
	pad := strings.Repeat(" ", titleWidth-utf8.RuneCountInString(title))

	var styled string
	switch {
	case s.Task.Completed:
		styled = doneStyle.Render(title)
	case s.Selected:
		styled = selectedStyle.Render(title)
	default:
		styled = title
	}
	return fmt.Sprintf("%s %s %s%s %s", cursor, check, styled, pad, ageStyle.Render(fmt.Sprintf("%*s", ageWidth, age)))
}

// Age renders a creation time relative to now, "" for the zero time.
func Age(created, now time.Time) string {
	if created.IsZero() {
		return ""
	}
	if now.IsZero() {
		now = time.Now()
	}
	if now.Sub(created) < time.Minute {
		return "just now"
	}
	return humanize.RelTime(created, now, "ago", "from now")
}

// Empty renders the placeholder shown when no task is listed.
func Empty(hiddenCompleted int) string {
	if hiddenCompleted > 0 {
		return emptyStyle.Render(fmt.Sprintf("Nothing open. %d completed hidden.", hiddenCompleted))
	}
	return emptyStyle.Render("Nothing to do.")
}

// Message renders a status line message styled by its type.
func Message(m errors.Message) string {
	style, ok := messageStyles[m.Type]
	if !ok {
		style = messageStyles[errors.MessageTypeInfo]
	}
	return style.Render(m.Text)
}

// Muted renders secondary text.
func Muted(s string) string {
	return countStyle.Render(s)
}

// Truncate shortens s to width runes, marking the cut with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	if width == 1 {
		return ellipsis
	}
	runes := []rune(s)
	return string(runes[:width-1]) + ellipsis
}
