package tmuxhost

import (
	"errors"

	"github.com/cristianoliveira/tmux-quicktask/internal/ports"
)

// User options read by the status line. Put #{E:@quicktask_status} in
// status-left or status-right to show the indicator.
const (
	BadgeOption  = "@quicktask_badge"
	StatusOption = "@quicktask_status"
)

// statusFormat draws a clickable check mark followed by the badge text.
const statusFormat = "#[range=user|" + StatusRange + "]✓#{?" + BadgeOption + ", #{" + BadgeOption + "},}#[norange]"

// Indicator is the status line slot.
type Indicator struct {
	h *Host
}

var _ ports.Indicator = (*Indicator)(nil)

// Indicator returns the Indicator adapter.
func (h *Host) Indicator() *Indicator { return &Indicator{h: h} }

// Install defines the status format option.
func (i *Indicator) Install() error {
	return i.h.client.SetGlobalOption(StatusOption, statusFormat)
}

// SetBadge stores text and redraws every status line.
func (i *Indicator) SetBadge(text string) error {
	if err := i.h.client.SetGlobalOption(BadgeOption, text); err != nil {
		return err
	}
	return i.h.client.RefreshStatus("")
}

// Uninstall removes both options.
func (i *Indicator) Uninstall() error {
	return errors.Join(
		i.h.client.UnsetGlobalOption(BadgeOption),
		i.h.client.UnsetGlobalOption(StatusOption),
		i.h.client.RefreshStatus(""),
	)
}
