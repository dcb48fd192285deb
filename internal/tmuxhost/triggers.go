package tmuxhost

import "strings"

// Triggers installs the global hotkey and the status line mouse bindings.
// Whatever those keys were bound to before is restored by Uninstall.
type Triggers struct {
	h           *Host
	hotkey      string
	statusClick bool
	saved       *savedBindings
}

// Triggers returns the trigger installer.
func (h *Host) Triggers(hotkey string, statusClick bool) *Triggers {
	return &Triggers{h: h, hotkey: hotkey, statusClick: statusClick}
}

func (t *Triggers) keys() []string {
	var keys []string
	if t.hotkey != "" {
		keys = append(keys, t.hotkey)
	}
	if t.statusClick {
		keys = append(keys, "MouseDown1Status", "MouseDown3Status")
	}
	return keys
}

// Install binds the keys.
func (t *Triggers) Install() error {
	saved, err := t.h.saveBindings("root", t.keys()...)
	if err != nil {
		return err
	}
	t.saved = saved

	toggle := t.h.Command("toggle")
	if t.hotkey != "" {
		if err := t.h.client.BindKey("root", t.hotkey, "run-shell", "-b", toggle); err != nil {
			return err
		}
	}
	if !t.statusClick {
		return nil
	}

	onIndicator := "#{==:#{mouse_status_range}," + StatusRange + "}"
	if err := t.h.client.BindKey("root", "MouseDown1Status",
		"if-shell", "-F", onIndicator,
		"run-shell -b "+tmuxQuote(toggle),
		"switch-client -t ="); err != nil {
		return err
	}
	return t.h.client.BindKey("root", "MouseDown3Status",
		"if-shell", "-F", onIndicator, t.menu())
}

// menu is the context menu of the indicator.
func (t *Triggers) menu() string {
	item := func(label, key string, args ...string) string {
		return tmuxQuote(label) + " " + key + " " + tmuxQuote("run-shell -b "+tmuxQuote(t.h.Command(args...)))
	}
	return strings.Join([]string{
		"display-menu -t = -x M -y S -T quicktask",
		item("Settings...", "s", "settings", "open"),
		item("Quit", "q", "daemon", "stop"),
	}, " ")
}

// Uninstall removes our bindings and restores the saved ones.
func (t *Triggers) Uninstall() error {
	saved := t.saved
	t.saved = nil
	return t.h.restoreBindings(saved)
}

// tmuxQuote quotes s for the tmux command parser. Inside double quotes
// tmux expands $ and interprets backslashes, so both are escaped.
func tmuxQuote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`)
	return `"` + r.Replace(s) + `"`
}
