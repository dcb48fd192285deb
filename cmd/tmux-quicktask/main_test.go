package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

// execute runs c standalone with args and returns what it wrote.
func execute(t *testing.T, c *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&out)
	c.SetArgs(args)
	c.SilenceUsage = true
	c.SilenceErrors = true
	err := c.Execute()
	return out.String(), err
}

func TestConstructorsPanicOnNilClient(t *testing.T) {
	constructors := map[string]func(){
		"add":             func() { NewAddCmd(nil) },
		"list":            func() { NewListCmd(nil) },
		"done":            func() { NewDoneCmd(nil) },
		"edit":            func() { NewEditCmd(nil) },
		"rm":              func() { NewRmCmd(nil) },
		"clear-completed": func() { NewClearCompletedCmd(nil) },
		"toggle":          func() { NewToggleCmd(nil) },
		"show":            func() { NewShowCmd(nil) },
		"hide":            func() { NewHideCmd(nil) },
		"dismiss":         func() { NewDismissCmd(nil) },
		"daemon":          func() { NewDaemonCmd(nil) },
		"settings":        func() { NewSettingsCmd(nil) },
		"status":          func() { NewStatusCmd(nil) },
		"version":         func() { NewVersionCmd(nil) },
		"panel":           func() { NewPanelCmd(nil, nil) },
		"settings-ui":     func() { NewSettingsUICmd(nil, nil) },
	}
	for name, construct := range constructors {
		t.Run(name, func(t *testing.T) {
			assert.PanicsWithValue(t, panicMessage(name), construct)
		})
	}
}

func panicMessage(name string) string {
	ctor := map[string]string{
		"add":             "NewAddCmd",
		"list":            "NewListCmd",
		"done":            "NewDoneCmd",
		"edit":            "NewEditCmd",
		"rm":              "NewRmCmd",
		"clear-completed": "NewClearCompletedCmd",
		"toggle":          "NewToggleCmd",
		"show":            "NewShowCmd",
		"hide":            "NewHideCmd",
		"dismiss":         "NewDismissCmd",
		"daemon":          "NewDaemonCmd",
		"settings":        "NewSettingsCmd",
		"status":          "NewStatusCmd",
		"version":         "NewVersionCmd",
		"panel":           "NewPanelCmd",
		"settings-ui":     "NewSettingsUICmd",
	}[name]
	return ctor + ": client dependency cannot be nil"
}
