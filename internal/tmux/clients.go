package tmux

import (
	"fmt"
	"strconv"
	"strings"
)

// Client is one attached tmux client and what it is looking at.
type Client struct {
	Name        string
	Activity    int64
	Width       int
	Height      int
	SessionName string
	SessionID   string
	WindowID    string
	PaneID      string
}

// clientFormat is tab separated so session names with spaces survive.
const clientFormat = "#{client_name}\t#{client_activity}\t#{client_width}\t#{client_height}\t#{session_name}\t#{session_id}\t#{window_id}\t#{pane_id}"

// ListClients returns every attached client.
func (c *DefaultClient) ListClients() ([]Client, error) {
	stdout, _, err := c.Run("list-clients", "-F", clientFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return parseClients(stdout), nil
}

// parseClients skips malformed lines rather than failing the whole listing.
func parseClients(out string) []Client {
	var clients []Client
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		parts := strings.Split(line, "\t")
		if len(parts) != 8 || parts[0] == "" {
			continue
		}
		activity, _ := strconv.ParseInt(parts[1], 10, 64)
		width, errW := strconv.Atoi(parts[2])
		height, errH := strconv.Atoi(parts[3])
		if errW != nil || errH != nil {
			continue
		}
		clients = append(clients, Client{
			Name:        parts[0],
			Activity:    activity,
			Width:       width,
			Height:      height,
			SessionName: parts[4],
			SessionID:   parts[5],
			WindowID:    parts[6],
			PaneID:      parts[7],
		})
	}
	return clients
}
