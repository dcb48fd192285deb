// Package domain provides the task entity and the rules that apply to it
// regardless of where it is stored.
package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrEmptyTitle is returned when a title is blank after trimming.
	ErrEmptyTitle = errors.New("task title cannot be empty")

	// ErrTaskNotFound is returned when no task has the given ID.
	ErrTaskNotFound = errors.New("task not found")

	// ErrInvalidTaskID is returned for IDs that are not UUIDs.
	ErrInvalidTaskID = errors.New("invalid task ID")
)

// ReferenceDate is the epoch of numeric createdAt values. Files written by
// the macOS app store seconds since this instant.
var ReferenceDate = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

// Task is a single to-do item. The JSON shape is the on-disk format of
// tasks.json.
type Task struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"isCompleted"`
	CreatedAt time.Time `json:"createdAt"`
}

// UnmarshalJSON accepts createdAt either as an RFC 3339 string, which is
// what Marshal writes, or as seconds since ReferenceDate.
func (t *Task) UnmarshalJSON(data []byte) error {
	type plain Task
	var raw struct {
		plain
		CreatedAt json.RawMessage `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = Task(raw.plain)
	created, err := parseCreatedAt(raw.CreatedAt)
	if err != nil {
		return fmt.Errorf("task %s: %w", t.ID, err)
	}
	t.CreatedAt = created
	return nil
}

func parseCreatedAt(raw json.RawMessage) (time.Time, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, nil
	}
	if raw[0] == '"' {
		var ts time.Time
		if err := json.Unmarshal(raw, &ts); err != nil {
			return time.Time{}, fmt.Errorf("createdAt: %w", err)
		}
		return ts, nil
	}
	var secs float64
	if err := json.Unmarshal(raw, &secs); err != nil {
		return time.Time{}, fmt.Errorf("createdAt: %w", err)
	}
	whole, frac := math.Modf(secs)
	return ReferenceDate.Add(time.Duration(whole) * time.Second).
		Add(time.Duration(math.Round(frac * float64(time.Second)))), nil
}

// NewTask creates an incomplete task with a fresh ID.
func NewTask(title string, now time.Time) (Task, error) {
	title, err := NormalizeTitle(title)
	if err != nil {
		return Task{}, err
	}
	return Task{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: now.UTC(),
	}, nil
}

// NormalizeTitle trims surrounding whitespace and rejects blank titles.
func NormalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrEmptyTitle
	}
	return title, nil
}

// ValidateID checks that id is a UUID.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidTaskID
	}
	return nil
}

// IncompleteCount counts tasks that are not completed.
func IncompleteCount(tasks []Task) int {
	n := 0
	for _, t := range tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

// IndexOf returns the position of id in tasks, or -1.
func IndexOf(tasks []Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// ShortID is the prefix shown in list output.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ResolveID finds the task whose ID equals ref or starts with ref. A
// prefix that matches more than one task is ambiguous and not found.
func ResolveID(tasks []Task, ref string) (string, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return "", ErrInvalidTaskID
	}
	match := ""
	for _, t := range tasks {
		id := strings.ToLower(t.ID)
		if id == ref {
			return t.ID, nil
		}
		if strings.HasPrefix(id, ref) {
			if match != "" {
				return "", ErrTaskNotFound
			}
			match = t.ID
		}
	}
	if match == "" {
		return "", ErrTaskNotFound
	}
	return match, nil
}
