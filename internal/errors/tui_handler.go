package errors

import (
	"sync"
	"time"
)

// MessageType classifies a TUI message.
type MessageType int

const (
	MessageTypeError MessageType = iota
	MessageTypeWarning
	MessageTypeInfo
	MessageTypeSuccess
)

// Message is one entry shown in a TUI status line.
type Message struct {
	Text      string
	Type      MessageType
	Timestamp time.Time
}

// TUIHandler keeps messages for a TUI to render instead of printing them,
// which would corrupt the alt screen.
type TUIHandler struct {
	mu       sync.RWMutex
	messages []Message
	now      func() time.Time
	onAdd    func(Message)
}

// NewTUIHandler creates a TUIHandler. onAdd, if set, is called for every
// message, typically to wake the bubbletea program.
func NewTUIHandler(onAdd func(Message)) *TUIHandler {
	return &TUIHandler{now: time.Now, onAdd: onAdd}
}

func (h *TUIHandler) Error(msg string)   { h.add(msg, MessageTypeError) }
func (h *TUIHandler) Warning(msg string) { h.add(msg, MessageTypeWarning) }
func (h *TUIHandler) Info(msg string)    { h.add(msg, MessageTypeInfo) }
func (h *TUIHandler) Success(msg string) { h.add(msg, MessageTypeSuccess) }

func (h *TUIHandler) add(text string, typ MessageType) {
	h.mu.Lock()
	m := Message{Text: text, Type: typ, Timestamp: h.now()}
	h.messages = append(h.messages, m)
	cb := h.onAdd
	h.mu.Unlock()
	if cb != nil {
		cb(m)
	}
}

// Latest returns the newest message if it is younger than ttl. A zero ttl
// never expires.
func (h *TUIHandler) Latest(ttl time.Duration) (Message, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.messages) == 0 {
		return Message{}, false
	}
	m := h.messages[len(h.messages)-1]
	if ttl > 0 && h.now().Sub(m.Timestamp) > ttl {
		return Message{}, false
	}
	return m, true
}

// All returns a copy of every stored message.
func (h *TUIHandler) All() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Clear drops every stored message.
func (h *TUIHandler) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = nil
}
