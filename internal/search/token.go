package search

import (
	"strings"

	"github.com/cristianoliveira/tmux-quicktask/internal/domain"
)

// TokenProvider splits the query on whitespace; every text token must match
// some field (AND logic). The tokens "done" and "open" filter by completion
// instead. Giving both cancels them out.
type TokenProvider struct {
	opts Options
}

// NewTokenProvider creates a new token search provider.
func NewTokenProvider(opts ...Option) Provider {
	return &TokenProvider{opts: applyOptions(opts)}
}

// Match implements Provider.
func (p *TokenProvider) Match(task domain.Task, query string) bool {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return true
	}

	doneOnly, openOnly := false, false
	var text []string
	for _, tok := range tokens {
		switch strings.ToLower(tok) {
		case "done":
			doneOnly = true
		case "open":
			openOnly = true
		default:
			if p.opts.CaseInsensitive {
				tok = strings.ToLower(tok)
			}
			text = append(text, tok)
		}
	}

	if doneOnly != openOnly {
		if doneOnly && !task.Completed {
			return false
		}
		if openOnly && task.Completed {
			return false
		}
	}

	values := fieldValues(task, p.opts.Fields)
	if p.opts.CaseInsensitive {
		for i := range values {
			values[i] = strings.ToLower(values[i])
		}
	}
	for _, tok := range text {
		found := false
		for _, v := range values {
			if strings.Contains(v, tok) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Name implements Provider.
func (p *TokenProvider) Name() string {
	return "token"
}
