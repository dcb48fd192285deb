package search

import (
	"strings"

	"github.com/cristianoliveira/tmux-quicktask/internal/domain"
)

// SubstringProvider matches when the query occurs in any configured field.
type SubstringProvider struct {
	opts Options
}

// NewSubstringProvider creates a new substring search provider.
func NewSubstringProvider(opts ...Option) Provider {
	return &SubstringProvider{opts: applyOptions(opts)}
}

// Match implements Provider.
func (p *SubstringProvider) Match(task domain.Task, query string) bool {
	if query == "" {
		return true
	}
	if p.opts.CaseInsensitive {
		query = strings.ToLower(query)
	}
	for _, v := range fieldValues(task, p.opts.Fields) {
		if p.opts.CaseInsensitive {
			v = strings.ToLower(v)
		}
		if strings.Contains(v, query) {
			return true
		}
	}
	return false
}

// Name implements Provider.
func (p *SubstringProvider) Name() string {
	return "substring"
}
