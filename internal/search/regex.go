package search

import (
	"regexp"
	"sync"

	"github.com/cristianoliveira/tmux-quicktask/internal/domain"
)

// RegexProvider matches the query as a regular expression. Invalid patterns
// match nothing.
type RegexProvider struct {
	opts Options

	mu    sync.Mutex
	cache map[string]*regexp.Regexp
}

// NewRegexProvider creates a new regex search provider.
func NewRegexProvider(opts ...Option) Provider {
	return &RegexProvider{
		opts:  applyOptions(opts),
		cache: make(map[string]*regexp.Regexp),
	}
}

// Compile validates a pattern with the provider's case rules.
func (p *RegexProvider) Compile(query string) (*regexp.Regexp, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if re, ok := p.cache[query]; ok {
		return re, nil
	}
	pattern := query
	if p.opts.CaseInsensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	p.cache[query] = re
	return re, nil
}

// Match implements Provider.
func (p *RegexProvider) Match(task domain.Task, query string) bool {
	if query == "" {
		return true
	}
	re, err := p.Compile(query)
	if err != nil {
		return false
	}
	for _, v := range fieldValues(task, p.opts.Fields) {
		if re.MatchString(v) {
			return true
		}
	}
	return false
}

// Name implements Provider.
func (p *RegexProvider) Name() string {
	return "regex"
}
