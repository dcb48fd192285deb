package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianoliveira/tmux-quicktask/internal/domain"
)

var sample = []domain.Task{
	{ID: "aaaa1111-0000-0000-0000-000000000000", Title: "Buy milk"},
	{ID: "bbbb2222-0000-0000-0000-000000000000", Title: "Write report", Completed: true},
	{ID: "cccc3333-0000-0000-0000-000000000000", Title: "review PR"},
}

func titles(tasks []domain.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

func TestSubstringProvider(t *testing.T) {
	p := NewSubstringProvider()
	assert.Equal(t, "substring", p.Name())
	assert.True(t, p.Match(sample[0], ""))
	assert.True(t, p.Match(sample[0], "MILK"))
	assert.True(t, p.Match(sample[0], "aaaa11"))
	assert.False(t, p.Match(sample[0], "report"))

	sensitive := NewSubstringProvider(WithCaseInsensitive(false))
	assert.False(t, sensitive.Match(sample[0], "MILK"))
	assert.True(t, sensitive.Match(sample[0], "milk"))

	titleOnly := NewSubstringProvider(WithFields([]string{FieldTitle}))
	assert.False(t, titleOnly.Match(sample[0], "aaaa11"))
}

func TestRegexProvider(t *testing.T) {
	p := NewRegexProvider()
	assert.Equal(t, "regex", p.Name())
	assert.True(t, p.Match(sample[2], "^review"))
	assert.True(t, p.Match(sample[2], "^REVIEW"))
	assert.False(t, p.Match(sample[0], "^review"))
	assert.False(t, p.Match(sample[0], "("), "invalid pattern matches nothing")

	rp := p.(*RegexProvider)
	_, err := rp.Compile("(")
	require.Error(t, err)
	re1, err := rp.Compile("r.p")
	require.NoError(t, err)
	re2, err := rp.Compile("r.p")
	require.NoError(t, err)
	assert.Same(t, re1, re2)
}

func TestTokenProvider(t *testing.T) {
	p := NewTokenProvider()
	assert.Equal(t, "token", p.Name())

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty", "   ", []string{"Buy milk", "Write report", "review PR"}},
		{"all tokens must match", "write report", []string{"Write report"}},
		{"missing token", "write milk", []string{}},
		{"done filter", "done", []string{"Write report"}},
		{"open filter", "open r", []string{"review PR"}},
		{"done and open cancel", "done open", []string{"Buy milk", "Write report", "review PR"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, titles(Filter(sample, p, tt.query)))
		})
	}
}

func TestFilter(t *testing.T) {
	assert.Equal(t, sample, Filter(sample, nil, "milk"))
	assert.Equal(t, sample, Filter(sample, NewSubstringProvider(), ""))
	assert.Equal(t, []string{"Write report", "review PR"}, titles(Filter(sample, NewSubstringProvider(), "r")))
}

func TestMockProvider(t *testing.T) {
	m := &MockProvider{}
	m.On("Match", sample[0], "x").Return(true)
	m.On("Match", sample[1], "x").Return(false)
	m.On("Match", sample[2], "x").Return(func(task domain.Task, q string) bool { return true })

	assert.Equal(t, []string{"Buy milk", "review PR"}, titles(Filter(sample, m, "x")))
	m.AssertNumberOfCalls(t, "Match", 3)
	m.AssertExpectations(t)
}
