package search

import (
	"github.com/cristianoliveira/tmux-quicktask/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockProvider is a mock implementation of Provider for testing.
type MockProvider struct {
	mock.Mock
}

// Match provides a mock function with given fields: task, query.
func (_m *MockProvider) Match(task domain.Task, query string) bool {
	_va := make([]interface{}, 2)
	_va[0] = task
	_va[1] = query
	ret := _m.Called(_va...)

	var r0 bool
	if rf, ok := ret.Get(0).(func(domain.Task, string) bool); ok {
		r0 = rf(task, query)
	} else {
		r0 = ret.Get(0).(bool)
	}

	return r0
}

// Name provides a mock function with given fields: .
func (_m *MockProvider) Name() string {
	_va := make([]interface{}, 0)
	ret := _m.Called(_va...)

	var r0 string
	if rf, ok := ret.Get(0).(func() string); ok {
		r0 = rf()
	} else {
		r0 = ret.Get(0).(string)
	}

	return r0
}
