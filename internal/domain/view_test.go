package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ids(tasks []Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestArrange(t *testing.T) {
	tasks := []Task{{ID: "a", Completed: true}, {ID: "b"}, {ID: "c", Completed: true}, {ID: "d"}}

	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(Arrange(tasks, DefaultViewOptions)))
	assert.Equal(t, []string{"b", "d"}, ids(Arrange(tasks, ViewOptions{})))
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids(Arrange(tasks, ViewOptions{ShowCompleted: true, CompletedLast: true})))
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(tasks), "input is not modified")
}

func TestMove(t *testing.T) {
	tasks := []Task{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	assert.Equal(t, []string{"b", "c", "a"}, ids(Move(tasks, 0, 2)))
	assert.Equal(t, []string{"c", "a", "b"}, ids(Move(tasks, 2, 0)))
	assert.Equal(t, []string{"a", "c", "b"}, ids(Move(tasks, 1, 9)))
	assert.Equal(t, []string{"b", "a", "c"}, ids(Move(tasks, 1, -3)))
	assert.Equal(t, []string{"a", "b", "c"}, ids(Move(tasks, 5, 0)))
	assert.Equal(t, []string{"a", "b", "c"}, ids(tasks))
}
