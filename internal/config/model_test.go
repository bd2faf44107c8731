package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTask_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		task    Task
		wantErr string
	}{
		{name: "aggregator", task: Task{Name: "createJars", DependsOn: []string{"createWorkerJar"}}},
		{name: "single action", task: Task{Name: "composeUp", Stack: &Stack{File: "docker-compose.yml"}}},
		{name: "missing name", task: Task{}, wantErr: "task name is required"},
		{name: "two actions", task: Task{Name: "x", Image: &Image{}, Stack: &Stack{}}, wantErr: "more than one action: image, stack"},
		{name: "empty exec", task: Task{Name: "test", Exec: &Exec{}}, wantErr: "exec command must not be empty"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.task.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestTask_ActionKind(t *testing.T) {
	assert.Equal(t, "noop", (&Task{}).ActionKind())
	assert.Equal(t, "artifact", (&Task{Artifact: &Artifact{}}).ActionKind())
	assert.Equal(t, "exec", (&Task{Exec: &Exec{Command: []string{"gradle"}}}).ActionKind())
}

func TestModel_Task(t *testing.T) {
	m := &Model{Tasks: []*Task{{Name: "a"}, {Name: "b"}}}
	got, ok := m.Task("b")
	assert.True(t, ok)
	assert.Equal(t, "b", got.Name)
	_, ok = m.Task("c")
	assert.False(t, ok)
}
