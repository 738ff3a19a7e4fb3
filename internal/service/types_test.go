package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionWireFormat(t *testing.T) {
	id := "1"
	withTask := Session{ID: "s1", TaskID: &id, TaskTitle: "Write report", DurationMinutes: 25, CompletedAt: "2026-10-19T09:00:00.000Z"}
	data, err := json.Marshal(withTask)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"s1","taskId":"1","taskTitle":"Write report","durationMinutes":25,"completedAt":"2026-10-19T09:00:00.000Z"}`, string(data))

	noTask := Session{ID: "s2", DurationMinutes: 25, CompletedAt: "2026-10-19T09:00:00.000Z"}
	data, err = json.Marshal(noTask)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"s2","taskId":null,"durationMinutes":25,"completedAt":"2026-10-19T09:00:00.000Z"}`, string(data))
	assert.Equal(t, "", noTask.TaskRef())
	assert.Equal(t, "1", withTask.TaskRef())
}

func TestTaskDecodesSimpleVariant(t *testing.T) {
	var tasks []Task
	require.NoError(t, json.Unmarshal([]byte(`[{"id":"1700000000000","title":"Read","done":true}]`), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, Task{ID: "1700000000000", Title: "Read", Done: true}, tasks[0])
}

func TestParseTheme(t *testing.T) {
	th, ok := ParseTheme(" Dark ")
	assert.True(t, ok)
	assert.Equal(t, ThemeDark, th)

	_, ok = ParseTheme("solarized")
	assert.False(t, ok)

	assert.Equal(t, ThemeLight, ThemeDark.Toggle())
	assert.Equal(t, ThemeDark, ThemeLight.Toggle())
}
