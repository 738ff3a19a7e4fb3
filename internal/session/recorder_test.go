package session_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomo/internal/service"
	"pomo/internal/session"
	"pomo/internal/store"
	"pomo/internal/testutil"
)

func newRecorder(fs *testutil.FakeStore, clock clockwork.Clock) *session.Recorder {
	n := 0
	return session.NewRecorder(fs,
		session.WithClock(clock),
		session.WithIDFunc(func() string {
			n++
			return fmt.Sprintf("s%d", n)
		}))
}

func TestRecord_SnapshotsTitle(t *testing.T) {
	ctx := context.Background()
	fs := testutil.NewFakeStore()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 10, 19, 9, 30, 0, 123_000_000, time.UTC))
	rec := newRecorder(fs, clock)

	snapshot := []service.Task{{ID: "1", Title: "Write report", TargetPomodoros: 4}}
	sess, err := rec.Record(ctx, "1", snapshot, 25)
	require.NoError(t, err)

	require.NotNil(t, sess.TaskID)
	assert.Equal(t, "1", *sess.TaskID)
	assert.Equal(t, "Write report", sess.TaskTitle)
	assert.Equal(t, 25, sess.DurationMinutes)
	assert.Equal(t, "2026-10-19T09:30:00.123Z", sess.CompletedAt)

	assert.JSONEq(t,
		`[{"id":"s1","taskId":"1","taskTitle":"Write report","durationMinutes":25,"completedAt":"2026-10-19T09:30:00.123Z"}]`,
		fs.Raw(store.KeySessions))
}

func TestRecord_NewestFirst(t *testing.T) {
	ctx := context.Background()
	fs := testutil.NewFakeStore()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC))
	rec := newRecorder(fs, clock)

	_, err := rec.Record(ctx, "", nil, 25)
	require.NoError(t, err)
	clock.Advance(30 * time.Minute)
	_, err = rec.Record(ctx, "", nil, 25)
	require.NoError(t, err)

	all := rec.All(ctx)
	require.Len(t, all, 2)
	assert.Equal(t, "s2", all[0].ID)
	assert.Equal(t, "s1", all[1].ID)
	assert.Nil(t, all[0].TaskID)
	assert.Empty(t, all[0].TaskTitle)
	assert.Equal(t, 2, fs.Writes(store.KeySessions), "one write per completion")
}

func TestRecord_UnknownTaskKeepsReference(t *testing.T) {
	ctx := context.Background()
	rec := newRecorder(testutil.NewFakeStore(), clockwork.NewFakeClock())

	sess, err := rec.Record(ctx, "gone", []service.Task{{ID: "1", Title: "x"}}, 25)
	require.NoError(t, err)
	require.NotNil(t, sess.TaskID)
	assert.Equal(t, "gone", *sess.TaskID)
	assert.Empty(t, sess.TaskTitle)
}

func TestRecord_MalformedExistingIsReplaced(t *testing.T) {
	ctx := context.Background()
	fs := testutil.NewFakeStore()
	fs.Seed(store.KeySessions, `{not json`)
	rec := newRecorder(fs, clockwork.NewFakeClock())

	_, err := rec.Record(ctx, "", nil, 25)
	require.NoError(t, err)
	assert.Len(t, rec.All(ctx), 1)
}

func TestRecord_WriteError(t *testing.T) {
	ctx := context.Background()
	fs := testutil.NewFakeStore()
	fs.SetErr[store.KeySessions] = errors.New("quota exceeded")
	rec := newRecorder(fs, clockwork.NewFakeClock())

	_, err := rec.Record(ctx, "", nil, 25)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestRecord_TitleSurvivesTaskDeletion(t *testing.T) {
	ctx := context.Background()
	fs := testutil.NewFakeStore()
	rec := newRecorder(fs, clockwork.NewFakeClock())

	snapshot := []service.Task{{ID: "1", Title: "Write report"}}
	_, err := rec.Record(ctx, "1", snapshot, 25)
	require.NoError(t, err)

	// Deleting the task rewrites only the tasks key.
	fs.SeedJSON(store.KeyTasks, []service.Task{})

	all := rec.All(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, "Write report", all[0].TaskTitle)
}
