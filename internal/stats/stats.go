// Package stats derives focus statistics from the session collection.
// It only reads sessions; Clear is the single destructive operation.
package stats

import (
	"time"

	"pomo/internal/service"
)

// Labels used for MostFocused.
const (
	LabelNoSessions  = "No sessions today"
	LabelUnassigned  = "Unassigned (no task selected)"
	LabelUnknownTask = "Deleted/Unknown task"
)

const (
	// HeatmapDays is the number of calendar days covered by the heatmap.
	HeatmapDays = 30

	// DefaultDailyGoal is the daily session target.
	DefaultDailyGoal = 8

	// NominalSessionMinutes is counted for records without a usable duration.
	NominalSessionMinutes = 25

	dateLayout = "2006-01-02"
)

// Options tunes the aggregation.
type Options struct {
	DailyGoal int
	// Location is used for the peak hour. Defaults to time.Local.
	Location *time.Location
}

func (o Options) withDefaults() Options {
	if o.DailyGoal <= 0 {
		o.DailyGoal = DefaultDailyGoal
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	return o
}

// Compute derives Stats from sessions (newest first) and the current tasks.
// Calendar dates are the completedAt date prefix, which is UTC.
func Compute(sessions []service.Session, tasks []service.Task, now time.Time, opts Options) service.Stats {
	opts = opts.withDefaults()
	today := now.UTC().Format(dateLayout)

	st := Empty(now, opts)

	perDay := make(map[string]int)
	hourCounts := make(map[int]int)
	var hourOrder []int

	// Per-task counts for today, in first-encountered order.
	taskCounts := make(map[string]int)
	var taskOrder []string
	// Latest title snapshot per task id; sessions are newest first.
	snapshotTitles := make(map[string]string)

	for _, s := range sessions {
		day := datePrefix(s.CompletedAt)
		if day != "" {
			perDay[day]++
		}

		if ts, err := time.Parse(time.RFC3339Nano, s.CompletedAt); err == nil {
			h := ts.In(opts.Location).Hour()
			if _, seen := hourCounts[h]; !seen {
				hourOrder = append(hourOrder, h)
			}
			hourCounts[h]++
		}

		id := s.TaskRef()
		if id != "" && s.TaskTitle != "" {
			if _, ok := snapshotTitles[id]; !ok {
				snapshotTitles[id] = s.TaskTitle
			}
		}

		if day != today {
			continue
		}
		st.TodayCount++
		if s.DurationMinutes > 0 {
			st.TodayMinutes += s.DurationMinutes
		} else {
			st.TodayMinutes += NominalSessionMinutes
		}
		if id == "" {
			continue
		}
		if _, seen := taskCounts[id]; !seen {
			taskOrder = append(taskOrder, id)
		}
		taskCounts[id]++
	}

	st.Streak = len(perDay)
	for i := range st.Heatmap {
		st.Heatmap[i].Count = perDay[st.Heatmap[i].Date]
	}

	best := 0
	for _, h := range hourOrder {
		if hourCounts[h] > best {
			best = hourCounts[h]
			st.PeakHour = h
		}
	}

	best = 0
	for _, id := range taskOrder {
		if taskCounts[id] > best {
			best = taskCounts[id]
			st.MostFocusedID = id
		}
	}

	switch {
	case st.TodayCount == 0:
		st.MostFocused = LabelNoSessions
	case st.MostFocusedID == "":
		st.MostFocused = LabelUnassigned
	default:
		st.MostFocused = resolveTitle(st.MostFocusedID, tasks, snapshotTitles)
	}

	st.GoalProgress = min(st.TodayCount, st.DailyGoal)
	return st
}

// Empty returns the stats of an empty session collection.
func Empty(now time.Time, opts Options) service.Stats {
	opts = opts.withDefaults()
	day := now.UTC()
	heatmap := make([]service.HeatmapDay, HeatmapDays)
	for i := range heatmap {
		heatmap[i].Date = day.AddDate(0, 0, i-(HeatmapDays-1)).Format(dateLayout)
	}
	return service.Stats{
		MostFocused: LabelNoSessions,
		PeakHour:    -1,
		Heatmap:     heatmap,
		DailyGoal:   opts.DailyGoal,
	}
}

func resolveTitle(id string, tasks []service.Task, snapshots map[string]string) string {
	for _, t := range tasks {
		if t.ID == id {
			return t.Title
		}
	}
	if title, ok := snapshots[id]; ok {
		return title
	}
	return LabelUnknownTask
}

func datePrefix(ts string) string {
	if len(ts) < len(dateLayout) {
		return ""
	}
	return ts[:len(dateLayout)]
}
