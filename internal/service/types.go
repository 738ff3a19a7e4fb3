// Package service defines the backend-agnostic interface for task and focus operations.
package service

import "strings"

// Task represents a single task item.
// The JSON shape is the persisted wire format of the "tasks" key.
type Task struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	Done               bool   `json:"done"`
	TargetPomodoros    int    `json:"targetPomodoros"`
	CompletedPomodoros int    `json:"completedPomodoros"`
}

// Session is an immutable record of one completed focus interval.
// TaskID is nil when the interval was run without a task.
type Session struct {
	ID              string  `json:"id"`
	TaskID          *string `json:"taskId"`
	TaskTitle       string  `json:"taskTitle,omitempty"`
	DurationMinutes int     `json:"durationMinutes"`
	CompletedAt     string  `json:"completedAt"`
}

// TaskRef returns the referenced task id, or "" when none.
func (s Session) TaskRef() string {
	if s.TaskID == nil {
		return ""
	}
	return *s.TaskID
}

// Theme is the persisted presentation theme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme parses a theme name (case-insensitive, trimmed).
func ParseTheme(s string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, true
	case ThemeDark:
		return ThemeDark, true
	}
	return "", false
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// HeatmapDay holds the session count for one calendar day.
type HeatmapDay struct {
	Date  string // YYYY-MM-DD
	Count int
}

// Stats holds metrics derived from the session collection.
type Stats struct {
	TodayCount    int
	TodayMinutes  int
	MostFocused   string
	MostFocusedID string
	// PeakHour is the local hour with the most sessions, or -1 when there are none.
	PeakHour int
	// Streak counts distinct days with at least one session.
	Streak       int
	Heatmap      []HeatmapDay
	DailyGoal    int
	GoalProgress int
}
