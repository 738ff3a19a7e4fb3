// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"pomo/internal/service"
	"pomo/internal/timer"
)

// FormatTask formats a task line.
// Format: "{N:>4}  [ ] {TITLE}" followed by "  {DONE}/{TARGET}" when a target is set.
func FormatTask(w io.Writer, num int, task service.Task) {
	mark := " "
	if task.Done {
		mark = "x"
	}
	fmt.Fprintf(w, "%4d  [%s] %s%s\n", num, mark, normalizeTitle(task.Title), progress(task))
}

func progress(task service.Task) string {
	switch {
	case task.TargetPomodoros > 0:
		return fmt.Sprintf("  %d/%d", task.CompletedPomodoros, task.TargetPomodoros)
	case task.CompletedPomodoros > 0:
		return fmt.Sprintf("  %d", task.CompletedPomodoros)
	}
	return ""
}

// FormatTimer formats one status line of a headless focus run.
// Format: "{PHASE:<5}  {MM:SS}  {STATE}" followed by "  {TITLE}" when a task is selected.
func FormatTimer(w io.Writer, snap timer.Snapshot, taskTitle string) {
	line := fmt.Sprintf("%-5s  %s  %s", snap.Phase, timer.FormatClock(snap.SecondsRemaining), snap.State)
	if taskTitle != "" {
		line += "  " + normalizeTitle(taskTitle)
	}
	fmt.Fprintln(w, line)
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
