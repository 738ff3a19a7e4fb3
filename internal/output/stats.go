package output

import (
	"fmt"
	"io"
	"strings"

	"pomo/internal/service"
)

// HeatmapGlyphs are the heatmap cells from no sessions to the busiest level.
var HeatmapGlyphs = []rune{'·', '░', '▒', '▓', '█'}

// HeatLevel maps a day's session count to an index into HeatmapGlyphs.
func HeatLevel(count int) int {
	switch {
	case count <= 0:
		return 0
	case count <= 2:
		return 1
	case count <= 4:
		return 2
	case count <= 7:
		return 3
	}
	return 4
}

// FormatStats writes the statistics report.
func FormatStats(w io.Writer, st service.Stats) {
	fmt.Fprintf(w, "Today:         %d %s, %d min\n", st.TodayCount, plural(st.TodayCount, "session", "sessions"), st.TodayMinutes)
	fmt.Fprintf(w, "Daily goal:    %d/%d\n", st.GoalProgress, st.DailyGoal)
	fmt.Fprintf(w, "Most focused:  %s\n", normalizeTitle(st.MostFocused))
	fmt.Fprintf(w, "Peak hour:     %s\n", PeakHour(st.PeakHour))
	fmt.Fprintf(w, "Active days:   %d\n", st.Streak)
}

// PeakHour renders an hour of day as "HH:00", or "-" when there is none.
func PeakHour(h int) string {
	if h < 0 || h > 23 {
		return "-"
	}
	return fmt.Sprintf("%02d:00", h)
}

// FormatHeatmap writes the heatmap as one row of cells between its first and
// last date, followed by a legend.
func FormatHeatmap(w io.Writer, days []service.HeatmapDay) {
	if len(days) == 0 {
		return
	}
	var b strings.Builder
	for _, d := range days {
		b.WriteRune(HeatmapGlyphs[HeatLevel(d.Count)])
	}
	fmt.Fprintf(w, "%s %s %s\n", days[0].Date, b.String(), days[len(days)-1].Date)

	legend := make([]string, len(HeatmapGlyphs))
	for i, g := range HeatmapGlyphs {
		legend[i] = string(g)
	}
	fmt.Fprintf(w, "less %s more\n", strings.Join(legend, " "))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
