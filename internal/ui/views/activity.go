package views

import (
	"fmt"
	"math"
	"time"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/tablero/internal/model"
	"github.com/dori/tablero/internal/ui/theme"
)

// activityDays is how many days the activity strip covers
const activityDays = 14

// dailyCounts counts tasks per calendar day for the days ending on now,
// oldest first. Tasks dated outside the window are ignored.
func dailyCounts(tasks []model.Task, now time.Time, days int) []float64 {
	counts := make([]float64, days)
	loc := now.Location()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)

	for _, t := range tasks {
		ty, tm, td := t.Date.In(loc).Date()
		day := time.Date(ty, tm, td, 0, 0, 0, 0, loc)
		ago := int(math.Round(today.Sub(day).Hours() / 24))
		if ago < 0 || ago >= days {
			continue
		}
		counts[days-1-ago]++
	}
	return counts
}

// renderActivity draws a one line sparkline of task dates per day
func (v BoardView) renderActivity(now time.Time) string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	var tasks []model.Task
	for _, col := range v.columns {
		tasks = append(tasks, col...)
	}
	counts := dailyCounts(tasks, now, activityDays)

	total := 0.0
	for _, c := range counts {
		total += c
	}
	label := styles.Label.Render(fmt.Sprintf("Last %d days ", activityDays))
	if total == 0 {
		return label + lipgloss.NewStyle().Foreground(t.Subtle).Render("no activity")
	}

	spark := sparkline.New(activityDays, 1)
	for _, c := range counts {
		spark.Push(c)
	}
	spark.Draw()

	return label +
		lipgloss.NewStyle().Foreground(t.Primary).Render(spark.View()) +
		lipgloss.NewStyle().Foreground(t.Subtle).Render(fmt.Sprintf(" %d tasks", int(total)))
}
