package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/taskcal/taskcal/internal/client"
	"github.com/taskcal/taskcal/internal/entity"
	"github.com/taskcal/taskcal/internal/ui/styles"
)

func firstOfMonth(d entity.Date) entity.Date {
	return entity.Date{Year: d.Year, Month: d.Month, Day: 1}
}

func daysInMonth(d entity.Date) int {
	first := firstOfMonth(d)
	return first.Time().AddDate(0, 1, -1).Day()
}

func addMonths(d entity.Date, n int) entity.Date {
	return entity.DateOf(firstOfMonth(d).Time().AddDate(0, n, 0))
}

// renderCalendar draws one month. Day cells are annotated with a dot when the
// day has tasks and a check when every task that day is complete.
func renderCalendar(s *styles.Styles, month, cursor entity.Date, selected *entity.Date, days map[entity.Date]client.DaySummary) string {
	var b strings.Builder

	b.WriteString(s.CalHeader.Width(7 * 4).Render(month.Time().Format("January 2006")))
	b.WriteString("\n")

	weekdays := []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}
	for _, wd := range weekdays {
		b.WriteString(s.CalWeekday.Render(fmt.Sprintf(" %s ", wd)))
	}
	b.WriteString("\n")

	first := firstOfMonth(month)
	today := entity.Today()

	// Leading blanks up to the first weekday, Sunday-based.
	col := int(first.Weekday())
	b.WriteString(strings.Repeat("    ", col))

	for day := 1; day <= daysInMonth(month); day++ {
		date := entity.Date{Year: month.Year, Month: month.Month, Day: day}
		summary := days[date]

		mark := " "
		switch {
		case summary.AllComplete():
			mark = s.DotComplete.Render("✓")
		case summary.HasTasks():
			mark = s.DotPending.Render("•")
		}

		cell := fmt.Sprintf("%2d", day)
		switch {
		case selected != nil && date == *selected:
			cell = s.CalSelected.Render(cell)
		case date == cursor:
			cell = s.CalCursor.Render(cell)
		case date == today:
			cell = s.CalToday.Render(cell)
		default:
			cell = s.CalDay.Render(cell)
		}

		b.WriteString(" " + cell + mark)

		col++
		if col == 7 {
			col = 0
			b.WriteString("\n")
		}
	}
	if col != 0 {
		b.WriteString("\n")
	}

	legend := lipgloss.JoinHorizontal(lipgloss.Top,
		s.DotPending.Render("•"), s.CalDayMuted.Render(" has tasks  "),
		s.DotComplete.Render("✓"), s.CalDayMuted.Render(" all done"),
	)
	b.WriteString("\n" + legend)

	return b.String()
}
