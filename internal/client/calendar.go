package client

import "github.com/taskcal/taskcal/internal/entity"

// DaySummary annotates one calendar day: how many tasks are due and how many
// of those are done.
type DaySummary struct {
	Tasks     int
	Completed int
}

func (s DaySummary) HasTasks() bool {
	return s.Tasks > 0
}

func (s DaySummary) AllComplete() bool {
	return s.Tasks > 0 && s.Completed == s.Tasks
}

// SummarizeByDay buckets tasks by their due date. Pure; recomputed from the
// full collection on every change rather than maintained incrementally.
func SummarizeByDay(tasks []entity.Task) map[entity.Date]DaySummary {
	days := make(map[entity.Date]DaySummary)
	for _, task := range tasks {
		s := days[task.DueDate]
		s.Tasks++
		if task.Completed {
			s.Completed++
		}
		days[task.DueDate] = s
	}
	return days
}

// FilterByDate returns the tasks due on the selected date, or the whole
// collection when no date is selected.
func FilterByDate(tasks []entity.Task, selected *entity.Date) []entity.Task {
	if selected == nil {
		return tasks
	}
	filtered := make([]entity.Task, 0)
	for _, task := range tasks {
		if task.DueDate == *selected {
			filtered = append(filtered, task)
		}
	}
	return filtered
}
