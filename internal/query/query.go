// Package query computes derived views over a project's task lists:
// filtered visibility, remaining counts, trailing-week completion
// statistics, and recently-completed history. Everything here is a pure
// function; nothing mutates the store or touches persistence.
package query

import (
	"math"

	"github.com/daylist-app/daylist/internal/datekey"
	"github.com/daylist-app/daylist/internal/store"
)

// Filter selects which tasks of a day are visible.
type Filter string

const (
	// FilterAll shows every task.
	FilterAll Filter = "all"

	// FilterActive shows only open tasks.
	FilterActive Filter = "active"

	// FilterCompleted shows only completed tasks.
	FilterCompleted Filter = "completed"
)

// ValidFilter reports whether f is one of the three known filters.
func ValidFilter(f Filter) bool {
	return f == FilterAll || f == FilterActive || f == FilterCompleted
}

// Visible returns the tasks matching f, preserving input order.
// FilterAll returns the input slice unchanged.
func Visible(tasks []*store.Task, f Filter) []*store.Task {
	switch f {
	case FilterActive:
		out := make([]*store.Task, 0, len(tasks))
		for _, t := range tasks {
			if !t.Completed {
				out = append(out, t)
			}
		}
		return out
	case FilterCompleted:
		out := make([]*store.Task, 0, len(tasks))
		for _, t := range tasks {
			if t.Completed {
				out = append(out, t)
			}
		}
		return out
	default:
		return tasks
	}
}

// Remaining counts the open tasks in the list.
func Remaining(tasks []*store.Task) int {
	n := 0
	for _, t := range tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

// DayStat summarizes one day inside a stats window.
type DayStat struct {
	// Date is the day the stat covers.
	Date datekey.Key `json:"date"`

	// Completed is the number of completed tasks on that day.
	Completed int `json:"completed"`

	// Total is the number of tasks on that day.
	Total int `json:"total"`

	// RatioPercent is the completion percentage, 0 for a day with no
	// tasks.
	RatioPercent int `json:"ratioPercent"`
}

// WeekStats aggregates completion over a trailing window of days.
type WeekStats struct {
	// PerDay holds one entry per window day, chronologically ascending;
	// the last entry is the anchor day.
	PerDay []DayStat `json:"perDay"`

	// OverallRatioPercent is the completion percentage across the whole
	// window, 0 when the window holds no tasks.
	OverallRatioPercent int `json:"overallRatioPercent"`

	// TotalCompleted is the completed-task count across the window.
	TotalCompleted int `json:"totalCompleted"`

	// TotalTasks is the task count across the window.
	TotalTasks int `json:"totalTasks"`
}

// DefaultWeekWindow is the window size for the rolling weekly view.
const DefaultWeekWindow = 7

// WeeklyStats computes completion statistics for the window ending at
// anchor and spanning windowSize days (anchor plus the windowSize-1
// preceding days).
//
// Percentages round half away from zero; with non-negative inputs that
// is round-half-up, so 50.5 becomes 51. Days without tasks contribute a
// ratio of 0 rather than dividing by zero.
func WeeklyStats(p *store.Project, anchor datekey.Key, windowSize int) WeekStats {
	if windowSize <= 0 {
		windowSize = DefaultWeekWindow
	}

	stats := WeekStats{PerDay: make([]DayStat, 0, windowSize)}
	for offset := windowSize - 1; offset >= 0; offset-- {
		day := datekey.Add(anchor, -offset)
		tasks := p.TasksOn(day)

		done := 0
		for _, t := range tasks {
			if t.Completed {
				done++
			}
		}

		stats.PerDay = append(stats.PerDay, DayStat{
			Date:         day,
			Completed:    done,
			Total:        len(tasks),
			RatioPercent: ratioPercent(done, len(tasks)),
		})
		stats.TotalCompleted += done
		stats.TotalTasks += len(tasks)
	}

	stats.OverallRatioPercent = ratioPercent(stats.TotalCompleted, stats.TotalTasks)
	return stats
}

// ratioPercent returns round(100*done/total), or 0 when total is 0.
func ratioPercent(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}

// CompletedEntry is one recently-completed task tagged with how many
// days before the anchor it belongs to.
type CompletedEntry struct {
	// Task is the completed task.
	Task *store.Task `json:"task"`

	// DayOffset is the distance from the anchor in days, starting at 1
	// for the day immediately before it.
	DayOffset int `json:"dayOffset"`
}

// DefaultRecentWindow is how many trailing days the recent-completed
// view covers.
const DefaultRecentWindow = 3

// RecentCompleted collects completed tasks from the days days strictly
// preceding anchor (the anchor day itself is excluded). Offsets iterate
// ascending, so the most recent day comes first; within a day, stored
// order is preserved.
func RecentCompleted(p *store.Project, anchor datekey.Key, days int) []CompletedEntry {
	if days <= 0 {
		days = DefaultRecentWindow
	}

	entries := make([]CompletedEntry, 0)
	for offset := 1; offset <= days; offset++ {
		day := datekey.Add(anchor, -offset)
		for _, t := range p.TasksOn(day) {
			if t.Completed {
				entries = append(entries, CompletedEntry{Task: t, DayOffset: offset})
			}
		}
	}
	return entries
}
