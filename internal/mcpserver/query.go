package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/daylist-app/daylist/internal/query"
)

// HandleListProjects lists every project, marking the selected one.
func (ts *TrackerServer) HandleListProjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	st := ts.tr.Store()

	var sb strings.Builder
	fmt.Fprintf(&sb, "Projects (%d):\n", len(st.Projects))
	for _, p := range st.Projects {
		marker := " "
		if p.ID == st.SelectedProjectID {
			marker = "*"
		}
		fmt.Fprintf(&sb, "%s %s  %s\n", marker, p.ID, p.Name)
	}

	return mcp.NewToolResultText(sb.String()), nil
}

// HandleListTasks lists one day's tasks through the requested filter.
func (ts *TrackerServer) HandleListTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	p, errResult := ts.resolveProject(request)
	if errResult != nil {
		return errResult, nil
	}

	day, errResult := ts.resolveDay(request)
	if errResult != nil {
		return errResult, nil
	}

	filter := query.Filter(request.GetString("filter", string(query.FilterAll)))
	if !query.ValidFilter(filter) {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid filter %q, expected all, active, or completed", filter)), nil
	}

	tasks := p.TasksOn(day)
	visible := query.Visible(tasks, filter)

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s — %d remaining, showing %d of %d (%s)\n",
		p.Name, day, query.Remaining(tasks), len(visible), len(tasks), filter)
	for _, t := range visible {
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		fmt.Fprintf(&sb, "%s %s  %s\n", mark, t.ID, t.Text)
	}

	return mcp.NewToolResultText(sb.String()), nil
}

// HandleWeeklyStats reports the trailing 7-day completion window.
func (ts *TrackerServer) HandleWeeklyStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	p, errResult := ts.resolveProject(request)
	if errResult != nil {
		return errResult, nil
	}

	day, errResult := ts.resolveDay(request)
	if errResult != nil {
		return errResult, nil
	}

	stats := query.WeeklyStats(p, day, query.DefaultWeekWindow)

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] last %d days: %d%% complete (%d/%d)\n",
		p.Name, query.DefaultWeekWindow, stats.OverallRatioPercent, stats.TotalCompleted, stats.TotalTasks)
	for _, d := range stats.PerDay {
		fmt.Fprintf(&sb, "%s  %d/%d (%d%%)\n", d.Date, d.Completed, d.Total, d.RatioPercent)
	}

	return mcp.NewToolResultText(sb.String()), nil
}

// HandleRecentCompleted reports completions from the days before the anchor.
func (ts *TrackerServer) HandleRecentCompleted(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	p, errResult := ts.resolveProject(request)
	if errResult != nil {
		return errResult, nil
	}

	day, errResult := ts.resolveDay(request)
	if errResult != nil {
		return errResult, nil
	}

	days := request.GetInt("days", query.DefaultRecentWindow)
	if days <= 0 {
		days = query.DefaultRecentWindow
	}

	entries := query.RecentCompleted(p, day, days)
	if len(entries) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("[%s] no completed tasks in the %d days before %s.", p.Name, days, day)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] completed in the %d days before %s:\n", p.Name, days, day)
	for _, e := range entries {
		fmt.Fprintf(&sb, "%dd ago  %s\n", e.DayOffset, e.Task.Text)
	}

	return mcp.NewToolResultText(sb.String()), nil
}
