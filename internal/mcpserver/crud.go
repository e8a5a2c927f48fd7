package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/daylist-app/daylist/internal/datekey"
	"github.com/daylist-app/daylist/internal/store"
	"github.com/daylist-app/daylist/internal/tracker"
)

// resolveProject returns the project named by the optional project_id
// argument, defaulting to the selected project. The second return value
// is a ready-made error result when resolution fails.
//
// Callers must hold ts.mu.
func (ts *TrackerServer) resolveProject(request mcp.CallToolRequest) (*store.Project, *mcp.CallToolResult) {
	id := request.GetString("project_id", "")
	if id == "" {
		p, err := ts.tr.SelectedProject()
		if err != nil {
			return nil, mcp.NewToolResultError(fmt.Sprintf("Failed to resolve selected project: %v", err))
		}
		return p, nil
	}

	p := ts.tr.Store().ProjectByID(id)
	if p == nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("No project with id %q", id))
	}
	return p, nil
}

// resolveDay returns the day named by the optional date argument,
// defaulting to today. The second return value is a ready-made error
// result when the date is malformed.
func (ts *TrackerServer) resolveDay(request mcp.CallToolRequest) (datekey.Key, *mcp.CallToolResult) {
	raw := request.GetString("date", "")
	if raw == "" {
		return ts.tr.Today(), nil
	}

	day := datekey.Key(raw)
	if !datekey.Valid(day) {
		return "", mcp.NewToolResultError(fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", raw))
	}
	return day, nil
}

// rejectionResult maps validation rejections to tool error results and
// everything else (storage failures) to wrapped errors.
func rejectionResult(err error) (*mcp.CallToolResult, error) {
	switch {
	case errors.Is(err, tracker.ErrEmptyName):
		return mcp.NewToolResultError("Project name cannot be empty."), nil
	case errors.Is(err, tracker.ErrDuplicateName):
		return mcp.NewToolResultError("A project with that name already exists."), nil
	case errors.Is(err, tracker.ErrEmptyText):
		return mcp.NewToolResultError("Task text cannot be empty."), nil
	default:
		return nil, err
	}
}

// HandleCreateProject creates a new project and selects it.
func (ts *TrackerServer) HandleCreateProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("Missing required parameter: name"), nil
	}

	p, err := ts.tr.CreateProject(name)
	if err != nil {
		return rejectionResult(err)
	}

	return mcp.NewToolResultText(fmt.Sprintf("Created and selected project %q (id %s).", p.Name, p.ID)), nil
}

// HandleRenameProject renames a project in place.
func (ts *TrackerServer) HandleRenameProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("Missing required parameter: name"), nil
	}

	p, errResult := ts.resolveProject(request)
	if errResult != nil {
		return errResult, nil
	}

	if err := ts.tr.RenameProject(p.ID, name); err != nil {
		return rejectionResult(err)
	}

	return mcp.NewToolResultText(fmt.Sprintf("Renamed project %s to %q.", p.ID, p.Name)), nil
}

// HandleSelectProject switches the selected project.
func (ts *TrackerServer) HandleSelectProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	id, err := request.RequireString("project_id")
	if err != nil {
		return mcp.NewToolResultError("Missing required parameter: project_id"), nil
	}

	if ts.tr.Store().ProjectByID(id) == nil {
		return mcp.NewToolResultError(fmt.Sprintf("No project with id %q", id)), nil
	}

	if err := ts.tr.SelectProject(id); err != nil {
		return nil, err
	}

	p := ts.tr.Store().ProjectByID(id)
	return mcp.NewToolResultText(fmt.Sprintf("Selected project %q.", p.Name)), nil
}

// HandleAddTask adds a task to the front of a day's list.
func (ts *TrackerServer) HandleAddTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("Missing required parameter: text"), nil
	}

	p, errResult := ts.resolveProject(request)
	if errResult != nil {
		return errResult, nil
	}

	day, errResult := ts.resolveDay(request)
	if errResult != nil {
		return errResult, nil
	}

	task, err := ts.tr.AddTask(p.ID, day, text)
	if err != nil {
		return rejectionResult(err)
	}
	if task == nil {
		// Stale project id: the add was a no-op.
		return mcp.NewToolResultError(fmt.Sprintf("No project with id %q", p.ID)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Added task %q (id %s) to %q on %s.", task.Text, task.ID, p.Name, day)), nil
}

// HandleToggleTask flips a task's completion state.
func (ts *TrackerServer) HandleToggleTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	taskID, err := request.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError("Missing required parameter: task_id"), nil
	}

	p, errResult := ts.resolveProject(request)
	if errResult != nil {
		return errResult, nil
	}

	day, errResult := ts.resolveDay(request)
	if errResult != nil {
		return errResult, nil
	}

	if err := ts.tr.ToggleTask(p.ID, day, taskID); err != nil {
		return nil, err
	}

	return mcp.NewToolResultText(fmt.Sprintf("Toggled task %s on %s.", taskID, day)), nil
}

// HandleRenameTask replaces a task's text.
func (ts *TrackerServer) HandleRenameTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	taskID, err := request.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError("Missing required parameter: task_id"), nil
	}

	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("Missing required parameter: text"), nil
	}

	p, errResult := ts.resolveProject(request)
	if errResult != nil {
		return errResult, nil
	}

	day, errResult := ts.resolveDay(request)
	if errResult != nil {
		return errResult, nil
	}

	if err := ts.tr.RenameTask(p.ID, day, taskID, text); err != nil {
		return rejectionResult(err)
	}

	return mcp.NewToolResultText(fmt.Sprintf("Renamed task %s on %s.", taskID, day)), nil
}

// HandleDeleteTask removes a task from a day's list.
func (ts *TrackerServer) HandleDeleteTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	taskID, err := request.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError("Missing required parameter: task_id"), nil
	}

	p, errResult := ts.resolveProject(request)
	if errResult != nil {
		return errResult, nil
	}

	day, errResult := ts.resolveDay(request)
	if errResult != nil {
		return errResult, nil
	}

	if err := ts.tr.DeleteTask(p.ID, day, taskID); err != nil {
		return nil, err
	}

	return mcp.NewToolResultText(fmt.Sprintf("Deleted task %s from %s.", taskID, day)), nil
}

// HandleClearCompleted removes every completed task from one day.
func (ts *TrackerServer) HandleClearCompleted(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

	if err := ts.tr.ClearCompleted(p.ID, day); err != nil {
		return nil, err
	}

	return mcp.NewToolResultText(fmt.Sprintf("Cleared completed tasks from %q on %s.", p.Name, day)), nil
}
