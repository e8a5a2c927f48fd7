// Package mcpserver exposes the task tracker over the Model Context
// Protocol: project management, per-day task operations, and the
// derived statistics views, all as stdio JSON-RPC tools.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createProjectTool returns a tool definition for creating a project.
func createProjectTool() mcp.Tool {
	return mcp.NewTool("create_project",
		mcp.WithDescription("Create a new project with the given name and select it. Fails if the name is empty or already in use (case-insensitive)."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the new project")),
	)
}

// renameProjectTool returns a tool definition for renaming a project.
func renameProjectTool() mcp.Tool {
	return mcp.NewTool("rename_project",
		mcp.WithDescription("Rename an existing project. Fails if the new name is empty or collides with another project's name (case-insensitive)."),
		mcp.WithString("project_id",
			mcp.Description("ID of the project to rename (defaults to the selected project)")),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("New project name")),
	)
}

// selectProjectTool returns a tool definition for switching the selected project.
func selectProjectTool() mcp.Tool {
	return mcp.NewTool("select_project",
		mcp.WithDescription("Switch the selected project. Unknown IDs are ignored."),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("ID of the project to select")),
	)
}

// listProjectsTool returns a tool definition for listing projects.
func listProjectsTool() mcp.Tool {
	return mcp.NewTool("list_projects",
		mcp.WithDescription("List all projects with their IDs, marking the selected one."),
	)
}

// addTaskTool returns a tool definition for adding a task.
func addTaskTool() mcp.Tool {
	return mcp.NewTool("add_task",
		mcp.WithDescription("Add a task to a day's list. New tasks go to the front of the list (newest first). Fails if the text is empty."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Task description")),
		mcp.WithString("date",
			mcp.Description("Calendar day in YYYY-MM-DD form (defaults to today)")),
		mcp.WithString("project_id",
			mcp.Description("ID of the target project (defaults to the selected project)")),
	)
}

// toggleTaskTool returns a tool definition for toggling completion.
func toggleTaskTool() mcp.Tool {
	return mcp.NewTool("toggle_task",
		mcp.WithDescription("Flip a task between open and completed. Completing stamps the completion time; reopening clears it. Unknown IDs are ignored."),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("ID of the task to toggle")),
		mcp.WithString("date",
			mcp.Description("Calendar day the task lives on (defaults to today)")),
		mcp.WithString("project_id",
			mcp.Description("ID of the target project (defaults to the selected project)")),
	)
}

// renameTaskTool returns a tool definition for editing task text.
func renameTaskTool() mcp.Tool {
	return mcp.NewTool("rename_task",
		mcp.WithDescription("Replace a task's text, keeping its position and completion state. Fails if the new text is empty; unknown IDs are ignored."),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("ID of the task to rename")),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("New task description")),
		mcp.WithString("date",
			mcp.Description("Calendar day the task lives on (defaults to today)")),
		mcp.WithString("project_id",
			mcp.Description("ID of the target project (defaults to the selected project)")),
	)
}

// deleteTaskTool returns a tool definition for deleting a task.
func deleteTaskTool() mcp.Tool {
	return mcp.NewTool("delete_task",
		mcp.WithDescription("Delete a task from a day's list. Unknown IDs are ignored."),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("ID of the task to delete")),
		mcp.WithString("date",
			mcp.Description("Calendar day the task lives on (defaults to today)")),
		mcp.WithString("project_id",
			mcp.Description("ID of the target project (defaults to the selected project)")),
	)
}

// clearCompletedTool returns a tool definition for clearing completed tasks.
func clearCompletedTool() mcp.Tool {
	return mcp.NewTool("clear_completed",
		mcp.WithDescription("Remove every completed task from one day's list. Other days are untouched."),
		mcp.WithString("date",
			mcp.Description("Calendar day to clear (defaults to today)")),
		mcp.WithString("project_id",
			mcp.Description("ID of the target project (defaults to the selected project)")),
	)
}

// listTasksTool returns a tool definition for listing a day's tasks.
func listTasksTool() mcp.Tool {
	return mcp.NewTool("list_tasks",
		mcp.WithDescription("List a day's tasks, optionally filtered, with the remaining-open count."),
		mcp.WithString("date",
			mcp.Description("Calendar day in YYYY-MM-DD form (defaults to today)")),
		mcp.WithString("filter",
			mcp.Description("Which tasks to show: all (default), active, or completed"),
			mcp.Enum("all", "active", "completed")),
		mcp.WithString("project_id",
			mcp.Description("ID of the target project (defaults to the selected project)")),
	)
}

// weeklyStatsTool returns a tool definition for the rolling weekly view.
func weeklyStatsTool() mcp.Tool {
	return mcp.NewTool("weekly_stats",
		mcp.WithDescription("Completion statistics for the 7-day window ending at the anchor date: per-day counts and ratios plus the overall completion percentage."),
		mcp.WithString("date",
			mcp.Description("Anchor day of the window (defaults to today)")),
		mcp.WithString("project_id",
			mcp.Description("ID of the target project (defaults to the selected project)")),
	)
}

// recentCompletedTool returns a tool definition for recent completions.
func recentCompletedTool() mcp.Tool {
	return mcp.NewTool("recent_completed",
		mcp.WithDescription("Completed tasks from the days immediately before the anchor date (the anchor day itself is excluded), most recent day first."),
		mcp.WithString("date",
			mcp.Description("Anchor day (defaults to today)")),
		mcp.WithNumber("days",
			mcp.Description("How many trailing days to include (default 3)")),
		mcp.WithString("project_id",
			mcp.Description("ID of the target project (defaults to the selected project)")),
	)
}
