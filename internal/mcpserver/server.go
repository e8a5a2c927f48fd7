package mcpserver

import (
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"github.com/daylist-app/daylist/internal/tracker"
)

// TrackerServer adapts a Tracker to MCP tool handlers.
//
// MCP clients may issue overlapping tool calls; the tracker expects one
// writer at a time, so every handler serializes through mu.
type TrackerServer struct {
	mu sync.Mutex
	tr *tracker.Tracker
}

// NewTrackerServer wraps an already-loaded Tracker.
func NewTrackerServer(tr *tracker.Tracker) *TrackerServer {
	return &TrackerServer{tr: tr}
}

// NewServer creates and configures an MCP server with all tracker tools
// registered against the given Tracker.
func NewServer(tr *tracker.Tracker) *server.MCPServer {
	ts := NewTrackerServer(tr)

	s := server.NewMCPServer(
		"daylist",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	// Project tools
	s.AddTool(createProjectTool(), ts.HandleCreateProject)
	s.AddTool(renameProjectTool(), ts.HandleRenameProject)
	s.AddTool(selectProjectTool(), ts.HandleSelectProject)
	s.AddTool(listProjectsTool(), ts.HandleListProjects)

	// Task tools
	s.AddTool(addTaskTool(), ts.HandleAddTask)
	s.AddTool(toggleTaskTool(), ts.HandleToggleTask)
	s.AddTool(renameTaskTool(), ts.HandleRenameTask)
	s.AddTool(deleteTaskTool(), ts.HandleDeleteTask)
	s.AddTool(clearCompletedTool(), ts.HandleClearCompleted)
	s.AddTool(listTasksTool(), ts.HandleListTasks)

	// Stats tools
	s.AddTool(weeklyStatsTool(), ts.HandleWeeklyStats)
	s.AddTool(recentCompletedTool(), ts.HandleRecentCompleted)

	return s
}
