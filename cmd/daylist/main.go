// Package main implements the daylist command-line interface.
//
// Each invocation is one-shot: load the store, apply a single command,
// persist, print, exit. Commands mirror the MCP tool set.
//
// Usage:
//
//	daylist projects
//	daylist create-project <name>
//	daylist rename-project [-project id] <new-name>
//	daylist select <project-id>
//	daylist add [-date YYYY-MM-DD] [-project id] <text>
//	daylist list [-date YYYY-MM-DD] [-filter all|active|completed] [-project id]
//	daylist toggle [-date YYYY-MM-DD] [-project id] <task-id>
//	daylist rename [-date YYYY-MM-DD] [-project id] <task-id> <new-text>
//	daylist delete [-date YYYY-MM-DD] [-project id] <task-id>
//	daylist clear [-date YYYY-MM-DD] [-project id]
//	daylist stats [-date YYYY-MM-DD] [-project id]
//	daylist recent [-date YYYY-MM-DD] [-days n] [-project id]
//
// Environment variables:
//   - DAYLIST_DATA_DIR: data directory (default: <user config dir>/daylist)
//   - DAYLIST_STORAGE_BACKEND: "json" (default), "sqlite", or "postgres"
//   - DAYLIST_JSON_PATH, DAYLIST_SQLITE_PATH, DAYLIST_POSTGRES_URL: backend paths
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/daylist-app/daylist/internal/datekey"
	"github.com/daylist-app/daylist/internal/ident"
	"github.com/daylist-app/daylist/internal/query"
	"github.com/daylist-app/daylist/internal/storage"
	"github.com/daylist-app/daylist/internal/store"
	"github.com/daylist-app/daylist/internal/tracker"
)

const usage = `daylist — project-scoped daily task tracker

Commands:
  projects                          list projects
  create-project <name>             create a project and select it
  rename-project [flags] <name>     rename a project
  select <project-id>               switch the selected project
  add [flags] <text>                add a task (newest first)
  list [flags]                      list a day's tasks
  toggle [flags] <task-id>          flip a task's completion
  rename [flags] <task-id> <text>   edit a task's text
  delete [flags] <task-id>          delete a task
  clear [flags]                     remove a day's completed tasks
  stats [flags]                     7-day completion statistics
  recent [flags]                    recently completed tasks

Flags (where applicable): -date YYYY-MM-DD, -project id, -filter all|active|completed, -days n
`

// cli bundles the loaded tracker with the output streams so command
// handlers stay testable.
type cli struct {
	tr     *tracker.Tracker
	stdout io.Writer
	logger *slog.Logger
}

// run contains the main logic, returning an exit code.
func run(args []string, stdout, stderr io.Writer) int {
	logger := slog.New(slog.NewTextHandler(stderr, nil))

	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprint(stdout, usage)
		return 0
	}

	dataDir, err := storage.ResolveDataDir()
	if err != nil {
		logger.Error("failed to resolve data directory", "error", err)
		return 1
	}

	backend, err := storage.GetBackend(dataDir)
	if err != nil {
		logger.Error("failed to configure storage backend", "error", err)
		return 1
	}

	tr, err := tracker.New(backend, ident.NewUUIDGenerator(), tracker.SystemClock{})
	if err != nil {
		logger.Error("failed to load tracker state", "error", err)
		return 1
	}

	c := &cli{tr: tr, stdout: stdout, logger: logger}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "projects":
		return c.cmdProjects()
	case "create-project":
		return c.cmdCreateProject(rest)
	case "rename-project":
		return c.cmdRenameProject(rest)
	case "select":
		return c.cmdSelect(rest)
	case "add":
		return c.cmdAdd(rest)
	case "list":
		return c.cmdList(rest)
	case "toggle":
		return c.cmdToggle(rest)
	case "rename":
		return c.cmdRename(rest)
	case "delete":
		return c.cmdDelete(rest)
	case "clear":
		return c.cmdClear(rest)
	case "stats":
		return c.cmdStats(rest)
	case "recent":
		return c.cmdRecent(rest)
	default:
		c.logger.Error("unknown command", "command", cmd)
		fmt.Fprint(stdout, usage)
		return 1
	}
}

// taskFlags parses the flags shared by task commands and returns the
// remaining positional arguments.
func (c *cli) taskFlags(name string, args []string) (day datekey.Key, project *store.Project, rest []string, ok bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	dateArg := fs.String("date", "", "calendar day (YYYY-MM-DD, default today)")
	projectArg := fs.String("project", "", "project id (default: selected project)")
	if err := fs.Parse(args); err != nil {
		c.logger.Error("invalid flags", "command", name, "error", err)
		return "", nil, nil, false
	}

	day, ok = c.resolveDay(*dateArg)
	if !ok {
		return "", nil, nil, false
	}
	project, ok = c.resolveProject(*projectArg)
	if !ok {
		return "", nil, nil, false
	}
	return day, project, fs.Args(), true
}

// resolveDay validates an optional -date value, defaulting to today.
func (c *cli) resolveDay(arg string) (datekey.Key, bool) {
	if arg == "" {
		return c.tr.Today(), true
	}
	day := datekey.Key(arg)
	if !datekey.Valid(day) {
		c.logger.Error("invalid date, expected YYYY-MM-DD", "date", arg)
		return "", false
	}
	return day, true
}

// resolveProject resolves an optional -project value, defaulting to the
// selected project.
func (c *cli) resolveProject(arg string) (*store.Project, bool) {
	if arg == "" {
		p, err := c.tr.SelectedProject()
		if err != nil {
			c.logger.Error("failed to resolve selected project", "error", err)
			return nil, false
		}
		return p, true
	}
	p := c.tr.Store().ProjectByID(arg)
	if p == nil {
		c.logger.Error("no such project", "project", arg)
		return nil, false
	}
	return p, true
}

// reportRejection logs validation rejections in user terms and
// everything else as a storage failure. Always returns 1.
func (c *cli) reportRejection(err error) int {
	switch {
	case errors.Is(err, tracker.ErrEmptyName):
		c.logger.Error("project name cannot be empty")
	case errors.Is(err, tracker.ErrDuplicateName):
		c.logger.Error("a project with that name already exists")
	case errors.Is(err, tracker.ErrEmptyText):
		c.logger.Error("task text cannot be empty")
	default:
		c.logger.Error("operation failed", "error", err)
	}
	return 1
}

func (c *cli) cmdProjects() int {
	st := c.tr.Store()
	for _, p := range st.Projects {
		marker := " "
		if p.ID == st.SelectedProjectID {
			marker = "*"
		}
		fmt.Fprintf(c.stdout, "%s %s  %s\n", marker, p.ID, p.Name)
	}
	return 0
}

func (c *cli) cmdCreateProject(args []string) int {
	if len(args) == 0 {
		c.logger.Error("usage: daylist create-project <name>")
		return 1
	}

	p, err := c.tr.CreateProject(strings.Join(args, " "))
	if err != nil {
		return c.reportRejection(err)
	}

	fmt.Fprintf(c.stdout, "Created and selected project %q (id %s)\n", p.Name, p.ID)
	return 0
}

func (c *cli) cmdRenameProject(args []string) int {
	fs := flag.NewFlagSet("rename-project", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	projectArg := fs.String("project", "", "project id (default: selected project)")
	if err := fs.Parse(args); err != nil {
		c.logger.Error("invalid flags", "error", err)
		return 1
	}
	if fs.NArg() == 0 {
		c.logger.Error("usage: daylist rename-project [-project id] <new-name>")
		return 1
	}

	p, ok := c.resolveProject(*projectArg)
	if !ok {
		return 1
	}

	if err := c.tr.RenameProject(p.ID, strings.Join(fs.Args(), " ")); err != nil {
		return c.reportRejection(err)
	}

	fmt.Fprintf(c.stdout, "Renamed project %s to %q\n", p.ID, p.Name)
	return 0
}

func (c *cli) cmdSelect(args []string) int {
	if len(args) != 1 {
		c.logger.Error("usage: daylist select <project-id>")
		return 1
	}

	p := c.tr.Store().ProjectByID(args[0])
	if p == nil {
		c.logger.Error("no such project", "project", args[0])
		return 1
	}

	if err := c.tr.SelectProject(p.ID); err != nil {
		return c.reportRejection(err)
	}

	fmt.Fprintf(c.stdout, "Selected project %q\n", p.Name)
	return 0
}

func (c *cli) cmdAdd(args []string) int {
	day, p, rest, ok := c.taskFlags("add", args)
	if !ok {
		return 1
	}
	if len(rest) == 0 {
		c.logger.Error("usage: daylist add [-date YYYY-MM-DD] [-project id] <text>")
		return 1
	}

	task, err := c.tr.AddTask(p.ID, day, strings.Join(rest, " "))
	if err != nil {
		return c.reportRejection(err)
	}
	if task == nil {
		// Stale project id: the add was a no-op.
		c.logger.Error("no such project", "project", p.ID)
		return 1
	}

	fmt.Fprintf(c.stdout, "Added %q (id %s) to %q on %s\n", task.Text, task.ID, p.Name, day)
	return 0
}

func (c *cli) cmdList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	dateArg := fs.String("date", "", "calendar day (YYYY-MM-DD, default today)")
	projectArg := fs.String("project", "", "project id (default: selected project)")
	filterArg := fs.String("filter", string(query.FilterAll), "all, active, or completed")
	if err := fs.Parse(args); err != nil {
		c.logger.Error("invalid flags", "error", err)
		return 1
	}

	day, ok := c.resolveDay(*dateArg)
	if !ok {
		return 1
	}
	p, ok := c.resolveProject(*projectArg)
	if !ok {
		return 1
	}

	filter := query.Filter(*filterArg)
	if !query.ValidFilter(filter) {
		c.logger.Error("invalid filter, expected all, active, or completed", "filter", *filterArg)
		return 1
	}

	tasks := p.TasksOn(day)
	fmt.Fprintf(c.stdout, "[%s] %s — %d remaining\n", p.Name, day, query.Remaining(tasks))
	for _, t := range query.Visible(tasks, filter) {
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		fmt.Fprintf(c.stdout, "%s %s  %s\n", mark, t.ID, t.Text)
	}
	return 0
}

func (c *cli) cmdToggle(args []string) int {
	day, p, rest, ok := c.taskFlags("toggle", args)
	if !ok {
		return 1
	}
	if len(rest) != 1 {
		c.logger.Error("usage: daylist toggle [-date YYYY-MM-DD] [-project id] <task-id>")
		return 1
	}

	if err := c.tr.ToggleTask(p.ID, day, rest[0]); err != nil {
		return c.reportRejection(err)
	}

	fmt.Fprintf(c.stdout, "Toggled task %s on %s\n", rest[0], day)
	return 0
}

func (c *cli) cmdRename(args []string) int {
	day, p, rest, ok := c.taskFlags("rename", args)
	if !ok {
		return 1
	}
	if len(rest) < 2 {
		c.logger.Error("usage: daylist rename [-date YYYY-MM-DD] [-project id] <task-id> <new-text>")
		return 1
	}

	if err := c.tr.RenameTask(p.ID, day, rest[0], strings.Join(rest[1:], " ")); err != nil {
		return c.reportRejection(err)
	}

	fmt.Fprintf(c.stdout, "Renamed task %s on %s\n", rest[0], day)
	return 0
}

func (c *cli) cmdDelete(args []string) int {
	day, p, rest, ok := c.taskFlags("delete", args)
	if !ok {
		return 1
	}
	if len(rest) != 1 {
		c.logger.Error("usage: daylist delete [-date YYYY-MM-DD] [-project id] <task-id>")
		return 1
	}

	if err := c.tr.DeleteTask(p.ID, day, rest[0]); err != nil {
		return c.reportRejection(err)
	}

	fmt.Fprintf(c.stdout, "Deleted task %s from %s\n", rest[0], day)
	return 0
}

func (c *cli) cmdClear(args []string) int {
	day, p, _, ok := c.taskFlags("clear", args)
	if !ok {
		return 1
	}

	if err := c.tr.ClearCompleted(p.ID, day); err != nil {
		return c.reportRejection(err)
	}

	fmt.Fprintf(c.stdout, "Cleared completed tasks from %q on %s\n", p.Name, day)
	return 0
}

func (c *cli) cmdStats(args []string) int {
	day, p, _, ok := c.taskFlags("stats", args)
	if !ok {
		return 1
	}

	stats := query.WeeklyStats(p, day, query.DefaultWeekWindow)
	fmt.Fprintf(c.stdout, "[%s] last %d days: %d%% complete (%d/%d)\n",
		p.Name, query.DefaultWeekWindow, stats.OverallRatioPercent, stats.TotalCompleted, stats.TotalTasks)
	for _, d := range stats.PerDay {
		fmt.Fprintf(c.stdout, "%s  %d/%d (%d%%)\n", d.Date, d.Completed, d.Total, d.RatioPercent)
	}
	return 0
}

func (c *cli) cmdRecent(args []string) int {
	fs := flag.NewFlagSet("recent", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	dateArg := fs.String("date", "", "anchor day (YYYY-MM-DD, default today)")
	projectArg := fs.String("project", "", "project id (default: selected project)")
	daysArg := fs.Int("days", query.DefaultRecentWindow, "trailing days to include")
	if err := fs.Parse(args); err != nil {
		c.logger.Error("invalid flags", "error", err)
		return 1
	}

	day, ok := c.resolveDay(*dateArg)
	if !ok {
		return 1
	}
	p, ok := c.resolveProject(*projectArg)
	if !ok {
		return 1
	}

	// Clamp before formatting so the messages report the window
	// actually searched.
	days := *daysArg
	if days <= 0 {
		days = query.DefaultRecentWindow
	}

	entries := query.RecentCompleted(p, day, days)
	if len(entries) == 0 {
		fmt.Fprintf(c.stdout, "[%s] no completed tasks in the %d days before %s\n", p.Name, days, day)
		return 0
	}

	fmt.Fprintf(c.stdout, "[%s] completed in the %d days before %s:\n", p.Name, days, day)
	for _, e := range entries {
		fmt.Fprintf(c.stdout, "%dd ago  %s\n", e.DayOffset, e.Task.Text)
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
