// Package store defines the canonical in-memory model for the tracker:
// projects, their per-day task lists, and the selected-project pointer.
// It also provides serialization and the normalizer that reconciles
// arbitrary persisted input into that model.
//
// The JSON tags use camelCase to stay byte-compatible with snapshots
// written by earlier versions of the application.
package store

import (
	"encoding/json"
	"strings"

	"github.com/daylist-app/daylist/internal/datekey"
)

// DefaultProjectName is the name given to the project created when no
// usable persisted state exists.
const DefaultProjectName = "Default Project"

// UnnamedProjectName substitutes for a persisted project whose name is
// missing, non-textual, or blank.
const UnnamedProjectName = "Unnamed Project"

// Task is a single to-do entry.
//
// Invariant: CompletedAt is non-nil if and only if Completed is true.
// Mutations maintain this, not just the normalizer.
type Task struct {
	// ID is an opaque unique identifier.
	ID string `json:"id"`

	// Text is the task description, non-empty after trimming.
	Text string `json:"text"`

	// Completed reports whether the task is done.
	Completed bool `json:"completed"`

	// CompletedAt is the completion time in Unix milliseconds, or nil
	// while the task is open.
	CompletedAt *int64 `json:"completedAt"`
}

// Project is a named grouping of tasks partitioned by calendar day.
type Project struct {
	// ID is an opaque unique identifier.
	ID string `json:"id"`

	// Name is non-empty after trimming and case-insensitively unique
	// across the store.
	Name string `json:"name"`

	// TodosByDate maps a day to its ordered task list, newest first.
	TodosByDate map[datekey.Key][]*Task `json:"todosByDate"`
}

// TasksOn returns the task list for the given day, or nil if the day
// has no entry.
func (p *Project) TasksOn(day datekey.Key) []*Task {
	return p.TodosByDate[day]
}

// SetTasksOn replaces the task list for the given day.
func (p *Project) SetTasksOn(day datekey.Key, tasks []*Task) {
	if p.TodosByDate == nil {
		p.TodosByDate = make(map[datekey.Key][]*Task)
	}
	p.TodosByDate[day] = tasks
}

// Store is the full application state: every project plus the selection.
//
// Invariants: Projects is never empty, and SelectedProjectID always
// names a member of Projects.
type Store struct {
	Projects          []*Project `json:"projects"`
	SelectedProjectID string     `json:"selectedProjectId"`
}

// ProjectByID returns the project with the given id, or nil.
func (s *Store) ProjectByID(id string) *Project {
	for _, p := range s.Projects {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// SelectedProject returns the currently selected project. If the
// selection does not resolve it adopts the first project and reports
// the adoption, so the caller can persist the repaired selection.
func (s *Store) SelectedProject() (*Project, bool) {
	if p := s.ProjectByID(s.SelectedProjectID); p != nil {
		return p, false
	}
	s.SelectedProjectID = s.Projects[0].ID
	return s.Projects[0], true
}

// HasName reports whether any project other than excludeID already uses
// name, comparing case-insensitively.
func (s *Store) HasName(name, excludeID string) bool {
	for _, p := range s.Projects {
		if p.ID != excludeID && strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

// Serialize encodes the store as indented JSON with a trailing newline.
// The output is the persisted snapshot format: stable field tags,
// human-diffable layout.
func (s *Store) Serialize() ([]byte, error) {
	for _, p := range s.Projects {
		if p.TodosByDate == nil {
			p.TodosByDate = make(map[datekey.Key][]*Task)
		}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
