// Package tracker implements the mutation layer: every operation
// validates its arguments, applies the change to the in-memory store,
// and persists the full snapshot as one unit.
//
// There is exactly one logical writer; operations are synchronous and
// run to completion, so a rejected operation leaves both memory and
// the snapshot untouched. Stale identifiers (a task or project deleted
// out from under the UI) are silent no-ops, not errors.
package tracker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/daylist-app/daylist/internal/datekey"
	"github.com/daylist-app/daylist/internal/ident"
	"github.com/daylist-app/daylist/internal/storage"
	"github.com/daylist-app/daylist/internal/store"
)

// Validation rejections surfaced to callers. Each aborts the operation
// with no state change and no snapshot write.
var (
	// ErrEmptyName rejects a project name that is empty after trimming.
	ErrEmptyName = errors.New("project name is empty")

	// ErrDuplicateName rejects a project name already in use,
	// case-insensitively, by another project.
	ErrDuplicateName = errors.New("project name already in use")

	// ErrEmptyText rejects task text that is empty after trimming.
	ErrEmptyText = errors.New("task text is empty")
)

// Tracker owns the application state and its persistence round-trip.
//
// All collaborators are explicit fields rather than package globals, so
// tests can substitute a fake clock, id source, or backend.
type Tracker struct {
	store   *store.Store
	backend storage.SnapshotBackend
	ids     ident.Generator
	clock   Clock
}

// New creates a Tracker and loads its state from the backend.
//
// The persisted snapshot is normalized into canonical shape; if
// normalization changed anything observable (fresh store, migrated
// legacy shape, repaired selection), the canonical form is persisted
// back immediately so the next load starts clean.
func New(backend storage.SnapshotBackend, ids ident.Generator, clock Clock) (*Tracker, error) {
	t := &Tracker{backend: backend, ids: ids, clock: clock}
	if err := t.load(); err != nil {
		return nil, err
	}
	return t, nil
}

// load reads the snapshot, normalizes it, and writes the canonical form
// back when it differs from what was stored.
func (t *Tracker) load() error {
	raw, err := t.backend.LoadSnapshot()
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	t.store = store.Normalize(raw, t.clock.Today(), t.ids)

	canonical, err := t.store.Serialize()
	if err != nil {
		return fmt.Errorf("failed to serialize store: %w", err)
	}
	if string(raw) != string(canonical) {
		if err := t.backend.SaveSnapshot(canonical); err != nil {
			return fmt.Errorf("failed to persist normalized snapshot: %w", err)
		}
	}

	return nil
}

// save serializes the current store and replaces the snapshot.
func (t *Tracker) save() error {
	data, err := t.store.Serialize()
	if err != nil {
		return fmt.Errorf("failed to serialize store: %w", err)
	}
	if err := t.backend.SaveSnapshot(data); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Store exposes the canonical state for the query layer and
// presentation collaborators. Callers must not mutate it directly.
func (t *Tracker) Store() *store.Store {
	return t.store
}

// Today returns the tracker clock's current calendar day.
func (t *Tracker) Today() datekey.Key {
	return t.clock.Today()
}

// SelectedProject returns the currently selected project, repairing and
// persisting the selection if it no longer resolves.
func (t *Tracker) SelectedProject() (*store.Project, error) {
	p, adopted := t.store.SelectedProject()
	if adopted {
		if err := t.save(); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// CreateProject creates a new project with the trimmed name, appends it
// to the store, and selects it.
//
// Returns ErrEmptyName or ErrDuplicateName on validation failure.
func (t *Tracker) CreateProject(name string) (*store.Project, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrEmptyName
	}
	if t.store.HasName(trimmed, "") {
		return nil, ErrDuplicateName
	}

	p := &store.Project{
		ID:          t.ids.NewID(ident.KindProject),
		Name:        trimmed,
		TodosByDate: make(map[datekey.Key][]*store.Task),
	}
	t.store.Projects = append(t.store.Projects, p)
	t.store.SelectedProjectID = p.ID

	if err := t.save(); err != nil {
		return nil, err
	}
	return p, nil
}

// RenameProject renames the project with the given id in place,
// applying the same validation as CreateProject but excluding the
// project itself from the collision check.
//
// A stale id is a silent no-op.
func (t *Tracker) RenameProject(id, newName string) error {
	p := t.store.ProjectByID(id)
	if p == nil {
		return nil
	}

	trimmed := strings.TrimSpace(newName)
	if trimmed == "" {
		return ErrEmptyName
	}
	if t.store.HasName(trimmed, p.ID) {
		return ErrDuplicateName
	}

	p.Name = trimmed
	return t.save()
}

// SelectProject sets the selection to id if it names an existing
// project; otherwise it is a silent no-op.
func (t *Tracker) SelectProject(id string) error {
	if t.store.ProjectByID(id) == nil {
		return nil
	}
	t.store.SelectedProjectID = id
	return t.save()
}

// AddTask prepends a new open task to the project's list for the given
// day. Newest-first ordering is the contract: the latest addition is
// always at the head.
//
// Returns ErrEmptyText if the trimmed text is empty. A stale project id
// is a silent no-op returning (nil, nil); callers must check the task
// for nil before use.
func (t *Tracker) AddTask(projectID string, day datekey.Key, text string) (*store.Task, error) {
	p := t.store.ProjectByID(projectID)
	if p == nil {
		return nil, nil
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyText
	}

	task := &store.Task{
		ID:   t.ids.NewID(ident.KindTask),
		Text: trimmed,
	}
	p.SetTasksOn(day, append([]*store.Task{task}, p.TasksOn(day)...))

	if err := t.save(); err != nil {
		return nil, err
	}
	return task, nil
}

// ToggleTask flips the completion state of the identified task, setting
// completedAt to the current time when it becomes completed and
// clearing it when it reopens.
//
// A stale id is a silent no-op.
func (t *Tracker) ToggleTask(projectID string, day datekey.Key, taskID string) error {
	task := t.findTask(projectID, day, taskID)
	if task == nil {
		return nil
	}

	task.Completed = !task.Completed
	if task.Completed {
		ts := t.clock.Now().UnixMilli()
		task.CompletedAt = &ts
	} else {
		task.CompletedAt = nil
	}

	return t.save()
}

// RenameTask replaces the identified task's text in place, preserving
// its position and completion state.
//
// Returns ErrEmptyText if the trimmed text is empty; a stale id is a
// silent no-op.
func (t *Tracker) RenameTask(projectID string, day datekey.Key, taskID, newText string) error {
	task := t.findTask(projectID, day, taskID)
	if task == nil {
		return nil
	}

	trimmed := strings.TrimSpace(newText)
	if trimmed == "" {
		return ErrEmptyText
	}

	task.Text = trimmed
	return t.save()
}

// DeleteTask removes the identified task from the day's list. A stale
// id is a silent no-op.
func (t *Tracker) DeleteTask(projectID string, day datekey.Key, taskID string) error {
	p := t.store.ProjectByID(projectID)
	if p == nil {
		return nil
	}

	tasks := p.TasksOn(day)
	kept := make([]*store.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.ID != taskID {
			kept = append(kept, task)
		}
	}
	if len(kept) == len(tasks) {
		return nil
	}

	p.SetTasksOn(day, kept)
	return t.save()
}

// ClearCompleted removes every completed task from the day's list,
// leaving other days untouched.
func (t *Tracker) ClearCompleted(projectID string, day datekey.Key) error {
	p := t.store.ProjectByID(projectID)
	if p == nil {
		return nil
	}

	tasks := p.TasksOn(day)
	kept := make([]*store.Task, 0, len(tasks))
	for _, task := range tasks {
		if !task.Completed {
			kept = append(kept, task)
		}
	}
	if len(kept) == len(tasks) {
		return nil
	}

	p.SetTasksOn(day, kept)
	return t.save()
}

// findTask locates a task by project, day, and id, or returns nil.
func (t *Tracker) findTask(projectID string, day datekey.Key, taskID string) *store.Task {
	p := t.store.ProjectByID(projectID)
	if p == nil {
		return nil
	}
	for _, task := range p.TasksOn(day) {
		if task.ID == taskID {
			return task
		}
	}
	return nil
}
