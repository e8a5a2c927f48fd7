package store

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/daylist-app/daylist/internal/datekey"
	"github.com/daylist-app/daylist/internal/ident"
)

// Normalize reconciles arbitrary persisted input into a valid Store.
//
// It never fails: malformed, legacy-shaped, or absent input always
// yields a Store satisfying every model invariant. The branches run in
// priority order:
//
//  1. Absent or unparseable input: fresh store with one default project.
//  2. Bare JSON array: legacy flat task list, placed under today inside
//     a fresh default project.
//  3. Non-object input: same fallback as (1).
//  4. Object with a todosByDate field but no projects field: legacy
//     single-project shape.
//  5. Otherwise: normalize the project list, substituting one default
//     project if it comes out empty, and re-resolve the selection.
//
// Rather than probing runtime types, each branch attempts a decode into
// its candidate shape and falls through on failure.
//
// The today key anchors where a legacy flat list lands; ids supplies
// identifiers for generated projects and for tasks persisted without one.
func Normalize(raw []byte, today datekey.Key, ids ident.Generator) *Store {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return freshStore(ids)
	}

	// Branch 2: the earliest persisted format was a bare task array.
	// Gated on the leading byte because JSON null also decodes into a
	// slice; null must fall through to the fresh-store path instead.
	if trimmed[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(trimmed, &list); err == nil {
			p := newDefaultProject(ids)
			p.SetTasksOn(today, normalizeTasks(list, ids))
			return &Store{Projects: []*Project{p}, SelectedProjectID: p.ID}
		}
	}

	// Branches 1/3: anything that is not a keyed record starts fresh.
	var probe struct {
		Projects          json.RawMessage `json:"projects"`
		TodosByDate       json.RawMessage `json:"todosByDate"`
		SelectedProjectID json.RawMessage `json:"selectedProjectId"`
	}
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return freshStore(ids)
	}

	// Branch 4: single-project shape predating the projects list.
	if jsonPresent(probe.TodosByDate) && !jsonPresent(probe.Projects) {
		p := newDefaultProject(ids)
		p.TodosByDate = normalizeDateMap(probe.TodosByDate, ids)
		return &Store{Projects: []*Project{p}, SelectedProjectID: p.ID}
	}

	// Branch 5: current multi-project shape.
	projects := normalizeProjects(probe.Projects, ids)
	if len(projects) == 0 {
		projects = []*Project{newDefaultProject(ids)}
	}

	var selected string
	_ = json.Unmarshal(probe.SelectedProjectID, &selected)

	s := &Store{Projects: projects, SelectedProjectID: selected}
	if s.ProjectByID(selected) == nil {
		s.SelectedProjectID = projects[0].ID
	}
	return s
}

// freshStore returns a store holding one empty default project.
func freshStore(ids ident.Generator) *Store {
	p := newDefaultProject(ids)
	return &Store{Projects: []*Project{p}, SelectedProjectID: p.ID}
}

// newDefaultProject returns an empty project with the default name.
func newDefaultProject(ids ident.Generator) *Project {
	return &Project{
		ID:          ids.NewID(ident.KindProject),
		Name:        DefaultProjectName,
		TodosByDate: make(map[datekey.Key][]*Task),
	}
}

// jsonPresent reports whether a raw field was present with a non-null
// value.
func jsonPresent(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

// normalizeTasks applies the per-task normalization rule to each
// element of a raw task list: elements that are not record-shaped or
// whose text is not textual are discarded, identifiers are kept only
// when already strings, text is trimmed (empty results discarded),
// completed is coerced to a boolean, and completedAt survives only on
// completed tasks.
func normalizeTasks(list []json.RawMessage, ids ident.Generator) []*Task {
	tasks := make([]*Task, 0, len(list))
	for _, elem := range list {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(elem, &fields); err != nil || fields == nil {
			continue
		}

		var text string
		if err := json.Unmarshal(fields["text"], &text); err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		var id string
		if err := json.Unmarshal(fields["id"], &id); err != nil || id == "" {
			id = ids.NewID(ident.KindTask)
		}

		completed := coerceBool(fields["completed"])

		var completedAt *int64
		if completed {
			var ts int64
			if err := json.Unmarshal(fields["completedAt"], &ts); err == nil {
				completedAt = &ts
			}
		}

		tasks = append(tasks, &Task{
			ID:          id,
			Text:        text,
			Completed:   completed,
			CompletedAt: completedAt,
		})
	}
	return tasks
}

// coerceBool maps a raw JSON value to a completion flag: boolean values
// are taken as-is, numbers count as true when nonzero, and everything
// else (including absence) is false.
func coerceBool(raw json.RawMessage) bool {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n != 0
	}
	return false
}

// normalizeDateMap normalizes a raw date-keyed record of task lists.
// Malformed per-date entries become empty lists rather than being
// dropped, so the date key itself always survives.
func normalizeDateMap(raw json.RawMessage, ids ident.Generator) map[datekey.Key][]*Task {
	out := make(map[datekey.Key][]*Task)

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return out
	}

	for day, value := range entries {
		var list []json.RawMessage
		if err := json.Unmarshal(value, &list); err != nil {
			out[datekey.Key(day)] = make([]*Task, 0)
			continue
		}
		out[datekey.Key(day)] = normalizeTasks(list, ids)
	}
	return out
}

// normalizeProjects normalizes a raw project list, keeping only
// record-shaped entries. Missing identifiers are generated, blank or
// non-textual names get the unnamed placeholder, and each todosByDate
// is normalized recursively.
func normalizeProjects(raw json.RawMessage, ids ident.Generator) []*Project {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}

	projects := make([]*Project, 0, len(list))
	for _, elem := range list {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(elem, &fields); err != nil || fields == nil {
			continue
		}

		var id string
		if err := json.Unmarshal(fields["id"], &id); err != nil || id == "" {
			id = ids.NewID(ident.KindProject)
		}

		name := UnnamedProjectName
		var rawName string
		if err := json.Unmarshal(fields["name"], &rawName); err == nil {
			if trimmed := strings.TrimSpace(rawName); trimmed != "" {
				name = trimmed
			}
		}

		projects = append(projects, &Project{
			ID:          id,
			Name:        name,
			TodosByDate: normalizeDateMap(fields["todosByDate"], ids),
		})
	}
	return projects
}
