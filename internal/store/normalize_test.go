package store_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/daylist-app/daylist/internal/datekey"
	"github.com/daylist-app/daylist/internal/ident"
	"github.com/daylist-app/daylist/internal/store"
)

const testToday = datekey.Key("2024-03-10")

// seqGenerator produces deterministic kind-prefixed identifiers so
// tests can assert on generated ids.
type seqGenerator struct {
	n int
}

func (g *seqGenerator) NewID(kind ident.Kind) string {
	g.n++
	return fmt.Sprintf("%s-%d", kind, g.n)
}

// mustValid fails the test unless s satisfies every store invariant.
func mustValid(t *testing.T, s *store.Store) {
	t.Helper()
	if s == nil {
		t.Fatal("Normalize returned nil store")
	}
	if len(s.Projects) == 0 {
		t.Fatal("store has no projects")
	}
	if s.ProjectByID(s.SelectedProjectID) == nil {
		t.Fatalf("selectedProjectId %q does not resolve", s.SelectedProjectID)
	}
	for _, p := range s.Projects {
		if p.ID == "" {
			t.Error("project with empty id")
		}
		if p.Name == "" {
			t.Error("project with empty name")
		}
		if p.TodosByDate == nil {
			t.Errorf("project %q has nil todosByDate", p.Name)
		}
		for day, tasks := range p.TodosByDate {
			for _, task := range tasks {
				if task.ID == "" {
					t.Errorf("task with empty id on %s", day)
				}
				if task.Text == "" {
					t.Errorf("task with empty text on %s", day)
				}
				if task.CompletedAt != nil && !task.Completed {
					t.Errorf("open task %q carries a completedAt stamp: %v",
						task.Text, *task.CompletedAt)
				}
			}
		}
	}
}

// ---------------------------------------------------------------------------
// Fallback branches: absent, unparseable, non-object input
// ---------------------------------------------------------------------------

func Test_Normalize_FreshFallbacks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  []byte
	}{
		{name: "nil input", raw: nil},
		{name: "empty input", raw: []byte("")},
		{name: "whitespace only", raw: []byte("  \n\t ")},
		{name: "malformed json", raw: []byte(`{"projects": [`)},
		{name: "bare string", raw: []byte(`"hello"`)},
		{name: "bare number", raw: []byte(`42`)},
		{name: "bare boolean", raw: []byte(`true`)},
		{name: "null", raw: []byte(`null`)},
		{name: "object with nothing usable", raw: []byte(`{"unrelated": 1}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := store.Normalize(tt.raw, testToday, &seqGenerator{})
			mustValid(t, s)

			if len(s.Projects) != 1 {
				t.Fatalf("got %d projects, want 1", len(s.Projects))
			}
			p := s.Projects[0]
			if p.Name != store.DefaultProjectName {
				t.Errorf("project name: got %q, want %q", p.Name, store.DefaultProjectName)
			}
			if len(p.TodosByDate) != 0 {
				t.Errorf("fresh store should have no tasks, got %d dates", len(p.TodosByDate))
			}
			if s.SelectedProjectID != p.ID {
				t.Errorf("selected %q, want the default project %q", s.SelectedProjectID, p.ID)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Legacy shapes
// ---------------------------------------------------------------------------

func Test_Normalize_LegacyFlatList_LandsUnderToday(t *testing.T) {
	t.Parallel()

	raw := []byte(`[
		{"id": "t1", "text": "buy milk", "completed": false},
		{"id": "t2", "text": "call mom", "completed": true, "completedAt": 1700000000000}
	]`)

	s := store.Normalize(raw, testToday, &seqGenerator{})
	mustValid(t, s)

	if len(s.Projects) != 1 {
		t.Fatalf("got %d projects, want 1", len(s.Projects))
	}
	p := s.Projects[0]
	if p.Name != store.DefaultProjectName {
		t.Errorf("project name: got %q, want %q", p.Name, store.DefaultProjectName)
	}

	tasks := p.TasksOn(testToday)
	if len(tasks) != 2 {
		t.Fatalf("tasks under today: got %d, want 2", len(tasks))
	}
	if tasks[0].Text != "buy milk" || tasks[1].Text != "call mom" {
		t.Errorf("task order not preserved: %q, %q", tasks[0].Text, tasks[1].Text)
	}
	if tasks[1].CompletedAt == nil || *tasks[1].CompletedAt != 1700000000000 {
		t.Errorf("completedAt not preserved: %v", tasks[1].CompletedAt)
	}
}

func Test_Normalize_LegacySingleProject_MigratesDateMap(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"todosByDate": {
			"2024-03-01": [{"id": "a", "text": "old task", "completed": false}],
			"2024-03-02": "not a list"
		}
	}`)

	s := store.Normalize(raw, testToday, &seqGenerator{})
	mustValid(t, s)

	if len(s.Projects) != 1 {
		t.Fatalf("got %d projects, want 1", len(s.Projects))
	}
	p := s.Projects[0]
	if p.Name != store.DefaultProjectName {
		t.Errorf("project name: got %q, want %q", p.Name, store.DefaultProjectName)
	}

	if got := p.TasksOn("2024-03-01"); len(got) != 1 || got[0].Text != "old task" {
		t.Errorf("2024-03-01 tasks wrong: %+v", got)
	}
	// Malformed date entries keep the key with an empty list.
	if got, ok := p.TodosByDate["2024-03-02"]; !ok {
		t.Error("malformed date entry was dropped, want preserved as empty list")
	} else if len(got) != 0 {
		t.Errorf("malformed date entry: got %d tasks, want 0", len(got))
	}
}

func Test_Normalize_TodosByDatePresentAndProjectsPresent_PrefersProjects(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"todosByDate": {"2024-01-01": []},
		"projects": [{"id": "p1", "name": "Real", "todosByDate": {}}],
		"selectedProjectId": "p1"
	}`)

	s := store.Normalize(raw, testToday, &seqGenerator{})
	mustValid(t, s)

	if len(s.Projects) != 1 || s.Projects[0].Name != "Real" {
		t.Errorf("expected the projects list to win, got %+v", s.Projects)
	}
}

// ---------------------------------------------------------------------------
// Project-list normalization
// ---------------------------------------------------------------------------

func Test_Normalize_ProjectRules(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"projects": [
			{"id": "p1", "name": "Work", "todosByDate": {}},
			{"id": 42, "name": "  Home  ", "todosByDate": {}},
			{"name": "   ", "todosByDate": {}},
			"not a project",
			null,
			{"id": "p5"}
		],
		"selectedProjectId": "p1"
	}`)

	s := store.Normalize(raw, testToday, &seqGenerator{})
	mustValid(t, s)

	if len(s.Projects) != 4 {
		t.Fatalf("got %d projects, want 4 (non-records discarded)", len(s.Projects))
	}

	if s.Projects[0].ID != "p1" || s.Projects[0].Name != "Work" {
		t.Errorf("project 0: got %q/%q", s.Projects[0].ID, s.Projects[0].Name)
	}
	if s.Projects[1].ID == "" || s.Projects[1].ID == "42" {
		t.Errorf("non-string id should be regenerated, got %q", s.Projects[1].ID)
	}
	if s.Projects[1].Name != "Home" {
		t.Errorf("name should be trimmed: got %q", s.Projects[1].Name)
	}
	if s.Projects[2].Name != store.UnnamedProjectName {
		t.Errorf("blank name should get placeholder: got %q", s.Projects[2].Name)
	}
	if s.Projects[3].TodosByDate == nil || len(s.Projects[3].TodosByDate) != 0 {
		t.Errorf("missing todosByDate should normalize to empty map: %+v", s.Projects[3].TodosByDate)
	}
	if s.SelectedProjectID != "p1" {
		t.Errorf("selection: got %q, want p1", s.SelectedProjectID)
	}
}

func Test_Normalize_EmptyProjectList_SubstitutesDefault(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  []byte
	}{
		{name: "empty array", raw: []byte(`{"projects": []}`)},
		{name: "all entries malformed", raw: []byte(`{"projects": [1, "two", null]}`)},
		{name: "projects not an array", raw: []byte(`{"projects": "nope"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := store.Normalize(tt.raw, testToday, &seqGenerator{})
			mustValid(t, s)
			if len(s.Projects) != 1 || s.Projects[0].Name != store.DefaultProjectName {
				t.Errorf("expected a single default project, got %+v", s.Projects)
			}
		})
	}
}

func Test_Normalize_InvalidSelection_AdoptsFirstProject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  []byte
	}{
		{
			name: "selection names missing project",
			raw:  []byte(`{"projects": [{"id": "p1", "name": "A"}, {"id": "p2", "name": "B"}], "selectedProjectId": "ghost"}`),
		},
		{
			name: "selection absent",
			raw:  []byte(`{"projects": [{"id": "p1", "name": "A"}, {"id": "p2", "name": "B"}]}`),
		},
		{
			name: "selection not a string",
			raw:  []byte(`{"projects": [{"id": "p1", "name": "A"}, {"id": "p2", "name": "B"}], "selectedProjectId": 7}`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := store.Normalize(tt.raw, testToday, &seqGenerator{})
			mustValid(t, s)
			if s.SelectedProjectID != "p1" {
				t.Errorf("selection: got %q, want first project p1", s.SelectedProjectID)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Task normalization rules
// ---------------------------------------------------------------------------

func Test_Normalize_TaskRules(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"projects": [{
			"id": "p1",
			"name": "Work",
			"todosByDate": {
				"2024-03-01": [
					{"id": "keep", "text": "good", "completed": false},
					{"id": 99, "text": "numeric id", "completed": false},
					{"text": "no id", "completed": false},
					{"id": "w", "text": "   ", "completed": false},
					{"id": "x", "text": 123, "completed": false},
					{"id": "y", "text": "  padded  ", "completed": false},
					"not a record",
					null,
					{"id": "z", "text": "stale stamp", "completed": false, "completedAt": 1700000000000},
					{"id": "c1", "text": "done", "completed": true, "completedAt": 1700000000000},
					{"id": "c2", "text": "done no stamp", "completed": true},
					{"id": "c3", "text": "numeric completed", "completed": 1},
					{"id": "c4", "text": "stringy completed", "completed": "yes"}
				]
			}
		}],
		"selectedProjectId": "p1"
	}`)

	s := store.Normalize(raw, testToday, &seqGenerator{})
	mustValid(t, s)

	tasks := s.Projects[0].TasksOn("2024-03-01")

	byID := func(id string) *store.Task {
		for _, task := range tasks {
			if task.ID == id {
				return task
			}
		}
		return nil
	}
	byText := func(text string) *store.Task {
		for _, task := range tasks {
			if task.Text == text {
				return task
			}
		}
		return nil
	}

	// Discards: blank text, non-textual text, non-records.
	if len(tasks) != 9 {
		t.Fatalf("got %d tasks, want 9", len(tasks))
	}

	if task := byID("keep"); task == nil {
		t.Error("string id should be kept")
	}
	if task := byText("numeric id"); task == nil || task.ID == "99" || task.ID == "" {
		t.Errorf("numeric id should be regenerated: %+v", task)
	}
	if task := byText("no id"); task == nil || task.ID == "" {
		t.Errorf("missing id should be generated: %+v", task)
	}
	if task := byText("padded"); task == nil {
		t.Error("text should be trimmed, not discarded")
	}
	if task := byID("z"); task == nil || task.CompletedAt != nil {
		t.Errorf("completedAt must be forced nil on open tasks: %+v", task)
	}
	if task := byID("c1"); task == nil || task.CompletedAt == nil || *task.CompletedAt != 1700000000000 {
		t.Errorf("completedAt should survive on completed tasks: %+v", task)
	}
	if task := byID("c2"); task == nil || !task.Completed {
		t.Errorf("completed without stamp should stay completed: %+v", task)
	}
	if task := byID("c3"); task == nil || !task.Completed {
		t.Errorf("nonzero number should coerce to completed: %+v", task)
	}
	if task := byID("c4"); task == nil || task.Completed {
		t.Errorf("non-boolean non-number should coerce to open: %+v", task)
	}
}

// ---------------------------------------------------------------------------
// Round-trip and idempotence
// ---------------------------------------------------------------------------

func Test_Normalize_RoundTrip(t *testing.T) {
	t.Parallel()

	ts := int64(1700000000000)
	original := &store.Store{
		Projects: []*store.Project{
			{
				ID:   "p1",
				Name: "Work",
				TodosByDate: map[datekey.Key][]*store.Task{
					"2024-03-09": {
						{ID: "t1", Text: "ship it", Completed: true, CompletedAt: &ts},
						{ID: "t2", Text: "review", Completed: false},
					},
				},
			},
			{ID: "p2", Name: "Home", TodosByDate: map[datekey.Key][]*store.Task{}},
		},
		SelectedProjectID: "p2",
	}

	data, err := original.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	got := store.Normalize(data, testToday, &seqGenerator{})
	mustValid(t, got)

	gotData, err := got.Serialize()
	if err != nil {
		t.Fatalf("Serialize(normalized): %v", err)
	}
	if string(gotData) != string(data) {
		t.Errorf("round-trip changed the store:\noriginal:\n%s\nnormalized:\n%s", data, gotData)
	}
}

func Test_Normalize_Idempotent(t *testing.T) {
	t.Parallel()

	// Start from a messy legacy input, normalize, serialize, and check
	// a second pass is a no-op.
	raw := []byte(`[
		{"id": "t1", "text": " first ", "completed": "weird"},
		{"text": "second", "completed": true, "completedAt": 123}
	]`)

	first := store.Normalize(raw, testToday, &seqGenerator{})
	data1, err := first.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	second := store.Normalize(data1, testToday, &seqGenerator{n: 100})
	data2, err := second.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	if string(data1) != string(data2) {
		t.Errorf("second normalization changed the store:\nfirst:\n%s\nsecond:\n%s", data1, data2)
	}
}

func Test_Serialize_EmitsStableShape(t *testing.T) {
	t.Parallel()

	s := store.Normalize(nil, testToday, &seqGenerator{})
	data, err := s.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	if data[len(data)-1] != '\n' {
		t.Error("serialized snapshot should end with a newline")
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}
	if _, ok := decoded["projects"]; !ok {
		t.Error("snapshot missing projects field")
	}
	if _, ok := decoded["selectedProjectId"]; !ok {
		t.Error("snapshot missing selectedProjectId field")
	}
}
