package store_test

import (
	"strings"
	"testing"

	"github.com/daylist-app/daylist/internal/datekey"
	"github.com/daylist-app/daylist/internal/store"
)

func twoProjectStore() *store.Store {
	return &store.Store{
		Projects: []*store.Project{
			{ID: "p1", Name: "Work", TodosByDate: map[datekey.Key][]*store.Task{}},
			{ID: "p2", Name: "Home", TodosByDate: map[datekey.Key][]*store.Task{}},
		},
		SelectedProjectID: "p1",
	}
}

func Test_ProjectByID(t *testing.T) {
	t.Parallel()

	s := twoProjectStore()
	if p := s.ProjectByID("p2"); p == nil || p.Name != "Home" {
		t.Errorf("ProjectByID(p2): got %+v", p)
	}
	if p := s.ProjectByID("ghost"); p != nil {
		t.Errorf("ProjectByID(ghost): got %+v, want nil", p)
	}
}

func Test_SelectedProject_AdoptsFirstOnBrokenSelection(t *testing.T) {
	t.Parallel()

	s := twoProjectStore()
	s.SelectedProjectID = "ghost"

	p, adopted := s.SelectedProject()
	if !adopted {
		t.Error("expected adoption to be reported")
	}
	if p.ID != "p1" {
		t.Errorf("adopted project: got %q, want p1", p.ID)
	}
	if s.SelectedProjectID != "p1" {
		t.Errorf("selection after adoption: got %q, want p1", s.SelectedProjectID)
	}

	// A valid selection reports no adoption.
	s.SelectedProjectID = "p2"
	p, adopted = s.SelectedProject()
	if adopted || p.ID != "p2" {
		t.Errorf("valid selection: got %q adopted=%v", p.ID, adopted)
	}
}

func Test_HasName_IsCaseInsensitive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		candidate string
		exclude   string
		want      bool
	}{
		{name: "exact match", candidate: "Work", exclude: "", want: true},
		{name: "case variant", candidate: "wOrK", exclude: "", want: true},
		{name: "no match", candidate: "Garden", exclude: "", want: false},
		{name: "excluding the owner itself", candidate: "Work", exclude: "p1", want: false},
		{name: "excluding a different project", candidate: "Work", exclude: "p2", want: true},
	}

	s := twoProjectStore()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.HasName(tt.candidate, tt.exclude); got != tt.want {
				t.Errorf("HasName(%q, %q): got %v, want %v", tt.candidate, tt.exclude, got, tt.want)
			}
		})
	}
}

func Test_TasksOn_And_SetTasksOn(t *testing.T) {
	t.Parallel()

	p := &store.Project{ID: "p1", Name: "Work"}

	if got := p.TasksOn("2024-03-01"); got != nil {
		t.Errorf("TasksOn on empty project: got %v, want nil", got)
	}

	// SetTasksOn must work even when the map was never initialized
	// (e.g. a project built by hand in tests).
	p.SetTasksOn("2024-03-01", []*store.Task{{ID: "t1", Text: "x"}})
	if got := p.TasksOn("2024-03-01"); len(got) != 1 || got[0].ID != "t1" {
		t.Errorf("TasksOn after SetTasksOn: got %+v", got)
	}
}

func Test_Serialize_NormalizesNilDateMaps(t *testing.T) {
	t.Parallel()

	s := &store.Store{
		Projects:          []*store.Project{{ID: "p1", Name: "Work"}},
		SelectedProjectID: "p1",
	}

	data, err := s.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	// A nil map must serialize as {} rather than null so the snapshot
	// stays shape-stable.
	if want := `"todosByDate": {}`; !strings.Contains(string(data), want) {
		t.Errorf("serialized snapshot missing %q:\n%s", want, data)
	}
}
