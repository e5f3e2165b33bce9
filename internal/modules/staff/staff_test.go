package staff

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/begoneskadedjur/kundportal-sub014/internal/types"
)

type mockDirectory struct {
	techs   []Technician
	err     error
	filters []Filter
}

func (m *mockDirectory) ListTechnicians(_ context.Context, f Filter) ([]Technician, error) {
	m.filters = append(m.filters, f)
	return m.techs, m.err
}

func tech(id, name, home string, active bool, skills ...string) Technician {
	var week types.WeeklyWorkTemplate
	week[time.Monday] = types.DayTemplate{Start: 8 * 60, End: 16 * 60, Active: true}
	return Technician{ID: types.ID(id), Name: name, HomeAddress: types.NewAddress(home), Active: active, Skills: skills, WorkTemplate: week}
}

func TestCompetent_FiltersSkillActiveAndHome(t *testing.T) {
	dir := &mockDirectory{techs: []Technician{
		tech("t1", "Anna", "Home A", true, "Rats", "wasps"),
		tech("t2", "Bo", "Home B", false, "rats"),
		tech("t3", "Cia", "", true, "rats"),
		tech("t4", "Dan", "Home D", true, "bedbugs"),
	}}
	got, err := NewResolver(dir, nil).Competent(context.Background(), "RATS", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "t1" {
		t.Fatalf("expected only t1, got %+v", got)
	}
	if f := dir.filters[0]; !f.ActiveOnly || f.Skill != "RATS" {
		t.Fatalf("unexpected filter %+v", f)
	}
}

func TestCompetent_SkipsTechnicianWithoutWorkingDay(t *testing.T) {
	idle := tech("t2", "Bo", "Home B", true, "rats")
	idle.WorkTemplate = types.WeeklyWorkTemplate{}
	dir := &mockDirectory{techs: []Technician{tech("t1", "Anna", "Home A", true, "rats"), idle}}

	got, err := NewResolver(dir, nil).Competent(context.Background(), "rats", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "t1" {
		t.Fatalf("expected only t1, got %+v", got)
	}
}

func TestCompetent_RestrictsToSubset(t *testing.T) {
	dir := &mockDirectory{techs: []Technician{
		tech("t1", "Anna", "Home A", true, "rats"),
		tech("t2", "Bo", "Home B", true, "rats"),
	}}
	got, err := NewResolver(dir, nil).Competent(context.Background(), "rats", []types.ID{"t2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "t2" {
		t.Fatalf("expected only t2, got %+v", got)
	}
}

func TestCompetent_PropagatesDirectoryError(t *testing.T) {
	dir := &mockDirectory{err: errors.New("connection refused")}
	if _, err := NewResolver(dir, nil).Competent(context.Background(), "rats", nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestBuildListQuery(t *testing.T) {
	query, args := buildListQuery(Filter{Skill: " Rats ", ActiveOnly: true, IDs: []types.ID{"a", "b"}})
	if !strings.Contains(query, "lower(s) = $1") || !strings.Contains(query, "id::text = ANY($2)") {
		t.Fatalf("unexpected query: %s", query)
	}
	if !strings.Contains(query, "is_active") {
		t.Fatalf("expected active clause: %s", query)
	}
	if len(args) != 2 || args[0] != "rats" {
		t.Fatalf("unexpected args %v", args)
	}

	query, args = buildListQuery(Filter{})
	if strings.Contains(query, "WHERE") || len(args) != 0 {
		t.Fatalf("expected unfiltered query, got %s %v", query, args)
	}
}
