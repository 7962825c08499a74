package teststore_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rampart/rampart/resource"
	"github.com/rampart/rampart/storage/teststore"
)

func TestStore(t *testing.T) {
	s := &teststore.Store{}
	ctx := context.Background()

	resA := resource.Resource{ID: "1", Name: "a", Def: &site{Name: "a"}}
	resB := resource.Resource{ID: "2", Name: "b", Def: &site{Name: "b"}}

	// Create
	if err := s.Put(ctx, "ns", "proj", resA); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, "ns", "proj", resB); err != nil {
		t.Fatal(err)
	}

	got, err := s.List(ctx, "ns", "proj")
	if err != nil {
		t.Fatal(err)
	}
	want := []resource.Resource{resA, resB}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("List() (-got +want)\n%s", diff)
	}

	// Update
	update := resource.Resource{ID: "1", Name: "a", Def: &site{Name: "A"}}
	if err := s.Put(ctx, "ns", "proj", update); err != nil {
		t.Fatal(err)
	}

	// Delete
	if err := s.Delete(ctx, "ns", "proj", "site", "b"); err != nil {
		t.Fatal(err)
	}

	got, err = s.List(ctx, "ns", "proj")
	if err != nil {
		t.Fatal(err)
	}
	want = []resource.Resource{update}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("List() (-got +want)\n%s", diff)
	}
}

func TestStore_projectsIsolated(t *testing.T) {
	s := &teststore.Store{}
	ctx := context.Background()

	s.Seed("ns", "a", []resource.Resource{{ID: "1", Name: "x", Def: &site{}}})
	s.Seed("ns", "b", []resource.Resource{{ID: "2", Name: "y", Def: &site{}}})

	got, err := s.List(ctx, "ns", "a")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "x" {
		t.Errorf("List() = %v, want resource x only", got)
	}
}

func TestRecorder(t *testing.T) {
	r := &teststore.Recorder{Store: &teststore.Store{}}
	ctx := context.Background()

	res := resource.Resource{ID: "1", Name: "a", Def: &site{Name: "a"}}
	if err := r.Put(ctx, "ns", "proj", res); err != nil {
		t.Fatal(err)
	}
	if _, err := r.List(ctx, "ns", "proj"); err != nil {
		t.Fatal(err)
	}
	if err := r.Delete(ctx, "ns", "proj", "site", "a"); err != nil {
		t.Fatal(err)
	}

	want := teststore.Events{
		{Method: "Put", Project: "ns/proj", Data: res},
		{Method: "List", Project: "ns/proj"},
		{Method: "Delete", Project: "ns/proj", Data: "site:a"},
	}
	if diff := r.Events.Diff(want); diff != "" {
		t.Errorf("Events (-got +want)\n%s", diff)
	}
}

type site struct {
	Name string `rampart:"input"`
	ID   string `rampart:"output"`
}

func (s *site) Type() string { return "site" }

func (s *site) Create(ctx context.Context, req *resource.CreateRequest) error { return nil }
func (s *site) Update(ctx context.Context, req *resource.UpdateRequest) error { return nil }
func (s *site) Delete(ctx context.Context, req *resource.DeleteRequest) error { return nil }
