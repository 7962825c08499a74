package storage_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rampart/rampart/resource"
	"github.com/rampart/rampart/resource/encoding/json"
	"github.com/rampart/rampart/storage"
	"github.com/rampart/rampart/storage/kvbackend"
)

func newKV() *storage.KV {
	reg := resource.RegistryFromDefinitions(&mockDef{})
	return &storage.KV{
		Backend: &kvbackend.Memory{},
		Codec:   &json.Encoder{Registry: reg},
	}
}

var byName = cmpopts.SortSlices(func(a, b resource.Resource) bool {
	return a.Name < b.Name
})

func TestKV_listEmpty(t *testing.T) {
	s := newKV()
	got, err := s.List(context.Background(), "default", "site")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("List() on empty store returned %d resources", len(got))
	}
}

func TestKV_putList(t *testing.T) {
	s := newKV()
	ctx := context.Background()

	service := resource.Resource{ID: "id1", Name: "cdn", Def: &mockDef{Value: "foo"}, Hash: "h1"}
	edge := resource.Resource{
		ID:   "id2",
		Name: "edge",
		Def:  &mockDef{Value: "bar"},
		Deps: []resource.Dependency{{Type: "mock", Name: "cdn"}},
		Hash: "h2",
	}
	for _, res := range []resource.Resource{service, edge} {
		if err := s.Put(ctx, "default", "site", res); err != nil {
			t.Fatalf("Put(%s) error = %v", res.Name, err)
		}
	}

	got, err := s.List(ctx, "default", "site")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []resource.Resource{service, edge}
	if diff := cmp.Diff(got, want, byName, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("List() (-got +want)\n%s", diff)
	}

	// Another project does not see the resources.
	got, err = s.List(ctx, "default", "other")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("List() for another project returned %d resources", len(got))
	}
}

func TestKV_delete(t *testing.T) {
	s := newKV()
	ctx := context.Background()

	res := resource.Resource{ID: "id1", Name: "cdn", Def: &mockDef{Value: "foo"}, Hash: "h1"}
	if err := s.Put(ctx, "default", "site", res); err != nil {
		t.Fatal(err)
	}

	if err := s.Delete(ctx, "default", "site", "mock", "nonexisting"); err == nil {
		t.Error("Delete() missing resource did not return an error")
	}

	if err := s.Delete(ctx, "default", "site", "mock", "cdn"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	got, err := s.List(ctx, "default", "site")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("List() after delete returned %d resources", len(got))
	}
}

type mockDef struct {
	Value string `rampart:"input"`
}

func (m *mockDef) Type() string                                                { return "mock" }
func (m *mockDef) Create(ctx context.Context, r *resource.CreateRequest) error { return nil }
func (m *mockDef) Update(ctx context.Context, r *resource.UpdateRequest) error { return nil }
func (m *mockDef) Delete(ctx context.Context, r *resource.DeleteRequest) error { return nil }
