package core_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rampart/rampart/core"
	"github.com/rampart/rampart/resource"
	"go.uber.org/zap/zaptest"
)

type stateFunc func(ctx context.Context, ns, project string) ([]resource.Resource, error)

func (f stateFunc) List(ctx context.Context, ns, project string) ([]resource.Resource, error) {
	return f(ctx, ns, project)
}

func TestApp_List(t *testing.T) {
	dir, done := projectDir(t, map[string]string{
		"site.hcl": `
project "test" {}
`,
	})
	defer done()

	stored := []resource.Resource{
		{ID: "3", Name: "b", Def: &site{Name: "b"}},
		{ID: "2", Name: "a", Def: &site{Name: "a"}},
		{ID: "1", Name: "a", Def: &alias{Target: "x"}},
	}

	var gotNS, gotProject string
	app := &core.App{
		Logger:   zaptest.NewLogger(t),
		Registry: resource.RegistryFromDefinitions(&site{}, &alias{}),
		State: stateFunc(func(ctx context.Context, ns, project string) ([]resource.Resource, error) {
			gotNS, gotProject = ns, project
			return stored, nil
		}),
	}

	got, err := app.List(context.Background(), dir, "ns")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if gotNS != "ns" || gotProject != "test" {
		t.Errorf("State queried with %s/%s, want ns/test", gotNS, gotProject)
	}

	want := []resource.Resource{
		{ID: "1", Name: "a", Def: &alias{Target: "x"}},
		{ID: "2", Name: "a", Def: &site{Name: "a"}},
		{ID: "3", Name: "b", Def: &site{Name: "b"}},
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("List() (-got +want)\n%s", diff)
	}
}
