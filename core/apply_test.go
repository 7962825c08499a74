package core_test

import (
	"bytes"
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rampart/rampart/core"
	"github.com/rampart/rampart/graph"
	"github.com/rampart/rampart/resource"
	"go.uber.org/zap/zaptest"
)

func TestApp_Apply(t *testing.T) {
	dir, done := projectDir(t, map[string]string{
		"site.hcl": `
project "test" {}

resource "web" {
	type = "site"
	name = "hello"
}
`,
	})
	defer done()

	rec := &recordReconciler{}
	app := testApp(t, rec)

	if err := app.Apply(context.Background(), dir, "ns"); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if rec.calls != 1 {
		t.Fatalf("Reconciler called %d times, want 1", rec.calls)
	}
	if rec.jobID == "" {
		t.Error("No job id assigned")
	}
	if rec.ns != "ns" {
		t.Errorf("Namespace = %q, want %q", rec.ns, "ns")
	}
	if rec.project != "test" {
		t.Errorf("Project = %q, want %q", rec.project, "test")
	}

	got := rec.graph.Resources["web"].Def
	want := &site{Name: "hello"}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Decoded definition (-got +want)\n%s", diff)
	}
}

func TestApp_Apply_fromSubdirectory(t *testing.T) {
	dir, done := projectDir(t, map[string]string{
		"site.hcl": `
project "test" {}

resource "web" {
	type = "site"
	name = "hello"
}
`,
	})
	defer done()

	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}

	rec := &recordReconciler{}
	app := testApp(t, rec)

	if err := app.Apply(context.Background(), sub, "ns"); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if rec.project != "test" {
		t.Errorf("Project = %q, want %q", rec.project, "test")
	}
}

func TestApp_Apply_noProject(t *testing.T) {
	dir, err := ioutil.TempDir("", "core")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	rec := &recordReconciler{}
	app := testApp(t, rec)

	err = app.Apply(context.Background(), dir, "ns")
	if err == nil {
		t.Fatal("Apply() returned nil error for a directory without a project")
	}
	if !strings.Contains(err.Error(), "no project found") {
		t.Errorf("Error = %q, want to contain %q", err, "no project found")
	}
	if rec.calls != 0 {
		t.Errorf("Reconciler called %d times, want 0", rec.calls)
	}
}

func TestApp_Apply_diagnostics(t *testing.T) {
	dir, done := projectDir(t, map[string]string{
		"site.hcl": `
project "test" {}

resource "web" {
	type = "sitte"
}
`,
	})
	defer done()

	rec := &recordReconciler{}
	app := testApp(t, rec)

	err := app.Apply(context.Background(), dir, "ns")
	derr, ok := err.(*core.DiagnosticsError)
	if !ok {
		t.Fatalf("Apply() error = %v, want *core.DiagnosticsError", err)
	}
	if len(derr.Diagnostics) == 0 {
		t.Error("No diagnostics returned")
	}
	if rec.calls != 0 {
		t.Errorf("Reconciler called %d times, want 0", rec.calls)
	}

	var buf bytes.Buffer
	derr.PrintDiagnostics(&buf)
	if !strings.Contains(buf.String(), "Resource not supported") {
		t.Errorf("Printed diagnostics do not mention the error:\n%s", buf.String())
	}
}

func TestApp_Apply_validation(t *testing.T) {
	dir, done := projectDir(t, map[string]string{
		"site.hcl": `
project "test" {}

resource "a" {
	type = "site"
}

resource "b" {
	type = "site"
}
`,
	})
	defer done()

	rec := &recordReconciler{}
	app := testApp(t, rec)

	err := app.Apply(context.Background(), dir, "ns")
	if err == nil {
		t.Fatal("Apply() returned nil error for invalid input")
	}
	for _, want := range []string{
		"validate site.a: name is required",
		"validate site.b: name is required",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Error = %q, want to contain %q", err, want)
		}
	}
	if rec.calls != 0 {
		t.Errorf("Reconciler called %d times, want 0", rec.calls)
	}
}

func TestApp_Apply_pendingInputNotValidated(t *testing.T) {
	// www.target is resolved from web.id during reconciliation. It is zero
	// at this point and must not fail the required check.
	dir, done := projectDir(t, map[string]string{
		"site.hcl": `
project "test" {}

resource "web" {
	type = "site"
	name = "hello"
}

resource "www" {
	type   = "alias"
	target = web.id
}
`,
	})
	defer done()

	rec := &recordReconciler{}
	app := testApp(t, rec)

	if err := app.Apply(context.Background(), dir, "ns"); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(rec.graph.Resources) != 2 {
		t.Errorf("Graph has %d resources, want 2", len(rec.graph.Resources))
	}
	if len(rec.graph.Dependencies["www"]) != 1 {
		t.Errorf("www has %d dependencies, want 1", len(rec.graph.Dependencies["www"]))
	}
}

func TestApp_Apply_cycle(t *testing.T) {
	dir, done := projectDir(t, map[string]string{
		"site.hcl": `
project "test" {}

resource "a" {
	type   = "alias"
	target = b.id
}

resource "b" {
	type   = "alias"
	target = a.id
}
`,
	})
	defer done()

	rec := &recordReconciler{}
	app := testApp(t, rec)

	err := app.Apply(context.Background(), dir, "ns")
	if err == nil {
		t.Fatal("Apply() returned nil error for a dependency cycle")
	}
	if got, want := err.Error(), "dependency cycle between a, b"; got != want {
		t.Errorf("Error = %q, want %q", got, want)
	}
	if rec.calls != 0 {
		t.Errorf("Reconciler called %d times, want 0", rec.calls)
	}
}

func testApp(t *testing.T, rec *recordReconciler) *core.App {
	t.Helper()
	return &core.App{
		Logger:     zaptest.NewLogger(t),
		Registry:   resource.RegistryFromDefinitions(&site{}, &alias{}),
		Reconciler: rec,
	}
}

// projectDir creates a temporary project directory containing the given
// configuration files. The returned function removes the directory.
func projectDir(t *testing.T, files map[string]string) (string, func()) {
	t.Helper()
	dir, err := ioutil.TempDir("", "core")
	if err != nil {
		t.Fatal(err)
	}
	done := func() { _ = os.RemoveAll(dir) }
	if err := os.Mkdir(filepath.Join(dir, ".rampart"), 0755); err != nil {
		done()
		t.Fatal(err)
	}
	if err := ioutil.WriteFile(filepath.Join(dir, ".rampart", "project"), []byte("{}"), 0644); err != nil {
		done()
		t.Fatal(err)
	}
	for name, src := range files {
		if err := ioutil.WriteFile(filepath.Join(dir, name), []byte(src), 0644); err != nil {
			done()
			t.Fatal(err)
		}
	}
	return dir, done
}

type recordReconciler struct {
	calls   int
	jobID   string
	ns      string
	project string
	graph   *graph.Graph
	err     error
}

func (r *recordReconciler) Reconcile(ctx context.Context, jobID, ns, project string, g *graph.Graph) error {
	r.calls++
	r.jobID = jobID
	r.ns = ns
	r.project = project
	r.graph = g
	return r.err
}

type site struct {
	Name string `rampart:"input,required"`
	ID   string `rampart:"output"`
}

func (s *site) Type() string { return "site" }

func (s *site) Create(ctx context.Context, req *resource.CreateRequest) error { return nil }
func (s *site) Update(ctx context.Context, req *resource.UpdateRequest) error { return nil }
func (s *site) Delete(ctx context.Context, req *resource.DeleteRequest) error { return nil }

type alias struct {
	Target string `rampart:"input,required"`
	ID     string `rampart:"output"`
}

func (a *alias) Type() string { return "alias" }

func (a *alias) Create(ctx context.Context, req *resource.CreateRequest) error { return nil }
func (a *alias) Update(ctx context.Context, req *resource.UpdateRequest) error { return nil }
func (a *alias) Delete(ctx context.Context, req *resource.DeleteRequest) error { return nil }
