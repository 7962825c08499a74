// Package core implements the operations behind the command line commands.
//
// An App is a thin orchestration layer: it loads the project configuration
// from disk, decodes it into a resource graph and hands the graph to the
// reconciler. The domain behavior lives in the resource definitions and in
// the reconciler.
package core

import (
	"context"

	"github.com/hashicorp/hcl2/gohcl"
	"github.com/hashicorp/hcl2/hclpack"
	"github.com/pkg/errors"
	"github.com/rampart/rampart/config"
	"github.com/rampart/rampart/graph"
	"github.com/rampart/rampart/resource"
	"go.uber.org/zap"
)

// A Reconciler applies changes so that the stored resources for a project
// match the desired graph.
type Reconciler interface {
	Reconcile(ctx context.Context, jobID, ns, project string, g *graph.Graph) error
}

// A Registry is used for matching resource type names to resource
// implementations.
type Registry interface {
	New(typename string) (resource.Definition, error)
	Types() []string
}

// StateReader reads previously stored resources.
type StateReader interface {
	List(ctx context.Context, ns, project string) ([]resource.Resource, error)
}

// An App provides the operations behind the command line commands.
type App struct {
	// Logger logs progress. If nil, logs are discarded.
	Logger *zap.Logger

	// Registry contains the supported resource types.
	Registry Registry

	// Reconciler applies graph changes.
	Reconciler Reconciler

	// State reads stored resources. Only used by List.
	State StateReader

	// loader keeps the loaded files so diagnostics can print source context.
	loader config.Loader
}

// load loads the configuration for the project that contains dir.
func (a *App) load(dir string) (*hclpack.Body, error) {
	root, err := a.loader.Root(dir)
	if err != nil {
		return nil, errors.Wrap(err, "find project root")
	}
	if root == "" {
		return nil, errors.Errorf("no project found in %s", dir)
	}

	body, diags := a.loader.Load(root)
	if diags.HasErrors() {
		return nil, a.errDiagnostics(diags)
	}
	return body, nil
}

// loadProject loads the configuration for the project that contains dir and
// returns the project it declares. Resource configurations are not decoded,
// so a project can be loaded even if a resource no longer passes decoding.
func (a *App) loadProject(dir string) (*config.Project, error) {
	body, err := a.load(dir)
	if err != nil {
		return nil, err
	}

	var root config.Root
	if diags := gohcl.DecodeBody(body, nil, &root); diags.HasErrors() {
		return nil, a.errDiagnostics(diags)
	}
	if len(root.Projects) == 0 {
		return nil, errors.New("project not set")
	}
	return &root.Projects[0], nil
}
