package graph

import (
	"github.com/rampart/rampart/resource"
)

// A Graph contains a resource graph of user defined configurations for
// resources and their dependencies.
type Graph struct {
	Resources    map[string]*resource.Resource
	Dependencies map[string][]Dependency
}

// New creates a new empty graph.
func New() *Graph {
	return &Graph{
		Resources:    make(map[string]*resource.Resource),
		Dependencies: make(map[string][]Dependency),
	}
}

// AddResource adds a new resource to the graph.
//
// Panics if the name is blank, or if the resource has no definition. These
// must be checked by the calling code before adding a resource, failing to
// do so indicates a bug in the calling code.
//
// If another resource with the same name is added, it overwrites the
// existing resource and likely makes dependencies to it not match. No
// checking is done for this, it is the responsibility of the caller to
// ensure this does not happen.
func (g *Graph) AddResource(res *resource.Resource) {
	if res.Name == "" {
		panic("Resource has no name")
	}
	if res.Def == nil {
		panic("Resource has no definition")
	}
	g.Resources[res.Name] = res
}

// AddDependency adds a dependency to a resource.
//
// Panics if a resource with the given name does not exist, or if the
// dependency's expression references a resource that does not exist. This
// indicates a bug in the calling code. Beyond that, no validation is done on
// the dependency (such as ensuring the referenced field exists).
func (g *Graph) AddDependency(resourceName string, dep Dependency) {
	if _, ok := g.Resources[resourceName]; !ok {
		panic("Resource does not exist")
	}
	for _, parent := range dep.Expression.References() {
		if _, ok := g.Resources[parent]; !ok {
			panic("Cannot add reference to non-existing resource " + parent)
		}
	}
	g.Dependencies[resourceName] = append(g.Dependencies[resourceName], dep)
}

// LeafResources returns all resources that have no children. The results are
// returned in an arbitrary order.
func (g *Graph) LeafResources() []string {
	parents := make(map[string]struct{})

	// Mark resources that are dependencies to child resources.
	for _, deps := range g.Dependencies {
		for _, d := range deps {
			for _, name := range d.Expression.References() {
				parents[name] = struct{}{}
			}
		}
	}

	// Collect remaining resources that were not marked.
	out := make([]string, 0, len(g.Resources)-len(parents))
	for name := range g.Resources {
		_, isParent := parents[name]
		if !isParent {
			out = append(out, name)
		}
	}
	return out
}
