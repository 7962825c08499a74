package reconciler

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/rampart/rampart/resource"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// existingResources indexes the resources from a previous reconciliation,
// connected by the dependencies that were recorded when they were stored.
type existingResources struct {
	*simple.DirectedGraph

	mu    sync.Mutex
	byKey map[resource.Dependency]*existing
}

type existing struct {
	graph.Node
	res  resource.Resource
	kept bool
}

func newExisting(resources []resource.Resource) (*existingResources, error) {
	ee := &existingResources{
		DirectedGraph: simple.NewDirectedGraph(),
		byKey:         make(map[resource.Dependency]*existing, len(resources)),
	}

	for _, r := range resources {
		key := resource.Dependency{Type: r.Def.Type(), Name: r.Name}
		if _, exists := ee.byKey[key]; exists {
			return nil, errors.Errorf("Duplicate resource %s", key)
		}
		node := &existing{Node: ee.NewNode(), res: r}
		ee.AddNode(node)
		ee.byKey[key] = node
	}

	for key, child := range ee.byKey {
		for _, dep := range child.res.Deps {
			if dep == key {
				// SetEdge panics on self loops.
				return nil, errors.Errorf("Resource %s depends on itself", key)
			}
			parent, ok := ee.byKey[dep]
			if !ok {
				return nil, errors.Errorf("No resource found for parent %s", dep)
			}
			ee.SetEdge(ee.NewEdge(parent, child))
		}
	}
	return ee, nil
}

// Find returns the existing resource with the given type and name, or nil if
// no such resource exists.
func (ee *existingResources) Find(typename, name string) *existing {
	ee.mu.Lock()
	defer ee.mu.Unlock()
	return ee.byKey[resource.Dependency{Type: typename, Name: name}]
}

// Keep marks the resource so Remaining does not return it.
func (ee *existingResources) Keep(ex *existing) {
	ee.mu.Lock()
	ex.kept = true
	ee.mu.Unlock()
}

// Remaining returns the resources that were not marked with Keep, children
// before their parents. Deleting in the returned order never removes a
// resource that another resource still depends on.
func (ee *existingResources) Remaining() []*existing {
	ee.mu.Lock()
	defer ee.mu.Unlock()

	sorted, err := topo.Sort(ee)
	if err != nil {
		// Dependencies recorded in the store never form a cycle.
		panic(fmt.Sprintf("Cyclical existing resources: %v", err))
	}

	var ret []*existing
	for i := len(sorted) - 1; i >= 0; i-- {
		if ex := sorted[i].(*existing); !ex.kept {
			ret = append(ret, ex)
		}
	}
	return ret
}
