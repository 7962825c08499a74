package graph

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

type depNode struct {
	graph.Node
	name string
}

// Validate checks that the dependencies between resources form a directed
// acyclic graph. Resources in a cycle can never be applied, as every resource
// in the cycle would require another member to be applied first.
//
// Returns an error describing the cycle if one exists.
func (g *Graph) Validate() error {
	names := make([]string, 0, len(g.Resources))
	for name := range g.Resources {
		names = append(names, name)
	}
	sort.Strings(names)

	dg := simple.NewDirectedGraph()
	nodes := make(map[string]*depNode, len(names))
	for _, name := range names {
		n := &depNode{Node: dg.NewNode(), name: name}
		dg.AddNode(n)
		nodes[name] = n
	}

	for _, child := range names {
		for _, dep := range g.Dependencies[child] {
			for _, parent := range dep.Expression.References() {
				if parent == child {
					// SetEdge panics on self loops.
					return errors.Errorf("resource %s depends on itself", child)
				}
				p, ok := nodes[parent]
				if !ok {
					return errors.Errorf("resource %s depends on undefined resource %s", child, parent)
				}
				dg.SetEdge(dg.NewEdge(p, nodes[child]))
			}
		}
	}

	if _, err := topo.Sort(dg); err != nil {
		uo, ok := err.(topo.Unorderable)
		if !ok {
			return err
		}
		cycles := make([]string, len(uo))
		for i, cycle := range uo {
			nn := make([]string, len(cycle))
			for j, c := range cycle {
				nn[j] = c.(*depNode).name
			}
			sort.Strings(nn)
			cycles[i] = strings.Join(nn, ", ")
		}
		return errors.Errorf("dependency cycle between %s", strings.Join(cycles, "; "))
	}
	return nil
}
