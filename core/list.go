package core

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"github.com/rampart/rampart/resource"
)

// List returns the stored resources for the project that contains dir. The
// results are sorted by resource type and name.
func (a *App) List(ctx context.Context, dir, ns string) ([]resource.Resource, error) {
	proj, err := a.loadProject(dir)
	if err != nil {
		return nil, err
	}

	list, err := a.State.List(ctx, ns, proj.Name)
	if err != nil {
		return nil, errors.Wrap(err, "list resources")
	}

	sort.Slice(list, func(i, j int) bool {
		ti, tj := list[i].Def.Type(), list[j].Def.Type()
		if ti != tj {
			return ti < tj
		}
		return list[i].Name < list[j].Name
	})

	return list, nil
}
