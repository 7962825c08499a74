package core

import (
	"context"

	"github.com/rampart/rampart/graph"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
)

// Destroy removes all stored resources for the project that contains dir.
//
// Reconciling an empty graph deletes everything that was stored for the
// project, children before parents.
func (a *App) Destroy(ctx context.Context, dir, ns string) error {
	logger := a.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	proj, err := a.loadProject(dir)
	if err != nil {
		return err
	}

	jobID := ksuid.New().String()
	logger.Info("Destroy", zap.String("project", proj.Name), zap.String("job_id", jobID))

	return a.Reconciler.Reconcile(ctx, jobID, ns, proj.Name, graph.New())
}
