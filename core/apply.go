package core

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"github.com/rampart/rampart/graph"
	"github.com/rampart/rampart/graph/decoder"
	"github.com/rampart/rampart/resource/validation"
	"github.com/segmentio/ksuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Apply loads the configuration for the project that contains dir and
// reconciles the project's resources to match it.
//
// Configuration errors are returned as a *DiagnosticsError. Validation
// failures on static inputs are collected for all resources and returned as
// a single error, before any resource is applied.
func (a *App) Apply(ctx context.Context, dir, ns string) error {
	logger := a.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	body, err := a.load(dir)
	if err != nil {
		return err
	}

	g := graph.New()
	proj, diags := decoder.DecodeBody(body, &decoder.DecodeContext{Resources: a.Registry}, g)
	if diags.HasErrors() {
		logger.Debug("Configuration contains errors", zap.Error(diags))
		return a.errDiagnostics(diags)
	}
	logger.Debug("Configuration decoded", zap.Int("resources", len(g.Resources)))

	if err := g.Validate(); err != nil {
		return err
	}
	if err := checkInputs(g); err != nil {
		return err
	}

	jobID := ksuid.New().String()
	logger.Info("Apply", zap.String("project", proj.Name), zap.String("job_id", jobID))

	return a.Reconciler.Reconcile(ctx, jobID, ns, proj.Name, g)
}

// checkInputs validates the static inputs for every resource in the graph,
// collecting failures so the user sees all of them at once. Fields that
// receive their value from another resource are zero here; they are checked
// during reconciliation, after the values have been resolved.
func checkInputs(g *graph.Graph) error {
	names := make([]string, 0, len(g.Resources))
	for name := range g.Resources {
		names = append(names, name)
	}
	sort.Strings(names)

	var ret error
	for _, name := range names {
		res := g.Resources[name]
		err := validation.Check(res.Def)
		if err == nil {
			continue
		}
		verr, ok := err.(*validation.Error)
		if !ok {
			return err
		}

		pending := make(map[string]struct{}, len(g.Dependencies[name]))
		for _, dep := range g.Dependencies[name] {
			pending[dep.Field] = struct{}{}
		}

		var failures []validation.FieldFailure
		for _, f := range verr.Failures {
			if _, ok := pending[f.Field]; ok {
				continue
			}
			failures = append(failures, f)
		}
		if len(failures) == 0 {
			continue
		}
		ret = multierr.Append(ret, errors.Wrapf(
			&validation.Error{Failures: failures},
			"validate %s.%s", res.Def.Type(), name,
		))
	}
	return ret
}
