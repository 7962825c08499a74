package reconciler

import (
	"context"
	"reflect"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/rampart/rampart/graph"
	"github.com/rampart/rampart/graph/reconciler/internal/task"
	"github.com/rampart/rampart/httpclient"
	"github.com/rampart/rampart/resource"
	"github.com/rampart/rampart/resource/hash"
	"github.com/rampart/rampart/resource/validation"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// DefaultConcurrency is the default maximum concurrency to use for create and
// update.
//
// In practice, the reconciler is likely bound by network i/o.
var DefaultConcurrency = 10

// StateStorage persists resources between reconciliations.
type StateStorage interface {
	Put(ctx context.Context, ns, project string, res resource.Resource) error
	Delete(ctx context.Context, ns, project, typename, name string) error
	List(ctx context.Context, ns, project string) ([]resource.Resource, error)
}

// An IDGenerator generates ids for created resources.
type IDGenerator interface {
	GenerateID() string
}

// IDGeneratorFunc is an adapter to allow the use of a function as an
// IDGenerator.
type IDGeneratorFunc func() string

// GenerateID implements IDGenerator.
func (f IDGeneratorFunc) GenerateID() string { return f() }

// A Reconciler reconciles changes to a graph.
//
// See package doc for details.
type Reconciler struct {
	State StateStorage

	// Auth provides credentials for resource operations.
	Auth resource.AuthProvider

	// HTTP is the client passed to resource operations for vendor API calls.
	// If nil, resources fall back to a default client.
	HTTP *httpclient.Client

	// Concurrency sets the maximum allowed concurrency for create and update.
	// If not set, DefaultConcurrency is used. Deletes always run one at a
	// time, children before parents.
	Concurrency int

	// IDs generates the id assigned to a resource when it is first created.
	// If not set, ksuids are generated.
	IDs IDGenerator

	// Logger logs reconciliation updates. If not set, logs are discarded.
	Logger *zap.Logger
}

// Reconcile reconciles changes to the graph.
//
// Resources in the graph that were not previously stored are created, stored
// resources that differ from their desired inputs are updated, and stored
// resources that are no longer in the graph are deleted.
func (r *Reconciler) Reconcile(ctx context.Context, jobID, ns, project string, g *graph.Graph) error {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if jobID != "" {
		logger = logger.With(zap.String("job_id", jobID))
	}

	logger.Info("Reconcile", zap.String("project", project))

	c := r.Concurrency
	if c == 0 {
		c = DefaultConcurrency
	}

	gen := r.IDs
	if gen == nil {
		gen = IDGeneratorFunc(func() string {
			return ksuid.New().String()
		})
	}

	logger.Debug("Get existing")
	stored, err := r.State.List(ctx, ns, project)
	if err != nil {
		return errors.Wrap(err, "list existing resources")
	}
	logger.Debug("Got existing", zap.Int("count", len(stored)))

	existing, err := newExisting(stored)
	if err != nil {
		return errors.Wrap(err, "build existing resources")
	}

	run := &run{
		NS:       ns,
		Project:  project,
		Graph:    g,
		Existing: existing,
		State:    r.State,
		Auth:     r.Auth,
		HTTP:     r.HTTP,
		IDs:      gen,
		Logger:   logger,
		sem:      semaphore.NewWeighted(int64(c)),
		tasks:    task.NewGroup(),
	}

	if err := run.CreateUpdate(ctx); err != nil {
		return err
	}

	if err := run.Prune(ctx); err != nil {
		return errors.Wrap(err, "remove previous resources")
	}

	logger.Info(
		"Done",
		zap.Uint32("created", run.created),
		zap.Uint32("updated", run.updated),
		zap.Uint32("deleted", run.deleted),
	)

	return nil
}

type run struct {
	NS      string
	Project string
	Graph   *graph.Graph

	Existing *existingResources
	State    StateStorage
	Auth     resource.AuthProvider
	HTTP     *httpclient.Client
	IDs      IDGenerator
	Logger   *zap.Logger

	sem   *semaphore.Weighted
	tasks *task.Group

	created, updated, deleted uint32
}

func (r *run) CreateUpdate(ctx context.Context) error {
	r.Logger.Debug("Create/update")

	g, ctx := errgroup.WithContext(ctx)

	leaves := r.Graph.LeafResources()
	r.Logger.Debug("Leaf resources", zap.Strings("names", leaves))
	for _, name := range leaves {
		res := r.Graph.Resources[name]
		g.Go(func() error {
			return r.processResource(ctx, res)
		})
	}

	return g.Wait()
}

func (r *run) processResource(ctx context.Context, res *resource.Resource) error {
	logger := r.Logger.With(zap.String("type", res.Def.Type()), zap.String("name", res.Name))

	return r.tasks.Do(res.Name, func() error {
		// Wait for parents to resolve.
		// Do this before acquiring a semaphore, as otherwise the wait
		// needlessly holds a slot and can deadlock with concurrency=1.
		if err := r.processDependencies(ctx, res.Name, logger); err != nil {
			return errors.Wrap(err, "process dependencies")
		}

		// Ready to process, wait for semaphore.
		if err := r.sem.Acquire(ctx, 1); err != nil {
			return errors.Wrap(err, "acquire semaphore")
		}
		defer r.sem.Release(1)

		if err := r.resolveDependencies(res); err != nil {
			return errors.Wrap(err, "resolve dependencies")
		}

		logger.Debug("Processing")

		if err := validation.Check(res.Def); err != nil {
			return errors.Wrapf(err, "validate %s.%s", res.Def.Type(), res.Name)
		}

		// Compute hash based on resolved inputs.
		sum := hash.Compute(res.Def)

		// The stored hash was computed before secret values were redacted, so
		// it can be compared even though the hash cannot be recomputed from
		// the stored definition.
		ex := r.Existing.Find(res.Def.Type(), res.Name)
		if ex != nil {
			r.Existing.Keep(ex)

			if ex.res.Hash == sum {
				// Carry over the id and deployed outputs so that dependent
				// expressions evaluate against deployed values.
				res.ID = ex.res.ID
				res.Hash = ex.res.Hash
				copyOutputs(res.Def, ex.res.Def)
				logger.Debug("No changes required")
				return nil
			}
			logger.Debug("Config changed", zap.String("prev_hash", ex.res.Hash), zap.String("hash", sum))
		}

		res.Hash = sum

		if ex == nil {
			res.ID = r.IDs.GenerateID()
			logger.Info("Creating resource", zap.String("id", res.ID))
			req := &resource.CreateRequest{
				Auth:   r.Auth,
				HTTP:   r.HTTP,
				Logger: logger,
			}
			if err := res.Def.Create(ctx, req); err != nil {
				return errors.Wrapf(err, "create %s.%s", res.Def.Type(), res.Name)
			}
			atomic.AddUint32(&r.created, 1)
		} else {
			res.ID = ex.res.ID
			logger.Info("Updating resource", zap.String("id", res.ID))
			req := &resource.UpdateRequest{
				Auth:     r.Auth,
				HTTP:     r.HTTP,
				Logger:   logger,
				Previous: ex.res.Def,
			}
			if err := res.Def.Update(ctx, req); err != nil {
				return errors.Wrapf(err, "update %s.%s", res.Def.Type(), res.Name)
			}
			atomic.AddUint32(&r.updated, 1)
		}

		// Use new context so a cancelled context still stores the result.
		pctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		logger.Debug("Storing state")
		if err := r.State.Put(pctx, r.NS, r.Project, *res); err != nil {
			return errors.Wrap(err, "store resource")
		}

		return nil
	})
}

func (r *run) processDependencies(ctx context.Context, child string, logger *zap.Logger) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, dep := range r.Graph.Dependencies[child] {
		for _, parent := range dep.Parents() {
			parent := parent
			res, ok := r.Graph.Resources[parent]
			if !ok {
				return errors.Errorf("dependency on non-existing resource %q", parent)
			}
			logger.Debug("Waiting on dependency", zap.String("parent", parent))
			g.Go(func() error {
				err := r.processResource(ctx, res)
				logger.Debug("Dependency done", zap.String("parent", parent), zap.Bool("error", err != nil))
				return err
			})
		}
	}
	return g.Wait()
}

// resolveDependencies evaluates the dependency expressions for the resource
// and sets the results on the definition's input fields. The parents must
// have been processed before resolving.
func (r *run) resolveDependencies(res *resource.Resource) error {
	deps := r.Graph.Dependencies[res.Name]
	if len(deps) == 0 {
		return nil
	}

	vars := make(map[string]map[string]interface{})
	for _, dep := range deps {
		for _, parent := range dep.Parents() {
			if _, ok := vars[parent]; ok {
				continue
			}
			p, ok := r.Graph.Resources[parent]
			if !ok {
				return errors.Errorf("resource %q not in graph", parent)
			}
			vars[parent] = graph.Variables(p.Def)
		}
	}
	ectx := &graph.EvalContext{Variables: vars}

	v := reflect.Indirect(reflect.ValueOf(res.Def))
	fields := resource.Fields(v.Type(), resource.Input)
	byName := make(map[string]resource.Field, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}

	for _, dep := range deps {
		f, ok := byName[dep.Field]
		if !ok {
			return errors.Errorf("%s has no input field %q", res.Def.Type(), dep.Field)
		}
		target := v.Field(f.Index).Addr().Interface()
		if err := dep.Expression.Value(ectx, target); err != nil {
			return errors.Wrapf(err, "resolve %s", dep.Field)
		}
	}
	return nil
}

// copyOutputs copies the output field values from src to dst. Both
// definitions must have the same type.
func copyOutputs(dst, src resource.Definition) {
	dv := reflect.Indirect(reflect.ValueOf(dst))
	sv := reflect.Indirect(reflect.ValueOf(src))
	for _, f := range resource.Fields(dv.Type(), resource.Output) {
		dv.Field(f.Index).Set(sv.Field(f.Index))
	}
}

// Prune deletes the existing resources that are no longer part of the graph.
// Deletes run sequentially, children before parents.
func (r *run) Prune(ctx context.Context) error {
	rem := r.Existing.Remaining()
	if len(rem) == 0 {
		r.Logger.Debug("No previous resources to remove")
		return nil
	}
	r.Logger.Debug("Remove previous", zap.Int("count", len(rem)))
	for _, e := range rem {
		if err := r.removeResource(ctx, e.res); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) removeResource(ctx context.Context, res resource.Resource) error {
	logger := r.Logger.With(zap.String("type", res.Def.Type()), zap.String("name", res.Name))

	logger.Info("Deleting resource", zap.String("id", res.ID))
	req := &resource.DeleteRequest{
		Auth:   r.Auth,
		HTTP:   r.HTTP,
		Logger: logger,
	}
	if err := res.Def.Delete(ctx, req); err != nil {
		return errors.Wrapf(err, "delete %s.%s", res.Def.Type(), res.Name)
	}

	atomic.AddUint32(&r.deleted, 1)

	// Use new context so a cancelled context still stores the result.
	dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Debug("Deleting state")
	if err := r.State.Delete(dctx, r.NS, r.Project, res.Def.Type(), res.Name); err != nil {
		return errors.Wrap(err, "delete resource state")
	}

	return nil
}
