//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2026 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spaolacci/murmur3"
	"github.com/weaviate/dataset-tools/entities/dataset"
	enterrors "github.com/weaviate/dataset-tools/entities/errors"
	"github.com/weaviate/dataset-tools/entities/storage"
)

// BackendProvider resolves the cache backend that job manifests are
// staged in.
type BackendProvider interface {
	Backend(ctx context.Context, loc dataset.Location) (storage.Backend, error)
}

// InProcess runs pipelines inside the current process. The map stage
// processes splits concurrently, GroupBy shuffles in memory and the reduce
// stage writes one output unit per group.
type InProcess struct {
	backends BackendProvider
	logger   logrus.FieldLogger
}

func New(backends BackendProvider, logger logrus.FieldLogger) *InProcess {
	return &InProcess{backends: backends, logger: logger}
}

func (e *InProcess) NewPipeline(name string, cfg Config) Pipeline {
	return &pipeline{engine: e, name: name, cfg: cfg}
}

// StepError attributes a failure to the pipeline step it originated in.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

type step struct {
	name string
	fn   DoFn
}

type grouping struct {
	name  string
	keyFn KeyFn
	n     int
}

type collection struct {
	p           *pipeline
	mapSteps    []step
	group       *grouping
	reduceSteps []step
}

func (c *collection) clone() *collection {
	return &collection{
		p:           c.p,
		mapSteps:    append([]step{}, c.mapSteps...),
		group:       c.group,
		reduceSteps: append([]step{}, c.reduceSteps...),
	}
}

func (c *collection) ParallelDo(name string, fn DoFn) Collection {
	next := c.clone()
	if next.group == nil {
		next.mapSteps = append(next.mapSteps, step{name: name, fn: fn})
	} else {
		next.reduceSteps = append(next.reduceSteps, step{name: name, fn: fn})
	}
	return next
}

func (c *collection) GroupBy(name string, keyFn KeyFn, n int) Collection {
	next := c.clone()
	if next.group != nil {
		c.p.fail(errors.Errorf("group %q: collection is already grouped by %q", name, next.group.name))
		return next
	}
	next.group = &grouping{name: name, keyFn: keyFn, n: n}
	return next
}

type sink struct {
	c      *collection
	target Target
	mode   WriteMode
}

type pipeline struct {
	engine *InProcess
	name   string
	cfg    Config

	source Source
	sink   *sink
	err    error
	ran    bool
}

func (p *pipeline) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *pipeline) Read(src Source) Collection {
	if p.source != nil {
		p.fail(errors.Errorf("pipeline %q reads more than one source", p.name))
	}
	p.source = src
	return &collection{p: p}
}

func (p *pipeline) Write(c Collection, target Target, mode WriteMode) {
	col, ok := c.(*collection)
	if !ok || col.p != p {
		p.fail(errors.Errorf("pipeline %q: collection belongs to another pipeline", p.name))
		return
	}
	if p.sink != nil {
		p.fail(errors.Errorf("pipeline %q writes more than one target", p.name))
		return
	}
	p.sink = &sink{c: col, target: target, mode: mode}
}

func (p *pipeline) Done(ctx context.Context) (*Result, error) {
	if p.err != nil {
		return nil, p.err
	}
	if p.ran {
		return nil, errors.Errorf("pipeline %q already ran", p.name)
	}
	if p.source == nil || p.sink == nil {
		return nil, errors.Errorf("pipeline %q needs a source and a target", p.name)
	}
	if err := p.cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid engine config")
	}
	p.ran = true

	j := &job{
		id:       uuid.NewString(),
		pipeline: p,
		workers:  p.cfg.EffectiveWorkers(),
	}
	if p.sink.c.group != nil {
		j.groups = p.cfg.EffectiveGroups(p.sink.c.group.n)
	}
	j.logger = p.engine.logger.WithField("action", "pipeline_run").
		WithField("pipeline", p.name).
		WithField("job", j.id)

	cleanup, err := p.engine.stageManifest(ctx, j)
	if err != nil {
		return nil, errors.Wrap(err, "stage job manifest")
	}
	defer cleanup()

	if err := p.sink.target.Prepare(ctx, p.sink.mode); err != nil {
		return nil, errors.Wrap(err, "prepare target")
	}

	j.logger.WithField("framework", p.cfg.Framework).
		WithField("workers", j.workers).
		WithField("groups", j.groups).
		WithField("mode", p.sink.mode.String()).
		Info("pipeline started")
	start := time.Now()

	result, err := j.run(ctx)
	if err == nil {
		err = errors.Wrap(p.sink.target.Commit(ctx), "commit target")
	}
	if err != nil {
		// abort even if ctx is gone, staged output must not leak
		if abortErr := p.sink.target.Abort(context.WithoutCancel(ctx)); abortErr != nil {
			j.logger.WithError(abortErr).Error("abort target")
		}
		j.logger.WithError(err).Error("pipeline failed")
		return nil, err
	}

	j.logger.WithField("took", time.Since(start)).
		WithField("stages", result.Stages).
		Info("pipeline finished")
	return result, nil
}

type manifest struct {
	JobID     string    `json:"jobId"`
	Pipeline  string    `json:"pipeline"`
	Framework string    `json:"framework"`
	Workers   int       `json:"workers"`
	Groups    int       `json:"groups"`
	Mode      WriteMode `json:"mode"`
	CreatedAt time.Time `json:"createdAt"`
}

// stageManifest writes the job description to the cache backend. The
// returned func removes it again.
func (e *InProcess) stageManifest(ctx context.Context, j *job) (func(), error) {
	dir, err := j.pipeline.cfg.cacheDir()
	if err != nil {
		return nil, err
	}
	loc := dir.Join("jobs", j.id+".json")

	backend, err := e.backends.Backend(ctx, loc)
	if err != nil {
		return nil, errors.Wrapf(err, "cache backend %s", loc.Backend())
	}

	content, err := json.Marshal(manifest{
		JobID:     j.id,
		Pipeline:  j.pipeline.name,
		Framework: j.pipeline.cfg.Framework,
		Workers:   j.workers,
		Groups:    j.groups,
		Mode:      j.pipeline.sink.mode,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal manifest")
	}

	w, err := backend.Create(ctx, loc.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "create '%s'", loc)
	}
	_, err = w.Write(content)
	if closeErr := w.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, errors.Wrapf(err, "write '%s'", loc)
	}

	return func() {
		if err := backend.Delete(context.WithoutCancel(ctx), loc.Path); err != nil {
			j.logger.WithError(err).WithField("manifest", loc.String()).
				Warn("remove job manifest")
		}
	}, nil
}

type stageCounters struct {
	name     string
	input    atomic.Int64
	output   atomic.Int64
	shuffled atomic.Int64
	grouped  bool
}

func (s *stageCounters) result() StageResult {
	counters := map[string]int64{
		InputRecords:  s.input.Load(),
		OutputRecords: s.output.Load(),
	}
	if s.grouped {
		counters[ShuffledRecords] = s.shuffled.Load()
	}
	return StageResult{Name: s.name, Counters: counters}
}

type job struct {
	id       string
	pipeline *pipeline
	workers  int
	groups   int
	logger   logrus.FieldLogger
}

func (j *job) run(ctx context.Context) (*Result, error) {
	splits, err := j.pipeline.source.Splits(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list input splits")
	}
	j.logger.WithField("splits", len(splits)).Debug("input splits listed")

	c := j.pipeline.sink.c
	mapStage := &stageCounters{name: "map", grouped: c.group != nil}
	shuffle := make([][][]interface{}, len(splits))

	eg, gctx := enterrors.NewErrorGroupWrapper(ctx, j.logger, "job", j.id, "stage", mapStage.name)
	eg.SetLimit(j.workers)
	for i, split := range splits {
		i, split := i, split
		eg.Go(func() error {
			buckets, err := j.runSplit(gctx, i, split, mapStage)
			shuffle[i] = buckets
			return err
		}, "split", split.Name())
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	result := &Result{JobID: j.id, Stages: []StageResult{mapStage.result()}}
	if c.group == nil {
		return result, nil
	}

	reduceStage := &stageCounters{name: "reduce"}
	eg, gctx = enterrors.NewErrorGroupWrapper(ctx, j.logger, "job", j.id, "stage", reduceStage.name)
	eg.SetLimit(j.workers)
	for g := 0; g < j.groups; g++ {
		g := g
		eg.Go(func() error {
			return j.runGroup(gctx, g, shuffle, reduceStage)
		}, "group", g)
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	result.Stages = append(result.Stages, reduceStage.result())
	return result, nil
}

// runSplit reads one split through the map steps. Grouped records are
// returned bucketed by group, ungrouped ones are written directly.
func (j *job) runSplit(ctx context.Context, unit int, split Split, st *stageCounters) ([][]interface{}, error) {
	c := j.pipeline.sink.c
	out := &lazyWriter{target: j.pipeline.sink.target, unit: unit}

	var buckets [][]interface{}
	if c.group != nil {
		buckets = make([][]interface{}, j.groups)
	}

	final := func(rec interface{}) error {
		st.output.Add(1)
		if c.group == nil {
			return out.write(ctx, rec)
		}

		key, err := c.group.keyFn(rec)
		if err != nil {
			return &StepError{Step: c.group.name, Err: err}
		}
		g := bucketOf(key, j.groups)
		buckets[g] = append(buckets[g], rec)
		st.shuffled.Add(1)
		return nil
	}

	emit := chain(ctx, c.mapSteps, final)
	err := split.Read(ctx, func(rec interface{}) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		st.input.Add(1)
		return emit(rec)
	})
	if err != nil {
		err = errors.Wrapf(err, "split %s", split.Name())
	}

	return buckets, combine(err, out.close(ctx))
}

func (j *job) runGroup(ctx context.Context, g int, shuffle [][][]interface{}, st *stageCounters) error {
	c := j.pipeline.sink.c
	out := &lazyWriter{target: j.pipeline.sink.target, unit: g}

	emit := chain(ctx, c.reduceSteps, func(rec interface{}) error {
		st.output.Add(1)
		return out.write(ctx, rec)
	})

	var err error
feed:
	for _, buckets := range shuffle {
		if buckets == nil {
			continue
		}
		for _, rec := range buckets[g] {
			if err = ctx.Err(); err != nil {
				break feed
			}
			st.input.Add(1)
			if err = emit(rec); err != nil {
				err = errors.Wrapf(err, "group %d", g)
				break feed
			}
		}
	}

	return combine(err, out.close(ctx))
}

// combine keeps err as the primary failure and adds cleanupErr to it.
func combine(err, cleanupErr error) error {
	switch {
	case cleanupErr == nil:
		return err
	case err == nil:
		return cleanupErr
	default:
		return multierror.Append(err, cleanupErr)
	}
}

func bucketOf(key string, n int) int {
	return int(murmur3.Sum64([]byte(key)) % uint64(n))
}

func chain(ctx context.Context, steps []step, final Emitter) Emitter {
	emit := final
	for i := len(steps) - 1; i >= 0; i-- {
		s, next := steps[i], emit
		emit = func(rec interface{}) error {
			err := s.fn(ctx, rec, next)
			if err == nil {
				return nil
			}
			var se *StepError
			if errors.As(err, &se) {
				// failed further down the chain
				return err
			}
			return &StepError{Step: s.name, Err: err}
		}
	}
	return emit
}

// lazyWriter opens its writer with the first record, so units without
// output do not produce empty files.
type lazyWriter struct {
	target Target
	unit   int
	w      Writer
}

func (l *lazyWriter) write(ctx context.Context, rec interface{}) error {
	if l.w == nil {
		w, err := l.target.NewWriter(ctx, l.unit)
		if err != nil {
			return &StepError{Step: "write", Err: errors.Wrapf(err, "open writer %d", l.unit)}
		}
		l.w = w
	}
	if err := l.w.Write(ctx, rec); err != nil {
		return &StepError{Step: "write", Err: err}
	}
	return nil
}

func (l *lazyWriter) close(ctx context.Context) error {
	if l.w == nil {
		return nil
	}
	return errors.Wrapf(l.w.Close(ctx), "close writer %d", l.unit)
}
