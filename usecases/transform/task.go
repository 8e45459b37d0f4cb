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

package transform

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/weaviate/dataset-tools/entities/dataset"
	"github.com/weaviate/dataset-tools/usecases/engine"
	"github.com/weaviate/dataset-tools/usecases/monitoring"
	"github.com/weaviate/dataset-tools/usecases/pathcodec"
)

// View is the part of a dataset view a task reads from or writes to.
type View interface {
	Descriptor() dataset.Descriptor
	AsSource() engine.Source
	AsTarget() engine.Target
}

type State int

const (
	Configured State = iota
	Executing
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Configured:
		return "configured"
	case Executing:
		return "executing"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// unsetWriters lets the engine pick the number of writers.
const unsetWriters = -1

type Option func(*Task)

// WithConfig sets the ambient engine configuration. The task never
// modifies it, local runs work on a copy.
func WithConfig(cfg engine.Config) Option {
	return func(t *Task) {
		t.cfg = cfg
	}
}

func WithEngine(f engine.Factory) Option {
	return func(t *Task) {
		t.engine = f
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(t *Task) {
		t.logger = logger
	}
}

func WithMetrics(metrics *monitoring.PrometheusMetrics) Option {
	return func(t *Task) {
		t.metrics = metrics
	}
}

// Task copies the records of one view into another, passing each through
// fn and checking it against the target's record type. With compaction
// enabled records are grouped by target partition first, so every
// partition directory is written by a single writer.
type Task struct {
	from, to View
	fn       engine.DoFn

	cfg     engine.Config
	engine  engine.Factory
	logger  logrus.FieldLogger
	metrics *monitoring.PrometheusMetrics

	compact    bool
	numWriters int
	mode       engine.WriteMode

	mu    sync.Mutex
	state State
	count int64
}

func NewTask(from, to View, fn engine.DoFn, opts ...Option) *Task {
	t := &Task{
		from:       from,
		to:         to,
		fn:         fn,
		cfg:        engine.DefaultConfig(),
		logger:     logrus.New(),
		compact:    true,
		numWriters: unsetWriters,
		mode:       engine.Append,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.fn == nil {
		t.fn = Identity
	}
	return t
}

// Identity emits every record unchanged.
func Identity(ctx context.Context, in interface{}, emit engine.Emitter) error {
	return emit(in)
}

// NoCompaction writes records from the worker that produced them, without
// grouping them by partition first. It has no effect once the task ran.
func (t *Task) NoCompaction() *Task {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == Configured {
		t.noCompaction()
	}
	return t
}

func (t *Task) noCompaction() {
	t.compact = false
	t.numWriters = 0
}

// SetNumWriters sets the number of writers used for compaction. Zero
// disables compaction.
func (t *Task) SetNumWriters(n int) error {
	if n < 0 {
		return dataset.NewErrInvalidArgument("number of writers must be non-negative, got %d", n)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.configurable(); err != nil {
		return err
	}
	if n == 0 {
		t.noCompaction()
		return nil
	}
	t.compact = true
	t.numWriters = n
	return nil
}

func (t *Task) SetWriteMode(mode engine.WriteMode) error {
	switch mode {
	case engine.Append, engine.Overwrite:
	default:
		return dataset.NewErrInvalidArgument("write mode %v is not supported by transform tasks", mode)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.configurable(); err != nil {
		return err
	}
	t.mode = mode
	return nil
}

// configurable must be called with t.mu held.
func (t *Task) configurable() error {
	if t.state != Configured {
		return dataset.NewErrInvalidArgument("transform task is %v, settings can only change before it runs", t.state)
	}
	return nil
}

func (t *Task) Compact() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.compact
}

func (t *Task) NumWriters() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.numWriters
}

func (t *Task) WriteMode() engine.WriteMode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mode
}

func (t *Task) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Count is the number of records read by the last successful run.
func (t *Task) Count() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

// Run executes the task and blocks until the target is committed or the
// run failed. A task runs once.
func (t *Task) Run(ctx context.Context) (*engine.Result, error) {
	settings, err := t.start()
	if err != nil {
		return nil, err
	}

	cfg := t.cfg
	from, to := t.from.Descriptor(), t.to.Descriptor().WithDefaults()
	if from.Location.IsLocal() || to.Location.IsLocal() {
		cfg = engine.ForceLocal(cfg)
	}

	logger := t.logger.WithField("action", "transform_run").
		WithField("from", from.Location.String()).
		WithField("to", to.Location.String())
	logger.WithField("framework", cfg.Framework).
		WithField("compact", settings.compact).
		WithField("writers", settings.numWriters).
		WithField("mode", settings.mode.String()).
		Debug("transform started")

	t.metrics.TransformStarted()
	start := time.Now()

	p := t.engine.NewPipeline(fmt.Sprintf("transform %s to %s", from.Location, to.Location), cfg)
	c := p.Read(t.from.AsSource()).
		ParallelDo("transform", t.fn).
		ParallelDo("validate", CheckRecordType(to.RecordType, t.metrics))
	if settings.compact {
		c = c.GroupBy("route", routeByPartition(to), settings.numWriters)
	}
	p.Write(c, t.to.AsTarget(), settings.mode)

	result, err := p.Done(ctx)
	count := recordCount(result)
	t.metrics.TransformFinished(cfg.Framework, count, time.Since(start), err)

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.state = Failed
		logger.WithError(err).Error("transform failed")
		return nil, errors.Wrapf(err, "transform %s to %s", from.Location, to.Location)
	}

	t.state = Completed
	t.count = count
	logger.WithField("records", count).
		WithField("took", time.Since(start)).
		Info("transform finished")
	return result, nil
}

// runSettings is what a run uses, read once when it starts.
type runSettings struct {
	compact    bool
	numWriters int
	mode       engine.WriteMode
}

func (t *Task) start() (runSettings, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Configured {
		return runSettings{}, dataset.NewErrInvalidArgument("transform task is %v, a task runs only once", t.state)
	}
	if t.engine == nil {
		return runSettings{}, dataset.NewErrInvalidArgument("no execution engine configured")
	}
	if t.from == nil || t.to == nil {
		return runSettings{}, dataset.NewErrInvalidArgument("transform task needs a source and a target view")
	}
	t.state = Executing
	return runSettings{compact: t.compact, numWriters: t.numWriters, mode: t.mode}, nil
}

func recordCount(result *engine.Result) int64 {
	if result == nil || len(result.Stages) == 0 {
		return 0
	}
	n, ok := result.Stages[0].Counter(engine.InputRecords)
	if !ok {
		return 0
	}
	return n
}

// CheckRecordType passes on records assignable to expected and fails on
// any other record.
func CheckRecordType(expected reflect.Type, metrics *monitoring.PrometheusMetrics) engine.DoFn {
	return func(ctx context.Context, in interface{}, emit engine.Emitter) error {
		if in == nil || !reflect.TypeOf(in).AssignableTo(expected) {
			metrics.RecordRejected()
			return dataset.NewErrTypeMismatch(expected, in)
		}
		return emit(in)
	}
}

// routeByPartition sends all records of one target partition to the same
// group. Unpartitioned targets get records spread round robin.
func routeByPartition(desc dataset.Descriptor) engine.KeyFn {
	if !desc.IsPartitioned() {
		var next atomic.Uint64
		return func(rec interface{}) (string, error) {
			return strconv.FormatUint(next.Add(1), 10), nil
		}
	}

	strategy := desc.Strategy
	return func(rec interface{}) (string, error) {
		key, err := strategy.KeyFor(rec)
		if err != nil {
			return "", dataset.NewErrDataset(errors.Wrap(err, "route record"))
		}
		return pathcodec.Encode(key, strategy)
	}
}
