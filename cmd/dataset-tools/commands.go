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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"

	entdataset "github.com/weaviate/dataset-tools/entities/dataset"
	"github.com/weaviate/dataset-tools/entities/partition"
	"github.com/weaviate/dataset-tools/usecases/dataset"
	"github.com/weaviate/dataset-tools/usecases/engine"
	"github.com/weaviate/dataset-tools/usecases/pathcodec"
	"github.com/weaviate/dataset-tools/usecases/transform"
)

// errStop ends an iteration over records early
var errStop = errors.New("stop")

type createCommand struct {
	PartitionBy string `long:"partition-by" description:"partition strategy as JSON, or @file to read it from a file"`
	Format      string `long:"format" choice:"msgpack" choice:"json" description:"record file format"`
	Compression string `long:"compression" choice:"none" choice:"zstd" description:"record file compression"`

	Args struct {
		Dataset string `positional-arg-name:"dataset" required:"yes"`
	} `positional-args:"yes"`
}

func (c *createCommand) Execute(args []string) error {
	return run(func(ctx context.Context, app *appState) error {
		loc, err := app.config.Engine.Resolve(c.Args.Dataset)
		if err != nil {
			return err
		}
		strategy, err := parseStrategy(c.PartitionBy)
		if err != nil {
			return err
		}

		desc := entdataset.Descriptor{
			Location:    loc,
			Strategy:    strategy,
			Format:      app.config.Dataset.Format,
			Compression: app.config.Dataset.Compression,
		}
		if c.Format != "" {
			desc.Format = entdataset.Format(c.Format)
		}
		if c.Compression != "" {
			desc.Compression = entdataset.Compression(c.Compression)
		}

		_, err = app.repository.Create(ctx, desc)
		return err
	})
}

// parseStrategy reads a strategy such as
// [{"type":"hash","source":"username","name":"username_part","buckets":2}]
func parseStrategy(s string) (*partition.Strategy, error) {
	if s == "" {
		return nil, nil
	}

	content := []byte(s)
	if strings.HasPrefix(s, "@") {
		var err error
		content, err = os.ReadFile(strings.TrimPrefix(s, "@"))
		if err != nil {
			return nil, errors.Wrap(err, "read partition strategy")
		}
	}

	var strategy partition.Strategy
	if err := json.Unmarshal(content, &strategy); err != nil {
		return nil, errors.Wrap(err, "parse partition strategy")
	}
	return &strategy, nil
}

type copyCommand struct {
	NumWriters   int  `long:"num-writers" default:"-1" description:"number of writers, 0 disables compaction, -1 lets the engine decide"`
	NoCompaction bool `long:"no-compaction" description:"write records without grouping them by partition first"`
	Overwrite    bool `long:"overwrite" description:"replace the data of the target instead of appending"`

	Args struct {
		Source string `positional-arg-name:"source" required:"yes"`
		Target string `positional-arg-name:"target" required:"yes"`
	} `positional-args:"yes"`
}

func (c *copyCommand) Execute(args []string) error {
	return run(func(ctx context.Context, app *appState) error {
		from, err := openView(ctx, app, c.Args.Source)
		if err != nil {
			return errors.Wrap(err, "source")
		}
		to, err := openView(ctx, app, c.Args.Target)
		if err != nil {
			return errors.Wrap(err, "target")
		}

		task := transform.NewTask(from, to, transform.Identity,
			transform.WithConfig(app.config.Engine),
			transform.WithEngine(app.engine),
			transform.WithLogger(app.logger),
			transform.WithMetrics(app.metrics))
		if err := c.configure(task); err != nil {
			return err
		}

		if _, err := task.Run(ctx); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Added %d records to %s\n", task.Count(), to.Scope())
		return nil
	})
}

// configure applies the write flags to task. --no-compaction implies zero
// writers, so combining it with a positive --num-writers is an error.
func (c *copyCommand) configure(task *transform.Task) error {
	if c.NoCompaction && c.NumWriters > 0 {
		return entdataset.NewErrInvalidArgument(
			"--no-compaction cannot be combined with --num-writers %d", c.NumWriters)
	}

	if c.NoCompaction {
		task.NoCompaction()
	} else if c.NumWriters >= 0 {
		if err := task.SetNumWriters(c.NumWriters); err != nil {
			return err
		}
	}
	if c.Overwrite {
		if err := task.SetWriteMode(engine.Overwrite); err != nil {
			return err
		}
	}
	return nil
}

type partitionsCommand struct {
	Depth int `long:"depth" description:"number of partition levels to list, all by default"`

	Args struct {
		Dataset string `positional-arg-name:"dataset" required:"yes"`
	} `positional-args:"yes"`
}

func (c *partitionsCommand) Execute(args []string) error {
	return run(func(ctx context.Context, app *appState) error {
		d, err := loadDataset(ctx, app, c.Args.Dataset)
		if err != nil {
			return err
		}
		keys, err := d.Partitions(ctx, c.Depth)
		if err != nil {
			return err
		}

		for _, key := range keys {
			loc, err := pathcodec.EncodePrefix(key, d.Descriptor().Strategy)
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, d.Location().Join(loc...))
		}
		return nil
	})
}

type showCommand struct {
	Num int `short:"n" long:"num-records" default:"10" description:"number of records to print, 0 prints all"`

	Args struct {
		Dataset string `positional-arg-name:"dataset-or-partition" required:"yes"`
	} `positional-args:"yes"`
}

func (c *showCommand) Execute(args []string) error {
	return run(func(ctx context.Context, app *appState) error {
		v, err := openView(ctx, app, c.Args.Dataset)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		printed := 0
		err = v.Records(ctx, func(rec interface{}) error {
			if c.Num > 0 && printed >= c.Num {
				return errStop
			}
			printed++
			return enc.Encode(rec)
		})
		if errors.Is(err, errStop) {
			return nil
		}
		return err
	})
}

type deleteCommand struct {
	Args struct {
		Dataset string `positional-arg-name:"dataset" required:"yes"`
	} `positional-args:"yes"`
}

func (c *deleteCommand) Execute(args []string) error {
	return run(func(ctx context.Context, app *appState) error {
		loc, err := app.config.Engine.Resolve(c.Args.Dataset)
		if err != nil {
			return err
		}
		return app.repository.Delete(ctx, loc)
	})
}

func loadDataset(ctx context.Context, app *appState, s string) (*dataset.Dataset, error) {
	loc, err := app.config.Engine.Resolve(s)
	if err != nil {
		return nil, err
	}
	return app.repository.Load(ctx, loc, nil)
}

// openView opens a dataset, or a partition of one when s points into a
// partition directory of a dataset.
func openView(ctx context.Context, app *appState, s string) (*dataset.View, error) {
	loc, err := app.config.Engine.Resolve(s)
	if err != nil {
		return nil, err
	}

	// walk up until a dataset root is found
	for root := loc; ; {
		exists, err := app.repository.Exists(ctx, root)
		if err != nil {
			return nil, err
		}
		if exists {
			d, err := app.repository.Load(ctx, root, nil)
			if err != nil {
				return nil, err
			}
			if root == loc {
				return d.View(partition.NewKey())
			}
			return d.ViewAt(loc.String())
		}

		parent := root.Join("..")
		if parent == root {
			return nil, entdataset.NewErrDataset(errors.Errorf("no dataset at %s", loc))
		}
		root = parent
	}
}
