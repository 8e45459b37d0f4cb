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

package storage

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/weaviate/dataset-tools/entities/dataset"
	"github.com/weaviate/dataset-tools/entities/storage"
	"github.com/weaviate/dataset-tools/usecases/monitoring"
)

// Provider resolves dataset locations to storage backends. Modules are
// registered per scheme; backends are created lazily per authority and
// reused afterwards.
type Provider struct {
	logger  logrus.FieldLogger
	metrics *monitoring.PrometheusMetrics

	sync.Mutex
	modules  map[string]storage.Module
	backends map[string]storage.Backend
}

// NewProvider creates an empty provider. metrics may be nil.
func NewProvider(logger logrus.FieldLogger, metrics *monitoring.PrometheusMetrics) *Provider {
	return &Provider{
		logger:   logger,
		metrics:  metrics,
		modules:  map[string]storage.Module{},
		backends: map[string]storage.Backend{},
	}
}

// Register initializes mod and makes it responsible for its scheme.
func (p *Provider) Register(ctx context.Context, mod storage.Module) error {
	if err := mod.Init(ctx, p.logger); err != nil {
		return errors.Wrapf(err, "init storage module %q", mod.Name())
	}

	p.Lock()
	defer p.Unlock()

	if existing, ok := p.modules[mod.Scheme()]; ok {
		return errors.Errorf("scheme %q already served by module %q", mod.Scheme(), existing.Name())
	}
	p.modules[mod.Scheme()] = mod

	p.logger.WithField("action", "storage_register").
		WithField("module", mod.Name()).
		WithField("scheme", mod.Scheme()).
		Debug("registered storage module")
	return nil
}

// Schemes returns the schemes of all registered modules.
func (p *Provider) Schemes() []string {
	p.Lock()
	defer p.Unlock()

	out := make([]string, 0, len(p.modules))
	for scheme := range p.modules {
		out = append(out, scheme)
	}
	return out
}

// Backend returns the backend serving loc.
func (p *Provider) Backend(ctx context.Context, loc dataset.Location) (storage.Backend, error) {
	p.Lock()
	defer p.Unlock()

	if b, ok := p.backends[loc.Backend()]; ok {
		return b, nil
	}

	mod, ok := p.modules[loc.Scheme]
	if !ok {
		return nil, errors.Errorf("no storage module for scheme %q", loc.Scheme)
	}

	b, err := mod.Backend(ctx, loc.Authority)
	if err != nil {
		return nil, errors.Wrapf(err, "open backend %s", loc.Backend())
	}
	if p.metrics != nil {
		b = &meteredBackend{Backend: b, scheme: loc.Scheme, metrics: p.metrics}
	}
	p.backends[loc.Backend()] = b
	return b, nil
}
