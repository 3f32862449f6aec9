// Copyright (c) 2025, The Kubescenarios Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	apperrors "github.com/kubescenarios/kubescenarios/pkg/errors"
	"github.com/kubescenarios/kubescenarios/pkg/scenario"
)

// Options configures a catalog load.
type Options struct {
	// Provider is the data source. Nil means the global provider
	// (embedded data unless SetDataProvider was called).
	Provider DataProvider

	// Lenient skips documents that fail to parse instead of failing the
	// whole load. Skipped documents are counted in the parse failure
	// metric and logged at warn level.
	Lenient bool
}

// Catalog is an immutable, loaded scenario set. Create one with Load;
// a reload builds a new Catalog and the caller swaps the value.
type Catalog struct {
	registry  *Registry
	scenarios []*scenario.Scenario
	index     map[string]*scenario.Scenario
	loadedAt  time.Time
}

// Load reads the registry and parses every registered document through the
// configured provider. Document ids must be unique across the catalog.
func Load(ctx context.Context, opts Options) (*Catalog, error) {
	start := time.Now()

	provider := opts.Provider
	if provider == nil {
		provider = GetDataProvider()
	}

	regData, err := provider.ReadFile(RegistryFileName)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeNotFound, "failed to read catalog registry", err)
	}
	reg, err := ParseRegistry(regData)
	if err != nil {
		return nil, err
	}

	cat := &Catalog{
		registry: reg,
		index:    make(map[string]*scenario.Scenario, len(reg.Documents)),
		loadedAt: start,
	}

	for _, doc := range reg.Documents {
		// Check for context cancellation between documents
		select {
		case <-ctx.Done():
			return nil, apperrors.Wrap(apperrors.ErrCodeTimeout, "catalog load canceled", ctx.Err())
		default:
		}

		raw, readErr := provider.ReadFile(doc)
		if readErr != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeNotFound,
				fmt.Sprintf("registered document %s not found", doc), readErr)
		}

		s, parseErr := scenario.Parse(doc, raw)
		if parseErr != nil {
			catalogParseFailures.Inc()
			if opts.Lenient {
				slog.Warn("skipping unparseable document",
					"document", doc,
					"source", provider.Source(doc),
					"error", parseErr)
				continue
			}
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest,
				fmt.Sprintf("failed to parse document %s", doc), parseErr)
		}

		// Documents are id-named, so a missing front matter id still yields
		// a stable identity. The lint front-matter rule reports the gap.
		if s.ID == "" {
			s.ID = DocumentID(doc)
		}

		if _, dup := cat.index[s.ID]; dup {
			return nil, apperrors.New(apperrors.ErrCodeInvalidRequest,
				fmt.Sprintf("duplicate scenario id %q (document %s)", s.ID, doc))
		}

		cat.index[s.ID] = s
		cat.scenarios = append(cat.scenarios, s)
	}

	sort.Slice(cat.scenarios, func(i, j int) bool {
		return cat.scenarios[i].ID < cat.scenarios[j].ID
	})

	catalogLoadDuration.Observe(time.Since(start).Seconds())
	catalogDocsLoaded.Set(float64(len(cat.scenarios)))

	slog.Info("catalog loaded",
		"name", reg.Name,
		"version", reg.Version,
		"scenarios", len(cat.scenarios),
		"duration", time.Since(start))

	return cat, nil
}

// Get returns the scenario with the given id.
func (c *Catalog) Get(id string) (*scenario.Scenario, bool) {
	s, ok := c.index[id]
	return s, ok
}

// List returns the scenarios matching the query, sorted by id. A nil or
// empty query matches everything.
func (c *Catalog) List(q *scenario.Query) []*scenario.Scenario {
	if q == nil {
		q = &scenario.Query{}
	}
	out := make([]*scenario.Scenario, 0, len(c.scenarios))
	for _, s := range c.scenarios {
		if q.IsMatch(s) {
			out = append(out, s)
		}
	}
	return out
}

// Scenarios returns all scenarios sorted by id. The returned slice is
// shared; callers must not mutate it.
func (c *Catalog) Scenarios() []*scenario.Scenario {
	return c.scenarios
}

// Len returns the number of loaded scenarios.
func (c *Catalog) Len() int {
	return len(c.scenarios)
}

// Registry returns the registry the catalog was loaded from.
func (c *Catalog) Registry() *Registry {
	return c.registry
}

// LoadedAt returns when the load started.
func (c *Catalog) LoadedAt() time.Time {
	return c.loadedAt
}
