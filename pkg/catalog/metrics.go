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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Catalog load metrics
	catalogLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kubescenarios_catalog_load_duration_seconds",
			Help:    "Duration of catalog loads in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	catalogDocsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kubescenarios_catalog_documents_loaded",
			Help: "Number of scenario documents in the most recently loaded catalog",
		},
	)

	catalogParseFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kubescenarios_catalog_parse_failures_total",
			Help: "Total number of scenario documents that failed to parse",
		},
	)
)
