// Copyright 2015 Google Inc. All Rights Reserved.
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

package state

import (
	"github.com/prometheus/client_golang/prometheus"
)

// tableGauge is the narrow interface each allocator table uses to
// publish its occupancy. It is updated under the same table mutex that
// guards the bitmap decision (InodeTable.Mu / BlockTable.Mu /
// OpenFileTable.Mu), so a gauge read can never observe a bitmap
// transition half-applied.
type tableGauge interface {
	setCapacity(n int)
	setUsed(n int)
}

// noopGauge is used when a State is built without a metrics registry
// (e.g. in unit tests that don't care about observability).
type noopGauge struct{}

func (noopGauge) setCapacity(int) {}
func (noopGauge) setUsed(int)     {}

// Metrics holds the Prometheus gauge pairs for the three allocator
// tables, labeled by table name. It is grounded on gcsfuse's and
// rclone's use of github.com/prometheus/client_golang for operator-
// facing gauges; the three tables in spec.md §4.1 are exactly the kind
// of bounded resource that deserves one.
type Metrics struct {
	used     *prometheus.GaugeVec
	capacity *prometheus.GaugeVec
}

// NewMetrics constructs gauge vectors and registers them with reg. reg
// may be a fresh *prometheus.Registry (as tests use) or
// prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		used: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tfs_table_used",
			Help: "Number of occupied slots in a tfs allocator table.",
		}, []string{"table"}),
		capacity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tfs_table_capacity",
			Help: "Total slots in a tfs allocator table.",
		}, []string{"table"}),
	}
	reg.MustRegister(m.used, m.capacity)
	return m
}

// UsedVec and CapacityVec expose the underlying GaugeVecs so a caller
// that owns the registry (the tfs package, at Destroy time) can
// unregister them without this package needing to know about
// prometheus.Registry's Unregister at all.
func (m *Metrics) UsedVec() *prometheus.GaugeVec     { return m.used }
func (m *Metrics) CapacityVec() *prometheus.GaugeVec { return m.capacity }

func (m *Metrics) forTable(name string) tableGauge {
	if m == nil {
		return noopGauge{}
	}
	return &namedGauge{m: m, name: name}
}

type namedGauge struct {
	m    *Metrics
	name string
}

func (g *namedGauge) setCapacity(n int) { g.m.capacity.WithLabelValues(g.name).Set(float64(n)) }
func (g *namedGauge) setUsed(n int)     { g.m.used.WithLabelValues(g.name).Set(float64(n)) }
