// Copyright 2025 Poiesic Systems
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

package indexed

import (
	"errors"
	"time"

	"github.com/poiesic/stallbook/storage"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records repository activity. A nil *Metrics records nothing.
type Metrics struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	conflicts  *prometheus.CounterVec
	seeded     *prometheus.CounterVec
}

// NewMetrics creates repository metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stallbook",
			Subsystem: "repository",
			Name:      "operations_total",
			Help:      "Repository operations by entity type, operation and outcome",
		}, []string{"type", "op", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "stallbook",
			Subsystem: "repository",
			Name:      "operation_duration_seconds",
			Help:      "Latency of repository operations in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}, []string{"type", "op"}),
		conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stallbook",
			Subsystem: "repository",
			Name:      "conflicts_total",
			Help:      "Optimistic transaction conflicts that triggered a retry",
		}, []string{"type", "op"}),
		seeded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stallbook",
			Subsystem: "repository",
			Name:      "seeded_records_total",
			Help:      "Records written by seeding",
		}, []string{"type"}),
	}

	for _, c := range []prometheus.Collector{m.operations, m.latency, m.conflicts, m.seeded} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(typeName, op string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(typeName, op, outcome(err)).Inc()
	m.latency.WithLabelValues(typeName, op).Observe(time.Since(start).Seconds())
}

func (m *Metrics) conflict(typeName, op string) {
	if m == nil {
		return
	}
	m.conflicts.WithLabelValues(typeName, op).Inc()
}

func (m *Metrics) seed(typeName string, n int) {
	if m == nil {
		return
	}
	m.seeded.WithLabelValues(typeName).Add(float64(n))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, storage.ErrNotFound):
		return "not_found"
	case errors.Is(err, storage.ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, storage.ErrStorageUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}
