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
	"log/slog"
	"time"
)

const (
	// DefaultMaxConflictRetries bounds how often a write is retried after
	// losing an optimistic transaction race.
	DefaultMaxConflictRetries = 10

	// DefaultRetryDelay is the wait before the first conflict retry.
	DefaultRetryDelay = time.Millisecond
)

type options struct {
	logger             *slog.Logger
	maxConflictRetries int
	retryDelay         time.Duration
	metrics            *Metrics
	locks              *KeyLocks
}

// Option configures a Repository.
type Option func(*options)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMaxConflictRetries sets the number of commit attempts made before a
// write gives up. Values below one are ignored.
func WithMaxConflictRetries(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxConflictRetries = n
		}
	}
}

// WithRetryDelay sets the wait before the first conflict retry.
func WithRetryDelay(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.retryDelay = d
		}
	}
}

// WithMetrics records operation counts and latencies.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithKeyLocks shares a lock map between repositories on the same substrate.
func WithKeyLocks(locks *KeyLocks) Option {
	return func(o *options) {
		if locks != nil {
			o.locks = locks
		}
	}
}

func defaultOptions() options {
	return options{
		logger:             slog.Default(),
		maxConflictRetries: DefaultMaxConflictRetries,
		retryDelay:         DefaultRetryDelay,
	}
}
