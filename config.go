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

package stallbook

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/poiesic/stallbook/storage/indexed"
)

var (
	// ErrDBPathRequired is returned when an on-disk database has no path.
	ErrDBPathRequired = errors.New("database path required")

	// ErrInvalidRetries is returned when MaxConflictRetries is below one.
	ErrInvalidRetries = errors.New("max conflict retries must be at least 1")

	// ErrInvalidRetryDelay is returned for a negative RetryDelay.
	ErrInvalidRetryDelay = errors.New("retry delay must not be negative")
)

// Config holds configuration for opening a stall catalog database.
type Config struct {
	// DBPath is the BadgerDB directory. Created if missing.
	// Ignored when InMemory is set.
	DBPath string

	// InMemory keeps all data in memory. Useful for tests and demos.
	InMemory bool

	// SeedDefaults seeds the built-in catalog and admin account into empty
	// stores. When false the stores start empty.
	// Default: true
	SeedDefaults bool

	// MaxConflictRetries is the number of commit attempts a write makes
	// before giving up on a contended key.
	// Default: 10
	MaxConflictRetries int

	// RetryDelay is the wait before the first conflict retry; it doubles on
	// every further attempt.
	// Default: 1ms
	RetryDelay time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithDBPath sets the database directory.
func WithDBPath(path string) ConfigOption {
	return func(c *Config) {
		c.DBPath = path
	}
}

// WithInMemory keeps the database in memory.
func WithInMemory(inMemory bool) ConfigOption {
	return func(c *Config) {
		c.InMemory = inMemory
	}
}

// WithSeedDefaults enables or disables the built-in seed data.
func WithSeedDefaults(seed bool) ConfigOption {
	return func(c *Config) {
		c.SeedDefaults = seed
	}
}

// WithMaxConflictRetries sets the number of commit attempts per write.
func WithMaxConflictRetries(n int) ConfigOption {
	return func(c *Config) {
		c.MaxConflictRetries = n
	}
}

// WithRetryDelay sets the wait before the first conflict retry.
func WithRetryDelay(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.RetryDelay = d
	}
}

// DefaultConfig returns a Config with defaults for a local on-disk catalog.
func DefaultConfig() *Config {
	return &Config{
		DBPath:             "stallbook.db",
		SeedDefaults:       true,
		MaxConflictRetries: indexed.DefaultMaxConflictRetries,
		RetryDelay:         indexed.DefaultRetryDelay,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithDBPath("/var/lib/stallbook"),
//	    WithMaxConflictRetries(20),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize cleans the database path.
func (c *Config) Normalize() {
	c.DBPath = strings.TrimSpace(c.DBPath)
	if c.DBPath != "" {
		c.DBPath = filepath.Clean(c.DBPath)
	}
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration first.
func (c *Config) Validate() error {
	c.Normalize()

	if !c.InMemory && c.DBPath == "" {
		return ErrDBPathRequired
	}
	if c.MaxConflictRetries < 1 {
		return ErrInvalidRetries
	}
	if c.RetryDelay < 0 {
		return ErrInvalidRetryDelay
	}
	return nil
}
