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
	"context"
	"log/slog"

	"github.com/poiesic/stallbook/catalog"
	"github.com/poiesic/stallbook/core"
	"github.com/poiesic/stallbook/httpapi"
	"github.com/poiesic/stallbook/storage"
	"github.com/poiesic/stallbook/storage/badger"
	"github.com/poiesic/stallbook/storage/indexed"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	// StallTypeName namespaces stall records.
	StallTypeName = "stall"

	// AdminUserTypeName namespaces admin user records.
	AdminUserTypeName = "adminUser"
)

// Database bundles the storage backend, the entity repositories and the
// catalog service built on them.
type Database struct {
	backend  *badger.Backend
	stalls   *indexed.Repository[core.Stall]
	admins   *indexed.Repository[core.AdminUser]
	service  *catalog.Service
	registry *prometheus.Registry
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	logger *slog.Logger
}

// WithLogger sets the logger shared by every component.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewDatabase opens the database described by cfg.
func NewDatabase(cfg *Config, opts ...DatabaseOption) (*Database, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	options := &databaseOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}
	logger := options.logger

	backend, err := badger.OpenBackend(cfg.DBPath, cfg.InMemory, badger.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := indexed.NewMetrics(registry)
	if err != nil {
		backend.Close()
		return nil, err
	}

	repoOpts := []indexed.Option{
		indexed.WithLogger(logger),
		indexed.WithMetrics(metrics),
		indexed.WithKeyLocks(indexed.NewKeyLocks()),
		indexed.WithMaxConflictRetries(cfg.MaxConflictRetries),
		indexed.WithRetryDelay(cfg.RetryDelay),
	}

	stallCfg := indexed.Config[core.Stall]{TypeName: StallTypeName}
	adminCfg := indexed.Config[core.AdminUser]{TypeName: AdminUserTypeName}
	if cfg.SeedDefaults {
		stallCfg.Seed = catalog.DefaultStalls()
		adminCfg.Seed = catalog.DefaultAdmins()
	}

	stalls, err := indexed.New(backend, stallCfg, repoOpts...)
	if err != nil {
		backend.Close()
		return nil, err
	}
	admins, err := indexed.New(backend, adminCfg, repoOpts...)
	if err != nil {
		backend.Close()
		return nil, err
	}

	service, err := catalog.NewService(stalls, admins, catalog.WithLogger(logger))
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:  backend,
		stalls:   stalls,
		admins:   admins,
		service:  service,
		registry: registry,
		logger:   logger,
	}, nil
}

// Close releases the storage backend.
func (db *Database) Close() error {
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Stalls returns the stall repository.
func (db *Database) Stalls() *indexed.Repository[core.Stall] {
	return db.stalls
}

// AdminUsers returns the admin user repository.
func (db *Database) AdminUsers() *indexed.Repository[core.AdminUser] {
	return db.admins
}

// Catalog returns the catalog service.
func (db *Database) Catalog() *catalog.Service {
	return db.service
}

// Registry returns the metrics registry the repositories report to.
func (db *Database) Registry() *prometheus.Registry {
	return db.registry
}

// Ping checks that the backend still serves reads.
func (db *Database) Ping(ctx context.Context) error {
	return db.backend.View(ctx, func(tx storage.Txn) error { return nil })
}

// NewImporter creates a bulk importer feeding the catalog.
// The caller must Release it.
func (db *Database) NewImporter(opts ...catalog.ImporterOption) (*catalog.Importer, error) {
	opts = append([]catalog.ImporterOption{catalog.WithImportLogger(db.logger)}, opts...)
	return catalog.NewImporter(db.service, opts...)
}

// NewHandler creates the HTTP handler set serving the catalog, with
// /metrics backed by the database registry. It may be called once per
// Database.
func (db *Database) NewHandler() (*httpapi.Handler, error) {
	return httpapi.NewHandler(httpapi.Config{
		Logger:     db.logger,
		Catalog:    db.service,
		Ping:       db.Ping,
		Gatherer:   db.registry,
		Registerer: db.registry,
	})
}
