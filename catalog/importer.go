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

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/stallbook/core"
)

// Importer bulk-creates stalls through a bounded worker pool. Each stall is
// validated and created on its own; one failure does not stop the rest.
type Importer struct {
	service        *Service
	pool           *ants.Pool
	logger         *slog.Logger
	progressWriter io.Writer
	reportInterval int
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer) error

// WithPoolSize sets the number of concurrent workers.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) ImporterOption {
	return func(im *Importer) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if im.pool != nil {
			im.pool.Release()
		}
		im.pool = pool
		return nil
	}
}

// WithImportLogger sets a custom logger.
// Default is slog.Default().
func WithImportLogger(logger *slog.Logger) ImporterOption {
	return func(im *Importer) error {
		if logger == nil {
			logger = slog.Default()
		}
		im.logger = logger
		return nil
	}
}

// WithProgress reports progress to w every interval stalls.
func WithProgress(w io.Writer, interval int) ImporterOption {
	return func(im *Importer) error {
		im.progressWriter = w
		im.reportInterval = interval
		return nil
	}
}

// NewImporter creates an importer feeding service.
func NewImporter(service *Service, opts ...ImporterOption) (*Importer, error) {
	if service == nil {
		return nil, ErrServiceRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	im := &Importer{
		service:        service,
		pool:           pool,
		logger:         slog.Default(),
		reportInterval: 10,
	}
	for _, opt := range opts {
		if err := opt(im); err != nil {
			im.Release()
			return nil, err
		}
	}
	return im, nil
}

// ImportResult summarizes one import run.
type ImportResult struct {
	Created []core.Stall
	Failed  []ImportFailure
}

// ImportFailure records why one input was not imported.
type ImportFailure struct {
	Index int
	Name  string
	Err   error
}

// Import validates and creates every input. Stalls are created
// concurrently, so their catalog order is not the input order. Created
// stalls in the result are in input order.
func (im *Importer) Import(ctx context.Context, inputs []core.StallInput) (ImportResult, error) {
	progress := NewProgress(im.progressWriter, len(inputs), im.reportInterval)

	created := make([]*core.Stall, len(inputs))
	failures := make([]error, len(inputs))

	var wg sync.WaitGroup
	for i := range inputs {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return ImportResult{}, err
		}
		input := inputs[i]
		wg.Add(1)
		err := im.pool.Submit(func() {
			defer wg.Done()
			stall, err := im.importOne(ctx, input)
			if err != nil {
				failures[i] = err
				progress.Record(false)
				return
			}
			created[i] = &stall
			progress.Record(true)
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return ImportResult{}, fmt.Errorf("submit import task: %w", err)
		}
	}
	wg.Wait()
	if im.progressWriter != nil {
		progress.Finish()
	}

	var result ImportResult
	for i := range inputs {
		if created[i] != nil {
			result.Created = append(result.Created, *created[i])
			continue
		}
		result.Failed = append(result.Failed, ImportFailure{Index: i, Name: inputs[i].Name, Err: failures[i]})
		im.logger.Warn("stall not imported", "index", i, "name", inputs[i].Name, "err", failures[i])
	}
	im.logger.Info("import finished",
		"created", len(result.Created), "failed", len(result.Failed), "elapsed", progress.Elapsed())
	return result, nil
}

// ImportJSON decodes a JSON array of stall inputs from r and imports it.
func (im *Importer) ImportJSON(ctx context.Context, r io.Reader) (ImportResult, error) {
	var inputs []core.StallInput
	if err := json.NewDecoder(r).Decode(&inputs); err != nil {
		return ImportResult{}, fmt.Errorf("%w: decode stalls: %w", core.ErrValidationFailed, err)
	}
	return im.Import(ctx, inputs)
}

func (im *Importer) importOne(ctx context.Context, input core.StallInput) (core.Stall, error) {
	if err := core.ValidateStallInput(&input); err != nil {
		return core.Stall{}, err
	}
	return im.service.CreateStall(ctx, input)
}

// Release stops the worker pool. The importer must not be used afterwards.
func (im *Importer) Release() {
	if im.pool != nil {
		im.pool.Release()
	}
}

// Err joins every failure of the run, or returns nil when all stalls were created.
func (r ImportResult) Err() error {
	errs := make([]error, len(r.Failed))
	for i, f := range r.Failed {
		errs[i] = fmt.Errorf("stall %d (%q): %w", f.Index, f.Name, f.Err)
	}
	return errors.Join(errs...)
}
