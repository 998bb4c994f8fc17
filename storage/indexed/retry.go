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
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/poiesic/stallbook/storage"
)

// retryConflicts runs op until it commits, fails with something other than
// a transaction conflict, or runs out of attempts. The wait between
// attempts doubles each time, starting at baseDelay.
//
// When every attempt conflicts the last conflict is returned wrapped in
// ErrStorageUnavailable.
func (r *Repository[T]) retryConflicts(ctx context.Context, opName string, op func() error) error {
	delay := r.opts.retryDelay
	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil || !errors.Is(err, storage.ErrConflict) {
			if err == nil && attempt > 1 {
				r.logger.Debug("commit succeeded after retry", "op", opName, "attempt", attempt)
			}
			return err
		}

		r.metrics.conflict(r.typeName, opName)
		if attempt >= r.opts.maxConflictRetries {
			return fmt.Errorf("%w: %s gave up after %d attempts: %w",
				storage.ErrStorageUnavailable, opName, attempt, err)
		}
		r.logger.Debug("transaction conflict, retrying", "op", opName, "attempt", attempt)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
