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
	"fmt"
	"io"
	"sync"
	"time"
)

// Progress reports how far a bulk import has come.
type Progress struct {
	writer   io.Writer
	total    int
	interval int

	mu       sync.Mutex
	done     int
	failed   int
	reported int
	start    time.Time
}

// NewProgress creates a progress reporter writing to w every interval
// processed stalls. A nil writer reports nothing.
func NewProgress(w io.Writer, total, interval int) *Progress {
	if interval < 1 {
		interval = 1
	}
	return &Progress{writer: w, total: total, interval: interval, start: time.Now()}
}

// Record counts one processed stall.
func (p *Progress) Record(ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	if !ok {
		p.failed++
	}
	if p.done-p.reported >= p.interval {
		p.report()
		p.reported = p.done
	}
}

// Finish writes the final line.
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.report()
	if p.writer != nil {
		fmt.Fprintln(p.writer)
	}
}

// Elapsed returns the time since the reporter was created.
func (p *Progress) Elapsed() time.Duration {
	return time.Since(p.start)
}

// report writes the current line. Must be called with lock held.
func (p *Progress) report() {
	if p.writer == nil {
		return
	}
	percentage := 0.0
	if p.total > 0 {
		percentage = float64(p.done) / float64(p.total) * 100.0
	}
	rate := float64(p.done) / time.Since(p.start).Seconds()
	fmt.Fprintf(p.writer, "\rImported: %d/%d (%.1f%%), %d failed - %.1f stalls/s",
		p.done, p.total, percentage, p.failed, rate)
}
