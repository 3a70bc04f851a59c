// Copyright 2020-2024 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package diagnose

import (
	"context"
	"os"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/amitsingh19975/diagnose/canvas"
	"github.com/amitsingh19975/diagnose/glyphs"
	"github.com/amitsingh19975/diagnose/source"
	"github.com/amitsingh19975/diagnose/term"
)

// Consumer accepts finished diagnostics and eventually writes them
// somewhere (spec §5). Builders never write directly; they hand the
// finished Diagnostic to a Consumer.
type Consumer interface {
	Consume(d Diagnostic)
}

// StreamConsumer writes each diagnostic to w as soon as it arrives,
// holding an advisory [term.Lock] for the duration of the render so
// that concurrent writers to the same file don't interleave
// mid-diagnostic (spec §4.8, §5).
type StreamConsumer struct {
	w      *os.File
	mode   term.ColorMode
	glyphs glyphs.BoxChars
	lock   *term.Lock

	mu  sync.Mutex
	err error
}

// NewStreamConsumer creates a StreamConsumer writing to w. lockPath, if
// non-empty, is used to derive the advisory lock file; an empty
// lockPath disables locking (appropriate for an in-memory buffer that
// no other process can contend for).
func NewStreamConsumer(w *os.File, mode term.ColorMode, chars glyphs.BoxChars, lockPath string) *StreamConsumer {
	sc := &StreamConsumer{w: w, mode: mode, glyphs: chars}
	if lockPath != "" {
		sc.lock = term.NewLock(lockPath)
	}
	return sc
}

// Consume renders and writes d, serializing concurrent calls on this
// consumer with mu and, if configured, the cross-process advisory lock.
func (sc *StreamConsumer) Consume(d Diagnostic) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.lock != nil {
		if err := sc.lock.Acquire(); err != nil {
			sc.err = err
			return
		}
		defer sc.lock.Release()
	}

	width := term.Width(sc.w)
	c := Render(d, width, sc.glyphs)
	if err := c.Render(sc.w, term.ShouldColor(sc.w, sc.mode)); err != nil {
		sc.err = err
	}
}

// Err returns the first write error encountered, if any.
func (sc *StreamConsumer) Err() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.err
}

// SortingConsumer buffers diagnostics until Flush, then writes them in
// (Path, StartLine, StartColumn) order, ties broken by arrival order
// (spec §5: "a consumer that batches and sorts before writing, so a
// multi-file compile's output reads top-to-bottom by file"). Per-
// diagnostic layout (the expensive canvas-building step) is fanned out
// concurrently; the final writes happen sequentially, in sorted order,
// under a single lock acquisition.
type SortingConsumer struct {
	w      *os.File
	mode   term.ColorMode
	glyphs glyphs.BoxChars
	lock   *term.Lock

	mu    sync.Mutex
	items []sortingItem
}

type sortingItem struct {
	d     Diagnostic
	order int
}

// NewSortingConsumer creates a SortingConsumer writing to w once
// flushed. lockPath behaves as in [NewStreamConsumer].
func NewSortingConsumer(w *os.File, mode term.ColorMode, chars glyphs.BoxChars, lockPath string) *SortingConsumer {
	sc := &SortingConsumer{w: w, mode: mode, glyphs: chars}
	if lockPath != "" {
		sc.lock = term.NewLock(lockPath)
	}
	return sc
}

// Consume buffers d; nothing is written until Flush.
func (sc *SortingConsumer) Consume(d Diagnostic) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.items = append(sc.items, sortingItem{d: d, order: len(sc.items)})
}

// Flush sorts every buffered diagnostic, renders them concurrently
// (bounded by ctx), and writes them out in order while holding the
// advisory lock for the whole batch. It returns the first rendering or
// write error, if any, and always clears the buffer.
func (sc *SortingConsumer) Flush(ctx context.Context) error {
	sc.mu.Lock()
	items := sc.items
	sc.items = nil
	sc.mu.Unlock()

	if len(items) == 0 {
		return nil
	}

	sort.SliceStable(items, func(i, j int) bool {
		if c := source.Compare(items[i].d.Location, items[j].d.Location); c != 0 {
			return c < 0
		}
		return items[i].order < items[j].order
	})

	width := term.Width(sc.w)
	canvases := make([]*canvas.Canvas, len(items))

	g, gctx := errgroup.WithContext(ctx)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			canvases[i] = Render(item.d, width, sc.glyphs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if sc.lock != nil {
		if err := sc.lock.Acquire(); err != nil {
			return err
		}
		defer sc.lock.Release()
	}

	useColor := term.ShouldColor(sc.w, sc.mode)
	for _, c := range canvases {
		if err := c.Render(sc.w, useColor); err != nil {
			return err
		}
	}
	return nil
}
