/*
 * Copyright 2025 InfAI (CC SES)
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package scheduler

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	models_catalog "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/catalog"
	"github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/slog_attr"
	"github.com/SENERGY-Platform/mgw-repo-browser/pkg/util/set"
)

// Handler derives the sorted view of the published catalog. Triggers within
// the debounce delay collapse into a single recomputation.
type Handler struct {
	store   catalogStore
	toggle  sourceToggle
	modes   sortModeProvider
	delay   time.Duration
	logger  *slog.Logger
	mu      sync.Mutex
	timerMu sync.Mutex
	timer   *time.Timer
	stopped bool
}

func New(store catalogStore, toggle sourceToggle, modes sortModeProvider, delay time.Duration, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		toggle: toggle,
		modes:  modes,
		delay:  delay,
		logger: logger.With(slog_attr.ComponentKey, "scheduler"),
	}
}

// Trigger schedules Apply after the debounce delay, postponing an already
// scheduled run.
func (h *Handler) Trigger() {
	h.timerMu.Lock()
	defer h.timerMu.Unlock()
	if h.stopped {
		return
	}
	if h.timer != nil {
		h.timer.Stop()
	}
	h.timer = time.AfterFunc(h.delay, func() {
		h.Apply()
	})
}

func (h *Handler) Stop() {
	h.timerMu.Lock()
	defer h.timerMu.Unlock()
	h.stopped = true
	if h.timer != nil {
		h.timer.Stop()
	}
}

// Apply sorts the published catalog, resolves enabled sources, marks all
// entries as seen and moves previously seen entries to the front.
func (h *Handler) Apply() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	current := h.store.Current()
	if current == nil {
		return false
	}
	mode := h.modes.SortMode()
	entries := slices.Clone(current.Entries)
	SortEntries(entries, mode)
	enabled := make(set.Set[string])
	unseen := make(set.Set[string])
	urls := make([]string, 0, len(entries))
	for _, entry := range entries {
		if h.toggle.IsEnabled(entry.URL) || h.toggle.IsEnabled(entry.RawURL) {
			enabled.Add(entry.URL)
		}
		if !h.store.PreviouslySeen(entry.URL) {
			unseen.Add(entry.URL)
		}
		urls = append(urls, entry.URL)
	}
	if err := h.store.MarkSeen(urls...); err != nil {
		h.logger.Error("marking sources as seen failed", slog_attr.ErrorKey, err)
	}
	entries = PartitionSeen(entries, func(entry models_catalog.Entry) bool {
		return !unseen.Has(entry.URL)
	})
	next := *current
	next.Entries = entries
	next.Enabled = enabled
	next.Unseen = unseen
	next.Sorted = true
	next.SortMode = mode
	if !h.store.ReplaceSnapshot(current, &next) {
		h.logger.Debug("catalog changed while sorting, result dropped", slog_attr.GenerationKey, current.Generation)
		return false
	}
	h.logger.Debug("catalog sorted", slog_attr.GenerationKey, current.Generation, slog_attr.SortModeKey, mode, slog_attr.CountKey, len(entries))
	return true
}
