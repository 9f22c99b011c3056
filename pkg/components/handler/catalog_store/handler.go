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

package catalog_store

import (
	"log/slog"
	"sync"
	"sync/atomic"

	helper_time "github.com/SENERGY-Platform/mgw-repo-browser/pkg/components/helper/time"
	models_catalog "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/catalog"
	"github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/slog_attr"
	"github.com/SENERGY-Platform/mgw-repo-browser/pkg/util/set"
)

const subscriberBufferSize = 8

// Handler holds the published catalog and priority set. Fetch cycles obtain a
// generation via BeginCycle and may only publish while it is still current.
type Handler struct {
	seen        seenStore
	logger      *slog.Logger
	pubMu       sync.Mutex
	generation  atomic.Uint64
	fetching    atomic.Bool
	catalog     atomic.Pointer[models_catalog.Snapshot]
	priority    atomic.Pointer[models_catalog.PrioritySet]
	remote      atomic.Pointer[models_catalog.RemoteUpdate]
	guardMu     sync.Mutex
	guardGen    uint64
	fetched     set.Set[string]
	prevSeen    set.Set[string]
	countdown   atomic.Int64
	subMu       sync.RWMutex
	subscribers map[uint64]chan models_catalog.Update
	subSeq      uint64
}

func New(seen seenStore, logger *slog.Logger) *Handler {
	h := &Handler{
		seen:        seen,
		logger:      logger.With(slog_attr.ComponentKey, "catalog_store"),
		fetched:     make(set.Set[string]),
		prevSeen:    set.New(seen.SeenSources()...),
		subscribers: make(map[uint64]chan models_catalog.Update),
	}
	ps := make(models_catalog.PrioritySet)
	h.priority.Store(&ps)
	return h
}

// BeginCycle starts a new fetch generation. Results of older generations are
// discarded from now on and the fetched URL guard is cleared.
func (h *Handler) BeginCycle() uint64 {
	h.pubMu.Lock()
	defer h.pubMu.Unlock()
	gen := h.generation.Add(1)
	h.fetching.Store(true)
	h.guardMu.Lock()
	h.guardGen = gen
	h.fetched = make(set.Set[string])
	h.guardMu.Unlock()
	h.logger.Debug("fetch cycle started", slog_attr.GenerationKey, gen)
	return gen
}

func (h *Handler) Generation() uint64 {
	return h.generation.Load()
}

// Abort ends the fetching state of gen without publishing anything.
func (h *Handler) Abort(gen uint64) {
	h.pubMu.Lock()
	defer h.pubMu.Unlock()
	if gen == h.generation.Load() {
		h.fetching.Store(false)
	}
}

// Publish replaces the catalog if gen is still the current generation.
func (h *Handler) Publish(gen uint64, entries []models_catalog.Entry) bool {
	h.pubMu.Lock()
	if gen != h.generation.Load() {
		h.pubMu.Unlock()
		h.logger.Info("discarding stale catalog", slog_attr.GenerationKey, gen, "current_generation", h.generation.Load())
		return false
	}
	snapshot := &models_catalog.Snapshot{
		Generation: gen,
		Published:  helper_time.Now(),
		Entries:    entries,
		Enabled:    make(set.Set[string]),
		Unseen:     make(set.Set[string]),
	}
	h.catalog.Store(snapshot)
	h.fetching.Store(false)
	h.pubMu.Unlock()
	h.logger.Info("catalog published", slog_attr.GenerationKey, gen, slog_attr.CountKey, len(entries))
	h.notify(models_catalog.Update{
		Kind:       models_catalog.UpdatePublished,
		Generation: gen,
		Entries:    len(entries),
		Time:       snapshot.Published,
	})
	return true
}

// PublishPrioritySet replaces the priority set if gen is still current.
func (h *Handler) PublishPrioritySet(gen uint64, ps models_catalog.PrioritySet) bool {
	h.pubMu.Lock()
	if gen != h.generation.Load() {
		h.pubMu.Unlock()
		h.logger.Info("discarding stale priority set", slog_attr.GenerationKey, gen)
		return false
	}
	h.priority.Store(&ps)
	h.pubMu.Unlock()
	h.logger.Info("priority set published", slog_attr.GenerationKey, gen, slog_attr.CountKey, len(ps))
	h.notify(models_catalog.Update{
		Kind:       models_catalog.UpdatePriority,
		Generation: gen,
		Time:       helper_time.Now(),
	})
	return true
}

// PublishRemoteUpdate merges the known timestamps of ru into the stored
// publisher metadata if gen is still the current generation.
func (h *Handler) PublishRemoteUpdate(gen uint64, ru models_catalog.RemoteUpdate) bool {
	h.pubMu.Lock()
	defer h.pubMu.Unlock()
	if gen != h.generation.Load() {
		return false
	}
	next := h.RemoteUpdate()
	if ru.Updated != nil {
		next.Updated = ru.Updated
	}
	if ru.NextUpdate != nil {
		next.NextUpdate = ru.NextUpdate
	}
	h.remote.Store(&next)
	return true
}

func (h *Handler) RemoteUpdate() models_catalog.RemoteUpdate {
	if ru := h.remote.Load(); ru != nil {
		return *ru
	}
	return models_catalog.RemoteUpdate{}
}

// Current returns the published catalog or nil if nothing has been published.
func (h *Handler) Current() *models_catalog.Snapshot {
	return h.catalog.Load()
}

// ReplaceSnapshot swaps in a derived view of old. It fails if another
// snapshot was stored in the meantime.
func (h *Handler) ReplaceSnapshot(old, next *models_catalog.Snapshot) bool {
	if !h.catalog.CompareAndSwap(old, next) {
		return false
	}
	h.notify(models_catalog.Update{
		Kind:       models_catalog.UpdateSorted,
		Generation: next.Generation,
		Entries:    len(next.Entries),
		Time:       helper_time.Now(),
	})
	return true
}

func (h *Handler) PrioritySet() models_catalog.PrioritySet {
	return *h.priority.Load()
}

func (h *Handler) State() models_catalog.State {
	if h.fetching.Load() {
		return models_catalog.StateFetching
	}
	if h.catalog.Load() == nil {
		return models_catalog.StateEmpty
	}
	return models_catalog.StatePublished
}

func (h *Handler) Status() models_catalog.Status {
	status := models_catalog.Status{
		State:         h.State(),
		Generation:    h.generation.Load(),
		PrioritySize:  len(h.PrioritySet()),
		SortCountdown: h.countdown.Load(),
	}
	ru := h.RemoteUpdate()
	status.RemoteUpdated = ru.Updated
	status.RemoteNextUpdate = ru.NextUpdate
	if snapshot := h.catalog.Load(); snapshot != nil {
		status.Published = snapshot.Published
		status.Entries = len(snapshot.Entries)
		for _, entry := range snapshot.Entries {
			status.Items += len(entry.Items)
		}
	}
	return status
}

// Guard returns the fetched URL guard of generation gen. Guards of stale
// generations reject every URL.
func (h *Handler) Guard(gen uint64) *Guard {
	return &Guard{handler: h, gen: gen}
}

func (h *Handler) markFetched(gen uint64, url string) bool {
	h.guardMu.Lock()
	defer h.guardMu.Unlock()
	if gen != h.guardGen {
		return false
	}
	return h.fetched.Add(url)
}

type Guard struct {
	handler *Handler
	gen     uint64
}

func (g *Guard) MarkFetched(url string) bool {
	return g.handler.markFetched(g.gen, url)
}

// PreviouslySeen reports whether url was seen before this process started.
func (h *Handler) PreviouslySeen(url string) bool {
	return h.prevSeen.Has(url)
}

func (h *Handler) MarkSeen(urls ...string) error {
	return h.seen.AddSeen(urls...)
}

// ArmSort sets the sort countdown to ticks.
func (h *Handler) ArmSort(ticks int64) {
	h.countdown.Store(ticks)
}

// ConsumeSortTick decrements an armed countdown and reports true exactly on
// the tick it reaches zero.
func (h *Handler) ConsumeSortTick() bool {
	for {
		c := h.countdown.Load()
		if c <= 0 {
			return false
		}
		if h.countdown.CompareAndSwap(c, c-1) {
			return c == 1
		}
	}
}

// Subscribe registers a listener for catalog updates. Slow listeners miss
// updates instead of blocking publishers.
func (h *Handler) Subscribe() (<-chan models_catalog.Update, func()) {
	h.subMu.Lock()
	defer h.subMu.Unlock()
	h.subSeq++
	id := h.subSeq
	ch := make(chan models_catalog.Update, subscriberBufferSize)
	h.subscribers[id] = ch
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.subMu.Lock()
			defer h.subMu.Unlock()
			delete(h.subscribers, id)
			close(ch)
		})
	}
}

func (h *Handler) notify(update models_catalog.Update) {
	h.subMu.RLock()
	defer h.subMu.RUnlock()
	for _, ch := range h.subscribers {
		select {
		case ch <- update:
		default:
			h.logger.Warn("dropping catalog update for slow subscriber", "kind", update.Kind)
		}
	}
}
