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
	"os"
	"sync"
	"testing"
	"time"

	handler_catalog_store "github.com/SENERGY-Platform/mgw-repo-browser/pkg/components/handler/catalog_store"
	models_catalog "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/catalog"
	"github.com/SENERGY-Platform/mgw-repo-browser/pkg/util/set"
	"github.com/google/go-cmp/cmp"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

type seenStoreMock struct {
	mu   sync.Mutex
	seen set.Set[string]
}

func (m *seenStoreMock) SeenSources() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return set.Sorted(m.seen)
}

func (m *seenStoreMock) AddSeen(urls ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range urls {
		m.seen.Add(u)
	}
	return nil
}

type toggleMock set.Set[string]

func (m toggleMock) IsEnabled(url string) bool {
	return set.Set[string](m).Has(url)
}

type sortModeMock struct {
	mode models_catalog.SortMode
}

func (m *sortModeMock) SortMode() models_catalog.SortMode {
	return m.mode
}

func entry(url, owner string, lastUpdate int64, items int) models_catalog.Entry {
	var sl []models_catalog.Item
	for i := 0; i < items; i++ {
		sl = append(sl, models_catalog.Item{Name: url, LastUpdate: lastUpdate})
	}
	return models_catalog.Entry{URL: url, RawURL: url + "/raw", Owner: owner}.WithItems(sl)
}

func urls(entries []models_catalog.Entry) []string {
	var sl []string
	for _, e := range entries {
		sl = append(sl, e.URL)
	}
	return sl
}

func TestSortEntries(t *testing.T) {
	entries := []models_catalog.Entry{
		entry("c", "bob", 10, 1),
		entry("a", "Carl", 30, 3),
		entry("d", "alice", 20, 3),
		entry("b", "Bob", 40, 2),
	}
	tests := []struct {
		mode models_catalog.SortMode
		urls []string
	}{
		{mode: models_catalog.SortNone, urls: []string{"c", "a", "d", "b"}},
		{mode: models_catalog.SortOwner, urls: []string{"d", "c", "b", "a"}},
		{mode: models_catalog.SortURL, urls: []string{"a", "b", "c", "d"}},
		{mode: models_catalog.SortItemCount, urls: []string{"a", "d", "b", "c"}},
		{mode: models_catalog.SortLastUpdate, urls: []string{"b", "a", "d", "c"}},
	}
	for _, tc := range tests {
		t.Run(tc.mode, func(t *testing.T) {
			sl := append([]models_catalog.Entry(nil), entries...)
			SortEntries(sl, tc.mode)
			if diff := cmp.Diff(tc.urls, urls(sl)); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPartitionSeen(t *testing.T) {
	entries := []models_catalog.Entry{entry("a", "", 0, 1), entry("b", "", 0, 1), entry("c", "", 0, 1), entry("d", "", 0, 1)}
	seen := set.New("b", "d")
	result := PartitionSeen(entries, func(e models_catalog.Entry) bool {
		return seen.Has(e.URL)
	})
	if diff := cmp.Diff([]string{"b", "d", "a", "c"}, urls(result)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_Apply(t *testing.T) {
	seen := &seenStoreMock{seen: set.New("b", "d")}
	store := handler_catalog_store.New(seen, testLogger)
	h := New(store, toggleMock(set.New("a", "c/raw")), &sortModeMock{mode: models_catalog.SortURL}, time.Millisecond, testLogger)
	if h.Apply() {
		t.Error("apply without catalog succeeded")
	}
	gen := store.BeginCycle()
	store.Publish(gen, []models_catalog.Entry{entry("d", "", 0, 1), entry("c", "", 0, 1), entry("b", "", 0, 1), entry("a", "", 0, 1)})
	published := store.Current()
	if !h.Apply() {
		t.Fatal("apply failed")
	}
	snapshot := store.Current()
	if diff := cmp.Diff([]string{"b", "d", "a", "c"}, urls(snapshot.Entries)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(set.New("a", "c"), snapshot.Enabled); diff != "" {
		t.Errorf("enabled mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(set.New("a", "c"), snapshot.Unseen); diff != "" {
		t.Errorf("unseen mismatch (-want +got):\n%s", diff)
	}
	if !snapshot.Sorted || snapshot.SortMode != models_catalog.SortURL || snapshot.Generation != gen {
		t.Errorf("unexpected snapshot %+v", snapshot)
	}
	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, seen.SeenSources()); diff != "" {
		t.Errorf("seen mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"d", "c", "b", "a"}, urls(published.Entries)); diff != "" {
		t.Errorf("published snapshot modified (-want +got):\n%s", diff)
	}
	t.Run("reapply keeps session baseline", func(t *testing.T) {
		if !h.Apply() {
			t.Fatal("apply failed")
		}
		if diff := cmp.Diff(set.New("a", "c"), store.Current().Unseen); diff != "" {
			t.Errorf("unseen mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestHandler_Trigger(t *testing.T) {
	seen := &seenStoreMock{seen: set.New[string]()}
	store := handler_catalog_store.New(seen, testLogger)
	ch, cancel := store.Subscribe()
	defer cancel()
	h := New(store, toggleMock(set.New[string]()), &sortModeMock{mode: models_catalog.SortNone}, time.Millisecond*50, testLogger)
	defer h.Stop()
	gen := store.BeginCycle()
	store.Publish(gen, []models_catalog.Entry{entry("a", "", 0, 1)})
	<-ch
	for i := 0; i < 5; i++ {
		h.Trigger()
		time.Sleep(time.Millisecond * 5)
	}
	select {
	case update := <-ch:
		if update.Kind != models_catalog.UpdateSorted {
			t.Errorf("%s != %s", update.Kind, models_catalog.UpdateSorted)
		}
	case <-time.After(time.Second * 5):
		t.Fatal("sort not applied")
	}
	select {
	case update := <-ch:
		t.Errorf("unexpected update %+v", update)
	case <-time.After(time.Millisecond * 200):
	}
	if !store.Current().Sorted {
		t.Error("catalog not sorted")
	}
}
