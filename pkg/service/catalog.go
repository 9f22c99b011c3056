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

package service

import (
	"context"
	"fmt"

	models_catalog "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/catalog"
	models_error "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/error"
	"github.com/SENERGY-Platform/mgw-repo-browser/pkg/util/set"
)

// CurrentCatalog returns the published catalog. An empty snapshot is returned
// before the first publish.
func (s *Service) CurrentCatalog() models_catalog.Snapshot {
	if snapshot := s.store.Current(); snapshot != nil {
		return *snapshot
	}
	return models_catalog.Snapshot{
		Generation: s.store.Generation(),
		SortMode:   s.state.SortMode(),
		Entries:    []models_catalog.Entry{},
		Enabled:    make(set.Set[string]),
		Unseen:     make(set.Set[string]),
	}
}

func (s *Service) Catalog(_ context.Context, filter models_catalog.Filter) (models_catalog.Snapshot, error) {
	snapshot := s.CurrentCatalog()
	snapshot.Entries = applyFilter(snapshot, filter)
	return snapshot, nil
}

func (s *Service) Entry(_ context.Context, url string) (models_catalog.Entry, error) {
	if snapshot := s.store.Current(); snapshot != nil {
		if entry, ok := snapshot.Entry(url); ok {
			return entry, nil
		}
	}
	return models_catalog.Entry{}, fmt.Errorf("entry '%s' %w", url, models_error.NotFoundErr)
}

func (s *Service) CatalogStatus() models_catalog.Status {
	return s.store.Status()
}

func (s *Service) PrioritySources() []string {
	return set.Sorted(s.store.PrioritySet())
}

func (s *Service) Subscribe() (<-chan models_catalog.Update, func()) {
	return s.store.Subscribe()
}

// RequestSort arms the sort countdown and schedules a debounced sort.
func (s *Service) RequestSort() {
	s.store.ArmSort(s.config.SortTicks)
	s.scheduler.Trigger()
}

// ConsumeSortTick advances the sort countdown by one tick and sorts the
// catalog when it expires.
func (s *Service) ConsumeSortTick() bool {
	if !s.store.ConsumeSortTick() {
		return false
	}
	s.scheduler.Apply()
	return true
}

func (s *Service) SetSortMode(mode models_catalog.SortMode) error {
	if err := s.state.SetSortMode(mode); err != nil {
		return err
	}
	s.RequestSort()
	return nil
}
