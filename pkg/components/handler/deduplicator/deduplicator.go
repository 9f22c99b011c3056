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

package deduplicator

import (
	"log/slog"
	"strings"

	models_catalog "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/catalog"
	"github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/slog_attr"
	"github.com/SENERGY-Platform/mgw-repo-browser/pkg/util/set"
)

const unknownDeveloper = "Unknown Developer"

type Handler struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Handler {
	return &Handler{logger: logger.With(slog_attr.ComponentKey, "deduplicator")}
}

func (h *Handler) Deduplicate(entries []models_catalog.Entry, priority models_catalog.PrioritySet) []models_catalog.Entry {
	result := Deduplicate(entries, priority)
	var itemsIn, itemsOut int
	for _, entry := range entries {
		itemsIn += len(entry.Items)
	}
	for _, entry := range result {
		itemsOut += len(entry.Items)
	}
	h.logger.Info(
		"deduplicated catalog",
		"entries_in", len(entries),
		"entries_out", len(result),
		"items_in", itemsIn,
		"items_out", itemsOut,
		"priority_size", len(priority),
	)
	return result
}

type occurrence struct {
	entry int
	item  int
}

// Deduplicate reduces items sharing an identity key to one survivor per
// developer, or to the single best priority occurrence if any survivor
// belongs to a priority entry. Entries left without items are dropped.
func Deduplicate(entries []models_catalog.Entry, priority models_catalog.PrioritySet) []models_catalog.Entry {
	var keys []string
	groups := make(map[string][]occurrence)
	for ei, entry := range entries {
		for ii, item := range entry.Items {
			key := item.Key()
			if key == "" {
				continue
			}
			if _, ok := groups[key]; !ok {
				keys = append(keys, key)
			}
			groups[key] = append(groups[key], occurrence{entry: ei, item: ii})
		}
	}
	isPriority := func(o occurrence) bool {
		return priority.Has(entries[o.entry].URL)
	}
	permitted := make(map[string]set.Set[string])
	for _, key := range keys {
		var survivors []occurrence
		for _, candidates := range byDeveloper(entries, groups[key]) {
			if prioCandidates := filter(candidates, isPriority); len(prioCandidates) > 0 {
				candidates = prioCandidates
			}
			survivors = append(survivors, best(entries, candidates))
		}
		if prioSurvivors := filter(survivors, isPriority); len(prioSurvivors) > 0 {
			survivors = []occurrence{best(entries, prioSurvivors)}
		}
		for _, o := range survivors {
			u := entries[o.entry].URL
			if permitted[u] == nil {
				permitted[u] = make(set.Set[string])
			}
			permitted[u].Add(key)
		}
	}
	var result []models_catalog.Entry
	for _, entry := range entries {
		keySet, ok := permitted[entry.URL]
		if !ok {
			continue
		}
		var items []models_catalog.Item
		for _, item := range entry.Items {
			if key := item.Key(); key != "" && keySet.Has(key) {
				items = append(items, item)
			}
		}
		if len(items) == 0 {
			continue
		}
		result = append(result, entry.WithItems(items))
	}
	return result
}

func developer(entry models_catalog.Entry, item models_catalog.Item) string {
	if owner := strings.TrimSpace(entry.Owner); owner != "" {
		return owner
	}
	if author := strings.TrimSpace(item.Author); author != "" {
		return author
	}
	return unknownDeveloper
}

// byDeveloper splits occurrences by developer in order of first appearance.
func byDeveloper(entries []models_catalog.Entry, occurrences []occurrence) [][]occurrence {
	var subGroups [][]occurrence
	index := make(map[string]int)
	for _, o := range occurrences {
		dev := developer(entries[o.entry], entries[o.entry].Items[o.item])
		i, ok := index[dev]
		if !ok {
			i = len(subGroups)
			index[dev] = i
			subGroups = append(subGroups, nil)
		}
		subGroups[i] = append(subGroups[i], o)
	}
	return subGroups
}

func filter(occurrences []occurrence, f func(occurrence) bool) []occurrence {
	var result []occurrence
	for _, o := range occurrences {
		if f(o) {
			result = append(result, o)
		}
	}
	return result
}

// best returns the occurrence with the highest api level, then the latest
// update. The first one wins on equality.
func best(entries []models_catalog.Entry, candidates []occurrence) occurrence {
	winner := candidates[0]
	for _, o := range candidates[1:] {
		w := entries[winner.entry].Items[winner.item]
		c := entries[o.entry].Items[o.item]
		if c.APILevel > w.APILevel || (c.APILevel == w.APILevel && c.LastUpdate > w.LastUpdate) {
			winner = o
		}
	}
	return winner
}
