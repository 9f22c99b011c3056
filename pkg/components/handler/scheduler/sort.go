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
	"cmp"
	"slices"
	"strings"

	models_catalog "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/catalog"
)

// SortEntries stable sorts entries in place.
func SortEntries(entries []models_catalog.Entry, mode models_catalog.SortMode) {
	var f func(a, b models_catalog.Entry) int
	switch mode {
	case models_catalog.SortOwner:
		f = func(a, b models_catalog.Entry) int {
			return strings.Compare(strings.ToLower(a.Owner), strings.ToLower(b.Owner))
		}
	case models_catalog.SortURL:
		f = func(a, b models_catalog.Entry) int {
			return strings.Compare(a.URL, b.URL)
		}
	case models_catalog.SortItemCount:
		f = func(a, b models_catalog.Entry) int {
			return cmp.Compare(len(b.Items), len(a.Items))
		}
	case models_catalog.SortLastUpdate:
		f = func(a, b models_catalog.Entry) int {
			return cmp.Compare(b.LastUpdate, a.LastUpdate)
		}
	default:
		return
	}
	slices.SortStableFunc(entries, f)
}

// PartitionSeen moves entries for which seen returns true in front of the
// others. Relative order within both groups is kept.
func PartitionSeen(entries []models_catalog.Entry, seen func(models_catalog.Entry) bool) []models_catalog.Entry {
	result := make([]models_catalog.Entry, 0, len(entries))
	var unseen []models_catalog.Entry
	for _, entry := range entries {
		if seen(entry) {
			result = append(result, entry)
		} else {
			unseen = append(unseen, entry)
		}
	}
	return append(result, unseen...)
}
