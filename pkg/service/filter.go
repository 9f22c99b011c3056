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
	"strings"

	models_catalog "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/catalog"
)

func applyFilter(snapshot models_catalog.Snapshot, filter models_catalog.Filter) []models_catalog.Entry {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	result := make([]models_catalog.Entry, 0, len(snapshot.Entries))
	for _, entry := range snapshot.Entries {
		if filter.HideEnabled && snapshot.Enabled.Has(entry.URL) {
			continue
		}
		if filter.Owner != "" && !strings.EqualFold(entry.Owner, filter.Owner) {
			continue
		}
		if filter.MaxItems > 0 && len(entry.Items) > filter.MaxItems {
			continue
		}
		entryMatch := search == "" || containsAny(search, entry.Name, entry.Owner, entry.URL)
		var items []models_catalog.Item
		for _, item := range entry.Items {
			// level 0 is unversioned and always passes
			if item.APILevel != 0 && item.APILevel < filter.MinAPILevel {
				continue
			}
			if filter.HideScriptOnly && item.ScriptOnly {
				continue
			}
			if filter.HideClosedSource && item.ClosedSource {
				continue
			}
			if filter.Tag != "" && !hasTag(item, filter.Tag) {
				continue
			}
			if !entryMatch && !containsAny(search, item.Name, item.InternalName, item.Punchline, item.Author) {
				continue
			}
			items = append(items, item)
		}
		if len(items) == 0 {
			continue
		}
		result = append(result, entry.WithItems(items))
	}
	return result
}

func containsAny(search string, texts ...string) bool {
	for _, text := range texts {
		if strings.Contains(strings.ToLower(text), search) {
			return true
		}
	}
	return false
}

func hasTag(item models_catalog.Item, tag string) bool {
	for _, t := range item.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	for _, t := range item.CategoryTags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
