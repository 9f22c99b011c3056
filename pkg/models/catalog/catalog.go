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

package catalog

import (
	"strings"
	"time"

	"github.com/SENERGY-Platform/mgw-repo-browser/pkg/util/set"
)

// Item is a single installable unit offered by a catalog entry.
type Item struct {
	InternalName string   `json:"internal_name"`
	Name         string   `json:"name"`
	Author       string   `json:"author"`
	Punchline    string   `json:"punchline"`
	Description  string   `json:"description"`
	EntryURL     string   `json:"entry_url"`
	ProjectURL   string   `json:"project_url"`
	APILevel     uint8    `json:"api_level"`
	LastUpdate   int64    `json:"last_update"`
	Tags         []string `json:"tags"`
	CategoryTags []string `json:"category_tags"`
	ClosedSource bool     `json:"closed_source"`
	ScriptOnly   bool     `json:"script_only"`
}

// Key returns the identity key used to detect the same item across entries.
// An empty key excludes the item from the catalog.
func (i Item) Key() string {
	if k := strings.TrimSpace(i.InternalName); k != "" {
		return k
	}
	return strings.TrimSpace(i.Name)
}

// Entry is one catalog document record describing a single source repository.
type Entry struct {
	URL             string `json:"url"`
	RawURL          string `json:"raw_url"`
	GitRepoURL      string `json:"git_repo_url"`
	GitRepoID       string `json:"git_repo_id"`
	Owner           string `json:"owner"`
	Name            string `json:"name"`
	IsDefaultBranch bool   `json:"is_default_branch"`
	BranchName      string `json:"branch_name"`
	LastUpdate      int64  `json:"last_update"`
	APILevel        uint8  `json:"api_level"`
	Items           []Item `json:"items"`
}

// WithItems returns a copy of e holding items with LastUpdate and APILevel
// recomputed from them.
func (e Entry) WithItems(items []Item) Entry {
	e.Items = items
	e.LastUpdate = 0
	e.APILevel = 0
	for _, item := range items {
		e.LastUpdate = max(e.LastUpdate, item.LastUpdate)
		e.APILevel = max(e.APILevel, item.APILevel)
	}
	return e
}

// PrioritySet holds the URLs of entries that win conflicts in deduplication.
type PrioritySet = set.Set[string]

type SortMode = string

const (
	SortNone       SortMode = "none"
	SortOwner      SortMode = "owner"
	SortURL        SortMode = "url"
	SortItemCount  SortMode = "item_count"
	SortLastUpdate SortMode = "last_update"
)

var SortModeMap = map[SortMode]struct{}{
	SortNone:       {},
	SortOwner:      {},
	SortURL:        {},
	SortItemCount:  {},
	SortLastUpdate: {},
}

type State = string

const (
	StateEmpty     State = "empty"
	StateFetching  State = "fetching"
	StatePublished State = "published"
)

// Snapshot is an immutable published catalog. Consumers must not modify it.
type Snapshot struct {
	Generation uint64          `json:"generation"`
	Published  time.Time       `json:"published"`
	Sorted     bool            `json:"sorted"`
	SortMode   SortMode        `json:"sort_mode"`
	Entries    []Entry         `json:"entries"`
	Enabled    set.Set[string] `json:"enabled"`
	Unseen     set.Set[string] `json:"unseen"`
}

func (s *Snapshot) Entry(url string) (Entry, bool) {
	for _, entry := range s.Entries {
		if entry.URL == url {
			return entry, true
		}
	}
	return Entry{}, false
}

// RemoteUpdate holds when the catalog publisher last regenerated its document
// and when it plans to do so next. Nil fields are unknown.
type RemoteUpdate struct {
	Updated    *time.Time `json:"updated"`
	NextUpdate *time.Time `json:"next_update"`
}

type Status struct {
	State            State      `json:"state"`
	Generation       uint64     `json:"generation"`
	Published        time.Time  `json:"published"`
	Entries          int        `json:"entries"`
	Items            int        `json:"items"`
	PrioritySize     int        `json:"priority_size"`
	SortCountdown    int64      `json:"sort_countdown"`
	RemoteUpdated    *time.Time `json:"remote_updated,omitempty"`
	RemoteNextUpdate *time.Time `json:"remote_next_update,omitempty"`
}

type UpdateKind = string

const (
	UpdatePublished UpdateKind = "published"
	UpdateSorted    UpdateKind = "sorted"
	UpdatePriority  UpdateKind = "priority"
)

type Update struct {
	Kind       UpdateKind `json:"kind"`
	Generation uint64     `json:"generation"`
	Entries    int        `json:"entries"`
	Time       time.Time  `json:"time"`
}

// Filter narrows a catalog view. Zero values disable a criterion. MaxItems
// hides whole entries offering more items than the limit.
type Filter struct {
	MinAPILevel      uint8
	HideEnabled      bool
	HideScriptOnly   bool
	HideClosedSource bool
	Search           string
	Tag              string
	Owner            string
	MaxItems         int
}
