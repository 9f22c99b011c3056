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

package catalog_parser

import (
	"log/slog"
	"os"
	"slices"
	"testing"
	"time"

	models_catalog "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/catalog"
	"github.com/SENERGY-Platform/mgw-repo-browser/pkg/util/set"
	"github.com/google/go-cmp/cmp"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	h, err := New(16, slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 1})))
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func collect(t *testing.T, h *Handler, doc string, guard URLGuard) []models_catalog.Entry {
	t.Helper()
	seq, err := h.Parse([]byte(doc), guard)
	if err != nil {
		t.Fatal(err)
	}
	return slices.Collect(seq)
}

func TestHandler_Parse(t *testing.T) {
	doc := `[
		{
			"repo_url": "https://github.com/owner/repo/raw/main/repo.json",
			"repo_developer_name": "owner",
			"repo_name": "repo",
			"repo_source_url": "https://github.com/owner/repo.git",
			"plugins": [
				{
					"InternalName": "TestPlugin",
					"Name": "Test Plugin",
					"Author": "someone",
					"Punchline": "tests things",
					"Description": "description",
					"RepoUrl": "https://github.com/owner/plugin",
					"DalamudApiLevel": 9,
					"LastUpdate": "1700000000",
					"Tags": ["a", "b"],
					"CategoryTags": ["utility"],
					"is_closed_source": true
				},
				{
					"Name": "テスト",
					"Description": "説明",
					"DalamudApiLevel": 10,
					"LastUpdate": 1600000000
				}
			]
		}
	]`
	a := []models_catalog.Entry{
		{
			URL:             "https://github.com/owner/repo/raw/main/repo.json",
			RawURL:          "https://raw.githubusercontent.com/owner/repo/main/repo.json",
			GitRepoURL:      "https://github.com/owner/repo.git",
			GitRepoID:       "github.com/owner/repo",
			Owner:           "owner",
			Name:            "owner/repo",
			IsDefaultBranch: true,
			LastUpdate:      1700000000,
			APILevel:        10,
			Items: []models_catalog.Item{
				{
					InternalName: "TestPlugin",
					Name:         "Test Plugin",
					Author:       "someone",
					Punchline:    "tests things",
					Description:  "description",
					EntryURL:     "https://github.com/owner/repo/raw/main/repo.json",
					ProjectURL:   "https://github.com/owner/plugin",
					APILevel:     9,
					LastUpdate:   1700000000,
					Tags:         []string{"a", "b"},
					CategoryTags: []string{"utility"},
					ClosedSource: true,
				},
				{
					Name:        "テスト",
					Description: "説明",
					EntryURL:    "https://github.com/owner/repo/raw/main/repo.json",
					APILevel:    10,
					LastUpdate:  1600000000,
					ScriptOnly:  true,
				},
			},
		},
	}
	b := collect(t, newTestHandler(t), doc, nil)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_ParseSkipsBadRecords(t *testing.T) {
	doc := `[
		{"repo_url": "https://example.org/0.json", "plugins": [{"Name": "a"}]},
		{"repo_url": "https://example.org/1.json", "plugins": [{"Name": "b"}]},
		{"repo_url": "https://example.org/2.json", "plugins": 42},
		{"repo_url": "https://example.org/3.json", "plugins": [{"Name": "c"}]},
		{"plugins": [{"Name": "d"}]},
		{"repo_url": "https://example.org/5.json"},
		{"repo_url": "https://example.org/6.json", "plugins": ["x"]},
		{"repo_url": "https://example.org/7.json", "plugins": [{"Name": "e", "DalamudApiLevel": 300}]},
		"text",
		{"repo_url": "https://example.org/9.json", "plugins": [{"Name": "f"}]}
	]`
	entries := collect(t, newTestHandler(t), doc, nil)
	var urls []string
	for _, entry := range entries {
		urls = append(urls, entry.URL)
	}
	a := []string{
		"https://example.org/0.json",
		"https://example.org/1.json",
		"https://example.org/3.json",
		"https://example.org/9.json",
	}
	if diff := cmp.Diff(a, urls); diff != "" {
		t.Errorf("urls mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_ParseDuplicateURL(t *testing.T) {
	doc := `[
		{"repo_url": "https://example.org/a.json", "repo_name": "first", "plugins": [{"Name": "a"}]},
		{"repo_url": "https://example.org/a.json", "repo_name": "second", "plugins": [{"Name": "b"}]}
	]`
	entries := collect(t, newTestHandler(t), doc, nil)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Name != "first" {
		t.Errorf("%s != first", entries[0].Name)
	}
	t.Run("shared guard", func(t *testing.T) {
		guard := localGuard(set.New("https://example.org/a.json"))
		if entries := collect(t, newTestHandler(t), doc, guard); len(entries) != 0 {
			t.Errorf("expected 0 entries, got %d", len(entries))
		}
	})
}

func TestHandler_ParseZeroItems(t *testing.T) {
	doc := `[
		{"repo_url": "https://example.org/a.json", "plugins": []},
		{"repo_url": "https://example.org/b.json", "plugins": [{"Name": "b"}]}
	]`
	entries := collect(t, newTestHandler(t), doc, nil)
	if len(entries) != 1 || entries[0].URL != "https://example.org/b.json" {
		t.Errorf("unexpected entries %v", entries)
	}
}

func TestHandler_ParseMissingItems(t *testing.T) {
	doc := `[
		{"repo_url": "https://example.org/a.json"},
		{"repo_url": "https://example.org/a.json", "plugins": [{"Name": "a"}]},
		{"repo_url": "https://example.org/b.json", "plugins": [{"Name": "b"}]}
	]`
	guard := make(localGuard)
	entries := collect(t, newTestHandler(t), doc, guard)
	if len(entries) != 1 || entries[0].URL != "https://example.org/b.json" {
		t.Errorf("unexpected entries %v", entries)
	}
	if !set.Set[string](guard).Has("https://example.org/a.json") {
		t.Error("url of record without items not marked")
	}
}

func TestHandler_ParseInvalidDocument(t *testing.T) {
	h := newTestHandler(t)
	for _, doc := range []string{"", "{}", "42", "\"[\""} {
		if _, err := h.Parse([]byte(doc), nil); err == nil {
			t.Errorf("expected error for %q", doc)
		}
	}
}

func TestHandler_ParseTruncatedDocument(t *testing.T) {
	h := newTestHandler(t)
	for _, doc := range []string{
		`[{"repo_url": "https://example.org/a.json", "plugins": [{"Name": "a"}]}, {"repo_url": `,
		`[{"repo_url": "https://example.org/a.json", "plugins": [{"Name": "a"}]}, {"repo_url": "https://example.org/b.json", "plugins": [{"Name": "b"}]}`,
		`[{"repo_url": "https://example.org/a.json", "plugins": [{"Name": "a"}]}, }`,
	} {
		if _, err := h.Parse([]byte(doc), nil); err == nil {
			t.Errorf("expected error for %q", doc)
		}
	}
}

func TestHandler_ParseEarlyStop(t *testing.T) {
	doc := `[
		{"repo_url": "https://example.org/a.json", "plugins": [{"Name": "a"}]},
		{"repo_url": "https://example.org/b.json", "plugins": [{"Name": "b"}]}
	]`
	seq, err := newTestHandler(t).Parse([]byte(doc), nil)
	if err != nil {
		t.Fatal(err)
	}
	var n int
	for range seq {
		n++
		break
	}
	if n != 1 {
		t.Errorf("%d != 1", n)
	}
}

func TestHandler_ParseMemo(t *testing.T) {
	doc := `[{"repo_url": "https://example.org/a.json", "plugins": [{"Name": "a"}]}]`
	h := newTestHandler(t)
	a := collect(t, h, doc, nil)
	if h.memo.Len() != 1 {
		t.Errorf("%d != 1", h.memo.Len())
	}
	b := collect(t, h, doc, nil)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
	if h.memo.Len() != 1 {
		t.Errorf("%d != 1", h.memo.Len())
	}
}

func TestHandler_ParsePrioritySet(t *testing.T) {
	h := newTestHandler(t)
	ps, err := h.ParsePrioritySet([]byte(`["https://example.org/a.json", "", 42, " https://example.org/b.json "]`))
	if err != nil {
		t.Fatal(err)
	}
	a := models_catalog.PrioritySet(set.New("https://example.org/a.json", "https://example.org/b.json"))
	if diff := cmp.Diff(a, ps); diff != "" {
		t.Errorf("priority set mismatch (-want +got):\n%s", diff)
	}
	if _, err = h.ParsePrioritySet([]byte(`{}`)); err == nil {
		t.Error("expected error")
	}
}

func TestHandler_ParseRemoteUpdate(t *testing.T) {
	h := newTestHandler(t)
	ru, err := h.ParseRemoteUpdate([]byte(`{"unix": 1700000000, "next_unix": 1700003600, "iso": "ignored"}`))
	if err != nil {
		t.Fatal(err)
	}
	if ru.Updated == nil || !ru.Updated.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("unexpected updated %v", ru.Updated)
	}
	if ru.NextUpdate == nil || !ru.NextUpdate.Equal(time.Unix(1700003600, 0)) {
		t.Errorf("unexpected next update %v", ru.NextUpdate)
	}
	if ru, err = h.ParseRemoteUpdate([]byte(`{"unix": 1700000000}`)); err != nil || ru.NextUpdate != nil {
		t.Errorf("unexpected result %+v, %v", ru, err)
	}
	if _, err = h.ParseRemoteUpdate([]byte(`{"unix": "soon"}`)); err == nil {
		t.Error("expected error")
	}
}
