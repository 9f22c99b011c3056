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

package source_cache

import (
	"os"
	"path"
	"testing"
	"time"
)

func newTestHandler(t *testing.T) (*Handler, *time.Time) {
	t.Helper()
	h := New(t.TempDir())
	if err := h.Init(); err != nil {
		t.Fatal(err)
	}
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time {
		return now
	}
	return h, &now
}

func TestHandler_ShouldRefresh(t *testing.T) {
	ttl := time.Hour * 24
	t.Run("missing file", func(t *testing.T) {
		h, _ := newTestHandler(t)
		if !h.ShouldRefresh("repos.json", ttl) {
			t.Error("expected refresh")
		}
	})
	t.Run("fresh", func(t *testing.T) {
		h, now := newTestHandler(t)
		if err := h.Write("repos.json", []byte("[]")); err != nil {
			t.Fatal(err)
		}
		if h.ShouldRefresh("repos.json", ttl) {
			t.Error("unexpected refresh")
		}
		*now = now.Add(ttl - time.Millisecond)
		if h.ShouldRefresh("repos.json", ttl) {
			t.Error("unexpected refresh")
		}
	})
	t.Run("expired", func(t *testing.T) {
		h, now := newTestHandler(t)
		if err := h.Write("repos.json", []byte("[]")); err != nil {
			t.Fatal(err)
		}
		*now = now.Add(ttl)
		if !h.ShouldRefresh("repos.json", ttl) {
			t.Error("expected refresh")
		}
	})
	t.Run("reset", func(t *testing.T) {
		h, _ := newTestHandler(t)
		if err := h.Write("repos.json", []byte("[]")); err != nil {
			t.Fatal(err)
		}
		if err := h.Reset("repos.json"); err != nil {
			t.Fatal(err)
		}
		if !h.ShouldRefresh("repos.json", ttl) {
			t.Error("expected refresh")
		}
		b, err := h.Read("repos.json")
		if err != nil {
			t.Fatal(err)
		}
		if string(b) != "[]" {
			t.Errorf("%s != []", string(b))
		}
	})
	t.Run("unreadable meta", func(t *testing.T) {
		h, _ := newTestHandler(t)
		if err := h.Write("repos.json", []byte("[]")); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path.Join(h.dirPath, "repos.json"+metaFileSuffix), []byte("{"), 0664); err != nil {
			t.Fatal(err)
		}
		if !h.ShouldRefresh("repos.json", ttl) {
			t.Error("expected refresh")
		}
	})
	t.Run("document removed", func(t *testing.T) {
		h, _ := newTestHandler(t)
		if err := h.Write("repos.json", []byte("[]")); err != nil {
			t.Fatal(err)
		}
		if err := os.Remove(path.Join(h.dirPath, "repos.json")); err != nil {
			t.Fatal(err)
		}
		if !h.ShouldRefresh("repos.json", ttl) {
			t.Error("expected refresh")
		}
	})
	t.Run("invalid name", func(t *testing.T) {
		h, _ := newTestHandler(t)
		if !h.ShouldRefresh("../repos.json", ttl) {
			t.Error("expected refresh")
		}
		if err := h.Write("../repos.json", nil); err == nil {
			t.Error("expected error")
		}
	})
}

func TestHandler_LastFetch(t *testing.T) {
	h, now := newTestHandler(t)
	ts, err := h.LastFetch("repos.json")
	if err != nil {
		t.Fatal(err)
	}
	if !ts.IsZero() {
		t.Error("expected zero time")
	}
	if err = h.Write("repos.json", []byte("[]")); err != nil {
		t.Fatal(err)
	}
	if ts, err = h.LastFetch("repos.json"); err != nil {
		t.Fatal(err)
	} else if !ts.Equal(*now) {
		t.Errorf("%s != %s", ts, *now)
	}
	if err = h.Reset("repos.json"); err != nil {
		t.Fatal(err)
	}
	if ts, err = h.LastFetch("repos.json"); err != nil {
		t.Fatal(err)
	} else if !ts.IsZero() {
		t.Error("expected zero time")
	}
}

func TestHandler_ResetWithoutDocument(t *testing.T) {
	h, _ := newTestHandler(t)
	if err := h.Reset("priority-repos.json"); err != nil {
		t.Fatal(err)
	}
	if !h.ShouldRefresh("priority-repos.json", time.Hour) {
		t.Error("expected refresh")
	}
	if _, err := h.Read("priority-repos.json"); err == nil {
		t.Error("expected error")
	}
}
