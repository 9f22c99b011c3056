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

package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	models_catalog "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/catalog"
	models_error "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/error"
	models_job "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/job"
	"github.com/google/go-cmp/cmp"
)

func newTestServer(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	s := httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return New(s.Client(), s.URL)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_GetCatalog(t *testing.T) {
	mux := http.NewServeMux()
	var query string
	mux.HandleFunc("GET /catalog", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		writeJSON(w, models_catalog.Snapshot{
			Generation: 2,
			Entries:    []models_catalog.Entry{{URL: "https://a.example/repo.json", Owner: "a"}},
		})
	})
	c := newTestServer(t, mux)
	snapshot, err := c.GetCatalog(context.Background(), models_catalog.Filter{MinAPILevel: 9, Search: "a b", HideClosedSource: true, MaxItems: 3})
	if err != nil {
		t.Fatal(err)
	}
	if snapshot.Generation != 2 || len(snapshot.Entries) != 1 || snapshot.Entries[0].Owner != "a" {
		t.Errorf("unexpected snapshot %+v", snapshot)
	}
	if query != "hide_closed_source=true&max_items=3&min_api_level=9&search=a+b" {
		t.Errorf("unexpected query %s", query)
	}
}

func TestClient_GetCatalogEntry(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /catalog/entry", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("url") != "https://a.example/repo.json" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		writeJSON(w, models_catalog.Entry{URL: "https://a.example/repo.json", Owner: "a"})
	})
	c := newTestServer(t, mux)
	entry, err := c.GetCatalogEntry(context.Background(), "https://a.example/repo.json")
	if err != nil {
		t.Fatal(err)
	}
	if entry.Owner != "a" {
		t.Errorf("unexpected entry %+v", entry)
	}
	_, err = c.GetCatalogEntry(context.Background(), "https://b.example/repo.json")
	if !errors.Is(err, models_error.NotFoundErr) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestClient_RefreshCatalog(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /catalog/refresh", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("job-1"))
	})
	c := newTestServer(t, mux)
	jID, err := c.RefreshCatalog(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if jID != "job-1" {
		t.Errorf("expected job-1, got %s", jID)
	}
}

func TestClient_SortCatalog(t *testing.T) {
	mux := http.NewServeMux()
	var modes []string
	mux.HandleFunc("PATCH /catalog/sort", func(w http.ResponseWriter, r *http.Request) {
		mode := r.URL.Query().Get("mode")
		if mode == "random" {
			http.Error(w, "invalid sort mode", http.StatusBadRequest)
			return
		}
		modes = append(modes, mode)
	})
	c := newTestServer(t, mux)
	if err := c.SortCatalog(context.Background(), ""); err != nil {
		t.Fatal(err)
	}
	if err := c.SortCatalog(context.Background(), models_catalog.SortOwner); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"", "owner"}, modes); diff != "" {
		t.Errorf("modes mismatch (-want +got):\n%s", diff)
	}
	var iErr *models_error.InputErr
	if err := c.SortCatalog(context.Background(), "random"); !errors.As(err, &iErr) {
		t.Errorf("expected input error, got %v", err)
	}
}

func TestClient_Sources(t *testing.T) {
	enabled := make(map[string]bool)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /sources", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"url": r.URL.Query().Get("url"), "enabled": enabled[r.URL.Query().Get("url")]})
	})
	mux.HandleFunc("POST /sources", func(w http.ResponseWriter, r *http.Request) {
		enabled[r.URL.Query().Get("url")] = true
	})
	mux.HandleFunc("PATCH /sources/toggle", func(w http.ResponseWriter, r *http.Request) {
		u := r.URL.Query().Get("url")
		enabled[u] = !enabled[u]
	})
	c := newTestServer(t, mux)
	ctx := context.Background()
	u := "https://a.example/repo.json?x=1"
	if err := c.AddSource(ctx, u); err != nil {
		t.Fatal(err)
	}
	ok, err := c.SourceEnabled(ctx, u)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("expected enabled source")
	}
	if err = c.ToggleSource(ctx, u); err != nil {
		t.Fatal(err)
	}
	if ok, _ = c.SourceEnabled(ctx, u); ok {
		t.Error("expected disabled source")
	}
}

func TestClient_Jobs(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var polls atomic.Int32
	var canceled atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("GET /jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("status") != models_job.Running || r.URL.Query().Get("sort_desc") != "true" {
			http.Error(w, "unexpected query", http.StatusBadRequest)
			return
		}
		writeJSON(w, []models_job.Job{{ID: "a"}})
	})
	mux.HandleFunc("GET /jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "a" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		job := models_job.Job{ID: "a"}
		if polls.Add(1) > 1 {
			job.Completed = &now
		}
		writeJSON(w, job)
	})
	mux.HandleFunc("PATCH /jobs/{id}/cancel", func(w http.ResponseWriter, r *http.Request) {
		canceled.Store(true)
	})
	c := newTestServer(t, mux)
	ctx := context.Background()
	t.Run("list", func(t *testing.T) {
		jobs, err := c.GetJobs(ctx, models_job.Filter{Status: models_job.Running, SortDesc: true})
		if err != nil {
			t.Fatal(err)
		}
		if len(jobs) != 1 || jobs[0].ID != "a" {
			t.Errorf("unexpected jobs %+v", jobs)
		}
	})
	t.Run("await", func(t *testing.T) {
		job, err := AwaitJob(ctx, c, "a", time.Millisecond*10, time.Second, nil)
		if err != nil {
			t.Fatal(err)
		}
		if job.Completed == nil || !job.Completed.Equal(now) {
			t.Errorf("unexpected job %+v", job)
		}
	})
	t.Run("await canceled", func(t *testing.T) {
		ctx2, cf := context.WithCancel(ctx)
		cf()
		if _, err := AwaitJob(ctx2, c, "a", time.Hour, time.Second, nil); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context canceled, got %v", err)
		}
		if !canceled.Load() {
			t.Error("expected job to be canceled")
		}
	})
	t.Run("not found", func(t *testing.T) {
		if _, err := c.GetJob(ctx, "b"); !errors.Is(err, models_error.NotFoundErr) {
			t.Errorf("expected not found error, got %v", err)
		}
	})
}
