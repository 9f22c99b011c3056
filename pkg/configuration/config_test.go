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

package configuration

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(path, []byte(`{"server_port": 8080, "scheduler": {"sort_ticks": 30}, "sources": {"catalog": {"url": "http://localhost/repos.json"}}}`), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("expected 8080, got %d", cfg.ServerPort)
	}
	if cfg.Scheduler.SortTicks != 30 {
		t.Errorf("expected 30, got %d", cfg.Scheduler.SortTicks)
	}
	if cfg.Sources.Catalog.URL != "http://localhost/repos.json" {
		t.Errorf("unexpected catalog url %s", cfg.Sources.Catalog.URL)
	}
	if cfg.Sources.Catalog.Name != "repos.json" {
		t.Errorf("expected default name, got %s", cfg.Sources.Catalog.Name)
	}
	if cfg.Sources.Priority.TTL != time.Hour*24 {
		t.Errorf("expected default ttl, got %s", cfg.Sources.Priority.TTL)
	}
	if cfg.Sources.RemoteUpdate.Name != "last-updated.json" || cfg.Sources.RemoteUpdate.TTL != 0 {
		t.Errorf("unexpected remote update source %+v", cfg.Sources.RemoteUpdate)
	}
	if cfg.Scheduler.SortDelay != time.Second {
		t.Errorf("expected default sort delay, got %s", cfg.Scheduler.SortDelay)
	}
}
