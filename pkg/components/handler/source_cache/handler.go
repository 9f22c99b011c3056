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
	"errors"
	"fmt"
	"os"
	"path"
	"regexp"
	"sync"
	"time"

	helper_file_sys "github.com/SENERGY-Platform/mgw-repo-browser/pkg/components/helper/file_sys"
	helper_time "github.com/SENERGY-Platform/mgw-repo-browser/pkg/components/helper/time"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

// Handler stores the last retrieved document of each source line on disk
// together with the time it was retrieved.
type Handler struct {
	dirPath string
	now     func() time.Time
	mu      sync.Mutex
	lines   map[string]*sync.RWMutex
}

func New(dirPath string) *Handler {
	return &Handler{
		dirPath: dirPath,
		now:     helper_time.Now,
		lines:   make(map[string]*sync.RWMutex),
	}
}

func (h *Handler) Init() error {
	return os.MkdirAll(h.dirPath, 0775)
}

// ShouldRefresh reports whether the cached document of the named line is
// missing, reset or older than ttl. Unreadable metadata counts as stale.
func (h *Handler) ShouldRefresh(name string, ttl time.Duration) bool {
	if err := checkName(name); err != nil {
		return true
	}
	mu := h.lineMutex(name)
	mu.RLock()
	defer mu.RUnlock()
	if _, err := os.Stat(path.Join(h.dirPath, name)); err != nil {
		return true
	}
	meta, err := readMetaFile(h.dirPath, name)
	if err != nil || meta.LastFetch == 0 {
		return true
	}
	return !h.now().Before(time.UnixMilli(meta.LastFetch).Add(ttl))
}

// LastFetch returns the time the named line was last written. A zero time is
// returned for lines that were never written or have been reset.
func (h *Handler) LastFetch(name string) (time.Time, error) {
	if err := checkName(name); err != nil {
		return time.Time{}, err
	}
	mu := h.lineMutex(name)
	mu.RLock()
	defer mu.RUnlock()
	meta, err := readMetaFile(h.dirPath, name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	if meta.LastFetch == 0 {
		return time.Time{}, nil
	}
	return time.UnixMilli(meta.LastFetch), nil
}

func (h *Handler) Read(name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	mu := h.lineMutex(name)
	mu.RLock()
	defer mu.RUnlock()
	return os.ReadFile(path.Join(h.dirPath, name))
}

// Write replaces the cached document of the named line and stamps it with the
// current time.
func (h *Handler) Write(name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}
	mu := h.lineMutex(name)
	mu.Lock()
	defer mu.Unlock()
	if err := helper_file_sys.WriteFileAtomic(path.Join(h.dirPath, name), data, 0664); err != nil {
		return err
	}
	return writeMetaFile(h.dirPath, name, metaFile{
		LastFetch: h.now().UnixMilli(),
		Size:      len(data),
	})
}

// Reset zeroes the timestamp of the named line so the next fetch ignores the
// cached document. The document itself is kept.
func (h *Handler) Reset(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	mu := h.lineMutex(name)
	mu.Lock()
	defer mu.Unlock()
	meta, _ := readMetaFile(h.dirPath, name)
	meta.LastFetch = 0
	return writeMetaFile(h.dirPath, name, meta)
}

func (h *Handler) lineMutex(name string) *sync.RWMutex {
	h.mu.Lock()
	defer h.mu.Unlock()
	mu, ok := h.lines[name]
	if !ok {
		mu = &sync.RWMutex{}
		h.lines[name] = mu
	}
	return mu
}

func checkName(name string) error {
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("invalid cache name '%s'", name)
	}
	return nil
}
