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

package browser_state

import (
	"fmt"
	"os"
	"path"
	"sync"

	helper_file_sys "github.com/SENERGY-Platform/mgw-repo-browser/pkg/components/helper/file_sys"
	models_catalog "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/catalog"
	models_error "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/error"
	"github.com/SENERGY-Platform/mgw-repo-browser/pkg/util/set"
	"gopkg.in/yaml.v3"
)

const stateFileName = "state.yaml"

type state struct {
	SeenSources set.Set[string]         `yaml:"seen_sources"`
	SortMode    models_catalog.SortMode `yaml:"sort_mode"`
}

// Handler persists browser state that outlives the process.
type Handler struct {
	path string
	mu   sync.RWMutex
	st   state
}

func New(dirPath string) *Handler {
	return &Handler{
		path: path.Join(dirPath, stateFileName),
		st: state{
			SeenSources: make(set.Set[string]),
			SortMode:    models_catalog.SortNone,
		},
	}
}

func (h *Handler) Init() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, err := helper_file_sys.ReadFileIfExists(h.path)
	if err != nil {
		return err
	}
	if b == nil {
		return nil
	}
	var st state
	if err = yaml.Unmarshal(b, &st); err != nil {
		return fmt.Errorf("decoding %s failed: %w", h.path, err)
	}
	if st.SeenSources == nil {
		st.SeenSources = make(set.Set[string])
	}
	if _, ok := models_catalog.SortModeMap[st.SortMode]; !ok {
		st.SortMode = models_catalog.SortNone
	}
	h.st = st
	return nil
}

func (h *Handler) SeenSources() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return set.Sorted(h.st.SeenSources)
}

// AddSeen adds urls to the seen set and persists it if it changed.
func (h *Handler) AddSeen(urls ...string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	var changed bool
	for _, u := range urls {
		if h.st.SeenSources.Add(u) {
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return h.write()
}

func (h *Handler) SortMode() models_catalog.SortMode {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.st.SortMode
}

func (h *Handler) SetSortMode(mode models_catalog.SortMode) error {
	if _, ok := models_catalog.SortModeMap[mode]; !ok {
		return models_error.NewInputErr(fmt.Errorf("unknown sort mode '%s'", mode))
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.st.SortMode == mode {
		return nil
	}
	h.st.SortMode = mode
	return h.write()
}

func (h *Handler) write() error {
	b, err := yaml.Marshal(h.st)
	if err != nil {
		return err
	}
	return helper_file_sys.WriteFileAtomic(h.path, b, os.FileMode(0664))
}
