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

package source_settings

import (
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"
	"sync"

	helper_file_sys "github.com/SENERGY-Platform/mgw-repo-browser/pkg/components/helper/file_sys"
	models_error "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/error"
	"gopkg.in/yaml.v3"
)

const settingsFileName = "sources.yaml"

type Setting struct {
	URL     string `yaml:"url" json:"url"`
	Enabled bool   `yaml:"enabled" json:"enabled"`
}

// Handler is a file backed source toggle. Settings keep their insertion order.
type Handler struct {
	path     string
	mu       sync.RWMutex
	settings []Setting
}

func New(dirPath string) *Handler {
	return &Handler{
		path: path.Join(dirPath, settingsFileName),
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
	var settings []Setting
	if err = yaml.Unmarshal(b, &settings); err != nil {
		return fmt.Errorf("decoding %s failed: %w", h.path, err)
	}
	h.settings = settings
	return nil
}

func (h *Handler) IsEnabled(url string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	i := h.index(url)
	return i >= 0 && h.settings[i].Enabled
}

// Toggle flips the enabled flag of url or adds url as enabled if unknown.
func (h *Handler) Toggle(url string) error {
	if err := checkURL(url); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	settings := slices.Clone(h.settings)
	if i := h.index(url); i >= 0 {
		settings[i].Enabled = !settings[i].Enabled
	} else {
		settings = append(settings, Setting{URL: url, Enabled: true})
	}
	return h.write(settings)
}

// Add registers url as enabled. Known urls are left unchanged.
func (h *Handler) Add(url string) error {
	if err := checkURL(url); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index(url) >= 0 {
		return nil
	}
	return h.write(append(slices.Clone(h.settings), Setting{URL: url, Enabled: true}))
}

func (h *Handler) Settings() []Setting {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]Setting(nil), h.settings...)
}

func (h *Handler) index(url string) int {
	for i, s := range h.settings {
		if s.URL == url {
			return i
		}
	}
	return -1
}

// write persists settings and keeps them in memory once stored.
func (h *Handler) write(settings []Setting) error {
	b, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}
	if err = helper_file_sys.WriteFileAtomic(h.path, b, 0664); err != nil {
		return err
	}
	h.settings = settings
	return nil
}

func checkURL(url string) error {
	if strings.TrimSpace(url) == "" {
		return models_error.NewInputErr(errors.New("missing url"))
	}
	return nil
}
