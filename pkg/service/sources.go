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
	"context"

	"github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/slog_attr"
)

func (s *Service) ToggleSource(_ context.Context, url string) error {
	if err := s.toggle.Toggle(url); err != nil {
		return err
	}
	s.logger.Info("source toggled", slog_attr.URLKey, url, "enabled", s.toggle.IsEnabled(url))
	s.RequestSort()
	return nil
}

func (s *Service) AddSource(_ context.Context, url string) error {
	if err := s.toggle.Add(url); err != nil {
		return err
	}
	s.logger.Info("source added", slog_attr.URLKey, url)
	s.RequestSort()
	return nil
}

// SourceEnabled checks url and, for known entries, its raw form.
func (s *Service) SourceEnabled(ctx context.Context, url string) bool {
	if s.toggle.IsEnabled(url) {
		return true
	}
	if entry, err := s.Entry(ctx, url); err == nil {
		return s.toggle.IsEnabled(entry.RawURL)
	}
	return false
}
