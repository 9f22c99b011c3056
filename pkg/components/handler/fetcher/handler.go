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

package fetcher

import (
	"context"
	"errors"
	"log/slog"
	"time"

	models_error "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/error"
	"github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/slog_attr"
)

// Line is an independently cached remote document.
type Line struct {
	Name string        `json:"name"`
	URL  string        `json:"url"`
	TTL  time.Duration `json:"ttl"`
}

type Handler struct {
	cache  sourceCache
	client documentClient
	logger *slog.Logger
}

func New(cache sourceCache, client documentClient, logger *slog.Logger) *Handler {
	return &Handler{
		cache:  cache,
		client: client,
		logger: logger.With(slog_attr.ComponentKey, "fetcher"),
	}
}

// Fetch returns the document of the given line. The cached copy is used while
// it is younger than the line TTL unless force is set. A successful network
// retrieval replaces the cached copy, a failed one leaves it untouched.
func (h *Handler) Fetch(ctx context.Context, line Line, force bool) ([]byte, bool, error) {
	logger := h.logger.With(slog_attr.LineKey, line.Name)
	if !force && !h.cache.ShouldRefresh(line.Name, line.TTL) {
		data, err := h.cache.Read(line.Name)
		if err == nil {
			logger.Debug("using cached document")
			return data, true, nil
		}
		logger.Warn("reading cached document failed, refreshing", slog_attr.ErrorKey, err)
	}
	logger.Info("retrieving document", slog_attr.URLKey, line.URL)
	start := time.Now()
	data, err := h.client.GetDocument(ctx, line.URL)
	if err != nil {
		return nil, false, models_error.NewFetchErr(line.Name, line.URL, err)
	}
	logger.Debug("document retrieved", slog_attr.DurationKey, time.Since(start).String())
	if err = h.cache.Write(line.Name, data); err != nil {
		logger.Error("writing cached document failed", slog_attr.ErrorKey, err)
	}
	return data, false, nil
}

// Reset zeroes the cache timestamps of the given lines.
func (h *Handler) Reset(lines ...Line) error {
	var errs []error
	for _, line := range lines {
		if err := h.cache.Reset(line.Name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
