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
	"net/http"
	"net/url"
	"strconv"

	models_api "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/api"
	models_catalog "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/catalog"
)

func (c *Client) GetCatalog(ctx context.Context, filter models_catalog.Filter) (models_catalog.Snapshot, error) {
	u, err := url.JoinPath(c.baseUrl, models_api.CatalogPath)
	if err != nil {
		return models_catalog.Snapshot{}, err
	}
	u += genQuery(genCatalogFilterQuery(filter))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return models_catalog.Snapshot{}, err
	}
	var snapshot models_catalog.Snapshot
	err = c.baseClient.ExecRequestJSON(req, &snapshot)
	if err != nil {
		return models_catalog.Snapshot{}, err
	}
	return snapshot, nil
}

func (c *Client) GetCatalogEntry(ctx context.Context, sourceUrl string) (models_catalog.Entry, error) {
	u, err := url.JoinPath(c.baseUrl, models_api.CatalogPath, models_api.CatalogEntryPath)
	if err != nil {
		return models_catalog.Entry{}, err
	}
	u += genQuery(url.Values{"url": {sourceUrl}})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return models_catalog.Entry{}, err
	}
	var entry models_catalog.Entry
	err = c.baseClient.ExecRequestJSON(req, &entry)
	if err != nil {
		return models_catalog.Entry{}, err
	}
	return entry, nil
}

func (c *Client) GetCatalogStatus(ctx context.Context) (models_catalog.Status, error) {
	u, err := url.JoinPath(c.baseUrl, models_api.CatalogPath, models_api.CatalogStatusPath)
	if err != nil {
		return models_catalog.Status{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return models_catalog.Status{}, err
	}
	var status models_catalog.Status
	err = c.baseClient.ExecRequestJSON(req, &status)
	if err != nil {
		return models_catalog.Status{}, err
	}
	return status, nil
}

// RefreshCatalog starts a manual refresh and returns the job ID.
func (c *Client) RefreshCatalog(ctx context.Context) (string, error) {
	u, err := url.JoinPath(c.baseUrl, models_api.CatalogPath, models_api.CatalogRefreshPath)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, u, nil)
	if err != nil {
		return "", err
	}
	return c.baseClient.ExecRequestString(req)
}

// SortCatalog requests a sort. An empty mode keeps the current sort mode.
func (c *Client) SortCatalog(ctx context.Context, mode models_catalog.SortMode) error {
	u, err := url.JoinPath(c.baseUrl, models_api.CatalogPath, models_api.CatalogSortPath)
	if err != nil {
		return err
	}
	if mode != "" {
		u += genQuery(url.Values{"mode": {mode}})
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, u, nil)
	if err != nil {
		return err
	}
	return c.baseClient.ExecRequestVoid(req)
}

func (c *Client) GetPrioritySources(ctx context.Context) ([]string, error) {
	u, err := url.JoinPath(c.baseUrl, models_api.CatalogPath, models_api.PrioritySourcesPath)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	var sources []string
	err = c.baseClient.ExecRequestJSON(req, &sources)
	if err != nil {
		return nil, err
	}
	return sources, nil
}

func genCatalogFilterQuery(filter models_catalog.Filter) url.Values {
	q := url.Values{}
	if filter.MinAPILevel > 0 {
		q.Set("min_api_level", strconv.FormatUint(uint64(filter.MinAPILevel), 10))
	}
	if filter.HideEnabled {
		q.Set("hide_enabled", "true")
	}
	if filter.HideScriptOnly {
		q.Set("hide_script_only", "true")
	}
	if filter.HideClosedSource {
		q.Set("hide_closed_source", "true")
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.Tag != "" {
		q.Set("tag", filter.Tag)
	}
	if filter.Owner != "" {
		q.Set("owner", filter.Owner)
	}
	if filter.MaxItems > 0 {
		q.Set("max_items", strconv.Itoa(filter.MaxItems))
	}
	return q
}

func genQuery(q url.Values) string {
	if len(q) > 0 {
		return "?" + q.Encode()
	}
	return ""
}
