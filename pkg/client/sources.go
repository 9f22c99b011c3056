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

	models_api "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/api"
)

func (c *Client) SourceEnabled(ctx context.Context, sourceUrl string) (bool, error) {
	u, err := url.JoinPath(c.baseUrl, models_api.SourcesPath)
	if err != nil {
		return false, err
	}
	u += genQuery(url.Values{"url": {sourceUrl}})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, err
	}
	var source struct {
		Enabled bool `json:"enabled"`
	}
	err = c.baseClient.ExecRequestJSON(req, &source)
	if err != nil {
		return false, err
	}
	return source.Enabled, nil
}

func (c *Client) AddSource(ctx context.Context, sourceUrl string) error {
	u, err := url.JoinPath(c.baseUrl, models_api.SourcesPath)
	if err != nil {
		return err
	}
	u += genQuery(url.Values{"url": {sourceUrl}})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return err
	}
	return c.baseClient.ExecRequestVoid(req)
}

func (c *Client) ToggleSource(ctx context.Context, sourceUrl string) error {
	u, err := url.JoinPath(c.baseUrl, models_api.SourcesPath, models_api.SourcesTogglePath)
	if err != nil {
		return err
	}
	u += genQuery(url.Values{"url": {sourceUrl}})
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, u, nil)
	if err != nil {
		return err
	}
	return c.baseClient.ExecRequestVoid(req)
}
