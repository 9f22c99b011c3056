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
	"time"

	models_api "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/api"
	models_job "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/job"
)

func (c *Client) GetJobs(ctx context.Context, filter models_job.Filter) ([]models_job.Job, error) {
	u, err := url.JoinPath(c.baseUrl, models_api.JobsPath)
	if err != nil {
		return nil, err
	}
	u += genQuery(genJobsFilterQuery(filter))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	var jobs []models_job.Job
	err = c.baseClient.ExecRequestJSON(req, &jobs)
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (c *Client) GetJob(ctx context.Context, jID string) (models_job.Job, error) {
	u, err := url.JoinPath(c.baseUrl, models_api.JobsPath, jID)
	if err != nil {
		return models_job.Job{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return models_job.Job{}, err
	}
	var job models_job.Job
	err = c.baseClient.ExecRequestJSON(req, &job)
	if err != nil {
		return models_job.Job{}, err
	}
	return job, nil
}

func (c *Client) CancelJob(ctx context.Context, jID string) error {
	u, err := url.JoinPath(c.baseUrl, models_api.JobsPath, jID, models_api.JobsCancelPath)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, u, nil)
	if err != nil {
		return err
	}
	return c.baseClient.ExecRequestVoid(req)
}

func genJobsFilterQuery(filter models_job.Filter) url.Values {
	q := url.Values{}
	if filter.SortDesc {
		q.Set("sort_desc", "true")
	}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	if !filter.Since.IsZero() {
		q.Set("since", filter.Since.Format(time.RFC3339Nano))
	}
	if !filter.Until.IsZero() {
		q.Set("until", filter.Until.Format(time.RFC3339Nano))
	}
	return q
}
