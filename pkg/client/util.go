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
	"time"

	models_job "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/job"
	"github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/slog_attr"
)

type jobClient interface {
	GetJob(ctx context.Context, jID string) (models_job.Job, error)
	CancelJob(ctx context.Context, jID string) error
}

// AwaitJob polls a job until it is completed. The job is canceled if ctx is
// done first.
func AwaitJob(ctx context.Context, client jobClient, jID string, delay, httpTimeout time.Duration, logger interface{ Error(msg string, args ...any) }) (models_job.Job, error) {
	ticker := time.NewTicker(delay)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			c, cf := context.WithTimeout(context.Background(), httpTimeout)
			err := client.CancelJob(c, jID)
			cf()
			if err != nil && logger != nil {
				logger.Error("canceling job failed", slog_attr.ErrorKey, err)
			}
			return models_job.Job{}, ctx.Err()
		case <-ticker.C:
			c, cf := context.WithTimeout(context.Background(), httpTimeout)
			j, err := client.GetJob(c, jID)
			cf()
			if err != nil {
				return models_job.Job{}, err
			}
			if j.Completed != nil {
				return j, nil
			}
		}
	}
}
