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

	models_job "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/job"
)

func (s *Service) Jobs(_ context.Context, filter models_job.Filter) []models_job.Job {
	return s.jobs.List(filter)
}

func (s *Service) Job(_ context.Context, id string) (models_job.Job, error) {
	return s.jobs.Get(id)
}

func (s *Service) CancelJob(_ context.Context, id string) error {
	return s.jobs.Cancel(id)
}
