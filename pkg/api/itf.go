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

package api

import (
	"context"

	srv_info_hdl "github.com/SENERGY-Platform/go-service-base/srv-info-hdl"
	models_catalog "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/catalog"
	models_job "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/job"
)

type serviceItf interface {
	CurrentCatalog() models_catalog.Snapshot
	Catalog(ctx context.Context, filter models_catalog.Filter) (models_catalog.Snapshot, error)
	Entry(ctx context.Context, url string) (models_catalog.Entry, error)
	CatalogStatus() models_catalog.Status
	PrioritySources() []string
	Subscribe() (<-chan models_catalog.Update, func())
	RequestManualRefresh(ctx context.Context) (string, error)
	RequestSort()
	ConsumeSortTick() bool
	SetSortMode(mode models_catalog.SortMode) error
	SourceEnabled(ctx context.Context, url string) bool
	ToggleSource(ctx context.Context, url string) error
	AddSource(ctx context.Context, url string) error
	Jobs(ctx context.Context, filter models_job.Filter) []models_job.Job
	Job(ctx context.Context, id string) (models_job.Job, error)
	CancelJob(ctx context.Context, id string) error
}

type infoHandler interface {
	ServiceInfo() srv_info_hdl.ServiceInfo
	Version() string
	Name() string
}
