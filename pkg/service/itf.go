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
	"iter"
	"time"

	handler_catalog_parser "github.com/SENERGY-Platform/mgw-repo-browser/pkg/components/handler/catalog_parser"
	handler_catalog_store "github.com/SENERGY-Platform/mgw-repo-browser/pkg/components/handler/catalog_store"
	handler_fetcher "github.com/SENERGY-Platform/mgw-repo-browser/pkg/components/handler/fetcher"
	models_catalog "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/catalog"
	models_job "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/job"
)

type Fetcher interface {
	Fetch(ctx context.Context, line handler_fetcher.Line, force bool) ([]byte, bool, error)
	Reset(lines ...handler_fetcher.Line) error
}

type Parser interface {
	Parse(doc []byte, guard handler_catalog_parser.URLGuard) (iter.Seq[models_catalog.Entry], error)
	ParsePrioritySet(doc []byte) (models_catalog.PrioritySet, error)
	ParseRemoteUpdate(doc []byte) (models_catalog.RemoteUpdate, error)
}

type Deduplicator interface {
	Deduplicate(entries []models_catalog.Entry, priority models_catalog.PrioritySet) []models_catalog.Entry
}

type CatalogStore interface {
	BeginCycle() uint64
	Generation() uint64
	Abort(gen uint64)
	Publish(gen uint64, entries []models_catalog.Entry) bool
	PublishPrioritySet(gen uint64, ps models_catalog.PrioritySet) bool
	PublishRemoteUpdate(gen uint64, ru models_catalog.RemoteUpdate) bool
	Current() *models_catalog.Snapshot
	PrioritySet() models_catalog.PrioritySet
	Status() models_catalog.Status
	Guard(gen uint64) *handler_catalog_store.Guard
	ArmSort(ticks int64)
	ConsumeSortTick() bool
	Subscribe() (<-chan models_catalog.Update, func())
}

type SortScheduler interface {
	Trigger()
	Apply() bool
}

type SourceToggle interface {
	IsEnabled(url string) bool
	Toggle(url string) error
	Add(url string) error
}

type StateHandler interface {
	SortMode() models_catalog.SortMode
	SetSortMode(mode models_catalog.SortMode) error
}

type JobHandler interface {
	Create(desc string, tFunc func(context.Context) error, skipFunc func()) (string, error)
	Get(id string) (models_job.Job, error)
	Cancel(id string) error
	List(filter models_job.Filter) []models_job.Job
	PurgeJobs(maxAge time.Duration) int
}
