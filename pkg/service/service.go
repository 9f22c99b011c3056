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
	"log/slog"
	"time"

	handler_fetcher "github.com/SENERGY-Platform/mgw-repo-browser/pkg/components/handler/fetcher"
	"github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/slog_attr"
)

type Config struct {
	CatalogLine       handler_fetcher.Line
	PriorityLine      handler_fetcher.Line
	RemoteUpdateLine  handler_fetcher.Line
	SortTicks         int64
	SortTickInterval  time.Duration
	RefreshInterval   time.Duration
	JobsMaxAge        time.Duration
	JobsPurgeInterval time.Duration
}

type Service struct {
	config    Config
	fetcher   Fetcher
	parser    Parser
	dedup     Deduplicator
	store     CatalogStore
	scheduler SortScheduler
	toggle    SourceToggle
	state     StateHandler
	jobs      JobHandler
	logger    *slog.Logger
}

func New(config Config, fetcher Fetcher, parser Parser, dedup Deduplicator, store CatalogStore, scheduler SortScheduler, toggle SourceToggle, state StateHandler, jobs JobHandler, logger *slog.Logger) *Service {
	return &Service{
		config:    config,
		fetcher:   fetcher,
		parser:    parser,
		dedup:     dedup,
		store:     store,
		scheduler: scheduler,
		toggle:    toggle,
		state:     state,
		jobs:      jobs,
		logger:    logger.With(slog_attr.ComponentKey, "service"),
	}
}

// Run starts the initial fetch cycle and keeps refreshing the catalog,
// consuming sort ticks and purging finished jobs until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	if _, err := s.startCycle(false, "initial catalog refresh"); err != nil {
		return err
	}
	refreshC, stopRefresh := ticker(s.config.RefreshInterval)
	defer stopRefresh()
	purgeC, stopPurge := ticker(s.config.JobsPurgeInterval)
	defer stopPurge()
	sortC, stopSort := ticker(s.config.SortTickInterval)
	defer stopSort()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-refreshC:
			if _, err := s.startCycle(false, "scheduled catalog refresh"); err != nil {
				s.logger.Error("starting scheduled catalog refresh failed", slog_attr.ErrorKey, err)
			}
		case <-sortC:
			s.ConsumeSortTick()
		case <-purgeC:
			if n := s.jobs.PurgeJobs(s.config.JobsMaxAge); n > 0 {
				s.logger.Debug("purged jobs", slog_attr.CountKey, n)
			}
		}
	}
}

func ticker(d time.Duration) (<-chan time.Time, func()) {
	if d <= 0 {
		return nil, func() {}
	}
	t := time.NewTicker(d)
	return t.C, t.Stop
}
