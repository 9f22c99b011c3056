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
	"errors"
	"log/slog"
	"slices"
	"sync"

	handler_fetcher "github.com/SENERGY-Platform/mgw-repo-browser/pkg/components/handler/fetcher"
	"github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/slog_attr"
	"golang.org/x/sync/errgroup"
)

// RequestManualRefresh zeroes both cache timestamps, starts a new fetch
// generation and runs both source lines as a job.
func (s *Service) RequestManualRefresh(_ context.Context) (string, error) {
	if err := s.fetcher.Reset(s.lines()...); err != nil {
		s.logger.Warn("resetting cache timestamps failed", slog_attr.ErrorKey, err)
	}
	return s.startCycle(true, "manual catalog refresh")
}

func (s *Service) startCycle(force bool, desc string) (string, error) {
	gen := s.store.BeginCycle()
	id, err := s.jobs.Create(desc, func(ctx context.Context) error {
		return s.runCycle(ctx, gen, force)
	}, func() {
		s.store.Abort(gen)
	})
	if err != nil {
		s.store.Abort(gen)
		return "", err
	}
	return id, nil
}

func (s *Service) runCycle(ctx context.Context, gen uint64, force bool) error {
	logger := s.logger.With(slog_attr.GenerationKey, gen)
	var g errgroup.Group
	var mu sync.Mutex
	var errs []error
	collect := func(err error) {
		if err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}
	}
	prioDone := make(chan struct{})
	g.Go(func() error {
		defer close(prioDone)
		collect(s.priorityCycle(ctx, logger, gen, force))
		return nil
	})
	g.Go(func() error {
		collect(s.catalogCycle(ctx, logger, gen, force, prioDone))
		return nil
	})
	if s.config.RemoteUpdateLine.URL != "" {
		g.Go(func() error {
			s.remoteUpdateCycle(ctx, logger, gen)
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// catalogCycle fetches and parses the catalog line and waits for prioDone
// before deduplicating against the priority set.
func (s *Service) catalogCycle(ctx context.Context, logger *slog.Logger, gen uint64, force bool, prioDone <-chan struct{}) error {
	line := s.config.CatalogLine
	logger = logger.With(slog_attr.LineKey, line.Name)
	data, fromCache, err := s.fetcher.Fetch(ctx, line, force)
	if err != nil {
		logger.Error("fetching catalog failed", slog_attr.ErrorKey, err)
		s.store.Abort(gen)
		return err
	}
	if s.store.Generation() != gen {
		logger.Info("discarding stale catalog document")
		return nil
	}
	seq, err := s.parser.Parse(data, s.store.Guard(gen))
	if err != nil && fromCache {
		logger.Warn("cached catalog document invalid, refreshing", slog_attr.ErrorKey, err)
		if data, _, err = s.fetcher.Fetch(ctx, line, true); err == nil {
			seq, err = s.parser.Parse(data, s.store.Guard(gen))
		}
	}
	if err != nil {
		logger.Error("parsing catalog failed", slog_attr.ErrorKey, err)
		s.store.Abort(gen)
		return err
	}
	entries := slices.Collect(seq)
	logger.Info("catalog parsed", slog_attr.CountKey, len(entries), slog_attr.FromCacheKey, fromCache)
	select {
	case <-prioDone:
	case <-ctx.Done():
		s.store.Abort(gen)
		return ctx.Err()
	}
	entries = s.dedup.Deduplicate(entries, s.store.PrioritySet())
	if !s.store.Publish(gen, entries) {
		return nil
	}
	s.RequestSort()
	return nil
}

func (s *Service) priorityCycle(ctx context.Context, logger *slog.Logger, gen uint64, force bool) error {
	line := s.config.PriorityLine
	logger = logger.With(slog_attr.LineKey, line.Name)
	data, fromCache, err := s.fetcher.Fetch(ctx, line, force)
	if err != nil {
		logger.Error("fetching priority set failed", slog_attr.ErrorKey, err)
		return err
	}
	ps, err := s.parser.ParsePrioritySet(data)
	if err != nil && fromCache {
		logger.Warn("cached priority document invalid, refreshing", slog_attr.ErrorKey, err)
		if data, _, err = s.fetcher.Fetch(ctx, line, true); err == nil {
			ps, err = s.parser.ParsePrioritySet(data)
		}
	}
	if err != nil {
		logger.Error("parsing priority set failed", slog_attr.ErrorKey, err)
		return err
	}
	s.store.PublishPrioritySet(gen, ps)
	return nil
}

// remoteUpdateCycle refreshes the publisher metadata. Failures only keep the
// previous metadata.
func (s *Service) remoteUpdateCycle(ctx context.Context, logger *slog.Logger, gen uint64) {
	line := s.config.RemoteUpdateLine
	logger = logger.With(slog_attr.LineKey, line.Name)
	data, _, err := s.fetcher.Fetch(ctx, line, false)
	if err != nil {
		logger.Debug("fetching remote update metadata failed", slog_attr.ErrorKey, err)
		return
	}
	ru, err := s.parser.ParseRemoteUpdate(data)
	if err != nil {
		logger.Debug("parsing remote update metadata failed", slog_attr.ErrorKey, err)
		return
	}
	s.store.PublishRemoteUpdate(gen, ru)
}

func (s *Service) lines() []handler_fetcher.Line {
	lines := []handler_fetcher.Line{s.config.CatalogLine, s.config.PriorityLine}
	if s.config.RemoteUpdateLine.URL != "" {
		lines = append(lines, s.config.RemoteUpdateLine)
	}
	return lines
}
