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

package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	helper_time "github.com/SENERGY-Platform/mgw-repo-browser/pkg/components/helper/time"
	models_error "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/error"
	models_job "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/job"
	"github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/slog_attr"
	"github.com/google/uuid"
)

// Handler runs jobs on a bounded number of workers.
type Handler struct {
	mu     sync.RWMutex
	ctx    context.Context
	jobs   map[string]*job
	sem    chan struct{}
	wg     sync.WaitGroup
	logger *slog.Logger
}

func New(ctx context.Context, workers int, logger *slog.Logger) *Handler {
	if workers < 1 {
		workers = 1
	}
	return &Handler{
		ctx:    ctx,
		jobs:   make(map[string]*job),
		sem:    make(chan struct{}, workers),
		logger: logger.With(slog_attr.ComponentKey, "jobs"),
	}
}

// Create queues tFunc as a new job. skipFunc, if not nil, is called when the
// job is canceled before tFunc could start.
func (h *Handler) Create(desc string, tFunc func(context.Context) error, skipFunc func()) (string, error) {
	if h.ctx.Err() != nil {
		return "", h.ctx.Err()
	}
	uid, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	id := uid.String()
	ctx, cf := context.WithCancel(h.ctx)
	j := &job{
		meta: models_job.Job{
			ID:          id,
			Created:     helper_time.Now(),
			Description: desc,
		},
		tFunc: tFunc,
		ctx:   ctx,
		cFunc: cf,
	}
	h.mu.Lock()
	h.jobs[id] = j
	h.mu.Unlock()
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		skip := func() {
			h.logger.Debug("job skipped", slog_attr.IDKey, id)
			j.skip(skipFunc)
		}
		select {
		case h.sem <- struct{}{}:
		case <-ctx.Done():
			skip()
			return
		}
		defer func() {
			<-h.sem
		}()
		if !j.run() {
			skip()
			return
		}
		if e := j.Meta().Error; e != nil {
			h.logger.Error("job failed", slog_attr.IDKey, id, slog_attr.ErrorKey, e)
		} else {
			h.logger.Debug("job completed", slog_attr.IDKey, id)
		}
	}()
	return id, nil
}

func (h *Handler) Get(id string) (models_job.Job, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	j, ok := h.jobs[id]
	if !ok {
		return models_job.Job{}, fmt.Errorf("job %s %w", id, models_error.NotFoundErr)
	}
	return j.Meta(), nil
}

func (h *Handler) Cancel(id string) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	j, ok := h.jobs[id]
	if !ok {
		return fmt.Errorf("job %s %w", id, models_error.NotFoundErr)
	}
	j.Cancel()
	return nil
}

func (h *Handler) List(filter models_job.Filter) []models_job.Job {
	var jobs []models_job.Job
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, v := range h.jobs {
		if check(filter, v.Meta()) {
			jobs = append(jobs, v.Meta())
		}
	}
	if filter.SortDesc {
		sort.Slice(jobs, func(i, j int) bool {
			return jobs[i].Created.After(jobs[j].Created)
		})
	} else {
		sort.Slice(jobs, func(i, j int) bool {
			return jobs[i].Created.Before(jobs[j].Created)
		})
	}
	return jobs
}

// PurgeJobs removes finished jobs older than maxAge.
func (h *Handler) PurgeJobs(maxAge time.Duration) int {
	var l []string
	tNow := helper_time.Now()
	h.mu.RLock()
	for k, v := range h.jobs {
		m := v.Meta()
		if m.Completed != nil || m.Canceled != nil {
			if tNow.Sub(m.Created) >= maxAge {
				l = append(l, k)
			}
		}
	}
	h.mu.RUnlock()
	h.mu.Lock()
	for _, id := range l {
		delete(h.jobs, id)
	}
	h.mu.Unlock()
	return len(l)
}

// Wait blocks until all started jobs returned.
func (h *Handler) Wait() {
	h.wg.Wait()
}

func check(filter models_job.Filter, job models_job.Job) bool {
	if !filter.Since.IsZero() && !job.Created.After(filter.Since) {
		return false
	}
	if !filter.Until.IsZero() && !job.Created.Before(filter.Until) {
		return false
	}
	switch filter.Status {
	case models_job.Pending:
		if job.Started != nil || job.Canceled != nil || job.Completed != nil {
			return false
		}
	case models_job.Running:
		if job.Started == nil || job.Canceled != nil || job.Completed != nil {
			return false
		}
	case models_job.Canceled:
		if job.Canceled == nil {
			return false
		}
	case models_job.Completed:
		if job.Completed == nil {
			return false
		}
	case models_job.Error:
		if job.Completed == nil || job.Error == nil {
			return false
		}
	case models_job.OK:
		if job.Completed == nil || job.Error != nil {
			return false
		}
	}
	return true
}
