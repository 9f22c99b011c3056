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
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	models_error "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/error"
	models_job "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/job"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 1}))

func TestHandler(t *testing.T) {
	h := New(context.Background(), 1, testLogger)
	block := make(chan struct{})
	started := make(chan struct{})
	id1, err := h.Create("blocking", func(ctx context.Context) error {
		close(started)
		<-block
		return nil
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	<-started
	id2, err := h.Create("failing", func(ctx context.Context) error {
		return errors.New("test")
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if jobs := h.List(models_job.Filter{Status: models_job.Pending}); len(jobs) != 1 || jobs[0].ID != id2 {
		t.Errorf("unexpected pending jobs %v", jobs)
	}
	if jobs := h.List(models_job.Filter{Status: models_job.Running}); len(jobs) != 1 || jobs[0].ID != id1 {
		t.Errorf("unexpected running jobs %v", jobs)
	}
	close(block)
	h.Wait()
	j1, err := h.Get(id1)
	if err != nil {
		t.Fatal(err)
	}
	if j1.Completed == nil || j1.Error != nil {
		t.Errorf("unexpected job %+v", j1)
	}
	j2, err := h.Get(id2)
	if err != nil {
		t.Fatal(err)
	}
	if j2.Completed == nil || j2.Error != "test" {
		t.Errorf("unexpected job %+v", j2)
	}
	if jobs := h.List(models_job.Filter{Status: models_job.Error}); len(jobs) != 1 || jobs[0].ID != id2 {
		t.Errorf("unexpected failed jobs %v", jobs)
	}
	if jobs := h.List(models_job.Filter{Status: models_job.OK}); len(jobs) != 1 || jobs[0].ID != id1 {
		t.Errorf("unexpected ok jobs %v", jobs)
	}
	if jobs := h.List(models_job.Filter{SortDesc: true}); len(jobs) != 2 || jobs[0].Created.Before(jobs[1].Created) {
		t.Errorf("unexpected job order %v", jobs)
	}
	if n := h.PurgeJobs(time.Hour); n != 0 {
		t.Errorf("%d != 0", n)
	}
	if n := h.PurgeJobs(0); n != 2 {
		t.Errorf("%d != 2", n)
	}
	var notFound bool
	if _, err = h.Get(id1); errors.Is(err, models_error.NotFoundErr) {
		notFound = true
	}
	if !notFound {
		t.Error("expected not found error")
	}
}

func TestHandler_Cancel(t *testing.T) {
	h := New(context.Background(), 1, testLogger)
	started := make(chan struct{})
	var skipped atomic.Int32
	id1, err := h.Create("blocking", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}, func() {
		t.Error("started job skipped")
	})
	if err != nil {
		t.Fatal(err)
	}
	<-started
	id2, err := h.Create("queued", func(ctx context.Context) error {
		t.Error("canceled job executed")
		return nil
	}, func() {
		skipped.Add(1)
	})
	if err != nil {
		t.Fatal(err)
	}
	if err = h.Cancel(id2); err != nil {
		t.Fatal(err)
	}
	if err = h.Cancel(id1); err != nil {
		t.Fatal(err)
	}
	h.Wait()
	if n := skipped.Load(); n != 1 {
		t.Errorf("%d != 1", n)
	}
	if jobs := h.List(models_job.Filter{Status: models_job.Canceled}); len(jobs) != 2 {
		t.Errorf("unexpected canceled jobs %v", jobs)
	}
	if err = h.Cancel("missing"); !errors.Is(err, models_error.NotFoundErr) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestHandler_ContextDone(t *testing.T) {
	ctx, cf := context.WithCancel(context.Background())
	h := New(ctx, 2, testLogger)
	cf()
	if _, err := h.Create("test", func(ctx context.Context) error { return nil }, nil); err == nil {
		t.Error("expected error")
	}
}
