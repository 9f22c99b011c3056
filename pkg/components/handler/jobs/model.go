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
	"sync"

	helper_time "github.com/SENERGY-Platform/mgw-repo-browser/pkg/components/helper/time"
	models_job "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/job"
)

type job struct {
	mu    sync.RWMutex
	meta  models_job.Job
	tFunc func(context.Context) error
	ctx   context.Context
	cFunc context.CancelFunc
}

// run executes tFunc and reports false if the job was canceled before.
func (j *job) run() bool {
	j.mu.Lock()
	if j.ctx.Err() != nil {
		j.mu.Unlock()
		return false
	}
	t := helper_time.Now()
	j.meta.Started = &t
	j.mu.Unlock()
	err := j.tFunc(j.ctx)
	j.mu.Lock()
	if err != nil {
		j.meta.Error = err.Error()
	}
	t2 := helper_time.Now()
	j.meta.Completed = &t2
	j.mu.Unlock()
	j.cFunc()
	return true
}

func (j *job) skip(skipFunc func()) {
	j.cFunc()
	if skipFunc != nil {
		skipFunc()
	}
}

func (j *job) Cancel() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.meta.Completed != nil || j.meta.Canceled != nil {
		return
	}
	j.cFunc()
	t := helper_time.Now()
	j.meta.Canceled = &t
}

func (j *job) Meta() models_job.Job {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.meta
}
