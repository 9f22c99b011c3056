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
	"errors"
	"fmt"
	"sort"

	"github.com/gin-gonic/gin"
)

type routeFunc func(a *Api) (string, string, gin.HandlerFunc)

type routesSlice []routeFunc

var routes = routesSlice{
	getCatalogH,
	getCatalogEntryH,
	getCatalogStatusH,
	patchCatalogRefreshH,
	patchCatalogSortH,
	patchCatalogSortTickH,
	getCatalogEventsH,
	getPrioritySourcesH,
	getSourceH,
	postSourceH,
	patchSourceToggleH,
	getJobsH,
	getJobH,
	patchJobCancelH,
	getInfoH,
	getHealthCheckH,
}

func (r routesSlice) Set(a *Api, e *gin.Engine) ([][2]string, error) {
	seen := make(map[[2]string]struct{})
	var set [][2]string
	for _, f := range r {
		method, path, handler := f(a)
		if method == "" || path == "" || handler == nil {
			return nil, errors.New("invalid route")
		}
		key := [2]string{method, path}
		if _, ok := seen[key]; ok {
			return nil, fmt.Errorf("duplicate route %s %s", method, path)
		}
		seen[key] = struct{}{}
		e.Handle(method, path, handler)
		set = append(set, key)
	}
	sort.Slice(set, func(i, j int) bool {
		if set[i][1] == set[j][1] {
			return set[i][0] < set[j][0]
		}
		return set[i][1] < set[j][1]
	})
	return set, nil
}
