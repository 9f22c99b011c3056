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
	"net/http"
	"path"

	models_api "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/api"
	models_catalog "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/catalog"
	models_error "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/error"
	"github.com/gin-gonic/gin"
)

type catalogQuery struct {
	MinAPILevel      uint8  `form:"min_api_level"`
	HideEnabled      bool   `form:"hide_enabled"`
	HideScriptOnly   bool   `form:"hide_script_only"`
	HideClosedSource bool   `form:"hide_closed_source"`
	Search           string `form:"search"`
	Tag              string `form:"tag"`
	Owner            string `form:"owner"`
	MaxItems         int    `form:"max_items"`
}

type urlQuery struct {
	URL string `form:"url"`
}

type sortQuery struct {
	Mode string `form:"mode"`
}

type sortTickResponse struct {
	Sorted bool `json:"sorted"`
}

// getCatalogH godoc
// @Summary Get catalog
// @Description Get the published catalog. Filters only affect the returned view.
// @Tags Catalog
// @Produce	json
// @Param min_api_level query integer false "hide items below api level, unversioned items are kept"
// @Param hide_enabled query bool false "hide enabled sources"
// @Param hide_script_only query bool false "hide entries whose items only use non-latin script"
// @Param hide_closed_source query bool false "hide closed source items"
// @Param search query string false "case-insensitive search term"
// @Param tag query string false "filter items by tag"
// @Param owner query string false "filter by owner"
// @Param max_items query integer false "hide entries with more items"
// @Success	200 {object} models_catalog.Snapshot "catalog"
// @Failure	400 {string} string "error message"
// @Failure	500 {string} string "error message"
// @Router /catalog [get]
func getCatalogH(a *Api) (string, string, gin.HandlerFunc) {
	return http.MethodGet, path.Join("/", models_api.CatalogPath), func(gc *gin.Context) {
		var query catalogQuery
		if err := gc.ShouldBindQuery(&query); err != nil {
			_ = gc.Error(models_error.NewInputErr(err))
			return
		}
		if query.MaxItems < 0 {
			_ = gc.Error(models_error.NewInputErr(errors.New("max_items must not be negative")))
			return
		}
		snapshot, err := a.service.Catalog(gc.Request.Context(), models_catalog.Filter{
			MinAPILevel:      query.MinAPILevel,
			HideEnabled:      query.HideEnabled,
			HideScriptOnly:   query.HideScriptOnly,
			HideClosedSource: query.HideClosedSource,
			Search:           query.Search,
			Tag:              query.Tag,
			Owner:            query.Owner,
			MaxItems:         query.MaxItems,
		})
		if err != nil {
			_ = gc.Error(err)
			return
		}
		gc.JSON(http.StatusOK, snapshot)
	}
}

// getCatalogEntryH godoc
// @Summary Get catalog entry
// @Description Get a published entry by its source url.
// @Tags Catalog
// @Produce	json
// @Param url query string true "source url"
// @Success	200 {object} models_catalog.Entry "entry"
// @Failure	400 {string} string "error message"
// @Failure	404 {string} string "error message"
// @Failure	500 {string} string "error message"
// @Router /catalog/entry [get]
func getCatalogEntryH(a *Api) (string, string, gin.HandlerFunc) {
	return http.MethodGet, path.Join("/", models_api.CatalogPath, models_api.CatalogEntryPath), func(gc *gin.Context) {
		url, ok := bindURL(gc)
		if !ok {
			return
		}
		entry, err := a.service.Entry(gc.Request.Context(), url)
		if err != nil {
			_ = gc.Error(err)
			return
		}
		gc.JSON(http.StatusOK, entry)
	}
}

// getCatalogStatusH godoc
// @Summary Get catalog status
// @Description Get the state of the catalog and its sort countdown.
// @Tags Catalog
// @Produce	json
// @Success	200 {object} models_catalog.Status "status"
// @Failure	500 {string} string "error message"
// @Router /catalog/status [get]
func getCatalogStatusH(a *Api) (string, string, gin.HandlerFunc) {
	return http.MethodGet, path.Join("/", models_api.CatalogPath, models_api.CatalogStatusPath), func(gc *gin.Context) {
		gc.JSON(http.StatusOK, a.service.CatalogStatus())
	}
}

// patchCatalogRefreshH godoc
// @Summary Refresh catalog
// @Description Discard cached documents and start a new fetch cycle.
// @Tags Catalog
// @Produce	plain
// @Success	200 {string} string "job ID"
// @Failure	500 {string} string "error message"
// @Router /catalog/refresh [patch]
func patchCatalogRefreshH(a *Api) (string, string, gin.HandlerFunc) {
	return http.MethodPatch, path.Join("/", models_api.CatalogPath, models_api.CatalogRefreshPath), func(gc *gin.Context) {
		jID, err := a.service.RequestManualRefresh(gc.Request.Context())
		if err != nil {
			_ = gc.Error(err)
			return
		}
		gc.String(http.StatusOK, jID)
	}
}

// patchCatalogSortH godoc
// @Summary Sort catalog
// @Description Request a sort of the published catalog, optionally changing the sort mode.
// @Tags Catalog
// @Param mode query string false "sort mode" Enums(none, owner, url, item_count, last_update)
// @Success	200
// @Failure	400 {string} string "error message"
// @Failure	500 {string} string "error message"
// @Router /catalog/sort [patch]
func patchCatalogSortH(a *Api) (string, string, gin.HandlerFunc) {
	return http.MethodPatch, path.Join("/", models_api.CatalogPath, models_api.CatalogSortPath), func(gc *gin.Context) {
		var query sortQuery
		if err := gc.ShouldBindQuery(&query); err != nil {
			_ = gc.Error(models_error.NewInputErr(err))
			return
		}
		if query.Mode == "" {
			a.service.RequestSort()
			gc.Status(http.StatusOK)
			return
		}
		if err := a.service.SetSortMode(query.Mode); err != nil {
			_ = gc.Error(err)
			return
		}
		gc.Status(http.StatusOK)
	}
}

// patchCatalogSortTickH godoc
// @Summary Consume sort tick
// @Description Advance the sort countdown by one tick. Sorted is true when the countdown expired with this tick.
// @Tags Catalog
// @Produce	json
// @Success	200 {object} sortTickResponse "tick result"
// @Failure	500 {string} string "error message"
// @Router /catalog/sort/tick [patch]
func patchCatalogSortTickH(a *Api) (string, string, gin.HandlerFunc) {
	return http.MethodPatch, path.Join("/", models_api.CatalogPath, models_api.CatalogSortPath, models_api.CatalogSortTickPath), func(gc *gin.Context) {
		gc.JSON(http.StatusOK, sortTickResponse{Sorted: a.service.ConsumeSortTick()})
	}
}

// getPrioritySourcesH godoc
// @Summary Get priority sources
// @Description List the source urls of the current priority set.
// @Tags Catalog
// @Produce	json
// @Success	200 {array} string "source urls"
// @Failure	500 {string} string "error message"
// @Router /catalog/priority-sources [get]
func getPrioritySourcesH(a *Api) (string, string, gin.HandlerFunc) {
	return http.MethodGet, path.Join("/", models_api.CatalogPath, models_api.PrioritySourcesPath), func(gc *gin.Context) {
		sources := a.service.PrioritySources()
		if sources == nil {
			sources = []string{}
		}
		gc.JSON(http.StatusOK, sources)
	}
}

func bindURL(gc *gin.Context) (string, bool) {
	var query urlQuery
	if err := gc.ShouldBindQuery(&query); err != nil {
		_ = gc.Error(models_error.NewInputErr(err))
		return "", false
	}
	if query.URL == "" {
		_ = gc.Error(models_error.NewInputErr(errors.New("missing url")))
		return "", false
	}
	return query.URL, true
}
