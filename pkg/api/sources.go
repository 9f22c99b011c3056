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
	"net/http"
	"path"

	models_api "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/api"
	"github.com/gin-gonic/gin"
)

type sourceResponse struct {
	URL     string `json:"url"`
	Enabled bool   `json:"enabled"`
}

// getSourceH godoc
// @Summary Get source
// @Description Check if a source is enabled.
// @Tags Sources
// @Produce	json
// @Param url query string true "source url"
// @Success	200 {object} sourceResponse "source"
// @Failure	400 {string} string "error message"
// @Failure	500 {string} string "error message"
// @Router /sources [get]
func getSourceH(a *Api) (string, string, gin.HandlerFunc) {
	return http.MethodGet, path.Join("/", models_api.SourcesPath), func(gc *gin.Context) {
		url, ok := bindURL(gc)
		if !ok {
			return
		}
		gc.JSON(http.StatusOK, sourceResponse{
			URL:     url,
			Enabled: a.service.SourceEnabled(gc.Request.Context(), url),
		})
	}
}

// postSourceH godoc
// @Summary Add source
// @Description Add a source as enabled. Existing sources are left unchanged.
// @Tags Sources
// @Param url query string true "source url"
// @Success	200
// @Failure	400 {string} string "error message"
// @Failure	500 {string} string "error message"
// @Router /sources [post]
func postSourceH(a *Api) (string, string, gin.HandlerFunc) {
	return http.MethodPost, path.Join("/", models_api.SourcesPath), func(gc *gin.Context) {
		url, ok := bindURL(gc)
		if !ok {
			return
		}
		if err := a.service.AddSource(gc.Request.Context(), url); err != nil {
			_ = gc.Error(err)
			return
		}
		gc.Status(http.StatusOK)
	}
}

// patchSourceToggleH godoc
// @Summary Toggle source
// @Description Enable or disable a source. Unknown sources are added as enabled.
// @Tags Sources
// @Param url query string true "source url"
// @Success	200
// @Failure	400 {string} string "error message"
// @Failure	500 {string} string "error message"
// @Router /sources/toggle [patch]
func patchSourceToggleH(a *Api) (string, string, gin.HandlerFunc) {
	return http.MethodPatch, path.Join("/", models_api.SourcesPath, models_api.SourcesTogglePath), func(gc *gin.Context) {
		url, ok := bindURL(gc)
		if !ok {
			return
		}
		if err := a.service.ToggleSource(gc.Request.Context(), url); err != nil {
			_ = gc.Error(err)
			return
		}
		gc.Status(http.StatusOK)
	}
}
