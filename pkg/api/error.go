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

	"github.com/SENERGY-Platform/mgw-repo-browser/pkg/components/handler/fetcher/client"
	models_error "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/error"
)

func getStatusCode(err error) int {
	if errors.Is(err, models_error.NotFoundErr) {
		return http.StatusNotFound
	}
	var iErr *models_error.InputErr
	if errors.As(err, &iErr) {
		return http.StatusBadRequest
	}
	var rErr *client.ResponseError
	if errors.As(err, &rErr) {
		return http.StatusBadGateway
	}
	var fErr *models_error.FetchErr
	if errors.As(err, &fErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
