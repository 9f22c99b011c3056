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
	"context"
	"net/http"
	"path"
	"time"

	models_api "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/api"
	models_catalog "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/catalog"
	"github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/slog_attr"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	eventsWriteWait = 10 * time.Second
	eventsPongWait  = 60 * time.Second
	eventsPingEvery = (eventsPongWait * 9) / 10
)

var eventsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type eventMessage struct {
	Type   string                 `json:"type"`
	Update *models_catalog.Update `json:"update,omitempty"`
	Status *models_catalog.Status `json:"status,omitempty"`
}

const (
	eventTypeStatus = "status"
	eventTypeUpdate = "update"
)

// getCatalogEventsH godoc
// @Summary Catalog events
// @Description Websocket stream of catalog updates. The current status is sent after connecting.
// @Tags Catalog
// @Success	101
// @Failure	400 {string} string "error message"
// @Router /catalog/events [get]
func getCatalogEventsH(a *Api) (string, string, gin.HandlerFunc) {
	return http.MethodGet, path.Join("/", models_api.CatalogPath, models_api.CatalogEventsPath), func(gc *gin.Context) {
		conn, err := eventsUpgrader.Upgrade(gc.Writer, gc.Request, nil)
		if err != nil {
			a.logger.Warn("upgrading events connection failed", slog_attr.ErrorKey, err)
			return
		}
		defer conn.Close()
		ctx, cf := context.WithCancel(gc.Request.Context())
		defer cf()
		if err = conn.SetReadDeadline(time.Now().Add(eventsPongWait)); err != nil {
			return
		}
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(eventsPongWait))
		})
		go func() {
			defer cf()
			for {
				if _, _, err := conn.NextReader(); err != nil {
					return
				}
			}
		}()
		updates, cancel := a.service.Subscribe()
		defer cancel()
		status := a.service.CatalogStatus()
		if err = writeEvent(conn, eventMessage{Type: eventTypeStatus, Status: &status}); err != nil {
			return
		}
		ticker := time.NewTicker(eventsPingEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				if err = writeEvent(conn, eventMessage{Type: eventTypeUpdate, Update: &update}); err != nil {
					a.logger.Debug("writing event failed", slog_attr.ErrorKey, err)
					return
				}
			case <-ticker.C:
				if err = conn.SetWriteDeadline(time.Now().Add(eventsWriteWait)); err != nil {
					return
				}
				if err = conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}
}

func writeEvent(conn *websocket.Conn, msg eventMessage) error {
	if err := conn.SetWriteDeadline(time.Now().Add(eventsWriteWait)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}
