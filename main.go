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

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"syscall"
	"time"

	sb_config_hdl "github.com/SENERGY-Platform/go-service-base/config-hdl"
	"github.com/SENERGY-Platform/go-service-base/srv-info-hdl"
	struct_logger "github.com/SENERGY-Platform/go-service-base/struct-logger"
	"github.com/SENERGY-Platform/mgw-repo-browser/pkg/api"
	handler_browser_state "github.com/SENERGY-Platform/mgw-repo-browser/pkg/components/handler/browser_state"
	handler_catalog_parser "github.com/SENERGY-Platform/mgw-repo-browser/pkg/components/handler/catalog_parser"
	handler_catalog_store "github.com/SENERGY-Platform/mgw-repo-browser/pkg/components/handler/catalog_store"
	handler_deduplicator "github.com/SENERGY-Platform/mgw-repo-browser/pkg/components/handler/deduplicator"
	handler_fetcher "github.com/SENERGY-Platform/mgw-repo-browser/pkg/components/handler/fetcher"
	client_fetcher "github.com/SENERGY-Platform/mgw-repo-browser/pkg/components/handler/fetcher/client"
	handler_jobs "github.com/SENERGY-Platform/mgw-repo-browser/pkg/components/handler/jobs"
	handler_scheduler "github.com/SENERGY-Platform/mgw-repo-browser/pkg/components/handler/scheduler"
	handler_source_cache "github.com/SENERGY-Platform/mgw-repo-browser/pkg/components/handler/source_cache"
	handler_source_settings "github.com/SENERGY-Platform/mgw-repo-browser/pkg/components/handler/source_settings"
	helper_http "github.com/SENERGY-Platform/mgw-repo-browser/pkg/components/helper/http"
	helper_os_signal "github.com/SENERGY-Platform/mgw-repo-browser/pkg/components/helper/os_signal"
	helper_time "github.com/SENERGY-Platform/mgw-repo-browser/pkg/components/helper/time"
	"github.com/SENERGY-Platform/mgw-repo-browser/pkg/configuration"
	"github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/slog_attr"
	"github.com/SENERGY-Platform/mgw-repo-browser/pkg/service"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

var version string

func main() {
	ec := 0
	defer func() {
		os.Exit(ec)
	}()

	srvInfoHdl := srv_info_hdl.New("repo-browser", version)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		_, _ = fmt.Fprintln(os.Stderr, err)
		ec = 1
		return
	}

	configuration.ParseFlags()

	config, err := configuration.New(configuration.ConfPath)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		ec = 1
		return
	}

	helper_time.UTC = config.UseUTC

	logger := struct_logger.New(config.Logger, os.Stderr, "", srvInfoHdl.Name())

	logger.Info("starting service", slog_attr.VersionKey, srvInfoHdl.Version(), slog_attr.ConfigValuesKey, sb_config_hdl.StructToMap(config, true))

	dataDirPath, err := homedir.Expand(config.DataDirPath)
	if err != nil {
		logger.Error("expanding data dir path failed", slog_attr.ErrorKey, err)
		ec = 1
		return
	}
	if err = os.MkdirAll(dataDirPath, 0o755); err != nil {
		logger.Error("creating data dir failed", slog_attr.ErrorKey, err, slog_attr.PathKey, dataDirPath)
		ec = 1
		return
	}

	sourceCacheHdl := handler_source_cache.New(filepath.Join(dataDirPath, "cache"))
	if err = sourceCacheHdl.Init(); err != nil {
		logger.Error("initializing source cache failed", slog_attr.ErrorKey, err)
		ec = 1
		return
	}

	browserStateHdl := handler_browser_state.New(dataDirPath)
	if err = browserStateHdl.Init(); err != nil {
		logger.Error("initializing browser state failed", slog_attr.ErrorKey, err)
		ec = 1
		return
	}

	sourceSettingsHdl := handler_source_settings.New(dataDirPath)
	if err = sourceSettingsHdl.Init(); err != nil {
		logger.Error("initializing source settings failed", slog_attr.ErrorKey, err)
		ec = 1
		return
	}

	appVersion := config.HttpClient.AppVersion
	if appVersion == "" {
		appVersion = srvInfoHdl.Version()
	}
	fetcherClt := client_fetcher.New(helper_http.NewClient(config.HttpClient.Timeout), config.HttpClient.AppName, appVersion)
	fetcherHdl := handler_fetcher.New(sourceCacheHdl, fetcherClt, logger)

	catalogParserHdl, err := handler_catalog_parser.New(config.Parser.MemoSize, logger)
	if err != nil {
		logger.Error("creating catalog parser failed", slog_attr.ErrorKey, err)
		ec = 1
		return
	}

	catalogStoreHdl := handler_catalog_store.New(browserStateHdl, logger)

	schedulerHdl := handler_scheduler.New(catalogStoreHdl, sourceSettingsHdl, browserStateHdl, config.Scheduler.SortDelay, logger)
	defer schedulerHdl.Stop()

	ctx, cf := context.WithCancel(context.Background())

	jobsHdl := handler_jobs.New(ctx, config.Jobs.Workers, logger)

	srv := service.New(
		service.Config{
			CatalogLine: handler_fetcher.Line{
				Name: config.Sources.Catalog.Name,
				URL:  config.Sources.Catalog.URL,
				TTL:  config.Sources.Catalog.TTL,
			},
			PriorityLine: handler_fetcher.Line{
				Name: config.Sources.Priority.Name,
				URL:  config.Sources.Priority.URL,
				TTL:  config.Sources.Priority.TTL,
			},
			RemoteUpdateLine: handler_fetcher.Line{
				Name: config.Sources.RemoteUpdate.Name,
				URL:  config.Sources.RemoteUpdate.URL,
				TTL:  config.Sources.RemoteUpdate.TTL,
			},
			SortTicks:         config.Scheduler.SortTicks,
			SortTickInterval:  config.Scheduler.SortTickInterval,
			RefreshInterval:   config.Scheduler.RefreshInterval,
			JobsMaxAge:        config.Jobs.MaxAge,
			JobsPurgeInterval: config.Jobs.PurgeInterval,
		},
		fetcherHdl,
		catalogParserHdl,
		handler_deduplicator.New(logger),
		catalogStoreHdl,
		schedulerHdl,
		sourceSettingsHdl,
		browserStateHdl,
		jobsHdl,
		logger,
	)

	httpApi, err := api.New(
		srv,
		srvInfoHdl,
		logger,
		config.HttpAccessLog,
	)
	if err != nil {
		logger.Error("creating http engine failed", slog_attr.ErrorKey, err)
		ec = 1
		return
	}

	httpServer := &http.Server{Handler: h2c.NewHandler(httpApi.Handler(), &http2.Server{})}
	serverListener, err := net.Listen("tcp", ":"+strconv.FormatInt(int64(config.ServerPort), 10))
	if err != nil {
		logger.Error("creating server listener failed", slog_attr.ErrorKey, err)
		ec = 1
		return
	}

	go func() {
		helper_os_signal.Wait(ctx, logger, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
		cf()
	}()

	wg := &sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.Run(ctx); err != nil {
			logger.Error("running service failed", slog_attr.ErrorKey, err)
			ec = 1
		}
		cf()
	}()

	go func() {
		logger.Info("starting http server")
		if err := httpServer.Serve(serverListener); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("starting server failed", slog_attr.ErrorKey, err)
			ec = 1
		}
		cf()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		logger.Info("stopping http server")
		ctxWt, cf2 := context.WithTimeout(context.Background(), time.Second*5)
		defer cf2()
		if err := httpServer.Shutdown(ctxWt); err != nil {
			logger.Error("stopping server failed", slog_attr.ErrorKey, err)
			ec = 1
		} else {
			logger.Info("http server stopped")
		}
	}()

	wg.Wait()
	jobsHdl.Wait()
}
