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

package configuration

import (
	"time"

	sb_config_hdl "github.com/SENERGY-Platform/go-service-base/config-hdl"
	struct_logger "github.com/SENERGY-Platform/go-service-base/struct-logger"
)

type CatalogSourceConfig struct {
	URL  string        `json:"url" env_var:"CATALOG_SOURCE_URL"`
	Name string        `json:"name" env_var:"CATALOG_SOURCE_NAME"`
	TTL  time.Duration `json:"ttl" env_var:"CATALOG_SOURCE_TTL"`
}

type PrioritySourceConfig struct {
	URL  string        `json:"url" env_var:"PRIORITY_SOURCE_URL"`
	Name string        `json:"name" env_var:"PRIORITY_SOURCE_NAME"`
	TTL  time.Duration `json:"ttl" env_var:"PRIORITY_SOURCE_TTL"`
}

// RemoteUpdateSourceConfig points to the publisher metadata document. An
// empty URL disables it.
type RemoteUpdateSourceConfig struct {
	URL  string        `json:"url" env_var:"REMOTE_UPDATE_SOURCE_URL"`
	Name string        `json:"name" env_var:"REMOTE_UPDATE_SOURCE_NAME"`
	TTL  time.Duration `json:"ttl" env_var:"REMOTE_UPDATE_SOURCE_TTL"`
}

type SourcesConfig struct {
	Catalog      CatalogSourceConfig      `json:"catalog"`
	Priority     PrioritySourceConfig     `json:"priority"`
	RemoteUpdate RemoteUpdateSourceConfig `json:"remote_update"`
}

type HttpClientConfig struct {
	Timeout    time.Duration `json:"timeout" env_var:"HTTP_CLIENT_TIMEOUT"`
	AppName    string        `json:"app_name" env_var:"HTTP_CLIENT_APP_NAME"`
	AppVersion string        `json:"app_version" env_var:"HTTP_CLIENT_APP_VERSION"`
}

type SchedulerConfig struct {
	RefreshInterval  time.Duration `json:"refresh_interval" env_var:"SCHEDULER_REFRESH_INTERVAL"`
	SortTicks        int64         `json:"sort_ticks" env_var:"SCHEDULER_SORT_TICKS"`
	SortTickInterval time.Duration `json:"sort_tick_interval" env_var:"SCHEDULER_SORT_TICK_INTERVAL"`
	SortDelay        time.Duration `json:"sort_delay" env_var:"SCHEDULER_SORT_DELAY"`
}

type JobsConfig struct {
	Workers       int           `json:"workers" env_var:"JOBS_WORKERS"`
	MaxAge        time.Duration `json:"max_age" env_var:"JOBS_MAX_AGE"`
	PurgeInterval time.Duration `json:"purge_interval" env_var:"JOBS_PURGE_INTERVAL"`
}

type ParserConfig struct {
	MemoSize int `json:"memo_size" env_var:"PARSER_MEMO_SIZE"`
}

type Config struct {
	ServerPort    uint                 `json:"server_port" env_var:"SERVER_PORT"`
	Logger        struct_logger.Config `json:"logger"`
	DataDirPath   string               `json:"data_dir_path" env_var:"DATA_DIR_PATH"`
	Sources       SourcesConfig        `json:"sources"`
	HttpClient    HttpClientConfig     `json:"http_client"`
	Scheduler     SchedulerConfig      `json:"scheduler"`
	Jobs          JobsConfig           `json:"jobs"`
	Parser        ParserConfig         `json:"parser"`
	HttpAccessLog bool                 `json:"http_access_log" env_var:"HTTP_ACCESS_LOG"`
	UseUTC        bool                 `json:"use_utc" env_var:"USE_UTC"`
}

func New(path string) (*Config, error) {
	cfg := Config{
		ServerPort: 80,
		Logger: struct_logger.Config{
			Handler:    struct_logger.TextHandlerSelector,
			Level:      struct_logger.LevelInfo,
			TimeFormat: time.RFC3339Nano,
			TimeUtc:    true,
			AddMeta:    false,
		},
		DataDirPath: "~/.mgw-repo-browser",
		Sources: SourcesConfig{
			Catalog: CatalogSourceConfig{
				URL:  "https://raw.githubusercontent.com/BeSlightly/Aetherfeed/refs/heads/main/public/data/plugins.json",
				Name: "repos.json",
				TTL:  time.Hour * 24,
			},
			Priority: PrioritySourceConfig{
				URL:  "https://raw.githubusercontent.com/BeSlightly/Aetherfeed/refs/heads/main/public/data/priority-repos.json",
				Name: "priority-repos.json",
				TTL:  time.Hour * 24,
			},
			RemoteUpdate: RemoteUpdateSourceConfig{
				URL:  "https://raw.githubusercontent.com/BeSlightly/Aetherfeed/refs/heads/main/public/data/last-updated.json",
				Name: "last-updated.json",
			},
		},
		HttpClient: HttpClientConfig{
			Timeout:    time.Second * 30,
			AppName:    "mgw-repo-browser",
			AppVersion: "",
		},
		Scheduler: SchedulerConfig{
			RefreshInterval:  time.Hour,
			SortTicks:        60,
			SortTickInterval: time.Second / 60,
			SortDelay:        time.Second,
		},
		Jobs: JobsConfig{
			Workers:       2,
			MaxAge:        time.Hour * 48,
			PurgeInterval: time.Minute * 5,
		},
		Parser: ParserConfig{
			MemoSize: 4096,
		},
		UseUTC: true,
	}
	err := sb_config_hdl.Load(&cfg, nil, nil, nil, path)
	return &cfg, err
}
