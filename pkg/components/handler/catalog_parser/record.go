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

package catalog_parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var errMissingURL = errors.New("missing repo_url")

type remoteUpdateRecord struct {
	Unix     *int64 `json:"unix"`
	NextUnix *int64 `json:"next_unix"`
}

type repoRecord struct {
	RepoURL         string            `json:"repo_url"`
	DeveloperName   string            `json:"repo_developer_name"`
	RepoName        string            `json:"repo_name"`
	SourceURL       string            `json:"repo_source_url"`
	IsDefaultBranch *bool             `json:"is_default_branch"`
	BranchName      string            `json:"branch_name"`
	Plugins         []json.RawMessage `json:"plugins"`
}

type pluginRecord struct {
	InternalName      string   `json:"InternalName"`
	Name              string   `json:"Name"`
	Author            string   `json:"Author"`
	Punchline         string   `json:"Punchline"`
	Description       string   `json:"Description"`
	RepoURL           string   `json:"RepoUrl"`
	APILevel          number   `json:"DalamudApiLevel"`
	LastUpdate        number   `json:"LastUpdate"`
	Tags              []string `json:"Tags"`
	CategoryTags      []string `json:"CategoryTags"`
	ClosedSource      *bool    `json:"is_closed_source"`
	ClosedSourceAlias *bool    `json:"IsClosedSource"`
}

// number accepts JSON numbers, numeric strings and null.
type number int64

func (n *number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		*n = number(v)
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("invalid number %s", string(b))
	}
	*n = number(f)
	return nil
}

func (n number) toUint8() (uint8, error) {
	if n < 0 || n > math.MaxUint8 {
		return 0, fmt.Errorf("value %d out of range", n)
	}
	return uint8(n), nil
}
