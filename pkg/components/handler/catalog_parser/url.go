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
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
)

const rawContentPrefix = "https://raw.githubusercontent.com"

var (
	rawPathRegex = regexp.MustCompile(`(?i)/raw`)
	githubRegex  = regexp.MustCompile(`(?i)github`)
)

// RawURL derives the raw-content form of a catalog entry URL.
func RawURL(u string) string {
	if len(u) >= len(rawContentPrefix) && strings.EqualFold(u[:len(rawContentPrefix)], rawContentPrefix) {
		return u
	}
	return replaceFirst(githubRegex, replaceFirst(rawPathRegex, u, ""), "raw.githubusercontent")
}

func replaceFirst(re *regexp.Regexp, s, repl string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + repl + s[loc[1]:]
}

// GitRepoID normalizes a source control URL to host/path form. Unparsable and
// local URLs yield an empty ID.
func GitRepoID(u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		return ""
	}
	ep, err := transport.NewEndpoint(u)
	if err != nil || ep.Protocol == "file" || ep.Host == "" {
		return ""
	}
	p := strings.Trim(strings.TrimSuffix(strings.TrimSuffix(ep.Path, "/"), ".git"), "/")
	if p == "" {
		return ""
	}
	return strings.ToLower(ep.Host) + "/" + p
}
