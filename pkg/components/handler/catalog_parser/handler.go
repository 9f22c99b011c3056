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
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"time"

	models_catalog "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/catalog"
	models_error "github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/error"
	"github.com/SENERGY-Platform/mgw-repo-browser/pkg/models/slog_attr"
	"github.com/SENERGY-Platform/mgw-repo-browser/pkg/util/set"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Handler turns catalog documents into entries. Decoded records are memoized
// by content hash so unchanged records are not decoded again on the next cycle.
type Handler struct {
	memo   *lru.Cache[[sha256.Size]byte, models_catalog.Entry]
	logger *slog.Logger
}

func New(memoSize int, logger *slog.Logger) (*Handler, error) {
	memo, err := lru.New[[sha256.Size]byte, models_catalog.Entry](memoSize)
	if err != nil {
		return nil, err
	}
	return &Handler{
		memo:   memo,
		logger: logger.With(slog_attr.ComponentKey, "catalog_parser"),
	}, nil
}

// Parse validates doc as a whole and returns a sequence over its usable
// entries. A syntax error anywhere in doc fails the call. Malformed records,
// records whose URL was already accepted by guard and records without items
// are logged and skipped. The sequence can be iterated once.
func (h *Handler) Parse(doc []byte, guard URLGuard) (iter.Seq[models_catalog.Entry], error) {
	if !json.Valid(doc) {
		return nil, errInvalidDocument(doc)
	}
	decoder := json.NewDecoder(bytes.NewReader(doc))
	if err := expectArray(decoder); err != nil {
		return nil, err
	}
	if guard == nil {
		guard = make(localGuard)
	}
	return func(yield func(models_catalog.Entry) bool) {
		for i := 0; decoder.More(); i++ {
			var raw json.RawMessage
			if err := decoder.Decode(&raw); err != nil {
				h.logger.Error("decoding catalog document failed", slog_attr.IndexKey, i, slog_attr.ErrorKey, err)
				return
			}
			entry, err := h.entry(raw)
			if err != nil {
				var recErr *models_error.RecordErr
				if errors.As(err, &recErr) {
					recErr.Index = i
				}
				h.logger.Error("parsing catalog record failed", slog_attr.IndexKey, i, slog_attr.ErrorKey, err)
				continue
			}
			if !guard.MarkFetched(entry.URL) {
				h.logger.Error("skipping catalog record", slog_attr.IndexKey, i, slog_attr.URLKey, entry.URL, slog_attr.ErrorKey, errors.New("url already fetched"))
				continue
			}
			if len(entry.Items) == 0 {
				h.logger.Info("skipping catalog record without items", slog_attr.IndexKey, i, slog_attr.URLKey, entry.URL)
				continue
			}
			if !yield(entry) {
				return
			}
		}
	}, nil
}

// ParsePrioritySet reads a JSON array of entry URLs. Non-string and empty
// elements are skipped.
func (h *Handler) ParsePrioritySet(doc []byte) (models_catalog.PrioritySet, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(doc, &raws); err != nil {
		return nil, fmt.Errorf("invalid priority document: %w", err)
	}
	ps := make(models_catalog.PrioritySet)
	for i, raw := range raws {
		var u string
		if err := json.Unmarshal(raw, &u); err != nil {
			h.logger.Warn("skipping priority record", slog_attr.IndexKey, i, slog_attr.ErrorKey, err)
			continue
		}
		if u = strings.TrimSpace(u); u != "" {
			ps.Add(u)
		}
	}
	return ps, nil
}

// ParseRemoteUpdate reads the publisher metadata document. Missing
// timestamps stay nil.
func (h *Handler) ParseRemoteUpdate(doc []byte) (models_catalog.RemoteUpdate, error) {
	var rec remoteUpdateRecord
	if err := json.Unmarshal(doc, &rec); err != nil {
		return models_catalog.RemoteUpdate{}, fmt.Errorf("invalid remote update document: %w", err)
	}
	return models_catalog.RemoteUpdate{
		Updated:    unixTime(rec.Unix),
		NextUpdate: unixTime(rec.NextUnix),
	}, nil
}

func unixTime(sec *int64) *time.Time {
	if sec == nil {
		return nil
	}
	t := time.Unix(*sec, 0).UTC()
	return &t
}

func (h *Handler) entry(raw json.RawMessage) (models_catalog.Entry, error) {
	key := sha256.Sum256(raw)
	if entry, ok := h.memo.Get(key); ok {
		return entry, nil
	}
	entry, err := decodeEntry(raw)
	if err != nil {
		return models_catalog.Entry{}, err
	}
	h.memo.Add(key, entry)
	return entry, nil
}

func decodeEntry(raw json.RawMessage) (models_catalog.Entry, error) {
	var rec repoRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return models_catalog.Entry{}, models_error.NewRecordErr(0, "", err)
	}
	u := strings.TrimSpace(rec.RepoURL)
	if u == "" {
		return models_catalog.Entry{}, models_error.NewRecordErr(0, "", errMissingURL)
	}
	entry := models_catalog.Entry{
		URL:             u,
		RawURL:          RawURL(u),
		GitRepoURL:      strings.TrimSpace(rec.SourceURL),
		GitRepoID:       GitRepoID(rec.SourceURL),
		Owner:           strings.TrimSpace(rec.DeveloperName),
		Name:            fullName(strings.TrimSpace(rec.DeveloperName), strings.TrimSpace(rec.RepoName)),
		IsDefaultBranch: rec.IsDefaultBranch == nil || *rec.IsDefaultBranch,
		BranchName:      rec.BranchName,
	}
	items := make([]models_catalog.Item, 0, len(rec.Plugins))
	for i, rawPlugin := range rec.Plugins {
		item, err := decodeItem(rawPlugin, u)
		if err != nil {
			return models_catalog.Entry{}, models_error.NewRecordErr(0, u, fmt.Errorf("plugin %d: %w", i, err))
		}
		items = append(items, item)
	}
	return entry.WithItems(items), nil
}

func decodeItem(raw json.RawMessage, entryURL string) (models_catalog.Item, error) {
	var rec pluginRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return models_catalog.Item{}, err
	}
	apiLevel, err := rec.APILevel.toUint8()
	if err != nil {
		return models_catalog.Item{}, fmt.Errorf("DalamudApiLevel: %w", err)
	}
	closedSource := rec.ClosedSource
	if closedSource == nil {
		closedSource = rec.ClosedSourceAlias
	}
	return models_catalog.Item{
		InternalName: rec.InternalName,
		Name:         rec.Name,
		Author:       rec.Author,
		Punchline:    rec.Punchline,
		Description:  rec.Description,
		EntryURL:     entryURL,
		ProjectURL:   rec.RepoURL,
		APILevel:     apiLevel,
		LastUpdate:   int64(rec.LastUpdate),
		Tags:         rec.Tags,
		CategoryTags: rec.CategoryTags,
		ClosedSource: closedSource != nil && *closedSource,
		ScriptOnly:   scriptOnly(rec.Name, rec.Description),
	}, nil
}

func fullName(owner, repoName string) string {
	if owner != "" && repoName != "" {
		return owner + "/" + repoName
	}
	return repoName
}

// errInvalidDocument locates the first syntax error in doc.
func errInvalidDocument(doc []byte) error {
	var v any
	err := json.Unmarshal(doc, &v)
	if err == nil {
		err = errors.New("syntax error")
	}
	return fmt.Errorf("invalid catalog document: %w", err)
}

func expectArray(decoder *json.Decoder) error {
	tok, err := decoder.Token()
	if err != nil {
		return fmt.Errorf("invalid catalog document: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return fmt.Errorf("invalid catalog document: expected array, got %v", tok)
	}
	return nil
}

type URLGuard interface {
	// MarkFetched records url and reports whether it was not recorded before.
	MarkFetched(url string) bool
}

type localGuard set.Set[string]

func (g localGuard) MarkFetched(url string) bool {
	return set.Set[string](g).Add(url)
}
