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

package source_cache

import (
	"encoding/json"
	"os"
	"path"

	helper_file_sys "github.com/SENERGY-Platform/mgw-repo-browser/pkg/components/helper/file_sys"
)

const metaFileSuffix = ".meta"

type metaFile struct {
	LastFetch int64 `json:"last_fetch"` // unix milliseconds, zero forces a refresh
	Size      int   `json:"size"`
}

func readMetaFile(dirPath, name string) (metaFile, error) {
	file, err := os.Open(path.Join(dirPath, name+metaFileSuffix))
	if err != nil {
		return metaFile{}, err
	}
	defer file.Close()
	var meta metaFile
	if err = json.NewDecoder(file).Decode(&meta); err != nil {
		return metaFile{}, err
	}
	return meta, nil
}

func writeMetaFile(dirPath, name string, meta metaFile) error {
	b, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return helper_file_sys.WriteFileAtomic(path.Join(dirPath, name+metaFileSuffix), b, 0664)
}
