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

package error

import (
	"errors"
	"fmt"
)

var NotFoundErr = errors.New("not found")

type InputErr struct {
	err error
}

func NewInputErr(err error) *InputErr {
	return &InputErr{err: err}
}

func (e *InputErr) Error() string {
	return e.err.Error()
}

func (e *InputErr) Unwrap() error {
	return e.err
}

// FetchErr reports a failed retrieval of a source line document.
type FetchErr struct {
	Line string
	URL  string
	err  error
}

func NewFetchErr(line, url string, err error) *FetchErr {
	return &FetchErr{
		Line: line,
		URL:  url,
		err:  err,
	}
}

func (e *FetchErr) Error() string {
	return fmt.Sprintf("fetching %s from %s: %s", e.Line, e.URL, e.err)
}

func (e *FetchErr) Unwrap() error {
	return e.err
}

// RecordErr reports a catalog document record that could not be used.
type RecordErr struct {
	Index int
	URL   string
	err   error
}

func NewRecordErr(index int, url string, err error) *RecordErr {
	return &RecordErr{
		Index: index,
		URL:   url,
		err:   err,
	}
}

func (e *RecordErr) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("record %d (%s): %s", e.Index, e.URL, e.err)
	}
	return fmt.Sprintf("record %d: %s", e.Index, e.err)
}

func (e *RecordErr) Unwrap() error {
	return e.err
}
