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

package set

import (
	"cmp"
	"encoding/json"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

type Set[T comparable] map[T]struct{}

func New[T comparable](items ...T) Set[T] {
	s := make(Set[T], len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

func (s Set[T]) Add(item T) bool {
	if _, ok := s[item]; ok {
		return false
	}
	s[item] = struct{}{}
	return true
}

func (s Set[T]) Has(item T) bool {
	_, ok := s[item]
	return ok
}

func (s Set[T]) Remove(item T) {
	delete(s, item)
}

func (s Set[T]) Clone() Set[T] {
	if s == nil {
		return make(Set[T])
	}
	return maps.Clone(s)
}

// Sorted returns the items of s in ascending order.
func Sorted[T cmp.Ordered](s Set[T]) []T {
	return slices.Sorted(maps.Keys(s))
}

func (s *Set[T]) UnmarshalJSON(b []byte) error {
	var sl []T
	if err := json.Unmarshal(b, &sl); err != nil {
		return err
	}
	*s = New(sl...)
	return nil
}

func (s Set[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.items())
}

func (s *Set[T]) UnmarshalYAML(value *yaml.Node) error {
	var sl []T
	if err := value.Decode(&sl); err != nil {
		return err
	}
	*s = New(sl...)
	return nil
}

func (s Set[T]) MarshalYAML() (any, error) {
	return s.items(), nil
}

func (s Set[T]) items() []T {
	sl := make([]T, 0, len(s))
	for item := range s {
		sl = append(sl, item)
	}
	// string sets are the common case and should serialize deterministically
	if ss, ok := any(sl).([]string); ok {
		slices.Sort(ss)
	}
	return sl
}
