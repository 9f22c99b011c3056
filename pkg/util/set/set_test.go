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
	"encoding/json"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestSet_UnmarshalJSON(t *testing.T) {
	var b Set[string]
	if err := json.Unmarshal([]byte("[\"test\"]"), &b); err != nil {
		t.Error("err != nil")
	}
	a := Set[string]{"test": {}}
	if reflect.DeepEqual(a, b) == false {
		t.Errorf("%v != %v", a, b)
	}
	if err := json.Unmarshal([]byte("[1]"), &b); err == nil {
		t.Error("err == nil")
	}
}

func TestSet_MarshalJSON(t *testing.T) {
	s := Set[string]{"b": {}, "a": {}}
	a := "[\"a\",\"b\"]"
	if b, err := json.Marshal(s); err != nil {
		t.Error("err != nil")
	} else if a != string(b) {
		t.Errorf("%s != %s", a, string(b))
	}
	if b, err := json.Marshal(Set[string]{}); err != nil {
		t.Error("err != nil")
	} else if string(b) != "[]" {
		t.Errorf("%s != []", string(b))
	}
}

func TestSet_YAML(t *testing.T) {
	type wrapper struct {
		Items Set[string] `yaml:"items"`
	}
	b, err := yaml.Marshal(wrapper{Items: New("b", "a")})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "items:\n    - a\n    - b\n" {
		t.Errorf("unexpected yaml %q", string(b))
	}
	var w wrapper
	if err = yaml.Unmarshal(b, &w); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(w.Items, New("a", "b")) {
		t.Errorf("%v != %v", w.Items, New("a", "b"))
	}
	if err = yaml.Unmarshal([]byte("items: {a: 1}"), &w); err == nil {
		t.Error("err == nil")
	}
}

func TestSet_Add(t *testing.T) {
	s := New[string]()
	if !s.Add("a") {
		t.Error("expected first add to succeed")
	}
	if s.Add("a") {
		t.Error("expected second add to fail")
	}
	if !s.Has("a") {
		t.Error("expected item")
	}
	s.Remove("a")
	if s.Has("a") {
		t.Error("unexpected item")
	}
}

func TestSorted(t *testing.T) {
	if a := Sorted(New(3, 1, 2)); !reflect.DeepEqual(a, []int{1, 2, 3}) {
		t.Errorf("%v != [1 2 3]", a)
	}
}
