// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package maven

import (
	"strings"
	"testing"
)

func TestVersionDBRegisterAndFind(t *testing.T) {
	db := NewVersionDB()
	db.Register(NewCoordinate("g", "a", "1.2"))

	got, ok := db.Find(NewCoordinate("g", "a", ""))
	if !ok {
		t.Fatalf("Find: not found")
	}
	if got.Version != "1.2" {
		t.Errorf("Find returned version %q, want 1.2", got.Version)
	}

	if _, ok := db.Find(NewCoordinate("g", "b", "")); ok {
		t.Errorf("Find(g:b) should miss")
	}
}

func TestVersionDBRegisterKeepsFirst(t *testing.T) {
	db := NewVersionDB()
	db.Register(NewCoordinate("g", "a", "1.0"))
	db.Register(NewCoordinate("g", "a", "2.0"))

	got, _ := db.Find(NewCoordinate("g", "a", ""))
	if got.Version != "1.0" {
		t.Errorf("Find returned version %q, want the first-registered 1.0", got.Version)
	}
}

func TestVersionDBParseFile(t *testing.T) {
	input := `# this is the root project, commented out by the user
com.example:root:1.0
+- com.example:a:jar:1.2:compile
|  \- com.example:b:jar:0.9:compile
\- com.example:c:jar:2.1:test

`
	db := NewVersionDB()
	if err := db.ParseFile(strings.NewReader(input)); err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	tests := []struct {
		name, artifact, want string
	}{
		{"a", "a", "1.2"},
		{"b", "b", "0.9"},
		{"c", "c", "2.1"},
	}
	for _, tt := range tests {
		got, ok := db.Find(NewCoordinate("com.example", tt.artifact, ""))
		if !ok {
			t.Errorf("Find(com.example:%s): not found", tt.artifact)
			continue
		}
		if got.Version != tt.want {
			t.Errorf("Find(com.example:%s) = %q, want %q", tt.artifact, got.Version, tt.want)
		}
	}
}
