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

import "testing"

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		in   string
		want Coordinate
	}{
		{"g:a", Coordinate{Group: "g", Artifact: "a", Type: defaultType, Scope: ScopeDefault}},
		{"g:a:1.0", Coordinate{Group: "g", Artifact: "a", Version: "1.0", Type: defaultType, Scope: ScopeDefault}},
		{"g:a:jar:1.0:test", Coordinate{Group: "g", Artifact: "a", Version: "1.0", Type: defaultType, Scope: "test"}},
	}
	for _, tt := range tests {
		if got := ParseCoordinate(tt.in); got != tt.want {
			t.Errorf("ParseCoordinate(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestCoordinateIsContainedEmptyField(t *testing.T) {
	pattern := NewCoordinate("g", "a", "")
	tests := []struct {
		name    string
		c       Coordinate
		want    bool
	}{
		{"same name any version", NewCoordinate("g", "a", "1.0"), true},
		{"same name no version", NewCoordinate("g", "a", ""), true},
		{"different artifact", NewCoordinate("g", "b", "1.0"), false},
		{"different group", NewCoordinate("h", "a", "1.0"), false},
	}
	for _, tt := range tests {
		if got := pattern.IsContained(tt.c); got != tt.want {
			t.Errorf("%s: MakeCoord(%q).IsContained(%v) = %v, want %v", tt.name, pattern.Name(), tt.c, got, tt.want)
		}
	}
}

func TestCoordinateIsContainedFullyQualified(t *testing.T) {
	a := NewCoordinate("A", "B", "1.2")
	if a.IsContained(NewCoordinate("A", "B", "1.0")) {
		t.Errorf("fully qualified coordinates with different versions should not be contained")
	}
	if !NewCoordinate("A", "B", "1.0").IsContained(NewCoordinate("A", "B", "")) {
		t.Errorf("a versioned coordinate should be contained by its own bare group:artifact pattern")
	}
}

func TestResolveScopeConflict(t *testing.T) {
	tests := []struct {
		a, b, want string
	}{
		{ScopeCompile, ScopeTest, ScopeCompile},
		{ScopeSystem, ScopeTest, ScopeTest},
		{ScopeTest, ScopeSystem, ScopeTest},
		{ScopeRuntime, ScopeProvided, ScopeRuntime},
	}
	for _, tt := range tests {
		if got := ResolveScopeConflict(tt.a, tt.b); got != tt.want {
			t.Errorf("ResolveScopeConflict(%q, %q) = %q, want %q", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestResolveConflictHigherSatisfiesLower(t *testing.T) {
	c1 := NewCoordinate("g", "a", "2.0")
	c2 := NewCoordinate("g", "a", "1.0")
	got, err := ResolveConflict(c1, c2)
	if err != nil {
		t.Fatalf("ResolveConflict: %v", err)
	}
	if got.Version != "2.0" {
		t.Errorf("ResolveConflict(%v, %v) = %v, want version 2.0", c1, c2, got)
	}
}

func TestResolveConflictUnresolvable(t *testing.T) {
	c1 := NewCoordinate("g", "a", "[2.0]")
	c2 := NewCoordinate("g", "a", "[1.0]")
	if _, err := ResolveConflict(c1, c2); err == nil {
		t.Errorf("ResolveConflict(%v, %v) = nil error, want ErrUnresolvableConflict", c1, c2)
	}
}
