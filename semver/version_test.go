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

package semver

import "testing"

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.3.2", "1.4.0", -1},
		{"1.3", "1.2]", 1},
		{"1.0", "1.0", 0},
		{"1.0-SNAPSHOT", "1.0", -1},
		{"1.0-alpha", "1.0-beta", -1},
		{"1.0-beta", "1.0-rc", -1},
		{"1.0-rc", "1.0-snapshot", -1},
		{"1.0.0", "1.0", 0},
		{"2.0.0", "1.9.9", 1},
	}
	for _, tt := range tests {
		if got := Compare(tt.a, tt.b); got != tt.want {
			t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCompareAntisymmetric(t *testing.T) {
	versions := []string{"1.0", "1.0-SNAPSHOT", "2.3.4", "1.0-alpha", "0.9.9-rc-2"}
	for _, a := range versions {
		for _, b := range versions {
			if got, want := Compare(a, b), -Compare(b, a); got != want {
				t.Errorf("Compare(%q,%q) = %d, want %d (antisymmetric to Compare(%q,%q))", a, b, got, want, b, a)
			}
		}
	}
}

func TestSatisfies(t *testing.T) {
	tests := []struct {
		version, constraint string
		want                bool
	}{
		{"1.3", "(,1.0],[1.2,)", true},
		{"1.1", "(,1.0),(1.2,)", false},
		{"1.0", "1.0", true},
		{"0.9", "1.0", false},
		{"1.0", "[1.0]", true},
		{"1.1", "[1.0]", false},
		{"1.5", "[1.0,2.0]", true},
		{"2.0", "[1.0,2.0)", false},
		{"2.0", "[1.0,2.0]", true},
	}
	for _, tt := range tests {
		if got := Satisfies(tt.version, tt.constraint); got != tt.want {
			t.Errorf("Satisfies(%q, %q) = %v, want %v", tt.version, tt.constraint, got, tt.want)
		}
	}
}

func TestRangeMembershipMonotonicity(t *testing.T) {
	r := Range{Lower: "1.0", LowerInclusive: true, Upper: "2.0", UpperInclusive: true}
	versions := []string{"1.0", "1.2", "1.5", "1.8", "2.0"}
	for _, v := range versions {
		if !r.Contains(v) {
			t.Errorf("expected %q to be contained in %v", v, r)
		}
	}
}
