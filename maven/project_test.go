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

func TestProjectMergeChildWinsOverParent(t *testing.T) {
	child := NewProject(NewCoordinate("g", "child", "1.0"))
	child.Properties.Properties = []Property{{Name: "shared", Value: "child-value"}}
	child.Dependencies.Add(node("g", "child-dep", "1.0", ""))

	parent := NewProject(NewCoordinate("g", "parent", "1.0"))
	parent.Properties.Properties = []Property{{Name: "shared", Value: "parent-value"}, {Name: "parent-only", Value: "p"}}
	parent.Dependencies.Add(node("g", "parent-dep", "1.0", ""))

	child.Merge(parent)

	m := child.Properties.Map()
	if m["shared"] != "child-value" {
		t.Errorf("shared property = %q, want child value to win", m["shared"])
	}
	if m["parent-only"] != "p" {
		t.Errorf("parent-only property missing after merge: %v", m)
	}

	names := map[string]bool{}
	for _, c := range child.Dependencies.Children {
		names[c.Coord.Name()] = true
	}
	if !names["g:child-dep"] || !names["g:parent-dep"] {
		t.Errorf("merge should keep both child's and parent's deps, got %v", names)
	}
}

func TestProjectResolveExpandsProperties(t *testing.T) {
	p := NewProject(NewCoordinate("com.example", "lib", "${revision}"))
	p.Properties.Properties = []Property{{Name: "revision", Value: "3.2.1"}}
	p.Dependencies.Add(NewDependencyNode(NewCoordinate("g", "dep", "${revision}")))

	if err := p.Resolve(AnyScope(), true, ""); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(p.Dependencies.Children) != 1 {
		t.Fatalf("expected one surviving dep, got %v", p.Dependencies.Children)
	}
	if got := p.Dependencies.Children[0].Coord.Version; got != "3.2.1" {
		t.Errorf("dependency version = %q, want property-expanded 3.2.1", got)
	}
}

func TestProjectResolveDefaultJDKProperty(t *testing.T) {
	p := NewProject(NewCoordinate("g", "a", "1.0"))
	if err := p.Resolve(AnyScope(), true, ""); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := p.Properties.Map()["jdk"]; got != DefaultJDKVersion {
		t.Errorf("jdk property = %q, want default %q", got, DefaultJDKVersion)
	}
}

func TestProjectResolveActivatesProfileByJDKAndMergesDeps(t *testing.T) {
	p := NewProject(NewCoordinate("g", "a", "1.0"))
	prof := NewProfile()
	prof.Activation.JDK = "[11,)"
	prof.Dependencies.Add(node("g", "profile-dep", "1.0", ""))
	p.Profiles = []Profile{prof}

	if err := p.Resolve(AnyScope(), true, "11.0.8"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	found := false
	for _, c := range p.Dependencies.Children {
		if c.Coord.Name() == "g:profile-dep" {
			found = true
		}
	}
	if !found {
		t.Errorf("jdk-activated profile's dependency was not merged in: %v", p.Dependencies.Children)
	}
	if len(p.Profiles) != 0 {
		t.Errorf("profile list should be cleared after resolve, got %d", len(p.Profiles))
	}
}

func TestProjectResolveActivatesProfileByProperty(t *testing.T) {
	p := NewProject(NewCoordinate("g", "a", "1.0"))
	p.Properties.Properties = []Property{{Name: "env", Value: "ci"}}
	prof := NewProfile()
	prof.Activation.PropertyName = "env"
	prof.Activation.PropertyValue = "ci"
	prof.Properties.Properties = []Property{{Name: "only-in-profile", Value: "x"}}
	p.Profiles = []Profile{prof}

	if err := p.Resolve(AnyScope(), true, ""); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := p.Properties.Map()["only-in-profile"]; got != "x" {
		t.Errorf("property-activated profile's properties were not overlaid: %v", p.Properties.Map())
	}
}

func TestProjectResolveDoesNotActivateNonMatchingProfile(t *testing.T) {
	p := NewProject(NewCoordinate("g", "a", "1.0"))
	prof := NewProfile()
	prof.Activation.PropertyName = "env"
	prof.Activation.PropertyValue = "ci"
	prof.Dependencies.Add(node("g", "profile-dep", "1.0", ""))
	p.Profiles = []Profile{prof}

	if err := p.Resolve(AnyScope(), true, ""); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for _, c := range p.Dependencies.Children {
		if c.Coord.Name() == "g:profile-dep" {
			t.Errorf("non-matching profile's dependency should not be merged in")
		}
	}
}
