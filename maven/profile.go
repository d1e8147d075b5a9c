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

	"github.com/pausan/go-maven/semver"
)

// Activation is a profile's activation descriptor. Only the three
// conditions below are recognized; anything else a real pom.xml might
// carry (os, file presence) is not modeled.
type Activation struct {
	ActiveByDefault FalsyBool
	JDK             String
	PropertyName    String
	PropertyValue   String
}

// expand resolves any "${k}" property reference embedded in the
// activation descriptor itself (a pom.xml may write e.g.
// <property><value>${env.name}</value></property>) against properties,
// before Activated evaluates the descriptor.
func (a *Activation) expand(properties map[string]string) {
	a.ActiveByDefault.expand(properties)
	a.JDK.expand(properties)
	a.PropertyName.expand(properties)
	a.PropertyValue.expand(properties)
}

// Activated reports whether the profile should be applied given the
// project's current property map. A profile activates if activeByDefault
// is true, or if a jdk condition is present and the "jdk" property
// matches it (case-insensitive equality for a bare version, range
// satisfaction otherwise), or if property.name is present in the map
// (default "" when absent) with a value equal to property.value after
// trimming.
func (a Activation) Activated(properties map[string]string) bool {
	if a.ActiveByDefault.Boolean() {
		return true
	}

	if a.JDK != "" {
		if jdkProp, ok := properties["jdk"]; ok {
			cond := string(a.JDK)
			if strings.ContainsAny(cond, "[](),") {
				if semver.Satisfies(jdkProp, cond) {
					return true
				}
			} else if strings.EqualFold(strings.TrimSpace(jdkProp), strings.TrimSpace(cond)) {
				return true
			}
		}
	}

	if a.PropertyName != "" {
		if got, ok := properties[string(a.PropertyName)]; ok {
			want := strings.TrimSpace(string(a.PropertyValue))
			if strings.TrimSpace(got) == want {
				return true
			}
		}
	}

	return false
}

// Profile is a build profile: an activation descriptor plus the same
// payload a Project carries, minus its own identity (coordinate, parent).
type Profile struct {
	ID                   String
	Activation           Activation
	Properties           Properties
	DependencyManagement *DependencyNode
	Dependencies         *DependencyNode
}

// NewProfile returns a Profile with empty, non-nil dependency trees.
func NewProfile() Profile {
	return Profile{
		DependencyManagement: NewDependencyNode(Coordinate{}),
		Dependencies:         NewDependencyNode(Coordinate{}),
	}
}
