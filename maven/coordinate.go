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
	"errors"
	"fmt"
	"strings"

	"github.com/pausan/go-maven/semver"
)

// Scope values recognized by the scope-conflict table. ScopeDefault is
// never stored as a resolved scope; Resolve canonicalizes it to
// ScopeCompile.
const (
	ScopeDefault   = "default"
	ScopeCompile   = "compile"
	ScopeProvided  = "provided"
	ScopeRuntime   = "runtime"
	ScopeSystem    = "system"
	ScopeTest      = "test"
	defaultType    = "jar"
)

// ErrUnresolvableConflict is returned by ResolveConflict when two
// coordinates of the same name have versions that neither satisfies as a
// range of the other.
var ErrUnresolvableConflict = errors.New("maven: could not resolve version conflict")

// Coordinate identifies a Maven artifact: group, artifact, version, type and
// scope. The zero value is not a valid Coordinate; use NewCoordinate or one
// of the Parse* constructors.
type Coordinate struct {
	Group    string
	Artifact string
	Version  string
	Type     string
	Scope    string
}

// NewCoordinate returns a Coordinate with the default type and scope filled
// in.
func NewCoordinate(group, artifact, version string) Coordinate {
	return Coordinate{Group: group, Artifact: artifact, Version: version, Type: defaultType, Scope: ScopeDefault}
}

// ParseCoordinate builds a Coordinate from its colon-separated string form.
// A lone segment duplicates into both group and artifact; five segments
// drop the third (type) field, keeping it only structurally elsewhere.
//
//	g:a              -> group=g artifact=a
//	g:a:v            -> + version=v
//	g:a:t:v          -> type dropped unless len==5, so this is group=g artifact=a version=t scope=v (non-canonical; prefer the 5-field form below)
//	g:a:t:v:s        -> group=g artifact=a version=v scope=s (type field discarded)
func ParseCoordinate(s string) Coordinate {
	fields := strings.Split(s, ":")
	if len(fields) == 1 {
		fields = append(fields, fields[0])
	}
	if len(fields) == 5 {
		fields = append(fields[:2], fields[3:]...)
	}

	c := Coordinate{Type: defaultType, Scope: ScopeDefault}
	c.Group = fields[0]
	c.Artifact = fields[1]
	if len(fields) > 2 {
		c.Version = fields[2]
	}
	if len(fields) > 3 {
		c.Scope = fields[3]
	}
	return c
}

// CoordinateFromMap builds a Coordinate from the recognized keys of a
// decoded POM fragment: groupId, artifactId, version, scope.
func CoordinateFromMap(m map[string]string) Coordinate {
	c := Coordinate{Type: defaultType, Scope: ScopeDefault}
	c.Group = m["groupId"]
	c.Artifact = m["artifactId"]
	c.Version = m["version"]
	if scope, ok := m["scope"]; ok {
		c.Scope = scope
	}
	return c
}

// Name returns "group:artifact".
func (c Coordinate) Name() string {
	return c.Group + ":" + c.Artifact
}

// ID returns "group:artifact:version".
func (c Coordinate) ID() string {
	return c.Group + ":" + c.Artifact + ":" + c.Version
}

// Full returns "group:artifact:type:version:scope".
func (c Coordinate) Full() string {
	typ := c.Type
	if typ == "" {
		typ = defaultType
	}
	return fmt.Sprintf("%s:%s:%s:%s:%s", c.Group, c.Artifact, typ, c.Version, c.Scope)
}

func (c Coordinate) String() string {
	return c.Full()
}

// Empty reports whether the coordinate is missing a group or artifact.
func (c Coordinate) Empty() bool {
	return c.Group == "" || c.Artifact == ""
}

// Expand replaces every "${k}" occurrence in group, artifact and version
// with properties[k]. Unbound references are left literal.
func (c *Coordinate) Expand(properties map[string]string) {
	c.Group, _ = expandProperties(c.Group, properties)
	c.Artifact, _ = expandProperties(c.Artifact, properties)
	c.Version, _ = expandProperties(c.Version, properties)
}

// ResolveScope canonicalizes the default scope to compile, leaving any
// other scope untouched.
func ResolveScope(scope string) string {
	if scope == ScopeDefault {
		return ScopeCompile
	}
	return scope
}

// Resolve canonicalizes the coordinate's own scope in place.
func (c *Coordinate) Resolve() {
	c.Scope = ResolveScope(c.Scope)
}

// reducedID is the id-form with a trailing empty version field stripped,
// i.e. it degrades to Name() when Version is empty.
func (c Coordinate) reducedID() string {
	if c.Version == "" {
		return c.Name()
	}
	return c.ID()
}

// IsContained reports whether c matches the pattern described by other. A
// coordinate with only group:artifact (empty version) matches any version
// of the same name; a fully-qualified coordinate only matches the same id.
func (c Coordinate) IsContained(other Coordinate) bool {
	if c.reducedID() == other.reducedID() {
		return true
	}
	if c.Version == "" && c.Name() == other.Name() {
		return true
	}
	if other.Version == "" && other.Name() == c.Name() {
		return true
	}
	return false
}

// scopeConflictTable implements the pairwise scope-resolution rule from
// https://cwiki.apache.org/confluence/display/MAVENOLD/Dependency+Mediation+and+Conflict+Resolution,
// keyed by the pair of already-canonicalized scopes.
var scopeConflictTable = map[string]map[string]string{
	ScopeCompile: {
		ScopeCompile:  ScopeCompile,
		ScopeProvided: ScopeCompile,
		ScopeRuntime:  ScopeCompile,
		ScopeSystem:   ScopeCompile,
		ScopeTest:     ScopeCompile,
	},
	ScopeProvided: {
		ScopeCompile:  ScopeCompile,
		ScopeProvided: ScopeProvided,
		ScopeRuntime:  ScopeRuntime,
		ScopeSystem:   ScopeProvided,
		ScopeTest:     ScopeProvided,
	},
	ScopeRuntime: {
		ScopeCompile:  ScopeCompile,
		ScopeProvided: ScopeRuntime,
		ScopeRuntime:  ScopeRuntime,
		ScopeSystem:   ScopeRuntime,
		ScopeTest:     ScopeRuntime,
	},
	ScopeSystem: {
		ScopeCompile:  ScopeCompile,
		ScopeProvided: ScopeSystem,
		ScopeRuntime:  ScopeSystem,
		ScopeSystem:   ScopeSystem,
		ScopeTest:     ScopeTest,
	},
	ScopeTest: {
		ScopeCompile:  ScopeCompile,
		ScopeProvided: ScopeTest,
		ScopeRuntime:  ScopeRuntime,
		ScopeSystem:   ScopeTest,
		ScopeTest:     ScopeTest,
	},
}

// ResolveScopeConflict returns the winning scope of the pair, after
// canonicalizing both inputs.
func ResolveScopeConflict(scope1, scope2 string) string {
	return scopeConflictTable[ResolveScope(scope1)][ResolveScope(scope2)]
}

// ResolveConflict picks the coordinate that should survive between two
// coordinates sharing the same name. Ties on version go to whichever
// carries the winning scope (c1 if both carry it); otherwise the higher
// version wins provided it satisfies the lower version as a range, falling
// back to the lower version if it satisfies the higher. If neither
// satisfies the other, ErrUnresolvableConflict is returned.
func ResolveConflict(c1, c2 Coordinate) (Coordinate, error) {
	newScope := ResolveScopeConflict(c1.Scope, c2.Scope)
	cmp := semver.Compare(c1.Version, c2.Version)

	if cmp == 0 {
		r1, r2 := ResolveScope(c1.Scope), ResolveScope(c2.Scope)
		if r1 != r2 {
			if r1 == newScope {
				return c1, nil
			}
			return c2, nil
		}
		return c1, nil
	}

	higher, lower := c1, c2
	if cmp < 0 {
		higher, lower = c2, c1
	}
	if semver.Satisfies(higher.Version, lower.Version) {
		return higher, nil
	}
	if semver.Satisfies(lower.Version, higher.Version) {
		return lower, nil
	}

	return Coordinate{}, fmt.Errorf("%w: %q vs %q", ErrUnresolvableConflict, c1.ID(), c2.ID())
}
