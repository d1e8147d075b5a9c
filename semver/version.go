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

// Package semver implements the Maven version grammar: canonicalization,
// total ordering, and version-range membership.
// https://cwiki.apache.org/confluence/display/MAVENOLD/Dependency+Mediation+and+Conflict+Resolution
package semver

import (
	"regexp"
	"strconv"
	"strings"
)

// canonicalPattern captures <major>(.<minor>(.<revision>)?)?(-<qualifier>)?(-<build>)?
var canonicalPattern = regexp.MustCompile(`^(\d+)(?:\.(\d+))?(?:\.(\d+))?(?:-([^-]+))?(?:-(\d+))?$`)

// canonical is the 5-tuple a version string decomposes into.
type canonical struct {
	major, minor, revision int
	qualifier              string
	build                  int
}

// canonicalize parses a version string into its canonical tuple. Brackets
// and surrounding whitespace are stripped first, and any string that fails
// to match the grammar canonicalizes to the zero tuple (0.0.0 with no
// qualifier or build), mirroring the permissive behavior Maven itself shows
// towards free-form version strings.
func canonicalize(v string) canonical {
	v = strings.Trim(strings.TrimSpace(v), "[]() \t")
	m := canonicalPattern.FindStringSubmatch(v)
	if m == nil {
		return canonical{}
	}
	return canonical{
		major:     atoiOr0(m[1]),
		minor:     atoiOr0(m[2]),
		revision:  atoiOr0(m[3]),
		qualifier: strings.ToLower(m[4]),
		build:     atoiOr0(m[5]),
	}
}

func atoiOr0(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// Compare returns -1, 0 or 1 according to whether a is less than, equal to,
// or greater than b, comparing lexicographically over
// (major, minor, revision, qualifier, build).
//
// The empty qualifier (a released version) sorts after any non-empty
// qualifier, so "1.0-rc" < "1.0"; non-empty qualifiers are compared
// case-insensitively, so "alpha" < "beta" < "rc" < "snapshot".
func Compare(a, b string) int {
	ca, cb := canonicalize(a), canonicalize(b)
	if ca.major != cb.major {
		return sign(ca.major - cb.major)
	}
	if ca.minor != cb.minor {
		return sign(ca.minor - cb.minor)
	}
	if ca.revision != cb.revision {
		return sign(ca.revision - cb.revision)
	}
	if c := compareQualifier(ca.qualifier, cb.qualifier); c != 0 {
		return c
	}
	return sign(ca.build - cb.build)
}

// compareQualifier orders the empty qualifier after any non-empty one, and
// otherwise compares case-insensitively (qualifiers are already lowercased
// by canonicalize).
func compareQualifier(a, b string) int {
	if a == b {
		return 0
	}
	if a == "" {
		return 1
	}
	if b == "" {
		return -1
	}
	return strings.Compare(a, b)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// Canonical returns the normalized "major.minor.revision[-qualifier][-build]"
// rendering of v, useful for logging a version next to the range it failed
// to satisfy.
func Canonical(v string) string {
	c := canonicalize(v)
	var b strings.Builder
	b.WriteString(strconv.Itoa(c.major))
	b.WriteByte('.')
	b.WriteString(strconv.Itoa(c.minor))
	b.WriteByte('.')
	b.WriteString(strconv.Itoa(c.revision))
	if c.qualifier != "" {
		b.WriteByte('-')
		b.WriteString(c.qualifier)
	}
	if c.build != 0 {
		b.WriteByte('-')
		b.WriteString(strconv.Itoa(c.build))
	}
	return b.String()
}
