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
	"bufio"
	"io"
	"strings"
	"sync"

	logging "gopkg.in/op/go-logging.v1"
)

var log = logging.MustGetLogger("maven")

// VersionDB is an insert-ordered pinning registry of group:artifact ->
// version, as produced by a `mvn dependency:tree` dump. It is safe for
// concurrent use: the repository shares one VersionDB across parallel POM
// fetches.
type VersionDB struct {
	mu       sync.Mutex
	versions map[string]string
	order    []string
	warned   map[string]bool
}

// NewVersionDB returns an empty VersionDB.
func NewVersionDB() *VersionDB {
	return &VersionDB{
		versions: make(map[string]string),
		warned:   make(map[string]bool),
	}
}

// Register pins coord's name to its version. If the name is already
// registered with a different version, a one-time warning is logged (deduped
// by coord id) and the db's existing version wins; the caller's coord is not
// mutated by Register itself — use Find to read the pinned version back.
func (db *VersionDB) Register(coord Coordinate) {
	db.mu.Lock()
	defer db.mu.Unlock()

	name := coord.Name()
	existing, ok := db.versions[name]
	if !ok {
		db.versions[name] = coord.Version
		db.order = append(db.order, name)
		return
	}
	if existing != coord.Version && !db.warned[coord.ID()] {
		db.warned[coord.ID()] = true
		log.Warningf("version db: %s already pinned to %s, ignoring %s", name, existing, coord.Version)
	}
}

// Find returns coord with its version replaced by the db's pinned version
// for coord's name, and true, or the zero Coordinate and false if the name
// is unregistered.
func (db *VersionDB) Find(coord Coordinate) (Coordinate, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()

	v, ok := db.versions[coord.Name()]
	if !ok {
		return Coordinate{}, false
	}
	coord.Version = v
	return coord, true
}

// treePrefixCutset is the set of characters a `mvn dependency:tree` dump
// draws its ASCII tree with; ParseFile strips a leading run of them before
// parsing the remainder as a coordinate string.
const treePrefixCutset = "=|+-\\ "

// ParseFile reads a version-db text dump: comments ('#'-prefixed) and blank
// lines are skipped, and every other line has its leading tree-drawing
// prefix stripped before being parsed as a coordinate and registered.
func (db *VersionDB) ParseFile(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		stripped := strings.TrimLeft(line, treePrefixCutset)
		stripped = strings.TrimSpace(stripped)
		if stripped == "" {
			continue
		}
		db.Register(ParseCoordinate(stripped))
	}
	return scanner.Err()
}
