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

// DependencyNode is one node of a dependency tree: a coordinate, whether it
// was declared optional, its children in declaration order, and the
// exclusion patterns declared directly on it. A tree is rooted at a
// synthetic node carrying the owning project's own coordinate.
type DependencyNode struct {
	Coord      Coordinate
	Optional   bool
	Children   []*DependencyNode
	Exclusions []Coordinate
}

// NewDependencyNode returns a node for coord with no children or exclusions.
func NewDependencyNode(coord Coordinate) *DependencyNode {
	return &DependencyNode{Coord: coord}
}

// Add appends child to n's children.
func (n *DependencyNode) Add(child *DependencyNode) {
	n.Children = append(n.Children, child)
}

// AddCoordToExclude records an exclusion pattern on n.
func (n *DependencyNode) AddCoordToExclude(c Coordinate) {
	n.Exclusions = append(n.Exclusions, c)
}

// Find does a depth-first search for the node whose coord id matches
// coord's id exactly.
func (n *DependencyNode) Find(coord Coordinate) *DependencyNode {
	if n.Coord.ID() == coord.ID() {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(coord); found != nil {
			return found
		}
	}
	return nil
}

// findByName does a depth-first search for the first node whose coord name
// matches name.
func (n *DependencyNode) findByName(name string) *DependencyNode {
	if n.Coord.Name() == name {
		return n
	}
	for _, child := range n.Children {
		if found := child.findByName(name); found != nil {
			return found
		}
	}
	return nil
}

// Expand recursively substitutes "${k}" property references in every coord
// in the tree, including exclusion patterns.
func (n *DependencyNode) Expand(properties map[string]string) {
	n.Coord.Expand(properties)
	for i := range n.Exclusions {
		n.Exclusions[i].Expand(properties)
	}
	for _, child := range n.Children {
		child.Expand(properties)
	}
}

// Flatten returns a pre-order list of n's descendants (not including n
// itself). When skipOptional is true, an optional child and its whole
// subtree are omitted.
func (n *DependencyNode) Flatten(skipOptional bool) []*DependencyNode {
	var result []*DependencyNode
	var walk func(node *DependencyNode)
	walk = func(node *DependencyNode) {
		for _, child := range node.Children {
			if skipOptional && child.Optional {
				continue
			}
			result = append(result, child)
			walk(child)
		}
	}
	walk(n)
	return result
}

// Count returns the total number of nodes in the subtree rooted at n,
// including n itself, counting duplicates and optional nodes.
func (n *DependencyNode) Count() int {
	total := 1
	for _, child := range n.Children {
		total += child.Count()
	}
	return total
}

// Clone returns a deep copy of the subtree rooted at n.
func (n *DependencyNode) Clone() *DependencyNode {
	clone := &DependencyNode{
		Coord:      n.Coord,
		Optional:   n.Optional,
		Exclusions: append([]Coordinate(nil), n.Exclusions...),
	}
	for _, child := range n.Children {
		clone.Children = append(clone.Children, child.Clone())
	}
	return clone
}

// UpdateVersionsAndScope walks n's whole subtree; for every descendant
// whose name matches a node in depMgmt, it fills an empty version from the
// management entry, replaces a "default" scope with the management entry's
// scope, and appends the management entry's exclusions.
func (n *DependencyNode) UpdateVersionsAndScope(depMgmt *DependencyNode) {
	for _, child := range n.Children {
		if mgmt := depMgmt.findByName(child.Coord.Name()); mgmt != nil {
			if child.Coord.Version == "" {
				child.Coord.Version = mgmt.Coord.Version
			}
			if child.Coord.Scope == ScopeDefault {
				child.Coord.Scope = mgmt.Coord.Scope
			}
			child.Exclusions = append(child.Exclusions, mgmt.Exclusions...)
		}
		child.UpdateVersionsAndScope(depMgmt)
	}
}

// ScopeFilter restricts dependency resolution to a set of scopes. A nil
// ScopeFilter accepts every scope.
type ScopeFilter map[string]bool

// AnyScope is the filter that accepts every scope.
func AnyScope() ScopeFilter { return nil }

// NewScopeFilter builds a filter from one or more scopes, canonicalizing
// each ("default" -> "compile").
func NewScopeFilter(scopes ...string) ScopeFilter {
	f := make(ScopeFilter, len(scopes))
	for _, s := range scopes {
		f[ResolveScope(s)] = true
	}
	return f
}

// Allows reports whether scope (already canonicalized) passes the filter.
func (f ScopeFilter) Allows(scope string) bool {
	if f == nil {
		return true
	}
	return f[scope]
}

// Resolve runs the three-pass resolution pipeline on the tree rooted at n,
// destructively. See removeOptionalAndExclusions, removeNonWinners and
// removeDuplicates for the pass breakdown.
func (n *DependencyNode) Resolve(scopes ScopeFilter, skipOptional bool) error {
	if err := removeOptionalAndExclusions(n, map[string]Coordinate{}, scopes, skipOptional); err != nil {
		return err
	}
	if err := removeNonWinners(n); err != nil {
		return err
	}
	removeDuplicates(n)
	return nil
}

// removeOptionalAndExclusions is pass 1: exclusion filtering, scope
// filtering, optional filtering, and same-parent sibling conflict
// resolution, depth-first.
func removeOptionalAndExclusions(n *DependencyNode, inherited map[string]Coordinate, scopes ScopeFilter, skipOptional bool) error {
	n.Coord.Resolve()

	exclusions := make(map[string]Coordinate, len(inherited)+len(n.Exclusions))
	for k, v := range inherited {
		exclusions[k] = v
	}
	for _, excl := range n.Exclusions {
		exclusions[excl.Name()] = excl
	}

	var order []string
	survivors := make(map[string]*DependencyNode)
	for _, child := range n.Children {
		child.Coord.Resolve()

		if !scopes.Allows(child.Coord.Scope) {
			continue
		}
		if skipOptional && child.Optional {
			continue
		}
		if _, excluded := exclusions[child.Coord.Name()]; excluded {
			continue
		}

		name := child.Coord.Name()
		existing, ok := survivors[name]
		if !ok {
			survivors[name] = child
			order = append(order, name)
			continue
		}

		winner, err := ResolveConflict(child.Coord, existing.Coord)
		if err != nil {
			return err
		}
		survivor := existing
		if winner == child.Coord {
			survivor = child
		}
		survivor.Coord.Scope = ResolveScopeConflict(existing.Coord.Scope, child.Coord.Scope)
		survivors[name] = survivor
	}

	newChildren := make([]*DependencyNode, 0, len(order))
	for _, name := range order {
		newChildren = append(newChildren, survivors[name])
	}
	n.Children = newChildren
	n.Exclusions = nil

	for _, child := range n.Children {
		childExclusions := make(map[string]Coordinate, len(exclusions))
		for k, v := range exclusions {
			childExclusions[k] = v
		}
		if err := removeOptionalAndExclusions(child, childExclusions, scopes, skipOptional); err != nil {
			return err
		}
	}
	return nil
}

// removeNonWinners is pass 2: flatten the whole (post-pass-1) tree, pick one
// winning full id per name via ResolveConflict, and prune every node whose
// full id isn't its name's winner.
func removeNonWinners(n *DependencyNode) error {
	winners := make(map[string]Coordinate)
	for _, node := range n.Flatten(false) {
		name := node.Coord.Name()
		cur, ok := winners[name]
		if !ok {
			winners[name] = node.Coord
			continue
		}
		winner, err := ResolveConflict(node.Coord, cur)
		if err != nil {
			return err
		}
		winners[name] = winner
	}

	var prune func(node *DependencyNode)
	prune = func(node *DependencyNode) {
		kept := node.Children[:0:0]
		for _, child := range node.Children {
			if winner, ok := winners[child.Coord.Name()]; ok && winner.Full() == child.Coord.Full() {
				kept = append(kept, child)
			}
		}
		node.Children = kept
		for _, child := range node.Children {
			prune(child)
		}
	}
	prune(n)
	return nil
}

// removeDuplicates is pass 3: depth-first de-duplication by full id, using
// one accumulator set shared across the whole traversal so that a full id
// seen on an earlier branch prunes every later occurrence.
func removeDuplicates(n *DependencyNode) {
	seen := make(map[string]bool)
	var walk func(node *DependencyNode)
	walk = func(node *DependencyNode) {
		kept := node.Children[:0:0]
		for _, child := range node.Children {
			full := child.Coord.Full()
			if seen[full] {
				continue
			}
			seen[full] = true
			kept = append(kept, child)
		}
		node.Children = kept
		for _, child := range node.Children {
			walk(child)
		}
	}
	walk(n)
}
