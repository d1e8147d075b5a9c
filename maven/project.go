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

// DefaultJDKVersion is the JDK property every Project's property map is
// pre-seeded with, absent an explicit override at resolve time.
const DefaultJDKVersion = "1.9"

// Project is a single POM's model: its own coordinate, its (possibly
// empty) parent coordinate, one dependency tree, one dependency-management
// tree, a property map and a list of profiles not yet applied.
type Project struct {
	Coordinate           Coordinate
	Parent               Coordinate
	Dependencies         *DependencyNode
	DependencyManagement *DependencyNode
	Properties           Properties
	Profiles             []Profile
}

// NewProject returns a Project rooted at coord, with empty dependency
// trees.
func NewProject(coord Coordinate) *Project {
	return &Project{
		Coordinate:           coord,
		Dependencies:         NewDependencyNode(coord),
		DependencyManagement: NewDependencyNode(coord),
	}
}

// setProperty overwrites every entry of the named property if present, or
// appends it.
func (p *Project) setProperty(name, value string) {
	found := false
	for i, prop := range p.Properties.Properties {
		if prop.Name == name {
			p.Properties.Properties[i].Value = value
			found = true
		}
	}
	if found {
		return
	}
	p.Properties.Properties = append(p.Properties.Properties, Property{Name: name, Value: value})
}

// Clone returns a deep copy of p, independent of any shared state.
func (p *Project) Clone() *Project {
	clone := &Project{
		Coordinate:           p.Coordinate,
		Parent:               p.Parent,
		Dependencies:         p.Dependencies.Clone(),
		DependencyManagement: p.DependencyManagement.Clone(),
		Properties:           Properties{Properties: append([]Property(nil), p.Properties.Properties...)},
		Profiles:             append([]Profile(nil), p.Profiles...),
	}
	for i, prof := range p.Profiles {
		clone.Profiles[i] = Profile{
			ID:                   prof.ID,
			Activation:           prof.Activation,
			Properties:           Properties{Properties: append([]Property(nil), prof.Properties.Properties...)},
			DependencyManagement: prof.DependencyManagement.Clone(),
			Dependencies:         prof.Dependencies.Clone(),
		}
	}
	return clone
}

// Merge folds parent into p as a parent-chain ancestor: parent's deps and
// dependency-management entries become additional children of p's own
// trees (deep-copied so later mutation of parent never leaks into p),
// parent's properties fill in any name p doesn't already define, and
// parent's profiles extend p's own profile list. Because p's own state is
// always layered on top, a child POM's declarations win over an ancestor's
// on every conflict.
func (p *Project) Merge(parent *Project) {
	for _, child := range parent.Dependencies.Children {
		p.Dependencies.Add(child.Clone())
	}
	for _, child := range parent.DependencyManagement.Children {
		p.DependencyManagement.Add(child.Clone())
	}
	p.Properties.merge(parent.Properties)
	p.Profiles = append(p.Profiles, parent.Profiles...)
}

// mergeProfile applies an activated profile: its deps/depsMgmt are appended
// as additional children (deep-copied), and its properties overlay the
// project's own, the profile's value winning on every name it defines.
func (p *Project) mergeProfile(prof Profile) {
	for _, child := range prof.Dependencies.Children {
		p.Dependencies.Add(child.Clone())
	}
	for _, child := range prof.DependencyManagement.Children {
		p.DependencyManagement.Add(child.Clone())
	}
	for _, prop := range prof.Properties.Properties {
		p.setProperty(prop.Name, prop.Value)
	}
}

// expand injects the standard project.* properties, then substitutes every
// "${k}" reference throughout the property map and both dependency trees.
func (p *Project) expand() {
	p.setProperty("project.groupId", p.Coordinate.Group)
	p.setProperty("project.artifactId", p.Coordinate.Artifact)
	p.setProperty("project.version", p.Coordinate.Version)

	props := p.Properties.Map()
	for i, prop := range p.Properties.Properties {
		expanded, _ := expandProperties(prop.Value, props)
		p.Properties.Properties[i].Value = expanded
	}

	props = p.Properties.Map()
	p.Dependencies.Expand(props)
	p.DependencyManagement.Expand(props)
}

// Prepare runs every per-project resolution step short of the dependency
// tree's own three-pass resolve: seed the jdk property, activate profiles
// (merging their payload and clearing the profile list), expand properties
// throughout, and apply dependency-management overrides. jdkVersion may be
// "" to keep DefaultJDKVersion.
//
// Repository.FetchResolvedTree's recursive walk calls this directly (spec §4.7 step 3)
// rather than Resolve, because its dependency tree at that point is only
// one level deep (this POM's direct dependencies, not yet fetched); running
// the three-pass resolve this early would consume each dependency node's
// own exclusion list before the repository has had a chance to read it for
// the recursive fetch of that dependency's own subtree. Resolve (called
// again once children are spliced in) performs the tree resolve proper.
func (p *Project) Prepare(jdkVersion string) {
	jdk := DefaultJDKVersion
	if jdkVersion != "" {
		jdk = jdkVersion
	}
	p.setProperty("jdk", jdk)

	props := p.Properties.Map()
	var active []Profile
	for _, prof := range p.Profiles {
		prof.Activation.expand(props)
		if prof.Activation.Activated(props) {
			active = append(active, prof)
		}
	}
	for _, prof := range active {
		p.mergeProfile(prof)
	}
	p.Profiles = nil

	p.expand()

	p.Dependencies.UpdateVersionsAndScope(p.DependencyManagement)
}

// Resolve runs the full per-project resolution pipeline, destructively:
// Prepare, then the dependency tree's three-pass resolve.
func (p *Project) Resolve(scopes ScopeFilter, skipOptional bool, jdkVersion string) error {
	p.Prepare(jdkVersion)
	return p.Dependencies.Resolve(scopes, skipOptional)
}
