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
	"encoding/xml"
	"fmt"
)

// The pomXML family mirrors the subset of the Maven POM schema this package
// understands. Using path tags like "dependencies>dependency" with a slice
// field lets encoding/xml absorb the single-element-vs-list ambiguity a
// generic map-based decoder would otherwise have to normalize by hand: one
// <dependency> and a hundred decode to the same []dependencyXML.
type pomXML struct {
	XMLName              xml.Name                 `xml:"project"`
	GroupID              String                    `xml:"groupId"`
	ArtifactID           String                    `xml:"artifactId"`
	Version              String                    `xml:"version"`
	Parent               *coordXML                 `xml:"parent"`
	Dependencies         []dependencyXML           `xml:"dependencies>dependency"`
	DependencyManagement *dependencyManagementXML  `xml:"dependencyManagement"`
	Properties           Properties                `xml:"properties"`
	Profiles             []profileXML              `xml:"profiles>profile"`
}

type coordXML struct {
	GroupID    String `xml:"groupId"`
	ArtifactID String `xml:"artifactId"`
	Version    String `xml:"version"`
}

type dependencyXML struct {
	GroupID    String         `xml:"groupId"`
	ArtifactID String         `xml:"artifactId"`
	Version    String         `xml:"version"`
	Type       String         `xml:"type"`
	Scope      String         `xml:"scope"`
	Optional   FalsyBool      `xml:"optional"`
	Exclusions []exclusionXML `xml:"exclusions>exclusion"`
}

type exclusionXML struct {
	GroupID    String `xml:"groupId"`
	ArtifactID String `xml:"artifactId"`
}

type dependencyManagementXML struct {
	Dependencies []dependencyXML `xml:"dependencies>dependency"`
}

type activationPropertyXML struct {
	Name  String `xml:"name"`
	Value String `xml:"value"`
}

type activationXML struct {
	ActiveByDefault FalsyBool              `xml:"activeByDefault"`
	JDK             String                 `xml:"jdk"`
	Property        *activationPropertyXML `xml:"property"`
}

type profileXML struct {
	ID                   String                   `xml:"id"`
	Activation           activationXML            `xml:"activation"`
	Properties           Properties               `xml:"properties"`
	DependencyManagement *dependencyManagementXML `xml:"dependencyManagement"`
	Dependencies         []dependencyXML          `xml:"dependencies>dependency"`
}

// Parse decodes a pom.xml document into a Project. The resulting Project is
// unresolved: no parent merge, profile activation, property expansion or
// dependency-management override has happened yet.
func Parse(data []byte) (*Project, error) {
	var x pomXML
	if err := xml.Unmarshal(data, &x); err != nil {
		return nil, fmt.Errorf("maven: parse pom: %w", err)
	}
	return projectFromXML(x), nil
}

func projectFromXML(x pomXML) *Project {
	var parent Coordinate
	if x.Parent != nil {
		parent = Coordinate{Group: string(x.Parent.GroupID), Artifact: string(x.Parent.ArtifactID), Version: string(x.Parent.Version), Type: defaultType, Scope: ScopeDefault}
		x.GroupID.merge(x.Parent.GroupID)
		x.Version.merge(x.Parent.Version)
	}
	coord := Coordinate{Group: string(x.GroupID), Artifact: string(x.ArtifactID), Version: string(x.Version), Type: defaultType, Scope: ScopeDefault}

	p := NewProject(coord)
	p.Parent = parent
	p.Properties = x.Properties

	for _, dep := range x.Dependencies {
		p.Dependencies.Add(dependencyNodeFromXML(dep))
	}
	if x.DependencyManagement != nil {
		for _, dep := range x.DependencyManagement.Dependencies {
			p.DependencyManagement.Add(dependencyNodeFromXML(dep))
		}
	}
	for _, prof := range x.Profiles {
		p.Profiles = append(p.Profiles, profileFromXML(prof))
	}
	return p
}

func dependencyNodeFromXML(dep dependencyXML) *DependencyNode {
	c := Coordinate{Group: string(dep.GroupID), Artifact: string(dep.ArtifactID), Version: string(dep.Version), Type: defaultType, Scope: ScopeDefault}
	if dep.Type != "" {
		c.Type = string(dep.Type)
	}
	if dep.Scope != "" {
		c.Scope = string(dep.Scope)
	}
	n := NewDependencyNode(c)
	n.Optional = dep.Optional.Boolean()
	for _, excl := range dep.Exclusions {
		n.AddCoordToExclude(Coordinate{Group: string(excl.GroupID), Artifact: string(excl.ArtifactID)})
	}
	return n
}

func profileFromXML(x profileXML) Profile {
	prof := NewProfile()
	prof.ID = x.ID
	prof.Activation.ActiveByDefault = x.Activation.ActiveByDefault
	prof.Activation.JDK = x.Activation.JDK
	if x.Activation.Property != nil {
		prof.Activation.PropertyName = x.Activation.Property.Name
		prof.Activation.PropertyValue = x.Activation.Property.Value
	}
	prof.Properties = x.Properties
	for _, dep := range x.Dependencies {
		prof.Dependencies.Add(dependencyNodeFromXML(dep))
	}
	if x.DependencyManagement != nil {
		for _, dep := range x.DependencyManagement.Dependencies {
			prof.DependencyManagement.Add(dependencyNodeFromXML(dep))
		}
	}
	return prof
}
