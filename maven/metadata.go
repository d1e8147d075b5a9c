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

// Metadata is the decoded form of a maven-metadata.xml document: just
// enough of https://maven.apache.org/ref/3.9.3/maven-repository-metadata/repository-metadata.html
// to resolve a bare coordinate's version (spec §4.7 resolveCoord).
type Metadata struct {
	GroupID    String     `xml:"groupId"`
	ArtifactID String     `xml:"artifactId"`
	Versioning Versioning `xml:"versioning"`
}

// Versioning is the <versioning> block of a maven-metadata.xml document.
type Versioning struct {
	Latest   String   `xml:"latest"`
	Release  String   `xml:"release"`
	Versions []String `xml:"versions>version"`
}

// ParseMetadata decodes a maven-metadata.xml document.
func ParseMetadata(data []byte) (*Metadata, error) {
	var m Metadata
	if err := xml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("maven: parse metadata: %w", err)
	}
	return &m, nil
}
