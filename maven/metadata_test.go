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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseMetadata(t *testing.T) {
	input := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<metadata>
  <groupId>com.example</groupId>
  <artifactId>basic</artifactId>
  <versioning>
    <latest>3.0.0</latest>
    <release>3.0.0</release>
    <versions>
      <version>1.0.0</version>
      <version>2.0.0</version>
      <version>3.0.0</version>
    </versions>
  </versioning>
</metadata>`)

	want := &Metadata{
		GroupID:    "com.example",
		ArtifactID: "basic",
		Versioning: Versioning{
			Latest:   "3.0.0",
			Release:  "3.0.0",
			Versions: []String{"1.0.0", "2.0.0", "3.0.0"},
		},
	}
	got, err := ParseMetadata(input)
	if err != nil {
		t.Fatalf("ParseMetadata: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseMetadata mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMetadataMalformed(t *testing.T) {
	if _, err := ParseMetadata([]byte("not xml")); err == nil {
		t.Errorf("ParseMetadata with malformed input should return an error")
	}
}
