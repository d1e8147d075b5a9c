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
	"strings"
)

// Properties hold the <properties> pairs defined in a pom.xml, in
// declaration order.
type Properties struct {
	Properties []Property
}

// Property is a single name/value pair from a <properties> block.
type Property struct {
	Name  string
	Value string
}

// UnmarshalXML decodes a <properties> block, where every child element
// name is itself the property name:
//
//	<properties>
//	  <foo.version>1.2</foo.version>
//	</properties>
func (p *Properties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		t, err := d.Token()
		if err != nil {
			return err
		}
		switch el := t.(type) {
		case xml.StartElement:
			var s string
			if err := d.DecodeElement(&s, &el); err != nil {
				return err
			}
			p.Properties = append(p.Properties, Property{
				Name:  el.Name.Local,
				Value: strings.TrimSpace(s),
			})
		case xml.EndElement:
			return nil
		}
	}
}

// merge prepends parent's properties, so that p's own entries (added
// later, in declaration order) continue to take precedence on lookup via
// Map.
func (p *Properties) merge(parent Properties) {
	p.Properties = append(append([]Property(nil), parent.Properties...), p.Properties...)
}

// Map flattens Properties into a name->value lookup table, later entries
// overwriting earlier ones with the same name.
func (p Properties) Map() map[string]string {
	m := make(map[string]string, len(p.Properties))
	for _, prop := range p.Properties {
		m[prop.Name] = prop.Value
	}
	return m
}

// expandProperties replaces every "${k}" occurrence in s with
// properties[k], recursing into the substituted value so that a property
// whose own value references another property is fully resolved. It
// reports false, and leaves any unresolved reference as the literal
// "${k}" text, when a key is unbound or a cycle is detected.
func expandProperties(s string, properties map[string]string) (string, bool) {
	return expandWithTrail(s, properties, make(map[string]bool))
}

// expandWithTrail does the actual substitution; trail records the keys
// currently being resolved on this call stack, so a cycle (a property
// that transitively references itself) is detected rather than looping
// forever.
func expandWithTrail(s string, properties map[string]string, trail map[string]bool) (string, bool) {
	resolved := true
	var dst strings.Builder
	for {
		i := strings.Index(s, "${")
		if i < 0 {
			break
		}
		j := strings.Index(s[i:], "}")
		if j < 0 {
			break
		}
		dst.WriteString(s[:i])
		s = s[i:]
		key := s[2:j]

		if trail[key] {
			resolved = false
			break
		}
		trail[key] = true
		if value, ok := properties[key]; ok {
			expanded, ok := expandWithTrail(value, properties, trail)
			if !ok {
				resolved = false
			}
			dst.WriteString(expanded)
		} else {
			dst.WriteString(s[:j+1])
			resolved = false
		}
		trail[key] = false

		s = s[j+1:]
	}
	dst.WriteString(s)
	return dst.String(), resolved
}
