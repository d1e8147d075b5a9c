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

// String is a POM text field whose surrounding whitespace is trimmed on
// decode.
type String string

// UnmarshalXML trims whitespace when unmarshalling a string.
func (s *String) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var str string
	if err := d.DecodeElement(&str, &start); err != nil {
		return err
	}
	*s = String(strings.TrimSpace(str))
	return nil
}

func (s *String) merge(parent String) {
	if *s == "" {
		*s = parent
	}
}

// expand replaces every bound "${k}" in s, returning whether every
// reference was resolved.
func (s *String) expand(properties map[string]string) bool {
	result, ok := expandProperties(string(*s), properties)
	*s = String(result)
	return ok
}

// FalsyBool is a POM boolean field ("activeByDefault", and similar) that
// defaults to false when absent or unparsable, and may itself still carry
// an unresolved "${...}" placeholder until property expansion runs.
type FalsyBool string

// UnmarshalXML accepts "true", "false" (case-insensitively) or a property
// placeholder; anything else is treated as false rather than as a parse
// error, matching Maven's lenient handling of malformed activation flags.
func (fb *FalsyBool) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var str string
	if err := d.DecodeElement(&str, &start); err != nil {
		return err
	}
	str = strings.TrimSpace(str)
	if strings.Contains(str, "${") {
		*fb = FalsyBool(str)
		return nil
	}
	*fb = FalsyBool(strings.ToLower(str))
	return nil
}

// Boolean reports the field's truth value. An unresolved placeholder or
// anything other than "true" (in any letter case) is false.
func (fb FalsyBool) Boolean() bool {
	return strings.EqualFold(string(fb), "true")
}

func (fb *FalsyBool) expand(properties map[string]string) bool {
	result, ok := expandProperties(string(*fb), properties)
	*fb = FalsyBool(result)
	return ok
}
