// Copyright (c) 2026 John Earle
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

// Package nameparse extracts name tokens from raw header fields and
// normalises them to canonical lowercase keys.
//
// A field is scanned left to right against an alternation of three
// patterns, tried in order: a structured "Lastname, Firstname <address>"
// entry, a bare (possibly quoted) email address, and an unadorned name
// anchored to the entire field. Text the alternation cannot match is
// skipped without error.
package nameparse

import (
	"fmt"
	"regexp"
	"strings"
)

// MatchKind identifies which of the three patterns produced a match.
type MatchKind int

const (
	KindInvalid MatchKind = iota
	KindStructured
	KindEmail
	KindBare
)

// NameMatch is a single token extracted from a header field.
type NameMatch struct {
	Kind MatchKind
	Text string // raw matched text, untrimmed
}

// namePattern is the three-shape alternation. Alternative order matters:
// the structured pattern consumes the embedded address so the email
// pattern never fires inside an angle-bracketed entry, and the bare-name
// pattern only applies when the whole field is a plain name.
var namePattern = regexp.MustCompile(
	`([A-Za-z'\-]+[A-Za-z'\-\., ]*<[^>]*>)` + // Lastname, Firstname <addr>
		`|('?[\w.\-]+@[\w.\-]+'?)` + // bare address, optionally quoted
		`|(^[A-Za-z'\-\., ]+$)`, // whole-field display name
)

// Matches returns every name token found in the field, in order of
// appearance. Separator text between tokens is not reported.
func Matches(field string) []NameMatch {
	var out []NameMatch
	for _, m := range namePattern.FindAllStringSubmatch(field, -1) {
		switch {
		case m[1] != "":
			out = append(out, NameMatch{Kind: KindStructured, Text: m[1]})
		case m[2] != "":
			out = append(out, NameMatch{Kind: KindEmail, Text: m[2]})
		case m[3] != "":
			out = append(out, NameMatch{Kind: KindBare, Text: m[3]})
		default:
			// A match with no populated group means the grammar itself is
			// broken; surface it so Canonical fails loudly.
			out = append(out, NameMatch{Kind: KindInvalid, Text: m[0]})
		}
	}
	return out
}

// First returns the first name token in the field, or false when the
// field contains none. Sender fields normally hold exactly one token.
func First(field string) (NameMatch, bool) {
	loc := namePattern.FindStringSubmatch(field)
	if loc == nil {
		return NameMatch{}, false
	}
	switch {
	case loc[1] != "":
		return NameMatch{Kind: KindStructured, Text: loc[1]}, true
	case loc[2] != "":
		return NameMatch{Kind: KindEmail, Text: loc[2]}, true
	case loc[3] != "":
		return NameMatch{Kind: KindBare, Text: loc[3]}, true
	}
	return NameMatch{Kind: KindInvalid, Text: loc[0]}, true
}

// Canonical reduces a match to its canonical lowercase key:
//
//   - structured entries drop the trailing <...> address, keep the comma,
//     and are lowercased ("Smith, John <j@x.com>" -> "smith, john")
//   - email addresses keep their case, surrounding quotes stripped
//   - bare names are trimmed and lowercased
//
// An invalid match is a grammar defect, not a data problem, and returns
// an error the caller must propagate.
func Canonical(m NameMatch) (string, error) {
	switch m.Kind {
	case KindStructured:
		display := m.Text
		if i := strings.Index(display, "<"); i >= 0 {
			display = display[:i]
		}
		return strings.ToLower(strings.TrimSpace(display)), nil
	case KindEmail:
		return strings.Trim(m.Text, `'"`), nil
	case KindBare:
		return strings.ToLower(strings.TrimSpace(m.Text)), nil
	}
	return "", fmt.Errorf("name match %q captured no pattern group", m.Text)
}
