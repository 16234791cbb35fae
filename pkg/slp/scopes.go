// Copyright 2024 The slp-go Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package slp

import (
	"sort"
	"strings"
)

// ScopeSet is a set of scope labels. Scope comparison is case insensitive
// with ASCII folding; labels are stored folded. The empty set is a
// meaningful value ("no scopes specified"). The zero ScopeSet is the empty
// set and ready to use.
type ScopeSet struct {
	// labels is sorted and free of duplicates.
	labels []string
}

// ParseScopeSet parses a comma separated scope list. Whitespace around
// labels is trimmed and empty labels are dropped, so "" and " , " both
// yield the empty set.
func ParseScopeSet(s string) ScopeSet {
	var labels []string
	for _, label := range strings.Split(s, ",") {
		label = foldScope(strings.TrimSpace(label))
		if label != "" {
			labels = append(labels, label)
		}
	}
	return NewScopeSet(labels...)
}

// NewScopeSet builds a scope set from individual labels.
func NewScopeSet(labels ...string) ScopeSet {
	folded := make([]string, 0, len(labels))
	for _, label := range labels {
		label = foldScope(strings.TrimSpace(label))
		if label != "" {
			folded = append(folded, label)
		}
	}
	if len(folded) == 0 {
		return ScopeSet{}
	}
	sort.Strings(folded)
	deduped := folded[:0]
	for i, label := range folded {
		if i == 0 || folded[i-1] != label {
			deduped = append(deduped, label)
		}
	}
	return ScopeSet{labels: deduped}
}

// Empty reports whether the set contains no scopes.
func (s ScopeSet) Empty() bool {
	return len(s.labels) == 0
}

// Len returns the number of scopes in the set.
func (s ScopeSet) Len() int {
	return len(s.labels)
}

// Contains reports whether the set contains the given scope.
func (s ScopeSet) Contains(scope string) bool {
	scope = foldScope(strings.TrimSpace(scope))
	i := sort.SearchStrings(s.labels, scope)
	return i < len(s.labels) && s.labels[i] == scope
}

// Equal reports whether both sets contain exactly the same scopes.
func (s ScopeSet) Equal(o ScopeSet) bool {
	if len(s.labels) != len(o.labels) {
		return false
	}
	for i := range s.labels {
		if s.labels[i] != o.labels[i] {
			return false
		}
	}
	return true
}

// Intersects reports whether the sets share at least one scope.
func (s ScopeSet) Intersects(o ScopeSet) bool {
	i, j := 0, 0
	for i < len(s.labels) && j < len(o.labels) {
		switch {
		case s.labels[i] == o.labels[j]:
			return true
		case s.labels[i] < o.labels[j]:
			i++
		default:
			j++
		}
	}
	return false
}

// SubsetOf reports whether every scope in s is contained in o. The empty
// set is a subset of every set.
func (s ScopeSet) SubsetOf(o ScopeSet) bool {
	for _, label := range s.labels {
		if !o.Contains(label) {
			return false
		}
	}
	return true
}

// Labels returns a copy of the scope labels in sorted order.
func (s ScopeSet) Labels() []string {
	return append([]string(nil), s.labels...)
}

// String returns the canonical textual form: the sorted labels joined with
// commas.
func (s ScopeSet) String() string {
	return strings.Join(s.labels, ",")
}

// foldScope lowercases ASCII letters only. Scope strings on the wire can
// carry arbitrary UTF-8; folding beyond ASCII is out of scope.
func foldScope(s string) string {
	hasUpper := false
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return s
	}
	b := []byte(s)
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
