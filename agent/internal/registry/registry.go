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

// Package registry implements the in-memory table of services registered
// with the service agent. Entries are keyed by service URL; registering a
// URL twice replaces the previous entry. The registry is not safe for
// concurrent use; the agent serializes access.
package registry

import (
	"sort"
	"time"

	"github.com/slp-go/slp/pkg/slp"
)

type entry struct {
	service      slp.ServiceEntry
	serviceType  string
	registeredAt time.Time
}

// expired reports whether the entry's lifetime has run out. Entries with
// lifetime zero have no positive lifetime; they stay visible until the
// next sweep collects them.
func (e *entry) expired(now time.Time) bool {
	if e.service.URL.Lifetime == 0 {
		return false
	}
	return !now.Before(e.deadline())
}

func (e *entry) deadline() time.Time {
	return e.registeredAt.Add(time.Duration(e.service.URL.Lifetime) * time.Second)
}

// Registry is the service agent's table of registered services.
type Registry struct {
	// scopes are the scopes the owning agent is configured with.
	scopes  slp.ScopeSet
	entries map[string]*entry
}

// New creates an empty registry for an agent configured with the given
// scopes.
func New(scopes slp.ScopeSet) *Registry {
	return &Registry{
		scopes:  scopes,
		entries: make(map[string]*entry),
	}
}

// Register inserts the service, replacing any entry with the same URL.
// It returns CodeInvalidRegistration if the URL does not parse as a
// service URL, and CodeScopeNotSupported if the service's scopes are
// empty or share no scope with the agent's.
func (r *Registry) Register(service slp.ServiceEntry, now time.Time) slp.ErrorCode {
	serviceType, err := slp.ParseServiceType(service.URL.URL)
	if err != nil {
		return slp.CodeInvalidRegistration
	}
	if !service.Scopes.Intersects(r.scopes) {
		return slp.CodeScopeNotSupported
	}
	r.entries[service.URL.URL] = &entry{
		service:      service,
		serviceType:  serviceType,
		registeredAt: now,
	}
	return slp.CodeOK
}

// Deregister removes the entry with the given URL. It returns
// CodeInvalidRegistration if no such entry exists.
func (r *Registry) Deregister(url string) slp.ErrorCode {
	if _, ok := r.entries[url]; !ok {
		return slp.CodeInvalidRegistration
	}
	delete(r.entries, url)
	return slp.CodeOK
}

// Find returns the URL entries of every live service whose service type
// matches and whose scopes intersect the given scopes. Matching is case
// insensitive. The result is sorted by URL for reply stability.
func (r *Registry) Find(serviceType string, scopes slp.ScopeSet, now time.Time) []slp.URLEntry {
	folded := asciiLower(serviceType)
	var urls []slp.URLEntry
	for _, e := range r.entries {
		if e.serviceType != folded || e.expired(now) {
			continue
		}
		if !e.service.Scopes.Intersects(scopes) {
			continue
		}
		urls = append(urls, e.service.URL)
	}
	sort.Slice(urls, func(i, j int) bool { return urls[i].URL < urls[j].URL })
	return urls
}

// Sweep drops every entry whose lifetime has run out and returns the
// number of dropped entries. Entries with lifetime zero are dropped
// unconditionally.
func (r *Registry) Sweep(now time.Time) int {
	dropped := 0
	for url, e := range r.entries {
		if e.service.URL.Lifetime == 0 || e.expired(now) {
			delete(r.entries, url)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of entries, including entries that have expired
// but are not yet swept.
func (r *Registry) Len() int {
	return len(r.entries)
}

// asciiLower folds ASCII upper case letters. Service type comparison is
// case insensitive with ASCII folding, like scope comparison.
func asciiLower(s string) string {
	b := []byte(s)
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
