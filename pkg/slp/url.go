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
	"net/netip"
	"strings"

	"github.com/slp-go/slp/pkg/private/serrors"
)

// ServiceAgentServiceType is the reserved service type that denotes the
// service agent itself.
const ServiceAgentServiceType = "service:service-agent"

// ServiceAgentURL returns the SA's own service URL for the given address,
// e.g. "service:service-agent://10.0.0.1".
func ServiceAgentURL(ip netip.Addr) string {
	return ServiceAgentServiceType + "://" + ip.String()
}

// ParseServiceType extracts the service type from a service URL of the
// form "service:<service-type>://<rest>". The returned type is folded to
// lower case; service type comparison is case insensitive.
func ParseServiceType(url string) (string, error) {
	if !strings.HasPrefix(foldScope(url), "service:") {
		return "", serrors.New("service URL must start with \"service:\"", "url", url)
	}
	i := strings.Index(url, "://")
	if i < 0 {
		return "", serrors.New("service URL missing \"://\"", "url", url)
	}
	serviceType := foldScope(url[:i])
	if serviceType == "service:" {
		return "", serrors.New("service URL with empty service type", "url", url)
	}
	if url[i+len("://"):] == "" {
		return "", serrors.New("service URL with empty address part", "url", url)
	}
	return serviceType, nil
}

// URLEntry is a service URL together with its registration lifetime in
// seconds. A lifetime of zero means no positive lifetime; it is encoded
// as-is on the wire.
type URLEntry struct {
	URL      string
	Lifetime uint16
}

// ServiceEntry is a registered service: its URL entry and the scopes it is
// registered in.
type ServiceEntry struct {
	Scopes ScopeSet
	URL    URLEntry
}

// NewServiceEntry builds a service entry from a comma separated scope list,
// a service URL and a lifetime in seconds.
func NewServiceEntry(scopes, url string, lifetime uint16) ServiceEntry {
	return ServiceEntry{
		Scopes: ParseScopeSet(scopes),
		URL:    URLEntry{URL: url, Lifetime: lifetime},
	}
}
