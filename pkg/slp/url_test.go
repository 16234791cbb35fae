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

package slp_test

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slp-go/slp/pkg/slp"
)

func TestParseServiceType(t *testing.T) {
	testCases := map[string]struct {
		url       string
		want      string
		assertErr assert.ErrorAssertionFunc
	}{
		"plain": {
			url:       "service:foo://localhost",
			want:      "service:foo",
			assertErr: assert.NoError,
		},
		"abstract type": {
			url:       "service:printer:lpr://hostname",
			want:      "service:printer:lpr",
			assertErr: assert.NoError,
		},
		"folds case": {
			url:       "Service:FOO://localhost",
			want:      "service:foo",
			assertErr: assert.NoError,
		},
		"service agent": {
			url:       "service:service-agent://10.0.0.1",
			want:      slp.ServiceAgentServiceType,
			assertErr: assert.NoError,
		},
		"missing scheme": {
			url:       "foo://localhost",
			assertErr: assert.Error,
		},
		"missing separator": {
			url:       "service:foo",
			assertErr: assert.Error,
		},
		"empty type": {
			url:       "service:://localhost",
			assertErr: assert.Error,
		},
		"empty rest": {
			url:       "service:foo://",
			assertErr: assert.Error,
		},
		"empty": {
			url:       "",
			assertErr: assert.Error,
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			got, err := slp.ParseServiceType(tc.url)
			tc.assertErr(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestServiceAgentURL(t *testing.T) {
	url := slp.ServiceAgentURL(netip.MustParseAddr("10.0.0.1"))
	assert.Equal(t, "service:service-agent://10.0.0.1", url)
}
