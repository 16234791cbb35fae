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

package config_test

import (
	"net/netip"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slp-go/slp/agent/config"
	"github.com/slp-go/slp/pkg/slp"
	privcfg "github.com/slp-go/slp/private/config"
)

func TestDefaults(t *testing.T) {
	var cfg config.Config
	cfg.InitDefaults()

	assert.Equal(t, uint16(slp.Port), cfg.Agent.Port)
	assert.Equal(t, 30*time.Second, cfg.Agent.SweepInterval.Duration())
	assert.False(t, cfg.Agent.EnableDA)
}

func TestLoad(t *testing.T) {
	raw := `
[log.console]
level = "debug"

[metrics]
prometheus = "127.0.0.1:9400"

[agent]
address = "10.0.0.1"
port = 5570
scopes = "one,two"
sweep_interval = "1m"
`
	var cfg config.Config
	require.NoError(t, toml.Unmarshal([]byte(raw), &cfg))
	cfg.InitDefaults()
	require.NoError(t, cfg.Validate())

	opts := cfg.Agent.Options()
	assert.Equal(t, netip.MustParseAddr("10.0.0.1"), opts.Address)
	assert.Equal(t, uint16(5570), opts.Port)
	assert.Equal(t, slp.ParseScopeSet("one,two"), opts.Scopes)
	assert.Equal(t, time.Minute, opts.SweepInterval)
	assert.Equal(t, "127.0.0.1:9400", cfg.Metrics.Prometheus)
}

func TestValidate(t *testing.T) {
	testCases := map[string]func(cfg *config.Agent){
		"missing address":   func(cfg *config.Agent) { cfg.Address = "" },
		"IPv6 address":      func(cfg *config.Agent) { cfg.Address = "::1" },
		"multicast address": func(cfg *config.Agent) { cfg.Address = "239.255.255.253" },
		"directory agent":   func(cfg *config.Agent) { cfg.EnableDA = true },
		"negative sweep": func(cfg *config.Agent) {
			cfg.SweepInterval = privcfg.Duration(-time.Second)
		},
	}
	for name, mutate := range testCases {
		t.Run(name, func(t *testing.T) {
			cfg := config.Agent{Address: "10.0.0.1"}
			cfg.InitDefaults()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
