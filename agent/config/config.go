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

// Package config describes the configuration of the service agent daemon.
package config

import (
	"net/netip"

	"github.com/slp-go/slp/agent"
	"github.com/slp-go/slp/pkg/log"
	"github.com/slp-go/slp/pkg/private/serrors"
	"github.com/slp-go/slp/pkg/slp"
	"github.com/slp-go/slp/private/config"
)

// Config is the configuration of the service agent daemon.
type Config struct {
	Logging log.Config `toml:"log,omitempty"`
	Metrics Metrics    `toml:"metrics,omitempty"`
	Agent   Agent      `toml:"agent,omitempty"`
}

// InitDefaults initializes the defaults of all sections.
func (cfg *Config) InitDefaults() {
	config.InitAll(
		&cfg.Logging,
		&cfg.Metrics,
		&cfg.Agent,
	)
}

// Validate validates all sections.
func (cfg *Config) Validate() error {
	return config.ValidateAll(
		&cfg.Logging,
		&cfg.Metrics,
		&cfg.Agent,
	)
}

// Metrics configures the observability endpoint.
type Metrics struct {
	config.NoDefaulter
	config.NoValidator
	// Prometheus is the address the HTTP metrics endpoint listens on.
	// Empty disables the endpoint.
	Prometheus string `toml:"prometheus,omitempty"`
}

// Agent configures the SLP service agent itself.
type Agent struct {
	// EnableDA requests the directory agent role. Must be false.
	EnableDA bool `toml:"enable_da,omitempty"`
	// Address is the agent's own unicast IPv4 address.
	Address string `toml:"address,omitempty"`
	// Port is the UDP port to serve on. Defaults to the SLP port 427.
	Port uint16 `toml:"port,omitempty"`
	// Scopes is the comma separated scope list. Empty means "default".
	Scopes string `toml:"scopes,omitempty"`
	// InitialXID seeds transaction IDs for originated requests.
	InitialXID uint16 `toml:"initial_xid,omitempty"`
	// SweepInterval is the period of the registry expiry sweep.
	SweepInterval config.Duration `toml:"sweep_interval,omitempty"`
}

// InitDefaults fills in the SLP port and the default sweep interval.
func (cfg *Agent) InitDefaults() {
	if cfg.Port == 0 {
		cfg.Port = slp.Port
	}
	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = config.Duration(agent.DefaultSweepInterval)
	}
}

// Validate checks the agent section.
func (cfg *Agent) Validate() error {
	if cfg.EnableDA {
		return serrors.New("directory agent role is not implemented")
	}
	addr, err := netip.ParseAddr(cfg.Address)
	if err != nil {
		return serrors.Wrap("parsing agent address", err, "address", cfg.Address)
	}
	if !addr.Is4() || addr.IsMulticast() || addr.IsUnspecified() {
		return serrors.New("agent address must be a unicast IPv4 address",
			"address", cfg.Address)
	}
	if cfg.SweepInterval < 0 {
		return serrors.New("sweep interval must be positive",
			"sweep_interval", cfg.SweepInterval)
	}
	return nil
}

// Options converts the validated section into agent options.
func (cfg *Agent) Options() agent.Options {
	addr, _ := netip.ParseAddr(cfg.Address)
	return agent.Options{
		EnableDA:      cfg.EnableDA,
		Address:       addr,
		InitialXID:    cfg.InitialXID,
		Scopes:        slp.ParseScopeSet(cfg.Scopes),
		Port:          cfg.Port,
		SweepInterval: cfg.SweepInterval.Duration(),
	}
}
