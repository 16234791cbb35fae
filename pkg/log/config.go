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

package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/slp-go/slp/pkg/private/serrors"
)

// Config is the configuration of the logger.
type Config struct {
	// Console is the configuration of the console logging backend.
	Console ConsoleConfig `toml:"console,omitempty"`
}

// InitDefaults populates unset fields to their defaults.
func (c *Config) InitDefaults() {
	c.Console.InitDefaults()
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	return c.Console.Validate()
}

// ConsoleConfig is the config for logging to the console.
type ConsoleConfig struct {
	// Level of console logging (debug|info|error).
	Level string `toml:"level,omitempty"`
	// Format of the console logging (human|json).
	Format string `toml:"format,omitempty"`
	// DisableCaller stops annotating logs with the calling function's file
	// name and line number.
	DisableCaller bool `toml:"disable_caller,omitempty"`
}

// InitDefaults populates unset fields to their defaults.
func (c *ConsoleConfig) InitDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "human"
	}
}

// Validate validates the configuration.
func (c *ConsoleConfig) Validate() error {
	if _, err := c.zapConfig(); err != nil {
		return err
	}
	return nil
}

func (c *ConsoleConfig) zapConfig() (zap.Config, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
		return zap.Config{}, serrors.New("unsupported log level", "level", c.Level)
	}
	var encoding string
	switch c.Format {
	case "", "human":
		encoding = "console"
	case "json":
		encoding = "json"
	default:
		return zap.Config{}, serrors.New("unsupported log format", "format", c.Format)
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zap.Config{
		Level:             zap.NewAtomicLevelAt(lvl),
		DisableCaller:     c.DisableCaller,
		DisableStacktrace: true,
		Encoding:          encoding,
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
	}, nil
}
