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

// Package metrics defines the prometheus instrumentation of the service
// agent.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Drop reasons.
const (
	ReasonPreviousResponder = "previous_responder"
	ReasonScopeMismatch     = "scope_mismatch"
	ReasonEmptyServiceType  = "empty_service_type"
	ReasonEmptyResult       = "empty_result"
	ReasonParseError        = "parse_error"
	ReasonUnknownMessage    = "unknown_message"
)

var (
	// RequestsTotal counts inbound messages by message type.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "slp",
			Subsystem: "agent",
			Name:      "requests_total",
			Help:      "Total inbound SLP messages, by message type.",
		},
		[]string{"msg_type"},
	)
	// RepliesTotal counts emitted replies by message type.
	RepliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "slp",
			Subsystem: "agent",
			Name:      "replies_total",
			Help:      "Total emitted SLP replies, by message type.",
		},
		[]string{"msg_type"},
	)
	// DropsTotal counts requests answered with silence, by reason.
	DropsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "slp",
			Subsystem: "agent",
			Name:      "drops_total",
			Help:      "Total requests answered with silence, by reason.",
		},
		[]string{"reason"},
	)
	// DecodeErrorsTotal counts datagrams whose header did not decode.
	DecodeErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "slp",
			Subsystem: "agent",
			Name:      "decode_errors_total",
			Help:      "Total datagrams whose SLP header did not decode.",
		},
	)
	// SendErrorsTotal counts replies dropped by the transport.
	SendErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "slp",
			Subsystem: "agent",
			Name:      "send_errors_total",
			Help:      "Total replies the transport failed to send.",
		},
	)
	// RegisteredServices tracks the current size of the service registry.
	RegisteredServices = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "slp",
			Subsystem: "agent",
			Name:      "registered_services",
			Help:      "Current number of registered services.",
		},
	)
	// ExpiredServicesTotal counts entries collected by the sweep.
	ExpiredServicesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "slp",
			Subsystem: "agent",
			Name:      "expired_services_total",
			Help:      "Total registry entries dropped by the expiry sweep.",
		},
	)
)
