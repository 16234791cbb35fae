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

// Package agent implements the SLP service agent (SA): it owns the
// registry of local services, answers SrvRqst messages over UDP and
// advertises itself on service:service-agent queries.
//
// Every datagram is handled to completion before the next one is read;
// there are no multi-packet transactions. Replies echo the request's XID
// and are always sent unicast to the requester, with the multicast flag
// clear. Requests that must not be answered per RFC 2608 (previous
// responders, multicast scope mismatches, empty multicast results) are
// dropped silently.
package agent

import (
	"errors"
	"net"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/gopacket/gopacket"

	"github.com/slp-go/slp/agent/internal/metrics"
	"github.com/slp-go/slp/agent/internal/registry"
	"github.com/slp-go/slp/pkg/clock"
	"github.com/slp-go/slp/pkg/log"
	"github.com/slp-go/slp/pkg/private/serrors"
	"github.com/slp-go/slp/pkg/slp"
	"github.com/slp-go/slp/pkg/slplayers"
)

// DefaultSweepInterval is the default period of the registry expiry sweep.
const DefaultSweepInterval = 30 * time.Second

// maxDatagram is the receive buffer size. SLP datagrams are small; this
// leaves ample room for jumbo frames.
const maxDatagram = 8192

// Conn is the datagram transport the agent runs on. Sends are best
// effort; a failed send is logged and dropped, the querier retries.
type Conn interface {
	// ReadFrom reads one datagram into p and returns its size and source.
	ReadFrom(p []byte) (int, netip.AddrPort, error)
	// WriteTo sends one datagram to dst without blocking on the peer.
	WriteTo(p []byte, dst netip.AddrPort) (int, error)
	Close() error
}

// Options configures a service agent.
type Options struct {
	// EnableDA requests the directory agent role. Must be false; the DA
	// role is not implemented.
	EnableDA bool
	// Clock is the time source. Defaults to the system clock.
	Clock clock.Clock
	// Address is the agent's own unicast IPv4 address. It is used for the
	// service:service-agent URL and for PR list suppression.
	Address netip.Addr
	// InitialXID seeds transaction IDs for originated requests. The SA
	// core only echoes XIDs; the seed is reserved for the UA/DA roles.
	InitialXID uint16
	// Scopes is the agent's scope configuration. An empty set is replaced
	// by {"default"}.
	Scopes slp.ScopeSet
	// Port is the SLP port the agent serves on.
	Port uint16
	// SweepInterval is the period of the registry expiry sweep. Defaults
	// to DefaultSweepInterval.
	SweepInterval time.Duration
}

// Server is a running service agent. Create it with NewServer, arm the
// timers with Init, and feed it datagrams either via Serve or directly
// via HandlePacket.
type Server struct {
	conn          Conn
	clk           clock.Clock
	address       netip.Addr
	port          uint16
	scopes        slp.ScopeSet
	saURL         string
	sweepInterval time.Duration

	mu         sync.Mutex
	registry   *registry.Registry
	sweepTimer clock.Timer
	closed     bool
}

// NewServer validates the options and creates a service agent on the
// given transport. The transport is expected to be bound to opts.Port and
// joined to the SLP multicast group.
func NewServer(conn Conn, opts Options) (*Server, error) {
	if opts.EnableDA {
		return nil, serrors.New("directory agent role is not implemented")
	}
	if !opts.Address.Is4() || opts.Address.IsMulticast() || opts.Address.IsUnspecified() {
		return nil, serrors.New("address must be a unicast IPv4 address",
			"address", opts.Address)
	}
	if opts.Port == 0 {
		return nil, serrors.New("port must be set")
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.System()
	}
	scopes := opts.Scopes
	if scopes.Empty() {
		scopes = slp.ParseScopeSet(slp.DefaultScope)
	}
	sweepInterval := opts.SweepInterval
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}
	return &Server{
		conn:          conn,
		clk:           clk,
		address:       opts.Address,
		port:          opts.Port,
		scopes:        scopes,
		saURL:         slp.ServiceAgentURL(opts.Address),
		sweepInterval: sweepInterval,
		registry:      registry.New(scopes),
	}, nil
}

// Scopes returns the agent's running scope configuration.
func (s *Server) Scopes() slp.ScopeSet {
	return s.scopes
}

// Init arms the registry expiry sweep. It is idempotent.
func (s *Server) Init() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sweepTimer != nil || s.closed {
		return
	}
	s.scheduleSweep()
	log.Info("Service agent initialized",
		"address", s.address, "port", s.port, "scopes", s.scopes)
}

// scheduleSweep arms the next sweep. The caller must hold s.mu.
func (s *Server) scheduleSweep() {
	s.sweepTimer = s.clk.AfterFunc(s.sweepInterval, s.sweep)
}

func (s *Server) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if dropped := s.registry.Sweep(s.clk.Now()); dropped > 0 {
		metrics.ExpiredServicesTotal.Add(float64(dropped))
		metrics.RegisteredServices.Set(float64(s.registry.Len()))
		log.Debug("Expired registrations swept", "count", dropped)
	}
	s.scheduleSweep()
}

// Close cancels the sweep and closes the transport. It is idempotent.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	if s.sweepTimer != nil {
		s.sweepTimer.Cancel()
	}
	s.mu.Unlock()
	return s.conn.Close()
}

// RegisterService inserts a service into the registry, replacing any
// previous registration of the same URL.
func (s *Server) RegisterService(service slp.ServiceEntry) slp.ErrorCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	code := s.registry.Register(service, s.clk.Now())
	if code == slp.CodeOK {
		metrics.RegisteredServices.Set(float64(s.registry.Len()))
		log.Debug("Service registered",
			"url", service.URL.URL, "scopes", service.Scopes,
			"lifetime", service.URL.Lifetime)
	}
	return code
}

// DeRegisterService removes a service from the registry by URL.
func (s *Server) DeRegisterService(service slp.ServiceEntry) slp.ErrorCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	code := s.registry.Deregister(service.URL.URL)
	if code == slp.CodeOK {
		metrics.RegisteredServices.Set(float64(s.registry.Len()))
		log.Debug("Service deregistered", "url", service.URL.URL)
	}
	return code
}

// Serve reads datagrams from the transport and handles them in arrival
// order until the transport fails or the server is closed.
func (s *Server) Serve() error {
	buf := make([]byte, maxDatagram)
	for {
		n, src, err := s.conn.ReadFrom(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) || s.isClosed() {
				return nil
			}
			return serrors.Wrap("reading from transport", err)
		}
		s.HandlePacket(src, buf[:n])
	}
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// HandlePacket processes one inbound datagram to completion, emitting at
// most one reply. Datagrams that do not decode to an SLP header are
// dropped silently; there is no XID to answer with.
func (s *Server) HandlePacket(src netip.AddrPort, raw []byte) {
	var hdr slplayers.SLP
	if err := hdr.DecodeFromBytes(raw, gopacket.NilDecodeFeedback); err != nil {
		metrics.DecodeErrorsTotal.Inc()
		log.Debug("Undecodable datagram dropped", "src", src, "err", err)
		return
	}
	metrics.RequestsTotal.WithLabelValues(hdr.FunctionID.String()).Inc()
	switch hdr.FunctionID {
	case slp.FnServiceRequest:
		s.mu.Lock()
		defer s.mu.Unlock()
		s.handleServiceRequest(src, &hdr)
	default:
		s.drop(metrics.ReasonUnknownMessage, src, &hdr)
	}
}

func (s *Server) handleServiceRequest(src netip.AddrPort, hdr *slplayers.SLP) {
	multicast := hdr.Multicast()
	var req slplayers.ServiceRequest
	if err := req.DecodeFromBytes(hdr.Payload, gopacket.NilDecodeFeedback); err != nil {
		log.Debug("Malformed SrvRqst", "src", src, "xid", hdr.XID, "err", err)
		if multicast {
			s.drop(metrics.ReasonParseError, src, hdr)
			return
		}
		s.sendServiceReply(src, hdr.XID, slp.CodeParseError, nil)
		return
	}
	if req.PreviousResponder(s.address) {
		s.drop(metrics.ReasonPreviousResponder, src, hdr)
		return
	}
	if req.ServiceType == "" {
		if multicast {
			s.drop(metrics.ReasonEmptyServiceType, src, hdr)
			return
		}
		s.sendServiceReply(src, hdr.XID, slp.CodeParseError, nil)
		return
	}
	if strings.EqualFold(req.ServiceType, slp.ServiceAgentServiceType) {
		s.handleServiceAgentRequest(src, hdr, &req)
		return
	}
	if req.Scopes.Empty() || !req.Scopes.SubsetOf(s.scopes) {
		if multicast {
			s.drop(metrics.ReasonScopeMismatch, src, hdr)
			return
		}
		s.sendServiceReply(src, hdr.XID, slp.CodeScopeNotSupported, nil)
		return
	}
	urls := s.registry.Find(req.ServiceType, req.Scopes, s.clk.Now())
	if multicast && len(urls) == 0 {
		// Multicast convergence: silence keeps the querier's PR list
		// growing with real matches only.
		s.drop(metrics.ReasonEmptyResult, src, hdr)
		return
	}
	s.sendServiceReply(src, hdr.XID, slp.CodeOK, urls)
}

// handleServiceAgentRequest answers SA discovery queries. The SAAdvert is
// sent for empty as well as overlapping scope lists, for unicast and
// multicast requests alike.
func (s *Server) handleServiceAgentRequest(
	src netip.AddrPort,
	hdr *slplayers.SLP,
	req *slplayers.ServiceRequest,
) {
	if req.Scopes.Empty() || req.Scopes.Intersects(s.scopes) {
		s.sendSAAdvert(src, hdr.XID)
		return
	}
	if hdr.Multicast() {
		s.drop(metrics.ReasonScopeMismatch, src, hdr)
		return
	}
	s.sendServiceReply(src, hdr.XID, slp.CodeScopeNotSupported, nil)
}

func (s *Server) drop(reason string, src netip.AddrPort, hdr *slplayers.SLP) {
	metrics.DropsTotal.WithLabelValues(reason).Inc()
	log.Debug("Request dropped silently",
		"reason", reason, "src", src, "msg_type", hdr.FunctionID, "xid", hdr.XID)
}

func (s *Server) sendServiceReply(
	dst netip.AddrPort,
	xid uint16,
	code slp.ErrorCode,
	urls []slp.URLEntry,
) {
	hdr := slplayers.NewHeader(slp.FnServiceReply, xid)
	s.send(dst, &hdr, &slplayers.ServiceReply{ErrorCode: code, URLs: urls})
}

func (s *Server) sendSAAdvert(dst netip.AddrPort, xid uint16) {
	hdr := slplayers.NewHeader(slp.FnSAAdvert, xid)
	s.send(dst, &hdr, &slplayers.SAAdvert{URL: s.saURL, Scopes: s.scopes})
}

func (s *Server) send(dst netip.AddrPort, hdr *slplayers.SLP, body gopacket.SerializableLayer) {
	raw, err := slplayers.SerializeMessage(hdr, body)
	if err != nil {
		log.Error("Encoding reply", "dst", dst, "msg_type", hdr.FunctionID, "err", err)
		return
	}
	if _, err := s.conn.WriteTo(raw, dst); err != nil {
		metrics.SendErrorsTotal.Inc()
		log.Error("Sending reply", "dst", dst, "msg_type", hdr.FunctionID, "err", err)
		return
	}
	metrics.RepliesTotal.WithLabelValues(hdr.FunctionID.String()).Inc()
	log.Debug("Reply sent", "dst", dst, "msg_type", hdr.FunctionID, "xid", hdr.XID)
}
