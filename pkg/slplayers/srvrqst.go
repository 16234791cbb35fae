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

package slplayers

import (
	"net/netip"
	"strings"

	"github.com/gopacket/gopacket"

	"github.com/slp-go/slp/pkg/private/serrors"
	"github.com/slp-go/slp/pkg/slp"
)

// ServiceRequest is the body of a SrvRqst message.
//
//	<PRList><ServiceType><ScopeList><Predicate><SLP SPI>
//
// each a u16-length-prefixed string. The PR list carries the previous
// responders as comma separated dotted-decimal IPv4 addresses.
type ServiceRequest struct {
	BaseLayer
	PRList      []netip.Addr
	ServiceType string
	Scopes      slp.ScopeSet
	Predicate   string
	SPI         string
}

// LayerType returns LayerTypeServiceRequest.
func (r *ServiceRequest) LayerType() gopacket.LayerType {
	return LayerTypeServiceRequest
}

// CanDecode implements gopacket.DecodingLayer.
func (r *ServiceRequest) CanDecode() gopacket.LayerClass {
	return LayerTypeServiceRequest
}

// NextLayerType implements gopacket.DecodingLayer.
func (r *ServiceRequest) NextLayerType() gopacket.LayerType {
	return gopacket.LayerTypePayload
}

// PreviousResponder reports whether addr is on the PR list.
func (r *ServiceRequest) PreviousResponder(addr netip.Addr) bool {
	for _, pr := range r.PRList {
		if pr == addr {
			return true
		}
	}
	return false
}

// DecodeFromBytes decodes the SrvRqst body.
func (r *ServiceRequest) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	off := 0
	prList, err := readString(data, &off)
	if err != nil {
		df.SetTruncated()
		return serrors.Wrap("decoding PR list", err)
	}
	r.PRList, err = parsePRList(prList)
	if err != nil {
		return err
	}
	if r.ServiceType, err = readString(data, &off); err != nil {
		df.SetTruncated()
		return serrors.Wrap("decoding service type", err)
	}
	scopes, err := readString(data, &off)
	if err != nil {
		df.SetTruncated()
		return serrors.Wrap("decoding scope list", err)
	}
	r.Scopes = slp.ParseScopeSet(scopes)
	if r.Predicate, err = readString(data, &off); err != nil {
		df.SetTruncated()
		return serrors.Wrap("decoding predicate", err)
	}
	if r.SPI, err = readString(data, &off); err != nil {
		df.SetTruncated()
		return serrors.Wrap("decoding SLP SPI", err)
	}
	if off != len(data) {
		return serrors.New("trailing bytes after SrvRqst body",
			"off", off, "len", len(data))
	}
	r.Contents = data
	r.Payload = nil
	return nil
}

// SerializeTo implements gopacket.SerializableLayer.
func (r *ServiceRequest) SerializeTo(b gopacket.SerializeBuffer, _ gopacket.SerializeOptions) error {
	prList := formatPRList(r.PRList)
	scopes := r.Scopes.String()
	total := stringLen(prList) + stringLen(r.ServiceType) + stringLen(scopes) +
		stringLen(r.Predicate) + stringLen(r.SPI)
	bytes, err := b.PrependBytes(total)
	if err != nil {
		return err
	}
	off := putString(bytes, 0, prList)
	off = putString(bytes, off, r.ServiceType)
	off = putString(bytes, off, scopes)
	off = putString(bytes, off, r.Predicate)
	putString(bytes, off, r.SPI)
	return nil
}

func decodeServiceRequest(data []byte, pb gopacket.PacketBuilder) error {
	r := &ServiceRequest{}
	if err := r.DecodeFromBytes(data, pb); err != nil {
		return err
	}
	pb.AddLayer(r)
	return pb.NextDecoder(r.NextLayerType())
}

func parsePRList(s string) ([]netip.Addr, error) {
	if s == "" {
		return nil, nil
	}
	var addrs []netip.Addr
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		addr, err := netip.ParseAddr(part)
		if err != nil {
			return nil, serrors.Wrap("parsing PR list address", err, "addr", part)
		}
		if !addr.Is4() {
			return nil, serrors.New("PR list address is not IPv4", "addr", part)
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}

func formatPRList(addrs []netip.Addr) string {
	parts := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		parts = append(parts, addr.String())
	}
	return strings.Join(parts, ",")
}
