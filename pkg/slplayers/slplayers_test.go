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

package slplayers_test

import (
	"encoding/hex"
	"net/netip"
	"testing"

	"github.com/gopacket/gopacket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slp-go/slp/pkg/slp"
	"github.com/slp-go/slp/pkg/slplayers"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func serialize(t *testing.T, hdr slplayers.SLP, body gopacket.SerializableLayer) []byte {
	t.Helper()
	raw, err := slplayers.SerializeMessage(&hdr, body)
	require.NoError(t, err)
	return raw
}

func TestServiceRequestGolden(t *testing.T) {
	hdr := slplayers.NewHeader(slp.FnServiceRequest, 10)
	hdr.SetMulticast(true)
	raw := serialize(t, hdr, &slplayers.ServiceRequest{
		ServiceType: "service:foo",
		Scopes:      slp.ParseScopeSet("one"),
	})

	// version 2, SrvRqst, length 40, MCAST flag, xid 10, lang "en".
	expected := mustHex(t, "02010000282000000000000a0002")
	expected = append(expected, []byte("en")...)
	expected = append(expected, mustHex(t, "0000")...) // empty PR list
	expected = append(expected, mustHex(t, "000b")...)
	expected = append(expected, []byte("service:foo")...)
	expected = append(expected, mustHex(t, "0003")...)
	expected = append(expected, []byte("one")...)
	expected = append(expected, mustHex(t, "0000")...) // predicate
	expected = append(expected, mustHex(t, "0000")...) // SPI
	assert.Equal(t, expected, raw)
}

func TestServiceReplyGolden(t *testing.T) {
	raw := serialize(t, slplayers.NewHeader(slp.FnServiceReply, 10), &slplayers.ServiceReply{
		ErrorCode: slp.CodeOK,
		URLs: []slp.URLEntry{
			{URL: "service:foo://localhost", Lifetime: 300},
		},
	})

	// version 2, SrvRply, length 49, no flags, xid 10, lang "en".
	expected := mustHex(t, "02020000310000000000000a0002")
	expected = append(expected, []byte("en")...)
	expected = append(expected, mustHex(t, "0000")...)       // error code
	expected = append(expected, mustHex(t, "0001")...)       // URL count
	expected = append(expected, mustHex(t, "00012c0017")...) // reserved, lifetime, len
	expected = append(expected, []byte("service:foo://localhost")...)
	expected = append(expected, mustHex(t, "00")...) // no auth blocks
	assert.Equal(t, expected, raw)
}

func TestSAAdvertGolden(t *testing.T) {
	raw := serialize(t, slplayers.NewHeader(slp.FnSAAdvert, 10), &slplayers.SAAdvert{
		URL:    "service:service-agent://10.0.0.1",
		Scopes: slp.ParseScopeSet("one,two"),
	})

	// version 2, SAAdvert, length 62, no flags, xid 10, lang "en".
	expected := mustHex(t, "020b00003e0000000000000a0002")
	expected = append(expected, []byte("en")...)
	expected = append(expected, mustHex(t, "0020")...)
	expected = append(expected, []byte("service:service-agent://10.0.0.1")...)
	expected = append(expected, mustHex(t, "0007")...)
	expected = append(expected, []byte("one,two")...)
	expected = append(expected, mustHex(t, "0000")...) // empty attributes
	expected = append(expected, mustHex(t, "00")...)   // no auth blocks
	assert.Equal(t, expected, raw)
}

func TestRoundTrips(t *testing.T) {
	testCases := map[string]struct {
		fn   slp.FunctionID
		body gopacket.SerializableLayer
		make func() decodingBody
	}{
		"SrvRqst": {
			fn: slp.FnServiceRequest,
			body: &slplayers.ServiceRequest{
				PRList: []netip.Addr{
					netip.MustParseAddr("10.0.0.1"),
					netip.MustParseAddr("192.168.1.1"),
				},
				ServiceType: "service:foo",
				Scopes:      slp.ParseScopeSet("one,two"),
			},
			make: func() decodingBody { return &slplayers.ServiceRequest{} },
		},
		"SrvRqst empty": {
			fn:   slp.FnServiceRequest,
			body: &slplayers.ServiceRequest{},
			make: func() decodingBody { return &slplayers.ServiceRequest{} },
		},
		"SrvRply": {
			fn: slp.FnServiceReply,
			body: &slplayers.ServiceReply{
				ErrorCode: slp.CodeScopeNotSupported,
				URLs: []slp.URLEntry{
					{URL: "service:foo://localhost", Lifetime: 300},
					{URL: "service:foo://remote", Lifetime: 0},
				},
			},
			make: func() decodingBody { return &slplayers.ServiceReply{} },
		},
		"SrvRply empty": {
			fn:   slp.FnServiceReply,
			body: &slplayers.ServiceReply{ErrorCode: slp.CodeParseError},
			make: func() decodingBody { return &slplayers.ServiceReply{} },
		},
		"SAAdvert": {
			fn: slp.FnSAAdvert,
			body: &slplayers.SAAdvert{
				URL:    "service:service-agent://10.0.0.1",
				Scopes: slp.ParseScopeSet("default"),
			},
			make: func() decodingBody { return &slplayers.SAAdvert{} },
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			hdr := slplayers.NewHeader(tc.fn, 42)
			raw := serialize(t, hdr, tc.body)

			var decodedHdr slplayers.SLP
			require.NoError(t,
				decodedHdr.DecodeFromBytes(raw, gopacket.NilDecodeFeedback))
			assert.Equal(t, uint8(slp.Version), decodedHdr.Version)
			assert.Equal(t, tc.fn, decodedHdr.FunctionID)
			assert.Equal(t, uint16(42), decodedHdr.XID)
			assert.Equal(t, uint32(len(raw)), decodedHdr.Length)
			assert.Equal(t, "en", decodedHdr.Language)

			body := tc.make()
			require.NoError(t,
				body.DecodeFromBytes(decodedHdr.Payload, gopacket.NilDecodeFeedback))
			clearBase(body)
			assert.Equal(t, tc.body, body)
		})
	}
}

type decodingBody interface {
	gopacket.SerializableLayer
	DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error
}

// clearBase drops the decoded raw contents so the comparison covers the
// logical fields only.
func clearBase(l gopacket.SerializableLayer) {
	switch v := l.(type) {
	case *slplayers.ServiceRequest:
		v.BaseLayer = slplayers.BaseLayer{}
	case *slplayers.ServiceReply:
		v.BaseLayer = slplayers.BaseLayer{}
		if len(v.URLs) == 0 {
			v.URLs = nil
		}
	case *slplayers.SAAdvert:
		v.BaseLayer = slplayers.BaseLayer{}
	}
}

func TestHeaderDecodeErrors(t *testing.T) {
	valid := serialize(t, slplayers.NewHeader(slp.FnServiceRequest, 1),
		&slplayers.ServiceRequest{ServiceType: "service:foo"})

	testCases := map[string]func() []byte{
		"truncated header": func() []byte {
			return valid[:10]
		},
		"bad version": func() []byte {
			raw := append([]byte(nil), valid...)
			raw[0] = 1
			return raw
		},
		"length larger than data": func() []byte {
			return valid[:len(valid)-4]
		},
		"length smaller than data": func() []byte {
			return append(append([]byte(nil), valid...), 0xff)
		},
		"language tag overflow": func() []byte {
			raw := append([]byte(nil), valid...)
			raw[12], raw[13] = 0xff, 0xff
			return raw
		},
	}
	for name, mk := range testCases {
		t.Run(name, func(t *testing.T) {
			var hdr slplayers.SLP
			assert.Error(t, hdr.DecodeFromBytes(mk(), gopacket.NilDecodeFeedback))
		})
	}
}

func TestUnknownFunctionIDDecodesToPayload(t *testing.T) {
	hdr := slplayers.NewHeader(slp.FnDAAdvert, 7)
	raw := serialize(t, hdr, gopacket.Payload([]byte{0xde, 0xad}))

	packet := gopacket.NewPacket(raw, slplayers.LayerTypeSLP, gopacket.Default)
	require.NoError(t, packetError(packet))
	require.Len(t, packet.Layers(), 2)
	assert.Equal(t, slplayers.LayerTypeSLP, packet.Layers()[0].LayerType())
	assert.Equal(t, gopacket.LayerTypePayload, packet.Layers()[1].LayerType())
}

func packetError(p gopacket.Packet) error {
	if e := p.ErrorLayer(); e != nil {
		return e.Error()
	}
	return nil
}

func TestBodyDecodeErrors(t *testing.T) {
	t.Run("SrvRqst bad PR address", func(t *testing.T) {
		hdr := slplayers.NewHeader(slp.FnServiceRequest, 1)
		// Hand-build a body with a garbage PR list.
		body := mustHex(t, "0007")
		body = append(body, []byte("not-ip!")...)
		body = append(body, mustHex(t, "0000000000000000")...)
		raw := serialize(t, hdr, gopacket.Payload(body))

		var decodedHdr slplayers.SLP
		require.NoError(t, decodedHdr.DecodeFromBytes(raw, gopacket.NilDecodeFeedback))
		var req slplayers.ServiceRequest
		assert.Error(t, req.DecodeFromBytes(decodedHdr.Payload, gopacket.NilDecodeFeedback))
	})
	t.Run("SrvRqst truncated", func(t *testing.T) {
		var req slplayers.ServiceRequest
		assert.Error(t, req.DecodeFromBytes(mustHex(t, "000000"), gopacket.NilDecodeFeedback))
	})
	t.Run("SrvRply auth blocks", func(t *testing.T) {
		raw := serialize(t, slplayers.NewHeader(slp.FnServiceReply, 1), &slplayers.ServiceReply{
			URLs: []slp.URLEntry{{URL: "service:foo://x", Lifetime: 1}},
		})
		// flip the auth block count of the only URL entry
		raw[len(raw)-1] = 1
		var decodedHdr slplayers.SLP
		require.NoError(t, decodedHdr.DecodeFromBytes(raw, gopacket.NilDecodeFeedback))
		var rply slplayers.ServiceReply
		assert.Error(t, rply.DecodeFromBytes(decodedHdr.Payload, gopacket.NilDecodeFeedback))
	})
	t.Run("SAAdvert trailing bytes", func(t *testing.T) {
		var advert slplayers.SAAdvert
		body := mustHex(t, "00000000000000ff")
		assert.Error(t, advert.DecodeFromBytes(body, gopacket.NilDecodeFeedback))
	})
}

func TestMulticastFlag(t *testing.T) {
	hdr := slplayers.NewHeader(slp.FnServiceRequest, 1)
	assert.False(t, hdr.Multicast())
	hdr.SetMulticast(true)
	assert.True(t, hdr.Multicast())
	hdr.SetMulticast(false)
	assert.False(t, hdr.Multicast())
}
