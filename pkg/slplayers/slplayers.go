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

// Package slplayers contains gopacket layers for SLP v2 (RFC 2608)
// messages: the common header and the SrvRqst, SrvRply and SAAdvert
// bodies. All multi-byte fields are big-endian and every encoded message
// carries its exact byte count in the header length field.
package slplayers

import (
	"encoding/binary"

	"github.com/gopacket/gopacket"

	"github.com/slp-go/slp/pkg/private/serrors"
	"github.com/slp-go/slp/pkg/slp"
)

// Header flags.
const (
	// FlagOverflow signals that the reply did not fit into a datagram.
	FlagOverflow uint16 = 0x8000
	// FlagFresh is set on new SrvReg messages.
	FlagFresh uint16 = 0x4000
	// FlagMulticast is set by the sender on multicast transmissions.
	FlagMulticast uint16 = 0x2000
)

// hdrFixedLen is the length of the header up to and including the language
// tag length field.
const hdrFixedLen = 14

// maxMsgLen is the largest value the 24-bit length field can carry.
const maxMsgLen = 1<<24 - 1

// SLP is the common SLP v2 message header.
//
//	 0                   1                   2                   3
//	 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|    Version    |  Function-ID  |            Length             |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	| Length, contd.|O|F|R|       reserved          |Next Ext Offset|
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|  Next Extension Offset, contd.|              XID              |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|      Language Tag Length      |         Language Tag          \
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
type SLP struct {
	BaseLayer
	Version       uint8
	FunctionID    slp.FunctionID
	Length        uint32
	Flags         uint16
	NextExtOffset uint32
	XID           uint16
	Language      string
}

// NewHeader returns a header for an emitted message of the given type.
func NewHeader(fn slp.FunctionID, xid uint16) SLP {
	return SLP{
		Version:    slp.Version,
		FunctionID: fn,
		XID:        xid,
		Language:   slp.DefaultLanguage,
	}
}

// LayerType returns LayerTypeSLP.
func (s *SLP) LayerType() gopacket.LayerType {
	return LayerTypeSLP
}

// CanDecode implements gopacket.DecodingLayer.
func (s *SLP) CanDecode() gopacket.LayerClass {
	return LayerTypeSLP
}

// NextLayerType returns the layer type of the message body.
func (s *SLP) NextLayerType() gopacket.LayerType {
	switch s.FunctionID {
	case slp.FnServiceRequest:
		return LayerTypeServiceRequest
	case slp.FnServiceReply:
		return LayerTypeServiceReply
	case slp.FnSAAdvert:
		return LayerTypeSAAdvert
	default:
		return gopacket.LayerTypePayload
	}
}

// Multicast reports whether the multicast flag is set.
func (s *SLP) Multicast() bool {
	return s.Flags&FlagMulticast != 0
}

// SetMulticast sets or clears the multicast flag.
func (s *SLP) SetMulticast(multicast bool) {
	if multicast {
		s.Flags |= FlagMulticast
	} else {
		s.Flags &^= FlagMulticast
	}
}

// DecodeFromBytes decodes a full SLP message header. The data must span
// the whole message: the decoder rejects a length field that does not
// match the exact byte count of the datagram.
func (s *SLP) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < hdrFixedLen {
		df.SetTruncated()
		return serrors.New("truncated SLP header", "len", len(data))
	}
	s.Version = data[0]
	if s.Version != slp.Version {
		return serrors.New("unsupported SLP version", "version", s.Version)
	}
	s.FunctionID = slp.FunctionID(data[1])
	s.Length = uint32(data[2])<<16 | uint32(data[3])<<8 | uint32(data[4])
	s.Flags = binary.BigEndian.Uint16(data[5:7])
	s.NextExtOffset = uint32(data[7])<<16 | uint32(data[8])<<8 | uint32(data[9])
	s.XID = binary.BigEndian.Uint16(data[10:12])
	langLen := int(binary.BigEndian.Uint16(data[12:14]))
	if int(s.Length) > len(data) {
		df.SetTruncated()
		return serrors.New("SLP length field exceeds data",
			"length", s.Length, "len", len(data))
	}
	if int(s.Length) != len(data) {
		return serrors.New("SLP length field mismatch",
			"length", s.Length, "len", len(data))
	}
	if hdrFixedLen+langLen > int(s.Length) {
		return serrors.New("language tag exceeds message",
			"lang_len", langLen, "length", s.Length)
	}
	s.Language = string(data[hdrFixedLen : hdrFixedLen+langLen])
	s.Contents = data[:hdrFixedLen+langLen]
	s.Payload = data[hdrFixedLen+langLen:]
	return nil
}

// SerializeTo implements gopacket.SerializableLayer. With opts.FixLengths
// set, the length field is computed from the serialized message.
func (s *SLP) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	bytes, err := b.PrependBytes(hdrFixedLen + len(s.Language))
	if err != nil {
		return err
	}
	if opts.FixLengths {
		s.Length = uint32(len(b.Bytes()))
	}
	if s.Length > maxMsgLen {
		return serrors.New("SLP message too large", "length", s.Length)
	}
	version := s.Version
	if version == 0 {
		version = slp.Version
	}
	bytes[0] = version
	bytes[1] = uint8(s.FunctionID)
	bytes[2] = uint8(s.Length >> 16)
	bytes[3] = uint8(s.Length >> 8)
	bytes[4] = uint8(s.Length)
	binary.BigEndian.PutUint16(bytes[5:7], s.Flags)
	bytes[7] = uint8(s.NextExtOffset >> 16)
	bytes[8] = uint8(s.NextExtOffset >> 8)
	bytes[9] = uint8(s.NextExtOffset)
	binary.BigEndian.PutUint16(bytes[10:12], s.XID)
	binary.BigEndian.PutUint16(bytes[12:14], uint16(len(s.Language)))
	copy(bytes[hdrFixedLen:], s.Language)
	return nil
}

func decodeSLP(data []byte, pb gopacket.PacketBuilder) error {
	s := &SLP{}
	if err := s.DecodeFromBytes(data, pb); err != nil {
		return err
	}
	pb.AddLayer(s)
	return pb.NextDecoder(s.NextLayerType())
}

// SerializeMessage encodes a header and body into a single datagram. The
// header's length field is fixed up to the exact byte count of the
// message.
func SerializeMessage(hdr *SLP, body gopacket.SerializableLayer) ([]byte, error) {
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true}
	if err := gopacket.SerializeLayers(buf, opts, hdr, body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
