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
	"github.com/gopacket/gopacket"

	"github.com/slp-go/slp/pkg/private/serrors"
	"github.com/slp-go/slp/pkg/slp"
)

// SAAdvert is the body of an SAAdvert message.
//
//	<URL string><Scope list string><Attribute list string><u8 # auths>
//
// Attributes are empty in this implementation and authentication blocks
// are not supported.
type SAAdvert struct {
	BaseLayer
	URL        string
	Scopes     slp.ScopeSet
	Attributes string
}

// LayerType returns LayerTypeSAAdvert.
func (a *SAAdvert) LayerType() gopacket.LayerType {
	return LayerTypeSAAdvert
}

// CanDecode implements gopacket.DecodingLayer.
func (a *SAAdvert) CanDecode() gopacket.LayerClass {
	return LayerTypeSAAdvert
}

// NextLayerType implements gopacket.DecodingLayer.
func (a *SAAdvert) NextLayerType() gopacket.LayerType {
	return gopacket.LayerTypePayload
}

// DecodeFromBytes decodes the SAAdvert body.
func (a *SAAdvert) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	off := 0
	var err error
	if a.URL, err = readString(data, &off); err != nil {
		df.SetTruncated()
		return serrors.Wrap("decoding URL", err)
	}
	scopes, err := readString(data, &off)
	if err != nil {
		df.SetTruncated()
		return serrors.Wrap("decoding scope list", err)
	}
	a.Scopes = slp.ParseScopeSet(scopes)
	if a.Attributes, err = readString(data, &off); err != nil {
		df.SetTruncated()
		return serrors.Wrap("decoding attribute list", err)
	}
	if len(data) < off+1 {
		df.SetTruncated()
		return serrors.New("truncated SAAdvert body", "len", len(data))
	}
	if numAuths := data[off]; numAuths != 0 {
		return serrors.New("SAAdvert with authentication blocks",
			"num_auths", numAuths)
	}
	off++
	if off != len(data) {
		return serrors.New("trailing bytes after SAAdvert body",
			"off", off, "len", len(data))
	}
	a.Contents = data
	a.Payload = nil
	return nil
}

// SerializeTo implements gopacket.SerializableLayer.
func (a *SAAdvert) SerializeTo(b gopacket.SerializeBuffer, _ gopacket.SerializeOptions) error {
	scopes := a.Scopes.String()
	total := stringLen(a.URL) + stringLen(scopes) + stringLen(a.Attributes) + 1
	bytes, err := b.PrependBytes(total)
	if err != nil {
		return err
	}
	off := putString(bytes, 0, a.URL)
	off = putString(bytes, off, scopes)
	off = putString(bytes, off, a.Attributes)
	bytes[off] = 0 // no auth blocks
	return nil
}

func decodeSAAdvert(data []byte, pb gopacket.PacketBuilder) error {
	a := &SAAdvert{}
	if err := a.DecodeFromBytes(data, pb); err != nil {
		return err
	}
	pb.AddLayer(a)
	return pb.NextDecoder(a.NextLayerType())
}
