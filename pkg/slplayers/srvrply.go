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
	"encoding/binary"

	"github.com/gopacket/gopacket"

	"github.com/slp-go/slp/pkg/private/serrors"
	"github.com/slp-go/slp/pkg/slp"
)

// urlEntryFixedLen covers the reserved byte, the lifetime, the URL length
// and the trailing auth block count of a wire URL entry.
const urlEntryFixedLen = 6

// ServiceReply is the body of a SrvRply message.
//
//	<u16 ErrorCode><u16 URLCount>{<URLEntry>}*
//
// with each URL entry encoded as u8 reserved, u16 lifetime, u16 URL
// length, the URL bytes, and a u8 auth block count. Authentication blocks
// are not supported; a non-zero count is rejected.
type ServiceReply struct {
	BaseLayer
	ErrorCode slp.ErrorCode
	URLs      []slp.URLEntry
}

// LayerType returns LayerTypeServiceReply.
func (r *ServiceReply) LayerType() gopacket.LayerType {
	return LayerTypeServiceReply
}

// CanDecode implements gopacket.DecodingLayer.
func (r *ServiceReply) CanDecode() gopacket.LayerClass {
	return LayerTypeServiceReply
}

// NextLayerType implements gopacket.DecodingLayer.
func (r *ServiceReply) NextLayerType() gopacket.LayerType {
	return gopacket.LayerTypePayload
}

// DecodeFromBytes decodes the SrvRply body.
func (r *ServiceReply) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < 4 {
		df.SetTruncated()
		return serrors.New("truncated SrvRply body", "len", len(data))
	}
	r.ErrorCode = slp.ErrorCode(binary.BigEndian.Uint16(data[0:2]))
	count := int(binary.BigEndian.Uint16(data[2:4]))
	off := 4
	r.URLs = r.URLs[:0]
	for i := 0; i < count; i++ {
		if len(data) < off+5 {
			df.SetTruncated()
			return serrors.New("truncated URL entry", "index", i)
		}
		lifetime := binary.BigEndian.Uint16(data[off+1 : off+3])
		urlLen := int(binary.BigEndian.Uint16(data[off+3 : off+5]))
		off += 5
		if len(data) < off+urlLen+1 {
			df.SetTruncated()
			return serrors.New("truncated URL", "index", i, "url_len", urlLen)
		}
		url := string(data[off : off+urlLen])
		off += urlLen
		if numAuths := data[off]; numAuths != 0 {
			return serrors.New("URL entry with authentication blocks",
				"index", i, "num_auths", numAuths)
		}
		off++
		r.URLs = append(r.URLs, slp.URLEntry{URL: url, Lifetime: lifetime})
	}
	if off != len(data) {
		return serrors.New("trailing bytes after SrvRply body",
			"off", off, "len", len(data))
	}
	r.Contents = data
	r.Payload = nil
	return nil
}

// SerializeTo implements gopacket.SerializableLayer.
func (r *ServiceReply) SerializeTo(b gopacket.SerializeBuffer, _ gopacket.SerializeOptions) error {
	total := 4
	for _, url := range r.URLs {
		total += urlEntryFixedLen + len(url.URL)
	}
	bytes, err := b.PrependBytes(total)
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint16(bytes[0:2], uint16(r.ErrorCode))
	binary.BigEndian.PutUint16(bytes[2:4], uint16(len(r.URLs)))
	off := 4
	for _, url := range r.URLs {
		bytes[off] = 0 // reserved
		binary.BigEndian.PutUint16(bytes[off+1:], url.Lifetime)
		binary.BigEndian.PutUint16(bytes[off+3:], uint16(len(url.URL)))
		off += 5
		copy(bytes[off:], url.URL)
		off += len(url.URL)
		bytes[off] = 0 // no auth blocks
		off++
	}
	return nil
}

func decodeServiceReply(data []byte, pb gopacket.PacketBuilder) error {
	r := &ServiceReply{}
	if err := r.DecodeFromBytes(data, pb); err != nil {
		return err
	}
	pb.AddLayer(r)
	return pb.NextDecoder(r.NextLayerType())
}
