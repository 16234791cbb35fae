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
)

var (
	// LayerTypeSLP is the layer type of the common SLP v2 header.
	LayerTypeSLP = gopacket.RegisterLayerType(
		1427,
		gopacket.LayerTypeMetadata{
			Name:    "SLP",
			Decoder: gopacket.DecodeFunc(decodeSLP),
		},
	)
	// LayerTypeServiceRequest is the layer type of the SrvRqst body.
	LayerTypeServiceRequest = gopacket.RegisterLayerType(
		1428,
		gopacket.LayerTypeMetadata{
			Name:    "SLPServiceRequest",
			Decoder: gopacket.DecodeFunc(decodeServiceRequest),
		},
	)
	// LayerTypeServiceReply is the layer type of the SrvRply body.
	LayerTypeServiceReply = gopacket.RegisterLayerType(
		1429,
		gopacket.LayerTypeMetadata{
			Name:    "SLPServiceReply",
			Decoder: gopacket.DecodeFunc(decodeServiceReply),
		},
	)
	// LayerTypeSAAdvert is the layer type of the SAAdvert body.
	LayerTypeSAAdvert = gopacket.RegisterLayerType(
		1430,
		gopacket.LayerTypeMetadata{
			Name:    "SLPSAAdvert",
			Decoder: gopacket.DecodeFunc(decodeSAAdvert),
		},
	)
)
