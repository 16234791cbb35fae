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

// Package slp defines the core values of the Service Location Protocol
// version 2 (RFC 2608): scope sets, service URLs, registration entries,
// and the protocol's function and error codes.
package slp

import (
	"fmt"
	"net/netip"
)

// Version is the SLP protocol version implemented by this module.
const Version = 2

// Port is the registered SLP port.
const Port = 427

// DefaultLanguage is the language tag used on emitted messages.
const DefaultLanguage = "en"

// DefaultScope is the scope substituted for an empty scope configuration.
const DefaultScope = "default"

// MulticastGroup is the administratively scoped SLP multicast group.
var MulticastGroup = netip.AddrFrom4([4]byte{239, 255, 255, 253})

// FunctionID identifies an SLP message type.
type FunctionID uint8

// SLP v2 message types.
const (
	FnServiceRequest      FunctionID = 1
	FnServiceReply        FunctionID = 2
	FnServiceRegistration FunctionID = 3
	FnServiceDeregister   FunctionID = 4
	FnServiceAck          FunctionID = 5
	FnAttributeRequest    FunctionID = 6
	FnAttributeReply      FunctionID = 7
	FnDAAdvert            FunctionID = 8
	FnServiceTypeRequest  FunctionID = 9
	FnServiceTypeReply    FunctionID = 10
	FnSAAdvert            FunctionID = 11
)

func (f FunctionID) String() string {
	switch f {
	case FnServiceRequest:
		return "SrvRqst"
	case FnServiceReply:
		return "SrvRply"
	case FnServiceRegistration:
		return "SrvReg"
	case FnServiceDeregister:
		return "SrvDeReg"
	case FnServiceAck:
		return "SrvAck"
	case FnAttributeRequest:
		return "AttrRqst"
	case FnAttributeReply:
		return "AttrRply"
	case FnDAAdvert:
		return "DAAdvert"
	case FnServiceTypeRequest:
		return "SrvTypeRqst"
	case FnServiceTypeReply:
		return "SrvTypeRply"
	case FnSAAdvert:
		return "SAAdvert"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(f))
	}
}

// ErrorCode is an SLP error code as carried in reply messages.
type ErrorCode uint16

// SLP v2 error codes used by the SA core.
const (
	CodeOK                   ErrorCode = 0
	CodeLanguageNotSupported ErrorCode = 1
	CodeParseError           ErrorCode = 2
	CodeInvalidRegistration  ErrorCode = 3
	CodeScopeNotSupported    ErrorCode = 4
)

func (c ErrorCode) String() string {
	switch c {
	case CodeOK:
		return "OK"
	case CodeLanguageNotSupported:
		return "LANGUAGE_NOT_SUPPORTED"
	case CodeParseError:
		return "PARSE_ERROR"
	case CodeInvalidRegistration:
		return "INVALID_REGISTRATION"
	case CodeScopeNotSupported:
		return "SCOPE_NOT_SUPPORTED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint16(c))
	}
}
