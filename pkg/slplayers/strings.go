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

	"github.com/slp-go/slp/pkg/private/serrors"
)

// readString reads a u16-length-prefixed string at *off and advances the
// offset past it.
func readString(data []byte, off *int) (string, error) {
	if len(data) < *off+2 {
		return "", serrors.New("truncated string length", "off", *off)
	}
	n := int(binary.BigEndian.Uint16(data[*off:]))
	*off += 2
	if len(data) < *off+n {
		return "", serrors.New("truncated string", "off", *off, "str_len", n)
	}
	s := string(data[*off : *off+n])
	*off += n
	return s, nil
}

// putString writes a u16-length-prefixed string at off and returns the
// offset past it.
func putString(bytes []byte, off int, s string) int {
	binary.BigEndian.PutUint16(bytes[off:], uint16(len(s)))
	off += 2
	copy(bytes[off:], s)
	return off + len(s)
}

// stringLen returns the encoded size of a u16-length-prefixed string.
func stringLen(s string) int {
	return 2 + len(s)
}
