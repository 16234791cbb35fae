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

package agent

import (
	"net"
	"net/netip"

	"golang.org/x/net/ipv4"

	"github.com/slp-go/slp/pkg/private/serrors"
	"github.com/slp-go/slp/pkg/slp"
)

// Listen opens the agent's UDP socket on the given port and joins the SLP
// multicast group on the system default interface, so the socket receives
// both unicast and multicast requests.
func Listen(port uint16) (Conn, error) {
	c, err := net.ListenUDP("udp4", &net.UDPAddr{Port: int(port)})
	if err != nil {
		return nil, serrors.Wrap("opening UDP socket", err, "port", port)
	}
	p := ipv4.NewPacketConn(c)
	group := &net.UDPAddr{IP: slp.MulticastGroup.AsSlice()}
	if err := p.JoinGroup(nil, group); err != nil {
		c.Close()
		return nil, serrors.Wrap("joining SLP multicast group", err,
			"group", slp.MulticastGroup)
	}
	return &udpConn{conn: c}, nil
}

type udpConn struct {
	conn *net.UDPConn
}

func (u *udpConn) ReadFrom(p []byte) (int, netip.AddrPort, error) {
	return u.conn.ReadFromUDPAddrPort(p)
}

func (u *udpConn) WriteTo(p []byte, dst netip.AddrPort) (int, error) {
	return u.conn.WriteToUDPAddrPort(p, dst)
}

func (u *udpConn) Close() error {
	return u.conn.Close()
}
