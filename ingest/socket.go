// Copyright (c) 2024 Neomantra Corp
//
// Multicast socket setup for one physical OPRA line. Grounded on the
// net.ListenMulticastUDP + SetReadBuffer pattern used by multicast market
// data receivers generally, extended with golang.org/x/net/ipv4's
// SetMulticastInterface so a line's interface can be pinned per spec.md
// §6's `a_lines[i]/b_lines[i]: interface` option. The group join itself
// is done by net.ListenMulticastUDP.

package ingest

import (
	"fmt"
	"net"
	"time"

	"golang.org/x/net/ipv4"
)

// socketReadBufferBytes requests the largest receive buffer the kernel
// will grant, per spec.md §5: "socket receive buffers are sized to the
// operating-system maximum."
const socketReadBufferBytes = 8 * 1024 * 1024

// LineSocket is one physical side's multicast UDP socket, wrapped with
// the ipv4 packet connection used for interface-pinned group membership.
type LineSocket struct {
	conn  *net.UDPConn
	pconn *ipv4.PacketConn
	addr  *net.UDPAddr
	iface *net.Interface
}

// OpenMulticastSocket joins the multicast group at address:port. If
// ifaceName is non-empty, the join is pinned to that network interface
// (spec.md §6's per-line `interface` option); otherwise the system
// chooses the interface, matching net.ListenMulticastUDP's own default
// behavior.
func OpenMulticastSocket(address string, port int, ifaceName string) (*LineSocket, error) {
	addr, err := net.ResolveUDPAddr("udp4", fmt.Sprintf("%s:%d", address, port))
	if err != nil {
		return nil, fmt.Errorf("ingest: resolve %s:%d: %w", address, port, err)
	}

	var iface *net.Interface
	if ifaceName != "" {
		iface, err = net.InterfaceByName(ifaceName)
		if err != nil {
			return nil, fmt.Errorf("ingest: interface %s: %w", ifaceName, err)
		}
	}

	// net.ListenMulticastUDP does the join on iface (or the system's
	// choice of interface if iface is nil). The ipv4.PacketConn below
	// makes no join of its own; it is used only to call
	// SetMulticastInterface in the pinned-interface case.
	conn, err := net.ListenMulticastUDP("udp4", iface, addr)
	if err != nil {
		return nil, fmt.Errorf("ingest: join %s:%d on %s: %w", address, port, ifaceName, err)
	}
	if err := conn.SetReadBuffer(socketReadBufferBytes); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ingest: set read buffer: %w", err)
	}

	pconn := ipv4.NewPacketConn(conn)
	if iface != nil {
		if err := pconn.SetMulticastInterface(iface); err != nil {
			conn.Close()
			return nil, fmt.Errorf("ingest: set multicast interface %s: %w", ifaceName, err)
		}
	}

	return &LineSocket{conn: conn, pconn: pconn, addr: addr, iface: iface}, nil
}

// NewLineSocket wraps an already-configured *net.UDPConn as a LineSocket,
// for callers (and tests) that set up their own connection rather than
// going through OpenMulticastSocket's multicast join.
func NewLineSocket(conn *net.UDPConn) *LineSocket {
	return &LineSocket{conn: conn}
}

// Close releases the underlying socket.
func (s *LineSocket) Close() error {
	return s.conn.Close()
}

// ReadDatagram blocks until a datagram arrives or the read deadline
// passes, returning the bytes read into buf.
func (s *LineSocket) ReadDatagram(buf []byte) (int, error) {
	return s.conn.Read(buf)
}

// SetReadDeadline forwards to the underlying connection, used by Loop to
// bound each socket read to the 100ms readiness timeout of spec.md §4.5.
func (s *LineSocket) SetReadDeadline(t time.Time) error {
	return s.conn.SetReadDeadline(t)
}
