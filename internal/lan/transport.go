package lan

import (
	"fmt"
	"net"
)

// Transport opens the two sockets the controller owns: a receiver bound
// to the well-known reply port with multicast membership, and a sender on
// an ephemeral local port. It exists as a seam so tests can inject fake
// packet connections without touching a real network stack.
type Transport interface {
	// ListenReceiver binds the reply port and joins the multicast group
	ListenReceiver(group string, port int) (net.PacketConn, error)

	// DialSender opens the outbound socket on an ephemeral port
	DialSender() (net.PacketConn, error)
}

// udpTransport is the production Transport over IPv4 UDP.
type udpTransport struct{}

// NewUDPTransport returns the real UDP transport
func NewUDPTransport() Transport {
	return udpTransport{}
}

func (udpTransport) ListenReceiver(group string, port int) (net.PacketConn, error) {
	groupIP := net.ParseIP(group)
	if groupIP == nil {
		return nil, fmt.Errorf("invalid multicast group %q", group)
	}

	// Joining on the default interface; device replies are unicast to
	// this port but membership is still required to see traffic some
	// models send back to the group itself.
	conn, err := net.ListenMulticastUDP("udp4", nil, &net.UDPAddr{IP: groupIP, Port: port})
	if err != nil {
		return nil, fmt.Errorf("failed to bind receiver port %d: %w", port, err)
	}
	return conn, nil
}

func (udpTransport) DialSender() (net.PacketConn, error) {
	conn, err := net.ListenUDP("udp4", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open send socket: %w", err)
	}
	return conn, nil
}
