package lan

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/glowlan/glowlan/internal/config"
)

// fakePacketConn is an in-memory net.PacketConn. Reads drain the inbound
// channel; writes are recorded and can be forced to fail.
type fakePacketConn struct {
	mu         sync.Mutex
	writes     []fakeWrite
	failWrites bool

	inbound   chan fakePacket
	closed    chan struct{}
	closeOnce sync.Once
}

type fakePacket struct {
	data []byte
	addr net.Addr
}

type fakeWrite struct {
	data []byte
	addr string
}

func newFakePacketConn() *fakePacketConn {
	return &fakePacketConn{
		inbound: make(chan fakePacket, 16),
		closed:  make(chan struct{}),
	}
}

func (f *fakePacketConn) ReadFrom(p []byte) (int, net.Addr, error) {
	select {
	case pkt := <-f.inbound:
		n := copy(p, pkt.data)
		return n, pkt.addr, nil
	case <-f.closed:
		return 0, nil, net.ErrClosed
	}
}

func (f *fakePacketConn) WriteTo(p []byte, addr net.Addr) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWrites {
		return 0, errors.New("simulated send failure")
	}

	f.writes = append(f.writes, fakeWrite{
		data: append([]byte(nil), p...),
		addr: addr.String(),
	})
	return len(p), nil
}

func (f *fakePacketConn) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

func (f *fakePacketConn) LocalAddr() net.Addr {
	return &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0}
}

func (f *fakePacketConn) SetDeadline(t time.Time) error      { return nil }
func (f *fakePacketConn) SetReadDeadline(t time.Time) error  { return nil }
func (f *fakePacketConn) SetWriteDeadline(t time.Time) error { return nil }

func (f *fakePacketConn) setFailWrites(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWrites = fail
}

func (f *fakePacketConn) allWrites() []fakeWrite {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]fakeWrite(nil), f.writes...)
}

func (f *fakePacketConn) writesTo(addr string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, w := range f.writes {
		if w.addr == addr {
			n++
		}
	}
	return n
}

// fakeTransport hands the controller a pair of fake connections
type fakeTransport struct {
	recv *fakePacketConn
	send *fakePacketConn
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		recv: newFakePacketConn(),
		send: newFakePacketConn(),
	}
}

func (t *fakeTransport) ListenReceiver(group string, port int) (net.PacketConn, error) {
	return t.recv, nil
}

func (t *fakeTransport) DialSender() (net.PacketConn, error) {
	return t.send, nil
}

// restartTransport issues a fresh connection pair on every cycle, the
// way the real transport opens new sockets for each Start
type restartTransport struct {
	mu   sync.Mutex
	recv *fakePacketConn
	send *fakePacketConn
}

func (t *restartTransport) ListenReceiver(group string, port int) (net.PacketConn, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recv = newFakePacketConn()
	return t.recv, nil
}

func (t *restartTransport) DialSender() (net.PacketConn, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.send = newFakePacketConn()
	return t.send, nil
}

func (t *restartTransport) current() (recv, send *fakePacketConn) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.recv, t.send
}

// inject delivers a datagram to the controller's receiver as if it came
// from the given source host
func (t *fakeTransport) inject(data string, fromHost string) {
	t.recv.inbound <- fakePacket{
		data: []byte(data),
		addr: &net.UDPAddr{IP: net.ParseIP(fromHost), Port: 51234},
	}
}

// testConfig returns defaults with the scan ticker effectively disabled
// so scheduled scans don't interfere with write counting
func testConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Discovery.ScanIntervalMS = 3_600_000
	cfg.Discovery.SettleDelayMS = 1
	return cfg
}

func startController(t *testing.T, cfg *config.Config, opts ...Option) (*Controller, *fakeTransport) {
	t.Helper()

	tr := newFakeTransport()
	c := New(cfg, append([]Option{WithTransport(tr)}, opts...)...)
	if err := c.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(c.Stop)
	return c, tr
}

// waitFor polls cond until it holds or the test deadline budget runs out
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func deviceCount(t *testing.T, c *Controller) int {
	t.Helper()

	devices, err := c.Devices(context.Background())
	if err != nil {
		t.Fatalf("Devices() error = %v", err)
	}
	return len(devices)
}

// scanReply builds a scan reply datagram for tests
func scanReply(id, sku, ip string) string {
	return `{"msg":{"cmd":"scan","data":{"device":"` + id + `","sku":"` + sku + `","ip":"` + ip + `"}}}`
}
