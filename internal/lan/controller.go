package lan

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/glowlan/glowlan/internal/config"
	"github.com/glowlan/glowlan/internal/logging"
	"github.com/glowlan/glowlan/internal/protocol"
	"github.com/glowlan/glowlan/internal/registry"
)

// UpdateFunc receives status payloads correlated to a registered device.
//
// It is invoked on the controller's event loop goroutine: implementations
// must not block and must not call back into the controller synchronously
// (hand the payload to a channel or goroutine instead).
type UpdateFunc func(deviceID string, payload map[string]interface{})

// datagram is one received packet handed from the reader to the loop
type datagram struct {
	data []byte
	addr net.Addr
}

// Controller owns the discovery-and-transport subsystem: the multicast
// scan schedule, the inbound listener, the device registry, and unicast
// command delivery. All registry access is confined to its event loop
// goroutine, so the registry itself carries no locking.
type Controller struct {
	cfg       *config.Config
	log       *zap.Logger
	transport Transport
	onUpdate  UpdateFunc

	registry *registry.Registry // loop-confined, never touch off-loop

	recv         net.PacketConn
	send         net.PacketConn
	scanAddr     *net.UDPAddr
	scanDatagram []byte

	datagrams  chan datagram
	requests   chan *request
	quit       chan struct{}
	readerDone chan struct{}
	loopDone   chan struct{}

	mu      sync.Mutex // serializes Start and Stop
	running atomic.Bool
}

// Option configures a Controller
type Option func(*Controller)

// WithTransport overrides the socket transport (used by tests to inject
// fake packet connections)
func WithTransport(t Transport) Option {
	return func(c *Controller) { c.transport = t }
}

// WithLogger overrides the logger, which otherwise comes from the global
// logging package
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithOnUpdate sets the callback invoked for each correlated status reply
func WithOnUpdate(fn UpdateFunc) Option {
	return func(c *Controller) { c.onUpdate = fn }
}

// New creates a stopped controller. Call Start to open sockets and begin
// scanning.
func New(cfg *config.Config, opts ...Option) *Controller {
	c := &Controller{
		cfg:       cfg,
		log:       logging.GetLogger(),
		transport: NewUDPTransport(),
		registry:  registry.New(),
		requests:  make(chan *request),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start opens both sockets, begins the read and event loops, and fires
// the initial scan broadcast. Returns ErrAlreadyRunning on a running
// controller.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running.Load() {
		return ErrAlreadyRunning
	}

	nw := c.cfg.Network

	groupIP := net.ParseIP(nw.MulticastGroup)
	if groupIP == nil {
		return fmt.Errorf("invalid multicast group %q", nw.MulticastGroup)
	}

	scanDatagram, err := protocol.BuildScanRequest()
	if err != nil {
		return err
	}

	recv, err := c.transport.ListenReceiver(nw.MulticastGroup, nw.ReceivePort)
	if err != nil {
		return err
	}

	send, err := c.transport.DialSender()
	if err != nil {
		_ = recv.Close()
		return err
	}

	c.recv = recv
	c.send = send
	c.scanAddr = &net.UDPAddr{IP: groupIP, Port: nw.ScanPort}
	c.scanDatagram = scanDatagram
	c.datagrams = make(chan datagram, 64)
	c.quit = make(chan struct{})
	c.readerDone = make(chan struct{})
	c.loopDone = make(chan struct{})

	go c.readLoop()
	go c.run()

	// Published last: submit gates on this flag before touching the
	// channels, so every field above must be in place first
	c.running.Store(true)

	c.log.Info("LAN controller started",
		zap.String("group", nw.MulticastGroup),
		zap.Int("scan_port", nw.ScanPort),
		zap.Int("receive_port", nw.ReceivePort),
		zap.Int("scan_interval_ms", c.cfg.Discovery.ScanIntervalMS),
	)
	return nil
}

// Stop tears the controller down: stops the scan schedule, closes both
// sockets, and waits for the reader and event loop to exit. Safe to call
// on a stopped controller, and the controller may be started again after.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running.Load() {
		return
	}
	c.running.Store(false)

	close(c.quit)
	_ = c.recv.Close() // unblocks the reader
	<-c.readerDone
	<-c.loopDone
	_ = c.send.Close()

	c.log.Info("LAN controller stopped")
}

// run is the event loop. It is the only goroutine that touches the
// registry or writes to the send socket.
func (c *Controller) run() {
	defer close(c.loopDone)

	ticker := time.NewTicker(time.Duration(c.cfg.Discovery.ScanIntervalMS) * time.Millisecond)
	defer ticker.Stop()

	// One scan up front so devices answer without waiting a full period
	c.broadcastScan()

	for {
		select {
		case <-c.quit:
			return
		case dg, ok := <-c.datagrams:
			if !ok {
				// Reader died; discovery is disabled from here on but
				// commands against already-known devices keep working
				c.datagrams = nil
				continue
			}
			c.handleDatagram(dg)
		case <-ticker.C:
			c.broadcastScan()
		case req := <-c.requests:
			c.handleRequest(req)
		}
	}
}

// readLoop feeds received datagrams into the event loop. A persistent
// socket error ends it; the receiver is not restarted.
func (c *Controller) readLoop() {
	defer close(c.readerDone)

	// Captured so the deferred close can never reach a channel belonging
	// to a later Start
	dgs := c.datagrams
	defer close(dgs)

	buf := make([]byte, protocol.MaxDatagramSize)
	for {
		n, addr, err := c.recv.ReadFrom(buf)
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				c.log.Warn("Receiver socket error, discovery disabled",
					zap.Error(err),
				)
			}
			return
		}

		data := make([]byte, n)
		copy(data, buf[:n])

		select {
		case dgs <- datagram{data: data, addr: addr}:
		case <-c.quit:
			return
		}
	}
}

// broadcastScan emits one scan request to the multicast group. A send
// error skips this scan; the cadence is unaffected.
func (c *Controller) broadcastScan() {
	if _, err := c.send.WriteTo(c.scanDatagram, c.scanAddr); err != nil {
		c.log.Warn("Scan broadcast failed",
			zap.String("group_addr", c.scanAddr.String()),
			zap.Error(err),
		)
		return
	}
	logging.LogScan(c.scanAddr.String())
}

// handleDatagram classifies one received packet by its command tag
func (c *Controller) handleDatagram(dg datagram) {
	logging.LogDatagram("received", dg.addr.String(), dg.data)

	env, err := protocol.ParseEnvelope(dg.data)
	if err != nil {
		c.log.Warn("Dropping malformed datagram",
			zap.String("remote_addr", dg.addr.String()),
			zap.Error(err),
		)
		return
	}

	switch env.Msg.Cmd {
	case protocol.CmdScan:
		c.handleScanReply(env, dg.addr)
	case protocol.CmdDevStatus:
		c.handleStatusReply(env, dg.addr)
	default:
		// Unrecognized tags are normal on a shared group; ignore
		c.log.Debug("Ignoring unrecognized command tag",
			zap.String("cmd", env.Msg.Cmd),
		)
	}
}

// handleScanReply registers a previously-unseen device. A reply for a
// known device ID is intentionally a no-op, even when the device's
// address changed: the stale entry lives until a failed send evicts it
// and the next scan re-registers the device.
func (c *Controller) handleScanReply(env *protocol.Envelope, src net.Addr) {
	info, err := env.DeviceInfo()
	if err != nil {
		c.log.Warn("Dropping invalid scan reply",
			zap.String("remote_addr", src.String()),
			zap.Error(err),
		)
		return
	}

	if c.registry.FindByID(info.Device) != nil {
		return
	}

	ip := info.IP
	if ip == "" {
		// Some firmware omits the self-reported address
		ip = remoteHost(src)
	}

	capable := c.cfg.IsLANCapable(info.SKU)
	if !capable {
		c.log.Warn("Model not in LAN capability list, tracking anyway",
			zap.String("device_id", info.Device),
			zap.String("sku", info.SKU),
		)
	}

	c.registry.Add(&registry.DeviceRecord{
		ID:           info.Device,
		SKU:          info.SKU,
		IP:           ip,
		LANCapable:   capable,
		Extra:        env.Msg.Data,
		DiscoveredAt: time.Now(),
	})

	c.log.Info("Device registered",
		zap.String("device_id", info.Device),
		zap.String("sku", info.SKU),
		zap.String("ip", ip),
	)
}

// handleStatusReply correlates a status payload to a registered device by
// the packet's source address and hands it to the owner's callback.
func (c *Controller) handleStatusReply(env *protocol.Envelope, src net.Addr) {
	rec := c.registry.FindByAddress(remoteHost(src))
	if rec == nil {
		// Expected for stray or unrelated packets; nothing to correlate
		c.log.Debug("Status reply from unknown address",
			zap.String("remote_addr", src.String()),
		)
		return
	}

	payload, err := env.StatusPayload()
	if err != nil {
		c.log.Warn("Dropping malformed status payload",
			zap.String("device_id", rec.ID),
			zap.Error(err),
		)
		return
	}

	if c.onUpdate != nil {
		c.onUpdate(rec.ID, payload)
	}
}

// remoteHost extracts the host part of a packet source address
func remoteHost(addr net.Addr) string {
	if udp, ok := addr.(*net.UDPAddr); ok {
		return udp.IP.String()
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
