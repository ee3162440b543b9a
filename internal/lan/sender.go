package lan

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/glowlan/glowlan/internal/logging"
	"github.com/glowlan/glowlan/internal/protocol"
	"github.com/glowlan/glowlan/internal/registry"
)

// requests cross from caller goroutines into the event loop; the loop
// resolves each one into the buffered reply channel so a caller that gave
// up (context cancelled) never blocks it.

type requestKind int

const (
	reqControl requestKind = iota
	reqStatus
	reqSnapshot
)

type request struct {
	kind     requestKind
	deviceID string
	cmd      string
	params   interface{}
	reply    chan response
}

type response struct {
	err     error
	devices []registry.DeviceRecord
}

// SendControl delivers one unicast control command to the device's
// control port. The returned error covers the local send only - UDP gives
// no delivery guarantee and devices send no acknowledgment. A send
// failure evicts the device from the registry; a command for an unknown
// device ID returns ErrDeviceNotFound without any network traffic.
func (c *Controller) SendControl(ctx context.Context, deviceID, cmd string, params interface{}) error {
	_, err := c.submit(ctx, &request{
		kind:     reqControl,
		deviceID: deviceID,
		cmd:      cmd,
		params:   params,
	})
	return err
}

// SendStatusRequest asks the device to report its current state. The
// reply, if any, arrives on the receiver socket and is delivered through
// the update callback. Failure semantics match SendControl.
func (c *Controller) SendStatusRequest(ctx context.Context, deviceID string) error {
	_, err := c.submit(ctx, &request{
		kind:     reqStatus,
		deviceID: deviceID,
	})
	return err
}

// Control sends a command and then pulls fresh status once the device has
// had time to apply it. Device state is not synchronous with command
// receipt, so the status request waits the configured settle delay; the
// event loop keeps processing other traffic while the delay pends.
func (c *Controller) Control(ctx context.Context, deviceID, cmd string, params interface{}) error {
	if err := c.SendControl(ctx, deviceID, cmd, params); err != nil {
		return err
	}

	settle := time.Duration(c.cfg.Discovery.SettleDelayMS) * time.Millisecond
	select {
	case <-time.After(settle):
	case <-ctx.Done():
		return ctx.Err()
	}

	return c.SendStatusRequest(ctx, deviceID)
}

// Devices returns a point-in-time snapshot of the registry. Records are
// copied out of the loop, so callers may hold them freely.
func (c *Controller) Devices(ctx context.Context) ([]registry.DeviceRecord, error) {
	return c.submit(ctx, &request{kind: reqSnapshot})
}

// submit routes a request through the event loop and waits for its
// resolution or the caller's context.
func (c *Controller) submit(ctx context.Context, req *request) ([]registry.DeviceRecord, error) {
	if !c.running.Load() {
		return nil, ErrNotRunning
	}

	req.reply = make(chan response, 1)

	select {
	case c.requests <- req:
	case <-c.quit:
		return nil, ErrNotRunning
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case resp := <-req.reply:
		return resp.devices, resp.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// handleRequest runs on the event loop
func (c *Controller) handleRequest(req *request) {
	switch req.kind {
	case reqSnapshot:
		records := c.registry.Devices()
		out := make([]registry.DeviceRecord, 0, len(records))
		for _, rec := range records {
			out = append(out, *rec)
		}
		req.reply <- response{devices: out}

	case reqControl:
		req.reply <- response{err: c.unicastControl(req.deviceID, req.cmd, req.params)}

	case reqStatus:
		req.reply <- response{err: c.unicastStatus(req.deviceID)}
	}
}

func (c *Controller) unicastControl(deviceID, cmd string, params interface{}) error {
	rec := c.registry.FindByID(deviceID)
	if rec == nil {
		return fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
	}

	data, err := protocol.BuildControl(cmd, params)
	if err != nil {
		return err
	}

	return c.deliver(rec, data)
}

func (c *Controller) unicastStatus(deviceID string) error {
	rec := c.registry.FindByID(deviceID)
	if rec == nil {
		return fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
	}

	data, err := protocol.BuildStatusRequest()
	if err != nil {
		return err
	}

	return c.deliver(rec, data)
}

// deliver sends one unicast datagram to the device's control port and
// applies the eviction policy on failure.
func (c *Controller) deliver(rec *registry.DeviceRecord, data []byte) error {
	ip := net.ParseIP(rec.IP)
	if ip == nil {
		err := fmt.Errorf("device %s has unusable address %q", rec.ID, rec.IP)
		c.evictOnSendFailure(rec, err)
		return err
	}

	addr := &net.UDPAddr{IP: ip, Port: c.cfg.Network.ControlPort}
	if _, err := c.send.WriteTo(data, addr); err != nil {
		c.evictOnSendFailure(rec, err)
		return fmt.Errorf("send to %s failed: %w", addr, err)
	}

	logging.LogDatagram("sent", addr.String(), data)
	return nil
}

// evictOnSendFailure is the post-send policy: one failed unicast is read
// as the device having left the network or changed address. The record is
// dropped so later commands fail fast with ErrDeviceNotFound; the next
// scan reply the device answers re-registers it at its current address.
// A transient network error pays the same price as a real departure;
// rediscovery keeps the cost to one lost command.
func (c *Controller) evictOnSendFailure(rec *registry.DeviceRecord, cause error) {
	c.registry.Remove(rec.ID)
	c.log.Warn("Evicting device after failed send",
		zap.String("device_id", rec.ID),
		zap.String("ip", rec.IP),
		zap.Error(cause),
	)
}
