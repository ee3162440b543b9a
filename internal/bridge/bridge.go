package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/glowlan/glowlan/internal/logging"
	"github.com/glowlan/glowlan/internal/registry"
)

const (
	// Time allowed to write a message to a subscriber
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from a subscriber
	pongWait = 60 * time.Second

	// Send pings to subscribers with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Per-subscriber update buffer; a subscriber that falls this far
	// behind starts losing updates rather than stalling the fanout
	subscriberBuffer = 32
)

// DeviceSource provides registry snapshots. *lan.Controller satisfies it.
type DeviceSource interface {
	Devices(ctx context.Context) ([]registry.DeviceRecord, error)
}

// Config holds the bridge settings
type Config struct {
	// ListenAddr is the address to bind (e.g., "127.0.0.1:8093")
	ListenAddr string

	// Source answers device list requests
	Source DeviceSource
}

// Update is one correlated device status delivered to subscribers
type Update struct {
	DeviceID string                 `json:"device_id"`
	Payload  map[string]interface{} `json:"payload"`
}

// deviceJSON is the wire shape of a registry record on /api/devices
type deviceJSON struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	IP           string          `json:"ip"`
	LANCapable   bool            `json:"lan_capable"`
	Extra        json.RawMessage `json:"extra,omitempty"`
	DiscoveredAt time.Time       `json:"discovered_at"`
}

// Server is the read-only HTTP + WebSocket bridge. Host applications that
// can't link the library poll /api/devices for the registry and hold a
// /ws connection for correlated status updates.
type Server struct {
	cfg *Config
	log *zap.Logger

	httpServer *http.Server
	listener   net.Listener
	upgrader   websocket.Upgrader

	updates  chan Update
	done     chan struct{}
	stopOnce sync.Once

	mu          sync.Mutex
	subscribers map[string]*subscriber
}

type subscriber struct {
	id   string
	conn *websocket.Conn
	send chan Update
}

// New creates a stopped bridge server
func New(cfg *Config) (*Server, error) {
	if cfg.ListenAddr == "" {
		return nil, fmt.Errorf("bridge listen address must not be empty")
	}
	if cfg.Source == nil {
		return nil, fmt.Errorf("bridge requires a device source")
	}

	s := &Server{
		cfg:         cfg,
		log:         logging.GetLogger(),
		updates:     make(chan Update, subscriberBuffer),
		done:        make(chan struct{}),
		subscribers: make(map[string]*subscriber),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/devices", s.handleDevices)
	mux.HandleFunc("/ws", s.handleWebSocket)

	s.httpServer = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s, nil
}

// Start binds the listen address and begins serving. Non-blocking.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to bind bridge address %s: %w", s.cfg.ListenAddr, err)
	}
	s.listener = listener

	go s.fanout()
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("Bridge server error", zap.Error(err))
		}
	}()

	s.log.Info("Bridge listening", zap.String("addr", listener.Addr().String()))
	return nil
}

// Addr returns the bound address, valid after Start. Useful when the
// configured address carries port 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown stops the fanout, disconnects subscribers, and drains the
// HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.done) })

	s.mu.Lock()
	for _, sub := range s.subscribers {
		_ = sub.conn.Close()
	}
	s.subscribers = make(map[string]*subscriber)
	s.mu.Unlock()

	return s.httpServer.Shutdown(ctx)
}

// Publish hands a correlated status update to all connected subscribers.
// It has the lan.UpdateFunc shape, so it wires directly as the
// controller's update callback. Never blocks: when the fanout is saturated
// the update is dropped, matching the transport's no-delivery-guarantee
// posture.
func (s *Server) Publish(deviceID string, payload map[string]interface{}) {
	select {
	case s.updates <- Update{DeviceID: deviceID, Payload: payload}:
	default:
		s.log.Warn("Dropping update, bridge fanout saturated",
			zap.String("device_id", deviceID),
		)
	}
}

// fanout relays published updates to every subscriber's send buffer
func (s *Server) fanout() {
	for {
		select {
		case <-s.done:
			return
		case u := <-s.updates:
			s.mu.Lock()
			for _, sub := range s.subscribers {
				select {
				case sub.send <- u:
				default:
					// Slow subscriber loses this update
				}
			}
			s.mu.Unlock()
		}
	}
}

func (s *Server) handleDevices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	records, err := s.cfg.Source.Devices(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	out := make([]deviceJSON, 0, len(records))
	for _, rec := range records {
		out = append(out, deviceJSON{
			ID:           rec.ID,
			SKU:          rec.SKU,
			IP:           rec.IP,
			LANCapable:   rec.LANCapable,
			Extra:        rec.Extra,
			DiscoveredAt: rec.DiscoveredAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		s.log.Warn("Failed to encode device list", zap.Error(err))
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	sub := &subscriber{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan Update, subscriberBuffer),
	}

	s.mu.Lock()
	s.subscribers[sub.id] = sub
	s.mu.Unlock()

	s.log.Info("Bridge subscriber connected",
		zap.String("subscriber_id", sub.id),
		zap.String("remote_addr", r.RemoteAddr),
	)

	go s.writePump(sub)
	s.readPump(sub)
}

// readPump discards inbound frames and detects disconnect. The bridge is
// read-only; subscribers send nothing but control frames.
func (s *Server) readPump(sub *subscriber) {
	defer s.dropSubscriber(sub)

	_ = sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.conn.SetPongHandler(func(string) error {
		return sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writePump(sub *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case u := <-sub.send:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteJSON(u); err != nil {
				return
			}
		case <-ticker.C:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) dropSubscriber(sub *subscriber) {
	s.mu.Lock()
	delete(s.subscribers, sub.id)
	s.mu.Unlock()

	_ = sub.conn.Close()
	s.log.Info("Bridge subscriber disconnected",
		zap.String("subscriber_id", sub.id),
	)
}
