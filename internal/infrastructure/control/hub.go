package control

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/bnema/geobadge/internal/app/events"
	"github.com/bnema/geobadge/internal/domain/entity"
	"github.com/bnema/geobadge/internal/logging"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	readLimit    = 4 * 1024
	pongWait     = 90 * time.Second
	pingInterval = 30 * time.Second
	writeWait    = 10 * time.Second
	sendBuffer   = 32
)

// Hub fans daemon events out to websocket clients and accepts "message" frames.
type Hub struct {
	backend  Backend
	upgrader websocket.Upgrader

	mu     sync.Mutex
	conns  map[string]*wsConn
	closed bool
}

type wsConn struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func (c *wsConn) stop() {
	c.once.Do(func() { close(c.done) })
}

func NewHub(backend Backend) *Hub {
	return &Hub{
		backend: backend,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     allowedOrigin,
		},
		conns: make(map[string]*wsConn),
	}
}

// allowedOrigin accepts non-browser clients, browser extensions and loopback pages.
func allowedOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "moz-extension", "chrome-extension":
		return true
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

// EventSource is what the hub attaches to: the bus itself or a service
// that orders its own listeners first.
type EventSource interface {
	Subscribe(handler events.Handler, types ...events.Type) func()
}

// Attach subscribes the hub to src. The returned func detaches it.
func (h *Hub) Attach(src EventSource) func() {
	return src.Subscribe(h.onEvent, events.BadgeChanged, events.StateChanged, events.StorageChanged)
}

func (h *Hub) onEvent(ctx context.Context, e events.Event) {
	switch e.Type {
	case events.BadgeChanged:
		if e.Badge != nil {
			h.broadcast(ctx, FrameBadge, e.Badge)
		}
	case events.StateChanged:
		payload := StatePayload{State: e.State}
		if e.Err != nil {
			payload.LastError = e.Err.Error()
		}
		h.broadcast(ctx, FrameState, payload)
	case events.StorageChanged:
		st, err := h.backend.Status(ctx)
		if err != nil {
			logging.FromContext(ctx).Warn().Err(err).Msg("hub: failed to build status")
			return
		}
		if e.HasKey(entity.StorageKeyData) {
			h.broadcast(ctx, FrameLocation, st.Location)
		}
		h.broadcast(ctx, FrameStatus, st)
	}
}

func (h *Hub) broadcast(ctx context.Context, frameType string, payload any) {
	frame, err := NewFrame(frameType, payload)
	if err != nil {
		logging.FromContext(ctx).Error().Err(err).Str("frame", frameType).Msg("hub: encode frame")
		return
	}
	h.Broadcast(ctx, frame)
}

// Broadcast queues frame for every client. Slow clients drop frames.
func (h *Hub) Broadcast(ctx context.Context, frame Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		return
	}

	h.mu.Lock()
	conns := make([]*wsConn, 0, len(h.conns))
	for _, c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		select {
		case c.send <- data:
		default:
			logging.FromContext(ctx).Warn().Str("conn", c.id).Str("frame", frame.Type).Msg("hub: client too slow, dropping frame")
		}
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	conns := h.conns
	h.conns = make(map[string]*wsConn)
	h.mu.Unlock()

	for _, c := range conns {
		c.stop()
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		writeError(w, http.StatusServiceUnavailable, "shutting down")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &wsConn{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	ctx := logging.With(context.WithoutCancel(r.Context()), map[string]any{"conn": c.id})

	h.mu.Lock()
	h.conns[c.id] = c
	h.mu.Unlock()
	logging.FromContext(ctx).Debug().Msg("websocket client connected")

	if st, err := h.backend.Status(ctx); err == nil {
		if frame, err := NewFrame(FrameStatus, st); err == nil {
			if data, err := json.Marshal(frame); err == nil {
				c.send <- data
			}
		}
	}

	go h.writeLoop(ctx, c)
	h.readLoop(ctx, c)

	h.mu.Lock()
	if h.conns[c.id] == c {
		delete(h.conns, c.id)
	}
	h.mu.Unlock()
	c.stop()
	logging.FromContext(ctx).Debug().Msg("websocket client disconnected")
}

func (h *Hub) readLoop(ctx context.Context, c *wsConn) {
	log := logging.FromContext(ctx)
	defer func() { _ = c.conn.Close() }()

	c.conn.SetReadLimit(readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var frame Frame
		if err := c.conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Msg("websocket read error")
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

		h.handleFrame(ctx, c, frame)
	}
}

func (h *Hub) handleFrame(ctx context.Context, c *wsConn, frame Frame) {
	log := logging.FromContext(ctx)

	if frame.Type != FrameMessage {
		log.Debug().Str("frame", frame.Type).Msg("ignoring websocket frame")
		return
	}

	var message string
	if err := json.Unmarshal(frame.Payload, &message); err != nil {
		log.Debug().Err(err).Msg("invalid message payload")
		return
	}

	// runs off the read loop so pongs keep flowing during a slow provider call
	go func() {
		defer logging.Recover(ctx, "hub.message")
		if err := h.backend.HandleMessage(ctx, message); err != nil {
			log.Warn().Err(err).Str("message", message).Msg("websocket message failed")
			if f, ferr := NewFrame(FrameError, errorResponse{Error: err.Error()}); ferr == nil {
				if data, merr := json.Marshal(f); merr == nil {
					select {
					case c.send <- data:
					default:
					}
				}
			}
		}
	}()
}

func (h *Hub) writeLoop(ctx context.Context, c *wsConn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "daemon stopping"),
				time.Now().Add(writeWait))
			_ = c.conn.Close()
			return
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				logging.FromContext(ctx).Debug().Err(err).Msg("websocket write failed")
				_ = c.conn.Close()
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
