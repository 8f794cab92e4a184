package control

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/bnema/geobadge/internal/domain/entity"
	"github.com/gorilla/websocket"
)

// ErrDaemonUnavailable is returned when nothing listens on the control address.
var ErrDaemonUnavailable = errors.New("geobadge daemon is not running")

// Client talks to a running daemon.
type Client struct {
	addr string
	http *http.Client
}

// NewClient creates a client for the daemon at addr (host:port).
func NewClient(addr string, timeout time.Duration) *Client {
	if addr == "" {
		addr = DefaultListenAddr
	}
	return &Client{addr: addr, http: &http.Client{Timeout: timeout}}
}

func (c *Client) Status(ctx context.Context) (Status, error) {
	var st Status
	err := c.do(ctx, http.MethodGet, "/api/state", nil, &st)
	return st, err
}

func (c *Client) Location(ctx context.Context) (*entity.LocationRecord, error) {
	var rec *entity.LocationRecord
	err := c.do(ctx, http.MethodGet, "/api/location", nil, &rec)
	return rec, err
}

func (c *Client) Badge(ctx context.Context) (entity.Badge, error) {
	var b entity.Badge
	err := c.do(ctx, http.MethodGet, "/api/badge", nil, &b)
	return b, err
}

// SendMessage posts a runtime message and returns the status after it was handled.
func (c *Client) SendMessage(ctx context.Context, message string) (Status, error) {
	var st Status
	err := c.do(ctx, http.MethodPost, "/api/messages", MessageRequest{Message: message}, &st)
	return st, err
}

// Trigger fires a named trigger and returns the status after it was handled.
func (c *Client) Trigger(ctx context.Context, trigger entity.Trigger) (Status, error) {
	var st Status
	err := c.do(ctx, http.MethodPost, "/api/triggers/"+url.PathEscape(string(trigger)), nil, &st)
	return st, err
}

// Subscribe opens /ws and streams frames until ctx is cancelled or the daemon goes away.
// The returned channel is closed when the connection ends.
func (c *Client) Subscribe(ctx context.Context) (<-chan Frame, error) {
	u := url.URL{Scheme: "ws", Host: c.addr, Path: "/ws"}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, wrapDialError(err)
	}

	frames := make(chan Frame, sendBuffer)
	go func() {
		<-ctx.Done()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		_ = conn.Close()
	}()
	go func() {
		defer close(frames)
		for {
			var f Frame
			if err := conn.ReadJSON(&f); err != nil {
				return
			}
			select {
			case frames <- f:
			case <-ctx.Done():
				return
			}
		}
	}()
	return frames, nil
}

// SendFrame opens a short-lived websocket connection and sends one message frame.
func (c *Client) SendFrame(ctx context.Context, message string) error {
	u := url.URL{Scheme: "ws", Host: c.addr, Path: "/ws"}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return wrapDialError(err)
	}
	defer func() { _ = conn.Close() }()

	frame, err := NewFrame(FrameMessage, message)
	if err != nil {
		return err
	}
	return conn.WriteJSON(frame)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, "http://"+c.addr+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return wrapDialError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e errorResponse
		if json.NewDecoder(resp.Body).Decode(&e) == nil && e.Error != "" {
			return fmt.Errorf("%s %s: %s", method, path, e.Error)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func wrapDialError(err error) error {
	if errors.Is(err, syscall.ECONNREFUSED) || strings.Contains(err.Error(), "connection refused") {
		return fmt.Errorf("%w: %w", ErrDaemonUnavailable, err)
	}
	return err
}
