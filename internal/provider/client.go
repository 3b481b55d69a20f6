package provider

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/eulertour/manim-opengl-tutorial/internal/geometry"
)

// DefaultTimeout bounds a request whose context has no deadline.
const DefaultTimeout = 5 * time.Second

// Client is a Provider backed by a geometry server. Requests are
// serialized over a single connection that is dialed lazily and redialed
// after a failure.
type Client struct {
	url     string
	timeout time.Duration
	log     *zap.Logger
	dialer  *websocket.Dialer

	mu     sync.Mutex
	conn   *websocket.Conn
	nextID uint64
}

// NewClient creates a client for the websocket URL url. A zero timeout
// uses DefaultTimeout and a nil logger disables logging.
func NewClient(url string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{url: url, timeout: timeout, log: log, dialer: websocket.DefaultDialer}
}

// Geometry implements Provider.
func (c *Client) Geometry(ctx context.Context, req GeometryRequest) (*geometry.Geometry, error) {
	resp, err := c.roundTrip(ctx, &request{Op: opGeometry, Geometry: &req})
	if err != nil {
		return nil, err
	}
	if resp.Geometry == nil {
		return nil, errors.Errorf("geometry %q: empty response", req.Name)
	}
	return resp.Geometry.geometry(), nil
}

// Material implements Provider.
func (c *Client) Material(ctx context.Context, req MaterialRequest) (*MaterialSource, error) {
	resp, err := c.roundTrip(ctx, &request{Op: opMaterial, Material: &req})
	if err != nil {
		return nil, err
	}
	if resp.Material == nil {
		return nil, errors.Errorf("material %q: empty response", req.Kind)
	}
	return resp.Material, nil
}

// Close closes the connection, if any.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) roundTrip(ctx context.Context, req *request) (*response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "dialing %s", c.url)
		}
		c.log.Debug("connected to geometry server", zap.String("url", c.url))
		c.conn = conn
	}

	c.nextID++
	req.ID = c.nextID

	resp, err := c.exchange(ctx, req)
	if err != nil {
		c.log.Warn("geometry server request failed",
			zap.String("op", req.Op),
			zap.Error(err),
		)
		c.conn.Close()
		c.conn = nil
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.Wrap(ctxErr, req.Op)
		}
		return nil, errors.Wrap(err, req.Op)
	}
	if resp.Error != "" {
		return nil, errors.Wrapf(ErrRemote, "%s: %s", req.Op, resp.Error)
	}
	return resp, nil
}

// exchange writes req and reads its response. Cancelling ctx unblocks the
// read by expiring the connection deadline.
func (c *Client) exchange(ctx context.Context, req *request) (*response, error) {
	conn := c.conn
	deadline, _ := ctx.Deadline()
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return nil, err
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return nil, err
	}

	// The watcher must be finished before the mutex is released, or a late
	// cancellation would expire the next request's deadline.
	fired := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		defer close(fired)
		_ = conn.SetReadDeadline(time.Now())
	})
	defer func() {
		if !stop() {
			<-fired
		}
	}()

	if err := conn.WriteJSON(req); err != nil {
		return nil, errors.Wrap(err, "writing request")
	}
	for {
		var resp response
		if err := conn.ReadJSON(&resp); err != nil {
			return nil, errors.Wrap(err, "reading response")
		}
		if resp.ID == req.ID {
			return &resp, nil
		}
		c.log.Debug("dropping stale response", zap.Uint64("id", resp.ID), zap.Uint64("want", req.ID))
	}
}
