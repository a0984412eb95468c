package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
)

// Handler processes a received envelope. Return nil to send no reply.
type Handler func(ctx context.Context, env Envelope) (*Envelope, error)

// Connection is one bot host session. Player is filled in after hello.
type Connection struct {
	conn     net.Conn
	handlers map[string]Handler
	Player   string

	writeMu sync.Mutex
}

func NewConnection(conn net.Conn, handlers map[string]Handler) *Connection {
	if handlers == nil {
		handlers = make(map[string]Handler)
	}
	return &Connection{conn: conn, handlers: handlers}
}

func (c *Connection) RegisterHandler(msgType string, handler Handler) {
	c.handlers[msgType] = handler
}

// Send writes a message to the host. Safe for use from handlers and from
// other goroutines.
func (c *Connection) Send(msgType string, data any) error {
	env, err := NewEnvelope(msgType, data)
	if err != nil {
		return err
	}
	return c.write(env)
}

func (c *Connection) write(env Envelope) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return WriteEnvelope(c.conn, env)
}

// errWrite ends the read loop: once a reply cannot be written the host is gone.
var errWrite = errors.New("write reply")

// ReadLoop serves envelopes until the connection closes, a reply cannot be
// written, or ctx is done. It closes the conn on return.
func (c *Connection) ReadLoop(ctx context.Context) {
	defer c.conn.Close()

	stop := context.AfterFunc(ctx, func() { c.conn.Close() })
	defer stop()

	for {
		env, err := ReadEnvelope(c.conn)
		if err != nil {
			slog.Info("connection read ended", "player", c.Player, "error", err)
			return
		}
		if err := c.dispatch(ctx, env); err != nil {
			if errors.Is(err, errWrite) {
				slog.Error("connection write failed", "player", c.Player, "error", err)
				return
			}
			slog.Error("handler error", "type", env.Type, "player", c.Player, "error", err)
		}
	}
}

// dispatch runs the handler for env and writes its reply, if any.
// Unknown message types are logged and dropped.
func (c *Connection) dispatch(ctx context.Context, env Envelope) error {
	handler, ok := c.handlers[env.Type]
	if !ok {
		slog.Warn("no handler for message type", "type", env.Type)
		return nil
	}

	resp, err := handler(ctx, env)
	if err != nil {
		return err
	}
	if resp == nil {
		return nil
	}
	if err := c.write(*resp); err != nil {
		return fmt.Errorf("%w %s: %w", errWrite, resp.Type, err)
	}
	slog.Debug("sent response", "type", resp.Type, "player", c.Player)
	return nil
}
