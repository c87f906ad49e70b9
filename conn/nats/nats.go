// Package nats provides a connection backend over NATS core. Requests are
// published on a configured subject with a per-connection inbox as the
// reply-to; inbound frames on the inbox are demultiplexed by command id.
package nats

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/nats-io/nats.go"

	"github.com/drblury/schemarpc/conn"
	"github.com/drblury/schemarpc/internal/runtime/jsoncodec"
	"github.com/drblury/schemarpc/wire"
)

// ConnectionName is the name used to register this backend.
const ConnectionName = "nats"

// DefaultSubject is used when the config leaves the subject empty.
const DefaultSubject = "schemarpc.rpc"

// Dial allows overriding the server connection for testing.
var Dial = func(url string) (*nats.Conn, error) {
	return nats.Connect(url)
}

func init() {
	conn.RegisterWithCapabilities(ConnectionName, Build, conn.NATSCapabilities)
}

// Build dials the configured NATS server and wires a connection.
func Build(ctx context.Context, cfg conn.Config, logger watermill.LoggerAdapter) (conn.Connection, error) {
	url := cfg.GetNATSURL()
	if url == "" {
		url = nats.DefaultURL
	}
	subject := cfg.GetNATSSubject()
	if subject == "" {
		subject = DefaultSubject
	}

	nc, err := Dial(url)
	if err != nil {
		return nil, err
	}

	c, err := New(nc, subject, logger)
	if err != nil {
		nc.Close()
		return nil, err
	}
	c.ownsNC = true
	return c, nil
}

// Capabilities returns the capabilities of this backend.
func Capabilities() conn.Capabilities {
	return conn.NATSCapabilities
}

// Conn is a connection over a NATS core connection.
type Conn struct {
	nc      *nats.Conn
	subject string
	inbox   string
	sub     *nats.Subscription
	logger  watermill.LoggerAdapter
	ownsNC  bool

	mu       sync.Mutex
	handlers map[uint64]func(*wire.Reply)
}

// New wires a connection over an existing NATS connection. The inbox
// subscription is established before New returns, so no reply can arrive
// ahead of it.
func New(nc *nats.Conn, subject string, logger watermill.LoggerAdapter) (*Conn, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	c := &Conn{
		nc:       nc,
		subject:  subject,
		inbox:    nats.NewInbox(),
		logger:   logger,
		handlers: make(map[uint64]func(*wire.Reply)),
	}

	sub, err := nc.Subscribe(c.inbox, c.onReply)
	if err != nil {
		return nil, err
	}
	c.sub = sub

	return c, nil
}

// SendCommand publishes the request with the inbox as reply-to. The reply
// handler is registered before publishing so an immediate reply is never
// dropped.
func (c *Conn) SendCommand(req *wire.Request, id uint64, onReply func(*wire.Reply)) error {
	c.mu.Lock()
	c.handlers[id] = onReply
	c.mu.Unlock()

	payload, err := jsoncodec.Marshal(req)
	if err != nil {
		c.forget(id)
		return err
	}

	if err := c.nc.PublishRequest(c.subject, c.inbox, payload); err != nil {
		c.forget(id)
		return err
	}
	return nil
}

// Close drops the inbox subscription. The underlying NATS connection is
// closed only if this Conn dialed it. Calls still awaiting a reply stay
// blocked.
func (c *Conn) Close() error {
	err := c.sub.Unsubscribe()
	if c.ownsNC {
		c.nc.Close()
	}
	return err
}

func (c *Conn) forget(id uint64) {
	c.mu.Lock()
	delete(c.handlers, id)
	c.mu.Unlock()
}

func (c *Conn) onReply(msg *nats.Msg) {
	var reply wire.Reply
	if err := jsoncodec.Unmarshal(msg.Data, &reply); err != nil {
		c.logger.Error("dropping malformed reply frame", err, watermill.LogFields{
			"subject": msg.Subject,
		})
		return
	}

	c.mu.Lock()
	handler, ok := c.handlers[reply.ID]
	delete(c.handlers, reply.ID)
	c.mu.Unlock()

	if !ok {
		c.logger.Debug("reply for unknown command id", watermill.LogFields{"id": reply.ID})
		return
	}
	handler(&reply)
}
