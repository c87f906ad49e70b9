// Package channel provides an in-memory connection backend over Watermill
// Go channels. Requests are published on one topic and replies consumed
// from another, demultiplexed by command id. This backend is useful for
// testing and local development.
package channel

import (
	"context"
	"strconv"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/drblury/schemarpc/conn"
	"github.com/drblury/schemarpc/internal/runtime/ids"
	"github.com/drblury/schemarpc/internal/runtime/jsoncodec"
	"github.com/drblury/schemarpc/internal/runtime/metadata"
	"github.com/drblury/schemarpc/wire"
)

// ConnectionName is the name used to register this backend.
const ConnectionName = "channel"

// Topics carrying the two directions of the conversation.
const (
	RequestsTopic = "schemarpc.requests"
	RepliesTopic  = "schemarpc.replies"
)

// Factory allows overriding the channel creation for testing.
var Factory = func(cfg gochannel.Config, logger watermill.LoggerAdapter) (message.Publisher, message.Subscriber) {
	pubSub := gochannel.NewGoChannel(cfg, logger)
	return pubSub, pubSub
}

func init() {
	conn.RegisterWithCapabilities(ConnectionName, Build, conn.ChannelCapabilities)
}

// Build creates a new in-memory channel connection.
func Build(ctx context.Context, cfg conn.Config, logger watermill.LoggerAdapter) (conn.Connection, error) {
	pub, sub := Factory(gochannel.Config{}, logger)
	return New(ctx, pub, sub, logger)
}

// Capabilities returns the capabilities of this backend.
func Capabilities() conn.Capabilities {
	return conn.ChannelCapabilities
}

// Conn is a connection over a Watermill publisher/subscriber pair.
type Conn struct {
	pub    message.Publisher
	sub    message.Subscriber
	logger watermill.LoggerAdapter

	mu       sync.Mutex
	handlers map[uint64]func(*wire.Reply)
}

// New wires a connection over an existing publisher/subscriber pair and
// starts consuming the replies topic. The subscription must be in place
// before any request is sent, so replies can never race past it.
func New(ctx context.Context, pub message.Publisher, sub message.Subscriber, logger watermill.LoggerAdapter) (*Conn, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	c := &Conn{
		pub:      pub,
		sub:      sub,
		logger:   logger,
		handlers: make(map[uint64]func(*wire.Reply)),
	}

	replies, err := sub.Subscribe(ctx, RepliesTopic)
	if err != nil {
		return nil, err
	}
	go c.consumeReplies(replies)

	return c, nil
}

// SendCommand publishes the request frame. The reply handler is
// registered before publishing so a reply arriving immediately is never
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

	msg := message.NewMessage(ids.CreateULID(), payload)
	msg.Metadata = metadata.ToWatermill(metadata.New(
		metadata.KeyCommandID, strconv.FormatUint(id, 10),
		metadata.KeyMethod, req.Method,
	))

	if err := c.pub.Publish(RequestsTopic, msg); err != nil {
		c.forget(id)
		return err
	}
	return nil
}

// Close shuts down the underlying pub/sub. Calls still awaiting a reply
// stay blocked.
func (c *Conn) Close() error {
	if err := c.pub.Close(); err != nil {
		return err
	}
	if any(c.sub) != any(c.pub) {
		return c.sub.Close()
	}
	return nil
}

func (c *Conn) forget(id uint64) {
	c.mu.Lock()
	delete(c.handlers, id)
	c.mu.Unlock()
}

func (c *Conn) consumeReplies(replies <-chan *message.Message) {
	for msg := range replies {
		var reply wire.Reply
		if err := jsoncodec.Unmarshal(msg.Payload, &reply); err != nil {
			c.logger.Error("dropping malformed reply frame", err, watermill.LogFields{
				"message_uuid": msg.UUID,
			})
			msg.Ack()
			continue
		}
		msg.Ack()

		c.mu.Lock()
		handler, ok := c.handlers[reply.ID]
		delete(c.handlers, reply.ID)
		c.mu.Unlock()

		if !ok {
			// A reply for an id we never sent, or a double delivery.
			c.logger.Debug("reply for unknown command id", watermill.LogFields{"id": reply.ID})
			continue
		}
		handler(&reply)
	}
}
