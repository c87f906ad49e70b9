package channel

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/drblury/schemarpc/internal/runtime/ids"
	"github.com/drblury/schemarpc/internal/runtime/jsoncodec"
	"github.com/drblury/schemarpc/wire"
)

// HandlerFunc computes the reply for one request. Returning a reply with
// Error set produces a failure frame.
type HandlerFunc func(req *wire.Request) *wire.Reply

// Responder is a loopback endpoint for the channel backend: it consumes
// the requests topic and publishes the handler's reply for each frame.
// It exists for tests and local development; a real endpoint lives on
// the other side of a real connection.
type Responder struct {
	pub     message.Publisher
	handler HandlerFunc
	logger  watermill.LoggerAdapter
}

// NewResponder starts consuming requests from sub and answering them via
// pub. It must be created before the first request is published; the
// in-memory channel does not buffer for late subscribers.
func NewResponder(ctx context.Context, pub message.Publisher, sub message.Subscriber, handler HandlerFunc, logger watermill.LoggerAdapter) (*Responder, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	r := &Responder{pub: pub, handler: handler, logger: logger}

	requests, err := sub.Subscribe(ctx, RequestsTopic)
	if err != nil {
		return nil, err
	}
	go r.serve(requests)

	return r, nil
}

func (r *Responder) serve(requests <-chan *message.Message) {
	for msg := range requests {
		var req wire.Request
		if err := jsoncodec.Unmarshal(msg.Payload, &req); err != nil {
			r.logger.Error("dropping malformed request frame", err, watermill.LogFields{
				"message_uuid": msg.UUID,
			})
			msg.Ack()
			continue
		}
		msg.Ack()

		reply := r.handler(&req)
		if reply == nil {
			// Simulates an endpoint that never answers.
			continue
		}
		reply.ID = req.ID

		payload, err := jsoncodec.Marshal(reply)
		if err != nil {
			r.logger.Error("failed to marshal reply frame", err, nil)
			continue
		}
		if err := r.pub.Publish(RepliesTopic, message.NewMessage(ids.CreateULID(), payload)); err != nil {
			r.logger.Error("failed to publish reply frame", err, nil)
		}
	}
}
