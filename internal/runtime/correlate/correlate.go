// Package correlate matches asynchronous replies arriving on a shared
// connection with the blocking call that issued the corresponding request.
//
// Each outstanding call blocks its own goroutine on a one-shot rendezvous
// slot; the connection's delivery path fulfills the slot by identifier in
// O(1). There is deliberately no timeout or cancellation here: a reply
// that never arrives blocks the caller forever. That liveness gap is a
// documented property of the runtime, acceptable for trusted, responsive
// endpoints.
package correlate

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/drblury/schemarpc/conn"
	errspkg "github.com/drblury/schemarpc/internal/runtime/errors"
	"github.com/drblury/schemarpc/wire"
)

// Correlator owns the identifier counter and the pending-call table.
// Connections are only ever handed a narrow callback; they never touch
// either directly.
type Correlator struct {
	seq uint64

	mu      sync.Mutex
	pending map[uint64]chan *wire.Reply
}

// New creates a correlator with no outstanding calls.
func New() *Correlator {
	return &Correlator{pending: make(map[uint64]chan *wire.Reply)}
}

// NextID atomically allocates the next command identifier. Identifiers
// are strictly increasing, never reused while outstanding, and never
// reset for the lifetime of the correlator.
func (c *Correlator) NextID() uint64 {
	return atomic.AddUint64(&c.seq, 1)
}

// Outstanding reports how many calls are currently awaiting a reply.
func (c *Correlator) Outstanding() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Call allocates an identifier, stamps it into req, dispatches the request
// on cn, and blocks until the connection delivers the matching reply.
//
// The rendezvous slot is registered before the request is handed to the
// connection, so a reply delivered during SendCommand itself is never
// dropped. The slot is buffered: the delivery path publishes without
// blocking and the entry is removed immediately after.
//
// An error reply fails the call with a RemoteCommandError carrying the
// method name, the error detail, and the original request. A send failure
// unregisters the slot and propagates synchronously. A reply that never
// arrives blocks forever.
func (c *Correlator) Call(cn conn.Connection, req *wire.Request) (map[string]any, error) {
	if cn == nil {
		return nil, errspkg.ErrConnectionRequired
	}

	id := c.NextID()
	req.ID = id

	slot := make(chan *wire.Reply, 1)
	c.mu.Lock()
	c.pending[id] = slot
	c.mu.Unlock()

	// The connection must invoke this at most once per id; a second
	// delivery is a transport defect.
	onReply := func(reply *wire.Reply) {
		slot <- reply
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}

	if err := cn.SendCommand(req, id, onReply); err != nil {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return nil, fmt.Errorf("schemarpc: send %s: %w", req.Method, err)
	}

	reply := <-slot

	if reply.Error != nil {
		return nil, &errspkg.RemoteCommandError{
			Method:  req.Method,
			Detail:  reply.Error,
			Request: req,
		}
	}
	return reply.Result, nil
}
