// Package realtime keeps the in-memory store channel memberships and fans
// committed order events out to the live connections of each store.
//
// A Connection is owned by one transport goroutine. The Bus only ever
// enqueues into its buffered channel without blocking; the owner drains the
// channel, writes frames to the wire and calls Close when the peer goes away.
package realtime

import (
	"sync"
	"sync/atomic"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
)

// DefaultBufferSize is the per-connection queue length used when none is configured.
const DefaultBufferSize = 64

// Server frame names.
const (
	NewOrderEvent     = "new-order"
	OrderUpdatedEvent = "order-updated"
	ResyncEvent       = "resync"
)

// Message is one server frame.
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type NewOrderData struct {
	OrderID   string `json:"orderId"`
	Total     string `json:"total"`
	LineCount int    `json:"lineCount"`
}

type OrderUpdatedData struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

type Connection struct {
	id       kernel.UUID
	caller   identity.Identity
	messages chan Message
	resync   atomic.Bool

	done      chan struct{}
	closeOnce sync.Once
}

func NewConnection(caller identity.Identity, bufferSize int) *Connection {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Connection{
		id:       kernel.NewUUID(),
		caller:   caller,
		messages: make(chan Message, bufferSize),
		done:     make(chan struct{}),
	}
}

func (c *Connection) ID() kernel.UUID { return c.id }

func (c *Connection) Caller() identity.Identity { return c.caller }

// Messages is drained by the owner of the connection.
func (c *Connection) Messages() <-chan Message { return c.messages }

func (c *Connection) Done() <-chan struct{} { return c.done }

// Close marks the connection as gone. It is safe to call more than once.
func (c *Connection) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *Connection) IsClosed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// TakeResync reports whether messages were dropped since the last call and
// clears the flag.
func (c *Connection) TakeResync() bool {
	return c.resync.Swap(false)
}

type sendResult int

const (
	sent sendResult = iota
	dropped
	closed
)

// trySend never blocks. A full buffer drops msg and flags the connection.
func (c *Connection) trySend(msg Message) sendResult {
	if c.IsClosed() {
		return closed
	}

	select {
	case c.messages <- msg:
		return sent
	default:
		c.resync.Store(true)
		return dropped
	}
}
