package netmsg

import (
	"context"
	"math"
	"net"
)

const (
	abortIndex = math.MaxInt8 >> 1
)

// Context carries one inbound message through its handler chain.
type Context[T ID] struct {
	session *Session
	msg     OwnedMessage[T]

	handlers []HandlerFunc[T]
	index    int8
}

func NewContext[T ID](session *Session, msg *Message[T]) *Context[T] {
	c := &Context[T]{
		session: session,
		msg:     OwnedMessage[T]{Msg: msg},
	}
	if session != nil {
		c.msg.Remote = session.ID()
	}
	return c
}

func (c *Context[T]) Session() *Session {
	return c.session
}

func (c *Context[T]) Conn() *net.TCPConn {
	return c.session.Conn()
}

func (c *Context[T]) Remote() string {
	return c.session.Conn().RemoteAddr().String()
}

func (c *Context[T]) Close() error {
	return c.session.Close()
}

// msg

// Message returns the inbound message. Handlers pop fields from it in the
// reverse order the sender pushed them.
func (c *Context[T]) Message() *Message[T] {
	return c.msg.Msg
}

func (c *Context[T]) Owned() OwnedMessage[T] {
	return c.msg
}

func (c *Context[T]) MsgID() T {
	if c.msg.Msg == nil {
		var zero T
		return zero
	}
	return c.msg.Msg.ID()
}

func (c *Context[T]) MsgSize() uint32 {
	if c.msg.Msg == nil {
		return 0
	}
	return c.msg.Msg.Header.Size
}

// response

// Reply sends msg back to the session the inbound message came from.
func (c *Context[T]) Reply(msg *Message[T]) error {
	return WriteMsg(c.session, msg)
}

func (c *Context[T]) ReplyWithContext(ctx context.Context, msg *Message[T]) error {
	return WriteMsgWithContext(ctx, c.session, msg)
}

// handler

func (c *Context[T]) Next() {
	c.index++
	for c.index < int8(len(c.handlers)) {
		c.handlers[c.index](c)
		c.index++
	}
}

func (c *Context[T]) Abort() {
	c.index = abortIndex
}

func (c *Context[T]) IsAborted() bool {
	return c.index >= abortIndex
}

// run executes the chain from the first handler.
func (c *Context[T]) run() {
	for c.index < int8(len(c.handlers)) {
		c.handlers[c.index](c)
		c.index++
	}
}
