package netmsg

import (
	"fmt"
)

const MaxMsgSize = 1024 * 1024 * 2 // 2MB

// Header precedes every body on the wire. Size always equals the body
// length for bodies the wire accepts; Encode and WriteMsg refuse bodies over
// MaxMsgSize, so a Size taken modulo 2^32 never reaches a peer.
type Header[T ID] struct {
	ID   T
	Size uint32
}

// Message is a tagged header plus a LIFO byte body. Values pushed a, b, c
// pop back as c, b, a.
//
// A Message is not safe for concurrent use. One goroutine builds it, hands
// it to the transport, and another goroutine drains it after delivery.
type Message[T ID] struct {
	Header Header[T]

	body Body
}

func NewMessage[T ID](id T) *Message[T] {
	return &Message[T]{Header: Header[T]{ID: id}}
}

func (msg *Message[T]) ID() T {
	return msg.Header.ID
}

func (msg *Message[T]) Len() int {
	return msg.body.Len()
}

// Bytes returns the encoded body. It aliases the message buffer.
func (msg *Message[T]) Bytes() []byte {
	return msg.body.Bytes()
}

func (msg *Message[T]) Reset() {
	msg.body.Reset()
	msg.sync()
}

func (msg *Message[T]) Clone() *Message[T] {
	c := &Message[T]{Header: msg.Header}
	c.body.push(msg.body.Bytes())
	return c
}

func (msg *Message[T]) String() string {
	return fmt.Sprintf("ID:%d Size:%d", msg.Header.ID, msg.Header.Size)
}

func (msg *Message[T]) sync() {
	msg.Header.Size = uint32(msg.body.Len())
}

// Push appends the raw bytes of a fixed-layout value.
func Push[V Fixed, T ID](msg *Message[T], v V) {
	pushFixed(&msg.body, v)
	msg.sync()
}

// Pop removes a fixed-layout value from the tail of the body.
func Pop[V Fixed, T ID](msg *Message[T]) (V, error) {
	v, err := popFixed[V](&msg.body)
	msg.sync()
	return v, err
}

// PushWith pushes v with an explicit codec.
func PushWith[V any, T ID](msg *Message[T], c Codec[V], v V) {
	c.Encode(&msg.body, v)
	msg.sync()
}

// PopWith pops a value with an explicit codec.
func PopWith[V any, T ID](msg *Message[T], c Codec[V]) (V, error) {
	v, err := c.Decode(&msg.body)
	msg.sync()
	return v, err
}

// PushSlice pushes every element of s with elem, then the element count.
func PushSlice[E any, T ID](msg *Message[T], elem Codec[E], s []E) {
	PushWith(msg, Slice(elem), s)
}

// PopSlice pops a sequence pushed by PushSlice, preserving the original order.
func PopSlice[E any, T ID](msg *Message[T], elem Codec[E]) ([]E, error) {
	return PopWith(msg, Slice(elem))
}

func (msg *Message[T]) PushString(s string) {
	msg.body.PutString(s)
	msg.sync()
}

func (msg *Message[T]) PopString() (string, error) {
	s, err := msg.body.TakeString()
	msg.sync()
	return s, err
}

func (msg *Message[T]) PushBytes(p []byte) {
	msg.body.PutBytes(p)
	msg.sync()
}

func (msg *Message[T]) PopBytes() ([]byte, error) {
	p, err := msg.body.TakeBytes()
	msg.sync()
	return p, err
}

func (msg *Message[T]) PushBool(v bool) {
	msg.body.PutBool(v)
	msg.sync()
}

func (msg *Message[T]) PopBool() (bool, error) {
	v, err := msg.body.TakeBool()
	msg.sync()
	return v, err
}

func (msg *Message[T]) PushSendable(v Sendable) {
	v.PushTo(&msg.body)
	msg.sync()
}

// PopSendable fills v from the body. On error the body is left as it was.
func (msg *Message[T]) PopSendable(v Sendable) error {
	mark := msg.body.Len()
	err := v.PopFrom(&msg.body)
	if err != nil {
		msg.body.rewind(mark)
	}
	msg.sync()
	return err
}
