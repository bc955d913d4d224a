package netmsg

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"time"
)

// Limits bounds how much a single frame may allocate on read or write.
type Limits struct {
	MaxBodyBytes uint32
}

func DefaultLimits() Limits {
	return Limits{MaxBodyBytes: MaxMsgSize}
}

// maxBody is the effective body cap. Zero means the default, and nothing
// above MaxMsgSize is accepted since no peer may send it.
func (l Limits) maxBody() uint32 {
	if l.MaxBodyBytes == 0 || l.MaxBodyBytes > MaxMsgSize {
		return MaxMsgSize
	}
	return l.MaxBodyBytes
}

func checkBodySize(n int) error {
	if n > MaxMsgSize {
		return fmt.Errorf("%w: %d > %d", ErrMessageTooLong, n, MaxMsgSize)
	}
	return nil
}

// HeaderLen is the encoded header size for tag type T: the tag itself plus a uint32 size.
func HeaderLen[T ID]() int {
	return sizeOf[T]() + 4
}

// AppendEncode appends the wire form of msg (id, size, body) to dst.
// Bodies over MaxMsgSize are refused with ErrMessageTooLong.
func AppendEncode[T ID](dst []byte, msg *Message[T]) ([]byte, error) {
	if msg == nil {
		return dst, ErrNilMessage
	}
	if err := checkBodySize(msg.Len()); err != nil {
		return dst, err
	}
	dst = appendFixed(dst, msg.Header.ID)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(msg.Len()))
	return append(dst, msg.Bytes()...), nil
}

// Encode returns header and body concatenated, ready to transmit.
func Encode[T ID](msg *Message[T]) ([]byte, error) {
	if msg == nil {
		return nil, ErrNilMessage
	}
	return AppendEncode(make([]byte, 0, HeaderLen[T]()+msg.Len()), msg)
}

func DecodeHeader[T ID](b []byte) (Header[T], error) {
	n := sizeOf[T]()
	if len(b) < n+4 {
		return Header[T]{}, fmt.Errorf("%w: need %d bytes, have %d", ErrShortHeader, n+4, len(b))
	}
	return Header[T]{
		ID:   readFixed[T](b[:n]),
		Size: binary.LittleEndian.Uint32(b[n : n+4]),
	}, nil
}

// Decode rebuilds a message from a parsed header and exactly h.Size payload bytes.
// The payload is copied.
func Decode[T ID](h Header[T], payload []byte) (*Message[T], error) {
	if int64(len(payload)) != int64(h.Size) {
		return nil, fmt.Errorf("%w: header %d, payload %d", ErrSizeMismatch, h.Size, len(payload))
	}
	msg := NewMessage(h.ID)
	msg.body.push(payload)
	msg.sync()
	return msg, nil
}

// ReadFrom reads one frame from r.
func ReadFrom[T ID](r io.Reader, limits Limits) (*Message[T], error) {
	msg, t, err := readFrom[T](r, limits)
	if t != nil {
		<-t.C
	}
	return msg, err
}

func readFrom[T ID](r io.Reader, limits Limits) (*Message[T], *time.Timer, error) {
	head := make([]byte, HeaderLen[T]())
	_, err := io.ReadFull(r, head)
	if err != nil {
		return nil, nil, err
	}
	h, err := DecodeHeader[T](head)
	if err != nil {
		return nil, nil, err
	}
	if h.Size > limits.maxBody() {
		return nil, nil, fmt.Errorf("%w: %d > %d", ErrMessageTooLong, h.Size, limits.maxBody())
	}
	// 限速
	t := reserve(receiveRateLimiter, int(h.Size), "receive")
	msg := NewMessage(h.ID)
	if h.Size > 0 {
		_, err = io.ReadFull(r, msg.body.grow(int(h.Size)))
		if err != nil {
			if t != nil {
				t.Stop()
			}
			return nil, nil, err
		}
	}
	msg.sync()
	return msg, t, nil
}

// ReadMsg reads one frame from the session's connection.
func ReadMsg[T ID](session *Session, limits Limits) (*Message[T], error) {
	return ReadFrom[T](session.Conn(), limits)
}

func WriteMsg[T ID](session *Session, msg *Message[T]) error {
	return WriteMsgWithContext(context.Background(), session, msg)
}

// WriteMsgWithContext writes one frame, honoring the context deadline on the
// connection and cancellation while waiting on the send limiter.
func WriteMsgWithContext[T ID](ctx context.Context, session *Session, msg *Message[T]) error {
	if msg == nil {
		return ErrNilMessage
	}
	if err := checkBodySize(msg.Len()); err != nil {
		return err
	}
	frame, err := AppendEncode(bufferPool.Get(HeaderLen[T]() + msg.Len())[:0], msg)
	defer func() {
		bufferPool.Put(frame)
	}()
	if err != nil {
		return err
	}
	// 限速
	t := reserve(sendRateLimiter, msg.Len(), "send")
	if t != nil {
		defer t.Stop()
	}
	// 发送数据, 加锁，防止并发发送
	session.Lock()
	defer session.Unlock()
	if deadline, ok := ctx.Deadline(); ok {
		err := session.Conn().SetWriteDeadline(deadline)
		if err != nil {
			return err
		}
		defer session.Conn().SetWriteDeadline(time.Time{})
	}
	_, err = session.Conn().Write(frame)
	if err != nil {
		return err
	}
	// 等待发送完成
	if t != nil {
		select {
		case <-t.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
