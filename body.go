package netmsg

import "fmt"

// Body is the byte stack backing a Message. Writes go to the tail and
// reads come off the tail.
//
// Pops only reslice the buffer, they never write into it, so a failed
// composite pop can restore the body with rewind.
type Body struct {
	buf []byte
}

func (b *Body) Len() int {
	return len(b.buf)
}

// Bytes returns the live body bytes. The slice is only valid until the next push.
func (b *Body) Bytes() []byte {
	return b.buf
}

func (b *Body) Reset() {
	b.buf = b.buf[:0]
}

func (b *Body) push(p []byte) {
	b.buf = append(b.buf, p...)
}

// grow extends the body by n bytes and returns the new tail for the caller to fill.
func (b *Body) grow(n int) []byte {
	i := len(b.buf)
	if cap(b.buf)-i < n {
		nb := make([]byte, i, 2*cap(b.buf)+n)
		copy(nb, b.buf)
		b.buf = nb
	}
	b.buf = b.buf[:i+n]
	return b.buf[i:]
}

// peek returns the last n bytes without removing them.
func (b *Body) peek(n int) ([]byte, error) {
	if n < 0 || n > len(b.buf) {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrInsufficientData, n, len(b.buf))
	}
	return b.buf[len(b.buf)-n:], nil
}

// pop removes the last n bytes and returns them. The returned slice aliases
// the buffer and must be copied before the next push.
func (b *Body) pop(n int) ([]byte, error) {
	p, err := b.peek(n)
	if err != nil {
		return nil, err
	}
	b.buf = b.buf[:len(b.buf)-n]
	return p, nil
}

func (b *Body) rewind(mark int) {
	b.buf = b.buf[:mark]
}
