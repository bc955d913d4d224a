package netmsg

import "fmt"

// lenSize is the width of the trailing length or count field written after
// every variable-length value.
const lenSize = 8

// Codec pushes values of one type onto a Body and pops them back off.
//
// Every implementation appends a self-describing run of bytes to the tail
// and removes exactly that run again, so codecs compose in any order.
// MinSize is the smallest encoding Decode can consume; PopSlice uses it to
// reject impossible element counts before allocating.
type Codec[V any] interface {
	Encode(b *Body, v V)
	Decode(b *Body) (V, error)
	MinSize() int
}

// Sendable is implemented by user types that know how to lay themselves
// out on a Body. PopFrom must pop fields in the reverse order PushTo pushed them.
type Sendable interface {
	PushTo(b *Body)
	PopFrom(b *Body) error
}

// Put pushes a fixed-layout value onto b.
func Put[V Fixed](b *Body, v V) {
	pushFixed(b, v)
}

// Take pops a fixed-layout value from b.
func Take[V Fixed](b *Body) (V, error) {
	return popFixed[V](b)
}

func (b *Body) PutString(s string) {
	copy(b.grow(len(s)), s)
	pushFixed(b, uint64(len(s)))
}

func (b *Body) TakeString() (string, error) {
	p, err := b.popSized()
	if err != nil {
		return "", err
	}
	return string(p), nil
}

func (b *Body) PutBytes(p []byte) {
	b.push(p)
	pushFixed(b, uint64(len(p)))
}

func (b *Body) TakeBytes() ([]byte, error) {
	p, err := b.popSized()
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(p))
	copy(out, p)
	return out, nil
}

func (b *Body) PutBool(v bool) {
	var c uint8
	if v {
		c = 1
	}
	pushFixed(b, c)
}

func (b *Body) TakeBool() (bool, error) {
	c, err := popFixed[uint8](b)
	return c != 0, err
}

// popSized checks the trailing length against what remains before removing
// anything, so a bad length leaves the body as it was.
func (b *Body) popSized() ([]byte, error) {
	n, err := peekFixed[uint64](b)
	if err != nil {
		return nil, err
	}
	rest := uint64(b.Len() - lenSize)
	if n > rest {
		return nil, fmt.Errorf("%w: declared length %d, have %d", ErrInsufficientData, n, rest)
	}
	b.rewind(b.Len() - lenSize)
	return b.pop(int(n))
}

type fixedCodec[V Fixed] struct{}

// FixedCodec returns the codec for a fixed-layout type.
func FixedCodec[V Fixed]() Codec[V] {
	return fixedCodec[V]{}
}

func (fixedCodec[V]) Encode(b *Body, v V)       { pushFixed(b, v) }
func (fixedCodec[V]) Decode(b *Body) (V, error) { return popFixed[V](b) }
func (fixedCodec[V]) MinSize() int              { return sizeOf[V]() }

type stringCodec struct{}

func (stringCodec) Encode(b *Body, s string)       { b.PutString(s) }
func (stringCodec) Decode(b *Body) (string, error) { return b.TakeString() }
func (stringCodec) MinSize() int                   { return lenSize }

type bytesCodec struct{}

func (bytesCodec) Encode(b *Body, p []byte)       { b.PutBytes(p) }
func (bytesCodec) Decode(b *Body) ([]byte, error) { return b.TakeBytes() }
func (bytesCodec) MinSize() int                   { return lenSize }

type boolCodec struct{}

func (boolCodec) Encode(b *Body, v bool)       { b.PutBool(v) }
func (boolCodec) Decode(b *Body) (bool, error) { return b.TakeBool() }
func (boolCodec) MinSize() int                 { return 1 }

var (
	String Codec[string] = stringCodec{}
	Bytes  Codec[[]byte] = bytesCodec{}
	Bool   Codec[bool]   = boolCodec{}
)

type sliceCodec[E any] struct {
	elem Codec[E]
}

// Slice returns a codec for sequences of elem. Elements are pushed in order
// followed by the count, and popped from the last index down to 0.
func Slice[E any](elem Codec[E]) Codec[[]E] {
	return sliceCodec[E]{elem: elem}
}

func (c sliceCodec[E]) Encode(b *Body, s []E) {
	for _, e := range s {
		c.elem.Encode(b, e)
	}
	pushFixed(b, uint64(len(s)))
}

func (c sliceCodec[E]) Decode(b *Body) ([]E, error) {
	mark := b.Len()
	n, err := peekFixed[uint64](b)
	if err != nil {
		return nil, err
	}
	rest := uint64(mark - lenSize)
	if n > rest/uint64(max(c.elem.MinSize(), 1)) {
		return nil, fmt.Errorf("%w: declared count %d, have %d bytes", ErrInsufficientData, n, rest)
	}
	b.rewind(mark - lenSize)
	out := make([]E, n)
	for i := len(out) - 1; i >= 0; i-- {
		v, err := c.elem.Decode(b)
		if err != nil {
			b.rewind(mark)
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func (c sliceCodec[E]) MinSize() int { return lenSize }

type structCodec[V any, PV interface {
	*V
	Sendable
}] struct{}

// Struct returns a codec for a value type whose pointer implements Sendable.
func Struct[V any, PV interface {
	*V
	Sendable
}]() Codec[V] {
	return structCodec[V, PV]{}
}

func (structCodec[V, PV]) Encode(b *Body, v V) {
	PV(&v).PushTo(b)
}

func (structCodec[V, PV]) Decode(b *Body) (V, error) {
	var v V
	mark := b.Len()
	if err := PV(&v).PopFrom(b); err != nil {
		b.rewind(mark)
		return v, err
	}
	return v, nil
}

func (structCodec[V, PV]) MinSize() int { return 0 }
