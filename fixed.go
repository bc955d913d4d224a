package netmsg

import (
	"encoding/binary"
	"unsafe"
)

// ID is the set of tag types a message header can carry.
type ID interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64
}

// Fixed is the set of fixed-layout values that can be pushed as raw bytes.
// Platform sized int, uint and uintptr are left out so the wire width never
// depends on the host.
type Fixed interface {
	ID | ~float32 | ~float64
}

func sizeOf[V Fixed]() int {
	var v V
	return int(unsafe.Sizeof(v))
}

// appendFixed writes the little-endian bytes of v's underlying bits.
func appendFixed[V Fixed](dst []byte, v V) []byte {
	p := unsafe.Pointer(&v)
	switch unsafe.Sizeof(v) {
	case 1:
		return append(dst, *(*uint8)(p))
	case 2:
		return binary.LittleEndian.AppendUint16(dst, *(*uint16)(p))
	case 4:
		return binary.LittleEndian.AppendUint32(dst, *(*uint32)(p))
	default:
		return binary.LittleEndian.AppendUint64(dst, *(*uint64)(p))
	}
}

// putFixed is appendFixed into a slice of exactly sizeOf[V]() bytes.
func putFixed[V Fixed](dst []byte, v V) {
	p := unsafe.Pointer(&v)
	switch unsafe.Sizeof(v) {
	case 1:
		dst[0] = *(*uint8)(p)
	case 2:
		binary.LittleEndian.PutUint16(dst, *(*uint16)(p))
	case 4:
		binary.LittleEndian.PutUint32(dst, *(*uint32)(p))
	default:
		binary.LittleEndian.PutUint64(dst, *(*uint64)(p))
	}
}

// readFixed decodes a V from b, which must hold exactly sizeOf[V]() bytes.
func readFixed[V Fixed](b []byte) V {
	var v V
	p := unsafe.Pointer(&v)
	switch unsafe.Sizeof(v) {
	case 1:
		*(*uint8)(p) = b[0]
	case 2:
		*(*uint16)(p) = binary.LittleEndian.Uint16(b)
	case 4:
		*(*uint32)(p) = binary.LittleEndian.Uint32(b)
	default:
		*(*uint64)(p) = binary.LittleEndian.Uint64(b)
	}
	return v
}

func pushFixed[V Fixed](b *Body, v V) {
	putFixed(b.grow(sizeOf[V]()), v)
}

func popFixed[V Fixed](b *Body) (V, error) {
	p, err := b.pop(sizeOf[V]())
	if err != nil {
		var zero V
		return zero, err
	}
	return readFixed[V](p), nil
}

func peekFixed[V Fixed](b *Body) (V, error) {
	p, err := b.peek(sizeOf[V]())
	if err != nil {
		var zero V
		return zero, err
	}
	return readFixed[V](p), nil
}
