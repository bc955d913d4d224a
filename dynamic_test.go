package netmsg

import (
	"errors"
	"testing"
)

func TestPushValuePopValueRoundTrip(t *testing.T) {
	msg := NewMessage[uint8](1)
	in := []any{
		int16(-3),
		uint32(7),
		float64(2.5),
		true,
		"text",
		[]byte{9, 8},
		[]uint32{1, 2, 3},
		[]string{"x", "yz"},
		&pair{Name: "n", Score: 4},
		[]int8{-1, 2},
		[]int16{-300},
		[]uint16{1, 65535},
		[]float32{0.5, -2},
		[]int64{-9},
		[]float64{},
	}
	for _, v := range in {
		if err := msg.PushValue(v); err != nil {
			t.Fatalf("push %T: %v", v, err)
		}
	}
	assertSize(t, msg)

	var f64s []float64
	if err := msg.PopValue(&f64s); err != nil || len(f64s) != 0 {
		t.Fatalf("[]float64: %v %v", f64s, err)
	}
	var i64s []int64
	if err := msg.PopValue(&i64s); err != nil || len(i64s) != 1 || i64s[0] != -9 {
		t.Fatalf("[]int64: %v %v", i64s, err)
	}
	var f32s []float32
	if err := msg.PopValue(&f32s); err != nil || len(f32s) != 2 || f32s[0] != 0.5 || f32s[1] != -2 {
		t.Fatalf("[]float32: %v %v", f32s, err)
	}
	var u16s []uint16
	if err := msg.PopValue(&u16s); err != nil || len(u16s) != 2 || u16s[1] != 65535 {
		t.Fatalf("[]uint16: %v %v", u16s, err)
	}
	var i16s []int16
	if err := msg.PopValue(&i16s); err != nil || len(i16s) != 1 || i16s[0] != -300 {
		t.Fatalf("[]int16: %v %v", i16s, err)
	}
	var i8s []int8
	if err := msg.PopValue(&i8s); err != nil || len(i8s) != 2 || i8s[0] != -1 || i8s[1] != 2 {
		t.Fatalf("[]int8: %v %v", i8s, err)
	}

	var p pair
	if err := msg.PopValue(&p); err != nil || p.Name != "n" || p.Score != 4 {
		t.Fatalf("pair: %+v %v", p, err)
	}
	var ss []string
	if err := msg.PopValue(&ss); err != nil || len(ss) != 2 || ss[1] != "yz" {
		t.Fatalf("[]string: %v %v", ss, err)
	}
	var us []uint32
	if err := msg.PopValue(&us); err != nil || len(us) != 3 || us[2] != 3 {
		t.Fatalf("[]uint32: %v %v", us, err)
	}
	var bs []byte
	if err := msg.PopValue(&bs); err != nil || len(bs) != 2 || bs[0] != 9 {
		t.Fatalf("[]byte: %v %v", bs, err)
	}
	var s string
	if err := msg.PopValue(&s); err != nil || s != "text" {
		t.Fatalf("string: %q %v", s, err)
	}
	var b bool
	if err := msg.PopValue(&b); err != nil || !b {
		t.Fatalf("bool: %v %v", b, err)
	}
	var f float64
	if err := msg.PopValue(&f); err != nil || f != 2.5 {
		t.Fatalf("float64: %v %v", f, err)
	}
	var u uint32
	if err := msg.PopValue(&u); err != nil || u != 7 {
		t.Fatalf("uint32: %v %v", u, err)
	}
	var i int16
	if err := msg.PopValue(&i); err != nil || i != -3 {
		t.Fatalf("int16: %v %v", i, err)
	}
	if msg.Len() != 0 {
		t.Fatalf("expected empty body, got %d", msg.Len())
	}
}

func TestPushValueUnsupportedType(t *testing.T) {
	msg := NewMessage[uint8](1)
	if err := msg.PushValue(struct{ A int }{1}); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if err := msg.PushValue(42); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType for int, got %v", err)
	}
	var n int
	if err := msg.PopValue(&n); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType for *int, got %v", err)
	}
	if msg.Len() != 0 {
		t.Fatalf("unsupported push wrote %d bytes", msg.Len())
	}
}

func TestPopValueKeepsDestinationOnError(t *testing.T) {
	msg := NewMessage[uint8](1)
	Push(msg, uint8(1))
	v := uint32(99)
	if err := msg.PopValue(&v); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
	if v != 99 || msg.Len() != 1 {
		t.Fatalf("destination or body changed: v=%d len=%d", v, msg.Len())
	}
}
