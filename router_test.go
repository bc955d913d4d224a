package netmsg

import (
	"testing"

	"github.com/google/uuid"
)

func TestRouterChainOrder(t *testing.T) {
	var order []string
	r := NewRouter[uint8]()
	r.Use(func(c *Context[uint8]) {
		order = append(order, "mw-before")
		c.Next()
		order = append(order, "mw-after")
	})
	r.Register(1, func(c *Context[uint8]) { order = append(order, "h1") })
	r.Register(1, func(c *Context[uint8]) { order = append(order, "h2") })

	if len(r.GetMiddlewares()) != 1 || len(r.GetHandlers(1)) != 2 {
		t.Fatalf("unexpected registration: %d middlewares, %d handlers", len(r.GetMiddlewares()), len(r.GetHandlers(1)))
	}
	if r.chain(2) != nil {
		t.Fatal("expected no chain for unregistered id")
	}

	c := NewContext(nil, NewMessage[uint8](1))
	c.handlers = r.chain(c.MsgID())
	c.run()

	want := []string{"mw-before", "h1", "h2", "mw-after"}
	if len(order) != len(want) {
		t.Fatalf("unexpected order %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("unexpected order %v", order)
		}
	}
}

func TestContextAbortStopsChain(t *testing.T) {
	var ran []int
	r := NewRouter[uint8]()
	r.Register(3,
		func(c *Context[uint8]) { ran = append(ran, 1); c.Abort() },
		func(c *Context[uint8]) { ran = append(ran, 2) },
	)
	c := NewContext(nil, NewMessage[uint8](3))
	c.handlers = r.chain(3)
	c.run()
	if len(ran) != 1 || !c.IsAborted() {
		t.Fatalf("abort did not stop chain: %v", ran)
	}
}

func TestContextWithoutMessage(t *testing.T) {
	c := NewContext[uint8](nil, nil)
	if c.MsgID() != 0 || c.MsgSize() != 0 || c.Owned().HasRemote() {
		t.Fatal("expected zero values for a context without message")
	}
}

func TestSessionTable(t *testing.T) {
	table := NewSessionTable()
	a, b := NewSession(nil), NewSession(nil)
	table.Add(a)
	table.Add(b)
	if table.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", table.Len())
	}
	if got, ok := table.Get(a.ID()); !ok || got != a {
		t.Fatal("failed to resolve session a")
	}

	om := NewOwnedMessage(b.ID(), NewMessage[uint8](4))
	if !om.HasRemote() || om.String() != "ID:4 Size:0" {
		t.Fatalf("unexpected owned message %s", om)
	}
	table.Remove(om.Remote)
	if _, ok := table.Get(om.Remote); ok {
		t.Fatal("removed session still resolves")
	}
	if _, ok := table.Get(uuid.Nil); ok {
		t.Fatal("nil id resolved")
	}

	n := 0
	table.Range(func(s *Session) bool { n++; return true })
	if n != 1 {
		t.Fatalf("expected 1 session in range, got %d", n)
	}
}
