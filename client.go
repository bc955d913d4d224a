package netmsg

import (
	"context"
	"errors"
	"net"
	"runtime"
	"sync"
)

type Client[T ID] struct {
	conn *net.TCPConn

	mu      sync.Mutex
	session *Session

	connBase[T]
}

func NewClient[T ID]() *Client[T] {
	c := &Client[T]{}
	c.setDefaults()
	c.wg = sync.WaitGroup{}
	c.SetWorker(runtime.NumCPU() * 10)
	return c
}

// Connect dials addr and serves inbound messages with router until the
// connection closes or the process is signalled. It blocks for the life of
// the connection.
func (c *Client[T]) Connect(addr string, router *Router[T]) error {
	var err error
	c.addr, err = net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return err
	}
	c.conn, err = net.DialTCP("tcp", nil, c.addr)
	if err != nil {
		return err
	}
	if c.worker == nil {
		c.SetWorker(c.workerNum)
	}

	session := NewSession(c.conn)
	c.mu.Lock()
	c.session = session
	c.mu.Unlock()
	c.sessions.Add(session)
	defer func() {
		_ = session.Close()
		c.sessions.Remove(session.ID())
		c.mu.Lock()
		c.session = nil
		c.mu.Unlock()
	}()

	c.drainStop()
	c.state = StateRunning
	defer func() {
		c.wg.Wait()
		<-c.worker.Shutdown()
		c.worker = nil
		c.state = StateTerminate
	}()

	// 处理信号
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.handleSignals(ctx)

	// 配置连接
	err = c.configureConnection(c.conn)
	if err != nil {
		return err
	}

	// 读取消息
	c.router = router
	c.wg.Add(1)
	go c.readHandler(ctx, session)

	// 连接成功处理
	go c.onConnected(NewContext[T](session, nil))

	err = <-c.stopChan
	cancel()
	_ = session.Close()
	c.beforeShutdown()
	c.onDisconnected(session, err)
	return err
}

func (c *Client[T]) readHandler(ctx context.Context, session *Session) {
	defer c.wg.Done()
	for {
		msg, err := ReadMsg[T](session, c.limits)
		if err != nil {
			if ctx.Err() == nil {
				c.stop(err)
			}
			return
		}
		c.onMessage(session, msg)
	}
}

// Session returns the live session, or nil when not connected.
func (c *Client[T]) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Client[T]) Send(msg *Message[T]) error {
	return c.SendWithContext(context.Background(), msg)
}

func (c *Client[T]) SendWithContext(ctx context.Context, msg *Message[T]) error {
	session := c.Session()
	if session == nil {
		return errors.New("client is not connected")
	}
	return WriteMsgWithContext(ctx, session, msg)
}

// Close closes the connection, which makes Connect return.
func (c *Client[T]) Close() error {
	session := c.Session()
	if session == nil {
		return nil
	}
	return session.Close()
}
