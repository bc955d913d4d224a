package netmsg

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/myeof/gonetmsg/pkg/logger"
	"github.com/myeof/gonetmsg/worker"
)

const (
	StateInit = iota
	StateRunning
	StateShuttingDown
	StateTerminate
)

type connBase[T ID] struct {
	// addr 服务端监听地址 或 客户端连接地址
	addr *net.TCPAddr

	// wg 用于等待所有goroutine退出
	wg sync.WaitGroup

	state        uint8
	stopChan     chan error
	handleSignal bool // 是否处理系统信号
	workerNum    int
	worker       *worker.Worker
	hbInterval   time.Duration
	limits       Limits
	sessions     *SessionTable
	router       *Router[T]

	connectedHandler      func(c *Context[T])
	disconnectHandler     func(session *Session, err error)
	beforeShutdownHandler func()
}

func (b *connBase[T]) setDefaults() {
	b.state = StateInit
	b.stopChan = make(chan error, 1)
	b.hbInterval = 10 * time.Second
	b.handleSignal = true
	b.limits = DefaultLimits()
	b.sessions = NewSessionTable()
}

func (b *connBase[T]) SetWorker(w int) {
	if b.worker != nil {
		b.worker.Shutdown()
	}
	b.workerNum = w
	b.worker = worker.NewWorker(b.workerNum, b.workerNum*2)
}

func (b *connBase[T]) SetHeartbeat(d time.Duration) {
	b.hbInterval = d
}

// SetLimits sets the inbound body cap. Values of zero or above MaxMsgSize
// are clamped to MaxMsgSize, the most any peer will send.
func (b *connBase[T]) SetLimits(l Limits) {
	l.MaxBodyBytes = l.maxBody()
	b.limits = l
}

// SetHandleSignals toggles SIGINT/SIGTERM handling while running.
func (b *connBase[T]) SetHandleSignals(v bool) {
	b.handleSignal = v
}

func (b *connBase[T]) SetOnConnected(f func(c *Context[T])) {
	b.connectedHandler = f
}

func (b *connBase[T]) SetOnDisconnect(f func(s *Session, err error)) {
	b.disconnectHandler = f
}

func (b *connBase[T]) SetBeforeShutdown(f func()) {
	b.beforeShutdownHandler = f
}

// Sessions returns the table resolving OwnedMessage.Remote handles.
func (b *connBase[T]) Sessions() *SessionTable {
	return b.sessions
}

func (b *connBase[T]) onConnected(ctx *Context[T]) {
	if b.connectedHandler != nil {
		b.connectedHandler(ctx)
	}
}

func (b *connBase[T]) onDisconnected(session *Session, err error) {
	if b.disconnectHandler != nil {
		b.disconnectHandler(session, err)
	}
}

func (b *connBase[T]) beforeShutdown() {
	if b.beforeShutdownHandler != nil {
		b.beforeShutdownHandler()
	}
}

func (b *connBase[T]) configureConnection(conn *net.TCPConn) error {
	var err error
	err = conn.SetKeepAlive(true)
	if err != nil {
		return err
	}
	err = conn.SetKeepAlivePeriod(b.hbInterval)
	return err
}

func (b *connBase[T]) onMessage(session *Session, msg *Message[T]) {
	b.worker.StartJob(func() {
		c := NewContext(session, msg)

		c.handlers = b.router.chain(c.MsgID())
		if len(c.handlers) == 0 {
			logger.Warnw("No handler for message", "id", c.MsgID(), "remote", session.Remote())
			return
		}
		// 执行消息处理函数
		c.run()
	})
}

// send resolves the destination handle and writes the message to it.
func (b *connBase[T]) send(ctx context.Context, om OwnedMessage[T]) error {
	s, ok := b.sessions.Get(om.Remote)
	if !ok {
		return ErrSessionNotFound
	}
	return WriteMsgWithContext(ctx, s, om.Msg)
}

func (b *connBase[T]) terminal() {
	if b.state != StateRunning {
		return
	}
	b.state = StateShuttingDown
	b.stop(errors.New("terminal"))
}

// stop posts err as the reason to stop. It never blocks: if a stop is
// already pending the new one is dropped.
func (b *connBase[T]) stop(err error) {
	select {
	case b.stopChan <- err:
	default:
	}
}

// drainStop discards a stop posted while nothing was running.
func (b *connBase[T]) drainStop() {
	select {
	case <-b.stopChan:
	default:
	}
}

func (b *connBase[T]) handleSignals(ctx context.Context) {
	if !b.handleSignal {
		return
	}
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan,
		syscall.SIGHUP,
		syscall.SIGUSR1,
		syscall.SIGUSR2,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGTSTP)
	defer signal.Stop(sigChan)
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-sigChan:
			switch sig {
			case syscall.SIGINT, syscall.SIGTERM:
				logger.Infof("Received %v.", sig)
				b.terminal()
				return
			default:
				logger.Infof("Received %v: nothing i care about...", sig)
			}
		}
	}
}
