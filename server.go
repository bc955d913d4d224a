package netmsg

import (
	"context"
	"errors"
	"io"
	"net"
	"runtime"
	"sync"

	"github.com/myeof/gonetmsg/pkg/logger"
	"golang.org/x/time/rate"
)

type Server[T ID] struct {
	listener *net.TCPListener
	rate     *rate.Limiter

	connBase[T]
}

func NewServer[T ID]() *Server[T] {
	s := &Server[T]{}
	s.setDefaults()
	s.wg = sync.WaitGroup{}
	s.SetWorker(runtime.NumCPU() * 10)
	return s
}

func ListenAndServe[T ID](addr string, router *Router[T]) error {
	s := NewServer[T]()
	listen, err := s.Listen(addr)
	if err != nil {
		return err
	}
	logger.Infow("Listening", "addr", listen.Addr().String())
	return s.Serve(router)
}

// SetCPS limits accepted connections per second.
func (s *Server[T]) SetCPS(n int) {
	if n > 0 {
		s.rate = rate.NewLimiter(rate.Limit(n), n)
	}
}

// Shutdown asks a running Serve to return. It does not block and is a
// no-op when the server is not serving.
func (s *Server[T]) Shutdown() {
	s.stop(errors.New("shutdown"))
}

func (s *Server[T]) Listen(addr string) (*net.TCPListener, error) {
	var err error
	s.addr, err = net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, err
	}
	s.listener, err = net.ListenTCP("tcp", s.addr)
	if err != nil {
		return nil, err
	}
	return s.listener, nil
}

// Addr returns the bound listener address, or nil before Listen.
func (s *Server[T]) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Send writes om.Msg to the session om.Remote refers to.
func (s *Server[T]) Send(om OwnedMessage[T]) error {
	return s.send(context.Background(), om)
}

func (s *Server[T]) SendWithContext(ctx context.Context, om OwnedMessage[T]) error {
	return s.send(ctx, om)
}

// Broadcast writes msg to every connected session except the one identified
// by except. Pass uuid.Nil to reach everyone. Errors are logged, not returned.
func (s *Server[T]) Broadcast(msg *Message[T], except SessionID) {
	targets := make([]*Session, 0, s.sessions.Len())
	s.sessions.Range(func(session *Session) bool {
		if session.ID() != except {
			targets = append(targets, session)
		}
		return true
	})
	for _, session := range targets {
		if err := WriteMsg(session, msg); err != nil {
			logger.Warnw("Broadcast write failed", "remote", session.Remote(), "error", err)
		}
	}
}

func (s *Server[T]) Serve(router *Router[T]) error {
	if s.listener == nil {
		return errors.New("listener is nil")
	}
	if s.state == StateRunning {
		return errors.New("server is running")
	}
	if s.worker == nil {
		s.SetWorker(s.workerNum)
	}
	s.drainStop()
	s.state = StateRunning
	defer func() {
		s.wg.Wait()
		<-s.worker.Shutdown()
		s.worker = nil
		s.listener = nil
		s.state = StateTerminate
	}()

	s.router = router

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.handleSignals(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			if s.rate != nil {
				_ = s.rate.Wait(ctx)
			}
			conn, err := s.listener.AcceptTCP()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.stop(err)
				return
			}
			err = s.configureConnection(conn)
			if err != nil {
				logger.Errorw("Configure connection error", "error", err)
				_ = conn.Close()
				continue
			}
			session := NewSession(conn)
			s.sessions.Add(session)
			logger.Debugw("Session opened", "remote", session.Remote(), "session", session.ID())
			s.wg.Add(1)
			go s.readHandler(ctx, session)
			go s.onConnected(NewContext[T](session, nil))
		}
	}()

	err := <-s.stopChan
	cancel()
	_ = s.listener.Close()
	s.beforeShutdown()
	return err
}

func (s *Server[T]) readHandler(ctx context.Context, session *Session) {
	defer s.wg.Done()
	exitChan := make(chan struct{})
	go func() {
		var err error
		for {
			var msg *Message[T]
			msg, err = ReadMsg[T](session, s.limits)
			if errors.Is(err, io.EOF) {
				// 对端关闭了连接
				break
			}
			if errors.Is(err, net.ErrClosed) {
				// 本端关闭了连接
				break
			}
			if err != nil {
				logger.Warnw("Read message error", "remote", session.Remote(), "error", err)
				break
			}
			s.onMessage(session, msg)
		}
		s.sessions.Remove(session.ID())
		_ = session.Close()
		s.onDisconnected(session, err)
		close(exitChan)
	}()
	select {
	case <-ctx.Done():
		_ = session.Close()
		<-exitChan
	case <-exitChan:
	}
}
