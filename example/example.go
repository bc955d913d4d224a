package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"time"

	"github.com/myeof/gonetmsg"
	"github.com/myeof/gonetmsg/pkg/logger"
)

type MsgID uint32

const (
	PingMsgID MsgID = iota + 1
	PongMsgID
	TextMsgID
	EchoMsgID
	StatsMsgID
)

// Point is a user type carried through the Sendable codec.
type Point struct {
	X, Y int32
}

func (p *Point) PushTo(b *netmsg.Body) {
	netmsg.Put(b, p.X)
	netmsg.Put(b, p.Y)
}

func (p *Point) PopFrom(b *netmsg.Body) error {
	var err error
	if p.Y, err = netmsg.Take[int32](b); err != nil {
		return err
	}
	p.X, err = netmsg.Take[int32](b)
	return err
}

func init() {
	log.SetPrefix(fmt.Sprintf("[%d] ", os.Getpid()))
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

func main() {
	var s bool
	var path string
	cfg := netmsg.DefaultConfig()
	flag.BoolVar(&s, "s", s, "server")
	flag.StringVar(&path, "config", "", "toml config file")
	flag.StringVar(&cfg.Addr, "c", cfg.Addr, "host")
	flag.Parse()
	if path != "" {
		var err error
		cfg, err = netmsg.LoadConfig(path)
		if err != nil {
			log.Fatalln(err)
		}
	}
	logger.Init(&cfg.Log)
	defer logger.Sync()

	if s {
		ServerExample(cfg)
	} else {
		ClientExample(cfg)
	}
}

// examples

func ServerExample(cfg netmsg.Config) {
	r := netmsg.NewRouter[MsgID]()
	r.Use(LogHandler)
	r.Register(PingMsgID, Pong)
	r.Register(TextMsgID, Echo)
	r.Register(StatsMsgID, Stats)

	s := netmsg.NewServer[MsgID]()
	s.Apply(cfg)
	listen, err := s.Listen(cfg.Addr)
	if err != nil {
		log.Fatalln(err)
	}
	log.Println("listen", listen.Addr().String())
	if err := s.Serve(r); err != nil {
		log.Println(err)
	}
}

func ClientExample(cfg netmsg.Config) {
	r := netmsg.NewRouter[MsgID]()
	r.Register(PongMsgID, PrintPong)
	r.Register(EchoMsgID, PrintEcho)
	c := netmsg.NewClient[MsgID]()
	c.Apply(cfg)
	c.SetOnConnected(func(ctx *netmsg.Context[MsgID]) {
		Start(c)
	})
	err := c.Connect(cfg.Addr, r)
	if err != nil {
		if errors.Is(err, net.ErrClosed) {
			log.Printf("exit")
		} else {
			log.Fatalln(err)
		}
	}
}

// handlers

func LogHandler(c *netmsg.Context[MsgID]) {
	startTime := time.Now()
	owned := c.Owned()
	c.Next()
	log.Printf("| %15s | %s | %s | %10s\n",
		c.Remote(),
		owned.Remote,
		owned,
		time.Since(startTime),
	)
}

func Start(c *netmsg.Client[MsgID]) {
	log.Println("start")
	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("> ")
		if !in.Scan() {
			_ = c.Close()
			return
		}
		input := strings.TrimSpace(in.Text())
		switch input {
		case "":
			continue
		case "help":
			fmt.Println("exit: quit")
			fmt.Println("ping: send a timestamped ping")
			fmt.Println("stats: send a point and a list of samples")
			fmt.Println("*: send text to be echoed")
		case "exit":
			_ = c.Close()
			return
		case "ping":
			msg := netmsg.NewMessage(PingMsgID)
			netmsg.Push(msg, time.Now().UnixNano())
			_ = c.Send(msg)
		case "stats":
			msg := netmsg.NewMessage(StatsMsgID)
			msg.PushSendable(&Point{X: 3, Y: 4})
			netmsg.PushSlice(msg, netmsg.FixedCodec[float64](), []float64{1.5, 2.5, 3.5})
			_ = c.Send(msg)
		default:
			msg := netmsg.NewMessage(TextMsgID)
			msg.PushString(input)
			_ = c.Send(msg)
		}
	}
}

func Pong(c *netmsg.Context[MsgID]) {
	sent, err := netmsg.Pop[int64](c.Message())
	if err != nil {
		c.Abort()
		return
	}
	reply := netmsg.NewMessage(PongMsgID)
	netmsg.Push(reply, sent)
	_ = c.Reply(reply)
}

func Echo(c *netmsg.Context[MsgID]) {
	text, err := c.Message().PopString()
	if err != nil {
		log.Printf("%s: %v", c.Remote(), err)
		return
	}
	reply := netmsg.NewMessage(EchoMsgID)
	reply.PushString(text)
	_ = c.Reply(reply)
}

func Stats(c *netmsg.Context[MsgID]) {
	msg := c.Message()
	samples, err := netmsg.PopSlice(msg, netmsg.FixedCodec[float64]())
	if err != nil {
		log.Printf("%s: %v", c.Remote(), err)
		return
	}
	var p Point
	if err := msg.PopSendable(&p); err != nil {
		log.Printf("%s: %v", c.Remote(), err)
		return
	}
	var sum float64
	for _, v := range samples {
		sum += v
	}
	reply := netmsg.NewMessage(EchoMsgID)
	reply.PushString(fmt.Sprintf("point=%v samples=%d sum=%.2f", p, len(samples), sum))
	_ = c.Reply(reply)
}

func PrintPong(c *netmsg.Context[MsgID]) {
	sent, err := netmsg.Pop[int64](c.Message())
	if err != nil {
		return
	}
	fmt.Printf("pong in %s\n", time.Since(time.Unix(0, sent)))
}

func PrintEcho(c *netmsg.Context[MsgID]) {
	text, err := c.Message().PopString()
	if err != nil {
		return
	}
	fmt.Println(text)
}
