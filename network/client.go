package network

import (
	"errors"
	"fmt"
	"log"
	"net"
)

// Client is the speculating peer:
// Dialing -> Begin -> SessionIDRead -> Connected.
type Client struct {
	phase  Phase
	opts   Options
	dialed chan dialResult
	conn   net.Conn
	id     SessionID

	hello []byte
	reply []byte
	link  link
}

type dialResult struct {
	conn net.Conn
	err  error
}

// Dial starts connecting to the host in the background and returns at once.
// Poll picks up the connection when it is ready; a failed dial is reported
// by Poll like any other connection error.
func Dial(addr string, opts Options) *Client {
	opts = opts.withDefaults()
	dialed := make(chan dialResult, 1)
	go func() {
		conn, err := net.DialTimeout("tcp", addr, opts.DialTimeout)
		dialed <- dialResult{conn: conn, err: err}
	}()
	log.Printf("client: dialing %s", addr)
	return &Client{
		phase:  PhaseDialing,
		opts:   opts,
		dialed: dialed,
		hello:  append(append([]byte{}, Magic[:]...), Version),
	}
}

func (c *Client) Phase() Phase {
	return c.phase
}

func (c *Client) SessionID() SessionID {
	return c.id
}

func (c *Client) Connected() bool {
	return c.phase == PhaseConnected
}

func (c *Client) Poll() error {
	var err error
	switch c.phase {
	case PhaseDialing:
		err = c.awaitDial()
	case PhaseBegin:
		err = c.sendHello()
	case PhaseSessionIDRead:
		err = c.readSessionID()
	case PhaseConnected:
		err = c.link.pump()
	case PhaseClosed:
		err = ErrClosed
	}
	if err != nil {
		return &ConnectionError{Phase: c.phase, Err: err}
	}
	return nil
}

func (c *Client) awaitDial() error {
	select {
	case r := <-c.dialed:
		c.dialed = nil
		if r.err != nil {
			return r.err
		}
		log.Printf("client: connected to %s from %s", r.conn.RemoteAddr(), r.conn.LocalAddr())
		c.conn = r.conn
		c.phase = PhaseBegin
	default:
	}
	return nil
}

func (c *Client) sendHello() error {
	rest, err := writeSome(c.conn, c.hello, c.opts.PollTimeout)
	c.hello = rest
	if err != nil || len(rest) > 0 {
		return err
	}
	c.phase = PhaseSessionIDRead
	return nil
}

// readSessionID never reads past the reply: the host may already be sending
// frames behind it.
func (c *Client) readSessionID() error {
	var buf [replyLen]byte
	n, err := readSome(c.conn, buf[:replyLen-len(c.reply)], c.opts.PollTimeout)
	c.reply = append(c.reply, buf[:n]...)
	if err != nil {
		return err
	}
	if len(c.reply) < replyLen {
		return nil
	}
	if [4]byte(c.reply[:4]) != Magic {
		return fmt.Errorf("%w: bad magic %x", ErrHandshake, c.reply[:4])
	}
	c.id = SessionID(c.reply[4:replyLen])
	log.Printf("client: session id %s", c.id)
	c.link.conn, c.link.id, c.link.timeout = c.conn, c.id, c.opts.PollTimeout
	c.phase = PhaseConnected
	return nil
}

func (c *Client) Send(msg Message) {
	c.link.send(msg)
}

func (c *Client) Recv() (Message, bool) {
	return c.link.recv()
}

func (c *Client) Close() error {
	c.phase = PhaseClosed
	if c.dialed != nil {
		// the dial may still succeed; close what it yields
		go func(dialed <-chan dialResult) {
			if r := <-dialed; r.conn != nil {
				r.conn.Close()
			}
		}(c.dialed)
		c.dialed = nil
	}
	if c.conn == nil {
		return nil
	}
	if err := c.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}
