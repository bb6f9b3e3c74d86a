package network

import (
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/gammazero/deque"
)

// Magic opens both handshake messages.
var Magic = [4]byte{0xDE, 0xAD, 0xBE, 0xEF}

const (
	// Version is the protocol version the client announces in its hello.
	Version = 0x02

	helloLen = len(Magic) + 1
	replyLen = len(Magic) + len(SessionID{})

	readChunk = 512
)

// Defaults used when Options leaves a field zero.
const (
	DefaultPollTimeout = 2 * time.Millisecond
	DefaultDialTimeout = 5 * time.Second
)

type Options struct {
	// PollTimeout bounds every socket call made by Poll.
	PollTimeout time.Duration
	// DialTimeout bounds the background dial started by Dial.
	DialTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.PollTimeout <= 0 {
		o.PollTimeout = DefaultPollTimeout
	}
	if o.DialTimeout <= 0 {
		o.DialTimeout = DefaultDialTimeout
	}
	return o
}

// Connection is what the game loop drives once per tick. Poll advances the
// handshake or, once connected, moves queued messages in both directions.
// Any error from Poll is fatal for the connection.
type Connection interface {
	Poll() error
	Connected() bool
	Send(msg Message)
	Recv() (Message, bool)
	Close() error
}

type Phase int

const (
	PhaseListening Phase = iota
	PhaseHandshakeRead
	PhaseHandshakeRespond
	PhaseDialing
	PhaseBegin
	PhaseSessionIDRead
	PhaseConnected
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseListening:
		return "listening"
	case PhaseHandshakeRead:
		return "handshake read"
	case PhaseHandshakeRespond:
		return "handshake respond"
	case PhaseDialing:
		return "dialing"
	case PhaseBegin:
		return "begin"
	case PhaseSessionIDRead:
		return "session id read"
	case PhaseConnected:
		return "connected"
	case PhaseClosed:
		return "closed"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// link is the steady state shared by host and client: a byte stream, the
// session id and the two message queues.
type link struct {
	conn    net.Conn
	id      SessionID
	timeout time.Duration

	inbound  []byte
	outbound []byte
	recvq    deque.Deque[Message]
	sendq    deque.Deque[Message]
}

func (l *link) send(msg Message) {
	l.sendq.PushBack(msg)
}

func (l *link) recv() (Message, bool) {
	if l.recvq.Len() == 0 {
		return Message{}, false
	}
	return l.recvq.PopFront(), true
}

// pump drains inbound frames into the receive queue and flushes the send
// queue.
func (l *link) pump() error {
	if err := l.fill(); err != nil {
		return err
	}
	msgs, n, err := DecodeFrames(l.inbound, l.id)
	for _, m := range msgs {
		l.recvq.PushBack(m)
	}
	l.inbound = append(l.inbound[:0], l.inbound[n:]...)
	if err != nil {
		return err
	}

	for l.sendq.Len() > 0 {
		l.outbound = AppendFrame(l.outbound, l.id, l.sendq.PopFront())
	}
	rest, err := writeSome(l.conn, l.outbound, l.timeout)
	l.outbound = append(l.outbound[:0], rest...)
	return err
}

// fill reads whatever is available without waiting past the poll timeout.
func (l *link) fill() error {
	var buf [readChunk]byte
	for {
		n, err := readSome(l.conn, buf[:], l.timeout)
		l.inbound = append(l.inbound, buf[:n]...)
		if err != nil || n < len(buf) {
			return err
		}
	}
}

// readSome reads into buf under a short deadline. A timeout is reported as
// zero bytes and no error; a closed peer is an error.
func readSome(conn net.Conn, buf []byte, timeout time.Duration) (int, error) {
	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return 0, err
	}
	n, err := conn.Read(buf)
	switch {
	case err == nil:
		return n, nil
	case wouldBlock(err):
		return n, nil
	case errors.Is(err, io.EOF):
		return n, fmt.Errorf("peer hung up: %w", ErrClosed)
	}
	return n, err
}

// writeSome writes as much of buf as the socket takes before the deadline
// and returns what is left.
func writeSome(conn net.Conn, buf []byte, timeout time.Duration) ([]byte, error) {
	if len(buf) == 0 {
		return buf, nil
	}
	if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return buf, err
	}
	n, err := conn.Write(buf)
	if err != nil && !wouldBlock(err) {
		return buf[n:], err
	}
	return buf[n:], nil
}
