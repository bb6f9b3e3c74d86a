package network

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"net"
	"time"
)

// Host is the authoritative peer:
// Listening -> HandshakeRead -> HandshakeRespond -> Connected.
type Host struct {
	phase Phase
	opts  Options
	ln    *net.TCPListener
	conn  net.Conn
	id    SessionID

	hello []byte
	reply []byte
	link  link
}

func Listen(addr string, opts Options) (*Host, error) {
	laddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, err
	}
	ln, err := net.ListenTCP("tcp", laddr)
	if err != nil {
		return nil, err
	}
	var id SessionID
	if _, err := rand.Read(id[:]); err != nil {
		ln.Close()
		return nil, fmt.Errorf("session id: %w", err)
	}
	log.Printf("host: listening on %s", ln.Addr())
	return &Host{
		phase: PhaseListening,
		opts:  opts.withDefaults(),
		ln:    ln,
		id:    id,
	}, nil
}

func (h *Host) Addr() net.Addr {
	return h.ln.Addr()
}

func (h *Host) Phase() Phase {
	return h.phase
}

func (h *Host) SessionID() SessionID {
	return h.id
}

func (h *Host) Connected() bool {
	return h.phase == PhaseConnected
}

// Poll advances the host by at most one phase.
func (h *Host) Poll() error {
	var err error
	switch h.phase {
	case PhaseListening:
		err = h.accept()
	case PhaseHandshakeRead:
		err = h.readHello()
	case PhaseHandshakeRespond:
		err = h.respond()
	case PhaseConnected:
		err = h.link.pump()
	case PhaseClosed:
		err = ErrClosed
	}
	if err != nil {
		return &ConnectionError{Phase: h.phase, Err: err}
	}
	return nil
}

func (h *Host) accept() error {
	if err := h.ln.SetDeadline(time.Now().Add(h.opts.PollTimeout)); err != nil {
		return err
	}
	conn, err := h.ln.Accept()
	if err != nil {
		if wouldBlock(err) {
			return nil
		}
		return err
	}
	log.Printf("host: accepted %s", conn.RemoteAddr())
	// one opponent per session
	if err := h.ln.Close(); err != nil {
		log.Printf("host: closing listener: %v", err)
	}
	h.conn = conn
	h.phase = PhaseHandshakeRead
	return nil
}

func (h *Host) readHello() error {
	var buf [replyLen]byte
	n, err := readSome(h.conn, buf[:], h.opts.PollTimeout)
	h.hello = append(h.hello, buf[:n]...)
	if err != nil {
		return err
	}
	if len(h.hello) < helloLen {
		return nil
	}
	if len(h.hello) != helloLen {
		return fmt.Errorf("%w: hello of %d bytes", ErrHandshake, len(h.hello))
	}
	if [4]byte(h.hello[:4]) != Magic {
		return fmt.Errorf("%w: bad magic %x", ErrHandshake, h.hello[:4])
	}
	if h.hello[4] != Version {
		return fmt.Errorf("%w: unsupported version %d", ErrHandshake, h.hello[4])
	}
	log.Printf("host: hello from %s, version %d", h.conn.RemoteAddr(), h.hello[4])
	h.reply = append(append([]byte{}, Magic[:]...), h.id[:]...)
	h.phase = PhaseHandshakeRespond
	return nil
}

func (h *Host) respond() error {
	rest, err := writeSome(h.conn, h.reply, h.opts.PollTimeout)
	h.reply = rest
	if err != nil || len(rest) > 0 {
		return err
	}
	log.Printf("host: sent session id %s", h.id)
	h.link.conn, h.link.id, h.link.timeout = h.conn, h.id, h.opts.PollTimeout
	h.phase = PhaseConnected
	return nil
}

func (h *Host) Send(msg Message) {
	h.link.send(msg)
}

func (h *Host) Recv() (Message, bool) {
	return h.link.recv()
}

func (h *Host) Close() error {
	h.phase = PhaseClosed
	err := h.ln.Close()
	if errors.Is(err, net.ErrClosed) {
		err = nil
	}
	if h.conn != nil {
		if cerr := h.conn.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
			err = cerr
		}
	}
	return err
}
