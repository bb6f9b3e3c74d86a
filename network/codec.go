// Package network implements the two-peer wire protocol: the handshake
// phase machines for host and client and the framed application messages
// exchanged once connected.
package network

import (
	"fmt"

	"github.com/dulchik/pawn-hearts/board"
)

// SessionID is chosen by the host and prefixes every frame. It only guards
// against stray frames, it is not a credential.
type SessionID [4]byte

func (id SessionID) String() string {
	return fmt.Sprintf("%x", id[:])
}

type Kind uint8

const (
	Moved    Kind = 0x01
	Rejected Kind = 0x02
	Accepted Kind = 0x03
	GameDone Kind = 0x04
)

func (k Kind) String() string {
	switch k {
	case Moved:
		return "Moved"
	case Rejected:
		return "Rejected"
	case Accepted:
		return "Accepted"
	case GameDone:
		return "GameDone"
	}
	return fmt.Sprintf("Kind(%#02x)", uint8(k))
}

// payloadLen is the number of bytes following the tag.
func payloadLen(k Kind) (int, bool) {
	switch k {
	case Moved:
		return 6, true
	case Rejected, Accepted, GameDone:
		return 0, true
	}
	return 0, false
}

// Message is one application message. Move is only set for Moved.
type Message struct {
	Kind Kind
	Move board.Move
}

func MovedMessage(m board.Move) Message {
	return Message{Kind: Moved, Move: m}
}

func (m Message) String() string {
	if m.Kind == Moved {
		return "Moved(" + m.Move.String() + ")"
	}
	return m.Kind.String()
}

// AppendMessage appends the tag and payload of msg to dst.
func AppendMessage(dst []byte, msg Message) []byte {
	dst = append(dst, byte(msg.Kind))
	if msg.Kind == Moved {
		m := msg.Move
		dst = append(dst,
			byte(m.From.Row), byte(m.From.Col),
			byte(m.To.Row), byte(m.To.Col),
			byte(int8(m.Rows)), byte(int8(m.Cols)),
		)
	}
	return dst
}

// AppendFrame appends one steady-state frame: [session id][tag][payload].
func AppendFrame(dst []byte, id SessionID, msg Message) []byte {
	dst = append(dst, id[:]...)
	return AppendMessage(dst, msg)
}

// DecodeMessage decodes the message at the start of b. It returns the number
// of bytes consumed, or 0 when b holds only part of a message.
func DecodeMessage(b []byte) (Message, int, error) {
	if len(b) == 0 {
		return Message{}, 0, nil
	}
	kind := Kind(b[0])
	n, ok := payloadLen(kind)
	if !ok {
		return Message{}, 0, fmt.Errorf("%w: tag %#02x", ErrUnknownMessage, b[0])
	}
	if len(b) < 1+n {
		return Message{}, 0, nil
	}
	msg := Message{Kind: kind}
	if kind == Moved {
		p := b[1:]
		from := board.Pos{Row: int(p[0]), Col: int(p[1])}
		to := board.Pos{Row: int(p[2]), Col: int(p[3])}
		msg.Move = board.NewMove(from, to)
		if msg.Move.Rows != int(int8(p[4])) || msg.Move.Cols != int(int8(p[5])) {
			return Message{}, 0, fmt.Errorf("%w: deltas (%d,%d) disagree with %s",
				ErrMalformed, int8(p[4]), int8(p[5]), msg.Move)
		}
	}
	return msg, 1 + n, nil
}

// DecodeMessages decodes back-to-back messages until b is exhausted.
func DecodeMessages(b []byte) ([]Message, error) {
	var out []Message
	for len(b) > 0 {
		msg, n, err := DecodeMessage(b)
		if err != nil {
			return out, err
		}
		if n == 0 {
			return out, fmt.Errorf("%w: truncated %s", ErrMalformed, Kind(b[0]))
		}
		out = append(out, msg)
		b = b[n:]
	}
	return out, nil
}

// DecodeFrames decodes every complete frame in buf. Frames carrying a
// session id other than id are consumed and dropped. The returned count is
// the number of bytes consumed; an incomplete trailing frame is left for
// the caller to complete with later reads. A frame's length comes from its
// tag, so an unknown tag is fatal whatever session id precedes it.
func DecodeFrames(buf []byte, id SessionID) ([]Message, int, error) {
	var (
		out      []Message
		consumed int
	)
	for {
		rest := buf[consumed:]
		if len(rest) <= len(id) {
			return out, consumed, nil
		}
		msg, n, err := DecodeMessage(rest[len(id):])
		if err != nil {
			return out, consumed, err
		}
		if n == 0 {
			return out, consumed, nil
		}
		if SessionID(rest[:len(id)]) == id {
			out = append(out, msg)
		}
		consumed += len(id) + n
	}
}
