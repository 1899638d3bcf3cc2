package wire

import (
	"fmt"

	"github.com/vovakirdan/lockstep-pong/internal/pong"
)

// MessageType is the first byte of every frame.
type MessageType uint8

const (
	TypeInputPair MessageType = 0x01
	TypeSnapshot  MessageType = 0x02
	TypePing      MessageType = 0x03
	TypePong      MessageType = 0x04
)

// String returns the name of the message type.
func (t MessageType) String() string {
	switch t {
	case TypeInputPair:
		return "InputPair"
	case TypeSnapshot:
		return "Snapshot"
	case TypePing:
		return "Ping"
	case TypePong:
		return "Pong"
	default:
		return fmt.Sprintf("MessageType(0x%02x)", uint8(t))
	}
}

// Message is a decoded frame. It is a closed set: InputPairMsg, SnapshotMsg,
// PingMsg and PongMsg.
type Message interface {
	Type() MessageType
	EncodedSize() int
	appendTo(dst []byte) []byte
}

// InputPairMsg carries the sender's authoritative input pair for one tick.
type InputPairMsg struct {
	Pair pong.InputPair
}

func (InputPairMsg) Type() MessageType { return TypeInputPair }
func (InputPairMsg) EncodedSize() int  { return 1 + InputPairSize }

func (m InputPairMsg) appendTo(dst []byte) []byte {
	return AppendInputPair(append(dst, byte(TypeInputPair)), m.Pair)
}

// SnapshotMsg carries an encoded snapshot. The payload is opaque to the
// envelope and is decoded with Snapshot.
type SnapshotMsg struct {
	Data []byte
}

// NewSnapshotMsg encodes s into a SnapshotMsg.
func NewSnapshotMsg(s pong.Snapshot) SnapshotMsg {
	return SnapshotMsg{Data: EncodeSnapshot(s)}
}

func (SnapshotMsg) Type() MessageType  { return TypeSnapshot }
func (m SnapshotMsg) EncodedSize() int { return 1 + len(m.Data) }

func (m SnapshotMsg) appendTo(dst []byte) []byte {
	return append(append(dst, byte(TypeSnapshot)), m.Data...)
}

// Snapshot decodes the payload.
func (m SnapshotMsg) Snapshot() (pong.Snapshot, error) {
	return DecodeSnapshot(m.Data)
}

// PingMsg asks the peer to echo Timestamp back in a PongMsg.
type PingMsg struct {
	Timestamp uint32
}

func (PingMsg) Type() MessageType { return TypePing }
func (PingMsg) EncodedSize() int  { return 5 }

func (m PingMsg) appendTo(dst []byte) []byte {
	return le.AppendUint32(append(dst, byte(TypePing)), m.Timestamp)
}

// PongMsg answers a PingMsg with the same Timestamp.
type PongMsg struct {
	Timestamp uint32
}

func (PongMsg) Type() MessageType { return TypePong }
func (PongMsg) EncodedSize() int  { return 5 }

func (m PongMsg) appendTo(dst []byte) []byte {
	return le.AppendUint32(append(dst, byte(TypePong)), m.Timestamp)
}

// Append appends the framed encoding of m to dst.
func Append(dst []byte, m Message) []byte {
	return m.appendTo(dst)
}

// Encode returns the framed encoding of m.
func Encode(m Message) []byte {
	return m.appendTo(make([]byte, 0, m.EncodedSize()))
}

// Decode parses one frame. Trailing bytes after a fixed-size payload are
// ignored; a snapshot frame takes everything after the type byte.
func Decode(b []byte) (Message, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty frame", ErrUnexpectedEnd)
	}

	t := MessageType(b[0])
	payload := b[1:]

	switch t {
	case TypeInputPair:
		pair, err := DecodeInputPair(payload)
		if err != nil {
			return nil, err
		}
		return InputPairMsg{Pair: pair}, nil

	case TypeSnapshot:
		if len(payload) == 0 {
			return nil, fmt.Errorf("%w: empty snapshot payload", ErrUnexpectedEnd)
		}
		data := make([]byte, len(payload))
		copy(data, payload)
		return SnapshotMsg{Data: data}, nil

	case TypePing, TypePong:
		if len(payload) < 4 {
			return nil, fmt.Errorf("%w: %s needs 4 bytes, got %d", ErrUnexpectedEnd, t, len(payload))
		}
		ts := le.Uint32(payload[:4])
		if t == TypePing {
			return PingMsg{Timestamp: ts}, nil
		}
		return PongMsg{Timestamp: ts}, nil

	default:
		return nil, fmt.Errorf("%w: unknown message type 0x%02x", ErrInvalidData, uint8(t))
	}
}
