// Package wire implements the fixed-width little-endian encoding of inputs,
// input pairs and snapshots, and the one-byte-tagged message envelope that
// peers exchange. The layout has no version field; any change breaks
// interoperability with existing peers.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/vovakirdan/lockstep-pong/internal/fx"
	"github.com/vovakirdan/lockstep-pong/internal/pong"
)

// Encoded sizes in bytes.
const (
	InputSize     = 2
	InputPairSize = 9
	SnapshotSize  = 49
	statusSize    = 3
)

// Serialization errors. Callers discard the frame on any of them.
var (
	ErrBufferTooSmall = errors.New("wire: buffer too small")
	ErrInvalidData    = errors.New("wire: invalid data")
	ErrUnexpectedEnd  = errors.New("wire: unexpected end of data")
)

// Status discriminants.
const (
	statusLobby     byte = 0
	statusCountdown byte = 1
	statusPlaying   byte = 2
	statusScored    byte = 3
	statusGameOver  byte = 4
)

var le = binary.LittleEndian

func needBytes(b []byte, n int, what string) error {
	if len(b) < n {
		return fmt.Errorf("%w: %s needs %d bytes, got %d", ErrUnexpectedEnd, what, n, len(b))
	}
	return nil
}

func needSpace(dst []byte, n int, what string) error {
	if len(dst) < n {
		return fmt.Errorf("%w: %s needs %d bytes, have %d", ErrBufferTooSmall, what, n, len(dst))
	}
	return nil
}

// AppendInput appends the 2-byte encoding of in. The axis keeps its bit pattern.
func AppendInput(dst []byte, in pong.Input) []byte {
	return append(dst, uint8(in.AxisY), in.Buttons)
}

// EncodeInput returns the 2-byte encoding of in.
func EncodeInput(in pong.Input) []byte {
	return AppendInput(make([]byte, 0, InputSize), in)
}

// PutInput encodes in into dst and returns the number of bytes written.
func PutInput(dst []byte, in pong.Input) (int, error) {
	if err := needSpace(dst, InputSize, "input"); err != nil {
		return 0, err
	}
	AppendInput(dst[:0], in)
	return InputSize, nil
}

// DecodeInput decodes an input from the first 2 bytes of b.
func DecodeInput(b []byte) (pong.Input, error) {
	if err := needBytes(b, InputSize, "input"); err != nil {
		return pong.Input{}, err
	}
	return pong.Input{AxisY: int8(b[0]), Buttons: b[1]}, nil
}

// AppendInputPair appends tick, A, B and one reserved zero byte.
func AppendInputPair(dst []byte, p pong.InputPair) []byte {
	dst = le.AppendUint32(dst, p.Tick)
	dst = AppendInput(dst, p.A)
	dst = AppendInput(dst, p.B)
	return append(dst, 0)
}

// EncodeInputPair returns the 9-byte encoding of p.
func EncodeInputPair(p pong.InputPair) []byte {
	return AppendInputPair(make([]byte, 0, InputPairSize), p)
}

// PutInputPair encodes p into dst and returns the number of bytes written.
func PutInputPair(dst []byte, p pong.InputPair) (int, error) {
	if err := needSpace(dst, InputPairSize, "input pair"); err != nil {
		return 0, err
	}
	AppendInputPair(dst[:0], p)
	return InputPairSize, nil
}

// DecodeInputPair decodes an input pair from the first 9 bytes of b.
// The reserved byte is ignored.
func DecodeInputPair(b []byte) (pong.InputPair, error) {
	if err := needBytes(b, InputPairSize, "input pair"); err != nil {
		return pong.InputPair{}, err
	}
	return pong.InputPair{
		Tick: le.Uint32(b[0:4]),
		A:    pong.Input{AxisY: int8(b[4]), Buttons: b[5]},
		B:    pong.Input{AxisY: int8(b[6]), Buttons: b[7]},
	}, nil
}

// appendStatus writes the 3-byte status. Scored carries only one byte of
// ticks; larger counts saturate at 255.
func appendStatus(dst []byte, s pong.Status) []byte {
	switch s.Kind {
	case pong.StatusCountdown:
		dst = append(dst, statusCountdown)
		return le.AppendUint16(dst, s.Ticks)
	case pong.StatusPlaying:
		return append(dst, statusPlaying, 0, 0)
	case pong.StatusScored:
		return append(dst, statusScored, byte(s.Side), byte(min(s.Ticks, 255)))
	case pong.StatusGameOver:
		return append(dst, statusGameOver, byte(s.Side), 0)
	default:
		return append(dst, statusLobby, 0, 0)
	}
}

func decodeSide(b byte) (pong.Side, error) {
	switch b {
	case 0:
		return pong.Left, nil
	case 1:
		return pong.Right, nil
	default:
		return pong.Left, fmt.Errorf("%w: side byte %d", ErrInvalidData, b)
	}
}

func decodeStatus(b []byte) (pong.Status, error) {
	switch b[0] {
	case statusLobby:
		return pong.Lobby(), nil
	case statusCountdown:
		return pong.Countdown(le.Uint16(b[1:3])), nil
	case statusPlaying:
		return pong.Playing(), nil
	case statusScored:
		side, err := decodeSide(b[1])
		if err != nil {
			return pong.Status{}, err
		}
		return pong.Scored(side, uint16(b[2])), nil
	case statusGameOver:
		side, err := decodeSide(b[1])
		if err != nil {
			return pong.Status{}, err
		}
		return pong.GameOver(side), nil
	default:
		return pong.Status{}, fmt.Errorf("%w: status discriminant %d", ErrInvalidData, b[0])
	}
}

func appendFx(dst []byte, v fx.Fx) []byte {
	return le.AppendUint32(dst, uint32(v))
}

func readFx(b []byte) fx.Fx {
	return fx.Fx(int32(le.Uint32(b)))
}

// AppendSnapshot appends the 49-byte snapshot layout:
// tick(4) status(3) paddles(16) ball(16) score(2) rng(8).
func AppendSnapshot(dst []byte, s pong.Snapshot) []byte {
	dst = le.AppendUint32(dst, s.Tick)
	dst = appendStatus(dst, s.Status)
	for _, p := range s.Paddles {
		dst = appendFx(dst, p.Y)
		dst = appendFx(dst, p.VY)
	}
	dst = appendFx(dst, s.Ball.Pos.X)
	dst = appendFx(dst, s.Ball.Pos.Y)
	dst = appendFx(dst, s.Ball.Vel.X)
	dst = appendFx(dst, s.Ball.Vel.Y)
	dst = append(dst, s.Score[0], s.Score[1])
	return le.AppendUint64(dst, s.RNG)
}

// EncodeSnapshot returns the 49-byte encoding of s.
func EncodeSnapshot(s pong.Snapshot) []byte {
	return AppendSnapshot(make([]byte, 0, SnapshotSize), s)
}

// PutSnapshot encodes s into dst and returns the number of bytes written.
func PutSnapshot(dst []byte, s pong.Snapshot) (int, error) {
	if err := needSpace(dst, SnapshotSize, "snapshot"); err != nil {
		return 0, err
	}
	AppendSnapshot(dst[:0], s)
	return SnapshotSize, nil
}

// DecodeSnapshot decodes a snapshot from the first 49 bytes of b.
func DecodeSnapshot(b []byte) (pong.Snapshot, error) {
	var s pong.Snapshot
	if err := needBytes(b, SnapshotSize, "snapshot"); err != nil {
		return s, err
	}

	s.Tick = le.Uint32(b[0:4])
	status, err := decodeStatus(b[4 : 4+statusSize])
	if err != nil {
		return pong.Snapshot{}, err
	}
	s.Status = status

	off := 4 + statusSize
	for i := range s.Paddles {
		s.Paddles[i].Y = readFx(b[off:])
		s.Paddles[i].VY = readFx(b[off+4:])
		off += 8
	}

	s.Ball.Pos.X = readFx(b[off:])
	s.Ball.Pos.Y = readFx(b[off+4:])
	s.Ball.Vel.X = readFx(b[off+8:])
	s.Ball.Vel.Y = readFx(b[off+12:])
	off += 16

	s.Score = [2]uint8{b[off], b[off+1]}
	off += 2

	s.RNG = le.Uint64(b[off : off+8])
	return s, nil
}
