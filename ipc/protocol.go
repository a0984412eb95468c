package ipc

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// maxFrame bounds a single envelope. Hello frames carry the full map
// topology, so this is well above a game-state frame.
const maxFrame = 16 << 20

// headerLen is the 4-byte little-endian payload length before every frame.
const headerLen = 4

// ErrFrame is wrapped by every malformed frame.
var ErrFrame = errors.New("bad frame")

// Envelope is the wire format shared with the bot host. Data stays raw so
// each handler decodes its own message type.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func NewEnvelope(msgType string, data any) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s: %w", msgType, err)
	}
	return Envelope{Type: msgType, Data: raw}, nil
}

// ReadEnvelope reads one length-prefixed envelope from r.
func ReadEnvelope(r io.Reader) (Envelope, error) {
	var header [headerLen]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Envelope{}, fmt.Errorf("read length: %w", err)
	}
	n := binary.LittleEndian.Uint32(header[:])
	if n == 0 || n > maxFrame {
		return Envelope{}, fmt.Errorf("%w: length %d", ErrFrame, n)
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Envelope{}, fmt.Errorf("read payload: %w", err)
	}

	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrFrame, err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("%w: missing type", ErrFrame)
	}
	return env, nil
}

// WriteEnvelope writes env as a single frame. Header and payload go out in
// one Write so a frame is never split between writers.
func WriteEnvelope(w io.Writer, env Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if len(payload) > maxFrame {
		return fmt.Errorf("%w: %s is %d bytes", ErrFrame, env.Type, len(payload))
	}

	frame := make([]byte, headerLen, headerLen+len(payload))
	binary.LittleEndian.PutUint32(frame, uint32(len(payload)))
	frame = append(frame, payload...)
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("write %s: %w", env.Type, err)
	}
	return nil
}
