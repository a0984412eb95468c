package ipc

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/nstehr/vimy/supply-core/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	env, err := NewEnvelope(TypeBuild, BuildCommand{Structure: "pylon", X: 21, Y: 18})
	require.NoError(t, err)
	require.NoError(t, WriteEnvelope(&buf, env))

	got, err := ReadEnvelope(&buf)
	require.NoError(t, err)
	assert.Equal(t, TypeBuild, got.Type)

	var cmd BuildCommand
	require.NoError(t, json.Unmarshal(got.Data, &cmd))
	assert.Equal(t, BuildCommand{Structure: "pylon", X: 21, Y: 18}, cmd)
}

func TestReadEnvelopeRejectsBadLength(t *testing.T) {
	for _, n := range []uint32{0, maxFrame + 1} {
		var buf bytes.Buffer
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, n))
		_, err := ReadEnvelope(&buf)
		assert.ErrorIs(t, err, ErrFrame, "length %d", n)
	}
}

func TestReadEnvelopeTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(10)))
	buf.WriteString("{}")
	_, err := ReadEnvelope(&buf)
	assert.Error(t, err)
}

func TestReadEnvelopeMissingType(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteEnvelope(&buf, Envelope{Data: json.RawMessage(`{}`)}))
	_, err := ReadEnvelope(&buf)
	assert.ErrorIs(t, err, ErrFrame)
}

// writeCounter records the size of every Write call.
type writeCounter struct{ writes []int }

func (w *writeCounter) Write(p []byte) (int, error) {
	w.writes = append(w.writes, len(p))
	return len(p), nil
}

func TestWriteEnvelopeSingleWrite(t *testing.T) {
	var w writeCounter
	env, err := NewEnvelope(TypeAck, AckMessage{Status: "ok"})
	require.NoError(t, err)
	require.NoError(t, WriteEnvelope(&w, env))
	require.Len(t, w.writes, 1)

	payload, err := json.Marshal(env)
	require.NoError(t, err)
	assert.Equal(t, 4+len(payload), w.writes[0])
}

func TestConnectionRepliesAndIgnoresUnknown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	server, client := net.Pipe()
	defer client.Close()

	c := NewConnection(server, nil)
	c.RegisterHandler(TypeHello, func(ctx context.Context, env Envelope) (*Envelope, error) {
		resp, err := NewEnvelope(TypeAck, AckMessage{Status: "ok"})
		return &resp, err
	})
	go c.ReadLoop(ctx)

	require.NoError(t, client.SetDeadline(time.Now().Add(2*time.Second)))
	for _, typ := range []string{"mystery", TypeHello} {
		env, err := NewEnvelope(typ, map[string]string{})
		require.NoError(t, err)
		require.NoError(t, WriteEnvelope(client, env))
	}

	got, err := ReadEnvelope(client)
	require.NoError(t, err)
	assert.Equal(t, TypeAck, got.Type)
}

func TestConcurrentSendsKeepFramesWhole(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()
	c := NewConnection(server, nil)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, c.Send(TypeBuild, BuildCommand{Structure: "pylon", X: float64(i)}))
		}()
	}

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	seen := map[float64]bool{}
	for _i := 0; _i < n; _i++ {
		env, err := ReadEnvelope(client)
		require.NoError(t, err)
		var cmd BuildCommand
		require.NoError(t, json.Unmarshal(env.Data, &cmd))
		seen[cmd.X] = true
	}
	wg.Wait()
	assert.Len(t, seen, n)
}

const validHello = `{
  "player": "vimy",
  "race": "protoss",
  "gameId": "ladder-42",
  "topology": {
    "expansions": [
      {
        "id": "main",
        "anchor": {"x": 20.5, "y": 20.5},
        "areaFill": [{"x": 20, "y": 22}, {"x": 21, "y": 22}],
        "mineralLine": null
      },
      {"id": "natural", "anchor": {"x": 50, "y": 20}}
    ]
  }
}`

func TestDecodeHello(t *testing.T) {
	hello, err := DecodeHello(json.RawMessage(validHello))
	require.NoError(t, err)
	assert.Equal(t, "protoss", hello.Race)
	assert.Equal(t, "ladder-42", hello.GameID)
	require.NotNil(t, hello.Topology)
	require.Len(t, hello.Topology.Expansions, 2)
	assert.Equal(t, geom.Pt(20.5, 20.5), hello.Topology.Main().Anchor)
	assert.Len(t, hello.Topology.Main().AreaFill, 2)
}

func TestDecodeHelloRejects(t *testing.T) {
	tests := map[string]string{
		"not json":         `{`,
		"missing race":     `{"player":"p","gameId":"g","topology":{"expansions":[{"id":"m","anchor":{"x":1,"y":1}}]}}`,
		"no expansions":    `{"player":"p","race":"terran","gameId":"g","topology":{"expansions":[]}}`,
		"bad anchor":       `{"player":"p","race":"terran","gameId":"g","topology":{"expansions":[{"id":"m","anchor":{"x":"1","y":1}}]}}`,
		"negative point":   `{"player":"p","race":"terran","gameId":"g","topology":{"expansions":[{"id":"m","anchor":{"x":1,"y":1},"wall":[{"x":-3,"y":1}]}]}}`,
		"missing topology": `{"player":"p","race":"terran","gameId":"g"}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeHello(json.RawMessage(raw))
			assert.ErrorIs(t, err, ErrInvalidHello)
		})
	}
}
