package ipc

import "github.com/nstehr/vimy/supply-core/model"

// These constants must stay in sync with the host's message types.
const (
	TypeHello     = "hello"
	TypeAck       = "ack"
	TypeGameState = "game_state"
)

// HelloMessage opens a session. The topology is sent once; it does not
// change during a game.
type HelloMessage struct {
	Player   string          `json:"player"`
	Race     string          `json:"race"`
	GameID   string          `json:"gameId"`
	Topology *model.Topology `json:"topology"`
}

// AckMessage answers every host message. Status is "ok" or "error"; Error
// carries the reason so the host can surface it.
type AckMessage struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
