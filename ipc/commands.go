package ipc

// Command type constants. These must stay in sync with the host's command executor.
const (
	TypeBuild = "build"
)

// BuildCommand asks the host to send a worker to start a structure at (X, Y).
type BuildCommand struct {
	Structure string  `json:"structure"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}
