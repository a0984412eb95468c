// Package journal writes every controller decision to a zstd-compressed
// JSON-lines file for offline replay and tuning.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/nstehr/vimy/supply-core/supply"
)

// Writer appends JSON lines to a single .jsonl.zst file.
type Writer struct {
	mu     sync.Mutex
	f      io.Closer
	enc    *zstd.Encoder
	w      *bufio.Writer
	closed bool
}

// Create opens <dir>/<name>.jsonl.zst, truncating any previous journal.
func Create(dir, name string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(filepath.Join(dir, name+".jsonl.zst"))
	if err != nil {
		return nil, err
	}
	w, err := NewWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return w, nil
}

// NewWriter compresses into dst. Close closes dst when it is an io.Closer.
func NewWriter(dst io.Writer) (*Writer, error) {
	enc, err := zstd.NewWriter(dst, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	w := &Writer{enc: enc, w: bufio.NewWriter(enc)}
	if c, ok := dst.(io.Closer); ok {
		w.f = c
	}
	return w, nil
}

// Write appends one JSON line.
func (w *Writer) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return fmt.Errorf("journal closed")
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Record implements supply.Recorder. Journal failures never stop the game.
func (w *Writer) Record(d supply.Decision) {
	if err := w.Write(d); err != nil {
		slog.Warn("journal write failed", "tick", d.Tick, "error", err)
	}
}

// Close flushes and closes the journal. Closing twice is a no-op.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.w.Flush(); err != nil {
		return err
	}
	if err := w.enc.Close(); err != nil {
		return err
	}
	if w.f != nil {
		return w.f.Close()
	}
	return nil
}

// Read decodes every line of a journal produced by Writer.
func Read(r io.Reader) ([]supply.Decision, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []supply.Decision
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		var d supply.Decision
		if err := json.Unmarshal(sc.Bytes(), &d); err != nil {
			return out, fmt.Errorf("line %d: %w", len(out)+1, err)
		}
		out = append(out, d)
	}
	return out, sc.Err()
}
