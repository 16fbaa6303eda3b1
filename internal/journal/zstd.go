package journal

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/charleslucas/tbdmud/internal/game"
)

// ZstdWriter appends resolutions as zstd-compressed JSON lines. Each open
// appends a new zstd frame, so a file survives restarts.
type ZstdWriter struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

func OpenZstd(path string) (*ZstdWriter, error) {
	if path == "" {
		return nil, fmt.Errorf("empty journal path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating encoder: %w", err)
	}

	return &ZstdWriter{
		f:   f,
		enc: enc,
		w:   bufio.NewWriterSize(enc, 64*1024),
	}, nil
}

func (z *ZstdWriter) Write(_ context.Context, r game.Resolution) error {
	z.mu.Lock()
	defer z.mu.Unlock()

	if z.w == nil {
		return fmt.Errorf("journal closed")
	}

	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshalling resolution: %w", err)
	}
	if _, err := z.w.Write(b); err != nil {
		return err
	}
	return z.w.WriteByte('\n')
}

func (z *ZstdWriter) Close() error {
	z.mu.Lock()
	defer z.mu.Unlock()

	if z.w == nil {
		return nil
	}

	var errs []error
	errs = append(errs, z.w.Flush())
	errs = append(errs, z.enc.Close())
	errs = append(errs, z.f.Close())
	z.w, z.enc, z.f = nil, nil, nil

	return errors.Join(errs...)
}

// ReadZstd decodes every record in a journal file.
func ReadZstd(path string) ([]game.Resolution, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("creating decoder: %w", err)
	}
	defer dec.Close()

	var out []game.Resolution
	jd := json.NewDecoder(dec)
	for {
		var r game.Resolution
		err := jd.Decode(&r)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decoding record %d: %w", len(out), err)
		}
		out = append(out, r)
	}
}
