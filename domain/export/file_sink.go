package export

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const blobPattern = "gif-blob-*"

// FileSink stages each artifact as a transient blob, then copies it into Dir.
type FileSink struct {
	fs      afero.Fs
	dir     string
	staging string
	logger  *slog.Logger
}

// NewFileSink writes artifacts into dir on fs. Blobs are staged under
// staging, which defaults to the OS temp dir.
func NewFileSink(fs afero.Fs, dir, staging string, logger *slog.Logger) *FileSink {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if dir == "" {
		dir = "."
	}
	if staging == "" {
		staging = os.TempDir()
	}
	return &FileSink{fs: fs, dir: dir, staging: staging, logger: logger}
}

func (s *FileSink) Save(data []byte, suggestedName string) (Handle, error) {
	h := Handle{Name: suggestedName}
	if suggestedName == "" || filepath.Base(suggestedName) != suggestedName {
		return h, fmt.Errorf("export: invalid artifact name %q", suggestedName)
	}
	if err := s.fs.MkdirAll(s.staging, 0o755); err != nil {
		return h, fmt.Errorf("export: staging dir: %w", err)
	}
	blob, err := afero.TempFile(s.fs, s.staging, blobPattern)
	if err != nil {
		return h, fmt.Errorf("export: stage blob: %w", err)
	}
	h.Blob = blob.Name()
	_, werr := blob.Write(data)
	cerr := blob.Close()
	if err := errors.Join(werr, cerr); err != nil {
		return h, fmt.Errorf("export: write blob: %w", err)
	}

	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return h, fmt.Errorf("export: output dir: %w", err)
	}
	staged, err := afero.ReadFile(s.fs, h.Blob)
	if err != nil {
		return h, fmt.Errorf("export: read blob: %w", err)
	}
	dest := filepath.Join(s.dir, suggestedName)
	if err := afero.WriteFile(s.fs, dest, staged, 0o644); err != nil {
		return h, fmt.Errorf("export: persist: %w", err)
	}
	h.Path = dest
	if s.logger != nil {
		s.logger.Info("artifact saved", "path", dest, "bytes", len(data))
	}
	return h, nil
}

// Release removes the staged blob. A missing blob is not an error.
func (s *FileSink) Release(h Handle) error {
	if h.Blob == "" {
		return nil
	}
	if err := s.fs.Remove(h.Blob); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("export: release %s: %w", h.Blob, err)
	}
	if s.logger != nil {
		s.logger.Debug("blob released", "blob", h.Blob)
	}
	return nil
}
