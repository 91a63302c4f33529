// Package storage opens export files and saves rendered cut sheets.
// Locations are local paths, "-" for stdin/stdout, or s3://bucket/key.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ignite/cutsheet/internal/config"
)

// Stdio is the location meaning stdin for Open and stdout for Save.
const Stdio = "-"

var ErrInvalidLocation = errors.New("invalid storage location")

// Store reads inputs and writes finished artifacts. Save either stores all
// of data or leaves the destination untouched.
type Store interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
	Save(ctx context.Context, location string, data []byte) error
}

// Local is a filesystem store. Relative paths resolve against Dir.
type Local struct {
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
}

// NewLocal creates a local store wired to the process's stdio.
func NewLocal(dir string) *Local {
	return &Local{Dir: dir, Stdin: os.Stdin, Stdout: os.Stdout}
}

func (l *Local) resolve(location string) string {
	if filepath.IsAbs(location) || l.Dir == "" {
		return location
	}
	return filepath.Join(l.Dir, location)
}

func (l *Local) Open(_ context.Context, location string) (io.ReadCloser, error) {
	if location == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidLocation)
	}
	if location == Stdio {
		return io.NopCloser(l.Stdin), nil
	}
	f, err := os.Open(l.resolve(location))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", location, err)
	}
	return f, nil
}

// Save writes to a temp file beside the destination and renames it into
// place.
func (l *Local) Save(_ context.Context, location string, data []byte) error {
	if location == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidLocation)
	}
	if location == Stdio {
		_, err := l.Stdout.Write(data)
		return err
	}

	path := l.resolve(location)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", location, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", location, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("moving %s into place: %w", location, err)
	}
	return nil
}

// IsS3 reports whether location names an S3 object.
func IsS3(location string) bool {
	return strings.HasPrefix(location, s3Scheme)
}

// Router sends s3:// locations to S3 and everything else to the local
// store. The S3 client is built on first use so purely local runs never
// touch AWS configuration.
type Router struct {
	Local *Local

	newS3 func(ctx context.Context) (Store, error)
	mu    sync.Mutex
	s3    Store
}

// New builds a Router from the storage section of the config.
func New(cfg config.StorageConfig) *Router {
	return &Router{
		Local: NewLocal(cfg.LocalPath),
		newS3: func(ctx context.Context) (Store, error) {
			return NewS3(ctx, cfg)
		},
	}
}

func (r *Router) pick(ctx context.Context, location string) (Store, error) {
	if !IsS3(location) {
		return r.Local, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.s3 == nil {
		if r.newS3 == nil {
			return nil, fmt.Errorf("%w: s3 is not configured", ErrInvalidLocation)
		}
		s, err := r.newS3(ctx)
		if err != nil {
			return nil, err
		}
		r.s3 = s
	}
	return r.s3, nil
}

func (r *Router) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	s, err := r.pick(ctx, location)
	if err != nil {
		return nil, err
	}
	return s.Open(ctx, location)
}

func (r *Router) Save(ctx context.Context, location string, data []byte) error {
	s, err := r.pick(ctx, location)
	if err != nil {
		return err
	}
	return s.Save(ctx, location, data)
}
