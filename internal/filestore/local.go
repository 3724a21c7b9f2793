// Package filestore keeps uploaded attachments on local disk under one
// directory per entity kind.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/notes-backend/internal/apperror"
)

// Dir is the per-kind subdirectory an attachment is stored under.
type Dir string

const (
	CourseDir  Dir = "course"
	SubjectDir Dir = "subject"
	ContentDir Dir = "content"
)

var dirs = []Dir{CourseDir, SubjectDir, ContentDir}

// Local stores files below root. Relative paths handed out and accepted are
// slash-separated and always of the form "<dir>/<name>".
type Local struct {
	root     string
	maxBytes int64
	log      zerolog.Logger
}

// NewLocal ensures root and the per-kind directories exist.
// A maxBytes of zero disables the size check.
func NewLocal(root string, maxBytes int64, log zerolog.Logger) (*Local, error) {
	for _, d := range dirs {
		p := filepath.Join(root, string(d))
		if err := os.MkdirAll(p, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory %s: %w", p, err)
		}
	}

	l := &Local{
		root:     root,
		maxBytes: maxBytes,
		log:      log.With().Str("component", "filestore").Logger(),
	}
	l.log.Info().Str("path", root).Msg("Local storage directory ensured")
	return l, nil
}

// Root returns the directory all attachments live under.
func (l *Local) Root() string {
	return l.root
}

// Staged is an upload written under a temporary name next to its final
// location. Path is where Commit will put it.
type Staged struct {
	Path string
	temp string
}

// Stage writes the upload to a hidden temporary file in <root>/<dir>. Nothing
// at the final path <dir>/<original name> is touched until Commit.
func (l *Local) Stage(ctx context.Context, dir Dir, fh *multipart.FileHeader) (*Staged, error) {
	name := filepath.Base(filepath.Clean("/" + fh.Filename))
	if name == "/" || name == "." || name == "" {
		return nil, apperror.BadRequest("Invalid file name", fmt.Sprintf("file name %q is not usable", fh.Filename))
	}
	if l.maxBytes > 0 && fh.Size > l.maxBytes {
		return nil, apperror.New("File too large", http.StatusRequestEntityTooLarge,
			fmt.Sprintf("%s is %d bytes (max: %d)", name, fh.Size, l.maxBytes))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := &Staged{
		Path: path.Join(string(dir), name),
		temp: path.Join(string(dir), ".upload-"+uuid.NewString()),
	}
	if err := l.write(fh, l.Path(s.temp)); err != nil {
		l.log.Error().Err(err).Str("file", s.Path).Msg("Failed to save file")
		return nil, apperror.Wrap(err, "Failed to save file "+name, http.StatusInternalServerError)
	}
	return s, nil
}

// Commit moves a staged upload to its final path, replacing any file there.
func (l *Local) Commit(s *Staged) error {
	if err := os.Rename(l.Path(s.temp), l.Path(s.Path)); err != nil {
		l.log.Error().Err(err).Str("file", s.Path).Msg("Failed to save file")
		return apperror.Wrap(err, "Failed to save file "+path.Base(s.Path), http.StatusInternalServerError)
	}
	l.log.Info().Str("file", s.Path).Msg("File saved successfully")
	return nil
}

// Discard drops a staged upload that was never committed.
func (l *Local) Discard(s *Staged) {
	if err := os.Remove(l.Path(s.temp)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		l.log.Warn().Err(err).Str("file", s.temp).Msg("Failed to discard staged file")
	}
}

// Store stages and commits in one step and returns the relative path.
// An existing file with the same name is overwritten.
func (l *Local) Store(ctx context.Context, dir Dir, fh *multipart.FileHeader) (string, error) {
	s, err := l.Stage(ctx, dir, fh)
	if err != nil {
		return "", err
	}
	if err := l.Commit(s); err != nil {
		l.Discard(s)
		return "", err
	}
	return s.Path, nil
}

// Remove deletes the file at rel and reports whether it existed.
// Failures are logged, never returned.
func (l *Local) Remove(rel string) bool {
	if rel == "" {
		return false
	}
	p := l.Path(rel)

	err := os.Remove(p)
	switch {
	case err == nil:
		l.log.Info().Str("file", rel).Msg("File deleted successfully")
		return true
	case errors.Is(err, fs.ErrNotExist):
		l.log.Warn().Str("file", rel).Msg("File to delete does not exist")
	default:
		l.log.Error().Err(err).Str("file", rel).Msg("Failed to delete file")
	}
	return false
}

// Path maps a relative path to its location on disk. The path cannot
// escape root.
func (l *Local) Path(rel string) string {
	return filepath.Join(l.root, filepath.FromSlash(path.Clean("/"+rel)))
}
