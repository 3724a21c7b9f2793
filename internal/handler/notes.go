package handler

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/notes-backend/internal/apperror"
	"github.com/stemsi/notes-backend/internal/filestore"
	"github.com/stemsi/notes-backend/internal/model"
	"github.com/stemsi/notes-backend/internal/response"
	"github.com/stemsi/notes-backend/internal/service"
)

// BasePath prefixes every catalog route.
const BasePath = "/notes"

// Attachments stages, commits and removes uploaded files.
// *filestore.Local satisfies it.
type Attachments interface {
	Stage(ctx context.Context, dir filestore.Dir, fh *multipart.FileHeader) (*filestore.Staged, error)
	Commit(s *filestore.Staged) error
	Discard(s *filestore.Staged)
	Remove(rel string) bool
}

// Links turns stored relative paths into absolute URLs.
type Links struct {
	base string
}

// NewLinks joins the public app URL with the path the files are mounted at.
func NewLinks(appURL, filesPath string) Links {
	base, err := url.JoinPath(appURL, filesPath)
	if err != nil {
		base = strings.TrimRight(appURL, "/") + "/" + strings.Trim(filesPath, "/")
	}
	return Links{base: base}
}

// URL returns nil for an absent attachment.
func (l Links) URL(rel *string) *string {
	if rel == nil || *rel == "" {
		return nil
	}
	u, err := url.JoinPath(l.base, *rel)
	if err != nil {
		u = l.base + "/" + strings.TrimLeft(*rel, "/")
	}
	return &u
}

// notes holds what every catalog handler shares.
type notes struct {
	catalog *service.Catalog
	files   Attachments
	links   Links
	log     zerolog.Logger
}

func newNotes(catalog *service.Catalog, files Attachments, links Links, log zerolog.Logger, component string) notes {
	return notes{
		catalog: catalog,
		files:   files,
		links:   links,
		log:     log.With().Str("component", component).Logger(),
	}
}

// upload is one optional file field of a form.
type upload struct {
	field  string
	dir    filestore.Dir
	staged *filestore.Staged
	path   *string // final relative path once staged
}

// stageUploads writes every file present in the form under a temporary name.
// On failure the uploads already staged by this call are dropped again.
func (n notes) stageUploads(c *gin.Context, uploads ...*upload) error {
	for _, u := range uploads {
		fh, err := formFile(c, u.field)
		if err == nil && fh != nil {
			u.staged, err = n.files.Stage(c.Request.Context(), u.dir, fh)
			if err == nil {
				u.path = &u.staged.Path
			}
		}
		if err != nil {
			n.discard(uploads...)
			return err
		}
	}
	return nil
}

// commit moves staged uploads to their final paths once the row referencing
// them has been written.
func (n notes) commit(uploads ...*upload) error {
	for i, u := range uploads {
		if u.staged == nil {
			continue
		}
		if err := n.files.Commit(u.staged); err != nil {
			n.discard(uploads[i:]...)
			return err
		}
		u.staged = nil
	}
	return nil
}

// discard drops staged uploads whose row could not be written. Files at the
// final paths are never touched.
func (n notes) discard(uploads ...*upload) {
	for _, u := range uploads {
		if u.staged == nil {
			continue
		}
		n.files.Discard(u.staged)
		u.staged = nil
		u.path = nil
	}
}

// removeReplaced deletes the previous attachment once a new file with a
// different path has taken its place.
func (n notes) removeReplaced(old *string, u *upload) {
	if old == nil || *old == "" || u.path == nil || *u.path == *old {
		return
	}
	n.files.Remove(*old)
}

func (n notes) removeAll(paths []string) {
	for _, p := range paths {
		n.files.Remove(p)
	}
}

// formFile returns nil when the request carries no file under field.
func formFile(c *gin.Context, field string) (*multipart.FileHeader, error) {
	fh, err := c.FormFile(field)
	switch {
	case err == nil:
		return fh, nil
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return nil, nil
	default:
		return nil, apperror.Wrap(err, "Invalid file upload", http.StatusBadRequest)
	}
}

// parseID reads the :id path parameter, answering 400 when it is not an integer.
func parseID(c *gin.Context) (int, bool) {
	raw := c.Param("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		response.BadRequest(c, "Invalid ID", fmt.Sprintf("%q is not a valid ID", raw))
		return 0, false
	}
	return id, true
}

func location(kind string, id int) string {
	return fmt.Sprintf("%s/%s/%d", BasePath, kind, id)
}

// matchFunc adapts a predicate to model.Filter.
type matchFunc[T model.Entity] func(*T) bool

func (f matchFunc[T]) Match(item *T) bool { return f(item) }
