package media

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go-storefront/pkg/errs"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const DefaultMaxSize = 2 * 1024 * 1024

var allowed = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Store keeps product images on the local filesystem under root/<dir> and
// hands out URLs under urlPrefix.
type Store struct {
	root      string
	urlPrefix string
	dir       string
	maxSize   int64
}

func NewStore(root, urlPrefix string, maxSize int64) (*Store, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	s := &Store{
		root:      root,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
		dir:       "products",
		maxSize:   maxSize,
	}
	if err := os.MkdirAll(filepath.Join(root, s.dir), 0o755); err != nil {
		return nil, err
	}
	return s, nil
}

// Save validates and stores an image, returning its public URL. Nothing is
// written when validation fails.
func (s *Store) Save(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return "", errs.Internal("read image", err)
	}
	if int64(len(data)) > s.maxSize {
		return "", errs.ErrInvalidImage.WithMessage("image is larger than %d bytes", s.maxSize)
	}
	if len(data) == 0 {
		return "", errs.ErrInvalidImage.WithMessage("image is empty")
	}
	mtype := mimetype.Detect(data)
	ext, ok := allowed[mtype.String()]
	if !ok {
		return "", errs.ErrInvalidImage.WithMessage("unsupported image type %s, use JPEG, PNG or WebP", mtype.String())
	}

	name := uuid.New().String() + ext
	dst := filepath.Join(s.root, s.dir, name)
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", errs.Internal("write image", err)
	}
	return path.Join(s.urlPrefix, s.dir, name), nil
}

// Remove deletes a previously stored image. URLs that do not belong to the
// store and files that are already gone are ignored.
func (s *Store) Remove(url string) error {
	p, ok := s.localPath(url)
	if !ok {
		return nil
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("media: remove %s: %w", url, err)
	}
	return nil
}

func (s *Store) localPath(url string) (string, bool) {
	prefix := path.Join(s.urlPrefix, s.dir) + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(url, prefix)
	if name == "" || strings.ContainsAny(name, `/\`) || name == ".." {
		return "", false
	}
	return filepath.Join(s.root, s.dir, name), true
}

// Root is the directory served under the URL prefix.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) URLPrefix() string {
	return s.urlPrefix
}
