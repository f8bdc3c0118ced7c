// Package imagestore keeps one generated image per user, addressed by the
// user's ID alone.
package imagestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"pfpMint/errs"
)

const extension = ".png"

var (
	ErrNotFound      = errors.New("image not found")
	ErrInvalidUserID = errors.New("invalid user id")
)

// Mirror is a secondary copy of the images that outlives the local disk.
type Mirror interface {
	Upload(ctx context.Context, objectName string, data []byte) error
	Download(ctx context.Context, objectName string) ([]byte, error)
}

type Store interface {
	// Save writes the image for userID, replacing any previous one.
	Save(ctx context.Context, userID string, data []byte) (string, error)
	// Resolve returns where the image for userID lives on disk.
	Resolve(userID string) (string, error)
	Load(ctx context.Context, userID string) ([]byte, error)
	Dir() string
}

type store struct {
	dir    string
	mirror Mirror
}

var _ Store = (*store)(nil)

// New returns a Store rooted at dir. mirror may be nil.
func New(dir string, mirror Mirror) Store {
	return &store{dir: dir, mirror: mirror}
}

// FileName is the object name for a user's image.
func FileName(userID string) string {
	return userID + extension
}

// UserIDFromRef extracts the user ID from an image reference such as
// "/nft-images/1234.png". Only the last path element is considered.
func UserIDFromRef(ref string) (string, error) {
	base := path.Base(filepath.ToSlash(ref))
	id := strings.TrimSuffix(base, extension)
	if err := validateUserID(id); err != nil {
		return "", err
	}
	return id, nil
}

func validateUserID(userID string) error {
	if userID == "" || userID == "." || userID == ".." || strings.ContainsAny(userID, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidUserID, userID)
	}
	return nil
}

func (s *store) Dir() string {
	return s.dir
}

func (s *store) Resolve(userID string) (string, error) {
	if err := validateUserID(userID); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, FileName(userID)), nil
}

func (s *store) ensureDir() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create image dir %s: %w", s.dir, err)
	}
	return nil
}

func (s *store) Save(ctx context.Context, userID string, data []byte) (string, error) {
	p, err := s.Resolve(userID)
	if err != nil {
		return "", errs.E(errs.Image, "imagestore.Save", err)
	}
	if err := s.ensureDir(); err != nil {
		return "", errs.E(errs.Image, "imagestore.Save", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", errs.E(errs.Image, "imagestore.Save", fmt.Errorf("failed to write %s: %w", p, err))
	}
	if s.mirror != nil {
		if err := s.mirror.Upload(ctx, FileName(userID), data); err != nil {
			// The local copy is authoritative for this process.
			log.Warn().Err(err).Str("userID", userID).Msg("failed to mirror image")
		}
	}
	return p, nil
}

// Load reads the image for userID. When the local file is gone and a mirror
// is configured, the mirrored copy is fetched and written back locally.
func (s *store) Load(ctx context.Context, userID string) ([]byte, error) {
	p, err := s.Resolve(userID)
	if err != nil {
		return nil, errs.E(errs.Image, "imagestore.Load", err)
	}
	data, err := os.ReadFile(p)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, errs.E(errs.Image, "imagestore.Load", fmt.Errorf("failed to read %s: %w", p, err))
	}
	if s.mirror == nil {
		return nil, errs.E(errs.Image, "imagestore.Load", fmt.Errorf("%w: %s", ErrNotFound, p))
	}

	data, err = s.mirror.Download(ctx, FileName(userID))
	if err != nil {
		return nil, errs.E(errs.Image, "imagestore.Load", fmt.Errorf("%w: %s: %v", ErrNotFound, p, err))
	}
	if err := s.ensureDir(); err == nil {
		if err := os.WriteFile(p, data, 0o644); err != nil {
			log.Warn().Err(err).Str("path", p).Msg("failed to restore image from mirror")
		}
	}
	return data, nil
}
