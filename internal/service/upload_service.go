package service

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/shopfront/shopfront/internal/domain/session"
)

// ErrUnsupportedFileType is returned for uploads that are not images.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// imageExtensions are the upload types served back under /images/.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// UploadService stores product images on local disk and hands back the URL
// they are served under. Uploads back the admin product form, so the same
// admin gate applies as for product mutations.
type UploadService struct {
	dir      string
	maxBytes int64
	session  *session.Store
	logger   *slog.Logger
}

// NewUploadService creates an UploadService writing into dir. Files larger
// than maxBytes are refused.
func NewUploadService(dir string, maxBytes int64, sessionStore *session.Store, logger *slog.Logger) *UploadService {
	return &UploadService{
		dir:      dir,
		maxBytes: maxBytes,
		session:  sessionStore,
		logger:   logger,
	}
}

// MaxBytes returns the configured per-file size limit.
func (s *UploadService) MaxBytes() int64 {
	return s.maxBytes
}

// Dir returns the directory uploads are written to.
func (s *UploadService) Dir() string {
	return s.dir
}

// Save writes one uploaded file and returns the public URL path.
// The stored name is a fresh UUID with the original extension, so uploads
// never collide and never echo client-chosen names into the filesystem.
func (s *UploadService) Save(originalName string, r io.Reader) (string, error) {
	if _, status := s.session.Current(); status != session.StatusAuthenticated {
		return "", ErrNotAuthenticated
	}
	if !s.session.IsAdmin() {
		return "", ErrForbidden
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if !imageExtensions[ext] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, ext)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}

	name := uuid.New().String() + ext
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	written, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("write upload: %w", err)
	}
	if written > s.maxBytes {
		_ = os.Remove(path)
		return "", fmt.Errorf("upload exceeds %d bytes", s.maxBytes)
	}

	s.logger.Info("image uploaded", "name", name, "bytes", written)
	return "/images/" + name, nil
}
