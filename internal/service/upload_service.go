package service

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"snapmatch/internal/config"
	"snapmatch/internal/middleware"
	"snapmatch/internal/models"

	"github.com/google/uuid"
)

const (
	DefaultUploadDir       = "/tmp/snapmatch/uploads"
	DefaultMaxUploadSizeMB = 20
)

// allowedExtensions is the upload gate: only these image types may become
// posts. Matching is case-insensitive.
var allowedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// UploadService validates and stores uploaded post images.
type UploadService struct {
	uploadDir string
	maxBytes  int64
}

func NewUploadService(cfg *config.Config) *UploadService {
	uploadDir := DefaultUploadDir
	maxUploadSizeMB := DefaultMaxUploadSizeMB

	if cfg != nil {
		if cfg.UploadDir != "" {
			uploadDir = cfg.UploadDir
		}
		if cfg.MaxUploadSizeMB > 0 {
			maxUploadSizeMB = cfg.MaxUploadSizeMB
		}
	}

	return &UploadService{
		uploadDir: uploadDir,
		maxBytes:  int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// UploadDir returns the directory uploads are stored in.
func (s *UploadService) UploadDir() string {
	return s.uploadDir
}

// Allowed reports whether the filename passes the extension allow-list.
func (s *UploadService) Allowed(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	_, ok := allowedExtensions[ext]
	return ok
}

// SanitizeFilename reduces an uploaded filename to a safe base name: no
// directory components, no characters outside [a-zA-Z0-9._-].
func SanitizeFilename(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = unsafeFilenameChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	return base
}

// Save validates the file against the gate and writes it into the upload
// directory under a unique name. It returns the stored filename.
func (s *UploadService) Save(filename string, content []byte) (string, error) {
	if !s.Allowed(filename) {
		middleware.UploadRejections.WithLabelValues("extension").Inc()
		return "", models.NewValidationError("File must be a jpg, png, or gif image")
	}

	if int64(len(content)) > s.maxBytes {
		middleware.UploadRejections.WithLabelValues("size").Inc()
		return "", models.NewValidationError(fmt.Sprintf("File exceeds the maximum upload size of %d bytes", s.maxBytes))
	}

	sanitized := SanitizeFilename(filename)
	if sanitized == "" || !s.Allowed(sanitized) {
		middleware.UploadRejections.WithLabelValues("filename").Inc()
		return "", models.NewValidationError("Invalid file name")
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", models.NewInternalError(err)
	}

	stored := uuid.New().String() + "_" + sanitized
	path := filepath.Join(s.uploadDir, stored)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", models.NewInternalError(err)
	}

	return stored, nil
}

// Remove deletes a stored file. Missing files are not an error; the post row
// is the source of truth and a stray delete should not fail the request.
func (s *UploadService) Remove(stored string) error {
	if stored == "" {
		return nil
	}
	path := filepath.Join(s.uploadDir, filepath.Base(stored))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return models.NewInternalError(err)
	}
	return nil
}
