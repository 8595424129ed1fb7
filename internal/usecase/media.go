package usecase

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rylimitless/electrolytes/internal/core/domain"
	"github.com/rylimitless/electrolytes/internal/core/port"
	"github.com/rylimitless/electrolytes/internal/infra/storage"
)

var (
	// ErrNotImage indicates the uploaded file does not declare an image content type.
	ErrNotImage = errors.New("uploaded file is not an image")
	// ErrImageNotFound indicates no stored image matches the filename.
	ErrImageNotFound = errors.New("image not found")
)

// MediaService manages uploaded images on top of an ImageStore.
type MediaService struct {
	store  port.ImageStore
	logger *zap.Logger
	now    func() time.Time
}

// NewMediaService constructs a MediaService.
func NewMediaService(store port.ImageStore, logger *zap.Logger) *MediaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MediaService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Upload stores the image under a caller-chosen base name or, when name is
// empty, a timestamped variant of the original filename.
func (s *MediaService) Upload(filename, contentType, name string, src io.Reader) (domain.ImageInfo, error) {
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return domain.ImageInfo{}, ErrNotImage
	}

	filename = filepath.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." {
		return domain.ImageInfo{}, fmt.Errorf("filename is required")
	}

	target := s.targetName(filename, name)

	info, err := s.store.Save(target, src)
	if err != nil {
		return domain.ImageInfo{}, fmt.Errorf("save image: %w", err)
	}

	s.logger.Info("image uploaded",
		zap.String("filename", info.Filename),
		zap.Int64("size", info.Size),
	)

	return info, nil
}

// List returns every stored image.
func (s *MediaService) List() ([]domain.ImageInfo, error) {
	images, err := s.store.List()
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	return images, nil
}

// ImagePath resolves a filename to the path it is served from.
func (s *MediaService) ImagePath(filename string) (string, error) {
	path, err := s.store.Path(filename)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrImageNotFound
		}
		return "", fmt.Errorf("resolve image: %w", err)
	}
	return path, nil
}

// Delete removes a stored image.
func (s *MediaService) Delete(filename string) error {
	if err := s.store.Delete(filename); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrImageNotFound
		}
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

// Count reports how many images are stored.
func (s *MediaService) Count() (int, error) {
	count, err := s.store.Count()
	if err != nil {
		return 0, fmt.Errorf("count images: %w", err)
	}
	return count, nil
}

// targetName preserves the upload's extension. A custom name replaces the base
// name; otherwise the original name is prefixed with an upload timestamp so
// repeated uploads of the same file do not collide.
func (s *MediaService) targetName(filename, name string) string {
	ext := filepath.Ext(filename)

	name = strings.TrimSpace(name)
	if name != "" {
		name = filepath.Base(name)
		if !strings.EqualFold(filepath.Ext(name), ext) {
			name += ext
		}
		return name
	}

	return fmt.Sprintf("%s_%s", s.now().UTC().Format("20060102150405"), filename)
}
