// Package storage provides the filesystem-backed image store.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rylimitless/electrolytes/internal/core/domain"
	"github.com/rylimitless/electrolytes/internal/core/port"
)

// ErrNotFound indicates the requested image does not exist in the store.
var ErrNotFound = errors.New("storage: image not found")

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".tiff": {},
	".bmp":  {},
}

// FilesystemStore keeps images as flat files under a single directory.
type FilesystemStore struct {
	dir     string
	urlBase string
}

// NewFilesystemStore creates the backing directory if needed. urlBase is the
// public path prefix images are served under, e.g. "/images".
func NewFilesystemStore(dir, urlBase string) (*FilesystemStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create images directory: %w", err)
	}

	return &FilesystemStore{
		dir:     dir,
		urlBase: strings.TrimRight(urlBase, "/"),
	}, nil
}

// Save streams src into a file named filename. Path separators in filename
// are stripped so callers cannot escape the store directory.
func (s *FilesystemStore) Save(filename string, src io.Reader) (domain.ImageInfo, error) {
	name := filepath.Base(filepath.Clean(filename))
	if name == "." || name == string(filepath.Separator) || name == "" {
		return domain.ImageInfo{}, fmt.Errorf("invalid image filename %q", filename)
	}

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return domain.ImageInfo{}, fmt.Errorf("create image file: %w", err)
	}

	written, err := io.Copy(dst, src)
	if err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return domain.ImageInfo{}, fmt.Errorf("write image file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return domain.ImageInfo{}, fmt.Errorf("close image file: %w", err)
	}
	if written == 0 {
		os.Remove(dst.Name())
		return domain.ImageInfo{}, errors.New("empty image upload")
	}

	info, err := os.Stat(dst.Name())
	if err != nil {
		return domain.ImageInfo{}, fmt.Errorf("stat image file: %w", err)
	}

	return s.imageInfo(name, info), nil
}

// List returns stored images sorted by filename. Files without a recognized
// image extension are skipped.
func (s *FilesystemStore) List() ([]domain.ImageInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read images directory: %w", err)
	}

	images := make([]domain.ImageInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isImageFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		images = append(images, s.imageInfo(entry.Name(), info))
	}

	sort.Slice(images, func(i, j int) bool {
		return images[i].Filename < images[j].Filename
	})

	return images, nil
}

// Path returns the on-disk path for filename, or ErrNotFound.
func (s *FilesystemStore) Path(filename string) (string, error) {
	name := filepath.Base(filepath.Clean(filename))
	full := filepath.Join(s.dir, name)

	info, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("stat image file: %w", err)
	}
	if info.IsDir() {
		return "", ErrNotFound
	}

	return full, nil
}

// Delete removes filename from the store. Missing files map to ErrNotFound.
func (s *FilesystemStore) Delete(filename string) error {
	full, err := s.Path(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		return fmt.Errorf("remove image file: %w", err)
	}
	return nil
}

// Count reports how many images the store holds.
func (s *FilesystemStore) Count() (int, error) {
	images, err := s.List()
	if err != nil {
		return 0, err
	}
	return len(images), nil
}

func (s *FilesystemStore) imageInfo(name string, info os.FileInfo) domain.ImageInfo {
	return domain.ImageInfo{
		Filename: name,
		Size:     info.Size(),
		Modified: info.ModTime(),
		URL:      s.urlBase + "/" + name,
	}
}

func isImageFile(name string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

var _ port.ImageStore = (*FilesystemStore)(nil)
