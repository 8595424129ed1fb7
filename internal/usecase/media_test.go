package usecase

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rylimitless/electrolytes/internal/core/domain"
	"github.com/rylimitless/electrolytes/internal/infra/storage"
)

type mockImageStore struct {
	saveInfo  domain.ImageInfo
	saveErr   error
	saveCalls int
	saveName  string

	listResult []domain.ImageInfo
	listErr    error

	pathResult string
	pathErr    error

	deleteErr   error
	deleteCalls int
}

func (m *mockImageStore) Save(filename string, src io.Reader) (domain.ImageInfo, error) {
	m.saveCalls++
	m.saveName = filename
	if m.saveErr != nil {
		return domain.ImageInfo{}, m.saveErr
	}
	if m.saveInfo.Filename == "" {
		m.saveInfo.Filename = filename
	}
	return m.saveInfo, nil
}

func (m *mockImageStore) List() ([]domain.ImageInfo, error) {
	return m.listResult, m.listErr
}

func (m *mockImageStore) Path(string) (string, error) {
	return m.pathResult, m.pathErr
}

func (m *mockImageStore) Delete(string) error {
	m.deleteCalls++
	return m.deleteErr
}

func (m *mockImageStore) Count() (int, error) {
	return len(m.listResult), m.listErr
}

func TestMediaService_Upload_RejectsNonImage(t *testing.T) {
	store := &mockImageStore{}
	svc := NewMediaService(store, nil)

	_, err := svc.Upload("report.pdf", "application/pdf", "", strings.NewReader("%PDF"))
	if !errors.Is(err, ErrNotImage) {
		t.Fatalf("expected ErrNotImage, got %v", err)
	}
	if store.saveCalls != 0 {
		t.Fatalf("expected no Save calls, got %d", store.saveCalls)
	}
}

func TestMediaService_Upload_TimestampedName(t *testing.T) {
	store := &mockImageStore{}
	svc := NewMediaService(store, nil)
	svc.now = func() time.Time { return time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC) }

	if _, err := svc.Upload("cat.png", "image/png", "", strings.NewReader("png-bytes")); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if store.saveName != "20250314150926_cat.png" {
		t.Fatalf("unexpected stored name: %s", store.saveName)
	}
}

func TestMediaService_Upload_CustomName(t *testing.T) {
	store := &mockImageStore{}
	svc := NewMediaService(store, nil)

	if _, err := svc.Upload("cat.png", "image/png", "profile", strings.NewReader("png-bytes")); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if store.saveName != "profile.png" {
		t.Fatalf("expected custom name to keep the extension, got %s", store.saveName)
	}
}

func TestMediaService_ImagePath_NotFound(t *testing.T) {
	store := &mockImageStore{pathErr: storage.ErrNotFound}
	svc := NewMediaService(store, nil)

	if _, err := svc.ImagePath("missing.png"); !errors.Is(err, ErrImageNotFound) {
		t.Fatalf("expected ErrImageNotFound, got %v", err)
	}
}

func TestMediaService_Delete_NotFound(t *testing.T) {
	store := &mockImageStore{deleteErr: storage.ErrNotFound}
	svc := NewMediaService(store, nil)

	if err := svc.Delete("missing.png"); !errors.Is(err, ErrImageNotFound) {
		t.Fatalf("expected ErrImageNotFound, got %v", err)
	}
}
