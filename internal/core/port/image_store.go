package port

import (
	"io"

	"github.com/rylimitless/electrolytes/internal/core/domain"
)

// ImageStore abstracts where uploaded images live.
type ImageStore interface {
	Save(filename string, src io.Reader) (domain.ImageInfo, error)
	List() ([]domain.ImageInfo, error)
	// Path resolves a stored image to a servable filesystem path.
	Path(filename string) (string, error)
	Delete(filename string) error
	Count() (int, error)
}
