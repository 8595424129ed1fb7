package domain

import "time"

// ImageInfo describes a stored image file.
type ImageInfo struct {
	Filename string
	Size     int64
	Modified time.Time
	URL      string
}
