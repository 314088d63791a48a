package domain

import (
	"fmt"
	"strings"
)

// ImageSize selects the output resolution of a generated image.
type ImageSize string

const (
	ImageSize1K ImageSize = "1K"
	ImageSize2K ImageSize = "2K"
	ImageSize4K ImageSize = "4K"
)

func (s ImageSize) Valid() bool {
	switch s {
	case ImageSize1K, ImageSize2K, ImageSize4K:
		return true
	}
	return false
}

func ParseImageSize(raw string) (ImageSize, error) {
	s := ImageSize(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown image size %q", raw)
	}
	return s, nil
}

// Rendering is a generated or edited image kept for a project.
type Rendering struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId,omitempty"`
	Prompt    string `json:"prompt"`
	MIMEType  string `json:"mimeType"`
	Size      string `json:"size"`
	CreatedAt string `json:"createdAt"`
}
