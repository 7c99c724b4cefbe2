package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is a conversion target.
type Format int

const (
	FormatUnknown Format = iota
	FormatJPEG
	FormatWEBP
	FormatAVIF
)

// Formats lists every supported target in display order.
var Formats = []Format{FormatJPEG, FormatWEBP, FormatAVIF}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "webp":
		return FormatWEBP, nil
	case "avif":
		return FormatAVIF, nil
	default:
		return FormatUnknown, fmt.Errorf("unknown format %q, use jpg, webp or avif", s)
	}
}

func (f Format) String() string {
	switch f {
	case FormatJPEG:
		return "JPG"
	case FormatWEBP:
		return "WEBP"
	case FormatAVIF:
		return "AVIF"
	default:
		return "unknown"
	}
}

// Extension returns the output file extension including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case FormatWEBP:
		return ".webp"
	case FormatAVIF:
		return ".avif"
	default:
		return ""
	}
}

func (f Format) SupportsAlpha() bool {
	return f == FormatWEBP || f == FormatAVIF
}

// Denotes reports whether a file with extension ext is already stored in f.
func (f Format) Denotes(ext string) bool {
	ext = strings.ToLower(ext)
	if f == FormatJPEG {
		return IsJpegExtension(ext)
	}
	return ext == f.Extension()
}

func IsJpegExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return true
	default:
		return false
	}
}

// IsImageExtension matches the inputs the decoder set can read.
func IsImageExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".png", ".jpg", ".jpeg", ".webp", ".avif", ".bmp", ".tif", ".tiff", ".gif":
		return true
	default:
		return false
	}
}

func IsImagePath(path string) bool {
	return IsImageExtension(filepath.Ext(path))
}
