// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging normalizes uploaded images: EXIF orientation is applied,
// the pixels are re-encoded, and a thumbnail variant is produced alongside
// the full-size file. Everything runs on pure Go decoders.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"net/http"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decode support
)

// Thumbnail bounding box.
const (
	ThumbWidth  = 480
	ThumbHeight = 320
)

const jpegQuality = 85

// Result describes a processed image on disk.
type Result struct {
	Path      string // full-size file, relative to the upload dir
	ThumbPath string // thumbnail file, relative to the upload dir
	Width     int
	Height    int
	MimeType  string
}

// Processor writes processed images under a fixed upload directory.
type Processor struct {
	uploadDir string
}

// NewProcessor creates a Processor rooted at uploadDir.
func NewProcessor(uploadDir string) *Processor {
	return &Processor{uploadDir: uploadDir}
}

// Process decodes data, applies EXIF orientation, and writes the full-size
// image plus a thumbnail, both named after baseName. It fails on formats
// the decoders do not support; the caller decides whether to fall back to
// storing the raw bytes.
func (p *Processor) Process(data []byte, baseName string) (*Result, error) {
	mimeType, ext, err := detectFormat(data)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	img = applyOrientation(img, readOrientation(data))

	fullName := baseName + ext
	if err := p.encode(img, fullName, ext); err != nil {
		return nil, err
	}

	thumb := imaging.Fit(img, ThumbWidth, ThumbHeight, imaging.Lanczos)
	thumbName := baseName + "_thumb" + ext
	if err := p.encode(thumb, thumbName, ext); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &Result{
		Path:      fullName,
		ThumbPath: thumbName,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		MimeType:  mimeType,
	}, nil
}

// SaveRaw stores data unmodified. Used as the fallback when Process fails
// and for non-image media.
func (p *Processor) SaveRaw(data []byte, name string) error {
	path := filepath.Join(p.uploadDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing upload %s: %w", name, err)
	}
	return nil
}

func (p *Processor) encode(img image.Image, name, ext string) error {
	f, err := os.Create(filepath.Join(p.uploadDir, name))
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	switch ext {
	case ".png":
		err = png.Encode(f, img)
	case ".gif":
		err = gif.Encode(f, img, nil)
	default:
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	return nil
}

// detectFormat sniffs the content type and maps it to an output extension.
// WebP decodes but has no pure Go encoder, so it is re-encoded as JPEG.
// TIFF is rejected outright (CVE-2023-36308 in older decoder versions).
func detectFormat(data []byte) (mimeType, ext string, err error) {
	mimeType = http.DetectContentType(data)
	switch mimeType {
	case "image/jpeg":
		return mimeType, ".jpg", nil
	case "image/png":
		return mimeType, ".png", nil
	case "image/gif":
		return mimeType, ".gif", nil
	case "image/webp":
		return mimeType, ".jpg", nil
	default:
		return "", "", fmt.Errorf("unsupported image format: %s", mimeType)
	}
}

// readOrientation extracts the EXIF orientation tag. Missing or malformed
// EXIF data yields the identity orientation.
func readOrientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil || orientation < 1 || orientation > 8 {
		return 1
	}
	return orientation
}

// applyOrientation rotates and flips img so the pixels match the EXIF
// orientation the camera recorded.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
