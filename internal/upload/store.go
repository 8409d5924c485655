// Package upload stores user-submitted profile pictures on disk.
package upload

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"inkwell/internal/models"

	xdraw "golang.org/x/image/draw"
)

const (
	// DefaultMaxBytes caps uploads at 2 MiB.
	DefaultMaxBytes = 2 * 1024 * 1024

	// maxDimension is the largest edge kept when downscaling avatars.
	maxDimension = 512

	jpegQuality = 85
)

// DefaultAllowedExtensions lists the accepted picture formats.
var DefaultAllowedExtensions = []string{"jpg", "jpeg", "png"}

// Store writes uploaded pictures under a configured directory with
// collision-resistant names. The original filename contributes only
// its extension, which rules out path traversal and name collisions.
type Store struct {
	Dir         string
	MaxBytes    int64
	AllowedExts []string
}

// NewStore creates an upload store rooted at dir.
func NewStore(dir string, maxBytes int64) *Store {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Store{
		Dir:         dir,
		MaxBytes:    maxBytes,
		AllowedExts: DefaultAllowedExtensions,
	}
}

// Save validates, downscales, and persists the uploaded bytes,
// returning the stored filename. The file is fully written before the
// name is returned, so a failed write leaves nothing for the caller
// to persist.
func (s *Store) Save(data []byte, originalFilename string) (string, error) {
	if int64(len(data)) > s.MaxBytes {
		return "", models.NewPayloadTooLargeError(s.MaxBytes)
	}
	if len(data) == 0 {
		return "", models.NewValidationError("No file uploaded")
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(originalFilename), "."))
	if !s.extensionAllowed(ext) {
		return "", models.NewUnsupportedMediaTypeError(ext)
	}

	decoded, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", models.NewValidationError("Invalid image file")
	}
	if !formatMatchesExt(format, ext) {
		return "", models.NewValidationError("Image content does not match its extension")
	}

	// Large originals are downscaled; anything already within bounds
	// is written back untouched.
	if b := decoded.Bounds(); b.Dx() > maxDimension || b.Dy() > maxDimension {
		resized := resizeToFit(decoded, maxDimension, maxDimension)
		data, err = encode(resized, ext)
		if err != nil {
			return "", models.NewInternalError(err)
		}
	}

	name, err := randomFilename(ext)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	if err := os.MkdirAll(s.Dir, 0o750); err != nil {
		return "", models.NewInternalError(err)
	}
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", models.NewInternalError(err)
	}
	return name, nil
}

func (s *Store) extensionAllowed(ext string) bool {
	for _, allowed := range s.AllowedExts {
		if ext == allowed {
			return true
		}
	}
	return false
}

func formatMatchesExt(format, ext string) bool {
	switch format {
	case "jpeg":
		return ext == "jpg" || ext == "jpeg"
	case "png":
		return ext == "png"
	default:
		return false
	}
}

// randomFilename builds "<32 hex chars>.<ext>" from a fresh random token.
func randomFilename(ext string) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.%s", hex.EncodeToString(buf), ext), nil
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encode(img image.Image, ext string) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	switch ext {
	case "png":
		if err := png.Encode(buf, img); err != nil {
			return nil, err
		}
	default:
		if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
