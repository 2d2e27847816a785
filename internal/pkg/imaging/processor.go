package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// ProcessedImage contains the stored variants of an uploaded branch photo
type ProcessedImage struct {
	Original    []byte
	Thumbnail   []byte
	ContentType string
	Width       int
	Height      int
}

// Config for image processing
type Config struct {
	MaxWidth    int // max width for the stored original
	MaxHeight   int // max height for the stored original
	ThumbWidth  int
	ThumbHeight int
	Quality     int // JPEG quality 1-100
}

// DefaultConfig returns default processing config
func DefaultConfig() Config {
	return Config{
		MaxWidth:    1920,
		MaxHeight:   1920,
		ThumbWidth:  400,
		ThumbHeight: 300,
		Quality:     85,
	}
}

// Processor resizes uploads and produces thumbnails
type Processor struct {
	config Config
}

// NewProcessor creates image processor
func NewProcessor(config Config) *Processor {
	return &Processor{config: config}
}

// Process decodes an uploaded image, shrinks it to the configured bounds and
// renders a center-cropped thumbnail.
func (p *Processor) Process(reader io.Reader) (*ProcessedImage, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	result := &ProcessedImage{
		ContentType: mimeFromFormat(format),
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
	}

	resized := img
	if result.Width > p.config.MaxWidth || result.Height > p.config.MaxHeight {
		resized = imaging.Fit(img, p.config.MaxWidth, p.config.MaxHeight, imaging.Lanczos)
		result.Width = resized.Bounds().Dx()
		result.Height = resized.Bounds().Dy()
	}

	original, err := p.encode(resized, format)
	if err != nil {
		return nil, fmt.Errorf("failed to encode original: %w", err)
	}
	result.Original = original

	thumb := imaging.Fill(img, p.config.ThumbWidth, p.config.ThumbHeight, imaging.Center, imaging.Lanczos)
	thumbnail, err := p.encode(thumb, format)
	if err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	result.Thumbnail = thumbnail

	return result, nil
}

func (p *Processor) encode(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.config.Quality}); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func mimeFromFormat(format string) string {
	switch format {
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}

// ValidFilename checks the extension of an uploaded file
func ValidFilename(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".gif":
		return true
	default:
		return false
	}
}
