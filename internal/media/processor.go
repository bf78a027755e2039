package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const DefaultLogoDimension = 512

type Upload struct {
	Reader      io.Reader
	Size        int64
	FileName    string
	ContentType string
}

type Result struct {
	Bytes       []byte
	ContentType string
	Resized     bool
}

type Processor interface {
	Process(ctx context.Context, upload Upload, maxDimension int) (*Result, error)
}

// ImageProcessor decodes, downscales and re-encodes raster images in-process.
// WebP input is re-encoded as PNG since the decoder is one-way.
type ImageProcessor struct {
	maxDimension int
	jpegQuality  int
}

func NewImageProcessor(maxDimension int) *ImageProcessor {
	if maxDimension <= 0 {
		maxDimension = DefaultLogoDimension
	}
	return &ImageProcessor{maxDimension: maxDimension, jpegQuality: 85}
}

func (p *ImageProcessor) Process(ctx context.Context, upload Upload, maxDimension int) (*Result, error) {
	if upload.Reader == nil {
		return nil, fmt.Errorf("media: empty reader")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(upload.Reader)
	if err != nil {
		return nil, fmt.Errorf("media: read image: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("media: empty image data")
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("media: decode image: %w", err)
	}

	targetMax := maxDimension
	if targetMax <= 0 {
		targetMax = p.maxDimension
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("media: invalid dimensions %dx%d", width, height)
	}

	contentType := formatContentType(format)
	if width <= targetMax && height <= targetMax && format != "webp" {
		return &Result{Bytes: data, ContentType: contentType, Resized: false}, nil
	}

	targetW, targetH := scaleToFit(width, height, targetMax)
	dst := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	encoded, err := p.encode(dst, format)
	if err != nil {
		return nil, err
	}
	return &Result{Bytes: encoded.bytes, ContentType: encoded.contentType, Resized: true}, nil
}

type encodeResult struct {
	bytes       []byte
	contentType string
}

func (p *ImageProcessor) encode(img image.Image, format string) (*encodeResult, error) {
	var buf bytes.Buffer
	switch format {
	case "jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.jpegQuality}); err != nil {
			return nil, fmt.Errorf("media: encode jpeg: %w", err)
		}
		return &encodeResult{bytes: buf.Bytes(), contentType: "image/jpeg"}, nil
	case "png", "webp":
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("media: encode png: %w", err)
		}
		return &encodeResult{bytes: buf.Bytes(), contentType: "image/png"}, nil
	default:
		return nil, fmt.Errorf("media: unsupported format %s", format)
	}
}

func scaleToFit(width, height, maxDim int) (int, int) {
	if width <= maxDim && height <= maxDim {
		return width, height
	}
	if width >= height {
		newW := maxDim
		newH := int(math.Round(float64(height) * float64(maxDim) / float64(width)))
		return ensureMin(newW), ensureMin(newH)
	}
	newH := maxDim
	newW := int(math.Round(float64(width) * float64(maxDim) / float64(height)))
	return ensureMin(newW), ensureMin(newH)
}

func ensureMin(value int) int {
	if value < 1 {
		return 1
	}
	return value
}

func formatContentType(format string) string {
	switch strings.ToLower(format) {
	case "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
