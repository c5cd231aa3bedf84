package imaging

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// VectorBackend rasterizes vector image data into pixels.
type VectorBackend interface {
	// Rasterize renders data preserving aspect ratio. The source is
	// scaled down only when it exceeds the target box; it is never
	// upscaled past its own resolution.
	Rasterize(data []byte, maxWidth, maxHeight int) (image.Image, error)
}

// probeSVG is a minimal document used to verify the backend works.
const probeSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"></svg>`

// DetectVectorBackend probes the SVG rasterizer once at process start and
// returns nil when vector support is unavailable. Callers pass the result
// into NewNormalizer; there is no ambient global.
func DetectVectorBackend() VectorBackend {
	backend := svgBackend{}
	if _, err := backend.Rasterize([]byte(probeSVG), 10, 10); err != nil {
		return nil
	}
	return backend
}

type svgBackend struct{}

func (svgBackend) Rasterize(data []byte, maxWidth, maxHeight int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}

	srcW, srcH := icon.ViewBox.W, icon.ViewBox.H
	if srcW <= 0 || srcH <= 0 {
		srcW, srcH = float64(maxWidth), float64(maxHeight)
	}

	scale := 1.0
	if s := float64(maxWidth) / srcW; s < scale {
		scale = s
	}
	if s := float64(maxHeight) / srcH; s < scale {
		scale = s
	}

	width := int(srcW*scale + 0.5)
	height := int(srcH*scale + 0.5)
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	icon.SetTarget(0, 0, float64(width), float64(height))
	scanner := rasterx.NewScannerGV(width, height, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1)
	return rgba, nil
}

// vectorExtensions are URL suffixes that identify vector sources.
var vectorExtensions = []string{".svg", ".svgz"}

// IsVector classifies logo bytes as vector data using the source URL
// extension, the declared content type, and a byte-prefix sniff: markup
// that opens with an svg or xml marker and mentions an svg root tag within
// the first 500 bytes.
func IsVector(sourceURL, contentType string, data []byte) bool {
	lowerURL := strings.ToLower(sourceURL)
	for _, ext := range vectorExtensions {
		if strings.HasSuffix(lowerURL, ext) {
			return true
		}
	}
	if strings.Contains(strings.ToLower(contentType), "svg") {
		return true
	}

	head := data
	if len(head) > 100 {
		head = head[:100]
	}
	trimmed := bytes.TrimLeft(head, " \t\r\n")
	if bytes.HasPrefix(trimmed, []byte("<svg")) || bytes.HasPrefix(trimmed, []byte("<?xml")) {
		window := data
		if len(window) > 500 {
			window = window[:500]
		}
		return bytes.Contains(window, []byte("<svg"))
	}
	return false
}
