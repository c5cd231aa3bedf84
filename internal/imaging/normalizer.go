package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"

	_ "image/gif"
	_ "image/png"

	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Status classifies the outcome of one normalization.
type Status int

const (
	// StatusConverted means a fresh logo and thumbnails were written.
	StatusConverted Status = iota
	// StatusExists means the target logo was already present; the skip is
	// idempotent and still counts as converted.
	StatusExists
	// StatusVectorUnavailable means a vector logo was skipped because no
	// rasterization backend is available.
	StatusVectorUnavailable
	// StatusVectorFailed means the vector backend could not render the data.
	StatusVectorFailed
	// StatusDecodeFailed means the bytes were not a decodable image.
	StatusDecodeFailed
)

// Result is the typed outcome of Normalize. Err is populated only for the
// failure statuses.
type Result struct {
	Status   Status
	LogoPath string
	Err      error
}

// Normalizer converts logo bytes into the canonical output files.
type Normalizer struct {
	vector       VectorBackend
	logoDir      string
	thumbDir     string
	logoSize     int
	thumbSize    int
	quality      int
	thumbQuality int
}

// Options configures a Normalizer.
type Options struct {
	Vector       VectorBackend
	LogoDir      string
	ThumbDir     string
	LogoSize     int
	ThumbSize    int
	Quality      int
	ThumbQuality int
}

// NewNormalizer builds a Normalizer. A nil Vector backend disables vector
// support; affected logos are skipped rather than failed.
func NewNormalizer(opts Options) *Normalizer {
	return &Normalizer{
		vector:       opts.Vector,
		logoDir:      opts.LogoDir,
		thumbDir:     opts.ThumbDir,
		logoSize:     opts.LogoSize,
		thumbSize:    opts.ThumbSize,
		quality:      opts.Quality,
		thumbQuality: opts.ThumbQuality,
	}
}

// VectorSupported reports whether a rasterization backend is wired in.
func (n *Normalizer) VectorSupported() bool { return n.vector != nil }

// Normalize writes <safeName>.jpg into the logo directory plus
// <safeName>.jpg and <safeName>_sm.jpg thumbnails, returning a typed
// outcome for every path.
func (n *Normalizer) Normalize(safeName string, data []byte, contentType, sourceURL string) Result {
	logoPath := filepath.Join(n.logoDir, safeName+".jpg")
	if _, err := os.Stat(logoPath); err == nil {
		return Result{Status: StatusExists, LogoPath: logoPath}
	}

	var src image.Image
	if IsVector(sourceURL, contentType, data) {
		if n.vector == nil {
			return Result{Status: StatusVectorUnavailable}
		}
		rendered, err := n.vector.Rasterize(data, n.logoSize, n.logoSize)
		if err != nil {
			return Result{Status: StatusVectorFailed, Err: err}
		}
		src = rendered
	} else {
		decoded, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return Result{Status: StatusDecodeFailed, Err: err}
		}
		src = decoded
	}

	primary := fitAndPad(src, n.logoSize)
	if err := writeJPEG(logoPath, primary, n.quality); err != nil {
		return Result{Status: StatusDecodeFailed, Err: err}
	}

	thumb := fitAndPad(primary, n.thumbSize)
	thumbPath := filepath.Join(n.thumbDir, safeName+".jpg")
	thumbSmallPath := filepath.Join(n.thumbDir, safeName+"_sm.jpg")
	if err := writeJPEG(thumbPath, thumb, n.thumbQuality); err != nil {
		return Result{Status: StatusDecodeFailed, Err: err}
	}
	if err := writeJPEG(thumbSmallPath, thumb, n.thumbQuality); err != nil {
		return Result{Status: StatusDecodeFailed, Err: err}
	}

	return Result{Status: StatusConverted, LogoPath: logoPath}
}

// fitAndPad scales src to fit within a target square preserving aspect
// ratio (shrinking only, never upscaling) and centers it on a white
// canvas of exactly target x target. Transparency is composited onto the
// white background, not dropped.
func fitAndPad(src image.Image, target int) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, target, target))
	xdraw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, xdraw.Src)

	bounds := src.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW <= 0 || srcH <= 0 {
		return canvas
	}

	scale := 1.0
	if s := float64(target) / float64(srcW); s < scale {
		scale = s
	}
	if s := float64(target) / float64(srcH); s < scale {
		scale = s
	}

	width := int(float64(srcW)*scale + 0.5)
	height := int(float64(srcH)*scale + 0.5)
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	offsetX := (target - width) / 2
	offsetY := (target - height) / 2
	dest := image.Rect(offsetX, offsetY, offsetX+width, offsetY+height)
	xdraw.CatmullRom.Scale(canvas, dest, src, bounds, xdraw.Over, nil)
	return canvas
}

func writeJPEG(path string, img image.Image, quality int) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := jpeg.Encode(file, img, &jpeg.Options{Quality: quality}); err != nil {
		_ = file.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
