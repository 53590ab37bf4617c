// Package ocr extracts claim text from uploaded images with Tesseract.
package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register decoder
	"image/png"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/factcheck/internal/model"
	"go.uber.org/zap"
)

// ErrEngineUnavailable means no OCR engine is installed or it could not start
var ErrEngineUnavailable = errors.New("tesseract OCR engine is not available")

// ProcessingError is any OCR failure other than a missing engine
type ProcessingError struct {
	Op  string
	Err error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// Engine recognises text in a PNG-encoded image
type Engine interface {
	Name() string
	Recognize(ctx context.Context, image []byte, languages []string) (string, error)
}

// engines holds the constructors compiled into this binary
var engines = map[string]func(cfg model.OCRConfig) Engine{
	"cli": func(cfg model.OCRConfig) Engine { return NewCLIEngine(cfg.Binary) },
}

func register(name string, ctor func(cfg model.OCRConfig) Engine) {
	engines[name] = ctor
}

// NewEngine returns the engine selected by cfg.Engine
func NewEngine(cfg model.OCRConfig) (Engine, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Engine))
	if name == "" {
		name = "cli"
	}
	ctor, ok := engines[name]
	if !ok {
		if name == "gosseract" {
			return nil, fmt.Errorf("%w: gosseract support not compiled in (build with -tags gosseract)", ErrEngineUnavailable)
		}
		return nil, fmt.Errorf("unknown OCR engine: %s (supported: cli, gosseract)", cfg.Engine)
	}
	return ctor(cfg), nil
}

// UnavailableEngine stands in when no engine could be constructed; every
// call fails with ErrEngineUnavailable
func UnavailableEngine(reason error) Engine {
	return unavailableEngine{reason: reason}
}

type unavailableEngine struct{ reason error }

func (unavailableEngine) Name() string { return "unavailable" }

func (u unavailableEngine) Recognize(context.Context, []byte, []string) (string, error) {
	if errors.Is(u.reason, ErrEngineUnavailable) {
		return "", u.reason
	}
	return "", fmt.Errorf("%w: %v", ErrEngineUnavailable, u.reason)
}

// Extractor prepares images and runs them through an engine
type Extractor struct {
	engine    Engine
	languages []string
	minWidth  int
	logger    *zap.Logger
}

// NewExtractor creates an extractor; an empty language list means vie+eng
func NewExtractor(engine Engine, cfg model.OCRConfig, logger *zap.Logger) *Extractor {
	langs := cfg.Languages
	if len(langs) == 0 {
		langs = []string{"vie", "eng"}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		engine:    engine,
		languages: langs,
		minWidth:  cfg.MinWidth,
		logger:    logger,
	}
}

// ExtractText returns the engine output verbatim. Whitespace-only output is
// not an error; callers decide how to present it.
func (e *Extractor) ExtractText(ctx context.Context, img image.Image) (string, error) {
	if img == nil {
		return "", &ProcessingError{Op: "extract", Err: errors.New("no image")}
	}

	start := time.Now()
	prepared := upscale(img, e.minWidth)

	var buf bytes.Buffer
	if err := png.Encode(&buf, prepared); err != nil {
		return "", &ProcessingError{Op: "encode image", Err: err}
	}

	text, err := e.engine.Recognize(ctx, buf.Bytes(), e.languages)
	if err != nil {
		var perr *ProcessingError
		if errors.Is(err, ErrEngineUnavailable) || errors.As(err, &perr) {
			return "", err
		}
		return "", &ProcessingError{Op: "recognize", Err: err}
	}

	e.logger.Debug("image text extracted",
		zap.String("engine", e.engine.Name()),
		zap.Int("width", prepared.Bounds().Dx()),
		zap.Int("chars", len(text)),
		zap.Duration("elapsed", time.Since(start)))

	return text, nil
}

// SupportedFilename reports whether name has an accepted upload extension
func SupportedFilename(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}

// MaxImagePixels is the largest upload DecodeImage will allocate
const MaxImagePixels = 50_000_000

// DecodeImage decodes a PNG or JPEG upload. The header is checked first so
// an image declaring huge dimensions is rejected before any pixel buffer is
// allocated.
func DecodeImage(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ProcessingError{Op: "read image", Err: err}
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &ProcessingError{Op: "decode image", Err: err}
	}
	if format != "png" && format != "jpeg" {
		return nil, &ProcessingError{Op: "decode image", Err: fmt.Errorf("unsupported format %q (use PNG or JPEG)", format)}
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return nil, &ProcessingError{Op: "decode image", Err: fmt.Errorf("image is %dx%d, larger than %d pixels", cfg.Width, cfg.Height, MaxImagePixels)}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &ProcessingError{Op: "decode image", Err: err}
	}
	return img, nil
}
