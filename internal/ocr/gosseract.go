//go:build gosseract

package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"github.com/ppiankov/factcheck/internal/model"
)

func init() {
	register("gosseract", func(model.OCRConfig) Engine { return NewGosseractEngine() })
}

// GosseractEngine runs libtesseract in-process
type GosseractEngine struct {
	clientFactory func() *gosseract.Client
}

// NewGosseractEngine constructs a libtesseract-backed engine.
func NewGosseractEngine() *GosseractEngine {
	return &GosseractEngine{clientFactory: gosseract.NewClient}
}

func (e *GosseractEngine) Name() string { return "gosseract" }

// Recognize uses a fresh client per image; clients are not safe for concurrent use.
func (e *GosseractEngine) Recognize(ctx context.Context, image []byte, languages []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &ProcessingError{Op: "gosseract", Err: err}
	}

	c := e.clientFactory()
	defer c.Close()

	if len(languages) > 0 {
		if err := c.SetLanguage(languages...); err != nil {
			return "", &ProcessingError{Op: "set languages", Err: err}
		}
	}
	if err := c.SetImageFromBytes(image); err != nil {
		return "", &ProcessingError{Op: "set image", Err: err}
	}

	text, err := c.Text()
	if err != nil {
		// TessBaseAPI init fails when libtesseract or the trained data is missing
		if strings.Contains(strings.ToLower(err.Error()), "initialize") {
			return "", fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
		}
		return "", &ProcessingError{Op: "recognize text", Err: err}
	}
	return text, nil
}
