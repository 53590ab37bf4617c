package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CLIEngine shells out to the tesseract binary
type CLIEngine struct {
	Binary string
}

// NewCLIEngine creates an engine for binary, defaulting to "tesseract" on PATH
func NewCLIEngine(binary string) *CLIEngine {
	if binary == "" {
		binary = "tesseract"
	}
	return &CLIEngine{Binary: binary}
}

func (e *CLIEngine) Name() string { return "tesseract-cli" }

// Recognize pipes the image through `tesseract stdin stdout -l <langs>`
func (e *CLIEngine) Recognize(ctx context.Context, image []byte, languages []string) (string, error) {
	path, err := exec.LookPath(e.Binary)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}

	args := []string{"stdin", "stdout"}
	if len(languages) > 0 {
		args = append(args, "-l", strings.Join(languages, "+"))
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = bytes.NewReader(image)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", &ProcessingError{Op: "tesseract", Err: ctxErr}
		}
		msg := strings.TrimSpace(stderr.String())
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && msg != "" {
			return "", &ProcessingError{Op: "tesseract", Err: fmt.Errorf("%s (%v)", msg, err)}
		}
		return "", &ProcessingError{Op: "tesseract", Err: err}
	}

	return stdout.String(), nil
}
