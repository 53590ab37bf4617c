package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/ocr"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var ocrCmd = &cobra.Command{
	Use:   "ocr <image>",
	Short: "Print the text extracted from an image",
	Long: `OCR runs the configured Tesseract engine over a PNG or JPEG image and
prints the text exactly as it would be submitted for checking.

Example:
  factcheck ocr screenshot.png`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger()
		defer func() { _ = logger.Sync() }()

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		text, err := extractFile(ctx, cfg, logger, args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ocrCmd)
}

func extractFile(ctx context.Context, cfg *model.Config, logger *zap.Logger, path string) (string, error) {
	if !ocr.SupportedFilename(path) {
		return "", fmt.Errorf("unsupported image %s: use PNG or JPEG", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, err := ocr.DecodeImage(f)
	if err != nil {
		return "", err
	}
	text, err := newExtractor(cfg, logger).ExtractText(ctx, img)
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	return text, nil
}
