package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/factcheck/internal/model"
	"github.com/spf13/cobra"
)

var (
	checkImage   string
	checkTimeout time.Duration
)

var checkCmd = &cobra.Command{
	Use:   "check [claim]",
	Short: "Verify one claim from the terminal",
	Long: `Check resolves a single claim and prints the verdict as markdown.

The claim is the argument, or the text read from --image.

Example:
  factcheck check "The sky is green"
  factcheck check --image rumour.png
  OPENAI_API_KEY=sk-... SERPAPI_API_KEY=... factcheck check "Vietnam raises VAT to 12%"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkImage, "image", "", "read the claim from a PNG or JPEG image")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 3*time.Minute, "overall timeout")
	addCredentialFlags(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	creds := credentials()
	if err := creds.Validate(); err != nil {
		return fmt.Errorf("%w: set %s and %s or pass --openai-key and --serpapi-key", err, model.EnvLLMKey, model.EnvSearchKey)
	}

	var claim string
	switch {
	case checkImage != "":
		claim, err = extractFile(ctx, cfg, logger, checkImage)
		if err != nil {
			return err
		}
		if strings.TrimSpace(claim) == "" {
			return fmt.Errorf("no text found in %s", checkImage)
		}
		fmt.Fprintf(os.Stderr, "Extracted claim:\n%s\n\n", claim)
	case len(args) == 1:
		claim = args[0]
	default:
		return fmt.Errorf("give a claim argument or --image")
	}

	verdict, err := newResolver(cfg, logger).Resolve(ctx, claim, creds)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), verdict.Markdown)
	fmt.Fprintf(os.Stderr, "\nChecked at %s (%s, %d steps)\n", verdict.Timestamp(), verdict.Model, len(verdict.Steps))
	return nil
}
