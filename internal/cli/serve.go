package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ppiankov/factcheck/internal/session"
	"github.com/ppiankov/factcheck/internal/web"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web UI",
	Long: `Serve starts the browser UI. Each visitor enters their own OpenAI and
SerpAPI keys; keys live only in that visitor's in-memory session.

Example:
  factcheck serve
  factcheck serve --addr 127.0.0.1:8080 --lang vi`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8501", "listen address")
	serveCmd.Flags().String("lang", "en", "UI and prompt language (en, vi)")
	serveCmd.Flags().Bool("expand-links", false, "fetch pages for claims that are a single URL")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("prompt.language", serveCmd.Flags().Lookup("lang"))
	_ = viper.BindPFlag("links.expand", serveCmd.Flags().Lookup("expand-links"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := session.NewStore(cfg.Session)
	srv, err := web.NewServer(cfg, store, newExtractor(cfg, logger), newResolver(cfg, logger), logger)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	logger.Info("starting factcheck",
		zap.String("addr", cfg.Server.Addr),
		zap.String("model", cfg.LLM.Model),
		zap.String("language", cfg.Prompt.Language),
		zap.Bool("expand_links", cfg.Links.Expand))

	return srv.ListenAndServe(ctx)
}
