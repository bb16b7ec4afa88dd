package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-chat/internal/config"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cfg := config.Load()

	root := &cobra.Command{
		Use:           "pdfchat",
		Short:         "Ask Gemini questions about a PDF",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&cfg.APIKey, "api-key", cfg.APIKey, "Gemini API key (default $GEMINI_API_KEY or $GOOGLE_API_KEY)")
	pf.StringVar(&cfg.Model, "model", cfg.Model, "Gemini model name (default gemini-2.5-flash)")
	pf.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Gemini API base URL")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug|info|warn|error")
	pf.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text|json")

	root.AddCommand(serveCmd(&cfg))
	root.AddCommand(queryCmd(&cfg))
	root.AddCommand(askCmd(&cfg))
	return root
}
