package main

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-chat/internal/config"
	"github.com/thywilljoshua/pdf-chat/internal/server"
)

func serveCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (upload-pdf, pdf-content, clear-pdf, ask)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := cfg.Logger()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, err := newService(ctx, cfg, log)
			if err != nil {
				return err
			}
			gin.SetMode(gin.ReleaseMode)
			h, err := server.New(svc, server.Options{
				PDFPath:        cfg.PDFPath,
				MaxUploadBytes: cfg.MaxUploadBytes,
				Logger:         log,
			})
			if err != nil {
				return err
			}
			if err := h.Serve(ctx, cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			log.Info("server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	cmd.Flags().StringVar(&cfg.PDFPath, "pdf", cfg.PDFPath, "local PDF uploaded when a request carries no file (default $PDF_PATH)")
	cmd.Flags().Int64Var(&cfg.MaxUploadBytes, "max-upload", cfg.MaxUploadBytes, "maximum upload request size in bytes")
	cmd.Flags().BoolVar(&cfg.Greetings, "greetings", cfg.Greetings, "answer greeting prompts with canned replies")
	return cmd
}
