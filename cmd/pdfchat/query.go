package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-chat/internal/config"
)

func queryCmd(cfg *config.Config) *cobra.Command {
	var pdfPath string

	cmd := &cobra.Command{
		Use:   "query <prompt>",
		Short: "Upload a local PDF and ask one question about it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if pdfPath == "" {
				pdfPath = cfg.PDFPath
			}
			log := cfg.Logger()
			svc, err := newService(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			res, err := svc.UploadPath(cmd.Context(), pdfPath)
			if err != nil {
				return fmt.Errorf("upload %s: %w", pdfPath, err)
			}
			log.Debug("uploaded", "uri", res.FileURI, "pages", res.Pages)

			out, err := svc.Generate(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "PDF file to ask about (default $PDF_PATH)")
	return cmd
}
