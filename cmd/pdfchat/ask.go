package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-chat/internal/config"
)

func askCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <prompt>",
		Short: "Send a prompt straight to Gemini, no PDF involved",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(cmd.Context(), cfg, cfg.Logger())
			if err != nil {
				return err
			}
			out, err := svc.Ask(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
