package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackson-sweet/opsapp-sub001/internal/backend"
	"github.com/spf13/cobra"
)

func newDevCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:    "dev",
		Short:  "Local development helpers",
		Hidden: true,
	}

	cmd.AddCommand(
		newDevBackendCmd(app),
		newDevTokenCmd(app),
	)

	return cmd
}

func newDevBackendCmd(app *App) *cobra.Command {
	var addr, secret string

	cmd := &cobra.Command{
		Use:   "backend",
		Short: "Run an in-memory system of record",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.config().Backend
			if addr == "" {
				addr = cfg.Addr
			}
			if addr == "" {
				addr = ":8088"
			}
			if secret == "" {
				secret = cfg.Secret
			}
			b := backend.New(backend.Options{Secret: secret, Log: app.logger()})
			fmt.Fprintf(cmd.OutOrStdout(), "Backend listening on %s\n", addr)
			return b.Start(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from OPS_BACKEND_ADDR)")
	cmd.Flags().StringVar(&secret, "secret", "", "Token signing secret; auth is off when empty")

	return cmd
}

func newDevTokenCmd(app *App) *cobra.Command {
	var subject, secret string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the dev backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = app.config().Backend.Secret
			}
			if secret == "" {
				return errors.New("no signing secret (pass --secret or set OPS_BACKEND_SECRET)")
			}
			token, err := backend.IssueToken(secret, subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	cmd.Flags().StringVar(&secret, "secret", "", "Signing secret (default from OPS_BACKEND_SECRET)")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
