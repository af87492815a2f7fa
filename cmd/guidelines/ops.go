package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.nanomsg.org/mangos/v3"

	"github.com/dd0wney/cluso-guidelines/pkg/archive"
	"github.com/dd0wney/cluso-guidelines/pkg/auth"
	"github.com/dd0wney/cluso-guidelines/pkg/events"
	"github.com/dd0wney/cluso-guidelines/pkg/store"
)

func newTokenCmd(opts *options) *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the conversion API",
		Long: `Issue a bearer token signed with the configured JWT secret
(auth.jwt_secret or JWT_SECRET).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if ttl == 0 {
				ttl = cfg.Auth.TokenTTL
			}
			manager, err := auth.NewJWTManager(cfg.Auth.JWTSecret, ttl)
			if err != nil {
				return err
			}
			token, err := manager.GenerateToken(subject, role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "token subject, e.g. the editor user name")
	cmd.Flags().StringVar(&role, "role", auth.RoleEditor, "token role (editor or service)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to auth.token_ttl)")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func newWatchCmd(opts *options) *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print conversion events published by a server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				cfg, err := opts.loadConfig()
				if err != nil {
					return err
				}
				url = cfg.Events.URL
			}
			subscriber, err := events.Subscribe(url)
			if err != nil {
				return err
			}
			defer subscriber.Close()

			ctx := cmd.Context()
			for {
				select {
				case <-ctx.Done():
					return nil
				default:
				}
				ev, err := subscriber.Receive(time.Second)
				if errors.Is(err, mangos.ErrRecvTimeout) {
					continue
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-14s %-8s doc=%q triples=%d %dms\n",
					ev.Time.Format(time.RFC3339), ev.Format, ev.Status, ev.DocumentID, ev.Triples, ev.DurationMS)
			}
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "publisher address (defaults to events.url)")
	return cmd
}

func newHistoryCmd(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <doc-id>",
		Short: "List stored conversions of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Store.DatabaseURL == "" {
				return errors.New("store.database_url is not configured")
			}
			st, err := store.New(cmd.Context(), cfg.Store.DatabaseURL, 1)
			if err != nil {
				return err
			}
			defer st.Close()

			conversions, err := st.List(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			for i := range conversions {
				conversions[i].Input = nil
			}
			return writeJSON(cmd.OutOrStdout(), conversions)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of conversions")
	return cmd
}

func newArchiveCmd(opts *options) *cobra.Command {
	var output bool

	cmd := &cobra.Command{
		Use:   "archive <key>",
		Short: "Show an archived conversion",
		Long: `Show an archived conversion record. With --output only the produced
output is written, as it was returned to the client.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			sink, err := archive.New(cmd.Context(), cfg.Archive)
			if err != nil {
				return err
			}
			rec, err := sink.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output {
				_, err = cmd.OutOrStdout().Write(rec.Output)
				return err
			}
			return writeJSON(cmd.OutOrStdout(), rec)
		},
	}
	cmd.Flags().BoolVar(&output, "output", false, "print only the conversion output")
	return cmd
}
