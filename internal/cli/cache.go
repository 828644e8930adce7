package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mithrel/quill/internal/present/format"
	"github.com/mithrel/quill/internal/wire"
)

var errCacheDisabled = errors.New("render cache is disabled (cache.enabled = false)")

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the render cache",
	}

	var asJSON bool
	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show render cache statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if app.Cache == nil {
				return errCacheDisabled
			}
			st, err := app.Cache.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return format.WriteJSON(cmd.OutOrStdout(), st, true)
			}
			return format.WritePlainStats(cmd.OutOrStdout(), st)
		},
	}
	stats.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	purge := &cobra.Command{
		Use:   "purge",
		Short: "Delete every cached render",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return purgeCache(cmd, getApp(cmd))
		},
	}

	cmd.AddCommand(stats, purge)
	return cmd
}

func purgeCache(cmd *cobra.Command, app *wire.App) error {
	if app.Cache == nil {
		return errCacheDisabled
	}
	n, err := app.Cache.Purge(cmd.Context())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Purged %d cached renders\n", n)
	return nil
}
