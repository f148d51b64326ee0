package cmd

import (
	"fmt"

	"github.com/ayunami2000/ayunsdlist/commands"
	"github.com/ayunami2000/ayunsdlist/utils"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Query the server once and print the active model and VAE",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, logger, err := setup()
		if err != nil {
			return err
		}
		cfg := store.Get()

		snap, err := commands.NewRemote(cfg).FetchSnapshot(cmd.Context())
		if err != nil {
			logger.Error().Err(err).Str("endpoint", cfg.Endpoint).Msg("check failed")
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Endpoint: %s\n", utils.TrimSlash(cfg.Endpoint))
		fmt.Fprintf(out, "Model: %s\n", utils.StringOrNone(snap.Model))
		fmt.Fprintf(out, "VAE: %s\n", utils.StringOrNone(snap.VAE))
		return nil
	},
}
