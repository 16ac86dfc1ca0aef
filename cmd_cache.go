package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func (a *app) cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the scrape cache",
	}
	purge := &cobra.Command{
		Use:   "purge",
		Short: "Delete cached scrapes older than --older-than",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.load(cmd, false); err != nil {
				return err
			}
			a.cfg.NoCache = false
			ctx := cmd.Context()
			store := a.openCache(ctx)
			if store == nil {
				return fmt.Errorf("cache at %s could not be opened", a.cfg.CacheDir)
			}
			defer store.Close()

			olderThan, _ := cmd.Flags().GetDuration("older-than")
			n, err := store.Purge(ctx, olderThan)
			if err != nil {
				return err
			}
			fmt.Printf("purged %d cached users\n", n)
			return nil
		},
	}
	purge.Flags().Duration("older-than", 7*24*time.Hour, "delete entries fetched longer ago than this")
	cmd.AddCommand(purge)
	return cmd
}
