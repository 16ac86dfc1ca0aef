package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drpaneas/redditpersona/internal/report"
)

func (a *app) analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <username|profile-url>",
		Short: "Compute analytics only (no LLM)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd, false, args[0]); err != nil {
				return err
			}
			ctx := cmd.Context()
			store := a.openCache(ctx)
			if store != nil {
				defer store.Close()
			}
			data, err := a.fetch(ctx, store, a.cfg.Username)
			if err != nil {
				return err
			}

			doc := report.NewExport(a.analytics(data, a.cfg.Username))
			paths, err := report.NewWriter(a.cfg.OutputDir).WriteAnalytics(a.cfg.Username, doc, a.cfg.Formats)
			if err != nil {
				return err
			}
			if a.cfg.Print {
				md, err := doc.Dashboard()
				if err != nil {
					return err
				}
				if err := printMarkdown(md); err != nil {
					return err
				}
			}
			for _, p := range paths {
				fmt.Println(p)
			}
			return nil
		},
	}
	addAnalyticsFlags(cmd)
	return cmd
}
