package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/drpaneas/redditpersona/internal/analyzer"
	"github.com/drpaneas/redditpersona/internal/llm"
	"github.com/drpaneas/redditpersona/internal/report"
)

func (a *app) compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <user1> <user2>",
		Short: "Compare two Reddit users",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd, true, args[0], args[1]); err != nil {
				return err
			}
			return a.runCompare(cmd)
		},
	}
	addLLMFlags(cmd)
	cmd.Flags().Int("topics", 5, "number of LDA topics used for the signals")
	return cmd
}

func (a *app) runCompare(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg := &a.cfg
	store := a.openCache(ctx)
	if store != nil {
		defer store.Close()
	}

	subjects := []analyzer.Subject{{Username: cfg.Username}, {Username: cfg.CompareWith}}
	g, gCtx := errgroup.WithContext(ctx)
	for i := range subjects {
		s := &subjects[i]
		g.Go(func() error {
			data, err := a.fetch(gCtx, store, s.Username)
			if err != nil {
				return err
			}
			s.Data = data
			s.Signals = a.analytics(data, s.Username).Signals()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	provider, err := llm.NewProvider(cfg.LLM())
	if err != nil {
		return fmt.Errorf("creating LLM provider: %w", err)
	}
	an := analyzer.New(provider)
	an.SetTemperature(cfg.Temperature)
	text, err := an.Compare(ctx, subjects[0], subjects[1])
	if err != nil {
		return err
	}

	path, err := report.NewWriter(cfg.OutputDir).SaveComparison(cfg.Username, cfg.CompareWith, text)
	if err != nil {
		return err
	}
	if cfg.Print {
		if err := printMarkdown(text); err != nil {
			return err
		}
	}
	fmt.Println(path)
	slog.Info("done", "comparison", path)
	return nil
}
