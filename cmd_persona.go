package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/drpaneas/redditpersona/internal/analyzer"
	"github.com/drpaneas/redditpersona/internal/benchmark"
	"github.com/drpaneas/redditpersona/internal/llm"
	"github.com/drpaneas/redditpersona/internal/report"
)

func addLLMFlags(cmd *cobra.Command) {
	cmd.Flags().String("provider", string(llm.ProviderOpenRouter), "LLM provider: openrouter, openai, anthropic, ollama")
	cmd.Flags().String("model", "", "LLM model (default: per-provider)")
	cmd.Flags().Float32("temperature", analyzer.DefaultTemperature, "sampling temperature for persona generation")
}

func addAnalyticsFlags(cmd *cobra.Command) {
	cmd.Flags().Int("topics", 5, "number of LDA topics")
	cmd.Flags().StringSlice("formats", report.DefaultFormats, "analytics outputs: markdown, json, yaml, svg")
}

func (a *app) personaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "persona <username|profile-url>",
		Short: "Generate a cited user persona with analytics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd, true, args[0]); err != nil {
				return err
			}
			return a.runPersona(cmd)
		},
	}
	addLLMFlags(cmd)
	addAnalyticsFlags(cmd)
	cmd.Flags().Bool("skip-benchmark", false, "skip validating the persona against held-out comments")
	return cmd
}

func (a *app) runPersona(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg := &a.cfg
	slog.Info("starting redditpersona", "username", cfg.Username, "provider", cfg.Provider, "model", cfg.Model)

	store := a.openCache(ctx)
	if store != nil {
		defer store.Close()
	}
	data, err := a.fetch(ctx, store, cfg.Username)
	if err != nil {
		return err
	}

	rep := a.analytics(data, cfg.Username)

	var heldOut []benchmark.HeldOutComment
	if !cfg.SkipBenchmark {
		heldOut = benchmark.SplitComments(data, benchmark.MaxHeldOut)
		slog.Info("held out comments for benchmark", "count", len(heldOut), "remaining_comments", len(data.Comments))
	}

	provider, err := llm.NewProvider(cfg.LLM())
	if err != nil {
		return fmt.Errorf("creating LLM provider: %w", err)
	}
	an := analyzer.New(provider)
	an.SetTemperature(cfg.Temperature)
	slog.Info("generating user persona")
	persona, err := an.Analyze(ctx, cfg.Username, data, rep.Signals())
	if err != nil {
		return fmt.Errorf("analyzing persona: %w", err)
	}

	if len(heldOut) > 0 {
		slog.Info("benchmarking persona quality")
		bench := benchmark.New(provider)
		bench.SetTemperature(cfg.Temperature)
		res, refined, err := bench.Run(ctx, persona, heldOut)
		if err != nil {
			return fmt.Errorf("benchmarking persona: %w", err)
		}
		persona = refined
		fmt.Fprintf(os.Stderr, "\nBenchmark: score=%.1f/100 iterations=%d\n", res.FinalScore, res.Iterations)
		for _, it := range res.History {
			fmt.Fprintf(os.Stderr, "  iteration %d: score=%.1f\n", it.Iteration, it.Score)
		}
		fmt.Fprintln(os.Stderr)
	} else if !cfg.SkipBenchmark {
		slog.Warn("no comments long enough to hold out, skipping benchmark")
	}

	text := persona.Markdown()
	w := report.NewWriter(cfg.OutputDir)
	var paths []string
	p, err := w.SavePersona(cfg.Username, text)
	if err != nil {
		return err
	}
	paths = append(paths, p)
	if p, err = w.SavePersonaPDF(cfg.Username, text); err != nil {
		return err
	}
	paths = append(paths, p)
	analyticsPaths, err := w.WriteAnalytics(cfg.Username, report.NewExport(rep), cfg.Formats)
	if err != nil {
		return err
	}
	paths = append(paths, analyticsPaths...)

	if cfg.Print {
		if err := printMarkdown(text); err != nil {
			return err
		}
	}
	for _, p := range paths {
		fmt.Println(p)
	}
	slog.Info("done", "files_written", len(paths))
	return nil
}
