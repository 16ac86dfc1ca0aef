package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/drpaneas/redditpersona/internal/cache"
	"github.com/drpaneas/redditpersona/internal/config"
	"github.com/drpaneas/redditpersona/internal/reddit"
	"github.com/drpaneas/redditpersona/internal/report"
	"github.com/drpaneas/redditpersona/internal/stats"
)

// Flags that locate configuration rather than carry it.
var fileFlags = map[string]bool{"config": true, "env-file": true}

type app struct {
	v   *viper.Viper
	cfg config.Config
}

func newRootCmd() *cobra.Command {
	return (&app{v: viper.New()}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "redditpersona",
		Short:         "Build a user persona from a Reddit account's public activity",
		Long:          "redditpersona scrapes a Reddit user's public posts and comments, computes descriptive analytics, and asks an LLM to synthesize a cited user persona.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (YAML)")
	pf.String("env-file", ".env", "dotenv file with API credentials")
	pf.BoolP("verbose", "v", false, "enable verbose logging")
	pf.StringP("output", "o", "./output", "output directory for generated files")
	pf.String("cache-dir", "", "directory for the scrape cache (default: user cache dir)")
	pf.Bool("no-cache", false, "always scrape, never read or write the cache")
	pf.Duration("cache-ttl", 24*time.Hour, "maximum age of cached scrapes (0 accepts any age)")
	pf.Int("limit", reddit.DefaultLimit, "maximum posts and maximum comments to fetch")
	pf.Bool("print", false, "also render the result to the terminal")

	root.AddCommand(a.personaCmd(), a.analyzeCmd(), a.compareCmd(), a.cacheCmd())
	return root
}

// load resolves configuration for cmd, validates it and installs the logger.
func (a *app) load(cmd *cobra.Command, needLLM bool, usernames ...string) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if fileFlags[f.Name] || bindErr != nil {
			return
		}
		bindErr = a.v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
	})
	if bindErr != nil {
		return fmt.Errorf("binding flags: %w", bindErr)
	}

	config.SetDefaults(a.v)
	envFile, _ := cmd.Flags().GetString("env-file")
	cfgFile, _ := cmd.Flags().GetString("config")
	if err := config.ReadFiles(a.v, envFile, cfgFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	if len(usernames) > 0 {
		cfg.Username = config.ExtractUsername(usernames[0])
	}
	if len(usernames) > 1 {
		cfg.CompareWith = config.ExtractUsername(usernames[1])
	}
	a.cfg = cfg

	setupLogging(cfg.Verbose)
	if len(usernames) == 0 {
		return nil
	}
	return a.cfg.Validate(needLLM)
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// openCache returns nil when caching is disabled or the cache cannot be opened.
func (a *app) openCache(ctx context.Context) *cache.Store {
	if a.cfg.NoCache {
		return nil
	}
	path := filepath.Join(a.cfg.CacheDir, cache.FileName)
	store, err := cache.Open(ctx, path)
	if err != nil {
		slog.Warn("cache unavailable, scraping without it", "path", path, "error", err)
		return nil
	}
	return store
}

// fetch returns the user's data from the cache when fresh enough, otherwise
// scrapes Reddit and refreshes the cache.
func (a *app) fetch(ctx context.Context, store *cache.Store, username string) (*reddit.UserData, error) {
	if store != nil {
		data, ok, err := store.Get(ctx, username, a.cfg.CacheTTL)
		switch {
		case err != nil:
			slog.Warn("reading cache", "username", username, "error", err)
		case ok:
			slog.Info("using cached data", "username", username, "fetched_at", data.FetchedAt.Format(time.RFC3339))
			return data, nil
		}
	}

	slog.Info("scraping reddit", "username", username, "limit", a.cfg.Limit)
	data, err := reddit.NewScraper(a.cfg.Credentials(), a.cfg.Limit).Scrape(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("scraping u/%s: %w", username, err)
	}
	slog.Info("scrape complete", "username", username, "posts", len(data.Posts), "comments", len(data.Comments))
	if data.TotalItems() == 0 {
		return nil, fmt.Errorf("u/%s has no public posts or comments", username)
	}

	if store != nil {
		if err := store.Put(ctx, username, data); err != nil {
			slog.Warn("writing cache", "username", username, "error", err)
		}
	}
	return data, nil
}

func (a *app) analytics(data *reddit.UserData, username string) *stats.Report {
	slog.Info("computing analytics", "username", username)
	r := stats.Analyze(data, stats.Options{Topics: a.cfg.Topics})
	if r.Username == "" {
		r.Username = username
	}
	return r
}

func printMarkdown(md string) error {
	out, err := report.Render(md, 100, "")
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}
