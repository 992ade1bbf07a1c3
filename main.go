package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"compscout/scraper/config"
	"compscout/scraper/internal/browser"
	"compscout/scraper/internal/scrape"
	"compscout/scraper/logger"
	scrapeerrors "compscout/scraper/pkg/errors"
	"compscout/scraper/services/cache"
	"compscout/scraper/services/publisher"
	"compscout/scraper/services/worker"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Load environment variables from .env file if present
	_ = godotenv.Load()

	logger.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logger.Error("command failed: %v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "compscout",
		Short:         "Scrape word-limit competition listings into structured JSON",
		Long:          "compscout collects 25-words-or-less competition listings from Australian aggregator sites and emits them as structured JSON on stdout. Logs go to stderr.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newListingsCmd(),
		newDetailCmd(),
		newDetailsCmd(),
		newURLsCmd(),
		newWorkerCmd(),
	)

	return root
}

func newListingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listings",
		Short: "Scrape all listing pages and print the merged records",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			return withFetcher(cfg, func(fetcher browser.Fetcher) error {
				agg := scrape.NewAggregator(cfg, fetcher, blockList(cfg))
				result, err := agg.ScrapeListings(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd, result)
			})
		},
	}
}

func newDetailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detail URL",
		Short: "Scrape one competition page and print its full record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			return withFetcher(cfg, func(fetcher browser.Fetcher) error {
				batch := scrape.NewBatchFetcher(cfg, fetcher)
				comp, err := batch.ScrapeDetail(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd, comp)
			})
		},
	}
}

// detailsInput is the stdin envelope for the details command.
type detailsInput struct {
	URLs []string `json:"urls"`
}

func newDetailsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "details",
		Short: `Fetch full details for a batch of URLs read from stdin as {"urls": [...]}`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var input detailsInput
			if err := json.NewDecoder(cmd.InOrStdin()).Decode(&input); err != nil {
				return fmt.Errorf("invalid JSON input: %w", err)
			}
			if len(input.URLs) == 0 {
				return errors.New(`no URLs provided, expected JSON: {"urls": [...]}`)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			return withFetcher(cfg, func(fetcher browser.Fetcher) error {
				batch := scrape.NewBatchFetcher(cfg, fetcher)
				result, err := batch.ScrapeDetails(cmd.Context(), input.URLs)
				if err != nil {
					return err
				}
				return printJSON(cmd, result)
			})
		},
	}
}

func newURLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "urls",
		Short: "List the competition URLs found per site, for debugging",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			return withFetcher(cfg, func(fetcher browser.Fetcher) error {
				agg := scrape.NewAggregator(cfg, fetcher, blockList(cfg))
				result, err := agg.ScrapeURLs(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd, result)
			})
		},
	}
}

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run listing sweeps on an interval and publish records to Redis streams",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			blocks := blockList(cfg)

			pub := publisher.NewRedisPublisher(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream, cfg.RedisStreamMaxLength)
			defer pub.Close()

			// Each sweep gets a fresh browser session so a wedged renderer
			// cannot poison the next run.
			sweep := func(ctx context.Context) (*scrape.ListingResult, error) {
				fetcher, err := browser.NewFetcher(cfg)
				if err != nil {
					return nil, err
				}
				defer fetcher.Close()

				return scrape.NewAggregator(cfg, fetcher, blocks).ScrapeListings(ctx)
			}

			logger.Info("worker starting, interval %s", cfg.CrawlInterval)

			err = worker.NewWorker(ctx, sweep, pub, cfg.CrawlInterval).Start()
			if errors.Is(err, context.Canceled) {
				logger.Info("worker stopped")
				return nil
			}
			return err
		},
	}
}

func loadConfig() (config.Config, error) {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, scrapeerrors.NewConfiguration("invalid configuration", err)
	}
	return cfg, nil
}

// withFetcher runs fn with a fetcher that is closed on every exit path.
func withFetcher(cfg config.Config, fn func(browser.Fetcher) error) error {
	fetcher, err := browser.NewFetcher(cfg)
	if err != nil {
		return err
	}
	defer fetcher.Close()
	return fn(fetcher)
}

// blockList builds the cross-run site block list, or nil when no cache is
// configured.
func blockList(cfg config.Config) *cache.BlockList {
	if cfg.MemcacheAddr == "" {
		return nil
	}
	return cache.NewBlockList(cache.NewMemcacheService(cfg.MemcacheAddr), cfg.BlockTime)
}

// printJSON writes the command result to stdout as indented JSON.
func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
