package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"eodhistdata/eodhd"
	"eodhistdata/internal/config"
	"eodhistdata/internal/httpx"
)

var rootCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch market data from the EOD Historical Data API",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A .env file in the working directory is optional.
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Fatalf("loading .env: %v", err)
		}
	},
}

var quoteCmd = &cobra.Command{
	Use:   "quote TICKER",
	Short: "Fetch the latest delayed quote for a ticker",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, cfg := newClient(cmd)

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.RequestTimeoutSec)*time.Second)
		defer cancel()

		quote, err := client.GetLatestQuote(ctx, args[0])
		if err != nil {
			log.Fatalf("fetching quote: %v", err)
		}

		if err := renderQuote(os.Stdout, cfg.Format, quote); err != nil {
			log.Fatalf("rendering quote: %v", err)
		}
	},
}

var historyCmd = &cobra.Command{
	Use:   "history TICKER",
	Short: "Fetch daily end-of-day bars for a ticker",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		from, err := cmd.Flags().GetString("from")
		if err != nil {
			log.Fatalf("error getting from: %v", err)
		}
		to, err := cmd.Flags().GetString("to")
		if err != nil {
			log.Fatalf("error getting to: %v", err)
		}
		out, err := cmd.Flags().GetString("out")
		if err != nil {
			log.Fatalf("error getting out: %v", err)
		}

		start, err := time.Parse("2006-01-02", from)
		if err != nil {
			log.Fatalf("parsing from date: %v", err)
		}
		end := time.Now().UTC()
		if to != "" {
			end, err = time.Parse("2006-01-02", to)
			if err != nil {
				log.Fatalf("parsing to date: %v", err)
			}
		}

		client, cfg := newClient(cmd)

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.RequestTimeoutSec)*time.Second)
		defer cancel()

		quotes, err := client.GetQuoteHistory(ctx, args[0], start, end)
		if err != nil {
			log.Fatalf("fetching history: %v", err)
		}
		log.Infof("Fetched %d bars for %s", len(quotes), args[0])

		if out != "" {
			if err := writeHistoryCSV(out, quotes); err != nil {
				log.Fatalf("writing CSV: %v", err)
			}
			log.Infof("Exported %d bars to %s", len(quotes), out)
			return
		}

		if err := renderHistory(os.Stdout, cfg.Format, quotes); err != nil {
			log.Fatalf("rendering history: %v", err)
		}
	},
}

var dividendsCmd = &cobra.Command{
	Use:   "dividends TICKER",
	Short: "Fetch the dividend history for a ticker",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		from, err := cmd.Flags().GetString("from")
		if err != nil {
			log.Fatalf("error getting from: %v", err)
		}

		start, err := time.Parse("2006-01-02", from)
		if err != nil {
			log.Fatalf("parsing from date: %v", err)
		}

		client, cfg := newClient(cmd)

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.RequestTimeoutSec)*time.Second)
		defer cancel()

		dividends, err := client.GetDividendHistory(ctx, args[0], start)
		if err != nil {
			log.Fatalf("fetching dividends: %v", err)
		}
		log.Infof("Fetched %d dividends for %s", len(dividends), args[0])

		if err := renderDividends(os.Stdout, cfg.Format, dividends); err != nil {
			log.Fatalf("rendering dividends: %v", err)
		}
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary TICKER",
	Short: "Fetch the latest quote, trailing year bars and dividends at once",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, cfg := newClient(cmd)

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.RequestTimeoutSec)*time.Second)
		defer cancel()

		ticker := args[0]
		now := time.Now().UTC()
		yearAgo := now.AddDate(-1, 0, 0)

		// The client is safe for concurrent use, so the three endpoints are
		// fetched in parallel.
		var (
			quote     *eodhd.RealTimeQuote
			quotes    []eodhd.HistoricQuote
			dividends []eodhd.Dividend
		)
		type result struct {
			name string
			err  error
		}
		ch := make(chan result, 3)
		go func() {
			var err error
			quote, err = client.GetLatestQuote(ctx, ticker)
			ch <- result{name: "quote", err: err}
		}()
		go func() {
			var err error
			quotes, err = client.GetQuoteHistory(ctx, ticker, yearAgo, now)
			ch <- result{name: "history", err: err}
		}()
		go func() {
			var err error
			dividends, err = client.GetDividendHistory(ctx, ticker, yearAgo)
			ch <- result{name: "dividends", err: err}
		}()
		for i := 0; i < 3; i++ {
			r := <-ch
			if r.err != nil {
				log.Fatalf("fetching %s: %v", r.name, r.err)
			}
		}

		if err := renderSummary(os.Stdout, cfg.Format, quote, quotes, dividends); err != nil {
			log.Fatalf("rendering summary: %v", err)
		}
	},
}

// newClient builds the API client from the config file, the environment and
// the persistent flags, in that order of precedence.
func newClient(cmd *cobra.Command) (*eodhd.Client, config.Config) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		log.Fatalf("error getting config: %v", err)
	}
	token, err := cmd.Flags().GetString("token")
	if err != nil {
		log.Fatalf("error getting token: %v", err)
	}
	baseURL, err := cmd.Flags().GetString("base-url")
	if err != nil {
		log.Fatalf("error getting base-url: %v", err)
	}
	timeout, err := cmd.Flags().GetInt("timeout")
	if err != nil {
		log.Fatalf("error getting timeout: %v", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		log.Fatalf("error getting format: %v", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	// Override select fields from flags where provided
	if token != "" {
		cfg.APIToken = token
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if timeout != 0 {
		cfg.RequestTimeoutSec = timeout
	}
	if format != "" {
		cfg.Format = format
	}

	if cfg.APIToken == "" {
		log.Fatal("no API token configured; set EODHD_API_TOKEN or pass --token")
	}

	httpClient := httpx.New(time.Duration(cfg.RequestTimeoutSec) * time.Second)

	options := []eodhd.ClientOption{eodhd.WithHTTPClient(httpClient)}
	if cfg.BaseURL != "" {
		options = append(options, eodhd.WithBaseURL(cfg.BaseURL))
	}

	client, err := eodhd.NewClient(cfg.APIToken, options...)
	if err != nil {
		log.Fatalf("eodhd client: %v", err)
	}
	return client, cfg
}

func main() {
	rootCmd.PersistentFlags().String("token", "", "EOD Historical Data API token (overrides EODHD_API_TOKEN)")
	rootCmd.PersistentFlags().String("base-url", "", "override the API base URL")
	rootCmd.PersistentFlags().Int("timeout", 0, "request timeout in seconds")
	rootCmd.PersistentFlags().String("format", "", "output format: table or json")
	rootCmd.PersistentFlags().String("config", "", "path to config.json (optional)")

	historyCmd.Flags().String("from", "", "start date (2006-01-02)")
	historyCmd.Flags().String("to", "", "end date (2006-01-02), defaults to today")
	historyCmd.Flags().String("out", "", "write the bars to a CSV file instead of rendering")
	historyCmd.MarkFlagRequired("from")

	dividendsCmd.Flags().String("from", "", "start date (2006-01-02)")
	dividendsCmd.MarkFlagRequired("from")

	rootCmd.AddCommand(quoteCmd, historyCmd, dividendsCmd, summaryCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
