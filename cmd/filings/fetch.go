package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shanehull/filingscraper/internal/config"
	"github.com/shanehull/filingscraper/internal/edgar"
	"github.com/shanehull/filingscraper/internal/fetch"
	"github.com/shanehull/filingscraper/internal/types"
)

var fetchFlags struct {
	tickers       []string
	form          string
	after         string
	before        string
	root          string
	includeAmends bool
	details       bool
	limit         int
	company       string
	email         string
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download filings for every configured ticker",
	Args:  cobra.NoArgs,
	RunE:  runFetch,
}

func init() {
	f := fetchCmd.Flags()
	f.StringSliceVarP(&fetchFlags.tickers, "tickers", "t", nil, "Comma-separated tickers or CIKs (default: MSFT,AMZN,BAC)")
	f.StringVarP(&fetchFlags.form, "form", "f", "", "Filing form to download (default: 10-K)")
	f.StringVar(&fetchFlags.after, "after", "", "Earliest filing date, YYYY-MM-DD (default: 1995-01-01)")
	f.StringVar(&fetchFlags.before, "before", "", "Latest filing date, YYYY-MM-DD (default: 2023-12-31)")
	f.StringVar(&fetchFlags.root, "root", "", "Archive directory (default: sec-edgar-filings)")
	f.BoolVar(&fetchFlags.includeAmends, "include-amends", false, "Also download amended filings (<form>/A)")
	f.BoolVar(&fetchFlags.details, "details", true, "Also download each filing's primary document")
	f.IntVar(&fetchFlags.limit, "limit", 0, "Maximum filings per ticker, newest first (0 = no limit)")
	f.StringVar(&fetchFlags.company, "company", "", "Company name sent to EDGAR in the User-Agent")
	f.StringVar(&fetchFlags.email, "email", "", "Contact email sent to EDGAR in the User-Agent")
}

func applyFetchFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("tickers") {
		cfg.Fetch.Tickers = fetchFlags.tickers
	}
	if f.Changed("form") {
		cfg.Fetch.Form = fetchFlags.form
	}
	if f.Changed("after") {
		cfg.Fetch.After = fetchFlags.after
	}
	if f.Changed("before") {
		cfg.Fetch.Before = fetchFlags.before
	}
	if f.Changed("root") {
		cfg.ArchiveRoot = fetchFlags.root
	}
	if f.Changed("include-amends") {
		cfg.Fetch.IncludeAmends = fetchFlags.includeAmends
	}
	if f.Changed("details") {
		cfg.Fetch.DownloadDetails = fetchFlags.details
	}
	if f.Changed("limit") {
		cfg.Fetch.Limit = fetchFlags.limit
	}
	if f.Changed("company") {
		cfg.Identity.Company = fetchFlags.company
	}
	if f.Changed("email") {
		cfg.Identity.Email = fetchFlags.email
	}
}

func runFetch(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyFetchFlags(cmd, &cfg)

	downloader, err := edgar.NewDownloader(edgar.Config{
		Company:         cfg.Identity.Company,
		Email:           cfg.Identity.Email,
		RootDir:         cfg.ArchiveRoot,
		IncludeAmends:   cfg.Fetch.IncludeAmends,
		DownloadDetails: cfg.Fetch.DownloadDetails,
		Limit:           cfg.Fetch.Limit,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Starting EDGAR download of %s filings for: %s\n", cfg.Fetch.Form, strings.Join(cfg.Fetch.Tickers, ", "))

	total, err := fetch.New(downloader).Run(cmd.Context(), fetch.Request{
		Identifiers: cfg.Fetch.Tickers,
		Form:        cfg.Fetch.Form,
		Dates:       types.DateRange{After: cfg.Fetch.After, Before: cfg.Fetch.Before},
	})
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}

	log.Printf("Done. Saved %d filings under %s.", total, downloader.RootDir())
	return nil
}
