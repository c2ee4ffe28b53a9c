// filings downloads SEC filings for a set of tickers and runs them through a
// text-completion service.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shanehull/filingscraper/internal/config"
)

var (
	version    = "dev"
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "filings",
	Short: "Download SEC filings and analyze them with a language model",
	Long: `filings mirrors EDGAR filings into a local archive and asks a completion
service about each downloaded file.

  filings fetch                                   Download 10-K filings for MSFT, AMZN and BAC
  filings fetch --tickers AAPL --form 10-Q        Download other forms or tickers
  filings analyze                                 Analyze sec-edgar-filings/MSFT/10-K
  filings analyze --provider gemini --ticker BAC  Use Gemini instead of OpenAI`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", fmt.Sprintf("YAML config file (default: ./%s if present)", config.DefaultFile))
	rootCmd.AddCommand(fetchCmd, analyzeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}
