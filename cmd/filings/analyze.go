package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shanehull/filingscraper/internal/ai"
	"github.com/shanehull/filingscraper/internal/analyze"
	"github.com/shanehull/filingscraper/internal/config"
	"github.com/shanehull/filingscraper/internal/notify"
)

var analyzeFlags struct {
	ticker      string
	form        string
	root        string
	prompt      string
	provider    string
	engine      string
	baseURL     string
	apiKey      string
	includeText bool

	smtpServer string
	smtpPort   int
	smtpUser   string
	smtpPass   string
	toEmail    string
	fromEmail  string
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run every downloaded filing for one ticker through the completion service",
	Args:  cobra.NoArgs,
	RunE:  runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVarP(&analyzeFlags.ticker, "ticker", "t", "", "Ticker whose filings are analyzed (default: MSFT)")
	f.StringVarP(&analyzeFlags.form, "form", "f", "", "Filing form directory to analyze (default: 10-K)")
	f.StringVar(&analyzeFlags.root, "root", "", "Archive directory (default: sec-edgar-filings)")
	f.StringVarP(&analyzeFlags.prompt, "prompt", "p", "", "Prompt sent for every file")
	f.StringVar(&analyzeFlags.provider, "provider", "", "Completion provider: openai or gemini (default: openai)")
	f.StringVar(&analyzeFlags.engine, "engine", "", "Model or engine name (default depends on provider)")
	f.StringVar(&analyzeFlags.baseURL, "base-url", "", "Override the completion service endpoint")
	f.StringVar(&analyzeFlags.apiKey, "api-key", "", "API key (default: $OPENAI_API_KEY or $GEMINI_API_KEY)")
	f.BoolVar(&analyzeFlags.includeText, "include-text", false, "Append each file's text to the prompt")

	f.StringVar(&analyzeFlags.smtpServer, "smtp-server", "", "SMTP server address (default: smtp.gmail.com)")
	f.IntVar(&analyzeFlags.smtpPort, "smtp-port", 0, "SMTP server port (default: 587)")
	f.StringVar(&analyzeFlags.smtpUser, "smtp-user", "", "SMTP username (email address)")
	f.StringVar(&analyzeFlags.smtpPass, "smtp-pass", "", "SMTP password or App Password (default: $SMTP_PASS)")
	f.StringVar(&analyzeFlags.toEmail, "to-email", "", "Recipient of the emailed report")
	f.StringVar(&analyzeFlags.fromEmail, "from-email", "", "Sender email address (default: smtp-user)")
}

func applyAnalyzeFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	set := func(name string, dst *string, v string) {
		if f.Changed(name) {
			*dst = v
		}
	}

	set("ticker", &cfg.Analyze.Ticker, analyzeFlags.ticker)
	set("form", &cfg.Analyze.Form, analyzeFlags.form)
	set("root", &cfg.ArchiveRoot, analyzeFlags.root)
	set("prompt", &cfg.Analyze.Prompt, analyzeFlags.prompt)
	set("provider", &cfg.Analyze.Provider, analyzeFlags.provider)
	set("engine", &cfg.Analyze.Engine, analyzeFlags.engine)
	set("base-url", &cfg.Analyze.BaseURL, analyzeFlags.baseURL)
	set("api-key", &cfg.Analyze.APIKey, analyzeFlags.apiKey)
	set("smtp-server", &cfg.Email.SMTPServer, analyzeFlags.smtpServer)
	set("smtp-user", &cfg.Email.SMTPUser, analyzeFlags.smtpUser)
	set("smtp-pass", &cfg.Email.SMTPPass, analyzeFlags.smtpPass)
	set("to-email", &cfg.Email.ToEmail, analyzeFlags.toEmail)
	set("from-email", &cfg.Email.FromEmail, analyzeFlags.fromEmail)

	if f.Changed("smtp-port") {
		cfg.Email.SMTPPort = analyzeFlags.smtpPort
	}
	if f.Changed("include-text") {
		cfg.Analyze.IncludeText = analyzeFlags.includeText
	}
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyAnalyzeFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	dir := cfg.AnalyzeDir()
	ok, err := analyze.CheckRoot(out, dir)
	if err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	if !ok {
		return nil
	}

	completer, err := ai.New(ctx, cfg.Analyze.Provider, cfg.APIKey(), cfg.Analyze.BaseURL)
	if err != nil {
		return err
	}

	analyzer := analyze.New(completer, out, analyze.Options{
		Params: ai.Params{
			Engine:      cfg.Engine(),
			Prompt:      cfg.Analyze.Prompt,
			MaxTokens:   cfg.Analyze.MaxTokens,
			Temperature: cfg.Analyze.Temperature,
			Stop:        cfg.Analyze.Stop,
		},
		IncludeText: cfg.Analyze.IncludeText,
	})

	results, err := analyzer.Run(ctx, dir)
	if err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	if len(results) == 0 {
		return nil
	}

	report := notify.NewReportData(cfg.Analyze.Ticker, cfg.Analyze.Form, dir, cfg.Analyze.Prompt, results, time.Now())
	notify.ReportResults(out, report)

	notify.EmailResults(report, notify.NewEmailSender(notify.EmailConfig{
		SMTPServer: cfg.Email.SMTPServer,
		SMTPPort:   cfg.Email.SMTPPort,
		SMTPUser:   cfg.Email.SMTPUser,
		SMTPPass:   cfg.SMTPPass(),
		FromEmail:  cfg.Email.FromEmail,
		ToEmail:    cfg.Email.ToEmail,
	}))

	return nil
}
