/*
Package config holds the run configuration. Defaults reproduce the stock run; an
optional YAML file and command-line flags override them.
*/
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shanehull/filingscraper/internal/ai"
	"github.com/shanehull/filingscraper/internal/edgar"
)

const DefaultFile = "filings.yaml"

// Config is the full application configuration.
type Config struct {
	Identity    Identity `yaml:"identity"`
	ArchiveRoot string   `yaml:"archive_root"`
	Fetch       Fetch    `yaml:"fetch"`
	Analyze     Analyze  `yaml:"analyze"`
	Email       Email    `yaml:"email"`
}

// Identity is sent to EDGAR in the User-Agent header.
type Identity struct {
	Company string `yaml:"company"`
	Email   string `yaml:"email"`
}

type Fetch struct {
	Tickers         []string `yaml:"tickers"`
	Form            string   `yaml:"form"`
	After           string   `yaml:"after"`
	Before          string   `yaml:"before"`
	IncludeAmends   bool     `yaml:"include_amends"`
	DownloadDetails bool     `yaml:"download_details"`
	Limit           int      `yaml:"limit"`
}

type Analyze struct {
	Ticker      string  `yaml:"ticker"`
	Form        string  `yaml:"form"`
	Prompt      string  `yaml:"prompt"`
	Provider    string  `yaml:"provider"`
	Engine      string  `yaml:"engine"`
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
	Stop        string  `yaml:"stop"`
	IncludeText bool    `yaml:"include_text"`
}

type Email struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	SMTPUser   string `yaml:"smtp_user"`
	SMTPPass   string `yaml:"smtp_pass"`
	FromEmail  string `yaml:"from_email"`
	ToEmail    string `yaml:"to_email"`
}

func Default() Config {
	return Config{
		Identity: Identity{
			Company: "FilingScraper",
			Email:   "filingscraper@example.com",
		},
		ArchiveRoot: edgar.DefaultRootDir,
		Fetch: Fetch{
			Tickers:         []string{"MSFT", "AMZN", "BAC"},
			Form:            "10-K",
			After:           "1995-01-01",
			Before:          "2023-12-31",
			DownloadDetails: true,
		},
		Analyze: Analyze{
			Ticker:      "MSFT",
			Form:        "10-K",
			Prompt:      ai.DefaultPrompt,
			Provider:    ai.ProviderOpenAI,
			MaxTokens:   100,
			Temperature: 0,
			Stop:        "\n",
		},
		Email: Email{
			SMTPServer: "smtp.gmail.com",
			SMTPPort:   587,
		},
	}
}

// Load overlays the YAML file at path on the defaults. An empty path means
// DefaultFile, which may be absent; an explicitly named file must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := Parse(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", filepath.Clean(path), err)
	}
	return cfg, nil
}

// Parse decodes YAML into cfg, keeping any field the document does not set.
func Parse(data []byte, cfg *Config) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	switch strings.ToLower(c.Analyze.Provider) {
	case ai.ProviderOpenAI, ai.ProviderGemini:
	default:
		return fmt.Errorf("config: unknown provider %q", c.Analyze.Provider)
	}
	if c.Analyze.MaxTokens <= 0 {
		return fmt.Errorf("config: max_tokens must be positive, got %d", c.Analyze.MaxTokens)
	}
	return nil
}

// AnalyzeDir is <archive_root>/<ticker>/<form>.
func (c Config) AnalyzeDir() string {
	return filepath.Join(c.ArchiveRoot, c.Analyze.Ticker, c.Analyze.Form)
}

// Engine returns the configured engine or the provider default.
func (c Config) Engine() string {
	if c.Analyze.Engine != "" {
		return c.Analyze.Engine
	}
	return ai.DefaultEngine(c.Analyze.Provider)
}

// APIKey returns the configured key, falling back to the provider's environment variable.
func (c Config) APIKey() string {
	if c.Analyze.APIKey != "" {
		return c.Analyze.APIKey
	}
	if strings.EqualFold(c.Analyze.Provider, ai.ProviderGemini) {
		return os.Getenv("GEMINI_API_KEY")
	}
	return os.Getenv("OPENAI_API_KEY")
}

// SMTPPass returns the configured password or SMTP_PASS from the environment.
func (c Config) SMTPPass() string {
	if c.Email.SMTPPass != "" {
		return c.Email.SMTPPass
	}
	return os.Getenv("SMTP_PASS")
}
