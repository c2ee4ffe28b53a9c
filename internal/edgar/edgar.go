/*
Package edgar downloads filings from the SEC EDGAR archive into a local directory tree.
*/
package edgar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/shanehull/filingscraper/internal/types"

	"golang.org/x/time/rate"
)

const (
	secBaseURL         = "https://www.sec.gov"
	secDataURL         = "https://data.sec.gov"
	companyTickersPath = "/files/company_tickers.json"
	submissionsPath    = "/submissions/CIK%010d.json"
	archivePath        = "/Archives/edgar/data/%d/%s/%s"

	// DefaultRootDir mirrors the layout other EDGAR tooling writes to.
	DefaultRootDir = "sec-edgar-filings"

	// DefaultRequestsPerSecond is the SEC fair access ceiling.
	DefaultRequestsPerSecond = 10

	fullSubmissionFileName = "full-submission.txt"
	primaryDocumentName    = "primary-document"
	requestTimeout         = 60 * time.Second
)

var ErrUnknownTicker = errors.New("edgar: unknown ticker")

// Config controls where filings are written and how EDGAR is queried.
type Config struct {
	// Company and Email identify the caller in the User-Agent header. EDGAR rejects
	// anonymous traffic.
	Company string
	Email   string

	RootDir string

	IncludeAmends   bool
	DownloadDetails bool

	// Limit caps the number of filings saved per call, newest first. Zero means no limit.
	Limit int

	BaseURL           string
	DataURL           string
	RequestsPerSecond float64
}

// Downloader fetches filings for one identifier at a time and saves them under
// <RootDir>/<identifier>/<form>/<accession>/.
type Downloader struct {
	cfg       Config
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string

	tickersOnce sync.Once
	tickers     map[string]int
	tickersErr  error
}

func NewDownloader(cfg Config) (*Downloader, error) {
	if strings.TrimSpace(cfg.Company) == "" || strings.TrimSpace(cfg.Email) == "" {
		return nil, fmt.Errorf("edgar: company name and email are required for the User-Agent header")
	}
	if cfg.RootDir == "" {
		cfg.RootDir = DefaultRootDir
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = secBaseURL
	}
	if cfg.DataURL == "" {
		cfg.DataURL = secDataURL
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}

	return &Downloader{
		cfg:       cfg,
		client:    &http.Client{Timeout: requestTimeout},
		limiter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		userAgent: fmt.Sprintf("%s %s", cfg.Company, cfg.Email),
	}, nil
}

// RootDir returns the directory filings are written under.
func (d *Downloader) RootDir() string {
	return d.cfg.RootDir
}

// Get downloads every filing of the given form for identifier whose filing date is
// within [after, before] and returns the number of filings saved.
func (d *Downloader) Get(ctx context.Context, form, identifier, after, before string) (int, error) {
	// Tickers are case-insensitive; the archive always uses the upper-case form.
	identifier = strings.ToUpper(strings.TrimSpace(identifier))

	cik, err := d.resolveCIK(ctx, identifier)
	if err != nil {
		return 0, err
	}

	filings, err := d.listFilings(ctx, identifier, cik, form, types.DateRange{After: after, Before: before})
	if err != nil {
		return 0, fmt.Errorf("failed to list %s filings for %s: %w", form, identifier, err)
	}

	saved := 0
	for _, f := range filings {
		if err := d.saveFiling(ctx, cik, f); err != nil {
			return saved, fmt.Errorf("failed to save filing %s for %s: %w", f.AccessionNumber, identifier, err)
		}
		saved++
	}

	return saved, nil
}

func (d *Downloader) resolveCIK(ctx context.Context, identifier string) (int, error) {
	if cik, ok := parseCIK(identifier); ok {
		return cik, nil
	}

	d.tickersOnce.Do(func() {
		d.tickers, d.tickersErr = d.loadTickers(ctx)
	})
	if d.tickersErr != nil {
		return 0, d.tickersErr
	}

	cik, ok := d.tickers[strings.ToUpper(strings.TrimSpace(identifier))]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownTicker, identifier)
	}
	return cik, nil
}

type companyTicker struct {
	CIK    int    `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

func (d *Downloader) loadTickers(ctx context.Context) (map[string]int, error) {
	body, err := d.fetch(ctx, d.cfg.BaseURL+companyTickersPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load ticker to CIK mapping: %w", err)
	}

	var raw map[string]companyTicker
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode ticker to CIK mapping: %w", err)
	}

	tickers := make(map[string]int, len(raw))
	for _, ct := range raw {
		tickers[strings.ToUpper(ct.Ticker)] = ct.CIK
	}
	log.Printf("Loaded %d ticker to CIK mappings.", len(tickers))
	return tickers, nil
}

type filingColumns struct {
	AccessionNumber []string `json:"accessionNumber"`
	FilingDate      []string `json:"filingDate"`
	Form            []string `json:"form"`
	PrimaryDocument []string `json:"primaryDocument"`
}

type submissionPage struct {
	Name       string `json:"name"`
	FilingFrom string `json:"filingFrom"`
	FilingTo   string `json:"filingTo"`
}

type submissions struct {
	Filings struct {
		Recent filingColumns    `json:"recent"`
		Files  []submissionPage `json:"files"`
	} `json:"filings"`
}

func (d *Downloader) listFilings(ctx context.Context, identifier string, cik int, form string, dates types.DateRange) ([]types.Filing, error) {
	body, err := d.fetch(ctx, d.cfg.DataURL+fmt.Sprintf(submissionsPath, cik))
	if err != nil {
		return nil, err
	}

	var subs submissions
	if err := json.Unmarshal(body, &subs); err != nil {
		return nil, fmt.Errorf("failed to decode submissions for CIK %d: %w", cik, err)
	}

	filings := selectFilings(identifier, cik, subs.Filings.Recent, form, dates, d.cfg.IncludeAmends)

	for _, page := range subs.Filings.Files {
		if d.cfg.Limit > 0 && len(filings) >= d.cfg.Limit {
			break
		}
		if !pageOverlaps(page, dates) {
			continue
		}

		pageBody, err := d.fetch(ctx, d.cfg.DataURL+"/submissions/"+page.Name)
		if err != nil {
			return nil, err
		}

		var cols filingColumns
		if err := json.Unmarshal(pageBody, &cols); err != nil {
			return nil, fmt.Errorf("failed to decode submissions page %s: %w", page.Name, err)
		}
		filings = append(filings, selectFilings(identifier, cik, cols, form, dates, d.cfg.IncludeAmends)...)
	}

	if d.cfg.Limit > 0 && len(filings) > d.cfg.Limit {
		filings = filings[:d.cfg.Limit]
	}
	return filings, nil
}

func (d *Downloader) saveFiling(ctx context.Context, cik int, f types.Filing) error {
	dir := filingDir(d.cfg.RootDir, f)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create filing directory %s: %w", dir, err)
	}

	accNoDashes := strings.ReplaceAll(f.AccessionNumber, "-", "")

	fullURL := d.cfg.BaseURL + fmt.Sprintf(archivePath, cik, accNoDashes, f.AccessionNumber+".txt")
	if err := d.download(ctx, fullURL, filepath.Join(dir, fullSubmissionFileName)); err != nil {
		return err
	}

	if d.cfg.DownloadDetails && f.PrimaryDocument != "" {
		docURL := d.cfg.BaseURL + fmt.Sprintf(archivePath, cik, accNoDashes, f.PrimaryDocument)
		if err := d.download(ctx, docURL, filepath.Join(dir, primaryDocumentFileName(f.PrimaryDocument))); err != nil {
			return err
		}
	}

	return nil
}

func (d *Downloader) download(ctx context.Context, url, dest string) error {
	body, err := d.fetch(ctx, url)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dest, body, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return nil
}

func (d *Downloader) fetch(ctx context.Context, url string) ([]byte, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait for %s: %w", url, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL %s: %w", url, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Warning: Failed to close response body for %s: %v", url, err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-OK status code %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from %s: %w", url, err)
	}
	return body, nil
}
