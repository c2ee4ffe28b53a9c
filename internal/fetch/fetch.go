/*
Package fetch runs the filing download loop over a fixed set of identifiers.
*/
package fetch

import (
	"context"
	"fmt"
	"log"

	"github.com/shanehull/filingscraper/internal/types"
)

// Downloader retrieves filings for one identifier and persists them locally.
type Downloader interface {
	Get(ctx context.Context, form, identifier, after, before string) (int, error)
}

// Request describes one fetch run.
type Request struct {
	Identifiers []string
	Form        string
	Dates       types.DateRange
}

// Fetcher downloads filings for a list of identifiers.
type Fetcher struct {
	downloader Downloader
}

// New returns a Fetcher backed by d.
func New(d Downloader) *Fetcher {
	return &Fetcher{downloader: d}
}

// Run calls the downloader once per identifier, in order. The first error aborts
// the run and the remaining identifiers are not attempted.
func (f *Fetcher) Run(ctx context.Context, req Request) (int, error) {
	total := 0
	for i, id := range req.Identifiers {
		log.Printf("Downloading %s filings for %s (%s to %s)... %d/%d", req.Form, id, req.Dates.After, req.Dates.Before, i+1, len(req.Identifiers))

		n, err := f.downloader.Get(ctx, req.Form, id, req.Dates.After, req.Dates.Before)
		if err != nil {
			return total, fmt.Errorf("fetch %s filings for %s: %w", req.Form, id, err)
		}

		log.Printf("Saved %d %s filings for %s.", n, req.Form, id)
		total += n
	}
	return total, nil
}
