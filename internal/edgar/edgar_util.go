package edgar

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shanehull/filingscraper/internal/types"
)

// parseCIK treats an all-digit identifier as a CIK.
func parseCIK(identifier string) (int, bool) {
	s := strings.TrimSpace(identifier)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	cik, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return cik, true
}

func formMatches(candidate, form string, includeAmends bool) bool {
	if strings.EqualFold(candidate, form) {
		return true
	}
	return includeAmends && strings.EqualFold(candidate, form+"/A")
}

// selectFilings walks the column-oriented EDGAR listing and keeps rows for the
// requested form inside the date range. Rows are kept in listing order, newest first.
func selectFilings(identifier string, cik int, cols filingColumns, form string, dates types.DateRange, includeAmends bool) []types.Filing {
	var filings []types.Filing

	for i, acc := range cols.AccessionNumber {
		if i >= len(cols.Form) || i >= len(cols.FilingDate) {
			break
		}
		if !formMatches(cols.Form[i], form, includeAmends) {
			continue
		}
		if !dates.Contains(cols.FilingDate[i]) {
			continue
		}

		var primary string
		if i < len(cols.PrimaryDocument) {
			primary = cols.PrimaryDocument[i]
		}

		filings = append(filings, types.Filing{
			Identifier:      identifier,
			CIK:             strconv.Itoa(cik),
			AccessionNumber: acc,
			Form:            form,
			FilingDate:      cols.FilingDate[i],
			PrimaryDocument: primary,
		})
	}
	return filings
}

func pageOverlaps(page submissionPage, dates types.DateRange) bool {
	if dates.After != "" && page.FilingTo != "" && page.FilingTo < dates.After {
		return false
	}
	if dates.Before != "" && page.FilingFrom != "" && page.FilingFrom > dates.Before {
		return false
	}
	return true
}

// filingDir is <root>/<identifier>/<form>/<accession>.
func filingDir(root string, f types.Filing) string {
	return filepath.Join(root, f.Identifier, f.Form, f.AccessionNumber)
}

func primaryDocumentFileName(primary string) string {
	ext := strings.ToLower(filepath.Ext(primary))
	if ext == "" {
		ext = ".html"
	}
	return primaryDocumentName + ext
}
