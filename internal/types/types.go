package types

// DateRange bounds a filing search. Both ends are inclusive YYYY-MM-DD dates.
type DateRange struct {
	After  string
	Before string
}

// Contains reports whether date (YYYY-MM-DD) falls inside the range.
// An empty bound is treated as open.
func (r DateRange) Contains(date string) bool {
	if r.After != "" && date < r.After {
		return false
	}
	if r.Before != "" && date > r.Before {
		return false
	}
	return true
}

// Filing is one EDGAR filing selected for download.
type Filing struct {
	Identifier      string
	CIK             string
	AccessionNumber string
	Form            string
	FilingDate      string
	PrimaryDocument string
}

// FileResult is the outcome of analyzing one archived file.
type FileResult struct {
	Folder   string
	FileName string
	Path     string
	Text     string
	Err      error
}
