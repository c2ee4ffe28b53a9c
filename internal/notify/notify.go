/*
Package notify summarises an analysis run on the console and, when configured, by email.
*/
package notify

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/shanehull/filingscraper/internal/types"
)

// ReportData is everything the renderers need to describe one analysis run.
type ReportData struct {
	Identifier  string
	Form        string
	Root        string
	Prompt      string
	GeneratedAt time.Time
	Rows        []ReportRow
	Failures    int
}

// ReportRow is one analyzed file.
type ReportRow struct {
	Folder string
	File   string
	Path   string
	Result string
	Error  string
}

// RenderedMessage is a report ready to send.
type RenderedMessage struct {
	Subject string
	Text    string
	HTML    string
}

// NewReportData flattens analyzer results into renderable rows.
func NewReportData(identifier, form, root, prompt string, results []types.FileResult, now time.Time) ReportData {
	data := ReportData{
		Identifier:  identifier,
		Form:        form,
		Root:        root,
		Prompt:      prompt,
		GeneratedAt: now,
		Rows:        make([]ReportRow, 0, len(results)),
	}

	for _, r := range results {
		row := ReportRow{Folder: r.Folder, File: r.FileName, Path: r.Path, Result: r.Text}
		if r.Err != nil {
			row.Error = r.Err.Error()
			data.Failures++
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}

func ReportResults(out io.Writer, data ReportData) {
	fmt.Fprintln(out, "\n===========================================")
	if len(data.Rows) == 0 {
		fmt.Fprintf(out, "No %s filings analyzed for %s.\n", data.Form, data.Identifier)
	} else {
		fmt.Fprintf(out, "Analyzed %d %s files for %s (%d failed).\n", len(data.Rows), data.Form, data.Identifier, data.Failures)
	}
	fmt.Fprintln(out, "===========================================")
}

// EmailResults renders and sends the run report. Delivery failures are logged, not returned.
func EmailResults(data ReportData, sender *EmailSender) {
	if sender == nil || !sender.Enabled() {
		return
	}

	msg, err := NewHTMLEmailRenderer().Render(data)
	if err != nil {
		log.Printf("Email error: %v", err)
		return
	}

	if err := sender.Send(msg); err != nil {
		log.Printf("Email error: report for %s not delivered: %v", data.Identifier, err)
	}
}
