package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

const reportDateFormat = "02 Jan 2006 3:04 PM"

// HTMLEmailRenderer renders the report as an HTML email.
type HTMLEmailRenderer struct {
	tmpl *template.Template
}

func NewHTMLEmailRenderer() *HTMLEmailRenderer {
	t := template.Must(template.New("report").Funcs(template.FuncMap{
		"date": func(d ReportData) string { return d.GeneratedAt.Format(reportDateFormat) },
	}).Parse(reportHTMLTemplate))
	return &HTMLEmailRenderer{tmpl: t}
}

func (r *HTMLEmailRenderer) Render(data ReportData) (*RenderedMessage, error) {
	var htmlBuf bytes.Buffer
	if err := r.tmpl.Execute(&htmlBuf, data); err != nil {
		return nil, fmt.Errorf("failed to render HTML template: %w", err)
	}

	return &RenderedMessage{
		Subject: fmt.Sprintf("Filing Analysis: %s %s (%d files)", data.Identifier, data.Form, len(data.Rows)),
		Text:    renderPlainText(data),
		HTML:    htmlBuf.String(),
	}, nil
}

func renderPlainText(data ReportData) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s %s filings\n", data.Identifier, data.Form))
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")
	sb.WriteString(fmt.Sprintf("Date: %s\n", data.GeneratedAt.Format(reportDateFormat)))
	sb.WriteString(fmt.Sprintf("Archive: %s\n", data.Root))
	sb.WriteString(fmt.Sprintf("Prompt: %s\n", data.Prompt))
	sb.WriteString(fmt.Sprintf("Files: %d (failed: %d)\n\n", len(data.Rows), data.Failures))

	folder := ""
	for _, row := range data.Rows {
		if row.Folder != folder {
			folder = row.Folder
			sb.WriteString(folder + "\n")
			sb.WriteString(strings.Repeat("-", 20) + "\n")
		}
		if row.Error != "" {
			sb.WriteString(fmt.Sprintf("• %s: ERROR %s\n", row.File, row.Error))
		} else {
			sb.WriteString(fmt.Sprintf("• %s: %s\n", row.File, row.Result))
		}
	}

	return sb.String()
}
