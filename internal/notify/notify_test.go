package notify

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanehull/filingscraper/internal/types"
)

func sampleReport() ReportData {
	results := []types.FileResult{
		{Folder: "0000950170-23-035122", FileName: "full-submission.txt", Path: "root/0000950170-23-035122/full-submission.txt", Text: "Competition <cloud>."},
		{Folder: "0000950170-23-035122", FileName: "primary-document.htm", Path: "root/0000950170-23-035122/primary-document.htm", Err: errors.New("rate limit reached")},
	}
	return NewReportData("MSFT", "10-K", "root", "What is the main risk factor:", results, time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC))
}

func TestNewReportData(t *testing.T) {
	data := sampleReport()

	require.Len(t, data.Rows, 2)
	assert.Equal(t, 1, data.Failures)
	assert.Equal(t, "Competition <cloud>.", data.Rows[0].Result)
	assert.Empty(t, data.Rows[0].Error)
	assert.Equal(t, "rate limit reached", data.Rows[1].Error)
}

func TestReportResults(t *testing.T) {
	var out bytes.Buffer
	ReportResults(&out, sampleReport())
	assert.Contains(t, out.String(), "Analyzed 2 10-K files for MSFT (1 failed).")

	out.Reset()
	ReportResults(&out, NewReportData("BAC", "10-K", "root", "", nil, time.Now()))
	assert.Contains(t, out.String(), "No 10-K filings analyzed for BAC.")
}

func TestHTMLEmailRendererRender(t *testing.T) {
	msg, err := NewHTMLEmailRenderer().Render(sampleReport())
	require.NoError(t, err)

	assert.Equal(t, "Filing Analysis: MSFT 10-K (2 files)", msg.Subject)

	assert.Contains(t, msg.Text, "Date: 01 Mar 2024 9:30 AM")
	assert.Contains(t, msg.Text, "• full-submission.txt: Competition <cloud>.")
	assert.Contains(t, msg.Text, "• primary-document.htm: ERROR rate limit reached")
	assert.Equal(t, 1, strings.Count(msg.Text, "0000950170-23-035122\n"))

	assert.Contains(t, msg.HTML, "Competition &lt;cloud&gt;.")
	assert.Contains(t, msg.HTML, `<td class="error">rate limit reached</td>`)
	assert.Contains(t, msg.HTML, "2 files analyzed, 1 failed")
}

func TestEmailConfigEnabled(t *testing.T) {
	full := EmailConfig{SMTPServer: "smtp.gmail.com", SMTPPort: 587, SMTPUser: "me@example.com", SMTPPass: "pw", ToEmail: "you@example.com"}
	assert.True(t, full.Enabled())

	missing := full
	missing.SMTPPass = ""
	assert.False(t, missing.Enabled())
}

func TestEmailSender(t *testing.T) {
	t.Run("disabled sender is a no-op", func(t *testing.T) {
		s := NewEmailSender(EmailConfig{})
		assert.False(t, s.Enabled())
		assert.NoError(t, s.Send(&RenderedMessage{Subject: "s", Text: "t"}))

		EmailResults(sampleReport(), s)
		EmailResults(sampleReport(), nil)
	})

	t.Run("from defaults to SMTP user", func(t *testing.T) {
		s := NewEmailSender(EmailConfig{SMTPUser: "me@example.com"})
		assert.Equal(t, "me@example.com", s.cfg.FromEmail)
	})

	t.Run("message carries text and HTML parts", func(t *testing.T) {
		cfg := EmailConfig{FromEmail: "me@example.com", ToEmail: "you@example.com"}
		m := buildMessage(cfg, &RenderedMessage{Subject: "Filing Analysis", Text: "plain body", HTML: "<p>html body</p>"})

		assert.Equal(t, []string{"Filing Analysis"}, m.GetHeader("Subject"))
		assert.Equal(t, []string{"you@example.com"}, m.GetHeader("To"))

		var raw bytes.Buffer
		_, err := m.WriteTo(&raw)
		require.NoError(t, err)
		assert.Contains(t, raw.String(), "text/plain")
		assert.Contains(t, raw.String(), "text/html")
	})
}
