package notify

const reportHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{.Identifier}} {{.Form}} analysis</title>
  <style>
    body {
      margin: 0;
      padding: 24px;
      background-color: #f3f4f6;
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
      color: #111827;
      line-height: 1.5;
    }
    .container {
      max-width: 720px;
      margin: 0 auto;
      background: #ffffff;
      border: 1px solid #e5e7eb;
      border-radius: 8px;
      overflow: hidden;
    }
    .header {
      padding: 20px 24px;
      background: #1f2937;
      color: #ffffff;
    }
    .identifier {
      font-size: 24px;
      font-weight: 700;
      letter-spacing: 0.05em;
    }
    .meta {
      padding: 12px 24px;
      font-size: 13px;
      color: #4b5563;
      border-bottom: 1px solid #e5e7eb;
    }
    table {
      width: 100%;
      border-collapse: collapse;
      font-size: 13px;
    }
    th, td {
      padding: 8px 24px;
      text-align: left;
      vertical-align: top;
      border-bottom: 1px solid #f3f4f6;
    }
    th {
      background: #f9fafb;
      font-weight: 600;
    }
    .error {
      color: #b91c1c;
    }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <div class="identifier">{{.Identifier}} · {{.Form}}</div>
      <div>{{len .Rows}} files analyzed, {{.Failures}} failed</div>
    </div>
    <div class="meta">
      <div>Date: {{date .}}</div>
      <div>Archive: {{.Root}}</div>
      <div>Prompt: {{.Prompt}}</div>
    </div>
    <table>
      <tr><th>Filing</th><th>File</th><th>Result</th></tr>
      {{range .Rows}}
      <tr>
        <td>{{.Folder}}</td>
        <td>{{.File}}</td>
        {{if .Error}}<td class="error">{{.Error}}</td>{{else}}<td>{{.Result}}</td>{{end}}
      </tr>
      {{end}}
    </table>
  </div>
</body>
</html>
`
