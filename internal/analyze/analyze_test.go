package analyze

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanehull/filingscraper/internal/ai"
)

// mockCompleter returns reply for every call unless failOn names the 1-based call
// number that should fail.
type mockCompleter struct {
	calls  []ai.Params
	reply  string
	failOn int
}

func (m *mockCompleter) Complete(_ context.Context, p ai.Params) (string, error) {
	m.calls = append(m.calls, p)
	if m.failOn == len(m.calls) {
		return "", errors.New("rate limit reached")
	}
	return m.reply, nil
}

var testOptions = Options{
	Params: ai.Params{
		Engine:      ai.DefaultOpenAIEngine,
		Prompt:      ai.DefaultPrompt,
		MaxTokens:   100,
		Temperature: 0,
		Stop:        "\n",
	},
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestAnalyzerRun(t *testing.T) {
	t.Run("missing root prints notice and does nothing", func(t *testing.T) {
		m := &mockCompleter{reply: "x"}
		var out bytes.Buffer

		results, err := New(m, &out, testOptions).Run(context.Background(), filepath.Join(t.TempDir(), "missing"))
		require.NoError(t, err)
		assert.Nil(t, results)
		assert.Equal(t, "Directory does not exist.\n", out.String())
		assert.Empty(t, m.calls)
	})

	t.Run("one completion call per file regardless of content", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{
			"0001/full-submission.txt":  "alpha",
			"0001/primary-document.htm": "<p>beta</p>",
			"0002/full-submission.txt":  "gamma",
			"0003/full-submission.txt":  "",
			"0003/a.txt":                "delta",
			"0003/b.txt":                "epsilon",
			"0003/nested/ignored.txt":   "not one level down",
			"stray-top-level-file.txt":  "not in a folder",
		})

		m := &mockCompleter{reply: "Competition."}
		var out bytes.Buffer

		results, err := New(m, &out, testOptions).Run(context.Background(), root)
		require.NoError(t, err)

		assert.Len(t, m.calls, 6)
		assert.Len(t, results, 6)
		for _, p := range m.calls {
			assert.Equal(t, testOptions.Params, p)
		}
		assert.NotContains(t, out.String(), "ignored.txt\nAnalyzed")
		assert.Contains(t, out.String(), "Files in folder: [a.txt, b.txt, full-submission.txt, nested]\n")
	})

	t.Run("prints folder, files and results", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{
			"0000950170-23-035122/full-submission.txt":  "text",
			"0000950170-23-035122/primary-document.htm": "<html><body>doc</body></html>",
		})

		m := &mockCompleter{reply: "Competition in cloud services."}
		var out bytes.Buffer

		_, err := New(m, &out, testOptions).Run(context.Background(), root)
		require.NoError(t, err)

		want := "Folder: 0000950170-23-035122\n" +
			"Files in folder: [full-submission.txt, primary-document.htm]\n" +
			"File: full-submission.txt\n" +
			"Analyzed Text:\n" +
			"Competition in cloud services.\n" +
			"File: primary-document.htm\n" +
			"Analyzed Text:\n" +
			"Competition in cloud services.\n"
		assert.Equal(t, want, out.String())
	})

	t.Run("completion failure is reported and the loop continues", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{
			"0001/a.txt": "one",
			"0001/b.txt": "two",
			"0002/c.txt": "three",
		})

		m := &mockCompleter{reply: "ok", failOn: 2}
		var out bytes.Buffer

		results, err := New(m, &out, testOptions).Run(context.Background(), root)
		require.NoError(t, err)

		failedPath := filepath.Join(root, "0001", "b.txt")
		assert.Contains(t, out.String(), "An error occurred while analyzing "+failedPath+": rate limit reached\n")
		assert.Contains(t, out.String(), "File: b.txt\nAnalyzed Text:\n<none>\n")
		assert.Contains(t, out.String(), "File: c.txt\nAnalyzed Text:\nok\n")

		assert.Len(t, m.calls, 3)
		require.Len(t, results, 3)
		assert.Error(t, results[1].Err)
		assert.Equal(t, failedPath, results[1].Path)
		assert.NoError(t, results[2].Err)
	})

	t.Run("read failure skips the completion call", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{
			"0001/bad.txt":  string([]byte{0xff, 0xfe, 0x00}),
			"0001/good.txt": "fine",
		})

		m := &mockCompleter{reply: "ok"}
		var out bytes.Buffer

		_, err := New(m, &out, testOptions).Run(context.Background(), root)
		require.NoError(t, err)

		assert.Len(t, m.calls, 1)
		assert.Contains(t, out.String(), "An error occurred while analyzing "+filepath.Join(root, "0001", "bad.txt")+": ")
		assert.Contains(t, out.String(), "File: good.txt\nAnalyzed Text:\nok\n")
	})

	t.Run("output is identical across runs", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{
			"0002/x.txt": "x",
			"0001/y.txt": "y",
			"0001/z.txt": "z",
		})

		var first, second bytes.Buffer
		_, err := New(&mockCompleter{reply: "same"}, &first, testOptions).Run(context.Background(), root)
		require.NoError(t, err)
		_, err = New(&mockCompleter{reply: "same"}, &second, testOptions).Run(context.Background(), root)
		require.NoError(t, err)

		assert.Equal(t, first.String(), second.String())
		assert.True(t, strings.Index(first.String(), "Folder: 0001") < strings.Index(first.String(), "Folder: 0002"))
	})

	t.Run("include text sends the document with the prompt", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{
			"0001/primary-document.htm": "<html><head><title>t</title></head><body><p>Risk Factors</p><script>x()</script></body></html>",
		})

		opts := testOptions
		opts.IncludeText = true
		m := &mockCompleter{reply: "ok"}

		_, err := New(m, &bytes.Buffer{}, opts).Run(context.Background(), root)
		require.NoError(t, err)

		require.Len(t, m.calls, 1)
		assert.True(t, strings.HasPrefix(m.calls[0].Prompt, ai.DefaultPrompt))
		assert.Contains(t, m.calls[0].Prompt, "Risk Factors")
		assert.NotContains(t, m.calls[0].Prompt, "x()")
	})
}

func TestCheckRoot(t *testing.T) {
	var out bytes.Buffer
	ok, err := CheckRoot(&out, filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "Directory does not exist.\n", out.String())

	out.Reset()
	ok, err = CheckRoot(&out, t.TempDir())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, out.String())
}

func TestExtractHTMLText(t *testing.T) {
	text, err := extractHTMLText([]byte("<html><head><style>p{}</style></head><body><h1>Item 1A.</h1>\n<p>Risk&nbsp;Factors</p><div>  Cloud   competition </div></body></html>"))
	require.NoError(t, err)
	assert.Equal(t, "Item 1A. Risk Factors Cloud competition", text)
}

func TestReadText(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "full-submission.txt")
	require.NoError(t, os.WriteFile(plain, []byte("<SEC-DOCUMENT>raw</SEC-DOCUMENT>"), 0o644))
	text, err := readText(plain)
	require.NoError(t, err)
	assert.Equal(t, "<SEC-DOCUMENT>raw</SEC-DOCUMENT>", text)

	_, err = readText(filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
}
