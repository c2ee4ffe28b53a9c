/*
Package analyze walks a local filing archive and runs every file through a
text-completion service, printing the result per file.
*/
package analyze

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/shanehull/filingscraper/internal/ai"
	"github.com/shanehull/filingscraper/internal/types"
)

const (
	missingRootMessage = "Directory does not exist."
	noResultText       = "<none>"
)

// Options holds the completion parameters shared by every file of a run.
type Options struct {
	Params ai.Params

	// IncludeText appends the file's text to the prompt. Off by default, in which
	// case every file receives the same prompt.
	IncludeText bool
}

// Analyzer sends each archived file to a Completer and prints the results.
type Analyzer struct {
	completer ai.Completer
	out       io.Writer
	opts      Options
}

// New returns an Analyzer that writes its progress and results to out.
func New(completer ai.Completer, out io.Writer, opts Options) *Analyzer {
	return &Analyzer{completer: completer, out: out, opts: opts}
}

// Run processes every regular file one level below each subdirectory of root.
// Per-file failures are printed and skipped. A missing root prints a notice and
// returns no results.
func (a *Analyzer) Run(ctx context.Context, root string) ([]types.FileResult, error) {
	ok, err := CheckRoot(a.out, root)
	if err != nil || !ok {
		return nil, err
	}

	folders, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", root, err)
	}

	var results []types.FileResult
	for _, folder := range folders {
		folderPath := filepath.Join(root, folder.Name())
		if !isDir(folderPath) {
			continue
		}

		entries, err := os.ReadDir(folderPath)
		if err != nil {
			return results, fmt.Errorf("failed to list %s: %w", folderPath, err)
		}

		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}

		fmt.Fprintf(a.out, "Folder: %s\n", folder.Name())
		fmt.Fprintf(a.out, "Files in folder: [%s]\n", strings.Join(names, ", "))

		for _, name := range names {
			filePath := filepath.Join(folderPath, name)
			if !isRegularFile(filePath) {
				continue
			}

			res := a.analyzeFile(ctx, folder.Name(), name, filePath)
			results = append(results, res)

			text := res.Text
			if res.Err != nil {
				text = noResultText
			}
			fmt.Fprintf(a.out, "File: %s\n", name)
			fmt.Fprintln(a.out, "Analyzed Text:")
			fmt.Fprintln(a.out, text)
		}
	}

	return results, nil
}

// CheckRoot reports whether root exists. A missing root prints the
// "Directory does not exist." notice to out and returns false with a nil error,
// so callers can stop before acquiring a completion client.
func CheckRoot(out io.Writer, root string) (bool, error) {
	if _, err := os.Stat(root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintln(out, missingRootMessage)
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", root, err)
	}
	return true, nil
}

func (a *Analyzer) analyzeFile(ctx context.Context, folder, name, path string) types.FileResult {
	res := types.FileResult{Folder: folder, FileName: name, Path: path}

	text, err := readText(path)
	if err != nil {
		res.Err = err
		fmt.Fprintf(a.out, "An error occurred while analyzing %s: %v\n", path, err)
		return res
	}

	params := a.opts.Params
	params.Prompt = ai.BuildPrompt(params.Prompt, text, a.opts.IncludeText)

	completion, err := a.completer.Complete(ctx, params)
	if err != nil {
		res.Err = err
		fmt.Fprintf(a.out, "An error occurred while analyzing %s: %v\n", path, err)
		return res
	}

	res.Text = completion
	return res
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
