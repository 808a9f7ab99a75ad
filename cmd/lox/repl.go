package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"lox/interpreter-go/pkg/driver"
)

const (
	defaultPrompt      = "> "
	defaultHistoryFile = "history"
)

// lineReader is the part of *liner.State the REPL loop needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func runPrompt() int {
	manifest, err := loadManifestFrom(".")
	if err != nil && !errors.Is(err, driver.ErrManifestNotFound) {
		fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
		return driver.ExitUsage
	}

	session := newSession(manifest)
	if manifest != nil {
		if code := loadReplPrelude(session, manifest); code != driver.ExitOK {
			return code
		}
	}

	histPath := historyPath(manifest)
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if err := os.MkdirAll(filepath.Dir(histPath), 0o755); err != nil {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Fprintf(os.Stdout, "%s REPL. Ctrl+D exits, :globals lists definitions.\n", cliToolVersion)
	replLoop(ln, session, os.Stdout, promptFor(manifest))
	return driver.ExitOK
}

// replLoop runs each line in session until the reader reports EOF. A
// Ctrl+C abandons the current line only.
func replLoop(in lineReader, session *driver.Session, out io.Writer, prompt string) {
	for {
		line, err := in.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				fmt.Fprintf(os.Stderr, "read error: %v\n", err)
			}
			return
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		in.AppendHistory(line)
		if strings.TrimSpace(line) == ":globals" {
			fmt.Fprintln(out, strings.Join(session.Globals(), " "))
			continue
		}
		session.Run("repl", line)
	}
}

// loadReplPrelude runs the project's dependencies and preludes, but not its
// entry, so their globals are available at the prompt.
func loadReplPrelude(session *driver.Session, manifest *driver.Manifest) int {
	files, err := manifestSources(manifest, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return driver.ExitIOError
	}
	files = files[:len(files)-1]
	res, err := session.RunFiles(files)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return driver.ExitIOError
	}
	return res.ExitCode()
}

func promptFor(manifest *driver.Manifest) string {
	if manifest != nil && manifest.Settings.Prompt != "" {
		return manifest.Settings.Prompt
	}
	return defaultPrompt
}

func historyPath(manifest *driver.Manifest) string {
	if manifest != nil && manifest.Settings.HistoryFile != "" {
		if filepath.IsAbs(manifest.Settings.HistoryFile) {
			return manifest.Settings.HistoryFile
		}
		return filepath.Join(manifest.Dir(), filepath.FromSlash(manifest.Settings.HistoryFile))
	}
	home, err := driver.LoxHome()
	if err != nil {
		return filepath.Join(os.TempDir(), "lox_history")
	}
	return filepath.Join(home, defaultHistoryFile)
}
