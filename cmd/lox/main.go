package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diagnostics"
	"lox/interpreter-go/pkg/driver"
	"lox/interpreter-go/pkg/parser"
	"lox/interpreter-go/pkg/scanner"
)

const cliToolVersion = "lox-cli 0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		return runPrompt()
	}

	switch args[0] {
	case "--help", "-h":
		printUsage()
		return driver.ExitOK
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return driver.ExitOK
	case "run":
		return runScript(args[1:])
	case "repl":
		if len(args) > 1 {
			fmt.Fprintf(os.Stderr, "lox repl does not take arguments (received %s)\n", strings.Join(args[1:], " "))
			return driver.ExitUsage
		}
		return runPrompt()
	case "deps":
		return runDeps(args[1:])
	case "tokens":
		return runTokens(args[1:])
	case "ast":
		return runAST(args[1:])
	default:
		if strings.HasPrefix(args[0], "-") {
			fmt.Fprintf(os.Stderr, "unknown flag %s\n", args[0])
			printUsage()
			return driver.ExitUsage
		}
		return runScript(args)
	}
}

// runScript executes a script, or the manifest entry when no script is
// given. A lox.yml found above the script contributes its dependencies,
// preludes and settings.
func runScript(args []string) int {
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(args[1:], " "))
		printUsage()
		return driver.ExitUsage
	}

	script := ""
	searchDir := "."
	if len(args) == 1 {
		script = args[0]
		searchDir = filepath.Dir(script)
	}

	manifest, err := loadManifestFrom(searchDir)
	switch {
	case err == nil:
	case errors.Is(err, driver.ErrManifestNotFound):
		if script == "" {
			fmt.Fprintf(os.Stderr, "lox run requires a script or a %s\n", driver.ManifestFileName)
			return driver.ExitUsage
		}
	default:
		fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
		return driver.ExitUsage
	}

	files := []driver.SourceFile{{Name: "entry", Path: script}}
	if manifest != nil {
		files, err = manifestSources(manifest, script)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return driver.ExitIOError
		}
	}

	session := newSession(manifest)
	res, err := session.RunFiles(files)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return driver.ExitIOError
	}
	return res.ExitCode()
}

func manifestSources(manifest *driver.Manifest, entryOverride string) ([]driver.SourceFile, error) {
	cacheDir, err := driver.LoxHome()
	if err != nil {
		return nil, err
	}
	loader, err := driver.NewLoader(manifest, cacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loader: %w", err)
	}
	return loader.Sources(entryOverride)
}

func newSession(manifest *driver.Manifest) *driver.Session {
	opts := driver.SessionOptions{Stdout: os.Stdout, Diagnostics: os.Stderr}
	if manifest != nil && manifest.Settings.MaxCallDepth != nil {
		opts.MaxCallDepth = *manifest.Settings.MaxCallDepth
		if opts.MaxCallDepth == 0 {
			opts.MaxCallDepth = -1
		}
	}
	return driver.NewSession(opts)
}

func runDeps(args []string) int {
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "lox deps does not take arguments (received %s)\n", strings.Join(args, " "))
		return driver.ExitUsage
	}
	manifest, err := loadManifestFrom(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to locate %s: %v\n", driver.ManifestFileName, err)
		return driver.ExitUsage
	}
	cacheDir, err := driver.LoxHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve LOX_HOME: %v\n", err)
		return driver.ExitIOError
	}

	fmt.Fprintf(os.Stdout, "Manifest: %s\n", manifest.Path)
	fmt.Fprintf(os.Stdout, "Dependencies: %d\n", len(manifest.Dependencies))
	fmt.Fprintf(os.Stdout, "Cache directory: %s\n", cacheDir)

	lock, err := driver.NewGitFetcher(cacheDir).Resolve(manifest, cliToolVersion)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve dependencies: %v\n", err)
		return driver.ExitIOError
	}
	for _, pkg := range lock.Packages {
		fmt.Fprintf(os.Stdout, "Locked %s %s\n", pkg.Name, pkg.Version)
	}
	if err := driver.WriteLockfile(lock, ""); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write lockfile: %v\n", err)
		return driver.ExitIOError
	}
	fmt.Fprintf(os.Stdout, "Wrote %s\n", lock.Path)
	return driver.ExitOK
}

func runTokens(args []string) int {
	source, code := readSingleSource("tokens", args)
	if code != driver.ExitOK {
		return code
	}
	reporter := diagnostics.NewReporter(os.Stderr)
	for _, tok := range scanner.Scan(source, reporter) {
		fmt.Fprintln(os.Stdout, tok.String())
	}
	if reporter.HadError() {
		return driver.ExitCompileError
	}
	return driver.ExitOK
}

func runAST(args []string) int {
	source, code := readSingleSource("ast", args)
	if code != driver.ExitOK {
		return code
	}
	reporter := diagnostics.NewReporter(os.Stderr)
	program := parser.Parse(scanner.Scan(source, reporter), reporter)
	if reporter.HadError() {
		return driver.ExitCompileError
	}
	if len(program) > 0 {
		fmt.Fprintln(os.Stdout, ast.PrintProgram(program))
	}
	return driver.ExitOK
}

func readSingleSource(command string, args []string) (string, int) {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "lox %s requires exactly one file\n", command)
		return "", driver.ExitUsage
	}
	source, err := driver.SourceFile{Name: command, Path: args[0]}.Read()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return "", driver.ExitIOError
	}
	return source, driver.ExitOK
}

func loadManifestFrom(start string) (*driver.Manifest, error) {
	manifestPath, err := driver.FindManifest(start)
	if err != nil {
		return nil, err
	}
	return driver.LoadManifest(manifestPath)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  lox                 start the REPL")
	fmt.Fprintln(os.Stderr, "  lox <file.lox>      run a script")
	fmt.Fprintln(os.Stderr, "  lox run [file.lox]  run a script or the lox.yml entry")
	fmt.Fprintln(os.Stderr, "  lox repl")
	fmt.Fprintln(os.Stderr, "  lox deps            fetch git dependencies and write lox.lock")
	fmt.Fprintln(os.Stderr, "  lox tokens <file>")
	fmt.Fprintln(os.Stderr, "  lox ast <file>")
	fmt.Fprintln(os.Stderr, "  lox --version")
}
