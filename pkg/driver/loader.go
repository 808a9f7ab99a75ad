package driver

import (
	"fmt"
	"os"
	"path/filepath"
)

// SourceFile is one script in a run, in execution order.
type SourceFile struct {
	// Name labels the file in messages: a dependency name, "prelude", or
	// "entry".
	Name string
	Path string
}

// Read returns the file contents.
func (f SourceFile) Read() (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.Path, err)
	}
	return string(data), nil
}

// Loader resolves the ordered source list for a manifest.
type Loader struct {
	Manifest *Manifest
	Lock     *Lockfile
	CacheDir string
}

// NewLoader loads lox.lock next to the manifest when it exists.
func NewLoader(manifest *Manifest, cacheDir string) (*Loader, error) {
	loader := &Loader{Manifest: manifest, CacheDir: cacheDir}
	lockPath := filepath.Join(manifest.Dir(), LockfileFileName)
	if _, err := os.Stat(lockPath); err == nil {
		lock, err := LoadLockfile(lockPath)
		if err != nil {
			return nil, err
		}
		loader.Lock = lock
	}
	return loader, nil
}

// Sources lists dependency mains (sorted by name), then preludes, then
// entry. When entryOverride is non-empty it replaces the manifest entry.
func (l *Loader) Sources(entryOverride string) ([]SourceFile, error) {
	var files []SourceFile
	for _, name := range l.Manifest.DependencyNames() {
		spec := l.Manifest.Dependencies[name]
		file, err := l.dependencySource(name, spec)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	for _, p := range l.Manifest.PreludePaths() {
		files = append(files, SourceFile{Name: "prelude", Path: p})
	}
	entry := l.Manifest.EntryPath()
	if entryOverride != "" {
		abs, err := filepath.Abs(entryOverride)
		if err != nil {
			return nil, err
		}
		entry = abs
	}
	files = append(files, SourceFile{Name: "entry", Path: entry})
	return files, nil
}

func (l *Loader) dependencySource(name string, spec *DependencySpec) (SourceFile, error) {
	if !spec.IsGit() {
		dir := spec.Path
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(l.Manifest.Dir(), filepath.FromSlash(dir))
		}
		return SourceFile{Name: name, Path: filepath.Join(dir, filepath.FromSlash(spec.Main))}, nil
	}
	locked, ok := l.Lock.Find(name)
	if !ok {
		return SourceFile{}, fmt.Errorf("dependency %q is not locked; run `lox deps`", name)
	}
	dir := GitCheckoutDir(l.CacheDir, name, locked.Version)
	if _, err := os.Stat(dir); err != nil {
		return SourceFile{}, fmt.Errorf("dependency %q is not installed at %s; run `lox deps`", name, dir)
	}
	main := locked.Main
	if main == "" {
		main = spec.Main
	}
	return SourceFile{Name: name, Path: filepath.Join(dir, filepath.FromSlash(main))}, nil
}
