package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ManifestFileName is the project manifest looked up by FindManifest.
	ManifestFileName = "lox.yml"
	// LockfileFileName sits next to the manifest.
	LockfileFileName = "lox.lock"

	defaultEntry = "main.lox"
)

// ErrManifestNotFound is returned by FindManifest when no lox.yml exists in
// the directory or any of its parents.
var ErrManifestNotFound = errors.New("manifest: lox.yml not found")

// Manifest represents the parsed contents of lox.yml.
type Manifest struct {
	Path         string
	Name         string
	Version      string
	Entry        string
	Preludes     []string
	Dependencies map[string]*DependencySpec
	Settings     Settings
}

// Settings holds interpreter and REPL knobs.
type Settings struct {
	// MaxCallDepth is nil when unset; zero disables the guard.
	MaxCallDepth *int
	Prompt       string
	HistoryFile  string
}

// DependencySpec describes where a dependency's sources come from. Exactly
// one of Path or Git is set.
type DependencySpec struct {
	Path   string
	Git    string
	Rev    string
	Tag    string
	Branch string
	Main   string
}

// IsGit reports whether the dependency is fetched from a repository.
func (d *DependencySpec) IsGit() bool {
	return d != nil && d.Git != ""
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Dir returns the directory containing the manifest.
func (m *Manifest) Dir() string {
	return filepath.Dir(m.Path)
}

// EntryPath returns the absolute path of the entry script.
func (m *Manifest) EntryPath() string {
	return m.resolve(m.Entry)
}

// PreludePaths returns absolute prelude paths in manifest order.
func (m *Manifest) PreludePaths() []string {
	out := make([]string, 0, len(m.Preludes))
	for _, p := range m.Preludes {
		out = append(out, m.resolve(p))
	}
	return out
}

// DependencyNames returns dependency names in sorted order.
func (m *Manifest) DependencyNames() []string {
	names := make([]string, 0, len(m.Dependencies))
	for name := range m.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Manifest) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Dir(), filepath.FromSlash(p))
}

// FindManifest walks upward from dir looking for lox.yml.
func FindManifest(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("manifest: resolve %s: %w", dir, err)
	}
	for {
		candidate := filepath.Join(abs, ManifestFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrManifestNotFound
		}
		abs = parent
	}
}

// LoadManifest parses lox.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if !strings.HasSuffix(m.Entry, ".lox") {
		errs.Issues = append(errs.Issues, fmt.Sprintf("entry %q must be a .lox file", m.Entry))
	}
	for i, prelude := range m.Preludes {
		if !strings.HasSuffix(prelude, ".lox") {
			errs.Issues = append(errs.Issues, fmt.Sprintf("preludes[%d] %q must be a .lox file", i, prelude))
		}
	}
	if d := m.Settings.MaxCallDepth; d != nil && *d < 0 {
		errs.Issues = append(errs.Issues, "settings.max_call_depth must not be negative")
	}

	for _, name := range m.DependencyNames() {
		for _, issue := range m.Dependencies[name].validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s: %s", name, issue))
		}
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func (d *DependencySpec) validate() []string {
	var errs []string
	if d == nil {
		return []string{"must specify git or path"}
	}
	switch {
	case d.Path != "" && d.Git != "":
		errs = append(errs, "path dependencies cannot also specify git")
	case d.Path == "" && d.Git == "":
		errs = append(errs, "must specify git or path")
	}
	pins := 0
	for _, v := range []string{d.Rev, d.Tag, d.Branch} {
		if v != "" {
			pins++
		}
	}
	if pins > 1 {
		errs = append(errs, "only one of rev, tag, or branch may be given")
	}
	if pins > 0 && d.Git == "" {
		errs = append(errs, "rev, tag, and branch apply only to git dependencies")
	}
	if !strings.HasSuffix(d.Main, ".lox") {
		errs = append(errs, fmt.Sprintf("main %q must be a .lox file", d.Main))
	}
	return errs
}

type manifestFile struct {
	Name         string        `yaml:"name"`
	Version      string        `yaml:"version"`
	Entry        string        `yaml:"entry"`
	Preludes     stringList    `yaml:"preludes"`
	Dependencies dependencyMap `yaml:"dependencies"`
	Settings     settingsYAML  `yaml:"settings"`
}

type settingsYAML struct {
	MaxCallDepth *int   `yaml:"max_call_depth"`
	Prompt       string `yaml:"prompt"`
	HistoryFile  string `yaml:"history_file"`
}

type dependencyMap map[string]*DependencySpec

type stringList []string

func (mf manifestFile) toManifest(path string) *Manifest {
	entry := strings.TrimSpace(mf.Entry)
	if entry == "" {
		entry = defaultEntry
	}
	result := &Manifest{
		Path:         path,
		Name:         sanitizeSegment(strings.TrimSpace(mf.Name)),
		Version:      strings.TrimSpace(mf.Version),
		Entry:        entry,
		Preludes:     mf.Preludes.Clone(),
		Dependencies: make(map[string]*DependencySpec, len(mf.Dependencies)),
		Settings: Settings{
			MaxCallDepth: mf.Settings.MaxCallDepth,
			Prompt:       mf.Settings.Prompt,
			HistoryFile:  strings.TrimSpace(mf.Settings.HistoryFile),
		},
	}
	for name, dep := range mf.Dependencies {
		if dep == nil {
			result.Dependencies[name] = nil
			continue
		}
		copy := *dep
		result.Dependencies[name] = &copy
	}
	return result
}

func (l stringList) Clone() []string {
	if len(l) == 0 {
		return nil
	}
	out := make([]string, 0, len(l))
	for _, item := range l {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*l = nil
			return nil
		}
		*l = stringList{strings.TrimSpace(value.Value)}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			var str string
			if err := node.Decode(&str); err != nil {
				return err
			}
			str = strings.TrimSpace(str)
			if str == "" {
				continue
			}
			items = append(items, str)
		}
		*l = stringList(items)
		return nil
	case yaml.AliasNode:
		return l.UnmarshalYAML(value.Alias)
	case 0:
		*l = nil
		return nil
	default:
		return fmt.Errorf("manifest: expected string or sequence for list but found %s", value.ShortTag())
	}
}

func (dm *dependencyMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 || (value.Kind == yaml.ScalarNode && value.Tag == "!!null") {
		*dm = make(dependencyMap)
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: dependencies must be a mapping")
	}
	result := make(dependencyMap, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valNode := value.Content[i+1]

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("manifest: dependency names must be non-empty")
		}
		var dep DependencySpec
		if err := dep.unmarshalYAML(valNode); err != nil {
			return fmt.Errorf("manifest: dependency %q: %w", key, err)
		}
		result[sanitizeSegment(key)] = &dep
	}
	*dm = result
	return nil
}

// unmarshalYAML accepts either a mapping or a scalar path shorthand.
func (d *DependencySpec) unmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*d = DependencySpec{Main: defaultEntry}
			return nil
		}
		*d = DependencySpec{Path: strings.TrimSpace(value.Value), Main: defaultEntry}
		return nil
	case yaml.MappingNode:
		var raw struct {
			Path   string `yaml:"path"`
			Git    string `yaml:"git"`
			Rev    string `yaml:"rev"`
			Tag    string `yaml:"tag"`
			Branch string `yaml:"branch"`
			Main   string `yaml:"main"`
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		*d = DependencySpec{
			Path:   strings.TrimSpace(raw.Path),
			Git:    strings.TrimSpace(raw.Git),
			Rev:    strings.TrimSpace(raw.Rev),
			Tag:    strings.TrimSpace(raw.Tag),
			Branch: strings.TrimSpace(raw.Branch),
			Main:   strings.TrimSpace(raw.Main),
		}
		if d.Main == "" {
			d.Main = defaultEntry
		}
		return nil
	case yaml.AliasNode:
		return d.unmarshalYAML(value.Alias)
	default:
		return fmt.Errorf("expected string or mapping, found %s", value.ShortTag())
	}
}

// sanitizeSegment lowercases name and replaces anything outside
// [a-z0-9_] with an underscore.
func sanitizeSegment(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// sanitizePathSegment makes a revision descriptor safe for use as a
// directory name.
func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
