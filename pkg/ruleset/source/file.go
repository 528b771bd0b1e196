package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"permitbase/ordinance/pkg/ruleset"
)

// extensions are the recognized rule-set file extensions, in resolution
// order: JSON is the canonical wire format, YAML is accepted for authoring
// convenience.
var extensions = []string{".json", ".yaml", ".yml"}

// FileSource resolves rule-set names to files in a directory. A name "zoning"
// resolves to zoning.json, zoning.yaml, or zoning.yml, whichever exists
// first in that order.
type FileSource struct {
	dir string
}

// NewFileSource creates a file-backed rule-set source rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// Dir returns the directory this source reads from.
func (s *FileSource) Dir() string {
	return s.dir
}

// Read returns the raw bytes of the named rule-set file.
func (s *FileSource) Read(ctx context.Context, name string) (*ruleset.SourceDocument, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Deleted between resolve and read.
			return nil, &ruleset.NotFoundError{Name: name}
		}
		return nil, &ruleset.SourceError{Name: name, Op: "read", Cause: err}
	}

	return &ruleset.SourceDocument{Data: data, Path: path}, nil
}

// Fingerprint returns a modification fingerprint for the named rule set
// without reading its content. The fingerprint combines mtime and size, a
// cheap signal that changes whenever the file is rewritten.
func (s *FileSource) Fingerprint(ctx context.Context, name string) (string, error) {
	path, err := s.resolve(name)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &ruleset.NotFoundError{Name: name}
		}
		return "", &ruleset.SourceError{Name: name, Op: "stat", Cause: err}
	}

	return fmt.Sprintf("%d:%d", info.ModTime().UnixNano(), info.Size()), nil
}

// Names lists the rule-set names available in the directory, sorted.
func (s *FileSource) Names(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, &ruleset.SourceError{Name: "", Op: "list", Cause: err}
	}

	seen := map[string]bool{}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !validExtension(ext) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	sort.Strings(names)
	return names, nil
}

// resolve maps a rule-set name to an existing file path.
func (s *FileSource) resolve(name string) (string, error) {
	for _, ext := range extensions {
		path := filepath.Join(s.dir, name+ext)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !os.IsNotExist(err) {
			return "", &ruleset.SourceError{Name: name, Op: "stat", Cause: err}
		}
	}
	return "", &ruleset.NotFoundError{Name: name}
}

// validExtension reports whether ext is a recognized rule-set extension.
func validExtension(ext string) bool {
	for _, known := range extensions {
		if ext == known {
			return true
		}
	}
	return false
}
