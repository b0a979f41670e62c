// Package sandboxconfig loads a Stevelock policy from a JSONC file and
// expands glob patterns in its scope entries into literal directories.
// This is deliberately a pre-core, config-layer concern: the sandbox
// core's Policy holds only literal, unexpanded paths, so glob expansion
// happens here, before a Policy is ever constructed.
package sandboxconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/tidwall/jsonc"

	"github.com/boonbane/stevelock/pkg/stevelock"
)

// File is the on-disk shape of a Stevelock policy config: a host-facing
// {read, write, network} object, plus glob patterns in read/write entries
// that get expanded before Policy construction.
type File struct {
	Read    []string `json:"read"`
	Write   []string `json:"write"`
	Network bool     `json:"network,omitempty"`
}

// Load reads path as JSONC, stripping comments before unmarshal, and
// returns the raw File.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // caller-supplied config path, by design
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("config file %q is empty", path)
	}

	var f File
	if err := json.Unmarshal(jsonc.ToJSON(data), &f); err != nil {
		return nil, fmt.Errorf("invalid JSON in config file: %w", err)
	}
	return &f, nil
}

// Policy expands glob patterns in f's read/write entries and returns the
// literal-path Policy the core expects.
func (f *File) Policy() stevelock.Policy {
	return stevelock.Policy{
		Read:    ExpandGlobPatterns(f.Read),
		Write:   ExpandGlobPatterns(f.Write),
		Network: f.Network,
	}
}

// ContainsGlobChars checks if a path pattern contains glob characters.
func ContainsGlobChars(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[]")
}

// NormalizePath expands "~" and relative paths into absolute paths.
func NormalizePath(pathPattern string) string {
	home, _ := os.UserHomeDir()
	cwd, _ := os.Getwd()

	normalized := pathPattern
	switch {
	case pathPattern == "~":
		normalized = home
	case strings.HasPrefix(pathPattern, "~/"):
		normalized = filepath.Join(home, pathPattern[2:])
	case strings.HasPrefix(pathPattern, "./"), strings.HasPrefix(pathPattern, "../"):
		if abs, err := filepath.Abs(filepath.Join(cwd, pathPattern)); err == nil {
			normalized = abs
		}
	case !filepath.IsAbs(pathPattern) && !ContainsGlobChars(pathPattern):
		if abs, err := filepath.Abs(filepath.Join(cwd, pathPattern)); err == nil {
			normalized = abs
		}
	}

	return normalized
}

// ExpandGlobPatterns expands glob patterns in patterns into literal
// directories using doublestar, scoped to the current working directory
// for relative patterns. Non-glob entries pass through NormalizePath.
func ExpandGlobPatterns(patterns []string) []string {
	var expanded []string
	seen := make(map[string]bool)

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	for _, pattern := range patterns {
		if !ContainsGlobChars(pattern) {
			normalized := NormalizePath(pattern)
			if !seen[normalized] {
				seen[normalized] = true
				expanded = append(expanded, normalized)
			}
			continue
		}

		searchBase := cwd
		searchPattern := pattern
		if filepath.IsAbs(pattern) {
			searchBase, searchPattern = splitGlobBase(pattern)
		}

		fsys := os.DirFS(searchBase)
		matches, err := doublestar.Glob(fsys, searchPattern)
		if err != nil {
			continue
		}
		for _, match := range matches {
			absMatch := filepath.Join(searchBase, match)
			if info, err := os.Stat(absMatch); err != nil || !info.IsDir() {
				continue
			}
			if !seen[absMatch] {
				seen[absMatch] = true
				expanded = append(expanded, absMatch)
			}
		}
	}

	return expanded
}

// splitGlobBase finds the non-glob directory prefix of an absolute
// pattern, so doublestar only walks beneath it.
func splitGlobBase(pattern string) (base, rest string) {
	parts := strings.Split(pattern, "/")
	var baseParts []string
	for _, p := range parts {
		if ContainsGlobChars(p) {
			break
		}
		baseParts = append(baseParts, p)
	}
	base = strings.Join(baseParts, "/")
	if base == "" {
		base = "/"
	}
	rest = strings.TrimPrefix(pattern, base+"/")
	return base, rest
}
