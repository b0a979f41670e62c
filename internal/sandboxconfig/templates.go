package sandboxconfig

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"
)

// Stevelock's named templates are flat JSON files with no "extends"
// chain: a {read, write, network} File has nothing nested worth an
// inheritance merge. See DESIGN.md.

//go:embed templates/*.json
var templatesFS embed.FS

// Template names an embedded built-in policy with a human description.
type Template struct {
	Name        string
	Description string
}

var templateDescriptions = map[string]string{
	"default-deny":    "No filesystem writes, no network (most restrictive)",
	"workspace-write": "Read-only elsewhere, write access to the current directory",
	"npm-install":     "Write access to the workspace and node_modules, network allowed",
	"build-sandbox":   "Write access to ./dist, ./build and /tmp, no network",
}

// ListTemplates returns every built-in template sorted by name.
func ListTemplates() []Template {
	entries, err := templatesFS.ReadDir("templates")
	if err != nil {
		return nil
	}

	var out []Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		desc := templateDescriptions[name]
		if desc == "" {
			desc = "No description available"
		}
		out = append(out, Template{Name: name, Description: desc})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LoadTemplate loads a built-in template by name.
func LoadTemplate(name string) (*File, error) {
	name = strings.TrimSuffix(name, ".json")
	data, err := templatesFS.ReadFile("templates/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("template %q not found", name)
	}

	var f File
	if err := json.Unmarshal(jsonc.ToJSON(data), &f); err != nil {
		return nil, fmt.Errorf("failed to parse template %q: %w", name, err)
	}
	return &f, nil
}
