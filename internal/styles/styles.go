// Package styles holds the visual style preset catalog used by the prompt
// generation stages. Presets ship embedded in the binary so the CLI and the
// server agree on the same catalog.
package styles

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed styles.yaml
var rawCatalog []byte

// Style is one visual preset. Modifier is the text appended to generated
// prompts to steer the image model toward the preset's look.
type Style struct {
	Name        string   `yaml:"name"`
	Label       string   `yaml:"label"`
	Description string   `yaml:"description"`
	Modifier    string   `yaml:"modifier"`
	Aliases     []string `yaml:"aliases,omitempty"`
}

var (
	loadOnce sync.Once
	catalog  []Style
	loadErr  error
)

func load() ([]Style, error) {
	loadOnce.Do(func() {
		var doc struct {
			Styles []Style `yaml:"styles"`
		}
		if err := yaml.Unmarshal(rawCatalog, &doc); err != nil {
			loadErr = fmt.Errorf("styles catalog is malformed: %w", err)
			return
		}
		if len(doc.Styles) == 0 {
			loadErr = fmt.Errorf("styles catalog is empty")
			return
		}
		catalog = doc.Styles
	})
	return catalog, loadErr
}

// All returns the full catalog in declaration order.
func All() ([]Style, error) {
	return load()
}

// Names returns every preset name in declaration order.
func Names() []string {
	all, err := load()
	if err != nil {
		return nil
	}
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = s.Name
	}
	return names
}

// Lookup resolves a style by name or alias, case-insensitively.
func Lookup(name string) (Style, bool) {
	all, err := load()
	if err != nil {
		return Style{}, false
	}
	name = strings.TrimSpace(name)
	for _, s := range all {
		if strings.EqualFold(s.Name, name) || strings.EqualFold(s.Label, name) {
			return s, true
		}
		for _, alias := range s.Aliases {
			if strings.EqualFold(alias, name) {
				return s, true
			}
		}
	}
	return Style{}, false
}

// Default returns the first catalog entry. The catalog ships non-empty, so a
// failure here is a packaging bug.
func Default() Style {
	all, err := load()
	if err != nil {
		panic(err)
	}
	return all[0]
}
