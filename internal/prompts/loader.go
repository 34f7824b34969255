// Package prompts provides externalized instruction templates for the stage
// functions. Templates live in JSON files embedded at compile time, one file
// per app, keyed by stage name.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

var (
	cache   = make(map[string]map[string]string)
	cacheMu sync.RWMutex
)

// Get retrieves a template by file (e.g. "video.json") and stage key.
func Get(filename, key string) (string, error) {
	templates, err := loadFile(filename)
	if err != nil {
		return "", err
	}

	tmpl, ok := templates[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return tmpl, nil
}

// MustGet retrieves a template, panicking if the file or key is missing.
// Stage functions use it because a missing template is a packaging bug.
func MustGet(filename, key string) string {
	tmpl, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return tmpl
}

// Format substitutes {{.Key}} placeholders with values from data.
func Format(template string, data map[string]string) string {
	result := template
	for key, value := range data {
		result = strings.ReplaceAll(result, fmt.Sprintf("{{.%s}}", key), value)
	}
	return result
}

func loadFile(filename string) (map[string]string, error) {
	cacheMu.RLock()
	if templates, ok := cache[filename]; ok {
		cacheMu.RUnlock()
		return templates, nil
	}
	cacheMu.RUnlock()

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	var templates map[string]string
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	cacheMu.Lock()
	cache[filename] = templates
	cacheMu.Unlock()

	return templates, nil
}
