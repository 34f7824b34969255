package llm

import (
	"os"
	"strings"
)

// EnvAPIKey is the environment variable consulted when the user supplies no
// credentials of their own.
const EnvAPIKey = "GEMINI_API_KEY"

// ResolveCredentials normalizes a newline-delimited credential blob into an
// ordered list of usable API keys. Each non-blank line is one credential;
// lines are trimmed, blanks dropped, order preserved. Duplicates are allowed
// so a caller may repeat a key to weight retry probability.
//
// If the blob yields nothing, the process-level GEMINI_API_KEY is used as a
// single-entry fallback. An empty result is valid; the caller decides what to
// do with it.
func ResolveCredentials(raw string) []string {
	var keys []string
	for _, line := range strings.Split(raw, "\n") {
		key := strings.TrimSpace(line)
		if key == "" {
			continue
		}
		keys = append(keys, key)
	}

	if len(keys) == 0 {
		if env := strings.TrimSpace(os.Getenv(EnvAPIKey)); env != "" {
			keys = append(keys, env)
		}
	}

	return keys
}
