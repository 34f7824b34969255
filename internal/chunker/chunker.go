// Package chunker partitions large texts into bounded-size segments without
// losing or duplicating characters, preferring sentence boundaries.
package chunker

import (
	"regexp"
	"strings"
	"unicode"
)

// Script selects the unit a chunk size is measured in: runes for logographic
// scripts, whitespace-delimited words for space-delimited ones.
type Script int

// Supported script modes.
const (
	ScriptSpaced Script = iota
	ScriptLogographic
)

// Default unit thresholds per script. Hand-tuned for prompt-sized segments.
const (
	DefaultLogographicMin = 1200
	DefaultLogographicMax = 2000
	DefaultSpacedMin      = 700
	DefaultSpacedMax      = 1200
)

// logographicPattern matches CJK and Hangul code points. It is a coarse
// heuristic, not a language identifier: mixed-script documents get whichever
// mode the majority of their characters selects.
var logographicPattern = regexp.MustCompile(`[\p{Han}\p{Hangul}\p{Hiragana}\p{Katakana}]`)

// sentence and line delimiters the boundary-seeking policy splits after.
const delimiters = "\n.!?。！？"

// Policy controls how a text is partitioned.
type Policy struct {
	Script   Script
	MinUnits int
	MaxUnits int
	// Seek enables the boundary-seeking behavior: back off from MaxUnits to
	// the nearest delimiter within [MinUnits, MaxUnits]. Without it the split
	// is a hard cut at MaxUnits.
	Seek bool
}

// DetectScript classifies a text by the share of logographic code points
// among its non-whitespace characters.
func DetectScript(text string) Script {
	logo := len(logographicPattern.FindAllString(text, -1))
	nonSpace := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			nonSpace++
		}
	}
	if nonSpace > 0 && logo*2 >= nonSpace {
		return ScriptLogographic
	}
	return ScriptSpaced
}

// PolicyFor returns the default boundary-seeking policy for a script.
func PolicyFor(s Script) Policy {
	if s == ScriptLogographic {
		return Policy{Script: ScriptLogographic, MinUnits: DefaultLogographicMin, MaxUnits: DefaultLogographicMax, Seek: true}
	}
	return Policy{Script: ScriptSpaced, MinUnits: DefaultSpacedMin, MaxUnits: DefaultSpacedMax, Seek: true}
}

// Split partitions text under the default policy for its detected script.
func Split(text string) []string {
	return SplitWithPolicy(text, PolicyFor(DetectScript(text)))
}

// SplitWithPolicy partitions text into chunks of MinUnits..MaxUnits units.
// Every chunk except possibly the last respects the bounds; the remainder
// becomes its own final chunk even when under MinUnits. Only structural
// whitespace at the exact split points is trimmed from chunk edges.
func SplitWithPolicy(text string, p Policy) []string {
	if p.MaxUnits <= 0 {
		p.MaxUnits = DefaultSpacedMax
	}
	if p.MinUnits <= 0 || p.MinUnits > p.MaxUnits {
		p.MinUnits = p.MaxUnits / 2
	}
	if p.MinUnits < 1 {
		p.MinUnits = 1
	}

	var chunks []string
	rest := []rune(text)
	for len(rest) > 0 {
		chunk, remainder := cutOnce(rest, p)
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if len(remainder) == len(rest) {
			break // no progress possible
		}
		rest = remainder
	}
	return chunks
}

// CountUnits counts the size of text in the given script's unit.
func CountUnits(text string, s Script) int {
	if s == ScriptLogographic {
		return len([]rune(text))
	}
	return len(strings.Fields(text))
}

// cutOnce removes one chunk from the front of runes.
func cutOnce(runes []rune, p Policy) (string, []rune) {
	ends := unitEnds(runes, p.Script)
	if len(ends) <= p.MaxUnits {
		return strings.TrimSpace(string(runes)), nil
	}

	maxPos := ends[p.MaxUnits-1]
	minPos := ends[p.MinUnits-1]

	cut := maxPos
	if p.Seek {
		for i := maxPos - 1; i+1 >= minPos && i >= 0; i-- {
			if strings.ContainsRune(delimiters, runes[i]) {
				cut = i + 1
				break
			}
		}
	}

	chunk := strings.TrimSpace(string(runes[:cut]))
	rest := runes[cut:]
	for len(rest) > 0 && unicode.IsSpace(rest[0]) {
		rest = rest[1:]
	}
	return chunk, rest
}

// unitEnds returns, for each complete unit, the rune index just past it.
func unitEnds(runes []rune, s Script) []int {
	if s == ScriptLogographic {
		ends := make([]int, len(runes))
		for i := range runes {
			ends[i] = i + 1
		}
		return ends
	}

	var ends []int
	inWord := false
	for i, r := range runes {
		if unicode.IsSpace(r) {
			if inWord {
				ends = append(ends, i)
				inWord = false
			}
			continue
		}
		inWord = true
	}
	if inWord {
		ends = append(ends, len(runes))
	}
	return ends
}
