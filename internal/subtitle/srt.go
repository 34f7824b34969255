// Package subtitle parses, formats, and translates SubRip subtitle documents.
package subtitle

import (
	"fmt"
	"strconv"
	"strings"
)

// Item is one subtitle block: index, timecode line, and text. Index and
// Timecode are carried verbatim through every operation; only Text changes.
type Item struct {
	Index    int    `json:"index"`
	Timecode string `json:"timecode"`
	Text     string `json:"text"`
}

// FormatError reports a malformed subtitle document.
type FormatError struct {
	Block   int
	Message string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("subtitle block %d: %s", e.Block, e.Message)
}

// Parse reads an SRT document: blocks of an integer index line, a
// "start --> end" timecode line, and one or more text lines, separated by
// blank lines.
func Parse(doc string) ([]Item, error) {
	doc = strings.ReplaceAll(doc, "\r\n", "\n")
	doc = strings.TrimPrefix(doc, "\uFEFF")

	var items []Item
	blockNum := 0
	for _, block := range strings.Split(doc, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		blockNum++

		lines := strings.Split(block, "\n")
		if len(lines) < 2 {
			return nil, &FormatError{Block: blockNum, Message: "expected index, timecode, and text lines"}
		}

		index, err := strconv.Atoi(strings.TrimSpace(lines[0]))
		if err != nil {
			return nil, &FormatError{Block: blockNum, Message: "index line is not an integer: " + lines[0]}
		}

		timecode := strings.TrimSpace(lines[1])
		if !strings.Contains(timecode, "-->") {
			return nil, &FormatError{Block: blockNum, Message: "missing '-->' timecode line"}
		}

		text := strings.Join(lines[2:], "\n")
		if strings.TrimSpace(text) == "" {
			return nil, &FormatError{Block: blockNum, Message: "block has no text"}
		}

		items = append(items, Item{Index: index, Timecode: timecode, Text: text})
	}

	if len(items) == 0 {
		return nil, &FormatError{Block: 0, Message: "document contains no subtitle blocks"}
	}
	return items, nil
}

// Format writes items back out as an SRT document, byte-compatible with the
// input layout: index and timecode exactly as stored, blocks separated by
// blank lines, trailing newline.
func Format(items []Item) string {
	var sb strings.Builder
	for i, item := range items {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%d\n%s\n%s\n", item.Index, item.Timecode, item.Text)
	}
	return sb.String()
}
