package chunker

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stripWhitespace removes every whitespace rune so chunk concatenation can be
// compared against the original regardless of boundary trimming.
func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func latinText(words int) string {
	sentences := []string{
		"The quick brown fox jumps over the lazy dog.",
		"A journey of a thousand miles begins with a single step!",
		"What could possibly go wrong here?",
	}
	var sb strings.Builder
	count := 0
	for i := 0; count < words; i++ {
		s := sentences[i%len(sentences)]
		sb.WriteString(s)
		sb.WriteString(" ")
		count += len(strings.Fields(s))
	}
	return sb.String()
}

func hangulText(runes int) string {
	sentence := "옛날 어느 마을에 한 나그네가 살았다。그는 매일 산을 넘어 장터로 향했다。"
	var sb strings.Builder
	for len([]rune(sb.String())) < runes {
		sb.WriteString(sentence)
	}
	return string([]rune(sb.String())[:runes])
}

func TestDetectScript(t *testing.T) {
	assert.Equal(t, ScriptSpaced, DetectScript("plain english text with words"))
	assert.Equal(t, ScriptLogographic, DetectScript("한국어로 된 문장입니다 모든 글자가 한글이죠"))
	assert.Equal(t, ScriptLogographic, DetectScript("これは日本語の文章です。漢字と仮名が混ざっています。"))
	// Mostly Latin with a sprinkle of CJK stays in word mode.
	assert.Equal(t, ScriptSpaced, DetectScript("the word 漢字 appears once in this otherwise english sentence"))
	assert.Equal(t, ScriptSpaced, DetectScript(""))
}

func TestSplit_ReconstructionLatin(t *testing.T) {
	text := latinText(5000)
	chunks := Split(text)
	require.NotEmpty(t, chunks)

	assert.Equal(t, stripWhitespace(text), stripWhitespace(strings.Join(chunks, "")),
		"no characters may be dropped, duplicated, or reordered")
}

func TestSplit_ReconstructionHangul(t *testing.T) {
	text := hangulText(5000)
	chunks := Split(text)
	require.NotEmpty(t, chunks)

	assert.Equal(t, stripWhitespace(text), stripWhitespace(strings.Join(chunks, "")))
}

func TestSplit_BoundsLatin(t *testing.T) {
	text := latinText(5000)
	p := PolicyFor(ScriptSpaced)
	chunks := SplitWithPolicy(text, p)
	require.Greater(t, len(chunks), 1)

	for i, chunk := range chunks {
		units := CountUnits(chunk, ScriptSpaced)
		assert.LessOrEqual(t, units, p.MaxUnits, "chunk %d over word ceiling", i)
		if i < len(chunks)-1 {
			assert.GreaterOrEqual(t, units, p.MinUnits, "chunk %d under word floor", i)
		}
	}
}

func TestSplit_BoundsHangul(t *testing.T) {
	text := hangulText(5000)
	p := PolicyFor(ScriptLogographic)
	chunks := SplitWithPolicy(text, p)
	require.Greater(t, len(chunks), 1)

	for i, chunk := range chunks {
		units := CountUnits(chunk, ScriptLogographic)
		assert.LessOrEqual(t, units, p.MaxUnits, "chunk %d over rune ceiling", i)
	}
}

func TestSplit_ThresholdsFollowScript(t *testing.T) {
	// A 5000-rune Hangul text must be measured in runes, a 5000-word Latin
	// text in words; neither may silently use the other script's thresholds.
	hangul := hangulText(5000)
	for _, chunk := range Split(hangul) {
		assert.LessOrEqual(t, len([]rune(chunk)), DefaultLogographicMax)
	}

	latin := latinText(5000)
	for _, chunk := range Split(latin) {
		assert.LessOrEqual(t, len(strings.Fields(chunk)), DefaultSpacedMax)
	}
}

func TestSplitWithPolicy_SeekPrefersSentenceBoundary(t *testing.T) {
	text := "one two three four five. six seven eight nine ten eleven twelve"
	chunks := SplitWithPolicy(text, Policy{Script: ScriptSpaced, MinUnits: 3, MaxUnits: 8, Seek: true})
	require.Len(t, chunks, 2)
	assert.Equal(t, "one two three four five.", chunks[0], "split point must be the delimiter inside the window")
	assert.Equal(t, "six seven eight nine ten eleven twelve", chunks[1])
}

func TestSplitWithPolicy_HardSplitWithoutDelimiter(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("word ", 20))
	chunks := SplitWithPolicy(text, Policy{Script: ScriptSpaced, MinUnits: 4, MaxUnits: 8, Seek: true})
	require.Len(t, chunks, 3)
	assert.Equal(t, 8, len(strings.Fields(chunks[0])))
	assert.Equal(t, 8, len(strings.Fields(chunks[1])))
	assert.Equal(t, 4, len(strings.Fields(chunks[2])), "remainder becomes its own final chunk")
}

func TestSplitWithPolicy_FixedUnit(t *testing.T) {
	// Fixed-unit batching: hard ceiling, no boundary search, no floor.
	text := "alpha beta. gamma delta epsilon zeta. eta theta iota kappa"
	chunks := SplitWithPolicy(text, Policy{Script: ScriptSpaced, MinUnits: 4, MaxUnits: 4, Seek: false})
	require.Len(t, chunks, 3)
	assert.Equal(t, "alpha beta. gamma delta", chunks[0])
	assert.Equal(t, "epsilon zeta. eta theta", chunks[1])
	assert.Equal(t, "iota kappa", chunks[2])
}

func TestSplitWithPolicy_SingleUnitCeiling(t *testing.T) {
	// MaxUnits of 1 leaves no room for a derived floor; the floor clamps to 1
	// and every unit becomes its own chunk.
	chunks := SplitWithPolicy("alpha beta gamma", Policy{Script: ScriptSpaced, MaxUnits: 1, Seek: true})
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, chunks)

	chunks = SplitWithPolicy("漢字かな", Policy{Script: ScriptLogographic, MaxUnits: 1, Seek: true})
	assert.Equal(t, []string{"漢", "字", "か", "な"}, chunks)
}

func TestSplit_Deterministic(t *testing.T) {
	text := latinText(3000)
	assert.Equal(t, Split(text), Split(text))
}

func TestSplit_ShortAndEmptyInput(t *testing.T) {
	assert.Empty(t, Split(""))
	assert.Empty(t, Split("   \n\t  "))

	chunks := Split("just a short line")
	require.Len(t, chunks, 1)
	assert.Equal(t, "just a short line", chunks[0])
}
