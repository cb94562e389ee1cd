// Package normalize turns raw model text into structured records. It
// tolerates markdown code fences and a single missing structural delimiter
// at each end, and applies the domain sanitization pass to turn arrays.
package normalize

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/phrazzld/dialogen/internal/domain"
)

var (
	fencePattern = regexp.MustCompile("```(?:json)?")

	// speakerPrefixPattern matches a leading "Name:" style speaker tag: a
	// capitalized word followed by a colon at the start of a message.
	speakerPrefixPattern = regexp.MustCompile(`^[A-Z][A-Za-z]*:\s*`)

	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// denyNames is the fixed deny-list of first names the models keep inventing
// for speakers. Matched as standalone words, including the possessive form.
var denyNames = []string{
	"Rahul", "Priya", "Aman", "Neha", "Riya", "Arjun", "Pooja", "Vikram",
}

var denyNamePattern = regexp.MustCompile(`\b(?:` + strings.Join(denyNames, "|") + `)(?:'s)?\b`)

// Object parses raw model text into a free-form JSON object. It reports
// false when no object could be recovered; it never returns an error past
// this boundary. Objects are passed through without schema validation;
// deciding whether a record is worth keeping is the batch driver's concern.
func Object(raw string) (map[string]any, bool) {
	cleaned := repair(stripFences(raw), '{', '}')

	var obj map[string]any
	if err := json.Unmarshal([]byte(cleaned), &obj); err != nil {
		return nil, false
	}
	if len(obj) == 0 {
		return nil, false
	}
	return obj, true
}

// Turns parses raw model text into a sanitized turn sequence with roles
// assigned by position parity. The raw payload may be either an array of
// strings or an array of objects carrying a "text" field. Reports false
// when no non-empty sequence could be recovered.
func Turns(raw string) ([]domain.Turn, bool) {
	cleaned := repair(stripFences(raw), '[', ']')

	texts, ok := decodeTexts(cleaned)
	if !ok {
		return nil, false
	}

	sanitized := make([]string, 0, len(texts))
	for _, text := range texts {
		if text = SanitizeMessage(text); text != "" {
			sanitized = append(sanitized, text)
		}
	}
	if len(sanitized) == 0 {
		return nil, false
	}

	return domain.TurnsFromTexts(sanitized), true
}

// SanitizeMessage applies the domain sanitization pass to one message:
// strip a leading speaker prefix, remove emoji code points, remove
// deny-listed names, and collapse repeated whitespace.
func SanitizeMessage(text string) string {
	text = speakerPrefixPattern.ReplaceAllString(text, "")
	text = stripEmoji(text)
	text = denyNamePattern.ReplaceAllString(text, "")
	text = multiSpacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// stripFences removes markdown code-fence markers anywhere in the text and
// trims surrounding whitespace.
func stripFences(raw string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(raw, ""))
}

// repair is a best-effort fix for truncated model output: it prepends the
// opening delimiter if missing and appends the closing one if missing: at
// most one of each, nothing more. It is deliberately not a general JSON
// repair routine.
func repair(s string, opening, closing byte) string {
	if s == "" {
		return s
	}
	if s[0] != opening {
		s = string(opening) + s
	}
	if s[len(s)-1] != closing {
		s += string(closing)
	}
	return s
}

// decodeTexts accepts either a JSON array of strings or an array of
// objects with a "text" field and returns the ordered message texts.
func decodeTexts(cleaned string) ([]string, bool) {
	var plain []string
	if err := json.Unmarshal([]byte(cleaned), &plain); err == nil {
		return plain, true
	}

	var lines []struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(cleaned), &lines); err != nil {
		return nil, false
	}

	texts := make([]string, 0, len(lines))
	for _, line := range lines {
		texts = append(texts, line.Text)
	}
	return texts, true
}

// stripEmoji removes emoji and related presentation code points.
func stripEmoji(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !isEmoji(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F000 && r <= 0x1FAFF: // pictographs, emoticons, symbols
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols and dingbats
		return true
	case r == 0x2B50 || r == 0x2B55:
		return true
	case r == 0xFE0F || r == 0x200D: // variation selector, ZWJ
		return true
	default:
		return false
	}
}
