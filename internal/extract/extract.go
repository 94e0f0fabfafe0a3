// Package extract recovers JSON from free-form model output. The model is an
// untrusted oracle: it wraps answers in prose, code fences, and broken
// punctuation. This stage is deliberately tolerant; a strict decode happens
// afterwards and its failure is a separate, recoverable condition.
package extract

import (
	"regexp"
	"strings"
)

var (
	fenceMarker = regexp.MustCompile("```[a-zA-Z]*\n?")

	// C0 controls except tab, newline, carriage return.
	controlChars = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f]")

	// Zero-width characters the model occasionally sprinkles in.
	zeroWidth = regexp.MustCompile("[​‌‍⁠\uFEFF]")

	// UTF-8 ellipsis mangled through a latin-1 round trip.
	mangledEllipsis = strings.NewReplacer("â€¦", "", "…", "...")

	trailingComma = regexp.MustCompile(`,\s*([}\]])`)
)

// JSON scans raw model text for the most plausible JSON payload. It returns
// the candidate text and true, or "" and false when nothing JSON-shaped was
// found. The returned text may still fail a strict parse; callers fall back
// on that condition separately.
func JSON(raw string) (string, bool) {
	cleaned := clean(raw)
	if cleaned == "" {
		return "", false
	}

	candidates := scanCandidates(cleaned)
	if len(candidates) == 0 {
		return "", false
	}

	// The model's real answer is usually the largest JSON blob in the text.
	best := candidates[0]
	for _, c := range candidates[1:] {
		if len(c) > len(best) {
			best = c
		}
	}

	return trailingComma.ReplaceAllString(best, "$1"), true
}

// scanCandidates collects every top-level balanced {...} or [...] substring.
// It tracks string literals so delimiters inside quoted text do not count,
// but performs no other validation.
func scanCandidates(s string) []string {
	var candidates []string
	var stack []byte
	start := -1
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		ch := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			if len(stack) > 0 {
				inString = true
			}
		case '{', '[':
			if len(stack) == 0 {
				start = i
			}
			stack = append(stack, ch)
		case '}', ']':
			if len(stack) == 0 {
				continue
			}
			open := stack[len(stack)-1]
			if (ch == '}' && open != '{') || (ch == ']' && open != '[') {
				// Mismatched closer: abandon the current candidate.
				stack = stack[:0]
				start = -1
				continue
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 && start >= 0 {
				candidates = append(candidates, s[start:i+1])
				start = -1
			}
		}
	}

	return candidates
}

func clean(raw string) string {
	s := strings.TrimPrefix(raw, "\uFEFF")
	s = mangledEllipsis.Replace(s)
	s = zeroWidth.ReplaceAllString(s, "")
	s = controlChars.ReplaceAllString(s, "")
	s = fenceMarker.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
