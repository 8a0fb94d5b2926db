// Package extract isolates JSON payloads from raw provider text and
// deterministically repairs truncated structures. Repair never invents
// content: it only closes structurally-open containers or truncates to the
// last known-good boundary.
package extract

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrUnparseable means no usable JSON boundary was found in the text, even
// after repair and salvage.
var ErrUnparseable = eris.New("extract: no parseable JSON payload in response")

// Extract locates the JSON payload in raw provider text and parses it.
// Prose before the first opening brace or bracket (preamble, markdown
// fences) is discarded. If strict parsing fails the payload is repaired and,
// failing that, salvaged up to the last complete element.
func Extract(text string) (any, error) {
	sub, ok := isolate(text)
	if !ok {
		return nil, ErrUnparseable
	}

	// Common case: the provider complied.
	if v, err := parse(sub); err == nil {
		return v, nil
	}

	scan := scanStructure(sub)

	// Typical truncation: close the open string and containers.
	if v, err := parse(scan.repaired(sub)); err == nil {
		return v, nil
	}

	// Last resort: cut back to the last complete element boundary and close
	// whatever containers remain open before it.
	if scan.lastCloser >= 0 {
		trunc := sub[:scan.lastCloser+1]
		if v, err := parse(scanStructure(trunc).repaired(trunc)); err == nil {
			return v, nil
		}
	}

	return nil, ErrUnparseable
}

func parse(s string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, err
	}
	return v, nil
}

// isolate strips code fences and returns the substring starting at the first
// opening brace or bracket.
func isolate(text string) (string, bool) {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return "", false
	}
	return strings.TrimSpace(text[start:]), true
}

// structureScan is the result of one left-to-right pass over a candidate
// payload: the stack of still-open containers, whether the scan ended inside
// a quoted string, and the index of the last structural closer seen.
type structureScan struct {
	open       []byte
	inString   bool
	lastCloser int
}

// scanStructure walks s once, tracking container nesting while respecting
// string-quote state and backslash escapes, so braces inside quoted text are
// never mistaken for structure.
func scanStructure(s string) structureScan {
	scan := structureScan{lastCloser: -1}
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if scan.inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				scan.inString = false
			}
			continue
		}

		switch c {
		case '"':
			scan.inString = true
		case '{', '[':
			scan.open = append(scan.open, c)
		case '}', ']':
			if n := len(scan.open); n > 0 {
				scan.open = scan.open[:n-1]
			}
			scan.lastCloser = i
		}
	}

	return scan
}

// repaired returns s completed into a structurally closed form: an unclosed
// string gets its quote, a dangling trailing comma is dropped, and every
// still-open container is closed in reverse order.
func (sc structureScan) repaired(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(sc.open) + 1)

	if sc.inString {
		b.WriteString(s)
		b.WriteByte('"')
	} else {
		trimmed := strings.TrimRight(s, " \t\r\n")
		trimmed = strings.TrimSuffix(trimmed, ",")
		b.WriteString(trimmed)
	}

	for i := len(sc.open) - 1; i >= 0; i-- {
		switch sc.open[i] {
		case '{':
			b.WriteByte('}')
		case '[':
			b.WriteByte(']')
		}
	}

	return b.String()
}
