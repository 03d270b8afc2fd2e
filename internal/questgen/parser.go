package questgen

import (
	"regexp"
	"strings"
)

// The completion loosely follows the prompted template, but models drift:
// section labels vary in accent and case, the question sometimes arrives
// without its "Pregunta:" label, and delimiters are unreliable. Each field
// therefore has an ordered list of tolerant extraction rules; the first
// match wins and a field whose rules all fail makes the whole parse fail
// (except the optional explanation).

var (
	// "Pregunta: ..." up to a newline, the options label or the first
	// lettered option.
	reLabeledStatement = regexp.MustCompile(`(?is)pregunta\s*:\s*(.+?)(?:\n|opciones\s*:|[A-D]\))`)

	// Fallback: a leading Spanish question "¿...?" with no label at all.
	reQuotedStatement = regexp.MustCompile(`(?s)^\s*(¿.*?\?)`)

	// "Opción correcta: X" in any of its spellings (Opcion/Opción/Op,
	// accented or not). The letter ends the options block.
	reCorrectLetter = regexp.MustCompile(`(?i)op(?:ci[oó]n)?\s*correcta\s*:\s*([A-Da-d])`)

	// "Opciones:" label, optional.
	reOptionsLabel = regexp.MustCompile(`(?i)opciones\s*:`)

	// A lettered option marker: "A)", "B)", ...
	reOptionMarker = regexp.MustCompile(`[A-D]\)`)

	// "Explicación: ..." to the end of the text. Optional field.
	reExplanation = regexp.MustCompile(`(?is)explicaci[oó]n\s*:\s*(.*)$`)
)

// Parse extracts a question draft from a raw completion. It returns a
// *ParseError naming the first field that could not be extracted; a partial
// question is never returned.
func Parse(raw string) (*Draft, error) {
	statement, ok := extractStatement(raw)
	if !ok {
		return nil, &ParseError{Field: "statement", Raw: raw}
	}

	letterLoc := reCorrectLetter.FindStringSubmatchIndex(raw)
	if letterLoc == nil {
		return nil, &ParseError{Field: "correct letter", Raw: raw}
	}
	letter := strings.ToUpper(raw[letterLoc[2]:letterLoc[3]])
	correctIndex := int(letter[0] - 'A')

	options := extractOptions(raw[:letterLoc[0]])
	if len(options) < minOptions {
		return nil, &ParseError{Field: "options", Raw: raw}
	}
	if correctIndex >= len(options) {
		return nil, &ParseError{Field: "correct option", Raw: raw}
	}

	explanation := ""
	if m := reExplanation.FindStringSubmatch(raw); m != nil {
		explanation = strings.TrimSpace(m[1])
	}

	return &Draft{
		Statement:    statement,
		Options:      options,
		CorrectIndex: correctIndex,
		Explanation:  explanation,
	}, nil
}

// extractStatement tries the labeled form first, then the bare quoted
// question fallback.
func extractStatement(raw string) (string, bool) {
	if m := reLabeledStatement.FindStringSubmatch(raw); m != nil {
		if s := cleanStatement(m[1]); s != "" {
			return s, true
		}
	}
	if m := reQuotedStatement.FindStringSubmatch(raw); m != nil {
		if s := cleanStatement(m[1]); s != "" {
			return s, true
		}
	}
	return "", false
}

// extractOptions slices the options out of the text preceding the correct-
// letter marker. Options are delimited by their "X)" markers; anything
// beyond four is discarded.
func extractOptions(block string) []string {
	if loc := reOptionsLabel.FindStringIndex(block); loc != nil {
		block = block[loc[1]:]
	}

	markers := reOptionMarker.FindAllStringIndex(block, -1)
	var options []string
	for i, m := range markers {
		end := len(block)
		if i+1 < len(markers) {
			end = markers[i+1][0]
		}
		text := strings.TrimSpace(block[m[1]:end])
		if text != "" {
			options = append(options, text)
		}
		if len(options) == maxOptions {
			break
		}
	}
	return options
}

// cleanStatement strips enclosing punctuation and markup from a question
// statement: whitespace, the inverted question mark pair and stray quote or
// emphasis characters.
func cleanStatement(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `*"'`)
	s = strings.TrimPrefix(s, "¿")
	s = strings.TrimSuffix(s, "?")
	return strings.TrimSpace(s)
}
