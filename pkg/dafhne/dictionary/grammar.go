package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// GrammarSection is one "## SECTION" block of a grammar text file, its
// prose split into sentences.
type GrammarSection struct {
	Name      string
	Sentences []string
}

// ParseGrammar reads the grammar text format: markdown with "## SECTION"
// headers and prose below, each section's prose split on "." into
// trimmed sentences. Prose before the first header goes into an unnamed
// section. Sections come back in file order.
func ParseGrammar(r io.Reader) ([]GrammarSection, error) {
	scanner := bufio.NewScanner(r)
	var sections []GrammarSection
	cur := GrammarSection{}

	flush := func() {
		if cur.Name != "" || len(cur.Sentences) > 0 {
			sections = append(sections, cur)
		}
	}

	for scanner.Scan() {
		trimmed := strings.TrimSpace(scanner.Text())
		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, "## "):
			flush()
			cur = GrammarSection{Name: strings.TrimSpace(strings.TrimPrefix(trimmed, "## "))}
			continue
		case strings.HasPrefix(trimmed, "# "):
			// document title, ignored
			continue
		default:
			cur.Sentences = append(cur.Sentences, Sentences(trimmed)...)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("dictionary: reading grammar: %w", err)
	}
	return sections, nil
}
