package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dafhne/engine/pkg/dafhne/internalerr"
)

// ParseMarkdown reads a dafhne dictionary in the bespoke markdown dialect
// described in the external-interfaces documentation: an optional
// "# Title" line, "## SECTION" headers, entries of the form
// "**word** — definition." (an em dash or a literal "---" separator is
// accepted between head-word and definition), followed by zero or more
// "- \"example\"" lines. A bare "---" line on its own separates sections
// without starting a new header.
//
// This is a small, fixed dialect rather than general Markdown, so it is
// parsed the same hand-rolled, line-oriented way the rest of this corpus
// parses its own bespoke text formats, instead of reaching for a full
// CommonMark library.
func ParseMarkdown(r io.Reader) (*Dictionary, error) {
	scanner := bufio.NewScanner(r)
	var entries []Entry
	section := ""
	var cur *Entry
	lineNo := 0

	flush := func() {
		if cur != nil {
			entries = append(entries, *cur)
			cur = nil
		}
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), " \t\r")
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, "## "):
			flush()
			section = strings.TrimSpace(strings.TrimPrefix(trimmed, "## "))
			continue
		case strings.HasPrefix(trimmed, "# "):
			// document title, ignored
			continue
		case trimmed == "---":
			flush()
			continue
		case strings.HasPrefix(trimmed, "- "):
			if cur == nil {
				return nil, fmt.Errorf("%w: line %d: example line with no preceding entry", internalerr.ErrMalformedInput, lineNo)
			}
			cur.Examples = append(cur.Examples, unquote(strings.TrimSpace(strings.TrimPrefix(trimmed, "- "))))
			continue
		case strings.HasPrefix(trimmed, "**"):
			flush()
			entry, isEntity, ok := parseEntryLine(trimmed)
			if !ok {
				return nil, fmt.Errorf("%w: line %d: malformed entry %q", internalerr.ErrMalformedInput, lineNo, trimmed)
			}
			entry.Section = section
			entry.IsEntity = isEntity
			cur = &entry
			continue
		default:
			return nil, fmt.Errorf("%w: line %d: unrecognised line %q", internalerr.ErrMalformedInput, lineNo, trimmed)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("dictionary: reading markdown: %w", err)
	}
	return New(entries), nil
}

// parseEntryLine parses "**word** — definition." or "**Word** --- definition."
// Entries whose word starts with an uppercase letter in the source are
// hand-crafted proper-noun entries (is_entity = true); the word itself is
// still stored lower-cased.
func parseEntryLine(line string) (Entry, bool, bool) {
	rest := strings.TrimPrefix(line, "**")
	end := strings.Index(rest, "**")
	if end < 0 {
		return Entry{}, false, false
	}
	word := rest[:end]
	remainder := strings.TrimSpace(rest[end+2:])

	isEntity := word != "" && strings.ToUpper(word[:1]) == word[:1] && strings.ToLower(word[:1]) != word[:1]

	remainder = strings.TrimPrefix(remainder, "—")
	remainder = strings.TrimPrefix(remainder, "---")
	remainder = strings.TrimSpace(remainder)

	return Entry{Word: word, Definition: remainder}, isEntity, true
}

func unquote(s string) string {
	s = strings.TrimPrefix(s, "\"")
	s = strings.TrimSuffix(s, "\"")
	return s
}
