package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dafhne/engine/pkg/dafhne/internalerr"
)

// Case is one expected-answer question from a test suite.
type Case struct {
	Question string
	Expected ExpectedAnswer
	Chain    string
	Category string
}

// ExpectedAnswer mirrors the Answer sum type for suite expectations:
// Yes, No, IDontKnow, or a literal word phrase.
type ExpectedAnswer struct {
	Kind string // "yes", "no", "idk", "word"
	Word string // populated when Kind == "word"
}

// Suite is an ordered sequence of cases, grouped by "## HEADER" category
// markers in the source file.
type Suite struct {
	Cases []Case
}

// ParseSuite reads the "**QNN**: question?" / "**A**: answer" /
// optional "**Chain**: ..." test-suite format, with "## HEADER" category
// markers.
func ParseSuite(r io.Reader) (*Suite, error) {
	scanner := bufio.NewScanner(r)
	var cases []Case
	category := ""
	var cur *Case
	lineNo := 0

	flush := func() {
		if cur != nil {
			cases = append(cases, *cur)
			cur = nil
		}
	}

	for scanner.Scan() {
		lineNo++
		trimmed := strings.TrimSpace(scanner.Text())

		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, "## "):
			flush()
			category = strings.TrimSpace(strings.TrimPrefix(trimmed, "## "))
			continue
		case strings.HasPrefix(trimmed, "**Q"):
			flush()
			q, ok := afterColon(trimmed)
			if !ok {
				return nil, fmt.Errorf("%w: line %d: malformed question %q", internalerr.ErrMalformedInput, lineNo, trimmed)
			}
			cur = &Case{Question: strings.TrimSpace(q), Category: category}
			continue
		case strings.HasPrefix(trimmed, "**A**"):
			if cur == nil {
				return nil, fmt.Errorf("%w: line %d: answer with no preceding question", internalerr.ErrMalformedInput, lineNo)
			}
			a, ok := afterColon(trimmed)
			if !ok {
				return nil, fmt.Errorf("%w: line %d: malformed answer %q", internalerr.ErrMalformedInput, lineNo, trimmed)
			}
			cur.Expected = parseExpected(strings.TrimSpace(a))
			continue
		case strings.HasPrefix(trimmed, "**Chain**"):
			if cur == nil {
				return nil, fmt.Errorf("%w: line %d: chain with no preceding question", internalerr.ErrMalformedInput, lineNo)
			}
			c, ok := afterColon(trimmed)
			if !ok {
				return nil, fmt.Errorf("%w: line %d: malformed chain %q", internalerr.ErrMalformedInput, lineNo, trimmed)
			}
			cur.Chain = strings.TrimSpace(c)
			continue
		default:
			return nil, fmt.Errorf("%w: line %d: unrecognised line %q", internalerr.ErrMalformedInput, lineNo, trimmed)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("dictionary: reading suite: %w", err)
	}
	return &Suite{Cases: cases}, nil
}

func afterColon(line string) (string, bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", false
	}
	return line[idx+1:], true
}

func parseExpected(s string) ExpectedAnswer {
	switch strings.ToLower(s) {
	case "yes":
		return ExpectedAnswer{Kind: "yes"}
	case "no":
		return ExpectedAnswer{Kind: "no"}
	case "i don't know", "i dont know", "idontknow", "idk":
		return ExpectedAnswer{Kind: "idk"}
	default:
		return ExpectedAnswer{Kind: "word", Word: s}
	}
}
