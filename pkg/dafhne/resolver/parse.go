package resolver

import (
	"strings"

	"github.com/dafhne/engine/pkg/dafhne/classifier"
	"github.com/dafhne/engine/pkg/dafhne/tokenizer"
)

// whWords are the only hard-coded English strings that select a question
// branch; any other leading token is treated as Yes/No.
var whWords = map[string]string{
	"what": "what",
	"who":  "what", // "who" resolves the same way as "what" (a category lookup)
	"where": "where",
	"why":  "why",
	"when": "when",
}

// parsedQuestion holds the result of question-type detection and
// subject/object/connector extraction.
type parsedQuestion struct {
	qType     string // "yes_no", "what", "where", "why", "when"
	subject   string
	object    string // "" if absent
	connector []string
	negated   bool
	// extraContent counts content head-words beyond subject/object,
	// used by the What-Is attribute-question bailout.
	extraContent int
	// unknown counts question tokens that stem to no head-word at all
	// ("What color is a dog?" in a dictionary without color). What-Is
	// declines rather than answer past a word it cannot see.
	unknown int
}

// stemWords maps tokens to head-words using entrySet, returning the
// stemmed head-word sequence in order (non-stemming tokens are dropped).
func stemWords(tokens []string, entrySet map[string]struct{}) []string {
	words, _ := tokenizer.StemSequence(tokens, entrySet)
	return words
}

// parseQuestion performs question-type detection and
// subject/object/action/connector extraction.
func parseQuestion(question string, entrySet map[string]struct{}, cls *classifier.Classification) parsedQuestion {
	tokens := tokenizer.Tokenize(question)
	var words []string
	unknown := 0
	for _, t := range tokens {
		if w, ok := tokenizer.StemToEntry(t, entrySet); ok {
			words = append(words, w)
		} else {
			unknown++
		}
	}

	qType := "yes_no"
	body := words
	if len(words) > 0 {
		if branch, ok := whWords[words[0]]; ok {
			qType = branch
			body = words[1:]
		}
	}

	var contentWords []string
	var contentIdx []int
	for i, w := range body {
		if cls.IsContent(w) {
			contentWords = append(contentWords, w)
			contentIdx = append(contentIdx, i)
		}
	}

	pq := parsedQuestion{qType: qType, unknown: unknown}
	if len(contentWords) == 0 {
		return pq
	}
	pq.subject = contentWords[0]
	if len(contentWords) > 1 {
		pq.object = contentWords[len(contentWords)-1]
		pq.extraContent = len(contentWords) - 2
	}

	// connector: structural head-words strictly between subject and
	// object, or the prefix structural words before the subject if there
	// is no object, or the default ["is"].
	var connector []string
	if pq.object != "" {
		start, end := contentIdx[0]+1, contentIdx[len(contentIdx)-1]
		for i := start; i < end; i++ {
			if cls.IsStructural(body[i]) {
				connector = append(connector, body[i])
			}
		}
	} else {
		for i := 0; i < contentIdx[0]; i++ {
			if cls.IsStructural(body[i]) {
				connector = append(connector, body[i])
			}
		}
	}
	if len(connector) == 0 {
		connector = []string{"is"}
	}
	if connector[0] == "not" {
		pq.negated = true
		// a sole "not" stays as the connector: that is the axis a
		// negated question projects onto. Only a longer sequence drops
		// the leading "not".
		if len(connector) > 1 {
			connector = connector[1:]
		}
	}
	pq.connector = connector
	return pq
}

// splitCompound detects a leading token that is not a wh-word followed
// later by "and"/"or" at position >= 3 and splits the predicate around the
// first occurrence (compound detection, Yes/No questions only). The
// leading token is not checked against the structural set.
func splitCompound(question string) (prefix, leftPred, rightPred, op string, ok bool) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(question), "?")
	tokens := strings.Fields(strings.ToLower(trimmed))
	if len(tokens) == 0 {
		return "", "", "", "", false
	}
	if _, isWh := whWords[tokens[0]]; isWh {
		return "", "", "", "", false
	}
	for i := 3; i < len(tokens); i++ {
		if tokens[i] == "and" || tokens[i] == "or" {
			prefix = tokens[0]
			predicate := tokens[1:]
			splitAt := i - 1 // index within predicate of the conjunction
			left := predicate[:splitAt]
			right := predicate[splitAt+1:]
			return prefix, strings.Join(left, " "), strings.Join(right, " "), tokens[i], true
		}
	}
	return "", "", "", "", false
}
