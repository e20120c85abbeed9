package resolver

import (
	"fmt"
	"strings"

	"github.com/dafhne/engine/pkg/dafhne/dictionary"
)

// maxNegationSiblings bounds how many negated-sibling sentences Describe
// emits.
const maxNegationSiblings = 5

// Describe generates a multi-sentence description of word: a category
// sentence, one "X is Y." sentence per adjective of the first sentence's
// main clause, its relative clause rendered after the subject,
// subsequent definition sentences with a leading "it" rewritten to the
// subject, and up to 5 negated-sibling sentences.
func (r *Resolver) Describe(word string) []string {
	e, ok := r.Dict.Get(word)
	if !ok {
		return nil
	}

	var out []string
	cat, hasCat := r.definitionCategory(word)
	if hasCat {
		out = append(out, fmt.Sprintf("%s is %s.", capitalize(word), withArticle(cat)))
	}

	sentences := dictionary.Sentences(e.Definition)
	if len(sentences) > 0 {
		for _, prop := range r.firstSentenceProperties(word, cat, sentences[0]) {
			out = append(out, fmt.Sprintf("%s is %s.", capitalize(word), prop))
		}
		if clause, ok := relativeClause(sentences[0]); ok {
			out = append(out, fmt.Sprintf("%s %s.", capitalize(word), clause))
		}
		for _, s := range sentences[1:] {
			out = append(out, fmt.Sprintf("%s.", rewriteIt(s, word)))
		}
	}

	out = append(out, r.negationSentences(word)...)
	return out
}

// firstSentenceProperties extracts the adjectives of the first
// sentence's main clause: head-words before any "that"/"which" relative
// clause that are not articles, not structural, not the subject or its
// category, and pass the property-word test ("a big hot thing" yields
// big and hot).
func (r *Resolver) firstSentenceProperties(word, cat, sentence string) []string {
	main := sentence
	lower := strings.ToLower(sentence)
	for _, marker := range []string{" that ", " which "} {
		if idx := strings.Index(lower, marker); idx >= 0 {
			main = sentence[:idx]
			break
		}
	}

	words := stemWords(strings.Fields(strings.ToLower(main)), r.entrySet)
	var out []string
	for _, w := range words {
		if isArticle(w) || w == word || w == cat {
			continue
		}
		if r.Cls.IsStructural(w) {
			continue
		}
		if !r.IsPropertyWord(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

func capitalize(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + w[1:]
}

// relativeClause extracts the clause after a trailing " that " in a
// sentence ("an animal that barks" yields "barks"), rendered directly
// after the subject with no inserted verb.
func relativeClause(sentence string) (string, bool) {
	lower := strings.ToLower(sentence)
	idx := strings.Index(lower, " that ")
	if idx < 0 {
		return "", false
	}
	return strings.TrimSpace(sentence[idx+6:]), true
}

// rewriteIt rewrites a sentence beginning with "it" into
// "{article subject} ...".
func rewriteIt(sentence string, subject string) string {
	trimmed := strings.TrimSpace(sentence)
	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return trimmed
	}
	if strings.ToLower(fields[0]) != "it" {
		return trimmed
	}
	rest := strings.Join(fields[1:], " ")
	return fmt.Sprintf("%s %s", capitalize(withArticle(subject)), rest)
}

// negationSentences finds up to maxNegationSiblings other head-words that
// share word's definition-category but whose chain-check from word fails
// or is negated, and renders "{word} is not a {sibling}." sentences.
func (r *Resolver) negationSentences(word string) []string {
	cat, ok := r.definitionCategory(word)
	if !ok {
		return nil
	}

	var out []string
	for _, sibling := range r.Dict.Words() {
		if len(out) >= maxNegationSiblings {
			break
		}
		if sibling == word {
			continue
		}
		sibCat, ok := r.definitionCategory(sibling)
		if !ok || sibCat != cat {
			continue
		}
		outcome := r.chainGate(word, sibling, []string{"is"})
		if outcome != chainYes {
			out = append(out, fmt.Sprintf("%s is not %s.", capitalize(word), withArticle(sibling)))
		}
	}
	return out
}
