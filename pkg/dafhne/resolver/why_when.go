package resolver

import (
	"fmt"
	"strings"
)

// resolveWhy answers "why" questions with a path-tracing variant of
// the definition-chain check, rendered as "because <hop1>, and <hop2>, …".
func (r *Resolver) resolveWhy(pq parsedQuestion) Answer {
	if pq.subject == "" || pq.object == "" {
		return IDK
	}
	path := r.chainPath(pq.subject, pq.object)
	if path == nil {
		return IDK
	}

	var hops []string
	for i := 0; i+1 < len(path); i++ {
		hops = append(hops, r.renderHop(path[i], path[i+1]))
	}
	if len(hops) == 0 {
		return IDK
	}

	sentence := "because " + hops[0]
	for _, h := range hops[1:] {
		sentence += ", and " + h
	}
	return WordAnswer(sentence)
}

// renderHop renders one chain hop as "a X is a Y" or "a X can Y" — the
// latter when Y appears immediately after "can" in X's definition.
func (r *Resolver) renderHop(from, to string) string {
	e, ok := r.Dict.Get(from)
	if ok {
		tokens := strings.Fields(strings.ToLower(e.Definition))
		for i, t := range tokens {
			if t == "can" && i+1 < len(tokens) && strings.TrimRight(tokens[i+1], ".,") == to {
				return fmt.Sprintf("%s can %s", withArticle(from), to)
			}
		}
	}
	return fmt.Sprintf("%s is %s", withArticle(from), withArticle(to))
}

// resolveWhen answers "when" questions: search the action's
// definition for a trailing purpose clause (" to Y"), a "when Y" clause,
// or an "if Y" clause; else the subject's definition; else along the
// chain from subject toward action.
func (r *Resolver) resolveWhen(pq parsedQuestion) Answer {
	action := pq.object
	if action == "" {
		action = pq.subject
	}
	if action == "" {
		return IDK
	}

	if clause, ok := findClause(r, action); ok {
		return WordAnswer(clause)
	}
	if pq.subject != "" && pq.subject != action {
		if clause, ok := findClause(r, pq.subject); ok {
			return WordAnswer(clause)
		}
	}
	if pq.subject != "" && pq.subject != action {
		if path := r.chainPath(pq.subject, action); path != nil {
			for _, w := range path {
				if clause, ok := findClause(r, w); ok {
					return WordAnswer(clause)
				}
			}
		}
	}
	return IDK
}

// findClause looks for a trailing " to Y", "when Y", or "if Y" clause in
// word's definition, in that priority order.
func findClause(r *Resolver, word string) (string, bool) {
	e, ok := r.Dict.Get(word)
	if !ok {
		return "", false
	}
	def := e.Definition
	lower := strings.ToLower(def)

	if idx := strings.LastIndex(lower, " to "); idx >= 0 {
		return strings.TrimSpace(def[idx+4:]), true
	}
	if idx := strings.Index(lower, "when "); idx >= 0 {
		return strings.TrimSpace(def[idx+5:]), true
	}
	if idx := strings.Index(lower, "if "); idx >= 0 {
		return strings.TrimSpace(def[idx+3:]), true
	}
	return "", false
}
