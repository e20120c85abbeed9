package dictionary

import (
	"fmt"
	"io"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/dafhne/engine/pkg/dafhne/internalerr"
)

// tomlDoc mirrors the "[dictionary]" table format: word -> definition,
// with no examples.
type tomlDoc struct {
	Dictionary map[string]string `toml:"dictionary"`
}

// ParseTOML reads a dictionary in the "[dictionary]" TOML table format.
// Unlike the markdown dialect, this is real TOML, so it is decoded with a
// real TOML library rather than hand-rolled line scanning.
func ParseTOML(r io.Reader) (*Dictionary, error) {
	var doc tomlDoc
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decoding toml dictionary: %v", internalerr.ErrMalformedInput, err)
	}
	if len(doc.Dictionary) == 0 {
		return nil, fmt.Errorf("%w: toml dictionary has no [dictionary] table", internalerr.ErrMalformedInput)
	}

	// map iteration order is not stable; sort words to keep parsing
	// deterministic regardless of Go's randomised map order.
	words := make([]string, 0, len(doc.Dictionary))
	for w := range doc.Dictionary {
		words = append(words, w)
	}
	sort.Strings(words)

	entries := make([]Entry, 0, len(words))
	for _, w := range words {
		entries = append(entries, Entry{Word: w, Definition: doc.Dictionary[w]})
	}
	return New(entries), nil
}
