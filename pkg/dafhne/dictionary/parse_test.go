package dictionary

import (
	"errors"
	"strings"
	"testing"

	"github.com/dafhne/engine/pkg/dafhne/internalerr"
)

func TestParseMarkdownEntriesSectionsAndExamples(t *testing.T) {
	src := `# Tiny Dictionary

## ANIMALS

**dog** — an animal. it can make sound.
- "a dog can run."
- "a dog can live with a person."
**cat** — an animal.

---

## OBJECTS

**rock** --- a hard thing.
`
	d, err := ParseMarkdown(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseMarkdown: %v", err)
	}
	if d.Len() != 3 {
		t.Fatalf("Len = %d, want 3", d.Len())
	}

	dog, ok := d.Get("dog")
	if !ok {
		t.Fatalf("dog missing")
	}
	if dog.Definition != "an animal. it can make sound." {
		t.Errorf("dog definition = %q", dog.Definition)
	}
	if len(dog.Examples) != 2 || dog.Examples[0] != "a dog can run." {
		t.Errorf("dog examples = %v", dog.Examples)
	}
	if dog.Section != "ANIMALS" {
		t.Errorf("dog section = %q, want ANIMALS", dog.Section)
	}

	rock, _ := d.Get("rock")
	if rock.Definition != "a hard thing." {
		t.Errorf("rock definition = %q (--- separator should be accepted)", rock.Definition)
	}
	if rock.Section != "OBJECTS" {
		t.Errorf("rock section = %q, want OBJECTS", rock.Section)
	}
}

func TestParseMarkdownEntityEntries(t *testing.T) {
	src := "**Dafhne** — a program. dafhne can count.\n"
	d, err := ParseMarkdown(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseMarkdown: %v", err)
	}
	e, ok := d.Get("dafhne")
	if !ok {
		t.Fatalf("entity head-word must be stored lower-cased")
	}
	if !e.IsEntity {
		t.Errorf("capitalised source word should mark is_entity")
	}
}

func TestParseMarkdownMalformedLineIsMalformedInput(t *testing.T) {
	_, err := ParseMarkdown(strings.NewReader("just some prose\n"))
	if !errors.Is(err, internalerr.ErrMalformedInput) {
		t.Errorf("err = %v, want ErrMalformedInput", err)
	}

	_, err = ParseMarkdown(strings.NewReader("- \"an example with no entry\"\n"))
	if !errors.Is(err, internalerr.ErrMalformedInput) {
		t.Errorf("err = %v, want ErrMalformedInput for orphan example", err)
	}
}

func TestParseSuite(t *testing.T) {
	src := `## BASICS

**Q01**: Is a dog an animal?
**A**: Yes
**Chain**: dog -> animal

**Q02**: What color is a dog?
**A**: I don't know

**Q03**: What is a dog?
**A**: an animal
`
	s, err := ParseSuite(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseSuite: %v", err)
	}
	if len(s.Cases) != 3 {
		t.Fatalf("cases = %d, want 3", len(s.Cases))
	}
	if s.Cases[0].Expected.Kind != "yes" || s.Cases[0].Chain != "dog -> animal" {
		t.Errorf("case 0 = %+v", s.Cases[0])
	}
	if s.Cases[1].Expected.Kind != "idk" {
		t.Errorf("case 1 expected kind = %q, want idk", s.Cases[1].Expected.Kind)
	}
	if s.Cases[2].Expected.Kind != "word" || s.Cases[2].Expected.Word != "an animal" {
		t.Errorf("case 2 = %+v", s.Cases[2].Expected)
	}
	if s.Cases[0].Category != "BASICS" {
		t.Errorf("case 0 category = %q, want BASICS", s.Cases[0].Category)
	}
}

func TestParseTOML(t *testing.T) {
	src := `[dictionary]
dog = "an animal."
animal = "a thing."
`
	d, err := ParseTOML(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseTOML: %v", err)
	}
	if d.Len() != 2 || !d.Contains("dog") || !d.Contains("animal") {
		t.Fatalf("unexpected dictionary: %v", d.Words())
	}

	if _, err := ParseTOML(strings.NewReader("")); !errors.Is(err, internalerr.ErrMalformedInput) {
		t.Errorf("empty toml err = %v, want ErrMalformedInput", err)
	}
}

func TestParseGrammarSectionsInFileOrder(t *testing.T) {
	src := `# Grammar

## NOUNS

a noun is a word. a dog is a noun.

## VERBS

a verb is a word.
`
	sections, err := ParseGrammar(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseGrammar: %v", err)
	}
	if len(sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(sections))
	}
	if sections[0].Name != "NOUNS" || sections[1].Name != "VERBS" {
		t.Errorf("section order = %q, %q", sections[0].Name, sections[1].Name)
	}
	if len(sections[0].Sentences) != 2 {
		t.Errorf("NOUNS sentences = %v, want 2 sentences", sections[0].Sentences)
	}
}
