// Command demo loads a dictionary, trains a geometric space, and answers
// a single question from the command line.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dafhne/engine/pkg/dafhne/classifier"
	"github.com/dafhne/engine/pkg/dafhne/connector"
	"github.com/dafhne/engine/pkg/dafhne/dictionary"
	"github.com/dafhne/engine/pkg/dafhne/equilibrium"
	"github.com/dafhne/engine/pkg/dafhne/forcefield"
	"github.com/dafhne/engine/pkg/dafhne/geometry"
	"github.com/dafhne/engine/pkg/dafhne/params"
	"github.com/dafhne/engine/pkg/dafhne/relation"
	"github.com/dafhne/engine/pkg/dafhne/resolver"
)

func main() {
	var (
		dictPath   = flag.String("dict", "", "Path to dictionary file (required)")
		genomePath = flag.String("genome", "", "Optional genome JSON file (defaults to params.DefaultGenome)")
		question   = flag.String("question", "", "Question to resolve (required)")
		builder    = flag.String("builder", "forcefield", "Space builder: forcefield or equilibrium")
	)
	flag.Parse()

	if *dictPath == "" {
		log.Fatal("--dict required")
	}
	if *question == "" {
		log.Fatal("--question required")
	}

	dictFile, err := os.Open(*dictPath)
	if err != nil {
		log.Fatalf("open dictionary: %v", err)
	}
	dict, err := dictionary.ParseMarkdown(dictFile)
	dictFile.Close()
	if err != nil {
		log.Fatalf("parse dictionary: %v", err)
	}
	log.Printf("loaded %d entries from %s", dict.Len(), *dictPath)

	genome := params.DefaultGenome()
	if *genomePath != "" {
		g, err := params.LoadGenomeFile(*genomePath)
		if err != nil {
			log.Fatalf("load genome: %v", err)
		}
		genome = g
	}

	cls := classifier.Classify(dict)
	rels := relation.Extract(dict, cls, genome.Params.ConnectorMaxLength)
	log.Printf("extracted %d sentence relations", len(rels))

	conns := connector.Discover(rels, dict, genome.Params, genome.Strategy)
	log.Printf("discovered %d connectors", len(conns))

	var space *geometry.Space
	switch *builder {
	case "forcefield":
		space = forcefield.Build(dict, cls, rels, conns, genome.Params, genome.Strategy)
	case "equilibrium":
		space = equilibrium.Build(dict, cls, rels, conns, genome.Params, genome.Strategy)
	default:
		log.Fatalf("unknown builder %q", *builder)
	}

	r := resolver.New(dict, cls, space, genome.Params, genome.Strategy, rels)
	answer := r.Resolve(*question)
	fmt.Println(describeAnswer(answer))
}

func describeAnswer(a resolver.Answer) string {
	switch {
	case a.IsYes():
		return "yes"
	case a.IsNo():
		return "no"
	case a.IsIDK():
		return "i don't know"
	default:
		return a.Word
	}
}
