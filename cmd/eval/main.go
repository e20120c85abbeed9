// Command eval scores a question suite against a trained space and
// reports accuracy, honesty, and fitness, optionally persisting the run.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/dafhne/engine/pkg/dafhne/classifier"
	"github.com/dafhne/engine/pkg/dafhne/connector"
	"github.com/dafhne/engine/pkg/dafhne/dictionary"
	"github.com/dafhne/engine/pkg/dafhne/equilibrium"
	"github.com/dafhne/engine/pkg/dafhne/eval"
	"github.com/dafhne/engine/pkg/dafhne/forcefield"
	"github.com/dafhne/engine/pkg/dafhne/geometry"
	"github.com/dafhne/engine/pkg/dafhne/inference"
	"github.com/dafhne/engine/pkg/dafhne/inference/prolog"
	"github.com/dafhne/engine/pkg/dafhne/inference/simple"
	"github.com/dafhne/engine/pkg/dafhne/params"
	"github.com/dafhne/engine/pkg/dafhne/relation"
	"github.com/dafhne/engine/pkg/dafhne/resolver"
	"github.com/dafhne/engine/pkg/dafhne/store"
	"github.com/dafhne/engine/pkg/dafhne/store/memstore"
	"github.com/dafhne/engine/pkg/dafhne/store/sqlite"
)

func main() {
	var (
		dictPath      = flag.String("dict", "", "Path to dictionary file (required)")
		suitePath     = flag.String("suite", "", "Path to question suite file (required)")
		grammarPath   = flag.String("grammar", "", "Optional grammar text file, mixed in at grammar_weight")
		genomePath    = flag.String("genome", "", "Optional genome JSON file (defaults to params.DefaultGenome)")
		builder       = flag.String("builder", "forcefield", "Space builder: forcefield or equilibrium")
		dbPath        = flag.String("store", "", "Optional sqlite database path to persist the run")
		storeBackend  = flag.String("store-backend", "sqlite", "Persistence backend when --store is set: sqlite or memory")
		inferenceKind = flag.String("inference", "simple", "Chain-check corroboration backend: simple or prolog")
	)
	flag.Parse()

	if *dictPath == "" {
		log.Fatal("--dict required")
	}
	if *suitePath == "" {
		log.Fatal("--suite required")
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

	suiteFile, err := os.Open(*suitePath)
	if err != nil {
		log.Fatalf("open suite: %v", err)
	}
	defer suiteFile.Close()

	suite, err := dictionary.ParseSuite(suiteFile)
	if err != nil {
		log.Fatalf("parse suite: %v", err)
	}
	log.Printf("loaded %d suite cases", len(suite.Cases))

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
	if *grammarPath != "" {
		grammarFile, err := os.Open(*grammarPath)
		if err != nil {
			log.Fatalf("open grammar: %v", err)
		}
		sections, err := dictionary.ParseGrammar(grammarFile)
		grammarFile.Close()
		if err != nil {
			log.Fatalf("parse grammar: %v", err)
		}
		grammarRels := relation.ExtractGrammar(sections, dict, cls, genome.Params.ConnectorMaxLength, genome.Params.GrammarWeight)
		log.Printf("extracted %d grammar relations from %s", len(grammarRels), *grammarPath)
		rels = append(rels, grammarRels...)
	}
	conns := connector.Discover(rels, dict, genome.Params, genome.Strategy)

	var space *geometry.Space
	switch *builder {
	case "forcefield":
		space = forcefield.Build(dict, cls, rels, conns, genome.Params, genome.Strategy)
	case "equilibrium":
		space = equilibrium.Build(dict, cls, rels, conns, genome.Params, genome.Strategy)
	default:
		log.Fatalf("unknown builder %q", *builder)
	}

	eng, err := buildEngine(*inferenceKind, rels)
	if err != nil {
		log.Fatalf("build inference engine: %v", err)
	}
	r := resolver.NewWithEngine(dict, cls, space, genome.Params, genome.Strategy, eng)
	report := eval.Run(r, suite)

	fmt.Printf("accuracy=%.3f honesty=%.3f fitness=%.3f (%d cases)\n",
		report.Accuracy, report.Honesty, report.Fitness, len(report.Results))
	for _, cr := range report.Results {
		if !cr.Correct {
			fmt.Printf("  MISS %q expected=%s got=%s\n", cr.Case.Question, cr.Case.Expected.Kind, describeAnswer(cr.Got))
		}
	}

	if *dbPath != "" {
		if err := persistRun(*storeBackend, *dbPath, genome, report, space); err != nil {
			log.Fatalf("persist run: %v", err)
		}
	}
}

// buildEngine wires the resolver's inference.Engine cross-check:
// "simple" is the pure-Go facts-map engine, "prolog" asserts the same
// relations as clauses against github.com/ichiban/prolog and runs chain
// queries as Prolog solve steps instead.
func buildEngine(kind string, rels []relation.SentenceRelation) (inference.Engine, error) {
	switch kind {
	case "simple":
		eng := simple.New()
		for _, rel := range rels {
			eng.AddFact(inference.Fact{Pattern: rel.ConnectorPattern, Left: rel.LeftWord, Right: rel.RightWord, Negated: rel.Negated})
		}
		return eng, nil
	case "prolog":
		eng, err := prolog.New()
		if err != nil {
			return nil, err
		}
		for _, rel := range rels {
			if err := eng.AddFact(inference.Fact{Pattern: rel.ConnectorPattern, Left: rel.LeftWord, Right: rel.RightWord, Negated: rel.Negated}); err != nil {
				return nil, err
			}
		}
		return eng, nil
	default:
		return nil, fmt.Errorf("unknown inference backend %q", kind)
	}
}

// persistRun opens the chosen store backend and records one eval run and
// the trained space it scored. "memory" is an in-process store useful for
// scripted/CI invocations that don't want a database file left behind;
// "sqlite" persists to dbPath.
func persistRun(backend, dbPath string, genome params.Genome, report eval.Report, space *geometry.Space) error {
	ctx := context.Background()

	var (
		st  store.Store
		err error
	)
	switch backend {
	case "sqlite":
		st, err = sqlite.Open(ctx, dbPath)
	case "memory":
		st = memstore.New()
	default:
		return fmt.Errorf("unknown store backend %q", backend)
	}
	if err != nil {
		return err
	}
	defer st.Close()

	spaceJSON, err := json.Marshal(space)
	if err != nil {
		return fmt.Errorf("marshal space: %w", err)
	}
	spaceRec := store.SpaceRecord{
		ID:        ulid.Make().String(),
		Name:      "eval",
		Genome:    genome,
		SpaceJSON: spaceJSON,
		CreatedAt: time.Now().UTC(),
	}
	if err := st.PutSpace(ctx, spaceRec); err != nil {
		return err
	}

	rec := store.RunRecord{
		ID:        ulid.Make().String(),
		Accuracy:  report.Accuracy,
		Honesty:   report.Honesty,
		Fitness:   report.Fitness,
		Genome:    genome,
		CreatedAt: time.Now().UTC(),
	}
	if err := st.PutRun(ctx, rec); err != nil {
		return err
	}
	runs, err := st.ListRuns(ctx, 1)
	if err != nil {
		return err
	}
	if len(runs) > 0 {
		log.Printf("persisted run %s via %s backend", runs[0].ID, backend)
	}
	return nil
}

func describeAnswer(a resolver.Answer) string {
	switch {
	case a.IsYes():
		return "yes"
	case a.IsNo():
		return "no"
	case a.IsIDK():
		return "idk"
	default:
		return a.Word
	}
}
