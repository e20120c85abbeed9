// Package storetest is a conformance suite shared by every store.Store
// implementation: memstore and sqlite both exercise the same Put/Get/List
// semantics against it rather than duplicating near-identical assertions
// per backend.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dafhne/engine/pkg/dafhne/internalerr"
	"github.com/dafhne/engine/pkg/dafhne/params"
	"github.com/dafhne/engine/pkg/dafhne/store"
)

// Exercise runs the shared Store contract checks against s, failing t on
// any mismatch. Callers open/construct their own backend and close it
// themselves; Exercise never calls Close.
func Exercise(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()
	genome := params.DefaultGenome()

	if _, err := s.GetSpace(ctx, "missing"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("GetSpace(missing) error = %v, want ErrNotFound", err)
	}

	spaceA := store.SpaceRecord{ID: "space-a", Name: "content", Genome: genome, SpaceJSON: []byte(`{"dimensions":8}`), CreatedAt: time.Now().UTC()}
	spaceB := store.SpaceRecord{ID: "space-b", Name: "math", Genome: genome, SpaceJSON: []byte(`{"dimensions":6}`), CreatedAt: time.Now().UTC()}
	if err := s.PutSpace(ctx, spaceA); err != nil {
		t.Fatalf("PutSpace(a): %v", err)
	}
	if err := s.PutSpace(ctx, spaceB); err != nil {
		t.Fatalf("PutSpace(b): %v", err)
	}

	got, err := s.GetSpace(ctx, "space-a")
	if err != nil {
		t.Fatalf("GetSpace(a): %v", err)
	}
	if got.Name != "content" {
		t.Errorf("GetSpace(a).Name = %q, want content", got.Name)
	}

	// PutSpace overwrites by ID.
	spaceA.Name = "content-v2"
	if err := s.PutSpace(ctx, spaceA); err != nil {
		t.Fatalf("PutSpace(a, overwrite): %v", err)
	}
	got, err = s.GetSpace(ctx, "space-a")
	if err != nil {
		t.Fatalf("GetSpace(a, after overwrite): %v", err)
	}
	if got.Name != "content-v2" {
		t.Errorf("GetSpace(a).Name after overwrite = %q, want content-v2", got.Name)
	}

	spaces, err := s.ListSpaces(ctx)
	if err != nil {
		t.Fatalf("ListSpaces: %v", err)
	}
	if len(spaces) != 2 {
		t.Fatalf("ListSpaces returned %d records, want 2", len(spaces))
	}

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	runA := store.RunRecord{ID: "run-1", Accuracy: 0.8, Honesty: 0.5, Fitness: 0.65, Genome: genome, CreatedAt: base}
	runB := store.RunRecord{ID: "run-2", Accuracy: 0.9, Honesty: 0.6, Fitness: 0.75, Genome: genome, CreatedAt: base.Add(time.Minute)}
	if err := s.PutRun(ctx, runA); err != nil {
		t.Fatalf("PutRun(a): %v", err)
	}
	if err := s.PutRun(ctx, runB); err != nil {
		t.Fatalf("PutRun(b): %v", err)
	}

	runs, err := s.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("ListRuns returned %d records, want 2", len(runs))
	}
	if runs[0].ID != "run-2" {
		t.Errorf("ListRuns[0].ID = %q, want run-2 (most recent first)", runs[0].ID)
	}

	limited, err := s.ListRuns(ctx, 1)
	if err != nil {
		t.Fatalf("ListRuns(limit=1): %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("ListRuns(limit=1) returned %d records, want 1", len(limited))
	}
}
