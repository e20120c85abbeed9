// Package store persists trained spaces, genomes, and evaluation runs.
// The engine core itself never touches persistence; this package exists
// so the CLIs can save and reload training artifacts between
// invocations.
package store

import (
	"context"
	"time"

	"github.com/dafhne/engine/pkg/dafhne/params"
)

// SpaceRecord is a persisted, serialised GeometricSpace plus the genome
// that trained it.
type SpaceRecord struct {
	ID        string
	Name      string
	Genome    params.Genome
	SpaceJSON []byte
	CreatedAt time.Time
}

// RunRecord is one evaluator run: the genome used, and its resulting
// accuracy/honesty/fitness.
type RunRecord struct {
	ID        string
	Accuracy  float64
	Honesty   float64
	Fitness   float64
	Genome    params.Genome
	CreatedAt time.Time
}

// Store is the persistence contract for spaces and eval runs.
type Store interface {
	Close() error

	PutSpace(ctx context.Context, rec SpaceRecord) error
	GetSpace(ctx context.Context, id string) (SpaceRecord, error)
	ListSpaces(ctx context.Context) ([]SpaceRecord, error)

	PutRun(ctx context.Context, rec RunRecord) error
	ListRuns(ctx context.Context, limit int) ([]RunRecord, error)
}
