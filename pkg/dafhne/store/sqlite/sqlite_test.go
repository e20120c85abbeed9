package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dafhne/engine/pkg/dafhne/store/storetest"
)

func TestSqliteConformsToStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "dafhne-test.sqlite")
	s, err := Open(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	storetest.Exercise(t, s)
}
