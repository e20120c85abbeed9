package memstore

import (
	"testing"

	"github.com/dafhne/engine/pkg/dafhne/store/storetest"
)

func TestMemstoreConformsToStore(t *testing.T) {
	storetest.Exercise(t, New())
}
