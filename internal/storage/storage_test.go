package storage

import (
	"testing"

	"github.com/cellseg-labs/cellseg/internal/models"
)

func TestSessionStoreCRUD(t *testing.T) {
	store := New()

	if _, exists := store.Get("missing"); exists {
		t.Error("Expected missing session to not exist")
	}

	session := &models.SegmentSession{ID: "s1", CellCount: 3}
	store.Set("s1", session)

	got, exists := store.Get("s1")
	if !exists {
		t.Fatal("Expected session s1 to exist")
	}
	if got.CellCount != 3 {
		t.Errorf("Expected cell count 3, got %d", got.CellCount)
	}

	store.Set("s2", &models.SegmentSession{ID: "s2"})
	all := store.GetAll()
	if len(all) != 2 {
		t.Errorf("Expected 2 sessions, got %d", len(all))
	}

	store.Delete("s1")
	if _, exists := store.Get("s1"); exists {
		t.Error("Expected s1 to be deleted")
	}
}

func TestGetAllReturnsCopy(t *testing.T) {
	store := New()
	store.Set("s1", &models.SegmentSession{ID: "s1"})

	all := store.GetAll()
	delete(all, "s1")

	if _, exists := store.Get("s1"); !exists {
		t.Error("Mutating GetAll result must not affect the store")
	}
}
