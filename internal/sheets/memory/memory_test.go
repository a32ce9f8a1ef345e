package memory

import (
	"context"
	"testing"
)

func TestSheet_ReplaceAndCurrent(t *testing.T) {
	ctx := context.Background()
	s := New()

	rows, err := s.Current(ctx)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("new sheet should be empty, got %v", rows)
	}

	in := [][]string{{"ID", "Data"}, {"1", "2024-05-18"}}
	if err := s.Replace(ctx, in); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	in[1][0] = "changed"

	rows, _ = s.Current(ctx)
	if len(rows) != 2 || rows[1][0] != "1" {
		t.Errorf("Current() = %v, want a copy of the replaced rows", rows)
	}
	rows[0][0] = "mutated"
	again, _ := s.Current(ctx)
	if again[0][0] != "ID" {
		t.Error("Current should return a copy")
	}
	if s.Writes() != 1 {
		t.Errorf("Writes() = %d, want 1", s.Writes())
	}
}
