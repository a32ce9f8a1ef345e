// Package memory is an in-process sheet used when no spreadsheet is configured.
package memory

import (
	"context"
	"sync"

	"financebot/internal/sheets"
)

type Sheet struct {
	mu     sync.Mutex
	rows   [][]string
	writes int
}

var _ sheets.Mirror = (*Sheet)(nil)

func New() *Sheet {
	return &Sheet{}
}

func (s *Sheet) Current(_ context.Context) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyRows(s.rows), nil
}

func (s *Sheet) Replace(_ context.Context, rows [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = copyRows(rows)
	s.writes++
	return nil
}

// Writes counts Replace calls.
func (s *Sheet) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func copyRows(in [][]string) [][]string {
	if in == nil {
		return nil
	}
	out := make([][]string, len(in))
	for i, r := range in {
		out[i] = append([]string(nil), r...)
	}
	return out
}
