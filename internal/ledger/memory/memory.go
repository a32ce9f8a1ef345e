package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"financebot/internal/core"
	"financebot/internal/ledger"
)

// Store keeps transactions in a slice. Ids come from a counter and are never reused.
type Store struct {
	mu     sync.Mutex
	nextID int64
	items  []core.Transaction
}

var _ ledger.Store = (*Store)(nil)

func New() *Store {
	return &Store{nextID: 1}
}

// NewFromFile seeds the store from a semicolon-separated file with lines of
// "date;type;amount;category;description". Blank lines and lines starting with #
// are ignored; malformed lines are reported.
func NewFromFile(path string) (*Store, error) {
	s := New()
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tx, err := parseSeedLine(line)
		if err != nil {
			return nil, fmt.Errorf("seed line %d: %w", lineNo, err)
		}
		if _, err := s.Insert(context.Background(), tx); err != nil {
			return nil, fmt.Errorf("seed line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return s, nil
}

func parseSeedLine(line string) (core.Transaction, error) {
	parts := strings.SplitN(line, ";", 5)
	if len(parts) < 4 {
		return core.Transaction{}, fmt.Errorf("expected at least 4 fields, got %d", len(parts))
	}
	d, err := core.ParseDate(parts[0])
	if err != nil {
		return core.Transaction{}, err
	}
	k, err := core.ParseKind(parts[1])
	if err != nil {
		return core.Transaction{}, err
	}
	amt, err := core.ParseAmount(parts[2])
	if err != nil {
		return core.Transaction{}, err
	}
	tx := core.Transaction{Kind: k, Amount: amt, Category: parts[3], Date: d}
	if len(parts) == 5 {
		tx.Description = parts[4]
	}
	return tx, nil
}

func (s *Store) Insert(_ context.Context, tx core.Transaction) (int64, error) {
	if err := tx.Validate(); err != nil {
		return 0, err
	}
	tx = tx.Normalized()
	s.mu.Lock()
	defer s.mu.Unlock()
	tx.ID = s.nextID
	s.nextID++
	s.items = append(s.items, tx)
	return tx.ID, nil
}

func (s *Store) Get(_ context.Context, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], nil
	}
	return core.Transaction{}, ledger.ErrNotFound
}

func (s *Store) Query(_ context.Context, f ledger.Filter) ([]core.Transaction, error) {
	s.mu.Lock()
	out := make([]core.Transaction, 0, len(s.items))
	for _, tx := range s.items {
		if f.Matches(tx) {
			out = append(out, tx)
		}
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return newer(out[i], out[j]) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// newer orders by date desc, then id desc.
func newer(a, b core.Transaction) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	return a.ID > b.ID
}

func (s *Store) DeleteByID(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true, nil
}

func (s *Store) LastID(_ context.Context, kind core.Kind, category string) (int64, bool, error) {
	category = core.NormalizeCategory(category)
	s.mu.Lock()
	defer s.mu.Unlock()
	var (
		last  core.Transaction
		found bool
	)
	for _, tx := range s.items {
		if kind != "" && tx.Kind != kind {
			continue
		}
		if category != "" && tx.Category != category {
			continue
		}
		if !found || newer(tx, last) {
			last, found = tx, true
		}
	}
	return last.ID, found, nil
}

func (s *Store) DeleteByCriteria(_ context.Context, c ledger.DeleteCriteria) (int64, error) {
	if c.IsEmpty() {
		return 0, nil
	}
	f := c.Filter()
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	var removed int64
	for _, tx := range s.items {
		if c.All || f.Matches(tx) {
			removed++
			continue
		}
		kept = append(kept, tx)
	}
	s.items = kept
	return removed, nil
}

func (s *Store) Update(_ context.Context, id int64, p ledger.Patch) (bool, error) {
	clean, _ := p.Sanitize()
	if clean.IsEmpty() {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.items[i] = clean.Apply(s.items[i])
	return true, nil
}

func (s *Store) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.items)), nil
}

func (s *Store) indexOf(id int64) int {
	for i, tx := range s.items {
		if tx.ID == id {
			return i
		}
	}
	return -1
}
