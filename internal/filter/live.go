package filter

import (
	"strings"
	"sync"

	"cashbook/internal/core"
	"cashbook/internal/debounce"
)

// LiveSearch re-runs a text search as the user types. Evaluation is debounced;
// a blank query is answered immediately.
type LiveSearch struct {
	mu         sync.Mutex
	debouncer  *debounce.Debouncer
	records    []core.Transaction
	dateLayout string
	onResult   func(query string, matches []core.Transaction)
	latest     string
}

// NewLiveSearch searches within records (already windowed) and reports each
// evaluated query to onResult.
func NewLiveSearch(d *debounce.Debouncer, records []core.Transaction, dateLayout string, onResult func(string, []core.Transaction)) *LiveSearch {
	return &LiveSearch{
		debouncer:  d,
		records:    records,
		dateLayout: dateLayout,
		onResult:   onResult,
	}
}

// SetRecords replaces the searched set, e.g. after the window changed.
func (s *LiveSearch) SetRecords(records []core.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
}

// Update registers a new query, superseding any evaluation still pending.
func (s *LiveSearch) Update(query string) {
	s.mu.Lock()
	s.latest = query
	s.mu.Unlock()
	if strings.TrimSpace(query) == "" {
		s.debouncer.Cancel()
		s.evaluate(query)
		return
	}
	s.debouncer.Call(func() { s.evaluate(query) })
}

// Flush evaluates a pending query right away, e.g. when input ends. An
// evaluation already running on the timer is waited for instead, so nothing is
// delivered after Flush returns.
func (s *LiveSearch) Flush() {
	if s.debouncer.Stop() {
		s.mu.Lock()
		query := s.latest
		s.mu.Unlock()
		s.evaluate(query)
	}
	s.debouncer.Wait()
}

// Stop drops a pending evaluation.
func (s *LiveSearch) Stop() {
	s.debouncer.Cancel()
}

func (s *LiveSearch) evaluate(query string) {
	s.mu.Lock()
	records := s.records
	s.mu.Unlock()
	s.onResult(query, Search(records, query, s.dateLayout))
}
