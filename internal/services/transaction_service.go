package services

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"cashbook/internal/amqp"
	"cashbook/internal/cache"
	"cashbook/internal/categorize"
	"cashbook/internal/core"
	"cashbook/internal/export"
	"cashbook/internal/filter"
	"cashbook/internal/ledger"
	"cashbook/internal/log"
)

var (
	ErrNotFound             = errors.New("transaction not found")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrSaveFailed           = errors.New("save failed")
	ErrExportUnavailable    = errors.New("no exporter configured")
)

// Repository is the whole-collection persistence the service works on.
type Repository interface {
	LoadAll(ctx context.Context) ([]core.Transaction, error)
	SaveAll(ctx context.Context, txs []core.Transaction) error
	Clear(ctx context.Context) error
}

// ExportPublisher queues export requests for the worker.
type ExportPublisher interface {
	PublishExportRequested(ctx context.Context, msg *amqp.ExportRequested) error
}

// Options configures a TransactionService. Zero values get defaults.
type Options struct {
	Clock       func() time.Time
	NewID       func() string
	Categorizer *categorize.Categorizer
	Exporter    export.Exporter
	Publisher   ExportPublisher
	Cache       cache.Cache[ledger.Overview]
	DateLayout  string
	Logger      *log.Logger
}

// TransactionService runs every read and write flow over the stored collection.
// Reads load a fresh snapshot and pass it through the filter and ledger packages;
// writes are read-modify-write under a mutex.
type TransactionService struct {
	repo        Repository
	mu          sync.Mutex
	now         func() time.Time
	newID       func() string
	categorizer *categorize.Categorizer
	exporter    export.Exporter
	publisher   ExportPublisher
	cache       cache.Cache[ledger.Overview]
	dateLayout  string
	logger      *log.Logger
}

// ListResult is the records page: the matching transactions plus the balance
// of the whole window, search text aside.
type ListResult struct {
	Window       string
	Transactions []core.Transaction
	Balance      ledger.Balance
}

// ReportView backs the per-category report page.
type ReportView struct {
	Window     string
	Balance    ledger.Balance
	Categories []ledger.CategoryTotals
}

// ExportResult says whether the export ran inline or was queued.
type ExportResult struct {
	Queued bool
	Ref    string
}

func NewTransactionService(repo Repository, opts Options) *TransactionService {
	s := &TransactionService{
		repo:        repo,
		now:         opts.Clock,
		newID:       opts.NewID,
		categorizer: opts.Categorizer,
		exporter:    opts.Exporter,
		publisher:   opts.Publisher,
		cache:       opts.Cache,
		dateLayout:  opts.DateLayout,
		logger:      opts.Logger,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = func() string { return ulid.Make().String() }
	}
	if s.categorizer == nil {
		s.categorizer = categorize.New(nil)
	}
	if s.dateLayout == "" {
		s.dateLayout = filter.DefaultDateLayout
	}
	if s.logger == nil {
		s.logger = log.Discard()
	}
	s.logger = s.logger.WithComponent(log.ComponentTransaction)
	return s
}

// Create validates the form and appends the new transaction.
func (s *TransactionService) Create(ctx context.Context, form core.EntryForm) (core.Transaction, error) {
	if err := form.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	txs, err := s.repo.LoadAll(ctx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	tx := form.ToTransaction(s.newID())
	txs = append(txs, tx)
	if err := s.save(ctx, txs); err != nil {
		return core.Transaction{}, err
	}

	s.logger.InfoContext(ctx, "Transaction created", log.NewFields().
		WithTransaction(tx.ID, tx.Amount.String(), tx.Category, tx.Date).
		WithOperation(log.OpCreate).ToSlice()...)
	return tx, nil
}

// Update replaces the transaction with the given id, keeping the id.
func (s *TransactionService) Update(ctx context.Context, id string, form core.EntryForm) (core.Transaction, error) {
	if err := form.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	txs, err := s.repo.LoadAll(ctx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	i := indexOf(txs, id)
	if i < 0 {
		return core.Transaction{}, ErrNotFound
	}
	tx := form.ToTransaction(id)
	txs[i] = tx
	if err := s.save(ctx, txs); err != nil {
		return core.Transaction{}, err
	}

	s.logger.InfoContext(ctx, "Transaction updated", log.NewFields().
		WithTransaction(tx.ID, tx.Amount.String(), tx.Category, tx.Date).
		WithOperation(log.OpUpdate).ToSlice()...)
	return tx, nil
}

func (s *TransactionService) Get(ctx context.Context, id string) (core.Transaction, error) {
	txs, err := s.repo.LoadAll(ctx)
	if err != nil {
		return core.Transaction{}, err
	}
	i := indexOf(txs, id)
	if i < 0 {
		return core.Transaction{}, ErrNotFound
	}
	return txs[i], nil
}

// EditForm returns the entry form pre-filled from a stored transaction.
func (s *TransactionService) EditForm(ctx context.Context, id string) (core.EntryForm, error) {
	tx, err := s.Get(ctx, id)
	if err != nil {
		return core.EntryForm{}, err
	}
	return core.FormFromTransaction(tx), nil
}

// Delete removes one transaction. Without confirmation nothing is touched.
func (s *TransactionService) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	txs, err := s.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	i := indexOf(txs, id)
	if i < 0 {
		return ErrNotFound
	}
	txs = slices.Delete(txs, i, i+1)
	if err := s.save(ctx, txs); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Transaction deleted", log.FieldTransactionID, id, log.FieldOperation, log.OpDelete)
	return nil
}

// Clear removes every transaction. Without confirmation nothing is touched.
func (s *TransactionService) Clear(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	s.invalidate()
	s.logger.InfoContext(ctx, "All transactions cleared", log.FieldOperation, log.OpClear)
	return nil
}

// List windows the collection, then applies the search text.
func (s *TransactionService) List(ctx context.Context, q filter.Query) (ListResult, error) {
	txs, err := s.repo.LoadAll(ctx)
	if err != nil {
		return ListResult{}, err
	}
	now := s.now()
	windowed := q.Window.Apply(txs, now)
	return ListResult{
		Window:       q.Window.Label(now),
		Transactions: filter.Search(windowed, q.Text, s.dateLayout),
		Balance:      ledger.ComputeBalance(windowed),
	}, nil
}

// Overview builds the dashboard view for a window. The collection is always
// reloaded; a cached result is reused only while the window label and the
// stored records are unchanged, so writes from other processes are picked up.
func (s *TransactionService) Overview(ctx context.Context, w filter.Window) (ledger.Overview, error) {
	txs, err := s.repo.LoadAll(ctx)
	if err != nil {
		return ledger.Overview{}, err
	}
	now := s.now()
	key := fmt.Sprintf("overview:%s:%016x", w.Label(now), snapshotDigest(txs))
	if s.cache != nil {
		if ov, ok := s.cache.Get(key); ok {
			return ov, nil
		}
	}

	ov := ledger.BuildOverview(w.Apply(txs, now))
	if s.cache != nil {
		s.cache.Set(key, ov)
	}
	return ov, nil
}

func snapshotDigest(txs []core.Transaction) uint64 {
	h := fnv.New64a()
	for _, tx := range txs {
		for _, f := range [...]string{tx.ID, tx.Amount.String(), tx.Category, tx.Note, tx.Date} {
			h.Write([]byte(f))
			h.Write([]byte{0})
		}
		h.Write([]byte{1})
	}
	return h.Sum64()
}

// Report returns per-category totals over the vocabulary for a window.
func (s *TransactionService) Report(ctx context.Context, w filter.Window) (ReportView, error) {
	txs, err := s.repo.LoadAll(ctx)
	if err != nil {
		return ReportView{}, err
	}
	now := s.now()
	windowed := w.Apply(txs, now)
	return ReportView{
		Window:     w.Label(now),
		Balance:    ledger.ComputeBalance(windowed),
		Categories: ledger.ComputeCategoryReport(windowed, s.categorizer.Vocabulary()),
	}, nil
}

func (s *TransactionService) Categories() []string {
	return s.categorizer.Vocabulary()
}

func (s *TransactionService) Suggest(note string) categorize.Suggestion {
	return s.categorizer.Suggest(note)
}

// DateLayout is the layout used to display and search dates.
func (s *TransactionService) DateLayout() string {
	return s.dateLayout
}

// RequestExport queues the export when a publisher is configured, otherwise runs it inline.
func (s *TransactionService) RequestExport(ctx context.Context, w filter.Window) (ExportResult, error) {
	if s.publisher != nil {
		var start, end string
		if w.Mode == filter.ModeCustom {
			start, end = w.Start.Format(core.DateLayout), w.End.Format(core.DateLayout)
		}
		msg := amqp.NewExportRequested(string(w.Mode), start, end)
		msg.RequestedAt = s.now()
		if err := s.publisher.PublishExportRequested(ctx, msg); err != nil {
			return ExportResult{}, fmt.Errorf("queue export: %w", err)
		}
		return ExportResult{Queued: true}, nil
	}

	ref, err := s.Export(ctx, w)
	if err != nil {
		return ExportResult{}, err
	}
	return ExportResult{Ref: ref}, nil
}

// Export writes the report for a window through the configured exporter.
func (s *TransactionService) Export(ctx context.Context, w filter.Window) (string, error) {
	return s.ExportAt(ctx, w, s.now())
}

// ExportAt is Export with month and year windows resolved against ref instead
// of the current time.
func (s *TransactionService) ExportAt(ctx context.Context, w filter.Window, ref time.Time) (string, error) {
	if s.exporter == nil {
		return "", ErrExportUnavailable
	}
	txs, err := s.repo.LoadAll(ctx)
	if err != nil {
		return "", err
	}
	windowed := w.Apply(txs, ref)
	report := export.Report{
		Label:        w.Label(ref),
		GeneratedAt:  s.now(),
		Balance:      ledger.ComputeBalance(windowed),
		Categories:   ledger.ComputeCategoryReport(windowed, s.categorizer.Vocabulary()),
		Transactions: windowed,
	}
	out, err := s.exporter.Export(ctx, report)
	if err != nil {
		return "", fmt.Errorf("export report: %w", err)
	}
	s.logger.InfoContext(ctx, "Report exported", log.FieldRange, report.Label, log.FieldExportRef, out, log.FieldCount, len(windowed))
	return out, nil
}

// save must be called with s.mu held.
func (s *TransactionService) save(ctx context.Context, txs []core.Transaction) error {
	if err := s.repo.SaveAll(ctx, txs); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save transactions", log.FieldError, err, log.FieldOperation, log.OpSave)
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	s.invalidate()
	return nil
}

func (s *TransactionService) invalidate() {
	if s.cache != nil {
		s.cache.Purge()
	}
}

func indexOf(txs []core.Transaction, id string) int {
	return slices.IndexFunc(txs, func(t core.Transaction) bool { return t.ID == id })
}
