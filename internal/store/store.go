// Package store persists the transaction list under a single key.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"cashbook/internal/core"
	"cashbook/internal/kv"
	"cashbook/internal/log"
)

// DefaultKey is the key the transaction list lives under.
const DefaultKey = "transactions"

// record is the persisted shape: amount is a plain JSON number.
type record struct {
	ID       string      `json:"id"`
	Amount   json.Number `json:"amount"`
	Category string      `json:"category"`
	Note     string      `json:"note"`
	Date     string      `json:"date"`
}

// Records reads and writes the whole transaction collection.
type Records struct {
	kv     kv.Store
	key    string
	logger *log.Logger
}

// New returns a Records over s. An empty key means DefaultKey; a nil logger
// discards output.
func New(s kv.Store, key string, logger *log.Logger) *Records {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Records{kv: s, key: key, logger: logger.WithComponent(log.ComponentStore)}
}

func (r *Records) Key() string { return r.key }

// LoadAll returns the stored collection. Missing or unreadable content gives an
// empty list and unreadable records are dropped one by one; only backend
// failures are returned as errors.
func (r *Records) LoadAll(ctx context.Context) ([]core.Transaction, error) {
	data, found, err := r.kv.Get(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", r.key, err)
	}
	if !found || len(bytes.TrimSpace(data)) == 0 {
		return []core.Transaction{}, nil
	}

	txs, skipped, err := Decode(data)
	if err != nil {
		r.logger.WarnContext(ctx, "Stored transactions are unreadable, starting empty",
			log.FieldKey, r.key, log.FieldError, err)
		return []core.Transaction{}, nil
	}
	for _, serr := range skipped {
		r.logger.WarnContext(ctx, "Skipping unreadable stored transaction",
			log.FieldKey, r.key, log.FieldError, serr)
	}
	r.logger.DebugContext(ctx, "Transactions loaded", log.FieldKey, r.key, log.FieldCount, len(txs))
	return txs, nil
}

// SaveAll replaces the stored collection with txs.
func (r *Records) SaveAll(ctx context.Context, txs []core.Transaction) error {
	data, err := Encode(txs)
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}
	if err := r.kv.Put(ctx, r.key, data); err != nil {
		return fmt.Errorf("save %s: %w", r.key, err)
	}
	r.logger.DebugContext(ctx, "Transactions saved", log.FieldKey, r.key, log.FieldCount, len(txs))
	return nil
}

func (r *Records) Clear(ctx context.Context) error {
	if err := r.kv.Delete(ctx, r.key); err != nil {
		return fmt.Errorf("clear %s: %w", r.key, err)
	}
	r.logger.InfoContext(ctx, "Transactions cleared", log.FieldKey, r.key)
	return nil
}

// Encode renders txs in the persisted JSON array format.
func Encode(txs []core.Transaction) ([]byte, error) {
	recs := make([]record, len(txs))
	for i, t := range txs {
		recs[i] = record{
			ID:       t.ID,
			Amount:   json.Number(t.Amount.String()),
			Category: t.Category,
			Note:     t.Note,
			Date:     t.Date,
		}
	}
	return json.Marshal(recs)
}

// Decode parses the persisted JSON array format. Amounts may be numbers or
// numeric strings. Elements that cannot be read are left out and reported in
// skipped; err is set only when data is not a JSON array at all.
func Decode(data []byte) (txs []core.Transaction, skipped []error, err error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, err
	}
	if raw == nil {
		return nil, nil, errors.New("stored value is null, not an array")
	}
	txs = make([]core.Transaction, 0, len(raw))
	for i, elem := range raw {
		tx, err := decodeRecord(elem)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		txs = append(txs, tx)
	}
	return txs, skipped, nil
}

func decodeRecord(elem json.RawMessage) (core.Transaction, error) {
	if bytes.Equal(bytes.TrimSpace(elem), []byte("null")) {
		return core.Transaction{}, errors.New("null record")
	}
	var rec record
	dec := json.NewDecoder(bytes.NewReader(elem))
	dec.UseNumber()
	if err := dec.Decode(&rec); err != nil {
		return core.Transaction{}, err
	}
	amount := decimal.Zero
	if rec.Amount != "" {
		d, err := decimal.NewFromString(rec.Amount.String())
		if err != nil {
			return core.Transaction{}, fmt.Errorf("amount %q: %w", rec.Amount, err)
		}
		amount = d
	}
	return core.Transaction{
		ID:       rec.ID,
		Amount:   amount,
		Category: rec.Category,
		Note:     rec.Note,
		Date:     rec.Date,
	}, nil
}
