package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"cashbook/internal/core"
	"cashbook/internal/filter"
)

const maxBodyBytes = 64 << 10

var errBadBody = errors.New("malformed request body")

// entryRequest is the wire shape of the entry form. Amount is a string so that
// both "12.50" and "12,50" are accepted.
type entryRequest struct {
	Amount   json.RawMessage `json:"amount"`
	Type     string          `json:"type"`
	Category string          `json:"category"`
	Note     string          `json:"note"`
	Date     string          `json:"date"`
}

// submittedForm echoes what the client sent, returned when a save fails.
type submittedForm struct {
	Amount   string `json:"amount"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Note     string `json:"note"`
	Date     string `json:"date"`
}

// parseEntryForm reads an entry form from a JSON or urlencoded body. Malformed
// amount or type values are left zero so EntryForm.Validate reports them per field.
func parseEntryForm(r *http.Request) (core.EntryForm, submittedForm, error) {
	raw, err := readEntry(r)
	if err != nil {
		return core.EntryForm{}, submittedForm{}, err
	}

	form := core.EntryForm{
		Type:     core.Direction(strings.ToLower(strings.TrimSpace(raw.Type))),
		Category: sanitizeInput(raw.Category),
		Note:     sanitizeInput(raw.Note),
		Date:     strings.TrimSpace(raw.Date),
	}
	if amount, err := core.ParseAmount(raw.Amount); err == nil {
		form.Amount = amount
	}
	return form, raw, nil
}

func readEntry(r *http.Request) (submittedForm, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return submittedForm{}, errBadBody
		}
		return submittedForm{
			Amount:   r.PostForm.Get("amount"),
			Type:     r.PostForm.Get("type"),
			Category: r.PostForm.Get("category"),
			Note:     r.PostForm.Get("note"),
			Date:     r.PostForm.Get("date"),
		}, nil
	}

	var req entryRequest
	if err := decodeJSON(r, &req); err != nil {
		return submittedForm{}, err
	}
	return submittedForm{
		Amount:   rawAmount(req.Amount),
		Type:     req.Type,
		Category: req.Category,
		Note:     req.Note,
		Date:     req.Date,
	}, nil
}

// rawAmount accepts the amount as a JSON string or number.
func rawAmount(msg json.RawMessage) string {
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(msg))
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return nil
}

// parseWindow reads range, start and end from the query string.
func parseWindow(r *http.Request, loc *time.Location) (filter.Window, error) {
	q := r.URL.Query()
	return filter.ParseWindow(q.Get("range"), q.Get("start"), q.Get("end"), loc)
}

func confirmed(r *http.Request) bool {
	switch strings.ToLower(r.URL.Query().Get("confirm")) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
