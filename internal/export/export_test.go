package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	goption "google.golang.org/api/option"

	"cashbook/internal/core"
	"cashbook/internal/ledger"
)

func sampleReport() Report {
	txs := []core.Transaction{
		{ID: "1", Amount: decimal.RequireFromString("200"), Date: "2024-03-01", Note: "pay"},
		{ID: "2", Amount: decimal.RequireFromString("-50"), Category: "tax", Date: "2024-03-02"},
		{ID: "3", Amount: decimal.RequireFromString("-5.5"), Date: "2024-03-03", Note: "coffee, large"},
	}
	return Report{
		Label:        "month 2024-03-01..2024-03-31",
		GeneratedAt:  time.Date(2024, 3, 31, 18, 30, 0, 0, time.UTC),
		Balance:      ledger.ComputeBalance(txs),
		Categories:   ledger.ComputeCategoryReport(txs, []string{"tax", "other"}),
		Transactions: txs,
	}
}

func TestRows(t *testing.T) {
	rows := Rows(sampleReport())

	assert.Equal(t, []string{"date", "type", "category", "note", "amount"}, rows[2])
	assert.Equal(t, []string{"2024-03-01", "income", "", "pay", "200.00"}, rows[3])
	assert.Equal(t, []string{"2024-03-03", "expense", "other", "coffee, large", "-5.50"}, rows[5])
	assert.Equal(t, []string{"tax", "0.00", "50.00"}, rows[8])
	assert.Equal(t, []string{"other", "0.00", "0.00"}, rows[9], "report matching is exact, uncategorised rows are not folded")
	assert.Equal(t, []string{"200.00", "55.50", "144.50"}, rows[len(rows)-1])
}

func TestCSVExport(t *testing.T) {
	dir := t.TempDir()
	exp, err := NewCSV(dir)
	require.NoError(t, err)

	path, err := exp.Export(context.Background(), sampleReport())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "cashbook-month-2024-03-01-2024-03-31-20240331-183000.csv"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)
	// csv.Reader skips the blank separator lines.
	assert.Equal(t, []string{"2024-03-03", "expense", "other", "coffee, large", "-5.50"}, records[4])
}

func TestCSVExport_CancelledContext(t *testing.T) {
	exp, err := NewCSV(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = exp.Export(ctx, sampleReport())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "all", slug("all"))
	assert.Equal(t, "report", slug("  "))
	assert.Equal(t, "year-2024-01-01-2024-12-31", slug("year 2024-01-01..2024-12-31"))
}

func TestSheetsExport(t *testing.T) {
	var gotPath string
	var body struct {
		Values [][]any `json:"values"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"updates":{"updatedRange":"'2024 Report'!A1:E16"}}`))
	}))
	defer srv.Close()

	exp, err := NewSheets(context.Background(), SheetsConfig{SpreadsheetID: "sheet-1", SheetName: "Report"}, nil,
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication(),
		goption.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	ref, err := exp.Export(context.Background(), sampleReport())
	require.NoError(t, err)
	assert.Equal(t, "'2024 Report'!A1:E16", ref)
	assert.Contains(t, gotPath, "sheet-1")
	assert.Contains(t, gotPath, ":append")
	require.NotEmpty(t, body.Values)
	assert.Equal(t, "report", body.Values[0][0])
}

func TestNewSheets_Errors(t *testing.T) {
	_, err := NewSheets(context.Background(), SheetsConfig{}, nil)
	assert.EqualError(t, err, "missing spreadsheet id")

	_, err = NewSheets(context.Background(), SheetsConfig{SpreadsheetID: "x"}, nil)
	assert.ErrorContains(t, err, "missing service account credentials")

	_, err = NewSheets(context.Background(), SheetsConfig{SpreadsheetID: "x", ServiceAccountFile: "/nonexistent.json"}, nil)
	assert.ErrorContains(t, err, "read service account file")
}

func TestYearPrefixedName(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"Report", "2024 Report"},
		{"2023 Report", "2023 Report"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, yearPrefixedName(tt.base, 2024))
	}
}
