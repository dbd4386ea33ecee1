package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"cashbook/internal/log"
)

// SheetsConfig selects the target spreadsheet and the service account.
type SheetsConfig struct {
	SpreadsheetID      string
	SheetName          string // base tab name; the report year is prefixed
	ServiceAccountJSON string
	ServiceAccountFile string
}

// Sheets appends each report below the existing content of a Google Sheets tab.
type Sheets struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *log.Logger
}

var _ Exporter = (*Sheets)(nil)

// NewSheets authenticates with the service account and builds the exporter.
// Extra client options (endpoint, HTTP client) are passed through to the API client.
func NewSheets(ctx context.Context, cfg SheetsConfig, logger *log.Logger, opts ...goption.ClientOption) (*Sheets, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentExport)

	if len(opts) == 0 {
		creds, err := credentials(cfg)
		if err != nil {
			return nil, err
		}
		opts = []goption.ClientOption{
			goption.WithCredentialsJSON(creds),
			goption.WithScopes(gsheet.SpreadsheetsScope),
		}
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	logger.InfoContext(ctx, "Google Sheets exporter ready", "spreadsheet_id", cfg.SpreadsheetID)

	name := cfg.SheetName
	if strings.TrimSpace(name) == "" {
		name = "Report"
	}
	return &Sheets{svc: svc, spreadsheetID: cfg.SpreadsheetID, sheetName: name, logger: logger}, nil
}

func credentials(cfg SheetsConfig) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.ServiceAccountJSON) != "":
		return []byte(cfg.ServiceAccountJSON), nil
	case strings.TrimSpace(cfg.ServiceAccountFile) != "":
		data, err := os.ReadFile(cfg.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	}
	return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
}

// Export appends the report rows and returns the updated range.
func (s *Sheets) Export(ctx context.Context, r Report) (string, error) {
	if s.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	tab := yearPrefixedName(s.sheetName, r.GeneratedAt.Year())

	rows := Rows(r)
	values := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		values[i] = cells
	}

	resp, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, tab+"!A:E", &gsheet.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to %s: %w", tab, err)
	}

	ref := tab
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}
	s.logger.InfoContext(ctx, "Report appended to sheet", log.FieldExportRef, ref, log.FieldCount, len(r.Transactions))
	return ref, nil
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}
