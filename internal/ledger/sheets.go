package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/xelth-com/freshroute/internal/config"
	"github.com/xelth-com/freshroute/internal/models"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsSource reads the ledger from a Google Sheets spreadsheet.
type SheetsSource struct {
	svc           *sheets.Service
	spreadsheetID string
	baseRange     string
	entriesRange  string
	loc           *time.Location
}

// NewSheetsSource creates a Sheets-backed ledger. Credentials come from the
// config (service-account file or API key); extra options are appended, which
// lets tests point the client at a local server.
func NewSheetsSource(ctx context.Context, cfg config.SheetsConfig, loc *time.Location, extra ...option.ClientOption) (*SheetsSource, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("SHEETS_SPREADSHEET_ID is empty")
	}

	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsReadonlyScope)}
	switch {
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	opts = append(opts, extra...)

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	if loc == nil {
		loc = time.UTC
	}
	return &SheetsSource{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		baseRange:     cfg.BaseStockRange,
		entriesRange:  cfg.EntriesRange,
		loc:           loc,
	}, nil
}

func (s *SheetsSource) readRange(ctx context.Context, rng string) ([][]interface{}, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", rng, err)
	}
	return resp.Values, nil
}

// BaseStock reads the base stock sheet.
func (s *SheetsSource) BaseStock(ctx context.Context) ([]models.BaseStock, error) {
	rows, err := s.readRange(ctx, s.baseRange)
	if err != nil {
		return nil, err
	}
	return ParseBaseStockRows(rows), nil
}

// StockEntries reads the dated entries sheet.
func (s *SheetsSource) StockEntries(ctx context.Context) ([]models.StockEntry, error) {
	rows, err := s.readRange(ctx, s.entriesRange)
	if err != nil {
		return nil, err
	}
	return ParseEntryRows(rows, s.loc), nil
}
