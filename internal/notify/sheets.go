package notify

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/crewsight/crewsight-platform/internal/leadstore"
	"github.com/crewsight/crewsight-platform/pkg/logging"
)

// SheetSyncer appends scored leads to the team's tracking spreadsheet.
type SheetSyncer interface {
	AppendLead(ctx context.Context, rec *leadstore.Record) error
}

// SheetsClient syncs leads to Google Sheets via the Sheets API.
type SheetsClient struct {
	svc           *sheets.Service
	spreadsheetID string
	appendRange   string
	logger        *logging.Logger
}

// SheetsConfig holds configuration for the spreadsheet sync channel.
type SheetsConfig struct {
	CredentialsJSON string
	SpreadsheetID   string
	Range           string
}

// NewSheetsClient creates a Sheets API client from service-account
// credentials. Returns nil when credentials or spreadsheet id are missing,
// which the dispatcher treats as a disabled channel.
func NewSheetsClient(ctx context.Context, cfg SheetsConfig, logger *logging.Logger) (*SheetsClient, error) {
	if cfg.CredentialsJSON == "" || cfg.SpreadsheetID == "" {
		return nil, nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Range == "" {
		cfg.Range = "Leads!A:L"
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("notify: create sheets service: %w", err)
	}

	return &SheetsClient{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		appendRange:   cfg.Range,
		logger:        logger,
	}, nil
}

var _ SheetSyncer = (*SheetsClient)(nil)

// AppendLead appends one row per lead, newest at the bottom.
func (c *SheetsClient) AppendLead(ctx context.Context, rec *leadstore.Record) error {
	values := &sheets.ValueRange{
		Values: [][]interface{}{SheetRow(rec)},
	}

	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, c.appendRange, values).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("notify: sheets append failed: %w", err)
	}

	c.logger.Info("lead synced to sheet", "lead_id", rec.ID, "spreadsheet_id", c.spreadsheetID)
	return nil
}
