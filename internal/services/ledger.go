package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/omkarinteriors/contact-api/internal/config"
	"github.com/omkarinteriors/contact-api/internal/models"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ErrLedgerNotConfigured is returned when any spreadsheet setting is missing.
// Callers treat it as "skipped" rather than "failed".
var ErrLedgerNotConfigured = errors.New("google sheets ledger is not configured")

// LedgerHeaders are the canonical titles of the first row
var LedgerHeaders = []string{"Timestamp", "Name", "Email", "Phone", "Message", "IP", "User Agent"}

const googleTokenURI = "https://oauth2.googleapis.com/token"

// SheetsLedger appends one row per submission to a Google spreadsheet
type SheetsLedger struct {
	cfg           config.SheetsConfig
	clientOptions func() ([]option.ClientOption, error)
	logger        *zap.SugaredLogger
}

// NewSheetsLedger creates a ledger that authenticates as the configured service account
func NewSheetsLedger(cfg config.SheetsConfig, logger *zap.SugaredLogger) *SheetsLedger {
	l := &SheetsLedger{cfg: cfg, logger: logger}
	l.clientOptions = l.credentialOptions
	return l
}

type serviceAccountKey struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	PrivateKey  string `json:"private_key"`
	ClientEmail string `json:"client_email"`
	TokenURI    string `json:"token_uri"`
}

func serviceAccountJSON(cfg config.SheetsConfig) ([]byte, error) {
	return json.Marshal(serviceAccountKey{
		Type:        "service_account",
		ProjectID:   cfg.ProjectID,
		PrivateKey:  cfg.PrivateKey,
		ClientEmail: cfg.ClientEmail,
		TokenURI:    googleTokenURI,
	})
}

func (l *SheetsLedger) credentialOptions() ([]option.ClientOption, error) {
	creds, err := serviceAccountJSON(l.cfg)
	if err != nil {
		return nil, fmt.Errorf("encode service account: %w", err)
	}
	return []option.ClientOption{
		option.WithCredentialsJSON(creds),
		option.WithScopes(sheets.SpreadsheetsScope),
	}, nil
}

// Append records the submission. It ensures the header row first; a header
// failure is logged and the append is still attempted. The returned error is
// informational only and must never fail the request.
func (l *SheetsLedger) Append(ctx context.Context, sub *models.EnrichedSubmission) error {
	if !l.cfg.Configured() {
		return ErrLedgerNotConfigured
	}

	opts, err := l.clientOptions()
	if err != nil {
		return err
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return fmt.Errorf("create sheets client: %w", err)
	}

	if err := l.ensureHeader(ctx, svc); err != nil {
		l.logger.Warnw("Failed to ensure ledger header",
			"submission_id", sub.ID,
			"spreadsheet_id", l.cfg.SpreadsheetID,
			"error", err,
		)
	}

	row := &sheets.ValueRange{Values: [][]interface{}{sub.SheetRow()}}
	_, err = svc.Spreadsheets.Values.Append(l.cfg.SpreadsheetID, l.a1("A1"), row).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append ledger row: %w", err)
	}

	l.logger.Infow("Submission recorded",
		"submission_id", sub.ID,
		"spreadsheet_id", l.cfg.SpreadsheetID,
	)
	return nil
}

func (l *SheetsLedger) ensureHeader(ctx context.Context, svc *sheets.Service) error {
	headerRange := l.a1("A1:G1")

	resp, err := svc.Spreadsheets.Values.Get(l.cfg.SpreadsheetID, headerRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	if headerMatches(resp.Values) {
		return nil
	}

	l.logger.Infow("Ledger header missing or stale, rewriting",
		"spreadsheet_id", l.cfg.SpreadsheetID,
		"sheet", l.cfg.SheetName,
	)

	titles := make([]interface{}, len(LedgerHeaders))
	for i, h := range LedgerHeaders {
		titles[i] = h
	}
	_, err = svc.Spreadsheets.Values.Update(l.cfg.SpreadsheetID, headerRange,
		&sheets.ValueRange{Values: [][]interface{}{titles}}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	sheetID, err := l.sheetID(ctx, svc)
	if err != nil {
		return err
	}

	_, err = svc.Spreadsheets.BatchUpdate(l.cfg.SpreadsheetID, headerFormatRequest(sheetID)).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("format header: %w", err)
	}
	return nil
}

// sheetID resolves the numeric id of the configured tab
func (l *SheetsLedger) sheetID(ctx context.Context, svc *sheets.Service) (int64, error) {
	ss, err := svc.Spreadsheets.Get(l.cfg.SpreadsheetID).
		Fields("sheets.properties(sheetId,title)").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("read sheet properties: %w", err)
	}
	for _, s := range ss.Sheets {
		if s.Properties != nil && s.Properties.Title == l.cfg.SheetName {
			return s.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found in spreadsheet", l.cfg.SheetName)
}

func (l *SheetsLedger) a1(cells string) string {
	return "'" + strings.ReplaceAll(l.cfg.SheetName, "'", "''") + "'!" + cells
}

func headerMatches(values [][]interface{}) bool {
	if len(values) == 0 || len(values[0]) != len(LedgerHeaders) {
		return false
	}
	for i, cell := range values[0] {
		if !strings.EqualFold(fmt.Sprint(cell), LedgerHeaders[i]) {
			return false
		}
	}
	return true
}

// headerFormatRequest bolds and shades row 1 and freezes it, in one batch
func headerFormatRequest(sheetID int64) *sheets.BatchUpdateSpreadsheetRequest {
	return &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				RepeatCell: &sheets.RepeatCellRequest{
					Range: &sheets.GridRange{
						SheetId:         sheetID,
						StartRowIndex:   0,
						EndRowIndex:     1,
						ForceSendFields: []string{"SheetId", "StartRowIndex"},
					},
					Cell: &sheets.CellData{
						UserEnteredFormat: &sheets.CellFormat{
							BackgroundColor: &sheets.Color{Red: 0.9, Green: 0.9, Blue: 0.9},
							TextFormat:      &sheets.TextFormat{Bold: true},
						},
					},
					Fields: "userEnteredFormat(backgroundColor,textFormat)",
				},
			},
			{
				UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
					Properties: &sheets.SheetProperties{
						SheetId:         sheetID,
						GridProperties:  &sheets.GridProperties{FrozenRowCount: 1},
						ForceSendFields: []string{"SheetId"},
					},
					Fields: "gridProperties.frozenRowCount",
				},
			},
		},
	}
}
