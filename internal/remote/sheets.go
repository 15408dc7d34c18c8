package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"zenfin/internal/core"
)

// sheetHeader is the first row written to the export sheet, matching the
// column layout the original spreadsheet used.
var sheetHeader = []any{"ID", "Data", "Descricao", "Categoria", "Pagamento", "Valor"}

// SheetsSyncer exports the entry collection to a Google Sheets tab. The whole
// tab is rewritten on every sync, which makes the export idempotent.
type SheetsSyncer struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewSheetsSyncerFromEnv builds a syncer from environment variables.
// Required: GOOGLE_SPREADSHEET_ID. Credentials come from
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS. Optional: GOOGLE_SHEET_NAME
// (default "Lancamentos").
func NewSheetsSyncerFromEnv(ctx context.Context) (*SheetsSyncer, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Lancamentos"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &SheetsSyncer{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case serviceAccountJSON != "":
		return gsheet.NewService(ctx,
			goption.WithCredentialsJSON([]byte(serviceAccountJSON)),
			goption.WithScopes(gsheet.SpreadsheetsScope))
	case serviceAccountFile != "":
		return gsheet.NewService(ctx,
			goption.WithCredentialsFile(serviceAccountFile),
			goption.WithScopes(gsheet.SpreadsheetsScope))
	default:
		// Fall back to application default credentials.
		return gsheet.NewService(ctx, goption.WithScopes(gsheet.SpreadsheetsScope))
	}
}

// Upsert implements ledger.RemoteSyncer by clearing the tab and rewriting it
// with the full collection.
func (s *SheetsSyncer) Upsert(ctx context.Context, entries []core.Entry) error {
	clearRange := fmt.Sprintf("%s!A:F", s.sheetName)
	if _, err := s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, clearRange,
		&gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet range: %w", err)
	}

	values := make([][]any, 0, len(entries)+1)
	values = append(values, sheetHeader)
	for _, e := range entries {
		values = append(values, EntryRow(e))
	}

	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, fmt.Sprintf("%s!A1", s.sheetName),
		&gsheet.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("write sheet values: %w", err)
	}

	slog.InfoContext(ctx, "Exported entries to Google Sheets",
		"spreadsheet_id", s.spreadsheetID,
		"sheet", s.sheetName,
		"rows", len(entries))
	return nil
}

// EntryRow formats one entry as a spreadsheet row. Dates use dd/mm/yyyy, the
// format Brazilian sheets expect.
func EntryRow(e core.Entry) []any {
	return []any{
		e.ID,
		e.Date.Format("02/01/2006"),
		e.Description,
		string(e.Category),
		string(e.PaymentMethod),
		e.Amount,
	}
}
