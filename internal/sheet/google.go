package sheet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// GoogleGrid is a Grid backed by one Google Sheets workbook, authenticated
// with a service account. All writes use USER_ENTERED input so dates and
// numbers are typed the same way a human entry would be.
type GoogleGrid struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewGoogleGrid opens the workbook identified by spreadsheetID using the
// service-account credentials file at credentialsPath.
func NewGoogleGrid(ctx context.Context, spreadsheetID, credentialsPath string) (*GoogleGrid, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &GoogleGrid{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func (g *GoogleGrid) Values(ctx context.Context, sheet string) ([][]string, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, sheet).Context(ctx).Do()
	if err != nil {
		if isMissingSheet(err) {
			return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
		}
		return nil, fmt.Errorf("read %s: %w", sheet, err)
	}
	rows := make([][]string, len(resp.Values))
	for i, raw := range resp.Values {
		row := make([]string, len(raw))
		for j, cell := range raw {
			row[j] = fmt.Sprint(cell)
		}
		rows[i] = row
	}
	return rows, nil
}

func (g *GoogleGrid) Append(ctx context.Context, sheet string, rows [][]string) error {
	_, err := g.svc.Spreadsheets.Values.Append(g.spreadsheetID, sheet, valueRange(rows)).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", sheet, err)
	}
	return nil
}

func (g *GoogleGrid) UpdateRow(ctx context.Context, sheet string, index int, row []string) error {
	rng := fmt.Sprintf("%s!A%d", sheet, index)
	_, err := g.svc.Spreadsheets.Values.Update(g.spreadsheetID, rng, valueRange([][]string{row})).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update row %d of %s: %w", index, sheet, err)
	}
	return nil
}

func (g *GoogleGrid) DeleteRow(ctx context.Context, sheet string, index int) error {
	sheetID, err := g.sheetID(ctx, sheet)
	if err != nil {
		return err
	}
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(index - 1),
					EndIndex:   int64(index),
				},
			},
		}},
	}
	if _, err := g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete row %d of %s: %w", index, sheet, err)
	}
	return nil
}

func (g *GoogleGrid) Overwrite(ctx context.Context, sheet string, values [][]string) error {
	_, err := g.svc.Spreadsheets.Values.Clear(g.spreadsheetID, sheet, &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear %s: %w", sheet, err)
	}
	rng := fmt.Sprintf("%s!A1", sheet)
	_, err = g.svc.Spreadsheets.Values.Update(g.spreadsheetID, rng, valueRange(values)).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("overwrite %s: %w", sheet, err)
	}
	return nil
}

func (g *GoogleGrid) EnsureSheet(ctx context.Context, sheet string, headers []string) error {
	if _, err := g.sheetID(ctx, sheet); err == nil {
		return nil
	} else if !errors.Is(err, ErrSheetNotFound) {
		return err
	}
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: sheet},
			},
		}},
	}
	if _, err := g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	return g.Append(ctx, sheet, [][]string{headers})
}

// sheetID resolves a sheet title to its numeric id, needed by the
// row-dimension requests.
func (g *GoogleGrid) sheetID(ctx context.Context, sheet string) (int64, error) {
	meta, err := g.svc.Spreadsheets.Get(g.spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read workbook metadata: %w", err)
	}
	for _, s := range meta.Sheets {
		if s.Properties != nil && s.Properties.Title == sheet {
			return s.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
}

func valueRange(rows [][]string) *sheets.ValueRange {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		values[i] = cells
	}
	return &sheets.ValueRange{Values: values}
}

// isMissingSheet recognises the API's answer to a range referencing a sheet
// that does not exist.
func isMissingSheet(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == 400 {
		return strings.Contains(apiErr.Message, "Unable to parse range")
	}
	return false
}
