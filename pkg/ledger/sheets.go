package ledger

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	sheetRange = "Sheet1!A:O"
	// statusColumn is K, the 11th column of the order row.
	statusColumn  = "K"
	orderIDIndex  = 14
	rowTimeLayout = "2006-01-02 15:04:05"
)

var headerRow = []interface{}{
	"Order Date", "Chat ID", "Customer Name", "Phone", "Address",
	"Items", "Quantities", "Subtotal", "Delivery Fee", "Total",
	"Status", "Special Instructions", "Payment Method", "Source", "Order ID",
}

var spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// SpreadsheetIDFromURL extracts the spreadsheet id from a full sheet URL.
func SpreadsheetIDFromURL(sheetURL string) (string, error) {
	m := spreadsheetIDPattern.FindStringSubmatch(sheetURL)
	if m == nil {
		return "", fmt.Errorf("no spreadsheet id in URL %q", sheetURL)
	}
	return m[1], nil
}

// SheetsSink appends order rows to a Google Sheet and updates the status
// column on transitions.
type SheetsSink struct {
	svc           *sheets.Service
	spreadsheetID string
	logger        *zap.Logger
}

func NewSheetsSink(ctx context.Context, sheetURL, serviceAccountJSON string, logger *zap.Logger) (*SheetsSink, error) {
	id, err := SpreadsheetIDFromURL(sheetURL)
	if err != nil {
		return nil, err
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON([]byte(serviceAccountJSON)),
		option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	s := &SheetsSink{svc: svc, spreadsheetID: id, logger: logger}
	if err := s.ensureHeader(ctx); err != nil {
		// Header init is cosmetic; the sink still works without it.
		logger.Warn("Failed to initialize sheet header", zap.Error(err))
	}
	return s, nil
}

func (s *SheetsSink) ensureHeader(ctx context.Context) error {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, "Sheet1!A1:O1").Context(ctx).Do()
	if err != nil {
		return err
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 && resp.Values[0][0] == headerRow[0] {
		return nil
	}
	_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, "Sheet1!A1:O1", &sheets.ValueRange{
		Values: [][]interface{}{headerRow},
	}).ValueInputOption("RAW").Context(ctx).Do()
	return err
}

func (s *SheetsSink) AppendOrder(ctx context.Context, row Row) error {
	values := []interface{}{
		row.Date.Format(rowTimeLayout),
		strconv.FormatInt(row.CustomerID, 10),
		row.Name,
		row.Phone,
		row.Address,
		strings.Join(row.Items, ", "),
		strings.Join(row.Quantities, ", "),
		"$" + row.Subtotal.StringFixed(2),
		"$" + row.DeliveryFee.StringFixed(2),
		"$" + row.Total.StringFixed(2),
		row.Status,
		row.Instructions,
		row.Payment,
		row.Source,
		row.OrderID,
	}

	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, sheetRange, &sheets.ValueRange{
		Values: [][]interface{}{values},
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append order row: %w", err)
	}

	s.logger.Info("Order saved to sheet", zap.String("order_id", row.OrderID))
	return nil
}

func (s *SheetsSink) UpdateStatus(ctx context.Context, orderID, status string) error {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, sheetRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read sheet: %w", err)
	}

	// Row 1 is the header.
	for i, row := range resp.Values {
		if i == 0 || len(row) <= orderIDIndex {
			continue
		}
		if row[orderIDIndex] != orderID {
			continue
		}
		cell := fmt.Sprintf("Sheet1!%s%d", statusColumn, i+1)
		_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, cell, &sheets.ValueRange{
			Values: [][]interface{}{{status}},
		}).ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to update status cell: %w", err)
		}
		s.logger.Info("Order status updated in sheet",
			zap.String("order_id", orderID),
			zap.String("status", status))
		return nil
	}

	return fmt.Errorf("order %s not found in sheet", orderID)
}
