package pricefeed

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Source provides point-in-time price snapshots.
type Source interface {
	Fetch(ctx context.Context) (*Snapshot, error)
}

// SheetSource reads the two-column price worksheet (column A ticker,
// column B price string) through the Google Sheets API.
type SheetSource struct {
	svc       *sheets.Service
	sheetID   string
	worksheet string
}

// NewSheetSource creates a readonly Sheets client from a service
// account credentials file.
func NewSheetSource(ctx context.Context, sheetID, worksheet, credentialsFile string) (*SheetSource, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, errors.Wrap(err, "could not create sheets client")
	}

	return &SheetSource{
		svc:       svc,
		sheetID:   sheetID,
		worksheet: worksheet,
	}, nil
}

func (s *SheetSource) Fetch(ctx context.Context) (*Snapshot, error) {
	readRange := fmt.Sprintf("%s!A:B", s.worksheet)
	resp, err := s.svc.Spreadsheets.Values.Get(s.sheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, errors.Wrapf(err, "could not read range %s", readRange)
	}
	return snapshotFromRows(resp.Values), nil
}

// snapshotFromRows converts raw sheet rows into a snapshot. The first
// row is the header and is skipped, as are rows without both columns.
func snapshotFromRows(rows [][]interface{}) *Snapshot {
	snap := NewSnapshot()
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}

		symbol, _ := row[0].(string)
		raw, _ := row[1].(string)
		if strings.TrimSpace(symbol) == "" {
			continue
		}
		snap.Set(symbol, raw)
	}
	return snap
}
