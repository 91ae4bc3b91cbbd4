package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/entity"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/repository"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/shared/dates"
	"github.com/xuri/excelize/v2"
)

// batchTTL is how long a staged import stays confirmable.
const batchTTL = 30 * time.Minute

// importHeader is the exact column order of the upload template.
var importHeader = []string{
	"Asset Code",
	"Asset Name",
	"Serial No",
	"Plant",
	"Department",
	"Location",
	"Purchase Date (DD/MM/YYYY)",
}

// ImportService runs the two-step bulk import: upload validates the
// spreadsheet and stages the surviving rows under a token, confirm consumes
// the token and inserts the rows in one transaction.
type ImportService struct {
	impRepo   *repository.ImportRepository
	assetRepo *repository.AssetRepository
}

func NewImportService(impRepo *repository.ImportRepository, assetRepo *repository.AssetRepository) *ImportService {
	return &ImportService{
		impRepo:   impRepo,
		assetRepo: assetRepo,
	}
}

// ImportPreview is the upload result: what would be inserted, what was
// rejected and why, and the token that confirms the insert.
type ImportPreview struct {
	Token     string                  `json:"token,omitempty"`
	ValidRows []entity.ImportRow      `json:"valid_rows"`
	Errors    []entity.ImportRowError `json:"errors"`
	ExpiresAt *time.Time              `json:"expires_at,omitempty"`
}

// Upload parses and validates the spreadsheet and stages the valid rows. A
// file with no valid rows stages nothing and returns no token.
func (s *ImportService) Upload(ctx context.Context, userID string, reader io.Reader) (*ImportPreview, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, invalid("file", "could not read the file, expected an .xlsx workbook")
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, invalid("file", "could not read the first sheet")
	}
	if len(rows) == 0 {
		return nil, invalid("file", "the sheet is empty")
	}
	if err := checkHeader(rows[0]); err != nil {
		return nil, err
	}

	existingCodes, err := s.assetRepo.ExistingCodes(ctx)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}
	existingSerials, err := s.assetRepo.ExistingSerials(ctx)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}

	preview := &ImportPreview{
		ValidRows: []entity.ImportRow{},
		Errors:    []entity.ImportRowError{},
	}
	seenCodes := map[string]bool{}
	seenSerials := map[string]bool{}
	today := time.Now()

	for i, raw := range rows[1:] {
		rowNo := i + 2 // 1-based, after the header
		cols := pad(raw, len(importHeader))
		code := strings.TrimSpace(cols[0])
		name := strings.TrimSpace(cols[1])
		serial := strings.TrimSpace(cols[2])

		if code == "" && name == "" && serial == "" &&
			strings.TrimSpace(strings.Join(cols[3:], "")) == "" {
			continue // blank filler row
		}

		var problems []string
		if code == "" {
			problems = append(problems, "asset code is missing")
		} else {
			key := strings.ToLower(code)
			if seenCodes[key] {
				problems = append(problems, "asset code is duplicated in the file")
			} else if existingCodes[key] {
				problems = append(problems, "asset code already exists")
			}
			seenCodes[key] = true
		}
		if name == "" {
			problems = append(problems, "asset name is missing")
		}

		var serialPtr *string
		if serial != "" {
			key := strings.ToLower(serial)
			if seenSerials[key] {
				problems = append(problems, "serial number is duplicated in the file")
			} else if existingSerials[key] {
				problems = append(problems, "serial number already exists")
			}
			seenSerials[key] = true
			serialPtr = &serial
		}

		purchase := ""
		if raw := strings.TrimSpace(cols[6]); raw != "" {
			d, err := dates.ParseDMY(raw)
			if err != nil {
				problems = append(problems, "purchase date is invalid, expected DD/MM/YYYY")
			} else if dates.AfterDay(d, today) {
				problems = append(problems, "purchase date is in the future")
			} else {
				purchase = d.Format("2006-01-02")
			}
		}

		if len(problems) > 0 {
			preview.Errors = append(preview.Errors, entity.ImportRowError{
				RowNo:  rowNo,
				Errors: problems,
			})
			continue
		}

		preview.ValidRows = append(preview.ValidRows, entity.ImportRow{
			RowNo:        rowNo,
			AssetCode:    code,
			AssetName:    name,
			SerialNo:     serialPtr,
			Plant:        strings.TrimSpace(cols[3]),
			Department:   strings.TrimSpace(cols[4]),
			Location:     strings.TrimSpace(cols[5]),
			PurchaseDate: purchase,
		})
	}

	if len(preview.ValidRows) == 0 {
		return preview, nil
	}

	// Stale batches pile up when uploads are abandoned; sweep here rather
	// than running a scheduler. Best effort.
	_ = s.impRepo.DeleteExpired(ctx)

	payload, err := json.Marshal(preview.ValidRows)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}
	batch := &entity.ImportBatch{
		ID:        newID(),
		Rows:      payload,
		RowCount:  len(preview.ValidRows),
		CreatedBy: userID,
		ExpiresAt: time.Now().Add(batchTTL),
	}
	if err := s.impRepo.Create(ctx, batch); err != nil {
		return nil, &PersistenceError{Err: err}
	}

	preview.Token = batch.ID
	preview.ExpiresAt = &batch.ExpiresAt
	return preview, nil
}

// Confirm consumes a staged batch and inserts its rows. Rows whose code or
// serial appeared in the register after staging are dropped, not failed; the
// return value is how many rows were inserted.
func (s *ImportService) Confirm(ctx context.Context, token string) (int, error) {
	batch, err := s.impRepo.Consume(ctx, token)
	if err != nil {
		return 0, storeErr(err, "import batch")
	}

	var staged []entity.ImportRow
	if err := json.Unmarshal(batch.Rows, &staged); err != nil {
		return 0, &PersistenceError{Err: err}
	}

	existingCodes, err := s.assetRepo.ExistingCodes(ctx)
	if err != nil {
		return 0, &PersistenceError{Err: err}
	}
	existingSerials, err := s.assetRepo.ExistingSerials(ctx)
	if err != nil {
		return 0, &PersistenceError{Err: err}
	}

	assets := make([]entity.Asset, 0, len(staged))
	for _, row := range staged {
		if existingCodes[strings.ToLower(row.AssetCode)] {
			continue
		}
		if row.SerialNo != nil && existingSerials[strings.ToLower(*row.SerialNo)] {
			continue
		}
		var purchase *time.Time
		if row.PurchaseDate != "" {
			if d, err := time.Parse("2006-01-02", row.PurchaseDate); err == nil {
				purchase = &d
			}
		}
		assets = append(assets, entity.Asset{
			ID:           newID(),
			AssetCode:    row.AssetCode,
			AssetName:    row.AssetName,
			SerialNo:     row.SerialNo,
			Plant:        row.Plant,
			Department:   row.Department,
			Location:     row.Location,
			PurchaseDate: purchase,
			Status:       entity.AssetStatusActive,
		})
	}
	if len(assets) == 0 {
		return 0, nil
	}

	if err := s.assetRepo.CreateBatch(ctx, assets); err != nil {
		return 0, &PersistenceError{Err: err}
	}
	return len(assets), nil
}

// Template builds the empty upload workbook with the expected header.
func (s *ImportService) Template() (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	if err := writeHeader(f, sheet); err != nil {
		return nil, err
	}
	return f, nil
}

// Export builds a workbook of the full register.
func (s *ImportService) Export(ctx context.Context) (*excelize.File, error) {
	assets, err := s.assetRepo.ListAll(ctx)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	if err := writeHeader(f, sheet); err != nil {
		return nil, err
	}
	// Export adds a status column the upload template does not have.
	if err := f.SetCellValue(sheet, "H1", "Status"); err != nil {
		return nil, err
	}

	for i, a := range assets {
		row := i + 2
		serial := ""
		if a.SerialNo != nil {
			serial = *a.SerialNo
		}
		purchase := ""
		if a.PurchaseDate != nil {
			purchase = dates.FormatDMY(*a.PurchaseDate)
		}
		values := []interface{}{a.AssetCode, a.AssetName, serial, a.Plant, a.Department, a.Location, purchase, a.Status}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

func writeHeader(f *excelize.File, sheet string) error {
	for i, title := range importHeader {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return err
		}
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	return f.SetRowStyle(sheet, 1, 1, style)
}

func checkHeader(row []string) error {
	cols := pad(row, len(importHeader))
	for i, want := range importHeader {
		if !strings.EqualFold(strings.TrimSpace(cols[i]), want) {
			return invalid("file", fmt.Sprintf("unexpected header in column %d: want %q", i+1, want))
		}
	}
	return nil
}

func pad(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}
