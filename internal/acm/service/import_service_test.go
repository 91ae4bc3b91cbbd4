package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/entity"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/repository"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/testutil"
	"github.com/xuri/excelize/v2"
)

func setupImportTest(t *testing.T) (*repository.Repositories, *ImportService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	return repos, NewImportService(repos.Import, repos.Asset)
}

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := []interface{}{
		"Asset Code", "Asset Name", "Serial No", "Plant", "Department",
		"Location", "Purchase Date (DD/MM/YYYY)",
	}
	all := append([][]interface{}{header}, rows...)
	for r, cols := range all {
		for c, v := range cols {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			f.SetCellValue(sheet, cell, v)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestImportUploadValidation(t *testing.T) {
	repos, svc := setupImportTest(t)
	ctx := context.Background()

	repos.Asset.Create(ctx, &entity.Asset{ID: "a1", AssetCode: "EXIST-01", AssetName: "Existing", Status: entity.AssetStatusActive})

	preview, err := svc.Upload(ctx, "user-1", buildWorkbook(t, [][]interface{}{
		{"IMP-01", "Compressor", "SN-100", "Plant A", "Maintenance", "Bay 1", dmy(-30)},
		{"", "No Code", "", "", "", "", ""},
		{"IMP-01", "Duplicate In File", "", "", "", "", ""},
		{"EXIST-01", "Duplicate In Store", "", "", "", "", ""},
		{"IMP-02", "Bad Date", "", "", "", "", "31/02/2025"},
		{"IMP-03", "Future Date", "", "", "", "", dmy(30)},
		{"IMP-04", "", "", "", "", "", ""},
	}))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if len(preview.ValidRows) != 1 || preview.ValidRows[0].AssetCode != "IMP-01" {
		t.Errorf("valid rows = %+v, want exactly IMP-01", preview.ValidRows)
	}
	if len(preview.Errors) != 6 {
		t.Errorf("expected 6 rejected rows, got %d: %+v", len(preview.Errors), preview.Errors)
	}
	if preview.Token == "" {
		t.Error("a file with valid rows should stage a batch")
	}
}

func TestImportRejectsBadHeader(t *testing.T) {
	_, svc := setupImportTest(t)
	ctx := context.Background()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	f.SetCellValue(sheet, "A1", "Code")
	f.SetCellValue(sheet, "B1", "Name")
	var buf bytes.Buffer
	f.Write(&buf)

	var ve *ValidationError
	_, err := svc.Upload(ctx, "user-1", bytes.NewReader(buf.Bytes()))
	if !errors.As(err, &ve) {
		t.Errorf("wrong header should fail validation, got %v", err)
	}
}

func TestImportConfirm(t *testing.T) {
	repos, svc := setupImportTest(t)
	ctx := context.Background()

	preview, err := svc.Upload(ctx, "user-1", buildWorkbook(t, [][]interface{}{
		{"IMP-10", "Pump", "SN-200", "Plant B", "Utilities", "Bay 2", dmy(-10)},
		{"IMP-11", "Valve", "", "", "", "", ""},
	}))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(preview.ValidRows) != 2 {
		t.Fatalf("expected 2 valid rows, got %d", len(preview.ValidRows))
	}

	count, err := svc.Confirm(ctx, preview.Token)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if count != 2 {
		t.Errorf("imported %d rows, want 2", count)
	}

	asset, err := repos.Asset.FindByCode(ctx, "IMP-10")
	if err != nil {
		t.Fatalf("imported asset missing: %v", err)
	}
	if asset.Status != entity.AssetStatusActive || asset.Plant != "Plant B" {
		t.Errorf("imported asset = %+v", asset)
	}

	// A token is consumable exactly once.
	var ne *NotFoundError
	if _, err := svc.Confirm(ctx, preview.Token); !errors.As(err, &ne) {
		t.Errorf("second confirm should be not found, got %v", err)
	}
}

func TestImportStoreDuplicatesAreCaseInsensitive(t *testing.T) {
	repos, svc := setupImportTest(t)
	ctx := context.Background()

	serial := "SN-ABC"
	repos.Asset.Create(ctx, &entity.Asset{ID: "a1", AssetCode: "PUMP-01", AssetName: "Pump", SerialNo: &serial, Status: entity.AssetStatusActive})

	// Exact and case-variant matches against the register are both rejected.
	preview, err := svc.Upload(ctx, "user-1", buildWorkbook(t, [][]interface{}{
		{"PUMP-01", "Same Code", "", "", "", "", ""},
		{"pump-01", "Lowercased Code", "", "", "", "", ""},
		{"IMP-20", "Same Serial", "sn-abc", "", "", "", ""},
	}))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(preview.ValidRows) != 0 {
		t.Errorf("store-duplicate rows staged as valid: %+v", preview.ValidRows)
	}
	if len(preview.Errors) != 3 {
		t.Errorf("expected 3 rejected rows, got %d: %+v", len(preview.Errors), preview.Errors)
	}
}

func TestImportConfirmDropsLateDuplicates(t *testing.T) {
	repos, svc := setupImportTest(t)
	ctx := context.Background()

	preview, err := svc.Upload(ctx, "user-1", buildWorkbook(t, [][]interface{}{
		{"IMP-30", "Fan", "", "", "", "", ""},
		{"IMP-31", "Hoist", "", "", "", "", ""},
	}))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	// A code taken between staging and confirm is dropped, not failed,
	// whatever its case in the register.
	repos.Asset.Create(ctx, &entity.Asset{ID: "a1", AssetCode: "imp-30", AssetName: "Raced In", Status: entity.AssetStatusActive})

	count, err := svc.Confirm(ctx, preview.Token)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if count != 1 {
		t.Errorf("imported %d rows, want 1", count)
	}
	if _, err := repos.Asset.FindByCode(ctx, "IMP-31"); err != nil {
		t.Errorf("surviving row missing: %v", err)
	}
}

func TestImportEmptyFileStagesNothing(t *testing.T) {
	_, svc := setupImportTest(t)
	ctx := context.Background()

	preview, err := svc.Upload(ctx, "user-1", buildWorkbook(t, [][]interface{}{
		{"", "Nameless", "", "", "", "", ""},
	}))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if preview.Token != "" {
		t.Error("a file with no valid rows must not stage a batch")
	}
	if len(preview.Errors) != 1 {
		t.Errorf("expected 1 rejected row, got %d", len(preview.Errors))
	}
}
