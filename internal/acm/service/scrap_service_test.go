package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/entity"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/repository"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/storage"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/testutil"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/shared/dates"
)

func setupScrapTest(t *testing.T) (*repository.Repositories, *ScrapService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	store := storage.NewObjectStore(nil, "")
	return repos, NewScrapService(repos.Scrap, repos.Asset, store)
}

func scrapNote() *bytes.Reader {
	return bytes.NewReader([]byte("%PDF-1.4 approval note"))
}

func TestScrapCascadesToOpenContract(t *testing.T) {
	repos, svc := setupScrapTest(t)
	ctx := context.Background()

	repos.Asset.Create(ctx, &entity.Asset{ID: "asset-s1", AssetCode: "S-001", AssetName: "Press", Status: entity.AssetStatusActive})
	contract := &entity.Contract{
		ID:        "con-s1",
		AssetID:   "asset-s1",
		StartDate: time.Now().AddDate(0, -6, 0),
		EndDate:   time.Now().AddDate(0, 6, 0),
	}
	if err := repos.Contract.Create(ctx, contract); err != nil {
		t.Fatalf("seed contract: %v", err)
	}

	record, err := svc.Scrap(ctx, "asset-s1", "user-1", &ScrapRequest{
		ScrapDate:  dmy(-1),
		ApprovedBy: "Plant Head",
		Reason:     "beyond economic repair",
	}, "approval.pdf", scrapNote(), 22, "application/pdf")
	if err != nil {
		t.Fatalf("Scrap failed: %v", err)
	}
	if record.AssetID != "asset-s1" {
		t.Error("scrap record not linked to asset")
	}

	// Asset is terminal.
	asset, err := repos.Asset.FindByID(ctx, "asset-s1")
	if err != nil {
		t.Fatalf("reload asset: %v", err)
	}
	if asset.Status != entity.AssetStatusScrapped {
		t.Errorf("asset status = %q, want Scrapped", asset.Status)
	}

	// The open contract was cancelled with completed_on = scrap date.
	reloaded, err := repos.Contract.FindByID(ctx, "con-s1")
	if err != nil {
		t.Fatalf("reload contract: %v", err)
	}
	if !reloaded.IsCancelled {
		t.Error("open contract should be cancelled by the cascade")
	}
	if reloaded.CompletedOn == nil || dates.FormatDMY(*reloaded.CompletedOn) != dmy(-1) {
		t.Errorf("completed_on = %v, want the scrap date", reloaded.CompletedOn)
	}

	// Scrapping again conflicts.
	_, err = svc.Scrap(ctx, "asset-s1", "user-1", &ScrapRequest{
		ScrapDate:  dmy(0),
		ApprovedBy: "Plant Head",
	}, "approval.pdf", scrapNote(), 22, "application/pdf")
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Errorf("expected ConflictError on double scrap, got %v", err)
	}
}

func TestScrapValidation(t *testing.T) {
	repos, svc := setupScrapTest(t)
	ctx := context.Background()

	repos.Asset.Create(ctx, &entity.Asset{ID: "asset-s2", AssetCode: "S-002", AssetName: "Drill", Status: entity.AssetStatusActive})

	var ve *ValidationError
	_, err := svc.Scrap(ctx, "asset-s2", "user-1", &ScrapRequest{
		ScrapDate: dmy(0),
	}, "approval.pdf", scrapNote(), 22, "application/pdf")
	if !errors.As(err, &ve) {
		t.Errorf("missing approver should fail validation, got %v", err)
	}

	_, err = svc.Scrap(ctx, "asset-s2", "user-1", &ScrapRequest{
		ScrapDate:  dmy(0),
		ApprovedBy: "Plant Head",
	}, "approval.docx", scrapNote(), 22, "application/msword")
	if !errors.As(err, &ve) {
		t.Errorf("non-PDF note should fail validation, got %v", err)
	}

	var ne *NotFoundError
	_, err = svc.Scrap(ctx, "missing", "user-1", &ScrapRequest{
		ScrapDate:  dmy(0),
		ApprovedBy: "Plant Head",
	}, "approval.pdf", scrapNote(), 22, "application/pdf")
	if !errors.As(err, &ne) {
		t.Errorf("unknown asset should be not found, got %v", err)
	}

	// Nothing above should have touched the asset.
	asset, _ := repos.Asset.FindByID(ctx, "asset-s2")
	if asset.Status != entity.AssetStatusActive {
		t.Errorf("asset status = %q, want Active", asset.Status)
	}
}
