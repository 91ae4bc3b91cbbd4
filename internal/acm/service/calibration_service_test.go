package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/entity"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/repository"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/storage"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/testutil"
)

func setupCalibrationTest(t *testing.T) (*repository.Repositories, *CalibrationService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	store := storage.NewObjectStore(nil, "")
	return repos, NewCalibrationService(repos.Calibration, repos.Asset, store)
}

func TestCalibrationSaveValidation(t *testing.T) {
	repos, svc := setupCalibrationTest(t)
	ctx := context.Background()

	repos.Asset.Create(ctx, &entity.Asset{ID: "asset-c1", AssetCode: "C-001", AssetName: "Scale", Status: entity.AssetStatusActive})

	var ve *ValidationError
	_, err := svc.Save(ctx, "user-1", &SaveCalibrationRequest{
		AssetID:             "asset-c1",
		CalibrationDoneDate: dmy(1),
		NextDueDate:         dmy(180),
	}, nil)
	if !errors.As(err, &ve) {
		t.Errorf("future done date should fail validation, got %v", err)
	}

	_, err = svc.Save(ctx, "user-1", &SaveCalibrationRequest{
		AssetID:             "asset-c1",
		CalibrationDoneDate: dmy(-10),
		NextDueDate:         dmy(-10),
	}, nil)
	if !errors.As(err, &ve) {
		t.Errorf("due date not after done date should fail validation, got %v", err)
	}
}

func TestCalibrationSaveRejectsWholeBatchOnBadEvent(t *testing.T) {
	repos, svc := setupCalibrationTest(t)
	ctx := context.Background()

	repos.Asset.Create(ctx, &entity.Asset{ID: "asset-c2", AssetCode: "C-002", AssetName: "Meter", Status: entity.AssetStatusActive})

	// One good event, one outside the calibration period. Nothing persists.
	_, err := svc.Save(ctx, "user-1", &SaveCalibrationRequest{
		AssetID:             "asset-c2",
		CalibrationDoneDate: dmy(-30),
		NextDueDate:         dmy(335),
		Events: []CalibrationEventInput{
			{EventDate: dmy(-5), Remarks: "verified against reference"},
			{EventDate: dmy(-60), Remarks: "before the calibration"},
		},
	}, nil)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("event outside the period should fail validation, got %v", err)
	}

	records, err := repos.Calibration.ListByAsset(ctx, "asset-c2")
	if err != nil {
		t.Fatalf("ListByAsset: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records after rejected save, got %d", len(records))
	}
}

func TestCalibrationCurrencyRanking(t *testing.T) {
	repos, svc := setupCalibrationTest(t)
	ctx := context.Background()

	repos.Asset.Create(ctx, &entity.Asset{ID: "asset-c3", AssetCode: "C-003", AssetName: "Balance", Status: entity.AssetStatusActive})

	older, err := svc.Save(ctx, "user-1", &SaveCalibrationRequest{
		AssetID:             "asset-c3",
		CalibrationDoneDate: dmy(-200),
		NextDueDate:         dmy(-20),
	}, nil)
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	newer, err := svc.Save(ctx, "user-1", &SaveCalibrationRequest{
		AssetID:             "asset-c3",
		CalibrationDoneDate: dmy(-20),
		NextDueDate:         dmy(160),
	}, nil)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}

	views, err := svc.History(ctx, "asset-c3")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 records, got %d", len(views))
	}
	if views[0].ID != newer.ID || views[0].Status != entity.CalibrationStatusValid {
		t.Errorf("head = (%s, %s), want the newer record as Valid", views[0].ID, views[0].Status)
	}
	// The older record is Superseded even though its own due date has passed.
	if views[1].ID != older.ID || views[1].Status != entity.CalibrationStatusSuperseded {
		t.Errorf("tail = (%s, %s), want the older record as Superseded", views[1].ID, views[1].Status)
	}

	// Get resolves currency the same way.
	view, err := svc.Get(ctx, older.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if view.Status != entity.CalibrationStatusSuperseded {
		t.Errorf("Get status = %q, want Superseded", view.Status)
	}
}

func TestCalibrationOnScrappedAsset(t *testing.T) {
	repos, svc := setupCalibrationTest(t)
	ctx := context.Background()

	repos.Asset.Create(ctx, &entity.Asset{ID: "asset-c4", AssetCode: "C-004", AssetName: "Probe", Status: entity.AssetStatusScrapped})

	_, err := svc.Save(ctx, "user-1", &SaveCalibrationRequest{
		AssetID:             "asset-c4",
		CalibrationDoneDate: dmy(-1),
		NextDueDate:         dmy(180),
	}, nil)
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Errorf("save on scrapped asset should conflict, got %v", err)
	}
}
