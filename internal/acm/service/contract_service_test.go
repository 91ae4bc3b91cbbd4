package service

import (
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

func dmy(offset int) string {
	return dates.FormatDMY(time.Now().AddDate(0, 0, offset))
}

func setupContractTest(t *testing.T) (*repository.Repositories, *ContractService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	store := storage.NewObjectStore(nil, "")
	return repos, NewContractService(repos.Contract, repos.Asset, store)
}

func TestContractCreate(t *testing.T) {
	repos, svc := setupContractTest(t)
	ctx := context.Background()

	asset := &entity.Asset{ID: "asset-001", AssetCode: "A-001", AssetName: "Pump", Status: entity.AssetStatusActive}
	if err := repos.Asset.Create(ctx, asset); err != nil {
		t.Fatalf("seed asset: %v", err)
	}

	contract, err := svc.Create(ctx, "user-1", &CreateContractRequest{
		AssetID:   "asset-001",
		Vendor:    "Acme Service Co",
		StartDate: dmy(-30),
		EndDate:   dmy(335),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if contract.IsCompleted || contract.IsCancelled {
		t.Error("new contract should be open")
	}

	// Second open contract on the same asset must be rejected.
	_, err = svc.Create(ctx, "user-1", &CreateContractRequest{
		AssetID:   "asset-001",
		StartDate: dmy(0),
		EndDate:   dmy(365),
	})
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Errorf("expected ConflictError for second open contract, got %v", err)
	}

	// Unknown asset.
	_, err = svc.Create(ctx, "user-1", &CreateContractRequest{
		AssetID:   "no-such-asset",
		StartDate: dmy(0),
		EndDate:   dmy(365),
	})
	var ne *NotFoundError
	if !errors.As(err, &ne) {
		t.Errorf("expected NotFoundError for unknown asset, got %v", err)
	}

	// Start date must precede end date.
	_, err = svc.Create(ctx, "user-1", &CreateContractRequest{
		AssetID:   "asset-001",
		StartDate: dmy(10),
		EndDate:   dmy(10),
	})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("expected ValidationError for start >= end, got %v", err)
	}
}

func TestContractCreateOnScrappedAsset(t *testing.T) {
	repos, svc := setupContractTest(t)
	ctx := context.Background()

	asset := &entity.Asset{ID: "asset-002", AssetCode: "A-002", AssetName: "Gauge", Status: entity.AssetStatusScrapped}
	if err := repos.Asset.Create(ctx, asset); err != nil {
		t.Fatalf("seed asset: %v", err)
	}

	_, err := svc.Create(ctx, "user-1", &CreateContractRequest{
		AssetID:   "asset-002",
		StartDate: dmy(0),
		EndDate:   dmy(365),
	})
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Errorf("expected ConflictError on scrapped asset, got %v", err)
	}
}

func TestContractCompleteIsTerminal(t *testing.T) {
	repos, svc := setupContractTest(t)
	ctx := context.Background()

	repos.Asset.Create(ctx, &entity.Asset{ID: "asset-003", AssetCode: "A-003", AssetName: "Mixer", Status: entity.AssetStatusActive})
	contract, err := svc.Create(ctx, "user-1", &CreateContractRequest{
		AssetID:   "asset-003",
		StartDate: dmy(-10),
		EndDate:   dmy(355),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	view, err := svc.Complete(ctx, contract.ID)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if view.Status != entity.ContractStatusCompleted {
		t.Errorf("status after complete = %q, want Completed", view.Status)
	}
	if view.CompletedOn == nil {
		t.Error("completed_on should be set")
	}

	// Terminal states reject further transitions.
	var ce *ConflictError
	if _, err := svc.Complete(ctx, contract.ID); !errors.As(err, &ce) {
		t.Errorf("second complete should conflict, got %v", err)
	}
	if _, err := svc.Cancel(ctx, contract.ID); !errors.As(err, &ce) {
		t.Errorf("cancel after complete should conflict, got %v", err)
	}

	// A new contract may now be opened on the asset.
	if _, err := svc.Create(ctx, "user-1", &CreateContractRequest{
		AssetID:   "asset-003",
		StartDate: dmy(0),
		EndDate:   dmy(365),
	}); err != nil {
		t.Errorf("new contract after close should succeed, got %v", err)
	}
}

func TestContractAddEvent(t *testing.T) {
	repos, svc := setupContractTest(t)
	ctx := context.Background()

	repos.Asset.Create(ctx, &entity.Asset{ID: "asset-004", AssetCode: "A-004", AssetName: "Lathe", Status: entity.AssetStatusActive})
	contract, err := svc.Create(ctx, "user-1", &CreateContractRequest{
		AssetID:   "asset-004",
		StartDate: dmy(-100),
		EndDate:   dmy(265),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	cost := 120.0
	event, err := svc.AddEvent(ctx, contract.ID, "user-1", &AddEventRequest{
		EventDate: dmy(-5),
		Remarks:   "quarterly service visit",
		Cost:      &cost,
	})
	if err != nil {
		t.Fatalf("AddEvent failed: %v", err)
	}
	if event.ContractID != contract.ID {
		t.Error("event not linked to contract")
	}

	var ve *ValidationError
	if _, err := svc.AddEvent(ctx, contract.ID, "user-1", &AddEventRequest{EventDate: dmy(1)}); !errors.As(err, &ve) {
		t.Errorf("future event date should fail validation, got %v", err)
	}
	if _, err := svc.AddEvent(ctx, contract.ID, "user-1", &AddEventRequest{EventDate: dmy(-200)}); !errors.As(err, &ve) {
		t.Errorf("event before contract start should fail validation, got %v", err)
	}

	// Spend covers yearly cost plus events.
	view, err := svc.Get(ctx, contract.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if view.TotalSpend != 120.0 {
		t.Errorf("TotalSpend = %v, want 120", view.TotalSpend)
	}

	// Closed contracts accept no more events.
	if _, err := svc.Cancel(ctx, contract.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	var ce *ConflictError
	if _, err := svc.AddEvent(ctx, contract.ID, "user-1", &AddEventRequest{EventDate: dmy(-5)}); !errors.As(err, &ce) {
		t.Errorf("event on closed contract should conflict, got %v", err)
	}
}

func TestContractStatusBands(t *testing.T) {
	repos, svc := setupContractTest(t)
	ctx := context.Background()

	repos.Asset.Create(ctx, &entity.Asset{ID: "asset-005", AssetCode: "A-005", AssetName: "Oven", Status: entity.AssetStatusActive})

	contract, err := svc.Create(ctx, "user-1", &CreateContractRequest{
		AssetID:   "asset-005",
		StartDate: dmy(-350),
		EndDate:   dmy(10),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	view, err := svc.Get(ctx, contract.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if view.Status != entity.ContractStatusExpiringSoon {
		t.Errorf("contract ending in 10 days = %q, want ExpiringSoon", view.Status)
	}
}
