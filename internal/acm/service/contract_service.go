package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/entity"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/repository"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/storage"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/shared/dates"
)

// ContractService owns the AMC lifecycle: Open → Completed | Cancelled, one
// open contract per asset, events and documents while open.
type ContractService struct {
	conRepo   *repository.ContractRepository
	assetRepo *repository.AssetRepository
	store     *storage.ObjectStore
}

func NewContractService(conRepo *repository.ContractRepository, assetRepo *repository.AssetRepository, store *storage.ObjectStore) *ContractService {
	return &ContractService{
		conRepo:   conRepo,
		assetRepo: assetRepo,
		store:     store,
	}
}

// CreateContractRequest opens one AMC. Dates are DD/MM/YYYY.
type CreateContractRequest struct {
	AssetID    string   `json:"asset_id" binding:"required"`
	Vendor     string   `json:"vendor"`
	StartDate  string   `json:"start_date" binding:"required"`
	EndDate    string   `json:"end_date" binding:"required"`
	YearlyCost *float64 `json:"yearly_cost"`
}

// AddEventRequest appends one dated remark/cost entry.
type AddEventRequest struct {
	EventDate string   `json:"event_date" binding:"required"`
	Remarks   string   `json:"remarks"`
	Cost      *float64 `json:"cost"`
}

// ContractView decorates a contract with its derived band and spend.
type ContractView struct {
	entity.Contract
	Status     string  `json:"status"`
	TotalSpend float64 `json:"total_spend"`
}

// ContractListResult is one page of contracts.
type ContractListResult struct {
	Items      []ContractView `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

func viewOf(c entity.Contract, today time.Time) ContractView {
	return ContractView{
		Contract:   c,
		Status:     c.StatusOn(today),
		TotalSpend: c.TotalSpend(),
	}
}

// Create opens a contract for an active asset with no other open contract.
func (s *ContractService) Create(ctx context.Context, userID string, req *CreateContractRequest) (*entity.Contract, error) {
	asset, err := s.assetRepo.FindByID(ctx, req.AssetID)
	if err != nil {
		return nil, storeErr(err, "asset")
	}
	if asset.IsScrapped() {
		return nil, conflict("asset is scrapped, no new contracts can be created")
	}

	start, err := dates.ParseDMY(req.StartDate)
	if err != nil {
		return nil, invalid("start_date", "invalid date, expected DD/MM/YYYY or DD-MM-YYYY")
	}
	end, err := dates.ParseDMY(req.EndDate)
	if err != nil {
		return nil, invalid("end_date", "invalid date, expected DD/MM/YYYY or DD-MM-YYYY")
	}
	if !dates.BeforeDay(start, end) {
		return nil, invalid("end_date", "end date must be after start date")
	}

	if _, err := s.conRepo.FindOpenByAsset(ctx, asset.ID); err == nil {
		return nil, conflict("an open contract already exists for this asset")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, &PersistenceError{Err: err}
	}

	contract := &entity.Contract{
		ID:         newID(),
		AssetID:    asset.ID,
		Vendor:     req.Vendor,
		StartDate:  start,
		EndDate:    end,
		YearlyCost: req.YearlyCost,
		CreatedBy:  userID,
	}
	if err := s.conRepo.Create(ctx, contract); err != nil {
		return nil, &PersistenceError{Err: err}
	}
	return contract, nil
}

// Get loads one contract with derived status and spend.
func (s *ContractService) Get(ctx context.Context, id string) (*ContractView, error) {
	contract, err := s.conRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "contract")
	}
	view := viewOf(*contract, time.Now())
	return &view, nil
}

// List pages through contracts, each with its derived band.
func (s *ContractService) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) (*ContractListResult, error) {
	contracts, total, err := s.conRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}

	today := time.Now()
	views := make([]ContractView, 0, len(contracts))
	for _, c := range contracts {
		views = append(views, viewOf(c, today))
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &ContractListResult{
		Items:      views,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// AddEvent appends a dated entry to an open contract. The date must not be in
// the future and must fall within the contract period.
func (s *ContractService) AddEvent(ctx context.Context, contractID, userID string, req *AddEventRequest) (*entity.ContractEvent, error) {
	contract, err := s.conRepo.FindByID(ctx, contractID)
	if err != nil {
		return nil, storeErr(err, "contract")
	}
	if contract.IsClosed() {
		return nil, conflict("contract is closed")
	}

	eventDate, err := dates.ParseDMY(req.EventDate)
	if err != nil {
		return nil, invalid("event_date", "invalid date, expected DD/MM/YYYY or DD-MM-YYYY")
	}
	if dates.AfterDay(eventDate, time.Now()) {
		return nil, invalid("event_date", "event date cannot be in the future")
	}
	if dates.BeforeDay(eventDate, contract.StartDate) || dates.AfterDay(eventDate, contract.EndDate) {
		return nil, invalid("event_date", "event date must fall within the contract period")
	}

	event := &entity.ContractEvent{
		ID:         newID(),
		ContractID: contract.ID,
		EventDate:  eventDate,
		Remarks:    req.Remarks,
		Cost:       req.Cost,
		CreatedBy:  userID,
	}
	if err := s.conRepo.AddEvent(ctx, event); err != nil {
		return nil, &PersistenceError{Err: err}
	}
	return event, nil
}

// AddDocument attaches a PDF to an open contract. The stored name is scoped
// by asset code, month-year, document type and a per-(contract, type)
// sequence, so it cannot collide.
func (s *ContractService) AddDocument(ctx context.Context, contractID, userID, docType, fileName string, reader io.Reader, fileSize int64, contentType string) (*entity.ContractDocument, error) {
	contract, err := s.conRepo.FindByID(ctx, contractID)
	if err != nil {
		return nil, storeErr(err, "contract")
	}
	if contract.IsClosed() {
		return nil, conflict("contract is closed")
	}
	if docType == "" {
		return nil, invalid("doc_type", "document type is required")
	}
	if !isPDF(fileName, contentType) {
		return nil, invalid("file", "only PDF files are accepted")
	}

	count, err := s.conRepo.CountDocumentsByType(ctx, contract.ID, docType)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}

	storedName := fmt.Sprintf("%s_%s_%s_%d.pdf",
		contract.Asset.AssetCode, time.Now().Format("Jan2006"), docType, count+1)
	objectName := storage.ObjectName(storage.PrefixContracts, storedName)

	if err := s.store.Put(ctx, objectName, reader, fileSize, "application/pdf"); err != nil {
		return nil, &PersistenceError{Err: err}
	}

	doc := &entity.ContractDocument{
		ID:         newID(),
		ContractID: contract.ID,
		DocType:    docType,
		FileName:   fileName,
		StoredName: storedName,
		FilePath:   objectName,
		FileSize:   fileSize,
		UploadedBy: userID,
	}
	if err := s.conRepo.AddDocument(ctx, doc); err != nil {
		// The file is already in the store; remove the orphan. Best effort.
		_ = s.store.Remove(ctx, objectName)
		return nil, &PersistenceError{Err: err}
	}
	return doc, nil
}

// DownloadDocument streams one contract attachment.
func (s *ContractService) DownloadDocument(ctx context.Context, docID string) (io.ReadCloser, *entity.ContractDocument, error) {
	doc, err := s.conRepo.FindDocument(ctx, docID)
	if err != nil {
		return nil, nil, storeErr(err, "document")
	}
	reader, err := s.store.Get(ctx, doc.FilePath)
	if err != nil {
		return nil, nil, &PersistenceError{Err: err}
	}
	return reader, doc, nil
}

// Complete closes the contract as fulfilled. Rejected once either terminal
// flag is set; safe to retry after a failure.
func (s *ContractService) Complete(ctx context.Context, id string) (*ContractView, error) {
	return s.close(ctx, id, false)
}

// Cancel closes the contract as abandoned, under the same guard.
func (s *ContractService) Cancel(ctx context.Context, id string) (*ContractView, error) {
	return s.close(ctx, id, true)
}

func (s *ContractService) close(ctx context.Context, id string, cancelled bool) (*ContractView, error) {
	contract, err := s.conRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "contract")
	}
	if contract.IsClosed() {
		return nil, conflict("contract is already closed")
	}

	closed, err := s.conRepo.Close(ctx, id, cancelled, dates.Day(time.Now()))
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}
	if !closed {
		return nil, conflict("contract is already closed")
	}
	return s.Get(ctx, id)
}
