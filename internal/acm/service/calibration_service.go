package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/entity"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/repository"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/storage"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/shared/dates"
)

// CalibrationService owns the append-only calibration history. Which record
// is current is derived by ranking, never stored.
type CalibrationService struct {
	calRepo   *repository.CalibrationRepository
	assetRepo *repository.AssetRepository
	store     *storage.ObjectStore
}

func NewCalibrationService(calRepo *repository.CalibrationRepository, assetRepo *repository.AssetRepository, store *storage.ObjectStore) *CalibrationService {
	return &CalibrationService{
		calRepo:   calRepo,
		assetRepo: assetRepo,
		store:     store,
	}
}

// SaveCalibrationRequest appends one record with its events. Dates are
// DD/MM/YYYY. Documents arrive through the multipart upload path and are
// passed separately.
type SaveCalibrationRequest struct {
	AssetID             string                  `json:"asset_id" binding:"required"`
	CalibrationDoneDate string                  `json:"calibration_done_date" binding:"required"`
	NextDueDate         string                  `json:"next_due_date" binding:"required"`
	Agency              string                  `json:"agency"`
	Cost                *float64                `json:"cost"`
	Remarks             string                  `json:"remarks"`
	Events              []CalibrationEventInput `json:"events"`
}

// CalibrationEventInput is one dated remark/cost entry on the new record.
type CalibrationEventInput struct {
	EventDate string   `json:"event_date" binding:"required"`
	Remarks   string   `json:"remarks"`
	Cost      *float64 `json:"cost"`
}

// DocumentInput is one attachment staged for the save.
type DocumentInput struct {
	DocType     string
	FileName    string
	Reader      io.Reader
	FileSize    int64
	ContentType string
}

// CalibrationView decorates a record with its derived status and spend.
type CalibrationView struct {
	entity.CalibrationRecord
	Status     string  `json:"status"`
	TotalSpend float64 `json:"total_spend"`
}

// Save validates and persists a record with its events and documents in one
// transaction. Any event failing validation rejects the whole save; any row
// failing to persist rolls everything back.
func (s *CalibrationService) Save(ctx context.Context, userID string, req *SaveCalibrationRequest, docs []DocumentInput) (*entity.CalibrationRecord, error) {
	asset, err := s.assetRepo.FindByID(ctx, req.AssetID)
	if err != nil {
		return nil, storeErr(err, "asset")
	}
	if asset.IsScrapped() {
		return nil, conflict("asset is scrapped, no new calibrations can be recorded")
	}

	done, err := dates.ParseDMY(req.CalibrationDoneDate)
	if err != nil {
		return nil, invalid("calibration_done_date", "invalid date, expected DD/MM/YYYY or DD-MM-YYYY")
	}
	due, err := dates.ParseDMY(req.NextDueDate)
	if err != nil {
		return nil, invalid("next_due_date", "invalid date, expected DD/MM/YYYY or DD-MM-YYYY")
	}
	today := time.Now()
	if dates.AfterDay(done, today) {
		return nil, invalid("calibration_done_date", "calibration date cannot be in the future")
	}
	if !dates.BeforeDay(done, due) {
		return nil, invalid("next_due_date", "next due date must be after the calibration date")
	}

	record := &entity.CalibrationRecord{
		ID:                  newID(),
		AssetID:             asset.ID,
		CalibrationDoneDate: done,
		NextDueDate:         due,
		Agency:              req.Agency,
		Cost:                req.Cost,
		Remarks:             req.Remarks,
		CreatedBy:           userID,
	}

	events := make([]entity.CalibrationEvent, 0, len(req.Events))
	for i, in := range req.Events {
		eventDate, err := dates.ParseDMY(in.EventDate)
		if err != nil {
			return nil, invalid("events", fmt.Sprintf("event %d: invalid date, expected DD/MM/YYYY or DD-MM-YYYY", i+1))
		}
		if dates.AfterDay(eventDate, today) {
			return nil, invalid("events", fmt.Sprintf("event %d: date cannot be in the future", i+1))
		}
		if dates.BeforeDay(eventDate, done) || dates.AfterDay(eventDate, due) {
			return nil, invalid("events", fmt.Sprintf("event %d: date must fall within the calibration period", i+1))
		}
		events = append(events, entity.CalibrationEvent{
			ID:        newID(),
			EventDate: eventDate,
			Remarks:   in.Remarks,
			Cost:      in.Cost,
			CreatedBy: userID,
		})
	}

	// Validate and upload attachments before the transaction; remember what
	// went to the store so a failed commit can clean up after itself.
	var uploaded []string
	rows := make([]entity.CalibrationDocument, 0, len(docs))
	cleanup := func() {
		for _, name := range uploaded {
			_ = s.store.Remove(ctx, name)
		}
	}
	monthYear := time.Now().Format("Jan2006")
	perType := map[string]int{}
	for _, d := range docs {
		if !isPDF(d.FileName, d.ContentType) {
			cleanup()
			return nil, invalid("documents", "only PDF files are accepted")
		}
		docType := d.DocType
		if docType == "" {
			docType = "certificate"
		}
		perType[docType]++
		storedName := fmt.Sprintf("%s_%s_%s_%d.pdf", asset.AssetCode, monthYear, docType, perType[docType])
		objectName := storage.ObjectName(storage.PrefixCalibrations, storedName)
		if err := s.store.Put(ctx, objectName, d.Reader, d.FileSize, "application/pdf"); err != nil {
			cleanup()
			return nil, &PersistenceError{Err: err}
		}
		uploaded = append(uploaded, objectName)
		rows = append(rows, entity.CalibrationDocument{
			ID:         newID(),
			DocType:    docType,
			FileName:   d.FileName,
			StoredName: storedName,
			FilePath:   objectName,
			FileSize:   d.FileSize,
			UploadedBy: userID,
		})
	}

	if err := s.calRepo.CreateWithChildren(ctx, record, events, rows); err != nil {
		cleanup()
		return nil, &PersistenceError{Err: err}
	}
	return record, nil
}

// Get loads one record and resolves its currency against the asset's full
// history.
func (s *CalibrationService) Get(ctx context.Context, id string) (*CalibrationView, error) {
	record, err := s.calRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "calibration record")
	}

	siblings, err := s.calRepo.ListByAsset(ctx, record.AssetID)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}
	current := entity.CurrentCalibration(siblings)
	isCurrent := current != nil && current.ID == record.ID

	return &CalibrationView{
		CalibrationRecord: *record,
		Status:            record.StatusOn(isCurrent, time.Now()),
		TotalSpend:        record.TotalSpend(),
	}, nil
}

// History lists an asset's records ranked current-first, each with its
// derived status.
func (s *CalibrationService) History(ctx context.Context, assetID string) ([]CalibrationView, error) {
	if _, err := s.assetRepo.FindByID(ctx, assetID); err != nil {
		return nil, storeErr(err, "asset")
	}

	records, err := s.calRepo.ListByAsset(ctx, assetID)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}

	ranked := entity.RankCalibrations(records)
	today := time.Now()
	views := make([]CalibrationView, 0, len(ranked))
	for i, r := range ranked {
		views = append(views, CalibrationView{
			CalibrationRecord: r,
			Status:            r.StatusOn(i == 0, today),
			TotalSpend:        r.TotalSpend(),
		})
	}
	return views, nil
}

// DownloadDocument streams one calibration attachment.
func (s *CalibrationService) DownloadDocument(ctx context.Context, docID string) (io.ReadCloser, *entity.CalibrationDocument, error) {
	doc, err := s.calRepo.FindDocument(ctx, docID)
	if err != nil {
		return nil, nil, storeErr(err, "document")
	}
	reader, err := s.store.Get(ctx, doc.FilePath)
	if err != nil {
		return nil, nil, &PersistenceError{Err: err}
	}
	return reader, doc, nil
}
