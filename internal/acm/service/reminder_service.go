package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/entity"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/repository"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/shared/dates"
)

// ReminderService computes the derived reminder view: open contracts and
// current calibrations on active assets, banded by days left, minus
// acknowledged rules. Nothing here is persisted except acknowledgements.
type ReminderService struct {
	remRepo *repository.ReminderRepository
	conRepo *repository.ContractRepository
	calRepo *repository.CalibrationRepository
}

func NewReminderService(remRepo *repository.ReminderRepository, conRepo *repository.ContractRepository, calRepo *repository.CalibrationRepository) *ReminderService {
	return &ReminderService{
		remRepo: remRepo,
		conRepo: conRepo,
		calRepo: calRepo,
	}
}

// AcknowledgeRequest suppresses one (source, rule) pair.
type AcknowledgeRequest struct {
	SourceType string `json:"source_type" binding:"required"`
	SourceID   string `json:"source_id" binding:"required"`
	Rule       string `json:"rule" binding:"required"`
}

// ReminderSummary is the per-rule count for the dashboard badge.
type ReminderSummary struct {
	Overdue  int `json:"overdue"`
	DueSoon  int `json:"due_soon"`
	Upcoming int `json:"upcoming"`
	Total    int `json:"total"`
}

// Compute builds the reminder list fresh from current rows.
func (s *ReminderService) Compute(ctx context.Context) ([]entity.Reminder, error) {
	acked, err := s.remRepo.AckedTuples(ctx)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}

	today := time.Now()
	reminders := []entity.Reminder{}

	contracts, err := s.conRepo.ListOpenOnActiveAssets(ctx)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}
	for _, c := range contracts {
		daysLeft := dates.DaysBetween(today, c.EndDate)
		rule, ok := entity.ReminderRuleFor(daysLeft)
		if !ok || acked[entity.ReminderSourceContract+"/"+c.ID+"/"+rule] {
			continue
		}
		r := entity.Reminder{
			SourceType: entity.ReminderSourceContract,
			SourceID:   c.ID,
			Rule:       rule,
			Severity:   rule,
			AssetID:    c.AssetID,
			DueDate:    c.EndDate,
			DaysLeft:   daysLeft,
		}
		if c.Asset != nil {
			r.AssetCode = c.Asset.AssetCode
			r.AssetName = c.Asset.AssetName
		}
		reminders = append(reminders, r)
	}

	records, err := s.calRepo.ListForActiveAssets(ctx)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}
	byAsset := map[string][]entity.CalibrationRecord{}
	for _, rec := range records {
		byAsset[rec.AssetID] = append(byAsset[rec.AssetID], rec)
	}
	for _, group := range byAsset {
		// Only the current record produces a reminder; superseded history
		// never does, whatever its own due date says.
		current := entity.CurrentCalibration(group)
		daysLeft := dates.DaysBetween(today, current.NextDueDate)
		rule, ok := entity.ReminderRuleFor(daysLeft)
		if !ok || acked[entity.ReminderSourceCalibration+"/"+current.ID+"/"+rule] {
			continue
		}
		r := entity.Reminder{
			SourceType: entity.ReminderSourceCalibration,
			SourceID:   current.ID,
			Rule:       rule,
			Severity:   rule,
			AssetID:    current.AssetID,
			DueDate:    current.NextDueDate,
			DaysLeft:   daysLeft,
		}
		if current.Asset != nil {
			r.AssetCode = current.Asset.AssetCode
			r.AssetName = current.Asset.AssetName
		}
		reminders = append(reminders, r)
	}

	// Severity tier first, then |days_left| ascending. For the overdue tier
	// abs() sorts least-overdue first; kept as-is to match the legacy view.
	sort.SliceStable(reminders, func(i, j int) bool {
		ri, rj := reminders[i], reminders[j]
		si, sj := entity.ReminderSeverityRank(ri.Rule), entity.ReminderSeverityRank(rj.Rule)
		if si != sj {
			return si < sj
		}
		return abs(ri.DaysLeft) < abs(rj.DaysLeft)
	})

	return reminders, nil
}

// Summary counts the computed view per rule.
func (s *ReminderService) Summary(ctx context.Context) (*ReminderSummary, error) {
	reminders, err := s.Compute(ctx)
	if err != nil {
		return nil, err
	}
	summary := &ReminderSummary{Total: len(reminders)}
	for _, r := range reminders {
		switch r.Rule {
		case entity.ReminderRuleOverdue:
			summary.Overdue++
		case entity.ReminderRuleDueSoon:
			summary.DueSoon++
		case entity.ReminderRuleUpcoming:
			summary.Upcoming++
		}
	}
	return summary, nil
}

// Acknowledge suppresses one (source, rule) pair. Idempotent: an existing
// tuple is success, not an error. The referenced entity must exist.
func (s *ReminderService) Acknowledge(ctx context.Context, userID string, req *AcknowledgeRequest) (*entity.ReminderAck, error) {
	if req.SourceType != entity.ReminderSourceContract && req.SourceType != entity.ReminderSourceCalibration {
		return nil, invalid("source_type", "must be Contract or Calibration")
	}
	switch req.Rule {
	case entity.ReminderRuleOverdue, entity.ReminderRuleDueSoon, entity.ReminderRuleUpcoming:
	default:
		return nil, invalid("rule", "must be overdue, due_soon or upcoming")
	}

	var assetID string
	if req.SourceType == entity.ReminderSourceContract {
		contract, err := s.conRepo.FindByID(ctx, req.SourceID)
		if err != nil {
			return nil, storeErr(err, "contract")
		}
		assetID = contract.AssetID
	} else {
		record, err := s.calRepo.FindByID(ctx, req.SourceID)
		if err != nil {
			return nil, storeErr(err, "calibration record")
		}
		assetID = record.AssetID
	}

	if existing, err := s.remRepo.FindAck(ctx, req.SourceType, req.SourceID, req.Rule); err == nil {
		return existing, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, &PersistenceError{Err: err}
	}

	ack := &entity.ReminderAck{
		ID:             newID(),
		SourceType:     req.SourceType,
		SourceID:       req.SourceID,
		Rule:           req.Rule,
		AssetID:        assetID,
		AcknowledgedBy: userID,
	}
	if err := s.remRepo.CreateAck(ctx, ack); err != nil {
		// A concurrent acknowledge may have won the unique index; that is
		// still success for the caller.
		if existing, findErr := s.remRepo.FindAck(ctx, req.SourceType, req.SourceID, req.Rule); findErr == nil {
			return existing, nil
		}
		return nil, &PersistenceError{Err: err}
	}
	return ack, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
