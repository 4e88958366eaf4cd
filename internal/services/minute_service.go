package services

import (
	"context"
	"fmt"
	"time"

	"github.com/hassaanshah24/minute2.0/internal/apperrors"
	"github.com/hassaanshah24/minute2.0/internal/models"
	"github.com/hassaanshah24/minute2.0/internal/store"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// CreateMinuteInput carries the author-supplied fields of a new minute.
type CreateMinuteInput struct {
	Title        string  `json:"title"`
	Subject      string  `json:"subject"`
	Description  string  `json:"description"`
	Attachment   string  `json:"attachment"`
	SheetNumber  int     `json:"sheetNumber"`
	DepartmentID *uint64 `json:"departmentId"`
}

// MinuteTrack is the full history view of one minute: its ledger in chain
// order plus the append-only action trail.
type MinuteTrack struct {
	Minute    *models.Minute           `json:"minute"`
	Approvals []models.MinuteApproval  `json:"approvals"`
	Actions   []models.MinuteActionLog `json:"actions"`
}

// MinuteService owns the document side of the workflow: creation with a
// generated reference id, draft edits, and the read views. State
// transitions belong to the workflow engine, never to this service.
type MinuteService struct {
	db        *gorm.DB
	ledger    store.LedgerStore
	trail     store.ActionLog
	orgPrefix string
	log       zerolog.Logger
}

// NewMinuteService creates a minute service. orgPrefix is the leading
// segment of generated reference ids, e.g. "DHA/DSU".
func NewMinuteService(db *gorm.DB, orgPrefix string, log zerolog.Logger) *MinuteService {
	return &MinuteService{db: db, orgPrefix: orgPrefix, log: log}
}

// Create stores a new Draft minute with a generated reference id of the form
// <prefix>/<dept-code>/<MM-YYYY>/<seq>. The sequence restarts per department
// and month; generation and insert share a transaction so the id is unique.
func (s *MinuteService) Create(ctx context.Context, actorID uint64, input CreateMinuteInput) (*models.Minute, error) {
	if input.Title == "" || input.Description == "" {
		return nil, apperrors.Errorf(apperrors.KindInvalidInput, "title and description are required")
	}

	var minute *models.Minute
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var actor models.User
		if err := tx.First(&actor, actorID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("user", actorID)
			}
			return err
		}

		deptID := input.DepartmentID
		if deptID == nil {
			deptID = actor.DepartmentID
		}
		if deptID == nil {
			return apperrors.Errorf(apperrors.KindInvalidInput, "no department for minute numbering")
		}
		var dept models.Department
		if err := tx.First(&dept, *deptID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("department", *deptID)
			}
			return err
		}

		uniqueID, err := s.nextUniqueID(tx, dept.Code)
		if err != nil {
			return err
		}

		sheet := input.SheetNumber
		if sheet < 1 {
			sheet = 1
		}
		minute = &models.Minute{
			Title:        input.Title,
			Subject:      input.Subject,
			Description:  input.Description,
			Attachment:   input.Attachment,
			SheetNumber:  sheet,
			DepartmentID: deptID,
			CreatedByID:  actorID,
			UniqueID:     uniqueID,
			Status:       models.MinuteDraft,
		}
		return tx.Create(minute).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Uint64("minute_id", minute.MinuteID).
		Str("unique_id", minute.UniqueID).
		Msg("minute created")
	return minute, nil
}

// nextUniqueID builds the next reference id for a department in the current
// month. Counting shares the caller's transaction, and a LIKE on the month
// prefix keeps the scan on the unique_id index.
func (s *MinuteService) nextUniqueID(tx *gorm.DB, deptCode string) (string, error) {
	monthKey := time.Now().UTC().Format("01-2006")
	prefix := fmt.Sprintf("%s/%s/%s/", s.orgPrefix, deptCode, monthKey)

	var count int64
	err := tx.Model(&models.Minute{}).
		Where("unique_id LIKE ?", prefix+"%").
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%d", prefix, count+1), nil
}

// Get loads one minute with its department, author, and chain.
func (s *MinuteService) Get(ctx context.Context, minuteID uint64) (*models.Minute, error) {
	var minute models.Minute
	err := s.db.WithContext(ctx).
		Preload("Department").
		Preload("CreatedBy").
		Preload("Chain").
		First(&minute, minuteID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("minute", minuteID)
		}
		return nil, err
	}
	return &minute, nil
}

// Update edits a Draft minute. Only the creator may edit, and only before
// submission; everything after Draft belongs to the audit history.
func (s *MinuteService) Update(ctx context.Context, actorID, minuteID uint64, input CreateMinuteInput) (*models.Minute, error) {
	var minute *models.Minute
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		minute, err = s.ledger.LockMinute(tx, minuteID)
		if err != nil {
			return err
		}
		if minute.CreatedByID != actorID {
			return apperrors.Errorf(apperrors.KindNotAuthorized, "only the minute's creator can edit it")
		}
		if minute.Status != models.MinuteDraft {
			return apperrors.Errorf(apperrors.KindTerminalState, "minute %s is no longer editable", minute.UniqueID)
		}

		updates := map[string]interface{}{}
		if input.Title != "" {
			updates["title"] = input.Title
			minute.Title = input.Title
		}
		if input.Subject != "" {
			updates["subject"] = input.Subject
			minute.Subject = input.Subject
		}
		if input.Description != "" {
			updates["description"] = input.Description
			minute.Description = input.Description
		}
		if input.Attachment != "" {
			updates["attachment"] = input.Attachment
			minute.Attachment = input.Attachment
		}
		if input.SheetNumber > 0 {
			updates["sheet_number"] = input.SheetNumber
			minute.SheetNumber = input.SheetNumber
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(minute).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return minute, nil
}

// Delete removes a Draft minute. Submitted minutes are history and cannot
// be deleted.
func (s *MinuteService) Delete(ctx context.Context, actorID, minuteID uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		minute, err := s.ledger.LockMinute(tx, minuteID)
		if err != nil {
			return err
		}
		if minute.CreatedByID != actorID {
			return apperrors.Errorf(apperrors.KindNotAuthorized, "only the minute's creator can delete it")
		}
		if minute.Status != models.MinuteDraft {
			return apperrors.Errorf(apperrors.KindTerminalState, "minute %s is submitted and cannot be deleted", minute.UniqueID)
		}
		return tx.Delete(&models.Minute{}, minuteID).Error
	})
}

// Track returns the full history of a minute: ledger entries in chain order
// and the chronological action trail.
func (s *MinuteService) Track(ctx context.Context, minuteID uint64) (*MinuteTrack, error) {
	minute, err := s.Get(ctx, minuteID)
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	approvals, err := s.ledger.ForMinute(db, minuteID)
	if err != nil {
		return nil, err
	}
	actions, err := s.trail.ForMinute(db, minuteID)
	if err != nil {
		return nil, err
	}
	return &MinuteTrack{Minute: minute, Approvals: approvals, Actions: actions}, nil
}

// PendingForUser lists the ledger entries currently waiting on a user.
func (s *MinuteService) PendingForUser(ctx context.Context, userID uint64) ([]models.MinuteApproval, error) {
	return s.ledger.PendingForUser(s.db.WithContext(ctx), userID)
}

// ListByCreator lists a user's own minutes, newest first.
func (s *MinuteService) ListByCreator(ctx context.Context, userID uint64) ([]models.Minute, error) {
	var minutes []models.Minute
	err := s.db.WithContext(ctx).
		Where("created_by_id = ?", userID).
		Order("created_at DESC").
		Find(&minutes).Error
	return minutes, err
}

// Archived lists minutes that reached a terminal state, newest first.
func (s *MinuteService) Archived(ctx context.Context) ([]models.Minute, error) {
	var minutes []models.Minute
	err := s.db.WithContext(ctx).
		Preload("Department").
		Where("archived = ?", true).
		Order("updated_at DESC").
		Find(&minutes).Error
	return minutes, err
}
