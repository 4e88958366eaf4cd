package store

import (
	"time"

	"github.com/hassaanshah24/minute2.0/internal/apperrors"
	"github.com/hassaanshah24/minute2.0/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerStore persists one MinuteApproval per (minute, approver) pair and
// owns the single-current-approver discipline on the ledger side.
type LedgerStore struct{}

// GetEntry loads a ledger entry by primary key.
func (LedgerStore) GetEntry(tx *gorm.DB, approvalID uint64) (*models.MinuteApproval, error) {
	var entry models.MinuteApproval
	if err := tx.First(&entry, approvalID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("approval entry", approvalID)
		}
		return nil, err
	}
	return &entry, nil
}

// LockMinute acquires the row lock that serializes all transitions for one
// minute. Every engine operation takes this lock before reading ledger
// state so concurrent actions on the same document cannot interleave.
// SQLite has no FOR UPDATE; its single-writer transaction model already
// serializes, so the clause is skipped there.
func (LedgerStore) LockMinute(tx *gorm.DB, minuteID uint64) (*models.Minute, error) {
	q := tx
	if tx.Dialector.Name() != "sqlite" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var minute models.Minute
	err := q.First(&minute, minuteID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("minute", minuteID)
		}
		return nil, err
	}
	return &minute, nil
}

// CreateEntry inserts a ledger entry for an approver. When asCurrent is set
// the current flag is cleared from every other entry of the minute first,
// keeping the at-most-one-current invariant inside the same transaction.
// Fails when the (minute, approver) pair already exists.
func (s LedgerStore) CreateEntry(tx *gorm.DB, minuteID, chainID, approverID uint64, order int, asCurrent bool) (*models.MinuteApproval, error) {
	var count int64
	if err := tx.Model(&models.MinuteApproval{}).
		Where("minute_id = ? AND approver_id = ?", minuteID, approverID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateEntry
	}

	if asCurrent {
		if err := s.ClearCurrent(tx, minuteID); err != nil {
			return nil, err
		}
	}

	entry := &models.MinuteApproval{
		MinuteID:        minuteID,
		ChainID:         chainID,
		ApproverID:      approverID,
		Order:           order,
		Status:          models.StatusPending,
		CurrentApprover: asCurrent,
	}
	if err := tx.Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// FindByApprover returns the ledger entry a given user holds for a minute,
// or nil when the user never appeared in the flow.
func (LedgerStore) FindByApprover(tx *gorm.DB, minuteID, userID uint64) (*models.MinuteApproval, error) {
	var entry models.MinuteApproval
	err := tx.Where("minute_id = ? AND approver_id = ?", minuteID, userID).
		First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// FindCurrent returns the single current entry for a minute, or nil when the
// minute has no active approver (terminal or not yet submitted).
func (LedgerStore) FindCurrent(tx *gorm.DB, minuteID uint64) (*models.MinuteApproval, error) {
	var entry models.MinuteApproval
	err := tx.Where("minute_id = ? AND current_approver = ?", minuteID, true).
		First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// ClearCurrent drops the current flag from every entry of the minute.
func (LedgerStore) ClearCurrent(tx *gorm.DB, minuteID uint64) error {
	return tx.Model(&models.MinuteApproval{}).
		Where("minute_id = ? AND current_approver = ?", minuteID, true).
		Update("current_approver", false).Error
}

// MarkResult records the outcome of an action on an entry and clears its
// current flag. targetUserID is set for mark-to/return-to only.
func (LedgerStore) MarkResult(tx *gorm.DB, entry *models.MinuteApproval, status, action, remarks string, targetUserID *uint64, at time.Time) error {
	entry.Status = status
	entry.Action = &action
	entry.Remarks = &remarks
	entry.TargetUserID = targetUserID
	entry.ActionTime = &at
	entry.CurrentApprover = false
	return tx.Model(entry).
		Select("status", "action", "remarks", "target_user_id", "action_time", "current_approver").
		Updates(map[string]interface{}{
			"status":           status,
			"action":           action,
			"remarks":          remarks,
			"target_user_id":   targetUserID,
			"action_time":      at,
			"current_approver": false,
		}).Error
}

// Reopen puts a previously acted entry back to Pending and makes it current
// again. Used by return-to and by the approve progression when the next
// member already holds an entry (a returner re-entering the flow). Clears
// the current flag from any other holder first.
func (s LedgerStore) Reopen(tx *gorm.DB, entry *models.MinuteApproval) error {
	if err := s.ClearCurrent(tx, entry.MinuteID); err != nil {
		return err
	}
	entry.Status = models.StatusPending
	entry.CurrentApprover = true
	return tx.Model(entry).
		Select("status", "current_approver").
		Updates(map[string]interface{}{
			"status":           models.StatusPending,
			"current_approver": true,
		}).Error
}

// RejectPending bulk-transitions every Pending entry of the minute except
// the acting one to Rejected. Rejection is terminal for the whole chain.
func (LedgerStore) RejectPending(tx *gorm.DB, minuteID, exceptApprovalID uint64) error {
	return tx.Model(&models.MinuteApproval{}).
		Where("minute_id = ? AND approval_id <> ? AND status = ?",
			minuteID, exceptApprovalID, models.StatusPending).
		Updates(map[string]interface{}{
			"status":           models.StatusRejected,
			"current_approver": false,
		}).Error
}

// HasPending reports whether any entry of the minute is still Pending.
func (LedgerStore) HasPending(tx *gorm.DB, minuteID uint64) (bool, error) {
	var count int64
	err := tx.Model(&models.MinuteApproval{}).
		Where("minute_id = ? AND status = ?", minuteID, models.StatusPending).
		Count(&count).Error
	return count > 0, err
}

// ShiftOrders mirrors a chain-side order shift onto the ledger so recorded
// positions stay comparable with the chain definition. Two-phase through
// the negative keyspace like the chain store.
func (LedgerStore) ShiftOrders(tx *gorm.DB, minuteID uint64, from int) error {
	err := tx.Model(&models.MinuteApproval{}).
		Where("minute_id = ? AND approval_order >= ?", minuteID, from).
		Update("approval_order", gorm.Expr("-(approval_order + 1)")).Error
	if err != nil {
		return err
	}
	return tx.Model(&models.MinuteApproval{}).
		Where("minute_id = ? AND approval_order < 0", minuteID).
		Update("approval_order", gorm.Expr("-approval_order")).Error
}

// ForMinute returns the full ledger of a minute ordered by position.
func (LedgerStore) ForMinute(tx *gorm.DB, minuteID uint64) ([]models.MinuteApproval, error) {
	var entries []models.MinuteApproval
	err := tx.Preload("Approver").
		Where("minute_id = ?", minuteID).
		Order("approval_order ASC").
		Find(&entries).Error
	return entries, err
}

// PendingForUser returns every entry where the user is the active approver,
// newest first. Dashboard query; runs without locks.
func (LedgerStore) PendingForUser(tx *gorm.DB, userID uint64) ([]models.MinuteApproval, error) {
	var entries []models.MinuteApproval
	err := tx.Preload("Minute").
		Where("approver_id = ? AND current_approver = ? AND status = ?",
			userID, true, models.StatusPending).
		Order("updated_at DESC").
		Find(&entries).Error
	return entries, err
}
