package store

import (
	"time"

	"github.com/hassaanshah24/minute2.0/internal/apperrors"
	"github.com/hassaanshah24/minute2.0/internal/models"
	"gorm.io/gorm"
)

// ChainStore persists the ordered approver list of an approval chain.
// Every method takes the transaction handle it must run under; the workflow
// engine owns transaction boundaries.
type ChainStore struct{}

// GetChain loads a chain by id.
func (ChainStore) GetChain(tx *gorm.DB, chainID uint64) (*models.ApprovalChain, error) {
	var chain models.ApprovalChain
	if err := tx.First(&chain, chainID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &chain, nil
}

// GetMember loads the chain member slot for a user.
func (ChainStore) GetMember(tx *gorm.DB, chainID, userID uint64) (*models.Approver, error) {
	var member models.Approver
	err := tx.Where("chain_id = ? AND user_id = ?", chainID, userID).First(&member).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

// Members returns all chain members ordered by their position.
func (ChainStore) Members(tx *gorm.DB, chainID uint64) ([]models.Approver, error) {
	var members []models.Approver
	err := tx.Where("chain_id = ?", chainID).Order("approval_order ASC").Find(&members).Error
	return members, err
}

// MaxOrder returns the highest occupied position, 0 for an empty chain.
func (ChainStore) MaxOrder(tx *gorm.DB, chainID uint64) (int, error) {
	var max *int
	err := tx.Model(&models.Approver{}).
		Where("chain_id = ?", chainID).
		Select("MAX(approval_order)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

// AddMember inserts a new Pending member at the given position, shifting
// members at or after it up by one so positions stay 1-based and dense.
// A nil order appends at maxOrder+1. Fails when the position is outside
// [1, maxOrder+1] or the user already holds a slot in the chain.
func (s ChainStore) AddMember(tx *gorm.DB, chainID, userID uint64, order *int) (*models.Approver, error) {
	maxOrder, err := s.MaxOrder(tx, chainID)
	if err != nil {
		return nil, err
	}

	target := maxOrder + 1
	if order != nil {
		target = *order
	}
	if target < 1 || target > maxOrder+1 {
		return nil, apperrors.InvalidOrder(target, maxOrder)
	}

	var count int64
	if err := tx.Model(&models.Approver{}).
		Where("chain_id = ? AND user_id = ?", chainID, userID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateMember
	}

	if err := s.ShiftOrders(tx, chainID, target); err != nil {
		return nil, err
	}

	member := &models.Approver{
		ChainID: chainID,
		UserID:  userID,
		Order:   target,
		Status:  models.StatusPending,
	}
	if err := tx.Create(member).Error; err != nil {
		return nil, err
	}
	return member, nil
}

// ShiftOrders increments approval_order by one for every member at or after
// from. The shift runs in two phases through the negative keyspace so the
// unique (chain, order) index is never transiently violated regardless of
// the dialect's row update order.
func (ChainStore) ShiftOrders(tx *gorm.DB, chainID uint64, from int) error {
	err := tx.Model(&models.Approver{}).
		Where("chain_id = ? AND approval_order >= ?", chainID, from).
		Update("approval_order", gorm.Expr("-(approval_order + 1)")).Error
	if err != nil {
		return err
	}
	return tx.Model(&models.Approver{}).
		Where("chain_id = ? AND approval_order < 0", chainID).
		Update("approval_order", gorm.Expr("-approval_order")).Error
}

// NextPendingAfter returns the Pending member with the smallest position
// strictly greater than order, or nil when the chain is exhausted.
func (ChainStore) NextPendingAfter(tx *gorm.DB, chainID uint64, order int) (*models.Approver, error) {
	var member models.Approver
	err := tx.Where("chain_id = ? AND status = ? AND approval_order > ?",
		chainID, models.StatusPending, order).
		Order("approval_order ASC").
		First(&member).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

// Renumber reassigns positions 1..N preserving relative order, closing any
// gaps left by ad-hoc edits. Runs through the negative keyspace like
// ShiftOrders to keep the unique index satisfied mid-flight.
func (s ChainStore) Renumber(tx *gorm.DB, chainID uint64) error {
	members, err := s.Members(tx, chainID)
	if err != nil {
		return err
	}
	for idx, member := range members {
		if err := tx.Model(&models.Approver{}).
			Where("approver_id = ?", member.ApproverID).
			Update("approval_order", -(idx + 1)).Error; err != nil {
			return err
		}
	}
	return tx.Model(&models.Approver{}).
		Where("chain_id = ? AND approval_order < 0", chainID).
		Update("approval_order", gorm.Expr("-approval_order")).Error
}

// MarkCurrent flags the member as the single active approver of its chain,
// clearing the flag from any sibling first.
func (ChainStore) MarkCurrent(tx *gorm.DB, member *models.Approver) error {
	err := tx.Model(&models.Approver{}).
		Where("chain_id = ? AND is_current = ?", member.ChainID, true).
		Update("is_current", false).Error
	if err != nil {
		return err
	}
	member.IsCurrent = true
	member.Status = models.StatusPending
	return tx.Model(member).
		Select("is_current", "status").
		Updates(map[string]interface{}{"is_current": true, "status": models.StatusPending}).Error
}

// SetResult records a member's decision and clears their current flag.
func (ChainStore) SetResult(tx *gorm.DB, member *models.Approver, status string, at time.Time) error {
	member.Status = status
	member.IsCurrent = false
	member.ActionTime = &at
	return tx.Model(member).
		Select("status", "is_current", "action_time").
		Updates(map[string]interface{}{
			"status":      status,
			"is_current":  false,
			"action_time": at,
		}).Error
}

// RejectPending bulk-transitions every other Pending member of the chain to
// Rejected. Used when a rejection terminates the whole chain: nobody after
// (or besides) the rejecting approver acts again.
func (ChainStore) RejectPending(tx *gorm.DB, chainID, exceptUserID uint64) error {
	return tx.Model(&models.Approver{}).
		Where("chain_id = ? AND user_id <> ? AND status = ?",
			chainID, exceptUserID, models.StatusPending).
		Updates(map[string]interface{}{
			"status":     models.StatusRejected,
			"is_current": false,
		}).Error
}

// Complete marks the chain Completed. Idempotent: completing a Completed
// chain changes nothing.
func (ChainStore) Complete(tx *gorm.DB, chain *models.ApprovalChain) (bool, error) {
	if chain.Status == models.ChainCompleted {
		return false, nil
	}
	chain.Status = models.ChainCompleted
	return true, tx.Model(chain).Update("status", models.ChainCompleted).Error
}
