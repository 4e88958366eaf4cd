package workflow

import (
	"context"
	"time"

	"github.com/hassaanshah24/minute2.0/internal/apperrors"
	"github.com/hassaanshah24/minute2.0/internal/models"
	"github.com/hassaanshah24/minute2.0/internal/store"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Notifier is the fire-and-forget collaborator informed after a transition
// commits. Implementations must not block and must swallow their own
// failures; the engine never depends on delivery.
type Notifier interface {
	TransitionApplied(minute *models.Minute, action string, actorID uint64, targetUserID *uint64)
}

// Engine owns every state transition of the approval workflow. All store
// mutations for one operation run inside a single transaction, serialized
// per minute by a row lock acquired before any ledger read. The engine
// mirrors chain member and ledger entry state explicitly in that same
// transaction; there is no observer mechanism.
type Engine struct {
	db     *gorm.DB
	chains store.ChainStore
	ledger store.LedgerStore
	trail  store.ActionLog
	notify Notifier
	log    zerolog.Logger
}

// NewEngine creates a workflow engine on top of the given database handle.
func NewEngine(db *gorm.DB, log zerolog.Logger) *Engine {
	return &Engine{db: db, log: log}
}

// SetNotifier attaches the post-commit notification collaborator.
func (e *Engine) SetNotifier(n Notifier) {
	e.notify = n
}

// actingContext is everything an approver action needs, loaded under the
// minute row lock.
type actingContext struct {
	entry  *models.MinuteApproval
	minute *models.Minute
	chain  *models.ApprovalChain
	member *models.Approver
}

// loadActing locks the minute, re-reads the ledger entry under the lock,
// and runs the checks shared by all four approver actions: terminal minute,
// actor identity, per-entry terminality, and the current flag.
func (e *Engine) loadActing(tx *gorm.DB, approvalID, actorID uint64) (*actingContext, error) {
	entry, err := e.ledger.GetEntry(tx, approvalID)
	if err != nil {
		return nil, err
	}

	minute, err := e.ledger.LockMinute(tx, entry.MinuteID)
	if err != nil {
		return nil, err
	}

	// Re-read under the lock so a concurrent transition that committed
	// between the first read and the lock is visible.
	entry, err = e.ledger.GetEntry(tx, approvalID)
	if err != nil {
		return nil, err
	}

	if minute.Archived || minute.Terminal() {
		return nil, apperrors.ErrTerminalState
	}
	if entry.ApproverID != actorID {
		return nil, apperrors.ErrNotAuthorized
	}
	if entry.Status != models.StatusPending {
		return nil, apperrors.ErrAlreadyActed
	}
	if !entry.CurrentApprover {
		return nil, apperrors.ErrNotCurrentApprover
	}

	chain, err := e.chains.GetChain(tx, entry.ChainID)
	if err != nil {
		return nil, err
	}
	member, err := e.chains.GetMember(tx, entry.ChainID, actorID)
	if err != nil {
		return nil, err
	}

	return &actingContext{entry: entry, minute: minute, chain: chain, member: member}, nil
}

// Submit binds the minute's chain to the ledger and activates the first
// approver. Only the minute's creator may submit, the minute must still be
// a draft, and the chain must have at least one member.
func (e *Engine) Submit(ctx context.Context, actorID, minuteID uint64, remarks string) (*models.Minute, error) {
	var minute *models.Minute
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		minute, err = e.ledger.LockMinute(tx, minuteID)
		if err != nil {
			return err
		}
		if minute.Archived || minute.Terminal() {
			return apperrors.ErrTerminalState
		}
		if minute.CreatedByID != actorID {
			return apperrors.Errorf(apperrors.KindNotAuthorized, "only the minute's creator can submit it")
		}
		if minute.Status != models.MinuteDraft {
			return apperrors.Errorf(apperrors.KindDuplicateEntry, "minute %s is already submitted", minute.UniqueID)
		}
		if minute.ChainID == nil {
			return apperrors.Errorf(apperrors.KindEmptyChain, "minute %s has no approval chain", minute.UniqueID)
		}

		members, err := e.chains.Members(tx, *minute.ChainID)
		if err != nil {
			return err
		}
		if len(members) == 0 {
			return apperrors.ErrEmptyChain
		}

		first := &members[0]
		if err := e.chains.MarkCurrent(tx, first); err != nil {
			return err
		}
		if _, err := e.ledger.CreateEntry(tx, minuteID, *minute.ChainID, first.UserID, first.Order, true); err != nil {
			return err
		}

		minute.Status = models.MinuteSubmitted
		if err := tx.Model(minute).Update("status", models.MinuteSubmitted).Error; err != nil {
			return err
		}

		return e.trail.Append(tx, minuteID, models.ActionSubmit, actorID, &first.UserID, remarks, nil)
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Uint64("minute_id", minute.MinuteID).
		Str("unique_id", minute.UniqueID).
		Msg("minute submitted for approval")
	e.fireNotify(minute, models.ActionSubmit, actorID, nil)

	return minute, nil
}

// Approve records the current approver's approval and advances the flow:
// the next Pending member becomes current, or, when none remains, the chain
// completes and the minute is archived as Approved.
func (e *Engine) Approve(ctx context.Context, actorID, approvalID uint64, remarks string) (*models.MinuteApproval, error) {
	if remarks == "" {
		remarks = "Approved without remarks"
	}

	var acting *actingContext
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		acting, err = e.loadActing(tx, approvalID, actorID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()

		if err := e.ledger.MarkResult(tx, acting.entry, models.StatusApproved, models.ActionApprove, remarks, nil, now); err != nil {
			return err
		}
		if err := e.chains.SetResult(tx, acting.member, models.StatusApproved, now); err != nil {
			return err
		}

		next, err := e.chains.NextPendingAfter(tx, acting.chain.ChainID, acting.member.Order)
		if err != nil {
			return err
		}
		if next != nil {
			if err := e.chains.MarkCurrent(tx, next); err != nil {
				return err
			}
			existing, err := e.ledger.FindByApprover(tx, acting.minute.MinuteID, next.UserID)
			if err != nil {
				return err
			}
			if existing != nil {
				if err := e.ledger.Reopen(tx, existing); err != nil {
					return err
				}
			} else if _, err := e.ledger.CreateEntry(tx, acting.minute.MinuteID, acting.chain.ChainID, next.UserID, next.Order, true); err != nil {
				return err
			}
		} else {
			if err := e.completeLocked(tx, acting.chain, acting.minute, true); err != nil {
				return err
			}
		}

		return e.trail.Append(tx, acting.minute.MinuteID, models.ActionApprove, actorID, nil, remarks, nil)
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Uint64("minute_id", acting.minute.MinuteID).
		Uint64("approver_id", actorID).
		Int("order", acting.entry.Order).
		Bool("final", acting.minute.Terminal()).
		Msg("minute approved")
	e.fireNotify(acting.minute, models.ActionApprove, actorID, nil)

	return acting.entry, nil
}

// Reject records a rejection. Rejection is terminal for the entire chain:
// every other Pending member and ledger entry is forced to Rejected, the
// chain completes, and the minute is archived as Rejected.
func (e *Engine) Reject(ctx context.Context, actorID, approvalID uint64, remarks string) (*models.MinuteApproval, error) {
	if remarks == "" {
		remarks = "Rejected without remarks"
	}

	var acting *actingContext
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		acting, err = e.loadActing(tx, approvalID, actorID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()

		if err := e.ledger.MarkResult(tx, acting.entry, models.StatusRejected, models.ActionReject, remarks, nil, now); err != nil {
			return err
		}
		if err := e.chains.SetResult(tx, acting.member, models.StatusRejected, now); err != nil {
			return err
		}
		if err := e.chains.RejectPending(tx, acting.chain.ChainID, actorID); err != nil {
			return err
		}
		if err := e.ledger.RejectPending(tx, acting.minute.MinuteID, acting.entry.ApprovalID); err != nil {
			return err
		}
		if err := e.completeLocked(tx, acting.chain, acting.minute, false); err != nil {
			return err
		}

		return e.trail.Append(tx, acting.minute.MinuteID, models.ActionReject, actorID, nil, remarks, nil)
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Uint64("minute_id", acting.minute.MinuteID).
		Uint64("approver_id", actorID).
		Msg("minute rejected; chain terminated")
	e.fireNotify(acting.minute, models.ActionReject, actorID, nil)

	return acting.entry, nil
}

// MarkTo inserts targetUserID into the chain at the given position (current
// order + 1 when nil) and hands them the flow. Members at or after the
// position shift up by one; everyone after the target still acts afterward.
func (e *Engine) MarkTo(ctx context.Context, actorID, approvalID, targetUserID uint64, order *int, remarks string) (*models.MinuteApproval, error) {
	var acting *actingContext
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		acting, err = e.loadActing(tx, approvalID, actorID)
		if err != nil {
			return err
		}

		var target models.User
		if err := tx.First(&target, targetUserID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("user", targetUserID)
			}
			return err
		}

		newOrder := acting.member.Order + 1
		if order != nil {
			newOrder = *order
		}

		// All validations run before any mutation: range and duplicate
		// membership are checked by AddMember prior to its shift, and the
		// ledger mirror shift below happens only after it succeeds.
		newMember, err := e.chains.AddMember(tx, acting.chain.ChainID, targetUserID, &newOrder)
		if err != nil {
			return err
		}
		if err := e.ledger.ShiftOrders(tx, acting.minute.MinuteID, newOrder); err != nil {
			return err
		}

		if remarks == "" {
			remarks = "Marked to " + target.FullName()
		}
		now := time.Now().UTC()
		if err := e.ledger.MarkResult(tx, acting.entry, models.StatusMarked, models.ActionMarkTo, remarks, &targetUserID, now); err != nil {
			return err
		}
		if err := e.chains.SetResult(tx, acting.member, models.StatusMarked, now); err != nil {
			return err
		}

		if err := e.chains.MarkCurrent(tx, newMember); err != nil {
			return err
		}
		if _, err := e.ledger.CreateEntry(tx, acting.minute.MinuteID, acting.chain.ChainID, targetUserID, newOrder, true); err != nil {
			return err
		}

		return e.trail.Append(tx, acting.minute.MinuteID, models.ActionMarkTo, actorID, &targetUserID, remarks,
			map[string]interface{}{"order": newOrder})
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Uint64("minute_id", acting.minute.MinuteID).
		Uint64("approver_id", actorID).
		Uint64("target_user_id", targetUserID).
		Msg("minute marked to new approver")
	e.fireNotify(acting.minute, models.ActionMarkTo, actorID, &targetUserID)

	return acting.entry, nil
}

// ReturnTo rewinds the flow to an earlier approver. The target must hold a
// ledger entry with a strictly lower recorded order and must not have
// rejected the minute. Returning to an approver who already approved is
// tolerated with a warning; only their decision reopens, intervening
// approvals stand. The acting entry is marked Returned but the actor's chain
// slot stays Pending: once the reopened approver re-approves, the flow skips
// the intervening Approved members and comes back to the returner, whose
// ledger entry reopens through the approve progression.
func (e *Engine) ReturnTo(ctx context.Context, actorID, approvalID, targetUserID uint64, remarks string) (*models.MinuteApproval, error) {
	var acting *actingContext
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		acting, err = e.loadActing(tx, approvalID, actorID)
		if err != nil {
			return err
		}

		targetEntry, err := e.ledger.FindByApprover(tx, acting.minute.MinuteID, targetUserID)
		if err != nil {
			return err
		}
		if targetEntry == nil {
			return apperrors.Errorf(apperrors.KindNoPriorApproval, "user %d has no approval record for this minute", targetUserID)
		}
		if targetEntry.Order >= acting.entry.Order {
			return apperrors.Errorf(apperrors.KindInvalidReturnTarget,
				"cannot return to order %d from order %d", targetEntry.Order, acting.entry.Order)
		}
		if targetEntry.Status == models.StatusRejected {
			return apperrors.ErrReturnToRejected
		}

		reopenedApproval := targetEntry.Status == models.StatusApproved
		if reopenedApproval {
			e.log.Warn().
				Uint64("minute_id", acting.minute.MinuteID).
				Uint64("target_user_id", targetUserID).
				Msg("returning minute to an approver who already approved it")
		}

		if remarks == "" {
			remarks = "Returned for re-evaluation"
		}
		now := time.Now().UTC()
		if err := e.ledger.MarkResult(tx, acting.entry, models.StatusReturned, models.ActionReturnTo, remarks, &targetUserID, now); err != nil {
			return err
		}

		if err := e.ledger.Reopen(tx, targetEntry); err != nil {
			return err
		}
		targetMember, err := e.chains.GetMember(tx, acting.chain.ChainID, targetUserID)
		if err != nil {
			return err
		}
		if err := e.chains.MarkCurrent(tx, targetMember); err != nil {
			return err
		}

		// The minute reopens; it is neither terminal nor archived.
		acting.minute.Status = models.MinutePending
		if err := tx.Model(acting.minute).Update("status", models.MinutePending).Error; err != nil {
			return err
		}

		var metadata map[string]interface{}
		if reopenedApproval {
			metadata = map[string]interface{}{"reopened_prior_approval": true}
		}
		return e.trail.Append(tx, acting.minute.MinuteID, models.ActionReturnTo, actorID, &targetUserID, remarks, metadata)
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Uint64("minute_id", acting.minute.MinuteID).
		Uint64("approver_id", actorID).
		Uint64("target_user_id", targetUserID).
		Msg("minute returned to earlier approver")
	e.fireNotify(acting.minute, models.ActionReturnTo, actorID, &targetUserID)

	return acting.entry, nil
}

// AddApprover appends or inserts a member into a chain outside an approver
// action (pre-submission edits, admin fixes). Completed chains are closed
// to edits.
func (e *Engine) AddApprover(ctx context.Context, chainID, userID uint64, order *int) (*models.Approver, error) {
	var member *models.Approver
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chain, err := e.chains.GetChain(tx, chainID)
		if err != nil {
			return err
		}
		if chain.Status == models.ChainCompleted {
			return apperrors.ErrTerminalState
		}
		if chain.MinuteID != nil {
			if _, err := e.ledger.LockMinute(tx, *chain.MinuteID); err != nil {
				return err
			}
			if order != nil {
				if err := e.ledger.ShiftOrders(tx, *chain.MinuteID, *order); err != nil {
					return err
				}
			}
		}
		member, err = e.chains.AddMember(tx, chainID, userID, order)
		return err
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// Renumber closes order gaps on a chain and mirrors the fresh positions
// onto the minute's ledger.
func (e *Engine) Renumber(ctx context.Context, chainID uint64) error {
	return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chain, err := e.chains.GetChain(tx, chainID)
		if err != nil {
			return err
		}
		if chain.MinuteID != nil {
			if _, err := e.ledger.LockMinute(tx, *chain.MinuteID); err != nil {
				return err
			}
		}
		if err := e.chains.Renumber(tx, chainID); err != nil {
			return err
		}
		if chain.MinuteID == nil {
			return nil
		}

		members, err := e.chains.Members(tx, chainID)
		if err != nil {
			return err
		}
		for _, member := range members {
			err := tx.Model(&models.MinuteApproval{}).
				Where("minute_id = ? AND approver_id = ?", *chain.MinuteID, member.UserID).
				Update("approval_order", member.Order).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// CompleteChain marks a chain Completed and mirrors the outcome onto its
// minute. Idempotent: completing an already Completed chain is a no-op and
// writes nothing.
func (e *Engine) CompleteChain(ctx context.Context, chainID uint64, approved bool) error {
	return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chain, err := e.chains.GetChain(tx, chainID)
		if err != nil {
			return err
		}
		if chain.Status == models.ChainCompleted {
			return nil
		}
		if chain.MinuteID == nil {
			_, err := e.chains.Complete(tx, chain)
			return err
		}
		minute, err := e.ledger.LockMinute(tx, *chain.MinuteID)
		if err != nil {
			return err
		}
		return e.completeLocked(tx, chain, minute, approved)
	})
}

// completeLocked finishes a chain and archives its minute under an already
// held minute lock.
func (e *Engine) completeLocked(tx *gorm.DB, chain *models.ApprovalChain, minute *models.Minute, approved bool) error {
	changed, err := e.chains.Complete(tx, chain)
	if err != nil || !changed {
		return err
	}

	status := models.MinuteApproved
	if !approved {
		status = models.MinuteRejected
	}
	minute.Status = status
	minute.Archived = true
	return tx.Model(minute).
		Select("status", "archived").
		Updates(map[string]interface{}{"status": status, "archived": true}).Error
}

// fireNotify hands the committed transition to the notifier, if any.
func (e *Engine) fireNotify(minute *models.Minute, action string, actorID uint64, targetUserID *uint64) {
	if e.notify == nil {
		return
	}
	e.notify.TransitionApplied(minute, action, actorID, targetUserID)
}
